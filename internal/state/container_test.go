package state

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/tabas/internal/domain"
	"github.com/MrSnakeDoc/tabas/internal/host"
	"github.com/MrSnakeDoc/tabas/internal/logger"
	"github.com/MrSnakeDoc/tabas/internal/persistence"
	"github.com/MrSnakeDoc/tabas/internal/storage"
	"github.com/MrSnakeDoc/tabas/internal/storage/memory"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type seqIDs struct{ n atomic.Int64 }

func (s *seqIDs) New() string {
	return "id-" + string(rune('a'+s.n.Add(1)-1))
}

// switchBackend fails every Set while failWrites is on. With holdGet armed,
// the next Get reads its value, signals entered and waits for release.
type switchBackend struct {
	storage.Backend
	failWrites atomic.Bool

	holdGet atomic.Bool
	entered chan struct{}
	release chan struct{}
}

func (b *switchBackend) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := b.Backend.Get(ctx, key)
	if b.holdGet.CompareAndSwap(true, false) {
		b.entered <- struct{}{}
		<-b.release
	}
	return v, err
}

func (b *switchBackend) Set(ctx context.Context, key string, value []byte) error {
	if b.failWrites.Load() {
		return errors.New("quota exceeded")
	}
	return b.Backend.Set(ctx, key, value)
}

type fixture struct {
	backend *switchBackend
	store   *storage.Adapter
	bridge  *host.Bridge
	c       *Container
}

func newFixture(t *testing.T, profiles []domain.Profile, selected string) *fixture {
	t.Helper()
	ctx := context.Background()

	backend := &switchBackend{Backend: memory.New()}
	store := storage.NewAdapter(backend)
	require.NoError(t, store.SaveProfiles(ctx, profiles))
	if selected != "" {
		require.NoError(t, store.SaveSelectedProfile(ctx, selected))
	}

	bridge := host.NewBridge(logger.NewNop())
	c := New(persistence.New(store, logger.NewNop()), bridge,
		WithClock(fixedClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}),
		WithIDs(&seqIDs{}),
	)
	require.NoError(t, c.Mount(ctx))
	t.Cleanup(c.Close)

	return &fixture{backend: backend, store: store, bridge: bridge, c: c}
}

func sampleProfiles() []domain.Profile {
	return []domain.Profile{
		{ID: "1", DisplayName: "Personal", Folders: []domain.Folder{
			{ID: "f1", DisplayName: "Reading", Tabs: []domain.Tab{
				{ID: "t1", DisplayName: "Go", URL: "https://go.dev"},
			}},
			{ID: "f2", DisplayName: "Later", Tabs: []domain.Tab{}},
		}},
		{ID: "2", DisplayName: "Work", Folders: []domain.Folder{}},
	}
}

func TestMountLoadsState(t *testing.T) {
	f := newFixture(t, sampleProfiles(), "1")

	assert.Equal(t, PhaseReady, f.c.Phase())
	assert.Len(t, f.c.Profiles(), 2)
	require.NotNil(t, f.c.SelectedProfile())
	assert.Equal(t, "Personal", f.c.SelectedProfile().DisplayName)
	assert.Len(t, f.c.Folders(), 2)
}

func TestMountDanglingSelection(t *testing.T) {
	f := newFixture(t, sampleProfiles(), "ghost")

	assert.Equal(t, PhaseReady, f.c.Phase())
	assert.Nil(t, f.c.SelectedProfile())
	assert.Empty(t, f.c.Folders())
}

func TestSnapshotIsACopy(t *testing.T) {
	f := newFixture(t, sampleProfiles(), "1")

	s := f.c.Snapshot()
	s.Profiles[0].DisplayName = "changed"
	s.SelectedProfile.Folders[0].Tabs[0].URL = "changed"

	assert.Equal(t, "Personal", f.c.Profiles()[0].DisplayName)
	assert.Equal(t, "https://go.dev", f.c.Folders()[0].Tabs[0].URL)
}

func TestCanAddTab(t *testing.T) {
	f := newFixture(t, sampleProfiles(), "1")

	assert.False(t, f.c.CanAddTab("f1", "https://go.dev"))
	assert.True(t, f.c.CanAddTab("f1", "https://go.dev/"), "match is exact")
	assert.True(t, f.c.CanAddTab("f2", "https://go.dev"))
	assert.True(t, f.c.CanAddTab("missing", "https://go.dev"))
}

func TestCanAddTabWithoutSelection(t *testing.T) {
	f := newFixture(t, sampleProfiles(), "")
	assert.True(t, f.c.CanAddTab("f1", "https://go.dev"))
}

func TestSelectMissingProfilePersistsDanglingID(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, sampleProfiles(), "1")

	require.NoError(t, f.c.SelectProfile(ctx, "3"))
	assert.Nil(t, f.c.SelectedProfile())

	id, err := f.store.SelectedProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "3", id)
}

func TestSelectProfileRollsBack(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, sampleProfiles(), "1")

	f.backend.failWrites.Store(true)
	err := f.c.SelectProfile(ctx, "2")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.Equal(t, "1", f.c.SelectedProfile().ID)
}

func TestCreateFolderIsFirstAndPersisted(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, sampleProfiles(), "1")

	folder, err := f.c.CreateFolder(ctx, "1", "  Inbox ")
	require.NoError(t, err)
	assert.Equal(t, "Inbox", folder.DisplayName)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), folder.CreationDate)
	assert.NotNil(t, folder.Tabs)

	assert.Equal(t, folder.ID, f.c.Folders()[0].ID)

	stored, err := f.store.Profiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, folder.ID, stored[0].Folders[0].ID)
	assert.Len(t, stored[0].Folders, 3)
}

func TestCreateFolderRejectsEmptyName(t *testing.T) {
	f := newFixture(t, sampleProfiles(), "1")
	_, err := f.c.CreateFolder(context.Background(), "1", "   ")
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestFailedWriteRestoresState(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, sampleProfiles(), "1")
	before := f.c.Snapshot()

	f.backend.failWrites.Store(true)
	err := f.c.DeleteFolder(ctx, "1", "f1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStorage)

	after := f.c.Snapshot()
	assert.Equal(t, before.Profiles, after.Profiles)
	assert.Equal(t, before.Folders, after.Folders)
}

func TestMissingTargetIsNotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, sampleProfiles(), "1")

	err := f.c.DeleteTab(ctx, "1", "f1", "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = f.c.UpdateFolder(ctx, "9", domain.Folder{ID: "f1"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStorageAheadOfMemoryReverts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, sampleProfiles(), "1")

	// another surface removed the folder behind our back
	_, err := persistence.New(f.store, logger.NewNop()).DeleteFolder(ctx, "1", "f2")
	require.NoError(t, err)

	err = f.c.DeleteFolder(ctx, "1", "f2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Len(t, f.c.Folders(), 2, "memory restored to its last known state")
}

func TestDeleteSelectedProfileClearsSelection(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, sampleProfiles(), "1")

	require.NoError(t, f.c.DeleteProfile(ctx, "1"))
	assert.Nil(t, f.c.SelectedProfile())
	assert.Len(t, f.c.Profiles(), 1)
}

func TestCreateProfileSelectsIt(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, sampleProfiles(), "1")

	p, err := f.c.CreateProfile(ctx, "Side project", "weekend")
	require.NoError(t, err)

	assert.Len(t, f.c.Profiles(), 3)
	require.NotNil(t, f.c.SelectedProfile())
	assert.Equal(t, p.ID, f.c.SelectedProfile().ID)
	assert.Empty(t, f.c.Folders())
}

func TestMoveAndReorder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, sampleProfiles(), "1")

	require.NoError(t, f.c.MoveTab(ctx, "1", "f1", "f2", "t1", 0))
	folders := f.c.Folders()
	assert.Empty(t, folders[0].Tabs)
	assert.Equal(t, "t1", folders[1].Tabs[0].ID)

	reordered := []domain.Folder{folders[1], folders[0]}
	require.NoError(t, f.c.UpdateProfileFolders(ctx, "1", reordered))
	require.NoError(t, f.c.Refresh(ctx))
	assert.Equal(t, "f2", f.c.Folders()[0].ID)
}

func TestSaveCurrentTabRefetchesStoredState(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, sampleProfiles(), "1")

	f.bridge.Report([]domain.BrowserTab{{ID: "42", URL: "https://example.com", Active: true}},
		host.TabEvent{Kind: host.TabActivated, TabID: "42"})

	tab, err := f.c.SaveCurrentTab(ctx, "f2")
	require.NoError(t, err)
	assert.Equal(t, "42", tab.ID)
	assert.Equal(t, "Untitled", tab.DisplayName)

	assert.Len(t, f.c.SelectedProfile().Folders[1].Tabs, 1)
	assert.Len(t, f.c.Profiles()[0].Folders[1].Tabs, 1)
	assert.False(t, f.c.CanAddTab("f2", "https://example.com"))
}

func folderTabs(t *testing.T, folders []domain.Folder, id string) []domain.Tab {
	t.Helper()
	i := domain.FindFolder(folders, id)
	require.GreaterOrEqual(t, i, 0, "folder %s", id)
	return folders[i].Tabs
}

func TestMutationAfterSaveCurrentTabKeepsSavedTab(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, sampleProfiles(), "1")

	f.bridge.Report([]domain.BrowserTab{{ID: "99", URL: "https://example.com", Active: true}},
		host.TabEvent{Kind: host.TabActivated, TabID: "99"})
	_, err := f.c.SaveCurrentTab(ctx, "f2")
	require.NoError(t, err)

	_, err = f.c.CreateFolder(ctx, "1", "Inbox")
	require.NoError(t, err)
	assert.Len(t, folderTabs(t, f.c.Folders(), "f2"), 1)
	assert.False(t, f.c.CanAddTab("f2", "https://example.com"))

	require.NoError(t, f.c.DeleteTab(ctx, "1", "f2", "99"))
	assert.Empty(t, folderTabs(t, f.c.Folders(), "f2"))
	assert.True(t, f.c.CanAddTab("f2", "https://example.com"))

	stored, err := f.store.Profiles(ctx)
	require.NoError(t, err)
	assert.Empty(t, folderTabs(t, stored[0].Folders, "f2"))
}

func TestMutationAfterSaveSessionKeepsSavedTabs(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, sampleProfiles(), "1")

	f.bridge.Report([]domain.BrowserTab{
		{ID: "a", Title: "A", URL: "https://a.example"},
		{ID: "b", Title: "B", URL: "https://b.example", Active: true},
	}, host.TabEvent{Kind: host.TabActivated, TabID: "b"})
	_, err := f.c.SaveSession(ctx, "f2")
	require.NoError(t, err)

	require.NoError(t, f.c.UpdateFolder(ctx, "1", domain.Folder{ID: "f1", DisplayName: "Read"}))
	assert.Len(t, folderTabs(t, f.c.Folders(), "f2"), 2)
	assert.Len(t, folderTabs(t, f.c.Profiles()[0].Folders, "f2"), 2)
}

func TestMemoryBehindStorageReReads(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, sampleProfiles(), "1")

	// another surface adds a tab this container has not seen
	_, err := persistence.New(f.store, logger.NewNop()).
		CreateTab(ctx, "1", "f2", domain.Tab{ID: "t9", DisplayName: "Docs", URL: "https://docs.example"})
	require.NoError(t, err)

	err = f.c.UpdateTab(ctx, "1", "f2", domain.Tab{ID: "t9", DisplayName: "Manual", URL: "https://docs.example"})
	require.NoError(t, err)

	tabs := folderTabs(t, f.c.Folders(), "f2")
	require.Len(t, tabs, 1)
	assert.Equal(t, "Manual", tabs[0].DisplayName)
	assert.False(t, f.c.CanAddTab("f2", "https://docs.example"))
}

func TestRefreshOvertakenByMutationKeepsMutation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, sampleProfiles(), "1")

	f.backend.entered = make(chan struct{})
	f.backend.release = make(chan struct{})
	f.backend.holdGet.Store(true)

	refreshed := make(chan error, 1)
	go func() { refreshed <- f.c.Refresh(ctx) }()
	<-f.backend.entered // the refresh holds a read taken before the delete

	require.NoError(t, f.c.DeleteFolder(ctx, "1", "f2"))
	close(f.backend.release)
	require.NoError(t, <-refreshed)

	assert.Len(t, f.c.Folders(), 1)
	assert.Len(t, f.c.Profiles()[0].Folders, 1)
}

func TestSaveCurrentTabNeedsSelectionAndTab(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t, sampleProfiles(), "1")
	_, err := f.c.SaveCurrentTab(ctx, "f2")
	assert.ErrorIs(t, err, ErrNoActiveTab)

	g := newFixture(t, sampleProfiles(), "")
	g.bridge.Report([]domain.BrowserTab{{ID: "1", URL: "https://a", Active: true}}, host.TabEvent{})
	_, err = g.c.SaveCurrentTab(ctx, "f2")
	assert.ErrorIs(t, err, ErrNoSelection)
}

func TestSaveSessionSkipsDuplicates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, sampleProfiles(), "1")

	f.bridge.Report([]domain.BrowserTab{
		{ID: "1", Title: "Go", URL: "https://go.dev"},
		{ID: "2", Title: "A", URL: "https://a.example"},
		{ID: "3", Title: "A again", URL: "https://a.example"},
		{ID: "4", Title: "blank"},
		{ID: "5", Title: "B", URL: "https://b.example", Active: true},
	}, host.TabEvent{Kind: host.TabActivated, TabID: "5"})

	saved, err := f.c.SaveSession(ctx, "f1")
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.Equal(t, "2", saved[0].ID)
	assert.Equal(t, "5", saved[1].ID)
	assert.Len(t, f.c.SelectedProfile().Folders[0].Tabs, 3)

	_, err = f.c.SaveSession(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTabEventsTrackActivePage(t *testing.T) {
	f := newFixture(t, sampleProfiles(), "1")
	assert.Equal(t, "", f.c.ActivePageURL())

	f.bridge.Report([]domain.BrowserTab{{ID: "7", URL: "https://go.dev", Active: true}},
		host.TabEvent{Kind: host.TabActivated, TabID: "7"})
	require.Eventually(t, func() bool { return f.c.ActivePageURL() == "https://go.dev" },
		time.Second, 5*time.Millisecond)
	assert.False(t, f.c.CanAddCurrentTab("f1"))

	f.bridge.Report([]domain.BrowserTab{{ID: "7", URL: "https://pkg.go.dev", Active: true}},
		host.TabEvent{Kind: host.TabUpdated, TabID: "7"})
	require.Eventually(t, func() bool { return f.c.ActivePageURL() == "https://pkg.go.dev" },
		time.Second, 5*time.Millisecond)
	assert.True(t, f.c.CanAddCurrentTab("f1"))
}

func TestMountTwiceKeepsOneWatcher(t *testing.T) {
	f := newFixture(t, sampleProfiles(), "1")
	require.NoError(t, f.c.Mount(context.Background()))
	assert.Equal(t, 1, f.bridge.Subscribers())
}

func TestCloseIsIdempotent(t *testing.T) {
	f := newFixture(t, sampleProfiles(), "1")
	f.c.Close()
	f.c.Close()
	assert.Equal(t, 0, f.bridge.Subscribers())
}

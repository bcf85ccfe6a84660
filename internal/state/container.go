package state

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/MrSnakeDoc/tabas/internal/domain"
	"github.com/MrSnakeDoc/tabas/internal/host"
	"github.com/MrSnakeDoc/tabas/internal/logger"
	"github.com/MrSnakeDoc/tabas/internal/persistence"
)

var (
	ErrNoSelection = errors.New("no profile selected")
	ErrNoActiveTab = errors.New("no active tab reported by the browser")
	ErrEmptyName   = errors.New("name must not be empty")
)

// Phase is the container lifecycle state.
type Phase int

const (
	// PhaseUninitialized holds until the first successful fetch.
	PhaseUninitialized Phase = iota
	// PhaseReady means profiles and selection reflect storage at least once.
	PhaseReady
)

func (p Phase) String() string {
	if p == PhaseReady {
		return "ready"
	}
	return "uninitialized"
}

// Container is the in-memory view of one UI surface: the profile collection,
// the selected profile with its folders, and the URL of the active browser tab.
//
// Mutators update memory first with a structural copy, then persist. When the
// write fails the previous snapshot is restored (or, if another mutation
// landed in between, the state is re-read from storage) and the error is
// returned. Fetches that overlap a write are retried so an older read never
// replaces a newer optimistic state. The lock is never held across storage or
// host calls.
type Container struct {
	ops    *persistence.Operations
	env    host.Environment
	logger logger.Logger
	clock  domain.Clock
	ids    domain.IDGenerator

	mu          sync.RWMutex
	phase       Phase
	selected    *domain.Profile
	profiles    []domain.Profile
	folders     []domain.Folder
	activeURL   string
	activeTabID string
	gen         uint64
	// writes in flight and writes finished; a fetch that overlaps either is stale
	inflight int
	settled  uint64

	watchCancel context.CancelFunc
	watchDone   chan struct{}
}

// Option customizes a Container.
type Option func(*Container)

func WithLogger(log logger.Logger) Option {
	return func(c *Container) { c.logger = log }
}

func WithClock(clock domain.Clock) Option {
	return func(c *Container) { c.clock = clock }
}

func WithIDs(ids domain.IDGenerator) Option {
	return func(c *Container) { c.ids = ids }
}

// New builds a container. Call Mount before serving and Close on teardown.
func New(ops *persistence.Operations, env host.Environment, opts ...Option) *Container {
	c := &Container{
		ops:      ops,
		env:      env,
		logger:   logger.NewNop(),
		clock:    domain.RealClock{},
		profiles: []domain.Profile{},
		folders:  []domain.Folder{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.ids == nil {
		c.ids = domain.NewTimestampIDs(c.clock)
	}
	return c
}

// ─────────────────────────────────────────────────────────────────
// Reads
// ─────────────────────────────────────────────────────────────────

// Snapshot is a consistent, deep-copied view of the container.
type Snapshot struct {
	Phase           Phase
	SelectedProfile *domain.Profile
	Profiles        []domain.Profile
	Folders         []domain.Folder
	ActivePageURL   string
}

func (c *Container) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Snapshot{
		Phase:         c.phase,
		Profiles:      domain.CloneProfiles(c.profiles),
		Folders:       domain.CloneFolders(c.folders),
		ActivePageURL: c.activeURL,
	}
	if c.selected != nil {
		p := c.selected.Clone()
		s.SelectedProfile = &p
	}
	return s
}

func (c *Container) Phase() Phase {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.phase
}

// SelectedProfile returns a copy of the selected profile, nil when none.
func (c *Container) SelectedProfile() *domain.Profile {
	return c.Snapshot().SelectedProfile
}

func (c *Container) Profiles() []domain.Profile {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return domain.CloneProfiles(c.profiles)
}

// Folders returns the folders of the selected profile.
func (c *Container) Folders() []domain.Folder {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return domain.CloneFolders(c.folders)
}

// ActivePageURL returns the last URL reported for the active tab, "" if unknown.
func (c *Container) ActivePageURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.activeURL
}

// CanAddTab is false only when the named folder of the selected profile
// already holds a tab with exactly this URL. Missing selection or folder is
// permissive.
func (c *Container) CanAddTab(folderID, url string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.selected == nil {
		c.logger.Debug("can add tab: no selected profile")
		return true
	}
	i := domain.FindFolder(c.selected.Folders, folderID)
	if i < 0 {
		c.logger.Debug("can add tab: unknown folder", logger.String("folder_id", folderID))
		return true
	}
	return !c.selected.Folders[i].HasURL(url)
}

// CanAddCurrentTab checks the tracked active page URL.
func (c *Container) CanAddCurrentTab(folderID string) bool {
	return c.CanAddTab(folderID, c.ActivePageURL())
}

// ─────────────────────────────────────────────────────────────────
// Fetches
// ─────────────────────────────────────────────────────────────────

// fetchAttempts bounds how often a fetch re-reads when writes keep landing.
const fetchAttempts = 3

// readMark records what a fetch started from.
type readMark struct {
	gen     uint64
	settled uint64
}

func (c *Container) markRead() readMark {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return readMark{gen: c.gen, settled: c.settled}
}

// staleLocked reports whether memory changed, or a write ran, since m.
func (c *Container) staleLocked(m readMark) bool {
	return c.inflight > 0 || c.gen != m.gen || c.settled != m.settled
}

// FetchProfiles replaces the collection with the stored one. The selected
// profile, if any, is re-read from the new collection. A read that overlaps a
// mutation is discarded and retried; once attempts run out the newer
// in-memory state is kept.
func (c *Container) FetchProfiles(ctx context.Context) error {
	for attempt := 1; ; attempt++ {
		mark := c.markRead()
		profiles, err := c.ops.Profiles(ctx)
		if err != nil {
			return fmt.Errorf("fetch profiles: %w", err)
		}

		c.mu.Lock()
		if c.staleLocked(mark) {
			c.mu.Unlock()
			if attempt == fetchAttempts {
				c.logger.Debug("profiles fetch overtaken by writes, keeping memory")
				return nil
			}
			continue
		}
		c.setProfilesLocked(profiles)
		c.phase = PhaseReady
		c.gen++
		c.mu.Unlock()
		return nil
	}
}

// FetchSelectedProfile resolves the stored selection against the stored
// collection. An absent or dangling reference leaves no profile selected.
// Only the selection view is updated, not the collection. Overlapping writes
// are handled like in FetchProfiles.
func (c *Container) FetchSelectedProfile(ctx context.Context) error {
	for attempt := 1; ; attempt++ {
		mark := c.markRead()
		id, err := c.ops.SelectedProfile(ctx)
		if err != nil {
			return fmt.Errorf("fetch selected profile: %w", err)
		}
		profiles, err := c.ops.Profiles(ctx)
		if err != nil {
			return fmt.Errorf("fetch selected profile: %w", err)
		}

		c.mu.Lock()
		if c.staleLocked(mark) {
			c.mu.Unlock()
			if attempt == fetchAttempts {
				c.logger.Debug("selection fetch overtaken by writes, keeping memory")
				return nil
			}
			continue
		}
		c.selectLocked(profiles, id)
		if id != "" && c.selected == nil {
			c.logger.Info("stored selection does not match any profile",
				logger.String("profile_id", id))
		}
		c.phase = PhaseReady
		c.gen++
		c.mu.Unlock()
		return nil
	}
}

// Refresh re-reads both the collection and the selection.
func (c *Container) Refresh(ctx context.Context) error {
	if err := c.FetchProfiles(ctx); err != nil {
		return err
	}
	return c.FetchSelectedProfile(ctx)
}

// ─────────────────────────────────────────────────────────────────
// Mutators
// ─────────────────────────────────────────────────────────────────

// SelectProfile switches the selection in memory, then persists the id as
// given. An id missing from the collection selects nothing but is still
// stored.
func (c *Container) SelectProfile(ctx context.Context, profileID string) error {
	c.mu.Lock()
	snap := c.snapshotLocked()
	c.selectLocked(c.profiles, profileID)
	c.gen++
	myGen := c.gen
	c.inflight++
	c.mu.Unlock()

	err := c.ops.SaveSelectedProfile(ctx, profileID)
	c.endWrite()
	if err != nil {
		c.rollback(ctx, "select profile", snap, myGen)
		return fmt.Errorf("select profile %s: %w", profileID, err)
	}
	return nil
}

// CreateProfile stores a new profile and makes it the selection, then
// re-reads storage.
func (c *Container) CreateProfile(ctx context.Context, name, description string) (domain.Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Profile{}, fmt.Errorf("create profile: %w", ErrEmptyName)
	}
	profile := domain.Profile{
		ID:           c.ids.New(),
		DisplayName:  name,
		Description:  description,
		CreationDate: c.clock.Now(),
		Folders:      []domain.Folder{},
	}
	if err := c.ops.CreateProfile(ctx, profile); err != nil {
		// the profile may be stored even though the selection write failed
		if rerr := c.Refresh(ctx); rerr != nil {
			c.logger.Warn("refresh after failed profile creation", logger.Error(rerr))
		}
		return profile, err
	}
	if err := c.Refresh(ctx); err != nil {
		return profile, err
	}
	return profile, nil
}

func (c *Container) DeleteProfile(ctx context.Context, profileID string) error {
	return c.apply(ctx, "delete profile", profileID, domain.RemoveProfile(profileID),
		func(ctx context.Context) (domain.Outcome, error) {
			return c.ops.DeleteProfile(ctx, profileID)
		})
}

func (c *Container) UpdateProfile(ctx context.Context, profile domain.Profile) error {
	return c.apply(ctx, "update profile", profile.ID, domain.ReplaceProfileInfo(profile),
		func(ctx context.Context) (domain.Outcome, error) {
			return c.ops.UpdateProfile(ctx, profile)
		})
}

// CreateFolder builds an empty folder and puts it first in the profile.
func (c *Container) CreateFolder(ctx context.Context, profileID, name string) (domain.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Folder{}, fmt.Errorf("create folder: %w", ErrEmptyName)
	}
	folder := domain.Folder{
		ID:           c.ids.New(),
		DisplayName:  name,
		CreationDate: c.clock.Now(),
		Tabs:         []domain.Tab{},
	}
	err := c.apply(ctx, "create folder", profileID, domain.PrependFolder(profileID, folder),
		func(ctx context.Context) (domain.Outcome, error) {
			return c.ops.CreateFolder(ctx, profileID, folder)
		})
	return folder, err
}

func (c *Container) UpdateFolder(ctx context.Context, profileID string, folder domain.Folder) error {
	return c.apply(ctx, "update folder", folder.ID, domain.ReplaceFolder(profileID, folder),
		func(ctx context.Context) (domain.Outcome, error) {
			return c.ops.UpdateFolder(ctx, profileID, folder)
		})
}

func (c *Container) DeleteFolder(ctx context.Context, profileID, folderID string) error {
	return c.apply(ctx, "delete folder", folderID, domain.RemoveFolder(profileID, folderID),
		func(ctx context.Context) (domain.Outcome, error) {
			return c.ops.DeleteFolder(ctx, profileID, folderID)
		})
}

// UpdateProfileFolders persists a new folder order.
func (c *Container) UpdateProfileFolders(ctx context.Context, profileID string, folders []domain.Folder) error {
	return c.apply(ctx, "update profile folders", profileID, domain.ReplaceFolders(profileID, folders),
		func(ctx context.Context) (domain.Outcome, error) {
			return c.ops.UpdateProfileFolders(ctx, profileID, folders)
		})
}

func (c *Container) CreateTab(ctx context.Context, profileID, folderID string, tab domain.Tab) error {
	return c.apply(ctx, "create tab", folderID, domain.AppendTab(profileID, folderID, tab),
		func(ctx context.Context) (domain.Outcome, error) {
			return c.ops.CreateTab(ctx, profileID, folderID, tab)
		})
}

func (c *Container) UpdateTab(ctx context.Context, profileID, folderID string, tab domain.Tab) error {
	return c.apply(ctx, "update tab", tab.ID, domain.ReplaceTab(profileID, folderID, tab),
		func(ctx context.Context) (domain.Outcome, error) {
			return c.ops.UpdateTab(ctx, profileID, folderID, tab)
		})
}

func (c *Container) DeleteTab(ctx context.Context, profileID, folderID, tabID string) error {
	return c.apply(ctx, "delete tab", tabID, domain.RemoveTab(profileID, folderID, tabID),
		func(ctx context.Context) (domain.Outcome, error) {
			return c.ops.DeleteTab(ctx, profileID, folderID, tabID)
		})
}

// MoveTab moves a tab to another folder (or position) of the same profile.
func (c *Container) MoveTab(ctx context.Context, profileID, fromFolderID, toFolderID, tabID string, index int) error {
	return c.apply(ctx, "move tab", tabID, domain.MoveTab(profileID, fromFolderID, toFolderID, tabID, index),
		func(ctx context.Context) (domain.Outcome, error) {
			return c.ops.MoveTab(ctx, profileID, fromFolderID, toFolderID, tabID, index)
		})
}

// SaveCurrentTab stores the browser's active tab in a folder of the selected
// profile, then re-reads the selected profile from storage instead of
// patching memory, and brings the collection in line with it.
func (c *Container) SaveCurrentTab(ctx context.Context, folderID string) (domain.Tab, error) {
	active, err := c.env.ActiveTab(ctx)
	if err != nil {
		return domain.Tab{}, fmt.Errorf("save current tab: %w", err)
	}
	profileID := c.selectedID()
	if profileID == "" {
		return domain.Tab{}, fmt.Errorf("save current tab: %w", ErrNoSelection)
	}
	if active == nil {
		return domain.Tab{}, fmt.Errorf("save current tab: %w", ErrNoActiveTab)
	}

	tab := c.tabFromBrowser(*active)
	outcome, err := c.ops.CreateTab(ctx, profileID, folderID, tab)
	if err != nil {
		return tab, fmt.Errorf("save current tab: %w", err)
	}
	if err := c.refetchAfterSave(ctx); err != nil {
		return tab, err
	}
	return tab, outcome.Err("folder", folderID)
}

// SaveSession stores every tab of the current window that the folder does not
// hold yet, in window order, then re-reads the selected profile like
// SaveCurrentTab. It returns the saved tabs.
func (c *Container) SaveSession(ctx context.Context, folderID string) ([]domain.Tab, error) {
	window, err := c.env.WindowTabs(ctx)
	if err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	profileID := c.selectedID()
	if profileID == "" {
		return nil, fmt.Errorf("save session: %w", ErrNoSelection)
	}

	seen := make(map[string]bool, len(window))
	tabs := make([]domain.Tab, 0, len(window))
	for _, bt := range window {
		if bt.URL == "" || seen[bt.URL] || !c.CanAddTab(folderID, bt.URL) {
			continue
		}
		seen[bt.URL] = true
		tabs = append(tabs, c.tabFromBrowser(bt))
	}
	if len(tabs) == 0 {
		return tabs, nil
	}

	outcome, err := c.ops.Apply(ctx, "save session", domain.AppendTabs(profileID, folderID, tabs))
	if err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	if err := c.refetchAfterSave(ctx); err != nil {
		return tabs, err
	}
	if outcome == domain.NotFound {
		return nil, outcome.Err("folder", folderID)
	}
	c.logger.Info("session saved",
		logger.String("folder_id", folderID),
		logger.Int("tabs", len(tabs)))
	return tabs, nil
}

// refetchAfterSave re-reads the selected profile first, then the collection,
// so later optimistic mutations start from what was stored.
func (c *Container) refetchAfterSave(ctx context.Context) error {
	if err := c.FetchSelectedProfile(ctx); err != nil {
		return err
	}
	return c.FetchProfiles(ctx)
}

func (c *Container) tabFromBrowser(bt domain.BrowserTab) domain.Tab {
	tab := domain.Tab{
		ID:          bt.ID,
		DisplayName: bt.Title,
		URL:         bt.URL,
		FaviconURL:  bt.FaviconURL,
	}
	if tab.ID == "" {
		tab.ID = c.ids.New()
	}
	if tab.DisplayName == "" {
		tab.DisplayName = "Untitled"
	}
	return tab
}

// NewID returns a fresh entity id from the container's generator.
func (c *Container) NewID() string { return c.ids.New() }

func (c *Container) selectedID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.selected == nil {
		return ""
	}
	return c.selected.ID
}

// ─────────────────────────────────────────────────────────────────
// Internals
// ─────────────────────────────────────────────────────────────────

type snapshot struct {
	selected *domain.Profile
	profiles []domain.Profile
	folders  []domain.Folder
}

// snapshotLocked keeps references only: state slices are never mutated in place.
func (c *Container) snapshotLocked() snapshot {
	return snapshot{selected: c.selected, profiles: c.profiles, folders: c.folders}
}

func (c *Container) restoreLocked(s snapshot) {
	c.selected = s.selected
	c.profiles = s.profiles
	c.folders = s.folders
}

// setProfilesLocked installs a new collection and re-derives the selection view.
func (c *Container) setProfilesLocked(profiles []domain.Profile) {
	c.profiles = profiles
	if c.selected != nil {
		c.selectLocked(profiles, c.selected.ID)
	}
}

func (c *Container) selectLocked(profiles []domain.Profile, id string) {
	i := domain.FindProfile(profiles, id)
	if id == "" || i < 0 {
		c.selected = nil
		c.folders = []domain.Folder{}
		return
	}
	p := profiles[i]
	c.selected = &p
	c.folders = p.Folders
}

// apply runs the optimistic pattern for one mutation. target names the entity
// reported in a NotFound error.
func (c *Container) apply(ctx context.Context, op, target string, m domain.Mutation,
	persist func(ctx context.Context) (domain.Outcome, error)) error {

	c.mu.Lock()
	snap := c.snapshotLocked()
	updated, memOutcome := m(c.profiles)
	if memOutcome == domain.Applied {
		c.setProfilesLocked(updated)
		c.gen++
	}
	myGen := c.gen
	c.inflight++
	c.mu.Unlock()

	outcome, err := persist(ctx)
	c.endWrite()
	if err != nil {
		if memOutcome == domain.Applied {
			c.rollback(ctx, op, snap, myGen)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if outcome == domain.NotFound {
		if memOutcome == domain.Applied {
			// memory was ahead of storage; storage is the truth
			c.logger.Warn("target missing in storage, reverting memory",
				logger.String("op", op),
				logger.String("target", target))
			c.rollback(ctx, op, snap, myGen)
		}
		return fmt.Errorf("%s: %w", op, outcome.Err("target", target))
	}

	if memOutcome == domain.NotFound {
		// storage held a target memory did not know about (another surface
		// wrote it); pull the written state in
		c.logger.Info("target only in storage, re-reading",
			logger.String("op", op),
			logger.String("target", target))
		if err := c.Refresh(ctx); err != nil {
			c.logger.Warn("re-read after write failed",
				logger.String("op", op),
				logger.Error(err))
		}
	}
	return nil
}

func (c *Container) endWrite() {
	c.mu.Lock()
	c.inflight--
	c.settled++
	c.mu.Unlock()
}

// rollback restores snap when nothing else changed the state since myGen;
// otherwise it re-reads storage so memory converges on what was written.
func (c *Container) rollback(ctx context.Context, op string, snap snapshot, myGen uint64) {
	c.mu.Lock()
	if c.gen == myGen {
		c.restoreLocked(snap)
		c.gen++
		c.mu.Unlock()
		c.logger.Warn("persistence failed, in-memory state restored", logger.String("op", op))
		return
	}
	c.mu.Unlock()

	c.logger.Warn("persistence failed after concurrent changes, re-reading storage",
		logger.String("op", op))
	if err := c.Refresh(ctx); err != nil {
		c.logger.Error("re-read after failed write also failed",
			logger.String("op", op),
			logger.Error(err))
	}
}

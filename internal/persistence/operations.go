package persistence

import (
	"context"
	"fmt"
	"sync"

	"github.com/MrSnakeDoc/tabas/internal/domain"
	"github.com/MrSnakeDoc/tabas/internal/logger"
	"github.com/MrSnakeDoc/tabas/internal/storage"
)

// Operations implements every domain mutation as
// "load the whole collection → apply → save the whole collection".
//
// Cycles started through the same Operations value are queued on one mutex,
// so a surface never loses its own updates. Two Operations sharing a backend
// (two surfaces) are not coordinated: the last writer wins.
type Operations struct {
	store  *storage.Adapter
	logger logger.Logger

	writeMu sync.Mutex
}

// New creates the persistence layer over a storage adapter.
func New(store *storage.Adapter, log logger.Logger) *Operations {
	return &Operations{
		store:  store,
		logger: log,
	}
}

// Profiles loads the full collection.
func (o *Operations) Profiles(ctx context.Context) ([]domain.Profile, error) {
	return o.store.Profiles(ctx)
}

// SelectedProfile loads the selection reference ("" when none).
func (o *Operations) SelectedProfile(ctx context.Context) (string, error) {
	return o.store.SelectedProfile(ctx)
}

// SaveSelectedProfile stores the selection reference as given.
func (o *Operations) SaveSelectedProfile(ctx context.Context, profileID string) error {
	return o.store.SaveSelectedProfile(ctx, profileID)
}

// Apply runs one read-modify-write cycle. A NotFound outcome skips the write,
// leaving the stored bytes untouched.
func (o *Operations) Apply(ctx context.Context, op string, m domain.Mutation) (domain.Outcome, error) {
	o.writeMu.Lock()
	defer o.writeMu.Unlock()

	profiles, err := o.store.Profiles(ctx)
	if err != nil {
		return domain.NotFound, fmt.Errorf("%s: %w", op, err)
	}

	updated, outcome := m(profiles)
	if outcome == domain.NotFound {
		o.logger.Debug("mutation target not found, nothing written",
			logger.String("op", op))
		return outcome, nil
	}

	if err := o.store.SaveProfiles(ctx, updated); err != nil {
		return outcome, fmt.Errorf("%s: %w", op, err)
	}
	return outcome, nil
}

// CreateProfile appends the profile then selects it, in that order.
// A failing selection write does not undo the append.
func (o *Operations) CreateProfile(ctx context.Context, profile domain.Profile) error {
	if _, err := o.Apply(ctx, "create profile", domain.AppendProfile(profile)); err != nil {
		return err
	}
	if err := o.store.SaveSelectedProfile(ctx, profile.ID); err != nil {
		return fmt.Errorf("select created profile %s: %w", profile.ID, err)
	}
	return nil
}

// DeleteProfile removes a profile and everything it owns.
// The selection reference is left alone and may dangle afterwards.
func (o *Operations) DeleteProfile(ctx context.Context, profileID string) (domain.Outcome, error) {
	return o.Apply(ctx, "delete profile", domain.RemoveProfile(profileID))
}

// UpdateProfile replaces the display fields of a profile.
func (o *Operations) UpdateProfile(ctx context.Context, profile domain.Profile) (domain.Outcome, error) {
	return o.Apply(ctx, "update profile", domain.ReplaceProfileInfo(profile))
}

// CreateFolder puts the folder first in the profile's sequence.
func (o *Operations) CreateFolder(ctx context.Context, profileID string, folder domain.Folder) (domain.Outcome, error) {
	return o.Apply(ctx, "create folder", domain.PrependFolder(profileID, folder))
}

func (o *Operations) UpdateFolder(ctx context.Context, profileID string, folder domain.Folder) (domain.Outcome, error) {
	return o.Apply(ctx, "update folder", domain.ReplaceFolder(profileID, folder))
}

func (o *Operations) DeleteFolder(ctx context.Context, profileID, folderID string) (domain.Outcome, error) {
	return o.Apply(ctx, "delete folder", domain.RemoveFolder(profileID, folderID))
}

// UpdateProfileFolders replaces the folder sequence; used to persist reordering.
func (o *Operations) UpdateProfileFolders(ctx context.Context, profileID string, folders []domain.Folder) (domain.Outcome, error) {
	return o.Apply(ctx, "update profile folders", domain.ReplaceFolders(profileID, folders))
}

func (o *Operations) CreateTab(ctx context.Context, profileID, folderID string, tab domain.Tab) (domain.Outcome, error) {
	return o.Apply(ctx, "create tab", domain.AppendTab(profileID, folderID, tab))
}

func (o *Operations) UpdateTab(ctx context.Context, profileID, folderID string, tab domain.Tab) (domain.Outcome, error) {
	return o.Apply(ctx, "update tab", domain.ReplaceTab(profileID, folderID, tab))
}

func (o *Operations) DeleteTab(ctx context.Context, profileID, folderID, tabID string) (domain.Outcome, error) {
	return o.Apply(ctx, "delete tab", domain.RemoveTab(profileID, folderID, tabID))
}

// MoveTab moves a tab between folders of one profile in a single cycle.
func (o *Operations) MoveTab(ctx context.Context, profileID, fromFolderID, toFolderID, tabID string, index int) (domain.Outcome, error) {
	return o.Apply(ctx, "move tab", domain.MoveTab(profileID, fromFolderID, toFolderID, tabID, index))
}

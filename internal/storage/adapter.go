package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MrSnakeDoc/tabas/internal/domain"
)

const (
	// KeyProfiles holds the whole profile collection as one JSON array.
	KeyProfiles = "tabas.profiles"
	// KeySelectedProfile holds the id of the active profile as a JSON string.
	KeySelectedProfile = "tabas.selectedProfile"
)

// Backend is a raw key-value store.
// Get returns (nil, nil) when the key is absent.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Adapter gives JSON access to the backend and reports every failure as a
// *domain.StorageError. It provides no transactionality: two adapters on
// the same backend race, last writer wins.
type Adapter struct {
	backend Backend
}

// NewAdapter wraps a backend.
func NewAdapter(backend Backend) *Adapter {
	return &Adapter{backend: backend}
}

// Get decodes the value stored under key into dst.
// It returns false, with dst untouched, when the key is absent.
func (a *Adapter) Get(ctx context.Context, key string, dst any) (bool, error) {
	data, err := a.backend.Get(ctx, key)
	if err != nil {
		return false, &domain.StorageError{Op: "get", Key: key, Err: err}
	}
	if data == nil {
		return false, nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, &domain.StorageError{Op: "decode", Key: key, Err: err}
	}
	return true, nil
}

// Set encodes value and stores it under key.
func (a *Adapter) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return &domain.StorageError{Op: "encode", Key: key, Err: err}
	}
	if err := a.backend.Set(ctx, key, data); err != nil {
		return &domain.StorageError{Op: "set", Key: key, Err: err}
	}
	return nil
}

// Profiles returns the stored collection, or an empty one when absent.
func (a *Adapter) Profiles(ctx context.Context) ([]domain.Profile, error) {
	var profiles []domain.Profile
	if _, err := a.Get(ctx, KeyProfiles, &profiles); err != nil {
		return nil, err
	}
	if profiles == nil {
		profiles = []domain.Profile{}
	}
	return profiles, nil
}

// SaveProfiles replaces the stored collection.
func (a *Adapter) SaveProfiles(ctx context.Context, profiles []domain.Profile) error {
	out := make([]domain.Profile, len(profiles))
	for i, p := range profiles {
		out[i] = domain.Normalize(p)
	}
	return a.Set(ctx, KeyProfiles, out)
}

// SelectedProfile returns the stored selection, "" when absent.
func (a *Adapter) SelectedProfile(ctx context.Context) (string, error) {
	var id string
	if _, err := a.Get(ctx, KeySelectedProfile, &id); err != nil {
		return "", err
	}
	return id, nil
}

// SaveSelectedProfile stores the selection. The id is not checked against
// the collection: a dangling reference is a valid state.
func (a *Adapter) SaveSelectedProfile(ctx context.Context, id string) error {
	return a.Set(ctx, KeySelectedProfile, id)
}

// Close releases the backend.
func (a *Adapter) Close() error {
	if err := a.backend.Close(); err != nil {
		return fmt.Errorf("failed to close storage backend: %w", err)
	}
	return nil
}

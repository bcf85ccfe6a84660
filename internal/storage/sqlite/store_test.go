package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenCreatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tabas.db")

	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	var name string
	err = s.db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='kv'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "kv", name)
}

func TestGetMiss(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	v, err := s.Get(context.Background(), "tabas.profiles")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestSetUpserts(t *testing.T) {
	ctx := context.Background()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Set(ctx, "tabas.selectedProfile", []byte(`"1"`)))
	require.NoError(t, s.Set(ctx, "tabas.selectedProfile", []byte(`"2"`)))

	v, err := s.Get(ctx, "tabas.selectedProfile")
	require.NoError(t, err)
	assert.Equal(t, `"2"`, string(v))

	var n int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM kv`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestValuesSurviveReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tabas.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "tabas.profiles", []byte(`[{"id":"1"}]`)))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	v, err := s.Get(ctx, "tabas.profiles")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, string(v))
}

func TestClosedStoreFails(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = s.Get(context.Background(), "k")
	assert.Error(t, err)
}

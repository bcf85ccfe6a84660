package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	s := New()
	require.NotNil(t, s)
	assert.Equal(t, 0, s.Keys())
	assert.True(t, s.LastWrite().IsZero())
}

func TestGetMiss(t *testing.T) {
	v, err := New().Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestSetCopiesValue(t *testing.T) {
	ctx := context.Background()
	s := New()

	buf := []byte(`"1"`)
	require.NoError(t, s.Set(ctx, "k", buf))
	buf[1] = '9'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `"1"`, string(got))

	got[1] = '7'
	again, _ := s.Get(ctx, "k")
	assert.Equal(t, `"1"`, string(again))
	assert.False(t, s.LastWrite().IsZero())
}

func TestConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := New()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.Set(ctx, "k", []byte("v"))
		}()
		go func() {
			defer wg.Done()
			_, _ = s.Get(ctx, "k")
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, s.Keys())
}

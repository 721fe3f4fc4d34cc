package favorites

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyctransit/railboard/internal/kv"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	backend, err := kv.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	s, err := NewStore(context.Background(), backend)
	require.NoError(t, err)
	return s, path
}

func TestAddRemove(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	require.NoError(t, s.Add(ctx, "127"))
	assert.True(t, s.Contains("127"))
	assert.False(t, s.Contains("631"))

	require.NoError(t, s.Remove(ctx, "127"))
	assert.False(t, s.Contains("127"))
}

func TestIdempotence(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	require.NoError(t, s.Add(ctx, "127"))
	require.NoError(t, s.Add(ctx, "127"))
	assert.Equal(t, []string{"127"}, s.IDs(), "double add keeps a single entry")

	require.NoError(t, s.Remove(ctx, "never-added"))
	assert.Equal(t, []string{"127"}, s.IDs(), "removing an unknown id changes nothing")
}

func TestPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	backend, err := kv.Open(path)
	require.NoError(t, err)
	s, err := NewStore(ctx, backend)
	require.NoError(t, err)
	require.NoError(t, s.Add(ctx, "127"))
	require.NoError(t, s.Add(ctx, "631"))
	require.NoError(t, s.Remove(ctx, "127"))
	require.NoError(t, backend.Close())

	backend, err = kv.Open(path)
	require.NoError(t, err)
	defer backend.Close()

	reopened, err := NewStore(ctx, backend)
	require.NoError(t, err)
	assert.Equal(t, []string{"631"}, reopened.IDs())
}

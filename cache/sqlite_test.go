package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) *SQLite {
	t.Helper()

	c, err := NewSQLite(filepath.Join(t.TempDir(), "cache.db"), time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestSQLite_SetGet(t *testing.T) {
	ctx := context.Background()
	c := newTestSQLite(t)

	require.NoError(t, c.Set(ctx, "key1", []byte("value1"), 0))

	got, err := c.Get(ctx, "key1")
	require.NoError(t, err)
	assert.Equal(t, []byte("value1"), got)
}

func TestSQLite_Miss(t *testing.T) {
	c := newTestSQLite(t)

	got, err := c.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLite_Overwrite(t *testing.T) {
	ctx := context.Background()
	c := newTestSQLite(t)

	require.NoError(t, c.Set(ctx, "key1", []byte("old"), 0))
	require.NoError(t, c.Set(ctx, "key1", []byte("new"), 0))

	got, err := c.Get(ctx, "key1")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), got)
}

func TestSQLite_Expiry(t *testing.T) {
	ctx := context.Background()
	c := newTestSQLite(t)

	// Expiry has one-second granularity, so backdate the entry directly.
	require.NoError(t, c.Set(ctx, "key1", []byte("value1"), time.Minute))
	_, err := c.conn.ExecContext(ctx,
		`UPDATE cache SET expires_at = ? WHERE key = ?`,
		time.Now().Add(-time.Minute).Unix(), "key1")
	require.NoError(t, err)

	got, err := c.Get(ctx, "key1")
	require.NoError(t, err)
	assert.Nil(t, got, "expired entries read as misses")
}

func TestSQLite_Delete(t *testing.T) {
	ctx := context.Background()
	c := newTestSQLite(t)

	require.NoError(t, c.Set(ctx, "key1", []byte("v"), 0))

	existed, err := c.Delete(ctx, "key1")
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = c.Delete(ctx, "key1")
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestSQLite_Clear(t *testing.T) {
	ctx := context.Background()
	c := newTestSQLite(t)

	require.NoError(t, c.Set(ctx, "key1", []byte("v"), 0))
	require.NoError(t, c.Set(ctx, "key2", []byte("v"), 0))
	require.NoError(t, c.Clear(ctx))

	got, err := c.Get(ctx, "key1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLite_Prune(t *testing.T) {
	ctx := context.Background()
	c := newTestSQLite(t)

	require.NoError(t, c.Set(ctx, "stale", []byte("v"), time.Minute))
	require.NoError(t, c.Set(ctx, "fresh", []byte("v"), time.Hour))
	_, err := c.conn.ExecContext(ctx,
		`UPDATE cache SET expires_at = ? WHERE key = ?`,
		time.Now().Add(-time.Minute).Unix(), "stale")
	require.NoError(t, err)

	pruned, err := c.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pruned)

	got, err := c.Get(ctx, "fresh")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestSQLite_Persistence(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")

	c, err := NewSQLite(path, time.Minute)
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, "key1", []byte("value1"), time.Hour))
	require.NoError(t, c.Close())

	reopened, err := NewSQLite(path, time.Minute)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	got, err := reopened.Get(ctx, "key1")
	require.NoError(t, err)
	assert.Equal(t, []byte("value1"), got)
}

package kvstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSQLite(t *testing.T) (*SQLiteStore, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "facility.db")
	store, err := OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, path
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()

	t.Run("get on missing key returns ErrNotFound", func(t *testing.T) {
		store, _ := openTestSQLite(t)

		_, err := store.Get(ctx, "nrc9_users")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("set overwrites previous value", func(t *testing.T) {
		store, _ := openTestSQLite(t)

		require.NoError(t, store.Set(ctx, "k", []byte("one")))
		require.NoError(t, store.Set(ctx, "k", []byte("two")))

		got, err := store.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "two", string(got))
	})

	t.Run("delete removes key", func(t *testing.T) {
		store, _ := openTestSQLite(t)

		require.NoError(t, store.Set(ctx, "k", []byte("v")))
		require.NoError(t, store.Delete(ctx, "k"))
		require.NoError(t, store.Delete(ctx, "k"))

		_, err := store.Get(ctx, "k")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("values survive reopening the file", func(t *testing.T) {
		store, path := openTestSQLite(t)
		adapter, _ := newTestAdapter(store)
		WriteList(ctx, adapter, "records", []record{{ID: "1", Name: "Hall"}})
		require.NoError(t, store.Close())

		reopened, err := OpenSQLite(path)
		require.NoError(t, err)
		defer reopened.Close()

		adapter, _ = newTestAdapter(reopened)
		assert.Equal(t, []record{{ID: "1", Name: "Hall"}}, ReadList[record](ctx, adapter, "records"))
	})

	t.Run("rejects empty path", func(t *testing.T) {
		_, err := OpenSQLite("  ")
		assert.Error(t, err)
	})
}

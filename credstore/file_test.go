package credstore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hireflow/hireflow-session/credstore"
)

func TestFileStore(t *testing.T) {
	ctx := context.Background()

	t.Run("requires a path", func(t *testing.T) {
		_, err := credstore.NewFileStore("")
		require.Error(t, err)
	})

	t.Run("save load clear roundtrip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session")
		store, err := credstore.NewFileStore(path)
		require.NoError(t, err)

		_, err = store.Load(ctx)
		require.ErrorIs(t, err, credstore.ErrNoCredential)

		require.NoError(t, store.Save(ctx, "credential-1"))
		credential, err := store.Load(ctx)
		require.NoError(t, err)
		require.Equal(t, "credential-1", credential)

		require.NoError(t, store.Clear(ctx))
		_, err = store.Load(ctx)
		require.ErrorIs(t, err, credstore.ErrNoCredential)
	})

	t.Run("clear on an empty store is a no-op", func(t *testing.T) {
		store, err := credstore.NewFileStore(filepath.Join(t.TempDir(), "session"))
		require.NoError(t, err)
		require.NoError(t, store.Clear(ctx))
	})

	t.Run("credential survives a restart", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session")
		store, err := credstore.NewFileStore(path)
		require.NoError(t, err)
		require.NoError(t, store.Save(ctx, "credential-2"))

		reopened, err := credstore.NewFileStore(path)
		require.NoError(t, err)
		credential, err := reopened.Load(ctx)
		require.NoError(t, err)
		require.Equal(t, "credential-2", credential)
	})

	t.Run("encrypted at rest", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session")
		store, err := credstore.NewFileStore(path, credstore.WithEncryptionKey("passphrase"))
		require.NoError(t, err)
		require.NoError(t, store.Save(ctx, "secret-credential"))

		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		require.NotContains(t, string(raw), "secret-credential")

		credential, err := store.Load(ctx)
		require.NoError(t, err)
		require.Equal(t, "secret-credential", credential)
	})

	t.Run("wrong key fails to open", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session")
		store, err := credstore.NewFileStore(path, credstore.WithEncryptionKey("right"))
		require.NoError(t, err)
		require.NoError(t, store.Save(ctx, "secret-credential"))

		other, err := credstore.NewFileStore(path, credstore.WithEncryptionKey("wrong"))
		require.NoError(t, err)
		_, err = other.Load(ctx)
		require.Error(t, err)
	})
}

package credstore_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/hireflow/hireflow-session/credstore"
	"github.com/hireflow/hireflow-session/credstore/storefake"
)

func TestResilient(t *testing.T) {
	ctx := context.Background()

	t.Run("passes through while the durable store works", func(t *testing.T) {
		durable := storefake.NewFakeStore()
		store := credstore.NewResilient(durable, zerolog.Nop())

		require.NoError(t, store.Save(ctx, "credential-1"))
		require.Equal(t, 1, durable.SaveCalls())
		require.False(t, store.Degraded())

		credential, err := store.Load(ctx)
		require.NoError(t, err)
		require.Equal(t, "credential-1", credential)
	})

	t.Run("save failure degrades to memory without erroring", func(t *testing.T) {
		durable := storefake.NewFakeStore()
		durable.SetSaveErr(errors.New("quota exceeded"))
		store := credstore.NewResilient(durable, zerolog.Nop())

		require.NoError(t, store.Save(ctx, "credential-2"))
		require.True(t, store.Degraded())

		credential, err := store.Load(ctx)
		require.NoError(t, err)
		require.Equal(t, "credential-2", credential)
	})

	t.Run("load failure degrades to memory", func(t *testing.T) {
		durable := storefake.NewFakeStore()
		store := credstore.NewResilient(durable, zerolog.Nop())
		require.NoError(t, store.Save(ctx, "credential-3"))

		durable.SetLoadErr(errors.New("backend unreachable"))
		credential, err := store.Load(ctx)
		require.NoError(t, err)
		require.Equal(t, "credential-3", credential, "served from the memory copy")
		require.True(t, store.Degraded())
	})

	t.Run("absent credential is not a degrade", func(t *testing.T) {
		durable := storefake.NewFakeStore()
		store := credstore.NewResilient(durable, zerolog.Nop())

		_, err := store.Load(ctx)
		require.ErrorIs(t, err, credstore.ErrNoCredential)
		require.False(t, store.Degraded())
	})

	t.Run("clear failure degrades but still clears", func(t *testing.T) {
		durable := storefake.NewFakeStore()
		store := credstore.NewResilient(durable, zerolog.Nop())
		require.NoError(t, store.Save(ctx, "credential-4"))

		durable.SetClearErr(errors.New("permission denied"))
		require.NoError(t, store.Clear(ctx))
		require.True(t, store.Degraded())

		_, err := store.Load(ctx)
		require.ErrorIs(t, err, credstore.ErrNoCredential)
	})
}

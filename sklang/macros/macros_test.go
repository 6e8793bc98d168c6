package macros

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/imneme/mini-sk/internal/dbutil"
)

func TestBuiltin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	b := Builtin()

	src, err := b.Resolve(ctx, "pair")
	require.NoError(t, err)
	require.Equal(t, "@@BCJ", src)

	_, err = b.Resolve(ctx, "nope")
	require.ErrorIs(t, err, ErrNotFound)

	names := b.Names()
	require.Contains(t, names, "cons")
	require.Contains(t, names, "quicksort")
	require.IsIncreasing(t, names)
}

func TestDBStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := dbutil.NewTestDB(t)
	require.NoError(t, SetupDB(ctx, db))
	s, err := NewDBStore(db, Builtin())
	require.NoError(t, err)

	// base definitions show through
	src, err := s.Resolve(ctx, "fst")
	require.NoError(t, err)
	require.Equal(t, "@JK", src)

	// user definitions shadow the base
	require.NoError(t, s.Define(ctx, "fst", "@JF"))
	src, err = s.Resolve(ctx, "fst")
	require.NoError(t, err)
	require.Equal(t, "@JF", src)

	// redefinition overwrites
	require.NoError(t, s.Define(ctx, "fst", "@JK"))
	src, err = s.Resolve(ctx, "fst")
	require.NoError(t, err)
	require.Equal(t, "@JK", src)

	names, err := s.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"fst"}, names)

	require.NoError(t, s.Drop(ctx, "fst"))
	src, err = s.Resolve(ctx, "fst")
	require.NoError(t, err)
	require.Equal(t, "@JK", src) // base again

	_, err = s.Resolve(ctx, "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDBStoreCache(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := dbutil.NewTestDB(t)
	require.NoError(t, SetupDB(ctx, db))
	s, err := NewDBStore(db, nil)
	require.NoError(t, err)

	require.NoError(t, s.Define(ctx, "twice", "@@SBI"))
	src, err := s.Resolve(ctx, "twice")
	require.NoError(t, err)
	require.Equal(t, "@@SBI", src)
	require.True(t, s.cache.Contains("twice"))

	// Drop purges the cached entry
	require.NoError(t, s.Drop(ctx, "twice"))
	require.False(t, s.cache.Contains("twice"))
	_, err = s.Resolve(ctx, "twice")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDefineRejectsBadNames(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := dbutil.NewTestDB(t)
	require.NoError(t, SetupDB(ctx, db))
	s, err := NewDBStore(db, nil)
	require.NoError(t, err)

	require.Error(t, s.Define(ctx, "", "K"))
	require.Error(t, s.Define(ctx, "has space", "K"))
	require.Error(t, s.Define(ctx, "$dollar", "K"))
}

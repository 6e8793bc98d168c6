package skmem

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllocRelease(t *testing.T) {
	t.Parallel()
	ar := New(16)
	require.Equal(t, 0, ar.Live())

	a := ar.Alloc(LitK.Atom(), Lit(7).Atom())
	require.False(t, a.IsLit())
	require.Equal(t, 1, ar.Live())
	require.Equal(t, 1, ar.Refs(a))
	require.Equal(t, LitK.Atom(), ar.Fn(a))
	require.Equal(t, Lit(7).Atom(), ar.Arg(a))

	require.True(t, ar.Release(a))
	require.Equal(t, 0, ar.Live())

	// The free list is LIFO, so the slot comes right back.
	b := ar.Alloc(LitI.Atom(), Lit(1).Atom())
	require.Equal(t, a, b)
	ar.Release(b)
}

func TestRetainDefersFree(t *testing.T) {
	t.Parallel()
	ar := New(16)
	a := ar.Alloc(LitS.Atom(), LitB.Atom())
	ar.Retain(a)
	require.Equal(t, 2, ar.Refs(a))
	require.False(t, ar.Release(a))
	require.Equal(t, 1, ar.Live())
	require.True(t, ar.Release(a))
	require.Equal(t, 0, ar.Live())
}

func TestReleaseRecursesIntoChildren(t *testing.T) {
	t.Parallel()
	ar := New(16)
	inner := ar.Alloc(LitK.Atom(), LitI.Atom())
	mid := ar.Alloc(inner, Lit(3).Atom())
	root := ar.Alloc(mid, Lit(4).Atom())
	require.Equal(t, 3, ar.Live())

	require.True(t, ar.Release(root))
	require.Equal(t, 0, ar.Live())
}

func TestReleaseSharedChild(t *testing.T) {
	t.Parallel()
	ar := New(16)
	shared := ar.Alloc(LitK.Atom(), Lit(9).Atom())
	left := ar.Alloc(ar.Retain(shared), Lit(1).Atom())
	right := ar.Alloc(shared, Lit(2).Atom())

	require.True(t, ar.Release(left))
	require.Equal(t, 2, ar.Live()) // right and shared survive
	require.Equal(t, 1, ar.Refs(shared))
	require.True(t, ar.Release(right))
	require.Equal(t, 0, ar.Live())
}

func TestReplaceUnshared(t *testing.T) {
	t.Parallel()
	ar := New(16)
	orig := ar.Alloc(LitI.Atom(), Lit(5).Atom())
	v := Lit(5).Atom()
	got := ar.Replace(orig, v)
	require.Equal(t, v, got)
	require.Equal(t, 0, ar.Live()) // nothing left to indirect through
}

func TestReplaceSharedBecomesIndirection(t *testing.T) {
	t.Parallel()
	ar := New(16)
	orig := ar.Alloc(LitK.Atom(), Lit(1).Atom())
	ar.Retain(orig) // a second owner somewhere in the graph

	got := ar.Replace(orig, Lit(42).Atom())
	require.Equal(t, Lit(42).Atom(), got)
	require.Equal(t, 1, ar.Live())
	require.Equal(t, 1, ar.Refs(orig))
	require.Equal(t, LitI.Atom(), ar.Fn(orig))
	require.Equal(t, Lit(42).Atom(), ar.Arg(orig))

	require.True(t, ar.Release(orig))
	require.Equal(t, 0, ar.Live())
}

func TestReplaceSharedWithNode(t *testing.T) {
	t.Parallel()
	ar := New(16)
	orig := ar.Alloc(LitK.Atom(), Lit(1).Atom())
	ar.Retain(orig)

	v := ar.Alloc(LitK.Atom(), Lit(2).Atom())
	got := ar.Replace(orig, v)
	require.Equal(t, v, got)
	// v is owned by the indirection cell and by the caller.
	require.Equal(t, 2, ar.Refs(v))

	ar.Release(v)
	require.True(t, ar.Release(orig))
	require.Equal(t, 0, ar.Live())
}

func TestExhaustionIsFatalExactlyAtCapacity(t *testing.T) {
	t.Parallel()
	ar := New(3)
	for i := 0; i < 3; i++ {
		ar.Alloc(LitI.Atom(), Lit(uint16(i)).Atom())
	}
	require.Equal(t, 3, ar.Live())
	fatal := func() (f *Fatal) {
		defer func() {
			var ok bool
			f, ok = recover().(*Fatal)
			require.True(t, ok)
		}()
		ar.Alloc(LitI.Atom(), Lit(0).Atom())
		return nil
	}()
	require.Equal(t, StatusOutOfNodes, fatal.Status)
	require.Equal(t, "out of app space", fatal.Error())
}

func TestConservation(t *testing.T) {
	t.Parallel()
	ar := New(32)
	start := ar.Live()

	// A closed sequence of alloc/retain/release with sharing.
	x := ar.Alloc(LitS.Atom(), LitK.Atom())
	y := ar.Alloc(ar.Retain(x), ar.Retain(x))
	z := ar.Alloc(y, x)
	ar.Retain(z)
	ar.Release(z)
	require.True(t, ar.Release(z))

	require.Equal(t, start, ar.Live())
	require.Equal(t, 3, ar.MaxLive())
}

func TestFreedAccessPanics(t *testing.T) {
	t.Parallel()
	ar := New(4)
	a := ar.Alloc(LitI.Atom(), Lit(1).Atom())
	require.True(t, ar.Release(a))
	require.Panics(t, func() { ar.Retain(a) })
	require.Panics(t, func() { ar.Fn(a) })
}

func TestMaxLiveTracksHighWater(t *testing.T) {
	t.Parallel()
	ar := New(8)
	a := ar.Alloc(LitI.Atom(), Lit(1).Atom())
	b := ar.Alloc(LitI.Atom(), Lit(2).Atom())
	ar.Release(a)
	ar.Release(b)
	require.Equal(t, 2, ar.MaxLive())
	ar.ResetMaxLive()
	require.Equal(t, 0, ar.MaxLive())
}

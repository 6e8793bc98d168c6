package parser

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/imneme/mini-sk/skmem"
)

type mapResolver map[string]string

func (m mapResolver) Resolve(_ context.Context, name string) (string, error) {
	src, ok := m[name]
	if !ok {
		return "", fmt.Errorf("not found")
	}
	return src, nil
}

func TestParseLiterals(t *testing.T) {
	t.Parallel()
	tcs := []struct {
		I string
		O skmem.Atom
	}{
		{"K", skmem.LitK.Atom()},
		{"S", skmem.LitS.Atom()},
		{"+", skmem.LitAdd.Atom()},
		{"117", skmem.Lit(117).Atom()},
		{"32768", skmem.Lit(0).Atom()}, // literals hold 15 bits
		{"'a", skmem.Lit('a').Atom()},
		{"'(", skmem.Lit('(').Atom()},
		{"x", skmem.Lit('x').Atom()},
		{"", skmem.LitI.Atom()}, // end of input reads as identity
	}
	for _, tc := range tcs {
		t.Run(tc.I, func(t *testing.T) {
			mem := skmem.New(64)
			got, err := ParseString(context.Background(), mem, tc.I, nil)
			require.NoError(t, err)
			require.Equal(t, tc.O, got)
			require.Equal(t, 0, mem.Live())
		})
	}
}

func TestParseApplication(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	// Both spellings read the same graph shape.
	for _, src := range []string{"((S K) K)", "@@SKK"} {
		mem := skmem.New(64)
		got, err := ParseString(ctx, mem, src, nil)
		require.NoError(t, err)
		require.False(t, got.IsLit())
		inner := mem.Fn(got)
		require.Equal(t, skmem.LitS.Atom(), mem.Fn(inner))
		require.Equal(t, skmem.LitK.Atom(), mem.Arg(inner))
		require.Equal(t, skmem.LitK.Atom(), mem.Arg(got))
		require.Equal(t, 2, mem.Live())
		mem.Release(got)
		require.Equal(t, 0, mem.Live())
	}
}

func TestParseTruncatedApplication(t *testing.T) {
	t.Parallel()
	mem := skmem.New(64)

	// "(K" runs out of input for the argument, which reads as I.
	got, err := ParseString(context.Background(), mem, "(K", nil)
	require.NoError(t, err)
	require.Equal(t, skmem.LitK.Atom(), mem.Fn(got))
	require.Equal(t, skmem.LitI.Atom(), mem.Arg(got))
	mem.Release(got)
	require.Equal(t, 0, mem.Live())
}

func TestParseChurch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := skmem.New(64)

	// #0 is (K I)
	zero, err := ParseString(ctx, mem, "#0", nil)
	require.NoError(t, err)
	require.Equal(t, skmem.LitK.Atom(), mem.Fn(zero))
	require.Equal(t, skmem.LitI.Atom(), mem.Arg(zero))
	mem.Release(zero)
	require.Equal(t, 0, mem.Live())

	// #2 is ((S B) ((S B) (K I))) with the successor node shared
	two, err := ParseString(ctx, mem, "#2", nil)
	require.NoError(t, err)
	succ := mem.Fn(two)
	require.Equal(t, skmem.LitS.Atom(), mem.Fn(succ))
	require.Equal(t, skmem.LitB.Atom(), mem.Arg(succ))
	require.Equal(t, succ, mem.Fn(mem.Arg(two)))
	require.Equal(t, 2, mem.Refs(succ))
	require.Equal(t, 4, mem.Live())
	mem.Release(two)
	require.Equal(t, 0, mem.Live())
}

func TestParseMacro(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	macros := mapResolver{
		"id":    "I",
		"fst":   "@JK",
		"alias": "$fst",
	}

	mem := skmem.New(64)
	got, err := ParseString(ctx, mem, "$id", macros)
	require.NoError(t, err)
	require.Equal(t, skmem.LitI.Atom(), got)

	got, err = ParseString(ctx, mem, "$fst", macros)
	require.NoError(t, err)
	require.Equal(t, skmem.LitJ.Atom(), mem.Fn(got))
	require.Equal(t, skmem.LitK.Atom(), mem.Arg(got))
	mem.Release(got)

	// macros may refer to other macros
	got, err = ParseString(ctx, mem, "$alias", macros)
	require.NoError(t, err)
	require.Equal(t, skmem.LitJ.Atom(), mem.Fn(got))
	mem.Release(got)
	require.Equal(t, 0, mem.Live())
}

func TestParseMacroErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	macros := mapResolver{"loop": "@$loop$loop"}

	mem := skmem.New(256)
	_, err := ParseString(ctx, mem, "$nope", macros)
	require.Error(t, err)
	require.Equal(t, 0, mem.Live())

	_, err = ParseString(ctx, mem, "$loop", macros)
	require.ErrorContains(t, err, "too deeply")
	require.Equal(t, 0, mem.Live())

	// without a resolver every macro is unknown
	_, err = ParseString(ctx, mem, "$id", nil)
	require.Error(t, err)
}

func TestParseErrorReleasesPartialGraph(t *testing.T) {
	t.Parallel()
	mem := skmem.New(64)

	// lhs of the application parses, rhs is an unknown macro
	_, err := ParseString(context.Background(), mem, "(@KS $nope", nil)
	require.Error(t, err)
	require.Equal(t, 0, mem.Live())
}

func TestParseIllegalRune(t *testing.T) {
	t.Parallel()
	mem := skmem.New(64)
	_, err := ParseString(context.Background(), mem, "?", nil)
	require.Error(t, err)
}

func TestAtEOF(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := skmem.New(64)

	p := NewParser(mem, strings.NewReader("K S"), nil)
	done, err := p.AtEOF()
	require.NoError(t, err)
	require.False(t, done)

	for i := 0; i < 2; i++ {
		a, err := p.ParseExpr(ctx)
		require.NoError(t, err)
		require.True(t, a.IsLit())
	}
	done, err = p.AtEOF()
	require.NoError(t, err)
	require.True(t, done)
}

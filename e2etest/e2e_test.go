package e2etest

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/imneme/mini-sk/internal/dbutil"
	"github.com/imneme/mini-sk/internal/testutil"
	"github.com/imneme/mini-sk/sklang/macros"
	"github.com/imneme/mini-sk/sklang/parser"
	"github.com/imneme/mini-sk/sklang/printer"
	"github.com/imneme/mini-sk/skmem"
	"github.com/imneme/mini-sk/skvm"
)

// evalString runs the whole pipeline on src: parse with macros, reduce,
// print the forced normal form.
func evalString(t *testing.T, src string, res parser.Resolver, in string) (string, string) {
	ctx := testutil.Context(t)
	m := skvm.New(skmem.New(3072), 512)
	out := &bytes.Buffer{}
	m.In = bytes.NewBufferString(in)
	m.Out = out

	a, err := parser.ParseString(ctx, m.Mem(), src, res)
	require.NoError(t, err)
	a = m.Reduce(a)
	got := printer.Printer{Force: true}.PrintString(m, a)
	m.Mem().Release(a)
	require.Equal(t, 0, m.Mem().Live())
	return got, out.String()
}

func TestEval(t *testing.T) {
	t.Parallel()
	tcs := []struct {
		src  string
		want string
	}{
		// native arithmetic with the identity continuation
		{"(((+ I) 2) 3)", "5"},
		{"@@@-I 10 4", "6"},
		{"(((* I) 3) 4)", "12"},
		{"(((/ I) 9) 2)", "4"},
		{"(((/ I) 5) 0)", "0"},
		{"(((= I) 2) 2)", "K"},
		{"(((< I) 3) 2)", "F"},

		// the classic
		{"(((S K) K) S)", "S"},

		// booleans
		{"@@$and$t$t", "K"},
		{"@@$and$t$f", "F"},
		{"@@$or$f$t", "K"},
		{"@@$or$f$f", "F"},
		{"@$not$t", "F"},
		{"@$not$f", "K"},

		// pairs
		{"@$fst@@$pair 1 2", "1"},
		{"@$snd@@$pair 1 2", "2"},

		// church numeral predicates
		{"@$iszero#0", "K"},
		{"@$iszero#1", "F"},
	}
	res := macros.Builtin()
	for i, tc := range tcs {
		tc := tc
		t.Run(fmt.Sprintf("%02d", i), func(t *testing.T) {
			t.Parallel()
			t.Log(tc.src)
			got, _ := evalString(t, tc.src, res, "")
			require.Equal(t, tc.want, got)
		})
	}
}

func TestCharIO(t *testing.T) {
	t.Parallel()

	// ((P K) 'H) writes H and continues as K
	got, out := evalString(t, "((P K) 'H)", macros.Builtin(), "")
	require.Equal(t, "K", got)
	require.Equal(t, "H", out)

	// (G I) reads a byte and hands it to I
	got, out = evalString(t, "(G I)", macros.Builtin(), "Q")
	require.Equal(t, "'Q", got)
	require.Equal(t, "", out)
}

func TestUserMacrosEndToEnd(t *testing.T) {
	t.Parallel()
	ctx := testutil.Context(t)
	db := dbutil.NewTestDB(t)
	require.NoError(t, macros.SetupDB(ctx, db))
	store, err := macros.NewDBStore(db, macros.Builtin())
	require.NoError(t, err)

	// a user macro aliasing a builtin
	require.NoError(t, store.Define(ctx, "second", "$snd"))
	got, _ := evalString(t, "@$second@@$pair'a'b", store, "")
	require.Equal(t, "'b", got)
}

// Package macros resolves $name abbreviations to combinator source text.
// A fixed table covers the usual suspects (booleans, pairs, lists, Church
// arithmetic); DBStore adds user definitions on top of it.
package macros

import (
	"context"
	"errors"
	"sort"

	"golang.org/x/exp/maps"
)

// ErrNotFound is returned by resolvers for names with no definition.
var ErrNotFound = errors.New("not found")

// Resolver maps a macro name to its source text.
type Resolver interface {
	Resolve(ctx context.Context, name string) (string, error)
}

// Builtin returns the predefined macro table.
func Builtin() Table { return builtins }

// Table is an immutable name -> source mapping.
type Table map[string]string

func (t Table) Resolve(_ context.Context, name string) (string, error) {
	src, ok := t[name]
	if !ok {
		return "", ErrNotFound
	}
	return src, nil
}

// Names returns the defined names, sorted.
func (t Table) Names() []string {
	ks := maps.Keys(t)
	sort.Strings(ks)
	return ks
}

// Boolean values are Church encoded as K and F, pairs as closures over J,
// numbers as Church numerals. The heavier entries (subtraction, division,
// the binary lambda calculus interpreter) are bracket-abstracted machine
// output rather than anything written by hand.
var builtins = Table{
	"t":         "K",
	"f":         "F",
	"and":       "@@CCF",
	"or":        "@JK",
	"not":       "@@C@JFK",
	"pair":      "@@BCJ",
	"fst":       "@JK",
	"snd":       "@JF",
	"succ":      "@SB",
	"pred":      "@@C@@BC@@B@BC@@C@@BC@@B@BB@@CB@@B@BJJKI",
	"iszero":    "@@C@J@KFK",
	"plus":      "@@BS@BB",
	"sub":       "@@C@@BB@@C@J@J@@BJ@SB@JF@@B@S@@C@J@@B@C@@BBS@@B@S@@BBB@@B@BCC@KF@@C@@BB@J@@C@JKI@@C@J@@BKJK",
	"times":     "B",
	"div2":      "@@BC@@C@@BC@@C@@BB@J@@B@SBC@@BKKI",
	"cdiv":      "@@C@@BB@@C@J@J@@BJ@SB@JF@@B@S@@C@J@J@@BJ@@BKJ@JK@@C@@BC@@BJ@@B@B@C@@BBS@@B@B@S@@BBB@@B@B@BC@@B@BC@@B@CB@@C@@BB@J@@C@JKI@@BKJ@KF",
	"fdiv":      "@@B@B$pred@@B$ceiling$div$succ",
	"divrem2":   "@@C@J@J@@C@@BS@@B@B$pair@@S@@BC@@BJ$succ I$not@@$pair#0$f",
	"tobinle":   "@Y@@B@C$divrem2@@B@B@C$cons@S@@C$iszero$nil",
	"tobinbe":   "@@B$rev$tobinle",
	"eq":        "@@C@@BC@@C@@BC@@C@@BB@J@@C@J@@@SII@@BK@@BJ@@SIII@@C@J@@BKJKK@KF",
	"lesseq":    "@@B@B$iszero$sub",
	"less":      "@@B@B$not@@B@B$iszero@C$sub",
	"greatereq": "@C$lesseq",
	"greater":   "@C$less",
	"cons":      "$pair",
	"nil":       "@KK",
	"hd":        "$fst",
	"tl":        "$snd",
	"case":      "@@C@@BC@@B@BC@@BC@@CB@@B@B@BK@B@BKI",
	"take":      "@@C@@BC@@C@@BC@@C@@BB@J@@SI@@C@@BC@@B@BC@C@@BC@@BJ@@B@B@BK@@B@B@BK@@B@BC@@B@BJ@@C@@BBB@@BCJI@C@JIK@KK",
	"drop":      "@J$tl",
	"nth":       "@@B@B$hd$drop",
	"zipwith":   "@Y@@B@B@C@@BB@@C$case$nil@@B@B@C@@BB@@BB@@C$case$nil@S@@BC@@B@BB@@B@BC@@B@B@BB@B@B$cons",
	"zipapp":    "@Y@@B@C@@BB@@C$case$nil@@B@C@@BB@@BB@@C$case$nil@C@@BB@@BC@@B@BB@B$cons",
	"zip":       "@$zipwith$pair",
	"last":      "@$foldr1F",
	"isempty":   "@J@K@KF",
	"length":    "@@$foldr@K$succ#0",
	"foldl":     "@@BY@@B@B@S@@BC@C$case@C@@BBB",
	"foldl1":    "@@C@@BS@@C@@BB$foldl$hd$tl",
	"foldr":     "@@B@BY@@B@C@@BB@@BC@C$case@@BC@BB",
	"foldr1":    "@@BY@@B@BJ@@B@B@S@@BS@C$isempty@@BC@BB",
	"map":       "@@BY@@B@B@C@@C$case$nil@@BC@@B@BB@B$cons",
	"filter":    "@@BY@@B@B@C@@C$case$nil@@BC@@B@BB@@C@@BC@@CS$cons I",
	"append":    "@Y@@B@C@@BS$case@@B@B@C@@BB$cons C",
	"partition": "@Y@@B@B@S@@C@J@K@KF@@C@J@KK@KK@@B@BJ@@C@@BS@@B@BB@BC@@C@@BS@@B@BS@@B@B@BS@@C@@BS@@B@BB@BB@@B@BC@@B@BJ@@BCJ@@B@C@@BB@@BCJ@@BCJ",
	"quicksort": "@@BY@@B@B@C@@C$case@KK@@C@@BB@@BS@@B@BC@B$partition@@S@@BB@@BB@@BC@B$append@C@@BB$cons",
	"rev":       "@@$foldl@C$cons$nil",
	"natsfrom":  "@Y@@B@S$cons@@CB$succ",
	"sum":       "@@$foldr$plus#0",
	"neval":     "@@C@@C@J@@CB@SBIF",
	"leval":     "@@B$rev$rev",
	"exlist1":   "@@$cons#0@@$cons#1@@$cons#2$nil",
	"exlist2":   "@@$cons#2@@$cons#0@@$cons#7@@$cons#5@@$cons#1@@$cons#3@@$cons#6$nil",
	"fib":       "@@C@@C@J@@S@@BC@@BJ@JF@@S@@BS@@B@BB@JK@JF@@C@JFIK",
	"fact":      "@@C@@C@J@@B@SB@@CB@SBFI",
	"tnpo":      "@@B@Y@@BJ@@C@@BC@@B@BC@@B@C@@BB@J@@CB@SB@@B@S@@BS@C@@C@@C@@C@J@@BKJK#0@@C@JK@K#0@@C@@BBB@@B@C@@BC@@BJ@@S@@S@@C@J@@C@J#0KK@@BC@@C@@BC@@C@@BB@J@@B@SBC@@BKKI@@B@SB@@S@@BS@BB@@S@@BS@BBI@SB#0@@C@@BCJ#0",
	"blc":       "@Y@@B@BJ@@B@B@B@SI@@S@@BS@@B@BC@@B@B@BB@@B@B@BS@@B@B@CB@@S@@BBB@@B@S@@BC@@B@BS@@B@CB@@CB@@C@@BBB@C$pair@@C@@BBB@@C@@BBBS@@B@S@@BB@@BS@@B@SI@@CBJ@@B@B@B@BK@@B@BC@@C@@BBB@@C@@BBB@@B@CBJ",
	"runblc":    "@$blc K",
	"rjot":      "@Y@@B@C@@C$case I@@S@@BC@@B@BS@@B@CB@@B@BS@BK@@C@@BC@@CCSK",
	"jot":       "@@B$rjot$rev",
	"diag":      "@@C@@BC@@B@BY@@C@@BC@@B@BB@@B@BS@@B@B@B$append@@C@@BS@@B@BB$zipwith@@B@B$rev@C$take@@CB$succ I",
	"diagapp":   "@@C@@BY@@C@@BB@@BS@@B@B$append@@S@@BB$zipapp@@B@B$rev@C$take@@CB$succ I",
	"allsk":     "@Y@@B@$cons K@@B@$cons S$diagapp",
	"allski":    "@Y@@B@$cons I@@B@$cons K@@B@$cons S$diagapp",
	"allskibc":  "@Y@@B@$cons I@@B@$cons K@@B@$cons B@@B@$cons C@@B@$cons S$diagapp",
}

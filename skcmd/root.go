// Package skcmd implements the mini-sk command line tool.
package skcmd

import (
	"context"
	"strconv"

	"github.com/jmoiron/sqlx"
	"go.brendoncarroll.net/star"

	"github.com/imneme/mini-sk/internal/dbutil"
	"github.com/imneme/mini-sk/sklang/macros"
	"github.com/imneme/mini-sk/skmem"
	"github.com/imneme/mini-sk/skvm"
)

func Root() star.Command {
	return root
}

var root = star.NewDir(star.Metadata{
	Short: "Mini-SK, combinators & more...",
}, map[star.Symbol]star.Command{
	"repl": repl,
	"eval": eval,
	"run":  runFiles,

	"macro": star.NewDir(star.Metadata{
		Short: "manage user-defined macros",
	}, map[star.Symbol]star.Command{
		"set":  macroSet,
		"get":  macroGet,
		"list": macroList,
		"del":  macroDel,
	}),
})

var arenaParam = star.Param[int]{
	Name:    "arena",
	Default: star.Ptr("3072"),
	Parse:   strconv.Atoi,
}

var stackParam = star.Param[int]{
	Name:    "stack",
	Default: star.Ptr("512"),
	Parse:   strconv.Atoi,
}

var budgetParam = star.Param[uint64]{
	Name:    "budget",
	Default: star.Ptr("0"),
	Parse: func(x string) (uint64, error) {
		return strconv.ParseUint(x, 10, 64)
	},
}

var dbParam = star.Param[*sqlx.DB]{
	Name:    "db",
	Default: star.Ptr(":memory:"),
	Parse: func(x string) (*sqlx.DB, error) {
		db, err := dbutil.Open(x)
		if err != nil {
			return nil, err
		}
		if err := macros.SetupDB(context.Background(), db); err != nil {
			return nil, err
		}
		return db, nil
	},
}

// newMachine builds a machine from the command's sizing flags.
func newMachine(c star.Context) *skvm.Machine {
	m := skvm.New(skmem.New(arenaParam.Load(c)), stackParam.Load(c))
	m.Budget = budgetParam.Load(c)
	return m
}

// newResolver layers user definitions from the db over the builtin table.
func newResolver(c star.Context) (*macros.DBStore, error) {
	return macros.NewDBStore(dbParam.Load(c), macros.Builtin())
}

package skcmd

import (
	"bufio"
	"os"

	"go.brendoncarroll.net/star"
	"go.brendoncarroll.net/stdctx/logctx"

	"github.com/imneme/mini-sk/sklang/parser"
	"github.com/imneme/mini-sk/sklang/printer"
)

var exprParam = star.Param[string]{Name: "expr", Parse: star.ParseString}

var eval = star.Command{
	Metadata: star.Metadata{
		Short: "reduce one term and print its normal form",
	},
	Flags: []star.IParam{dbParam, arenaParam, stackParam, budgetParam},
	Pos:   []star.IParam{exprParam},
	F: func(c star.Context) error {
		ctx := c.Context
		db := dbParam.Load(c)
		defer db.Close()
		res, err := newResolver(c)
		if err != nil {
			return err
		}
		m := newMachine(c)
		m.In = bufio.NewReader(os.Stdin)
		m.Out = c.StdOut

		a, err := parser.ParseString(ctx, m.Mem(), exprParam.Load(c), res)
		if err != nil {
			return err
		}
		a = m.Reduce(a)
		if err := (printer.Printer{Force: true}).Print(c.StdOut, m, a); err != nil {
			return err
		}
		c.Printf("\n")
		m.Mem().Release(a)
		if m.OverBudget() {
			logctx.Warnf(ctx, "stopped after %d reductions, result may not be normal", m.Reductions())
		}
		return nil
	},
}

package skcmd

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"go.brendoncarroll.net/star"

	"github.com/imneme/mini-sk/sklang/macros"
	"github.com/imneme/mini-sk/sklang/parser"
	"github.com/imneme/mini-sk/sklang/printer"
	"github.com/imneme/mini-sk/skvm"
)

const historyFile = ".minisk_history"

var repl = star.Command{
	Metadata: star.Metadata{
		Short: "interactively reduce terms",
	},
	Flags: []star.IParam{dbParam, arenaParam, stackParam, budgetParam},
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

		c.Printf("Mini-SK, combinators & more...\n\n")
		printMacroNames(ctx, c, res)

		ln := liner.NewLiner()
		defer ln.Close()
		ln.SetCtrlCAborts(true)

		home, _ := os.UserHomeDir()
		histPath := filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()

		for {
			line, err := ln.Prompt("Term> ")
			if err != nil {
				if errors.Is(err, liner.ErrPromptAborted) {
					continue
				}
				if errors.Is(err, io.EOF) {
					c.Printf("\n")
					return nil
				}
				return err
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			if strings.TrimSpace(line) == ":quit" {
				return nil
			}
			ln.AppendHistory(line)
			if err := evalLine(ctx, c, m, res, line); err != nil {
				c.Printf("error: %v\n", err)
			}
		}
	},
}

// evalLine reduces every term on the line, printing each term back, its
// normal form, and the work it took.
func evalLine(ctx context.Context, c star.Context, m *skvm.Machine, res parser.Resolver, line string) error {
	p := parser.NewParser(m.Mem(), strings.NewReader(line), res)
	for {
		done, err := p.AtEOF()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		a, err := p.ParseExpr(ctx)
		if err != nil {
			return err
		}
		m.ResetStats()
		c.Printf("%s\n--->\n", printer.Printer{}.PrintString(m, a))
		a = m.Reduce(a)
		c.Printf("%s\n", printer.Printer{Force: true}.PrintString(m, a))
		c.Printf("%d reductions, %d max appnodes\n", m.Reductions(), m.Mem().MaxLive())
		m.Mem().Release(a)
		if m.OverBudget() {
			c.Printf("(stopped at the reduction budget, result may not be normal)\n")
		}
	}
}

func printMacroNames(ctx context.Context, c star.Context, res *macros.DBStore) {
	c.Printf("Predefined macros:")
	comma := ""
	for _, name := range macros.Builtin().Names() {
		c.Printf("%s $%s", comma, name)
		comma = ","
	}
	c.Printf("\n")
	if names, err := res.List(ctx); err == nil && len(names) > 0 {
		c.Printf("User macros:")
		comma = ""
		for _, name := range names {
			c.Printf("%s $%s", comma, name)
			comma = ","
		}
		c.Printf("\n")
	}
}

package skcmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"go.brendoncarroll.net/star"
	"golang.org/x/sync/errgroup"

	"github.com/imneme/mini-sk/sklang/parser"
	"github.com/imneme/mini-sk/sklang/printer"
	"github.com/imneme/mini-sk/skmem"
	"github.com/imneme/mini-sk/skvm"
)

var filesParam = star.Param[string]{
	Name:     "file",
	Repeated: true,
	Parse:    star.ParseString,
}

var runFiles = star.Command{
	Metadata: star.Metadata{
		Short: "reduce every term in the given files",
	},
	Flags: []star.IParam{dbParam, arenaParam, stackParam, budgetParam},
	Pos:   []star.IParam{filesParam},
	F: func(c star.Context) error {
		db := dbParam.Load(c)
		defer db.Close()
		res, err := newResolver(c)
		if err != nil {
			return err
		}
		files := filesParam.LoadAll(c)
		outs := make([]bytes.Buffer, len(files))

		// Each file gets its own machine; they share nothing but the
		// macro store, so they can run in parallel.
		eg, ctx := errgroup.WithContext(c.Context)
		for i, p := range files {
			i, p := i, p
			eg.Go(func() error {
				m := newMachine(c)
				m.Out = &outs[i]
				return runFile(ctx, m, &outs[i], p, res)
			})
		}
		if err := eg.Wait(); err != nil {
			return err
		}
		for i := range files {
			if len(files) > 1 {
				c.Printf("== %s\n", files[i])
			}
			if _, err := c.StdOut.Write(outs[i].Bytes()); err != nil {
				return err
			}
		}
		return nil
	},
}

// runFile reduces each term in the file at path, writing one normal form
// per line to out. Resource exhaustion in this machine is reported as an
// error rather than ending the process, since other files may still finish.
func runFile(ctx context.Context, m *skvm.Machine, out *bytes.Buffer, path string, res parser.Resolver) (retErr error) {
	defer func() {
		if r := recover(); r != nil {
			f, ok := r.(*skmem.Fatal)
			if !ok {
				panic(r)
			}
			retErr = fmt.Errorf("%s: %s", path, f.Msg)
		}
	}()
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	p := parser.NewParser(m.Mem(), strings.NewReader(string(data)), res)
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
		a = m.Reduce(a)
		if err := (printer.Printer{Force: true}).Print(out, m, a); err != nil {
			return err
		}
		out.WriteByte('\n')
		m.Mem().Release(a)
		if m.OverBudget() {
			return fmt.Errorf("%s: reduction budget exhausted", path)
		}
	}
}

// Package printer renders heap graphs back into combinator notation.
package printer

import (
	"fmt"
	"strings"

	"github.com/imneme/mini-sk/skmem"
	"github.com/imneme/mini-sk/skvm"
)

// Writer is used by the Print functions
type Writer interface {
	WriteString(s string) (int, error)
	WriteByte(b byte) error
}

type Printer struct {
	// Force causes arguments of inert heads to be reduced as they are
	// printed, so the output shows the value a lazy argument stands for.
	// Forcing mutates the graph in place; the reductions it performs count
	// against the machine's totals the same as any others.
	Force bool
}

func (p Printer) PrintString(m *skvm.Machine, a skmem.Atom) string {
	sb := strings.Builder{}
	if err := p.Print(&sb, m, a); err != nil {
		return err.Error()
	}
	return sb.String()
}

func (p Printer) Print(w Writer, m *skvm.Machine, a skmem.Atom) error {
	if a.IsLit() {
		return p.printLit(w, a.Lit())
	}
	mem := m.Mem()
	if err := w.WriteByte('('); err != nil {
		return err
	}
	if err := p.Print(w, m, mem.Fn(a)); err != nil {
		return err
	}
	if err := w.WriteByte(' '); err != nil {
		return err
	}
	// An argument under an inert head can never be demanded by reduction,
	// so force it here if asked to.
	if fn := mem.Fn(a); p.Force && fn.IsLit() && fn.Lit().ReqArgs() == 0 {
		mem.SetArg(a, m.Reduce(mem.Arg(a)))
	}
	if err := p.Print(w, m, mem.Arg(a)); err != nil {
		return err
	}
	return w.WriteByte(')')
}

// printLit renders a literal: its key if it names a combinator, a quoted
// character if printable, a plain number otherwise.
func (p Printer) printLit(w Writer, l skmem.Lit) error {
	if key, ok := skmem.KeyFor(l); ok {
		return w.WriteByte(key)
	}
	if l >= 32 && l < 127 {
		if err := w.WriteByte('\''); err != nil {
			return err
		}
		return w.WriteByte(byte(l))
	}
	_, err := w.WriteString(fmt.Sprintf("%d", l))
	return err
}

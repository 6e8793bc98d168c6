// Package skvm implements the graph-reduction engine: a spine-walking,
// explicit-stack evaluator over the skmem arena, with one reduction rule per
// primitive combinator.
package skvm

import (
	"io"

	"github.com/imneme/mini-sk/skmem"
)

// Machine is a single evaluation context: the arena it rewrites, the explicit
// spine stack, the reduction counter, and the byte streams the getchar and
// putchar rules are bound to. A Machine is not safe for concurrent use; the
// reference-counting protocol assumes a single writer.
type Machine struct {
	mem *skmem.Arena

	stack    []skmem.Atom
	maxStack int

	reductions uint64

	// Budget, when non-zero, bounds the total number of reductions the
	// machine performs before Reduce starts returning terms as-is. It is an
	// embedding-level limit, not part of the core model; see OverBudget.
	Budget uint64

	// In supplies bytes to the getchar rule. A nil In reads as end of input.
	In io.ByteReader
	// Out receives bytes from the putchar rule. A nil Out discards them.
	Out io.Writer
}

// New returns a machine evaluating over mem with the given maximum spine
// depth. Exceeding maxStack during reduction is fatal, mirroring the arena's
// fixed-capacity discipline.
func New(mem *skmem.Arena, maxStack int) *Machine {
	if maxStack < 1 {
		maxStack = 1
	}
	return &Machine{
		mem:      mem,
		stack:    make([]skmem.Atom, 0, maxStack),
		maxStack: maxStack,
	}
}

// Mem returns the arena the machine evaluates over.
func (m *Machine) Mem() *skmem.Arena { return m.mem }

// Reductions returns the number of rule firings plus indirection collapses
// since the last ResetStats.
func (m *Machine) Reductions() uint64 { return m.reductions }

// ResetStats zeroes the reduction counter and rebases the arena's node
// high-water mark. Call it once per top-level term.
func (m *Machine) ResetStats() {
	m.reductions = 0
	m.mem.ResetMaxLive()
}

// OverBudget reports whether the reduction budget has been used up. A machine
// over budget unwinds Reduce cleanly (the graph stays consistent, nothing
// leaks); the caller decides whether to report or to raise the budget and
// keep going.
func (m *Machine) OverBudget() bool {
	return m.Budget > 0 && m.reductions >= m.Budget
}

// frame returns the i-th spine frame from the top of the stack. frame(0) is
// the node whose function slot holds the literal being dispatched, i.e. the
// application supplying the first argument.
func (m *Machine) frame(i int) skmem.Atom {
	return m.stack[len(m.stack)-1-i]
}

func (m *Machine) top() skmem.Atom {
	return m.stack[len(m.stack)-1]
}

func (m *Machine) push(a skmem.Atom) {
	if len(m.stack) >= m.maxStack {
		panic(&skmem.Fatal{Status: skmem.StatusStackOverflow, Msg: "reduction stack overflow"})
	}
	m.stack = append(m.stack, a)
}

func (m *Machine) readByte() (byte, bool) {
	if m.In == nil {
		return 0, false
	}
	b, err := m.In.ReadByte()
	if err != nil {
		return 0, false
	}
	return b, true
}

func (m *Machine) writeByte(b byte) {
	if m.Out == nil {
		return
	}
	m.Out.Write([]byte{b})
}

package skvm

import "github.com/imneme/mini-sk/skmem"

// A ruleFn rewrites one redex. curr is the spine frame holding the rule's
// last argument; earlier arguments sit in the still-unpopped frames below it
// (frame(0) holds the first). Rules return the replacement atom, normally by
// going through Replace on curr so that other owners of the redex observe
// the result.
type ruleFn func(m *Machine, curr skmem.Atom) skmem.Atom

// ruleTable is indexed by the literal's subtype. Order is part of the
// literal encoding contract in skmem. Populated in init because the strict
// rules call back into Reduce, which reads the table.
var ruleTable [16]ruleFn

func init() {
	ruleTable = [16]ruleFn{
		reduceIdent,   // I
		reduceConst,   // K
		reduceFusion,  // S
		reduceCompose, // B
		reduceFlip,    // C
		reduceFix,     // Y
		reducePutChar, // P
		reduceAdd,     // +
		reduceSub,     // -
		reduceMul,     // *
		reduceDiv,     // /
		reduceFalse,   // F
		reduceJump,    // J
		reduceEq,      // =
		reduceLt,      // <
		reduceGetChar, // G
	}
}

// (I x) -> x
func reduceIdent(m *Machine, curr skmem.Atom) skmem.Atom {
	return m.mem.Replace(curr, m.mem.Retain(m.mem.Arg(curr)))
}

// ((K x) y) -> x
func reduceConst(m *Machine, curr skmem.Atom) skmem.Atom {
	return m.mem.Replace(curr, m.mem.Retain(m.mem.Arg(m.frame(0))))
}

// ((F x) y) -> y
func reduceFalse(m *Machine, curr skmem.Atom) skmem.Atom {
	return m.mem.Replace(curr, m.mem.Retain(m.mem.Arg(curr)))
}

// ((J x) y) -> (y x)
func reduceJump(m *Machine, curr skmem.Atom) skmem.Atom {
	yx := m.mem.Alloc(
		m.mem.Retain(m.mem.Arg(curr)),
		m.mem.Retain(m.mem.Arg(m.frame(0))))
	return m.mem.Replace(curr, yx)
}

// (((S f) g) x) -> ((f x) (g x))
func reduceFusion(m *Machine, curr skmem.Atom) skmem.Atom {
	fx := m.mem.Alloc(
		m.mem.Retain(m.mem.Arg(m.frame(0))),
		m.mem.Retain(m.mem.Arg(curr)))
	gx := m.mem.Alloc(
		m.mem.Retain(m.mem.Arg(m.frame(1))),
		m.mem.Retain(m.mem.Arg(curr)))
	return m.mem.Replace(curr, m.mem.Alloc(fx, gx))
}

// (((B f) g) x) -> (f (g x))
func reduceCompose(m *Machine, curr skmem.Atom) skmem.Atom {
	f := m.mem.Retain(m.mem.Arg(m.frame(0)))
	gx := m.mem.Alloc(
		m.mem.Retain(m.mem.Arg(m.frame(1))),
		m.mem.Retain(m.mem.Arg(curr)))
	return m.mem.Replace(curr, m.mem.Alloc(f, gx))
}

// (((C f) x) y) -> ((f y) x)
func reduceFlip(m *Machine, curr skmem.Atom) skmem.Atom {
	fy := m.mem.Alloc(
		m.mem.Retain(m.mem.Arg(m.frame(0))),
		m.mem.Retain(m.mem.Arg(curr)))
	x := m.mem.Retain(m.mem.Arg(m.frame(1)))
	return m.mem.Replace(curr, m.mem.Alloc(fy, x))
}

// (Y f) -> (f (Y f))
//
// The result re-references curr, so going through Replace would tie a
// reference-counted cycle. Instead curr keeps its owner count and becomes
// the argument of the new application. This is the one sanctioned exception
// to the no-cycles rule.
func reduceFix(m *Machine, curr skmem.Atom) skmem.Atom {
	return m.mem.Alloc(m.mem.Retain(m.mem.Arg(curr)), curr)
}

// ((P k) c): force c, emit it as one output byte, continue as k.
// A c that does not reduce to a literal prints as '*'.
func reducePutChar(m *Machine, curr skmem.Atom) skmem.Atom {
	v := m.Reduce(m.mem.Arg(curr))
	m.mem.SetArg(curr, v)
	b := byte('*')
	if v.IsLit() {
		b = byte(v.Lit().Subtype())
	}
	m.writeByte(b)
	return m.mem.Replace(curr, m.mem.Retain(m.mem.Arg(m.frame(0))))
}

// (G k): read one input byte (end of input becomes the sentinel literal)
// and apply k to it.
func reduceGetChar(m *Machine, curr skmem.Atom) skmem.Atom {
	k := m.mem.Arg(curr)
	result := skmem.LitEOF.Atom()
	if b, ok := m.readByte(); ok {
		result = skmem.Lit(b).Atom()
	}
	return m.mem.Replace(curr, m.mem.Alloc(m.mem.Retain(k), result))
}

// forcePair reduces the two strict operands of a ternary primitive (held by
// frame(1) and by curr), stores the reduced forms back into their argument
// slots, and returns them as literals. An operand stuck as an application
// contributes zero; arithmetic on non-numbers is nonsense anyway, but it
// must not corrupt the graph.
func (m *Machine) forcePair(curr skmem.Atom) (x, y skmem.Lit) {
	lhs := m.Reduce(m.mem.Arg(m.frame(1)))
	m.mem.SetArg(m.frame(1), lhs)
	rhs := m.Reduce(m.mem.Arg(curr))
	m.mem.SetArg(curr, rhs)
	if lhs.IsLit() {
		x = lhs.Lit()
	}
	if rhs.IsLit() {
		y = rhs.Lit()
	}
	return x, y
}

// applyCont routes a computed literal through the continuation in frame(0).
// A continuation that is literally I receives the value immediately without
// an extra application node; anything else is applied to it, leaving the
// caller in charge of when (and whether) the value is consumed.
func (m *Machine) applyCont(curr, result skmem.Atom) skmem.Atom {
	k := m.mem.Arg(m.frame(0))
	if k == skmem.LitI.Atom() {
		return m.mem.Replace(curr, result)
	}
	return m.mem.Replace(curr, m.mem.Alloc(m.mem.Retain(k), result))
}

// (((+ k) a) b) -> (k (a+b)), wrapping at the literal width.
func reduceAdd(m *Machine, curr skmem.Atom) skmem.Atom {
	x, y := m.forcePair(curr)
	return m.applyCont(curr, skmem.Lit((uint16(x)+uint16(y))&skmem.LitMask).Atom())
}

func reduceSub(m *Machine, curr skmem.Atom) skmem.Atom {
	x, y := m.forcePair(curr)
	return m.applyCont(curr, skmem.Lit((uint16(x)-uint16(y))&skmem.LitMask).Atom())
}

func reduceMul(m *Machine, curr skmem.Atom) skmem.Atom {
	x, y := m.forcePair(curr)
	return m.applyCont(curr, skmem.Lit((uint16(x)*uint16(y))&skmem.LitMask).Atom())
}

// Division by zero yields 0 so that no panic escapes the engine.
func reduceDiv(m *Machine, curr skmem.Atom) skmem.Atom {
	x, y := m.forcePair(curr)
	var q uint16
	if y != 0 {
		q = uint16(x) / uint16(y)
	}
	return m.applyCont(curr, skmem.Lit(q&skmem.LitMask).Atom())
}

// Comparisons produce the boolean-as-combinator encoding: K for true, F for
// false, passed through the continuation like the arithmetic results.
func reduceEq(m *Machine, curr skmem.Atom) skmem.Atom {
	x, y := m.forcePair(curr)
	r := skmem.LitF
	if x == y {
		r = skmem.LitK
	}
	return m.applyCont(curr, r.Atom())
}

func reduceLt(m *Machine, curr skmem.Atom) skmem.Atom {
	x, y := m.forcePair(curr)
	r := skmem.LitF
	if x < y {
		r = skmem.LitK
	}
	return m.applyCont(curr, r.Atom())
}

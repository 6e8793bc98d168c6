// Package skmem implements the memory model of the reduction machine:
// 16-bit tagged atoms, a fixed-capacity arena of binary application nodes,
// and the reference-counting discipline layered on top of it.
package skmem

// An Atom is a 16-bit value that is either a 15-bit literal, typically
// representing a combinator, or a reference to an application node in the
// arena. Node references have the high bit set; the low 15 bits are the
// node's index.
type Atom uint16

const nodeBit = 0x8000

// IsLit reports whether a holds a literal rather than a node reference.
func (a Atom) IsLit() bool { return a&nodeBit == 0 }

// Lit returns the literal payload. Only meaningful when IsLit is true.
func (a Atom) Lit() Lit { return Lit(a) }

func (a Atom) index() int { return int(a &^ nodeBit) }

func nodeAtom(i int) Atom { return Atom(i) | nodeBit }

// A Lit is a 15-bit literal. The high byte is the number of arguments the
// literal requires before it can reduce (0 means an inert value such as a
// character or small number), the low byte selects an entry in the machine's
// rule table. The encoding is a contract with the rule table, not something
// the arena interprets.
type Lit uint16

// LitMask bounds every literal; arithmetic results wrap to this width.
const LitMask = 0x7fff

// ReqArgs returns how many applied arguments the literal needs to reduce.
func (l Lit) ReqArgs() int { return int(l >> 8) }

// Subtype returns the rule-table index for the literal.
func (l Lit) Subtype() int { return int(l & 0xff) }

// Atom returns the literal as an atom.
func (l Lit) Atom() Atom { return Atom(l) }

// Combinator literals. The high byte doubles as the arity, the low byte as
// the rule-table index, so the values double as the dispatch key.
const (
	LitI   Lit = 0x0100 // identity
	LitK   Lit = 0x0201 // constant
	LitS   Lit = 0x0302 // fusion
	LitB   Lit = 0x0303 // composition
	LitC   Lit = 0x0304 // interchange
	LitY   Lit = 0x0105 // fixed point
	LitP   Lit = 0x0206 // putchar
	LitAdd Lit = 0x0307
	LitSub Lit = 0x0308
	LitMul Lit = 0x0309
	LitDiv Lit = 0x030a
	LitF   Lit = 0x020b // false, i.e. (K I)
	LitJ   Lit = 0x020c // jump, i.e. (C I)
	LitEq  Lit = 0x030d
	LitLt  Lit = 0x030e
	LitG   Lit = 0x010f // getchar

	// LitEOF is the end-of-input sentinel produced by the getchar rule.
	LitEOF Lit = 0x7fff
)

// reps maps surface keys to combinator literals. The slice is ordered by
// subtype so that printing can index it directly.
var reps = []struct {
	key byte
	lit Lit
}{
	{'I', LitI},
	{'K', LitK},
	{'S', LitS},
	{'B', LitB},
	{'C', LitC},
	{'Y', LitY},
	{'P', LitP},
	{'+', LitAdd},
	{'-', LitSub},
	{'*', LitMul},
	{'/', LitDiv},
	{'F', LitF},
	{'J', LitJ},
	{'=', LitEq},
	{'<', LitLt},
	{'G', LitG},
}

// FromKey returns the combinator literal written as the single character c.
func FromKey(c byte) (Lit, bool) {
	for _, r := range reps {
		if r.key == c {
			return r.lit, true
		}
	}
	return 0, false
}

// KeyFor returns the single-character spelling of l, if l is one of the
// combinator literals. A literal whose subtype indexes the table but whose
// arity disagrees is not a combinator (it is a plain number that happens to
// share low bits).
func KeyFor(l Lit) (byte, bool) {
	i := l.Subtype()
	if i < len(reps) && reps[i].lit.ReqArgs() == l.ReqArgs() {
		return reps[i].key, true
	}
	return 0, false
}

// CombinatorKeys returns the surface spelling of every combinator, in
// rule-table order.
func CombinatorKeys() []byte {
	ks := make([]byte, len(reps))
	for i, r := range reps {
		ks[i] = r.key
	}
	return ks
}

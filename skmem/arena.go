package skmem

import "fmt"

// node is one binary application cell: (fn arg) plus an intrusive refcount.
// While a node is on the free list, fn holds the next free slot.
type node struct {
	fn  Atom
	arg Atom
	rc  uint16
}

// rcFree marks a slot that is on the free list. Retaining or releasing a
// marked slot is a caller bug and panics immediately rather than corrupting
// the heap.
const rcFree = 0x8888

// MaxCap is the largest arena capacity the 15-bit node index can address.
// One index value past the end is reserved as the free-list terminator.
const MaxCap = 0x7fff

// Arena owns every application node. Capacity is fixed at construction;
// there is no dynamic growth. Unused slots form a free list threaded through
// the fn field.
type Arena struct {
	nodes    []node
	freelist Atom
	live     int
	maxLive  int
}

// New returns an arena with room for capacity nodes.
func New(capacity int) *Arena {
	if capacity < 1 || capacity > MaxCap {
		panic(fmt.Sprintf("skmem: bad arena capacity %d", capacity))
	}
	ar := &Arena{nodes: make([]node, capacity)}
	for i := range ar.nodes {
		ar.nodes[i].fn = nodeAtom(i + 1)
		ar.nodes[i].rc = rcFree
	}
	ar.freelist = nodeAtom(0)
	return ar
}

// Cap returns the fixed capacity.
func (ar *Arena) Cap() int { return len(ar.nodes) }

// Live returns the number of allocated nodes.
func (ar *Arena) Live() int { return ar.live }

// MaxLive returns the high-water mark of allocated nodes since the last
// ResetMaxLive.
func (ar *Arena) MaxLive() int { return ar.maxLive }

// ResetMaxLive rebases the high-water mark to the current live count.
func (ar *Arena) ResetMaxLive() { ar.maxLive = ar.live }

func (ar *Arena) at(a Atom) *node {
	if a.IsLit() {
		panic("skmem: literal used as node reference")
	}
	n := &ar.nodes[a.index()]
	if n.rc == rcFree {
		panic("skmem: access to freed node")
	}
	return n
}

// Fn returns the function slot of a node.
func (ar *Arena) Fn(a Atom) Atom { return ar.at(a).fn }

// Arg returns the argument slot of a node.
func (ar *Arena) Arg(a Atom) Atom { return ar.at(a).arg }

// SetFn overwrites the function slot of a node. Ownership of the stored
// reference transfers to the slot; callers are responsible for the
// retain/release bookkeeping.
func (ar *Arena) SetFn(a, fn Atom) { ar.at(a).fn = fn }

// SetArg overwrites the argument slot of a node, with the same ownership
// transfer as SetFn.
func (ar *Arena) SetArg(a, arg Atom) { ar.at(a).arg = arg }

// Refs returns the current owner count of a node.
func (ar *Arena) Refs(a Atom) int { return int(ar.at(a).rc) }

// Alloc constructs the application (fn arg) with one owner: the caller.
// Exhausting the arena is fatal; the memory model is fixed-capacity with no
// eviction, so there is nothing sensible to do but stop.
func (ar *Arena) Alloc(fn, arg Atom) Atom {
	a := ar.freelist
	if a.index() == len(ar.nodes) {
		panic(&Fatal{Status: StatusOutOfNodes, Msg: "out of app space"})
	}
	n := &ar.nodes[a.index()]
	ar.freelist = n.fn
	n.fn, n.arg, n.rc = fn, arg, 1
	ar.live++
	if ar.live > ar.maxLive {
		ar.maxLive = ar.live
	}
	return a
}

// Retain adds an owner to a and returns it. Literals are unboxed values and
// are not counted.
func (ar *Arena) Retain(a Atom) Atom {
	if a.IsLit() {
		return a
	}
	ar.at(a).rc++
	return a
}

// Release drops one owner of a and reports whether that freed the node.
// Freeing releases the node's children (argument first, then function) and
// returns the slot to the free list. Literals are never freed and always
// report false.
func (ar *Arena) Release(a Atom) bool {
	if a.IsLit() {
		return false
	}
	n := ar.at(a)
	n.rc--
	if n.rc > 0 {
		return false
	}
	ar.Release(n.arg)
	ar.Release(n.fn)
	n.fn = ar.freelist
	n.rc = rcFree
	ar.freelist = a
	ar.live--
	return true
}

// Replace rewrites orig with the reduction result v and returns v. It first
// drops the reference the reduction consumed; if that freed orig outright
// there were no other owners and nothing needs rewriting. Otherwise orig is
// still visible to other owners, so it is overwritten in place with an
// indirection (fn = I, arg = v) that every owner transparently follows.
// This in-place mutation is what makes reduction results shared.
func (ar *Arena) Replace(orig, v Atom) Atom {
	if !ar.Release(orig) {
		ar.Retain(v)
		n := ar.at(orig)
		ar.Release(n.fn)
		ar.Release(n.arg)
		n.fn = LitI.Atom()
		n.arg = v
	}
	return v
}

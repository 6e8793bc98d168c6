package skvm

import "github.com/imneme/mini-sk/skmem"

// Reduce rewrites a to weak head normal form in place and returns the
// resulting atom. Ownership of a transfers to Reduce; the caller owns the
// result.
//
// The algorithm is a trampoline over an explicit stack rather than host-call
// recursion, so reduction depth is bounded by the configured stack size:
//
//  1. Spine descent: while the current atom is an application, push it and
//     follow the function slot, except that a function slot holding the
//     literal I marks an indirection, which is chased and collapsed instead.
//  2. Head dispatch: the current atom is now a literal. If it requires no
//     arguments, or more than the spine supplies, the term is in WHNF and
//     the unconsumed spine is returned as-is. Otherwise the rule selected by
//     the literal's subtype consumes exactly its arity in spine frames.
//  3. Splice: the rule's result replaces the consumed frames; if a frame
//     remains above, its function slot is re-pointed at the result (the
//     released reference to the consumed frame pays for the new one), and
//     the walk restarts from the result.
//
// Strict rules (arithmetic, comparison, putchar) force operands by calling
// Reduce recursively; nested calls share the machine stack, each tracking
// its own frame base.
func (m *Machine) Reduce(a skmem.Atom) skmem.Atom {
	base := len(m.stack)
	iAtom := skmem.LitI.Atom()
	curr := a
	for {
		for !curr.IsLit() {
			next := m.mem.Fn(curr)
			if next == iAtom {
				curr = m.collapse(curr, base)
				continue
			}
			m.push(curr)
			curr = next
		}

		lit := curr.Lit()
		req := lit.ReqArgs()
		if req == 0 || req > len(m.stack)-base || m.OverBudget() {
			break
		}
		m.reductions++
		result := ruleTable[lit.Subtype()](m, m.stack[len(m.stack)-req])
		m.stack = m.stack[:len(m.stack)-req]
		if len(m.stack) > base {
			m.mem.SetFn(m.top(), result)
		}
		curr = result
	}

	// WHNF: the head cannot consume the remaining spine. The outermost
	// stacked application is the overall result.
	if len(m.stack) == base {
		return curr
	}
	ret := m.stack[base]
	m.stack = m.stack[:base]
	return ret
}

// collapse follows a chain of indirection nodes starting at curr and
// compresses the path: every hopped-over node either dies (its last owner
// was the chain) or has its argument slot re-pointed directly at the final
// target, so later lookups skip the chain entirely. Each hop counts as a
// reduction. The spine frame above, if any, is spliced to the target.
func (m *Machine) collapse(curr skmem.Atom, base int) skmem.Atom {
	iAtom := skmem.LitI.Atom()
	next := m.mem.Arg(curr)
	for !next.IsLit() && m.mem.Fn(next) == iAtom {
		next = m.mem.Arg(next)
	}
	for {
		m.reductions++
		m.mem.Retain(next)
		if m.mem.Release(curr) {
			curr = next
			break
		}
		hop := m.mem.Arg(curr)
		m.mem.SetArg(curr, next)
		curr = hop
		if curr.IsLit() || m.mem.Fn(curr) != iAtom {
			break
		}
	}
	if len(m.stack) > base {
		m.mem.SetFn(m.top(), curr)
	}
	return curr
}

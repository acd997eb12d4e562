package program

import (
	"github.com/litprog/litprog/xhash"
)

// Hash is an order sensitive structural hash of the whole program, built
// from member hashes. It never sees raw identity, so two programs built from
// different instruction graphs hash equal whenever they are equivalent.
func Hash(p *T) uint64 {
	h := xhash.New(uint64(len(p.instrs)))
	for _, ri := range p.instrs {
		h = h.Uint64(ri.Hash())
	}
	return h.Sum()
}

// Equivalent reports whether the two programs encode identical behavior.
// Each program is laid out independently and members are compared pairwise,
// with targets judged by their resolved offsets within their own program, so
// pointer distinct but structurally parallel programs compare equal.
func Equivalent(p1, p2 *T) bool {
	if p1.Len() != p2.Len() {
		return false
	}

	m1, _ := Layout(p1)
	m2, _ := Layout(p2)
	for i, ri := range p1.instrs {
		if !ri.Equiv(p2.instrs[i], m1, m2) {
			return false
		}
	}
	return true
}

// Table is a dictionary of finalized programs keyed by structural hash and
// probed with Equivalent, letting a frontend reuse an already built program
// (mapped to a caller value, typically its written offset) instead of
// emitting a duplicate.
type Table[V any] struct {
	_ [0]func() // no equality

	entries map[uint64][]entry[V]
}

type entry[V any] struct {
	prog *T
	val  V
}

func (t *Table[V]) Len() int {
	n := 0
	for _, es := range t.entries {
		n += len(es)
	}
	return n
}

// Find returns the value stored for a program equivalent to p.
func (t *Table[V]) Find(p *T) (V, bool) {
	for _, e := range t.entries[Hash(p)] {
		if Equivalent(e.prog, p) {
			return e.val, true
		}
	}
	var zero V
	return zero, false
}

// Insert stores val for p unless an equivalent program is already present,
// and returns the surviving value.
func (t *Table[V]) Insert(p *T, val V) (V, bool) {
	h := Hash(p)
	for _, e := range t.entries[h] {
		if Equivalent(e.prog, p) {
			return e.val, true
		}
	}
	if t.entries == nil {
		t.entries = make(map[uint64][]entry[V])
	}
	t.entries[h] = append(t.entries[h], entry[V]{prog: p, val: val})
	return val, false
}

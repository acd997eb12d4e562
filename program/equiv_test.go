package program

import (
	"testing"

	"github.com/zeebo/assert"
	"github.com/zeebo/mwc"

	"github.com/litprog/litprog/instr"
)

// buildParallel constructs a program from a seeded rng. Two calls with the
// same seed produce structurally parallel programs out of entirely distinct
// instruction graphs.
func buildParallel(seed uint64) *T {
	rng := mwc.New(seed, 1)

	p := New()
	end := p.EndInstruction()

	n := int(rng.Uint32n(12))
	for i := 0; i < n; i++ {
		switch rng.Uint32n(6) {
		case 0:
			p.AddBeforeEnd(instr.NewCheckBounds(uint64(rng.Uint32n(100)), 100+uint64(rng.Uint32n(100)), end))
		case 1:
			p.AddBeforeEnd(&instr.Report{OnMatch: 5, OffsetAdjust: int32(rng.Uint32n(4))})
		case 2:
			p.AddBeforeEnd(&instr.CheckGroups{Groups: 1 << (rng.Uint64() % 64)})
		case 3:
			p.AddBeforeEnd(instr.NewCheckNotHandled(rng.Uint32n(32), end))
		case 4:
			p.AddBeforeEnd(&instr.SetState{Index: rng.Uint32n(64)})
		case 5:
			p.AddBeforeEnd(instr.NewDedupe(0, rng.Uint32n(8), 0, end))
		}
	}
	return p
}

func TestParallelConstructionEquivalent(t *testing.T) {
	for seed := uint64(0); seed < 50; seed++ {
		p1 := buildParallel(seed)
		p2 := buildParallel(seed)

		assert.That(t, Equivalent(p1, p2))
		assert.That(t, Equivalent(p2, p1))
		assert.Equal(t, Hash(p1), Hash(p2))
	}
}

func TestEquivalenceImpliesEqualHash(t *testing.T) {
	rng := mwc.Rand()
	progs := make([]*T, 40)
	for i := range progs {
		progs[i] = buildParallel(rng.Uint64())
	}

	for _, p1 := range progs {
		for _, p2 := range progs {
			if Equivalent(p1, p2) {
				assert.Equal(t, Hash(p1), Hash(p2))
			}
		}
	}
}

func TestOrderSensitive(t *testing.T) {
	// same two instructions, opposite order: not equivalent
	p1 := New()
	p1.AddBeforeEnd(instr.NewCheckBounds(0, 10, p1.EndInstruction()))
	p1.AddBeforeEnd(&instr.Report{OnMatch: 5})

	p2 := New()
	p2.AddBeforeEnd(&instr.Report{OnMatch: 5})
	p2.AddBeforeEnd(instr.NewCheckBounds(0, 10, p2.EndInstruction()))

	assert.That(t, !Equivalent(p1, p2))
}

func TestEquivalenceResolvesTargets(t *testing.T) {
	// identical opcodes and operands, but the targets resolve to different
	// relative positions: not equivalent
	mk := func(late bool) *T {
		p := New()
		r1 := &instr.Report{OnMatch: 1}
		r2 := &instr.Report{OnMatch: 1}
		target := r1
		if late {
			target = r2
		}
		p.AddBeforeEnd(instr.NewCheckState(7, target))
		p.AddBeforeEnd(r1)
		p.AddBeforeEnd(r2)
		return p
	}

	assert.That(t, Equivalent(mk(false), mk(false)))
	assert.That(t, Equivalent(mk(true), mk(true)))
	assert.That(t, !Equivalent(mk(false), mk(true)))
}

func TestSparseEquivalence(t *testing.T) {
	mk := func(key uint32) *T {
		p := New()
		end := p.EndInstruction()
		rep := &instr.Report{OnMatch: 2}
		begin := instr.NewSparseIterBegin(16, end)
		begin.AddJump(key, rep)
		p.AddBeforeEnd(begin)
		p.AddBeforeEnd(rep)
		p.AddBeforeEnd(instr.NewSparseIterNext(key, begin, end))
		return p
	}

	assert.That(t, Equivalent(mk(3), mk(3)))
	assert.Equal(t, Hash(mk(3)), Hash(mk(3)))
	assert.That(t, !Equivalent(mk(3), mk(4)))
}

func TestTable(t *testing.T) {
	var tbl Table[uint32]

	p1 := New()
	p1.AddBeforeEnd(&instr.Report{OnMatch: 1})

	// structurally identical to p1, distinct graph
	p2 := New()
	p2.AddBeforeEnd(&instr.Report{OnMatch: 1})

	p3 := New()
	p3.AddBeforeEnd(&instr.Report{OnMatch: 2})

	off, existed := tbl.Insert(p1, 100)
	assert.That(t, !existed)
	assert.Equal(t, off, uint32(100))

	off, existed = tbl.Insert(p2, 200)
	assert.That(t, existed)
	assert.Equal(t, off, uint32(100))

	off, existed = tbl.Insert(p3, 300)
	assert.That(t, !existed)
	assert.Equal(t, off, uint32(300))

	assert.Equal(t, tbl.Len(), 2)

	off, ok := tbl.Find(p2)
	assert.That(t, ok)
	assert.Equal(t, off, uint32(100))

	_, ok = tbl.Find(New())
	assert.That(t, !ok)
}

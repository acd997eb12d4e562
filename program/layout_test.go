package program

import (
	"testing"

	"github.com/aclements/go-perfevent/perfbench"
	"github.com/zeebo/assert"

	"github.com/litprog/litprog/blob"
	"github.com/litprog/litprog/instr"
	"github.com/litprog/litprog/wire"
)

func TestLayout(t *testing.T) {
	p := New()
	rep := &instr.Report{OnMatch: 5}
	p.AddBeforeEnd(instr.NewCheckBounds(0, 10, rep))
	p.Insert(1, rep)

	m, total := Layout(p)

	var sum uint32
	for _, ri := range p.Instrs() {
		assert.Equal(t, m[ri], sum)
		sum += ri.ByteLength()
	}
	assert.Equal(t, total, sum)
}

func TestWriteRoundTrip(t *testing.T) {
	// a bounds check targeting a report, then the terminator; decoding the
	// buffer recovers operands and resolved offsets
	p := New()
	rep := &instr.Report{OnMatch: 5, OffsetAdjust: 0}
	check := instr.NewCheckBounds(0, 10, rep)
	p.AddBeforeEnd(check)
	p.Insert(1, rep)

	var b blob.T
	buf, err := Write(p, &b)
	assert.NoError(t, err)

	m, total := Layout(p)
	assert.Equal(t, uint32(len(buf)), total)

	var r wire.R
	r.Init(buf)

	assert.Equal(t, r.Uint8(), uint8(instr.CodeCheckBounds))
	assert.Equal(t, r.Uint64(), uint64(0))
	assert.Equal(t, r.Uint64(), uint64(10))
	assert.Equal(t, r.Uint32(), m[rep])

	assert.Equal(t, r.Uint8(), uint8(instr.CodeReport))
	assert.Equal(t, r.Uint32(), uint32(5))
	assert.Equal(t, r.Int32(), int32(0))

	assert.Equal(t, r.Uint8(), uint8(instr.CodeEnd))
	assert.Equal(t, r.Remaining(), 0)
	assert.NoError(t, r.Done())

	assert.Equal(t, m[p.EndInstruction()], total-1)
}

func TestWriteSentinelTarget(t *testing.T) {
	// a target on the terminator is legal fall through, resolving to the
	// terminator's own offset
	p := New()
	check := instr.NewCheckBounds(3, 30, p.EndInstruction())
	p.AddBeforeEnd(check)

	var b blob.T
	buf, err := Write(p, &b)
	assert.NoError(t, err)

	var r wire.R
	r.Init(buf)
	assert.Equal(t, r.Uint8(), uint8(instr.CodeCheckBounds))
	r.Uint64()
	r.Uint64()
	assert.Equal(t, r.Uint32(), uint32(len(buf))-1)
}

func TestWriteForeignTarget(t *testing.T) {
	// a target living in a different program is dangling here
	other := New()

	p := New()
	p.AddBeforeEnd(instr.NewCheckBounds(0, 10, other.EndInstruction()))

	var b blob.T
	_, err := Write(p, &b)
	assert.Error(t, err)
}

func TestWriteSparseProgram(t *testing.T) {
	p := New()
	end := p.EndInstruction()

	r1 := &instr.Report{OnMatch: 1}
	r2 := &instr.Report{OnMatch: 2}

	begin := instr.NewSparseIterBegin(32, end)
	begin.AddJump(4, r1)
	begin.AddJump(11, r2)
	next := instr.NewSparseIterNext(4, begin, end)

	p.AddBeforeEnd(begin)
	p.AddBeforeEnd(r1)
	p.AddBeforeEnd(next)
	p.AddBeforeEnd(r2)

	var b blob.T
	buf, err := Write(p, &b)
	assert.NoError(t, err)

	m, total := Layout(p)
	assert.Equal(t, uint32(len(buf)), total)
	assert.That(t, b.Len() > 0)

	// decode the jump table out of the blob: resolved offsets of r1, r2
	var r wire.R
	r.Init(buf)
	r.Uint8()
	r.Uint32()
	r.Uint32()
	jumpsOff := r.Uint32()

	r.Init(b.Bytes()[jumpsOff : jumpsOff+8])
	assert.Equal(t, r.Uint32(), m[r1])
	assert.Equal(t, r.Uint32(), m[r2])
}

func BenchmarkWrite(b *testing.B) {
	perfbench.Open(b)
	b.ReportAllocs()

	p := New()
	end := p.EndInstruction()
	for i := 0; i < 16; i++ {
		rep := &instr.Report{OnMatch: 5}
		p.AddBeforeEnd(instr.NewCheckBounds(uint64(i), uint64(i+10), rep))
		p.AddBeforeEnd(rep)
		p.AddBeforeEnd(instr.NewCheckNotHandled(uint32(i), end))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var bl blob.T
		_, err := Write(p, &bl)
		if err != nil {
			b.Fatal(err)
		}
	}
}

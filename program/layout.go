package program

import (
	"github.com/zeebo/errs/v2"

	"github.com/litprog/litprog/blob"
	"github.com/litprog/litprog/instr"
)

// Layout assigns every member its byte offset in the serialized buffer by
// accumulating encoded lengths in sequence order, and returns the total
// size. It is the only translation from instruction identity to a position
// independent value.
func Layout(p *T) (instr.OffsetMap, uint32) {
	p.check()

	m := make(instr.OffsetMap, len(p.instrs))
	var total uint32
	for _, ri := range p.instrs {
		m[ri] = total
		total += ri.ByteLength()
	}
	return m, total
}

// Write lays the program out and serializes it: a layout pass to resolve
// offsets, then a write pass where each member encodes its fixed record into
// its exact sub range, appending variable length payloads to b in member
// order. Encoded targets are absolute offsets in the returned buffer;
// encoded payload references are absolute offsets in b.
func Write(p *T, b *blob.T) ([]byte, error) {
	m, total := Layout(p)

	buf := make([]byte, total)
	ctx := instr.NewCtx(b, m)
	for _, ri := range p.instrs {
		off := m[ri]
		if err := ri.Write(buf[off:off+ri.ByteLength()], ctx); err != nil {
			return nil, errs.Errorf("writing %v at offset %d: %w", ri.Code(), off, err)
		}
	}
	return buf, nil
}

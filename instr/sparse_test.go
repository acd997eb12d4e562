package instr

import (
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/zeebo/assert"

	"github.com/litprog/litprog/blob"
	"github.com/litprog/litprog/wire"
)

func TestSparseIterShared(t *testing.T) {
	end := new(End)

	begin := NewSparseIterBegin(64, end)
	begin.AddJump(9, end)
	begin.AddJump(3, end)
	begin.AddJump(40, end)
	next := NewSparseIterNext(3, begin, end)

	var b blob.T
	ctx := NewCtx(&b, OffsetMap{end: 50, begin: 0, next: 17})

	bufBegin := make([]byte, begin.ByteLength())
	bufNext := make([]byte, next.ByteLength())
	assert.NoError(t, begin.Write(bufBegin, ctx))
	assert.NoError(t, next.Write(bufNext, ctx))

	var r wire.R

	r.Init(bufBegin)
	assert.Equal(t, r.Uint8(), uint8(CodeSparseIterBegin))
	assert.Equal(t, r.Uint32(), uint32(64))
	keysOff := r.Uint32()
	jumpsOff := r.Uint32()
	assert.Equal(t, r.Uint32(), uint32(50)) // fail jump
	assert.NoError(t, r.Done())

	// the next instruction reuses the begin's blob structures
	r.Init(bufNext)
	assert.Equal(t, r.Uint8(), uint8(CodeSparseIterNext))
	assert.Equal(t, r.Uint32(), uint32(3))
	assert.Equal(t, r.Uint32(), keysOff)
	assert.Equal(t, r.Uint32(), jumpsOff)
	assert.Equal(t, r.Uint32(), uint32(50))
	assert.NoError(t, r.Done())

	// the key set decodes back out of the blob, sorted
	bm := roaring.New()
	_, err := bm.FromBuffer(b.Bytes()[keysOff:])
	assert.NoError(t, err)
	assert.DeepEqual(t, bm.ToArray(), []uint32{3, 9, 40})

	// the jump table holds one resolved offset per key
	r.Init(b.Bytes()[jumpsOff : jumpsOff+12])
	assert.Equal(t, r.Uint32(), uint32(50))
	assert.Equal(t, r.Uint32(), uint32(50))
	assert.Equal(t, r.Uint32(), uint32(50))
	assert.NoError(t, r.Done())
}

func TestSparseIterNextBeforeBegin(t *testing.T) {
	end := new(End)
	begin := NewSparseIterBegin(8, end)
	next := NewSparseIterNext(1, begin, end)

	var b blob.T
	ctx := NewCtx(&b, OffsetMap{end: 10, begin: 0, next: 17})

	err := next.Write(make([]byte, next.ByteLength()), ctx)
	assert.Error(t, err)
}

func TestSparseIterKeySpace(t *testing.T) {
	end := new(End)
	begin := NewSparseIterBegin(8, end)
	begin.AddJump(8, end) // outside the multibit

	var b blob.T
	ctx := NewCtx(&b, OffsetMap{end: 10, begin: 0})
	assert.Error(t, begin.Write(make([]byte, begin.ByteLength()), ctx))

	any := NewSparseIterAny(8, []uint32{8}, end)
	ctx.Offsets[any] = 0
	assert.Error(t, any.Write(make([]byte, any.ByteLength()), ctx))
}

func TestSparseIterAnyKeys(t *testing.T) {
	end := new(End)
	any := NewSparseIterAny(128, []uint32{7, 100}, end)

	var b blob.T
	ctx := NewCtx(&b, OffsetMap{end: 42, any: 0})

	buf := make([]byte, any.ByteLength())
	assert.NoError(t, any.Write(buf, ctx))

	var r wire.R
	r.Init(buf)
	assert.Equal(t, r.Uint8(), uint8(CodeSparseIterAny))
	assert.Equal(t, r.Uint32(), uint32(128))
	keysOff := r.Uint32()
	assert.Equal(t, r.Uint32(), uint32(42))
	assert.NoError(t, r.Done())

	bm := roaring.New()
	_, err := bm.FromBuffer(b.Bytes()[keysOff:])
	assert.NoError(t, err)
	assert.DeepEqual(t, bm.ToArray(), []uint32{7, 100})
}

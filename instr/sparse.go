package instr

import (
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/zeebo/errs/v2"

	"github.com/litprog/litprog/wire"
	"github.com/litprog/litprog/xhash"
)

// Jump is one entry in a sparse iteration dispatch table: if state bit Key
// is set, control transfers to Target.
type Jump struct {
	Key    uint32
	Target T
}

// SparseIterBegin starts an iteration over the set role state bits among
// the jump table's keys, dispatching to the matching target. The key set is
// serialized into the blob as a roaring bitmap (the runtime's sparse lookup
// structure) together with a table of resolved jump offsets; paired
// SparseIterNext instructions reuse both through the write context. Jumps
// to Target when no key bit is set.
type SparseIterBegin struct {
	NumKeys   uint32 // size of the role state multibit
	JumpTable []Jump
	Target    T
}

func NewSparseIterBegin(numKeys uint32, target T) *SparseIterBegin {
	return &SparseIterBegin{NumKeys: numKeys, Target: target}
}

// AddJump records a (key, target) dispatch pair. Keys are kept sorted; the
// table order is part of the instruction's structure.
func (ri *SparseIterBegin) AddJump(key uint32, target T) {
	ri.JumpTable = append(ri.JumpTable, Jump{Key: key, Target: target})
	slices.SortFunc(ri.JumpTable, func(a, b Jump) int {
		return int(int64(a.Key) - int64(b.Key))
	})
}

func (*SparseIterBegin) Code() Code         { return CodeSparseIterBegin }
func (*SparseIterBegin) ByteLength() uint32 { return 17 }

func (ri *SparseIterBegin) Hash() uint64 {
	h := xhash.New(uint64(CodeSparseIterBegin)).Uint32(ri.NumKeys)
	for _, jump := range ri.JumpTable {
		h = h.Uint32(jump.Key)
	}
	return h.Sum()
}

func (ri *SparseIterBegin) Equiv(other T, m, om OffsetMap) bool {
	o, ok := other.(*SparseIterBegin)
	if !ok || ri.NumKeys != o.NumKeys || len(ri.JumpTable) != len(o.JumpTable) {
		return false
	}
	if !sameTarget(ri.Target, o.Target, m, om) {
		return false
	}
	for i, jump := range ri.JumpTable {
		ojump := o.JumpTable[i]
		if jump.Key != ojump.Key || !sameTarget(jump.Target, ojump.Target, m, om) {
			return false
		}
	}
	return true
}

func (ri *SparseIterBegin) PatchTarget(old, new T) {
	if ri.Target == old {
		ri.Target = new
	}
	for i := range ri.JumpTable {
		if ri.JumpTable[i].Target == old {
			ri.JumpTable[i].Target = new
		}
	}
}

func (ri *SparseIterBegin) Write(dst []byte, ctx *Ctx) error {
	fail, err := ctx.target(ri.Target)
	if err != nil {
		return err
	}

	bm := roaring.New()
	jumps := make([]byte, 0, 4*len(ri.JumpTable))
	for _, jump := range ri.JumpTable {
		if jump.Key >= ri.NumKeys {
			return errs.Errorf("sparse iter key %d outside key space of %d", jump.Key, ri.NumKeys)
		}
		bm.Add(jump.Key)

		off, err := ctx.target(jump.Target)
		if err != nil {
			return err
		}
		jumps = le.AppendUint32(jumps, off)
	}

	keyData, err := bm.ToBytes()
	if err != nil {
		return errs.Wrap(err)
	}

	loc := iterLoc{
		keys:  ctx.Blob.AppendAligned(keyData, 4),
		jumps: ctx.Blob.AppendAligned(jumps, 4),
	}
	if ctx.iters == nil {
		ctx.iters = make(map[*SparseIterBegin]iterLoc)
	}
	ctx.iters[ri] = loc

	var w wire.W
	w.Init(dst)
	w.Uint8(uint8(CodeSparseIterBegin))
	w.Uint32(ri.NumKeys)
	w.Uint32(loc.keys)
	w.Uint32(loc.jumps)
	w.Uint32(fail)
	return w.Done()
}

// SparseIterNext continues a sparse iteration from the state bit after
// State, reusing the key bitmap and jump table its Begin wrote. Jumps to
// Target when the iteration is done.
type SparseIterNext struct {
	State  uint32
	Begin  *SparseIterBegin
	Target T
}

func NewSparseIterNext(state uint32, begin *SparseIterBegin, target T) *SparseIterNext {
	return &SparseIterNext{State: state, Begin: begin, Target: target}
}

func (*SparseIterNext) Code() Code         { return CodeSparseIterNext }
func (*SparseIterNext) ByteLength() uint32 { return 17 }

func (ri *SparseIterNext) Hash() uint64 {
	return xhash.New(uint64(CodeSparseIterNext)).Uint32(ri.State).Sum()
}

func (ri *SparseIterNext) Equiv(other T, m, om OffsetMap) bool {
	o, ok := other.(*SparseIterNext)
	return ok && ri.State == o.State &&
		sameTarget(ri.Begin, o.Begin, m, om) &&
		sameTarget(ri.Target, o.Target, m, om)
}

func (ri *SparseIterNext) PatchTarget(old, new T) {
	if ri.Target == old {
		ri.Target = new
	}
	if T(ri.Begin) == old {
		// the paired begin link only ever points at a begin instruction
		if begin, ok := new.(*SparseIterBegin); ok {
			ri.Begin = begin
		}
	}
}

func (ri *SparseIterNext) Write(dst []byte, ctx *Ctx) error {
	fail, err := ctx.target(ri.Target)
	if err != nil {
		return err
	}

	loc, ok := ctx.iters[ri.Begin]
	if !ok {
		return errs.Errorf("sparse iter next written before its begin")
	}

	var w wire.W
	w.Init(dst)
	w.Uint8(uint8(CodeSparseIterNext))
	w.Uint32(ri.State)
	w.Uint32(loc.keys)
	w.Uint32(loc.jumps)
	w.Uint32(fail)
	return w.Done()
}

// SparseIterAny jumps to Target unless at least one of Keys is set in the
// role state multibit. The key set is serialized into the blob as a roaring
// bitmap.
type SparseIterAny struct {
	oneTarget
	NumKeys uint32
	Keys    []uint32
}

func NewSparseIterAny(numKeys uint32, keys []uint32, target T) *SparseIterAny {
	ri := &SparseIterAny{NumKeys: numKeys, Keys: keys}
	ri.Target = target
	return ri
}

func (*SparseIterAny) Code() Code         { return CodeSparseIterAny }
func (*SparseIterAny) ByteLength() uint32 { return 13 }

func (ri *SparseIterAny) Hash() uint64 {
	h := xhash.New(uint64(CodeSparseIterAny)).Uint32(ri.NumKeys)
	for _, key := range ri.Keys {
		h = h.Uint32(key)
	}
	return h.Sum()
}

func (ri *SparseIterAny) Equiv(other T, m, om OffsetMap) bool {
	o, ok := other.(*SparseIterAny)
	return ok && ri.NumKeys == o.NumKeys && slices.Equal(ri.Keys, o.Keys) &&
		sameTarget(ri.Target, o.Target, m, om)
}

func (ri *SparseIterAny) Write(dst []byte, ctx *Ctx) error {
	fail, err := ctx.target(ri.Target)
	if err != nil {
		return err
	}

	bm := roaring.New()
	for _, key := range ri.Keys {
		if key >= ri.NumKeys {
			return errs.Errorf("sparse iter key %d outside key space of %d", key, ri.NumKeys)
		}
		bm.Add(key)
	}

	keyData, err := bm.ToBytes()
	if err != nil {
		return errs.Wrap(err)
	}

	var w wire.W
	w.Init(dst)
	w.Uint8(uint8(CodeSparseIterAny))
	w.Uint32(ri.NumKeys)
	w.Uint32(ctx.Blob.AppendAligned(keyData, 4))
	w.Uint32(fail)
	return w.Done()
}

package instr

import (
	"github.com/litprog/litprog/wire"
	"github.com/litprog/litprog/xhash"
)

// Trivial instructions carry one unused byte so separately allocated values
// have distinct identities: zero size allocations share an address in Go,
// and identity is what offset maps and patching key on.

// End terminates every program. The container guarantees it is always
// present, always last, and unique, so it doubles as the "fall through to
// whatever follows this block" placeholder target during construction.
type End struct {
	noTargets
	_ uint8
}

func (*End) Code() Code         { return CodeEnd }
func (*End) ByteLength() uint32 { return 1 }
func (*End) Hash() uint64       { return xhash.New(uint64(CodeEnd)).Sum() }

func (*End) Equiv(other T, _, _ OffsetMap) bool {
	_, ok := other.(*End)
	return ok
}

func (*End) Write(dst []byte, _ *Ctx) error {
	var w wire.W
	w.Init(dst)
	w.Uint8(uint8(CodeEnd))
	return w.Done()
}

// CatchUp runs all outstanding engines up to the current offset before any
// reports fire.
type CatchUp struct {
	noTargets
	_ uint8
}

func (*CatchUp) Code() Code         { return CodeCatchUp }
func (*CatchUp) ByteLength() uint32 { return 1 }
func (*CatchUp) Hash() uint64       { return xhash.New(uint64(CodeCatchUp)).Sum() }

func (*CatchUp) Equiv(other T, _, _ OffsetMap) bool {
	_, ok := other.(*CatchUp)
	return ok
}

func (*CatchUp) Write(dst []byte, _ *Ctx) error {
	var w wire.W
	w.Init(dst)
	w.Uint8(uint8(CodeCatchUp))
	return w.Done()
}

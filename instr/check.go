package instr

import (
	"bytes"

	"github.com/litprog/litprog"
	"github.com/litprog/litprog/wire"
	"github.com/litprog/litprog/xhash"
)

// AnchoredDelay defers group based work while the scan is still inside the
// anchored region, jumping to Done once past it.
type AnchoredDelay struct {
	Groups litprog.Groups
	Done   T
}

func NewAnchoredDelay(groups litprog.Groups, done T) *AnchoredDelay {
	return &AnchoredDelay{Groups: groups, Done: done}
}

func (*AnchoredDelay) Code() Code         { return CodeAnchoredDelay }
func (*AnchoredDelay) ByteLength() uint32 { return 13 }

func (ri *AnchoredDelay) Hash() uint64 {
	return xhash.New(uint64(CodeAnchoredDelay)).Uint64(uint64(ri.Groups)).Sum()
}

func (ri *AnchoredDelay) Equiv(other T, m, om OffsetMap) bool {
	o, ok := other.(*AnchoredDelay)
	return ok && ri.Groups == o.Groups && sameTarget(ri.Done, o.Done, m, om)
}

func (ri *AnchoredDelay) PatchTarget(old, new T) {
	if ri.Done == old {
		ri.Done = new
	}
}

func (ri *AnchoredDelay) Write(dst []byte, ctx *Ctx) error {
	jump, err := ctx.target(ri.Done)
	if err != nil {
		return err
	}

	var w wire.W
	w.Init(dst)
	w.Uint8(uint8(CodeAnchoredDelay))
	w.Uint64(uint64(ri.Groups))
	w.Uint32(jump)
	return w.Done()
}

// CheckLitEarly halts the program when the literal match ends before the
// earliest offset at which it could be genuine.
type CheckLitEarly struct {
	noTargets
	MinOffset uint32
}

func (*CheckLitEarly) Code() Code         { return CodeCheckLitEarly }
func (*CheckLitEarly) ByteLength() uint32 { return 5 }

func (ri *CheckLitEarly) Hash() uint64 {
	return xhash.New(uint64(CodeCheckLitEarly)).Uint32(ri.MinOffset).Sum()
}

func (ri *CheckLitEarly) Equiv(other T, _, _ OffsetMap) bool {
	o, ok := other.(*CheckLitEarly)
	return ok && ri.MinOffset == o.MinOffset
}

func (ri *CheckLitEarly) Write(dst []byte, _ *Ctx) error {
	var w wire.W
	w.Init(dst)
	w.Uint8(uint8(CodeCheckLitEarly))
	w.Uint32(ri.MinOffset)
	return w.Done()
}

// CheckGroups halts the program when none of the given groups are on.
type CheckGroups struct {
	noTargets
	Groups litprog.Groups
}

func (*CheckGroups) Code() Code         { return CodeCheckGroups }
func (*CheckGroups) ByteLength() uint32 { return 9 }

func (ri *CheckGroups) Hash() uint64 {
	return xhash.New(uint64(CodeCheckGroups)).Uint64(uint64(ri.Groups)).Sum()
}

func (ri *CheckGroups) Equiv(other T, _, _ OffsetMap) bool {
	o, ok := other.(*CheckGroups)
	return ok && ri.Groups == o.Groups
}

func (ri *CheckGroups) Write(dst []byte, _ *Ctx) error {
	var w wire.W
	w.Init(dst)
	w.Uint8(uint8(CodeCheckGroups))
	w.Uint64(uint64(ri.Groups))
	return w.Done()
}

// CheckOnlyEod jumps to Target unless the scan sits exactly at end of data.
type CheckOnlyEod struct {
	oneTarget
}

func NewCheckOnlyEod(target T) *CheckOnlyEod {
	ri := new(CheckOnlyEod)
	ri.Target = target
	return ri
}

func (*CheckOnlyEod) Code() Code         { return CodeCheckOnlyEod }
func (*CheckOnlyEod) ByteLength() uint32 { return 5 }
func (*CheckOnlyEod) Hash() uint64       { return xhash.New(uint64(CodeCheckOnlyEod)).Sum() }

func (ri *CheckOnlyEod) Equiv(other T, m, om OffsetMap) bool {
	o, ok := other.(*CheckOnlyEod)
	return ok && sameTarget(ri.Target, o.Target, m, om)
}

func (ri *CheckOnlyEod) Write(dst []byte, ctx *Ctx) error {
	jump, err := ctx.target(ri.Target)
	if err != nil {
		return err
	}

	var w wire.W
	w.Init(dst)
	w.Uint8(uint8(CodeCheckOnlyEod))
	w.Uint32(jump)
	return w.Done()
}

// CheckBounds jumps to Target when the current end offset lies outside
// [Min, Max].
type CheckBounds struct {
	oneTarget
	Min uint64
	Max uint64
}

func NewCheckBounds(min, max uint64, target T) *CheckBounds {
	ri := &CheckBounds{Min: min, Max: max}
	ri.Target = target
	return ri
}

func (*CheckBounds) Code() Code         { return CodeCheckBounds }
func (*CheckBounds) ByteLength() uint32 { return 21 }

func (ri *CheckBounds) Hash() uint64 {
	return xhash.New(uint64(CodeCheckBounds)).Uint64(ri.Min).Uint64(ri.Max).Sum()
}

func (ri *CheckBounds) Equiv(other T, m, om OffsetMap) bool {
	o, ok := other.(*CheckBounds)
	return ok && ri.Min == o.Min && ri.Max == o.Max &&
		sameTarget(ri.Target, o.Target, m, om)
}

func (ri *CheckBounds) Write(dst []byte, ctx *Ctx) error {
	jump, err := ctx.target(ri.Target)
	if err != nil {
		return err
	}

	var w wire.W
	w.Init(dst)
	w.Uint8(uint8(CodeCheckBounds))
	w.Uint64(ri.Min)
	w.Uint64(ri.Max)
	w.Uint32(jump)
	return w.Done()
}

// CheckNotHandled jumps to Target when the (role, offset) key has already
// been handled at this scan position, deduplicating work shared between
// literals.
type CheckNotHandled struct {
	oneTarget
	Key uint32
}

func NewCheckNotHandled(key uint32, target T) *CheckNotHandled {
	ri := &CheckNotHandled{Key: key}
	ri.Target = target
	return ri
}

func (*CheckNotHandled) Code() Code         { return CodeCheckNotHandled }
func (*CheckNotHandled) ByteLength() uint32 { return 9 }

func (ri *CheckNotHandled) Hash() uint64 {
	return xhash.New(uint64(CodeCheckNotHandled)).Uint32(ri.Key).Sum()
}

func (ri *CheckNotHandled) Equiv(other T, m, om OffsetMap) bool {
	o, ok := other.(*CheckNotHandled)
	return ok && ri.Key == o.Key && sameTarget(ri.Target, o.Target, m, om)
}

func (ri *CheckNotHandled) Write(dst []byte, ctx *Ctx) error {
	jump, err := ctx.target(ri.Target)
	if err != nil {
		return err
	}

	var w wire.W
	w.Init(dst)
	w.Uint8(uint8(CodeCheckNotHandled))
	w.Uint32(ri.Key)
	w.Uint32(jump)
	return w.Done()
}

// CheckByte masks and compares a single byte at a signed offset from the
// match end, jumping to Target on mismatch. Negation inverts the test.
type CheckByte struct {
	oneTarget
	AndMask  uint8
	CmpMask  uint8
	Negation uint8
	Offset   int32
}

func NewCheckByte(and, cmp, negation uint8, offset int32, target T) *CheckByte {
	ri := &CheckByte{AndMask: and, CmpMask: cmp, Negation: negation, Offset: offset}
	ri.Target = target
	return ri
}

func (*CheckByte) Code() Code         { return CodeCheckByte }
func (*CheckByte) ByteLength() uint32 { return 12 }

func (ri *CheckByte) Hash() uint64 {
	return xhash.New(uint64(CodeCheckByte)).
		Uint8(ri.AndMask).
		Uint8(ri.CmpMask).
		Uint8(ri.Negation).
		Int32(ri.Offset).
		Sum()
}

func (ri *CheckByte) Equiv(other T, m, om OffsetMap) bool {
	o, ok := other.(*CheckByte)
	return ok && ri.AndMask == o.AndMask && ri.CmpMask == o.CmpMask &&
		ri.Negation == o.Negation && ri.Offset == o.Offset &&
		sameTarget(ri.Target, o.Target, m, om)
}

func (ri *CheckByte) Write(dst []byte, ctx *Ctx) error {
	jump, err := ctx.target(ri.Target)
	if err != nil {
		return err
	}

	var w wire.W
	w.Init(dst)
	w.Uint8(uint8(CodeCheckByte))
	w.Uint8(ri.AndMask)
	w.Uint8(ri.CmpMask)
	w.Uint8(ri.Negation)
	w.Int32(ri.Offset)
	w.Uint32(jump)
	return w.Done()
}

// CheckMask masks and compares eight bytes at a signed offset from the match
// end, jumping to Target on mismatch. NegMask flags bytes whose comparison
// is inverted.
type CheckMask struct {
	oneTarget
	AndMask uint64
	CmpMask uint64
	NegMask uint64
	Offset  int32
}

func NewCheckMask(and, cmp, neg uint64, offset int32, target T) *CheckMask {
	ri := &CheckMask{AndMask: and, CmpMask: cmp, NegMask: neg, Offset: offset}
	ri.Target = target
	return ri
}

func (*CheckMask) Code() Code         { return CodeCheckMask }
func (*CheckMask) ByteLength() uint32 { return 33 }

func (ri *CheckMask) Hash() uint64 {
	return xhash.New(uint64(CodeCheckMask)).
		Uint64(ri.AndMask).
		Uint64(ri.CmpMask).
		Uint64(ri.NegMask).
		Int32(ri.Offset).
		Sum()
}

func (ri *CheckMask) Equiv(other T, m, om OffsetMap) bool {
	o, ok := other.(*CheckMask)
	return ok && ri.AndMask == o.AndMask && ri.CmpMask == o.CmpMask &&
		ri.NegMask == o.NegMask && ri.Offset == o.Offset &&
		sameTarget(ri.Target, o.Target, m, om)
}

func (ri *CheckMask) Write(dst []byte, ctx *Ctx) error {
	jump, err := ctx.target(ri.Target)
	if err != nil {
		return err
	}

	var w wire.W
	w.Init(dst)
	w.Uint8(uint8(CodeCheckMask))
	w.Uint64(ri.AndMask)
	w.Uint64(ri.CmpMask)
	w.Uint64(ri.NegMask)
	w.Int32(ri.Offset)
	w.Uint32(jump)
	return w.Done()
}

// CheckMask32 is CheckMask widened to a 32 byte window.
type CheckMask32 struct {
	oneTarget
	AndMask [32]uint8
	CmpMask [32]uint8
	NegMask uint32
	Offset  int32
}

func NewCheckMask32(and, cmp [32]uint8, neg uint32, offset int32, target T) *CheckMask32 {
	ri := &CheckMask32{AndMask: and, CmpMask: cmp, NegMask: neg, Offset: offset}
	ri.Target = target
	return ri
}

func (*CheckMask32) Code() Code         { return CodeCheckMask32 }
func (*CheckMask32) ByteLength() uint32 { return 77 }

func (ri *CheckMask32) Hash() uint64 {
	return xhash.New(uint64(CodeCheckMask32)).
		Bytes(ri.AndMask[:]).
		Bytes(ri.CmpMask[:]).
		Uint32(ri.NegMask).
		Int32(ri.Offset).
		Sum()
}

func (ri *CheckMask32) Equiv(other T, m, om OffsetMap) bool {
	o, ok := other.(*CheckMask32)
	return ok && ri.AndMask == o.AndMask && ri.CmpMask == o.CmpMask &&
		ri.NegMask == o.NegMask && ri.Offset == o.Offset &&
		sameTarget(ri.Target, o.Target, m, om)
}

func (ri *CheckMask32) Write(dst []byte, ctx *Ctx) error {
	jump, err := ctx.target(ri.Target)
	if err != nil {
		return err
	}

	var w wire.W
	w.Init(dst)
	w.Uint8(uint8(CodeCheckMask32))
	w.Bytes(ri.AndMask[:])
	w.Bytes(ri.CmpMask[:])
	w.Uint32(ri.NegMask)
	w.Int32(ri.Offset)
	w.Uint32(jump)
	return w.Done()
}

// CheckLongLit confirms a literal too long for the matcher's own history
// window. The literal bytes live in the blob; the record stores their offset
// and length.
type CheckLongLit struct {
	oneTarget
	Lit []byte
}

func NewCheckLongLit(lit []byte, target T) *CheckLongLit {
	ri := &CheckLongLit{Lit: lit}
	ri.Target = target
	return ri
}

func (*CheckLongLit) Code() Code         { return CodeCheckLongLit }
func (*CheckLongLit) ByteLength() uint32 { return 13 }

func (ri *CheckLongLit) Hash() uint64 {
	return xhash.New(uint64(CodeCheckLongLit)).Bytes(ri.Lit).Sum()
}

func (ri *CheckLongLit) Equiv(other T, m, om OffsetMap) bool {
	o, ok := other.(*CheckLongLit)
	return ok && bytes.Equal(ri.Lit, o.Lit) &&
		sameTarget(ri.Target, o.Target, m, om)
}

func (ri *CheckLongLit) Write(dst []byte, ctx *Ctx) error {
	jump, err := ctx.target(ri.Target)
	if err != nil {
		return err
	}

	litOff := ctx.Blob.Append(ri.Lit)

	var w wire.W
	w.Init(dst)
	w.Uint8(uint8(CodeCheckLongLit))
	w.Uint32(litOff)
	w.Uint32(uint32(len(ri.Lit)))
	w.Uint32(jump)
	return w.Done()
}

// CheckInfix jumps to Target unless the infix engine on the given queue can
// accept the triggering report Lag bytes back from the current offset.
type CheckInfix struct {
	oneTarget
	Queue  uint32
	Lag    uint32
	Report litprog.ReportID
}

func NewCheckInfix(queue, lag uint32, report litprog.ReportID, target T) *CheckInfix {
	ri := &CheckInfix{Queue: queue, Lag: lag, Report: report}
	ri.Target = target
	return ri
}

func (*CheckInfix) Code() Code         { return CodeCheckInfix }
func (*CheckInfix) ByteLength() uint32 { return 17 }

func (ri *CheckInfix) Hash() uint64 {
	return xhash.New(uint64(CodeCheckInfix)).
		Uint32(ri.Queue).
		Uint32(ri.Lag).
		Uint32(uint32(ri.Report)).
		Sum()
}

func (ri *CheckInfix) Equiv(other T, m, om OffsetMap) bool {
	o, ok := other.(*CheckInfix)
	return ok && ri.Queue == o.Queue && ri.Lag == o.Lag && ri.Report == o.Report &&
		sameTarget(ri.Target, o.Target, m, om)
}

func (ri *CheckInfix) Write(dst []byte, ctx *Ctx) error {
	jump, err := ctx.target(ri.Target)
	if err != nil {
		return err
	}

	var w wire.W
	w.Init(dst)
	w.Uint8(uint8(CodeCheckInfix))
	w.Uint32(ri.Queue)
	w.Uint32(ri.Lag)
	w.Uint32(uint32(ri.Report))
	w.Uint32(jump)
	return w.Done()
}

// CheckPrefix is CheckInfix for prefix engines, which must have matched the
// report exactly rather than merely be able to accept it.
type CheckPrefix struct {
	oneTarget
	Queue  uint32
	Lag    uint32
	Report litprog.ReportID
}

func NewCheckPrefix(queue, lag uint32, report litprog.ReportID, target T) *CheckPrefix {
	ri := &CheckPrefix{Queue: queue, Lag: lag, Report: report}
	ri.Target = target
	return ri
}

func (*CheckPrefix) Code() Code         { return CodeCheckPrefix }
func (*CheckPrefix) ByteLength() uint32 { return 17 }

func (ri *CheckPrefix) Hash() uint64 {
	return xhash.New(uint64(CodeCheckPrefix)).
		Uint32(ri.Queue).
		Uint32(ri.Lag).
		Uint32(uint32(ri.Report)).
		Sum()
}

func (ri *CheckPrefix) Equiv(other T, m, om OffsetMap) bool {
	o, ok := other.(*CheckPrefix)
	return ok && ri.Queue == o.Queue && ri.Lag == o.Lag && ri.Report == o.Report &&
		sameTarget(ri.Target, o.Target, m, om)
}

func (ri *CheckPrefix) Write(dst []byte, ctx *Ctx) error {
	jump, err := ctx.target(ri.Target)
	if err != nil {
		return err
	}

	var w wire.W
	w.Init(dst)
	w.Uint8(uint8(CodeCheckPrefix))
	w.Uint32(ri.Queue)
	w.Uint32(ri.Lag)
	w.Uint32(uint32(ri.Report))
	w.Uint32(jump)
	return w.Done()
}

// CheckState jumps to Target when the given role state bit is clear.
type CheckState struct {
	oneTarget
	Index uint32
}

func NewCheckState(index uint32, target T) *CheckState {
	ri := &CheckState{Index: index}
	ri.Target = target
	return ri
}

func (*CheckState) Code() Code         { return CodeCheckState }
func (*CheckState) ByteLength() uint32 { return 9 }

func (ri *CheckState) Hash() uint64 {
	return xhash.New(uint64(CodeCheckState)).Uint32(ri.Index).Sum()
}

func (ri *CheckState) Equiv(other T, m, om OffsetMap) bool {
	o, ok := other.(*CheckState)
	return ok && ri.Index == o.Index && sameTarget(ri.Target, o.Target, m, om)
}

func (ri *CheckState) Write(dst []byte, ctx *Ctx) error {
	jump, err := ctx.target(ri.Target)
	if err != nil {
		return err
	}

	var w wire.W
	w.Init(dst)
	w.Uint8(uint8(CodeCheckState))
	w.Uint32(ri.Index)
	w.Uint32(jump)
	return w.Done()
}

// CheckExhausted jumps to Target when the exhaustion key is already set,
// meaning no further reports under it can matter.
type CheckExhausted struct {
	oneTarget
	EKey uint32
}

func NewCheckExhausted(ekey uint32, target T) *CheckExhausted {
	ri := &CheckExhausted{EKey: ekey}
	ri.Target = target
	return ri
}

func (*CheckExhausted) Code() Code         { return CodeCheckExhausted }
func (*CheckExhausted) ByteLength() uint32 { return 9 }

func (ri *CheckExhausted) Hash() uint64 {
	return xhash.New(uint64(CodeCheckExhausted)).Uint32(ri.EKey).Sum()
}

func (ri *CheckExhausted) Equiv(other T, m, om OffsetMap) bool {
	o, ok := other.(*CheckExhausted)
	return ok && ri.EKey == o.EKey && sameTarget(ri.Target, o.Target, m, om)
}

func (ri *CheckExhausted) Write(dst []byte, ctx *Ctx) error {
	jump, err := ctx.target(ri.Target)
	if err != nil {
		return err
	}

	var w wire.W
	w.Init(dst)
	w.Uint8(uint8(CodeCheckExhausted))
	w.Uint32(ri.EKey)
	w.Uint32(jump)
	return w.Done()
}

// CheckMinLength jumps to Target when the match, adjusted by EndAdj, is
// shorter than MinLength.
type CheckMinLength struct {
	oneTarget
	EndAdj    int32
	MinLength uint64
}

func NewCheckMinLength(endAdj int32, minLength uint64, target T) *CheckMinLength {
	ri := &CheckMinLength{EndAdj: endAdj, MinLength: minLength}
	ri.Target = target
	return ri
}

func (*CheckMinLength) Code() Code         { return CodeCheckMinLength }
func (*CheckMinLength) ByteLength() uint32 { return 17 }

func (ri *CheckMinLength) Hash() uint64 {
	return xhash.New(uint64(CodeCheckMinLength)).
		Int32(ri.EndAdj).
		Uint64(ri.MinLength).
		Sum()
}

func (ri *CheckMinLength) Equiv(other T, m, om OffsetMap) bool {
	o, ok := other.(*CheckMinLength)
	return ok && ri.EndAdj == o.EndAdj && ri.MinLength == o.MinLength &&
		sameTarget(ri.Target, o.Target, m, om)
}

func (ri *CheckMinLength) Write(dst []byte, ctx *Ctx) error {
	jump, err := ctx.target(ri.Target)
	if err != nil {
		return err
	}

	var w wire.W
	w.Init(dst)
	w.Uint8(uint8(CodeCheckMinLength))
	w.Int32(ri.EndAdj)
	w.Uint64(ri.MinLength)
	w.Uint32(jump)
	return w.Done()
}

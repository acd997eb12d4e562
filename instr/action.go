package instr

import (
	"github.com/litprog/litprog"
	"github.com/litprog/litprog/wire"
	"github.com/litprog/litprog/xhash"
)

// PushDelayed schedules the delayed literal at Index to fire Delay bytes
// after the current offset.
type PushDelayed struct {
	noTargets
	Delay uint8
	Index uint32
}

func (*PushDelayed) Code() Code         { return CodePushDelayed }
func (*PushDelayed) ByteLength() uint32 { return 6 }

func (ri *PushDelayed) Hash() uint64 {
	return xhash.New(uint64(CodePushDelayed)).Uint8(ri.Delay).Uint32(ri.Index).Sum()
}

func (ri *PushDelayed) Equiv(other T, _, _ OffsetMap) bool {
	o, ok := other.(*PushDelayed)
	return ok && ri.Delay == o.Delay && ri.Index == o.Index
}

func (ri *PushDelayed) Write(dst []byte, _ *Ctx) error {
	var w wire.W
	w.Init(dst)
	w.Uint8(uint8(CodePushDelayed))
	w.Uint8(ri.Delay)
	w.Uint32(ri.Index)
	return w.Done()
}

// RecordAnchored marks the anchored literal ID as seen at the current
// offset.
type RecordAnchored struct {
	noTargets
	ID uint32
}

func (*RecordAnchored) Code() Code         { return CodeRecordAnchored }
func (*RecordAnchored) ByteLength() uint32 { return 5 }

func (ri *RecordAnchored) Hash() uint64 {
	return xhash.New(uint64(CodeRecordAnchored)).Uint32(ri.ID).Sum()
}

func (ri *RecordAnchored) Equiv(other T, _, _ OffsetMap) bool {
	o, ok := other.(*RecordAnchored)
	return ok && ri.ID == o.ID
}

func (ri *RecordAnchored) Write(dst []byte, _ *Ctx) error {
	var w wire.W
	w.Init(dst)
	w.Uint8(uint8(CodeRecordAnchored))
	w.Uint32(ri.ID)
	return w.Done()
}

// SomAdjust rewinds the start of match by a fixed distance before a report
// fires.
type SomAdjust struct {
	noTargets
	Distance uint32
}

func (*SomAdjust) Code() Code         { return CodeSomAdjust }
func (*SomAdjust) ByteLength() uint32 { return 5 }

func (ri *SomAdjust) Hash() uint64 {
	return xhash.New(uint64(CodeSomAdjust)).Uint32(ri.Distance).Sum()
}

func (ri *SomAdjust) Equiv(other T, _, _ OffsetMap) bool {
	o, ok := other.(*SomAdjust)
	return ok && ri.Distance == o.Distance
}

func (ri *SomAdjust) Write(dst []byte, _ *Ctx) error {
	var w wire.W
	w.Init(dst)
	w.Uint8(uint8(CodeSomAdjust))
	w.Uint32(ri.Distance)
	return w.Done()
}

// SomLeftfix reads the start of match from the left engine on the given
// queue, Lag bytes back.
type SomLeftfix struct {
	noTargets
	Queue uint32
	Lag   uint32
}

func (*SomLeftfix) Code() Code         { return CodeSomLeftfix }
func (*SomLeftfix) ByteLength() uint32 { return 9 }

func (ri *SomLeftfix) Hash() uint64 {
	return xhash.New(uint64(CodeSomLeftfix)).Uint32(ri.Queue).Uint32(ri.Lag).Sum()
}

func (ri *SomLeftfix) Equiv(other T, _, _ OffsetMap) bool {
	o, ok := other.(*SomLeftfix)
	return ok && ri.Queue == o.Queue && ri.Lag == o.Lag
}

func (ri *SomLeftfix) Write(dst []byte, _ *Ctx) error {
	var w wire.W
	w.Init(dst)
	w.Uint8(uint8(CodeSomLeftfix))
	w.Uint32(ri.Queue)
	w.Uint32(ri.Lag)
	return w.Done()
}

// TriggerInfix fires a top event into the infix engine on the given queue.
// Cancel squashes any state the engine accumulated so far.
type TriggerInfix struct {
	noTargets
	Cancel uint8
	Queue  uint32
	Event  uint32
}

func (*TriggerInfix) Code() Code         { return CodeTriggerInfix }
func (*TriggerInfix) ByteLength() uint32 { return 10 }

func (ri *TriggerInfix) Hash() uint64 {
	return xhash.New(uint64(CodeTriggerInfix)).
		Uint8(ri.Cancel).
		Uint32(ri.Queue).
		Uint32(ri.Event).
		Sum()
}

func (ri *TriggerInfix) Equiv(other T, _, _ OffsetMap) bool {
	o, ok := other.(*TriggerInfix)
	return ok && ri.Cancel == o.Cancel && ri.Queue == o.Queue && ri.Event == o.Event
}

func (ri *TriggerInfix) Write(dst []byte, _ *Ctx) error {
	var w wire.W
	w.Init(dst)
	w.Uint8(uint8(CodeTriggerInfix))
	w.Uint8(ri.Cancel)
	w.Uint32(ri.Queue)
	w.Uint32(ri.Event)
	return w.Done()
}

// TriggerSuffix fires a top event into the suffix engine on the given queue.
type TriggerSuffix struct {
	noTargets
	Queue uint32
	Event uint32
}

func (*TriggerSuffix) Code() Code         { return CodeTriggerSuffix }
func (*TriggerSuffix) ByteLength() uint32 { return 9 }

func (ri *TriggerSuffix) Hash() uint64 {
	return xhash.New(uint64(CodeTriggerSuffix)).Uint32(ri.Queue).Uint32(ri.Event).Sum()
}

func (ri *TriggerSuffix) Equiv(other T, _, _ OffsetMap) bool {
	o, ok := other.(*TriggerSuffix)
	return ok && ri.Queue == o.Queue && ri.Event == o.Event
}

func (ri *TriggerSuffix) Write(dst []byte, _ *Ctx) error {
	var w wire.W
	w.Init(dst)
	w.Uint8(uint8(CodeTriggerSuffix))
	w.Uint32(ri.Queue)
	w.Uint32(ri.Event)
	return w.Done()
}

// Dedupe jumps to Target when a report with the same dedupe key already
// fired at this offset. QuashSom drops start of match information from the
// surviving report.
type Dedupe struct {
	oneTarget
	QuashSom     uint8
	DKey         uint32
	OffsetAdjust int32
}

func NewDedupe(quashSom uint8, dkey uint32, offsetAdjust int32, target T) *Dedupe {
	ri := &Dedupe{QuashSom: quashSom, DKey: dkey, OffsetAdjust: offsetAdjust}
	ri.Target = target
	return ri
}

func (*Dedupe) Code() Code         { return CodeDedupe }
func (*Dedupe) ByteLength() uint32 { return 14 }

func (ri *Dedupe) Hash() uint64 {
	return xhash.New(uint64(CodeDedupe)).
		Uint8(ri.QuashSom).
		Uint32(ri.DKey).
		Int32(ri.OffsetAdjust).
		Sum()
}

func (ri *Dedupe) Equiv(other T, m, om OffsetMap) bool {
	o, ok := other.(*Dedupe)
	return ok && ri.QuashSom == o.QuashSom && ri.DKey == o.DKey &&
		ri.OffsetAdjust == o.OffsetAdjust &&
		sameTarget(ri.Target, o.Target, m, om)
}

func (ri *Dedupe) Write(dst []byte, ctx *Ctx) error {
	jump, err := ctx.target(ri.Target)
	if err != nil {
		return err
	}

	var w wire.W
	w.Init(dst)
	w.Uint8(uint8(CodeDedupe))
	w.Uint8(ri.QuashSom)
	w.Uint32(ri.DKey)
	w.Int32(ri.OffsetAdjust)
	w.Uint32(jump)
	return w.Done()
}

// DedupeAndReport fuses Dedupe with the report it guards.
type DedupeAndReport struct {
	oneTarget
	QuashSom     uint8
	DKey         uint32
	OnMatch      litprog.ReportID
	OffsetAdjust int32
}

func NewDedupeAndReport(quashSom uint8, dkey uint32, onMatch litprog.ReportID, offsetAdjust int32, target T) *DedupeAndReport {
	ri := &DedupeAndReport{QuashSom: quashSom, DKey: dkey, OnMatch: onMatch, OffsetAdjust: offsetAdjust}
	ri.Target = target
	return ri
}

func (*DedupeAndReport) Code() Code         { return CodeDedupeAndReport }
func (*DedupeAndReport) ByteLength() uint32 { return 18 }

func (ri *DedupeAndReport) Hash() uint64 {
	return xhash.New(uint64(CodeDedupeAndReport)).
		Uint8(ri.QuashSom).
		Uint32(ri.DKey).
		Uint32(uint32(ri.OnMatch)).
		Int32(ri.OffsetAdjust).
		Sum()
}

func (ri *DedupeAndReport) Equiv(other T, m, om OffsetMap) bool {
	o, ok := other.(*DedupeAndReport)
	return ok && ri.QuashSom == o.QuashSom && ri.DKey == o.DKey &&
		ri.OnMatch == o.OnMatch && ri.OffsetAdjust == o.OffsetAdjust &&
		sameTarget(ri.Target, o.Target, m, om)
}

func (ri *DedupeAndReport) Write(dst []byte, ctx *Ctx) error {
	jump, err := ctx.target(ri.Target)
	if err != nil {
		return err
	}

	var w wire.W
	w.Init(dst)
	w.Uint8(uint8(CodeDedupeAndReport))
	w.Uint8(ri.QuashSom)
	w.Uint32(ri.DKey)
	w.Uint32(uint32(ri.OnMatch))
	w.Int32(ri.OffsetAdjust)
	w.Uint32(jump)
	return w.Done()
}

// Report fires the OnMatch callback, with the match end shifted by
// OffsetAdjust.
type Report struct {
	noTargets
	OnMatch      litprog.ReportID
	OffsetAdjust int32
}

func (*Report) Code() Code         { return CodeReport }
func (*Report) ByteLength() uint32 { return 9 }

func (ri *Report) Hash() uint64 {
	return xhash.New(uint64(CodeReport)).
		Uint32(uint32(ri.OnMatch)).
		Int32(ri.OffsetAdjust).
		Sum()
}

func (ri *Report) Equiv(other T, _, _ OffsetMap) bool {
	o, ok := other.(*Report)
	return ok && ri.OnMatch == o.OnMatch && ri.OffsetAdjust == o.OffsetAdjust
}

func (ri *Report) Write(dst []byte, _ *Ctx) error {
	var w wire.W
	w.Init(dst)
	w.Uint8(uint8(CodeReport))
	w.Uint32(uint32(ri.OnMatch))
	w.Int32(ri.OffsetAdjust)
	return w.Done()
}

// ReportChain fires an event into the chained (multi pattern vacuous)
// engine, squashing its top within TopSquashDistance bytes.
type ReportChain struct {
	noTargets
	Event             uint32
	TopSquashDistance uint64
}

func (*ReportChain) Code() Code         { return CodeReportChain }
func (*ReportChain) ByteLength() uint32 { return 13 }

func (ri *ReportChain) Hash() uint64 {
	return xhash.New(uint64(CodeReportChain)).
		Uint32(ri.Event).
		Uint64(ri.TopSquashDistance).
		Sum()
}

func (ri *ReportChain) Equiv(other T, _, _ OffsetMap) bool {
	o, ok := other.(*ReportChain)
	return ok && ri.Event == o.Event && ri.TopSquashDistance == o.TopSquashDistance
}

func (ri *ReportChain) Write(dst []byte, _ *Ctx) error {
	var w wire.W
	w.Init(dst)
	w.Uint8(uint8(CodeReportChain))
	w.Uint32(ri.Event)
	w.Uint64(ri.TopSquashDistance)
	return w.Done()
}

// ReportExhaust fires the OnMatch callback and sets the exhaustion key so
// later work under it can be skipped.
type ReportExhaust struct {
	noTargets
	OnMatch      litprog.ReportID
	OffsetAdjust int32
	EKey         uint32
}

func (*ReportExhaust) Code() Code         { return CodeReportExhaust }
func (*ReportExhaust) ByteLength() uint32 { return 13 }

func (ri *ReportExhaust) Hash() uint64 {
	return xhash.New(uint64(CodeReportExhaust)).
		Uint32(uint32(ri.OnMatch)).
		Int32(ri.OffsetAdjust).
		Uint32(ri.EKey).
		Sum()
}

func (ri *ReportExhaust) Equiv(other T, _, _ OffsetMap) bool {
	o, ok := other.(*ReportExhaust)
	return ok && ri.OnMatch == o.OnMatch && ri.OffsetAdjust == o.OffsetAdjust &&
		ri.EKey == o.EKey
}

func (ri *ReportExhaust) Write(dst []byte, _ *Ctx) error {
	var w wire.W
	w.Init(dst)
	w.Uint8(uint8(CodeReportExhaust))
	w.Uint32(uint32(ri.OnMatch))
	w.Int32(ri.OffsetAdjust)
	w.Uint32(ri.EKey)
	return w.Done()
}

// FinalReport is Report with the guarantee that no instruction follows it
// except the terminator, letting the runtime return without reentering the
// loop.
type FinalReport struct {
	noTargets
	OnMatch      litprog.ReportID
	OffsetAdjust int32
}

func (*FinalReport) Code() Code         { return CodeFinalReport }
func (*FinalReport) ByteLength() uint32 { return 9 }

func (ri *FinalReport) Hash() uint64 {
	return xhash.New(uint64(CodeFinalReport)).
		Uint32(uint32(ri.OnMatch)).
		Int32(ri.OffsetAdjust).
		Sum()
}

func (ri *FinalReport) Equiv(other T, _, _ OffsetMap) bool {
	o, ok := other.(*FinalReport)
	return ok && ri.OnMatch == o.OnMatch && ri.OffsetAdjust == o.OffsetAdjust
}

func (ri *FinalReport) Write(dst []byte, _ *Ctx) error {
	var w wire.W
	w.Init(dst)
	w.Uint8(uint8(CodeFinalReport))
	w.Uint32(uint32(ri.OnMatch))
	w.Int32(ri.OffsetAdjust)
	return w.Done()
}

// SetState switches on the given role state bit.
type SetState struct {
	noTargets
	Index uint32
}

func (*SetState) Code() Code         { return CodeSetState }
func (*SetState) ByteLength() uint32 { return 5 }

func (ri *SetState) Hash() uint64 {
	return xhash.New(uint64(CodeSetState)).Uint32(ri.Index).Sum()
}

func (ri *SetState) Equiv(other T, _, _ OffsetMap) bool {
	o, ok := other.(*SetState)
	return ok && ri.Index == o.Index
}

func (ri *SetState) Write(dst []byte, _ *Ctx) error {
	var w wire.W
	w.Init(dst)
	w.Uint8(uint8(CodeSetState))
	w.Uint32(ri.Index)
	return w.Done()
}

// SetGroups switches on the given literal groups.
type SetGroups struct {
	noTargets
	Groups litprog.Groups
}

func (*SetGroups) Code() Code         { return CodeSetGroups }
func (*SetGroups) ByteLength() uint32 { return 9 }

func (ri *SetGroups) Hash() uint64 {
	return xhash.New(uint64(CodeSetGroups)).Uint64(uint64(ri.Groups)).Sum()
}

func (ri *SetGroups) Equiv(other T, _, _ OffsetMap) bool {
	o, ok := other.(*SetGroups)
	return ok && ri.Groups == o.Groups
}

func (ri *SetGroups) Write(dst []byte, _ *Ctx) error {
	var w wire.W
	w.Init(dst)
	w.Uint8(uint8(CodeSetGroups))
	w.Uint64(uint64(ri.Groups))
	return w.Done()
}

// SquashGroups switches off the given literal groups.
type SquashGroups struct {
	noTargets
	Groups litprog.Groups
}

func (*SquashGroups) Code() Code         { return CodeSquashGroups }
func (*SquashGroups) ByteLength() uint32 { return 9 }

func (ri *SquashGroups) Hash() uint64 {
	return xhash.New(uint64(CodeSquashGroups)).Uint64(uint64(ri.Groups)).Sum()
}

func (ri *SquashGroups) Equiv(other T, _, _ OffsetMap) bool {
	o, ok := other.(*SquashGroups)
	return ok && ri.Groups == o.Groups
}

func (ri *SquashGroups) Write(dst []byte, _ *Ctx) error {
	var w wire.W
	w.Init(dst)
	w.Uint8(uint8(CodeSquashGroups))
	w.Uint64(uint64(ri.Groups))
	return w.Done()
}

// Package instr is the catalog of program instructions understood by the
// literal matching runtime, along with the generic machinery every opcode
// participates in: structural hashing, equivalence under resolved offsets,
// target patching, and fixed record serialization.
package instr

import (
	"encoding/binary"

	"github.com/zeebo/errs/v2"

	"github.com/litprog/litprog/blob"
)

var le = binary.LittleEndian

// Code discriminates an instruction's operand shape and runtime behavior.
type Code uint8

const (
	// CodeEnd terminates every program. No other instruction carries it.
	CodeEnd Code = iota

	CodeAnchoredDelay
	CodeCheckLitEarly
	CodeCheckGroups
	CodeCheckOnlyEod
	CodeCheckBounds
	CodeCheckNotHandled
	CodeCheckByte
	CodeCheckMask
	CodeCheckMask32
	CodeCheckLongLit
	CodeCheckInfix
	CodeCheckPrefix
	CodeCheckState
	CodeCheckExhausted
	CodeCheckMinLength
	CodePushDelayed
	CodeRecordAnchored
	CodeCatchUp
	CodeSomAdjust
	CodeSomLeftfix
	CodeTriggerInfix
	CodeTriggerSuffix
	CodeDedupe
	CodeDedupeAndReport
	CodeReport
	CodeReportChain
	CodeReportExhaust
	CodeFinalReport
	CodeSetState
	CodeSetGroups
	CodeSquashGroups
	CodeSparseIterBegin
	CodeSparseIterNext
	CodeSparseIterAny
)

var codeNames = [...]string{
	CodeEnd:             "END",
	CodeAnchoredDelay:   "ANCHORED_DELAY",
	CodeCheckLitEarly:   "CHECK_LIT_EARLY",
	CodeCheckGroups:     "CHECK_GROUPS",
	CodeCheckOnlyEod:    "CHECK_ONLY_EOD",
	CodeCheckBounds:     "CHECK_BOUNDS",
	CodeCheckNotHandled: "CHECK_NOT_HANDLED",
	CodeCheckByte:       "CHECK_BYTE",
	CodeCheckMask:       "CHECK_MASK",
	CodeCheckMask32:     "CHECK_MASK_32",
	CodeCheckLongLit:    "CHECK_LONG_LIT",
	CodeCheckInfix:      "CHECK_INFIX",
	CodeCheckPrefix:     "CHECK_PREFIX",
	CodeCheckState:      "CHECK_STATE",
	CodeCheckExhausted:  "CHECK_EXHAUSTED",
	CodeCheckMinLength:  "CHECK_MIN_LENGTH",
	CodePushDelayed:     "PUSH_DELAYED",
	CodeRecordAnchored:  "RECORD_ANCHORED",
	CodeCatchUp:         "CATCH_UP",
	CodeSomAdjust:       "SOM_ADJUST",
	CodeSomLeftfix:      "SOM_LEFTFIX",
	CodeTriggerInfix:    "TRIGGER_INFIX",
	CodeTriggerSuffix:   "TRIGGER_SUFFIX",
	CodeDedupe:          "DEDUPE",
	CodeDedupeAndReport: "DEDUPE_AND_REPORT",
	CodeReport:          "REPORT",
	CodeReportChain:     "REPORT_CHAIN",
	CodeReportExhaust:   "REPORT_EXHAUST",
	CodeFinalReport:     "FINAL_REPORT",
	CodeSetState:        "SET_STATE",
	CodeSetGroups:       "SET_GROUPS",
	CodeSquashGroups:    "SQUASH_GROUPS",
	CodeSparseIterBegin: "SPARSE_ITER_BEGIN",
	CodeSparseIterNext:  "SPARSE_ITER_NEXT",
	CodeSparseIterAny:   "SPARSE_ITER_ANY",
}

func (c Code) String() string {
	if int(c) < len(codeNames) {
		return codeNames[c]
	}
	return "INVALID"
}

// T is a single program instruction. Instructions are owned by exactly one
// program; target references are weak links to members of the same program
// and the interface value's identity is what offset maps and patching key
// on.
type T interface {
	// Code is the instruction's immutable opcode.
	Code() Code

	// ByteLength is the exact encoded size in bytes, constant per opcode.
	ByteLength() uint32

	// Hash covers the opcode and every operand field but never target
	// identity: identity is meaningless across programs, so equivalent
	// instructions in distinct programs must hash equal.
	Hash() uint64

	// Equiv reports whether the two instructions are interchangeable within
	// their own programs: same opcode, equal operands, and every target
	// resolving to the same offset through the respective maps.
	Equiv(other T, offsets, otherOffsets OffsetMap) bool

	// Write serializes the fixed record into dst, which is exactly
	// ByteLength bytes at the instruction's assigned offset. Variable
	// length payloads go into the blob through ctx with their offsets
	// embedded in the record.
	Write(dst []byte, ctx *Ctx) error

	// PatchTarget replaces every reference to old with new.
	PatchTarget(old, new T)
}

// OffsetMap resolves instruction identity to the byte offset assigned by the
// layout pass. It is the only place identity becomes a position independent
// value.
type OffsetMap map[T]uint32

// sameTarget reports whether two targets resolve to the same offset in their
// respective programs. An unresolvable target never compares equal.
func sameTarget(a, b T, ma, mb OffsetMap) bool {
	ao, aok := ma[a]
	bo, bok := mb[b]
	return aok && bok && ao == bo
}

// Ctx carries the stores consulted during the write pass: the resolved
// offsets from the layout pass, the auxiliary data blob, and the side table
// of blob structures shared between a sparse iteration begin and its next
// instructions.
type Ctx struct {
	Blob    *blob.T
	Offsets OffsetMap

	iters map[*SparseIterBegin]iterLoc
}

type iterLoc struct {
	keys  uint32
	jumps uint32
}

func NewCtx(b *blob.T, offsets OffsetMap) *Ctx {
	return &Ctx{Blob: b, Offsets: offsets}
}

func (c *Ctx) target(ri T) (uint32, error) {
	if ri == nil {
		return 0, errs.Errorf("nil target reference")
	}
	off, ok := c.Offsets[ri]
	if !ok {
		return 0, errs.Errorf("unresolved target reference: %v", ri.Code())
	}
	return off, nil
}

// noTargets is embedded by instructions with no control flow references.
type noTargets struct{}

func (noTargets) PatchTarget(old, new T) {}

// oneTarget is embedded by instructions with a single fail target.
type oneTarget struct {
	Target T
}

func (t *oneTarget) PatchTarget(old, new T) {
	if t.Target == old {
		t.Target = new
	}
}

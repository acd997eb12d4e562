// Package program holds the mutable container for instruction sequences and
// the layout, relocation, hashing and equivalence machinery that turns them
// into relocatable bytecode.
package program

import (
	"fmt"
	"slices"

	"github.com/litprog/litprog/instr"
)

// T is an owned, ordered sequence of instructions, always terminated by a
// single End. Target references inside members must point at members of the
// same program by the time it is written.
type T struct {
	_ [0]func() // no equality

	instrs []instr.T
}

func New() *T {
	return &T{instrs: []instr.T{new(instr.End)}}
}

// Empty reports whether the program holds only its terminator.
func (p *T) Empty() bool { return len(p.instrs) == 1 }

func (p *T) Len() int { return len(p.instrs) }

func (p *T) At(i int) instr.T { return p.instrs[i] }

// Instrs is the ordered member sequence. The returned slice is owned by the
// program: callers iterate it, forward or backward, but must not modify it.
func (p *T) Instrs() []instr.T { return p.instrs }

// EndInstruction is the program's terminator. During construction it is the
// placeholder target meaning "fall through to whatever follows this block".
func (p *T) EndInstruction() instr.T {
	p.check()
	return p.instrs[len(p.instrs)-1]
}

// check asserts the sentinel invariant. Violations are programmer errors.
func (p *T) check() {
	if len(p.instrs) == 0 {
		panic("program: empty instruction sequence")
	}
	if p.instrs[len(p.instrs)-1].Code() != instr.CodeEnd {
		panic("program: terminator is not last")
	}
}

func (p *T) updateTargets(old, new instr.T) {
	for _, ri := range p.instrs {
		ri.PatchTarget(old, new)
	}
}

// Insert places ri at position i, before the member currently there. The
// terminator cannot be displaced: i must be less than Len.
func (p *T) Insert(i int, ri instr.T) {
	p.check()
	if i < 0 || i >= len(p.instrs) {
		panic(fmt.Sprintf("program: insert position %d outside [0, %d)", i, len(p.instrs)))
	}
	if ri.Code() == instr.CodeEnd {
		panic("program: inserting a second terminator")
	}
	p.instrs = slices.Insert(p.instrs, i, ri)
}

// InsertBlock splices block's members in at position i. References to the
// block's own terminator are rewritten to the member at i, preserving the
// block's fall through semantics, and the terminator is discarded. The block
// is consumed.
func (p *T) InsertBlock(i int, block *T) {
	p.check()
	block.check()
	if i < 0 || i >= len(p.instrs) {
		panic(fmt.Sprintf("program: insert position %d outside [0, %d)", i, len(p.instrs)))
	}
	if block.Empty() {
		return
	}

	end := block.EndInstruction()
	members := block.instrs[:len(block.instrs)-1]
	block.instrs = nil // consumed; reuse is a bug

	newTarget := p.instrs[i]
	for _, ri := range members {
		ri.PatchTarget(end, newTarget)
	}

	p.instrs = slices.Insert(p.instrs, i, members...)
}

// AddBeforeEnd places ri immediately before the terminator.
func (p *T) AddBeforeEnd(ri instr.T) {
	p.check()
	p.Insert(len(p.instrs)-1, ri)
}

// AddBlockBeforeEnd splices block in immediately before the terminator.
func (p *T) AddBlockBeforeEnd(block *T) {
	p.check()
	p.InsertBlock(len(p.instrs)-1, block)
}

// AddBlock appends block, replacing our terminator with the block's:
// references to our terminator are rewritten to the block's first member.
// The block is consumed.
func (p *T) AddBlock(block *T) {
	p.check()
	block.check()
	if block.Empty() {
		return
	}

	end := p.EndInstruction()
	p.instrs = p.instrs[:len(p.instrs)-1]
	p.updateTargets(end, block.instrs[0])

	p.instrs = append(p.instrs, block.instrs...)
	block.instrs = nil // consumed
}

// Replace swaps the member at i for ri and rewrites every reference to the
// old member across the whole program, preserving reachability: it is the
// old instruction's identity that other members reference.
func (p *T) Replace(i int, ri instr.T) {
	p.check()
	old := p.instrs[i]
	p.instrs[i] = ri
	p.updateTargets(old, ri)
	p.check()
}

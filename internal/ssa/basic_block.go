package ssa

import (
	"fmt"
	"strings"
)

// BasicBlock represents the Basic Block of an SSA function.
// In traditional SSA terminology, the block "params" here are called phi values,
// and there does not exist "params". However, for simplicity, we handle them as parameters to a BB.
// The params of the entry block are the parameters of the function.
type BasicBlock interface {
	// ID returns the unique ID of this block.
	ID() BasicBlockID

	// Name returns the unique string ID of this block. e.g. blk0, blk1, ...
	Name() string

	// AddParam adds the parameter to the block whose type specified by `t`.
	AddParam(b Builder, t Type) Value

	// Params returns the number of parameters to this block.
	Params() int

	// Param returns the Value which corresponds to the i-th parameter of this block.
	// Predecessors pass the argument for it as the i-th argument of their branch.
	Param(i int) Value

	// Root returns the root instruction of this block.
	Root() *Instruction

	// Tail returns the tail instruction of this block.
	Tail() *Instruction

	// EntryBlock returns true if this block represents the function entry.
	EntryBlock() bool

	// Preds returns the number of predecessors of this block.
	Preds() int

	// Pred returns the i-th predecessor of this block.
	Pred(i int) BasicBlock

	// Succs returns the number of successors of this block.
	Succs() int

	// Succ returns the i-th successor of this block.
	Succ(i int) BasicBlock
}

type (
	// basicBlock is a basic block in a SSA-transformed function.
	basicBlock struct {
		id                      BasicBlockID
		rootInstr, currentInstr *Instruction
		params                  []blockParam
		preds                   []basicBlockPredecessorInfo
		success                 []*basicBlock
	}
	// BasicBlockID is the unique ID of a basicBlock.
	BasicBlockID uint32

	// blockParam represents a parameter to a basicBlock.
	blockParam struct {
		// value represents the very first value that defines the parameter in this block,
		// and can be considered as phi instruction.
		value Value
		typ   Type
	}

	basicBlockPredecessorInfo struct {
		blk    *basicBlock
		branch *Instruction
	}
)

// String implements fmt.Stringer for debugging.
func (bid BasicBlockID) String() string {
	return fmt.Sprintf("blk%d", bid)
}

// ID implements BasicBlock.
func (bb *basicBlock) ID() BasicBlockID {
	return bb.id
}

// Name implements BasicBlock.
func (bb *basicBlock) Name() string {
	return bb.id.String()
}

// EntryBlock implements BasicBlock.
func (bb *basicBlock) EntryBlock() bool {
	return bb.id == 0
}

// AddParam implements BasicBlock.
func (bb *basicBlock) AddParam(b Builder, typ Type) Value {
	paramValue := b.(*builder).allocateValue(typ)
	bb.params = append(bb.params, blockParam{typ: typ, value: paramValue})
	return paramValue
}

// Params implements BasicBlock.
func (bb *basicBlock) Params() int {
	return len(bb.params)
}

// Param implements BasicBlock.
func (bb *basicBlock) Param(i int) Value {
	return bb.params[i].value
}

// Root implements BasicBlock.
func (bb *basicBlock) Root() *Instruction {
	return bb.rootInstr
}

// Tail implements BasicBlock.
func (bb *basicBlock) Tail() *Instruction {
	return bb.currentInstr
}

// Preds implements BasicBlock.
func (bb *basicBlock) Preds() int {
	return len(bb.preds)
}

// Pred implements BasicBlock.
func (bb *basicBlock) Pred(i int) BasicBlock {
	return bb.preds[i].blk
}

// Succs implements BasicBlock.
func (bb *basicBlock) Succs() int {
	return len(bb.success)
}

// Succ implements BasicBlock.
func (bb *basicBlock) Succ(i int) BasicBlock {
	return bb.success[i]
}

// insertInstruction appends `next` to the tail of this block, and registers the CFG edge if it is a branch.
func (bb *basicBlock) insertInstruction(next *Instruction) {
	current := bb.currentInstr
	if current != nil {
		current.next = next
		next.prev = current
	} else {
		bb.rootInstr = next
	}
	bb.currentInstr = next

	if next.opcode.IsBranching() {
		target := next.blk.(*basicBlock)
		target.addPred(bb, next)
		bb.success = append(bb.success, target)
	}
}

// insertInstructionBefore places `instr` right before `at` which must be in this block.
func (bb *basicBlock) insertInstructionBefore(instr, at *Instruction) {
	prev := at.prev
	instr.prev, instr.next = prev, at
	at.prev = instr
	if prev != nil {
		prev.next = instr
	} else {
		bb.rootInstr = instr
	}
}

// removeInstruction unlinks `instr` from this block.
func (bb *basicBlock) removeInstruction(instr *Instruction) {
	prev, next := instr.prev, instr.next
	if prev != nil {
		prev.next = next
	} else {
		bb.rootInstr = next
	}
	if next != nil {
		next.prev = prev
	} else {
		bb.currentInstr = prev
	}
	instr.prev, instr.next = nil, nil
}

// branchingTail returns the first instruction of the terminating sequence of this block,
// e.g. `Brz` of `Brz v0, blk1; Jump blk2`.
func (bb *basicBlock) branchingTail() *Instruction {
	tail := bb.currentInstr
	if tail == nil || !tail.opcode.IsTerminator() {
		panic("BUG: block without terminator: " + bb.Name())
	}
	for tail.prev != nil && tail.prev.opcode.IsBranching() {
		tail = tail.prev
	}
	return tail
}

// addPred adds a predecessor to this block specified by `blk` and the branch instruction `branch`.
func (bb *basicBlock) addPred(blk *basicBlock, branch *Instruction) {
	bb.preds = append(bb.preds, basicBlockPredecessorInfo{
		blk:    blk,
		branch: branch,
	})
}

// formatHeader returns the string representation of the header of this block.
func (bb *basicBlock) formatHeader(b Builder) string {
	ps := make([]string, len(bb.params))
	for i, p := range bb.params {
		ps[i] = p.value.formatWithType(b)
	}

	if len(bb.preds) > 0 {
		preds := make([]string, len(bb.preds))
		for i, pred := range bb.preds {
			preds[i] = pred.blk.Name()
			if len(pred.branch.vs) != len(bb.params) {
				panic("BUG: len(argument) != len(params)")
			}
		}
		return fmt.Sprintf("%s: (%s) <-- (%s)",
			bb.Name(), strings.Join(ps, ", "), strings.Join(preds, ","))
	} else {
		return fmt.Sprintf("%s: (%s)", bb.Name(), strings.Join(ps, ", "))
	}
}

// String implements fmt.Stringer for debugging.
func (bb *basicBlock) String() string {
	return bb.Name()
}

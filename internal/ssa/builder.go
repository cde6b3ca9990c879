// Package ssa is used to construct SSA function and to run the optimization passes on it.
// By nature this is free of any source language or ISA specific thing.
package ssa

import (
	"fmt"
	"sort"
	"strings"
)

// Builder is used to builds SSA consisting of Basic Blocks per function.
type Builder interface {
	// Reset must be called to reuse this builder for the next function.
	Reset()

	// AllocateBasicBlock creates a basic block in SSA function.
	// The first allocated block is the entry block of the function.
	AllocateBasicBlock() BasicBlock

	// EntryBlock returns the entry block of the function.
	EntryBlock() BasicBlock

	// CurrentBlock returns the currently handled BasicBlock which is set by the latest call to SetCurrentBlock.
	CurrentBlock() BasicBlock

	// SetCurrentBlock sets the instruction insertion target to the BasicBlock `b`.
	SetCurrentBlock(b BasicBlock)

	// BlockIteratorBegin initializes the state to iterate over all the blocks and returns the first one.
	BlockIteratorBegin() BasicBlock

	// BlockIteratorNext advances the state for iteration initialized by BlockIteratorBegin.
	// Returns nil if there's no unseen BasicBlock.
	BlockIteratorNext() BasicBlock

	// DeclareSignature appends the *Signature to be referenced by various instructions (e.g. OpcodeCall).
	DeclareSignature(signature *Signature)

	// Signatures returns the slice of declared Signatures.
	Signatures() []*Signature

	// DeclareFunction declares the callee named `name` with the signature `sig`, which must be declared already.
	DeclareFunction(name string, sig *Signature) FuncRef

	// FunctionName returns the name of the function declared as `ref`.
	FunctionName(ref FuncRef) string

	// AllocateInstruction returns a new Instruction.
	AllocateInstruction() *Instruction

	// InsertInstruction executes BasicBlock.InsertInstruction for the currently handled basic block.
	InsertInstruction(raw *Instruction)

	// Format returns the debugging string of the SSA function.
	Format() string

	// HoistAnticipatedExpressions runs the pass which moves the computations anticipated on every path
	// out of a block into that block, and reports whether the function has been changed.
	HoistAnticipatedExpressions(opts HoistOptions) bool
}

// NewBuilder returns a new Builder implementation.
func NewBuilder() Builder {
	return &builder{
		instructionsPool: newPool[Instruction](),
		basicBlocksPool:  newPool[basicBlock](),
		signatures:       make(map[SignatureID]*Signature),
		valueIDAliases:   make(map[ValueID]Value),
		blkVisited:       make(map[*basicBlock]int),
	}
}

// builder implements Builder interface.
type builder struct {
	basicBlocksPool  pool[basicBlock]
	instructionsPool pool[Instruction]
	signatures       map[SignatureID]*Signature
	functions        []function
	currentBB        *basicBlock

	// nextValueID is used by builder.AllocateValue.
	nextValueID ValueID
	// valueIDAliases contains the aliases of the values: uses of the key are redirected to the value.
	valueIDAliases map[ValueID]Value

	// blockIterCur is used to implement blockIteratorBegin and blockIteratorNext.
	blockIterCur int

	// The followings are used for optimization passes.
	blkVisited map[*basicBlock]int
	blkStack2  []*basicBlock
	// reversePostOrderedBasicBlocks are the reachable BasicBlocks in reverse post-order.
	reversePostOrderedBasicBlocks []*basicBlock
	// dominators stores the immediate dominator of each BasicBlock.
	// The index is blockID of the BasicBlock.
	dominators []*basicBlock
}

// Reset implements Builder.Reset.
func (b *builder) Reset() {
	b.instructionsPool.reset()
	b.basicBlocksPool.reset()
	for id := range b.signatures {
		delete(b.signatures, id)
	}
	b.functions = b.functions[:0]
	for id := range b.valueIDAliases {
		delete(b.valueIDAliases, id)
	}
	for blk := range b.blkVisited {
		delete(b.blkVisited, blk)
	}
	b.currentBB = nil
	b.nextValueID = 0
	b.blkStack2 = b.blkStack2[:0]
	b.reversePostOrderedBasicBlocks = b.reversePostOrderedBasicBlocks[:0]
	b.dominators = b.dominators[:0]
}

// AllocateInstruction implements Builder.AllocateInstruction.
func (b *builder) AllocateInstruction() *Instruction {
	instr := b.instructionsPool.allocate()
	instr.v, instr.v2, instr.v3 = ValueInvalid, ValueInvalid, ValueInvalid
	instr.rValue = ValueInvalid
	return instr
}

// DeclareSignature implements Builder.DeclareSignature.
func (b *builder) DeclareSignature(s *Signature) {
	b.signatures[s.ID] = s
	s.used = false
}

// Signatures implements Builder.Signatures.
func (b *builder) Signatures() (ret []*Signature) {
	for _, sig := range b.signatures {
		ret = append(ret, sig)
	}
	sort.Slice(ret, func(i, j int) bool {
		return ret[i].ID < ret[j].ID
	})
	return
}

// DeclareFunction implements Builder.DeclareFunction.
func (b *builder) DeclareFunction(name string, sig *Signature) FuncRef {
	if _, ok := b.signatures[sig.ID]; !ok {
		panic("BUG: signature not declared: " + sig.ID.String())
	}
	b.functions = append(b.functions, function{name: name, sig: sig})
	return FuncRef(len(b.functions) - 1)
}

// FunctionName implements Builder.FunctionName.
func (b *builder) FunctionName(ref FuncRef) string {
	fn, ok := b.lookupFunction(ref)
	if !ok {
		panic("BUG: function not declared: " + ref.String())
	}
	return fn.name
}

// lookupFunction returns the declared function referenced by `ref`.
func (b *builder) lookupFunction(ref FuncRef) (function, bool) {
	if int(ref) >= len(b.functions) {
		return function{}, false
	}
	return b.functions[ref], true
}

// AllocateBasicBlock implements Builder.AllocateBasicBlock.
func (b *builder) AllocateBasicBlock() BasicBlock {
	id := BasicBlockID(b.basicBlocksPool.Allocated())
	blk := b.basicBlocksPool.allocate()
	blk.id = id
	return blk
}

// EntryBlock implements Builder.EntryBlock.
func (b *builder) EntryBlock() BasicBlock {
	return b.entryBlk()
}

func (b *builder) entryBlk() *basicBlock {
	if b.basicBlocksPool.Allocated() == 0 {
		panic("BUG: no block allocated")
	}
	return b.basicBlocksPool.view(0)
}

// InsertInstruction implements Builder.InsertInstruction.
func (b *builder) InsertInstruction(instr *Instruction) {
	b.currentBB.insertInstruction(instr)

	resultTypesFn := instructionReturnTypes[instr.opcode]
	if resultTypesFn == nil {
		panic(fmt.Sprintf("TODO: result types of opcode %d", instr.opcode))
	}

	t1, ts := resultTypesFn(b, instr)
	if t1.invalid() {
		return
	}

	instr.rValue = b.allocateValue(t1)
	if len(ts) == 0 {
		return
	}
	instr.rValues = make([]Value, len(ts))
	for i, t := range ts {
		instr.rValues[i] = b.allocateValue(t)
	}
}

// SetCurrentBlock implements Builder.SetCurrentBlock.
func (b *builder) SetCurrentBlock(bb BasicBlock) {
	b.currentBB = bb.(*basicBlock)
}

// CurrentBlock implements Builder.CurrentBlock.
func (b *builder) CurrentBlock() BasicBlock {
	return b.currentBB
}

// allocateValue allocates an unused Value.
func (b *builder) allocateValue(typ Type) (v Value) {
	v = Value(b.nextValueID)
	v = v.setType(typ)
	b.nextValueID++
	return
}

// Format implements Builder.Format.
func (b *builder) Format() string {
	str := strings.Builder{}
	var usedSigs []*Signature
	for _, sig := range b.Signatures() {
		if sig.used {
			usedSigs = append(usedSigs, sig)
		}
	}
	if len(usedSigs) > 0 {
		str.WriteByte('\n')
		str.WriteString("signatures:\n")
		for _, sig := range usedSigs {
			str.WriteByte('\t')
			str.WriteString(sig.String())
			str.WriteByte('\n')
		}
	}
	if len(b.functions) > 0 {
		str.WriteByte('\n')
		str.WriteString("functions:\n")
		for i, fn := range b.functions {
			str.WriteString(fmt.Sprintf("\t%s = %s %s\n", FuncRef(i), fn.name, fn.sig.ID))
		}
	}

	for bb := b.blockIteratorBegin(); bb != nil; bb = b.blockIteratorNext() {
		str.WriteByte('\n')
		str.WriteString(bb.formatHeader(b))
		str.WriteByte('\n')

		for cur := bb.Root(); cur != nil; cur = cur.Next() {
			str.WriteByte('\t')
			str.WriteString(cur.Format(b))
			str.WriteByte('\n')
		}
	}
	return str.String()
}

// BlockIteratorNext implements Builder.BlockIteratorNext.
func (b *builder) BlockIteratorNext() BasicBlock {
	if blk := b.blockIteratorNext(); blk == nil {
		return nil // BasicBlock((*basicBlock)(nil)) != BasicBlock(nil)
	} else {
		return blk
	}
}

// BlockIteratorNext implements Builder.BlockIteratorNext.
func (b *builder) blockIteratorNext() *basicBlock {
	index := b.blockIterCur
	if index >= b.basicBlocksPool.Allocated() {
		return nil
	}
	b.blockIterCur++
	return b.basicBlocksPool.view(index)
}

// BlockIteratorBegin implements Builder.BlockIteratorBegin.
func (b *builder) BlockIteratorBegin() BasicBlock {
	if blk := b.blockIteratorBegin(); blk == nil {
		return nil
	} else {
		return blk
	}
}

// BlockIteratorBegin implements Builder.BlockIteratorBegin.
func (b *builder) blockIteratorBegin() *basicBlock {
	b.blockIterCur = 0
	return b.blockIteratorNext()
}

// alias records the alias of the given values. The alias(es) will be
// eliminated when resolveArgumentAlias is called on the consuming instructions.
func (b *builder) alias(dst, src Value) {
	b.valueIDAliases[dst.ID()] = src
}

// resolveArgumentAlias resolves the alias of the arguments of the given instruction.
func (b *builder) resolveArgumentAlias(instr *Instruction) {
	if instr.v.Valid() {
		instr.v = b.resolveAlias(instr.v)
	}

	if instr.v2.Valid() {
		instr.v2 = b.resolveAlias(instr.v2)
	}

	if instr.v3.Valid() {
		instr.v3 = b.resolveAlias(instr.v3)
	}

	for i, v := range instr.vs {
		instr.vs[i] = b.resolveAlias(v)
	}
}

// resolveAlias resolves the alias of the given value.
func (b *builder) resolveAlias(v Value) Value {
	// Some aliases are chained, so we need to resolve them recursively.
	for {
		if src, ok := b.valueIDAliases[v.ID()]; ok {
			v = src
		} else {
			break
		}
	}
	return v
}

// resolveAllAliases rewrites every argument of every instruction with the recorded aliases,
// and then forgets them.
func (b *builder) resolveAllAliases() {
	if len(b.valueIDAliases) == 0 {
		return
	}
	for blk := b.blockIteratorBegin(); blk != nil; blk = b.blockIteratorNext() {
		for cur := blk.rootInstr; cur != nil; cur = cur.next {
			b.resolveArgumentAlias(cur)
		}
	}
	for id := range b.valueIDAliases {
		delete(b.valueIDAliases, id)
	}
}

package ssa

import (
	"fmt"
	"math"
	"strings"
)

// Opcode represents a SSA instruction.
type Opcode uint32

// Instruction represents an instruction whose opcode is specified by
// Opcode. Since Go doesn't have union type, we use this flattened type
// for all instructions, and therefore each field has different meaning
// depending on Opcode.
type Instruction struct {
	opcode     Opcode
	u1, u2     uint64
	v, v2, v3  Value
	vs         []Value
	typ        Type
	blk        BasicBlock
	prev, next *Instruction

	rValue  Value
	rValues []Value
}

// Opcode returns the opcode of this instruction.
func (i *Instruction) Opcode() Opcode {
	return i.opcode
}

// Return returns a Value(s) produced by this instruction if any.
// If there's multiple return values, only the first one is returned.
func (i *Instruction) Return() (first Value) {
	return i.rValue
}

// Returns Value(s) produced by this instruction if any.
// The `first` is the first return value, and `rest` is the rest of the values.
func (i *Instruction) Returns() (first Value, rest []Value) {
	return i.rValue, i.rValues
}

// Arg returns the first argument to this instruction.
func (i *Instruction) Arg() Value {
	return i.v
}

// Arg2 returns the first two arguments to this instruction.
func (i *Instruction) Arg2() (Value, Value) {
	return i.v, i.v2
}

// Arg3 returns the first three arguments to this instruction.
func (i *Instruction) Arg3() (Value, Value, Value) {
	return i.v, i.v2, i.v3
}

// Args returns the arguments to this instruction.
func (i *Instruction) Args() (v1, v2, v3 Value, vs []Value) {
	return i.v, i.v2, i.v3, i.vs
}

// Next returns the next instruction laid out next to itself.
func (i *Instruction) Next() *Instruction {
	return i.next
}

// Prev returns the previous instruction laid out prior to itself.
func (i *Instruction) Prev() *Instruction {
	return i.prev
}

// forEachArg calls fn with every Value consumed by this instruction, branch arguments included.
func (i *Instruction) forEachArg(fn func(Value)) {
	if i.v.Valid() {
		fn(i.v)
	}
	if i.v2.Valid() {
		fn(i.v2)
	}
	if i.v3.Valid() {
		fn(i.v3)
	}
	for _, v := range i.vs {
		fn(v)
	}
}

// Insert inserts this instruction into the current block of `b` and returns itself.
func (i *Instruction) Insert(b Builder) *Instruction {
	b.InsertInstruction(i)
	return i
}

const (
	opcodeInvalid Opcode = iota

	// OpcodeJump takes the list of args to the `block` and unconditionally jumps to it.
	OpcodeJump

	// OpcodeBrz branches into `blk` with `args`  if the value `c` equals zero: `Brz c, blk, args`.
	OpcodeBrz

	// OpcodeBrnz branches into `blk` with `args`  if the value `c` is not zero: `Brnz c, blk, args`.
	OpcodeBrnz

	// OpcodeReturn returns from the function: `return rvalues`.
	OpcodeReturn

	// OpcodeTrap exit the execution immediately.
	OpcodeTrap

	// OpcodeCall calls a function specified by the symbol FN with arguments `args`.
	// `returnvals = Call FN, args...`
	OpcodeCall

	// OpcodeCallIndirect calls a function through the pointer `callee`.
	// `rvals = call_indirect SIG, callee, args`.
	OpcodeCallIndirect

	// OpcodeLoad loads a value of the instruction type from `p + Offset`.
	// `a = load p, Offset`.
	OpcodeLoad

	// OpcodeStore stores `x` at `p + Offset`.
	// `store x, p, Offset`.
	OpcodeStore

	// OpcodeStackAlloc reserves `Size` bytes in the current frame and returns its address.
	// `addr = stack_alloc Size`.
	OpcodeStackAlloc

	// OpcodeIconst represents the integer const.
	OpcodeIconst

	// OpcodeF32const represents the single-precision const.
	OpcodeF32const

	// OpcodeF64const represents the double-precision const.
	OpcodeF64const

	// OpcodeIadd performs an integer addition.
	// `a = iadd x, y`.
	OpcodeIadd

	// OpcodeIsub performs an integer subtraction.
	// `a = isub x, y`.
	OpcodeIsub

	// OpcodeImul performs an integer multiplication.
	// `a = imul x, y`.
	OpcodeImul

	// OpcodeSdiv performs a signed integer division, trapping on zero.
	// `a = sdiv x, y`.
	OpcodeSdiv

	// OpcodeUdiv performs an unsigned integer division, trapping on zero.
	// `a = udiv x, y`.
	OpcodeUdiv

	// OpcodeIneg negates the integer.
	// `a = ineg x`.
	OpcodeIneg

	// OpcodeBand performs a binary and.
	// `a = band x, y`.
	OpcodeBand

	// OpcodeBor performs a binary or.
	// `a = bor x, y`.
	OpcodeBor

	// OpcodeBxor performs a binary xor.
	// `a = bxor x, y`.
	OpcodeBxor

	// OpcodeIshl does logical shift left.
	// `a = ishl x, y`.
	OpcodeIshl

	// OpcodeUshr does logical shift right.
	// `a = ushr x, y`.
	OpcodeUshr

	// OpcodeSshr does arithmetic shift right.
	// `a = sshr x, y`.
	OpcodeSshr

	// OpcodeIcmp compares two integer values with the given condition.
	// `a = icmp Cond, x, y`.
	OpcodeIcmp

	// OpcodeFcmp compares two floating point values with the given condition.
	// `a = fcmp Cond, x, y`.
	OpcodeFcmp

	// OpcodeFadd performs a floating point addition.
	// `a = fadd x, y`.
	OpcodeFadd

	// OpcodeFsub performs a floating point subtraction.
	// `a = fsub x, y`.
	OpcodeFsub

	// OpcodeFmul performs a floating point multiplication.
	// `a = fmul x, y`.
	OpcodeFmul

	// OpcodeFdiv performs a floating point division.
	// `a = fdiv x, y`.
	OpcodeFdiv

	// OpcodeFneg negates the floating point value.
	// `a = fneg x`.
	OpcodeFneg

	// OpcodeSqrt takes the square root of the floating point value.
	// `a = sqrt x`.
	OpcodeSqrt

	// OpcodeSelect chooses `x` if `c` is not zero, `y` otherwise.
	// `a = select c, x, y`.
	OpcodeSelect

	opcodeEnd
)

// effect is the set of behaviors of an opcode other than computing its result.
type effect byte

const (
	// effectSideEffect means the instruction may have an observable effect such as trapping.
	effectSideEffect effect = 1 << iota
	// effectMemoryRead means the instruction may read memory.
	effectMemoryRead
	// effectMemoryWrite means the instruction may write memory.
	effectMemoryWrite
	// effectTerminator means the instruction transfers the control.
	effectTerminator

	effectNone effect = 0
	effectCall        = effectSideEffect | effectMemoryRead | effectMemoryWrite
)

var instructionEffects = [opcodeEnd]effect{
	OpcodeJump:         effectTerminator,
	OpcodeBrz:          effectTerminator,
	OpcodeBrnz:         effectTerminator,
	OpcodeReturn:       effectTerminator,
	OpcodeTrap:         effectTerminator | effectSideEffect,
	OpcodeCall:         effectCall,
	OpcodeCallIndirect: effectCall,
	OpcodeLoad:         effectMemoryRead,
	OpcodeStore:        effectMemoryWrite | effectSideEffect,
	OpcodeStackAlloc:   effectNone,
	OpcodeIconst:       effectNone,
	OpcodeF32const:     effectNone,
	OpcodeF64const:     effectNone,
	OpcodeIadd:         effectNone,
	OpcodeIsub:         effectNone,
	OpcodeImul:         effectNone,
	OpcodeSdiv:         effectSideEffect, // traps on zero.
	OpcodeUdiv:         effectSideEffect, // traps on zero.
	OpcodeIneg:         effectNone,
	OpcodeBand:         effectNone,
	OpcodeBor:          effectNone,
	OpcodeBxor:         effectNone,
	OpcodeIshl:         effectNone,
	OpcodeUshr:         effectNone,
	OpcodeSshr:         effectNone,
	OpcodeIcmp:         effectNone,
	OpcodeFcmp:         effectNone,
	OpcodeFadd:         effectNone,
	OpcodeFsub:         effectNone,
	OpcodeFmul:         effectNone,
	OpcodeFdiv:         effectNone,
	OpcodeFneg:         effectNone,
	OpcodeSqrt:         effectNone,
	OpcodeSelect:       effectNone,
}

func (o Opcode) effects() effect {
	if o == opcodeInvalid || o >= opcodeEnd {
		panic(fmt.Sprintf("BUG: invalid opcode %d", o))
	}
	return instructionEffects[o]
}

// IsBranching returns true if the opcode is a branching instruction.
func (o Opcode) IsBranching() bool {
	return o == OpcodeJump || o == OpcodeBrz || o == OpcodeBrnz
}

// IsTerminator returns true if the opcode transfers the control out of the block.
func (o Opcode) IsTerminator() bool {
	return o.effects()&effectTerminator != 0
}

// MayReadMemory returns true if the opcode may read memory.
func (o Opcode) MayReadMemory() bool {
	return o.effects()&effectMemoryRead != 0
}

// MayWriteMemory returns true if the opcode may write memory.
func (o Opcode) MayWriteMemory() bool {
	return o.effects()&effectMemoryWrite != 0
}

// HasSideEffects returns true if the opcode may have an observable effect besides its result.
func (o Opcode) HasSideEffects() bool {
	return o.effects()&effectSideEffect != 0
}

type returnTypesFn func(b *builder, instr *Instruction) (t1 Type, ts []Type)

var (
	returnTypesFnNoReturns returnTypesFn = func(b *builder, instr *Instruction) (t1 Type, ts []Type) { return typeInvalid, nil }
	returnTypesFnSingle                  = func(b *builder, instr *Instruction) (t1 Type, ts []Type) { return instr.typ, nil }
	returnTypesFnSignature               = func(b *builder, instr *Instruction) (t1 Type, ts []Type) {
		sig, ok := b.signatures[SignatureID(instr.u2)]
		if !ok {
			panic("BUG: signature not declared: " + SignatureID(instr.u2).String())
		}
		switch len(sig.Results) {
		case 0:
			t1 = typeInvalid
		case 1:
			t1 = sig.Results[0]
		default:
			t1, ts = sig.Results[0], sig.Results[1:]
		}
		return
	}
)

var instructionReturnTypes = [opcodeEnd]returnTypesFn{
	OpcodeJump:         returnTypesFnNoReturns,
	OpcodeBrz:          returnTypesFnNoReturns,
	OpcodeBrnz:         returnTypesFnNoReturns,
	OpcodeReturn:       returnTypesFnNoReturns,
	OpcodeTrap:         returnTypesFnNoReturns,
	OpcodeCall:         returnTypesFnSignature,
	OpcodeCallIndirect: returnTypesFnSignature,
	OpcodeLoad:         returnTypesFnSingle,
	OpcodeStore:        returnTypesFnNoReturns,
	OpcodeStackAlloc:   returnTypesFnSingle,
	OpcodeIconst:       returnTypesFnSingle,
	OpcodeF32const:     returnTypesFnSingle,
	OpcodeF64const:     returnTypesFnSingle,
	OpcodeIadd:         returnTypesFnSingle,
	OpcodeIsub:         returnTypesFnSingle,
	OpcodeImul:         returnTypesFnSingle,
	OpcodeSdiv:         returnTypesFnSingle,
	OpcodeUdiv:         returnTypesFnSingle,
	OpcodeIneg:         returnTypesFnSingle,
	OpcodeBand:         returnTypesFnSingle,
	OpcodeBor:          returnTypesFnSingle,
	OpcodeBxor:         returnTypesFnSingle,
	OpcodeIshl:         returnTypesFnSingle,
	OpcodeUshr:         returnTypesFnSingle,
	OpcodeSshr:         returnTypesFnSingle,
	OpcodeIcmp:         returnTypesFnSingle,
	OpcodeFcmp:         returnTypesFnSingle,
	OpcodeFadd:         returnTypesFnSingle,
	OpcodeFsub:         returnTypesFnSingle,
	OpcodeFmul:         returnTypesFnSingle,
	OpcodeFdiv:         returnTypesFnSingle,
	OpcodeFneg:         returnTypesFnSingle,
	OpcodeSqrt:         returnTypesFnSingle,
	OpcodeSelect:       returnTypesFnSingle,
}

// asBinary initializes this instruction as a binary operation of the same type as `x`.
func (i *Instruction) asBinary(op Opcode, x, y Value) *Instruction {
	i.opcode = op
	i.v = x
	i.v2 = y
	i.typ = x.Type()
	return i
}

// asUnary initializes this instruction as an unary operation of the same type as `x`.
func (i *Instruction) asUnary(op Opcode, x Value) *Instruction {
	i.opcode = op
	i.v = x
	i.typ = x.Type()
	return i
}

// AsIconst64 initializes this instruction as a 64-bit integer constant instruction with OpcodeIconst.
func (i *Instruction) AsIconst64(v uint64) *Instruction {
	i.opcode = OpcodeIconst
	i.typ = TypeI64
	i.u1 = v
	return i
}

// AsIconst32 initializes this instruction as a 32-bit integer constant instruction with OpcodeIconst.
func (i *Instruction) AsIconst32(v uint32) *Instruction {
	i.opcode = OpcodeIconst
	i.typ = TypeI32
	i.u1 = uint64(v)
	return i
}

// AsF32const initializes this instruction as a 32-bit floating-point constant instruction with OpcodeF32const.
func (i *Instruction) AsF32const(f float32) *Instruction {
	i.opcode = OpcodeF32const
	i.typ = TypeF32
	i.u1 = uint64(math.Float32bits(f))
	return i
}

// AsF64const initializes this instruction as a 64-bit floating-point constant instruction with OpcodeF64const.
func (i *Instruction) AsF64const(f float64) *Instruction {
	i.opcode = OpcodeF64const
	i.typ = TypeF64
	i.u1 = math.Float64bits(f)
	return i
}

// AsIadd initializes this instruction as an integer addition instruction with OpcodeIadd.
func (i *Instruction) AsIadd(x, y Value) *Instruction { return i.asBinary(OpcodeIadd, x, y) }

// AsIsub initializes this instruction as an integer subtraction instruction with OpcodeIsub.
func (i *Instruction) AsIsub(x, y Value) *Instruction { return i.asBinary(OpcodeIsub, x, y) }

// AsImul initializes this instruction as an integer multiplication instruction with OpcodeImul.
func (i *Instruction) AsImul(x, y Value) *Instruction { return i.asBinary(OpcodeImul, x, y) }

// AsSdiv initializes this instruction as a signed integer division instruction with OpcodeSdiv.
func (i *Instruction) AsSdiv(x, y Value) *Instruction { return i.asBinary(OpcodeSdiv, x, y) }

// AsUdiv initializes this instruction as an unsigned integer division instruction with OpcodeUdiv.
func (i *Instruction) AsUdiv(x, y Value) *Instruction { return i.asBinary(OpcodeUdiv, x, y) }

// AsIneg initializes this instruction as an integer negation instruction with OpcodeIneg.
func (i *Instruction) AsIneg(x Value) *Instruction { return i.asUnary(OpcodeIneg, x) }

// AsBand initializes this instruction as an integer bitwise and instruction with OpcodeBand.
func (i *Instruction) AsBand(x, y Value) *Instruction { return i.asBinary(OpcodeBand, x, y) }

// AsBor initializes this instruction as an integer bitwise or instruction with OpcodeBor.
func (i *Instruction) AsBor(x, y Value) *Instruction { return i.asBinary(OpcodeBor, x, y) }

// AsBxor initializes this instruction as an integer bitwise xor instruction with OpcodeBxor.
func (i *Instruction) AsBxor(x, y Value) *Instruction { return i.asBinary(OpcodeBxor, x, y) }

// AsIshl initializes this instruction as an integer shift left instruction with OpcodeIshl.
func (i *Instruction) AsIshl(x, amount Value) *Instruction { return i.asBinary(OpcodeIshl, x, amount) }

// AsUshr initializes this instruction as an integer unsigned shift right instruction with OpcodeUshr.
func (i *Instruction) AsUshr(x, amount Value) *Instruction { return i.asBinary(OpcodeUshr, x, amount) }

// AsSshr initializes this instruction as an integer signed shift right instruction with OpcodeSshr.
func (i *Instruction) AsSshr(x, amount Value) *Instruction { return i.asBinary(OpcodeSshr, x, amount) }

// AsFadd initializes this instruction as a floating-point addition instruction with OpcodeFadd.
func (i *Instruction) AsFadd(x, y Value) *Instruction { return i.asBinary(OpcodeFadd, x, y) }

// AsFsub initializes this instruction as a floating-point subtraction instruction with OpcodeFsub.
func (i *Instruction) AsFsub(x, y Value) *Instruction { return i.asBinary(OpcodeFsub, x, y) }

// AsFmul initializes this instruction as a floating-point multiplication instruction with OpcodeFmul.
func (i *Instruction) AsFmul(x, y Value) *Instruction { return i.asBinary(OpcodeFmul, x, y) }

// AsFdiv initializes this instruction as a floating-point division instruction with OpcodeFdiv.
func (i *Instruction) AsFdiv(x, y Value) *Instruction { return i.asBinary(OpcodeFdiv, x, y) }

// AsFneg initializes this instruction as a floating-point negation instruction with OpcodeFneg.
func (i *Instruction) AsFneg(x Value) *Instruction { return i.asUnary(OpcodeFneg, x) }

// AsSqrt initializes this instruction as a square root instruction with OpcodeSqrt.
func (i *Instruction) AsSqrt(x Value) *Instruction { return i.asUnary(OpcodeSqrt, x) }

// AsIcmp initializes this instruction as an integer comparison instruction with OpcodeIcmp.
// The result is an i32 which is 1 if the condition holds.
func (i *Instruction) AsIcmp(x, y Value, c IntegerCmpCond) *Instruction {
	i.opcode = OpcodeIcmp
	i.v = x
	i.v2 = y
	i.u1 = uint64(c)
	i.typ = TypeI32
	return i
}

// AsFcmp initializes this instruction as a floating-point comparison instruction with OpcodeFcmp.
// The result is an i32 which is 1 if the condition holds.
func (i *Instruction) AsFcmp(x, y Value, c FloatCmpCond) *Instruction {
	i.opcode = OpcodeFcmp
	i.v = x
	i.v2 = y
	i.u1 = uint64(c)
	i.typ = TypeI32
	return i
}

// AsSelect initializes this instruction as a select instruction with OpcodeSelect.
func (i *Instruction) AsSelect(c, x, y Value) *Instruction {
	i.opcode = OpcodeSelect
	i.v = c
	i.v2 = x
	i.v3 = y
	i.typ = x.Type()
	return i
}

// AsLoad initializes this instruction as a load instruction with OpcodeLoad.
func (i *Instruction) AsLoad(ptr Value, offset uint32, typ Type) *Instruction {
	i.opcode = OpcodeLoad
	i.v = ptr
	i.u1 = uint64(offset)
	i.typ = typ
	return i
}

// AsStore initializes this instruction as a store instruction with OpcodeStore.
func (i *Instruction) AsStore(value, ptr Value, offset uint32) *Instruction {
	i.opcode = OpcodeStore
	i.v = value
	i.v2 = ptr
	i.u1 = uint64(offset)
	return i
}

// AsStackAlloc initializes this instruction as a stack allocation of `size` bytes with OpcodeStackAlloc.
func (i *Instruction) AsStackAlloc(size uint32) *Instruction {
	i.opcode = OpcodeStackAlloc
	i.u1 = uint64(size)
	i.typ = TypePtr
	return i
}

// AsCall initializes this instruction as a call instruction with OpcodeCall.
func (i *Instruction) AsCall(ref FuncRef, sig *Signature, args []Value) *Instruction {
	i.opcode = OpcodeCall
	i.u1 = uint64(ref)
	i.u2 = uint64(sig.ID)
	i.vs = args
	if len(sig.Results) > 0 {
		i.typ = sig.Results[0]
	}
	sig.used = true
	return i
}

// AsCallIndirect initializes this instruction as a call-indirect instruction with OpcodeCallIndirect.
func (i *Instruction) AsCallIndirect(funcPtr Value, sig *Signature, args []Value) *Instruction {
	i.opcode = OpcodeCallIndirect
	i.v = funcPtr
	i.u2 = uint64(sig.ID)
	i.vs = args
	if len(sig.Results) > 0 {
		i.typ = sig.Results[0]
	}
	sig.used = true
	return i
}

// AsReturn initializes this instruction as a return instruction with OpcodeReturn.
func (i *Instruction) AsReturn(vs []Value) *Instruction {
	i.opcode = OpcodeReturn
	i.vs = vs
	return i
}

// AsTrap initializes this instruction as a trap instruction with OpcodeTrap.
func (i *Instruction) AsTrap() *Instruction {
	i.opcode = OpcodeTrap
	return i
}

// AsJump initializes this instruction as a jump instruction with OpcodeJump.
func (i *Instruction) AsJump(vs []Value, target BasicBlock) *Instruction {
	i.opcode = OpcodeJump
	i.vs = vs
	i.blk = target
	return i
}

// AsBrz initializes this instruction as a branch-if-zero instruction with OpcodeBrz.
func (i *Instruction) AsBrz(v Value, args []Value, target BasicBlock) *Instruction {
	i.opcode = OpcodeBrz
	i.v = v
	i.vs = args
	i.blk = target
	return i
}

// AsBrnz initializes this instruction as a branch-if-not-zero instruction with OpcodeBrnz.
func (i *Instruction) AsBrnz(v Value, args []Value, target BasicBlock) *Instruction {
	i.opcode = OpcodeBrnz
	i.v = v
	i.vs = args
	i.blk = target
	return i
}

// BranchData returns the branch data for this instruction necessary for backends.
func (i *Instruction) BranchData() (condVal Value, blockArgs []Value, target BasicBlock) {
	switch i.opcode {
	case OpcodeJump:
		condVal = ValueInvalid
	case OpcodeBrz, OpcodeBrnz:
		condVal = i.v
	default:
		panic("BUG")
	}
	blockArgs = i.vs
	target = i.blk
	return
}

// Format returns a string representation of this instruction with the given builder.
// For debugging purpose.
func (i *Instruction) Format(b Builder) string {
	var instSuffix string
	switch i.opcode {
	case OpcodeTrap:
	case OpcodeCall:
		instSuffix = fmt.Sprintf(" %s:%s%s", FuncRef(i.u1), SignatureID(i.u2), formatArgs(b, i.vs))
	case OpcodeCallIndirect:
		instSuffix = fmt.Sprintf(" %s, %s%s", SignatureID(i.u2), i.v.Format(b), formatArgs(b, i.vs))
	case OpcodeLoad:
		instSuffix = fmt.Sprintf(" %s, %#x", i.v.Format(b), int32(i.u1))
	case OpcodeStore:
		instSuffix = fmt.Sprintf(" %s, %s, %#x", i.v.Format(b), i.v2.Format(b), int32(i.u1))
	case OpcodeStackAlloc:
		instSuffix = fmt.Sprintf(" %#x", uint32(i.u1))
	case OpcodeIconst:
		switch i.typ {
		case TypeI32:
			instSuffix = fmt.Sprintf("_32 %#x", uint32(i.u1))
		case TypeI64:
			instSuffix = fmt.Sprintf("_64 %#x", i.u1)
		}
	case OpcodeF32const:
		instSuffix = fmt.Sprintf(" %f", math.Float32frombits(uint32(i.u1)))
	case OpcodeF64const:
		instSuffix = fmt.Sprintf(" %f", math.Float64frombits(i.u1))
	case OpcodeIadd, OpcodeIsub, OpcodeImul, OpcodeSdiv, OpcodeUdiv, OpcodeBand, OpcodeBor, OpcodeBxor,
		OpcodeIshl, OpcodeUshr, OpcodeSshr, OpcodeFadd, OpcodeFsub, OpcodeFmul, OpcodeFdiv:
		instSuffix = fmt.Sprintf(" %s, %s", i.v.Format(b), i.v2.Format(b))
	case OpcodeIneg, OpcodeFneg, OpcodeSqrt:
		instSuffix = " " + i.v.Format(b)
	case OpcodeIcmp:
		instSuffix = fmt.Sprintf(" %s, %s, %s", IntegerCmpCond(i.u1), i.v.Format(b), i.v2.Format(b))
	case OpcodeFcmp:
		instSuffix = fmt.Sprintf(" %s, %s, %s", FloatCmpCond(i.u1), i.v.Format(b), i.v2.Format(b))
	case OpcodeSelect:
		instSuffix = fmt.Sprintf(" %s, %s, %s", i.v.Format(b), i.v2.Format(b), i.v3.Format(b))
	case OpcodeReturn:
		if len(i.vs) == 0 {
			break
		}
		instSuffix = " " + strings.TrimPrefix(formatArgs(b, i.vs), ", ")
	case OpcodeJump:
		instSuffix = " " + i.blk.Name() + formatArgs(b, i.vs)
	case OpcodeBrz, OpcodeBrnz:
		instSuffix = fmt.Sprintf(" %s, %s%s", i.v.Format(b), i.blk.Name(), formatArgs(b, i.vs))
	default:
		panic(fmt.Sprintf("TODO: format for %s", i.opcode))
	}

	instr := i.opcode.String() + instSuffix

	var rvs []string
	if rv := i.rValue; rv.Valid() {
		rvs = append(rvs, rv.formatWithType(b))
	}

	for _, v := range i.rValues {
		rvs = append(rvs, v.formatWithType(b))
	}

	if len(rvs) > 0 {
		return fmt.Sprintf("%s = %s", strings.Join(rvs, ", "), instr)
	} else {
		return instr
	}
}

// formatArgs formats `vs` as a comma-prefixed list, or an empty string if there's nothing.
func formatArgs(b Builder, vs []Value) string {
	if len(vs) == 0 {
		return ""
	}
	strs := make([]string, len(vs))
	for idx, v := range vs {
		strs[idx] = v.Format(b)
	}
	return ", " + strings.Join(strs, ", ")
}

// String implements fmt.Stringer.
func (o Opcode) String() (ret string) {
	switch o {
	case OpcodeJump:
		return "Jump"
	case OpcodeBrz:
		return "Brz"
	case OpcodeBrnz:
		return "Brnz"
	case OpcodeReturn:
		return "Return"
	case OpcodeTrap:
		return "Trap"
	case OpcodeCall:
		return "Call"
	case OpcodeCallIndirect:
		return "CallIndirect"
	case OpcodeLoad:
		return "Load"
	case OpcodeStore:
		return "Store"
	case OpcodeStackAlloc:
		return "StackAlloc"
	case OpcodeIconst:
		return "Iconst"
	case OpcodeF32const:
		return "F32const"
	case OpcodeF64const:
		return "F64const"
	case OpcodeIadd:
		return "Iadd"
	case OpcodeIsub:
		return "Isub"
	case OpcodeImul:
		return "Imul"
	case OpcodeSdiv:
		return "Sdiv"
	case OpcodeUdiv:
		return "Udiv"
	case OpcodeIneg:
		return "Ineg"
	case OpcodeBand:
		return "Band"
	case OpcodeBor:
		return "Bor"
	case OpcodeBxor:
		return "Bxor"
	case OpcodeIshl:
		return "Ishl"
	case OpcodeUshr:
		return "Ushr"
	case OpcodeSshr:
		return "Sshr"
	case OpcodeIcmp:
		return "Icmp"
	case OpcodeFcmp:
		return "Fcmp"
	case OpcodeFadd:
		return "Fadd"
	case OpcodeFsub:
		return "Fsub"
	case OpcodeFmul:
		return "Fmul"
	case OpcodeFdiv:
		return "Fdiv"
	case OpcodeFneg:
		return "Fneg"
	case OpcodeSqrt:
		return "Sqrt"
	case OpcodeSelect:
		return "Select"
	}
	panic(fmt.Sprintf("unknown opcode %d", o))
}

package hoist

import "github.com/TarunAkash/hoist-anticipated-expressions/internal/ssa"

// The SSA types needed to build the functions given to Pass.Run.
type (
	Builder        = ssa.Builder
	BasicBlock     = ssa.BasicBlock
	Instruction    = ssa.Instruction
	Value          = ssa.Value
	Type           = ssa.Type
	Signature      = ssa.Signature
	SignatureID    = ssa.SignatureID
	FuncRef        = ssa.FuncRef
	IntegerCmpCond = ssa.IntegerCmpCond
	FloatCmpCond   = ssa.FloatCmpCond
)

const (
	TypeI32 = ssa.TypeI32
	TypeI64 = ssa.TypeI64
	TypeF32 = ssa.TypeF32
	TypeF64 = ssa.TypeF64
	TypePtr = ssa.TypePtr
)

// NewBuilder returns a new Builder.
func NewBuilder() Builder {
	return ssa.NewBuilder()
}

package ssa

import (
	"fmt"
	"math"
)

// Value represents an SSA value with a type information. A Value is defined exactly once,
// either as the result of an Instruction or as a parameter of a BasicBlock.
//
// Higher 32-bit is used to store Type for this value.
type Value uint64

// ValueID is the lower 32bit of Value, which is the pure identifier of Value without type info.
type ValueID uint32

const (
	valueIDInvalid ValueID = math.MaxUint32
	// ValueInvalid is a Value that does not refer to any definition.
	ValueInvalid Value = Value(valueIDInvalid)
)

// Format creates a debug string for this Value.
func (v Value) Format(Builder) string {
	return fmt.Sprintf("v%d", v.ID())
}

func (v Value) formatWithType(b Builder) string {
	return fmt.Sprintf("%s:%s", v.Format(b), v.Type())
}

// Valid returns true if this value is valid.
func (v Value) Valid() bool {
	return v.ID() != valueIDInvalid
}

// Type returns the Type of this value.
func (v Value) Type() Type {
	return Type(v >> 32)
}

// ID returns the valueID of this value.
func (v Value) ID() ValueID {
	return ValueID(v)
}

// setType sets a type to this Value and returns the updated Value.
func (v Value) setType(typ Type) Value {
	return v | Value(typ)<<32
}

// valueAlias holds the information to alias the source Value to the destination Value.
// Aliases are needed during the optimizations, where we remove/modify the Instruction(s)
// and redirect every consumer of dst to src.
type valueAlias struct {
	src, dst Value
}

func (va valueAlias) format(b Builder) string {
	return fmt.Sprintf("%s = %s", va.dst.Format(b), va.src.Format(b))
}

package ssa

import (
	"fmt"
	"strings"
)

// SignatureID is an unique identifier used to lookup.
type SignatureID int

// String implements fmt.Stringer.
func (s SignatureID) String() string {
	return fmt.Sprintf("sig%d", s)
}

// Signature is a function prototype.
type Signature struct {
	// ID is an unique identifier for this signature used to lookup.
	ID SignatureID
	// Params and Results are the types of the parameters and results of the function.
	Params, Results []Type

	// used is true if this is used by the currently-compiled function.
	used bool
}

// String implements fmt.Stringer.
func (s *Signature) String() string {
	str := strings.Builder{}
	str.WriteString(s.ID.String())
	str.WriteString(": ")
	if len(s.Params) > 0 {
		for _, typ := range s.Params {
			str.WriteString(typ.String())
		}
	} else {
		str.WriteByte('v')
	}
	str.WriteByte('_')
	if len(s.Results) > 0 {
		for _, typ := range s.Results {
			str.WriteString(typ.String())
		}
	} else {
		str.WriteByte('v')
	}
	return str.String()
}

// FuncRef is a reference to a function declared with Builder.DeclareFunction.
type FuncRef uint32

// String implements fmt.Stringer.
func (r FuncRef) String() string {
	return fmt.Sprintf("f%d", r)
}

// function is a callee known to the builder.
type function struct {
	name string
	sig  *Signature
}

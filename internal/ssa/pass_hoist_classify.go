package ssa

// PurityTable tells which library routines are free of side effects.
type PurityTable interface {
	// IsPure returns true if the routine named `name` neither reads nor writes memory
	// and has no other observable effect. Unknown names must be reported as impure.
	IsPure(name string) bool
}

// isHoistCandidate returns true if `instr` is an expression which can be moved to another block
// and deduplicated: it must compute a single result and have no effect other than that.
//
// Block parameters play the role of merges, so they are never instructions and never candidates.
func isHoistCandidate(b *builder, purity PurityTable, instr *Instruction) bool {
	op := instr.opcode
	switch op {
	case OpcodeStackAlloc:
		// Each execution yields a distinct address.
		return false
	case OpcodeCall:
		return isPureCall(b, purity, instr)
	}

	if !instr.rValue.Valid() || len(instr.rValues) > 0 {
		return false
	}
	return !op.IsTerminator() && !op.MayReadMemory() && !op.MayWriteMemory() && !op.HasSideEffects()
}

// isPureCall returns true if `instr` calls a declared function known to be pure, whose
// signature neither takes nor returns a reference into memory.
func isPureCall(b *builder, purity PurityTable, instr *Instruction) bool {
	if purity == nil {
		return false
	}
	fn, ok := b.lookupFunction(FuncRef(instr.u1))
	if !ok {
		return false
	}

	sig := fn.sig
	if len(sig.Results) != 1 || sig.Results[0].IsReference() {
		return false
	}
	for _, p := range sig.Params {
		if p.IsReference() {
			return false
		}
	}
	for _, arg := range instr.vs {
		if arg.Type().IsReference() {
			return false
		}
	}
	return purity.IsPure(fn.name)
}

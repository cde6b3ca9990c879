package ssa

// hoistPlan is the list of mutations decided for a block. Nothing is mutated while planning,
// and the plan is applied in the order relocate, redirect, then delete.
type hoistPlan struct {
	// relocations are moved to the end of the block, right before its branching tail, in this order.
	relocations []*Instruction
	// redirects make the consumers of each dst use src instead.
	redirects []valueAlias
	// deletions are the duplicates whose results are redirected.
	deletions []*Instruction
	// adopted is the number of expressions already computed in the block.
	adopted int
}

// changes returns true if applying the plan modifies the function.
func (p *hoistPlan) changes() bool {
	return len(p.relocations) > 0 || len(p.deletions) > 0
}

// planMotion decides, for each expression anticipated at the exit of `blk`, which instance to keep
// at the end of `blk` and which instances below it are duplicates of it.
func (r *hoistRound) planMotion(blk *basicBlock) *hoistPlan {
	plan := &hoistPlan{}
	out := r.out[blk.id]
	if out.None() {
		return plan
	}

	landing := make(map[ValueID]struct{})
	reachable := r.b.breadthFirst(blk)
	for id, ok := out.NextSet(0); ok; id, ok = out.NextSet(id + 1) {
		expr := &r.exprs[id]

		var canonical *Instruction
		for _, instr := range expr.instances {
			if r.blockOf[instr] == blk {
				canonical = instr
				break
			}
		}
		if canonical != nil {
			plan.adopted++
		} else {
			canonical = r.representative(blk, expr, landing)
			if canonical == nil {
				continue
			}
			plan.relocations = append(plan.relocations, canonical)
			landing[canonical.rValue.ID()] = struct{}{}
		}

		for _, other := range reachable {
			if !r.b.isDominatedBy(other, blk) {
				continue
			}
			for cur := other.rootInstr; cur != nil; cur = cur.next {
				if cur == canonical {
					continue
				}
				if dupID, ok := r.exprOf[cur]; ok && dupID == int(id) {
					plan.redirects = append(plan.redirects, valueAlias{dst: cur.rValue, src: canonical.rValue})
					plan.deletions = append(plan.deletions, cur)
				}
			}
		}
	}
	return plan
}

// representative returns the instance of `expr` to move to the end of `blk`, or nil if none can move.
// The instance must be in a block strictly dominated by `blk`, and all its operands must be
// available at the end of `blk`.
func (r *hoistRound) representative(blk *basicBlock, expr *hoistExpr, landing map[ValueID]struct{}) *Instruction {
	for _, instr := range expr.instances {
		from := r.blockOf[instr]
		if from == blk || !r.b.isDominatedBy(from, blk) {
			continue
		}
		available := true
		instr.forEachArg(func(arg Value) {
			if !r.availableAtEnd(blk, arg, landing) {
				available = false
			}
		})
		if available {
			return instr
		}
	}
	return nil
}

// availableAtEnd returns true if `v` is defined on every path reaching the end of `blk`.
func (r *hoistRound) availableAtEnd(blk *basicBlock, v Value, landing map[ValueID]struct{}) bool {
	if _, ok := landing[v.ID()]; ok {
		return true
	}
	if int(v.ID()) >= len(r.defBlock) {
		return false
	}
	def := r.defBlock[v.ID()]
	return def != nil && r.b.isDominatedBy(blk, def)
}

// applyMotion mutates the function according to `plan`.
func (r *hoistRound) applyMotion(blk *basicBlock, plan *hoistPlan) {
	for _, instr := range plan.relocations {
		r.blockOf[instr].removeInstruction(instr)
		blk.insertInstructionBefore(instr, blk.branchingTail())
		r.blockOf[instr] = blk
	}

	for _, alias := range plan.redirects {
		r.b.alias(alias.dst, alias.src)
	}
	r.b.resolveAllAliases()

	for _, instr := range plan.deletions {
		r.blockOf[instr].removeInstruction(instr)
		delete(r.blockOf, instr)
	}
}

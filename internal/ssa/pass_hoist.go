package ssa

import (
	"io"

	"github.com/willf/bitset"
	"go.uber.org/zap"
)

// HoistOptions configures Builder.HoistAnticipatedExpressions.
type HoistOptions struct {
	// Purity tells which called routines can be treated as plain expressions.
	// If nil, no call is ever moved.
	Purity PurityTable
	// Logger receives the progress of the pass at debug level. Defaults to zap.NewNop().
	Logger *zap.Logger
	// DumpSets, if set, receives the Use, Kill, In and Out sets of every round.
	DumpSets io.Writer
}

// hoistRound holds the analysis of the function as it is at the beginning of a round.
// Nothing survives a round: any motion invalidates it.
type hoistRound struct {
	b      *builder
	purity PurityTable

	exprs   []hoistExpr
	exprIDs map[hoistKey]int
	exprOf  map[*Instruction]int
	blockOf map[*Instruction]*basicBlock
	// defBlock is the block defining each value, indexed by ValueID.
	defBlock []*basicBlock

	// The sets below are indexed by BasicBlockID, and are nil for unreachable blocks.
	use, kill, in, out []*bitset.BitSet
}

func newHoistRound(b *builder, purity PurityTable) *hoistRound {
	n := b.basicBlocksPool.Allocated()
	return &hoistRound{
		b:       b,
		purity:  purity,
		exprIDs: make(map[hoistKey]int),
		exprOf:  make(map[*Instruction]int),
		blockOf: make(map[*Instruction]*basicBlock),
		use:     make([]*bitset.BitSet, n),
		kill:    make([]*bitset.BitSet, n),
		in:      make([]*bitset.BitSet, n),
		out:     make([]*bitset.BitSet, n),
	}
}

// HoistAnticipatedExpressions implements Builder.HoistAnticipatedExpressions.
//
// Each round analyzes the whole function from scratch, then visits the blocks in breadth-first
// order from the entry and applies the motion of the first block where it changes something.
// The pass ends with the first round without any change.
func (b *builder) HoistAnticipatedExpressions(opts HoistOptions) (changed bool) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	for round := 1; ; round++ {
		passCalculateImmediateDominators(b)

		r := newHoistRound(b, opts.Purity)
		r.buildIndex()
		r.buildUseKill()
		sweeps := r.solve()
		logger.Debug("anticipated expressions solved",
			zap.Int("round", round),
			zap.Int("expressions", len(r.exprs)),
			zap.Int("blocks", len(b.reversePostOrderedBasicBlocks)),
			zap.Int("sweeps", sweeps),
		)
		if opts.DumpSets != nil {
			if err := r.dump(opts.DumpSets); err != nil {
				logger.Warn("failed to dump sets", zap.Error(err))
			}
		}

		if !r.hoistFirst(logger) {
			logger.Debug("function is stable", zap.Int("rounds", round), zap.Bool("changed", changed))
			return
		}
		changed = true
	}
}

// hoistFirst applies the motion to the first block, in breadth-first order from the entry,
// where it changes the function. Returns false if there's no such block.
func (r *hoistRound) hoistFirst(logger *zap.Logger) bool {
	for _, blk := range r.b.breadthFirst(r.b.entryBlk()) {
		plan := r.planMotion(blk)
		if !plan.changes() {
			continue
		}
		r.applyMotion(blk, plan)
		if ce := logger.Check(zap.DebugLevel, "hoisted"); ce != nil {
			hoisted := make([]string, len(plan.relocations))
			for i, instr := range plan.relocations {
				hoisted[i] = instr.Format(r.b)
			}
			redirected := make([]string, len(plan.redirects))
			for i, alias := range plan.redirects {
				redirected[i] = alias.format(r.b)
			}
			ce.Write(
				zap.Stringer("block", blk),
				zap.Strings("relocated", hoisted),
				zap.Strings("redirected", redirected),
				zap.Int("adopted", plan.adopted),
				zap.Int("deleted", len(plan.deletions)),
			)
		}
		return true
	}
	return false
}

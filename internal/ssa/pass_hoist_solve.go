package ssa

import "github.com/willf/bitset"

// solve computes In and Out of every reachable block as the greatest fixpoint of
//
//	Out[B] = ⋂ In[S] for each successor S of B (empty if B has no successor)
//	In[B]  = (Out[B] ∪ Use[B]) \ Kill[B]
//
// In starts from the set of all expressions so that loops converge to the greatest solution.
// Blocks are visited in post-order, and sweeps repeat until nothing changes. Returns the number of sweeps.
func (r *hoistRound) solve() (sweeps int) {
	n := uint(len(r.exprs))
	universe := bitset.New(n)
	for i := uint(0); i < n; i++ {
		universe.Set(i)
	}

	blks := r.b.reversePostOrderedBasicBlocks
	for _, blk := range blks {
		r.in[blk.id] = universe.Clone()
		r.out[blk.id] = bitset.New(n)
	}

	for changed := true; changed; {
		changed = false
		sweeps++
		for i := len(blks) - 1; i >= 0; i-- {
			blk := blks[i]
			out := r.meet(blk, n)
			in := out.Union(r.use[blk.id])
			in.InPlaceDifference(r.kill[blk.id])

			if !out.Equal(r.out[blk.id]) || !in.Equal(r.in[blk.id]) {
				changed = true
			}
			r.out[blk.id], r.in[blk.id] = out, in
		}
	}
	return
}

// meet intersects In of the successors of `blk`.
func (r *hoistRound) meet(blk *basicBlock, n uint) *bitset.BitSet {
	if len(blk.success) == 0 {
		return bitset.New(n)
	}
	out := r.in[blk.success[0].id].Clone()
	for _, succ := range blk.success[1:] {
		out.InPlaceIntersection(r.in[succ.id])
	}
	return out
}

package ssa

import (
	"encoding/binary"

	"github.com/willf/bitset"
)

// hoistKey is the structural identity of a candidate. Two instructions with the same key compute
// the same value: same opcode (hence the same effects), result type, immediates and operands.
type hoistKey struct {
	opcode    Opcode
	typ       Type
	u1, u2    uint64
	v, v2, v3 Value
	// vs is the encoded variadic operands, since slices are not comparable.
	vs string
}

func newHoistKey(instr *Instruction) hoistKey {
	key := hoistKey{
		opcode: instr.opcode,
		typ:    instr.typ,
		u1:     instr.u1,
		u2:     instr.u2,
		v:      instr.v,
		v2:     instr.v2,
		v3:     instr.v3,
	}
	if len(instr.vs) > 0 {
		buf := make([]byte, 0, 8*len(instr.vs))
		for _, v := range instr.vs {
			buf = binary.LittleEndian.AppendUint64(buf, uint64(v))
		}
		key.vs = string(buf)
	}
	return key
}

// hoistExpr is an equivalence class of candidates sharing a hoistKey.
type hoistExpr struct {
	// instances are in the breadth-first order of their blocks from the entry, then in program order.
	instances []*Instruction
}

// buildIndex assigns the expression IDs to every candidate in the reachable blocks, and records
// where each value is defined.
func (r *hoistRound) buildIndex() {
	b := r.b
	r.defBlock = make([]*basicBlock, b.nextValueID)
	for _, blk := range b.breadthFirst(b.entryBlk()) {
		for _, p := range blk.params {
			r.defBlock[p.value.ID()] = blk
		}
		for cur := blk.rootInstr; cur != nil; cur = cur.next {
			if rv := cur.rValue; rv.Valid() {
				r.defBlock[rv.ID()] = blk
			}
			for _, rv := range cur.rValues {
				r.defBlock[rv.ID()] = blk
			}
			r.blockOf[cur] = blk

			if !isHoistCandidate(b, r.purity, cur) {
				continue
			}
			key := newHoistKey(cur)
			id, ok := r.exprIDs[key]
			if !ok {
				id = len(r.exprs)
				r.exprIDs[key] = id
				r.exprs = append(r.exprs, hoistExpr{})
			}
			r.exprs[id].instances = append(r.exprs[id].instances, cur)
			r.exprOf[cur] = id
		}
	}
}

// buildUseKill computes Use and Kill of every reachable block.
//
// Use[B] is every candidate in B. Kill[B] is every candidate in B consuming a value defined in B,
// either by another instruction or as a parameter of B: it cannot be computed before entering B.
func (r *hoistRound) buildUseKill() {
	n := uint(len(r.exprs))
	local := bitset.New(uint(r.b.nextValueID))
	for _, blk := range r.b.reversePostOrderedBasicBlocks {
		use, kill := bitset.New(n), bitset.New(n)
		local.ClearAll()
		for _, p := range blk.params {
			local.Set(uint(p.value.ID()))
		}
		for cur := blk.rootInstr; cur != nil; cur = cur.next {
			if id, ok := r.exprOf[cur]; ok {
				use.Set(uint(id))
				killed := false
				cur.forEachArg(func(arg Value) {
					if local.Test(uint(arg.ID())) {
						killed = true
					}
				})
				if killed {
					kill.Set(uint(id))
				}
			}
			if rv := cur.rValue; rv.Valid() {
				local.Set(uint(rv.ID()))
			}
			for _, rv := range cur.rValues {
				local.Set(uint(rv.ID()))
			}
		}
		r.use[blk.id], r.kill[blk.id] = use, kill
	}
}

package ssa

import (
	"fmt"
	"io"
	"strings"

	"github.com/willf/bitset"
)

// dump writes the Use, Kill, In and Out sets of every reachable block to `w`, in reverse post-order.
// An expression is printed as its first instance.
func (r *hoistRound) dump(w io.Writer) error {
	sb := strings.Builder{}
	for _, s := range []struct {
		label string
		sets  []*bitset.BitSet
	}{
		{"USE", r.use},
		{"KILL", r.kill},
		{"IN", r.in},
		{"OUT", r.out},
	} {
		fmt.Fprintf(&sb, "\n%s sets:\n", s.label)
		for _, blk := range r.b.reversePostOrderedBasicBlocks {
			fmt.Fprintf(&sb, "BasicBlock: %s\n", blk.Name())
			set := s.sets[blk.id]
			for id, ok := set.NextSet(0); ok; id, ok = set.NextSet(id + 1) {
				fmt.Fprintf(&sb, "  %s\n", r.exprs[id].instances[0].Format(r.b))
			}
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

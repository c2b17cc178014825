package graft

import (
	"github.com/srctree/graft/internal/treehash"
)

// hashTree computes the structural hash of every node in the subtree and
// records them in memo. Two nodes hash equal iff their subtrees are
// structurally identical; Origin and identity never enter the hash. The
// thrown set is combined with Xor so its hash is order-independent.
func hashTree(n *Node, memo map[*Node]treehash.Hash) treehash.Hash {
	h := treehash.New(uint8(n.Kind))
	h.WriteString(n.Label)
	for _, r := range orderedRoles {
		if seq := n.ordered(r); seq != nil {
			for _, c := range *seq {
				h.WriteChild(uint8(r), hashTree(c, memo))
			}
		}
	}
	if len(n.Thrown) > 0 {
		var set treehash.Hash
		for _, c := range n.Thrown {
			set.Xor(hashTree(c, memo))
		}
		h.WriteSet(uint8(RoleThrown), set)
	}
	for _, r := range n.attrKeys() {
		h.WriteChild(uint8(r), hashTree(n.Attrs[r], memo))
	}
	sum := h.Sum()
	memo[n] = sum
	return sum
}

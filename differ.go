package graft

import (
	"fmt"

	"github.com/srctree/graft/internal/treehash"
)

type differ struct {
	options *Options
	hashes  map[*Node]treehash.Hash
	ps      Patchset
}

// CreatePatchset computes the patches which, applied to prev, produce a
// tree equivalent to next. Inserts reference nodes owned by the next
// tree; the appliers copy or take ownership of them as each role
// requires, so next must not be mutated during or after application.
//
// This function uses the default options.
func CreatePatchset(prev, next *Node) (Patchset, error) {
	return DefaultOptions.CreatePatchset(prev, next)
}

// CreatePatchset computes the patches which, applied to prev, produce a
// tree equivalent to next.
func (options Options) CreatePatchset(prev, next *Node) (Patchset, error) {
	if prev.Kind != next.Kind {
		return Patchset{}, fmt.Errorf("root kind changed from %s to %s; roots must correspond", prev.Kind, next.Kind)
	}
	if prev.Label != next.Label {
		return Patchset{}, fmt.Errorf("root label changed from %q to %q; roots must correspond", prev.Label, next.Label)
	}
	d := &differ{
		options: &options,
		hashes:  make(map[*Node]treehash.Hash),
	}
	hashTree(prev, d.hashes)
	hashTree(next, d.hashes)
	d.diffNode(prev, next, true)
	return d.ps, nil
}

// diffNode emits patches turning p into n. The two nodes are already
// paired: they occupy (or will occupy) the same slot.
func (d *differ) diffNode(p, n *Node, isRoot bool) {
	if d.hashes[p] == d.hashes[n] {
		return
	}
	if !isRoot && (p.Kind != n.Kind || p.Label != n.Label || d.options.shallowUpdates) {
		// Replace the whole subtree in place.
		d.ps.Updates = append(d.ps.Updates, UpdatePatch{Old: p, New: n})
		return
	}
	for _, r := range orderedRoles {
		pseq := p.ordered(r)
		nseq := n.ordered(r)
		if pseq != nil && nseq != nil {
			d.diffOrdered(p, *pseq, *nseq)
		}
	}
	if p.Kind.owns(RoleThrown) {
		d.diffThrown(p, n)
	}
	d.diffAttrs(p, n)
}

// diffOrdered aligns one ordered container of a paired parent. Children
// with equal subtree hashes anchor the alignment; inside each gap the
// leftovers are paired positionally and recursed into, and whatever
// cannot be paired becomes a delete or an insert. Insert positions count
// the elements that survive deletion, so they are valid against the
// post-delete shape, and they are emitted in ascending order per
// container.
func (d *differ) diffOrdered(parent *Node, pc, nc []*Node) {
	anchors := lcsPairs(pc, nc, d.hashes)
	anchors = append(anchors, [2]int{len(pc), len(nc)})

	pos := 0
	pi, ni := 0, 0
	for _, a := range anchors {
		gp := pc[pi:a[0]]
		gn := nc[ni:a[1]]
		k := 0
		for ; k < len(gp) && k < len(gn); k++ {
			d.diffNode(gp[k], gn[k], false)
			pos++
		}
		for _, extra := range gp[k:] {
			d.ps.Deletes = append(d.ps.Deletes, DeletePatch{Node: extra})
		}
		for _, extra := range gn[k:] {
			d.ps.Inserts = append(d.ps.Inserts, InsertPatch{Position: pos, Node: extra, Parent: parent})
			pos++
		}
		if a[0] < len(pc) {
			// matched anchor survives as-is
			pos++
		}
		pi, ni = a[0]+1, a[1]+1
	}
}

// diffThrown compares declared-exception sets by label. A non-empty
// difference becomes one thrown insert: the applier replaces the whole
// set from the source node's parent, which covers additions and removals
// alike. Only when the new set is empty are per-element deletes emitted.
func (d *differ) diffThrown(p, n *Node) {
	prev := make(map[string]*Node, len(p.Thrown))
	for _, t := range p.Thrown {
		prev[t.Label] = t
	}
	equal := len(p.Thrown) == len(n.Thrown)
	var added *Node
	for _, t := range n.Thrown {
		if _, ok := prev[t.Label]; !ok {
			equal = false
			if added == nil {
				added = t
			}
		}
	}
	if equal {
		return
	}
	if len(n.Thrown) == 0 {
		for _, t := range p.Thrown {
			d.ps.Deletes = append(d.ps.Deletes, DeletePatch{Node: t})
		}
		return
	}
	pick := added
	if pick == nil {
		pick = n.Thrown[0]
	}
	d.ps.Inserts = append(d.ps.Inserts, InsertPatch{Position: 0, Node: pick, Parent: p})
}

func (d *differ) diffAttrs(p, n *Node) {
	for _, r := range attrRoles {
		pv := p.Attrs[r]
		nv := n.Attrs[r]
		switch {
		case pv == nil && nv == nil:
		case nv == nil:
			d.ps.Deletes = append(d.ps.Deletes, DeletePatch{Node: pv})
		case pv == nil:
			d.ps.Inserts = append(d.ps.Inserts, InsertPatch{Position: 0, Node: nv, Parent: p})
		default:
			d.diffNode(pv, nv, false)
		}
	}
}

// lcsPairs returns the longest common subsequence of the two child lists
// under subtree-hash equality, as index pairs increasing in both lists.
func lcsPairs(pc, nc []*Node, hashes map[*Node]treehash.Hash) [][2]int {
	m, n := len(pc), len(nc)
	if m == 0 || n == 0 {
		return nil
	}
	dp := make([][]int, m+1)
	for i := range dp {
		dp[i] = make([]int, n+1)
	}
	for i := m - 1; i >= 0; i-- {
		for j := n - 1; j >= 0; j-- {
			if hashes[pc[i]] == hashes[nc[j]] {
				dp[i][j] = dp[i+1][j+1] + 1
			} else if dp[i+1][j] >= dp[i][j+1] {
				dp[i][j] = dp[i+1][j]
			} else {
				dp[i][j] = dp[i][j+1]
			}
		}
	}
	var pairs [][2]int
	i, j := 0, 0
	for i < m && j < n {
		switch {
		case hashes[pc[i]] == hashes[nc[j]]:
			pairs = append(pairs, [2]int{i, j})
			i++
			j++
		case dp[i+1][j] >= dp[i][j+1]:
			i++
		default:
			j++
		}
	}
	return pairs
}

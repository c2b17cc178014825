package graft

import "sort"

// DeletePatch removes a node from its parent container.
type DeletePatch struct {
	Node *Node
}

// UpdatePatch substitutes New into the exact slot Old occupies. Ownership
// of New transfers without cloning.
type UpdatePatch struct {
	Old *Node
	New *Node
}

// InsertPatch inserts Node into Parent according to Node's role. For
// ordered roles the node is deep-copied before attachment and Position
// addresses the container as shaped after all deletes and updates. For
// the thrown role Position is ignored and the whole declared-exception
// set of Node's source parent replaces Parent's set.
type InsertPatch struct {
	Position int
	Node     *Node
	Parent   *Node
}

// Patchset is one application's worth of patches, produced by a diff
// against two revisions of the same tree.
type Patchset struct {
	Deletes []DeletePatch
	Updates []UpdatePatch
	Inserts []InsertPatch
}

// Len returns the number of patches across all three phases.
func (ps Patchset) Len() int {
	return len(ps.Deletes) + len(ps.Updates) + len(ps.Inserts)
}

// IsEmpty reports whether the patchset contains no patches.
func (ps Patchset) IsEmpty() bool {
	return ps.Len() == 0
}

// Apply mutates the previous-revision tree in place: all deletes, then
// all updates, then all inserts. The phase order is mandatory because
// insert positions are defined against the post-delete/update container
// shape. Inserts are applied in ascending position order so that the
// index shift of each insertion cannot corrupt the ones after it.
//
// Apply aborts on the first failing patch and performs no rollback: a
// tree left by a failed application must not be reused.
func (ps Patchset) Apply() error {
	for _, p := range ps.Deletes {
		if err := performDelete(p.Node); err != nil {
			return err
		}
	}
	for _, p := range ps.Updates {
		if err := performUpdate(p.Old, p.New); err != nil {
			return err
		}
	}
	inserts := make([]InsertPatch, len(ps.Inserts))
	copy(inserts, ps.Inserts)
	sort.SliceStable(inserts, func(i, j int) bool {
		return inserts[i].Position < inserts[j].Position
	})
	for _, p := range inserts {
		if err := performInsert(p.Position, p.Node, p.Parent); err != nil {
			return err
		}
	}
	return nil
}

// Apply runs the three patch collections as a single application pass.
func Apply(deletes []DeletePatch, updates []UpdatePatch, inserts []InsertPatch) error {
	return Patchset{Deletes: deletes, Updates: updates, Inserts: inserts}.Apply()
}

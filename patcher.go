package graft

func indexOf(seq []*Node, node *Node) int {
	for i, c := range seq {
		if c == node {
			return i
		}
	}
	return -1
}

// performDelete detaches node from its parent container, preserving the
// relative order of the remaining siblings. Deleting a node twice is an
// error, not a no-op.
func performDelete(node *Node) error {
	parent := node.Parent
	if parent == nil {
		return &DetachedNodeError{Node: node}
	}
	switch {
	case node.Role.Ordered():
		seq := parent.ordered(node.Role)
		if seq == nil {
			return &StructuralMismatchError{Role: node.Role, Kind: parent.Kind}
		}
		idx := indexOf(*seq, node)
		if idx < 0 {
			return &DetachedNodeError{Node: node}
		}
		*seq = append((*seq)[:idx], (*seq)[idx+1:]...)
	case node.Role == RoleThrown:
		idx := indexOf(parent.Thrown, node)
		if idx < 0 {
			return &DetachedNodeError{Node: node}
		}
		parent.Thrown = append(parent.Thrown[:idx], parent.Thrown[idx+1:]...)
	case node.Role.Slot():
		if parent.Attrs[node.Role] != node {
			return &DetachedNodeError{Node: node}
		}
		delete(parent.Attrs, node.Role)
	default:
		return &UnsupportedRoleError{Role: node.Role}
	}
	node.Parent = nil
	return nil
}

// performUpdate substitutes newNode into the exact slot oldNode occupies,
// located by pointer identity. Position is preserved for ordered
// containers and the role key for slot-addressed ones. newNode is
// ownership-transferred, not cloned: update is a one-for-one
// substitution, so no second owner remains afterwards.
func performUpdate(oldNode, newNode *Node) error {
	parent := oldNode.Parent
	if parent == nil {
		return &DetachedNodeError{Node: oldNode}
	}
	switch {
	case oldNode.Role.Ordered():
		seq := parent.ordered(oldNode.Role)
		if seq == nil {
			return &StructuralMismatchError{Role: oldNode.Role, Kind: parent.Kind}
		}
		idx := indexOf(*seq, oldNode)
		if idx < 0 {
			return &DetachedNodeError{Node: oldNode}
		}
		(*seq)[idx] = newNode
	case oldNode.Role == RoleThrown:
		idx := indexOf(parent.Thrown, oldNode)
		if idx < 0 {
			return &DetachedNodeError{Node: oldNode}
		}
		parent.Thrown[idx] = newNode
	case oldNode.Role.Slot():
		if parent.Attrs[oldNode.Role] != oldNode {
			return &DetachedNodeError{Node: oldNode}
		}
		parent.Attrs[oldNode.Role] = newNode
	default:
		return &UnsupportedRoleError{Role: oldNode.Role}
	}
	newNode.Parent = parent
	newNode.Role = oldNode.Role
	oldNode.Parent = nil
	return nil
}

// performInsert inserts node into parent according to node's role.
//
// Ordered roles deep-copy the node before attachment: it may still be
// referenced by the source tree, and two trees must not share mutable
// structure. The thrown role has no natural position, so a single thrown
// insert replaces parent's whole declared-exception set with a copy of
// the set surrounding the source node; one thrown patch can make several
// exception types appear. Every remaining slot role writes the node
// straight into the attribute slot keyed by the role, overwriting any
// previous value.
func performInsert(position int, node *Node, parent *Node) error {
	switch {
	case node.Role.Ordered():
		seq := parent.ordered(node.Role)
		if seq == nil {
			return &StructuralMismatchError{Role: node.Role, Kind: parent.Kind}
		}
		if position < 0 || position > len(*seq) {
			return &InvalidPositionError{Position: position, Len: len(*seq), Role: node.Role}
		}
		c := node.Clone()
		c.Parent = parent
		*seq = append(*seq, nil)
		copy((*seq)[position+1:], (*seq)[position:])
		(*seq)[position] = c
	case node.Role == RoleThrown:
		if !parent.Kind.owns(RoleThrown) {
			return &StructuralMismatchError{Role: RoleThrown, Kind: parent.Kind}
		}
		source := node.Parent
		if source == nil {
			return &DetachedNodeError{Node: node}
		}
		set := make([]*Node, 0, len(source.Thrown))
		for _, t := range source.Thrown {
			c := t.Clone()
			c.Parent = parent
			set = append(set, c)
		}
		for _, old := range parent.Thrown {
			old.Parent = nil
		}
		parent.Thrown = set
	case node.Role.Slot():
		if parent.Attrs == nil {
			parent.Attrs = make(map[Role]*Node)
		}
		if prev := parent.Attrs[node.Role]; prev != nil {
			prev.Parent = nil
		}
		parent.Attrs[node.Role] = node
		node.Parent = parent
	default:
		return &UnsupportedRoleError{Role: node.Role}
	}
	return nil
}

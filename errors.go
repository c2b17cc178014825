package graft

import "fmt"

// DetachedNodeError is returned when an operation needs a node's slot in
// its parent and the node has no parent: it was already deleted, or was
// never attached.
type DetachedNodeError struct {
	Node *Node
}

func (e *DetachedNodeError) Error() string {
	return fmt.Sprintf("node %s(%q) is not attached to a parent", e.Node.Kind, e.Node.Label)
}

// InvalidPositionError is returned when an insert position falls outside
// [0, len] of the target container.
type InvalidPositionError struct {
	Position int
	Len      int
	Role     Role
}

func (e *InvalidPositionError) Error() string {
	return fmt.Sprintf("position %d outside [0, %d] for %s container", e.Position, e.Len, e.Role)
}

// StructuralMismatchError is returned when a role implies a container
// kind the target parent does not carry, e.g. a statement-role node
// targeted at something that is not a statement sequence. This is a
// contract violation and always fatal.
type StructuralMismatchError struct {
	Role Role
	Kind Kind
}

func (e *StructuralMismatchError) Error() string {
	return fmt.Sprintf("%s node has no %s container", e.Kind, e.Role)
}

// UnsupportedRoleError is returned when a node's role has no insertion
// handler and no generic fallback.
type UnsupportedRoleError struct {
	Role Role
}

func (e *UnsupportedRoleError) Error() string {
	return fmt.Sprintf("no insertion handler for role %s", e.Role)
}

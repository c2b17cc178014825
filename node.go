package graft

import (
	"fmt"
	"sort"
)

// Kind identifies the syntactic kind of a node.
type Kind uint8

const (
	KindFile Kind = iota
	KindClass
	KindInterface
	KindEnum
	KindMethod
	KindConstructor
	KindField
	KindParam
	KindTypeParam
	KindTypeRef
	KindModifier
	KindBlock
	KindIf
	KindLoop
	KindReturn
	KindLocal
	KindCall
	KindAssign
	KindBinary
	KindLiteral
	KindIdent
)

var kindNames = map[Kind]string{
	KindFile:        "file",
	KindClass:       "class",
	KindInterface:   "interface",
	KindEnum:        "enum",
	KindMethod:      "method",
	KindConstructor: "constructor",
	KindField:       "field",
	KindParam:       "param",
	KindTypeParam:   "typeparam",
	KindTypeRef:     "typeref",
	KindModifier:    "modifier",
	KindBlock:       "block",
	KindIf:          "if",
	KindLoop:        "loop",
	KindReturn:      "return",
	KindLocal:       "local",
	KindCall:        "call",
	KindAssign:      "assign",
	KindBinary:      "binary",
	KindLiteral:     "literal",
	KindIdent:       "ident",
}

var kindsByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		m[name] = k
	}
	return m
}()

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// KindFromString is the inverse of String. It is used when decoding trees.
func KindFromString(name string) (Kind, error) {
	if k, ok := kindsByName[name]; ok {
		return k, nil
	}
	return KindFile, fmt.Errorf("unknown kind: %q", name)
}

// owns reports whether nodes of this kind carry the container addressed
// by an ordered or thrown role. Attribute slots are not restricted by kind.
func (k Kind) owns(r Role) bool {
	switch r {
	case RoleStatement:
		return k == KindBlock
	case RoleArgument:
		return k == KindCall
	case RoleMember:
		return k == KindFile || k == KindClass || k == KindInterface || k == KindEnum
	case RoleTypeParam:
		return k == KindClass || k == KindInterface || k == KindMethod
	case RoleParam, RoleThrown:
		return k == KindMethod || k == KindConstructor
	}
	return false
}

// Node is an element of a program tree. Nodes have pointer identity:
// two structurally equal nodes are still distinct entities, and every
// slot lookup inside the engine compares pointers, never values.
type Node struct {
	Kind   Kind
	Label  string
	Origin string

	Parent *Node
	Role   Role

	Statements []*Node
	Arguments  []*Node
	Members    []*Node
	TypeParams []*Node
	Params     []*Node
	Thrown     []*Node
	Attrs      map[Role]*Node
}

// New returns a detached node.
func New(kind Kind, label string) *Node {
	return &Node{Kind: kind, Label: label}
}

// ordered returns a pointer to the ordered container addressed by role,
// or nil if the node's kind does not carry it.
func (n *Node) ordered(r Role) *[]*Node {
	if !n.Kind.owns(r) {
		return nil
	}
	switch r {
	case RoleStatement:
		return &n.Statements
	case RoleArgument:
		return &n.Arguments
	case RoleMember:
		return &n.Members
	case RoleTypeParam:
		return &n.TypeParams
	case RoleParam:
		return &n.Params
	}
	return nil
}

func (n *Node) adopt(child *Node, r Role) *Node {
	child.Parent = n
	child.Role = r
	return child
}

// WithOrigin tags the node and its whole subtree with a revision label.
func (n *Node) WithOrigin(origin string) *Node {
	n.Visit(func(x *Node) bool {
		x.Origin = origin
		return true
	})
	return n
}

// WithStatements appends statements to the node's statement sequence.
func (n *Node) WithStatements(children ...*Node) *Node {
	for _, c := range children {
		n.Statements = append(n.Statements, n.adopt(c, RoleStatement))
	}
	return n
}

// WithArguments appends arguments to the node's argument list.
func (n *Node) WithArguments(children ...*Node) *Node {
	for _, c := range children {
		n.Arguments = append(n.Arguments, n.adopt(c, RoleArgument))
	}
	return n
}

// WithMembers appends type members.
func (n *Node) WithMembers(children ...*Node) *Node {
	for _, c := range children {
		n.Members = append(n.Members, n.adopt(c, RoleMember))
	}
	return n
}

// WithTypeParams appends formal type parameters.
func (n *Node) WithTypeParams(children ...*Node) *Node {
	for _, c := range children {
		n.TypeParams = append(n.TypeParams, n.adopt(c, RoleTypeParam))
	}
	return n
}

// WithParams appends formal parameters.
func (n *Node) WithParams(children ...*Node) *Node {
	for _, c := range children {
		n.Params = append(n.Params, n.adopt(c, RoleParam))
	}
	return n
}

// WithThrown adds declared exception types. The set is unordered; the
// printer renders it in sorted label order.
func (n *Node) WithThrown(children ...*Node) *Node {
	for _, c := range children {
		n.Thrown = append(n.Thrown, n.adopt(c, RoleThrown))
	}
	return n
}

// WithAttr assigns an attribute slot, replacing any previous value.
func (n *Node) WithAttr(r Role, child *Node) *Node {
	if n.Attrs == nil {
		n.Attrs = make(map[Role]*Node)
	}
	n.Attrs[r] = n.adopt(child, r)
	return n
}

// Attr returns the attribute slot value, or nil.
func (n *Node) Attr(r Role) *Node {
	return n.Attrs[r]
}

// Root walks up to the tree root.
func (n *Node) Root() *Node {
	res := n
	for res.Parent != nil {
		res = res.Parent
	}
	return res
}

// attrKeys returns the populated attribute roles in canonical order.
func (n *Node) attrKeys() []Role {
	if len(n.Attrs) == 0 {
		return nil
	}
	keys := make([]Role, 0, len(n.Attrs))
	for r := range n.Attrs {
		keys = append(keys, r)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// sortedThrown returns the thrown set in label order. The set itself is
// unordered; this is only for deterministic traversal and printing.
func (n *Node) sortedThrown() []*Node {
	if len(n.Thrown) == 0 {
		return nil
	}
	out := make([]*Node, len(n.Thrown))
	copy(out, n.Thrown)
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// Visit walks the subtree in pre-order. Ordered containers are visited
// in canonical role order, the thrown set in sorted label order, and
// attribute slots in role order. Returning false skips the node's children.
func (n *Node) Visit(f func(*Node) bool) {
	if !f(n) {
		return
	}
	for _, r := range orderedRoles {
		if seq := n.ordered(r); seq != nil {
			for _, c := range *seq {
				c.Visit(f)
			}
		}
	}
	for _, c := range n.sortedThrown() {
		c.Visit(f)
	}
	for _, r := range n.attrKeys() {
		n.Attrs[r].Visit(f)
	}
}

// Clone deep-copies the subtree. The copy is detached: its Parent is nil
// while its Role and Origin are preserved, and every descendant points at
// its copied parent.
func (n *Node) Clone() *Node {
	dst := &Node{
		Kind:   n.Kind,
		Label:  n.Label,
		Origin: n.Origin,
		Role:   n.Role,
	}
	for _, r := range orderedRoles {
		if seq := n.ordered(r); seq != nil && len(*seq) > 0 {
			out := dst.ordered(r)
			for _, c := range *seq {
				cc := c.Clone()
				cc.Parent = dst
				*out = append(*out, cc)
			}
		}
	}
	for _, c := range n.Thrown {
		cc := c.Clone()
		cc.Parent = dst
		dst.Thrown = append(dst.Thrown, cc)
	}
	if len(n.Attrs) > 0 {
		dst.Attrs = make(map[Role]*Node, len(n.Attrs))
		for r, c := range n.Attrs {
			cc := c.Clone()
			cc.Parent = dst
			dst.Attrs[r] = cc
		}
	}
	return dst
}

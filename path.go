package graft

import (
	"fmt"
	"strconv"
	"strings"
)

// Segment addresses one step down a tree: an index in an ordered
// container, a label in the thrown set, or an attribute slot.
type Segment struct {
	Role  Role
	Index int
	Label string
}

// Path addresses a node within a tree relative to its root. Paths are
// how patch files reference nodes of the previous revision.
type Path []Segment

func (p Path) String() string {
	var b strings.Builder
	b.WriteByte('$')
	for _, s := range p {
		b.WriteByte('.')
		b.WriteString(s.Role.String())
		switch {
		case s.Role.Ordered():
			fmt.Fprintf(&b, "[%d]", s.Index)
		case s.Role == RoleThrown:
			fmt.Fprintf(&b, "(%s)", s.Label)
		}
	}
	return b.String()
}

// ParsePath is the inverse of String.
func ParsePath(raw string) (Path, error) {
	if raw == "" || raw[0] != '$' {
		return nil, fmt.Errorf("path %q should start with '$'", raw)
	}
	rest := raw[1:]
	if rest == "" {
		return Path{}, nil
	}
	if rest[0] != '.' {
		return nil, fmt.Errorf("path %q: expected '.' after '$'", raw)
	}
	var path Path
	for _, frag := range strings.Split(rest[1:], ".") {
		name := frag
		idx := -1
		label := ""
		if open := strings.IndexByte(frag, '['); open >= 0 {
			if !strings.HasSuffix(frag, "]") {
				return nil, fmt.Errorf("path %q: unterminated index in %q", raw, frag)
			}
			name = frag[:open]
			n, err := strconv.Atoi(frag[open+1 : len(frag)-1])
			if err != nil {
				return nil, fmt.Errorf("path %q: bad index in %q", raw, frag)
			}
			idx = n
		} else if open := strings.IndexByte(frag, '('); open >= 0 {
			if !strings.HasSuffix(frag, ")") {
				return nil, fmt.Errorf("path %q: unterminated label in %q", raw, frag)
			}
			name = frag[:open]
			label = frag[open+1 : len(frag)-1]
		}
		role, err := RoleFromString(name)
		if err != nil {
			return nil, fmt.Errorf("path %q: %w", raw, err)
		}
		switch {
		case role.Ordered():
			if idx < 0 {
				return nil, fmt.Errorf("path %q: %s segment needs an index", raw, role)
			}
		case role == RoleThrown:
			if label == "" {
				return nil, fmt.Errorf("path %q: thrown segment needs a label", raw)
			}
		case role.Slot():
			if idx >= 0 || label != "" {
				return nil, fmt.Errorf("path %q: %s segment takes no index or label", raw, role)
			}
		default:
			return nil, fmt.Errorf("path %q: role %s cannot appear in a path", raw, role)
		}
		path = append(path, Segment{Role: role, Index: idx, Label: label})
	}
	return path, nil
}

// PathOf returns the path of a node relative to its tree root.
func PathOf(n *Node) (Path, error) {
	var segs []Segment
	for cur := n; cur.Parent != nil; cur = cur.Parent {
		parent := cur.Parent
		switch {
		case cur.Role.Ordered():
			seq := parent.ordered(cur.Role)
			if seq == nil {
				return nil, &StructuralMismatchError{Role: cur.Role, Kind: parent.Kind}
			}
			idx := indexOf(*seq, cur)
			if idx < 0 {
				return nil, &DetachedNodeError{Node: cur}
			}
			segs = append(segs, Segment{Role: cur.Role, Index: idx})
		case cur.Role == RoleThrown:
			segs = append(segs, Segment{Role: RoleThrown, Index: -1, Label: cur.Label})
		case cur.Role.Slot():
			segs = append(segs, Segment{Role: cur.Role, Index: -1})
		default:
			return nil, &UnsupportedRoleError{Role: cur.Role}
		}
	}
	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}
	return Path(segs), nil
}

// Evaluate resolves the path against a tree root.
func (p Path) Evaluate(root *Node) (*Node, error) {
	cur := root
	for _, s := range p {
		switch {
		case s.Role.Ordered():
			seq := cur.ordered(s.Role)
			if seq == nil {
				return nil, &StructuralMismatchError{Role: s.Role, Kind: cur.Kind}
			}
			if s.Index < 0 || s.Index >= len(*seq) {
				return nil, fmt.Errorf("path %s: index %d outside %s container of %d", p, s.Index, s.Role, len(*seq))
			}
			cur = (*seq)[s.Index]
		case s.Role == RoleThrown:
			var found *Node
			for _, t := range cur.Thrown {
				if t.Label == s.Label {
					found = t
					break
				}
			}
			if found == nil {
				return nil, fmt.Errorf("path %s: no thrown type %q on %s node", p, s.Label, cur.Kind)
			}
			cur = found
		case s.Role.Slot():
			v := cur.Attrs[s.Role]
			if v == nil {
				return nil, fmt.Errorf("path %s: %s node has no %s attribute", p, cur.Kind, s.Role)
			}
			cur = v
		default:
			return nil, &UnsupportedRoleError{Role: s.Role}
		}
	}
	return cur, nil
}

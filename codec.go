package graft

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/vmihailenco/msgpack/v4"
)

// Format selects a tree/patch-file serialization.
type Format uint8

const (
	FormatJSON Format = iota
	FormatYAML
	FormatMsgpack
)

// FormatForPath picks a serialization format from a file extension.
// Unknown extensions mean JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".msgpack", ".mpack":
		return FormatMsgpack
	}
	return FormatJSON
}

// wireNode is the serialized shape of a node. Parent links are elided
// and rebuilt on decode; the thrown set is written in sorted label order
// so encodings are deterministic.
type wireNode struct {
	Kind       string               `json:"kind" yaml:"kind" msgpack:"kind"`
	Label      string               `json:"label,omitempty" yaml:"label,omitempty" msgpack:"label,omitempty"`
	Statements []*wireNode          `json:"statements,omitempty" yaml:"statements,omitempty" msgpack:"statements,omitempty"`
	Arguments  []*wireNode          `json:"arguments,omitempty" yaml:"arguments,omitempty" msgpack:"arguments,omitempty"`
	Members    []*wireNode          `json:"members,omitempty" yaml:"members,omitempty" msgpack:"members,omitempty"`
	TypeParams []*wireNode          `json:"typeparams,omitempty" yaml:"typeparams,omitempty" msgpack:"typeparams,omitempty"`
	Params     []*wireNode          `json:"params,omitempty" yaml:"params,omitempty" msgpack:"params,omitempty"`
	Thrown     []*wireNode          `json:"thrown,omitempty" yaml:"thrown,omitempty" msgpack:"thrown,omitempty"`
	Attrs      map[string]*wireNode `json:"attrs,omitempty" yaml:"attrs,omitempty" msgpack:"attrs,omitempty"`
}

func toWire(n *Node) *wireNode {
	w := &wireNode{
		Kind:  n.Kind.String(),
		Label: n.Label,
	}
	wireSeq := func(seq []*Node) []*wireNode {
		if len(seq) == 0 {
			return nil
		}
		out := make([]*wireNode, len(seq))
		for i, c := range seq {
			out[i] = toWire(c)
		}
		return out
	}
	w.Statements = wireSeq(n.Statements)
	w.Arguments = wireSeq(n.Arguments)
	w.Members = wireSeq(n.Members)
	w.TypeParams = wireSeq(n.TypeParams)
	w.Params = wireSeq(n.Params)
	w.Thrown = wireSeq(n.sortedThrown())
	if len(n.Attrs) > 0 {
		w.Attrs = make(map[string]*wireNode, len(n.Attrs))
		for r, c := range n.Attrs {
			w.Attrs[r.String()] = toWire(c)
		}
	}
	return w
}

func fromWire(w *wireNode) (*Node, error) {
	kind, err := KindFromString(w.Kind)
	if err != nil {
		return nil, err
	}
	n := New(kind, w.Label)
	attach := func(children []*wireNode, add func(*Node)) error {
		for _, cw := range children {
			c, err := fromWire(cw)
			if err != nil {
				return err
			}
			add(c)
		}
		return nil
	}
	if err := attach(w.Statements, func(c *Node) { n.WithStatements(c) }); err != nil {
		return nil, err
	}
	if err := attach(w.Arguments, func(c *Node) { n.WithArguments(c) }); err != nil {
		return nil, err
	}
	if err := attach(w.Members, func(c *Node) { n.WithMembers(c) }); err != nil {
		return nil, err
	}
	if err := attach(w.TypeParams, func(c *Node) { n.WithTypeParams(c) }); err != nil {
		return nil, err
	}
	if err := attach(w.Params, func(c *Node) { n.WithParams(c) }); err != nil {
		return nil, err
	}
	if err := attach(w.Thrown, func(c *Node) { n.WithThrown(c) }); err != nil {
		return nil, err
	}
	for name, cw := range w.Attrs {
		r, err := RoleFromString(name)
		if err != nil {
			return nil, err
		}
		if !r.Slot() {
			return nil, fmt.Errorf("role %s cannot be an attribute slot", r)
		}
		c, err := fromWire(cw)
		if err != nil {
			return nil, err
		}
		n.WithAttr(r, c)
	}
	return n, nil
}

// EncodeTree serializes a tree in the given format.
func EncodeTree(n *Node, format Format) ([]byte, error) {
	w := toWire(n)
	switch format {
	case FormatJSON:
		return json.MarshalIndent(w, "", "  ")
	case FormatYAML:
		return yaml.Marshal(w)
	case FormatMsgpack:
		return msgpack.Marshal(w)
	}
	return nil, fmt.Errorf("unknown format: %d", format)
}

// DecodeTree deserializes a tree and rebuilds its parent links.
func DecodeTree(data []byte, format Format) (*Node, error) {
	var w wireNode
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &w); err != nil {
			return nil, err
		}
	case FormatMsgpack:
		if err := msgpack.Unmarshal(data, &w); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown format: %d", format)
	}
	return fromWire(&w)
}

func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(toWire(n))
}

func (n *Node) UnmarshalJSON(data []byte) error {
	var w wireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	decoded, err := fromWire(&w)
	if err != nil {
		return err
	}
	*n = *decoded
	for _, r := range orderedRoles {
		if seq := n.ordered(r); seq != nil {
			for _, c := range *seq {
				c.Parent = n
			}
		}
	}
	for _, c := range n.Thrown {
		c.Parent = n
	}
	for _, c := range n.Attrs {
		c.Parent = n
	}
	return nil
}

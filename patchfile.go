package graft

import (
	"encoding/json"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/vmihailenco/msgpack/v4"
)

// PatchFile is the serializable form of a patchset. Deleted and updated
// nodes, and insertion targets, are referenced by path into the previous
// revision; updated and inserted nodes travel as subtree literals. A
// thrown-role insert additionally carries the full replacement set,
// since applying it reconstructs the whole set rather than adding one
// element.
type PatchFile struct {
	Deletes []DeleteSpec
	Updates []UpdateSpec
	Inserts []InsertSpec
}

type DeleteSpec struct {
	Path Path
}

type UpdateSpec struct {
	Path Path
	Node *Node
}

type InsertSpec struct {
	Position  int
	Role      Role
	Parent    Path
	Node      *Node
	ThrownSet []*Node
}

// File converts a live patchset into its serializable form. prev must be
// the tree the patchset was computed against, before application.
func (ps Patchset) File(prev *Node) (PatchFile, error) {
	var f PatchFile
	for _, p := range ps.Deletes {
		if p.Node.Root() != prev {
			return PatchFile{}, fmt.Errorf("delete patch: node %s(%q) is not in the previous tree", p.Node.Kind, p.Node.Label)
		}
		path, err := PathOf(p.Node)
		if err != nil {
			return PatchFile{}, fmt.Errorf("delete patch: %w", err)
		}
		f.Deletes = append(f.Deletes, DeleteSpec{Path: path})
	}
	for _, p := range ps.Updates {
		if p.Old.Root() != prev {
			return PatchFile{}, fmt.Errorf("update patch: node %s(%q) is not in the previous tree", p.Old.Kind, p.Old.Label)
		}
		path, err := PathOf(p.Old)
		if err != nil {
			return PatchFile{}, fmt.Errorf("update patch: %w", err)
		}
		f.Updates = append(f.Updates, UpdateSpec{Path: path, Node: p.New})
	}
	for _, p := range ps.Inserts {
		if p.Parent.Root() != prev {
			return PatchFile{}, fmt.Errorf("insert patch: parent %s(%q) is not in the previous tree", p.Parent.Kind, p.Parent.Label)
		}
		parent, err := PathOf(p.Parent)
		if err != nil {
			return PatchFile{}, fmt.Errorf("insert patch: %w", err)
		}
		spec := InsertSpec{
			Position: p.Position,
			Role:     p.Node.Role,
			Parent:   parent,
			Node:     p.Node,
		}
		if p.Node.Role == RoleThrown {
			if p.Node.Parent == nil {
				return PatchFile{}, &DetachedNodeError{Node: p.Node}
			}
			spec.ThrownSet = p.Node.Parent.sortedThrown()
		}
		f.Inserts = append(f.Inserts, spec)
	}
	return f, nil
}

// Resolve turns a patch file back into a live patchset against prev.
// Subtree literals become detached nodes with the recorded role; a
// thrown insert gets a synthetic source parent holding the replacement
// set, which is what the applier copies from.
func (f PatchFile) Resolve(prev *Node) (Patchset, error) {
	var ps Patchset
	for _, spec := range f.Deletes {
		node, err := spec.Path.Evaluate(prev)
		if err != nil {
			return Patchset{}, fmt.Errorf("delete patch: %w", err)
		}
		ps.Deletes = append(ps.Deletes, DeletePatch{Node: node})
	}
	for _, spec := range f.Updates {
		old, err := spec.Path.Evaluate(prev)
		if err != nil {
			return Patchset{}, fmt.Errorf("update patch: %w", err)
		}
		ps.Updates = append(ps.Updates, UpdatePatch{Old: old, New: spec.Node})
	}
	for _, spec := range f.Inserts {
		parent, err := spec.Parent.Evaluate(prev)
		if err != nil {
			return Patchset{}, fmt.Errorf("insert patch: %w", err)
		}
		node := spec.Node
		if spec.Role == RoleThrown {
			holder := New(KindMethod, "")
			var match *Node
			for _, t := range spec.ThrownSet {
				holder.WithThrown(t)
				if node != nil && t.Label == node.Label {
					match = t
				}
			}
			if match == nil {
				if len(holder.Thrown) == 0 {
					return Patchset{}, fmt.Errorf("insert patch: thrown insert with empty set")
				}
				match = holder.Thrown[0]
			}
			node = match
		} else {
			node.Role = spec.Role
		}
		ps.Inserts = append(ps.Inserts, InsertPatch{Position: spec.Position, Node: node, Parent: parent})
	}
	return ps, nil
}

// wire shapes for PatchFile

type wirePatchFile struct {
	Deletes []wireDeleteSpec `json:"deletes,omitempty" yaml:"deletes,omitempty" msgpack:"deletes,omitempty"`
	Updates []wireUpdateSpec `json:"updates,omitempty" yaml:"updates,omitempty" msgpack:"updates,omitempty"`
	Inserts []wireInsertSpec `json:"inserts,omitempty" yaml:"inserts,omitempty" msgpack:"inserts,omitempty"`
}

type wireDeleteSpec struct {
	Path string `json:"path" yaml:"path" msgpack:"path"`
}

type wireUpdateSpec struct {
	Path string    `json:"path" yaml:"path" msgpack:"path"`
	Node *wireNode `json:"node" yaml:"node" msgpack:"node"`
}

type wireInsertSpec struct {
	Position  int         `json:"position" yaml:"position" msgpack:"position"`
	Role      string      `json:"role" yaml:"role" msgpack:"role"`
	Parent    string      `json:"parent" yaml:"parent" msgpack:"parent"`
	Node      *wireNode   `json:"node" yaml:"node" msgpack:"node"`
	ThrownSet []*wireNode `json:"thrownSet,omitempty" yaml:"thrownSet,omitempty" msgpack:"thrownSet,omitempty"`
}

func (f PatchFile) toWire() wirePatchFile {
	var w wirePatchFile
	for _, spec := range f.Deletes {
		w.Deletes = append(w.Deletes, wireDeleteSpec{Path: spec.Path.String()})
	}
	for _, spec := range f.Updates {
		w.Updates = append(w.Updates, wireUpdateSpec{Path: spec.Path.String(), Node: toWire(spec.Node)})
	}
	for _, spec := range f.Inserts {
		ws := wireInsertSpec{
			Position: spec.Position,
			Role:     spec.Role.String(),
			Parent:   spec.Parent.String(),
			Node:     toWire(spec.Node),
		}
		for _, t := range spec.ThrownSet {
			ws.ThrownSet = append(ws.ThrownSet, toWire(t))
		}
		w.Inserts = append(w.Inserts, ws)
	}
	return w
}

func patchFileFromWire(w wirePatchFile) (PatchFile, error) {
	var f PatchFile
	for _, ws := range w.Deletes {
		path, err := ParsePath(ws.Path)
		if err != nil {
			return PatchFile{}, err
		}
		f.Deletes = append(f.Deletes, DeleteSpec{Path: path})
	}
	for _, ws := range w.Updates {
		path, err := ParsePath(ws.Path)
		if err != nil {
			return PatchFile{}, err
		}
		node, err := fromWire(ws.Node)
		if err != nil {
			return PatchFile{}, err
		}
		f.Updates = append(f.Updates, UpdateSpec{Path: path, Node: node})
	}
	for _, ws := range w.Inserts {
		role, err := RoleFromString(ws.Role)
		if err != nil {
			return PatchFile{}, err
		}
		parent, err := ParsePath(ws.Parent)
		if err != nil {
			return PatchFile{}, err
		}
		node, err := fromWire(ws.Node)
		if err != nil {
			return PatchFile{}, err
		}
		spec := InsertSpec{Position: ws.Position, Role: role, Parent: parent, Node: node}
		for _, tw := range ws.ThrownSet {
			t, err := fromWire(tw)
			if err != nil {
				return PatchFile{}, err
			}
			spec.ThrownSet = append(spec.ThrownSet, t)
		}
		f.Inserts = append(f.Inserts, spec)
	}
	return f, nil
}

// EncodePatchFile serializes a patch file in the given format.
func EncodePatchFile(f PatchFile, format Format) ([]byte, error) {
	w := f.toWire()
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

// DecodePatchFile deserializes a patch file.
func DecodePatchFile(data []byte, format Format) (PatchFile, error) {
	var w wirePatchFile
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &w); err != nil {
			return PatchFile{}, err
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &w); err != nil {
			return PatchFile{}, err
		}
	case FormatMsgpack:
		if err := msgpack.Unmarshal(data, &w); err != nil {
			return PatchFile{}, err
		}
	default:
		return PatchFile{}, fmt.Errorf("unknown format: %d", format)
	}
	return patchFileFromWire(w)
}

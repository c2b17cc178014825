package graft

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func statementLabels(block *Node) []string {
	labels := make([]string, 0, len(block.Statements))
	for _, s := range block.Statements {
		labels = append(labels, s.Kind.String()+":"+s.Label)
	}
	return labels
}

func TestPerformDelete(t *testing.T) {
	t.Run("ordered container preserves sibling order", func(t *testing.T) {
		a := New(KindIdent, "a")
		b := New(KindIdent, "b")
		c := New(KindIdent, "c")
		block := New(KindBlock, "").WithStatements(a, b, c)

		require.NoError(t, performDelete(b))
		require.Equal(t, []*Node{a, c}, block.Statements)
		require.Nil(t, b.Parent)
	})

	t.Run("thrown set", func(t *testing.T) {
		io := New(KindTypeRef, "IOException")
		sql := New(KindTypeRef, "SQLException")
		m := New(KindMethod, "run").WithThrown(io, sql)

		require.NoError(t, performDelete(io))
		require.Equal(t, []*Node{sql}, m.Thrown)
		require.Nil(t, io.Parent)
	})

	t.Run("attribute slot", func(t *testing.T) {
		init := New(KindLiteral, "1")
		f := New(KindField, "x").WithAttr(RoleInit, init)

		require.NoError(t, performDelete(init))
		require.Nil(t, f.Attr(RoleInit))
		require.Nil(t, init.Parent)
	})

	t.Run("re-deleting is an error, not a no-op", func(t *testing.T) {
		s := New(KindIdent, "s")
		New(KindBlock, "").WithStatements(s)

		require.NoError(t, performDelete(s))
		err := performDelete(s)
		var detached *DetachedNodeError
		require.ErrorAs(t, err, &detached)
		require.Same(t, s, detached.Node)
	})
}

func TestPerformUpdate(t *testing.T) {
	t.Run("slot in ordered container is preserved", func(t *testing.T) {
		a := New(KindIdent, "a")
		b := New(KindIdent, "b")
		c := New(KindIdent, "c")
		block := New(KindBlock, "").WithStatements(a, b, c)
		repl := New(KindIdent, "z")

		require.NoError(t, performUpdate(b, repl))
		require.Equal(t, []*Node{a, repl, c}, block.Statements)
		require.Same(t, block, repl.Parent)
		require.Equal(t, RoleStatement, repl.Role)
		require.Nil(t, b.Parent)
	})

	t.Run("attribute key is preserved", func(t *testing.T) {
		cond := New(KindIdent, "ready")
		stmt := New(KindIf, "").WithAttr(RoleCondition, cond)
		repl := New(KindIdent, "done")

		require.NoError(t, performUpdate(cond, repl))
		require.Same(t, repl, stmt.Attr(RoleCondition))
		require.Equal(t, RoleCondition, repl.Role)
		require.Nil(t, cond.Parent)
	})

	t.Run("detached old node", func(t *testing.T) {
		var detached *DetachedNodeError
		err := performUpdate(New(KindIdent, "a"), New(KindIdent, "b"))
		require.ErrorAs(t, err, &detached)
	})
}

func TestPerformInsert(t *testing.T) {
	t.Run("inserted node is a copy, not the original", func(t *testing.T) {
		source := New(KindBlock, "").WithStatements(New(KindIdent, "s"))
		node := source.Statements[0]
		dest := New(KindBlock, "")

		require.NoError(t, performInsert(0, node, dest))
		require.Len(t, dest.Statements, 1)
		require.NotSame(t, node, dest.Statements[0])
		require.Equal(t, node.Label, dest.Statements[0].Label)
		// source tree is untouched
		require.Same(t, source, node.Parent)
	})

	t.Run("later elements shift one place", func(t *testing.T) {
		a := New(KindIdent, "a")
		b := New(KindIdent, "b")
		block := New(KindBlock, "").WithStatements(a, b)
		src := New(KindBlock, "").WithStatements(New(KindIdent, "x"))

		require.NoError(t, performInsert(1, src.Statements[0], block))
		require.Equal(t, []string{"ident:a", "ident:x", "ident:b"}, statementLabels(block))
	})

	t.Run("position bounds", func(t *testing.T) {
		block := New(KindBlock, "").WithStatements(New(KindIdent, "a"))
		src := New(KindBlock, "").WithStatements(New(KindIdent, "x"))

		require.NoError(t, performInsert(1, src.Statements[0], block))

		err := performInsert(5, src.Statements[0], block)
		var invalid *InvalidPositionError
		require.ErrorAs(t, err, &invalid)
		require.Equal(t, 5, invalid.Position)
		require.Equal(t, 2, invalid.Len)
	})

	t.Run("role against wrong container kind", func(t *testing.T) {
		src := New(KindBlock, "").WithStatements(New(KindIdent, "x"))
		err := performInsert(0, src.Statements[0], New(KindCall, "f"))
		var mismatch *StructuralMismatchError
		require.ErrorAs(t, err, &mismatch)
		require.Equal(t, RoleStatement, mismatch.Role)
		require.Equal(t, KindCall, mismatch.Kind)
	})

	t.Run("role without handler", func(t *testing.T) {
		err := performInsert(0, New(KindIdent, "x"), New(KindBlock, ""))
		var unsupported *UnsupportedRoleError
		require.ErrorAs(t, err, &unsupported)
		require.Equal(t, RoleNone, unsupported.Role)
	})

	t.Run("thrown insert replaces the whole set", func(t *testing.T) {
		target := New(KindMethod, "run").WithThrown(New(KindTypeRef, "Exception"))
		source := New(KindMethod, "run").WithThrown(
			New(KindTypeRef, "IOException"),
			New(KindTypeRef, "SQLException"),
		)

		// a single thrown-role patch carries one element but applies the set
		require.NoError(t, performInsert(0, source.Thrown[0], target))
		labels := []string{}
		for _, tn := range target.sortedThrown() {
			labels = append(labels, tn.Label)
		}
		require.Equal(t, []string{"IOException", "SQLException"}, labels)
		// copies, not the source nodes
		require.NotSame(t, source.Thrown[0], target.Thrown[0])
	})

	t.Run("attribute fallback overwrites", func(t *testing.T) {
		stmt := New(KindIf, "").WithAttr(RoleCondition, New(KindIdent, "old"))
		cond := New(KindIdent, "fresh")
		cond.Role = RoleCondition

		require.NoError(t, performInsert(0, cond, stmt))
		require.Same(t, cond, stmt.Attr(RoleCondition))
		require.Same(t, stmt, cond.Parent)
	})
}

// Inserting into the same container out of ascending-position order lands
// elements in the wrong slots: each insertion shifts the indices after
// it, so a later low-position insert invalidates an earlier high one.
func TestInsertAscendingOrderIsMandatory(t *testing.T) {
	build := func() (*Node, *Node, *Node) {
		block := New(KindBlock, "").WithStatements(New(KindIdent, "a"), New(KindIdent, "b"))
		src := New(KindBlock, "").WithStatements(New(KindIdent, "x"), New(KindIdent, "y"))
		return block, src.Statements[0], src.Statements[1]
	}

	ascending, x1, y1 := build()
	require.NoError(t, performInsert(0, x1, ascending))
	require.NoError(t, performInsert(1, y1, ascending))
	require.Equal(t, []string{"ident:x", "ident:y", "ident:a", "ident:b"}, statementLabels(ascending))

	descending, x2, y2 := build()
	require.NoError(t, performInsert(1, y2, descending))
	require.NoError(t, performInsert(0, x2, descending))
	require.Equal(t, []string{"ident:x", "ident:a", "ident:y", "ident:b"}, statementLabels(descending))
	require.NotEqual(t, statementLabels(ascending), statementLabels(descending))
}

// Applying insertions before deletions misplaces elements whenever an
// insert position assumes a prior deletion, which is why the driver runs
// the phases in a fixed order.
func TestPhaseOrderIsMandatory(t *testing.T) {
	build := func() (*Node, DeletePatch, InsertPatch) {
		a := New(KindIdent, "a")
		b := New(KindIdent, "b")
		c := New(KindIdent, "c")
		block := New(KindBlock, "").WithStatements(a, b, c)
		src := New(KindBlock, "").WithStatements(New(KindIdent, "x"))
		// position 2 addresses the post-delete shape [a c]
		return block, DeletePatch{Node: b}, InsertPatch{Position: 2, Node: src.Statements[0], Parent: block}
	}

	ordered, del, ins := build()
	require.NoError(t, Patchset{Deletes: []DeletePatch{del}, Inserts: []InsertPatch{ins}}.Apply())
	require.Equal(t, []string{"ident:a", "ident:c", "ident:x"}, statementLabels(ordered))

	reversed, del2, ins2 := build()
	require.NoError(t, performInsert(ins2.Position, ins2.Node, ins2.Parent))
	require.NoError(t, performDelete(del2.Node))
	require.NotEqual(t, statementLabels(ordered), statementLabels(reversed))
}

func TestApplyAbortsOnFirstFailure(t *testing.T) {
	s := New(KindIdent, "s")
	block := New(KindBlock, "").WithStatements(s)
	cond := New(KindIdent, "old")
	stmt := New(KindIf, "").WithAttr(RoleCondition, cond)

	ps := Patchset{
		Deletes: []DeletePatch{{Node: s}, {Node: s}},
		Updates: []UpdatePatch{{Old: cond, New: New(KindIdent, "fresh")}},
	}
	err := ps.Apply()
	var detached *DetachedNodeError
	require.ErrorAs(t, err, &detached)

	// the first delete landed, the update phase was never reached
	require.Empty(t, block.Statements)
	require.Same(t, cond, stmt.Attr(RoleCondition))
}

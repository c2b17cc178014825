package graft_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/srctree/graft"
)

func originCounts(root *graft.Node) map[string]int {
	counts := map[string]int{}
	root.Visit(func(n *graft.Node) bool {
		counts[n.Origin]++
		return true
	})
	return counts
}

func TestInsertedSubtreeCarriesItsOrigin(t *testing.T) {
	prev := classFile(method("bar", call("log", ident("a")), ret())).WithOrigin("prev")
	next := classFile(method("bar", call("log", ident("a")), call("flush", ident("a")), ret())).WithOrigin("new")

	ps, err := graft.CreatePatchset(prev, next)
	require.NoError(t, err)
	require.NoError(t, ps.Apply())

	body := prev.Members[0].Members[0].Attr(graft.RoleBody)
	require.Len(t, body.Statements, 3)

	inserted := body.Statements[1]
	require.Equal(t, "flush", inserted.Label)
	inserted.Visit(func(n *graft.Node) bool {
		require.Equal(t, "new", n.Origin)
		return true
	})

	counts := originCounts(prev)
	require.Equal(t, 2, counts["new"])
	require.Zero(t, counts[""])
}

func TestUpdatedNodeCarriesItsOrigin(t *testing.T) {
	prev := classFile(method("bar", assign(ident("x"), ident("a")))).WithOrigin("prev")
	next := classFile(method("bar", assign(ident("x"), ident("b")))).WithOrigin("new")

	ps, err := graft.CreatePatchset(prev, next)
	require.NoError(t, err)
	require.Len(t, ps.Updates, 1)
	require.NoError(t, ps.Apply())

	stmt := prev.Members[0].Members[0].Attr(graft.RoleBody).Statements[0]
	require.Equal(t, "new", stmt.Attr(graft.RoleRight).Origin)
	require.Equal(t, "prev", stmt.Attr(graft.RoleLeft).Origin)
	require.Equal(t, "prev", stmt.Origin)
}

func TestDeletesLeaveSurvivorOriginsIntact(t *testing.T) {
	prev := classFile(method("bar", call("a"), call("b"), call("c"))).WithOrigin("prev")
	next := classFile(method("bar", call("a"), call("c")))

	ps, err := graft.CreatePatchset(prev, next)
	require.NoError(t, err)
	require.NoError(t, ps.Apply())

	counts := originCounts(prev)
	require.Zero(t, counts["new"])
	require.Zero(t, counts[""])
}

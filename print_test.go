package graft_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/srctree/graft"
)

func TestPrintSampleFile(t *testing.T) {
	want := strings.Join([]string{
		"class Foo {",
		"    private int x = 1;",
		"    public void bar(int a) throws IOException {",
		"        x = a;",
		"        log(a);",
		"        return;",
		"    }",
		"}",
		"",
	}, "\n")
	require.Equal(t, want, graft.Print(sampleFile()))
}

func TestPrintThrownIsSorted(t *testing.T) {
	m := method("bar")
	m.WithThrown(
		graft.New(graft.KindTypeRef, "SQLException"),
		graft.New(graft.KindTypeRef, "IOException"),
	)
	out := graft.Print(classFile(m))
	require.Contains(t, out, "throws IOException, SQLException")
}

func TestPrintBodylessMethod(t *testing.T) {
	m := graft.New(graft.KindMethod, "bar").
		WithAttr(graft.RoleType, graft.New(graft.KindTypeRef, "void"))
	out := graft.Print(graft.New(graft.KindInterface, "Iface").WithMembers(m))
	require.Contains(t, out, "interface Iface {")
	require.Contains(t, out, "void bar();")
}

func TestPrintIfElse(t *testing.T) {
	stmt := graft.New(graft.KindIf, "").
		WithAttr(graft.RoleCondition, ident("ready")).
		WithAttr(graft.RoleThen, graft.New(graft.KindBlock, "").WithStatements(ret())).
		WithAttr(graft.RoleElse, graft.New(graft.KindBlock, "").WithStatements(call("abort")))
	out := graft.Print(classFile(method("bar", stmt)))
	require.Contains(t, out, "if (ready) {")
	require.Contains(t, out, "} else {")
	require.Contains(t, out, "abort();")
}

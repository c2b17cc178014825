package graft_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/srctree/graft"
)

func TestPathOfAndEvaluate(t *testing.T) {
	file := sampleFile()
	bar := file.Members[0].Members[1]

	for _, target := range []*graft.Node{
		file.Members[0],
		bar,
		bar.Params[0],
		bar.Thrown[0],
		bar.Attr(graft.RoleType),
		bar.Attr(graft.RoleBody).Statements[1],
		bar.Attr(graft.RoleBody).Statements[0].Attr(graft.RoleRight),
	} {
		path, err := graft.PathOf(target)
		require.NoError(t, err)

		got, err := path.Evaluate(file)
		require.NoError(t, err)
		require.Same(t, target, got)
	}
}

func TestPathStrings(t *testing.T) {
	file := sampleFile()
	bar := file.Members[0].Members[1]

	tests := []struct {
		node *graft.Node
		want string
	}{
		{file, "$"},
		{bar, "$.member[0].member[1]"},
		{bar.Thrown[0], "$.member[0].member[1].thrown(IOException)"},
		{bar.Attr(graft.RoleBody).Statements[1], "$.member[0].member[1].body.statement[1]"},
		{file.Members[0].Members[0].Attr(graft.RoleInit), "$.member[0].member[0].init"},
	}
	for _, tc := range tests {
		path, err := graft.PathOf(tc.node)
		require.NoError(t, err)
		require.Equal(t, tc.want, path.String())

		parsed, err := graft.ParsePath(tc.want)
		require.NoError(t, err)
		require.Equal(t, tc.want, parsed.String())
	}
}

func TestParsePathRejectsMalformedInput(t *testing.T) {
	for _, raw := range []string{
		"",
		"member[0]",
		"$.member",
		"$.member[x]",
		"$.thrown",
		"$.body[0]",
		"$.none[0]",
		"$.statement[1",
	} {
		_, err := graft.ParsePath(raw)
		require.Error(t, err, "input %q", raw)
	}
}

func TestEvaluateReportsMissingTargets(t *testing.T) {
	file := sampleFile()

	for _, raw := range []string{
		"$.member[4]",
		"$.member[0].member[1].thrown(Missing)",
		"$.member[0].member[1].else",
		"$.member[0].statement[0]",
	} {
		path, err := graft.ParsePath(raw)
		require.NoError(t, err)
		_, err = path.Evaluate(file)
		require.Error(t, err, "path %q", raw)
	}
}

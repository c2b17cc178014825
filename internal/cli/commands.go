package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/srctree/graft"
)

func loadTree(path string) (*graft.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	tree, err := graft.DecodeTree(data, graft.FormatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tree, nil
}

func outputFormat(opts *rootOptions) (graft.Format, error) {
	switch opts.Output {
	case "json":
		return graft.FormatJSON, nil
	case "yaml":
		return graft.FormatYAML, nil
	case "msgpack":
		return graft.FormatMsgpack, nil
	}
	return graft.FormatJSON, fmt.Errorf("unsupported output format %q", opts.Output)
}

func newDiffCmd(opts *rootOptions) *cobra.Command {
	var shallow bool
	cmd := &cobra.Command{
		Use:   "diff <prev> <next>",
		Short: "Compute the patches turning one tree revision into another",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			prev, err := loadTree(args[0])
			if err != nil {
				return err
			}
			next, err := loadTree(args[1])
			if err != nil {
				return err
			}
			ps, err := graft.DefaultOptions.WithShallowUpdates(shallow).CreatePatchset(prev, next)
			if err != nil {
				return err
			}
			slog.Debug("patchset computed",
				"deletes", len(ps.Deletes),
				"updates", len(ps.Updates),
				"inserts", len(ps.Inserts))
			file, err := ps.File(prev)
			if err != nil {
				return err
			}
			format, err := outputFormat(opts)
			if err != nil {
				return err
			}
			data, err := graft.EncodePatchFile(file, format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(append(data, '\n'))
			return err
		},
	}
	cmd.Flags().BoolVar(&shallow, "shallow", false, "Emit whole-subtree updates instead of minimal edits")
	return cmd
}

func newApplyCmd(opts *rootOptions) *cobra.Command {
	var asSource bool
	cmd := &cobra.Command{
		Use:   "apply <prev> <patchfile>",
		Short: "Apply a patch file to a tree revision",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			prev, err := loadTree(args[0])
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			file, err := graft.DecodePatchFile(data, graft.FormatForPath(args[1]))
			if err != nil {
				return fmt.Errorf("%s: %w", args[1], err)
			}
			ps, err := file.Resolve(prev)
			if err != nil {
				return err
			}
			if err := ps.Apply(); err != nil {
				return fmt.Errorf("patch application failed: %w", err)
			}
			if asSource {
				return graft.Fprint(cmd.OutOrStdout(), prev)
			}
			format, err := outputFormat(opts)
			if err != nil {
				return err
			}
			out, err := graft.EncodeTree(prev, format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(append(out, '\n'))
			return err
		},
	}
	cmd.Flags().BoolVar(&asSource, "print", false, "Emit the patched tree as source text instead of a tree file")
	return cmd
}

func newPrintCmd(_ *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "print <tree>",
		Short: "Render a tree file as source text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := loadTree(args[0])
			if err != nil {
				return err
			}
			return graft.Fprint(cmd.OutOrStdout(), tree)
		},
	}
}

func newVerifyCmd(_ *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <prev> <next>",
		Short: "Diff two revisions, apply the patches, and check the result prints equal to the target",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			prev, err := loadTree(args[0])
			if err != nil {
				return err
			}
			next, err := loadTree(args[1])
			if err != nil {
				return err
			}
			ps, err := graft.CreatePatchset(prev, next)
			if err != nil {
				return err
			}
			slog.Debug("patchset computed", "patches", ps.Len())
			if err := ps.Apply(); err != nil {
				return fmt.Errorf("patch application failed: %w", err)
			}
			got := graft.Print(prev)
			want := graft.Print(next)
			if got == want {
				fmt.Fprintln(cmd.OutOrStdout(), "OK")
				return nil
			}
			dmp := diffmatchpatch.New()
			diffs := dmp.DiffMain(want, got, false)
			out := cmd.ErrOrStderr()
			for _, d := range diffs {
				switch d.Type {
				case diffmatchpatch.DiffInsert:
					color.New(color.FgGreen).Fprint(out, d.Text)
				case diffmatchpatch.DiffDelete:
					color.New(color.FgRed).Fprint(out, d.Text)
				default:
					fmt.Fprint(out, d.Text)
				}
			}
			return errors.New("patched tree differs from target revision")
		},
	}
}

package main

import (
	"fmt"
	"io"
	"path"

	"github.com/gritvcs/grit/pkg/object"
	"github.com/gritvcs/grit/pkg/repo"
	"github.com/spf13/cobra"
)

func newLsTreeCmd() *cobra.Command {
	var recursive bool

	cmd := &cobra.Command{
		Use:   "ls-tree <tree-ish>",
		Short: "List the contents of a tree object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			h, err := r.FindObjectOfType(args[0], object.TypeTree)
			if err != nil {
				return err
			}
			if h == "" {
				return fmt.Errorf("ls-tree: no such tree-ish %q", args[0])
			}
			return printTree(cmd.OutOrStdout(), r, h, "", recursive)
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "descend into subtrees")
	return cmd
}

func printTree(w io.Writer, r *repo.Repo, h object.Hash, prefix string, recursive bool) error {
	tree, err := r.Store.ReadTree(h)
	if err != nil {
		return err
	}

	for _, e := range tree.Entries {
		ft, err := e.FileType()
		if err != nil {
			return err
		}

		full := path.Join(prefix, e.Path)
		if recursive && ft == object.FileTypeTree {
			if err := printTree(w, r, e.Hash, full, true); err != nil {
				return err
			}
			continue
		}
		fmt.Fprintf(w, "%s %s %s\t%s\n", e.Mode, ft.ObjectType(), e.Hash, full)
	}
	return nil
}

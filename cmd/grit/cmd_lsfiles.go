package main

import (
	"fmt"

	"github.com/gritvcs/grit/pkg/repo"
	"github.com/spf13/cobra"
)

func newLsFilesCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "ls-files",
		Short: "List paths in the staging index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			x, err := r.ReadIndex()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if verbose {
				fmt.Fprintf(out, "index file format v%d, %d entries\n", x.Version, len(x.Entries))
			}
			for _, e := range x.Entries {
				fmt.Fprintln(out, e.Name)
				if !verbose {
					continue
				}
				fmt.Fprintf(out, "  %s, blob %s\n", e.TreeMode(), e.Hash)
				fmt.Fprintf(out, "  created %d.%d, modified %d.%d\n", e.CtimeSec, e.CtimeNsec, e.MtimeSec, e.MtimeNsec)
				fmt.Fprintf(out, "  device %d, inode %d, user %d, group %d\n", e.Dev, e.Ino, e.UID, e.GID)
				fmt.Fprintf(out, "  flags: stage=%d assume_valid=%v\n", e.Stage, e.AssumeValid)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show full metadata for each entry")
	return cmd
}

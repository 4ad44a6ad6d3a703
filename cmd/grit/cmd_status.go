package main

import (
	"fmt"

	"github.com/gritvcs/grit/pkg/repo"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show staged, unstaged and untracked changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			st, err := r.Status()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if st.Detached {
				fmt.Fprintf(out, "HEAD detached at %s\n", st.Branch)
			} else {
				fmt.Fprintf(out, "on branch %s\n", st.Branch)
			}

			if len(st.Staged) > 0 {
				fmt.Fprintln(out, "\nchanges to be committed:")
				for _, c := range st.Staged {
					fmt.Fprintf(out, "  %s: %s\n", c.Kind, c.Path)
				}
			}
			if len(st.Unstaged) > 0 {
				fmt.Fprintln(out, "\nchanges not staged for commit:")
				for _, c := range st.Unstaged {
					fmt.Fprintf(out, "  %s: %s\n", c.Kind, c.Path)
				}
			}
			if len(st.Untracked) > 0 {
				fmt.Fprintln(out, "\nuntracked files:")
				for _, path := range st.Untracked {
					fmt.Fprintf(out, "  %s\n", path)
				}
			}
			if len(st.Staged) == 0 && len(st.Unstaged) == 0 && len(st.Untracked) == 0 {
				fmt.Fprintln(out, "nothing to commit, working tree clean")
			}
			return nil
		},
	}
}

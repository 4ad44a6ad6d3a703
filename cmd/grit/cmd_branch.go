package main

import (
	"fmt"

	"github.com/gritvcs/grit/pkg/repo"
	"github.com/spf13/cobra"
)

func newBranchCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "branch [name [start-point]]",
		Short: "List branches or create a new one",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			if len(args) == 0 {
				current, onBranch, err := r.CurrentBranch()
				if err != nil {
					return err
				}
				branches, err := r.ListBranches()
				if err != nil {
					return err
				}
				for _, b := range branches {
					marker := " "
					if onBranch && b.Name == current {
						marker = "*"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, b.Name)
				}
				return nil
			}

			targetName := "HEAD"
			if len(args) == 2 {
				targetName = args[1]
			}
			target, err := r.FindObject(targetName, true)
			if err != nil {
				return err
			}
			if target == "" {
				return fmt.Errorf("branch: no such revision %q", targetName)
			}
			return r.CreateBranch(args[0], target, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "move an existing branch")
	return cmd
}

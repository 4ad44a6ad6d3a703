package main

import (
	"fmt"

	"github.com/gritvcs/grit/pkg/repo"
	"github.com/spf13/cobra"
)

func newCheckIgnoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-ignore <path>...",
		Short: "Report which of the given paths the ignore rules exclude",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			rules, err := r.LoadIgnoreRules(nil)
			if err != nil {
				return err
			}

			for _, path := range args {
				ignored, decided, err := rules.Check(path)
				if err != nil {
					return fmt.Errorf("check-ignore: %w", err)
				}
				if decided && ignored {
					fmt.Fprintln(cmd.OutOrStdout(), path)
				}
			}
			return nil
		},
	}
}

package main

import (
	"fmt"

	"github.com/gritvcs/grit/pkg/object"
	"github.com/gritvcs/grit/pkg/repo"
	"github.com/spf13/cobra"
)

func newRevParseCmd() *cobra.Command {
	var typeName string

	cmd := &cobra.Command{
		Use:   "rev-parse <name>",
		Short: "Resolve a revision name to an object hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			var h object.Hash
			if typeName != "" {
				want, err := object.ParseObjectType(typeName)
				if err != nil {
					return err
				}
				h, err = r.FindObjectOfType(args[0], want)
				if err != nil {
					return err
				}
			} else {
				h, err = r.FindObject(args[0], false)
				if err != nil {
					return err
				}
			}
			if h == "" {
				return fmt.Errorf("rev-parse: no such revision %q", args[0])
			}

			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeName, "type", "t", "", "follow to an object of this type")
	return cmd
}

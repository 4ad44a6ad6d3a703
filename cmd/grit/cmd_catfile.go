package main

import (
	"fmt"

	"github.com/gritvcs/grit/pkg/object"
	"github.com/gritvcs/grit/pkg/repo"
	"github.com/spf13/cobra"
)

func newCatFileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cat-file <type> <object>",
		Short: "Provide content of repository objects",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			want, err := object.ParseObjectType(args[0])
			if err != nil {
				return err
			}

			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			h, err := r.FindObject(args[1], true)
			if err != nil {
				return err
			}
			if h == "" {
				return fmt.Errorf("cat-file: no such object %q", args[1])
			}

			objType, data, err := r.Store.Read(h)
			if err != nil {
				return err
			}
			if objType != want {
				return fmt.Errorf("cat-file: object %s is a %s, not a %s", h, objType, want)
			}

			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

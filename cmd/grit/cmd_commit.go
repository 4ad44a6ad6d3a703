package main

import (
	"fmt"
	"strings"

	"github.com/gritvcs/grit/pkg/repo"
	"github.com/spf13/cobra"
)

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func newCommitCmd() *cobra.Command {
	var message string
	var sign bool
	var keyPath string

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Record the staged tree as a new commit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if message == "" {
				return fmt.Errorf("commit: message required (-m)")
			}

			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			var opts repo.CommitOptions
			if sign || keyPath != "" {
				signer, keyFile, err := sshSigner(keyPath)
				if err != nil {
					return err
				}
				opts.Signer = signer
				fmt.Fprintf(cmd.ErrOrStderr(), "signing with %s\n", keyFile)
			}

			h, err := r.Commit(message, opts)
			if err != nil {
				return err
			}

			branch, onBranch, err := r.CurrentBranch()
			if err != nil || !onBranch {
				branch = "detached HEAD"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[%s %s] %s\n", branch, h[:7], firstLine(message))
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message")
	cmd.Flags().BoolVarP(&sign, "sign", "S", false, "sign the commit with an SSH key")
	cmd.Flags().StringVar(&keyPath, "key", "", "path to the SSH signing key")
	return cmd
}

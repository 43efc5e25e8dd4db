package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCommitCmd() *cobra.Command {
	var (
		message string
		amend   bool
	)

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Create or amend a commit from the current index",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := getConfig(ctx)

			if message == "" && !amend {
				return fmt.Errorf("-m is required")
			}

			f, err := openFacade(ctx, cfg)
			if err != nil {
				return err
			}
			defer f.Close()

			if amend {
				return f.Amend(ctx, message)
			}

			return f.Commit(ctx, message)
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message")
	cmd.Flags().BoolVar(&amend, "amend", false, "amend HEAD instead of creating a new commit")

	return cmd
}

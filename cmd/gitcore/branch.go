package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBranchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "branch",
		Short: "List, create, delete, and check out branches",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			f, err := openFacade(ctx, getConfig(ctx))
			if err != nil {
				return err
			}
			defer f.Close()

			md, err := f.Reload(ctx)
			if err != nil {
				return err
			}

			for _, b := range md.Branches {
				marker := " "
				if b.IsCurrent {
					marker = "*"
				}

				fmt.Printf("%s %s %s\n", marker, b.Name, b.ShortHash)
			}

			return nil
		},
	}

	cmd.AddCommand(newBranchCreateCmd())
	cmd.AddCommand(newBranchCheckoutCmd())
	cmd.AddCommand(newBranchDeleteCmd())

	return cmd
}

func newBranchCreateCmd() *cobra.Command {
	var (
		at       string
		checkout bool
	)

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a branch (create_branch)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			f, err := openFacade(ctx, getConfig(ctx))
			if err != nil {
				return err
			}
			defer f.Close()

			return f.CreateBranch(ctx, args[0], at, checkout)
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "commit-ish to branch from (default HEAD)")
	cmd.Flags().BoolVar(&checkout, "checkout", false, "check out the new branch immediately")

	return cmd
}

func newBranchCheckoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkout <name-or-hash>",
		Short: "Check out an existing branch or detached commit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			f, err := openFacade(ctx, getConfig(ctx))
			if err != nil {
				return err
			}
			defer f.Close()

			return f.CheckoutBranch(ctx, args[0])
		},
	}
}

func newBranchDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a local branch (delete_branch)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			f, err := openFacade(ctx, getConfig(ctx))
			if err != nil {
				return err
			}
			defer f.Close()

			return f.DeleteBranch(ctx, args[0], force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "delete even if not fully merged")

	return cmd
}

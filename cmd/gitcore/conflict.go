package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConflictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "conflict",
		Short: "Inspect and drive the conflict-resolution state machine",
	}

	cmd.AddCommand(newConflictStatusCmd())
	cmd.AddCommand(newConflictResolveCmd())
	cmd.AddCommand(newConflictUnresolveCmd())
	cmd.AddCommand(newConflictContinueCmd())
	cmd.AddCommand(newConflictSkipCmd())
	cmd.AddCommand(newConflictAbortCmd())

	return cmd
}

func newConflictStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current conflict state and conflicted/resolved files",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			f, err := openFacade(ctx, getConfig(ctx))
			if err != nil {
				return err
			}
			defer f.Close()

			state, err := f.ConflictState(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("state: %v\n", state)

			conflicted, err := f.ConflictedFiles(ctx)
			if err != nil {
				return err
			}

			for _, c := range conflicted {
				fmt.Printf("conflicted: %s\n", c.Path)
			}

			resolved, err := f.ResolvedFiles(ctx)
			if err != nil {
				return err
			}

			for _, p := range resolved {
				fmt.Printf("resolved: %s\n", p)
			}

			rebase, err := f.RebaseState(ctx)
			if err != nil {
				return err
			}

			if rebase != nil {
				fmt.Printf(
					"rebase: step %d/%d, %s onto %s\n",
					rebase.CurrentStep, rebase.TotalSteps, rebase.SourceBranch, rebase.TargetBranch,
				)
			}

			return nil
		},
	}
}

func newConflictResolveCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "resolve [path]",
		Short: "Mark a file (or every conflicted file) as resolved",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			f, err := openFacade(ctx, getConfig(ctx))
			if err != nil {
				return err
			}
			defer f.Close()

			if all {
				return f.MarkAllResolved(ctx)
			}

			if len(args) != 1 {
				return fmt.Errorf("resolve requires a path, or --all")
			}

			return f.MarkResolved(ctx, args[0])
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "resolve every conflicted file")

	return cmd
}

func newConflictUnresolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unresolve <path>",
		Short: "Restore conflict markers for a resolved file from REUC",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			f, err := openFacade(ctx, getConfig(ctx))
			if err != nil {
				return err
			}
			defer f.Close()

			kind, err := f.ConflictState(ctx)
			if err != nil {
				return err
			}

			return f.MarkConflicted(ctx, args[0], kind)
		},
	}
}

func newConflictContinueCmd() *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "continue",
		Short: "Continue the in-progress rebase/merge/stash-apply",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			f, err := openFacade(ctx, getConfig(ctx))
			if err != nil {
				return err
			}
			defer f.Close()

			return f.ConflictContinue(ctx, message)
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message (merge) or rebase message override")

	return cmd
}

func newConflictSkipCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "skip",
		Short: "Skip the current commit during an in-progress rebase",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			f, err := openFacade(ctx, getConfig(ctx))
			if err != nil {
				return err
			}
			defer f.Close()

			return f.ConflictSkip(ctx)
		},
	}
}

func newConflictAbortCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "abort",
		Short: "Abort the in-progress rebase/merge/stash-apply",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			f, err := openFacade(ctx, getConfig(ctx))
			if err != nil {
				return err
			}
			defer f.Close()

			return f.ConflictAbort(ctx)
		},
	}
}

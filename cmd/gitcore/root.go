package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fenwick-software/gitcore/events"
	"github.com/fenwick-software/gitcore/facade"
	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// configKey is the context key for runtime config.
type configKey struct{}

// config holds runtime configuration threaded through the command tree.
type config struct {
	workDir string
	jsonOut bool
}

func getConfig(ctx context.Context) config {
	if cfg, ok := ctx.Value(configKey{}).(config); ok {
		return cfg
	}

	return config{}
}

// openFacade opens a RepoFacade rooted at cfg.workDir, logging background
// operation failures to stderr. The core only emits events; this CLI's
// "binding" is a line printed to stderr for each OperationFailed event.
func openFacade(ctx context.Context, cfg config) (*facade.RepoFacade, error) {
	dir := cfg.workDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getwd: %w", err)
		}
		dir = wd
	}

	sink := events.SinkFunc(func(e events.Event) {
		if failed, ok := e.(events.OperationFailed); ok {
			fmt.Fprintf(os.Stderr, "gitcore: background operation failed: %v\n", failed.Err)
		}
	})

	return facade.New(ctx, dir, sink)
}

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	var cfg config

	cmd := &cobra.Command{
		Use:     "gitcore",
		Short:   "Inspect and drive a repository through the gitcore facade",
		Version: Version,
		Long: `gitcore is a thin debug CLI over the RepoFacade core: it exercises the
same operation surface a SwiftUI (or any other) presentation layer would
drive, one command per facade call.

Examples:
  # Show branches, HEAD, and file status
  gitcore status

  # Walk commit history with graph columns
  gitcore log -n 50

  # Show a file's unstaged diff
  gitcore diff path/to/file.go

  # Stage and commit
  gitcore stage path/to/file.go
  gitcore commit -m "message"

  # Inspect and drive conflict resolution
  gitcore conflict status
  gitcore conflict resolve path/to/file.go
  gitcore conflict continue -m "message"`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)
			cmd.SetContext(ctx)
		},
	}

	cmd.PersistentFlags().StringVarP(
		&cfg.workDir, "dir", "C", "",
		"run as if gitcore was started in this directory",
	)
	cmd.PersistentFlags().BoolVar(
		&cfg.jsonOut, "json", false,
		"output in JSON format (for machine consumption)",
	)

	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newLogCmd())
	cmd.AddCommand(newDiffCmd())
	cmd.AddCommand(newStageCmd())
	cmd.AddCommand(newUnstageCmd())
	cmd.AddCommand(newCommitCmd())
	cmd.AddCommand(newConflictCmd())
	cmd.AddCommand(newBranchCmd())
	cmd.AddCommand(newRebaseApplySpecCmd())
	cmd.AddCommand(newRebaseApplyMessageCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

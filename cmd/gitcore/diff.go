package main

import (
	"fmt"
	"os"

	gitdiff "github.com/fenwick-software/gitcore/diff"
	"github.com/fenwick-software/gitcore/facade"
	"github.com/fenwick-software/gitcore/model"
	"github.com/fenwick-software/gitcore/output"
	"github.com/fenwick-software/gitcore/patch"
	"github.com/spf13/cobra"
)

func newDiffCmd() *cobra.Command {
	var (
		staged   bool
		unstaged bool
		commit   string
	)

	cmd := &cobra.Command{
		Use:   "diff [path]",
		Short: "Show a diff at commit, staged, or unstaged granularity",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := getConfig(ctx)

			f, err := openFacade(ctx, cfg)
			if err != nil {
				return err
			}
			defer f.Close()

			var path string
			if len(args) > 0 {
				path = args[0]
			}

			dctx := model.DiffContextUnstaged
			switch {
			case staged:
				dctx = model.DiffContextStaged
			case commit != "":
				dctx = model.DiffContextCommitted
			}

			text, err := f.FileDiff(ctx, commit, path, dctx)
			if err != nil {
				return err
			}

			parsed, err := gitdiff.Parse(text)
			if err != nil {
				return err
			}

			if cfg.jsonOut {
				return output.FormatJSON(os.Stdout, parsed)
			}

			return output.FormatText(os.Stdout, parsed, output.DefaultTextOptions())
		},
	}

	cmd.Flags().BoolVar(&staged, "staged", false, "diff HEAD tree vs index")
	cmd.Flags().BoolVar(&unstaged, "unstaged", false, "diff index vs working tree (default)")
	cmd.Flags().StringVar(&commit, "commit", "", "diff this commit against its first parent")
	_ = unstaged

	return cmd
}

func newStageCmd() *cobra.Command {
	var (
		all   bool
		lines []string
	)

	cmd := &cobra.Command{
		Use:   "stage [path...]",
		Short: "Stage file(s) by path, or individual lines with --lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := getConfig(ctx)

			f, err := openFacade(ctx, cfg)
			if err != nil {
				return err
			}
			defer f.Close()

			if all {
				return f.StageAll(ctx)
			}

			if len(lines) > 0 {
				return stageLineSelections(cmd, f, lines)
			}

			for _, path := range args {
				if err := f.StageFile(ctx, path); err != nil {
					return fmt.Errorf("stage %s: %w", path, err)
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "stage every changed file")
	cmd.Flags().StringSliceVar(
		&lines, "lines", nil,
		"stage only the selected lines, e.g. main.go:10-15 or main.go:10,12",
	)

	return cmd
}

// stageLineSelections reconstructs a patch covering only the selected
// lines of the unstaged diff and applies it to the index.
func stageLineSelections(cmd *cobra.Command, f *facade.RepoFacade, selectionArgs []string) error {
	ctx := cmd.Context()

	selections, err := gitdiff.ParseSelections(selectionArgs)
	if err != nil {
		return fmt.Errorf("parse selections: %w", err)
	}

	text, err := f.FileDiff(ctx, "", "", model.DiffContextUnstaged)
	if err != nil {
		return err
	}

	parsed, err := gitdiff.Parse(text)
	if err != nil {
		return err
	}

	patchText, err := patch.Generate(parsed, selections)
	if err != nil {
		return fmt.Errorf("build patch: %w", err)
	}

	if len(patchText) == 0 {
		return fmt.Errorf("no unstaged changes match the selection")
	}

	return f.PatchApplier.Apply(ctx, string(patchText), true, false)
}

func newUnstageCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "unstage [path...]",
		Short: "Unstage file(s) by path",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := getConfig(ctx)

			f, err := openFacade(ctx, cfg)
			if err != nil {
				return err
			}
			defer f.Close()

			if all {
				return f.UnstageAll(ctx)
			}

			for _, path := range args {
				if err := f.UnstageFile(ctx, path); err != nil {
					return fmt.Errorf("unstage %s: %w", path, err)
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "unstage every staged file")

	return cmd
}

// Package staging covers the index-facing operations: status enumeration,
// stage/unstage/discard by path, and .gitignore maintenance.
package staging

import (
	"context"
	"fmt"
	"strings"

	"github.com/fenwick-software/gitcore/git"
	"github.com/fenwick-software/gitcore/model"
)

// Ops drives staging operations through the git subprocess.
type Ops struct {
	Executor git.Executor
}

// New creates an Ops bound to executor.
func New(executor git.Executor) *Ops {
	return &Ops{Executor: executor}
}

// Status returns every file with staged, unstaged, or untracked changes,
// one entry per path with its full two-character porcelain code.
func (o *Ops) Status(ctx context.Context) ([]model.FileStatus, error) {
	entries, err := o.Executor.StatusEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}

	var out []model.FileStatus

	for _, e := range entries {
		out = append(out, model.FileStatus{Path: e.Path, StatusCode: e.Code})
	}

	return out, nil
}

// StageFile stages path; if it was deleted in the working tree, this still
// records the deletion via `git add`.
func (o *Ops) StageFile(ctx context.Context, path string) error {
	if err := o.Executor.AddPath(ctx, path); err != nil {
		return fmt.Errorf("stage %s: %w", path, err)
	}

	return nil
}

// UnstageFile removes path's staged change, resetting it against HEAD when
// HEAD exists, otherwise dropping it from the index entirely.
func (o *Ops) UnstageFile(ctx context.Context, path string) error {
	if _, err := o.Executor.HeadHash(ctx); err != nil {
		if rmErr := o.Executor.RemovePath(ctx, path); rmErr != nil {
			return fmt.Errorf("unstage %s (no HEAD): %w", path, rmErr)
		}

		return nil
	}

	if err := o.Executor.ResetPath(ctx, path); err != nil {
		return fmt.Errorf("unstage %s: %w", path, err)
	}

	return nil
}

// StageAll stages every path reported by Status.
func (o *Ops) StageAll(ctx context.Context) error {
	files, err := o.Status(ctx)
	if err != nil {
		return err
	}

	for _, f := range files {
		if err := o.StageFile(ctx, f.Path); err != nil {
			return err
		}
	}

	return nil
}

// UnstageAll unstages every currently staged path.
func (o *Ops) UnstageAll(ctx context.Context) error {
	if err := o.Executor.Reset(ctx); err != nil {
		return fmt.Errorf("unstage all: %w", err)
	}

	return nil
}

// DiscardChanges deletes untracked files and force-checks-out tracked ones
// from the index, for every given path.
func (o *Ops) DiscardChanges(ctx context.Context, paths []string, statusOf map[string]string) error {
	for _, p := range paths {
		if statusOf[p] == "??" {
			if err := o.Executor.Remove(ctx, p); err != nil {
				return fmt.Errorf("discard %s: %w", p, err)
			}

			continue
		}

		if err := o.Executor.CheckoutPath(ctx, p); err != nil {
			return fmt.Errorf("discard %s: %w", p, err)
		}
	}

	return nil
}

// AddToGitignore appends pattern to the working-tree root .gitignore.
func (o *Ops) AddToGitignore(ctx context.Context, pattern string) error {
	pattern = strings.TrimRight(pattern, "\n")

	if err := o.Executor.AppendIgnore(ctx, pattern); err != nil {
		return fmt.Errorf("add to .gitignore: %w", err)
	}

	return nil
}

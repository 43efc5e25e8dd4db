// Package branchops provides branch and tag
// lifecycle operations driven through the git subprocess (checkout,
// authentication-adjacent remote-branch deletion) or go-git where safe.
package branchops

import (
	"context"
	"fmt"

	"github.com/fenwick-software/gitcore/git"
	"github.com/fenwick-software/gitcore/repoerrors"
)

// Ops drives branch/tag operations.
type Ops struct {
	Executor git.Executor
}

// New binds an Ops to executor.
func New(executor git.Executor) *Ops {
	return &Ops{Executor: executor}
}

// CreateBranch creates a branch at `at` (empty string means HEAD),
// optionally checking it out immediately.
func (o *Ops) CreateBranch(ctx context.Context, name, at string, checkout bool) error {
	if name == "" {
		return &repoerrors.InvalidArgument{What: "branch name must not be empty"}
	}

	if err := o.Executor.CreateBranch(ctx, name, at, checkout); err != nil {
		return fmt.Errorf("create branch %s: %w", name, err)
	}

	return nil
}

// RenameBranch renames oldName to newName.
func (o *Ops) RenameBranch(ctx context.Context, oldName, newName string) error {
	if err := o.Executor.RenameBranch(ctx, oldName, newName); err != nil {
		return fmt.Errorf("rename branch %s -> %s: %w", oldName, newName, err)
	}

	return nil
}

// DeleteBranch deletes name. Without force, checks ahead-count against
// HEAD first and fails with BranchNotFullyMerged if the branch has commits
// HEAD doesn't, so the caller can confirm a force delete.
func (o *Ops) DeleteBranch(ctx context.Context, name string, force bool) error {
	if !force {
		head, err := o.Executor.HeadHash(ctx)
		if err != nil {
			return fmt.Errorf("resolve HEAD: %w", err)
		}

		ahead, _, err := o.Executor.AheadBehind(ctx, name, head)
		if err != nil {
			return fmt.Errorf("ahead/behind %s: %w", name, err)
		}

		if ahead > 0 {
			return &repoerrors.BranchNotFullyMerged{Name: name}
		}
	}

	if err := o.Executor.DeleteBranch(ctx, name, force); err != nil {
		return fmt.Errorf("delete branch %s: %w", name, err)
	}

	return nil
}

// CheckoutBranch checks out an existing local branch.
func (o *Ops) CheckoutBranch(ctx context.Context, name string) error {
	if err := o.Executor.CheckoutBranch(ctx, name); err != nil {
		return fmt.Errorf("checkout branch %s: %w", name, err)
	}

	return nil
}

// CheckoutCommit checks out hash in detached-HEAD state.
func (o *Ops) CheckoutCommit(ctx context.Context, hash string) error {
	if err := o.Executor.CheckoutCommit(ctx, hash); err != nil {
		return fmt.Errorf("checkout commit %s: %w", hash, err)
	}

	return nil
}

// SetUpstream sets the current branch's upstream tracking ref.
func (o *Ops) SetUpstream(ctx context.Context, remote, branch string) error {
	if err := o.Executor.SetUpstream(ctx, remote, branch); err != nil {
		return fmt.Errorf("set upstream %s/%s: %w", remote, branch, err)
	}

	return nil
}

// CreateTag creates a lightweight tag (message == "") or an annotated one.
func (o *Ops) CreateTag(ctx context.Context, name, at, message string) error {
	if name == "" {
		return &repoerrors.InvalidArgument{What: "tag name must not be empty"}
	}

	if err := o.Executor.CreateTag(ctx, name, at, message); err != nil {
		return fmt.Errorf("create tag %s: %w", name, err)
	}

	return nil
}

// DeleteRemoteBranch deletes name on remote. This always goes through the
// subprocess since it requires authentication.
func (o *Ops) DeleteRemoteBranch(ctx context.Context, remote, name string) error {
	if err := o.Executor.DeleteRemoteBranch(ctx, remote, name); err != nil {
		return fmt.Errorf("delete remote branch %s/%s: %w", remote, name, err)
	}

	return nil
}

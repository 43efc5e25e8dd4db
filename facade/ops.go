package facade

import (
	"context"
	"fmt"

	"github.com/fenwick-software/gitcore/commitops"
	"github.com/fenwick-software/gitcore/conflict"
	"github.com/fenwick-software/gitcore/diff"
	"github.com/fenwick-software/gitcore/events"
	"github.com/fenwick-software/gitcore/git"
	"github.com/fenwick-software/gitcore/model"
	"github.com/fenwick-software/gitcore/patch"
	"github.com/fenwick-software/gitcore/remoteops"
)

// mutate runs fn on the serialized command queue, refreshes status/conflict
// state, and notifies sink. Every mutating operation goes through here
// so each completes fully, including its post-operation refresh, before
// the next begins.
func (f *RepoFacade) mutate(ctx context.Context, fn func() error) error {
	return f.Submit(func() error {
		if err := fn(); err != nil {
			f.sink.Notify(events.OperationFailed{Err: err})

			return err
		}

		if err := f.lightRefresh(ctx); err != nil {
			f.sink.Notify(events.OperationFailed{Err: err})

			return err
		}

		return nil
	})
}

// reload runs fn on the queue then forces a full metadata reload, for
// operations that move refs/HEAD (branch switches, commits, rebase
// termination) rather than just touching status.
func (f *RepoFacade) reload(ctx context.Context, fn func() error) error {
	return f.Submit(func() error {
		if err := fn(); err != nil {
			f.sink.Notify(events.OperationFailed{Err: err})

			return err
		}

		if _, err := f.LoadMetadata(ctx); err != nil {
			f.sink.Notify(events.OperationFailed{Err: err})

			return err
		}

		return nil
	})
}

// --- Staging ---

// StageFile stages path into the index.
func (f *RepoFacade) StageFile(ctx context.Context, path string) error {
	return f.mutate(ctx, func() error { return f.StagingOps.StageFile(ctx, path) })
}

// UnstageFile removes path's staged change.
func (f *RepoFacade) UnstageFile(ctx context.Context, path string) error {
	return f.mutate(ctx, func() error { return f.StagingOps.UnstageFile(ctx, path) })
}

// StageAll stages every changed file.
func (f *RepoFacade) StageAll(ctx context.Context) error {
	return f.mutate(ctx, func() error { return f.StagingOps.StageAll(ctx) })
}

// UnstageAll unstages every staged file.
func (f *RepoFacade) UnstageAll(ctx context.Context) error {
	return f.mutate(ctx, func() error { return f.StagingOps.UnstageAll(ctx) })
}

// DiscardChanges throws away working-tree changes. statusOf maps each
// path to its status code so StagingOps can tell untracked from tracked.
func (f *RepoFacade) DiscardChanges(ctx context.Context, paths []string, statusOf map[string]string) error {
	return f.mutate(ctx, func() error {
		return f.StagingOps.DiscardChanges(ctx, paths, statusOf)
	})
}

// AddToGitignore appends pattern to the working-tree root .gitignore.
func (f *RepoFacade) AddToGitignore(ctx context.Context, pattern string) error {
	return f.mutate(ctx, func() error { return f.StagingOps.AddToGitignore(ctx, pattern) })
}

// --- Hunk and line staging ---

// hunkFile loads the file-level ParsedDiff a hunk/line operation needs,
// selecting the unstaged or staged comparison per cached.
func (f *RepoFacade) hunkFile(ctx context.Context, path string, cached bool) (*diff.FileDiff, error) {
	var (
		text string
		err  error
	)

	if cached {
		text, err = f.DiffEngine.StagedFileDiff(ctx, path)
	} else {
		text, err = f.DiffEngine.UnstagedFileDiff(ctx, path)
	}
	if err != nil {
		return nil, fmt.Errorf("diff %s: %w", path, err)
	}

	parsed, err := diff.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse diff %s: %w", path, err)
	}

	file := parsed.FileByPath(path)
	if file == nil && parsed.FileCount() == 1 {
		for fd := range parsed.Files() {
			file = fd
		}
	}
	if file == nil {
		return nil, fmt.Errorf("no diff found for %s", path)
	}

	return file, nil
}

// applyHunk builds a patch for the given hunk and applies it.
func (f *RepoFacade) applyHunk(ctx context.Context, path string, hunkIndex int, cached, reverse bool) error {
	return f.mutate(ctx, func() error {
		file, err := f.hunkFile(ctx, path, cached && reverse)
		if err != nil {
			return err
		}

		text, err := patch.ForHunk(file, hunkIndex)
		if err != nil {
			return err
		}
		if text == "" {
			return nil
		}

		return f.PatchApplier.Apply(ctx, text, cached, reverse)
	})
}

// applyLines builds a patch for the given line selection and applies
// it. lineIDs holds DiffLine.ID values from the file's current parse;
// they are stable across reparses of the same diff text.
func (f *RepoFacade) applyLines(
	ctx context.Context, path string, hunkIndex int, lineIDs map[int]bool, cached, reverse bool,
) error {
	return f.mutate(ctx, func() error {
		file, err := f.hunkFile(ctx, path, cached && reverse)
		if err != nil {
			return err
		}

		text, err := patch.ForLines(file, hunkIndex, lineIDs)
		if err != nil {
			return err
		}
		if text == "" {
			return nil
		}

		return f.PatchApplier.Apply(ctx, text, cached, reverse)
	})
}

// StageHunk applies one hunk of path's unstaged diff to the index.
func (f *RepoFacade) StageHunk(ctx context.Context, path string, hunkIndex int) error {
	return f.applyHunk(ctx, path, hunkIndex, true, false)
}

// UnstageHunk reverse-applies one hunk of path's staged diff out of the
// index, i.e. apply the staged hunk's patch to the index in reverse.
func (f *RepoFacade) UnstageHunk(ctx context.Context, path string, hunkIndex int) error {
	return f.applyHunk(ctx, path, hunkIndex, true, true)
}

// DiscardHunk reverse-applies one unstaged hunk against
// the working tree.
func (f *RepoFacade) DiscardHunk(ctx context.Context, path string, hunkIndex int) error {
	return f.applyHunk(ctx, path, hunkIndex, false, true)
}

// StageLines stages only the selected lines of one hunk, keyed by
// their stable DiffLine.ID.
func (f *RepoFacade) StageLines(ctx context.Context, path string, hunkIndex int, lineIDs map[int]bool) error {
	return f.applyLines(ctx, path, hunkIndex, lineIDs, true, false)
}

// UnstageLines unstages only the selected lines of one hunk.
func (f *RepoFacade) UnstageLines(ctx context.Context, path string, hunkIndex int, lineIDs map[int]bool) error {
	return f.applyLines(ctx, path, hunkIndex, lineIDs, true, true)
}

// DiscardLines discards only the selected lines of one hunk from the
// working tree.
func (f *RepoFacade) DiscardLines(ctx context.Context, path string, hunkIndex int, lineIDs map[int]bool) error {
	return f.applyLines(ctx, path, hunkIndex, lineIDs, false, true)
}

// StageAllHunks applies every hunk of path's unstaged diff to the index.
// Each hunk's failure is reported and staging continues with the rest;
// the first error is returned to the caller after every hunk has been
// attempted.
func (f *RepoFacade) StageAllHunks(ctx context.Context, path string) error {
	return f.mutate(ctx, func() error {
		file, err := f.hunkFile(ctx, path, false)
		if err != nil {
			return err
		}

		var firstErr error
		for i := range file.Hunks {
			text, err := patch.ForHunk(file, i)
			if err != nil {
				f.sink.Notify(events.OperationFailed{Err: err})
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			if text == "" {
				continue
			}
			if err := f.PatchApplier.Apply(ctx, text, true, false); err != nil {
				f.sink.Notify(events.OperationFailed{Err: err})
				if firstErr == nil {
					firstErr = err
				}
			}
		}

		return firstErr
	})
}

// --- Branches & refs ---

func (f *RepoFacade) CreateBranch(ctx context.Context, name, at string, checkout bool) error {
	return f.reload(ctx, func() error { return f.BranchOps.CreateBranch(ctx, name, at, checkout) })
}

func (f *RepoFacade) RenameBranch(ctx context.Context, oldName, newName string) error {
	return f.reload(ctx, func() error { return f.BranchOps.RenameBranch(ctx, oldName, newName) })
}

func (f *RepoFacade) DeleteBranch(ctx context.Context, name string, force bool) error {
	return f.reload(ctx, func() error { return f.BranchOps.DeleteBranch(ctx, name, force) })
}

func (f *RepoFacade) CheckoutBranch(ctx context.Context, name string) error {
	return f.reload(ctx, func() error { return f.BranchOps.CheckoutBranch(ctx, name) })
}

func (f *RepoFacade) CheckoutCommit(ctx context.Context, hash string) error {
	return f.reload(ctx, func() error { return f.BranchOps.CheckoutCommit(ctx, hash) })
}

func (f *RepoFacade) SetUpstream(ctx context.Context, remote, branch string) error {
	return f.reload(ctx, func() error { return f.BranchOps.SetUpstream(ctx, remote, branch) })
}

func (f *RepoFacade) CreateTag(ctx context.Context, name, at, message string) error {
	return f.reload(ctx, func() error { return f.BranchOps.CreateTag(ctx, name, at, message) })
}

func (f *RepoFacade) DeleteRemoteBranch(ctx context.Context, remote, name string) error {
	return f.reload(ctx, func() error { return f.BranchOps.DeleteRemoteBranch(ctx, remote, name) })
}

// --- Commits ---

func (f *RepoFacade) Commit(ctx context.Context, message string) error {
	return f.reload(ctx, func() error { return f.CommitOps.Commit(ctx, message) })
}

func (f *RepoFacade) Amend(ctx context.Context, message string) error {
	return f.reload(ctx, func() error { return f.CommitOps.Amend(ctx, message) })
}

func (f *RepoFacade) Reword(ctx context.Context, hash, message string) error {
	return f.reload(ctx, func() error { return f.CommitOps.Reword(ctx, hash, message) })
}

func (f *RepoFacade) Squash(ctx context.Context, hashes []string) error {
	return f.reload(ctx, func() error { return f.CommitOps.Squash(ctx, hashes) })
}

func (f *RepoFacade) CherryPick(ctx context.Context, hash string) error {
	return f.reload(ctx, func() error { return f.CommitOps.CherryPick(ctx, hash) })
}

func (f *RepoFacade) Revert(ctx context.Context, hash string) error {
	return f.reload(ctx, func() error { return f.CommitOps.Revert(ctx, hash) })
}

// Reset moves HEAD to hash with the given mode. A hard reset overwrites
// the working tree; the caller is expected to have confirmed it.
func (f *RepoFacade) Reset(ctx context.Context, hash string, mode commitops.ResetMode) error {
	return f.reload(ctx, func() error { return f.CommitOps.Reset(ctx, hash, mode) })
}

// Autosquash rebases onto `onto`, folding fixup!/squash! commits into
// the commits their subjects name. Returns how many were folded.
func (f *RepoFacade) Autosquash(ctx context.Context, onto string) (int, error) {
	var folded int

	err := f.reload(ctx, func() error {
		var err error
		folded, err = f.CommitOps.Autosquash(ctx, onto)

		return err
	})

	return folded, err
}

// MergeBranch merges name into HEAD. On conflict the repository is left
// mid-merge for the conflict engine to manage.
func (f *RepoFacade) MergeBranch(ctx context.Context, name string) error {
	return f.reload(ctx, func() error { return f.executor.MergeBranch(ctx, name) })
}

// CompareWithWorkingTree diffs a committed tree against the current
// working tree, optionally narrowed to paths.
func (f *RepoFacade) CompareWithWorkingTree(ctx context.Context, hash string, paths ...string) (string, error) {
	return f.DiffEngine.DiffCompare(ctx, hash, paths...)
}

// --- Remote ---

func (f *RepoFacade) Fetch(ctx context.Context, remote string) error {
	return f.reload(ctx, func() error { return f.RemoteOps.Fetch(ctx, remote) })
}

func (f *RepoFacade) Pull(ctx context.Context, remote, branch string) error {
	return f.reload(ctx, func() error { return f.RemoteOps.Pull(ctx, remote, branch) })
}

func (f *RepoFacade) Push(ctx context.Context, remote, branch string, setUpstream bool) error {
	return f.reload(ctx, func() error { return f.RemoteOps.Push(ctx, remote, branch, setUpstream) })
}

func (f *RepoFacade) AddRemote(ctx context.Context, name, url string) error {
	return f.reload(ctx, func() error { return f.RemoteOps.AddRemote(ctx, name, url) })
}

func (f *RepoFacade) DeleteRemote(ctx context.Context, name string) error {
	return f.reload(ctx, func() error { return f.RemoteOps.DeleteRemote(ctx, name) })
}

func (f *RepoFacade) RenameRemote(ctx context.Context, oldName, newName string) error {
	return f.reload(ctx, func() error { return f.RemoteOps.RenameRemote(ctx, oldName, newName) })
}

func (f *RepoFacade) SetRemoteURL(ctx context.Context, name, url string) error {
	return f.reload(ctx, func() error { return f.RemoteOps.SetRemoteURL(ctx, name, url) })
}

// AcceptHostKey scans host's SSH key and appends it to
// ~/.ssh/known_hosts. Not routed through reload/mutate since it touches
// no repository state; callers retry the failed remote op themselves
// afterwards.
func (f *RepoFacade) AcceptHostKey(ctx context.Context, host string) error {
	return f.Submit(func() error { return remoteops.AcceptHostKey(ctx, host) })
}

// --- Stash ---
//
// Stash is a thin CRUD-over-the-index operation the git.Executor already
// exposes end-to-end, so the facade delegates straight to it, the same
// way it delegates to BranchOps/CommitOps for everything else.

func (f *RepoFacade) StashSave(ctx context.Context, message string, includeUntracked bool) error {
	return f.reload(ctx, func() error {
		return f.executor.StashSave(ctx, message, includeUntracked)
	})
}

func (f *RepoFacade) StashPop(ctx context.Context, index int) error {
	return f.reload(ctx, func() error { return f.executor.StashPop(ctx, index) })
}

func (f *RepoFacade) StashApply(ctx context.Context, index int) error {
	return f.reload(ctx, func() error { return f.executor.StashApply(ctx, index) })
}

func (f *RepoFacade) StashDrop(ctx context.Context, index int) error {
	return f.reload(ctx, func() error { return f.executor.StashDrop(ctx, index) })
}

// --- Conflict ---

func (f *RepoFacade) ConflictState(ctx context.Context) (conflict.Kind, error) {
	return f.ConflictEngine.State(ctx)
}

func (f *RepoFacade) ConflictedFiles(ctx context.Context) ([]model.ConflictFile, error) {
	return f.ConflictEngine.ConflictedFiles(ctx)
}

func (f *RepoFacade) ResolvedFiles(ctx context.Context) ([]string, error) {
	return f.ConflictEngine.ResolvedFiles(ctx)
}

func (f *RepoFacade) ReadConflictSides(ctx context.Context, path, oursLabel, theirsLabel string) (*conflict.Sides, error) {
	return f.ConflictEngine.ReadConflictSides(ctx, path, oursLabel, theirsLabel)
}

func (f *RepoFacade) SaveConflictResolution(ctx context.Context, path, content string) error {
	return f.mutate(ctx, func() error { return f.ConflictEngine.SaveConflictResolution(ctx, path, content) })
}

func (f *RepoFacade) MarkResolved(ctx context.Context, path string) error {
	return f.mutate(ctx, func() error { return f.ConflictEngine.MarkResolved(ctx, path) })
}

func (f *RepoFacade) MarkAllResolved(ctx context.Context) error {
	return f.mutate(ctx, func() error { return f.ConflictEngine.MarkAllResolved(ctx) })
}

func (f *RepoFacade) MarkConflicted(ctx context.Context, path string, kind conflict.Kind) error {
	return f.mutate(ctx, func() error { return f.ConflictEngine.MarkConflicted(ctx, path, kind) })
}

// ConflictLabels returns the ours/theirs labels for the current conflict
// operation, for a caller that wants to drive ReadConflictSides itself.
func (f *RepoFacade) ConflictLabels(ctx context.Context, kind conflict.Kind) (oursLabel, theirsLabel string) {
	return f.ConflictEngine.Labels(ctx, kind)
}

// RebaseState returns the current rebase snapshot, or nil if no rebase is
// in progress.
func (f *RepoFacade) RebaseState(ctx context.Context) (*model.RebaseState, error) {
	return f.ConflictEngine.RebaseState(ctx)
}

func (f *RepoFacade) ConflictContinue(ctx context.Context, message string) error {
	return f.reload(ctx, func() error {
		kind, err := f.ConflictEngine.State(ctx)
		if err != nil {
			return err
		}

		return f.ConflictEngine.Continue(ctx, kind, message)
	})
}

func (f *RepoFacade) ConflictSkip(ctx context.Context) error {
	return f.reload(ctx, func() error {
		kind, err := f.ConflictEngine.State(ctx)
		if err != nil {
			return err
		}

		return f.ConflictEngine.Skip(ctx, kind)
	})
}

func (f *RepoFacade) ConflictAbort(ctx context.Context) error {
	return f.reload(ctx, func() error {
		kind, err := f.ConflictEngine.State(ctx)
		if err != nil {
			return err
		}

		return f.ConflictEngine.Abort(ctx, kind)
	})
}

// --- File history ---

func (f *RepoFacade) FileLog(ctx context.Context, path string, limit int) ([]git.CommitInfo, error) {
	return f.executor.FileLog(ctx, path, limit)
}

func (f *RepoFacade) FileLogDiff(ctx context.Context, hash, path string) (string, error) {
	return f.executor.FileLogDiff(ctx, hash, path)
}

// Package git drives the git binary as a subprocess behind the
// Executor interface, which also gives higher layers a seam to swap in
// a fake for tests that don't want a real repository.
package git

import (
	"context"
	"io"
	"time"
)

// Executor is every git operation the core performs, expressed as one
// interface so the subprocess driver can be swapped out wholesale.
type Executor interface {
	// Diff returns the unified diff for unstaged changes, optionally
	// limited to paths.
	Diff(ctx context.Context, paths ...string) (string, error)

	// DiffCached returns the unified diff for staged changes.
	DiffCached(ctx context.Context, paths ...string) (string, error)

	// ApplyPatch applies patch text from the reader to the index.
	ApplyPatch(ctx context.Context, patch io.Reader) error

	// Commit creates a commit with the given message.
	Commit(ctx context.Context, message string) error

	// Reset unstages all staged changes.
	Reset(ctx context.Context) error

	// ResetPath unstages changes for a specific path.
	ResetPath(ctx context.Context, path string) error

	// Status returns the current repository status.
	Status(ctx context.Context) (*RepoStatus, error)

	// StatusEntries returns per-path two-character porcelain status codes
	// (index state, worktree state; "??" for untracked), one entry per
	// path, renames included.
	StatusEntries(ctx context.Context) ([]StatusEntry, error)

	// Root returns the repository root directory.
	Root(ctx context.Context) (string, error)

	// RebaseList returns commits that would be rebased onto the given base.
	RebaseList(ctx context.Context, base string) ([]CommitInfo, error)

	// RebaseStart begins an interactive rebase with a custom sequence editor.
	// The editor command is invoked by git to modify the todo file.
	RebaseStart(ctx context.Context, base, editor string) error

	// RebaseStartWithMessageEditor is RebaseStart with an explicit
	// GIT_EDITOR, used to override a reworded commit's message instead of
	// accepting git's default.
	RebaseStartWithMessageEditor(ctx context.Context, base, seqEditor, msgEditor string) error

	// RebaseStatus returns the current rebase state.
	RebaseStatus(ctx context.Context) (*RebaseState, error)

	// RebaseContinue continues an in-progress rebase.
	RebaseContinue(ctx context.Context) error

	// RebaseAbort aborts an in-progress rebase.
	RebaseAbort(ctx context.Context) error

	// RebaseSkip skips the current commit during rebase.
	RebaseSkip(ctx context.Context) error

	// DiffCommit returns the tree-to-tree diff between a commit and its
	// first parent. If the commit is a root commit (no parents), it is
	// diffed against the empty tree.
	DiffCommit(ctx context.Context, hash string, paths ...string) (string, error)

	// DiffCompare returns the diff between a committed tree and the
	// current working tree ("compare with working directory").
	DiffCompare(ctx context.Context, hash string, paths ...string) (string, error)

	// ApplyPatchOpts applies a patch with explicit cached/reverse control.
	ApplyPatchOpts(ctx context.Context, patch io.Reader, cached, reverse bool) error

	// AddPath stages a single path (`git add`).
	AddPath(ctx context.Context, path string) error

	// RemovePath removes a path from the index (`git rm --cached`).
	RemovePath(ctx context.Context, path string) error

	// CheckoutPath force-restores a path from the index, discarding
	// working-tree changes.
	CheckoutPath(ctx context.Context, path string) error

	// ReadFile reads a working-tree file's content.
	ReadFile(ctx context.Context, path string) (string, error)

	// WriteWorkingFile overwrites a working-tree file's content, creating
	// it if necessary.
	WriteWorkingFile(ctx context.Context, path, content string) error

	// Remove deletes a working-tree file.
	Remove(ctx context.Context, path string) error

	// AppendIgnore appends a pattern to .gitignore at the working-tree
	// root, creating the file if necessary.
	AppendIgnore(ctx context.Context, pattern string) error

	// GitDir returns the repository's .git directory (handles worktrees).
	GitDir(ctx context.Context) (string, error)

	// CurrentBranch returns the checked-out branch name, or "" if detached.
	CurrentBranch(ctx context.Context) (string, error)

	// HeadHash returns the hash HEAD currently resolves to.
	HeadHash(ctx context.Context) (string, error)

	// AheadBehind returns the ahead/behind commit counts between a local
	// branch and its upstream.
	AheadBehind(ctx context.Context, branch, upstream string) (ahead, behind int, err error)

	// CreateBranch creates a new branch at the given commit-ish.
	CreateBranch(ctx context.Context, name, at string, checkout bool) error

	// RenameBranch renames a local branch.
	RenameBranch(ctx context.Context, oldName, newName string) error

	// DeleteBranch deletes a local branch.
	DeleteBranch(ctx context.Context, name string, force bool) error

	// CheckoutBranch checks out an existing branch.
	CheckoutBranch(ctx context.Context, name string) error

	// CheckoutCommit checks out a commit in detached-HEAD state.
	CheckoutCommit(ctx context.Context, hash string) error

	// SetUpstream sets the upstream tracking branch.
	SetUpstream(ctx context.Context, remote, branch string) error

	// CreateTag creates a lightweight or annotated tag.
	CreateTag(ctx context.Context, name, at, message string) error

	// DeleteRemoteBranch deletes a branch on a remote.
	DeleteRemoteBranch(ctx context.Context, remote, name string) error

	// Amend amends HEAD with a new message, keeping the currently staged
	// tree.
	Amend(ctx context.Context, message string) error

	// CherryPick cherry-picks a commit onto HEAD.
	CherryPick(ctx context.Context, hash string) error

	// Revert reverts a commit on HEAD.
	Revert(ctx context.Context, hash string) error

	// ResetTo resets HEAD to a commit-ish with the given mode
	// ("soft", "mixed", "hard").
	ResetTo(ctx context.Context, hash, mode string) error

	// Fetch fetches from a remote (empty string = configured default).
	Fetch(ctx context.Context, remote string) error

	// Pull pulls from a remote/branch.
	Pull(ctx context.Context, remote, branch string) error

	// Push pushes to a remote/branch, optionally setting the upstream.
	Push(ctx context.Context, remote, branch string, setUpstream bool) error

	// AddRemote adds a new remote.
	AddRemote(ctx context.Context, name, url string) error

	// DeleteRemote removes a remote.
	DeleteRemote(ctx context.Context, name string) error

	// RenameRemote renames a remote.
	RenameRemote(ctx context.Context, oldName, newName string) error

	// SetRemoteURL changes a remote's URL.
	SetRemoteURL(ctx context.Context, name, url string) error

	// ListRemotes lists configured remotes.
	ListRemotes(ctx context.Context) ([]RemoteEntry, error)

	// StashSave creates a new stash.
	StashSave(ctx context.Context, message string, includeUntracked bool) error

	// StashPop pops a stash entry (index -1 means the most recent).
	StashPop(ctx context.Context, index int) error

	// StashApply applies a stash entry without dropping it.
	StashApply(ctx context.Context, index int) error

	// StashDrop drops a stash entry.
	StashDrop(ctx context.Context, index int) error

	// ListStashes lists stash entries.
	ListStashes(ctx context.Context) ([]StashEntry, error)

	// MergeBranch merges a branch into HEAD.
	MergeBranch(ctx context.Context, branch string) error

	// MergeAbort aborts an in-progress merge.
	MergeAbort(ctx context.Context) error

	// MergeContinue commits an in-progress merge with the given message.
	MergeContinue(ctx context.Context, message string) error

	// FileLog returns the commit history touching path, following renames.
	FileLog(ctx context.Context, path string, limit int) ([]CommitInfo, error)

	// FileLogDiff returns the diff to a single path introduced by a
	// specific commit.
	FileLogDiff(ctx context.Context, hash, path string) (string, error)
}

// StatusEntry is one path's porcelain status.
type StatusEntry struct {
	// Path is the file path relative to repo root (the new path for a
	// rename).
	Path string

	// Code is the two-character porcelain code: index state then
	// worktree state, "??" for untracked.
	Code string
}

// RemoteEntry describes one configured remote.
type RemoteEntry struct {
	Name string
	URL  string
}

// StashEntry describes one stash.
type StashEntry struct {
	Index   int
	Message string
}

// RepoStatus is a coarse bucketing of the working state: which paths
// carry staged, unstaged, or untracked changes. StatusEntries preserves
// the full per-path codes when callers need them.
type RepoStatus struct {
	StagedFiles    []string
	UnstagedFiles  []string
	UntrackedFiles []string
}

// FileStatus is one path's coarse working state.
type FileStatus struct {
	// Path is relative to the repository root.
	Path string

	Staged    bool
	Unstaged  bool
	Untracked bool
}

// CommitInfo is the commit metadata `git log` surfaces for listings.
type CommitInfo struct {
	// Hash and ShortHash are the full and 7-character forms.
	Hash      string
	ShortHash string

	// Subject is the first line of the commit message.
	Subject string

	// Author is in "Name <email>" form.
	Author string

	// Date is the author date.
	Date time.Time
}

// RebaseStateType indicates the current state of a rebase operation.
type RebaseStateType string

const (
	// RebaseStateNone indicates no rebase is in progress.
	RebaseStateNone RebaseStateType = "none"

	// RebaseStateNormal indicates rebase is progressing normally.
	RebaseStateNormal RebaseStateType = "normal"

	// RebaseStateConflict indicates rebase has stopped due to conflicts.
	RebaseStateConflict RebaseStateType = "conflict"

	// RebaseStateEdit indicates rebase has stopped for commit editing.
	RebaseStateEdit RebaseStateType = "edit"
)

// RebaseState represents the current state of an interactive rebase.
type RebaseState struct {
	// InProgress is true if a rebase operation is active.
	InProgress bool

	// State indicates the current rebase state.
	State RebaseStateType

	// CurrentCommit is the commit currently being rebased (if any).
	CurrentCommit *CommitInfo

	// CurrentAction is the action being performed (pick, squash, etc.).
	CurrentAction string

	// TotalCount is the total number of commits to rebase.
	TotalCount int

	// RemainingCount is the number of commits remaining.
	RemainingCount int

	// CompletedCount is the number of commits already rebased.
	CompletedCount int

	// Conflicts lists any files with conflicts.
	Conflicts []ConflictInfo

	// OriginalBranch is the branch being rebased.
	OriginalBranch string

	// OntoRef is the target base reference.
	OntoRef string

	// OrigHead is the hash the rebased branch pointed to before the
	// rebase started.
	OrigHead string
}

// ConflictInfo describes a file with merge conflicts.
type ConflictInfo struct {
	// Path is the file path relative to repo root.
	Path string

	// ConflictType describes the type of conflict (content, delete, etc.).
	ConflictType string
}

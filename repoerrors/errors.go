// Package repoerrors defines the error taxonomy surfaced by the core to its
// callers. Every operation that can fail returns one of these, wrapped with
// fmt.Errorf("...: %w", ...) where additional context is useful, so callers
// can still errors.As/errors.Is down to the underlying variant.
package repoerrors

import "fmt"

// RepoNotOpen is returned when a repository handle could not be acquired.
type RepoNotOpen struct {
	Path string
}

func (e *RepoNotOpen) Error() string {
	return fmt.Sprintf("repository not open: %s", e.Path)
}

// InvalidArgument is returned for malformed hashes, empty branch names, or
// paths that escape the repository root.
type InvalidArgument struct {
	What string
}

func (e *InvalidArgument) Error() string {
	return fmt.Sprintf("invalid argument: %s", e.What)
}

// NotFound is returned when a branch, commit, remote, or conflicted file
// does not exist.
type NotFound struct {
	What string
}

func (e *NotFound) Error() string {
	return fmt.Sprintf("not found: %s", e.What)
}

// ConflictKind identifies which in-progress operation blocked a request.
type ConflictKind string

const (
	ConflictKindRebase     ConflictKind = "rebase"
	ConflictKindMerge      ConflictKind = "merge"
	ConflictKindStashApply ConflictKind = "stash_apply"
)

// Conflict is returned when an operation requires a clean repository but one
// is mid-rebase, mid-merge, or mid-stash-apply.
type Conflict struct {
	Kind ConflictKind
}

func (e *Conflict) Error() string {
	return fmt.Sprintf("conflict in progress: %s", e.Kind)
}

// BranchNotFullyMerged is returned by a non-forced branch delete when the
// branch has unmerged commits; the caller should prompt for a forced delete.
type BranchNotFullyMerged struct {
	Name string
}

func (e *BranchNotFullyMerged) Error() string {
	return fmt.Sprintf("branch %q is not fully merged", e.Name)
}

// HostKeyRequired is parsed out of a git subprocess's "Host key verification
// failed" stderr; the caller should surface a trust prompt and, on
// confirmation, call the host-key acceptance helper before retrying.
type HostKeyRequired struct {
	Host string
}

func (e *HostKeyRequired) Error() string {
	return fmt.Sprintf("host key verification required for %s", e.Host)
}

// AuthRequired is returned when a remote operation fails due to missing or
// rejected credentials.
type AuthRequired struct {
	Remote string
}

func (e *AuthRequired) Error() string {
	return fmt.Sprintf("authentication required for remote %q", e.Remote)
}

// PatchRejected is returned when `git apply` refuses a reconstructed patch.
type PatchRejected struct {
	Detail string
}

func (e *PatchRejected) Error() string {
	return fmt.Sprintf("patch rejected: %s", e.Detail)
}

// ConflictRestoreFailed is returned when mark-conflicted could not restore
// the three index stages from REUC; the caller should assume the file is
// left in whatever state the last successful step produced.
type ConflictRestoreFailed struct {
	Stage string
}

func (e *ConflictRestoreFailed) Error() string {
	return fmt.Sprintf("failed to restore conflict at stage %q", e.Stage)
}

// OperationFailed wraps a generic subprocess failure, carrying its stderr.
type OperationFailed struct {
	Stderr string
}

func (e *OperationFailed) Error() string {
	return fmt.Sprintf("operation failed: %s", e.Stderr)
}

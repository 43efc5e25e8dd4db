// Package commitops covers history-writing operations: commit, amend,
// reword non-HEAD, squash, cherry-pick, revert, and reset. Reword and
// squash drive `git rebase -i` with a declarative rebase.RebaseSpec and
// a self-invoking sequence editor, so no shell or sed dialect is
// involved in rewriting the todo file.
package commitops

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fenwick-software/gitcore/git"
	"github.com/fenwick-software/gitcore/rebase"
	"github.com/fenwick-software/gitcore/repoerrors"
)

// Ops drives commit-lifecycle operations.
type Ops struct {
	Executor git.Executor

	// SelfPath is the path to this program's own binary, used as
	// GIT_SEQUENCE_EDITOR so interactive rebase calls back into us
	// instead of shelling out to sed. Set by the facade at startup via
	// os.Executable().
	SelfPath string
}

// New binds an Ops to executor; selfPath should be the result of
// os.Executable() captured once at process start.
func New(executor git.Executor, selfPath string) *Ops {
	return &Ops{Executor: executor, SelfPath: selfPath}
}

// Commit creates a commit from the currently staged tree.
func (o *Ops) Commit(ctx context.Context, message string) error {
	if message == "" {
		return &repoerrors.InvalidArgument{What: "commit message must not be empty"}
	}

	if err := o.Executor.Commit(ctx, message); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

// Amend rewrites HEAD's message, keeping its currently staged tree.
func (o *Ops) Amend(ctx context.Context, message string) error {
	if err := o.Executor.Amend(ctx, message); err != nil {
		return fmt.Errorf("amend: %w", err)
	}

	return nil
}

// CherryPick cherry-picks hash onto HEAD.
func (o *Ops) CherryPick(ctx context.Context, hash string) error {
	if err := o.Executor.CherryPick(ctx, hash); err != nil {
		return fmt.Errorf("cherry-pick %s: %w", hash, err)
	}

	return nil
}

// Revert reverts hash on HEAD.
func (o *Ops) Revert(ctx context.Context, hash string) error {
	if err := o.Executor.Revert(ctx, hash); err != nil {
		return fmt.Errorf("revert %s: %w", hash, err)
	}

	return nil
}

// ResetMode selects how much state Reset moves along with HEAD.
type ResetMode string

const (
	ResetSoft  ResetMode = "soft"
	ResetMixed ResetMode = "mixed"
	ResetHard  ResetMode = "hard"
)

// Reset resets HEAD to hash with the given mode. Hard reset overwrites the
// working tree; the caller (facade/UI) MUST confirm before invoking this
// with ResetHard.
func (o *Ops) Reset(ctx context.Context, hash string, mode ResetMode) error {
	switch mode {
	case ResetSoft, ResetMixed, ResetHard:
	default:
		return &repoerrors.InvalidArgument{What: "reset mode must be soft, mixed, or hard"}
	}

	if err := o.Executor.ResetTo(ctx, hash, string(mode)); err != nil {
		return fmt.Errorf("reset %s --%s: %w", hash, mode, err)
	}

	return nil
}

// Reword rewrites a non-HEAD commit's message via an interactive rebase,
// leaving every other commit untouched.
func (o *Ops) Reword(ctx context.Context, hash, message string) error {
	if message == "" {
		return &repoerrors.InvalidArgument{What: "reword message must not be empty"}
	}

	commits, err := o.Executor.RebaseList(ctx, hash+"^")
	if err != nil {
		return fmt.Errorf("list commits onto %s^: %w", hash, err)
	}

	actions := make([]rebase.RebaseAction, 0, len(commits))
	for _, c := range commits {
		action := rebase.RebaseAction{Action: rebase.ActionPick, Commit: c.Hash}
		if strings.HasPrefix(c.Hash, hash) {
			action.Action = rebase.ActionReword
			action.Message = message
		}

		actions = append(actions, action)
	}

	spec := &rebase.RebaseSpec{Actions: actions}

	return o.runRebaseSpec(ctx, hash+"^", spec, message)
}

// Squash combines hashes (newest-first, as displayed) into their oldest
// member: the oldest retains `pick`
// and becomes the anchor; every other hash is rewritten to `squash`.
func (o *Ops) Squash(ctx context.Context, hashes []string) error {
	if len(hashes) < 2 {
		return &repoerrors.InvalidArgument{What: "squash requires at least two commits"}
	}

	oldest := hashes[len(hashes)-1]

	var actions []rebase.RebaseAction
	for i := len(hashes) - 1; i >= 0; i-- {
		action := rebase.ActionSquash
		if hashes[i] == oldest {
			action = rebase.ActionPick
		}

		actions = append(actions, rebase.RebaseAction{Action: action, Commit: hashes[i]})
	}

	spec := &rebase.RebaseSpec{Actions: actions}

	return o.runRebaseSpec(ctx, oldest+"^", spec, "")
}

// runRebaseSpec writes spec to a temp file and drives an interactive
// rebase whose GIT_SEQUENCE_EDITOR is this program re-invoked with a
// hidden subcommand that rewrites the todo file to match spec. When
// message is non-empty (reword), GIT_EDITOR is also this program
// re-invoked with a hidden subcommand that overwrites the commit-message
// buffer with message instead of accepting git's default.
func (o *Ops) runRebaseSpec(ctx context.Context, onto string, spec *rebase.RebaseSpec, message string) error {
	if err := spec.Validate(); err != nil {
		return fmt.Errorf("invalid rebase spec: %w", err)
	}

	data, err := json.Marshal(spec)
	if err != nil {
		return fmt.Errorf("serialize rebase spec: %w", err)
	}

	tmp, err := os.CreateTemp("", "gitcore-rebase-spec-*.json")
	if err != nil {
		return fmt.Errorf("create temp spec file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()

		return fmt.Errorf("write temp spec file: %w", err)
	}
	tmp.Close()

	seqEditor := fmt.Sprintf("%s rebase-apply-spec %s", o.SelfPath, tmpPath)

	if message == "" {
		if err := o.Executor.RebaseStart(ctx, onto, seqEditor); err != nil {
			return fmt.Errorf("start rebase: %w", err)
		}

		return nil
	}

	msgTmp, err := os.CreateTemp("", "gitcore-rebase-message-*.txt")
	if err != nil {
		return fmt.Errorf("create temp message file: %w", err)
	}
	msgPath := msgTmp.Name()
	defer os.Remove(msgPath)

	if _, err := msgTmp.WriteString(message); err != nil {
		msgTmp.Close()

		return fmt.Errorf("write temp message file: %w", err)
	}
	msgTmp.Close()

	msgEditor := fmt.Sprintf("%s rebase-apply-message %s", o.SelfPath, msgPath)

	if err := o.Executor.RebaseStartWithMessageEditor(ctx, onto, seqEditor, msgEditor); err != nil {
		return fmt.Errorf("start rebase: %w", err)
	}

	return nil
}

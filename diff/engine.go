package diff

import (
	"context"
	"fmt"
	"strings"

	"github.com/fenwick-software/gitcore/git"
	"github.com/fenwick-software/gitcore/model"
)

// Engine produces diffs at commit/index/working-tree granularity and the
// per-file add/delete summaries that back the file list.
type Engine struct {
	Executor git.Executor
}

// NewEngine binds an Engine to executor.
func NewEngine(executor git.Executor) *Engine {
	return &Engine{Executor: executor}
}

// DiffForCommit returns the tree-to-tree diff between hash and its first
// parent (or the empty tree for a root commit).
func (e *Engine) DiffForCommit(ctx context.Context, hash string, paths ...string) (string, error) {
	return e.Executor.DiffCommit(ctx, hash, paths...)
}

// DiffStaged returns HEAD tree vs index.
func (e *Engine) DiffStaged(ctx context.Context, paths ...string) (string, error) {
	return e.Executor.DiffCached(ctx, paths...)
}

// DiffUnstaged returns index vs working tree.
func (e *Engine) DiffUnstaged(ctx context.Context, paths ...string) (string, error) {
	return e.Executor.Diff(ctx, paths...)
}

// DiffCompare returns committed tree vs working tree ("compare with
// working directory").
func (e *Engine) DiffCompare(ctx context.Context, hash string, paths ...string) (string, error) {
	return e.Executor.DiffCompare(ctx, hash, paths...)
}

// ListFiles parses raw unified-diff text and returns DiffFile summaries.
// Count semantics: only lines whose origin is '+' or '-' count; header and
// ---/+++ markers never do.
func ListFiles(diffText string) ([]model.DiffFile, error) {
	parsed, err := Parse(diffText)
	if err != nil {
		return nil, fmt.Errorf("parse diff: %w", err)
	}

	var files []model.DiffFile

	for f := range parsed.Files() {
		files = append(files, f.ToModel())
	}

	return files, nil
}

// UncommittedDiffFiles returns the union of staged and unstaged changed
// files; on a path collision the staged entry wins.
func (e *Engine) UncommittedDiffFiles(ctx context.Context) ([]model.DiffFile, error) {
	stagedText, err := e.DiffStaged(ctx)
	if err != nil {
		return nil, err
	}

	unstagedText, err := e.DiffUnstaged(ctx)
	if err != nil {
		return nil, err
	}

	staged, err := ListFiles(stagedText)
	if err != nil {
		return nil, err
	}

	unstaged, err := ListFiles(unstagedText)
	if err != nil {
		return nil, err
	}

	byPath := make(map[string]model.DiffFile, len(staged)+len(unstaged))

	for _, f := range unstaged {
		byPath[f.Path] = f
	}
	for _, f := range staged {
		byPath[f.Path] = f
	}

	var out []model.DiffFile
	for _, f := range byPath {
		out = append(out, f)
	}

	return out, nil
}

// FileDiff returns the unified diff for a single path at a committed
// context (path is passed through as a pathspec filter).
func (e *Engine) FileDiff(ctx context.Context, hash, path string) (string, error) {
	return e.DiffForCommit(ctx, hash, path)
}

// StagedFileDiff returns the staged diff for a single path.
func (e *Engine) StagedFileDiff(ctx context.Context, path string) (string, error) {
	return e.DiffStaged(ctx, path)
}

// UnstagedFileDiff returns the unstaged diff for a single path.
func (e *Engine) UnstagedFileDiff(ctx context.Context, path string) (string, error) {
	return e.DiffUnstaged(ctx, path)
}

// UncommittedFileDiff returns the diff for path given its status code. For
// an untracked file ("??"), a synthetic "new file" diff is produced since
// `git diff` emits nothing for a path git does not yet track.
func (e *Engine) UncommittedFileDiff(ctx context.Context, path, statusCode string) (string, error) {
	if statusCode == "??" {
		content, err := e.Executor.ReadFile(ctx, path)
		if err != nil {
			return "", fmt.Errorf("read untracked file %s: %w", path, err)
		}

		return synthesizeNewFileDiff(path, content), nil
	}

	if len(statusCode) == 2 && statusCode[0] != ' ' {
		return e.StagedFileDiff(ctx, path)
	}

	return e.UnstagedFileDiff(ctx, path)
}

// synthesizeNewFileDiff builds a unified diff of the form git itself would
// emit for a brand-new file, with every content line prefixed '+'.
func synthesizeNewFileDiff(path, content string) string {
	lines := strings.Split(content, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	var b strings.Builder

	fmt.Fprintf(&b, "diff --git a/%s b/%s\n", path, path)
	b.WriteString("new file mode 100644\n")
	fmt.Fprintf(&b, "--- /dev/null\n")
	fmt.Fprintf(&b, "+++ b/%s\n", path)
	fmt.Fprintf(&b, "@@ -0,0 +1,%d @@\n", len(lines))

	for _, l := range lines {
		b.WriteString("+")
		b.WriteString(l)
		b.WriteString("\n")
	}

	return b.String()
}

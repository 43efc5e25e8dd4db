// Package testutil spins up real on-disk git repositories for tests,
// plus fixture builders for mid-merge and mid-rebase conflict states.
package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// GitTestRepo is a throwaway repository rooted in a temp directory,
// removed when the test ends.
type GitTestRepo struct {
	t   *testing.T
	Dir string
}

// NewGitTestRepo creates a new test repo with git initialized.
func NewGitTestRepo(t *testing.T) *GitTestRepo {
	t.Helper()

	dir, err := os.MkdirTemp("", "gitcore-test-*")
	require.NoError(t, err)

	repo := &GitTestRepo{t: t, Dir: dir}
	t.Cleanup(repo.cleanup)

	// Initialize git repo with basic config.
	repo.Git("init")
	repo.Git("config", "user.email", "test@test.com")
	repo.Git("config", "user.name", "Test User")

	return repo
}

func (r *GitTestRepo) cleanup() {
	os.RemoveAll(r.Dir)
}

// Git runs a git command in the test repo.
func (r *GitTestRepo) Git(args ...string) string {
	r.t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		r.t.Fatalf("git %v failed: %v\n%s", args, err, out)
	}

	return string(out)
}

// GitEnv runs a git command with extra environment variables appended
// to the inherited environment.
func (r *GitTestRepo) GitEnv(env []string, args ...string) string {
	r.t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), env...)

	out, err := cmd.CombinedOutput()
	if err != nil {
		r.t.Fatalf("git %v failed: %v\n%s", args, err, out)
	}

	return string(out)
}

// GitMayFail runs a git command that may fail, returning the error.
func (r *GitTestRepo) GitMayFail(args ...string) (string, error) {
	r.t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	out, err := cmd.CombinedOutput()

	return string(out), err
}

// WriteFile creates or overwrites a file in the repo.
func (r *GitTestRepo) WriteFile(path, content string) {
	r.t.Helper()

	fullPath := filepath.Join(r.Dir, path)
	dir := filepath.Dir(fullPath)

	err := os.MkdirAll(dir, 0755)
	require.NoError(r.t, err)

	err = os.WriteFile(fullPath, []byte(content), 0644)
	require.NoError(r.t, err)
}

// ReadFile reads a file from the repo.
func (r *GitTestRepo) ReadFile(path string) string {
	r.t.Helper()

	data, err := os.ReadFile(filepath.Join(r.Dir, path))
	require.NoError(r.t, err)

	return string(data)
}

// FileExists checks if a file exists in the repo.
func (r *GitTestRepo) FileExists(path string) bool {
	r.t.Helper()

	_, err := os.Stat(filepath.Join(r.Dir, path))

	return err == nil
}

// CommitAll stages and commits all changes.
func (r *GitTestRepo) CommitAll(msg string) {
	r.t.Helper()

	r.Git("add", "-A")
	r.Git("commit", "-m", msg)
}

// CommitAllAt stages everything and commits with fixed author and
// committer dates (git date syntax, e.g. "1700000000 +0000"), for tests
// that need deterministic or deliberately colliding timestamps.
func (r *GitTestRepo) CommitAllAt(msg, date string) {
	r.t.Helper()

	r.Git("add", "-A")
	r.GitEnv(
		[]string{"GIT_AUTHOR_DATE=" + date, "GIT_COMMITTER_DATE=" + date},
		"commit", "-m", msg,
	)
}

// StageFile stages a specific file.
func (r *GitTestRepo) StageFile(path string) {
	r.t.Helper()

	r.Git("add", path)
}

// Diff returns the current unstaged diff.
func (r *GitTestRepo) Diff() string {
	r.t.Helper()

	return r.Git("diff", "--no-color")
}

// DiffCached returns the current staged diff.
func (r *GitTestRepo) DiffCached() string {
	r.t.Helper()

	return r.Git("diff", "--cached", "--no-color")
}

// ComparisonTest holds two identically-seeded repos so a test can drive
// the code under test in one and the equivalent raw git commands in the
// other, then assert the end states match.
type ComparisonTest struct {
	t        *testing.T
	Expected *GitTestRepo
	Actual   *GitTestRepo
}

// NewComparisonTest creates two identical repos for comparison testing.
// The setup function is called on both repos to establish identical state.
func NewComparisonTest(
	t *testing.T, setup func(r *GitTestRepo),
) *ComparisonTest {

	t.Helper()

	expected := NewGitTestRepo(t)
	actual := NewGitTestRepo(t)

	setup(expected)
	setup(actual)

	return &ComparisonTest{
		t:        t,
		Expected: expected,
		Actual:   actual,
	}
}

// AssertSameContent verifies both repos have identical file contents.
func (c *ComparisonTest) AssertSameContent(paths ...string) {
	c.t.Helper()

	for _, path := range paths {
		exp := c.Expected.ReadFile(path)
		act := c.Actual.ReadFile(path)

		require.Equal(c.t, exp, act,
			"file %s differs between expected and actual", path)
	}
}

// AssertSameDiff verifies both repos have identical staged diffs.
func (c *ComparisonTest) AssertSameDiff() {
	c.t.Helper()

	expDiff := c.Expected.DiffCached()
	actDiff := c.Actual.DiffCached()

	require.Equal(c.t, expDiff, actDiff,
		"staged diffs differ between expected and actual")
}

// AssertSameUnstagedDiff verifies both repos have identical unstaged diffs.
func (c *ComparisonTest) AssertSameUnstagedDiff() {
	c.t.Helper()

	expDiff := c.Expected.Diff()
	actDiff := c.Actual.Diff()

	require.Equal(c.t, expDiff, actDiff,
		"unstaged diffs differ between expected and actual")
}

// Branch creates and checks out a new branch from the current HEAD.
func (r *GitTestRepo) Branch(name string) {
	r.t.Helper()

	r.Git("checkout", "-b", name)
}

// Checkout checks out an existing branch or commit-ish.
func (r *GitTestRepo) Checkout(ref string) {
	r.t.Helper()

	r.Git("checkout", ref)
}

// Head returns the hash HEAD currently resolves to.
func (r *GitTestRepo) Head() string {
	r.t.Helper()

	return strings.TrimSpace(r.Git("rev-parse", "HEAD"))
}

// initialBranch returns the name git init checked out (main or master,
// depending on the runner's git config).
func (r *GitTestRepo) initialBranch() string {
	r.t.Helper()

	return strings.TrimSpace(r.Git("symbolic-ref", "--short", "HEAD"))
}

// ConflictingMerge builds two branches that each change the same line of
// the same file, then attempts `git merge` from base, leaving the repo
// mid-merge with an unresolved conflict in path. Returns the source branch
// name (the one merged in), matching conflict.Kind's Merge{SourceBranch}.
func (r *GitTestRepo) ConflictingMerge(path string) (sourceBranch string) {
	r.t.Helper()

	base := r.initialBranch()

	r.WriteFile(path, "base\n")
	r.CommitAll("base commit")

	r.Branch("ours")
	r.WriteFile(path, "ours\n")
	r.CommitAll("ours commit")

	r.Checkout(base)
	r.Branch("theirs")
	r.WriteFile(path, "theirs\n")
	r.CommitAll("theirs commit")

	r.Checkout("ours")

	// Merge is expected to conflict; ignore the non-zero exit.
	r.GitMayFail("merge", "theirs", "-m", "merge theirs into ours")

	return "theirs"
}

// ConflictingMergeWithContext builds the same two-branch conflict as
// ConflictingMerge, but over a multi-line file where only one middle line
// differs between the branches; the lines before and after it are
// identical on both sides. Exercises conflict-marker regeneration that
// must keep that shared context outside the markers instead of dumping
// the whole file between them.
func (r *GitTestRepo) ConflictingMergeWithContext(path string) (sourceBranch string) {
	r.t.Helper()

	base := r.initialBranch()

	r.WriteFile(path, "line1\nline2\nbase\nline4\nline5\n")
	r.CommitAll("base commit")

	r.Branch("ours")
	r.WriteFile(path, "line1\nline2\nours\nline4\nline5\n")
	r.CommitAll("ours commit")

	r.Checkout(base)
	r.Branch("theirs")
	r.WriteFile(path, "line1\nline2\ntheirs\nline4\nline5\n")
	r.CommitAll("theirs commit")

	r.Checkout("ours")

	// Merge is expected to conflict; ignore the non-zero exit.
	r.GitMayFail("merge", "theirs", "-m", "merge theirs into ours")

	return "theirs"
}

// RebaseConflict builds two branches that each change the same line of the
// same file, then starts `git rebase` of the feature branch onto base,
// leaving the repo mid-rebase with an unresolved conflict in path.
func (r *GitTestRepo) RebaseConflict(path string) {
	r.t.Helper()

	base := r.initialBranch()

	r.WriteFile(path, "base\n")
	r.CommitAll("base commit")

	r.Branch("base-moved")
	r.WriteFile(path, "base-moved\n")
	r.CommitAll("base moved on")

	r.Checkout(base)
	r.Branch("feature")
	r.WriteFile(path, "feature\n")
	r.CommitAll("feature change")

	// Rebase is expected to conflict; ignore the non-zero exit.
	r.GitMayFail("rebase", "base-moved")
}

// AddRemote registers another GitTestRepo's directory as a remote, usable
// as a real fetch/pull/push target without reaching the network.
func (r *GitTestRepo) AddRemote(name string, remote *GitTestRepo) {
	r.t.Helper()

	r.Git("remote", "add", name, remote.Dir)
}

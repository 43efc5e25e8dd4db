package walker_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/fenwick-software/gitcore/git"
	"github.com/fenwick-software/gitcore/gitrepo"
	"github.com/fenwick-software/gitcore/model"
	"github.com/fenwick-software/gitcore/refindex"
	"github.com/fenwick-software/gitcore/testutil"
	"github.com/fenwick-software/gitcore/walker"
	"github.com/stretchr/testify/require"
)

func buildRefIndex(t *testing.T, repo *testutil.GitTestRepo) *refindex.RefIndex {
	t.Helper()

	h, err := gitrepo.Open(repo.Dir)
	require.NoError(t, err)

	idx, err := refindex.Build(context.Background(), h, git.NewShellExecutor(repo.Dir))
	require.NoError(t, err)

	return idx
}

func TestWalkerYieldsInTopoOrder(t *testing.T) {
	repo := testutil.NewGitTestRepo(t)
	repo.WriteFile("a.txt", "one\n")
	repo.CommitAll("first")
	repo.WriteFile("a.txt", "two\n")
	repo.CommitAll("second")
	repo.WriteFile("a.txt", "three\n")
	repo.CommitAll("third")

	refs := buildRefIndex(t, repo)

	w, err := walker.New(repo.Dir, refs)
	require.NoError(t, err)

	batch, err := w.NextBatch(10)
	require.NoError(t, err)
	require.Len(t, batch, 3)
	require.Equal(t, "third", batch[0].Message)
	require.Equal(t, "second", batch[1].Message)
	require.Equal(t, "first", batch[2].Message)
}

func TestWalkerBatchingAndExhaustion(t *testing.T) {
	repo := testutil.NewGitTestRepo(t)
	for i := 0; i < 5; i++ {
		repo.WriteFile("a.txt", fmt.Sprintf("content %d\n", i))
		repo.CommitAll("commit")
	}

	refs := buildRefIndex(t, repo)
	w, err := walker.New(repo.Dir, refs)
	require.NoError(t, err)

	first, err := w.NextBatch(2)
	require.NoError(t, err)
	require.Len(t, first, 2)

	second, err := w.NextBatch(2)
	require.NoError(t, err)
	require.Len(t, second, 2)

	third, err := w.NextBatch(2)
	require.NoError(t, err)
	require.Len(t, third, 1)

	fourth, err := w.NextBatch(2)
	require.NoError(t, err)
	require.Empty(t, fourth)
}

// assertChildrenBeforeParents fails if any commit in batch appears
// after one of its own parents.
func assertChildrenBeforeParents(t *testing.T, batch []model.CommitInfo) {
	t.Helper()

	position := make(map[string]int, len(batch))
	for i, c := range batch {
		position[c.Hash] = i
	}

	for i, c := range batch {
		for _, parent := range c.ParentHashes {
			pp, ok := position[parent]
			if !ok {
				continue
			}

			require.Greater(t, pp, i,
				"parent %s emitted before its child %s", parent, c.Hash)
		}
	}
}

func TestWalkerMergeTopologyChildrenBeforeParents(t *testing.T) {
	// Every commit shares one timestamp, so time ordering alone cannot
	// produce a correct result; only a real topological sort keeps
	// children ahead of parents here.
	const date = "1700000000 +0000"

	repo := testutil.NewGitTestRepo(t)

	repo.WriteFile("a.txt", "base\n")
	repo.CommitAllAt("base", date)
	base := repo.Head()

	// Multi-hop side branch: base <- c1 <- c2.
	repo.Branch("feature")
	repo.WriteFile("f.txt", "one\n")
	repo.CommitAllAt("feature one", date)
	repo.WriteFile("f.txt", "two\n")
	repo.CommitAllAt("feature two", date)

	// Main moves on independently, then merges the branch.
	repo.Checkout(base)
	repo.Branch("mainline")
	repo.WriteFile("m.txt", "main\n")
	repo.CommitAllAt("main advance", date)
	repo.GitEnv(
		[]string{"GIT_AUTHOR_DATE=" + date, "GIT_COMMITTER_DATE=" + date},
		"merge", "feature", "-m", "merge feature",
	)

	// A second, unmerged fork from the root keeps a same-timestamp head
	// competing with newly discovered ancestors.
	repo.Checkout(base)
	repo.Branch("side")
	repo.WriteFile("s.txt", "side\n")
	repo.CommitAllAt("side work", date)

	refs := buildRefIndex(t, repo)
	w, err := walker.New(repo.Dir, refs)
	require.NoError(t, err)

	batch, err := w.NextBatch(50)
	require.NoError(t, err)

	// base, feature one/two, main advance, merge, side work.
	require.Len(t, batch, 6)
	assertChildrenBeforeParents(t, batch)

	// The merge commit precedes both of its parents.
	require.Equal(t, "merge feature", batch[0].Message)
	require.True(t, batch[0].IsMerge())
}

func TestWalkerCancel(t *testing.T) {
	repo := testutil.NewGitTestRepo(t)
	repo.WriteFile("a.txt", "one\n")
	repo.CommitAll("first")
	repo.WriteFile("a.txt", "two\n")
	repo.CommitAll("second")

	refs := buildRefIndex(t, repo)
	w, err := walker.New(repo.Dir, refs)
	require.NoError(t, err)

	w.Cancel()

	batch, err := w.NextBatch(10)
	require.NoError(t, err)
	require.Empty(t, batch)
}

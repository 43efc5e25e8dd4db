package refindex_test

import (
	"context"
	"testing"

	"github.com/fenwick-software/gitcore/git"
	"github.com/fenwick-software/gitcore/gitrepo"
	"github.com/fenwick-software/gitcore/model"
	"github.com/fenwick-software/gitcore/refindex"
	"github.com/fenwick-software/gitcore/testutil"
	"github.com/stretchr/testify/require"
)

func TestBuildLabelsHeadAndBranches(t *testing.T) {
	repo := testutil.NewGitTestRepo(t)
	repo.WriteFile("a.txt", "one\n")
	repo.CommitAll("initial")
	repo.Git("tag", "v1")

	h, err := gitrepo.Open(repo.Dir)
	require.NoError(t, err)

	idx, err := refindex.Build(context.Background(), h, git.NewShellExecutor(repo.Dir))
	require.NoError(t, err)

	head := repo.Head()
	labels := idx.RefsFor(head)
	require.NotEmpty(t, labels)

	var sawHead, sawTag bool
	for _, l := range labels {
		if l.Class == model.RefClassHEAD {
			sawHead = true
		}
		if l.Name == "v1" {
			sawTag = true
		}
	}
	require.True(t, sawHead)
	require.True(t, sawTag)

	require.Len(t, idx.Branches, 1)
	require.Len(t, idx.Tags, 1)
}

func TestRefsForUnknownHashIsEmpty(t *testing.T) {
	repo := testutil.NewGitTestRepo(t)
	repo.WriteFile("a.txt", "one\n")
	repo.CommitAll("initial")

	h, err := gitrepo.Open(repo.Dir)
	require.NoError(t, err)

	idx, err := refindex.Build(context.Background(), h, git.NewShellExecutor(repo.Dir))
	require.NoError(t, err)

	require.Empty(t, idx.RefsFor("0000000000000000000000000000000000000000"))
}

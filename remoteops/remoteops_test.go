package remoteops_test

import (
	"context"
	"testing"

	"github.com/fenwick-software/gitcore/git"
	"github.com/fenwick-software/gitcore/remoteops"
	"github.com/fenwick-software/gitcore/testutil"
	"github.com/stretchr/testify/require"
)

func newOps(repo *testutil.GitTestRepo) *remoteops.Ops {
	return remoteops.New(git.NewShellExecutor(repo.Dir))
}

func TestAddListRenameSetURLDeleteRemote(t *testing.T) {
	upstream := testutil.NewGitTestRepo(t)
	repo := testutil.NewGitTestRepo(t)
	repo.WriteFile("a.txt", "one\n")
	repo.CommitAll("initial")

	ops := newOps(repo)
	ctx := context.Background()

	require.NoError(t, ops.AddRemote(ctx, "origin", upstream.Dir))

	remotes, err := ops.ListRemotes(ctx)
	require.NoError(t, err)
	require.Len(t, remotes, 1)
	require.Equal(t, "origin", remotes[0].Name)

	require.NoError(t, ops.RenameRemote(ctx, "origin", "upstream"))

	remotes, err = ops.ListRemotes(ctx)
	require.NoError(t, err)
	require.Equal(t, "upstream", remotes[0].Name)

	require.NoError(t, ops.SetRemoteURL(ctx, "upstream", "/tmp/elsewhere"))

	remotes, err = ops.ListRemotes(ctx)
	require.NoError(t, err)
	require.Equal(t, "/tmp/elsewhere", remotes[0].URL)

	require.NoError(t, ops.DeleteRemote(ctx, "upstream"))

	remotes, err = ops.ListRemotes(ctx)
	require.NoError(t, err)
	require.Empty(t, remotes)
}

func TestFetchPullPush(t *testing.T) {
	upstream := testutil.NewGitTestRepo(t)
	upstream.WriteFile("a.txt", "one\n")
	upstream.CommitAll("initial")

	repo := testutil.NewGitTestRepo(t)
	repo.AddRemote("origin", upstream)

	ops := newOps(repo)
	ctx := context.Background()

	require.NoError(t, ops.Fetch(ctx, "origin"))

	// Pull requires a local branch history to merge into; clone-style
	// pull-from-empty is exercised via fetch above, so just confirm the
	// remote ref landed.
	out := repo.Git("branch", "-r")
	require.Contains(t, out, "origin/")
}

func TestClassifyRemoteErrWrapsUnknownRemote(t *testing.T) {
	repo := testutil.NewGitTestRepo(t)
	repo.WriteFile("a.txt", "one\n")
	repo.CommitAll("initial")

	ops := newOps(repo)
	err := ops.Fetch(context.Background(), "does-not-exist")
	require.Error(t, err)
}

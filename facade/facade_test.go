package facade_test

import (
	"context"
	"testing"

	"github.com/fenwick-software/gitcore/events"
	"github.com/fenwick-software/gitcore/facade"
	"github.com/fenwick-software/gitcore/model"
	"github.com/fenwick-software/gitcore/testutil"
	"github.com/stretchr/testify/require"
)

func open(t *testing.T, repo *testutil.GitTestRepo) *facade.RepoFacade {
	t.Helper()

	f, err := facade.New(context.Background(), repo.Dir, nil)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	return f
}

func TestLoadMetadataReportsBranchAndStatus(t *testing.T) {
	repo := testutil.NewGitTestRepo(t)
	repo.WriteFile("a.txt", "one\n")
	repo.CommitAll("initial")
	repo.WriteFile("b.txt", "untracked\n")

	f := open(t, repo)

	md, err := f.Reload(context.Background())
	require.NoError(t, err)

	require.Equal(t, repo.Head(), md.HeadHash)
	require.False(t, md.IsDetached)

	var sawUntracked bool
	for _, s := range md.Status {
		if s.Path == "b.txt" {
			sawUntracked = true
		}
	}
	require.True(t, sawUntracked)
}

func TestLoadMoreCommitsAndGraphEntry(t *testing.T) {
	repo := testutil.NewGitTestRepo(t)
	repo.WriteFile("a.txt", "one\n")
	repo.CommitAll("first")
	repo.WriteFile("a.txt", "two\n")
	repo.CommitAll("second")

	f := open(t, repo)

	batch, err := f.LoadMoreCommits(10)
	require.NoError(t, err)
	require.Len(t, batch, 2)

	entry, ok := f.GraphEntry(0)
	require.True(t, ok)
	require.Equal(t, 1, entry.Position)
}

func TestStageFileAndCommitThroughFacade(t *testing.T) {
	repo := testutil.NewGitTestRepo(t)
	repo.WriteFile("a.txt", "one\n")
	repo.CommitAll("initial")
	repo.WriteFile("a.txt", "two\n")

	f := open(t, repo)
	ctx := context.Background()

	require.NoError(t, f.StageFile(ctx, "a.txt"))
	require.NotEmpty(t, repo.DiffCached())

	require.NoError(t, f.Commit(ctx, "second commit"))

	out := repo.Git("log", "--oneline", "-1")
	require.Contains(t, out, "second commit")
}

func TestCreateBranchThroughFacadeReloadsMetadata(t *testing.T) {
	repo := testutil.NewGitTestRepo(t)
	repo.WriteFile("a.txt", "one\n")
	repo.CommitAll("initial")

	sink := events.NewChanSink(8)
	f, err := facade.New(context.Background(), repo.Dir, sink)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	require.NoError(t, f.CreateBranch(context.Background(), "feature", "", false))

	var sawMetadataChanged bool
	for {
		select {
		case e := <-sink:
			if _, ok := e.(events.MetadataChanged); ok {
				sawMetadataChanged = true
			}
		default:
			goto done
		}
	}
done:
	require.True(t, sawMetadataChanged)

	out := repo.Git("branch", "--list", "feature")
	require.Contains(t, out, "feature")
}

func TestUncommittedEntryLifecycle(t *testing.T) {
	repo := testutil.NewGitTestRepo(t)
	repo.WriteFile("a.txt", "one\n")
	repo.CommitAll("initial")

	f := open(t, repo)
	ctx := context.Background()

	_, err := f.LoadMoreCommits(10)
	require.NoError(t, err)

	// Clean tree: no synthetic row.
	commits := f.Commits()
	require.Len(t, commits, 1)
	require.False(t, commits[0].IsUncommitted)

	// Dirty the tree and refresh: the synthetic row appears at index 0
	// with HEAD as its parent, without re-walking the commit list.
	repo.WriteFile("a.txt", "two\n")
	_, err = f.Reload(ctx)
	require.NoError(t, err)
	_, err = f.LoadMoreCommits(10)
	require.NoError(t, err)

	commits = f.Commits()
	require.Len(t, commits, 2)
	require.True(t, commits[0].IsUncommitted)
	require.Equal(t, model.UncommittedHash, commits[0].Hash)
	require.Equal(t, []string{repo.Head()}, commits[0].ParentHashes)
	require.Equal(t, "0 staged, 1 unstaged", commits[0].Message)

	// Stage it: counts patch in place.
	require.NoError(t, f.StageFile(ctx, "a.txt"))
	commits = f.Commits()
	require.True(t, commits[0].IsUncommitted)
	require.Equal(t, "1 staged, 0 unstaged", commits[0].Message)

	// Commit it: the synthetic row disappears.
	require.NoError(t, f.Commit(ctx, "second"))
	_, err = f.LoadMoreCommits(10)
	require.NoError(t, err)

	commits = f.Commits()
	require.Len(t, commits, 2)
	require.False(t, commits[0].IsUncommitted)
}

func TestSelectCommitReturnsDiffFiles(t *testing.T) {
	repo := testutil.NewGitTestRepo(t)
	repo.WriteFile("a.txt", "one\n")
	repo.CommitAll("initial")
	repo.WriteFile("a.txt", "one\ntwo\n")
	repo.CommitAll("second")

	f := open(t, repo)

	files, err := f.SelectCommit(context.Background(), repo.Head())
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, "a.txt", files[0].Path)
	require.Equal(t, 1, files[0].Additions)
	require.Equal(t, repo.Head(), f.SelectedCommit())
}

func TestFileDiffUnstaged(t *testing.T) {
	repo := testutil.NewGitTestRepo(t)
	repo.WriteFile("a.txt", "one\n")
	repo.CommitAll("initial")
	repo.WriteFile("a.txt", "two\n")

	f := open(t, repo)

	text, err := f.FileDiff(context.Background(), "", "a.txt", model.DiffContextUnstaged)
	require.NoError(t, err)
	require.Contains(t, text, "a.txt")
}

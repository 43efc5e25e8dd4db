package model_test

import (
	"testing"

	"github.com/fenwick-software/gitcore/model"
	"github.com/stretchr/testify/require"
)

func TestCommitInfoShortHash(t *testing.T) {
	c := model.CommitInfo{Hash: "abcdef1234567890"}
	require.Equal(t, "abcdef1", c.ShortHash())

	short := model.CommitInfo{Hash: "abc"}
	require.Equal(t, "abc", short.ShortHash())
}

func TestCommitInfoIsMerge(t *testing.T) {
	require.False(t, model.CommitInfo{ParentHashes: []string{"a"}}.IsMerge())
	require.False(t, model.CommitInfo{}.IsMerge())
	require.True(t, model.CommitInfo{ParentHashes: []string{"a", "b"}}.IsMerge())
}

func TestNewUncommittedEntry(t *testing.T) {
	entry := model.NewUncommittedEntry("deadbeef", "2 staged, 1 unstaged")

	require.Equal(t, model.UncommittedHash, entry.Hash)
	require.Equal(t, []string{"deadbeef"}, entry.ParentHashes)
	require.True(t, entry.IsUncommitted)
	require.Equal(t, "2 staged, 1 unstaged", entry.Message)
}

func TestFileStatusHasStaged(t *testing.T) {
	require.True(t, model.FileStatus{StatusCode: "M "}.HasStaged())
	require.True(t, model.FileStatus{StatusCode: "A "}.HasStaged())
	require.False(t, model.FileStatus{StatusCode: " M"}.HasStaged())
	require.False(t, model.FileStatus{StatusCode: "?"}.HasStaged())
}

func TestFileStatusHasUnstaged(t *testing.T) {
	require.True(t, model.FileStatus{StatusCode: " M"}.HasUnstaged())
	require.True(t, model.FileStatus{StatusCode: "??"}.HasUnstaged())
	require.False(t, model.FileStatus{StatusCode: "M "}.HasUnstaged())
}

func TestFileStatusIsUntracked(t *testing.T) {
	require.True(t, model.FileStatus{StatusCode: "??"}.IsUntracked())
	require.False(t, model.FileStatus{StatusCode: "M "}.IsUntracked())
}

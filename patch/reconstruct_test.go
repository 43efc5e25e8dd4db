package patch_test

import (
	"context"
	"strings"
	"testing"

	"github.com/fenwick-software/gitcore/diff"
	"github.com/fenwick-software/gitcore/git"
	"github.com/fenwick-software/gitcore/patch"
	"github.com/fenwick-software/gitcore/testutil"
	"github.com/stretchr/testify/require"
)

const mixedHunkDiff = `diff --git a/a.txt b/a.txt
--- a/a.txt
+++ b/a.txt
@@ -1,4 +1,4 @@
 one
-two
+TWO
 three
 four
`

func parseSingleFile(t *testing.T, diffText string) *diff.FileDiff {
	t.Helper()

	parsed, err := diff.Parse(diffText)
	require.NoError(t, err)
	require.Equal(t, 1, parsed.FileCount())

	var file *diff.FileDiff
	for f := range parsed.Files() {
		file = f
	}
	require.NotNil(t, file)

	return file
}

func changeLineIDs(file *diff.FileDiff, hunkIndex int) map[int]bool {
	ids := make(map[int]bool)
	for _, line := range file.Hunks[hunkIndex].Lines {
		if line.Op != diff.OpContext {
			ids[line.ID] = true
		}
	}

	return ids
}

func TestForHunkEmitsExactlyOneHunk(t *testing.T) {
	file := parseSingleFile(t, mixedHunkDiff)

	text, err := patch.ForHunk(file, 0)
	require.NoError(t, err)

	require.Contains(t, text, "diff --git a/a.txt b/a.txt")
	require.Contains(t, text, "--- a/a.txt")
	require.Contains(t, text, "+++ b/a.txt")
	require.Contains(t, text, "@@ -1,4 +1,4 @@")
	require.Contains(t, text, "-two")
	require.Contains(t, text, "+TWO")
	require.Equal(t, 1, strings.Count(text, "@@ -"))
}

func TestForHunkOutOfRange(t *testing.T) {
	file := parseSingleFile(t, mixedHunkDiff)

	_, err := patch.ForHunk(file, 5)
	require.Error(t, err)
}

func TestForLinesAllChangesEqualsForHunk(t *testing.T) {
	// Selecting every change line in the hunk must reproduce ForHunk's
	// output byte-for-byte.
	file := parseSingleFile(t, mixedHunkDiff)

	whole, err := patch.ForHunk(file, 0)
	require.NoError(t, err)

	selected, err := patch.ForLines(file, 0, changeLineIDs(file, 0))
	require.NoError(t, err)

	require.Equal(t, whole, selected)
}

func TestForLinesUnselectedDeletionDemotedToContext(t *testing.T) {
	file := parseSingleFile(t, mixedHunkDiff)

	// Select only the addition; the paired deletion stays on both sides.
	// The deletion's old-side line number equals the addition's new-side
	// number here, so only the stable id can tell the two apart.
	var additionID int
	for _, line := range file.Hunks[0].Lines {
		if line.Op == diff.OpAdd {
			additionID = line.ID
		}
	}

	text, err := patch.ForLines(file, 0, map[int]bool{additionID: true})
	require.NoError(t, err)

	require.Contains(t, text, "+TWO")
	require.NotContains(t, text, "-two")
	require.Contains(t, text, "\n two\n")
	// old: one, two, three, four = 4 lines; new: those plus TWO = 5.
	require.Contains(t, text, "@@ -1,4 +1,5 @@")
}

func TestForLinesUnselectedAdditionDropped(t *testing.T) {
	file := parseSingleFile(t, mixedHunkDiff)

	var deletionID int
	for _, line := range file.Hunks[0].Lines {
		if line.Op == diff.OpDelete {
			deletionID = line.ID
		}
	}

	text, err := patch.ForLines(file, 0, map[int]bool{deletionID: true})
	require.NoError(t, err)

	require.Contains(t, text, "-two")
	require.NotContains(t, text, "+TWO")
	require.Contains(t, text, "@@ -1,4 +1,3 @@")
}

func TestForLinesEmptySelectionReturnsEmptyString(t *testing.T) {
	file := parseSingleFile(t, mixedHunkDiff)

	text, err := patch.ForLines(file, 0, nil)
	require.NoError(t, err)
	require.Empty(t, text)
}

func TestForHunkAppliedMatchesFullStage(t *testing.T) {
	// Staging a single-hunk file via a reconstructed patch must leave the
	// index exactly as `git add` would.
	setup := func(r *testutil.GitTestRepo) {
		r.WriteFile("a.txt", "one\ntwo\nthree\nfour\n")
		r.CommitAll("initial")
		r.WriteFile("a.txt", "one\nTWO\nthree\nfour\n")
	}

	ct := testutil.NewComparisonTest(t, setup)

	ct.Expected.Git("add", "a.txt")

	parsed, err := diff.Parse(ct.Actual.Diff())
	require.NoError(t, err)
	require.Equal(t, 1, parsed.FileCount())

	var file *diff.FileDiff
	for f := range parsed.Files() {
		file = f
	}

	text, err := patch.ForHunk(file, 0)
	require.NoError(t, err)

	applier := patch.NewApplier(git.NewShellExecutor(ct.Actual.Dir))
	require.NoError(t, applier.Apply(context.Background(), text, true, false))

	ct.AssertSameDiff()
}

package graph_test

import (
	"fmt"
	"testing"

	"github.com/fenwick-software/gitcore/graph"
	"github.com/fenwick-software/gitcore/model"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func commit(hash string, parents ...string) model.CommitInfo {
	return model.CommitInfo{Hash: hash, ParentHashes: parents}
}

func TestEngineLinearHistoryStaysInOneLane(t *testing.T) {
	e := graph.NewEngine()

	c1 := e.Process(commit("c1", "c2"))
	c2 := e.Process(commit("c2", "c3"))
	c3 := e.Process(commit("c3"))

	// A single unbroken chain never needs a second lane.
	require.Equal(t, 1, c1.Position)
	require.Equal(t, 1, c2.Position)
	require.Equal(t, 1, c3.Position)

	require.Equal(t, 1, c1.NumColumns)
	require.Equal(t, 1, c2.NumColumns)
	require.Equal(t, 1, c3.NumColumns)
}

func TestEngineForkAllocatesSecondLaneThenConverges(t *testing.T) {
	e := graph.NewEngine()

	e.Process(commit("left", "base"))
	rightEntry := e.Process(commit("right", "base"))

	// "right" doesn't continue "left"'s lane (different hash), so a second
	// lane is allocated for it.
	require.Equal(t, 2, rightEntry.NumColumns)
	require.Equal(t, 2, rightEntry.Position)

	baseEntry := e.Process(commit("base"))

	// Both lanes point at "base": they converge into one lane on this row.
	require.Len(t, baseEntry.Lines, 2)
	require.Equal(t, 1, baseEntry.NumColumns)
	for _, line := range baseEntry.Lines {
		require.True(t, line.Upper)
		require.Equal(t, baseEntry.Position, line.To)
	}
}

func TestEngineMergeCommitAllocatesLaneForSecondParent(t *testing.T) {
	e := graph.NewEngine()

	entry := e.Process(commit("merge", "left", "right"))

	require.Len(t, entry.Lines, 2)
	require.False(t, entry.Lines[0].Upper)
	require.False(t, entry.Lines[1].Upper)
	require.NotEqual(t, entry.Lines[0].ColorIndex, entry.Lines[1].ColorIndex)
}

func TestEngineResetClearsLaneState(t *testing.T) {
	e := graph.NewEngine()

	e.Process(commit("c1", "c2"))
	e.Reset()

	// After Reset, a fresh unrelated history gets its own lane from
	// scratch rather than reusing "c1"'s stale lane.
	entry := e.Process(commit("x"))
	require.Equal(t, 1, entry.Position)
	require.Empty(t, entry.Lines)
}

func TestEngineTwoParentMergeLayout(t *testing.T) {
	// main: A <- B <- M, feature: A <- C, with M merging [B, C]. Walk
	// order M, B, C, A.
	e := graph.NewEngine()

	m := e.Process(commit("M", "B", "C"))
	require.Equal(t, 1, m.Position)
	require.Len(t, m.Lines, 2)
	require.Equal(t, graph.GraphLine{Upper: false, From: 1, To: 1, ColorIndex: m.DotColorIndex}, m.Lines[0])
	require.False(t, m.Lines[1].Upper)
	require.Equal(t, 1, m.Lines[1].From)
	require.Equal(t, 2, m.Lines[1].To)

	b := e.Process(commit("B", "A"))
	require.Equal(t, 1, b.Position)
	require.Len(t, b.Lines, 4)
	require.Equal(t, graph.GraphLine{Upper: true, From: 1, To: 1, ColorIndex: b.DotColorIndex}, b.Lines[0])
	require.Equal(t, graph.GraphLine{Upper: false, From: 1, To: 1, ColorIndex: b.DotColorIndex}, b.Lines[1])

	c := e.Process(commit("C", "A"))
	require.Equal(t, 2, c.Position)

	a := e.Process(commit("A"))
	require.Equal(t, 1, a.Position)
	for _, line := range a.Lines {
		require.True(t, line.Upper)
		require.Equal(t, 1, line.To)
	}
	// The dot takes the color of the first lane arriving from above.
	require.Equal(t, a.Lines[0].ColorIndex, a.DotColorIndex)
}

func TestEnginePrefixStabilityProperty(t *testing.T) {
	// Processing a history incrementally must produce, for every row,
	// exactly the entry that processing any longer prefix produces: the
	// engine's state depends only on the immediately preceding row.
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 40).Draw(t, "n")

		// Commits indexed 0..n-1 in walk order; parents always point at
		// strictly later indices, which is what topological order means.
		commits := make([]model.CommitInfo, n)
		for i := 0; i < n; i++ {
			var parents []string
			if i < n-1 {
				numParents := rapid.IntRange(0, 2).Draw(t, fmt.Sprintf("parents%d", i))
				for p := 0; p < numParents; p++ {
					target := rapid.IntRange(i+1, n-1).Draw(t, fmt.Sprintf("parent%d_%d", i, p))
					parents = append(parents, fmt.Sprintf("c%d", target))
				}
			}

			commits[i] = commit(fmt.Sprintf("c%d", i), parents...)
		}

		full := graph.NewEngine()
		var want []graph.Entry
		for _, c := range commits {
			want = append(want, full.Process(c))
		}

		k := rapid.IntRange(1, n).Draw(t, "k")

		partial := graph.NewEngine()
		for i := 0; i < k; i++ {
			require.Equal(t, want[i], partial.Process(commits[i]))
		}
	})
}

func TestLazyGraphProcessorExtendAndEntry(t *testing.T) {
	p := graph.NewLazyGraphProcessor()

	p.Extend([]model.CommitInfo{
		commit("c1", "c2"),
		commit("c2", "c3"),
		commit("c3"),
	})

	p.EnsureProcessedThrough(2)

	entry, ok := p.Entry(1)
	require.True(t, ok)
	require.Equal(t, 1, entry.Position)

	require.Equal(t, 3, p.ProcessedCount())

	_, ok = p.EntryForHash("c3")
	require.True(t, ok)

	_, ok = p.EntryForHash("does-not-exist")
	require.False(t, ok)
}

func TestLazyGraphProcessorResetDiscardsEntries(t *testing.T) {
	p := graph.NewLazyGraphProcessor()

	p.Extend([]model.CommitInfo{commit("c1")})
	p.EnsureProcessedThrough(0)
	require.Equal(t, 1, p.ProcessedCount())

	p.Reset(nil)
	require.Equal(t, 0, p.ProcessedCount())
}

// Package patch reconstructs appliable unified diffs from parsed hunks
// and line selections, and drives `git apply` to land them in the index
// or the working tree.
package patch

import (
	"bytes"
	"fmt"

	"github.com/fenwick-software/gitcore/diff"
)

// Generate builds a patch containing only the selected lines across the
// whole parsed diff. The result applies cleanly with `git apply
// --cached` against the index state the diff was taken from.
func Generate(
	parsed *diff.ParsedDiff, selections []*diff.FileSelection,
) ([]byte, error) {
	selMap := diff.NewSelectionMap(selections)

	var buf bytes.Buffer

	for file := range parsed.Files() {
		sel := selMap.Get(file.Path())
		if sel == nil {
			sel = selMap.Get(file.OldName)
		}
		if sel == nil {
			sel = selMap.Get(file.NewName)
		}
		if sel == nil {
			continue
		}

		var kept []*diff.Hunk
		for _, hunk := range file.Hunks {
			kept = append(kept, splitHunkBySelection(hunk, sel)...)
		}

		if len(kept) == 0 {
			continue
		}

		writeFileHeaderBare(&buf, file)
		for _, hunk := range kept {
			writeHunkBody(&buf, hunk)
		}
	}

	return buf.Bytes(), nil
}

// changeBlock is a contiguous run of selected change lines, as index
// bounds [startIdx, endIdx) into the original hunk's Lines.
type changeBlock struct {
	startIdx int
	endIdx   int
}

// splitHunkBySelection cuts one hunk down to its selected changes. Each
// contiguous block of selected changes becomes its own hunk, so
// non-adjacent selections inside one original hunk apply independently.
func splitHunkBySelection(hunk *diff.Hunk, sel *diff.FileSelection) []*diff.Hunk {
	blocks := findChangeBlocks(hunk, sel)

	var result []*diff.Hunk
	for _, block := range blocks {
		if h := hunkForBlock(hunk, block); h != nil {
			result = append(result, h)
		}
	}

	return result
}

// findChangeBlocks locates the contiguous selected-change runs. Context
// lines never break a run; an unselected change line always does.
func findChangeBlocks(hunk *diff.Hunk, sel *diff.FileSelection) []changeBlock {
	var blocks []changeBlock
	open := -1

	for i, line := range hunk.Lines {
		if !line.IsChange() {
			continue
		}

		if sel.Contains(line.EffectiveLineNum()) {
			if open == -1 {
				open = i
			}

			continue
		}

		if open != -1 {
			blocks = append(blocks, changeBlock{startIdx: open, endIdx: prevChangeEnd(hunk, i)})
			open = -1
		}
	}

	if open != -1 {
		blocks = append(blocks, changeBlock{startIdx: open, endIdx: lastChangeEnd(hunk)})
	}

	return blocks
}

// prevChangeEnd returns one past the last change line before index i.
func prevChangeEnd(hunk *diff.Hunk, i int) int {
	for j := i - 1; j >= 0; j-- {
		if hunk.Lines[j].IsChange() {
			return j + 1
		}
	}

	return 0
}

// lastChangeEnd returns one past the hunk's final change line.
func lastChangeEnd(hunk *diff.Hunk) int {
	for j := len(hunk.Lines) - 1; j >= 0; j-- {
		if hunk.Lines[j].IsChange() {
			return j + 1
		}
	}

	return 0
}

// hunkForBlock wraps a change block into a standalone hunk with up to
// three context lines on either side, stopping early at an unselected
// change line so it never leaks into the emitted patch.
func hunkForBlock(original *diff.Hunk, block changeBlock) *diff.Hunk {
	const maxContext = 3

	startIdx := block.startIdx
	for i, taken := block.startIdx-1, 0; i >= 0 && taken < maxContext; i, taken = i-1, taken+1 {
		if original.Lines[i].Op != diff.OpContext {
			break
		}
		startIdx = i
	}

	endIdx := block.endIdx
	for i, taken := block.endIdx, 0; i < len(original.Lines) && taken < maxContext; i, taken = i+1, taken+1 {
		if original.Lines[i].Op != diff.OpContext {
			break
		}
		endIdx = i + 1
	}

	lines := make([]diff.DiffLine, endIdx-startIdx)
	copy(lines, original.Lines[startIdx:endIdx])

	if len(lines) == 0 {
		return nil
	}

	result := &diff.Hunk{
		Section:  original.Section,
		Lines:    lines,
		OldStart: blockStart(original, startIdx, lines[0].OldLineNum, oldSide),
		NewStart: blockStart(original, startIdx, lines[0].NewLineNum, newSide),
	}

	result.RecalculateLineCounts()

	return result
}

type side int

const (
	oldSide side = iota
	newSide
)

// blockStart picks the hunk-header start for one side. If the block's
// first line exists on that side its own number is used; otherwise (an
// addition opening the old side, or a deletion opening the new side) the
// nearest preceding line that does exist there anchors it.
func blockStart(original *diff.Hunk, startIdx, firstNum int, s side) int {
	if firstNum > 0 {
		return firstNum
	}

	for i := startIdx - 1; i >= 0; i-- {
		n := original.Lines[i].OldLineNum
		if s == newSide {
			n = original.Lines[i].NewLineNum
		}

		if n > 0 {
			return n + 1
		}
	}

	if s == newSide {
		return original.NewStart
	}

	return original.OldStart
}

// GenerateForFile builds a patch carrying every change in one file.
func GenerateForFile(file *diff.FileDiff) []byte {
	var buf bytes.Buffer

	writeFileHeaderBare(&buf, file)
	for _, hunk := range file.Hunks {
		writeHunkBody(&buf, hunk)
	}

	return buf.Bytes()
}

// GenerateForHunk builds a patch carrying a single hunk of one file.
func GenerateForHunk(file *diff.FileDiff, hunk *diff.Hunk) []byte {
	var buf bytes.Buffer

	writeFileHeaderBare(&buf, file)
	writeHunkBody(&buf, hunk)

	return buf.Bytes()
}

// writeFileHeaderBare emits the ---/+++ pair without a diff --git line;
// `git apply` accepts either form.
func writeFileHeaderBare(buf *bytes.Buffer, file *diff.FileDiff) {
	fmt.Fprintf(buf, "--- a/%s\n", file.OldName)
	fmt.Fprintf(buf, "+++ b/%s\n", file.NewName)
}

// writeHunkBody emits the @@ header and every body line.
func writeHunkBody(buf *bytes.Buffer, hunk *diff.Hunk) {
	buf.WriteString(hunk.Header())
	buf.WriteByte('\n')

	for _, line := range hunk.Lines {
		buf.WriteString(line.String())
		buf.WriteByte('\n')
	}
}

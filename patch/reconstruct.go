package patch

import (
	"bytes"
	"fmt"

	"github.com/fenwick-software/gitcore/diff"
)

// ForHunk emits a minimal valid unified diff containing exactly one hunk of
// file. Counts in the hunk header match
// the emitted body exactly because the hunk is reproduced unmodified.
func ForHunk(file *diff.FileDiff, hunkIndex int) (string, error) {
	if hunkIndex < 0 || hunkIndex >= len(file.Hunks) {
		return "", fmt.Errorf("hunk index %d out of range (%d hunks)", hunkIndex, len(file.Hunks))
	}

	hunk := file.Hunks[hunkIndex]

	var buf bytes.Buffer
	writeFileHeader(&buf, file)
	writeHunk(&buf, hunk)

	return buf.String(), nil
}

// ForLines emits a patch that acts only on the change lines named by
// selectedIDs, keyed by DiffLine.ID (the stable identity assigned
// during parsing; line numbers would collide for a paired
// deletion/addition). The rules:
//   - unselected additions are dropped entirely
//   - unselected deletions are demoted to context (kept on both sides)
//   - context lines pass through unchanged
//
// Returns the empty string if the reconstruction would contain no
// effective change; callers skip empty patches.
func ForLines(file *diff.FileDiff, hunkIndex int, selectedIDs map[int]bool) (string, error) {
	if hunkIndex < 0 || hunkIndex >= len(file.Hunks) {
		return "", fmt.Errorf("hunk index %d out of range (%d hunks)", hunkIndex, len(file.Hunks))
	}

	original := file.Hunks[hunkIndex]

	var lines []diff.DiffLine
	var contextCount, deletionsEmitted, deletionsDemoted, additionsEmitted int
	anyChange := false

	for _, line := range original.Lines {
		switch line.Op {
		case diff.OpContext:
			lines = append(lines, line)
			contextCount++

		case diff.OpAdd:
			if selectedIDs[line.ID] {
				lines = append(lines, line)
				additionsEmitted++
				anyChange = true
			}
			// Unselected addition: dropped entirely.

		case diff.OpDelete:
			if selectedIDs[line.ID] {
				lines = append(lines, line)
				deletionsEmitted++
				anyChange = true
			} else {
				// Demoted to context: present on both sides.
				demoted := line
				demoted.Op = diff.OpContext
				demoted.NewLineNum = demoted.OldLineNum
				lines = append(lines, demoted)
				deletionsDemoted++
			}
		}
	}

	if !anyChange {
		return "", nil
	}

	oldCount := contextCount + deletionsDemoted + deletionsEmitted
	newCount := contextCount + deletionsDemoted + additionsEmitted

	result := &diff.Hunk{
		OldStart: original.OldStart,
		OldLines: oldCount,
		NewStart: original.NewStart,
		NewLines: newCount,
		Section:  original.Section,
		Lines:    lines,
	}

	var buf bytes.Buffer
	writeFileHeader(&buf, file)
	writeHunk(&buf, result)

	return buf.String(), nil
}

func writeFileHeader(buf *bytes.Buffer, file *diff.FileDiff) {
	fmt.Fprintf(buf, "diff --git a/%s b/%s\n", file.OldName, file.NewName)
	fmt.Fprintf(buf, "--- a/%s\n", file.OldName)
	fmt.Fprintf(buf, "+++ b/%s\n", file.NewName)
}

func writeHunk(buf *bytes.Buffer, hunk *diff.Hunk) {
	buf.WriteString(hunk.Header())
	buf.WriteByte('\n')

	for _, line := range hunk.Lines {
		buf.WriteString(line.String())
		buf.WriteByte('\n')
	}
}

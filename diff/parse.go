package diff

import (
	"bytes"
	"fmt"
	"iter"
	"strings"

	godiff "github.com/sourcegraph/go-diff/diff"
)

// ParsedDiff is the structured form of a multi-file unified diff.
type ParsedDiff struct {
	files []*FileDiff
}

// Parse turns unified-diff text into a ParsedDiff. Blank input yields an
// empty ParsedDiff rather than an error, since `git diff` on a clean
// comparison prints nothing.
func Parse(diffText string) (*ParsedDiff, error) {
	if strings.TrimSpace(diffText) == "" {
		return &ParsedDiff{}, nil
	}

	raw, err := godiff.ParseMultiFileDiff([]byte(diffText))
	if err != nil {
		return nil, fmt.Errorf("failed to parse diff: %w", err)
	}

	parsed := &ParsedDiff{files: make([]*FileDiff, 0, len(raw))}
	for _, f := range raw {
		parsed.files = append(parsed.files, fileFromGoDiff(f))
	}

	return parsed, nil
}

// Files returns an iterator over all file diffs.
func (d *ParsedDiff) Files() iter.Seq[*FileDiff] {
	return func(yield func(*FileDiff) bool) {
		for _, f := range d.files {
			if !yield(f) {
				return
			}
		}
	}
}

// FilesWithIndex returns an iterator with indices.
func (d *ParsedDiff) FilesWithIndex() iter.Seq2[int, *FileDiff] {
	return func(yield func(int, *FileDiff) bool) {
		for i, f := range d.files {
			if !yield(i, f) {
				return
			}
		}
	}
}

// FileCount returns the number of files in the diff.
func (d *ParsedDiff) FileCount() int {
	return len(d.files)
}

// FileByPath finds a file diff by its canonical, old, or new path.
func (d *ParsedDiff) FileByPath(path string) *FileDiff {
	for _, f := range d.files {
		if f.Path() == path || f.OldName == path || f.NewName == path {
			return f
		}
	}

	return nil
}

// AllFiles returns a slice of all file diffs.
func (d *ParsedDiff) AllFiles() []*FileDiff {
	return d.files
}

// Stats returns total addition and deletion counts across all files.
func (d *ParsedDiff) Stats() (added, deleted int) {
	for _, f := range d.files {
		a, del := f.Stats()
		added += a
		deleted += del
	}

	return added, deleted
}

// LineWithContext pairs a diff line with its position in the whole diff.
type LineWithContext struct {
	// GlobalIndex is the index of this line across all files.
	GlobalIndex int

	// File is the file containing this line.
	File *FileDiff

	// HunkIndex is the index of the hunk within the file.
	HunkIndex int

	// LineIndex is the index of the line within the hunk.
	LineIndex int

	// Line is the actual diff line.
	Line DiffLine
}

// LinesWithContext returns an iterator over every line of every hunk,
// in document order.
func (d *ParsedDiff) LinesWithContext() iter.Seq[LineWithContext] {
	return func(yield func(LineWithContext) bool) {
		global := 0

		for _, f := range d.files {
			for hi, hunk := range f.Hunks {
				for li, line := range hunk.Lines {
					lc := LineWithContext{
						GlobalIndex: global,
						File:        f,
						HunkIndex:   hi,
						LineIndex:   li,
						Line:        line,
					}
					if !yield(lc) {
						return
					}
					global++
				}
			}
		}
	}
}

// fileFromGoDiff maps one go-diff file entry onto FileDiff, deriving the
// new/deleted/renamed/binary flags from the header material.
func fileFromGoDiff(f *godiff.FileDiff) *FileDiff {
	fd := &FileDiff{
		OldName: trimDiffPrefix(f.OrigName),
		NewName: trimDiffPrefix(f.NewName),
	}

	fd.IsNew = f.OrigName == "/dev/null"
	fd.IsDeleted = f.NewName == "/dev/null"

	for _, ex := range f.Extended {
		switch {
		case strings.HasPrefix(ex, "new file mode"):
			fd.IsNew = true
		case strings.HasPrefix(ex, "deleted file mode"):
			fd.IsDeleted = true
		case strings.Contains(ex, "Binary files"):
			fd.IsBinary = true
		}
	}

	fd.IsRenamed = fd.OldName != fd.NewName && !fd.IsNew && !fd.IsDeleted

	// Line ids run sequentially across the whole file diff, so they stay
	// unique within every hunk and unambiguous at the file level.
	nextID := 0
	for _, h := range f.Hunks {
		fd.Hunks = append(fd.Hunks, hunkFromGoDiff(h, &nextID))
	}

	return fd
}

// hunkFromGoDiff rebuilds a hunk's line list from its raw body,
// classifying each line by its origin byte and advancing the old/new
// line counters the way unified diff defines: context advances both,
// an addition only the new side, a deletion only the old side. Each
// body line is stamped with the next sequential id from nextID.
func hunkFromGoDiff(h *godiff.Hunk, nextID *int) *Hunk {
	hunk := &Hunk{
		OldStart: int(h.OrigStartLine),
		OldLines: int(h.OrigLines),
		NewStart: int(h.NewStartLine),
		NewLines: int(h.NewLines),
		Section:  h.Section,
	}

	oldNum := hunk.OldStart
	newNum := hunk.NewStart

	for _, raw := range bytes.Split(h.Body, []byte("\n")) {
		if len(raw) == 0 {
			continue
		}

		content := string(raw[1:])
		line := DiffLine{ID: *nextID, Content: content}

		switch raw[0] {
		case ' ':
			line.Op = OpContext
			line.OldLineNum = oldNum
			line.NewLineNum = newNum
			oldNum++
			newNum++

		case '+':
			line.Op = OpAdd
			line.NewLineNum = newNum
			newNum++

		case '-':
			line.Op = OpDelete
			line.OldLineNum = oldNum
			oldNum++

		default:
			// "\ No newline at end of file" and anything else that is
			// not a body line.
			continue
		}

		hunk.Lines = append(hunk.Lines, line)
		*nextID++
	}

	return hunk
}

// trimDiffPrefix removes git's "a/" or "b/" path prefix.
func trimDiffPrefix(path string) string {
	if strings.HasPrefix(path, "a/") || strings.HasPrefix(path, "b/") {
		return path[2:]
	}

	return path
}

package diff

import (
	"fmt"
	"iter"
	"strings"

	"github.com/fenwick-software/gitcore/model"
)

// FileDiff is every change to one file within a parsed diff.
type FileDiff struct {
	// OldName/NewName are the two sides' paths, a/ and b/ prefixes
	// already stripped.
	OldName string
	NewName string

	// Hunks are the file's change regions, in order.
	Hunks []*Hunk

	// IsBinary marks a binary file (no hunks).
	IsBinary bool

	// IsNew marks a file created by this diff.
	IsNew bool

	// IsDeleted marks a file removed by this diff.
	IsDeleted bool

	// IsRenamed marks a rename (differing paths, neither side null).
	IsRenamed bool
}

// Path returns the canonical file path: the old name for a deletion,
// the new name otherwise.
func (f *FileDiff) Path() string {
	if f.IsDeleted {
		return f.OldName
	}

	return f.NewName
}

// AllHunks yields each hunk with its index.
func (f *FileDiff) AllHunks() iter.Seq2[int, *Hunk] {
	return func(yield func(int, *Hunk) bool) {
		for i, hunk := range f.Hunks {
			if !yield(i, hunk) {
				return
			}
		}
	}
}

// AllLines yields every body line across all hunks as
// (hunk index, line) pairs.
func (f *FileDiff) AllLines() iter.Seq2[int, DiffLine] {
	return func(yield func(int, DiffLine) bool) {
		for i, hunk := range f.Hunks {
			for _, line := range hunk.Lines {
				if !yield(i, line) {
					return
				}
			}
		}
	}
}

// AllChanges yields only the add/delete lines across all hunks, as
// (hunk index, line) pairs.
func (f *FileDiff) AllChanges() iter.Seq2[int, DiffLine] {
	return func(yield func(int, DiffLine) bool) {
		for i, hunk := range f.Hunks {
			for line := range hunk.Changes() {
				if !yield(i, line) {
					return
				}
			}
		}
	}
}

// ToModel converts this file diff into the summary form used by facade
// file-list operations.
func (f *FileDiff) ToModel() model.DiffFile {
	added, deleted := f.Stats()

	return model.DiffFile{
		Path:      f.Path(),
		Additions: added,
		Deletions: deleted,
	}
}

// Stats sums addition and deletion counts over every hunk.
func (f *FileDiff) Stats() (added, deleted int) {
	for _, hunk := range f.Hunks {
		a, d := hunk.Stats()
		added += a
		deleted += d
	}

	return added, deleted
}

// HunkContainingLine returns the hunk holding the change with the
// stable line id, or nil if none does. Ids are unique across the whole
// file diff, so at most one hunk matches.
func (f *FileDiff) HunkContainingLine(id int) *Hunk {
	for _, hunk := range f.Hunks {
		if hunk.ContainsLine(id) {
			return hunk
		}
	}

	return nil
}

// HunksInRange returns the hunks with at least one change whose id
// falls inside [start, end].
func (f *FileDiff) HunksInRange(start, end int) []*Hunk {
	var result []*Hunk

	for _, hunk := range f.Hunks {
		if hunk.ContainsRange(start, end) {
			result = append(result, hunk)
		}
	}

	return result
}

// Format renders the file diff back into unified diff text.
func (f *FileDiff) Format() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "--- a/%s\n", f.OldName)
	fmt.Fprintf(&sb, "+++ b/%s\n", f.NewName)

	for _, hunk := range f.Hunks {
		sb.WriteString(hunk.Header())
		sb.WriteByte('\n')

		for _, line := range hunk.Lines {
			sb.WriteString(line.String())
			sb.WriteByte('\n')
		}
	}

	return sb.String()
}

package diff

import (
	"fmt"
	"iter"
)

// Hunk is one contiguous change region of a file, opened by an
// @@ -a,b +c,d @@ header.
type Hunk struct {
	// OldStart/OldLines are the old side's start line and line count.
	OldStart int
	OldLines int

	// NewStart/NewLines are the new side's start line and line count.
	NewStart int
	NewLines int

	// Section is the optional trailing header text (usually the
	// enclosing function name).
	Section string

	// Lines holds the hunk body in order.
	Lines []DiffLine
}

// Header renders the @@ line back into unified diff form.
func (h *Hunk) Header() string {
	header := fmt.Sprintf(
		"@@ -%d,%d +%d,%d @@",
		h.OldStart, h.OldLines, h.NewStart, h.NewLines,
	)
	if h.Section != "" {
		header += " " + h.Section
	}

	return header
}

// All returns an iterator over the hunk body in order.
func (h *Hunk) All() iter.Seq[DiffLine] {
	return func(yield func(DiffLine) bool) {
		for _, line := range h.Lines {
			if !yield(line) {
				return
			}
		}
	}
}

// Changes yields only the add/delete lines.
func (h *Hunk) Changes() iter.Seq[DiffLine] {
	return FilteredLines(h.All(), DiffLine.IsChange)
}

// Additions yields only the added lines.
func (h *Hunk) Additions() iter.Seq[DiffLine] {
	return FilteredLines(h.All(), func(l DiffLine) bool { return l.Op == OpAdd })
}

// Deletions yields only the deleted lines.
func (h *Hunk) Deletions() iter.Seq[DiffLine] {
	return FilteredLines(h.All(), func(l DiffLine) bool { return l.Op == OpDelete })
}

// Stats counts the hunk's additions and deletions. Context lines and
// headers never count.
func (h *Hunk) Stats() (added, deleted int) {
	for _, line := range h.Lines {
		switch line.Op {
		case OpAdd:
			added++
		case OpDelete:
			deleted++
		}
	}

	return added, deleted
}

// CanSplit reports whether the hunk holds two change islands separated
// by context, i.e. whether Split would produce more than one hunk.
func (h *Hunk) CanSplit() bool {
	inChange := false
	hasGap := false

	for _, line := range h.Lines {
		if line.IsContext() {
			hasGap = hasGap || inChange

			continue
		}

		if hasGap {
			return true
		}
		inChange = true
	}

	return false
}

// Split breaks this hunk at every run of context lines that separates two
// change islands, the same boundary CanSplit detects. The shared context
// between two islands is divided roughly in half so each resulting hunk
// keeps context on both sides, matching how `git add -p` offers to split a
// hunk rather than discarding the context entirely. Returns a single-element
// slice containing h unchanged when there is no split point.
func (h *Hunk) Split() []*Hunk {
	if !h.CanSplit() {
		return []*Hunk{h}
	}

	type island struct {
		isChange bool
		lines    []DiffLine
	}

	var islands []island
	for chunk := range ChunkByOp(h.All()) {
		isChange := !chunk[0].IsContext()
		if isChange && len(islands) > 0 && islands[len(islands)-1].isChange {
			islands[len(islands)-1].lines = append(islands[len(islands)-1].lines, chunk...)

			continue
		}

		islands = append(islands, island{isChange: isChange, lines: chunk})
	}

	var result []*Hunk
	var pending []DiffLine

	for i, isl := range islands {
		if isl.isChange {
			pending = append(pending, isl.lines...)

			continue
		}

		if i == 0 || i == len(islands)-1 {
			// Leading or trailing context stays attached in full.
			pending = append(pending, isl.lines...)

			continue
		}

		// Context between two change islands: the first half closes out
		// the sub-hunk in progress, the rest opens the next one.
		mid := (len(isl.lines) + 1) / 2
		pending = append(pending, isl.lines[:mid]...)
		result = append(result, buildSplitHunk(h, pending))
		pending = append([]DiffLine(nil), isl.lines[mid:]...)
	}

	if len(pending) > 0 {
		result = append(result, buildSplitHunk(h, pending))
	}

	return result
}

// buildSplitHunk constructs a sub-hunk from a contiguous slice of the
// original hunk's lines, inheriting start line numbers from the first line
// that carries one.
func buildSplitHunk(original *Hunk, lines []DiffLine) *Hunk {
	result := &Hunk{
		Section: original.Section,
		Lines:   append([]DiffLine(nil), lines...),
	}

	result.OldStart = original.OldStart
	for _, l := range lines {
		if l.OldLineNum > 0 {
			result.OldStart = l.OldLineNum
			break
		}
	}

	result.NewStart = original.NewStart
	for _, l := range lines {
		if l.NewLineNum > 0 {
			result.NewStart = l.NewLineNum
			break
		}
	}

	result.RecalculateLineCounts()

	return result
}

// ContainsLine reports whether any change in the hunk carries the
// stable line id.
func (h *Hunk) ContainsLine(id int) bool {
	return Any(h.Changes(), func(l DiffLine) bool {
		return l.ID == id
	})
}

// ContainsRange reports whether any change's id falls inside
// [start, end].
func (h *Hunk) ContainsRange(start, end int) bool {
	return Any(h.Changes(), func(l DiffLine) bool {
		return l.ID >= start && l.ID <= end
	})
}

// LineByID returns the body line carrying the stable id.
func (h *Hunk) LineByID(id int) (DiffLine, bool) {
	return FindFirst(h.All(), func(l DiffLine) bool { return l.ID == id })
}

// RecalculateLineCounts rederives OldLines/NewLines from the body, for
// hunks whose Lines were filtered or rebuilt.
func (h *Hunk) RecalculateLineCounts() {
	h.OldLines, h.NewLines = 0, 0

	for _, line := range h.Lines {
		switch line.Op {
		case OpContext:
			h.OldLines++
			h.NewLines++
		case OpAdd:
			h.NewLines++
		case OpDelete:
			h.OldLines++
		}
	}
}

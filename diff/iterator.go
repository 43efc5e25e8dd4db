package diff

import "iter"

// FilteredLines yields only the lines pred accepts.
func FilteredLines(
	lines iter.Seq[DiffLine], pred func(DiffLine) bool,
) iter.Seq[DiffLine] {

	return func(yield func(DiffLine) bool) {
		for line := range lines {
			if pred(line) && !yield(line) {
				return
			}
		}
	}
}

// MapLines yields fn applied to each line.
func MapLines[T any](
	lines iter.Seq[DiffLine], fn func(DiffLine) T,
) iter.Seq[T] {

	return func(yield func(T) bool) {
		for line := range lines {
			if !yield(fn(line)) {
				return
			}
		}
	}
}

// CollectLines drains an iterator into a slice.
func CollectLines(lines iter.Seq[DiffLine]) []DiffLine {
	var out []DiffLine
	for line := range lines {
		out = append(out, line)
	}

	return out
}

// CountLines counts the lines an iterator yields.
func CountLines(lines iter.Seq[DiffLine]) int {
	n := 0
	for range lines {
		n++
	}

	return n
}

// TakeLines yields at most the first n lines.
func TakeLines(lines iter.Seq[DiffLine], n int) iter.Seq[DiffLine] {
	return func(yield func(DiffLine) bool) {
		taken := 0
		for line := range lines {
			if taken >= n || !yield(line) {
				return
			}
			taken++
		}
	}
}

// SkipLines yields everything after the first n lines.
func SkipLines(lines iter.Seq[DiffLine], n int) iter.Seq[DiffLine] {
	return func(yield func(DiffLine) bool) {
		seen := 0
		for line := range lines {
			seen++
			if seen <= n {
				continue
			}

			if !yield(line) {
				return
			}
		}
	}
}

// ChunkByOp groups consecutive lines sharing the same operation into
// slices, yielding each group as the operation changes.
func ChunkByOp(lines iter.Seq[DiffLine]) iter.Seq[[]DiffLine] {
	return func(yield func([]DiffLine) bool) {
		var chunk []DiffLine

		for line := range lines {
			if len(chunk) > 0 && line.Op != chunk[0].Op {
				if !yield(chunk) {
					return
				}
				chunk = nil
			}

			chunk = append(chunk, line)
		}

		if len(chunk) > 0 {
			yield(chunk)
		}
	}
}

// ZipWithIndex pairs each line with its position in the stream.
func ZipWithIndex(lines iter.Seq[DiffLine]) iter.Seq2[int, DiffLine] {
	return func(yield func(int, DiffLine) bool) {
		i := 0
		for line := range lines {
			if !yield(i, line) {
				return
			}
			i++
		}
	}
}

// LinesInRange yields lines whose effective side's number falls inside
// [start, end]: the old side for deletions, the new side otherwise.
func LinesInRange(lines iter.Seq[DiffLine], start, end int) iter.Seq[DiffLine] {
	return FilteredLines(lines, func(line DiffLine) bool {
		n := line.NewLineNum
		if line.Op == OpDelete {
			n = line.OldLineNum
		}

		return n >= start && n <= end
	})
}

// SelectedLines yields the lines covered by sel, matching deletions on
// their old-side number and everything else on the new side.
func SelectedLines(
	lines iter.Seq[DiffLine], sel *FileSelection,
) iter.Seq[DiffLine] {

	return FilteredLines(lines, func(line DiffLine) bool {
		if line.Op == OpDelete {
			return sel.Contains(line.OldLineNum)
		}

		return sel.Contains(line.NewLineNum)
	})
}

// ForEach applies fn to every line.
func ForEach(lines iter.Seq[DiffLine], fn func(DiffLine)) {
	for line := range lines {
		fn(line)
	}
}

// Any reports whether some line satisfies pred.
func Any(lines iter.Seq[DiffLine], pred func(DiffLine) bool) bool {
	for line := range lines {
		if pred(line) {
			return true
		}
	}

	return false
}

// All reports whether every line satisfies pred.
func All(lines iter.Seq[DiffLine], pred func(DiffLine) bool) bool {
	for line := range lines {
		if !pred(line) {
			return false
		}
	}

	return true
}

// FindFirst returns the first line satisfying pred.
func FindFirst(
	lines iter.Seq[DiffLine], pred func(DiffLine) bool,
) (DiffLine, bool) {

	for line := range lines {
		if pred(line) {
			return line, true
		}
	}

	return DiffLine{}, false
}

package diff

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// LineRange is an inclusive range of line numbers.
type LineRange struct {
	Start int
	End   int
}

// Contains reports whether lineNum falls inside the range.
func (r LineRange) Contains(lineNum int) bool {
	return lineNum >= r.Start && lineNum <= r.End
}

// String renders the range as "10-20", or just "15" for a single line.
func (r LineRange) String() string {
	if r.Start == r.End {
		return strconv.Itoa(r.Start)
	}

	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// FileSelection names a file and the line ranges selected within it.
type FileSelection struct {
	Path   string
	Ranges []LineRange
}

// ParseFileSelection parses "FILE:LINES" syntax:
//   - "main.go:10-20" selects lines 10 through 20
//   - "main.go:10,15,20-25" selects lines 10, 15, and 20 through 25
//   - "main.go:10" selects line 10 alone
func ParseFileSelection(s string) (*FileSelection, error) {
	// Split on the last colon so Windows paths like C:\src\file.go:10
	// keep their drive letter.
	lastColon := strings.LastIndex(s, ":")
	if lastColon == -1 {
		return nil, fmt.Errorf(
			"invalid selection syntax: expected FILE:LINES, got %q", s,
		)
	}

	path, rangeSpec := s[:lastColon], s[lastColon+1:]

	if path == "" {
		return nil, fmt.Errorf("empty file path in selection: %q", s)
	}
	if rangeSpec == "" {
		return nil, fmt.Errorf("empty line range in selection: %q", s)
	}

	var ranges []LineRange
	for _, part := range strings.Split(rangeSpec, ",") {
		r, err := parseRange(part)
		if err != nil {
			return nil, fmt.Errorf("invalid range %q in %q: %w", part, s, err)
		}

		ranges = append(ranges, r)
	}

	return &FileSelection{Path: path, Ranges: ranges}, nil
}

// parseRange parses "10" or "10-20" into a LineRange.
func parseRange(s string) (LineRange, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return LineRange{}, fmt.Errorf("empty range")
	}

	start, end := s, s
	if dash := strings.Index(s, "-"); dash != -1 {
		start, end = s[:dash], s[dash+1:]
	}

	lo, err := strconv.Atoi(strings.TrimSpace(start))
	if err != nil {
		return LineRange{}, fmt.Errorf("invalid start line: %w", err)
	}

	hi, err := strconv.Atoi(strings.TrimSpace(end))
	if err != nil {
		return LineRange{}, fmt.Errorf("invalid end line: %w", err)
	}

	if lo > hi {
		return LineRange{}, fmt.Errorf(
			"start line %d greater than end line %d", lo, hi,
		)
	}
	if lo < 1 {
		return LineRange{}, fmt.Errorf("line numbers must be positive")
	}

	return LineRange{Start: lo, End: hi}, nil
}

// Contains reports whether any of the selection's ranges covers lineNum.
func (fs *FileSelection) Contains(lineNum int) bool {
	for _, r := range fs.Ranges {
		if r.Contains(lineNum) {
			return true
		}
	}

	return false
}

// String renders the selection back into FILE:LINES form.
func (fs *FileSelection) String() string {
	parts := make([]string, 0, len(fs.Ranges))
	for _, r := range fs.Ranges {
		parts = append(parts, r.String())
	}

	return fs.Path + ":" + strings.Join(parts, ",")
}

// AllLines expands the ranges into individual line numbers.
func (fs *FileSelection) AllLines() []int {
	var lines []int

	for _, r := range fs.Ranges {
		for i := r.Start; i <= r.End; i++ {
			lines = append(lines, i)
		}
	}

	return lines
}

// Merge collapses overlapping and adjacent ranges in place.
func (fs *FileSelection) Merge() {
	if len(fs.Ranges) <= 1 {
		return
	}

	sort.Slice(fs.Ranges, func(i, j int) bool {
		return fs.Ranges[i].Start < fs.Ranges[j].Start
	})

	merged := fs.Ranges[:1]
	for _, cur := range fs.Ranges[1:] {
		last := &merged[len(merged)-1]

		if cur.Start <= last.End+1 {
			if cur.End > last.End {
				last.End = cur.End
			}

			continue
		}

		merged = append(merged, cur)
	}

	fs.Ranges = merged
}

// ParseSelections parses multiple FILE:LINES arguments.
func ParseSelections(args []string) ([]*FileSelection, error) {
	selections := make([]*FileSelection, 0, len(args))

	for _, arg := range args {
		sel, err := ParseFileSelection(arg)
		if err != nil {
			return nil, err
		}

		selections = append(selections, sel)
	}

	return selections, nil
}

// SelectionMap indexes selections by file path.
type SelectionMap map[string]*FileSelection

// NewSelectionMap builds a SelectionMap, merging ranges when the same
// file appears more than once.
func NewSelectionMap(selections []*FileSelection) SelectionMap {
	m := make(SelectionMap)

	for _, sel := range selections {
		existing, ok := m[sel.Path]
		if !ok {
			m[sel.Path] = sel

			continue
		}

		existing.Ranges = append(existing.Ranges, sel.Ranges...)
		existing.Merge()
	}

	return m
}

// Get returns the selection for a file path, or nil if not found.
func (m SelectionMap) Get(path string) *FileSelection {
	return m[path]
}

// Contains reports whether a specific line in a file is selected.
func (m SelectionMap) Contains(path string, lineNum int) bool {
	sel, ok := m[path]
	if !ok {
		return false
	}

	return sel.Contains(lineNum)
}

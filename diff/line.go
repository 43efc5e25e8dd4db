// Package diff parses unified diffs into structured files, hunks, and
// lines, and produces the diffs themselves at commit, index, and
// working-tree granularity.
package diff

import (
	"fmt"
	"strconv"
)

// LineOp classifies a diff body line.
type LineOp int

const (
	// OpContext is an unchanged line present on both sides.
	OpContext LineOp = iota
	// OpAdd is a line present only on the new side.
	OpAdd
	// OpDelete is a line present only on the old side.
	OpDelete
)

// String returns the operation's name.
func (op LineOp) String() string {
	switch op {
	case OpContext:
		return "context"
	case OpAdd:
		return "add"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Prefix returns the origin byte unified diff uses for this operation.
func (op LineOp) Prefix() byte {
	switch op {
	case OpAdd:
		return '+'
	case OpDelete:
		return '-'
	default:
		return ' '
	}
}

// DiffLine is a single body line of a hunk.
type DiffLine struct {
	// ID is the line's stable identity, assigned sequentially during
	// parsing. IDs are unique within a file diff (and therefore within a
	// hunk) and identical across repeated parses of the same diff text.
	// Line numbers cannot serve here: a deletion's old-side number and
	// an addition's new-side number collide for an ordinary one-line
	// modification.
	ID int

	// Op classifies the line (context, add, delete).
	Op LineOp

	// Content is the line without its origin byte.
	Content string

	// OldLineNum is the 1-based line number on the old side; zero for an
	// added line.
	OldLineNum int

	// NewLineNum is the 1-based line number on the new side; zero for a
	// deleted line.
	NewLineNum int
}

// String renders the line back into unified diff form.
func (l DiffLine) String() string {
	return string(l.Op.Prefix()) + l.Content
}

// LineRef returns a parseable "OLD:NEW" reference for this line, with
// "-" standing in for a side the line does not exist on.
func (l DiffLine) LineRef() string {
	old, newNum := "-", "-"

	if l.OldLineNum > 0 {
		old = strconv.Itoa(l.OldLineNum)
	}
	if l.NewLineNum > 0 {
		newNum = strconv.Itoa(l.NewLineNum)
	}

	return old + ":" + newNum
}

// IsChange reports whether the line is an addition or a deletion.
func (l DiffLine) IsChange() bool {
	return l.Op != OpContext
}

// IsContext reports whether the line is unchanged context.
func (l DiffLine) IsContext() bool {
	return l.Op == OpContext
}

// EffectiveLineNum is the file line number a user-facing selection
// (e.g. "main.go:10-15") matches against: the new-side number for
// additions, the old-side number otherwise. It is NOT unique within a
// hunk; use ID when an individual line must be identified.
func (l DiffLine) EffectiveLineNum() int {
	if l.Op == OpAdd {
		return l.NewLineNum
	}

	return l.OldLineNum
}

// Format renders the line with aligned old/new line-number columns.
func (l DiffLine) Format() string {
	numCol := func(n int) string {
		if n > 0 {
			return fmt.Sprintf("%4d", n)
		}

		return "    "
	}

	return fmt.Sprintf(
		"%s %s %c%s",
		numCol(l.OldLineNum), numCol(l.NewLineNum), l.Op.Prefix(), l.Content,
	)
}

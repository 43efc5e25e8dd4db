// Package graph renders commit topology: a stateful
// per-row lane allocator that turns an ordered commit stream into branch
// -topology drawing instructions, plus the LazyGraphProcessor that extends
// it incrementally as rows scroll into view.
//
// Lanes are *lane pointers: previousLanes and currentLanes are []*lane
// slices that share the same lane values within a row, and a nil entry
// marks a vacated column. Lanes are not kept in an arena and carry no
// integer handles.
package graph

import "github.com/fenwick-software/gitcore/model"

// GraphLine is one segment drawn in a row.
type GraphLine struct {
	Upper             bool
	From              int
	To                int
	ColorIndex        int
	IsUncommittedLink bool
}

// Entry is the per-commit layout result.
type Entry struct {
	Position      int
	DotColorIndex int
	Lines         []GraphLine
	NumColumns    int
	IsUncommitted bool
}

// lane is an arena-resident slot; a nil *lane in a slice position marks
// a vacated column.
type lane struct {
	parentHash      string
	colorIndex      int
	fromUncommitted bool
}

// Engine is the stateful lane allocator. Zero value is ready to use.
type Engine struct {
	previousLanes []*lane
	nextColor     int
}

// NewEngine returns a freshly reset Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Reset discards all lane state. Required whenever commit order changes or
// the synthetic uncommitted entry is inserted/removed; a pure append
// never requires it.
func (e *Engine) Reset() {
	e.previousLanes = nil
	e.nextColor = 0
}

// Process consumes one commit and returns the row's layout entry.
func (e *Engine) Process(commit model.CommitInfo) Entry {
	var currentLanes []*lane
	var lines []GraphLine

	newPos := -1
	dotColor := 0
	didFirst := false

	// Step 2: walk previous_lanes, 1-indexed.
	for i, l := range e.previousLanes {
		pos := i + 1

		if l == nil {
			continue
		}

		if l.parentHash == commit.Hash {
			if !didFirst {
				currentLanes = append(currentLanes, l)
				newPos = len(currentLanes)
				dotColor = l.colorIndex
				didFirst = true

				lines = append(lines, GraphLine{
					Upper: true, From: pos, To: newPos,
					ColorIndex:        l.colorIndex,
					IsUncommittedLink: l.fromUncommitted,
				})

				if len(commit.ParentHashes) > 0 {
					lines = append(lines, GraphLine{
						Upper: false, From: newPos, To: newPos,
						ColorIndex: l.colorIndex,
					})
				}

				l.fromUncommitted = false
			} else {
				lines = append(lines, GraphLine{
					Upper: true, From: pos, To: newPos,
					ColorIndex:        l.colorIndex,
					IsUncommittedLink: l.fromUncommitted,
				})
			}

			continue
		}

		// Pass-through.
		currentLanes = append(currentLanes, l)
		col := len(currentLanes)

		lines = append(lines, GraphLine{
			Upper: true, From: pos, To: col,
			ColorIndex:        l.colorIndex,
			IsUncommittedLink: l.fromUncommitted,
		})
		lines = append(lines, GraphLine{
			Upper: false, From: col, To: col,
			ColorIndex: l.colorIndex,
		})
	}

	// Step 3: allocate a new lane for parents[0] if nothing targeted us.
	if !didFirst && len(commit.ParentHashes) > 0 {
		color := e.nextColor
		e.nextColor++

		newLane := &lane{
			parentHash:      commit.ParentHashes[0],
			colorIndex:      color,
			fromUncommitted: commit.IsUncommitted,
		}
		currentLanes = append(currentLanes, newLane)
		newPos = len(currentLanes)
		dotColor = color

		lines = append(lines, GraphLine{
			Upper: false, From: newPos, To: newPos, ColorIndex: color,
			IsUncommittedLink: commit.IsUncommitted,
		})
	}

	if newPos == -1 {
		// Root commit with no inbound lane: the dot still needs a column.
		newPos = 1
	}

	numColumns := len(currentLanes)

	// Step 4: additional parents (merges).
	for k := 1; k < len(commit.ParentHashes); k++ {
		parentHash := commit.ParentHashes[k]

		reused := false
		for _, l := range currentLanes {
			if l != nil && l.parentHash == parentHash {
				lines = append(lines, GraphLine{
					Upper: false, From: newPos, To: indexOf(currentLanes, l) + 1,
					ColorIndex: l.colorIndex,
				})
				reused = true

				break
			}
		}

		if reused {
			continue
		}

		color := e.nextColor
		e.nextColor++

		newLane := &lane{parentHash: parentHash, colorIndex: color}
		currentLanes = append(currentLanes, newLane)
		col := len(currentLanes)

		lines = append(lines, GraphLine{
			Upper: false, From: newPos, To: col, ColorIndex: color,
		})
	}

	// Step 5: the lane carrying this commit forward now targets
	// parents[0], or is freed if this is a root commit.
	if didFirst || len(commit.ParentHashes) > 0 {
		if newPos >= 1 && newPos <= len(currentLanes) && currentLanes[newPos-1] != nil {
			if len(commit.ParentHashes) > 0 {
				currentLanes[newPos-1].parentHash = commit.ParentHashes[0]
			} else {
				currentLanes[newPos-1] = nil
			}
		}
	}

	e.previousLanes = currentLanes

	return Entry{
		Position:      newPos,
		DotColorIndex: dotColor,
		Lines:         lines,
		NumColumns:    numColumns,
		IsUncommitted: commit.IsUncommitted,
	}
}

func indexOf(lanes []*lane, target *lane) int {
	for i, l := range lanes {
		if l == target {
			return i
		}
	}

	return -1
}

// LazyGraphProcessor wraps an Engine and a growing commit list, computing
// entries only as far as the caller has asked.
type LazyGraphProcessor struct {
	engine  *Engine
	commits []model.CommitInfo
	entries []Entry
	byHash  map[string]int
}

// NewLazyGraphProcessor creates an empty processor.
func NewLazyGraphProcessor() *LazyGraphProcessor {
	return &LazyGraphProcessor{
		engine: NewEngine(),
		byHash: make(map[string]int),
	}
}

// Extend appends newly-arrived commits (e.g. from CommitWalker.NextBatch)
// to the tail. This never requires a Reset.
func (p *LazyGraphProcessor) Extend(commits []model.CommitInfo) {
	p.commits = append(p.commits, commits...)
}

// Reset clears all processed state and the engine, required when commit
// order changes or the uncommitted entry is inserted/removed.
func (p *LazyGraphProcessor) Reset(commits []model.CommitInfo) {
	p.engine.Reset()
	p.commits = commits
	p.entries = nil
	p.byHash = make(map[string]int)
}

// EnsureProcessedThrough processes additional rows, if needed, so that row
// `row` (0-indexed) has a cached Entry.
func (p *LazyGraphProcessor) EnsureProcessedThrough(row int) {
	for len(p.entries) <= row && len(p.entries) < len(p.commits) {
		commit := p.commits[len(p.entries)]
		entry := p.engine.Process(commit)

		p.byHash[commit.Hash] = len(p.entries)
		p.entries = append(p.entries, entry)
	}
}

// Entry returns the cached entry for row, processing up to it first.
func (p *LazyGraphProcessor) Entry(row int) (Entry, bool) {
	p.EnsureProcessedThrough(row)

	if row < 0 || row >= len(p.entries) {
		return Entry{}, false
	}

	return p.entries[row], true
}

// EntryForHash returns the cached entry for a commit hash, if already
// processed.
func (p *LazyGraphProcessor) EntryForHash(hash string) (Entry, bool) {
	row, ok := p.byHash[hash]
	if !ok {
		return Entry{}, false
	}

	return p.entries[row], true
}

// ProcessedCount reports how many rows have been computed so far.
func (p *LazyGraphProcessor) ProcessedCount() int {
	return len(p.entries)
}

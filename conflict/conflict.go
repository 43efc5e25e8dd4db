// Package conflict tracks merge and rebase conflicts: operation
// -state detection, conflicted/resolved file enumeration across index
// stages 1/2/3 and the REUC extension, the mark-resolved/mark-conflicted
// round trip, conflict-side reconstruction, and the continue/skip/abort
// dispatch.
package conflict

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fenwick-software/gitcore/git"
	"github.com/fenwick-software/gitcore/gitrepo"
	"github.com/fenwick-software/gitcore/model"
	"github.com/fenwick-software/gitcore/repoerrors"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// KindVariant discriminates the three in-progress operation kinds.
type KindVariant int

const (
	KindNone KindVariant = iota
	KindRebase
	KindMerge
	KindStashApply
)

// Kind is the spec's ConflictKind union: Rebase, Merge{source_branch}, or
// StashApply.
type Kind struct {
	Variant      KindVariant
	SourceBranch string // set only for KindMerge
}

// Engine detects and manipulates conflict state for one repository.
type Engine struct {
	Repo     *gitrepo.Handle
	Executor git.Executor
}

// New binds an Engine to repo/executor.
func New(repo *gitrepo.Handle, executor git.Executor) *Engine {
	return &Engine{Repo: repo, Executor: executor}
}

// State detects the current operation from the repository's sentinel
// files and index. Returns KindNone when the repository is clean.
func (e *Engine) State(ctx context.Context) (Kind, error) {
	gitDir, err := e.Executor.GitDir(ctx)
	if err != nil {
		return Kind{}, fmt.Errorf("git dir: %w", err)
	}

	if exists(filepath.Join(gitDir, "rebase-merge")) || exists(filepath.Join(gitDir, "rebase-apply")) {
		return Kind{Variant: KindRebase}, nil
	}

	if exists(filepath.Join(gitDir, "MERGE_HEAD")) {
		mergeHead := strings.TrimSpace(readFileOr(filepath.Join(gitDir, "MERGE_HEAD"), ""))

		branch := parseMergeSourceBranch(gitDir)
		if branch == "" {
			// No parseable MERGE_MSG; use the local branch at MERGE_HEAD.
			branch = e.branchForHash(mergeHead)
		}
		if branch == "" {
			// No branch points there either; fall back to the raw MERGE_HEAD
			// hash so callers still have something to label the side with.
			branch = mergeHead
		}

		return Kind{Variant: KindMerge, SourceBranch: branch}, nil
	}

	conflicted, err := e.ConflictedFiles(ctx)
	if err != nil {
		return Kind{}, err
	}

	if len(conflicted) > 0 {
		return Kind{Variant: KindStashApply}, nil
	}

	return Kind{Variant: KindNone}, nil
}

// RebaseState builds a snapshot of an in-progress rebase, wiring git.Executor.RebaseStatus's onto/head-name
// bookkeeping together with the conflicted/resolved file enumeration.
// Returns nil when no rebase is in progress.
func (e *Engine) RebaseState(ctx context.Context) (*model.RebaseState, error) {
	status, err := e.Executor.RebaseStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("rebase status: %w", err)
	}

	if !status.InProgress {
		return nil, nil
	}

	conflicted, err := e.ConflictedFiles(ctx)
	if err != nil {
		return nil, err
	}

	resolved, err := e.ResolvedFiles(ctx)
	if err != nil {
		return nil, err
	}

	return &model.RebaseState{
		SourceBranch:    status.OriginalBranch,
		TargetBranch:    status.OntoRef,
		CurrentStep:     status.CompletedCount + 1,
		TotalSteps:      status.TotalCount,
		ConflictedFiles: conflicted,
		ResolvedFiles:   resolved,
	}, nil
}

// ConflictedFiles enumerates index entries currently at stages 1/2/3,
// grouped by path, each with its working-tree marker count.
func (e *Engine) ConflictedFiles(ctx context.Context) ([]model.ConflictFile, error) {
	idx, err := e.Repo.Index()
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}

	seen := make(map[string]bool)
	var out []model.ConflictFile

	// A live conflict always has an entry at stage 2 (ours) or 3 (theirs);
	// testing against stage 0/Merged is unreliable since go-git's Merged
	// constant shares its value with AncestorMode.
	for _, entry := range idx.Entries {
		if entry.Stage != index.OurMode && entry.Stage != index.TheirMode {
			continue
		}

		if seen[entry.Name] {
			continue
		}
		seen[entry.Name] = true

		out = append(out, model.ConflictFile{
			Path:          entry.Name,
			ConflictCount: e.ConflictCount(ctx, entry.Name),
		})
	}

	return out, nil
}

// ResolvedFiles enumerates the REUC extension: files that had conflict
// stages 1/2/3 at the moment they were staged as resolved.
func (e *Engine) ResolvedFiles(ctx context.Context) ([]string, error) {
	idx, err := e.Repo.Index()
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}

	if idx.ResolveUndo == nil {
		return nil, nil
	}

	var out []string
	for _, ru := range idx.ResolveUndo.Entries {
		out = append(out, ru.Path)
	}

	return out, nil
}

// ConflictCount counts "<<<<<<<" markers in the working-tree file at path,
// falling back to 1 if the file cannot be read.
func (e *Engine) ConflictCount(ctx context.Context, path string) int {
	content, err := e.Executor.ReadFile(ctx, path)
	if err != nil {
		return 1
	}

	count := strings.Count(content, "<<<<<<<")
	if count == 0 {
		return 1
	}

	return count
}

// MarkResolved stages the working-tree version at stage 0, which
// automatically moves stages 1/2/3 into REUC. REUC is never cleared
// before staging, preserving the
// "un-resolve" data.
func (e *Engine) MarkResolved(ctx context.Context, path string) error {
	if err := e.Executor.AddPath(ctx, path); err != nil {
		return fmt.Errorf("mark resolved %s: %w", path, err)
	}

	return nil
}

// MarkAllResolved resolves every currently conflicted file.
func (e *Engine) MarkAllResolved(ctx context.Context) error {
	files, err := e.ConflictedFiles(ctx)
	if err != nil {
		return err
	}

	for _, f := range files {
		if err := e.MarkResolved(ctx, f.Path); err != nil {
			return err
		}
	}

	return nil
}

// MarkConflicted reverses MarkResolved: it restores stages 1/2/3 from the
// REUC entry and regenerates conflict markers in the working tree.
// Any step failing rolls back
// and surfaces ConflictRestoreFailed. The ours/theirs labels are derived
// from kind and the repository's current operation state, not supplied by
// the caller, since a single in-progress operation only ever has one
// ours side and one theirs side.
func (e *Engine) MarkConflicted(ctx context.Context, path string, kind Kind) error {
	idx, err := e.Repo.Index()
	if err != nil {
		return &repoerrors.ConflictRestoreFailed{Stage: "read_index"}
	}

	var reucEntry *index.ResolveUndoEntry
	if idx.ResolveUndo != nil {
		for _, ru := range idx.ResolveUndo.Entries {
			if ru.Path == path {
				e := ru
				reucEntry = &e
				break
			}
		}
	}

	if reucEntry == nil {
		return &repoerrors.ConflictRestoreFailed{Stage: "find_reuc_entry"}
	}

	// Step 2: remove the path's stage-0 entry.
	if _, err := idx.Remove(path); err != nil {
		return &repoerrors.ConflictRestoreFailed{Stage: "remove_stage0"}
	}

	// Step 3: re-add index entries at stages 1/2/3 from REUC.
	for stage, hash := range reucEntry.Stages {
		entry := idx.Add(path)
		entry.Hash = hash
		entry.Stage = stage
	}

	// Step 4: regenerate conflict markers in the working tree, keeping the
	// current content so a later failure can put it back.
	original, readErr := e.Executor.ReadFile(ctx, path)
	restore := func() {
		if readErr == nil {
			_ = e.Executor.WriteWorkingFile(ctx, path, original)
		}
	}

	if err := e.writeConflictMarkers(ctx, path, reucEntry, kind); err != nil {
		restore()
		return &repoerrors.ConflictRestoreFailed{Stage: "regenerate_markers"}
	}

	// Step 5: remove the REUC entry (converted back to live conflict).
	if idx.ResolveUndo != nil {
		var remaining []index.ResolveUndoEntry
		for _, ru := range idx.ResolveUndo.Entries {
			if ru.Path != path {
				remaining = append(remaining, ru)
			}
		}
		idx.ResolveUndo.Entries = remaining
	}

	// Step 6: write the index.
	if err := e.Repo.SetIndex(idx); err != nil {
		restore()
		return &repoerrors.ConflictRestoreFailed{Stage: "write_index"}
	}

	return nil
}

// writeConflictMarkers regenerates a three-way conflict-marker file for
// path from its ancestor/ours/theirs blobs.
func (e *Engine) writeConflictMarkers(
	ctx context.Context, path string, reuc *index.ResolveUndoEntry, kind Kind,
) error {
	ancestorHash, hasAncestor := reuc.Stages[index.AncestorMode]
	oursHash, hasOurs := reuc.Stages[index.OurMode]
	theirsHash, hasTheirs := reuc.Stages[index.TheirMode]

	var ancestorText, oursText, theirsText string

	if hasAncestor {
		if blob, err := e.readBlob(ancestorHash); err == nil {
			ancestorText = blob
		}
	}

	if hasOurs {
		if blob, err := e.readBlob(oursHash); err == nil {
			oursText = blob
		}
	}

	if hasTheirs {
		if blob, err := e.readBlob(theirsHash); err == nil {
			theirsText = blob
		}
	}

	oursLabel, theirsLabel := e.Labels(ctx, kind)

	merged := mergeFileMarkers(ancestorText, oursText, theirsText, oursLabel, theirsLabel)

	return e.Executor.WriteWorkingFile(ctx, path, merged)
}

func (e *Engine) readBlob(hash plumbing.Hash) (string, error) {
	blob, err := e.Repo.Raw().BlobObject(hash)
	if err != nil {
		return "", fmt.Errorf("read blob %s: %w", hash, err)
	}

	reader, err := blob.Reader()
	if err != nil {
		return "", fmt.Errorf("open blob %s: %w", hash, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read blob content %s: %w", hash, err)
	}

	return string(data), nil
}

// Labels derives the ours/theirs labels shown in the merge view, each of
// the form "Commit <short-hash> on <branch>". For a rebase, ours comes
// from onto (and the local branch pointing at it) and theirs from
// orig-head and head-name; for a merge, ours comes from HEAD and the
// current branch and theirs from MERGE_HEAD and kind.SourceBranch. A
// stash apply gets the literal "Working tree"/"Stash" pair.
func (e *Engine) Labels(ctx context.Context, kind Kind) (ours, theirs string) {
	switch kind.Variant {
	case KindRebase:
		return e.rebaseLabels(ctx)
	case KindMerge:
		return e.mergeLabels(ctx, kind)
	case KindStashApply:
		return "Working tree", "Stash"
	default:
		return "ours", "theirs"
	}
}

func (e *Engine) rebaseLabels(ctx context.Context) (ours, theirs string) {
	state, err := e.Executor.RebaseStatus(ctx)
	if err != nil || !state.InProgress {
		return "Commit HEAD", "Commit HEAD"
	}

	oursBranch := e.branchForHash(state.OntoRef)
	if oursBranch == "" {
		oursBranch = "HEAD"
	}

	ours = fmt.Sprintf("Commit %s on %s", shortHash(state.OntoRef), oursBranch)
	theirs = fmt.Sprintf("Commit %s on %s", shortHash(state.OrigHead), state.OriginalBranch)

	return ours, theirs
}

func (e *Engine) mergeLabels(ctx context.Context, kind Kind) (ours, theirs string) {
	gitDir, err := e.Executor.GitDir(ctx)
	if err != nil {
		return "Commit HEAD", "Commit MERGE_HEAD"
	}

	headHash, _ := e.Repo.Head()
	currentBranch, _ := e.Executor.CurrentBranch(ctx)
	if currentBranch == "" {
		currentBranch = "HEAD"
	}

	ours = fmt.Sprintf("Commit %s on %s", shortHash(headHash.String()), currentBranch)

	mergeHeadHash := strings.TrimSpace(readFileOr(filepath.Join(gitDir, "MERGE_HEAD"), ""))

	theirsBranch := kind.SourceBranch
	if theirsBranch == "" || theirsBranch == mergeHeadHash {
		theirsBranch = "MERGE_HEAD"
	}

	theirs = fmt.Sprintf("Commit %s on %s", shortHash(mergeHeadHash), theirsBranch)

	return ours, theirs
}

// branchForHash returns the short name of the local branch currently
// pointing at hash, or "" if none does.
func (e *Engine) branchForHash(hash string) string {
	if hash == "" {
		return ""
	}

	branches, err := e.Repo.Branches()
	if err != nil {
		return ""
	}

	for _, b := range branches {
		if b.Hash().String() == hash {
			return b.Name().Short()
		}
	}

	return ""
}

func shortHash(hash string) string {
	if len(hash) < 7 {
		return hash
	}

	return hash[:7]
}

// parseMergeSourceBranch extracts the branch name from the first line of
// MERGE_MSG (e.g. "Merge branch 'feature' into main"), the same source
// `git status` uses to name the incoming side of a merge.
func parseMergeSourceBranch(gitDir string) string {
	msg := readFileOr(filepath.Join(gitDir, "MERGE_MSG"), "")

	line := msg
	if idx := strings.IndexByte(msg, '\n'); idx >= 0 {
		line = msg[:idx]
	}

	start := strings.IndexByte(line, '\'')
	if start == -1 {
		return ""
	}

	end := strings.IndexByte(line[start+1:], '\'')
	if end == -1 {
		return ""
	}

	return line[start+1 : start+1+end]
}

// lineBlock is one aligned segment of a two-way line diff against a
// common ancestor: either an unchanged run of ancestor lines, or a
// changed run replacing ancestor[aStart:aEnd] with lines.
type lineBlock struct {
	aStart, aEnd int
	changed      bool
	lines        []string
}

// diffBlocks runs a line-level diff of ancestor against other and
// expresses the result as blocks anchored to ancestor line positions, so
// a second diff against the same ancestor can be merged against it
// positionally.
func diffBlocks(ancestor, other string) []lineBlock {
	dmp := diffmatchpatch.New()

	ancChars, otherChars, lineArray := dmp.DiffLinesToChars(ancestor, other)
	diffs := dmp.DiffMain(ancChars, otherChars, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var blocks []lineBlock

	aPos := 0
	for i := 0; i < len(diffs); i++ {
		d := diffs[i]

		switch d.Type {
		case diffmatchpatch.DiffEqual:
			lines := splitKeepingNewlines(d.Text)
			blocks = append(blocks, lineBlock{aStart: aPos, aEnd: aPos + len(lines), lines: lines})
			aPos += len(lines)

		case diffmatchpatch.DiffDelete:
			delLines := splitKeepingNewlines(d.Text)

			var insLines []string
			if i+1 < len(diffs) && diffs[i+1].Type == diffmatchpatch.DiffInsert {
				insLines = splitKeepingNewlines(diffs[i+1].Text)
				i++
			}

			blocks = append(blocks, lineBlock{
				aStart: aPos, aEnd: aPos + len(delLines), changed: true, lines: insLines,
			})
			aPos += len(delLines)

		case diffmatchpatch.DiffInsert:
			insLines := splitKeepingNewlines(d.Text)
			blocks = append(blocks, lineBlock{aStart: aPos, aEnd: aPos, changed: true, lines: insLines})
		}
	}

	return blocks
}

// splitKeepingNewlines splits s into lines, each retaining its trailing
// "\n" so concatenating the result reproduces s exactly.
func splitKeepingNewlines(s string) []string {
	if s == "" {
		return nil
	}

	parts := strings.SplitAfter(s, "\n")
	if n := len(parts); n > 0 && parts[n-1] == "" {
		parts = parts[:n-1]
	}

	return parts
}

type changeInterval struct{ start, end int }

// mergeIntervals merges overlapping or touching ancestor-line ranges,
// the same way diff3 widens two independently-changed regions into one
// conflict hunk whenever their ancestor ranges intersect.
func mergeIntervals(in []changeInterval) []changeInterval {
	if len(in) == 0 {
		return nil
	}

	sort.Slice(in, func(i, j int) bool { return in[i].start < in[j].start })

	merged := []changeInterval{in[0]}
	for _, cur := range in[1:] {
		last := &merged[len(merged)-1]
		if cur.start <= last.end {
			if cur.end > last.end {
				last.end = cur.end
			}

			continue
		}

		merged = append(merged, cur)
	}

	return merged
}

// renderRange reconstructs one side's text over ancestor range [start,
// end): ancestor lines for the portions left untouched by segs, and a
// changed block's own replacement lines wherever segs fully covers it.
func renderRange(segs []lineBlock, start, end int, ancestorLines []string) string {
	var b strings.Builder

	for _, s := range segs {
		if s.changed {
			if s.aStart >= start && s.aEnd <= end {
				for _, l := range s.lines {
					b.WriteString(l)
				}
			}

			continue
		}

		lo, hi := s.aStart, s.aEnd
		if lo < start {
			lo = start
		}
		if hi > end {
			hi = end
		}

		for i := lo; i < hi && i < len(ancestorLines); i++ {
			b.WriteString(ancestorLines[i])
		}
	}

	return b.String()
}

// mergeFileMarkers runs an in-memory three-way merge-file over (ancestor,
// ours, theirs): ancestor is diffed separately against ours and against
// theirs, the two diffs' changed ranges are merged wherever they overlap,
// and only those differing ancestor regions are wrapped in conflict
// markers. Shared context outside a conflicting region is emitted once,
// unmarked, exactly as git's own merge-file would.
func mergeFileMarkers(ancestor, ours, theirs, oursLabel, theirsLabel string) string {
	ancestorLines := splitKeepingNewlines(ancestor)

	segsA := diffBlocks(ancestor, ours)
	segsB := diffBlocks(ancestor, theirs)

	var intervals []changeInterval
	for _, s := range segsA {
		if s.changed {
			intervals = append(intervals, changeInterval{s.aStart, s.aEnd})
		}
	}
	for _, s := range segsB {
		if s.changed {
			intervals = append(intervals, changeInterval{s.aStart, s.aEnd})
		}
	}

	regions := mergeIntervals(intervals)

	var b strings.Builder

	pos := 0
	flushContext := func(end int) {
		for i := pos; i < end && i < len(ancestorLines); i++ {
			b.WriteString(ancestorLines[i])
		}
	}

	for _, r := range regions {
		flushContext(r.start)

		oursText := renderRange(segsA, r.start, r.end, ancestorLines)
		theirsText := renderRange(segsB, r.start, r.end, ancestorLines)

		ancEnd := r.end
		if ancEnd > len(ancestorLines) {
			ancEnd = len(ancestorLines)
		}
		ancestorText := strings.Join(ancestorLines[r.start:ancEnd], "")

		// A region only one side changed (or both changed identically)
		// merges cleanly and is emitted without markers.
		if theirsText == ancestorText || theirsText == oursText {
			b.WriteString(oursText)
			pos = r.end

			continue
		}
		if oursText == ancestorText {
			b.WriteString(theirsText)
			pos = r.end

			continue
		}

		fmt.Fprintf(&b, "<<<<<<< %s\n", oursLabel)
		b.WriteString(oursText)
		if oursText != "" && !strings.HasSuffix(oursText, "\n") {
			b.WriteString("\n")
		}
		b.WriteString("=======\n")
		b.WriteString(theirsText)
		if theirsText != "" && !strings.HasSuffix(theirsText, "\n") {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, ">>>>>>> %s\n", theirsLabel)

		pos = r.end
	}

	flushContext(len(ancestorLines))

	return b.String()
}

// Sides holds the line-aligned ours/theirs reconstruction of a
// conflicted file.
type Sides struct {
	OursLabel   string
	TheirsLabel string
	OursLines   []string
	TheirsLines []string
	Regions     []Region
}

// Region is one conflicted span: half-open line ranges into the
// pre-aligned OursLines/TheirsLines.
type Region struct {
	ID          int
	OursRange   [2]int
	TheirsRange [2]int
	BaseRange   [2]int
}

// ReadConflictSides scans the working-tree file at path for conflict
// markers and reconstructs line-aligned ours/theirs sequences plus their
// regions. Outside a region both sequences carry the shared context;
// after a region the shorter side is padded with empty strings so the
// two stay line-aligned.
func (e *Engine) ReadConflictSides(ctx context.Context, path, oursLabel, theirsLabel string) (*Sides, error) {
	content, err := e.Executor.ReadFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	lines := strings.Split(content, "\n")

	sides := &Sides{OursLabel: oursLabel, TheirsLabel: theirsLabel}

	const (
		modeShared = iota
		modeOurs
		modeTheirs
	)

	mode := modeShared
	regionID := 0
	var cur *Region

	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "<<<<<<<"):
			mode = modeOurs
			cur = &Region{
				ID:        regionID,
				OursRange: [2]int{len(sides.OursLines), len(sides.OursLines)},
				BaseRange: [2]int{len(sides.OursLines), len(sides.OursLines)},
			}
			regionID++

		case strings.HasPrefix(line, "======="):
			cur.OursRange[1] = len(sides.OursLines)
			cur.TheirsRange[0] = len(sides.TheirsLines)
			mode = modeTheirs

		case strings.HasPrefix(line, ">>>>>>>"):
			cur.TheirsRange[1] = len(sides.TheirsLines)

			// Pad the shorter side so both stay line-aligned.
			oursLen := cur.OursRange[1] - cur.OursRange[0]
			theirsLen := cur.TheirsRange[1] - cur.TheirsRange[0]

			if oursLen < theirsLen {
				for i := 0; i < theirsLen-oursLen; i++ {
					sides.OursLines = append(sides.OursLines, "")
				}
				cur.OursRange[1] = len(sides.OursLines)
			} else if theirsLen < oursLen {
				for i := 0; i < oursLen-theirsLen; i++ {
					sides.TheirsLines = append(sides.TheirsLines, "")
				}
				cur.TheirsRange[1] = len(sides.TheirsLines)
			}

			sides.Regions = append(sides.Regions, *cur)
			cur = nil
			mode = modeShared

		default:
			switch mode {
			case modeShared:
				sides.OursLines = append(sides.OursLines, line)
				sides.TheirsLines = append(sides.TheirsLines, line)
			case modeOurs:
				sides.OursLines = append(sides.OursLines, line)
			case modeTheirs:
				sides.TheirsLines = append(sides.TheirsLines, line)
			}
		}
	}

	return sides, nil
}

// SaveConflictResolution overwrites path's working-tree content, used
// after the in-app merge UI produces a resolved file.
func (e *Engine) SaveConflictResolution(ctx context.Context, path, content string) error {
	return e.Executor.WriteWorkingFile(ctx, path, content)
}

// Continue dispatches the continue action appropriate to kind. For a
// rebase, a caller-supplied message overwrites rebase-merge/message so
// the resumed commit picks it up; for a merge, an empty message falls
// back to MERGE_MSG.
func (e *Engine) Continue(ctx context.Context, kind Kind, message string) error {
	switch kind.Variant {
	case KindRebase:
		if message != "" {
			gitDir, err := e.Executor.GitDir(ctx)
			if err != nil {
				return fmt.Errorf("git dir: %w", err)
			}

			msgPath := filepath.Join(gitDir, "rebase-merge", "message")
			if exists(filepath.Dir(msgPath)) {
				if err := os.WriteFile(msgPath, []byte(message), 0o644); err != nil {
					return fmt.Errorf("write rebase message: %w", err)
				}
			}
		}

		return e.Executor.RebaseContinue(ctx)
	case KindMerge:
		if message == "" {
			gitDir, err := e.Executor.GitDir(ctx)
			if err != nil {
				return fmt.Errorf("git dir: %w", err)
			}

			message = strings.TrimSpace(readFileOr(filepath.Join(gitDir, "MERGE_MSG"), ""))
		}
		if message == "" {
			message = "Merge " + kind.SourceBranch
		}

		return e.Executor.MergeContinue(ctx, message)
	case KindStashApply:
		return nil
	default:
		return fmt.Errorf("no conflict in progress")
	}
}

// Skip dispatches a skip action. Only rebase supports skip.
func (e *Engine) Skip(ctx context.Context, kind Kind) error {
	if kind.Variant != KindRebase {
		return fmt.Errorf("skip not supported for %v", kind.Variant)
	}

	return e.Executor.RebaseSkip(ctx)
}

// Abort dispatches an abort action per kind.
func (e *Engine) Abort(ctx context.Context, kind Kind) error {
	switch kind.Variant {
	case KindRebase:
		return e.Executor.RebaseAbort(ctx)
	case KindMerge:
		return e.Executor.MergeAbort(ctx)
	case KindStashApply:
		if err := e.Executor.ResetTo(ctx, "HEAD", "hard"); err != nil {
			return err
		}

		return nil
	default:
		return nil
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)

	return err == nil
}

func readFileOr(path, fallback string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return fallback
	}

	return string(data)
}

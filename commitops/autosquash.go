package commitops

import (
	"context"
	"fmt"
	"strings"

	"github.com/fenwick-software/gitcore/git"
	"github.com/fenwick-software/gitcore/rebase"
)

// Autosquash rebases the current branch onto `onto`, folding every
// commit whose subject starts with "fixup! " or "squash! " into the
// commit it names, the way `git rebase -i --autosquash` would but
// without an interactive editor. Returns the number of fixup/squash
// commits applied; zero means there was nothing to fold and no rebase
// was started.
func (o *Ops) Autosquash(ctx context.Context, onto string) (int, error) {
	if onto == "" {
		return 0, fmt.Errorf("autosquash requires a base to rebase onto")
	}

	commits, err := o.Executor.RebaseList(ctx, onto)
	if err != nil {
		return 0, fmt.Errorf("list commits onto %s: %w", onto, err)
	}

	if len(commits) == 0 {
		return 0, nil
	}

	spec, folded := buildAutosquashSpec(commits)
	if folded == 0 {
		return 0, nil
	}

	if err := o.runRebaseSpec(ctx, onto, spec, ""); err != nil {
		return folded, err
	}

	return folded, nil
}

// autosquashEntry is one commit of the rebase range annotated with the
// action it will receive and, for fixup/squash subjects, the hash of
// the commit it folds into.
type autosquashEntry struct {
	info   git.CommitInfo
	action rebase.ActionType
	target string
}

// buildAutosquashSpec turns the rebase range into a spec with each
// fixup/squash commit placed immediately after its target. The second
// return value is the number of commits that will be folded.
func buildAutosquashSpec(commits []git.CommitInfo) (*rebase.RebaseSpec, int) {
	// Subjects of ordinary commits are the match targets.
	subjectToHash := make(map[string]string)
	for _, c := range commits {
		if fixupPrefix(c.Subject) == "" {
			subjectToHash[c.Subject] = c.Hash
		}
	}

	folded := 0
	entries := make([]autosquashEntry, 0, len(commits))

	for _, c := range commits {
		entry := autosquashEntry{info: c, action: rebase.ActionPick}

		switch fixupPrefix(c.Subject) {
		case "fixup! ":
			entry.target = resolveAutosquashTarget(c.Subject, subjectToHash)
			if entry.target != "" {
				entry.action = rebase.ActionFixup
				folded++
			}
		case "squash! ":
			entry.target = resolveAutosquashTarget(c.Subject, subjectToHash)
			if entry.target != "" {
				entry.action = rebase.ActionSquash
				folded++
			}
		}

		entries = append(entries, entry)
	}

	ordered := placeFixupsAfterTargets(entries)

	actions := make([]rebase.RebaseAction, 0, len(ordered))
	for _, e := range ordered {
		actions = append(actions, rebase.RebaseAction{
			Action: e.action,
			Commit: e.info.Hash,
		})
	}

	return &rebase.RebaseSpec{Actions: actions}, folded
}

// fixupPrefix returns the marker prefix of an autosquash subject, or ""
// for an ordinary commit.
func fixupPrefix(subject string) string {
	for _, p := range []string{"fixup! ", "squash! "} {
		if strings.HasPrefix(subject, p) {
			return p
		}
	}

	return ""
}

// resolveAutosquashTarget finds the hash a fixup/squash subject names,
// matching the remainder against ordinary subjects exactly, then by
// prefix. Nested markers ("fixup! fixup! x") unwrap recursively. An
// unmatched subject resolves to "", leaving the commit picked in place.
func resolveAutosquashTarget(subject string, subjectToHash map[string]string) string {
	rest := strings.TrimPrefix(subject, fixupPrefix(subject))

	if hash, ok := subjectToHash[rest]; ok {
		return hash
	}

	for subj, hash := range subjectToHash {
		if strings.HasPrefix(subj, rest) {
			return hash
		}
	}

	if fixupPrefix(rest) != "" {
		return resolveAutosquashTarget(rest, subjectToHash)
	}

	return ""
}

// placeFixupsAfterTargets reorders entries so each fixup/squash follows
// the commit it folds into. Entries whose target was not found keep
// their original position, as picks do.
func placeFixupsAfterTargets(entries []autosquashEntry) []autosquashEntry {
	byTarget := make(map[string][]autosquashEntry)
	for _, e := range entries {
		if e.target != "" {
			byTarget[e.target] = append(byTarget[e.target], e)
		}
	}

	placed := make(map[string]bool, len(entries))
	result := make([]autosquashEntry, 0, len(entries))

	for _, e := range entries {
		if placed[e.info.Hash] || e.target != "" {
			continue
		}

		result = append(result, e)
		placed[e.info.Hash] = true

		for _, f := range byTarget[e.info.Hash] {
			if !placed[f.info.Hash] {
				result = append(result, f)
				placed[f.info.Hash] = true
			}
		}
	}

	for _, e := range entries {
		if !placed[e.info.Hash] {
			result = append(result, e)
		}
	}

	return result
}

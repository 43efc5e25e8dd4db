package rebase

import (
	"bufio"
	"fmt"
	"strings"
)

// TodoEntry is one line of a git-rebase-todo file.
type TodoEntry struct {
	// Action is the rebase action (pick, squash, ...).
	Action ActionType

	// Commit is the commit hash as git wrote it (usually abbreviated).
	Commit string

	// Subject is the commit subject line git appends for readability.
	Subject string
}

// ParseTodoFile reads a git-rebase-todo file into entries, skipping
// blank lines and # comments.
func ParseTodoFile(content string) []TodoEntry {
	var entries []TodoEntry

	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if entry, ok := parseTodoLine(line); ok {
			entries = append(entries, entry)
		}
	}

	return entries
}

// parseTodoLine splits "pick abc1234 subject words..." into an entry.
func parseTodoLine(line string) (TodoEntry, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return TodoEntry{}, false
	}

	action := expandShortAction(strings.ToLower(fields[0]))
	if !action.Valid() {
		return TodoEntry{}, false
	}

	entry := TodoEntry{Action: action, Commit: fields[1]}
	if len(fields) > 2 {
		entry.Subject = strings.Join(fields[2:], " ")
	}

	return entry, true
}

// expandShortAction resolves git's single-letter action abbreviations.
func expandShortAction(s string) ActionType {
	switch s {
	case "p", "pick":
		return ActionPick
	case "r", "reword":
		return ActionReword
	case "e", "edit":
		return ActionEdit
	case "s", "squash":
		return ActionSquash
	case "f", "fixup":
		return ActionFixup
	case "d", "drop":
		return ActionDrop
	case "x", "exec":
		return ActionExec
	default:
		return ActionType(s)
	}
}

// ToTodoFile renders the spec in the format git's sequencer reads.
func (s *RebaseSpec) ToTodoFile() string {
	var sb strings.Builder

	for _, action := range s.Actions {
		if action.Action == ActionExec {
			fmt.Fprintf(&sb, "exec %s\n", action.Command)

			continue
		}

		fmt.Fprintf(&sb, "%s %s\n", action.Action, action.Commit)
	}

	return sb.String()
}

// ValidateAgainstCommits checks that every non-exec action references a
// commit present in the original todo. Prefix matches are accepted in
// both directions since the spec may carry full hashes while git writes
// abbreviated ones.
func (s *RebaseSpec) ValidateAgainstCommits(original []TodoEntry) error {
	for i, action := range s.Actions {
		if action.Action == ActionExec {
			continue
		}

		if !commitInTodo(original, action.Commit) {
			return fmt.Errorf(
				"action %d: commit %q not found in rebase range",
				i+1, action.Commit,
			)
		}
	}

	return nil
}

func commitInTodo(entries []TodoEntry, commit string) bool {
	for _, entry := range entries {
		if hashesMatch(entry.Commit, commit) {
			return true
		}
	}

	return false
}

// hashesMatch reports whether two hashes refer to the same commit,
// tolerating one being an abbreviation of the other.
func hashesMatch(a, b string) bool {
	return strings.HasPrefix(a, b) || strings.HasPrefix(b, a)
}

// ReorderToMatchSpec rewrites the original todo entries into the spec's
// order and actions, keeping the commit hash and subject forms git
// originally wrote so the rewritten file stays self-consistent.
func ReorderToMatchSpec(spec *RebaseSpec, original []TodoEntry) ([]TodoEntry, error) {
	var result []TodoEntry

	for _, action := range spec.Actions {
		if action.Action == ActionExec {
			result = append(result, TodoEntry{
				Action:  ActionExec,
				Subject: action.Command,
			})

			continue
		}

		entry, ok := findTodoEntry(original, action.Commit)
		if !ok {
			return nil, fmt.Errorf("commit %q not found", action.Commit)
		}

		result = append(result, TodoEntry{
			Action:  action.Action,
			Commit:  entry.Commit,
			Subject: entry.Subject,
		})
	}

	return result, nil
}

// findTodoEntry locates the original entry for a (possibly abbreviated)
// commit hash.
func findTodoEntry(entries []TodoEntry, commit string) (TodoEntry, bool) {
	for _, entry := range entries {
		if hashesMatch(entry.Commit, commit) {
			return entry, true
		}
	}

	return TodoEntry{}, false
}

// GenerateTodoFromEntries renders entries back into todo-file text.
func GenerateTodoFromEntries(entries []TodoEntry) string {
	var sb strings.Builder

	for _, entry := range entries {
		if entry.Action == ActionExec {
			fmt.Fprintf(&sb, "exec %s\n", entry.Subject)

			continue
		}

		fmt.Fprintf(&sb, "%s %s %s\n", entry.Action, entry.Commit, entry.Subject)
	}

	return sb.String()
}

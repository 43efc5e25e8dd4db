// Package rebase models an interactive rebase as a declarative value:
// an ordered list of actions serialized to JSON, handed across the
// process boundary to the sequence-editor re-invocation that rewrites
// git's todo file. No interactive prompt or sed dialect is involved.
package rebase

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ActionType represents a rebase action (pick, squash, etc.).
type ActionType string

const (
	ActionPick   ActionType = "pick"
	ActionReword ActionType = "reword"
	ActionEdit   ActionType = "edit"
	ActionSquash ActionType = "squash"
	ActionFixup  ActionType = "fixup"
	ActionDrop   ActionType = "drop"
	ActionExec   ActionType = "exec"
)

// Valid returns true if the action type is recognized.
func (a ActionType) Valid() bool {
	switch a {
	case ActionPick, ActionReword, ActionEdit, ActionSquash,
		ActionFixup, ActionDrop, ActionExec:
		return true
	default:
		return false
	}
}

// ShortForm returns the single-letter abbreviation for the action.
func (a ActionType) ShortForm() string {
	switch a {
	case ActionPick:
		return "p"
	case ActionReword:
		return "r"
	case ActionEdit:
		return "e"
	case ActionSquash:
		return "s"
	case ActionFixup:
		return "f"
	case ActionDrop:
		return "d"
	case ActionExec:
		return "x"
	default:
		return string(a)
	}
}

// RebaseAction represents a single rebase operation.
type RebaseAction struct {
	// Action is the type of operation (pick, squash, drop, etc.).
	Action ActionType `json:"action"`

	// Commit is the commit hash (required for all actions except exec).
	Commit string `json:"commit,omitempty"`

	// Message is the commit message for reword/squash operations.
	// If empty during squash, git will prompt for message concatenation.
	Message string `json:"message,omitempty"`

	// Command is the shell command for exec actions.
	Command string `json:"command,omitempty"`
}

// Validate rejects malformed actions before a rebase is attempted.
func (a *RebaseAction) Validate() error {
	if !a.Action.Valid() {
		return fmt.Errorf("invalid action type: %q", a.Action)
	}

	if a.Action == ActionExec {
		if a.Command == "" {
			return fmt.Errorf("exec action requires a command")
		}

		// A newline in an exec command would smuggle extra todo entries
		// into the rewritten file.
		if strings.Contains(a.Command, "\n") {
			return fmt.Errorf(
				"exec command cannot contain newlines",
			)
		}

		return nil
	}

	if a.Commit == "" {
		return fmt.Errorf("%s action requires a commit hash", a.Action)
	}

	return nil
}

// RebaseSpec is a complete rebase specification.
type RebaseSpec struct {
	// Actions is the ordered list of rebase operations.
	Actions []RebaseAction `json:"actions"`
}

// Validate checks the spec as a whole: every action well-formed, and
// the first action able to stand alone (squash/fixup fold into a
// previous commit, so neither can open the list).
func (s *RebaseSpec) Validate() error {
	if len(s.Actions) == 0 {
		return fmt.Errorf("rebase spec has no actions")
	}

	for i, action := range s.Actions {
		if err := action.Validate(); err != nil {
			return fmt.Errorf("action %d: %w", i+1, err)
		}
	}

	first := s.Actions[0].Action
	if first == ActionSquash || first == ActionFixup {
		return fmt.Errorf(
			"cannot start with %s: no previous commit to combine with",
			first,
		)
	}

	return nil
}

// ParseSpec parses a RebaseSpec from JSON data.
func ParseSpec(data []byte) (*RebaseSpec, error) {
	var spec RebaseSpec

	if err := json.Unmarshal(data, &spec); err != nil {
		// Include a snippet of the invalid JSON for debugging.
		snippet := string(data)
		if len(snippet) > 100 {
			snippet = snippet[:100] + "..."
		}

		return nil, fmt.Errorf(
			"invalid JSON spec: %w\ninput: %s", err, snippet,
		)
	}

	if err := spec.Validate(); err != nil {
		return nil, err
	}

	return &spec, nil
}


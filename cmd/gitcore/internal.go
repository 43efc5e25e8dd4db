package main

import (
	"fmt"
	"os"

	"github.com/fenwick-software/gitcore/rebase"
	"github.com/spf13/cobra"
)

// newRebaseApplySpecCmd creates the hidden internal command commitops
// invokes as GIT_SEQUENCE_EDITOR to rewrite a rebase todo file to match a
// declarative rebase.RebaseSpec, so todo rewriting never depends on a
// shell or sed dialect. The spec file it reads is the one
// commitops.Reword/Squash write before starting the rebase.
func newRebaseApplySpecCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "rebase-apply-spec SPECFILE TODOFILE",
		Hidden: true,
		Short:  "Internal command invoked by git as GIT_SEQUENCE_EDITOR",
		Args:   cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return applyRebaseSpec(args[0], args[1])
		},
	}
}

func applyRebaseSpec(specFile, todoFile string) error {
	specData, err := os.ReadFile(specFile)
	if err != nil {
		return fmt.Errorf("read spec file: %w", err)
	}

	spec, err := rebase.ParseSpec(specData)
	if err != nil {
		return fmt.Errorf("invalid spec: %w", err)
	}

	todoData, err := os.ReadFile(todoFile)
	if err != nil {
		return fmt.Errorf("read todo file: %w", err)
	}

	originalEntries := rebase.ParseTodoFile(string(todoData))
	if len(originalEntries) == 0 {
		return fmt.Errorf("no commits found in rebase todo")
	}

	if err := spec.ValidateAgainstCommits(originalEntries); err != nil {
		return err
	}

	newEntries, err := rebase.ReorderToMatchSpec(spec, originalEntries)
	if err != nil {
		return err
	}

	newTodo := rebase.GenerateTodoFromEntries(newEntries)

	if err := os.WriteFile(todoFile, []byte(newTodo), 0o600); err != nil {
		return fmt.Errorf("write todo file: %w", err)
	}

	return nil
}

// newRebaseApplyMessageCmd creates the hidden internal command
// commitops.Reword invokes as GIT_EDITOR to overwrite the commit-message
// buffer git stops for with the caller's supplied message, instead of
// accepting git's default.
func newRebaseApplyMessageCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "rebase-apply-message MESSAGEFILE EDITMSGFILE",
		Hidden: true,
		Short:  "Internal command invoked by git as GIT_EDITOR",
		Args:   cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return applyRebaseMessage(args[0], args[1])
		},
	}
}

func applyRebaseMessage(messageFile, editMsgFile string) error {
	message, err := os.ReadFile(messageFile)
	if err != nil {
		return fmt.Errorf("read message file: %w", err)
	}

	if err := os.WriteFile(editMsgFile, message, 0o600); err != nil {
		return fmt.Errorf("write commit message file: %w", err)
	}

	return nil
}

package patch

import (
	"context"
	"fmt"
	"strings"

	"github.com/fenwick-software/gitcore/git"
	"github.com/fenwick-software/gitcore/repoerrors"
)

// Applier drives `git apply` forward/reverse against the index or working
// tree.
type Applier struct {
	Executor git.Executor
}

// NewApplier binds an Applier to executor.
func NewApplier(executor git.Executor) *Applier {
	return &Applier{Executor: executor}
}

// Apply applies patchText. cached targets the index (staging); otherwise
// the working tree (discard). reverse inverts the direction.
func (a *Applier) Apply(ctx context.Context, patchText string, cached, reverse bool) error {
	if strings.TrimSpace(patchText) == "" {
		return nil
	}

	err := a.Executor.ApplyPatchOpts(ctx, strings.NewReader(patchText), cached, reverse)
	if err != nil {
		return fmt.Errorf("apply patch: %w", &repoerrors.PatchRejected{Detail: err.Error()})
	}

	return nil
}

// ApplyAll applies each patch in order, continuing past failures so a
// batch "stage all hunks" operation logs and continues rather than
// aborting. Returns the first error encountered, if
// any, after attempting every patch.
func (a *Applier) ApplyAll(ctx context.Context, patches []string, cached, reverse bool) error {
	var firstErr error

	for _, p := range patches {
		if err := a.Apply(ctx, p, cached, reverse); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

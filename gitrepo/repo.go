// Package gitrepo wraps a go-git repository handle, giving the rest of the
// core direct object-database, ref, and index access without shelling out.
// Everything here is read/write against the object database, refs, and
// index; no subprocess is involved.
package gitrepo

import (
	"fmt"
	"sort"

	"github.com/fenwick-software/gitcore/repoerrors"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Handle is a lightweight wrapper around a *git.Repository, opened once per
// long-lived caller. The CommitWalker opens its own Handle so a background
// walk never contends with a mutation; the facade's Handle is shared by its
// RefIndex builds and its ConflictEngine.
type Handle struct {
	repo *git.Repository
	path string
}

// Open opens the repository rooted at or above path.
func Open(path string) (*Handle, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open repository at %s: %w", path, &repoerrors.RepoNotOpen{Path: path})
	}

	return &Handle{repo: repo, path: path}, nil
}

// Raw exposes the underlying *git.Repository for callers that need an
// operation this package doesn't wrap directly.
func (h *Handle) Raw() *git.Repository { return h.repo }

// Head returns the hash HEAD currently resolves to. Returns
// plumbing.ZeroHash on an unborn branch (no commits yet).
func (h *Handle) Head() (plumbing.Hash, error) {
	ref, err := h.repo.Head()
	if err != nil {
		if err == plumbing.ErrReferenceNotFound {
			return plumbing.ZeroHash, nil
		}

		return plumbing.ZeroHash, fmt.Errorf("resolve HEAD: %w", err)
	}

	return ref.Hash(), nil
}

// CommitObject looks up a commit by hash.
func (h *Handle) CommitObject(hash plumbing.Hash) (*object.Commit, error) {
	c, err := h.repo.CommitObject(hash)
	if err != nil {
		return nil, fmt.Errorf("commit %s: %w", hash, &repoerrors.NotFound{What: "commit " + hash.String()})
	}

	return c, nil
}

// Index returns the current on-disk index, including any ResolveUndo
// extension recorded during an unresolved merge/rebase.
func (h *Handle) Index() (*index.Index, error) {
	idx, err := h.repo.Storer.Index()
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}

	return idx, nil
}

// SetIndex writes idx back to disk, used by the conflict engine to restore
// REUC-recorded stages.
func (h *Handle) SetIndex(idx *index.Index) error {
	if err := h.repo.Storer.SetIndex(idx); err != nil {
		return fmt.Errorf("write index: %w", err)
	}

	return nil
}

// Branches lists local branches in name order.
func (h *Handle) Branches() ([]*plumbing.Reference, error) {
	return h.collectRefs(func(r *plumbing.Reference) bool {
		return r.Name().IsBranch()
	})
}

// RemoteBranches lists remote-tracking branches in name order.
func (h *Handle) RemoteBranches() ([]*plumbing.Reference, error) {
	return h.collectRefs(func(r *plumbing.Reference) bool {
		return r.Name().IsRemote()
	})
}

// Tags lists tags in name order.
func (h *Handle) Tags() ([]*plumbing.Reference, error) {
	return h.collectRefs(func(r *plumbing.Reference) bool {
		return r.Name().IsTag()
	})
}

func (h *Handle) collectRefs(match func(*plumbing.Reference) bool) ([]*plumbing.Reference, error) {
	iter, err := h.repo.References()
	if err != nil {
		return nil, fmt.Errorf("list references: %w", err)
	}
	defer iter.Close()

	var out []*plumbing.Reference

	if err := iter.ForEach(func(r *plumbing.Reference) error {
		if match(r) {
			out = append(out, r)
		}

		return nil
	}); err != nil {
		return nil, fmt.Errorf("iterate references: %w", err)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Name().Short() < out[j].Name().Short()
	})

	return out, nil
}

// Remotes lists configured remotes.
func (h *Handle) Remotes() ([]*git.Remote, error) {
	remotes, err := h.repo.Remotes()
	if err != nil {
		return nil, fmt.Errorf("list remotes: %w", err)
	}

	sort.Slice(remotes, func(i, j int) bool {
		return remotes[i].Config().Name < remotes[j].Config().Name
	})

	return remotes, nil
}

// Config returns the repository's local configuration.
func (h *Handle) Config() (*config.Config, error) {
	cfg, err := h.repo.Config()
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	return cfg, nil
}

// ResolveRevision resolves a revision expression (branch name, tag, short
// hash, HEAD~N, ...) to a commit hash.
func (h *Handle) ResolveRevision(rev string) (plumbing.Hash, error) {
	hash, err := h.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("resolve %q: %w", rev, &repoerrors.NotFound{What: rev})
	}

	return *hash, nil
}

// Submodules lists the submodules recorded in .gitmodules, in name order.
// Bare repositories and worktree-less states have no submodules; that case
// is reported as an empty slice, not an error.
func (h *Handle) Submodules() ([]*git.Submodule, error) {
	wt, err := h.repo.Worktree()
	if err != nil {
		return nil, nil
	}

	subs, err := wt.Submodules()
	if err != nil {
		return nil, fmt.Errorf("list submodules: %w", err)
	}

	sort.Slice(subs, func(i, j int) bool {
		return subs[i].Config().Name < subs[j].Config().Name
	})

	return subs, nil
}

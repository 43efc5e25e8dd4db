// Package walker streams commit history: a pull-based,
// batched topological walker seeded from refs/heads/* and refs/remotes/*,
// decorating each yielded commit with its current ref labels.
package walker

import (
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/fenwick-software/gitcore/gitrepo"
	"github.com/fenwick-software/gitcore/model"
	"github.com/fenwick-software/gitcore/refindex"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// CommitWalker owns its own repository handle, separate from the one
// RepoFacade mutates, so a background
// walk never blocks a staging/commit/rebase operation.
//
// Ordering is topological first, commit-time-descending second: a
// commit is never emitted before a commit that descends from it, even
// when timestamps tie or are skewed. Like git's own topo sort, that
// guarantee needs the full reachable set up front, so the first
// NextBatch call walks the ancestry graph and orders it before
// anything is returned.
type CommitWalker struct {
	repo      *gitrepo.Handle
	refs      *refindex.RefIndex
	heads     []plumbing.Hash
	order     []*object.Commit
	cursor    int
	prepared  bool
	exhausted bool
	cancelled int32
}

// New opens an independent handle at path and seeds the walk from every
// local and remote-tracking branch tip.
func New(path string, refs *refindex.RefIndex) (*CommitWalker, error) {
	repo, err := gitrepo.Open(path)
	if err != nil {
		return nil, err
	}

	w := &CommitWalker{repo: repo, refs: refs}

	if err := w.seed(); err != nil {
		return nil, err
	}

	return w, nil
}

func (w *CommitWalker) seed() error {
	branches, err := w.repo.Branches()
	if err != nil {
		return fmt.Errorf("seed branches: %w", err)
	}

	remotes, err := w.repo.RemoteBranches()
	if err != nil {
		return fmt.Errorf("seed remote branches: %w", err)
	}

	seen := make(map[plumbing.Hash]bool)
	for _, ref := range append(branches, remotes...) {
		h := ref.Hash()
		if !seen[h] {
			seen[h] = true
			w.heads = append(w.heads, h)
		}
	}

	return nil
}

// Cancel requests the walk stop after delivering any in-flight batch.
func (w *CommitWalker) Cancel() {
	atomic.StoreInt32(&w.cancelled, 1)
}

func (w *CommitWalker) isCancelled() bool {
	return atomic.LoadInt32(&w.cancelled) != 0
}

// prepare discovers every commit reachable from the seed heads,
// counting child edges, then orders them with Kahn's algorithm: only
// commits whose discovered children have all been emitted are eligible,
// and the newest eligible commit is emitted first. Unresolvable seed
// heads (refs/remotes/.../HEAD symrefs) are skipped silently; a corrupt
// object stops discovery, and commits whose ancestry bookkeeping is
// incomplete at that point are withheld rather than emitted out of
// order.
func (w *CommitWalker) prepare() {
	w.prepared = true

	commits := make(map[plumbing.Hash]*object.Commit)
	childCount := make(map[plumbing.Hash]int)

	var queue []*object.Commit
	for _, h := range w.heads {
		if _, ok := commits[h]; ok {
			continue
		}

		commit, err := w.repo.CommitObject(h)
		if err != nil {
			continue
		}

		commits[h] = commit
		queue = append(queue, commit)
	}

	var expanded []*object.Commit

discovery:
	for qi := 0; qi < len(queue); qi++ {
		if w.isCancelled() {
			break
		}

		c := queue[qi]

		for _, parentHash := range c.ParentHashes {
			if _, ok := commits[parentHash]; !ok {
				parent, err := w.repo.CommitObject(parentHash)
				if err != nil {
					// Corrupt or missing object: stop here. This
					// commit's edges are incomplete, so it is not
					// marked expanded and never emitted.
					break discovery
				}

				commits[parentHash] = parent
				queue = append(queue, parent)
			}

			childCount[parentHash]++
		}

		expanded = append(expanded, c)
	}

	isExpanded := make(map[plumbing.Hash]bool, len(expanded))
	for _, c := range expanded {
		isExpanded[c.Hash] = true
	}

	// ready holds commits whose every discovered child has been emitted,
	// kept sorted by committer time descending.
	var ready []*object.Commit
	for _, c := range expanded {
		if childCount[c.Hash] == 0 {
			insertByTime(&ready, c)
		}
	}

	for len(ready) > 0 {
		c := ready[0]
		ready = ready[1:]
		w.order = append(w.order, c)

		for _, parentHash := range c.ParentHashes {
			if !isExpanded[parentHash] {
				continue
			}

			childCount[parentHash]--
			if childCount[parentHash] == 0 {
				insertByTime(&ready, commits[parentHash])
			}
		}
	}
}

// insertByTime inserts c keeping the slice ordered by committer time
// descending; on a tie c goes after the commits already present.
func insertByTime(list *[]*object.Commit, c *object.Commit) {
	s := *list

	idx := sort.Search(len(s), func(i int) bool {
		return s[i].Committer.When.Before(c.Committer.When)
	})

	s = append(s, nil)
	copy(s[idx+1:], s[idx:])
	s[idx] = c
	*list = s
}

// NextBatch returns up to n CommitInfos in walk order. An empty batch
// signals exhaustion; subsequent calls remain empty.
func (w *CommitWalker) NextBatch(n int) ([]model.CommitInfo, error) {
	if w.exhausted || w.isCancelled() {
		return nil, nil
	}

	if !w.prepared {
		w.prepare()
	}

	var out []model.CommitInfo

	for len(out) < n {
		if w.cursor >= len(w.order) {
			w.exhausted = true
			break
		}

		out = append(out, w.toCommitInfo(w.order[w.cursor]))
		w.cursor++

		if w.isCancelled() {
			break
		}
	}

	return out, nil
}

func (w *CommitWalker) toCommitInfo(c *object.Commit) model.CommitInfo {
	var parents []string
	for _, p := range c.ParentHashes {
		parents = append(parents, p.String())
	}

	subject := c.Message
	if idx := indexOfNewline(subject); idx >= 0 {
		subject = subject[:idx]
	}

	return model.CommitInfo{
		Hash:         c.Hash.String(),
		ParentHashes: parents,
		AuthorName:   c.Author.Name,
		AuthorEmail:  c.Author.Email,
		Date:         c.Author.When.Format("2006-01-02 15:04:05 -0700"),
		Message:      subject,
		Refs:         w.refs.RefsFor(c.Hash.String()),
	}
}

func indexOfNewline(s string) int {
	for i, r := range s {
		if r == '\n' {
			return i
		}
	}

	return -1
}

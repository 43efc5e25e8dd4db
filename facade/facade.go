// Package facade is the single entry point for a repository: one
// coherent operation surface, serializing every mutation through one
// command queue and translating
// RepoWatcher events into full-reload or lightweight-refresh policy.
package facade

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/fenwick-software/gitcore/branchops"
	"github.com/fenwick-software/gitcore/commitops"
	"github.com/fenwick-software/gitcore/conflict"
	diffpkg "github.com/fenwick-software/gitcore/diff"
	"github.com/fenwick-software/gitcore/events"
	"github.com/fenwick-software/gitcore/git"
	"github.com/fenwick-software/gitcore/gitrepo"
	"github.com/fenwick-software/gitcore/graph"
	"github.com/fenwick-software/gitcore/model"
	"github.com/fenwick-software/gitcore/patch"
	"github.com/fenwick-software/gitcore/refindex"
	"github.com/fenwick-software/gitcore/remoteops"
	"github.com/fenwick-software/gitcore/staging"
	"github.com/fenwick-software/gitcore/walker"
	"github.com/fenwick-software/gitcore/watch"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Metadata is the return value of LoadMetadata: everything the
// presentation layer needs to render the sidebar and status area.
type Metadata struct {
	Branches            []model.BranchInfo
	Remotes             []model.RemoteInfo
	Tags                []model.Tag
	Stashes             []model.StashInfo
	Submodules          []model.SubmoduleInfo
	CurrentBranch       string
	IsDetached          bool
	HeadHash            string
	Status              []model.FileStatus
	CurrentBranchHashes []string
	ConflictState       conflict.Kind
}

// RepoFacade is the single entry point external collaborators (a UI
// binding adapter, a debug CLI) drive the core through.
type RepoFacade struct {
	workDir string
	gitDir  string

	executor git.Executor
	repo     *gitrepo.Handle

	DiffEngine     *diffpkg.Engine
	PatchApplier   *patch.Applier
	ConflictEngine *conflict.Engine
	BranchOps      *branchops.Ops
	CommitOps      *commitops.Ops
	RemoteOps      *remoteops.Ops
	StagingOps     *staging.Ops

	graphProc *graph.LazyGraphProcessor

	sink events.Sink

	watcher *watch.Watcher

	mu          sync.Mutex
	refIdx      *refindex.RefIndex
	commitW     *walker.CommitWalker
	lastHashes  []string
	commits     []model.CommitInfo
	uncommitted *model.CommitInfo
	selected    string

	queue     chan func()
	closeOnce sync.Once
	done      chan struct{}
}

// New opens the repository at path and wires every C1-C12 component
// together behind one serialized command queue. sink may be nil, in
// which case events are dropped.
func New(ctx context.Context, path string, sink events.Sink) (*RepoFacade, error) {
	repo, err := gitrepo.Open(path)
	if err != nil {
		return nil, err
	}

	executor := git.NewShellExecutor(path)

	gitDir, err := executor.GitDir(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve git dir: %w", err)
	}

	selfPath, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("resolve own executable path: %w", err)
	}

	if sink == nil {
		sink = events.SinkFunc(func(events.Event) {})
	}

	f := &RepoFacade{
		workDir:        path,
		gitDir:         gitDir,
		executor:       executor,
		repo:           repo,
		DiffEngine:     diffpkg.NewEngine(executor),
		PatchApplier:   patch.NewApplier(executor),
		ConflictEngine: conflict.New(repo, executor),
		BranchOps:      branchops.New(executor),
		CommitOps:      commitops.New(executor, selfPath),
		RemoteOps:      remoteops.New(executor),
		StagingOps:     staging.New(executor),
		graphProc:      graph.NewLazyGraphProcessor(),
		sink:           sink,
		queue:          make(chan func(), 32),
		done:           make(chan struct{}),
	}

	if _, err := f.LoadMetadata(ctx); err != nil {
		return nil, err
	}

	w, err := watch.New(path, gitDir)
	if err != nil {
		return nil, fmt.Errorf("start watcher: %w", err)
	}
	f.watcher = w

	go w.Run()
	go f.watchLoop(ctx)
	go f.queueLoop()

	return f, nil
}

// Submit enqueues fn to run on the serialized command queue and blocks
// until it has completed. Submissions execute strictly in order.
func (f *RepoFacade) Submit(fn func() error) error {
	result := make(chan error, 1)

	select {
	case f.queue <- func() { result <- fn() }:
	case <-f.done:
		return fmt.Errorf("facade is closed")
	}

	return <-result
}

func (f *RepoFacade) queueLoop() {
	for {
		select {
		case job := <-f.queue:
			job()
		case <-f.done:
			return
		}
	}
}

// watchLoop translates RepoWatcher kind-sets into the full-reload /
// lightweight-refresh policy: head/refs changes reload everything,
// index/workdir changes only refresh status and conflict state.
func (f *RepoFacade) watchLoop(ctx context.Context) {
	for {
		select {
		case kinds, ok := <-f.watcher.Changes():
			if !ok {
				return
			}

			full := kinds[watch.KindHead] || kinds[watch.KindRefs]

			_ = f.Submit(func() error {
				if full {
					_, err := f.LoadMetadata(ctx)

					return err
				}

				return f.lightRefresh(ctx)
			})
		case <-f.done:
			return
		}
	}
}

// lightRefresh re-runs status and conflict detection without re-walking
// commits, inserting/removing the synthetic uncommitted row and patching
// its counts as needed.
func (f *RepoFacade) lightRefresh(ctx context.Context) error {
	status, err := f.StagingOps.Status(ctx)
	if err != nil {
		return err
	}

	conflictState, err := f.ConflictEngine.State(ctx)
	if err != nil {
		return err
	}

	headHash, err := f.executor.HeadHash(ctx)
	if err != nil {
		return err
	}

	f.refreshUncommitted(status, conflictState, headHash)

	f.sink.Notify(events.StatusChanged{})
	f.sink.Notify(events.ConflictStateChanged{})

	return nil
}

// refreshUncommitted reconciles the synthetic first row against the
// current status: inserted when the tree is dirty or a conflict is in
// progress, removed when clean, counts patched in place otherwise. Only
// insertion/removal resets the graph engine; a count change never does,
// and the walked commits are never touched.
func (f *RepoFacade) refreshUncommitted(status []model.FileStatus, conflictState conflict.Kind, headHash string) {
	var staged, unstaged int
	for _, s := range status {
		if s.HasStaged() {
			staged++
		}
		if s.HasUnstaged() {
			unstaged++
		}
	}

	dirty := len(status) > 0 || conflictState.Variant != conflict.KindNone
	message := fmt.Sprintf("%d staged, %d unstaged", staged, unstaged)

	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case dirty && f.uncommitted == nil:
		entry := model.NewUncommittedEntry(headHash, message)
		f.uncommitted = &entry
		f.graphProc.Reset(f.displayCommitsLocked())
	case !dirty && f.uncommitted != nil:
		f.uncommitted = nil
		f.graphProc.Reset(f.displayCommitsLocked())
	case dirty:
		f.uncommitted.Message = message
		f.uncommitted.ParentHashes = []string{headHash}
	}
}

// displayCommitsLocked returns the rows as shown: the synthetic entry, if
// present, always sits at index 0. Callers hold f.mu.
func (f *RepoFacade) displayCommitsLocked() []model.CommitInfo {
	if f.uncommitted == nil {
		return f.commits
	}

	out := make([]model.CommitInfo, 0, len(f.commits)+1)
	out = append(out, *f.uncommitted)
	out = append(out, f.commits...)

	return out
}

// Commits returns the current display rows, synthetic entry included.
func (f *RepoFacade) Commits() []model.CommitInfo {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.displayCommitsLocked()
}

// LoadMetadata rebuilds the RefIndex and resets the graph processor and
// commit walker, since refs moving invalidates any in-progress commit
// walk.
func (f *RepoFacade) LoadMetadata(ctx context.Context) (*Metadata, error) {
	refIdx, err := refindex.Build(ctx, f.repo, f.executor)
	if err != nil {
		return nil, fmt.Errorf("build ref index: %w", err)
	}

	status, err := f.StagingOps.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}

	conflictState, err := f.ConflictEngine.State(ctx)
	if err != nil {
		return nil, fmt.Errorf("conflict state: %w", err)
	}

	currentBranch, err := f.executor.CurrentBranch(ctx)
	if err != nil {
		return nil, fmt.Errorf("current branch: %w", err)
	}

	headHash, err := f.executor.HeadHash(ctx)
	if err != nil {
		return nil, fmt.Errorf("head hash: %w", err)
	}

	hashes, err := f.currentBranchHashes(headHash)
	if err != nil {
		return nil, fmt.Errorf("current branch ancestry: %w", err)
	}

	cw, err := walker.New(f.workDir, refIdx)
	if err != nil {
		return nil, fmt.Errorf("create commit walker: %w", err)
	}

	f.mu.Lock()
	f.refIdx = refIdx
	f.commitW = cw
	f.lastHashes = hashes
	f.commits = nil
	f.uncommitted = nil
	f.graphProc.Reset(nil)
	f.mu.Unlock()

	f.refreshUncommitted(status, conflictState, headHash)

	f.sink.Notify(events.MetadataChanged{})

	return &Metadata{
		Branches:            refIdx.Branches,
		Remotes:             refIdx.Remotes,
		Tags:                refIdx.Tags,
		Stashes:             refIdx.Stashes,
		Submodules:          refIdx.Submodules,
		CurrentBranch:       currentBranch,
		IsDetached:          currentBranch == "",
		HeadHash:            headHash,
		Status:              status,
		CurrentBranchHashes: hashes,
		ConflictState:       conflictState,
	}, nil
}

// currentBranchHashes walks the ancestry of head, giving the UI the set of
// commits "on the current branch" so the graph renderer can highlight
// them.
func (f *RepoFacade) currentBranchHashes(head string) ([]string, error) {
	if head == "" {
		return nil, nil
	}

	hash := plumbing.NewHash(head)

	commitIter, err := f.repo.Raw().Log(&gogit.LogOptions{From: hash})
	if err != nil {
		return nil, err
	}
	defer commitIter.Close()

	var hashes []string

	if err := commitIter.ForEach(func(c *object.Commit) error {
		hashes = append(hashes, c.Hash.String())

		return nil
	}); err != nil {
		return nil, err
	}

	return hashes, nil
}

// LoadMoreCommits pulls the next n commits from the background commit
// walker and extends the graph processor.
func (f *RepoFacade) LoadMoreCommits(n int) ([]model.CommitInfo, error) {
	f.mu.Lock()
	cw := f.commitW
	f.mu.Unlock()

	if cw == nil {
		return nil, fmt.Errorf("commit walker not initialized")
	}

	batch, err := cw.NextBatch(n)
	if err != nil {
		return nil, fmt.Errorf("next batch: %w", err)
	}

	if len(batch) == 0 {
		return nil, nil
	}

	f.mu.Lock()
	f.commits = append(f.commits, batch...)
	f.graphProc.Extend(batch)
	f.mu.Unlock()

	f.sink.Notify(events.CommitsExtended{Count: len(batch)})

	return batch, nil
}

// GraphEntry returns the processed graph row for the given index, forcing
// lane processing through that row if needed.
func (f *RepoFacade) GraphEntry(row int) (graph.Entry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.graphProc.EnsureProcessedThrough(row)

	return f.graphProc.Entry(row)
}

// SelectCommit records hash as the current selection and returns the
// files its diff touches, ready for the file-list pane.
func (f *RepoFacade) SelectCommit(ctx context.Context, hash string) ([]model.DiffFile, error) {
	f.mu.Lock()
	f.selected = hash
	f.mu.Unlock()

	if hash == model.UncommittedHash {
		return f.UncommittedDiffFiles(ctx)
	}

	return f.ListDiffFiles(ctx, hash)
}

// SelectedCommit returns the hash most recently passed to SelectCommit,
// or "" if nothing is selected.
func (f *RepoFacade) SelectedCommit() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.selected
}

// ListDiffFiles enumerates the files changed by a commit, with add/del
// counts.
func (f *RepoFacade) ListDiffFiles(ctx context.Context, hash string) ([]model.DiffFile, error) {
	text, err := f.DiffEngine.DiffForCommit(ctx, hash)
	if err != nil {
		return nil, err
	}

	return diffpkg.ListFiles(text)
}

// UncommittedDiffFiles is the union of the staged and unstaged file
// lists; on a path collision the staged entry wins.
func (f *RepoFacade) UncommittedDiffFiles(ctx context.Context) ([]model.DiffFile, error) {
	return f.DiffEngine.UncommittedDiffFiles(ctx)
}

// FileDiff returns the unified diff of a single file in the given
// context.
func (f *RepoFacade) FileDiff(ctx context.Context, hash, path string, dctx model.DiffContext) (string, error) {
	switch dctx {
	case model.DiffContextStaged:
		return f.DiffEngine.StagedFileDiff(ctx, path)
	case model.DiffContextUnstaged:
		return f.DiffEngine.UnstagedFileDiff(ctx, path)
	default:
		return f.DiffEngine.FileDiff(ctx, hash, path)
	}
}

// UncommittedFileDiff returns path's diff given its status code,
// synthesizing a new-file diff for untracked paths.
func (f *RepoFacade) UncommittedFileDiff(ctx context.Context, path, statusCode string) (string, error) {
	return f.DiffEngine.UncommittedFileDiff(ctx, path, statusCode)
}

// WorkDir returns the repository's working-tree root.
func (f *RepoFacade) WorkDir() string { return f.workDir }

// GitDir returns the repository's resolved .git directory.
func (f *RepoFacade) GitDir() string { return f.gitDir }

// CurrentBranchHashes returns the hashes computed by the most recent
// LoadMetadata, without recomputing ancestry.
func (f *RepoFacade) CurrentBranchHashes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.lastHashes
}

// Reload forces a full metadata reload, e.g. after an externally-driven
// change the watcher missed.
func (f *RepoFacade) Reload(ctx context.Context) (*Metadata, error) {
	var (
		md  *Metadata
		err error
	)

	submitErr := f.Submit(func() error {
		md, err = f.LoadMetadata(ctx)

		return err
	})
	if submitErr != nil {
		return nil, submitErr
	}

	return md, err
}

// Close stops the watcher and background goroutines. Safe to call once.
func (f *RepoFacade) Close() error {
	var err error

	f.closeOnce.Do(func() {
		close(f.done)

		if f.watcher != nil {
			err = f.watcher.Close()
		}
	})

	return err
}

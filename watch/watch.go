// Package watch provides a debounced filesystem event source over the
// working tree and the Git directory, classifying raw fsnotify events
// into coarse index/head/refs/workdir change kinds.
package watch

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Kind is a coarse classification of a filesystem change.
type Kind int

const (
	KindIndex Kind = iota
	KindHead
	KindRefs
	KindWorkdir
)

func (k Kind) String() string {
	switch k {
	case KindIndex:
		return "index"
	case KindHead:
		return "head"
	case KindRefs:
		return "refs"
	case KindWorkdir:
		return "workdir"
	default:
		return "unknown"
	}
}

// debounceWindow is the interval over which raw events are coalesced
// into a single delivery.
const debounceWindow = 300 * time.Millisecond

// headFiles are watched under the git dir and classified as KindHead.
var headFiles = map[string]bool{
	"HEAD":             true,
	"MERGE_HEAD":       true,
	"REBASE_HEAD":      true,
	"CHERRY_PICK_HEAD": true,
}

// Watcher watches the working tree and the Git directory and delivers
// debounced sets of changed Kinds.
type Watcher struct {
	workDir string
	gitDir  string

	fsw *fsnotify.Watcher

	mu         sync.Mutex
	pending    map[Kind]bool
	indexMtime time.Time

	changes chan map[Kind]bool
	errs    chan error
	done    chan struct{}
}

// New creates a Watcher rooted at workDir, whose Git directory is gitDir
// (".git", or the resolved target for a worktree/submodule).
func New(workDir, gitDir string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		workDir: workDir,
		gitDir:  gitDir,
		fsw:     fsw,
		pending: make(map[Kind]bool),
		changes: make(chan map[Kind]bool, 4),
		errs:    make(chan error, 4),
		done:    make(chan struct{}),
	}

	if fi, err := os.Stat(filepath.Join(gitDir, "index")); err == nil {
		w.indexMtime = fi.ModTime()
	}

	if err := w.addRecursive(workDir, excludeWorkdir(gitDir)); err != nil {
		fsw.Close()

		return nil, err
	}

	if err := w.addRecursive(gitDir, excludeGitDir); err != nil {
		fsw.Close()

		return nil, err
	}

	return w, nil
}

// excludeWorkdir skips the Git directory itself when walking the working
// tree (it is watched separately with its own exclusion rules).
func excludeWorkdir(gitDir string) func(path string, isDir bool) bool {
	return func(path string, isDir bool) bool {
		return isDir && path == gitDir
	}
}

// excludeGitDir reports whether a path inside the Git directory should
// be ignored: objects/** (pack churn) and any path ending in .lock.
func excludeGitDir(path string, isDir bool) bool {
	if isDir && filepath.Base(path) == "objects" {
		return true
	}

	return strings.HasSuffix(path, ".lock")
}

func (w *Watcher) addRecursive(root string, exclude func(path string, isDir bool) bool) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}

			return err
		}

		if exclude != nil && exclude(path, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if d.IsDir() {
			return w.fsw.Add(path)
		}

		return nil
	})
}

// Changes returns the channel on which debounced kind-sets are delivered.
func (w *Watcher) Changes() <-chan map[Kind]bool {
	return w.changes
}

// Errors returns the channel on which underlying fsnotify errors surface.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Run processes events until Close is called. Intended to run in its own
// goroutine.
func (w *Watcher) Run() {
	timer := time.NewTimer(debounceWindow)
	if !timer.Stop() {
		<-timer.C
	}
	timerActive := false

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}

			// fsnotify watches are not recursive; pick up directories
			// created after startup.
			if event.Op.Has(fsnotify.Create) {
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
					exclude := excludeWorkdir(w.gitDir)
					if rel, err := filepath.Rel(w.gitDir, event.Name); err == nil && !strings.HasPrefix(rel, "..") {
						exclude = excludeGitDir
					}

					if !exclude(event.Name, true) {
						_ = w.addRecursive(event.Name, exclude)
					}
				}
			}

			if kind, ok := w.classify(event.Name); ok {
				w.mu.Lock()
				w.pending[kind] = true
				w.mu.Unlock()

				if !timerActive {
					timer.Reset(debounceWindow)
					timerActive = true
				}
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}

			select {
			case w.errs <- err:
			default:
			}

		case <-timer.C:
			timerActive = false

			w.mu.Lock()
			flushed := w.pending
			w.pending = make(map[Kind]bool)
			w.mu.Unlock()

			if len(flushed) > 0 {
				select {
				case w.changes <- flushed:
				default:
				}
			}

		case <-w.done:
			return
		}
	}
}

// classify maps an absolute path to a Kind, or reports
// ok=false for excluded/irrelevant paths.
func (w *Watcher) classify(path string) (Kind, bool) {
	rel, err := filepath.Rel(w.gitDir, path)
	if err == nil && !strings.HasPrefix(rel, "..") {
		if strings.HasSuffix(rel, ".lock") {
			return 0, false
		}

		if strings.HasPrefix(rel, "objects"+string(filepath.Separator)) || rel == "objects" {
			return 0, false
		}

		switch {
		case rel == "index":
			return w.classifyIndex()
		case headFiles[rel]:
			return KindHead, true
		case rel == "packed-refs" || strings.HasPrefix(rel, "refs"+string(filepath.Separator)) || rel == "refs":
			return KindRefs, true
		default:
			return 0, false
		}
	}

	if strings.HasSuffix(path, ".lock") {
		return 0, false
	}

	return KindWorkdir, true
}

// classifyIndex guards against spurious index-file notifications by
// checking whether the file's mtime actually advanced.
func (w *Watcher) classifyIndex() (Kind, bool) {
	fi, err := os.Stat(filepath.Join(w.gitDir, "index"))
	if err != nil {
		return 0, false
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if !fi.ModTime().After(w.indexMtime) {
		return 0, false
	}

	w.indexMtime = fi.ModTime()

	return KindIndex, true
}

// Close stops the watcher and releases its OS resources.
func (w *Watcher) Close() error {
	close(w.done)

	return w.fsw.Close()
}

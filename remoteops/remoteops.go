// Package remoteops covers the network-facing operations: fetch/pull/push,
// remote CRUD, and the SSH host-key acceptance helper.
package remoteops

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fenwick-software/gitcore/git"
	"github.com/fenwick-software/gitcore/model"
	"github.com/fenwick-software/gitcore/repoerrors"
)

// Ops drives remote operations.
type Ops struct {
	Executor git.Executor
}

// New binds an Ops to executor.
func New(executor git.Executor) *Ops {
	return &Ops{Executor: executor}
}

// hostKeyPattern extracts the offending host from git/ssh's "Host key
// verification failed" stderr, e.g. "Host key verification failed for
// 'github.com'" or the classic ssh wording referencing a known_hosts line.
var hostKeyPattern = regexp.MustCompile(`(?i)host key verification failed.*?for\s+['"]?([a-zA-Z0-9.-]+)['"]?`)

// classifyRemoteErr wraps a subprocess failure as HostKeyRequired or
// AuthRequired when its stderr matches a known pattern.
func classifyRemoteErr(err error, remote string) error {
	if err == nil {
		return nil
	}

	msg := err.Error()

	if m := hostKeyPattern.FindStringSubmatch(msg); m != nil {
		return &repoerrors.HostKeyRequired{Host: m[1]}
	}

	lower := strings.ToLower(msg)
	if strings.Contains(lower, "permission denied") ||
		strings.Contains(lower, "authentication failed") ||
		strings.Contains(lower, "could not read username") {
		return &repoerrors.AuthRequired{Remote: remote}
	}

	return err
}

// Fetch fetches from remote (empty string uses the configured default).
func (o *Ops) Fetch(ctx context.Context, remote string) error {
	if err := o.Executor.Fetch(ctx, remote); err != nil {
		return classifyRemoteErr(err, remote)
	}

	return nil
}

// Pull pulls from remote/branch.
func (o *Ops) Pull(ctx context.Context, remote, branch string) error {
	if err := o.Executor.Pull(ctx, remote, branch); err != nil {
		return classifyRemoteErr(err, remote)
	}

	return nil
}

// Push pushes to remote/branch, optionally creating the upstream.
func (o *Ops) Push(ctx context.Context, remote, branch string, setUpstream bool) error {
	if err := o.Executor.Push(ctx, remote, branch, setUpstream); err != nil {
		return classifyRemoteErr(err, remote)
	}

	return nil
}

// AddRemote adds a new remote.
func (o *Ops) AddRemote(ctx context.Context, name, url string) error {
	if name == "" || url == "" {
		return &repoerrors.InvalidArgument{What: "remote name and url must not be empty"}
	}

	if err := o.Executor.AddRemote(ctx, name, url); err != nil {
		return fmt.Errorf("add remote %s: %w", name, err)
	}

	return nil
}

// DeleteRemote removes a remote.
func (o *Ops) DeleteRemote(ctx context.Context, name string) error {
	if err := o.Executor.DeleteRemote(ctx, name); err != nil {
		return fmt.Errorf("delete remote %s: %w", name, err)
	}

	return nil
}

// RenameRemote renames a remote.
func (o *Ops) RenameRemote(ctx context.Context, oldName, newName string) error {
	if err := o.Executor.RenameRemote(ctx, oldName, newName); err != nil {
		return fmt.Errorf("rename remote %s -> %s: %w", oldName, newName, err)
	}

	return nil
}

// SetRemoteURL changes a remote's URL.
func (o *Ops) SetRemoteURL(ctx context.Context, name, url string) error {
	if err := o.Executor.SetRemoteURL(ctx, name, url); err != nil {
		return fmt.Errorf("set remote url %s: %w", name, err)
	}

	return nil
}

// ListRemotes lists configured remotes.
func (o *Ops) ListRemotes(ctx context.Context) ([]model.RemoteInfo, error) {
	remotes, err := o.Executor.ListRemotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list remotes: %w", err)
	}

	out := make([]model.RemoteInfo, 0, len(remotes))
	for _, r := range remotes {
		out = append(out, model.RemoteInfo{Name: r.Name, URL: r.URL})
	}

	return out, nil
}

// AcceptHostKey runs `ssh-keyscan -H host` and appends the result to
// ~/.ssh/known_hosts, creating the file if missing.
func AcceptHostKey(ctx context.Context, host string) error {
	if host == "" {
		return &repoerrors.InvalidArgument{What: "host must not be empty"}
	}

	cmd := exec.CommandContext(ctx, "ssh-keyscan", "-H", host)

	out, err := cmd.Output()
	if err != nil {
		return fmt.Errorf("ssh-keyscan %s: %w", host, err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolve home directory: %w", err)
	}

	sshDir := filepath.Join(home, ".ssh")
	if err := os.MkdirAll(sshDir, 0o700); err != nil {
		return fmt.Errorf("create .ssh directory: %w", err)
	}

	knownHosts := filepath.Join(sshDir, "known_hosts")

	f, err := os.OpenFile(knownHosts, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open known_hosts: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("write known_hosts: %w", err)
	}

	return w.Flush()
}

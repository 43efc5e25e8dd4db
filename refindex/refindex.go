// Package refindex builds a point-in-time
// snapshot of branches, tags, remotes, stashes, and submodules, plus the
// commit_hash -> []RefLabel map consumed by the graph renderer.
package refindex

import (
	"context"
	"fmt"
	"sort"

	"github.com/fenwick-software/gitcore/git"
	"github.com/fenwick-software/gitcore/gitrepo"
	"github.com/fenwick-software/gitcore/model"
)

// RefIndex is an immutable snapshot; callers rebuild it via Build whenever
// MetadataChanged fires.
type RefIndex struct {
	Branches   []model.BranchInfo
	Remotes    []model.RemoteInfo
	Tags       []model.Tag
	Stashes    []model.StashInfo
	Submodules []model.SubmoduleInfo

	// byHash maps a commit hash to every ref that points at it, ordered
	// HEAD, local branches, remotes, tags.
	byHash map[string][]model.RefLabel
}

// Build snapshots the repository's refs. executor is used for the
// operations go-git has no plumbing for (stash listing, ahead/behind
// counts against a configured upstream).
func Build(ctx context.Context, repo *gitrepo.Handle, executor git.Executor) (*RefIndex, error) {
	idx := &RefIndex{byHash: make(map[string][]model.RefLabel)}

	current, err := executor.CurrentBranch(ctx)
	if err != nil {
		return nil, fmt.Errorf("current branch: %w", err)
	}

	headHash, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("head: %w", err)
	}

	idx.addLabel(headHash.String(), model.RefLabel{Name: "HEAD", Class: model.RefClassHEAD})

	branches, err := repo.Branches()
	if err != nil {
		return nil, fmt.Errorf("branches: %w", err)
	}

	cfg, err := repo.Config()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	for _, ref := range branches {
		name := ref.Name().Short()
		bi := model.BranchInfo{
			Name:      name,
			ShortHash: shortHash(ref.Hash().String()),
			IsCurrent: name == current,
		}

		if branchCfg, ok := cfg.Branches[name]; ok && branchCfg.Remote != "" && branchCfg.Merge != "" {
			bi.Upstream = branchCfg.Remote + "/" + branchCfg.Merge.Short()

			if ahead, behind, aberr := executor.AheadBehind(ctx, name, bi.Upstream); aberr == nil {
				bi.Ahead, bi.Behind = ahead, behind
			}
		}

		idx.Branches = append(idx.Branches, bi)
		idx.addLabel(ref.Hash().String(), model.RefLabel{Name: name, Class: model.RefClassLocalBranch})
	}

	remoteBranches, err := repo.RemoteBranches()
	if err != nil {
		return nil, fmt.Errorf("remote branches: %w", err)
	}

	for _, ref := range remoteBranches {
		name := ref.Name().Short()
		idx.Branches = append(idx.Branches, model.BranchInfo{
			Name:      name,
			ShortHash: shortHash(ref.Hash().String()),
			IsRemote:  true,
		})
		idx.addLabel(ref.Hash().String(), model.RefLabel{Name: name, Class: model.RefClassRemote})
	}

	tags, err := repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("tags: %w", err)
	}

	for _, ref := range tags {
		name := ref.Name().Short()
		idx.Tags = append(idx.Tags, model.Tag{Name: name})
		idx.addLabel(ref.Hash().String(), model.RefLabel{Name: name, Class: model.RefClassTag})
	}

	remotes, err := repo.Remotes()
	if err != nil {
		return nil, fmt.Errorf("remotes: %w", err)
	}

	for _, r := range remotes {
		cfg := r.Config()
		url := ""
		if len(cfg.URLs) > 0 {
			url = cfg.URLs[0]
		}

		idx.Remotes = append(idx.Remotes, model.RemoteInfo{Name: cfg.Name, URL: url})
	}

	stashes, err := executor.ListStashes(ctx)
	if err != nil {
		return nil, fmt.Errorf("stashes: %w", err)
	}

	for _, s := range stashes {
		idx.Stashes = append(idx.Stashes, model.StashInfo{
			Index:   fmt.Sprintf("stash@{%d}", s.Index),
			Message: s.Message,
		})
	}

	submodules, err := repo.Submodules()
	if err != nil {
		return nil, fmt.Errorf("submodules: %w", err)
	}

	for _, s := range submodules {
		info := model.SubmoduleInfo{Name: s.Config().Name}

		if status, statusErr := s.Status(); statusErr == nil && status != nil {
			info.HeadHash = status.Current.String()
		}

		idx.Submodules = append(idx.Submodules, info)
	}

	for hash, labels := range idx.byHash {
		sort.SliceStable(labels, func(i, j int) bool {
			if labels[i].Class != labels[j].Class {
				return labels[i].Class < labels[j].Class
			}

			return labels[i].Name < labels[j].Name
		})
		idx.byHash[hash] = labels
	}

	return idx, nil
}

// RefsFor returns every ref label attached to hash, HEAD first, then local
// branches, then remotes, then tags.
func (idx *RefIndex) RefsFor(hash string) []model.RefLabel {
	return idx.byHash[hash]
}

func (idx *RefIndex) addLabel(hash string, label model.RefLabel) {
	idx.byHash[hash] = append(idx.byHash[hash], label)
}

func shortHash(hash string) string {
	if len(hash) < 7 {
		return hash
	}

	return hash[:7]
}

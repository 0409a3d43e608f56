/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package clonemanager owns a pool of git clones used for read-only
// analysis of upstream repositories. Clones are leased per repository and
// reset before being returned to the pool, so repeated analyses of the same
// repository reuse the existing checkout.
package clonemanager

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"chainguard.dev/depreview/depscan/ecosystem"
	"github.com/chainguard-dev/clog"
	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"golang.org/x/oauth2"
)

const cloneDirPrefix = "depreview-clone-"

// Limits on what Sources will read, to keep analysis bounded on large
// repositories.
const (
	maxSourceFileSize = 1 << 20 // 1 MiB
	maxSourceFiles    = 2000
)

// defaultRemoteURL resolves the remote git URL for a target.
func defaultRemoteURL(t Target) string {
	return fmt.Sprintf("https://github.com/%s/%s", t.Owner, t.Repo)
}

// Target identifies a repository and ref to analyze.
type Target struct {
	Owner string
	Repo  string
	// Ref is a branch name. Empty means the remote's default branch.
	Ref string
}

func (t Target) key() string {
	return t.Owner + "/" + t.Repo
}

// Manager owns the clone pool. The token source may be nil when only public
// repositories are analyzed.
type Manager struct {
	tokenSource oauth2.TokenSource
	remoteURL   func(Target) string

	mu        sync.Mutex
	available map[string][]*clone
}

// Option configures a Manager.
type Option func(*Manager)

// WithRemoteURL overrides how targets resolve to git remote URLs. Tests use
// this to point at local filesystem repositories.
func WithRemoteURL(fn func(Target) string) Option {
	return func(m *Manager) { m.remoteURL = fn }
}

type clone struct {
	path string
	repo *git.Repository
}

// Lease is an acquired clone checked out at a specific commit. Callers must
// invoke Return to release the clone back to the pool.
type Lease struct {
	manager *Manager
	clone   *clone
	target  Target
	sha     string
}

// New constructs a Manager.
func New(tokenSource oauth2.TokenSource, opts ...Option) *Manager {
	m := &Manager{
		tokenSource: tokenSource,
		remoteURL:   defaultRemoteURL,
		available:   make(map[string][]*clone),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Lease hydrates a clone of the target repository and returns a Lease
// handle checked out at the tip of the target ref.
func (m *Manager) Lease(ctx context.Context, target Target) (*Lease, error) {
	switch {
	case target.Owner == "":
		return nil, errors.New("target owner cannot be empty")
	case target.Repo == "":
		return nil, errors.New("target repo cannot be empty")
	}

	cl, err := m.acquireClone(ctx, target)
	if err != nil {
		return nil, err
	}

	sha, err := m.prepareClone(ctx, cl, target)
	if err != nil {
		clog.FromContext(ctx).Warnf("Discarding clone after prepare failure: %v", err)
		m.discardClone(cl)
		return nil, err
	}

	return &Lease{
		manager: m,
		clone:   cl,
		target:  target,
		sha:     sha,
	}, nil
}

// acquireClone returns a pooled clone of the repository or creates a new
// one. Clones are taken from the front of the pool while releaseClone
// appends to the back, so recently returned clones are not immediately
// reused.
func (m *Manager) acquireClone(ctx context.Context, target Target) (*clone, error) {
	key := target.key()
	m.mu.Lock()
	if pool := m.available[key]; len(pool) > 0 {
		cl := pool[0]
		m.available[key] = pool[1:]
		m.mu.Unlock()
		return cl, nil
	}
	m.mu.Unlock()

	return m.createClone(ctx, target)
}

func (m *Manager) createClone(ctx context.Context, target Target) (*clone, error) {
	dir, err := os.MkdirTemp("", cloneDirPrefix)
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}

	remote := m.remoteURL(target)
	clog.FromContext(ctx).Infof("Cloning repository %s into %s", remote, dir)

	auth, err := m.authForRemote()
	if err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("getting token: %w", err)
	}

	opts := &git.CloneOptions{
		URL:          remote,
		SingleBranch: true,
		Auth:         auth,
	}
	if target.Ref != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(target.Ref)
	}

	repo, err := git.PlainCloneContext(ctx, dir, false, opts)
	if err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("cloning repository: %w", err)
	}

	return &clone{path: dir, repo: repo}, nil
}

func (m *Manager) prepareClone(ctx context.Context, cl *clone, target Target) (string, error) {
	repo := cl.repo
	if repo == nil {
		var err error
		repo, err = git.PlainOpen(cl.path)
		if err != nil {
			return "", fmt.Errorf("opening repo: %w", err)
		}
		cl.repo = repo
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}

	if err := worktree.Reset(&git.ResetOptions{Mode: git.HardReset}); err != nil {
		return "", fmt.Errorf("resetting worktree: %w", err)
	}
	if err := worktree.Clean(&git.CleanOptions{Dir: true}); err != nil {
		return "", fmt.Errorf("cleaning worktree: %w", err)
	}

	ref := target.Ref
	if ref == "" {
		head, err := repo.Head()
		if err != nil {
			return "", fmt.Errorf("resolving HEAD: %w", err)
		}
		ref = head.Name().Short()
	}

	auth, err := m.authForRemote()
	if err != nil {
		return "", fmt.Errorf("getting token: %w", err)
	}

	fetchOpts := &git.FetchOptions{
		RefSpecs: []gitconfig.RefSpec{gitconfig.RefSpec(fmt.Sprintf("+refs/heads/%s:refs/remotes/origin/%s", ref, ref))},
		Auth:     auth,
	}

	clog.FromContext(ctx).Infof("Fetching ref %s", ref)
	if err := repo.FetchContext(ctx, fetchOpts); err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return "", fmt.Errorf("fetching ref %s: %w", ref, err)
	}

	remoteRef, err := repo.Reference(plumbing.NewRemoteReferenceName("origin", ref), true)
	if err != nil {
		return "", fmt.Errorf("getting remote ref %s: %w", ref, err)
	}

	if err := worktree.Checkout(&git.CheckoutOptions{Hash: remoteRef.Hash(), Force: true}); err != nil {
		return "", fmt.Errorf("checking out ref %s: %w", ref, err)
	}

	return remoteRef.Hash().String(), nil
}

func (m *Manager) resetClone(cl *clone) error {
	worktree, err := cl.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}
	if err := worktree.Reset(&git.ResetOptions{Mode: git.HardReset}); err != nil {
		return fmt.Errorf("resetting worktree: %w", err)
	}
	if err := worktree.Clean(&git.CleanOptions{Dir: true}); err != nil {
		return fmt.Errorf("cleaning worktree: %w", err)
	}
	return nil
}

func (m *Manager) releaseClone(key string, cl *clone) {
	m.mu.Lock()
	m.available[key] = append(m.available[key], cl)
	m.mu.Unlock()
}

func (m *Manager) discardClone(cl *clone) {
	os.RemoveAll(cl.path)
}

func (m *Manager) authForRemote() (*githttp.BasicAuth, error) {
	if m.tokenSource == nil {
		return nil, nil
	}
	token, err := m.tokenSource.Token()
	if err != nil {
		return nil, err
	}
	return &githttp.BasicAuth{
		Username: "unused-when-using-access-tokens",
		Password: token.AccessToken,
	}, nil
}

// WorkingTree returns the absolute path to the lease's working directory.
func (l *Lease) WorkingTree() string {
	return l.clone.path
}

// SHA returns the commit hash currently checked out by the lease.
func (l *Lease) SHA() string {
	return l.sha
}

// ReadFile reads a file from the checkout. The path must stay inside the
// working tree.
func (l *Lease) ReadFile(path string) (string, error) {
	full := filepath.Join(l.clone.path, path)
	if !strings.HasPrefix(full, l.clone.path+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes the working tree", path)
	}
	body, err := os.ReadFile(full)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Sources walks the checkout and returns the contents of source files in
// the given ecosystem, keyed by repository-relative path. Oversized files
// and anything under a vendored or dependency directory are skipped, and
// the walk stops after maxSourceFiles files.
func (l *Lease) Sources(eco ecosystem.Ecosystem) (map[string]string, error) {
	sources := make(map[string]string)
	root := l.clone.path
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			switch d.Name() {
			case ".git", "node_modules", "vendor", "dist", "build", "target":
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if !ecosystem.IsSourceFile(eco, rel) {
			return nil
		}
		info, err := d.Info()
		if err != nil || info.Size() > maxSourceFileSize {
			return nil
		}
		body, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		sources[filepath.ToSlash(rel)] = string(body)
		if len(sources) >= maxSourceFiles {
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking checkout: %w", err)
	}
	return sources, nil
}

// Return resets the working tree and places the clone back into the
// manager's pool. Once Return succeeds, the lease is invalid.
func (l *Lease) Return(ctx context.Context) error {
	if err := l.manager.resetClone(l.clone); err != nil {
		l.manager.discardClone(l.clone)
		l.clone = nil
		return err
	}

	l.manager.releaseClone(l.target.key(), l.clone)
	l.clone = nil
	l.manager = nil
	l.sha = ""
	return nil
}

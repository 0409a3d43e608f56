/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package clonemanager

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"chainguard.dev/depreview/depscan/ecosystem"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"golang.org/x/oauth2"
)

func initTestRepo(t *testing.T) (string, string) {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}

	files := map[string]string{
		"package.json": `{"dependencies":{"lodash":"4.17.21"}}`,
		"src/index.js": "import _ from 'lodash';\n",
		"src/util.ts":  "const fp = require('lodash/fp');\n",
		"README.md":    "# test\n",
	}
	for name, content := range files {
		full := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		if _, err := wt.Add(filepath.ToSlash(name)); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	hash, err := wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test",
			Email: "test@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if err := repo.Storer.SetReference(plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName("master"))); err != nil {
		t.Fatalf("SetReference: %v", err)
	}

	return dir, hash.String()
}

func TestLeaseLifecycle(t *testing.T) {
	ctx := context.Background()
	repoDir, headHash := initTestRepo(t)
	target := Target{Owner: "tests", Repo: repoDir, Ref: "master"}
	mgr := New(staticTokenSource(""), WithRemoteURL(func(Target) string { return repoDir }))

	lease, err := mgr.Lease(ctx, target)
	if err != nil {
		t.Fatalf("Lease: %v", err)
	}

	if got := lease.SHA(); got != headHash {
		t.Fatalf("SHA mismatch, got %s want %s", got, headHash)
	}

	workingDir := lease.WorkingTree()
	if workingDir == repoDir {
		t.Fatalf("expected working dir to differ from remote")
	}

	content, err := lease.ReadFile("package.json")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if content == "" {
		t.Fatal("expected manifest content")
	}

	if _, err := lease.ReadFile("../outside"); err == nil {
		t.Fatal("expected path escape to fail")
	}

	scratch := filepath.Join(workingDir, "scratch.txt")
	if err := os.WriteFile(scratch, []byte("temporary"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := lease.Return(ctx); err != nil {
		t.Fatalf("returning lease: %v", err)
	}

	lease2, err := mgr.Lease(ctx, target)
	if err != nil {
		t.Fatalf("Lease reuse: %v", err)
	}

	if lease2.WorkingTree() != workingDir {
		t.Fatalf("expected clone to be reused")
	}

	if _, err := os.Stat(scratch); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected scratch file cleaned, got err=%v", err)
	}

	if err := lease2.Return(ctx); err != nil {
		t.Fatalf("returning lease2: %v", err)
	}
}

func TestSources(t *testing.T) {
	ctx := context.Background()
	repoDir, _ := initTestRepo(t)
	target := Target{Owner: "tests", Repo: repoDir, Ref: "master"}
	mgr := New(nil, WithRemoteURL(func(Target) string { return repoDir }))

	lease, err := mgr.Lease(ctx, target)
	if err != nil {
		t.Fatalf("Lease: %v", err)
	}
	defer lease.Return(ctx)

	sources, err := lease.Sources(ecosystem.JavaScript)
	if err != nil {
		t.Fatalf("Sources: %v", err)
	}

	if len(sources) != 2 {
		t.Fatalf("Sources() = %d files %v, wanted 2", len(sources), sources)
	}
	if _, ok := sources["src/index.js"]; !ok {
		t.Error("Sources() missing src/index.js")
	}
	if _, ok := sources["src/util.ts"]; !ok {
		t.Error("Sources() missing src/util.ts")
	}
}

// Clones are released to the back of the pool and acquired from the front,
// so the most recently returned clone is reused last.
func TestFIFOPoolBehavior(t *testing.T) {
	ctx := context.Background()
	repoDir, _ := initTestRepo(t)
	target := Target{Owner: "tests", Repo: repoDir, Ref: "master"}
	mgr := New(staticTokenSource(""), WithRemoteURL(func(Target) string { return repoDir }))

	lease1, err := mgr.Lease(ctx, target)
	if err != nil {
		t.Fatalf("Lease 1: %v", err)
	}
	lease2, err := mgr.Lease(ctx, target)
	if err != nil {
		t.Fatalf("Lease 2: %v", err)
	}

	dir1 := lease1.WorkingTree()
	dir2 := lease2.WorkingTree()

	if err := lease1.Return(ctx); err != nil {
		t.Fatalf("Return lease1: %v", err)
	}
	if err := lease2.Return(ctx); err != nil {
		t.Fatalf("Return lease2: %v", err)
	}

	reacquired1, err := mgr.Lease(ctx, target)
	if err != nil {
		t.Fatalf("Reacquire 1: %v", err)
	}
	reacquired2, err := mgr.Lease(ctx, target)
	if err != nil {
		t.Fatalf("Reacquire 2: %v", err)
	}

	if got := reacquired1.WorkingTree(); got != dir1 {
		t.Errorf("First reacquire: got %s, want %s", got, dir1)
	}
	if got := reacquired2.WorkingTree(); got != dir2 {
		t.Errorf("Second reacquire: got %s, want %s", got, dir2)
	}

	_ = reacquired1.Return(ctx)
	_ = reacquired2.Return(ctx)
}

type staticTokenSource string

func (s staticTokenSource) Token() (*oauth2.Token, error) {
	return &oauth2.Token{AccessToken: string(s)}, nil
}

/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package gitcli shells out to the git CLI for operations on local
// checkouts, such as producing diffs between refs.
package gitcli

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/chainguard-dev/clog"
)

// commandTimeout bounds any single git invocation.
const commandTimeout = 60 * time.Second

// Client runs git commands inside a repository directory.
type Client struct {
	dir string
}

// New returns a Client rooted at the given repository directory.
func New(dir string) *Client {
	return &Client{dir: dir}
}

func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	clog.FromContext(ctx).Debugf("Running git %s in %s", strings.Join(args, " "), c.dir)

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = c.dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}

// Diff returns the unified diff between baseRef and the working tree HEAD.
func (c *Client) Diff(ctx context.Context, baseRef string) (string, error) {
	return c.run(ctx, "diff", baseRef, "HEAD")
}

// ChangedFiles lists the paths touched between baseRef and HEAD.
func (c *Client) ChangedFiles(ctx context.Context, baseRef string) ([]string, error) {
	out, err := c.run(ctx, "diff", "--name-only", baseRef, "HEAD")
	if err != nil {
		return nil, err
	}
	var files []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}

// Log returns the one-line commit subjects between baseRef and HEAD,
// newest first.
func (c *Client) Log(ctx context.Context, baseRef string) ([]string, error) {
	out, err := c.run(ctx, "log", "--format=%s", baseRef+"..HEAD")
	if err != nil {
		return nil, err
	}
	var subjects []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			subjects = append(subjects, line)
		}
	}
	return subjects, nil
}

// Show returns the contents of a file at a ref, e.g. "HEAD:package.json".
func (c *Client) Show(ctx context.Context, refPath string) (string, error) {
	return c.run(ctx, "show", refPath)
}

// FileHistory returns up to limit one-line commit subjects that touched
// the given path, newest first.
func (c *Client) FileHistory(ctx context.Context, path string, limit int) ([]string, error) {
	out, err := c.run(ctx, "log", "--format=%s", fmt.Sprintf("-n%d", limit), "--", path)
	if err != nil {
		return nil, err
	}
	var subjects []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			subjects = append(subjects, line)
		}
	}
	return subjects, nil
}

/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package ghcli shells out to the gh CLI for pull-request operations that
// are more convenient on the command line than through the REST API.
package ghcli

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/chainguard-dev/clog"
)

const commandTimeout = 60 * time.Second

// PullRequest is the subset of gh's PR JSON the analyzer consumes.
type PullRequest struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	Author struct {
		Login string `json:"login"`
	} `json:"author"`
	BaseRefName string `json:"baseRefName"`
	HeadRefName string `json:"headRefName"`
	Files       []struct {
		Path      string `json:"path"`
		Additions int    `json:"additions"`
		Deletions int    `json:"deletions"`
	} `json:"files"`
	Commits []struct {
		MessageHeadline string `json:"messageHeadline"`
	} `json:"commits"`
}

// prFields are the JSON fields requested from gh pr view.
const prFields = "number,title,body,author,baseRefName,headRefName,files,commits"

// Client runs gh commands.
type Client struct{}

// New returns a Client. It fails when the gh CLI is not on PATH.
func New() (*Client, error) {
	if _, err := exec.LookPath("gh"); err != nil {
		return nil, fmt.Errorf("gh CLI not found: %w", err)
	}
	return &Client{}, nil
}

func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	clog.FromContext(ctx).Debugf("Running gh %s", strings.Join(args, " "))

	out, err := exec.CommandContext(ctx, "gh", args...).Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("gh %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(string(ee.Stderr)))
		}
		return "", fmt.Errorf("gh %s: %w", strings.Join(args, " "), err)
	}
	return string(out), nil
}

// ViewPR fetches pull-request metadata for a PR URL.
func (c *Client) ViewPR(ctx context.Context, prURL string) (*PullRequest, error) {
	out, err := c.run(ctx, "pr", "view", prURL, "--json", prFields)
	if err != nil {
		return nil, err
	}
	var pr PullRequest
	if err := json.Unmarshal([]byte(out), &pr); err != nil {
		return nil, fmt.Errorf("decoding gh pr view output: %w", err)
	}
	return &pr, nil
}

// DiffPR fetches the unified diff for a PR URL.
func (c *Client) DiffPR(ctx context.Context, prURL string) (string, error) {
	return c.run(ctx, "pr", "diff", prURL)
}

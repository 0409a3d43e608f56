/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package changelog

import (
	"context"
	"fmt"
	"net/http"

	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v84/github"
)

// Fetcher retrieves changelogs from upstream GitHub repositories.
type Fetcher struct {
	client *github.Client
}

// NewFetcher wraps a GitHub client.
func NewFetcher(client *github.Client) *Fetcher {
	return &Fetcher{client: client}
}

// Fetch probes the repository root for a changelog file and returns its
// contents. It returns an error only when the repository could not be read;
// a repository that simply has no changelog returns ("", nil).
func (f *Fetcher) Fetch(ctx context.Context, owner, repo string) (string, error) {
	log := clog.FromContext(ctx)
	for _, name := range candidateNames {
		content, _, resp, err := f.client.Repositories.GetContents(ctx, owner, repo, name, nil)
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("reading %s/%s %s: %w", owner, repo, name, err)
		}
		if content == nil {
			continue
		}
		body, err := content.GetContent()
		if err != nil {
			return "", fmt.Errorf("decoding %s/%s %s: %w", owner, repo, name, err)
		}
		log.Infof("Found changelog %s in %s/%s (%d bytes)", name, owner, repo, len(body))
		return body, nil
	}
	log.Infof("No changelog found in %s/%s", owner, repo)
	return "", nil
}

// FetchSlice fetches the upstream changelog and slices it to the upgrade's
// version window. A missing changelog returns ("", nil); a changelog missing
// either version heading returns an error.
func (f *Fetcher) FetchSlice(ctx context.Context, owner, repo, fromVersion, toVersion string) (string, error) {
	content, err := f.Fetch(ctx, owner, repo)
	if err != nil || content == "" {
		return "", err
	}
	return Slice(content, fromVersion, toVersion)
}

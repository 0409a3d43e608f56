/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package review

import (
	"context"
	"fmt"
	"strings"

	"chainguard.dev/depreview/tools/ghcli"
	"github.com/google/go-github/v84/github"
)

// PRData is the pull request material an analysis consumes.
type PRData struct {
	Title        string
	Body         string
	Author       string
	BaseRef      string
	Diff         string
	ChangedFiles []string
	Commits      []string
}

// Source fetches pull request material. The REST API is the default;
// environments that only have the gh CLI authenticated can use CLISource.
type Source interface {
	Fetch(ctx context.Context, res *Resource) (*PRData, error)
}

// RESTSource fetches pull request material through the GitHub REST API.
type RESTSource struct {
	gh *github.Client
}

// NewRESTSource wraps a GitHub client.
func NewRESTSource(gh *github.Client) *RESTSource {
	return &RESTSource{gh: gh}
}

func (s *RESTSource) Fetch(ctx context.Context, res *Resource) (*PRData, error) {
	pr, _, err := s.gh.PullRequests.Get(ctx, res.Owner, res.Repo, res.Number)
	if err != nil {
		return nil, fmt.Errorf("getting PR %s: %w", res, err)
	}

	diff, _, err := s.gh.PullRequests.GetRaw(ctx, res.Owner, res.Repo, res.Number, github.RawOptions{Type: github.Diff})
	if err != nil {
		return nil, fmt.Errorf("getting diff for %s: %w", res, err)
	}

	var changed []string
	opts := &github.ListOptions{PerPage: 100}
	for {
		files, resp, err := s.gh.PullRequests.ListFiles(ctx, res.Owner, res.Repo, res.Number, opts)
		if err != nil {
			return nil, fmt.Errorf("listing files for %s: %w", res, err)
		}
		for _, f := range files {
			changed = append(changed, f.GetFilename())
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	var commits []string
	commitList, _, err := s.gh.PullRequests.ListCommits(ctx, res.Owner, res.Repo, res.Number, &github.ListOptions{PerPage: 100})
	if err != nil {
		return nil, fmt.Errorf("listing commits for %s: %w", res, err)
	}
	for _, c := range commitList {
		commits = append(commits, strings.SplitN(c.GetCommit().GetMessage(), "\n", 2)[0])
	}

	return &PRData{
		Title:        pr.GetTitle(),
		Body:         pr.GetBody(),
		Author:       pr.GetUser().GetLogin(),
		BaseRef:      pr.GetBase().GetRef(),
		Diff:         diff,
		ChangedFiles: changed,
		Commits:      commits,
	}, nil
}

// CLISource fetches pull request material by shelling out to the gh CLI.
type CLISource struct {
	cli *ghcli.Client
}

// NewCLISource wraps a gh CLI client.
func NewCLISource(cli *ghcli.Client) *CLISource {
	return &CLISource{cli: cli}
}

func (s *CLISource) Fetch(ctx context.Context, res *Resource) (*PRData, error) {
	pr, err := s.cli.ViewPR(ctx, res.URL)
	if err != nil {
		return nil, err
	}
	diff, err := s.cli.DiffPR(ctx, res.URL)
	if err != nil {
		return nil, err
	}

	changed := make([]string, 0, len(pr.Files))
	for _, f := range pr.Files {
		changed = append(changed, f.Path)
	}
	commits := make([]string, 0, len(pr.Commits))
	for _, c := range pr.Commits {
		commits = append(commits, c.MessageHeadline)
	}

	return &PRData{
		Title:        pr.Title,
		Body:         pr.Body,
		Author:       pr.Author.Login,
		BaseRef:      pr.BaseRefName,
		Diff:         diff,
		ChangedFiles: changed,
		Commits:      commits,
	}, nil
}

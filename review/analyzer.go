/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package review

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"chainguard.dev/depreview/agents/toolcall"
	"chainguard.dev/depreview/depscan/changelog"
	"chainguard.dev/depreview/depscan/criticality"
	"chainguard.dev/depreview/depscan/ecosystem"
	"chainguard.dev/depreview/depscan/importscan"
	"chainguard.dev/depreview/depscan/upgrade"
	"chainguard.dev/depreview/tools/clonemanager"
	"chainguard.dev/depreview/tools/gitcli"
	"chainguard.dev/depreview/tools/registry"
	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v84/github"
	"github.com/shurcooL/githubv4"
	"github.com/waigani/diffparser"
	"golang.org/x/sync/errgroup"
)

// Analysis step names, in presentation order.
const (
	stepMetadata     = "metadata"
	stepDiffReview   = "diff-review"
	stepChangelog    = "changelog"
	stepUsage        = "usage"
	stepLinkedIssues = "linked-issues"
	stepVerdict      = "verdict"
)

// Analysis is the full result of reviewing one pull request.
type Analysis struct {
	Resource  *Resource           `json:"resource"`
	Title     string              `json:"title"`
	Upgrade   *upgrade.Upgrade    `json:"upgrade,omitempty"`
	Ecosystem ecosystem.Ecosystem `json:"ecosystem,omitempty"`

	DiffSummary     *DiffSummary            `json:"diffSummary,omitempty"`
	Changelog       string                  `json:"changelog,omitempty"`
	ChangelogReview *ChangelogReview        `json:"changelogReview,omitempty"`
	Criticality     *criticality.Assessment `json:"criticality,omitempty"`
	LinkedIssues    []string                `json:"linkedIssues,omitempty"`
	Verdict         *Verdict                `json:"verdict,omitempty"`

	Steps []Step `json:"steps"`
}

// Analyzer reviews dependency-update pull requests.
type Analyzer struct {
	clients Clients
	gh      *github.Client
	gql     *githubv4.Client
	source  Source

	registry   *registry.Client
	changelogs *changelog.Fetcher
	clones     *clonemanager.Manager

	model string

	// Test seams; when non-nil these replace the routed executors.
	diffRunner      runner[diffSummaryRequest, DiffSummary]
	changelogRunner runner[changelogRequest, ChangelogReview]
	verdictRunner   runner[verdictRequest, Verdict]
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithModel selects the model used by all analysis agents.
func WithModel(model string) AnalyzerOption {
	return func(a *Analyzer) { a.model = model }
}

// WithSource overrides how pull request material is fetched.
func WithSource(source Source) AnalyzerOption {
	return func(a *Analyzer) { a.source = source }
}

// WithRegistry overrides the package registry client.
func WithRegistry(reg *registry.Client) AnalyzerOption {
	return func(a *Analyzer) { a.registry = reg }
}

// WithCloneManager overrides the clone pool used for usage scans.
func WithCloneManager(clones *clonemanager.Manager) AnalyzerOption {
	return func(a *Analyzer) { a.clones = clones }
}

// WithChangelogFetcher overrides the upstream changelog fetcher.
func WithChangelogFetcher(f *changelog.Fetcher) AnalyzerOption {
	return func(a *Analyzer) { a.changelogs = f }
}

// WithGraphQLClient overrides the GraphQL client used for linked-issue
// lookups.
func WithGraphQLClient(gql *githubv4.Client) AnalyzerOption {
	return func(a *Analyzer) { a.gql = gql }
}

// NewAnalyzer constructs an Analyzer around a GitHub client and the
// configured model providers.
func NewAnalyzer(gh *github.Client, clients Clients, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		clients:    clients,
		gh:         gh,
		source:     NewRESTSource(gh),
		registry:   registry.New(),
		changelogs: changelog.NewFetcher(gh),
		clones:     clonemanager.New(nil),
		model:      "claude-sonnet-4-5",
	}
	if gh != nil {
		a.gql = githubv4.NewClient(gh.Client())
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze reviews the pull request at the given resource. Individual steps
// record their own failures in the returned Analysis without halting their
// siblings; only a failure to fetch the PR itself is fatal.
func (a *Analyzer) Analyze(ctx context.Context, res *Resource) (*Analysis, error) {
	log := clog.FromContext(ctx).With("pr", res.String())
	ctx = clog.WithLogger(ctx, log)

	ledger := NewLedger(stepMetadata, stepDiffReview, stepChangelog, stepUsage, stepLinkedIssues, stepVerdict)
	analysis := &Analysis{Resource: res}

	ledger.Start(stepMetadata)
	pr, err := a.source.Fetch(ctx, res)
	if err != nil {
		ledger.Fail(stepMetadata, err)
		analysis.Steps = ledger.Snapshot()
		return analysis, fmt.Errorf("fetching PR %s: %w", res, err)
	}

	analysis.Title = pr.Title
	analysis.Ecosystem = ecosystem.Detect(pr.Title, pr.ChangedFiles)

	up, err := upgrade.ParseTitle(pr.Title)
	if err != nil {
		ledger.Fail(stepMetadata, err)
		analysis.Steps = ledger.Snapshot()
		return analysis, err
	}
	analysis.Upgrade = up
	ledger.Complete(stepMetadata)

	log.With("package", up.Package).
		With("ecosystem", analysis.Ecosystem).
		Info("Analyzing dependency upgrade")

	// The usage step acquires a clone lease that the verdict agent also
	// reads from, so it outlives the fan-out.
	var lease *clonemanager.Lease
	defer func() {
		if lease != nil {
			if err := lease.Return(ctx); err != nil {
				log.Warnf("Returning clone lease: %v", err)
			}
		}
	}()

	var g errgroup.Group
	g.Go(func() error {
		ledger.Run(stepDiffReview, func() error {
			return a.reviewDiff(ctx, analysis, pr)
		})
		return nil
	})
	g.Go(func() error {
		ledger.Run(stepChangelog, func() error {
			return a.reviewChangelog(ctx, analysis, up)
		})
		return nil
	})
	g.Go(func() error {
		ledger.Run(stepUsage, func() error {
			var err error
			lease, err = a.assessUsage(ctx, analysis, res, pr, up)
			return err
		})
		return nil
	})
	g.Go(func() error {
		ledger.Run(stepLinkedIssues, func() error {
			return a.findLinkedIssues(ctx, analysis, res)
		})
		return nil
	})
	// Step errors are absorbed into the ledger.
	_ = g.Wait()

	ledger.Run(stepVerdict, func() error {
		return a.decide(ctx, analysis, up, lease)
	})

	analysis.Steps = ledger.Snapshot()
	return analysis, nil
}

// isManifest reports whether a path is a manifest or lockfile the
// ecosystem detector knows about.
func isManifest(filePath string) bool {
	return ecosystem.DetectFromFiles([]string{filePath}) != ecosystem.Unknown
}

// reviewDiff parses the diff for statistics and asks the diff agent what
// the PR actually changes.
func (a *Analyzer) reviewDiff(ctx context.Context, analysis *Analysis, pr *PRData) error {
	stats := diffStats{Files: len(pr.ChangedFiles)}
	if parsed, err := diffparser.Parse(pr.Diff); err == nil {
		for _, file := range parsed.Files {
			for _, hunk := range file.Hunks {
				for _, line := range hunk.NewRange.Lines {
					if line.Mode == diffparser.ADDED {
						stats.Additions++
					}
				}
				for _, line := range hunk.OrigRange.Lines {
					if line.Mode == diffparser.REMOVED {
						stats.Deletions++
					}
				}
			}
		}
	} else {
		clog.FromContext(ctx).Warnf("Parsing diff: %v", err)
	}
	for _, f := range pr.ChangedFiles {
		if !isManifest(f) {
			stats.NonManifestFiles = append(stats.NonManifestFiles, f)
		}
	}

	run := a.diffRunner
	if run == nil {
		var err error
		run, err = newRunner[diffSummaryRequest, DiffSummary](a.clients, a.model, diffSummaryPrompt, nil)
		if err != nil {
			return err
		}
	}
	summary, err := run.Execute(ctx, diffSummaryRequest{
		Title:   pr.Title,
		Commits: pr.Commits,
		Diff:    truncate(pr.Diff, maxDiffBytes),
		Stats:   stats,
	}, nil)
	if err != nil {
		return err
	}
	analysis.DiffSummary = &summary
	return nil
}

// maxDiffBytes bounds the diff text handed to an agent prompt.
const maxDiffBytes = 256 << 10

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "\n... (truncated)"
}

// reviewChangelog resolves the upstream repository, slices its changelog to
// the upgrade's version window, and asks the changelog agent to read it.
func (a *Analyzer) reviewChangelog(ctx context.Context, analysis *Analysis, up *upgrade.Upgrade) error {
	owner, repo, err := a.resolveUpstream(ctx, analysis.Ecosystem, up.Package)
	if err != nil {
		return err
	}

	slice, err := a.changelogs.FetchSlice(ctx, owner, repo, up.FromVersion, up.ToVersion)
	if err != nil {
		return err
	}
	if slice == "" {
		return fmt.Errorf("no changelog found in %s/%s", owner, repo)
	}
	analysis.Changelog = slice

	run := a.changelogRunner
	if run == nil {
		run, err = newRunner[changelogRequest, ChangelogReview](a.clients, a.model, changelogPrompt, nil)
		if err != nil {
			return err
		}
	}
	rev, err := run.Execute(ctx, changelogRequest{Upgrade: *up, Changelog: slice}, nil)
	if err != nil {
		return err
	}
	analysis.ChangelogReview = &rev
	return nil
}

// resolveUpstream maps a package name to its GitHub repository. JavaScript
// packages resolve through the npm registry; Go modules carry their
// repository in the module path.
func (a *Analyzer) resolveUpstream(ctx context.Context, eco ecosystem.Ecosystem, pkg string) (string, string, error) {
	switch eco {
	case ecosystem.JavaScript:
		return a.registry.ResolveUpstream(ctx, pkg)
	case ecosystem.Go:
		if strings.HasPrefix(pkg, "github.com/") {
			parts := strings.Split(pkg, "/")
			if len(parts) >= 3 {
				return parts[1], parts[2], nil
			}
		}
		return "", "", fmt.Errorf("cannot resolve upstream repository for Go module %s", pkg)
	default:
		// GitHub Actions style owner/repo names work directly.
		parts := strings.Split(pkg, "/")
		if len(parts) == 2 && !strings.Contains(pkg, ".") {
			return parts[0], parts[1], nil
		}
		return "", "", fmt.Errorf("cannot resolve upstream repository for %s package %s", eco, pkg)
	}
}

// assessUsage clones the consuming repository, counts import sites of the
// upgraded package, and scores its criticality. The returned lease stays
// open for the verdict agent.
func (a *Analyzer) assessUsage(ctx context.Context, analysis *Analysis, res *Resource, pr *PRData, up *upgrade.Upgrade) (*clonemanager.Lease, error) {
	lease, err := a.clones.Lease(ctx, clonemanager.Target{
		Owner: res.Owner,
		Repo:  res.Repo,
		Ref:   pr.BaseRef,
	})
	if err != nil {
		return nil, err
	}

	sources, err := lease.Sources(analysis.Ecosystem)
	if err != nil {
		return lease, err
	}

	assessment := criticality.Assess(criticality.Signals{
		Package:    up.Package,
		UsageCount: importscan.CountUsageFor(analysis.Ecosystem, up.Package, sources),
		Direct:     a.isDirectDependency(analysis.Ecosystem, up.Package, lease),
	})
	analysis.Criticality = &assessment
	return lease, nil
}

// directDependencyManifests lists, per ecosystem, the manifests where a
// direct dependency would be declared.
var directDependencyManifests = map[ecosystem.Ecosystem][]string{
	ecosystem.JavaScript: {"package.json"},
	ecosystem.Java:       {"pom.xml", "build.gradle", "build.gradle.kts"},
	ecosystem.Go:         {"go.mod"},
	ecosystem.Python:     {"requirements.txt", "pyproject.toml", "Pipfile", "setup.py"},
	ecosystem.Ruby:       {"Gemfile"},
}

// isDirectDependency reports whether the package is declared in one of the
// ecosystem's manifests at the repository root.
func (a *Analyzer) isDirectDependency(eco ecosystem.Ecosystem, pkg string, lease *clonemanager.Lease) bool {
	name := pkg
	// Java coordinates appear in manifests by artifact, not group.
	if eco == ecosystem.Java {
		if i := strings.LastIndexByte(pkg, ':'); i >= 0 {
			name = pkg[i+1:]
		}
	}
	for _, manifest := range directDependencyManifests[eco] {
		content, err := lease.ReadFile(manifest)
		if err != nil {
			continue
		}
		if strings.Contains(content, name) {
			return true
		}
	}
	return false
}

// findLinkedIssues queries the GraphQL API for issues this PR closes.
func (a *Analyzer) findLinkedIssues(ctx context.Context, analysis *Analysis, res *Resource) error {
	if a.gql == nil {
		return fmt.Errorf("no GitHub client configured")
	}

	var query struct {
		Repository struct {
			PullRequest struct {
				ClosingIssuesReferences struct {
					Nodes []struct {
						URL string
					}
				} `graphql:"closingIssuesReferences(first: 10)"`
			} `graphql:"pullRequest(number: $number)"`
		} `graphql:"repository(owner: $owner, name: $repo)"`
	}

	variables := map[string]any{
		"owner":  githubv4.String(res.Owner),
		"repo":   githubv4.String(res.Repo),
		"number": githubv4.Int(res.Number),
	}

	if err := a.gql.Query(ctx, &query, variables); err != nil {
		return fmt.Errorf("graphql query: %w", err)
	}

	for _, issue := range query.Repository.PullRequest.ClosingIssuesReferences.Nodes {
		analysis.LinkedIssues = append(analysis.LinkedIssues, issue.URL)
	}
	return nil
}

// decide runs the verdict agent over everything the other steps collected.
func (a *Analyzer) decide(ctx context.Context, analysis *Analysis, up *upgrade.Upgrade, lease *clonemanager.Lease) error {
	usage := criticality.Assessment{}
	if analysis.Criticality != nil {
		usage = *analysis.Criticality
	}

	run := a.verdictRunner
	if run == nil {
		var err error
		run, err = newRunner[verdictRequest, Verdict](a.clients, a.model, verdictPrompt, instructionsFor(analysis.Ecosystem))
		if err != nil {
			return err
		}
	}

	tools := map[string]toolcall.Tool{
		"lookup_package":  lookupPackageTool(a.registry),
		"fetch_changelog": fetchChangelogTool(a.changelogs),
	}
	if lease != nil {
		tools["read_source_file"] = readSourceFileTool(lease)
		tools["count_usage"] = countUsageTool(lease, analysis.Ecosystem)
		tools["file_history"] = fileHistoryTool(gitcli.New(lease.WorkingTree()))
	}

	verdict, err := run.Execute(ctx, verdictRequest{
		Upgrade:   *up,
		Usage:     usage,
		Diff:      analysis.DiffSummary,
		Changelog: analysis.ChangelogReview,
	}, tools)
	if err != nil {
		return err
	}
	analysis.Verdict = &verdict
	return nil
}

// MarshalIndent renders the analysis as indented JSON for CLI output.
func (a *Analysis) MarshalIndent() (string, error) {
	out, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

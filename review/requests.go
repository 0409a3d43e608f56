/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package review

import (
	"chainguard.dev/depreview/agents/promptbuilder"
	"chainguard.dev/depreview/agents/schema"
	"chainguard.dev/depreview/depscan/criticality"
	"chainguard.dev/depreview/depscan/upgrade"
)

// diffStats summarizes a parsed diff for prompting.
type diffStats struct {
	Files     int `json:"files"`
	Additions int `json:"additions"`
	Deletions int `json:"deletions"`

	// NonManifestFiles are changed files that are neither manifests nor
	// lockfiles; these deserve extra scrutiny in a bot PR.
	NonManifestFiles []string `json:"nonManifestFiles,omitempty"`
}

// diffSummaryRequest binds the PR contents into diffSummaryPrompt.
type diffSummaryRequest struct {
	Title   string
	Commits []string
	Diff    string
	Stats   diffStats
}

// DiffSummary is the diff agent's verdict on what the PR changes.
type DiffSummary struct {
	Summary string `json:"summary" jsonschema:"description=One paragraph describing what the pull request changes"`

	RoutineBump bool `json:"routineBump" jsonschema:"description=True when the diff is explained entirely by the version bump"`

	Concerns []string `json:"concerns,omitempty" jsonschema:"description=Changes that a version bump would not explain"`
}

func (r diffSummaryRequest) Bind(prompt *promptbuilder.Prompt) (*promptbuilder.Prompt, error) {
	prompt, err := prompt.BindJSON("title", r.Title)
	if err != nil {
		return nil, err
	}
	if prompt, err = prompt.BindJSON("commits", r.Commits); err != nil {
		return nil, err
	}
	if prompt, err = prompt.BindFenced("diff", "diff", r.Diff); err != nil {
		return nil, err
	}
	if prompt, err = prompt.BindJSON("stats", r.Stats); err != nil {
		return nil, err
	}
	return prompt.BindJSON("schema", schema.For[DiffSummary]())
}

// changelogRequest binds the sliced changelog into changelogPrompt.
type changelogRequest struct {
	Upgrade   upgrade.Upgrade
	Changelog string
}

// ChangelogReview is the changelog agent's reading of the upstream entries.
type ChangelogReview struct {
	Summary string `json:"summary" jsonschema:"description=One paragraph summarizing the changes between the two versions"`

	Breaking []string `json:"breaking,omitempty" jsonschema:"description=Breaking changes a consumer must handle"`

	SecurityFixes []string `json:"securityFixes,omitempty" jsonschema:"description=Security fixes included in the upgrade"`
}

func (r changelogRequest) Bind(prompt *promptbuilder.Prompt) (*promptbuilder.Prompt, error) {
	prompt, err := prompt.BindJSON("package", r.Upgrade.Package)
	if err != nil {
		return nil, err
	}
	if prompt, err = prompt.BindJSON("fromVersion", r.Upgrade.FromVersion); err != nil {
		return nil, err
	}
	if prompt, err = prompt.BindJSON("toVersion", r.Upgrade.ToVersion); err != nil {
		return nil, err
	}
	if prompt, err = prompt.BindFenced("changelog", "markdown", r.Changelog); err != nil {
		return nil, err
	}
	return prompt.BindJSON("schema", schema.For[ChangelogReview]())
}

// verdictRequest binds the collected findings into verdictPrompt.
type verdictRequest struct {
	Upgrade   upgrade.Upgrade
	Usage     criticality.Assessment
	Diff      *DiffSummary
	Changelog *ChangelogReview
}

// Verdict is the final recommendation for the pull request.
type Verdict struct {
	Recommendation string `json:"recommendation" jsonschema:"enum=merge,enum=review,enum=hold,description=merge when safe; review when a human should look; hold when the upgrade looks dangerous"`

	Rationale string `json:"rationale" jsonschema:"description=Why this recommendation follows from the findings"`
}

func (r verdictRequest) Bind(prompt *promptbuilder.Prompt) (*promptbuilder.Prompt, error) {
	prompt, err := prompt.BindJSON("upgrade", r.Upgrade)
	if err != nil {
		return nil, err
	}
	if prompt, err = prompt.BindJSON("usage", r.Usage); err != nil {
		return nil, err
	}
	if prompt, err = prompt.BindJSON("diffFindings", r.Diff); err != nil {
		return nil, err
	}
	if prompt, err = prompt.BindJSON("changelogFindings", r.Changelog); err != nil {
		return nil, err
	}
	return prompt.BindJSON("schema", schema.For[Verdict]())
}

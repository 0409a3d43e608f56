/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package report

import (
	"strings"
	"testing"

	"chainguard.dev/depreview/depscan/criticality"
	"chainguard.dev/depreview/depscan/ecosystem"
	"chainguard.dev/depreview/depscan/upgrade"
	"chainguard.dev/depreview/review"
)

func sampleAnalysis() *review.Analysis {
	assessment := criticality.Assess(criticality.Signals{
		Package:    "lodash",
		UsageCount: 7,
		Direct:     true,
	})
	return &review.Analysis{
		Resource:  &review.Resource{Owner: "acme", Repo: "webapp", Number: 42},
		Title:     "Bump lodash from 4.17.20 to 4.17.21",
		Upgrade:   &upgrade.Upgrade{Package: "lodash", FromVersion: "4.17.20", ToVersion: "4.17.21"},
		Ecosystem: ecosystem.JavaScript,
		DiffSummary: &review.DiffSummary{
			Summary:     "Routine lockfile refresh.",
			RoutineBump: true,
		},
		ChangelogReview: &review.ChangelogReview{
			Summary:       "One security fix.",
			SecurityFixes: []string{"Fixed command injection in template."},
		},
		Criticality:  &assessment,
		LinkedIssues: []string{"https://github.com/acme/webapp/issues/7"},
		Verdict:      &review.Verdict{Recommendation: "merge", Rationale: "Patch release with a security fix."},
		Steps: []review.Step{
			{Name: "metadata", Status: review.StatusCompleted},
			{Name: "diff-review", Status: review.StatusCompleted},
			{Name: "changelog", Status: review.StatusError, Error: "no changelog found"},
			{Name: "verdict", Status: review.StatusCompleted},
		},
	}
}

func TestMarkdown(t *testing.T) {
	got := Markdown(sampleAnalysis())

	for _, want := range []string{
		"## Dependency review: Bump lodash from 4.17.20 to 4.17.21",
		"lodash",
		"4.17.20",
		"4.17.21",
		"javascript",
		"**Recommendation: merge**",
		"Routine lockfile refresh.",
		"🔒 Fixed command injection in template.",
		"https://github.com/acme/webapp/issues/7",
		"### Analysis steps",
		"no changelog found",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Markdown() missing %q:\n%s", want, got)
		}
	}
}

func TestMarkdownMinimalAnalysis(t *testing.T) {
	// A metadata failure leaves most sections empty; the report should
	// still render the steps.
	analysis := &review.Analysis{
		Resource: &review.Resource{Owner: "acme", Repo: "webapp", Number: 42},
		Title:    "Refactor request handling",
		Steps: []review.Step{
			{Name: "metadata", Status: review.StatusError, Error: "not a dependency upgrade"},
		},
	}
	got := Markdown(analysis)
	if !strings.Contains(got, "not a dependency upgrade") {
		t.Errorf("Markdown() missing the step error:\n%s", got)
	}
	if strings.Contains(got, "Recommendation") {
		t.Errorf("Markdown() rendered a recommendation with no verdict:\n%s", got)
	}
}

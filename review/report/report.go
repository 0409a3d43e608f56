/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package report renders a completed analysis as markdown suitable for a
// pull request comment.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"chainguard.dev/depreview/review"
)

// statusEmoji maps step states to the markers used in the step table.
var statusEmoji = map[review.Status]string{
	review.StatusPending:   "⏸",
	review.StatusRunning:   "▶",
	review.StatusCompleted: "✅",
	review.StatusError:     "❌",
}

// Markdown renders the analysis.
func Markdown(analysis *review.Analysis) string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "## Dependency review: %s\n\n", analysis.Title)

	if up := analysis.Upgrade; up != nil {
		from := up.FromVersion
		if from == "" {
			from = "(unknown)"
		}
		table := newMarkdownTable([]string{"Package", "From", "To", "Ecosystem", "Criticality"}, &buf)
		crit := "-"
		if analysis.Criticality != nil {
			crit = fmt.Sprintf("%s (score %d)", analysis.Criticality.Level, analysis.Criticality.Score)
		}
		eco := string(analysis.Ecosystem)
		if eco == "" {
			eco = "-"
		}
		_ = table.Append([]string{up.Package, from, up.ToVersion, eco, crit})
		_ = table.Render()
		buf.WriteString("\n")
	}

	if v := analysis.Verdict; v != nil {
		fmt.Fprintf(&buf, "**Recommendation: %s** - %s\n\n", v.Recommendation, v.Rationale)
	}

	if ds := analysis.DiffSummary; ds != nil {
		buf.WriteString("### What changed\n\n")
		buf.WriteString(ds.Summary)
		buf.WriteString("\n\n")
		for _, concern := range ds.Concerns {
			fmt.Fprintf(&buf, "- ⚠️ %s\n", concern)
		}
		if len(ds.Concerns) > 0 {
			buf.WriteString("\n")
		}
	}

	if cr := analysis.ChangelogReview; cr != nil {
		buf.WriteString("### Upstream changes\n\n")
		buf.WriteString(cr.Summary)
		buf.WriteString("\n\n")
		for _, b := range cr.Breaking {
			fmt.Fprintf(&buf, "- 💥 %s\n", b)
		}
		for _, s := range cr.SecurityFixes {
			fmt.Fprintf(&buf, "- 🔒 %s\n", s)
		}
		if len(cr.Breaking)+len(cr.SecurityFixes) > 0 {
			buf.WriteString("\n")
		}
	}

	if len(analysis.LinkedIssues) > 0 {
		buf.WriteString("### Linked issues\n\n")
		for _, url := range analysis.LinkedIssues {
			fmt.Fprintf(&buf, "- %s\n", url)
		}
		buf.WriteString("\n")
	}

	buf.WriteString("### Analysis steps\n\n")
	table := newMarkdownTable([]string{"Step", "Status", "Notes"}, &buf)
	for _, step := range analysis.Steps {
		notes := step.Error
		_ = table.Append([]string{step.Name, fmt.Sprintf("%s %s", statusEmoji[step.Status], step.Status), notes})
	}
	_ = table.Render()

	return strings.TrimRight(buf.String(), "\n") + "\n"
}

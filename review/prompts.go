/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package review

import (
	"chainguard.dev/depreview/agents/promptbuilder"
	"chainguard.dev/depreview/depscan/ecosystem"
)

// diffSummaryPrompt asks for an assessment of what a dependency-update PR
// actually changes.
var diffSummaryPrompt = promptbuilder.MustNewPrompt(`
You are reviewing a dependency-update pull request.

Title:
{{title}}

Commits:
{{commits}}

Diff:
{{diff}}

Diff statistics:
{{stats}}

Summarize what this pull request changes. Call out anything that is not a
routine version bump: source code edits, CI changes, new scripts, or
anything else a lockfile refresh would not explain.

Respond with a single JSON object matching this schema:
{{schema}}
`)

// changelogPrompt asks for a review of the upstream changelog entries
// covering the upgrade.
var changelogPrompt = promptbuilder.MustNewPrompt(`
The package {{package}} is being upgraded from {{fromVersion}} to
{{toVersion}}. These are the upstream changelog entries covering that
range:

{{changelog}}

Identify breaking changes, security fixes, and anything else a consumer
must act on before merging the upgrade.

Respond with a single JSON object matching this schema:
{{schema}}
`)

// verdictPrompt asks for a final recommendation given everything the other
// steps collected.
var verdictPrompt = promptbuilder.MustNewPrompt(`
You are deciding whether a dependency-update pull request is safe to merge.

Upgrade:
{{upgrade}}

How the consuming repository uses this package:
{{usage}}

Diff review findings:
{{diffFindings}}

Changelog review findings:
{{changelogFindings}}

Weigh the criticality of the package against the findings and recommend a
course of action.

Respond with a single JSON object matching this schema:
{{schema}}
`)

// ecosystemInstructions are per-ecosystem system prompts for the verdict
// agent, so each ecosystem's upgrade conventions inform the recommendation.
var ecosystemInstructions = map[ecosystem.Ecosystem]*promptbuilder.Prompt{
	ecosystem.JavaScript: promptbuilder.MustNewPrompt(`
You are an expert JavaScript dependency reviewer. Pay attention to npm
semver ranges, postinstall scripts, transitive lockfile churn, and supply
chain attacks delivered through patch releases.`),
	ecosystem.Java: promptbuilder.MustNewPrompt(`
You are an expert Java dependency reviewer. Pay attention to Maven and
Gradle coordinate changes, shaded jars, bytecode compatibility across
minor versions, and CVEs in widely embedded libraries.`),
	ecosystem.Go: promptbuilder.MustNewPrompt(`
You are an expert Go dependency reviewer. Pay attention to module major
version suffixes, go.sum churn, replaced modules, and minimal version
selection effects on transitive dependencies.`),
	ecosystem.Python: promptbuilder.MustNewPrompt(`
You are an expert Python dependency reviewer. Pay attention to pinned
versus range requirements, wheels with native extensions, and packages
that execute code at install time.`),
	ecosystem.Ruby: promptbuilder.MustNewPrompt(`
You are an expert Ruby dependency reviewer. Pay attention to Gemfile.lock
resolution changes, native extension gems, and Rails engine upgrades.`),
}

// defaultInstructions backs ecosystems the verdict agent has no specialized
// briefing for.
var defaultInstructions = promptbuilder.MustNewPrompt(`
You are an expert dependency reviewer assessing the risk of a version
upgrade for a consuming repository.`)

// instructionsFor returns the system prompt for an ecosystem.
func instructionsFor(eco ecosystem.Ecosystem) *promptbuilder.Prompt {
	if p, ok := ecosystemInstructions[eco]; ok {
		return p
	}
	return defaultInstructions
}

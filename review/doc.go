/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package review orchestrates the analysis of dependency-update pull
// requests.  Given a pull request URL it fetches the change, detects the
// ecosystem, parses the upgrade out of the title, and fans out a set of
// analysis steps (diff review, changelog review, usage assessment, linked
// issues) before asking a model for an overall verdict.  Step failures are
// recorded in the returned Analysis rather than aborting their siblings.
package review

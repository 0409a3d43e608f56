/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package changelog locates and slices upstream changelogs so a review only
// has to read the entries between the two versions of an upgrade.
package changelog

import (
	"fmt"
	"regexp"
	"strings"
)

// candidateNames are the file names probed, in order, when looking for a
// changelog in an upstream repository.
var candidateNames = []string{
	"CHANGELOG.md",
	"CHANGELOG",
	"CHANGES.md",
	"HISTORY.md",
	"NEWS.md",
	"RELEASES.md",
	"changelog.md",
}

// CandidateNames returns the file names probed when searching a repository
// root for a changelog.
func CandidateNames() []string {
	return append([]string(nil), candidateNames...)
}

// headingRE matches markdown release headings like "## [4.17.21] - 2021-02-20"
// or "## v4.17.21".
var headingRE = regexp.MustCompile(`^#{1,4}\s`)

// headingMatches reports whether a heading line refers to the version.
func headingMatches(line, version string) bool {
	if !headingRE.MatchString(line) {
		return false
	}
	version = strings.TrimPrefix(version, "v")
	for _, tok := range strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '[' || r == ']' || r == '(' || r == ')' || r == ':'
	}) {
		if strings.TrimPrefix(tok, "v") == version {
			return true
		}
	}
	return false
}

// Slice returns the changelog entries covering the upgrade: everything from
// the heading for toVersion down to, but not including, the heading for
// fromVersion. The changelog is assumed newest-first. The entries for
// toVersion are included; the entries for fromVersion are not.
//
// When fromVersion is empty, slicing stops at the next release heading after
// toVersion instead.
func Slice(content, fromVersion, toVersion string) (string, error) {
	lines := strings.Split(content, "\n")

	start := -1
	for i, line := range lines {
		if headingMatches(line, toVersion) {
			start = i
			break
		}
	}
	if start < 0 {
		return "", fmt.Errorf("no changelog heading for version %s", toVersion)
	}

	end := len(lines)
	if fromVersion != "" {
		end = -1
		for i := start + 1; i < len(lines); i++ {
			if headingMatches(lines[i], fromVersion) {
				end = i
				break
			}
		}
		if end < 0 {
			return "", fmt.Errorf("no changelog heading for version %s", fromVersion)
		}
	} else {
		for i := start + 1; i < len(lines); i++ {
			if headingRE.MatchString(lines[i]) {
				end = i
				break
			}
		}
	}

	return strings.TrimRight(strings.Join(lines[start:end], "\n"), "\n"), nil
}

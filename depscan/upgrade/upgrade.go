/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package upgrade extracts the package name and version pair from
// dependency-update pull request titles, as produced by Dependabot,
// Renovate, and similar bots.
package upgrade

import (
	"fmt"
	"regexp"
	"strings"
)

// Upgrade is one package moving between two versions.
type Upgrade struct {
	// Package is the dependency name, e.g. "lodash" or
	// "github.com/spf13/cobra".
	Package string `json:"package"`

	// FromVersion is the version before the change. Renovate-style
	// titles sometimes omit it.
	FromVersion string `json:"fromVersion,omitempty"`

	// ToVersion is the version after the change.
	ToVersion string `json:"toVersion"`
}

var (
	// "Bump lodash from 4.17.20 to 4.17.21", "chore(deps): update
	// foo/bar from v1.2.3 to v1.3.0"
	fromToRE = regexp.MustCompile(`(?i)\b(?:bump|update|upgrade)s?\b:?\s+(\S+)\s+from\s+v?([\w.+-]+)\s+to\s+v?([\w.+-]+)`)

	// Renovate: "Update dependency lodash to v4.17.21", "fix(deps):
	// update module github.com/spf13/cobra to v1.10.2"
	toOnlyRE = regexp.MustCompile(`(?i)\b(?:bump|update|upgrade)s?\b:?\s+(?:dependency\s+|module\s+)?(\S+)\s+to\s+v?([\w.+-]+)`)
)

// ParseTitle extracts the upgrade from a PR title. It returns an error when
// the title does not look like a dependency update.
func ParseTitle(title string) (*Upgrade, error) {
	if m := fromToRE.FindStringSubmatch(title); m != nil {
		return &Upgrade{
			Package:     cleanPackage(m[1]),
			FromVersion: m[2],
			ToVersion:   m[3],
		}, nil
	}
	if m := toOnlyRE.FindStringSubmatch(title); m != nil {
		return &Upgrade{
			Package:   cleanPackage(m[1]),
			ToVersion: m[2],
		}, nil
	}
	return nil, fmt.Errorf("title %q does not describe a dependency upgrade", title)
}

// cleanPackage strips decoration bots wrap package names in.
func cleanPackage(pkg string) string {
	pkg = strings.Trim(pkg, "`\"'")
	return strings.TrimSuffix(pkg, ":")
}

// IsMajor reports whether the upgrade crosses a major version boundary.
// Unknown or missing versions report false.
func (u *Upgrade) IsMajor() bool {
	if u.FromVersion == "" {
		return false
	}
	return majorOf(u.FromVersion) != majorOf(u.ToVersion)
}

func majorOf(version string) string {
	version = strings.TrimPrefix(version, "v")
	if i := strings.IndexByte(version, '.'); i >= 0 {
		return version[:i]
	}
	return version
}

/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package ecosystem identifies the package-management ecosystem a change
// belongs to, routing dependency analysis to the right specialized agent.
//
// This is the single home for the detection heuristics; manifest-based and
// title-based detection agree on one vocabulary and one priority order.
package ecosystem

import (
	"path"
	"strings"
)

// Ecosystem is a programming-language package-management context.
type Ecosystem string

const (
	JavaScript Ecosystem = "javascript"
	Java       Ecosystem = "java"
	Go         Ecosystem = "go"
	Python     Ecosystem = "python"
	Ruby       Ecosystem = "ruby"

	// Unknown means no heuristic matched.
	Unknown Ecosystem = ""
)

// All lists the supported ecosystems in detection priority order.
var All = []Ecosystem{JavaScript, Java, Go, Python, Ruby}

// manifests maps manifest and lockfile basenames to their ecosystem.
var manifests = map[string]Ecosystem{
	"package.json":      JavaScript,
	"package-lock.json": JavaScript,
	"yarn.lock":         JavaScript,
	"pnpm-lock.yaml":    JavaScript,
	"pom.xml":           Java,
	"build.gradle":      Java,
	"build.gradle.kts":  Java,
	"go.mod":            Go,
	"go.sum":            Go,
	"requirements.txt":  Python,
	"pyproject.toml":    Python,
	"Pipfile":           Python,
	"Pipfile.lock":      Python,
	"setup.py":          Python,
	"Gemfile":           Ruby,
	"Gemfile.lock":      Ruby,
}

// titleKeywords maps PR-title substrings to their ecosystem.
var titleKeywords = map[string]Ecosystem{
	"npm":       JavaScript,
	"yarn":      JavaScript,
	"pnpm":      JavaScript,
	"node":      JavaScript,
	"maven":     Java,
	"gradle":    Java,
	"golang":    Go,
	"go module": Go,
	"pip":       Python,
	"pypi":      Python,
	"poetry":    Python,
	"gem":       Ruby,
	"bundler":   Ruby,
	"rubygems":  Ruby,
}

// sourceExtensions maps source-file extensions to their ecosystem, used both
// for detection and for scoping import-usage scans.
var sourceExtensions = map[Ecosystem][]string{
	JavaScript: {".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs"},
	Java:       {".java", ".kt"},
	Go:         {".go"},
	Python:     {".py"},
	Ruby:       {".rb"},
}

// SourceExtensions returns the source-file extensions scanned for import
// usage in the given ecosystem.
func SourceExtensions(eco Ecosystem) []string {
	return sourceExtensions[eco]
}

// IsSourceFile reports whether the path is a source file of the given
// ecosystem.
func IsSourceFile(eco Ecosystem, filePath string) bool {
	ext := strings.ToLower(path.Ext(filePath))
	for _, e := range sourceExtensions[eco] {
		if ext == e {
			return true
		}
	}
	return false
}

// DetectFromFiles inspects changed file paths for manifest files and
// returns the ecosystem with the most manifest hits. Ties resolve in the
// priority order of All.
func DetectFromFiles(paths []string) Ecosystem {
	counts := make(map[Ecosystem]int)
	for _, p := range paths {
		if eco, ok := manifests[path.Base(p)]; ok {
			counts[eco]++
		}
	}
	best := Unknown
	for _, eco := range All {
		if counts[eco] > counts[best] || (best == Unknown && counts[eco] > 0) {
			best = eco
		}
	}
	return best
}

// DetectFromTitle scans a PR title for ecosystem keywords.
func DetectFromTitle(title string) Ecosystem {
	lower := strings.ToLower(title)
	for _, eco := range All {
		for keyword, keco := range titleKeywords {
			if keco == eco && strings.Contains(lower, keyword) {
				return eco
			}
		}
	}
	return Unknown
}

// Detect combines both heuristics: changed manifest files win, the title is
// the fallback.
func Detect(title string, changedFiles []string) Ecosystem {
	if eco := DetectFromFiles(changedFiles); eco != Unknown {
		return eco
	}
	return DetectFromTitle(title)
}

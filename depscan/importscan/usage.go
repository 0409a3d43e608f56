/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package importscan

import (
	"fmt"
	"regexp"
	"strings"

	"chainguard.dev/depreview/depscan/ecosystem"
)

// goMajorSuffixRE strips /v2 style major version suffixes from module paths.
var goMajorSuffixRE = regexp.MustCompile(`/v\d+$`)

// importName reduces a package identifier to the token that appears at its
// import sites in the given ecosystem.
func importName(eco ecosystem.Ecosystem, pkg string) string {
	switch eco {
	case ecosystem.Go:
		// Go files import the full module path.
		return goMajorSuffixRE.ReplaceAllString(pkg, "")
	case ecosystem.Python:
		// Distribution names use dashes, modules use underscores.
		return strings.ReplaceAll(pkg, "-", "_")
	case ecosystem.Java:
		// Maven coordinates are groupId:artifactId; imports use the
		// group's package prefix.
		if i := strings.IndexByte(pkg, ':'); i >= 0 {
			return pkg[:i]
		}
		return pkg
	default:
		return pkg
	}
}

// importLinePatterns matches the import forms of each ecosystem; %s is the
// quoted import name.
var importLinePatterns = map[ecosystem.Ecosystem]string{
	ecosystem.Go:     `(?m)^\s*(?:import\s+)?(?:[\w.]+\s+)?"%s(?:/[^"]*)?"`,
	ecosystem.Python: `(?m)^\s*(?:import\s+%s\b|from\s+%s\b)`,
	ecosystem.Ruby:   `(?m)^\s*require(?:_relative)?\s+['"]%s(?:/[^'"]*)?['"]`,
	ecosystem.Java:   `(?m)^\s*import\s+(?:static\s+)?%s[.\w]*\s*;`,
}

// CountUsageFor counts import sites of the package across the sources for
// any supported ecosystem. JavaScript uses the full import parser; the
// other ecosystems use per-language import line patterns.
func CountUsageFor(eco ecosystem.Ecosystem, pkg string, sources map[string]string) int {
	if eco == ecosystem.JavaScript {
		return CountUsage(pkg, sources)
	}

	pattern, ok := importLinePatterns[eco]
	if !ok {
		return 0
	}
	name := regexp.QuoteMeta(importName(eco, pkg))
	args := make([]any, strings.Count(pattern, "%s"))
	for i := range args {
		args[i] = name
	}
	re := regexp.MustCompile(fmt.Sprintf(pattern, args...))

	count := 0
	for _, src := range sources {
		count += len(re.FindAllString(src, -1))
	}
	return count
}

/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package importscan parses JavaScript and TypeScript sources for module
// import statements, so usage of an upgraded dependency can be located and
// counted without a full parser.
package importscan

import (
	"regexp"
	"strings"
)

// Kind classifies how a module is brought into scope.
type Kind string

const (
	// Static is a top-level `import ... from '...'` or side-effect
	// `import '...'` statement.
	Static Kind = "static"

	// Dynamic is an `import('...')` expression.
	Dynamic Kind = "dynamic"

	// Require is a CommonJS `require('...')` call.
	Require Kind = "require"

	// ExportFrom is a re-export, `export ... from '...'`.
	ExportFrom Kind = "export-from"
)

// Import is a single resolved import statement.
type Import struct {
	// Kind is the statement form.
	Kind Kind `json:"kind"`

	// Bindings are the local names introduced, in declaration order.
	// Side-effect imports and dynamic imports have none.
	Bindings []string `json:"bindings,omitempty"`

	// Source is the module specifier, e.g. "react" or "./util".
	Source string `json:"source"`

	// Line is the 1-based line the statement starts on.
	Line int `json:"line"`
}

var (
	staticRE     = regexp.MustCompile(`^\s*import\s+(.+?)\s+from\s+['"]([^'"]+)['"]`)
	sideEffectRE = regexp.MustCompile(`^\s*import\s+['"]([^'"]+)['"]`)
	exportFromRE = regexp.MustCompile(`^\s*export\s+(.+?)\s+from\s+['"]([^'"]+)['"]`)
	dynamicRE    = regexp.MustCompile(`import\s*\(\s*['"]([^'"]+)['"]\s*\)`)
	requireRE    = regexp.MustCompile(`require\s*\(\s*['"]([^'"]+)['"]\s*\)`)

	// const foo = require('bar'), const {a, b} = require('bar')
	requireBindingRE = regexp.MustCompile(`(?:const|let|var)\s+(\{[^}]*\}|[A-Za-z_$][\w$]*)\s*=\s*require\s*\(\s*['"]([^'"]+)['"]\s*\)`)
)

// Scan extracts all imports from a JavaScript or TypeScript source.
func Scan(source string) []Import {
	var imports []Import
	for i, line := range strings.Split(source, "\n") {
		lineNo := i + 1
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "*") {
			continue
		}

		if m := staticRE.FindStringSubmatch(line); m != nil {
			imports = append(imports, Import{
				Kind:     Static,
				Bindings: parseBindings(m[1]),
				Source:   m[2],
				Line:     lineNo,
			})
			continue
		}
		if m := sideEffectRE.FindStringSubmatch(line); m != nil {
			imports = append(imports, Import{
				Kind:   Static,
				Source: m[1],
				Line:   lineNo,
			})
			continue
		}
		if m := exportFromRE.FindStringSubmatch(line); m != nil {
			imports = append(imports, Import{
				Kind:     ExportFrom,
				Bindings: parseBindings(m[1]),
				Source:   m[2],
				Line:     lineNo,
			})
			continue
		}
		if m := requireBindingRE.FindStringSubmatch(line); m != nil {
			imports = append(imports, Import{
				Kind:     Require,
				Bindings: parseBindings(m[1]),
				Source:   m[2],
				Line:     lineNo,
			})
			continue
		}
		if m := requireRE.FindStringSubmatch(line); m != nil {
			imports = append(imports, Import{
				Kind:   Require,
				Source: m[1],
				Line:   lineNo,
			})
			continue
		}
		if m := dynamicRE.FindStringSubmatch(line); m != nil {
			imports = append(imports, Import{
				Kind:   Dynamic,
				Source: m[1],
				Line:   lineNo,
			})
		}
	}
	return imports
}

// parseBindings splits an import clause into its local names.
// Handles default imports, `* as ns`, named lists, and combinations like
// `React, { useState, useEffect as effect }`.
func parseBindings(clause string) []string {
	var bindings []string
	clause = strings.TrimSpace(clause)

	// Split the default portion off of a named list.
	if open := strings.Index(clause, "{"); open >= 0 {
		before := strings.TrimSuffix(strings.TrimSpace(clause[:open]), ",")
		if before = strings.TrimSpace(before); before != "" {
			bindings = append(bindings, parseBindings(before)...)
		}
		inner := clause
		if close := strings.Index(inner, "}"); close > open {
			inner = inner[open+1 : close]
		} else {
			inner = inner[open+1:]
		}
		for _, part := range strings.Split(inner, ",") {
			bindings = append(bindings, localName(part))
		}
		return compact(bindings)
	}

	for _, part := range strings.Split(clause, ",") {
		bindings = append(bindings, localName(part))
	}
	return compact(bindings)
}

// localName resolves one specifier to the name it binds locally,
// honoring `as` aliases and namespace imports.
func localName(spec string) string {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return ""
	}
	fields := strings.Fields(spec)
	for i, f := range fields {
		if f == "as" && i+1 < len(fields) {
			return fields[i+1]
		}
	}
	if fields[0] == "*" {
		return ""
	}
	// Strip a TypeScript `type` modifier.
	if fields[0] == "type" && len(fields) > 1 {
		return fields[1]
	}
	return fields[0]
}

func compact(names []string) []string {
	out := names[:0]
	for _, n := range names {
		if n != "" {
			out = append(out, n)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// normalizePackage reduces a module specifier to its package name:
// "lodash/fp" is lodash, "@scope/pkg/sub" is @scope/pkg.
func normalizePackage(source string) string {
	parts := strings.Split(source, "/")
	if strings.HasPrefix(source, "@") && len(parts) >= 2 {
		return parts[0] + "/" + parts[1]
	}
	return parts[0]
}

// CountUsage counts how many imports across the given sources resolve to
// the named package, matching subpath imports like "lodash/fp".
func CountUsage(pkg string, sources map[string]string) int {
	count := 0
	for _, src := range sources {
		for _, imp := range Scan(src) {
			if normalizePackage(imp.Source) == pkg {
				count++
			}
		}
	}
	return count
}

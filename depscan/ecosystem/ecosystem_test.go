/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package ecosystem

import "testing"

func TestDetectFromFiles(t *testing.T) {
	tests := []struct {
		name  string
		paths []string
		want  Ecosystem
	}{{
		name:  "package.json",
		paths: []string{"package.json", "src/index.js"},
		want:  JavaScript,
	}, {
		name:  "lockfile only",
		paths: []string{"yarn.lock"},
		want:  JavaScript,
	}, {
		name:  "nested go.mod",
		paths: []string{"hack/tools/go.mod", "hack/tools/go.sum"},
		want:  Go,
	}, {
		name:  "maven",
		paths: []string{"pom.xml", "src/main/java/App.java"},
		want:  Java,
	}, {
		name:  "gradle kotlin dsl",
		paths: []string{"build.gradle.kts"},
		want:  Java,
	}, {
		name:  "python requirements",
		paths: []string{"requirements.txt"},
		want:  Python,
	}, {
		name:  "bundler",
		paths: []string{"Gemfile", "Gemfile.lock"},
		want:  Ruby,
	}, {
		name:  "no manifests",
		paths: []string{"README.md", "main.go.txt"},
		want:  Unknown,
	}, {
		name:  "majority wins",
		paths: []string{"go.mod", "package.json", "package-lock.json"},
		want:  JavaScript,
	}}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := DetectFromFiles(test.paths); got != test.want {
				t.Errorf("DetectFromFiles() = %v, wanted %v", got, test.want)
			}
		})
	}
}

func TestDetectFromTitle(t *testing.T) {
	tests := []struct {
		title string
		want  Ecosystem
	}{{
		title: "Bump lodash from 4.17.20 to 4.17.21 in npm group",
		want:  JavaScript,
	}, {
		title: "chore(deps): update maven dependencies",
		want:  Java,
	}, {
		title: "Update golang.org/x/net",
		want:  Go,
	}, {
		title: "Bump requests via pip",
		want:  Python,
	}, {
		title: "Update gem nokogiri",
		want:  Ruby,
	}, {
		title: "Fix flaky test",
		want:  Unknown,
	}}
	for _, test := range tests {
		t.Run(test.title, func(t *testing.T) {
			if got := DetectFromTitle(test.title); got != test.want {
				t.Errorf("DetectFromTitle(%q) = %v, wanted %v", test.title, got, test.want)
			}
		})
	}
}

func TestDetect(t *testing.T) {
	// Manifest evidence outranks the title.
	got := Detect("Bump something via pip", []string{"go.mod", "go.sum"})
	if got != Go {
		t.Errorf("Detect() = %v, wanted %v", got, Go)
	}
	// Title fallback when no manifests changed.
	got = Detect("Bump something via pip", []string{"src/app.py"})
	if got != Python {
		t.Errorf("Detect() = %v, wanted %v", got, Python)
	}
}

func TestIsSourceFile(t *testing.T) {
	tests := []struct {
		eco  Ecosystem
		path string
		want bool
	}{
		{JavaScript, "src/App.tsx", true},
		{JavaScript, "lib/util.mjs", true},
		{JavaScript, "main.go", false},
		{Go, "cmd/main.go", true},
		{Python, "scripts/run.py", true},
		{Ruby, "app/models/user.rb", true},
		{Java, "src/Main.kt", true},
	}
	for _, test := range tests {
		if got := IsSourceFile(test.eco, test.path); got != test.want {
			t.Errorf("IsSourceFile(%v, %q) = %v, wanted %v", test.eco, test.path, got, test.want)
		}
	}
}

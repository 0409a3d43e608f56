/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package ghcli

import (
	"encoding/json"
	"testing"
)

// Canned gh pr view output, to pin the field mapping against the CLI's JSON.
const ghOutput = `{
  "number": 42,
  "title": "Bump lodash from 4.17.20 to 4.17.21",
  "body": "Bumps [lodash](https://github.com/lodash/lodash).",
  "author": {"login": "dependabot[bot]"},
  "baseRefName": "main",
  "headRefName": "dependabot/npm_and_yarn/lodash-4.17.21",
  "files": [
    {"path": "package.json", "additions": 1, "deletions": 1},
    {"path": "package-lock.json", "additions": 3, "deletions": 3}
  ]
}`

func TestPullRequestDecoding(t *testing.T) {
	var pr PullRequest
	if err := json.Unmarshal([]byte(ghOutput), &pr); err != nil {
		t.Fatalf("Unmarshal() = %v", err)
	}
	if pr.Number != 42 {
		t.Errorf("Number = %d, wanted 42", pr.Number)
	}
	if pr.Author.Login != "dependabot[bot]" {
		t.Errorf("Author.Login = %q, wanted dependabot[bot]", pr.Author.Login)
	}
	if pr.BaseRefName != "main" {
		t.Errorf("BaseRefName = %q, wanted main", pr.BaseRefName)
	}
	if len(pr.Files) != 2 || pr.Files[0].Path != "package.json" {
		t.Errorf("Files = %+v, wanted the two manifest files", pr.Files)
	}
}

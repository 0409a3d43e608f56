/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package result_test

import (
	"testing"

	"chainguard.dev/depreview/agents/result"
)

type summary struct {
	Risk    string `json:"risk"`
	Summary string `json:"summary"`
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "bare json",
			in:   `{"risk": "LOW"}`,
			want: `{"risk": "LOW"}`,
		},
		{
			name: "json fence",
			in:   "Here is my analysis:\n```json\n{\"risk\": \"LOW\"}\n```\nDone.",
			want: `{"risk": "LOW"}`,
		},
		{
			name: "generic fence",
			in:   "```\n{\"risk\": \"LOW\"}\n```",
			want: `{"risk": "LOW"}`,
		},
		{
			name: "unterminated json fence",
			in:   "```json\n{\"risk\": \"LOW\"}",
			want: `{"risk": "LOW"}`,
		},
		{
			name: "whitespace",
			in:   "  \n  {\"risk\": \"LOW\"}  \n",
			want: `{"risk": "LOW"}`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := result.ExtractJSON(tc.in); got != tc.want {
				t.Errorf("ExtractJSON(): got = %q, wanted = %q", got, tc.want)
			}
		})
	}
}

func TestExtract(t *testing.T) {
	t.Run("typed extraction", func(t *testing.T) {
		got, err := result.Extract[summary]("```json\n{\"risk\": \"HIGH\", \"summary\": \"major bump\"}\n```")
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		if got.Risk != "HIGH" || got.Summary != "major bump" {
			t.Errorf("Extract(): got = %+v", got)
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		if _, err := result.Extract[summary]("not json at all"); err == nil {
			t.Error("Extract() error = nil, wanted unmarshal error")
		}
	})
}

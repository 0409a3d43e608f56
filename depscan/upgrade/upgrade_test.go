/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package upgrade

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseTitle(t *testing.T) {
	tests := []struct {
		title   string
		want    *Upgrade
		wantErr bool
	}{{
		title: "Bump lodash from 4.17.20 to 4.17.21",
		want:  &Upgrade{Package: "lodash", FromVersion: "4.17.20", ToVersion: "4.17.21"},
	}, {
		title: "Bump github.com/google/go-github/v60 from 60.0.0 to 60.0.1",
		want:  &Upgrade{Package: "github.com/google/go-github/v60", FromVersion: "60.0.0", ToVersion: "60.0.1"},
	}, {
		title: "chore(deps): bump actions/checkout from v4.1.0 to v4.2.0",
		want:  &Upgrade{Package: "actions/checkout", FromVersion: "4.1.0", ToVersion: "4.2.0"},
	}, {
		title: "Update dependency lodash to v4.17.21",
		want:  &Upgrade{Package: "lodash", ToVersion: "4.17.21"},
	}, {
		title: "fix(deps): update module github.com/spf13/cobra to v1.10.2",
		want:  &Upgrade{Package: "github.com/spf13/cobra", ToVersion: "1.10.2"},
	}, {
		title: "Upgrade jackson-databind from 2.15.0 to 2.16.1",
		want:  &Upgrade{Package: "jackson-databind", FromVersion: "2.15.0", ToVersion: "2.16.1"},
	}, {
		title: "Bump `rails` from 7.0.4 to 7.0.8",
		want:  &Upgrade{Package: "rails", FromVersion: "7.0.4", ToVersion: "7.0.8"},
	}, {
		title:   "Fix typo in README",
		wantErr: true,
	}, {
		title:   "Add retry logic to the fetcher",
		wantErr: true,
	}}
	for _, test := range tests {
		t.Run(test.title, func(t *testing.T) {
			got, err := ParseTitle(test.title)
			if test.wantErr {
				if err == nil {
					t.Fatalf("ParseTitle(%q) = %+v, wanted error", test.title, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTitle(%q) = %v", test.title, err)
			}
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("ParseTitle(%q) mismatch (-want +got):\n%s", test.title, diff)
			}
		})
	}
}

func TestIsMajor(t *testing.T) {
	tests := []struct {
		up   Upgrade
		want bool
	}{
		{Upgrade{FromVersion: "4.17.20", ToVersion: "4.17.21"}, false},
		{Upgrade{FromVersion: "4.17.21", ToVersion: "5.0.0"}, true},
		{Upgrade{FromVersion: "v1.2.3", ToVersion: "v2.0.0"}, true},
		{Upgrade{ToVersion: "4.17.21"}, false},
	}
	for _, test := range tests {
		if got := test.up.IsMajor(); got != test.want {
			t.Errorf("IsMajor(%q -> %q) = %v, wanted %v", test.up.FromVersion, test.up.ToVersion, got, test.want)
		}
	}
}

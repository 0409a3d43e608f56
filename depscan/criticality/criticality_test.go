/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package criticality

import "testing"

func TestAssess(t *testing.T) {
	tests := []struct {
		name string
		sig  Signals
		want Level
	}{{
		name: "unused transitive dep",
		sig:  Signals{Package: "left-pad", UsageCount: 0},
		want: Low,
	}, {
		name: "lightly used direct dep",
		sig:  Signals{Package: "left-pad", UsageCount: 1, Direct: true},
		want: Low,
	}, {
		name: "moderately used direct dep",
		sig:  Signals{Package: "left-pad", UsageCount: 3, Direct: true},
		want: Medium,
	}, {
		name: "heavily used direct dep",
		sig:  Signals{Package: "left-pad", UsageCount: 12, Direct: true},
		want: High,
	}, {
		name: "critical name alone",
		sig:  Signals{Package: "react-dom", UsageCount: 0},
		want: Low,
	}, {
		name: "critical direct dep",
		sig:  Signals{Package: "webpack", UsageCount: 2, Direct: true},
		want: High,
	}}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := Assess(test.sig)
			if got.Level != test.want {
				t.Errorf("Assess(%+v).Level = %v (score %d), wanted %v", test.sig, got.Level, got.Score, test.want)
			}
		})
	}
}

// The score must never decrease as usage grows, holding the other signals
// fixed.
func TestAssessMonotonicInUsage(t *testing.T) {
	for _, direct := range []bool{false, true} {
		for _, pkg := range []string{"left-pad", "react"} {
			prev := -1
			for usage := 0; usage <= 20; usage++ {
				got := Assess(Signals{Package: pkg, UsageCount: usage, Direct: direct})
				if got.Score < prev {
					t.Errorf("Assess(%s, usage=%d, direct=%v).Score = %d, below previous %d",
						pkg, usage, direct, got.Score, prev)
				}
				prev = got.Score
			}
		}
	}
}

func TestAssessThresholds(t *testing.T) {
	// Each threshold crossing adds exactly one point.
	base := Assess(Signals{Package: "x", UsageCount: 1}).Score
	at2 := Assess(Signals{Package: "x", UsageCount: 2}).Score
	at5 := Assess(Signals{Package: "x", UsageCount: 5}).Score
	at10 := Assess(Signals{Package: "x", UsageCount: 10}).Score
	if at2 != base+1 || at5 != at2+1 || at10 != at5+1 {
		t.Errorf("threshold scores = %d/%d/%d/%d, wanted consecutive increments", base, at2, at5, at10)
	}
}

/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package criticality scores how risky a dependency upgrade is for the
// consuming repository, so review effort can be focused where it matters.
package criticality

import "strings"

// Level buckets a score for human consumption.
type Level string

const (
	Low    Level = "LOW"
	Medium Level = "MEDIUM"
	High   Level = "HIGH"
)

// Signals are the observable facts about a dependency that feed scoring.
type Signals struct {
	// Package is the dependency name being upgraded.
	Package string `json:"package"`

	// UsageCount is how many import sites reference the package.
	UsageCount int `json:"usageCount"`

	// Direct is true when the package is a direct (not transitive)
	// dependency of the repository.
	Direct bool `json:"direct"`
}

// criticalNames are name fragments that mark infrastructure a repo leans on
// heavily; matching one raises the score regardless of observed usage.
var criticalNames = []string{
	"react", "webpack", "babel", "typescript", "eslint",
	"spring", "log4j", "jackson",
	"django", "flask", "numpy",
	"rails", "rack",
	"grpc", "protobuf", "openssl", "crypto",
}

// Assessment is the scored result.
type Assessment struct {
	Signals Signals `json:"signals"`
	Score   int     `json:"score"`
	Level   Level   `json:"level"`
	Reasons []string `json:"reasons"`
}

// Assess scores the signals. The score never decreases as UsageCount grows:
// each usage threshold (2, 5, 10) adds a point, directness adds two, and a
// critical-infrastructure name adds two.
func Assess(sig Signals) Assessment {
	score := 0
	var reasons []string

	for _, threshold := range []int{2, 5, 10} {
		if sig.UsageCount >= threshold {
			score++
		}
	}
	if sig.UsageCount >= 2 {
		reasons = append(reasons, "used in multiple places")
	}

	if sig.Direct {
		score += 2
		reasons = append(reasons, "direct dependency")
	}

	lower := strings.ToLower(sig.Package)
	for _, name := range criticalNames {
		if strings.Contains(lower, name) {
			score += 2
			reasons = append(reasons, "critical infrastructure package")
			break
		}
	}

	return Assessment{
		Signals: sig,
		Score:   score,
		Level:   levelFor(score),
		Reasons: reasons,
	}
}

func levelFor(score int) Level {
	switch {
	case score >= 5:
		return High
	case score >= 3:
		return Medium
	default:
		return Low
	}
}

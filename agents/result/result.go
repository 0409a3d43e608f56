/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package result extracts structured responses from LLM output text.
//
// Models are instructed to answer with a single JSON object, but in practice
// wrap it in markdown fences or surrounding prose. This package peels those
// layers off before unmarshaling.
package result

import (
	"encoding/json"
	"strings"
)

// ExtractJSON returns the JSON payload from a model response. It prefers the
// first ```json fenced block; absent one, it strips any generic fence and
// surrounding whitespace.
func ExtractJSON(responseText string) string {
	lines := strings.Split(responseText, "\n")
	var block []string
	inBlock := false
	for _, line := range lines {
		if !inBlock && strings.TrimSpace(line) == "```json" {
			inBlock = true
			continue
		}
		if inBlock {
			if strings.TrimSpace(line) == "```" {
				return strings.TrimSpace(strings.Join(block, "\n"))
			}
			block = append(block, line)
		}
	}
	if inBlock {
		// Unterminated fence; take what we collected.
		return strings.TrimSpace(strings.Join(block, "\n"))
	}

	// No ```json fence. Strip a generic fence if the whole response is one.
	text := strings.TrimSpace(responseText)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// Extract unmarshals the JSON payload of a model response into T.
func Extract[T any](responseText string) (T, error) {
	var out T
	if err := json.Unmarshal([]byte(ExtractJSON(responseText)), &out); err != nil {
		return out, err
	}
	return out, nil
}

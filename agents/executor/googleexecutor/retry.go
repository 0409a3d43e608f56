/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package googleexecutor

import "strings"

// isRetryableGeminiError reports whether err is a transient Gemini API
// error. The genai SDK does not expose a stable error type for these, so
// this matches on the messages the API actually returns for quota and
// transient server failures.
func isRetryableGeminiError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, marker := range []string{
		"429",
		"503",
		"RESOURCE_EXHAUSTED",
		"Resource exhausted",
		"rate limit",
		"quota exceeded",
		"Overloaded",
		"Internal error",
		"server error",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

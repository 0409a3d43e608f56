/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package claudeexecutor runs agent conversations against Anthropic's Claude
// models.
//
// The executor binds a request to the user prompt template, streams the
// model's response, dispatches tool calls to their handlers, and loops until
// the model produces a final text answer, which is parsed into the typed
// response via the result package. Transient API errors (429, 503, 529) are
// retried with exponential backoff.
package claudeexecutor

/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package openaiexecutor runs agent conversations against OpenAI chat
// models.
//
// It follows the same shape as claudeexecutor and googleexecutor: bind the
// request into the prompt template, loop over chat completions dispatching
// tool calls to their handlers, and parse the final text answer into the
// typed response. Rate-limit and transient server errors are retried with
// exponential backoff.
package openaiexecutor

/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package googleexecutor runs agent conversations against Google's Gemini
// models via the genai SDK.
//
// It mirrors the claudeexecutor shape: bind the request into the prompt
// template, create a chat session, dispatch function calls to tool handlers,
// and parse the final text answer into the typed response. Quota and
// transient server errors are retried with exponential backoff, and a
// malformed function call prompts the model to try again.
package googleexecutor

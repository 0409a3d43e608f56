/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package toolcall defines provider-independent tool definitions for AI
// agents.
//
// A Tool pairs a Definition (name, description, parameter schema) with a
// Handler that receives the parsed call and returns a result map. Handlers
// never return Go errors to the model: failures at the tool boundary are
// converted to an {"error": ...} result map via params.Error, so the model
// can see what went wrong and the conversation continues.
//
// Conversion from a Definition to each SDK's native tool schema happens in
// the executor packages; tool authors only deal with these types.
package toolcall

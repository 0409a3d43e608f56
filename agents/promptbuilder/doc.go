/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package promptbuilder assembles LLM prompts from templates with typed
// placeholder bindings.
//
// Templates are written with {{name}} placeholders and must be string
// literals, which keeps instruction text under developer control. Request
// data flows in through explicit bindings:
//
//	p := promptbuilder.MustNewPrompt(`Summarize this diff:
//
//	{{diff}}
//
//	Respond with JSON: {{response_format}}`)
//
//	p, err := p.BindFenced("diff", "diff", diffText)
//	p, err = p.BindJSON("response_format", example)
//	text, err := p.Build()
//
// Build fails if any placeholder remains unbound, so a template change that
// adds a placeholder cannot silently produce a prompt with a literal
// "{{name}}" in it.
//
// Request types implement Bindable so executors can bind per-request data
// without knowing the concrete shape of the request.
package promptbuilder

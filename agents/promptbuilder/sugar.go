/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

// Helpers that panic on error, for package-level prompt variables where the
// template is known valid at compile time.

// Must panics if err is non-nil, otherwise returns p.
//
//	var p = promptbuilder.Must(promptbuilder.NewPrompt(`Hello {{name}}`))
func Must(p *Prompt, err error) *Prompt {
	if err != nil {
		panic(err)
	}
	return p
}

// MustNewPrompt is Must(NewPrompt(template)).
func MustNewPrompt(template stringLiteral) *Prompt {
	return Must(NewPrompt(template))
}

// MustBindString is Must(p.BindString(...)).
func (p *Prompt) MustBindString(name string, value stringLiteral) *Prompt {
	return Must(p.BindString(name, value))
}

// MustBindJSON is Must(p.BindJSON(...)).
func (p *Prompt) MustBindJSON(name string, data any) *Prompt {
	return Must(p.BindJSON(name, data))
}

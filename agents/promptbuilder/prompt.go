/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

import (
	"fmt"
	"maps"
)

// stringLiteral only accepts untyped string constants, so template text and
// literal bindings must come from the source tree rather than request data.
type stringLiteral string

// Prompt is a template with {{name}} placeholders and their bindings.
// Prompts are immutable: each Bind* call returns a new Prompt.
type Prompt struct {
	template string
	bindings map[string]binding
}

// NewPrompt parses a template literal and registers every placeholder found
// in it as unbound.
func NewPrompt(template stringLiteral) (*Prompt, error) {
	bindings := make(map[string]binding)
	if _, err := expandTemplate(string(template), func(name string) (string, error) {
		if _, ok := bindings[name]; !ok {
			bindings[name] = unbound(name)
		}
		return "{{" + name + "}}", nil
	}); err != nil {
		return nil, err
	}
	return &Prompt{template: string(template), bindings: bindings}, nil
}

// Placeholders returns the set of placeholder names in the template.
func (p *Prompt) Placeholders() map[string]struct{} {
	names := make(map[string]struct{}, len(p.bindings))
	for name := range p.bindings {
		names[name] = struct{}{}
	}
	return names
}

// bind installs b under name, enforcing that the placeholder exists and has
// not already been bound.
func (p *Prompt) bind(name string, b binding) (*Prompt, error) {
	current, ok := p.bindings[name]
	if !ok {
		return nil, fmt.Errorf("placeholder %q not found in template", name)
	}
	if _, isUnbound := current.(unbound); !isUnbound {
		return nil, fmt.Errorf("placeholder %q already bound", name)
	}
	next := &Prompt{template: p.template, bindings: maps.Clone(p.bindings)}
	next.bindings[name] = b
	return next, nil
}

// BindString binds a literal string. The value must be a string constant;
// use BindFenced or BindJSON for request data.
func (p *Prompt) BindString(name string, value stringLiteral) (*Prompt, error) {
	return p.bind(name, literalBinding(value))
}

// BindFenced binds arbitrary text wrapped in a markdown code fence with the
// given language tag. This is the binding to use for untrusted or free-form
// content such as diffs, changelog excerpts, and PR bodies: the fence keeps
// the content visually and structurally separated from the instructions.
func (p *Prompt) BindFenced(name, lang, content string) (*Prompt, error) {
	return p.bind(name, &fencedBinding{lang: lang, content: content})
}

// BindJSON binds structured data marshaled as indented JSON.
func (p *Prompt) BindJSON(name string, data any) (*Prompt, error) {
	return p.bind(name, &jsonBinding{data: data})
}

// BindYAML binds structured data marshaled as YAML.
func (p *Prompt) BindYAML(name string, data any) (*Prompt, error) {
	return p.bind(name, &yamlBinding{data: data})
}

// Build renders the final prompt text. It fails if any placeholder is still
// unbound or if a binding cannot marshal its value.
func (p *Prompt) Build() (string, error) {
	values := make(map[string]string, len(p.bindings))
	for name, b := range p.bindings {
		v, err := b.value()
		if err != nil {
			return "", err
		}
		values[name] = v
	}
	return expandTemplate(p.template, func(name string) (string, error) {
		return values[name], nil
	})
}

/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// binding produces the replacement text for one placeholder.
type binding interface {
	value() (string, error)
}

// unbound is the initial state for every placeholder found during parsing.
type unbound string

func (u unbound) value() (string, error) {
	return "", fmt.Errorf("unbound placeholder: %s", string(u))
}

// literalBinding holds developer-supplied literal text.
type literalBinding string

func (l literalBinding) value() (string, error) {
	return string(l), nil
}

// fencedBinding wraps free-form content in a markdown code fence. If the
// content itself contains a triple backtick the fence is widened until it
// is unambiguous.
type fencedBinding struct {
	lang    string
	content string
}

func (f *fencedBinding) value() (string, error) {
	fence := "```"
	for strings.Contains(f.content, fence) {
		fence += "`"
	}
	var sb strings.Builder
	sb.WriteString(fence)
	sb.WriteString(f.lang)
	sb.WriteString("\n")
	sb.WriteString(f.content)
	if !strings.HasSuffix(f.content, "\n") {
		sb.WriteString("\n")
	}
	sb.WriteString(fence)
	return sb.String(), nil
}

// jsonBinding marshals structured data as indented JSON.
type jsonBinding struct {
	data any
}

func (j *jsonBinding) value() (string, error) {
	b, err := json.MarshalIndent(j.data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON binding: %w", err)
	}
	return string(b), nil
}

// yamlBinding marshals structured data as YAML.
type yamlBinding struct {
	data any
}

func (y *yamlBinding) value() (string, error) {
	b, err := yaml.Marshal(y.data)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML binding: %w", err)
	}
	return string(b), nil
}

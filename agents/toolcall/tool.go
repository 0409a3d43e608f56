/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package toolcall

import (
	"context"

	"chainguard.dev/depreview/agents/toolcall/params"
)

// Call is a provider-independent representation of a single tool invocation.
type Call struct {
	ID   string
	Name string
	Args map[string]any
}

// Parameter describes one tool parameter.
type Parameter struct {
	Name        string
	Type        string // "string", "integer", "number", "boolean"
	Description string
	Required    bool
}

// Definition describes a tool's callable surface: name, description, and
// parameter schema.
type Definition struct {
	Name        string
	Description string
	Parameters  []Parameter
}

// InputSchema renders the parameter list as a JSON-schema object map, the
// common denominator accepted by the Anthropic, Google, and OpenAI SDKs.
func (d Definition) InputSchema() (properties map[string]any, required []string) {
	properties = make(map[string]any, len(d.Parameters))
	for _, p := range d.Parameters {
		properties[p.Name] = map[string]any{
			"type":        p.Type,
			"description": p.Description,
		}
		if p.Required {
			required = append(required, p.Name)
		}
	}
	return properties, required
}

// Handler executes a tool call and returns the result map that is serialized
// back to the model. Failures are reported in the map, not as Go errors.
type Handler func(ctx context.Context, call Call) map[string]any

// Tool is a complete tool: schema plus handler.
type Tool struct {
	Def     Definition
	Handler Handler
}

// Param extracts a required parameter from the call, returning an error
// result map suitable for handing straight back to the model when the
// parameter is missing or mistyped.
func Param[T any](call Call, name string) (T, map[string]any) {
	v, err := params.Extract[T](call.Args, name)
	if err != nil {
		return v, params.Error("%s", err)
	}
	return v, nil
}

// OptionalParam extracts an optional parameter, falling back to defaultValue
// when absent.
func OptionalParam[T any](call Call, name string, defaultValue T) (T, map[string]any) {
	v, err := params.ExtractOptional[T](call.Args, name, defaultValue)
	if err != nil {
		return v, params.Error("%s", err)
	}
	return v, nil
}

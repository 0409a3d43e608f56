/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package schema derives JSON schemas for agent response types.
//
// Response structs carry jsonschema struct tags; the derived schema is bound
// into prompts so models know the exact shape to produce.
package schema

import "github.com/invopop/jsonschema"

// reflector is configured for inline tool/response schemas: no $ref
// indirection, required-ness from struct tags.
var reflector = jsonschema.Reflector{
	RequiredFromJSONSchemaTags: true,
	ExpandedStruct:             true,
	AllowAdditionalProperties:  true,
	DoNotReference:             true,
}

// Reflect returns the JSON schema for the provided value.
func Reflect(v any) *jsonschema.Schema {
	return reflector.Reflect(v)
}

// For allocates a zero value of T and returns its schema.
func For[T any]() *jsonschema.Schema {
	var zero T
	return Reflect(&zero)
}

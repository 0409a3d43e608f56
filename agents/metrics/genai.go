/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package metrics records OpenTelemetry metrics for agent executions.
package metrics

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// GenAI holds counters for token usage and tool calls, dimensioned by model
// name so a single meter serves every executor.
type GenAI struct {
	promptTokens     metric.Int64Counter
	completionTokens metric.Int64Counter
	toolCalls        metric.Int64Counter
}

// NewGenAI creates the counters on the named meter. Counter creation
// degrades to no-ops on failure rather than disabling the executor.
func NewGenAI(meterName string) *GenAI {
	meter := otel.Meter(meterName)

	mustCounter := func(name, desc, unit string) metric.Int64Counter {
		c, err := meter.Int64Counter(name,
			metric.WithDescription(desc),
			metric.WithUnit(unit))
		if err != nil {
			slog.Warn("Failed to create counter, metric disabled", "counter", name, "error", err)
			return noop.Int64Counter{}
		}
		return c
	}

	return &GenAI{
		promptTokens:     mustCounter("genai.token.prompt", "Prompt tokens consumed", "{tokens}"),
		completionTokens: mustCounter("genai.token.completion", "Completion tokens produced", "{tokens}"),
		toolCalls:        mustCounter("genai.tool.calls", "Tool calls made during execution", "{calls}"),
	}
}

// RecordTokens records prompt and completion token usage for a model.
func (m *GenAI) RecordTokens(ctx context.Context, model string, promptTokens, completionTokens int64) {
	attrs := metric.WithAttributes(attribute.String("model", model))
	m.promptTokens.Add(ctx, promptTokens, attrs)
	m.completionTokens.Add(ctx, completionTokens, attrs)
}

// RecordToolCall records a single tool invocation for a model.
func (m *GenAI) RecordToolCall(ctx context.Context, model, toolName string) {
	m.toolCalls.Add(ctx, 1, metric.WithAttributes(
		attribute.String("model", model),
		attribute.String("tool", toolName),
	))
}

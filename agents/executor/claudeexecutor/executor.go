/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package claudeexecutor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"chainguard.dev/depreview/agents/executor/retry"
	"chainguard.dev/depreview/agents/metrics"
	"chainguard.dev/depreview/agents/promptbuilder"
	"chainguard.dev/depreview/agents/result"
	"chainguard.dev/depreview/agents/toolcall"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/chainguard-dev/clog"
)

// Interface is the public surface of a Claude agent executor.
type Interface[Request promptbuilder.Bindable, Response any] interface {
	// Execute runs the agent conversation with the given request and tools.
	Execute(ctx context.Context, request Request, tools map[string]toolcall.Tool) (Response, error)
}

type executor[Request promptbuilder.Bindable, Response any] struct {
	client             anthropic.Client
	modelName          string
	systemInstructions *promptbuilder.Prompt
	prompt             *promptbuilder.Prompt
	maxTokens          int64
	temperature        float64
	genaiMetrics       *metrics.GenAI
	retryConfig        retry.Config
}

// New creates an executor for the given client and user prompt template.
func New[Request promptbuilder.Bindable, Response any](
	client anthropic.Client,
	prompt *promptbuilder.Prompt,
	opts ...Option[Request, Response],
) (Interface[Request, Response], error) {
	if prompt == nil {
		return nil, errors.New("prompt cannot be nil")
	}

	e := &executor[Request, Response]{
		client:       client,
		modelName:    "claude-sonnet-4-5",
		prompt:       prompt,
		maxTokens:    8192,
		temperature:  0.1,
		genaiMetrics: metrics.NewGenAI("depreview.agents"),
		retryConfig:  retry.DefaultConfig(),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("applying option: %w", err)
		}
	}

	return e, nil
}

// toolParams converts provider-independent definitions to Anthropic tool
// schemas.
func toolParams(tools map[string]toolcall.Tool) []anthropic.ToolUnionParam {
	defs := make([]anthropic.ToolUnionParam, 0, len(tools))
	for _, tool := range tools {
		properties, required := tool.Def.InputSchema()
		defs = append(defs, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        tool.Def.Name,
				Description: anthropic.String(tool.Def.Description),
				InputSchema: anthropic.ToolInputSchemaParam{
					Type:       "object",
					Properties: properties,
					Required:   required,
				},
			},
		})
	}
	return defs
}

func (e *executor[Request, Response]) Execute(
	ctx context.Context,
	request Request,
	tools map[string]toolcall.Tool,
) (response Response, err error) {
	log := clog.FromContext(ctx)

	boundPrompt, err := request.Bind(e.prompt)
	if err != nil {
		return response, fmt.Errorf("binding request to prompt: %w", err)
	}
	prompt, err := boundPrompt.Build()
	if err != nil {
		return response, fmt.Errorf("building prompt: %w", err)
	}

	log.With("model", e.modelName).
		With("prompt_length", len(prompt)).
		Info("Starting Claude agent execution")

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(e.modelName),
		MaxTokens: e.maxTokens,
		Messages: []anthropic.MessageParam{{
			Role: anthropic.MessageParamRoleUser,
			Content: []anthropic.ContentBlockParamUnion{
				anthropic.NewTextBlock(prompt),
			},
		}},
		Tools: toolParams(tools),
	}
	params.Temperature = anthropic.Float(e.temperature)

	if e.systemInstructions != nil {
		systemPrompt, err := e.systemInstructions.Build()
		if err != nil {
			return response, fmt.Errorf("building system prompt: %w", err)
		}
		params.System = []anthropic.TextBlockParam{{Text: systemPrompt}}
	}

	for {
		message, err := retry.Do(ctx, e.retryConfig, "stream_message", isRetryableClaudeError, func() (anthropic.Message, error) {
			stream := e.client.Messages.NewStreaming(ctx, params)
			var msg anthropic.Message
			for stream.Next() {
				if err := msg.Accumulate(stream.Current()); err != nil {
					return msg, fmt.Errorf("accumulating event: %w", err)
				}
			}
			if err := stream.Err(); err != nil {
				return msg, err
			}
			return msg, nil
		})
		if err != nil {
			return response, fmt.Errorf("streaming Claude response: %w", err)
		}

		if message.Usage.InputTokens > 0 || message.Usage.OutputTokens > 0 {
			e.genaiMetrics.RecordTokens(ctx, e.modelName, message.Usage.InputTokens, message.Usage.OutputTokens)
		}

		var toolUses []anthropic.ToolUseBlock
		var textContent string
		for _, content := range message.Content {
			switch content.Type {
			case "text":
				textContent = content.Text
			case "tool_use":
				toolUses = append(toolUses, anthropic.ToolUseBlock{
					ID:    content.ID,
					Name:  content.Name,
					Input: content.Input,
				})
			}
		}

		if len(toolUses) > 0 {
			params.Messages = append(params.Messages, message.ToParam())

			var toolResults []anthropic.ContentBlockParamUnion
			for _, use := range toolUses {
				e.genaiMetrics.RecordToolCall(ctx, e.modelName, use.Name)
				block, err := e.dispatch(ctx, tools, use)
				if err != nil {
					return response, err
				}
				toolResults = append(toolResults, block)
			}

			params.Messages = append(params.Messages, anthropic.MessageParam{
				Role:    anthropic.MessageParamRoleUser,
				Content: toolResults,
			})
			continue
		}

		if textContent == "" {
			return response, errors.New("no content in Claude's response")
		}

		resp, err := result.Extract[Response](textContent)
		if err != nil {
			log.With("response", textContent).
				With("error", err).
				Error("Failed to parse Claude response")
			return response, fmt.Errorf("parsing response: %w", err)
		}

		log.Info("Completed Claude agent execution")
		return resp, nil
	}
}

// dispatch executes one tool call and wraps its result map as a tool-result
// content block.
func (e *executor[Request, Response]) dispatch(
	ctx context.Context,
	tools map[string]toolcall.Tool,
	use anthropic.ToolUseBlock,
) (anthropic.ContentBlockParamUnion, error) {
	log := clog.FromContext(ctx)
	log.With("tool", use.Name).With("id", use.ID).Info("Executing tool call")

	var resultMap map[string]any
	if tool, ok := tools[use.Name]; ok {
		var args map[string]any
		if err := json.Unmarshal(use.Input, &args); err != nil {
			resultMap = map[string]any{"error": fmt.Sprintf("decoding tool arguments: %v", err)}
		} else {
			resultMap = tool.Handler(ctx, toolcall.Call{ID: use.ID, Name: use.Name, Args: args})
		}
	} else {
		log.With("tool", use.Name).Error("Unknown tool requested")
		resultMap = map[string]any{"error": fmt.Sprintf("unknown tool: %q", use.Name)}
	}

	resultBytes, err := json.Marshal(resultMap)
	if err != nil {
		return anthropic.ContentBlockParamUnion{}, fmt.Errorf("marshaling tool result: %w", err)
	}

	return anthropic.ContentBlockParamUnion{
		OfToolResult: &anthropic.ToolResultBlockParam{
			ToolUseID: use.ID,
			Content: []anthropic.ToolResultBlockParamContentUnion{{
				OfText: &anthropic.TextBlockParam{Text: string(resultBytes)},
			}},
		},
	}, nil
}

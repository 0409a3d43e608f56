/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package openaiexecutor

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
	"github.com/chainguard-dev/clog"
	"github.com/openai/openai-go"
)

// Interface is the public surface of an OpenAI agent executor.
type Interface[Request promptbuilder.Bindable, Response any] interface {
	// Execute runs the agent conversation with the given request and tools.
	Execute(ctx context.Context, request Request, tools map[string]toolcall.Tool) (Response, error)
}

type executor[Request promptbuilder.Bindable, Response any] struct {
	client             openai.Client
	model              string
	systemInstructions *promptbuilder.Prompt
	prompt             *promptbuilder.Prompt
	temperature        float64
	maxTokens          int64
	genaiMetrics       *metrics.GenAI
	retryConfig        retry.Config
}

// New creates an executor for the given client and user prompt template.
func New[Request promptbuilder.Bindable, Response any](
	client openai.Client,
	prompt *promptbuilder.Prompt,
	opts ...Option[Request, Response],
) (Interface[Request, Response], error) {
	if prompt == nil {
		return nil, errors.New("prompt cannot be nil")
	}

	e := &executor[Request, Response]{
		client:       client,
		model:        "gpt-4o",
		prompt:       prompt,
		temperature:  0.1,
		maxTokens:    8192,
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

// toolParams converts provider-independent definitions to OpenAI function
// tool schemas.
func toolParams(tools map[string]toolcall.Tool) []openai.ChatCompletionToolParam {
	defs := make([]openai.ChatCompletionToolParam, 0, len(tools))
	for _, tool := range tools {
		properties, required := tool.Def.InputSchema()
		params := openai.FunctionParameters{
			"type":       "object",
			"properties": properties,
		}
		if len(required) > 0 {
			params["required"] = required
		}
		defs = append(defs, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        tool.Def.Name,
				Description: openai.String(tool.Def.Description),
				Parameters:  params,
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

	var messages []openai.ChatCompletionMessageParamUnion
	if e.systemInstructions != nil {
		systemPrompt, err := e.systemInstructions.Build()
		if err != nil {
			return response, fmt.Errorf("building system prompt: %w", err)
		}
		messages = append(messages, openai.SystemMessage(systemPrompt))
	}
	messages = append(messages, openai.UserMessage(prompt))

	params := openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(e.model),
		Messages:            messages,
		Tools:               toolParams(tools),
		Temperature:         openai.Float(e.temperature),
		MaxCompletionTokens: openai.Int(e.maxTokens),
	}

	log.With("model", e.model).
		With("prompt_length", len(prompt)).
		Info("Starting OpenAI agent execution")

	for {
		completion, err := retry.Do(ctx, e.retryConfig, "chat_completion", isRetryableOpenAIError, func() (*openai.ChatCompletion, error) {
			return e.client.Chat.Completions.New(ctx, params)
		})
		if err != nil {
			return response, fmt.Errorf("creating chat completion: %w", err)
		}

		if completion.Usage.PromptTokens > 0 || completion.Usage.CompletionTokens > 0 {
			e.genaiMetrics.RecordTokens(ctx, e.model, completion.Usage.PromptTokens, completion.Usage.CompletionTokens)
		}

		if len(completion.Choices) == 0 {
			return response, errors.New("no choices in OpenAI response")
		}
		message := completion.Choices[0].Message

		if len(message.ToolCalls) > 0 {
			params.Messages = append(params.Messages, message.ToParam())

			for _, call := range message.ToolCalls {
				e.genaiMetrics.RecordToolCall(ctx, e.model, call.Function.Name)
				resultJSON := e.dispatch(ctx, tools, call)
				params.Messages = append(params.Messages, openai.ToolMessage(resultJSON, call.ID))
			}
			continue
		}

		if message.Content == "" {
			return response, errors.New("no content in OpenAI response")
		}

		resp, err := result.Extract[Response](message.Content)
		if err != nil {
			log.With("response", message.Content).
				With("error", err).
				Error("Failed to parse OpenAI response")
			return response, fmt.Errorf("parsing response: %w", err)
		}

		log.Info("Completed OpenAI agent execution")
		return resp, nil
	}
}

// dispatch executes one tool call and returns the JSON-encoded result map.
func (e *executor[Request, Response]) dispatch(
	ctx context.Context,
	tools map[string]toolcall.Tool,
	call openai.ChatCompletionMessageToolCall,
) string {
	log := clog.FromContext(ctx)
	log.With("tool", call.Function.Name).With("id", call.ID).Info("Executing tool call")

	var resultMap map[string]any
	if tool, ok := tools[call.Function.Name]; ok {
		var args map[string]any
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			resultMap = map[string]any{"error": fmt.Sprintf("decoding tool arguments: %v", err)}
		} else {
			resultMap = tool.Handler(ctx, toolcall.Call{ID: call.ID, Name: call.Function.Name, Args: args})
		}
	} else {
		log.With("tool", call.Function.Name).Error("Unknown tool requested")
		resultMap = map[string]any{"error": fmt.Sprintf("unknown tool: %q", call.Function.Name)}
	}

	resultBytes, err := json.Marshal(resultMap)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshaling tool result: %v"}`, err)
	}
	return string(resultBytes)
}

/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package googleexecutor

import (
	"context"
	"errors"
	"fmt"

	"chainguard.dev/depreview/agents/executor/retry"
	"chainguard.dev/depreview/agents/metrics"
	"chainguard.dev/depreview/agents/promptbuilder"
	"chainguard.dev/depreview/agents/result"
	"chainguard.dev/depreview/agents/toolcall"
	"github.com/chainguard-dev/clog"
	"google.golang.org/genai"
)

// Interface is the public surface of a Gemini agent executor.
type Interface[Request promptbuilder.Bindable, Response any] interface {
	// Execute runs the agent conversation with the given request and tools.
	Execute(ctx context.Context, request Request, tools map[string]toolcall.Tool) (Response, error)
}

type executor[Request promptbuilder.Bindable, Response any] struct {
	client             *genai.Client
	model              string
	systemInstructions *promptbuilder.Prompt
	prompt             *promptbuilder.Prompt
	temperature        float32
	maxOutputTokens    int32
	genaiMetrics       *metrics.GenAI
	retryConfig        retry.Config
}

// New creates an executor for the given client and user prompt template.
func New[Request promptbuilder.Bindable, Response any](
	client *genai.Client,
	prompt *promptbuilder.Prompt,
	opts ...Option[Request, Response],
) (Interface[Request, Response], error) {
	if prompt == nil {
		return nil, errors.New("prompt cannot be nil")
	}

	e := &executor[Request, Response]{
		client:          client,
		model:           "gemini-2.5-flash",
		prompt:          prompt,
		temperature:     0.1,
		maxOutputTokens: 8192,
		genaiMetrics:    metrics.NewGenAI("depreview.agents"),
		retryConfig:     retry.DefaultConfig(),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("applying option: %w", err)
		}
	}

	return e, nil
}

// schemaType maps the provider-independent parameter type names to genai
// schema types.
func schemaType(t string) genai.Type {
	switch t {
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	default:
		return genai.TypeString
	}
}

// declarations converts provider-independent definitions to genai function
// declarations.
func declarations(tools map[string]toolcall.Tool) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, tool := range tools {
		properties := make(map[string]*genai.Schema, len(tool.Def.Parameters))
		var required []string
		for _, p := range tool.Def.Parameters {
			properties[p.Name] = &genai.Schema{
				Type:        schemaType(p.Type),
				Description: p.Description,
			}
			if p.Required {
				required = append(required, p.Name)
			}
		}
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        tool.Def.Name,
			Description: tool.Def.Description,
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: properties,
				Required:   required,
			},
		})
	}
	return decls
}

func (e *executor[Request, Response]) Execute(
	ctx context.Context,
	request Request,
	tools map[string]toolcall.Tool,
) (resp Response, err error) {
	log := clog.FromContext(ctx)

	boundPrompt, err := request.Bind(e.prompt)
	if err != nil {
		return resp, fmt.Errorf("binding request to prompt: %w", err)
	}
	prompt, err := boundPrompt.Build()
	if err != nil {
		return resp, fmt.Errorf("building prompt: %w", err)
	}

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(e.temperature),
		MaxOutputTokens: e.maxOutputTokens,
	}

	if e.systemInstructions != nil {
		systemPrompt, err := e.systemInstructions.Build()
		if err != nil {
			return resp, fmt.Errorf("building system prompt: %w", err)
		}
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		}
	}

	decls := declarations(tools)
	if len(decls) > 0 {
		config.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}

	log.With("model", e.model).
		With("prompt_length", len(prompt)).
		Info("Starting Gemini agent execution")

	chat, err := e.client.Chats.Create(ctx, e.model, config, nil)
	if err != nil {
		return resp, fmt.Errorf("creating chat with model %q: %w", e.model, err)
	}

	response, err := retry.Do(ctx, e.retryConfig, "send_prompt", isRetryableGeminiError, func() (*genai.GenerateContentResponse, error) {
		return chat.Send(ctx, &genai.Part{Text: prompt})
	})
	if err != nil {
		return resp, fmt.Errorf("sending prompt: %w", err)
	}
	e.recordUsage(ctx, response)

	var responseText string
	for {
		if len(response.Candidates) == 0 {
			return resp, errors.New("no candidates in model response")
		}
		candidate := response.Candidates[0]

		if candidate.FinishReason == genai.FinishReasonMalformedFunctionCall {
			log.With("finish_message", candidate.FinishMessage).
				Warn("Model attempted a malformed function call, asking it to retry")
			var names []string
			for _, d := range decls {
				names = append(names, d.Name)
			}
			response, err = retry.Do(ctx, e.retryConfig, "send_malformed_retry", isRetryableGeminiError, func() (*genai.GenerateContentResponse, error) {
				return chat.Send(ctx, &genai.Part{
					Text: fmt.Sprintf("The function call was malformed. Please try again using the available functions: %v", names),
				})
			})
			if err != nil {
				return resp, fmt.Errorf("retrying after malformed function call: %w", err)
			}
			e.recordUsage(ctx, response)
			continue
		}

		if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
			return resp, errors.New("no content parts in model response")
		}

		var calls []*genai.FunctionCall
		for _, part := range candidate.Content.Parts {
			switch {
			case part.Text != "":
				responseText = part.Text
			case part.FunctionCall != nil:
				calls = append(calls, part.FunctionCall)
			}
		}

		if len(calls) > 0 {
			var parts []*genai.Part
			for _, call := range calls {
				e.genaiMetrics.RecordToolCall(ctx, e.model, call.Name)
				parts = append(parts, &genai.Part{
					FunctionResponse: e.dispatch(ctx, tools, call),
				})
			}
			response, err = retry.Do(ctx, e.retryConfig, "send_tool_responses", isRetryableGeminiError, func() (*genai.GenerateContentResponse, error) {
				return chat.Send(ctx, parts...)
			})
			if err != nil {
				return resp, fmt.Errorf("sending tool responses: %w", err)
			}
			e.recordUsage(ctx, response)
			continue
		}

		if responseText != "" {
			break
		}
		return resp, errors.New("model response had neither text nor function calls")
	}

	extracted, err := result.Extract[Response](responseText)
	if err != nil {
		log.With("response", responseText).
			With("error", err).
			Error("Failed to parse Gemini response")
		return resp, fmt.Errorf("parsing response: %w", err)
	}

	log.Info("Completed Gemini agent execution")
	return extracted, nil
}

// dispatch executes one function call and wraps its result map as a genai
// function response.
func (e *executor[Request, Response]) dispatch(
	ctx context.Context,
	tools map[string]toolcall.Tool,
	call *genai.FunctionCall,
) *genai.FunctionResponse {
	log := clog.FromContext(ctx)
	log.With("tool", call.Name).With("id", call.ID).Info("Executing tool call")

	var resultMap map[string]any
	if tool, ok := tools[call.Name]; ok {
		resultMap = tool.Handler(ctx, toolcall.Call{ID: call.ID, Name: call.Name, Args: call.Args})
	} else {
		log.With("tool", call.Name).Error("Unknown tool requested")
		resultMap = map[string]any{"error": fmt.Sprintf("unknown tool: %q", call.Name)}
	}

	return &genai.FunctionResponse{
		ID:       call.ID,
		Name:     call.Name,
		Response: resultMap,
	}
}

func (e *executor[Request, Response]) recordUsage(ctx context.Context, response *genai.GenerateContentResponse) {
	if response == nil || response.UsageMetadata == nil {
		return
	}
	e.genaiMetrics.RecordTokens(ctx, e.model,
		int64(response.UsageMetadata.PromptTokenCount),
		int64(response.UsageMetadata.CandidatesTokenCount))
}

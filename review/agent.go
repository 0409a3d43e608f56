/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package review

import (
	"context"
	"fmt"
	"strings"

	"chainguard.dev/depreview/agents/executor/claudeexecutor"
	"chainguard.dev/depreview/agents/executor/googleexecutor"
	"chainguard.dev/depreview/agents/executor/openaiexecutor"
	"chainguard.dev/depreview/agents/promptbuilder"
	"chainguard.dev/depreview/agents/toolcall"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go"
	"google.golang.org/genai"
)

// runner is the provider-independent slice of the executor interfaces, so
// the analyzer can route one request type to any configured provider.
type runner[Request promptbuilder.Bindable, Response any] interface {
	Execute(ctx context.Context, request Request, tools map[string]toolcall.Tool) (Response, error)
}

// Clients bundles the provider SDK clients available for model routing.
// A nil client makes that provider's models unavailable.
type Clients struct {
	Anthropic *anthropic.Client
	Google    *genai.Client
	OpenAI    *openai.Client
}

// newRunner routes a model name to its provider's executor. Claude models
// go to Anthropic, Gemini models to Google, and GPT models to OpenAI.
func newRunner[Request promptbuilder.Bindable, Response any](
	clients Clients,
	model string,
	prompt *promptbuilder.Prompt,
	system *promptbuilder.Prompt,
) (runner[Request, Response], error) {
	switch {
	case strings.HasPrefix(model, "claude-"):
		if clients.Anthropic == nil {
			return nil, fmt.Errorf("model %q requires an Anthropic client", model)
		}
		opts := []claudeexecutor.Option[Request, Response]{
			claudeexecutor.WithModel[Request, Response](model),
		}
		if system != nil {
			opts = append(opts, claudeexecutor.WithSystemInstructions[Request, Response](system))
		}
		return claudeexecutor.New[Request, Response](*clients.Anthropic, prompt, opts...)

	case strings.HasPrefix(model, "gemini-"):
		if clients.Google == nil {
			return nil, fmt.Errorf("model %q requires a Google client", model)
		}
		opts := []googleexecutor.Option[Request, Response]{
			googleexecutor.WithModel[Request, Response](model),
		}
		if system != nil {
			opts = append(opts, googleexecutor.WithSystemInstructions[Request, Response](system))
		}
		return googleexecutor.New[Request, Response](clients.Google, prompt, opts...)

	case strings.HasPrefix(model, "gpt-"):
		if clients.OpenAI == nil {
			return nil, fmt.Errorf("model %q requires an OpenAI client", model)
		}
		opts := []openaiexecutor.Option[Request, Response]{
			openaiexecutor.WithModel[Request, Response](model),
		}
		if system != nil {
			opts = append(opts, openaiexecutor.WithSystemInstructions[Request, Response](system))
		}
		return openaiexecutor.New[Request, Response](*clients.OpenAI, prompt, opts...)
	}
	return nil, fmt.Errorf("no provider for model %q", model)
}

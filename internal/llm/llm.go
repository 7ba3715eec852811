// Copyright (c) 2026 Steve Jovs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package llm models the language model as a text-completion capability.
// The live implementation talks to any OpenAI-compatible chat completions
// endpoint (DeepSeek in production). Components that consume the capability
// carry their own deterministic fallbacks, so a Completer error is always
// recoverable.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Request is one completion call.
type Request struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int64
	Timeout     time.Duration
}

// Completer produces a text completion for a system/user prompt pair.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// ErrDisabled reports that no completion backend is configured.
var ErrDisabled = errors.New("llm: no completion backend configured")

// Client is the live Completer for OpenAI-compatible chat APIs.
type Client struct {
	api   openai.Client
	model string
}

// NewClient builds a completion client for the given endpoint and model.
func NewClient(apiKey, baseURL, model string) *Client {
	return &Client{
		api: openai.NewClient(
			option.WithAPIKey(apiKey),
			option.WithBaseURL(baseURL),
		),
		model: model,
	}
}

// Complete runs a single chat completion, bounded by req.Timeout.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	messages := []openai.ChatCompletionMessageParamUnion{}
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.User))

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.model),
		Messages:    messages,
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(req.MaxTokens)
	}

	completion, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty response")
	}

	return completion.Choices[0].Message.Content, nil
}

// Disabled is a Completer that always fails, used when no API key is
// configured. Consumers then run entirely on their deterministic fallbacks.
type Disabled struct{}

// Complete always returns ErrDisabled.
func (Disabled) Complete(context.Context, Request) (string, error) {
	return "", ErrDisabled
}

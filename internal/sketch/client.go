// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sketch generates code from text prompts through the v0 API.
//
// The v0 API speaks the OpenAI chat-completions protocol, so the client is
// a thin wrapper over go-openai with the base URL pointed at v0. Responses
// stream as content deltas; generation calls are not retried — a timeout or
// network failure surfaces directly to the caller.
package sketch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/pdiddy/anvil/pkg/types"
)

// Defaults for the v0 API.
const (
	DefaultBaseURL = "https://api.v0.dev/v1"
	DefaultModel   = "v0-1.0-md"
)

// Client calls the v0 chat-completions API.
type Client struct {
	api   *openai.Client
	model string
}

// NewClient builds a Client from cfg. Zero-value fields fall back to the
// package defaults.
func NewClient(cfg types.SketchConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = baseURL
	if cfg.Timeout > 0 {
		oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		api:   openai.NewClientWithConfig(oc),
		model: model,
	}
}

// Generate streams a completion for prompt. Each content delta is written
// to w as it arrives; the full reassembled response is returned. A nil w
// disables echoing.
func (c *Client) Generate(ctx context.Context, prompt string, w io.Writer) (string, error) {
	stream, err := c.api.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:  c.model,
		Stream: true,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("calling v0 API: %w", err)
	}
	defer stream.Close()

	var full strings.Builder
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return full.String(), fmt.Errorf("reading v0 stream: %w", err)
		}
		if len(resp.Choices) == 0 {
			continue
		}
		delta := resp.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		full.WriteString(delta)
		if w != nil {
			if _, err := io.WriteString(w, delta); err != nil {
				return full.String(), fmt.Errorf("writing response: %w", err)
			}
		}
	}

	return full.String(), nil
}

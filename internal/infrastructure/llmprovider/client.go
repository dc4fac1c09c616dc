package llmprovider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/griffinm/jotter/internal/domain/llm"
)

// Client implements the llm.Provider interface against an OpenAI-compatible API.
type Client struct {
	httpClient *resty.Client
}

// NewClient creates a Resty-backed chat completion client.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		httpClient: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Content-Type", "application/json").
			SetAuthToken(apiKey).
			SetTimeout(120 * time.Second),
	}
}

// CreateChatCompletion calls /v1/chat/completions.
func (c *Client) CreateChatCompletion(ctx context.Context, req llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	var completion llm.ChatCompletionResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&completion).
		Post("/v1/chat/completions")
	if err != nil {
		return nil, fmt.Errorf("chat completion request: %w", err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("llm api error (status %d): %s", resp.StatusCode(), resp.String())
	}

	if len(completion.Choices) == 0 {
		return nil, errors.New("llm returned no choices")
	}
	return &completion, nil
}

// Ensure interface compliance.
var _ llm.Provider = (*Client)(nil)

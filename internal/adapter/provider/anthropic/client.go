// Package anthropic adapts the Anthropic Messages API into the completion
// interface the interview service consumes.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/opscapture/interview-backend/internal/domain"
)

// Client wraps the Anthropic SDK with a fixed model and token budget.
type Client struct {
	client    sdk.Client
	model     string
	maxTokens int64
}

// New creates a client for the given API key and model.
func New(apiKey, model string, maxTokens int64) *Client {
	return &Client{
		client:    sdk.NewClient(option.WithAPIKey(apiKey)),
		model:     model,
		maxTokens: maxTokens,
	}
}

// Complete sends the system prompt and one user message to the model and
// returns the assistant's text. Exactly one API call is made per invocation;
// retry policy belongs to the caller.
func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	params := sdk.MessageNewParams{
		Model:     sdk.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
		},
	}
	if system != "" {
		params.System = []sdk.TextBlockParam{{Text: system}}
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", mapError(err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}

	text := b.String()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("anthropic: %w", domain.ErrEmptyCompletion)
	}

	return text, nil
}

// mapError folds Anthropic API errors into the domain provider taxonomy.
func mapError(err error) error {
	var apierr *sdk.Error
	if errors.As(err, &apierr) {
		switch {
		case apierr.StatusCode == http.StatusUnauthorized || apierr.StatusCode == http.StatusForbidden:
			return fmt.Errorf("anthropic: %w", domain.ErrProviderAuth)
		case apierr.StatusCode == http.StatusTooManyRequests:
			return fmt.Errorf("anthropic: %w", domain.ErrProviderRateLimited)
		case apierr.StatusCode >= http.StatusInternalServerError:
			return fmt.Errorf("anthropic: %w", domain.ErrProviderUnavailable)
		}
	}
	return fmt.Errorf("anthropic: %w", err)
}

package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/opscapture/interview-backend/internal/domain"
)

const defaultRealtimeURL = "https://api.openai.com/v1/realtime/sessions"

// RealtimeSession is the ephemeral credential minted for a browser-side
// realtime voice connection. The client secret is short-lived and single-use.
type RealtimeSession struct {
	ID           string       `json:"id"`
	Model        string       `json:"model"`
	Voice        string       `json:"voice"`
	ClientSecret ClientSecret `json:"client_secret"`
}

// ClientSecret carries the ephemeral token and its unix expiry.
type ClientSecret struct {
	Value     string `json:"value"`
	ExpiresAt int64  `json:"expires_at"`
}

// MintRealtimeSession requests an ephemeral realtime session from OpenAI.
// The SDK has no binding for this endpoint, so the call goes over plain HTTP.
func (c *Client) MintRealtimeSession(ctx context.Context, model, voice string) (*RealtimeSession, error) {
	body, err := json.Marshal(map[string]string{
		"model": model,
		"voice": voice,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal realtime request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.realtimeURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build realtime request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai realtime: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, mapStatus(resp.StatusCode)
	}

	var session RealtimeSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("decode realtime session: %w", err)
	}
	if session.ClientSecret.Value == "" {
		return nil, fmt.Errorf("openai realtime: session without client secret: %w", domain.ErrProviderUnavailable)
	}

	return &session, nil
}

// mapStatus maps a raw HTTP status into the domain provider taxonomy.
func mapStatus(status int) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("openai realtime: status %d: %w", status, domain.ErrProviderAuth)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("openai realtime: status %d: %w", status, domain.ErrProviderRateLimited)
	case status >= http.StatusInternalServerError:
		return fmt.Errorf("openai realtime: status %d: %w", status, domain.ErrProviderUnavailable)
	default:
		return fmt.Errorf("openai realtime: unexpected status %d", status)
	}
}

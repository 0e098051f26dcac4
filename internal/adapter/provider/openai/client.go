// Package openai adapts the OpenAI speech APIs: Whisper transcription,
// text-to-speech synthesis, and ephemeral realtime session credentials.
package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	sdk "github.com/sashabaranov/go-openai"

	"github.com/opscapture/interview-backend/internal/domain"
)

// Client wraps the OpenAI SDK with fixed speech models.
type Client struct {
	api         *sdk.Client
	apiKey      string
	sttModel    string
	ttsModel    string
	ttsVoice    string
	httpc       *http.Client
	realtimeURL string
}

// New creates a client for the given API key and speech models.
func New(apiKey, sttModel, ttsModel, ttsVoice string) *Client {
	return &Client{
		api:         sdk.NewClient(apiKey),
		apiKey:      apiKey,
		sttModel:    sttModel,
		ttsModel:    ttsModel,
		ttsVoice:    ttsVoice,
		httpc:       &http.Client{},
		realtimeURL: defaultRealtimeURL,
	}
}

// Transcribe sends recorded audio to the transcription model and returns the
// recognized text. The filename carries the container format hint (e.g.
// "recording.webm"); the audio itself is streamed from r.
func (c *Client) Transcribe(ctx context.Context, filename string, r io.Reader) (string, error) {
	resp, err := c.api.CreateTranscription(ctx, sdk.AudioRequest{
		Model:    c.sttModel,
		FilePath: filename,
		Reader:   r,
	})
	if err != nil {
		return "", mapError(err)
	}
	return resp.Text, nil
}

// Speak synthesizes the given text and returns the audio stream. The caller
// owns the returned ReadCloser.
func (c *Client) Speak(ctx context.Context, text string) (io.ReadCloser, error) {
	resp, err := c.api.CreateSpeech(ctx, sdk.CreateSpeechRequest{
		Model: sdk.SpeechModel(c.ttsModel),
		Input: text,
		Voice: sdk.SpeechVoice(c.ttsVoice),
	})
	if err != nil {
		return nil, mapError(err)
	}
	return resp, nil
}

// mapError folds OpenAI API errors into the domain provider taxonomy.
func mapError(err error) error {
	var apierr *sdk.APIError
	if errors.As(err, &apierr) {
		switch {
		case apierr.HTTPStatusCode == http.StatusUnauthorized || apierr.HTTPStatusCode == http.StatusForbidden:
			return fmt.Errorf("openai: %w", domain.ErrProviderAuth)
		case apierr.HTTPStatusCode == http.StatusTooManyRequests:
			return fmt.Errorf("openai: %w", domain.ErrProviderRateLimited)
		case apierr.HTTPStatusCode >= http.StatusInternalServerError:
			return fmt.Errorf("openai: %w", domain.ErrProviderUnavailable)
		}
	}
	return fmt.Errorf("openai: %w", err)
}

// Package voice implements the speech endpoints: transcription,
// synthesis, and realtime session minting.
package voice

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/opscapture/interview-backend/internal/adapter/provider/openai"
	"github.com/opscapture/interview-backend/internal/config"
	"github.com/opscapture/interview-backend/internal/domain"
	"github.com/opscapture/interview-backend/pkg/ctxutil"
)

// speechClient defines the provider interface needed for STT and TTS.
type speechClient interface {
	Transcribe(ctx context.Context, filename string, r io.Reader) (string, error)
	Speak(ctx context.Context, text string) (io.ReadCloser, error)
}

// realtimeMinter defines the provider interface for ephemeral realtime credentials.
type realtimeMinter interface {
	MintRealtimeSession(ctx context.Context, model, voice string) (*openai.RealtimeSession, error)
}

// Service implements voice operations.
type Service struct {
	log      *slog.Logger
	speech   speechClient
	realtime realtimeMinter
	cfg      config.SpeechConfig
	rtCfg    config.RealtimeConfig
}

// NewService creates a new voice service instance.
func NewService(
	logger *slog.Logger,
	speech speechClient,
	realtime realtimeMinter,
	cfg config.SpeechConfig,
	rtCfg config.RealtimeConfig,
) *Service {
	return &Service{
		log:      logger.With("service", "voice"),
		speech:   speech,
		realtime: realtime,
		cfg:      cfg,
		rtCfg:    rtCfg,
	}
}

// Transcribe converts recorded audio to text. Zero-length payloads are
// rejected before any provider call.
func (s *Service) Transcribe(ctx context.Context, filename string, audio []byte) (string, error) {
	if _, ok := ctxutil.UserIDFromCtx(ctx); !ok {
		return "", domain.ErrUnauthorized
	}
	if len(audio) == 0 {
		return "", domain.NewValidationError("audio", "empty audio payload")
	}

	text, err := s.speech.Transcribe(ctx, filename, bytes.NewReader(audio))
	if err != nil {
		return "", fmt.Errorf("voice.Transcribe: %w", err)
	}

	s.log.InfoContext(ctx, "audio transcribed",
		slog.Int("audio_bytes", len(audio)),
		slog.Int("text_chars", len(text)))

	return text, nil
}

// Speak synthesizes speech for the given text. Input beyond the configured
// cap is truncated (by runes) before the provider call, never rejected.
func (s *Service) Speak(ctx context.Context, text string) (io.ReadCloser, error) {
	if _, ok := ctxutil.UserIDFromCtx(ctx); !ok {
		return nil, domain.ErrUnauthorized
	}
	if text == "" {
		return nil, domain.NewValidationError("text", "required")
	}

	if runes := []rune(text); len(runes) > s.cfg.TTSMaxInputChars {
		text = string(runes[:s.cfg.TTSMaxInputChars])
	}

	audio, err := s.speech.Speak(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("voice.Speak: %w", err)
	}

	return audio, nil
}

// RealtimeSession mints an ephemeral realtime credential with the configured
// model and voice.
func (s *Service) RealtimeSession(ctx context.Context) (*openai.RealtimeSession, error) {
	if _, ok := ctxutil.UserIDFromCtx(ctx); !ok {
		return nil, domain.ErrUnauthorized
	}

	session, err := s.realtime.MintRealtimeSession(ctx, s.rtCfg.Model, s.rtCfg.Voice)
	if err != nil {
		return nil, fmt.Errorf("voice.RealtimeSession: %w", err)
	}

	s.log.InfoContext(ctx, "realtime session minted",
		slog.String("model", session.Model))

	return session, nil
}

package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/opscapture/interview-backend/internal/adapter/provider/openai"
	"github.com/opscapture/interview-backend/internal/domain"
)

// maxAudioUpload caps transcription uploads at 25 MB, the provider's own limit.
const maxAudioUpload = 25 << 20

// voiceService defines the minimal interface needed by VoiceHandler.
type voiceService interface {
	Transcribe(ctx context.Context, filename string, audio []byte) (string, error)
	Speak(ctx context.Context, text string) (io.ReadCloser, error)
	RealtimeSession(ctx context.Context) (*openai.RealtimeSession, error)
}

// VoiceHandler serves speech REST endpoints.
type VoiceHandler struct {
	svc voiceService
	log *slog.Logger
}

// NewVoiceHandler creates a VoiceHandler.
func NewVoiceHandler(svc voiceService, logger *slog.Logger) *VoiceHandler {
	return &VoiceHandler{svc: svc, log: logger.With("handler", "voice")}
}

type transcriptionResponse struct {
	Text        string    `json:"text"`
	InterviewID string    `json:"interviewId"`
	Timestamp   time.Time `json:"timestamp"`
}

type speechRequest struct {
	Text string `json:"text"`
}

type realtimeSessionResponse struct {
	ClientSecret string `json:"clientSecret"`
	ExpiresAt    int64  `json:"expiresAt"`
	Model        string `json:"model"`
	Voice        string `json:"voice"`
}

// Transcriptions handles POST /voice/transcriptions (multipart: audio, interviewId).
func (h *VoiceHandler) Transcriptions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), defaultTimeout)
	defer cancel()

	if err := r.ParseMultipartForm(maxAudioUpload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	interviewID := r.FormValue("interviewId")
	if interviewID == "" {
		writeError(w, http.StatusBadRequest, "interviewId is required")
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, "audio file is required")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(io.LimitReader(file, maxAudioUpload))
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read audio")
		return
	}

	text, err := h.svc.Transcribe(ctx, header.Filename, audio)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, transcriptionResponse{
		Text:        text,
		InterviewID: interviewID,
		Timestamp:   time.Now().UTC(),
	})
}

// Speech handles POST /voice/speech — returns synthesized audio.
func (h *VoiceHandler) Speech(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), defaultTimeout)
	defer cancel()

	var req speechRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	audio, err := h.svc.Speak(ctx, req.Text)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	defer audio.Close()

	w.Header().Set("Content-Type", "audio/mpeg")
	w.WriteHeader(http.StatusOK)
	io.Copy(w, audio) //nolint:errcheck
}

// RealtimeSessions handles POST /voice/realtime-sessions.
func (h *VoiceHandler) RealtimeSessions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), defaultTimeout)
	defer cancel()

	session, err := h.svc.RealtimeSession(ctx)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, realtimeSessionResponse{
		ClientSecret: session.ClientSecret.Value,
		ExpiresAt:    session.ClientSecret.ExpiresAt,
		Model:        session.Model,
		Voice:        session.Voice,
	})
}

func (h *VoiceHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrProviderRateLimited):
		writeError(w, http.StatusTooManyRequests, "speech provider is rate limited, retry later")
	case errors.Is(err, domain.ErrProviderAuth), errors.Is(err, domain.ErrProviderUnavailable):
		h.log.ErrorContext(r.Context(), "provider failure", slog.String("error", err.Error()))
		writeError(w, http.StatusBadGateway, "speech provider is unavailable")
	default:
		h.log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

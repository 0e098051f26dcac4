package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/opscapture/interview-backend/internal/domain"
	"github.com/opscapture/interview-backend/internal/service/interview"
)

// Wall-clock budgets per route. The respond flow carries an LLM round-trip.
const (
	defaultTimeout = 30 * time.Second
	respondTimeout = 60 * time.Second
)

// interviewService defines the minimal interface needed by InterviewHandler.
type interviewService interface {
	Create(ctx context.Context, input interview.CreateInput) (*domain.Interview, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Interview, error)
	List(ctx context.Context) ([]*domain.Interview, error)
	Respond(ctx context.Context, input interview.RespondInput) (*interview.RespondResult, error)
	UpdateAnswer(ctx context.Context, input interview.UpdateAnswerInput) (*domain.Interview, error)
}

// InterviewHandler serves interview REST endpoints.
type InterviewHandler struct {
	svc interviewService
	log *slog.Logger
}

// NewInterviewHandler creates an InterviewHandler.
func NewInterviewHandler(svc interviewService, logger *slog.Logger) *InterviewHandler {
	return &InterviewHandler{svc: svc, log: logger.With("handler", "interview")}
}

type createInterviewRequest struct {
	EquipmentName     string `json:"equipmentName"`
	EquipmentLocation string `json:"equipmentLocation"`
	SMEName           string `json:"smeName"`
	SMETitle          string `json:"smeTitle"`
}

type respondRequest struct {
	InterviewID string `json:"interviewId"`
	SMEResponse string `json:"smeResponse"`
}

type respondResponse struct {
	Success             bool                       `json:"success"`
	AIResponse          string                     `json:"aiResponse"`
	IsComplete          bool                       `json:"isComplete"`
	ConversationHistory []domain.ConversationEntry `json:"conversationHistory"`
}

type updateAnswerRequest struct {
	EntryIndex int    `json:"entryIndex"`
	NewText    string `json:"newText"`
}

type interviewResponse struct {
	ID                  string                     `json:"id"`
	EquipmentName       string                     `json:"equipmentName"`
	EquipmentLocation   string                     `json:"equipmentLocation"`
	SMEName             string                     `json:"smeName"`
	SMETitle            string                     `json:"smeTitle"`
	CurrentPhase        int                        `json:"currentPhase"`
	Status              string                     `json:"status"`
	ConversationHistory []domain.ConversationEntry `json:"conversationHistory,omitempty"`
	CreatedAt           time.Time                  `json:"createdAt"`
	UpdatedAt           time.Time                  `json:"updatedAt"`
}

// Create handles POST /interviews.
func (h *InterviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), defaultTimeout)
	defer cancel()

	var req createInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	iv, err := h.svc.Create(ctx, interview.CreateInput{
		EquipmentName:     req.EquipmentName,
		EquipmentLocation: req.EquipmentLocation,
		SMEName:           req.SMEName,
		SMETitle:          req.SMETitle,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toInterviewResponse(iv, true))
}

// List handles GET /interviews.
func (h *InterviewHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), defaultTimeout)
	defer cancel()

	list, err := h.svc.List(ctx)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	resp := make([]interviewResponse, 0, len(list))
	for _, iv := range list {
		resp = append(resp, toInterviewResponse(iv, false))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /interviews/{id}.
func (h *InterviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), defaultTimeout)
	defer cancel()

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid interview id")
		return
	}

	iv, err := h.svc.Get(ctx, id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toInterviewResponse(iv, true))
}

// Respond handles POST /interviews/respond — one interview turn.
func (h *InterviewHandler) Respond(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), respondTimeout)
	defer cancel()

	var req respondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.InterviewID == "" {
		writeError(w, http.StatusBadRequest, "interviewId is required")
		return
	}
	id, err := uuid.Parse(req.InterviewID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid interview id")
		return
	}

	result, err := h.svc.Respond(ctx, interview.RespondInput{
		InterviewID: id,
		SMEResponse: req.SMEResponse,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, respondResponse{
		Success:             true,
		AIResponse:          result.AIResponse,
		IsComplete:          result.IsComplete,
		ConversationHistory: result.Interview.History,
	})
}

// UpdateAnswer handles POST /interviews/{id}/answers.
func (h *InterviewHandler) UpdateAnswer(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), defaultTimeout)
	defer cancel()

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid interview id")
		return
	}

	var req updateAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	iv, err := h.svc.UpdateAnswer(ctx, interview.UpdateAnswerInput{
		InterviewID: id,
		EntryIndex:  req.EntryIndex,
		NewText:     req.NewText,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toInterviewResponse(iv, true))
}

func (h *InterviewHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "interview not found")
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "interview was modified concurrently, retry")
	case errors.Is(err, domain.ErrProviderRateLimited):
		writeError(w, http.StatusTooManyRequests, "assistant is rate limited, retry later")
	case errors.Is(err, domain.ErrProviderAuth),
		errors.Is(err, domain.ErrProviderUnavailable),
		errors.Is(err, domain.ErrEmptyCompletion):
		h.log.ErrorContext(r.Context(), "provider failure", slog.String("error", err.Error()))
		writeError(w, http.StatusBadGateway, "assistant is unavailable")
	default:
		h.log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func toInterviewResponse(iv *domain.Interview, withHistory bool) interviewResponse {
	resp := interviewResponse{
		ID:                iv.ID.String(),
		EquipmentName:     iv.EquipmentName,
		EquipmentLocation: iv.EquipmentLocation,
		SMEName:           iv.SMEName,
		SMETitle:          iv.SMETitle,
		CurrentPhase:      iv.CurrentPhase,
		Status:            string(iv.Status),
		CreatedAt:         iv.CreatedAt,
		UpdatedAt:         iv.UpdatedAt,
	}
	if withHistory {
		resp.ConversationHistory = iv.History
	}
	return resp
}

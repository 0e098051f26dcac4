package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/opscapture/interview-backend/internal/domain"
	"github.com/opscapture/interview-backend/internal/service/export"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// exportService defines the minimal interface needed by ExportHandler.
type exportService interface {
	OperationsManual(ctx context.Context, id uuid.UUID) (*export.Result, error)
	Transcript(ctx context.Context, id uuid.UUID) (*export.Result, error)
}

// ExportHandler serves document download endpoints.
type ExportHandler struct {
	svc exportService
	log *slog.Logger
}

// NewExportHandler creates an ExportHandler.
func NewExportHandler(svc exportService, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{svc: svc, log: logger.With("handler", "export")}
}

// Document handles GET /interviews/{id}/document — the operations manual.
func (h *ExportHandler) Document(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.svc.OperationsManual)
}

// Transcript handles GET /interviews/{id}/transcript — the Q&A transcript.
func (h *ExportHandler) Transcript(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.svc.Transcript)
}

func (h *ExportHandler) serve(w http.ResponseWriter, r *http.Request, fn func(context.Context, uuid.UUID) (*export.Result, error)) {
	ctx, cancel := context.WithTimeout(r.Context(), defaultTimeout)
	defer cancel()

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid interview id")
		return
	}

	result, err := fn(ctx, id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", docxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(result.Data) //nolint:errcheck
}

func (h *ExportHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "interview not found")
	default:
		h.log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

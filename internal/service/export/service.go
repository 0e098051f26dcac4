package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/opscapture/interview-backend/internal/domain"
	"github.com/opscapture/interview-backend/pkg/ctxutil"
)

// interviewRepo defines the repository interface needed by the export service.
type interviewRepo interface {
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Interview, error)
}

// Service implements document export operations.
type Service struct {
	log        *slog.Logger
	interviews interviewRepo
}

// NewService creates a new export service instance.
func NewService(logger *slog.Logger, interviews interviewRepo) *Service {
	return &Service{
		log:        logger.With("service", "export"),
		interviews: interviews,
	}
}

// Result is a rendered document ready for download.
type Result struct {
	Filename string
	Data     []byte
}

// OperationsManual compiles the richer manual layout for one interview.
func (s *Service) OperationsManual(ctx context.Context, id uuid.UUID) (*Result, error) {
	return s.export(ctx, id, DocOperationsManual)
}

// Transcript compiles the plain Q&A transcript layout for one interview.
func (s *Service) Transcript(ctx context.Context, id uuid.UUID) (*Result, error) {
	return s.export(ctx, id, DocQATranscript)
}

func (s *Service) export(ctx context.Context, id uuid.UUID, docType DocType) (*Result, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	iv, err := s.interviews.GetByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("export.%s: %w", docType, err)
	}

	now := time.Now().UTC()
	blocks, err := Compile(iv, docType, now)
	if err != nil {
		return nil, fmt.Errorf("export.%s: %w", docType, err)
	}

	data, err := Render(blocks)
	if err != nil {
		return nil, fmt.Errorf("export.%s: %w", docType, err)
	}

	s.log.InfoContext(ctx, "document exported",
		slog.String("interview_id", id.String()),
		slog.String("doc_type", string(docType)),
		slog.Int("bytes", len(data)))

	return &Result{
		Filename: Filename(iv.EquipmentName, now, docType),
		Data:     data,
	}, nil
}

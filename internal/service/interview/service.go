// Package interview implements the interview lifecycle: creation, the
// LLM-driven turn loop, answer correction, and listing.
package interview

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/opscapture/interview-backend/internal/domain"
	"github.com/opscapture/interview-backend/pkg/ctxutil"
)

// interviewRepo defines the repository interface needed by the interview service.
type interviewRepo interface {
	Create(ctx context.Context, iv *domain.Interview) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Interview, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Interview, error)
	Save(ctx context.Context, iv *domain.Interview) error
}

// questionGenerator is the LLM seam. Implementations make exactly one
// provider call and map provider failures to the domain error taxonomy.
type questionGenerator interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Service implements interview operations.
type Service struct {
	log        *slog.Logger
	interviews interviewRepo
	llm        questionGenerator
}

// NewService creates a new interview service instance.
func NewService(logger *slog.Logger, interviews interviewRepo, llm questionGenerator) *Service {
	return &Service{
		log:        logger.With("service", "interview"),
		interviews: interviews,
		llm:        llm,
	}
}

// CreateInput holds parameters for interview creation.
type CreateInput struct {
	EquipmentName     string
	EquipmentLocation string
	SMEName           string
	SMETitle          string
}

// Create starts a new interview owned by the authenticated user.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Interview, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	iv, err := domain.NewInterview(userID, input.EquipmentName, input.EquipmentLocation, input.SMEName, input.SMETitle)
	if err != nil {
		return nil, err
	}

	if err := s.interviews.Create(ctx, iv); err != nil {
		return nil, fmt.Errorf("interview.Create: %w", err)
	}

	s.log.InfoContext(ctx, "interview created",
		slog.String("interview_id", iv.ID.String()),
		slog.String("equipment", iv.EquipmentName))

	return iv, nil
}

// Get returns one interview owned by the authenticated user.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Interview, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	iv, err := s.interviews.GetByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("interview.Get: %w", err)
	}
	return iv, nil
}

// List returns all interviews owned by the authenticated user, most recently
// updated first.
func (s *Service) List(ctx context.Context) ([]*domain.Interview, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	list, err := s.interviews.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("interview.List: %w", err)
	}
	return list, nil
}

// UpdateAnswerInput holds parameters for correcting a recorded SME answer.
type UpdateAnswerInput struct {
	InterviewID uuid.UUID
	EntryIndex  int
	NewText     string
}

// UpdateAnswer replaces the text of one SME-authored history entry and
// persists the change through the version-checked write.
func (s *Service) UpdateAnswer(ctx context.Context, input UpdateAnswerInput) (*domain.Interview, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	iv, err := s.interviews.GetByID(ctx, userID, input.InterviewID)
	if err != nil {
		return nil, fmt.Errorf("interview.UpdateAnswer: %w", err)
	}

	if err := iv.EditAnswer(input.EntryIndex, input.NewText, nowUTC()); err != nil {
		return nil, err
	}

	if err := s.interviews.Save(ctx, iv); err != nil {
		return nil, fmt.Errorf("interview.UpdateAnswer save: %w", err)
	}

	s.log.InfoContext(ctx, "answer updated",
		slog.String("interview_id", iv.ID.String()),
		slog.Int("entry_index", input.EntryIndex))

	return iv, nil
}

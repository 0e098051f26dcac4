package interview

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/opscapture/interview-backend/internal/domain"
	"github.com/opscapture/interview-backend/pkg/ctxutil"
)

// RespondInput holds parameters for one interview turn. SMEResponse is empty
// when starting or resuming.
type RespondInput struct {
	InterviewID uuid.UUID
	SMEResponse string
}

// RespondResult is the outcome of one interview turn.
type RespondResult struct {
	AIResponse string
	IsComplete bool
	Interview  *domain.Interview
}

// Respond runs one interview turn: load the record, rebuild the prompt
// context, ask the model for the next utterance, append the turn, and persist
// through the version-checked write. Exactly one model call happens per
// invocation; provider errors are surfaced to the caller untouched so retry
// policy stays outside this method.
func (s *Service) Respond(ctx context.Context, input RespondInput) (*RespondResult, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if input.InterviewID == uuid.Nil {
		return nil, domain.NewValidationError("interviewId", "required")
	}

	iv, err := s.interviews.GetByID(ctx, userID, input.InterviewID)
	if err != nil {
		return nil, fmt.Errorf("interview.Respond: %w", err)
	}
	if !iv.Active() {
		return nil, domain.NewValidationError("interviewId", "interview is not in progress")
	}

	smeResponse := strings.TrimSpace(input.SMEResponse)
	mode := selectMode(len(iv.History), smeResponse)
	prompt := buildPrompt(mode, BuildContext(iv), smeResponse)

	raw, err := s.llm.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("interview.Respond: %w", err)
	}

	aiText, done := ParseCompletion(raw)

	now := nowUTC()
	iv.AppendTurn(smeResponse, aiText, now)
	if done {
		iv.Complete(now)
	}

	if err := s.interviews.Save(ctx, iv); err != nil {
		return nil, fmt.Errorf("interview.Respond save: %w", err)
	}

	s.log.InfoContext(ctx, "interview turn recorded",
		slog.String("interview_id", iv.ID.String()),
		slog.Int("history_len", len(iv.History)),
		slog.Bool("complete", done))

	return &RespondResult{
		AIResponse: aiText,
		IsComplete: done,
		Interview:  iv,
	}, nil
}

// Package interview implements the Interview repository using PostgreSQL.
// The conversation log is stored as a single JSONB column; every save is a
// version-checked conditional update so concurrent turns against the same
// interview cannot silently clobber each other.
package interview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/opscapture/interview-backend/internal/adapter/postgres"
	"github.com/opscapture/interview-backend/internal/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var interviewColumns = []string{
	"id", "user_id", "equipment_name", "equipment_location", "sme_name", "sme_title",
	"current_phase", "status", "conversation_history", "version", "created_at", "updated_at",
}

// Repo provides interview persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new interview repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Create inserts a new interview row.
func (r *Repo) Create(ctx context.Context, iv *domain.Interview) error {
	historyJSON, err := json.Marshal(iv.History)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	query, args, err := psql.Insert("interviews").
		Columns(interviewColumns...).
		Values(iv.ID, iv.UserID, iv.EquipmentName, iv.EquipmentLocation, iv.SMEName, iv.SMETitle,
			iv.CurrentPhase, string(iv.Status), historyJSON, iv.Version, iv.CreatedAt, iv.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	if _, err := q.Exec(ctx, query, args...); err != nil {
		return mapError(err, "interview", iv.ID)
	}

	return nil
}

// GetByID returns an interview by primary key, scoped to its owner.
// Returns domain.ErrNotFound if the row does not exist or belongs to another user.
func (r *Repo) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Interview, error) {
	query, args, err := psql.Select(interviewColumns...).
		From("interviews").
		Where(sq.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	row := q.QueryRow(ctx, query, args...)

	iv, err := scanInterview(row)
	if err != nil {
		return nil, mapError(err, "interview", id)
	}

	return iv, nil
}

// ListByUser returns all interviews owned by the user, most recently
// updated first. Returns an empty slice (not nil) when there are none.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Interview, error) {
	query, args, err := psql.Select(interviewColumns...).
		From("interviews").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("updated_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list interviews: %w", err)
	}
	defer rows.Close()

	result := []*domain.Interview{}
	for rows.Next() {
		iv, err := scanInterview(rows)
		if err != nil {
			return nil, fmt.Errorf("list interviews: %w", err)
		}
		result = append(result, iv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list interviews: %w", err)
	}

	return result, nil
}

// Save persists the mutable fields of an interview (status, phase, history,
// updated_at) with a compare-and-swap on the version column. On success the
// in-memory Version is advanced to match the stored row. Returns
// domain.ErrConflict when the row was modified since it was loaded.
func (r *Repo) Save(ctx context.Context, iv *domain.Interview) error {
	historyJSON, err := json.Marshal(iv.History)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	query, args, err := psql.Update("interviews").
		Set("status", string(iv.Status)).
		Set("current_phase", iv.CurrentPhase).
		Set("conversation_history", historyJSON).
		Set("updated_at", iv.UpdatedAt).
		Set("version", iv.Version+1).
		Where(sq.Eq{"id": iv.ID, "user_id": iv.UserID, "version": iv.Version}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return mapError(err, "interview", iv.ID)
	}

	if tag.RowsAffected() == 0 {
		// Either the row is gone or the version moved underneath us.
		// Distinguish so callers can map to 404 vs 409.
		exists, err := r.exists(ctx, iv.ID)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("interview %s: %w", iv.ID, domain.ErrNotFound)
		}
		return fmt.Errorf("interview %s: stale version %d: %w", iv.ID, iv.Version, domain.ErrConflict)
	}

	iv.Version++
	return nil
}

func (r *Repo) exists(ctx context.Context, id uuid.UUID) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM interviews WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("interview exists check: %w", err)
	}
	return exists, nil
}

// scanInterview scans one interview row in interviewColumns order.
func scanInterview(row pgx.Row) (*domain.Interview, error) {
	var (
		iv          domain.Interview
		status      string
		historyJSON []byte
	)

	err := row.Scan(
		&iv.ID, &iv.UserID, &iv.EquipmentName, &iv.EquipmentLocation, &iv.SMEName, &iv.SMETitle,
		&iv.CurrentPhase, &status, &historyJSON, &iv.Version, &iv.CreatedAt, &iv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	iv.Status = domain.InterviewStatus(status)
	if err := json.Unmarshal(historyJSON, &iv.History); err != nil {
		return nil, fmt.Errorf("unmarshal history: %w", err)
	}
	if iv.History == nil {
		iv.History = []domain.ConversationEntry{}
	}

	return &iv, nil
}

// mapError converts pgx/pgconn errors into domain errors.
func mapError(err error, entity string, id uuid.UUID) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", entity, id, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrAlreadyExists)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
		case "23514": // check_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrValidation)
		}
	}

	return fmt.Errorf("%s %s: %w", entity, id, err)
}

package testhelper

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opscapture/interview-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedUser inserts a user row and returns the filled domain.User.
func SeedUser(t *testing.T, pool *pgxpool.Pool) domain.User {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	user := domain.User{
		ID:           uuid.New(),
		Email:        "sme-" + suffix + "@example.com",
		Name:         "Test User " + suffix,
		PasswordHash: "$2a$04$" + suffix, // never verified in repo tests
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO users (id, email, name, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Email, user.Name, user.PasswordHash, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUser insert: %v", err)
	}

	return user
}

// SeedInterview inserts an interview row owned by the given user and returns
// the filled domain.Interview.
func SeedInterview(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, history []domain.ConversationEntry) domain.Interview {
	t.Helper()
	ctx := context.Background()

	if history == nil {
		history = []domain.ConversationEntry{}
	}
	historyJSON, err := json.Marshal(history)
	if err != nil {
		t.Fatalf("testhelper: SeedInterview marshal history: %v", err)
	}

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	iv := domain.Interview{
		ID:                uuid.New(),
		UserID:            userID,
		EquipmentName:     "Conveyor " + suffix,
		EquipmentLocation: "Plant A",
		SMEName:           "Sam Lee",
		SMETitle:          "Maintenance Lead",
		CurrentPhase:      1,
		Status:            domain.StatusInProgress,
		History:           history,
		Version:           1,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO interviews
		   (id, user_id, equipment_name, equipment_location, sme_name, sme_title,
		    current_phase, status, conversation_history, version, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		iv.ID, iv.UserID, iv.EquipmentName, iv.EquipmentLocation, iv.SMEName, iv.SMETitle,
		iv.CurrentPhase, string(iv.Status), historyJSON, iv.Version, iv.CreatedAt, iv.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedInterview insert: %v", err)
	}

	return iv
}

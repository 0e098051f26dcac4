package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// InterviewStatus is the lifecycle state of an interview.
type InterviewStatus string

const (
	StatusInProgress InterviewStatus = "in_progress"
	StatusCompleted  InterviewStatus = "completed"
	StatusTerminated InterviewStatus = "terminated"
)

// Valid reports whether s is a known status value.
func (s InterviewStatus) Valid() bool {
	switch s {
	case StatusInProgress, StatusCompleted, StatusTerminated:
		return true
	}
	return false
}

func (s InterviewStatus) String() string { return string(s) }

// Speaker identifies who produced a conversation entry.
// The stored speaker value is the single source of truth for context
// building, edit authorization, and document extraction.
type Speaker string

const (
	SpeakerAI     Speaker = "AI"
	SpeakerSME    Speaker = "SME"
	SpeakerSystem Speaker = "SYSTEM"
)

// ConversationEntry is one utterance in the interview log.
// The JSON tags define the wire format of the conversation_history column.
type ConversationEntry struct {
	Timestamp time.Time  `json:"timestamp"`
	Text      string     `json:"text"`
	Phase     int        `json:"phase"`
	Speaker   Speaker    `json:"speaker"`
	Edited    bool       `json:"edited,omitempty"`
	EditedAt  *time.Time `json:"editedAt,omitempty"`
}

// Interview is one equipment-documentation session with an SME.
// Equipment and SME metadata are set at creation and never mutated by the
// turn flow. Version backs the conditional update on every save.
type Interview struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	EquipmentName     string
	EquipmentLocation string
	SMEName           string
	SMETitle          string
	CurrentPhase      int
	Status            InterviewStatus
	History           []ConversationEntry
	Version           int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewInterview creates an in_progress interview for the given owner.
// EquipmentName and SMEName are required.
func NewInterview(userID uuid.UUID, equipmentName, equipmentLocation, smeName, smeTitle string) (*Interview, error) {
	equipmentName = strings.TrimSpace(equipmentName)
	smeName = strings.TrimSpace(smeName)

	var fields []FieldError
	if equipmentName == "" {
		fields = append(fields, FieldError{Field: "equipmentName", Message: "is required"})
	}
	if smeName == "" {
		fields = append(fields, FieldError{Field: "smeName", Message: "is required"})
	}
	if len(fields) > 0 {
		return nil, NewValidationErrors(fields)
	}

	now := time.Now().UTC()
	return &Interview{
		ID:                uuid.New(),
		UserID:            userID,
		EquipmentName:     equipmentName,
		EquipmentLocation: strings.TrimSpace(equipmentLocation),
		SMEName:           smeName,
		SMETitle:          strings.TrimSpace(smeTitle),
		CurrentPhase:      1,
		Status:            StatusInProgress,
		History:           []ConversationEntry{},
		Version:           1,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// Active reports whether the interview still accepts turns.
func (iv *Interview) Active() bool {
	return iv.Status == StatusInProgress
}

// AppendTurn records one completed turn: the SME utterance (when present)
// followed by the next AI utterance, both at the current phase.
// UpdatedAt is refreshed on every history mutation.
func (iv *Interview) AppendTurn(smeText, aiText string, now time.Time) {
	if smeText != "" {
		iv.History = append(iv.History, ConversationEntry{
			Timestamp: now,
			Text:      smeText,
			Phase:     iv.CurrentPhase,
			Speaker:   SpeakerSME,
		})
	}
	iv.History = append(iv.History, ConversationEntry{
		Timestamp: now,
		Text:      aiText,
		Phase:     iv.CurrentPhase,
		Speaker:   SpeakerAI,
	})
	iv.UpdatedAt = now
}

// Complete marks the interview as finished.
func (iv *Interview) Complete(now time.Time) {
	iv.Status = StatusCompleted
	iv.UpdatedAt = now
}

// EditAnswer replaces the text of one SME-authored entry.
// Entries authored by the AI (or the system) are never editable.
func (iv *Interview) EditAnswer(index int, newText string, now time.Time) error {
	if index < 0 || index >= len(iv.History) {
		return NewValidationError("entryIndex", "out of range")
	}
	if iv.History[index].Speaker != SpeakerSME {
		return NewValidationError("entryIndex", "only SME answers can be edited")
	}
	newText = strings.TrimSpace(newText)
	if newText == "" {
		return NewValidationError("newText", "must not be empty")
	}

	iv.History[index].Text = newText
	iv.History[index].Edited = true
	editedAt := now
	iv.History[index].EditedAt = &editedAt
	iv.UpdatedAt = now

	return nil
}

// internal/models/conversation.go
package models

import (
	"context"
	"time"
)

// ConversationState tracks an applicant's progress through the questionnaire.
type ConversationState string

const (
	StateAwaitingRulesAck ConversationState = "awaiting_rules_ack"
	StateAwaitingAge      ConversationState = "awaiting_age"
	StateAwaitingNickname ConversationState = "awaiting_nickname"
)

// Session is the per-applicant conversation state. One session per applicant;
// a repeated /start replaces the session after a fresh eligibility check.
// Completed and cancelled sessions are deleted, not kept in a terminal state.
type Session struct {
	ApplicantID int64             `json:"applicantId"`
	ChatID      int64             `json:"chatId"`
	State       ConversationState `json:"state"`
	Draft       ApplicationDraft  `json:"draft"`
	StartedAt   time.Time         `json:"startedAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// SessionRepository defines conversation session data access. Load returns
// (nil, nil) when the applicant has no session.
type SessionRepository interface {
	Load(ctx context.Context, applicantID int64) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Delete(ctx context.Context, applicantID int64) error
}

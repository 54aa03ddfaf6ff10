// internal/models/application.go
package models

import "time"

// Status represents the application record lifecycle.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// IsTerminal reports whether the status admits no further transitions.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// ApplicationDraft is the conversation-scoped, in-progress application. It is
// built field by field as the applicant answers prompts and becomes immutable
// once handed to the review coordinator.
type ApplicationDraft struct {
	ApplicantID       int64  `json:"applicantId"`
	ChatID            int64  `json:"chatId"`
	RulesAcknowledged bool   `json:"rulesAcknowledged"`
	Age               string `json:"age"`
	Nickname          string `json:"nickname"`
}

// ApplicationRecord is the durable application entry. Records form an ordered
// per-applicant history; once Status is terminal the record never changes.
type ApplicationRecord struct {
	ID          string     `json:"id" db:"id"`
	ApplicantID int64      `json:"applicantId" db:"applicant_id"`
	Nickname    string     `json:"nickname" db:"nickname"`
	SubmittedAt time.Time  `json:"submittedAt" db:"submitted_at"`
	Status      Status     `json:"status" db:"status"`
	DecidedBy   *int64     `json:"decidedBy,omitempty" db:"decided_by"`
	DecidedAt   *time.Time `json:"decidedAt,omitempty" db:"decided_at"`
}

// PendingReviewTicket correlates a pending record with the notification
// handles sent to each reviewer, so the copies can be reconciled after a
// decision without searching message history.
type PendingReviewTicket struct {
	ID          string
	RecordID    string
	ApplicantID int64
	Nickname    string
	Notified    map[int64]MessageRef // reviewer id -> outbound message handle
}

// internal/policy/eligibility.go

// Package policy decides whether an applicant may start a new application.
// The check is a pure function of the applicant's record history and the
// current time, so every rule is directly testable.
package policy

import (
	"fmt"
	"time"

	"github.com/sunvm/unik-registration-tg/internal/models"
)

const hoursPerDay = 24

const (
	reasonApproved = "Ваша предыдущая заявка была одобрена. Повторная подача заявки невозможна."
	reasonCooldown = "Ваша предыдущая заявка была отклонена. Вы сможете подать новую заявку через %d дней."
)

// Policy gates application submission. Reviewer ids bypass every history
// check, which keeps the flow testable by the reviewers themselves.
type Policy struct {
	reviewers    map[int64]struct{}
	cooldownDays int
}

// New builds a policy with the given reviewer bypass list and rejection
// cooldown in days.
func New(reviewerIDs []int64, cooldownDays int) *Policy {
	bypass := make(map[int64]struct{}, len(reviewerIDs))
	for _, id := range reviewerIDs {
		bypass[id] = struct{}{}
	}
	return &Policy{reviewers: bypass, cooldownDays: cooldownDays}
}

// CanSubmit reports whether the applicant may start a new application given
// their record history (oldest first) and the current time. When denied, the
// returned reason is the user-visible explanation. Only the last record
// matters; earlier records are audit history.
func (p *Policy) CanSubmit(applicantID int64, history []models.ApplicationRecord, now time.Time) (bool, string) {
	if _, ok := p.reviewers[applicantID]; ok {
		return true, ""
	}

	if len(history) == 0 {
		return true, ""
	}

	last := history[len(history)-1]

	switch last.Status {
	case models.StatusApproved:
		return false, reasonApproved

	case models.StatusRejected:
		decidedAt := last.SubmittedAt
		if last.DecidedAt != nil {
			decidedAt = *last.DecidedAt
		}
		// Calendar-day truncation, not rounding: 6d23h elapsed is day 6.
		elapsedDays := int(now.Sub(decidedAt).Hours() / hoursPerDay)
		if elapsedDays < p.cooldownDays {
			return false, fmt.Sprintf(reasonCooldown, p.cooldownDays-elapsedDays)
		}
		return true, ""
	}

	// Pending or any non-terminal edge case does not block a fresh attempt.
	return true, ""
}

package policy

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sunvm/unik-registration-tg/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func createPolicy(reviewerIDs ...int64) *Policy {
	return New(reviewerIDs, 7)
}

func createRecord(status models.Status, decidedDaysAgo float64, now time.Time) models.ApplicationRecord {
	decidedAt := now.Add(-time.Duration(decidedDaysAgo * float64(24*time.Hour)))
	rec := models.ApplicationRecord{
		ApplicantID: 100,
		Nickname:    "Steve123",
		SubmittedAt: decidedAt.Add(-time.Hour),
		Status:      status,
	}
	if status.IsTerminal() {
		reviewer := int64(1)
		rec.DecidedBy = &reviewer
		rec.DecidedAt = &decidedAt
	}
	return rec
}

// ==========================
// Core Functionality Tests
// ==========================

func TestCanSubmit_NoHistory(t *testing.T) {
	p := createPolicy()
	now := time.Now()

	allowed, reason := p.CanSubmit(100, nil, now)

	assert.True(t, allowed)
	assert.Empty(t, reason)
}

func TestCanSubmit_ReviewerAlwaysAllowed(t *testing.T) {
	p := createPolicy(42)
	now := time.Now()

	tests := []struct {
		name    string
		history []models.ApplicationRecord
	}{
		{name: "no history", history: nil},
		{name: "last approved", history: []models.ApplicationRecord{createRecord(models.StatusApproved, 1, now)}},
		{name: "last rejected inside cooldown", history: []models.ApplicationRecord{createRecord(models.StatusRejected, 1, now)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed, reason := p.CanSubmit(42, tt.history, now)
			assert.True(t, allowed)
			assert.Empty(t, reason)
		})
	}
}

func TestCanSubmit_ApprovedIsFinal(t *testing.T) {
	p := createPolicy()
	now := time.Now()

	tests := []struct {
		name          string
		decidedYears  float64
	}{
		{name: "approved yesterday", decidedYears: 1.0 / 365},
		{name: "approved years ago", decidedYears: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			history := []models.ApplicationRecord{createRecord(models.StatusApproved, tt.decidedYears*365, now)}
			allowed, reason := p.CanSubmit(100, history, now)
			assert.False(t, allowed)
			assert.Contains(t, reason, "одобрена")
		})
	}
}

func TestCanSubmit_RejectionCooldown(t *testing.T) {
	p := createPolicy()
	now := time.Now()

	tests := []struct {
		name         string
		daysAgo      float64
		wantAllowed  bool
		wantDaysLeft int
	}{
		{name: "same day", daysAgo: 0, wantAllowed: false, wantDaysLeft: 7},
		{name: "day 3", daysAgo: 3, wantAllowed: false, wantDaysLeft: 4},
		{name: "6 days 23 hours truncates to day 6", daysAgo: 6.96, wantAllowed: false, wantDaysLeft: 1},
		{name: "day 7 exactly", daysAgo: 7, wantAllowed: true},
		{name: "day 8", daysAgo: 8, wantAllowed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			history := []models.ApplicationRecord{createRecord(models.StatusRejected, tt.daysAgo, now)}
			allowed, reason := p.CanSubmit(100, history, now)

			assert.Equal(t, tt.wantAllowed, allowed)
			if !tt.wantAllowed {
				assert.Contains(t, reason, fmt.Sprintf("через %d дней", tt.wantDaysLeft))
			} else {
				assert.Empty(t, reason)
			}
		})
	}
}

func TestCanSubmit_OnlyLastRecordMatters(t *testing.T) {
	p := createPolicy()
	now := time.Now()

	// An old approval buried under a cooled-down rejection must not block.
	history := []models.ApplicationRecord{
		createRecord(models.StatusApproved, 400, now),
		createRecord(models.StatusRejected, 30, now),
	}

	allowed, reason := p.CanSubmit(100, history, now)

	assert.True(t, allowed)
	assert.Empty(t, reason)
}

func TestCanSubmit_PendingLastRecordDoesNotBlock(t *testing.T) {
	p := createPolicy()
	now := time.Now()

	history := []models.ApplicationRecord{createRecord(models.StatusPending, 0, now)}

	allowed, reason := p.CanSubmit(100, history, now)

	assert.True(t, allowed)
	assert.Empty(t, reason)
}

func TestCanSubmit_Deterministic(t *testing.T) {
	p := createPolicy()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	history := []models.ApplicationRecord{createRecord(models.StatusRejected, 3, now)}

	allowedFirst, reasonFirst := p.CanSubmit(100, history, now)
	allowedSecond, reasonSecond := p.CanSubmit(100, history, now)

	assert.Equal(t, allowedFirst, allowedSecond)
	assert.Equal(t, reasonFirst, reasonSecond)
}

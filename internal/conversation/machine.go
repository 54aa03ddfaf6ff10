// internal/conversation/machine.go

// Package conversation drives the per-applicant questionnaire: rules
// acknowledgment, age, nickname, then hand-off to the review coordinator.
package conversation

import (
	"context"
	"fmt"
	"time"

	"github.com/sunvm/unik-registration-tg/internal/common/logger"
	"github.com/sunvm/unik-registration-tg/internal/common/metrics"
	"github.com/sunvm/unik-registration-tg/internal/models"
)

// RecordHistory is the read side of the record store the machine needs for
// eligibility checks.
type RecordHistory interface {
	History(ctx context.Context, applicantID int64) ([]models.ApplicationRecord, error)
}

// EligibilityChecker gates new applications.
type EligibilityChecker interface {
	CanSubmit(applicantID int64, history []models.ApplicationRecord, now time.Time) (bool, string)
}

// Submitter receives the completed draft.
type Submitter interface {
	Submit(ctx context.Context, draft models.ApplicationDraft) (*models.ApplicationRecord, error)
}

// Machine is the conversation state machine. One session per applicant; the
// dispatcher guarantees events for the same applicant arrive sequentially.
type Machine struct {
	sessions  models.SessionRepository
	records   RecordHistory
	policy    EligibilityChecker
	submitter Submitter
	messenger models.Messenger
	logger    logger.Logger
	now       func() time.Time
}

func NewMachine(
	sessions models.SessionRepository,
	records RecordHistory,
	policy EligibilityChecker,
	submitter Submitter,
	messenger models.Messenger,
	log logger.Logger,
) *Machine {
	return &Machine{
		sessions:  sessions,
		records:   records,
		policy:    policy,
		submitter: submitter,
		messenger: messenger,
		logger:    log.WithFields(map[string]interface{}{"component": "conversation"}),
		now:       time.Now,
	}
}

// Start handles the /start command: eligibility check, then the rules prompt.
// A /start during an in-flight conversation restarts it from the beginning.
func (m *Machine) Start(ctx context.Context, applicantID, chatID int64) error {
	history, err := m.records.History(ctx, applicantID)
	if err != nil {
		m.notify(ctx, chatID, msgSubmitFailed)
		return fmt.Errorf("load history for eligibility check: %w", err)
	}

	allowed, reason := m.policy.CanSubmit(applicantID, history, m.now())
	if !allowed {
		metrics.EligibilityDenials.Inc()
		m.logger.Info("applicant not eligible", map[string]interface{}{
			"applicantId": applicantID,
		})
		m.notify(ctx, chatID, reason)
		return nil
	}

	now := m.now()
	session := &models.Session{
		ApplicantID: applicantID,
		ChatID:      chatID,
		State:       models.StateAwaitingRulesAck,
		Draft: models.ApplicationDraft{
			ApplicantID: applicantID,
			ChatID:      chatID,
		},
		StartedAt: now,
		UpdatedAt: now,
	}
	if err := m.sessions.Save(ctx, session); err != nil {
		m.notify(ctx, chatID, msgSubmitFailed)
		return fmt.Errorf("save session: %w", err)
	}

	_, err = m.messenger.SendMessage(ctx, chatID, msgRules,
		models.Choice{Label: btnRulesAccept, Action: models.PendingAction{Kind: models.ActionRules, Accepted: true}},
		models.Choice{Label: btnRulesDecline, Action: models.PendingAction{Kind: models.ActionRules, Accepted: false}},
	)
	if err != nil {
		return fmt.Errorf("send rules prompt: %w", err)
	}
	return nil
}

// HandleRulesChoice handles the accept/decline button on the rules prompt.
// The prompt message is edited in place, mirroring how the button was
// presented.
func (m *Machine) HandleRulesChoice(ctx context.Context, applicantID int64, accepted bool, ref models.MessageRef) error {
	session, err := m.sessions.Load(ctx, applicantID)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if session == nil || session.State != models.StateAwaitingRulesAck {
		m.logger.Debug("rules choice without matching session", map[string]interface{}{
			"applicantId": applicantID,
		})
		return nil
	}

	if !accepted {
		if err := m.sessions.Delete(ctx, applicantID); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
		if err := m.messenger.EditMessage(ctx, ref, msgRulesDeclined); err != nil {
			m.logNotificationFailure(applicantID, err)
		}
		return nil
	}

	session.Draft.RulesAcknowledged = true
	session.State = models.StateAwaitingAge
	session.UpdatedAt = m.now()
	if err := m.sessions.Save(ctx, session); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	if err := m.messenger.EditMessage(ctx, ref, msgRulesAccepted); err != nil {
		m.logNotificationFailure(applicantID, err)
	}
	return nil
}

// HandleText consumes a free-text answer in the current state. Text arriving
// outside a session, or while the rules buttons are still pending, is
// ignored.
func (m *Machine) HandleText(ctx context.Context, applicantID, chatID int64, text string) error {
	session, err := m.sessions.Load(ctx, applicantID)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return nil
	}

	switch session.State {
	case models.StateAwaitingAge:
		// Stored verbatim: the age answer has no format contract.
		session.Draft.Age = text
		session.State = models.StateAwaitingNickname
		session.UpdatedAt = m.now()
		if err := m.sessions.Save(ctx, session); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
		m.notify(ctx, chatID, msgAskNickname)
		return nil

	case models.StateAwaitingNickname:
		draft := session.Draft
		draft.Nickname = text

		if _, err := m.submitter.Submit(ctx, draft); err != nil {
			// The session stays put so the applicant can resend the nickname.
			m.notify(ctx, chatID, msgSubmitFailed)
			return fmt.Errorf("submit application: %w", err)
		}

		if err := m.sessions.Delete(ctx, applicantID); err != nil {
			m.logger.Warn("dispose completed session", map[string]interface{}{
				"applicantId": applicantID,
				"error":       err.Error(),
			})
		}
		m.notify(ctx, chatID, msgSubmitted)
		return nil

	default:
		m.logger.Debug("text ignored in current state", map[string]interface{}{
			"applicantId": applicantID,
			"state":       string(session.State),
		})
		return nil
	}
}

// Cancel handles the /cancel command from any conversation state.
func (m *Machine) Cancel(ctx context.Context, applicantID, chatID int64) error {
	session, err := m.sessions.Load(ctx, applicantID)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return nil
	}

	if err := m.sessions.Delete(ctx, applicantID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	m.notify(ctx, chatID, msgCancelled)
	return nil
}

// notify sends a best-effort plain message to the applicant.
func (m *Machine) notify(ctx context.Context, chatID int64, text string) {
	if _, err := m.messenger.SendMessage(ctx, chatID, text); err != nil {
		m.logNotificationFailure(chatID, err)
	}
}

func (m *Machine) logNotificationFailure(applicantID int64, err error) {
	metrics.NotificationFailures.WithLabelValues("applicant").Inc()
	m.logger.Warn("applicant notification failed", map[string]interface{}{
		"applicantId": applicantID,
		"error":       err.Error(),
	})
}

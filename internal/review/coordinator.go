package review

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sunvm/unik-registration-tg/internal/common/logger"
	"github.com/sunvm/unik-registration-tg/internal/common/metrics"
	"github.com/sunvm/unik-registration-tg/internal/models"
	"github.com/sunvm/unik-registration-tg/internal/store"
)

// RecordStore is the durable application history the coordinator appends to
// and finalizes against.
type RecordStore interface {
	Append(ctx context.Context, rec *models.ApplicationRecord) error
	History(ctx context.Context, applicantID int64) ([]models.ApplicationRecord, error)
	Last(ctx context.Context, applicantID int64) (*models.ApplicationRecord, error)
	Finalize(ctx context.Context, applicantID int64, nickname string, status models.Status, reviewerID int64, decidedAt time.Time) (*models.ApplicationRecord, error)
}

// Roster resolves the reviewer set and display names.
type Roster interface {
	IDs() []int64
	NameOf(id int64) string
}

// OutcomeExecutor performs the side effects of a decision. Approve must
// succeed before the record may be finalized; Reject never blocks
// finalization.
type OutcomeExecutor interface {
	Approve(ctx context.Context, applicantID int64, nickname string) error
	Reject(ctx context.Context, applicantID int64, nickname string) error
}

// Coordinator fans submitted applications out to every reviewer and applies
// the first decision that arrives. Later decisions on the same application
// are reported back to their reviewer as stale.
type Coordinator struct {
	records   RecordStore
	tickets   *TicketRegistry
	roster    Roster
	executor  OutcomeExecutor
	messenger models.Messenger
	logger    logger.Logger
	now       func() time.Time

	locks applicantLocks
}

func NewCoordinator(
	records RecordStore,
	tickets *TicketRegistry,
	roster Roster,
	executor OutcomeExecutor,
	messenger models.Messenger,
	log logger.Logger,
) *Coordinator {
	return &Coordinator{
		records:   records,
		tickets:   tickets,
		roster:    roster,
		executor:  executor,
		messenger: messenger,
		logger:    log.WithFields(map[string]interface{}{"component": "review"}),
		now:       time.Now,
		locks:     applicantLocks{held: make(map[int64]*sync.Mutex)},
	}
}

// Submit persists a pending record for the completed draft and notifies every
// reviewer. Notification failures are logged per reviewer and do not fail the
// submission: the record is durable as soon as Append returns.
func (c *Coordinator) Submit(ctx context.Context, draft models.ApplicationDraft) (*models.ApplicationRecord, error) {
	rec := &models.ApplicationRecord{
		ID:          uuid.NewString(),
		ApplicantID: draft.ApplicantID,
		Nickname:    draft.Nickname,
		SubmittedAt: c.now().UTC(),
		Status:      models.StatusPending,
	}
	if err := c.records.Append(ctx, rec); err != nil {
		return nil, err
	}
	metrics.ApplicationsSubmitted.Inc()
	c.logger.Info("application submitted", map[string]interface{}{
		"record_id":    rec.ID,
		"applicant_id": rec.ApplicantID,
		"nickname":     rec.Nickname,
	})

	c.fanOut(ctx, draft, rec)
	return rec, nil
}

func (c *Coordinator) fanOut(ctx context.Context, draft models.ApplicationDraft, rec *models.ApplicationRecord) {
	summary := fmt.Sprintf(msgNewApplication, draft.Age, models.ProfileLink(rec.ApplicantID, rec.Nickname))
	choices := []models.Choice{
		{Label: btnApprove, Action: models.PendingAction{Kind: models.ActionApprove, ApplicantID: rec.ApplicantID, Nickname: rec.Nickname}},
		{Label: btnReject, Action: models.PendingAction{Kind: models.ActionReject, ApplicantID: rec.ApplicantID, Nickname: rec.Nickname}},
	}

	ticket := &models.PendingReviewTicket{
		ID:          uuid.NewString(),
		RecordID:    rec.ID,
		ApplicantID: rec.ApplicantID,
		Nickname:    rec.Nickname,
		Notified:    make(map[int64]models.MessageRef),
	}
	for _, reviewerID := range c.roster.IDs() {
		ref, err := c.messenger.SendMessage(ctx, reviewerID, summary, choices...)
		if err != nil {
			c.logReviewerFailure(reviewerID, err)
			continue
		}
		ticket.Notified[reviewerID] = ref
	}
	c.tickets.Put(ticket)
}

// Decide applies a reviewer's verdict. The per-applicant lock serializes
// concurrent decisions within the process; the record store's status guard
// covers everything else. Only the first decision changes the record, and
// an approval is finalized only after the whitelist grant succeeds.
func (c *Coordinator) Decide(ctx context.Context, d models.Decision) error {
	unlock := c.locks.lock(d.ApplicantID)
	defer unlock()

	last, err := c.records.Last(ctx, d.ApplicantID)
	if err != nil {
		return err
	}
	if last == nil || last.Status.IsTerminal() || last.Nickname != d.Nickname {
		c.reportStale(ctx, d, c.priorRecord(ctx, d, last))
		return nil
	}

	if d.Approve {
		if err := c.executor.Approve(ctx, d.ApplicantID, d.Nickname); err != nil {
			c.notifyReviewer(ctx, d.Ref.ChatID, fmt.Sprintf(msgGrantFailed, d.Nickname, err))
			return err
		}
	}

	status := models.StatusRejected
	if d.Approve {
		status = models.StatusApproved
	}
	rec, err := c.records.Finalize(ctx, d.ApplicantID, d.Nickname, status, d.ReviewerID, c.now().UTC())
	if errors.Is(err, store.ErrAlreadyDecided) || errors.Is(err, store.ErrNoPendingRecord) {
		c.reportStale(ctx, d, rec)
		return nil
	}
	if err != nil {
		return err
	}

	if !d.Approve {
		if err := c.executor.Reject(ctx, d.ApplicantID, d.Nickname); err != nil {
			c.logger.Warn("rejection notice failed", map[string]interface{}{
				"applicant_id": d.ApplicantID,
				"error":        err.Error(),
			})
		}
	}

	metrics.Decisions.WithLabelValues(string(status)).Inc()
	c.logger.Info("application decided", map[string]interface{}{
		"record_id":    rec.ID,
		"applicant_id": d.ApplicantID,
		"reviewer_id":  d.ReviewerID,
		"outcome":      string(status),
	})
	c.reconcile(ctx, d, status)
	return nil
}

// priorRecord finds the terminal record a stale button most plausibly refers
// to, so the stale notice can name the reviewer who decided it.
func (c *Coordinator) priorRecord(ctx context.Context, d models.Decision, last *models.ApplicationRecord) *models.ApplicationRecord {
	if last != nil && last.Nickname == d.Nickname && last.Status.IsTerminal() {
		return last
	}
	history, err := c.records.History(ctx, d.ApplicantID)
	if err != nil {
		return nil
	}
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Nickname == d.Nickname && history[i].Status.IsTerminal() {
			return &history[i]
		}
	}
	return nil
}

func (c *Coordinator) reportStale(ctx context.Context, d models.Decision, prior *models.ApplicationRecord) {
	metrics.StaleDecisions.Inc()
	c.logger.Info("stale decision ignored", map[string]interface{}{
		"applicant_id": d.ApplicantID,
		"reviewer_id":  d.ReviewerID,
		"nickname":     d.Nickname,
	})

	text := msgStaleGeneric
	if prior != nil {
		var deciderID int64
		if prior.DecidedBy != nil {
			deciderID = *prior.DecidedBy
		}
		name := c.roster.NameOf(deciderID)
		if prior.Status == models.StatusApproved {
			text = fmt.Sprintf(msgStaleApproved, name)
		} else {
			text = fmt.Sprintf(msgStaleRejected, name)
		}
	}

	if d.Ref.IsZero() {
		return
	}
	if err := c.messenger.EditMessage(ctx, d.Ref, text); err != nil {
		c.logReviewerFailure(d.ReviewerID, err)
	}
}

// reconcile rewrites every reviewer's copy of the notification. The acting
// reviewer sees the outcome acknowledgment on their own message; the others
// see who decided. Stored handles from the ticket are edited in place; when
// the ticket is gone (process restart) fresh messages are sent instead.
func (c *Coordinator) reconcile(ctx context.Context, d models.Decision, status models.Status) {
	link := models.ProfileLink(d.ApplicantID, d.Nickname)
	deciderName := c.roster.NameOf(d.ReviewerID)

	ack := fmt.Sprintf(msgAckRejected, d.Nickname)
	peer := fmt.Sprintf(msgPeerRejected, deciderName, link)
	if status == models.StatusApproved {
		ack = fmt.Sprintf(msgAckApproved, d.Nickname)
		peer = fmt.Sprintf(msgPeerApproved, deciderName, link)
	}

	if !d.Ref.IsZero() {
		if err := c.messenger.EditMessage(ctx, d.Ref, ack); err != nil {
			c.logReviewerFailure(d.ReviewerID, err)
		}
	}

	ticket, _ := c.tickets.Remove(d.ApplicantID)
	for _, reviewerID := range c.roster.IDs() {
		if reviewerID == d.ReviewerID {
			continue
		}
		if ticket != nil {
			if ref, ok := ticket.Notified[reviewerID]; ok {
				if err := c.messenger.EditMessage(ctx, ref, peer); err == nil {
					continue
				}
			}
		}
		if _, err := c.messenger.SendMessage(ctx, reviewerID, peer); err != nil {
			c.logReviewerFailure(reviewerID, err)
		}
	}
}

func (c *Coordinator) notifyReviewer(ctx context.Context, chatID int64, text string) {
	if chatID == 0 {
		return
	}
	if _, err := c.messenger.SendMessage(ctx, chatID, text); err != nil {
		c.logReviewerFailure(chatID, err)
	}
}

func (c *Coordinator) logReviewerFailure(reviewerID int64, err error) {
	metrics.NotificationFailures.WithLabelValues("reviewer").Inc()
	c.logger.Warn("reviewer notification failed", map[string]interface{}{
		"reviewer_id": reviewerID,
		"error":       err.Error(),
	})
}

// applicantLocks hands out one mutex per applicant id.
type applicantLocks struct {
	mu   sync.Mutex
	held map[int64]*sync.Mutex
}

func (l *applicantLocks) lock(applicantID int64) func() {
	l.mu.Lock()
	m, ok := l.held[applicantID]
	if !ok {
		m = &sync.Mutex{}
		l.held[applicantID] = m
	}
	l.mu.Unlock()
	m.Lock()
	return m.Unlock
}

package dispatch

import (
	"context"
	"sync"
	"time"

	"github.com/sunvm/unik-registration-tg/internal/common/logger"
	"github.com/sunvm/unik-registration-tg/internal/common/metrics"
	"github.com/sunvm/unik-registration-tg/internal/models"
)

const queueDepth = 16

// Conversation consumes applicant-side events.
type Conversation interface {
	Start(ctx context.Context, applicantID, chatID int64) error
	Cancel(ctx context.Context, applicantID, chatID int64) error
	HandleText(ctx context.Context, applicantID, chatID int64, text string) error
	HandleRulesChoice(ctx context.Context, applicantID int64, accepted bool, ref models.MessageRef) error
}

// Reviews consumes reviewer decisions.
type Reviews interface {
	Decide(ctx context.Context, d models.Decision) error
}

// Membership gates decision events on the reviewer roster.
type Membership interface {
	Contains(id int64) bool
}

// Dispatcher routes inbound events onto per-key serial queues. Events for the
// same applicant are handled in arrival order; different applicants proceed
// concurrently. Decision events key on the applicant under review, not the
// reviewer pressing the button, so decisions and conversation events for one
// applicant never interleave.
type Dispatcher struct {
	conversation Conversation
	reviews      Reviews
	roster       Membership
	logger       logger.Logger

	mu     sync.Mutex
	queues map[int64]chan models.Event
	wg     sync.WaitGroup
}

func NewDispatcher(conversation Conversation, reviews Reviews, roster Membership, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		conversation: conversation,
		reviews:      reviews,
		roster:       roster,
		logger:       log.WithFields(map[string]interface{}{"component": "dispatch"}),
		queues:       make(map[int64]chan models.Event),
	}
}

// Run consumes events until the channel closes, then drains every queue
// before returning. A returned dispatcher can be run again with a fresh
// event stream.
func (d *Dispatcher) Run(ctx context.Context, events <-chan models.Event) {
	d.mu.Lock()
	d.queues = make(map[int64]chan models.Event)
	d.mu.Unlock()

	for event := range events {
		d.enqueue(ctx, event)
	}

	d.mu.Lock()
	for _, q := range d.queues {
		close(q)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *Dispatcher) enqueue(ctx context.Context, event models.Event) {
	key := routingKey(event)

	d.mu.Lock()
	q, ok := d.queues[key]
	if !ok {
		q = make(chan models.Event, queueDepth)
		d.queues[key] = q
		d.wg.Add(1)
		go d.worker(ctx, q)
	}
	d.mu.Unlock()

	q <- event
}

func (d *Dispatcher) worker(ctx context.Context, q <-chan models.Event) {
	defer d.wg.Done()
	for event := range q {
		d.handle(ctx, event)
	}
}

// routingKey picks the serialization key: the applicant whose state the event
// touches.
func routingKey(event models.Event) int64 {
	if event.Type == models.EventChoice {
		switch event.Action.Kind {
		case models.ActionApprove, models.ActionReject:
			return event.Action.ApplicantID
		}
	}
	return event.FromID
}

func (d *Dispatcher) handle(ctx context.Context, event models.Event) {
	start := time.Now()
	defer func() {
		metrics.EventHandlingDuration.WithLabelValues(string(event.Type)).Observe(time.Since(start).Seconds())
	}()

	var err error
	switch event.Type {
	case models.EventCommand:
		err = d.handleCommand(ctx, event)
	case models.EventText:
		err = d.conversation.HandleText(ctx, event.FromID, event.ChatID, event.Text)
	case models.EventChoice:
		err = d.handleChoice(ctx, event)
	}

	if err != nil {
		d.logger.Error("event handling failed", map[string]interface{}{
			"event_type": string(event.Type),
			"from_id":    event.FromID,
			"error":      err.Error(),
		})
	}
}

func (d *Dispatcher) handleCommand(ctx context.Context, event models.Event) error {
	switch event.Text {
	case "start":
		return d.conversation.Start(ctx, event.FromID, event.ChatID)
	case "cancel":
		return d.conversation.Cancel(ctx, event.FromID, event.ChatID)
	default:
		d.logger.Debug("unknown command ignored", map[string]interface{}{
			"command": event.Text,
			"from_id": event.FromID,
		})
		return nil
	}
}

func (d *Dispatcher) handleChoice(ctx context.Context, event models.Event) error {
	switch event.Action.Kind {
	case models.ActionRules:
		return d.conversation.HandleRulesChoice(ctx, event.FromID, event.Action.Accepted, event.Ref)

	case models.ActionApprove, models.ActionReject:
		if !d.roster.Contains(event.FromID) {
			d.logger.Warn("decision from non-reviewer ignored", map[string]interface{}{
				"from_id":      event.FromID,
				"applicant_id": event.Action.ApplicantID,
			})
			return nil
		}
		return d.reviews.Decide(ctx, models.Decision{
			ApplicantID: event.Action.ApplicantID,
			Nickname:    event.Action.Nickname,
			ReviewerID:  event.FromID,
			Approve:     event.Action.Kind == models.ActionApprove,
			Ref:         event.Ref,
		})
	}
	return nil
}

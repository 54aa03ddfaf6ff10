package outcome

import (
	"context"
	"fmt"

	"github.com/sunvm/unik-registration-tg/internal/common/errors"
	"github.com/sunvm/unik-registration-tg/internal/common/logger"
	"github.com/sunvm/unik-registration-tg/internal/common/metrics"
	"github.com/sunvm/unik-registration-tg/internal/models"
)

// Applicant-facing outcome texts.
const (
	msgApproved = "Здравствуйте, %s! Ваша заявка одобрена, и вы добавлены в вайтлист сервера.\n\n" +
		"IP и другую информацию о сервере можно найти в нашем тг канале: https://t.me/unikMC\n\n" +
		"Либо на дискорд сервере https://discord.com/invite/XBWNN58qJb\n\n" +
		"Хорошей игры и не нарушайте правила сервера!"

	msgRejected = "К сожалению, %s, ваша заявка была отклонена. Вы сможете подать новую заявку через %d дней."
)

// Executor carries out the side effects of a review decision: the whitelist
// grant on approval and the outcome notification to the applicant.
type Executor struct {
	grant        models.GrantChannel
	messenger    models.Messenger
	command      string
	cooldownDays int
	logger       logger.Logger
}

// NewExecutor builds an executor. The command is a format string with a
// single %s placeholder for the nickname, e.g. "comfywhitelist add %s".
func NewExecutor(grant models.GrantChannel, messenger models.Messenger, command string, cooldownDays int, log logger.Logger) *Executor {
	return &Executor{
		grant:        grant,
		messenger:    messenger,
		command:      command,
		cooldownDays: cooldownDays,
		logger:       log.WithFields(map[string]interface{}{"component": "outcome"}),
	}
}

// Approve adds the nickname to the server whitelist. A grant failure is
// returned to the caller so the decision stays undone and the same button can
// be retried; the welcome message is sent only after a successful grant.
func (e *Executor) Approve(ctx context.Context, applicantID int64, nickname string) error {
	command := fmt.Sprintf(e.command, nickname)
	response, err := e.grant.Execute(ctx, command)
	if err != nil {
		metrics.GrantFailures.Inc()
		e.logger.Error("whitelist grant failed", map[string]interface{}{
			"applicant_id": applicantID,
			"nickname":     nickname,
			"error":        err.Error(),
		})
		return errors.NewGrantChannelError(err)
	}
	e.logger.Info("whitelist grant succeeded", map[string]interface{}{
		"applicant_id": applicantID,
		"nickname":     nickname,
		"response":     response,
	})

	e.notifyApplicant(ctx, applicantID, fmt.Sprintf(msgApproved, models.ProfileLink(applicantID, nickname)))
	return nil
}

// Reject notifies the applicant of the rejection and the cooldown. It never
// blocks the decision: a failed notification is reported but the rejection
// stands.
func (e *Executor) Reject(ctx context.Context, applicantID int64, nickname string) error {
	e.notifyApplicant(ctx, applicantID, fmt.Sprintf(msgRejected, models.ProfileLink(applicantID, nickname), e.cooldownDays))
	return nil
}

func (e *Executor) notifyApplicant(ctx context.Context, applicantID int64, text string) {
	if _, err := e.messenger.SendMessage(ctx, applicantID, text); err != nil {
		metrics.NotificationFailures.WithLabelValues("applicant").Inc()
		e.logger.Warn("applicant notification failed", map[string]interface{}{
			"applicant_id": applicantID,
			"error":        err.Error(),
		})
	}
}

package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/sunvm/unik-registration-tg/internal/models"
)

// Events starts long polling and returns a channel of mapped inbound events.
// The channel closes when the context is cancelled or the update stream ends.
func (b *Bot) Events(ctx context.Context) <-chan models.Event {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.pollTimeout
	updates := b.api.GetUpdatesChan(u)

	out := make(chan models.Event)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				b.api.StopReceivingUpdates()
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				event, ok := b.mapUpdate(update)
				if !ok {
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					b.api.StopReceivingUpdates()
					return
				}
			}
		}
	}()
	return out
}

func (b *Bot) mapUpdate(update tgbotapi.Update) (models.Event, bool) {
	if update.CallbackQuery != nil {
		return b.mapCallback(update.CallbackQuery)
	}
	if update.Message != nil {
		return b.mapMessage(update.Message)
	}
	return models.Event{}, false
}

func (b *Bot) mapMessage(msg *tgbotapi.Message) (models.Event, bool) {
	if msg.From == nil || msg.From.IsBot {
		return models.Event{}, false
	}

	if msg.IsCommand() {
		return models.Event{
			Type:   models.EventCommand,
			FromID: msg.From.ID,
			ChatID: msg.Chat.ID,
			Text:   msg.Command(),
		}, true
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return models.Event{}, false
	}
	return models.Event{
		Type:   models.EventText,
		FromID: msg.From.ID,
		ChatID: msg.Chat.ID,
		Text:   text,
	}, true
}

func (b *Bot) mapCallback(query *tgbotapi.CallbackQuery) (models.Event, bool) {
	// Acknowledge immediately so the client stops the loading spinner even
	// when the token turns out to be unusable.
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		b.logger.Warn("callback acknowledgment failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if query.Message == nil {
		return models.Event{}, false
	}
	action, err := DecodeAction(query.Data)
	if err != nil {
		b.logger.Warn("invalid callback token dropped", map[string]interface{}{
			"token":   query.Data,
			"from_id": query.From.ID,
		})
		return models.Event{}, false
	}

	return models.Event{
		Type:   models.EventChoice,
		FromID: query.From.ID,
		ChatID: query.Message.Chat.ID,
		Action: action,
		Ref: models.MessageRef{
			ChatID:    query.Message.Chat.ID,
			MessageID: query.Message.MessageID,
		},
	}, true
}

package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/sunvm/unik-registration-tg/internal/common/config"
	"github.com/sunvm/unik-registration-tg/internal/common/errors"
	"github.com/sunvm/unik-registration-tg/internal/common/logger"
	"github.com/sunvm/unik-registration-tg/internal/models"
)

// Bot is the Telegram edge of the service. It implements models.Messenger
// for outbound traffic and produces inbound events via Events.
type Bot struct {
	api         *tgbotapi.BotAPI
	pollTimeout int
	logger      logger.Logger
}

func NewBot(cfg config.TelegramConfig, log logger.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, errors.NewTransportError(err)
	}

	bot := &Bot{
		api:         api,
		pollTimeout: cfg.PollTimeout,
		logger:      log.WithFields(map[string]interface{}{"component": "telegram"}),
	}
	bot.logger.Info("telegram bot authorized", map[string]interface{}{
		"username": api.Self.UserName,
	})

	if cfg.WebhookCleanup {
		if err := bot.removeWebhook(); err != nil {
			bot.logger.Warn("webhook cleanup failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	return bot, nil
}

// removeWebhook drops a stale webhook registration so long polling can
// receive updates.
func (b *Bot) removeWebhook() error {
	_, err := b.api.Request(tgbotapi.DeleteWebhookConfig{DropPendingUpdates: false})
	return err
}

func (b *Bot) SendMessage(ctx context.Context, chatID int64, text string, choices ...models.Choice) (models.MessageRef, error) {
	if err := ctx.Err(); err != nil {
		return models.MessageRef{}, err
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if len(choices) > 0 {
		msg.ReplyMarkup = inlineKeyboard(choices)
	}

	sent, err := b.api.Send(msg)
	if err != nil {
		return models.MessageRef{}, errors.NewTransportError(err)
	}
	return models.MessageRef{ChatID: chatID, MessageID: sent.MessageID}, nil
}

func (b *Bot) EditMessage(ctx context.Context, ref models.MessageRef, text string, choices ...models.Choice) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var edit tgbotapi.EditMessageTextConfig
	if len(choices) > 0 {
		edit = tgbotapi.NewEditMessageTextAndMarkup(ref.ChatID, ref.MessageID, text, inlineKeyboard(choices))
	} else {
		edit = tgbotapi.NewEditMessageText(ref.ChatID, ref.MessageID, text)
	}
	edit.ParseMode = tgbotapi.ModeHTML

	if _, err := b.api.Send(edit); err != nil {
		return errors.NewTransportError(err)
	}
	return nil
}

// inlineKeyboard renders choices as one row of inline buttons, each carrying
// its encoded action token.
func inlineKeyboard(choices []models.Choice) tgbotapi.InlineKeyboardMarkup {
	row := make([]tgbotapi.InlineKeyboardButton, 0, len(choices))
	for _, choice := range choices {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(choice.Label, EncodeAction(choice.Action)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

package telegram

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
)

type loggerKey struct{}

// requestMiddleware tags every update with a request ID
func (b *Bot) requestMiddleware(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, tgBot *bot.Bot, update *models.Update) {
		logger := b.logger.With("request_id", uuid.NewString(), "update_id", update.ID)
		if update.Message != nil && update.Message.From != nil {
			logger = logger.With("user_id", update.Message.From.ID)
		} else if update.CallbackQuery != nil {
			logger = logger.With("user_id", update.CallbackQuery.From.ID)
		}

		next(context.WithValue(ctx, loggerKey{}, logger), tgBot, update)
	}
}

// log returns the request logger of ctx
func (b *Bot) log(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return b.logger
}

// sendReply sends a reply as a new message
func (b *Bot) sendReply(ctx context.Context, chatID int64, r reply) {
	params := &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      r.text,
		ParseMode: models.ParseModeHTML,
	}

	if r.keyboard != nil {
		params.ReplyMarkup = r.keyboard
	}

	if _, err := b.bot.SendMessage(ctx, params); err != nil {
		b.log(ctx).Error("failed to send message", "chat_id", chatID, "error", err)
	}
}

// editReply replaces the message a button belongs to
func (b *Bot) editReply(ctx context.Context, chatID int64, messageID int, r reply) {
	params := &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      r.text,
		ParseMode: models.ParseModeHTML,
	}

	if r.keyboard != nil {
		params.ReplyMarkup = r.keyboard
	}

	if _, err := b.bot.EditMessageText(ctx, params); err != nil {
		b.log(ctx).Error("failed to edit message", "chat_id", chatID, "message_id", messageID, "error", err)
	}
}

// answerCallback answers a callback query
func (b *Bot) answerCallback(ctx context.Context, callbackID, text string, showAlert bool) {
	_, err := b.bot.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       showAlert,
	})
	if err != nil {
		b.log(ctx).Warn("failed to answer callback", "error", err)
	}
}

// callbackOrigin returns the chat and message a button was attached to
func callbackOrigin(callback *models.CallbackQuery) (int64, int, bool) {
	switch {
	case callback.Message.Message != nil:
		return callback.Message.Message.Chat.ID, callback.Message.Message.ID, true
	case callback.Message.InaccessibleMessage != nil:
		return callback.Message.InaccessibleMessage.Chat.ID, callback.Message.InaccessibleMessage.MessageID, true
	default:
		return 0, 0, false
	}
}

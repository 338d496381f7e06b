package telegram

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/mixelka/tempmailbot/internal/formatter"
	appmodels "github.com/mixelka/tempmailbot/pkg/models"
)

// handleStart handles /start command
func (b *Bot) handleStart(ctx context.Context, tgBot *bot.Bot, update *models.Update) {
	msg := update.Message
	firstName := "there"
	if msg.From != nil && msg.From.FirstName != "" {
		firstName = msg.From.FirstName
	}

	b.sendReply(ctx, msg.Chat.ID, reply{text: b.formatter.Welcome(firstName)})
}

// handleHelp handles /help command
func (b *Bot) handleHelp(ctx context.Context, tgBot *bot.Bot, update *models.Update) {
	b.sendReply(ctx, update.Message.Chat.ID, reply{text: b.formatter.Help()})
}

// handleNew handles /new command
func (b *Bot) handleNew(ctx context.Context, tgBot *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg.From == nil {
		return
	}
	b.sendReply(ctx, msg.Chat.ID, b.newMailbox(ctx, msg.From.ID))
}

// handleCustom handles /custom command
// Usage: /custom [username]
func (b *Bot) handleCustom(ctx context.Context, tgBot *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg.From == nil {
		return
	}
	b.sendReply(ctx, msg.Chat.ID, b.beginCustom(ctx, msg.From.ID, msg.Text))
}

// handleCancel handles /cancel command
func (b *Bot) handleCancel(ctx context.Context, tgBot *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg.From == nil {
		return
	}
	b.sendReply(ctx, msg.Chat.ID, b.cancel(msg.From.ID))
}

// handleList handles /list command
func (b *Bot) handleList(ctx context.Context, tgBot *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg.From == nil {
		return
	}
	b.sendReply(ctx, msg.Chat.ID, b.list(ctx, msg.From.ID))
}

// handleInbox handles /inbox command
func (b *Bot) handleInbox(ctx context.Context, tgBot *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg.From == nil {
		return
	}
	b.sendReply(ctx, msg.Chat.ID, b.selectMailbox(ctx, msg.From.ID, appmodels.CallbackInbox))
}

// handleDelete handles /delete command
func (b *Bot) handleDelete(ctx context.Context, tgBot *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg.From == nil {
		return
	}
	b.sendReply(ctx, msg.Chat.ID, b.selectMailbox(ctx, msg.From.ID, appmodels.CallbackDelete))
}

// handleStats handles /stats command
func (b *Bot) handleStats(ctx context.Context, tgBot *bot.Bot, update *models.Update) {
	b.sendReply(ctx, update.Message.Chat.ID, b.stats(ctx))
}

// handleCallback handles inline button callbacks
func (b *Bot) handleCallback(ctx context.Context, tgBot *bot.Bot, update *models.Update) {
	callback := update.CallbackQuery
	if callback == nil {
		return
	}

	r, ok := b.callback(ctx, callback.From.ID, callback.Data)
	if !ok {
		b.answerCallback(ctx, callback.ID, formatter.UnknownActionText, false)
		return
	}
	b.answerCallback(ctx, callback.ID, "", false)

	chatID, messageID, ok := callbackOrigin(callback)
	if !ok {
		b.log(ctx).Warn("callback message is not accessible", "callback_id", callback.ID)
		return
	}
	b.editReply(ctx, chatID, messageID, r)
}

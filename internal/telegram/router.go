package telegram

import (
	"context"
	"errors"
	"strings"

	"github.com/go-telegram/bot/models"

	"github.com/mixelka/tempmailbot/internal/bridge"
	"github.com/mixelka/tempmailbot/internal/formatter"
	appmodels "github.com/mixelka/tempmailbot/pkg/models"
)

// reply is a rendered answer to a command or button press
type reply struct {
	text     string
	keyboard *models.InlineKeyboardMarkup
}

func (b *Bot) errorReply(ctx context.Context, operation string, err error) reply {
	logger := b.log(ctx).With("operation", operation, "reason", bridge.Reason(err))
	switch {
	case errors.Is(err, bridge.ErrNoMailboxes), errors.Is(err, bridge.ErrInvalidLocalPart):
		logger.Debug("request rejected", "error", err)
	case bridge.Reason(err) == "internal":
		logger.Error("request failed", "error", err)
	default:
		logger.Warn("request failed", "error", err)
	}
	return reply{text: b.formatter.Error(err)}
}

// newMailbox creates a mailbox with a generated name
func (b *Bot) newMailbox(ctx context.Context, userID int64) reply {
	address, err := b.mailboxes.CreateMailbox(ctx, userID, "")
	if err != nil {
		return b.errorReply(ctx, "new", err)
	}
	return reply{text: b.formatter.MailboxCreated(address, false)}
}

// beginCustom handles /custom. "/custom name" creates right away,
// a bare /custom asks for the name.
func (b *Bot) beginCustom(ctx context.Context, userID int64, text string) reply {
	if name := commandArgs(text); name != "" {
		b.prompts.Cancel(userID)
		return b.createCustom(ctx, userID, name)
	}

	b.prompts.Begin(userID)
	return reply{text: formatter.CustomPromptText}
}

// customName consumes a pending /custom prompt. ok is false when the
// user was not asked for a name.
func (b *Bot) customName(ctx context.Context, userID int64, text string) (reply, bool) {
	if !b.prompts.Take(userID) {
		return reply{}, false
	}
	return b.createCustom(ctx, userID, text), true
}

func (b *Bot) createCustom(ctx context.Context, userID int64, name string) reply {
	address, err := b.mailboxes.CreateMailbox(ctx, userID, name)
	if err != nil {
		return b.errorReply(ctx, "custom", err)
	}
	return reply{text: b.formatter.MailboxCreated(address, true)}
}

// cancel aborts a pending prompt
func (b *Bot) cancel(userID int64) reply {
	b.prompts.Cancel(userID)
	return reply{text: formatter.CancelledText}
}

// list shows the addresses of a user
func (b *Bot) list(ctx context.Context, userID int64) reply {
	addresses, err := b.mailboxes.ListMailboxes(ctx, userID)
	if err != nil {
		return b.errorReply(ctx, "list", err)
	}
	return reply{text: b.formatter.MailboxList(addresses)}
}

// selectMailbox offers one button per mailbox for action
func (b *Bot) selectMailbox(ctx context.Context, userID int64, action appmodels.CallbackAction) reply {
	choices, err := b.mailboxes.SelectForAction(ctx, userID, action)
	if err != nil {
		return b.errorReply(ctx, string(action), err)
	}
	return reply{
		text:     b.formatter.SelectPrompt(action),
		keyboard: formatter.BuildChoiceKeyboard(choices),
	}
}

func (b *Bot) stats(ctx context.Context) reply {
	stats, err := b.mailboxes.Stats(ctx)
	if err != nil {
		return b.errorReply(ctx, "stats", err)
	}
	return reply{text: b.formatter.Stats(stats)}
}

// callback routes a button press. ok is false for data that is not a
// choice token.
func (b *Bot) callback(ctx context.Context, userID int64, data string) (reply, bool) {
	cb, err := formatter.DecodeCallback(data)
	if err != nil {
		b.log(ctx).Warn("failed to decode callback", "error", err, "data", data)
		return reply{}, false
	}

	switch cb.Action {
	case appmodels.CallbackInbox:
		return b.inbox(ctx, userID, cb.Address), true
	case appmodels.CallbackViewMessage:
		return b.viewMessage(ctx, userID, cb.Address, cb.MessageID), true
	case appmodels.CallbackDelete:
		return b.deleteMailbox(ctx, userID, cb.Address), true
	default:
		return reply{}, false
	}
}

func (b *Bot) inbox(ctx context.Context, userID int64, address string) reply {
	inbox, err := b.mailboxes.FetchInbox(ctx, address, userID)
	if err != nil {
		return b.errorReply(ctx, "inbox", err)
	}

	r := reply{text: b.formatter.Inbox(inbox)}
	if len(inbox.Messages) > 0 {
		r.keyboard = formatter.BuildInboxKeyboard(inbox)
	}
	return r
}

func (b *Bot) viewMessage(ctx context.Context, userID int64, address, messageID string) reply {
	msg, err := b.mailboxes.FetchMessage(ctx, address, messageID, userID)
	if err != nil {
		return b.errorReply(ctx, "message", err)
	}
	return reply{
		text:     b.formatter.Message(msg),
		keyboard: formatter.BuildMessageKeyboard(address),
	}
}

func (b *Bot) deleteMailbox(ctx context.Context, userID int64, address string) reply {
	if err := b.mailboxes.DeleteMailbox(ctx, address, userID); err != nil {
		return b.errorReply(ctx, "delete", err)
	}
	return reply{text: b.formatter.Deleted(address)}
}

// commandArgs returns the text after the command word
func commandArgs(text string) string {
	_, args, _ := strings.Cut(strings.TrimSpace(text), " ")
	return strings.TrimSpace(args)
}

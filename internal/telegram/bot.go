package telegram

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/mixelka/tempmailbot/internal/bridge"
	"github.com/mixelka/tempmailbot/internal/config"
	"github.com/mixelka/tempmailbot/internal/formatter"
	appmodels "github.com/mixelka/tempmailbot/pkg/models"
)

// customPromptTTL is how long a /custom prompt waits for the username
const customPromptTTL = 10 * time.Minute

// Mailboxes is the part of the bridge the bot dispatches to
type Mailboxes interface {
	CreateMailbox(ctx context.Context, ownerID int64, desiredLocalPart string) (string, error)
	ListMailboxes(ctx context.Context, ownerID int64) ([]string, error)
	SelectForAction(ctx context.Context, ownerID int64, action appmodels.CallbackAction) ([]bridge.Choice, error)
	FetchInbox(ctx context.Context, address string, requesterID int64) (*bridge.Inbox, error)
	FetchMessage(ctx context.Context, address, messageID string, requesterID int64) (*bridge.RenderedMessage, error)
	DeleteMailbox(ctx context.Context, address string, requesterID int64) error
	Stats(ctx context.Context) (bridge.Stats, error)
}

// Bot represents the Telegram bot
type Bot struct {
	bot       *bot.Bot
	mailboxes Mailboxes
	formatter *formatter.TelegramFormatter
	prompts   *promptTracker
	logger    *slog.Logger
}

// BotDeps dependencies for creating a bot
type BotDeps struct {
	Config    *config.Config
	Mailboxes Mailboxes
	Formatter *formatter.TelegramFormatter
	Logger    *slog.Logger
}

// NewBot creates a new Telegram bot
func NewBot(deps BotDeps) (*Bot, error) {
	b := newBot(deps)

	opts := []bot.Option{
		bot.WithDefaultHandler(b.defaultHandler),
		bot.WithMiddlewares(b.requestMiddleware),
	}

	tgBot, err := bot.New(deps.Config.TelegramToken, opts...)
	if err != nil {
		return nil, err
	}

	b.bot = tgBot
	b.registerHandlers()

	return b, nil
}

// newBot builds the bot without a Telegram connection
func newBot(deps BotDeps) *Bot {
	f := deps.Formatter
	if f == nil {
		f = formatter.NewTelegramFormatter()
	}

	return &Bot{
		mailboxes: deps.Mailboxes,
		formatter: f,
		prompts:   newPromptTracker(customPromptTTL),
		logger:    deps.Logger.With("component", "telegram_bot"),
	}
}

// registerHandlers registers command handlers
func (b *Bot) registerHandlers() {
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, b.handleStart)
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypePrefix, b.handleHelp)
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/new", bot.MatchTypePrefix, b.handleNew)
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/custom", bot.MatchTypePrefix, b.handleCustom)
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypePrefix, b.handleCancel)
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/list", bot.MatchTypePrefix, b.handleList)
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/inbox", bot.MatchTypePrefix, b.handleInbox)
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/delete", bot.MatchTypePrefix, b.handleDelete)
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/stats", bot.MatchTypePrefix, b.handleStats)
	b.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, b.handleCallback)
}

// Start starts the bot and blocks until ctx is done
func (b *Bot) Start(ctx context.Context) {
	b.logger.Info("starting telegram bot")
	b.bot.Start(ctx)
	b.logger.Info("telegram bot stopped")
}

// defaultHandler handles messages no command matched.
// A plain-text message answers a pending /custom prompt.
func (b *Bot) defaultHandler(ctx context.Context, tgBot *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Text == "" {
		return
	}

	if msg.Text[0] == '/' {
		b.log(ctx).Debug("unknown command", "text", msg.Text)
		return
	}

	r, ok := b.customName(ctx, msg.From.ID, msg.Text)
	if !ok {
		return
	}
	b.sendReply(ctx, msg.Chat.ID, r)
}

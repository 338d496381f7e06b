// Package bridge maps chat users to provider-backed mailboxes. It keeps the
// local store consistent with the mail provider, enforces ownership and
// shapes provider data for display.
package bridge

import (
	"context"
	"log/slog"
	"time"

	"github.com/mixelka/tempmailbot/internal/database"
	"github.com/mixelka/tempmailbot/internal/mailgw"
	"github.com/mixelka/tempmailbot/internal/monitoring"
	"github.com/mixelka/tempmailbot/internal/parser"
	"github.com/mixelka/tempmailbot/internal/secret"
	"github.com/mixelka/tempmailbot/pkg/models"
)

// Store is the durable mailbox table
type Store interface {
	PutMailbox(ctx context.Context, mailbox *models.Mailbox) error
	GetMailboxesByOwner(ctx context.Context, ownerID int64) ([]*models.Mailbox, error)
	GetMailbox(ctx context.Context, address string) (*models.Mailbox, error)
	DeleteMailbox(ctx context.Context, address string) error
	PurgeOlderThan(ctx context.Context, threshold time.Duration) (int64, error)
	GetStats(ctx context.Context) (database.Stats, error)
}

// Provider is the mail provider API. Methods never fail loudly: an empty
// result means the call did not succeed.
type Provider interface {
	Domain(ctx context.Context) string
	CreateAccount(ctx context.Context, address, password string) *mailgw.Account
	Token(ctx context.Context, address, password string) string
	Messages(ctx context.Context, token string) []mailgw.MessageSummary
	Message(ctx context.Context, token, messageID string) *mailgw.Message
	DeleteAccount(ctx context.Context, token, accountID string) bool
}

// Options tune the bridge policies
type Options struct {
	StrictOwnership bool
	Retention       time.Duration
	InboxLimit      int
	BodyLimit       int
	LinkLimit       int
}

// DefaultOptions returns the reference policy
func DefaultOptions() Options {
	return Options{
		StrictOwnership: true,
		Retention:       time.Hour,
		InboxLimit:      10,
		BodyLimit:       3000,
		LinkLimit:       5,
	}
}

// Deps dependencies for creating a bridge
type Deps struct {
	Store        Store
	Provider     Provider
	Sealer       secret.Sealer
	HTMLParser   *parser.HTMLParser
	CodeDetector *parser.CodeDetector
	Metrics      *monitoring.Metrics
	Logger       *slog.Logger
	Options      Options
}

// Bridge orchestrates the mailbox lifecycle
type Bridge struct {
	store        Store
	provider     Provider
	sealer       secret.Sealer
	htmlParser   *parser.HTMLParser
	codeDetector *parser.CodeDetector
	metrics      *monitoring.Metrics
	logger       *slog.Logger
	opts         Options
}

// New creates a new bridge
func New(deps Deps) *Bridge {
	b := &Bridge{
		store:        deps.Store,
		provider:     deps.Provider,
		sealer:       deps.Sealer,
		htmlParser:   deps.HTMLParser,
		codeDetector: deps.CodeDetector,
		metrics:      deps.Metrics,
		logger:       deps.Logger.With("component", "bridge"),
		opts:         deps.Options,
	}

	if b.sealer == nil {
		b.sealer = secret.Plain{}
	}
	if b.htmlParser == nil {
		b.htmlParser = parser.NewHTMLParser()
	}
	if b.codeDetector == nil {
		b.codeDetector = parser.NewCodeDetector()
	}

	defaults := DefaultOptions()
	if b.opts.Retention <= 0 {
		b.opts.Retention = defaults.Retention
	}
	if b.opts.InboxLimit <= 0 {
		b.opts.InboxLimit = defaults.InboxLimit
	}
	if b.opts.BodyLimit <= 0 {
		b.opts.BodyLimit = defaults.BodyLimit
	}
	if b.opts.LinkLimit <= 0 {
		b.opts.LinkLimit = defaults.LinkLimit
	}

	if !b.opts.StrictOwnership {
		b.logger.Warn("ownership checks disabled: any user holding an address can read or delete it")
	}

	return b
}

// Retention returns the configured retention window
func (b *Bridge) Retention() time.Duration {
	return b.opts.Retention
}

// fail records a failed operation and returns err unchanged
func (b *Bridge) fail(operation string, err error) error {
	b.metrics.OperationError(operation, Reason(err))
	return err
}

package bridge

import (
	"context"
	"time"

	"github.com/mixelka/tempmailbot/internal/mailgw"
	"github.com/mixelka/tempmailbot/internal/parser"
)

// MessageSummary is one selectable inbox entry
type MessageSummary struct {
	ID       string
	FromName string
	Subject  string
}

// Inbox is the display set of a mailbox
type Inbox struct {
	Address  string
	Messages []MessageSummary
	Total    int // messages returned by the provider before capping
}

// RenderedMessage is a message ready for display
type RenderedMessage struct {
	ID             string
	Address        string
	From           string
	FromName       string
	To             []string
	Subject        string
	Date           time.Time
	Body           string
	Truncated      bool
	HasAttachments bool
	Links          []string
	Codes          []parser.DetectedCode
}

// FetchInbox lists the newest messages of a mailbox in provider order
func (b *Bridge) FetchInbox(ctx context.Context, address string, requesterID int64) (*Inbox, error) {
	token, err := b.authenticate(ctx, "inbox", address, requesterID)
	if err != nil {
		return nil, err
	}

	messages := b.provider.Messages(ctx, token)

	inbox := &Inbox{
		Address:  address,
		Messages: make([]MessageSummary, 0, min(len(messages), b.opts.InboxLimit)),
		Total:    len(messages),
	}
	for i, msg := range messages {
		if i >= b.opts.InboxLimit {
			break
		}
		inbox.Messages = append(inbox.Messages, MessageSummary{
			ID:       msg.ID,
			FromName: displayName(msg.From),
			Subject:  msg.Subject,
		})
	}

	return inbox, nil
}

// FetchMessage re-authenticates and renders a single message
func (b *Bridge) FetchMessage(ctx context.Context, address, messageID string, requesterID int64) (*RenderedMessage, error) {
	token, err := b.authenticate(ctx, "message", address, requesterID)
	if err != nil {
		return nil, err
	}

	msg := b.provider.Message(ctx, token, messageID)
	if msg == nil {
		b.metrics.ProviderFailure("message")
		return nil, b.fail("message", ErrMessageUnavailable)
	}

	return b.render(address, msg), nil
}

// authenticate resolves the mailbox and obtains a fresh token
func (b *Bridge) authenticate(ctx context.Context, operation, address string, requesterID int64) (string, error) {
	_, password, err := b.resolve(ctx, operation, address, requesterID)
	if err != nil {
		return "", err
	}
	if password == "" {
		return "", b.fail(operation, ErrAuthFailed)
	}

	token := b.provider.Token(ctx, address, password)
	if token == "" {
		b.metrics.ProviderFailure("token")
		return "", b.fail(operation, ErrAuthFailed)
	}
	return token, nil
}

// render prefers the plain-text body, falls back to the first HTML part,
// strips markup and truncates
func (b *Bridge) render(address string, msg *mailgw.Message) *RenderedMessage {
	var htmlBody string
	if len(msg.HTML) > 0 {
		htmlBody = msg.HTML[0]
	}

	var clean string
	if msg.Text != "" {
		clean = b.htmlParser.StripTags(msg.Text)
	} else {
		clean = b.htmlParser.HTMLToText(htmlBody)
	}
	body, truncated := parser.Truncate(clean, b.opts.BodyLimit)

	links, err := b.htmlParser.ExtractLinks(htmlBody, b.opts.LinkLimit)
	if err != nil {
		b.logger.Debug("failed to extract links", "message_id", msg.ID, "error", err)
	}

	to := make([]string, 0, len(msg.To))
	for _, addr := range msg.To {
		to = append(to, addr.Address)
	}

	return &RenderedMessage{
		ID:             msg.ID,
		Address:        address,
		From:           msg.From.Address,
		FromName:       msg.From.Name,
		To:             to,
		Subject:        msg.Subject,
		Date:           msg.CreatedAt,
		Body:           body,
		Truncated:      truncated,
		HasAttachments: msg.HasAttachments || len(msg.Attachments) > 0,
		Links:          links,
		Codes:          b.codeDetector.DetectCodes(clean),
	}
}

func displayName(addr mailgw.Address) string {
	if addr.Name != "" {
		return addr.Name
	}
	return addr.Address
}

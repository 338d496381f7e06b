package formatter

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf16"

	"github.com/mixelka/tempmailbot/internal/bridge"
	"github.com/mixelka/tempmailbot/pkg/models"
)

const commandsText = `<b>/new</b> - Create a new random temporary email.
<b>/custom</b> - Choose a custom username for your email.
<b>/list</b> - Show all your active email addresses.
<b>/inbox</b> - Check the inbox of one of your emails.
<b>/delete</b> - Delete one of your temporary emails.
<b>/stats</b> - View bot usage statistics.
<b>/help</b> - Show this help message again.`

// Notices shown for plain replies
const (
	CancelledText     = "Operation cancelled."
	UnknownActionText = "Unknown action"
	CustomPromptText  = "Please send me the custom username you want for your email (e.g. <code>my-cool-name</code>).\n\nSend /cancel to abort."
	NoMailboxesText   = "You have no active emails. Use /new or /custom first."
	EmptyListText     = "You have no active temporary emails. Use /new or /custom to create one."
	AttachmentsText   = "<b>Attachments found (download not supported by API)</b>"
	GenericErrorText  = "❌ Something went wrong. Please try again later."
)

const truncatedText = "\n\n<i>... (message truncated)</i>"

// TelegramFormatter renders bridge results as Telegram HTML
type TelegramFormatter struct {
	maxLength int
}

// NewTelegramFormatter creates a new Telegram formatter
func NewTelegramFormatter() *TelegramFormatter {
	return &TelegramFormatter{
		maxLength: 4096,
	}
}

// Welcome greets a user and lists the commands
func (f *TelegramFormatter) Welcome(firstName string) string {
	return fmt.Sprintf(`👋 <b>Welcome to TempMail Bot, %s!</b>

This bot helps you create temporary, disposable email addresses.
Perfect for sign-ups, verifications, and protecting your privacy.

%s`, f.escapeHTML(firstName), commandsText)
}

// Help lists the commands
func (f *TelegramFormatter) Help() string {
	return "📧 <b>Available Commands</b>\n\n" + commandsText
}

// MailboxCreated confirms a new mailbox
func (f *TelegramFormatter) MailboxCreated(address string, custom bool) string {
	title := "New temporary email created!"
	if custom {
		title = "Custom temporary email created!"
	}
	return fmt.Sprintf("✅ <b>%s</b>\n\n📧 <b>Email:</b> <code>%s</code>\n\nUse /inbox to check for messages.",
		title, f.escapeHTML(address))
}

// MailboxList renders the addresses of a user
func (f *TelegramFormatter) MailboxList(addresses []string) string {
	if len(addresses) == 0 {
		return EmptyListText
	}

	var sb strings.Builder
	sb.WriteString("📄 <b>Your active email addresses:</b>\n\n")
	for _, address := range addresses {
		sb.WriteString(fmt.Sprintf("📧 <code>%s</code>\n", f.escapeHTML(address)))
	}
	return sb.String()
}

// SelectPrompt asks the user to pick a mailbox for action
func (f *TelegramFormatter) SelectPrompt(action models.CallbackAction) string {
	switch action {
	case models.CallbackInbox:
		return "Please select an email to check its inbox:"
	case models.CallbackDelete:
		return "Please select an email to delete:"
	default:
		return "Please select an email:"
	}
}

// Inbox renders the inbox header. The keyboard carries the messages.
func (f *TelegramFormatter) Inbox(inbox *bridge.Inbox) string {
	address := f.escapeHTML(inbox.Address)
	if len(inbox.Messages) == 0 {
		return fmt.Sprintf("📥 Inbox for <code>%s</code> is empty.", address)
	}

	text := fmt.Sprintf("📬 <b>Inbox for <code>%s</code>:</b>", address)
	if inbox.Total > len(inbox.Messages) {
		text += fmt.Sprintf("\n\nShowing %d of %d messages.", len(inbox.Messages), inbox.Total)
	}
	return text
}

// Message renders a single message
func (f *TelegramFormatter) Message(msg *bridge.RenderedMessage) string {
	var header strings.Builder

	from := f.escapeHTML(msg.From)
	if msg.FromName != "" {
		from = fmt.Sprintf("%s &lt;%s&gt;", f.escapeHTML(msg.FromName), from)
	}

	header.WriteString(fmt.Sprintf("<b>From:</b> %s\n", from))
	header.WriteString(fmt.Sprintf("<b>To:</b> %s\n", f.escapeHTML(strings.Join(msg.To, ", "))))
	header.WriteString(fmt.Sprintf("<b>Subject:</b> %s\n", f.escapeHTML(msg.Subject)))
	if !msg.Date.IsZero() {
		header.WriteString(fmt.Sprintf("<b>Date:</b> %s\n", msg.Date.Format("2006-01-02 15:04 MST")))
	}

	// Detected codes section
	if len(msg.Codes) > 0 {
		header.WriteString("<b>Codes:</b> ")
		for _, code := range msg.Codes {
			header.WriteString(fmt.Sprintf("<code>%s</code> ", f.escapeHTML(code.Value)))
		}
		header.WriteString("\n")
	}

	header.WriteString("\n-----------------------------------------\n")

	var footer strings.Builder
	if len(msg.Links) > 0 {
		footer.WriteString("\n\n<b>Links:</b>\n")
		for _, link := range msg.Links {
			footer.WriteString(fmt.Sprintf("🔗 %s\n", f.escapeHTML(link)))
		}
	}
	if msg.HasAttachments {
		footer.WriteString("\n\n")
		footer.WriteString(AttachmentsText)
	}

	used := textLength(header.String()) + textLength(footer.String())
	body, truncated := f.fitBody(msg.Body, used)
	if truncated || msg.Truncated {
		body += truncatedText
	}

	return header.String() + body + footer.String()
}

// Deleted confirms a deletion
func (f *TelegramFormatter) Deleted(address string) string {
	return fmt.Sprintf("✅ Successfully deleted <code>%s</code>.", f.escapeHTML(address))
}

// Stats renders usage numbers
func (f *TelegramFormatter) Stats(stats bridge.Stats) string {
	return fmt.Sprintf("📊 <b>Bot Statistics</b>\n\n- <b>Active Users:</b> %d\n- <b>Total Active Emails:</b> %d",
		stats.Owners, stats.Mailboxes)
}

// Error maps a bridge error to its user notice
func (f *TelegramFormatter) Error(err error) string {
	switch {
	case errors.Is(err, bridge.ErrDomainUnavailable):
		return "❌ Could not fetch a domain from the mail provider. Please try again later."
	case errors.Is(err, bridge.ErrProviderRejected):
		return "❌ Failed to create the email account. The username might be taken or the service is down."
	case errors.Is(err, bridge.ErrInvalidLocalPart):
		return fmt.Sprintf("❌ This username cannot be used. Start with a letter or digit and use only a-z, 0-9, dot, dash or underscore. The full address must fit in %d characters.", models.MaxAddressLength)
	case errors.Is(err, bridge.ErrAuthFailed):
		return "❌ Could not authenticate with the mail provider."
	case errors.Is(err, bridge.ErrNotFound):
		return "❌ This email no longer exists."
	case errors.Is(err, bridge.ErrMessageUnavailable):
		return "❌ Could not fetch message content."
	case errors.Is(err, bridge.ErrNotOwner):
		return "❌ This email does not belong to you."
	case errors.Is(err, bridge.ErrNoMailboxes):
		return NoMailboxesText
	default:
		return GenericErrorText
	}
}

// escapeHTML escapes HTML special characters for Telegram
func (f *TelegramFormatter) escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// fitBody escapes body and shortens it until the whole message fits the
// Telegram limit. used is the length of the rest of the message.
func (f *TelegramFormatter) fitBody(body string, used int) (string, bool) {
	budget := f.maxLength - used - textLength(truncatedText)
	runes := []rune(body)
	truncated := false

	for {
		escaped := f.escapeHTML(string(runes))
		size := textLength(escaped)
		if size <= budget || len(runes) == 0 {
			return escaped, truncated
		}
		for over := size - budget; over > 0 && len(runes) > 0; runes = runes[:len(runes)-1] {
			over -= textLength(f.escapeHTML(string(runes[len(runes)-1])))
		}
		truncated = true
	}
}

// textLength counts UTF-16 code units, the unit of Telegram's message limit
func textLength(s string) int {
	n := 0
	for _, r := range s {
		n += len(utf16.Encode([]rune{r}))
	}
	return n
}

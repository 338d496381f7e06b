package bridge

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/mixelka/tempmailbot/internal/database"
	"github.com/mixelka/tempmailbot/pkg/models"
)

var localPartRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]{0,63}$`)

// Choice is one selectable mailbox for a follow-up action
type Choice struct {
	Label string
	Data  models.CallbackData
}

// Stats aggregate usage numbers
type Stats struct {
	Owners    int64
	Mailboxes int64
}

// NormalizeLocalPart trims and lower-cases a requested username and
// validates it. An empty result means "generate one".
func NormalizeLocalPart(desired string) (string, error) {
	localPart := strings.ToLower(strings.TrimSpace(desired))
	if localPart == "" {
		return "", nil
	}
	if !localPartRegex.MatchString(localPart) {
		return "", fmt.Errorf("%w: %q", ErrInvalidLocalPart, localPart)
	}
	return localPart, nil
}

// CreateMailbox registers a mailbox with the provider and tracks it for
// ownerID. An empty desiredLocalPart gets a random one. The password is
// never returned.
func (b *Bridge) CreateMailbox(ctx context.Context, ownerID int64, desiredLocalPart string) (string, error) {
	localPart, err := NormalizeLocalPart(desiredLocalPart)
	if err != nil {
		return "", b.fail("create", err)
	}

	domain := b.provider.Domain(ctx)
	if domain == "" {
		b.metrics.ProviderFailure("domain")
		return "", b.fail("create", ErrDomainUnavailable)
	}

	if localPart == "" {
		localPart, err = randomString(localPartLength, localPartCharset)
		if err != nil {
			return "", b.fail("create", fmt.Errorf("failed to generate local part: %w", err))
		}
	}

	password, err := randomString(passwordLength, passwordCharset)
	if err != nil {
		return "", b.fail("create", fmt.Errorf("failed to generate password: %w", err))
	}

	address := localPart + "@" + domain
	if len(address) > models.MaxAddressLength {
		if desiredLocalPart == "" {
			b.metrics.ProviderFailure("domain")
			return "", b.fail("create", fmt.Errorf("%w: domain %q is too long", ErrDomainUnavailable, domain))
		}
		return "", b.fail("create", fmt.Errorf("%w: %q is longer than %d characters", ErrInvalidLocalPart, address, models.MaxAddressLength))
	}

	account := b.provider.CreateAccount(ctx, address, password)
	if account == nil {
		b.metrics.ProviderFailure("create_account")
		return "", b.fail("create", ErrProviderRejected)
	}

	sealed, err := b.sealer.Seal(password)
	if err != nil {
		b.logger.Error("remote account left untracked", "address", address, "account_id", account.ID, "error", err)
		return "", b.fail("create", fmt.Errorf("failed to seal password: %w", err))
	}

	mailbox := &models.Mailbox{
		Address:           address,
		OwnerID:           ownerID,
		Password:          sealed,
		ProviderAccountID: account.ID,
	}
	if err := b.store.PutMailbox(ctx, mailbox); err != nil {
		b.logger.Error("remote account left untracked", "address", address, "account_id", account.ID, "error", err)
		return "", b.fail("create", err)
	}

	b.metrics.MailboxCreated()
	b.logger.Info("mailbox created", "owner_id", ownerID, "address", address)
	return address, nil
}

// ListMailboxes returns the addresses owned by ownerID in creation order
func (b *Bridge) ListMailboxes(ctx context.Context, ownerID int64) ([]string, error) {
	mailboxes, err := b.store.GetMailboxesByOwner(ctx, ownerID)
	if err != nil {
		return nil, b.fail("list", err)
	}

	addresses := make([]string, 0, len(mailboxes))
	for _, m := range mailboxes {
		addresses = append(addresses, m.Address)
	}
	return addresses, nil
}

// SelectForAction returns one choice per owned mailbox, or ErrNoMailboxes
func (b *Bridge) SelectForAction(ctx context.Context, ownerID int64, action models.CallbackAction) ([]Choice, error) {
	addresses, err := b.ListMailboxes(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(addresses) == 0 {
		return nil, ErrNoMailboxes
	}

	choices := make([]Choice, 0, len(addresses))
	for _, address := range addresses {
		choices = append(choices, Choice{
			Label: address,
			Data: models.CallbackData{
				Action:  action,
				Address: address,
			},
		})
	}
	return choices, nil
}

// DeleteMailbox forgets a mailbox. The provider deletion is best-effort and
// only logged; the local row is always removed.
func (b *Bridge) DeleteMailbox(ctx context.Context, address string, requesterID int64) error {
	mailbox, password, err := b.resolve(ctx, "delete", address, requesterID)
	if err != nil {
		return err
	}

	remoteOK := false
	if password != "" {
		if token := b.provider.Token(ctx, address, password); token != "" {
			remoteOK = b.provider.DeleteAccount(ctx, token, mailbox.ProviderAccountID)
		}
	}
	if !remoteOK {
		b.logger.Warn("remote delete failed, removing locally", "address", address, "account_id", mailbox.ProviderAccountID)
	}

	if err := b.store.DeleteMailbox(ctx, address); err != nil {
		return b.fail("delete", err)
	}

	b.metrics.MailboxDeleted(remoteOK)
	b.logger.Info("mailbox deleted", "address", address, "owner_id", mailbox.OwnerID, "remote_deleted", remoteOK)
	return nil
}

// Stats returns the number of distinct owners and tracked mailboxes
func (b *Bridge) Stats(ctx context.Context) (Stats, error) {
	stats, err := b.store.GetStats(ctx)
	if err != nil {
		return Stats{}, b.fail("stats", err)
	}

	b.metrics.Tracked(stats.Mailboxes)
	return Stats{Owners: stats.Owners, Mailboxes: stats.Mailboxes}, nil
}

// PeriodicCleanup removes mailboxes older than the retention window.
// Provider accounts are left untouched.
func (b *Bridge) PeriodicCleanup(ctx context.Context) (int64, error) {
	removed, err := b.store.PurgeOlderThan(ctx, b.opts.Retention)
	if err != nil {
		return 0, b.fail("cleanup", err)
	}

	b.metrics.MailboxesRemoved(removed)
	if stats, err := b.store.GetStats(ctx); err == nil {
		b.metrics.Tracked(stats.Mailboxes)
	}

	return removed, nil
}

// resolve loads a mailbox, checks ownership and opens its password.
// An unreadable password is returned as "".
func (b *Bridge) resolve(ctx context.Context, operation, address string, requesterID int64) (*models.Mailbox, string, error) {
	mailbox, err := b.store.GetMailbox(ctx, address)
	if errors.Is(err, database.ErrNotFound) {
		return nil, "", b.fail(operation, ErrNotFound)
	}
	if err != nil {
		return nil, "", b.fail(operation, err)
	}

	if mailbox.OwnerID != requesterID {
		if b.opts.StrictOwnership {
			b.logger.Warn("ownership check failed", "operation", operation, "address", address, "requester_id", requesterID)
			return nil, "", b.fail(operation, ErrNotOwner)
		}
		b.logger.Debug("acting on foreign mailbox", "operation", operation, "address", address, "requester_id", requesterID)
	}

	password, err := b.sealer.Open(mailbox.Password)
	if err != nil {
		b.logger.Error("failed to open stored password", "address", address, "error", err)
		return mailbox, "", nil
	}

	return mailbox, password, nil
}

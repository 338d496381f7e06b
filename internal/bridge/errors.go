package bridge

import "errors"

var (
	// ErrDomainUnavailable the provider returned no domain
	ErrDomainUnavailable = errors.New("no domain available from provider")
	// ErrProviderRejected account creation failed: address taken or provider down
	ErrProviderRejected = errors.New("provider rejected account creation")
	// ErrAuthFailed no token could be obtained for the mailbox
	ErrAuthFailed = errors.New("provider authentication failed")
	// ErrNotFound the mailbox is not tracked
	ErrNotFound = errors.New("mailbox not found")
	// ErrMessageUnavailable the message could not be fetched
	ErrMessageUnavailable = errors.New("message unavailable")
	// ErrNotOwner the mailbox belongs to another user
	ErrNotOwner = errors.New("mailbox belongs to another user")
	// ErrInvalidLocalPart the requested username cannot be used
	ErrInvalidLocalPart = errors.New("invalid local part")
	// ErrNoMailboxes the user owns no mailboxes
	ErrNoMailboxes = errors.New("user has no mailboxes")
)

// Reason returns a short label for an error, used in metrics and logs
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDomainUnavailable):
		return "domain_unavailable"
	case errors.Is(err, ErrProviderRejected):
		return "provider_rejected"
	case errors.Is(err, ErrAuthFailed):
		return "auth_failed"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrMessageUnavailable):
		return "message_unavailable"
	case errors.Is(err, ErrNotOwner):
		return "not_owner"
	case errors.Is(err, ErrInvalidLocalPart):
		return "invalid_local_part"
	case errors.Is(err, ErrNoMailboxes):
		return "no_mailboxes"
	default:
		return "internal"
	}
}

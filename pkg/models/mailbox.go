package models

import "time"

// Mailbox represents a provider-backed disposable mailbox owned by a chat user
type Mailbox struct {
	Address           string    `db:"address"`             // local@domain, primary key
	OwnerID           int64     `db:"owner_id"`            // Telegram User ID of the creator
	Password          string    `db:"password"`            // Provider password (sealed when encryption is on)
	ProviderAccountID string    `db:"provider_account_id"` // Used only for remote deletion
	CreatedAt         time.Time `db:"-"`
}

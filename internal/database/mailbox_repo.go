package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mixelka/tempmailbot/pkg/models"
)

// ErrNotFound is returned when a record is not found
var ErrNotFound = errors.New("record not found")

// Stats aggregate counts over all tracked mailboxes
type Stats struct {
	Owners    int64 `db:"owners"`
	Mailboxes int64 `db:"mailboxes"`
}

type mailboxRow struct {
	models.Mailbox
	CreatedAt int64 `db:"created_at"`
}

func (r mailboxRow) toModel() *models.Mailbox {
	m := r.Mailbox
	m.CreatedAt = time.Unix(0, r.CreatedAt)
	return &m
}

// PutMailbox inserts a mailbox or overwrites the row with the same address
func (db *DB) PutMailbox(ctx context.Context, mailbox *models.Mailbox) error {
	query := `
		INSERT OR REPLACE INTO mailboxes (address, owner_id, password, provider_account_id, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	now := db.now()
	_, err := db.ExecContext(ctx, query,
		mailbox.Address,
		mailbox.OwnerID,
		mailbox.Password,
		mailbox.ProviderAccountID,
		now.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to put mailbox: %w", err)
	}

	mailbox.CreatedAt = now
	return nil
}

// GetMailboxesByOwner returns all mailboxes of an owner in insertion order
func (db *DB) GetMailboxesByOwner(ctx context.Context, ownerID int64) ([]*models.Mailbox, error) {
	var rows []mailboxRow
	query := `
		SELECT address, owner_id, password, provider_account_id, created_at
		FROM mailboxes WHERE owner_id = ? ORDER BY rowid ASC
	`
	if err := db.SelectContext(ctx, &rows, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to get mailboxes: %w", err)
	}

	mailboxes := make([]*models.Mailbox, 0, len(rows))
	for _, row := range rows {
		mailboxes = append(mailboxes, row.toModel())
	}
	return mailboxes, nil
}

// GetMailbox returns a mailbox by address
func (db *DB) GetMailbox(ctx context.Context, address string) (*models.Mailbox, error) {
	var row mailboxRow
	query := `
		SELECT address, owner_id, password, provider_account_id, created_at
		FROM mailboxes WHERE address = ?
	`
	err := db.GetContext(ctx, &row, query, address)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mailbox: %w", err)
	}
	return row.toModel(), nil
}

// DeleteMailbox deletes a mailbox; deleting a missing address is not an error
func (db *DB) DeleteMailbox(ctx context.Context, address string) error {
	query := `DELETE FROM mailboxes WHERE address = ?`
	_, err := db.ExecContext(ctx, query, address)
	if err != nil {
		return fmt.Errorf("failed to delete mailbox: %w", err)
	}
	return nil
}

// PurgeOlderThan deletes mailboxes created before now minus threshold and
// returns how many rows were removed
func (db *DB) PurgeOlderThan(ctx context.Context, threshold time.Duration) (int64, error) {
	cutoff := db.now().Add(-threshold)
	query := `DELETE FROM mailboxes WHERE created_at < ?`
	result, err := db.ExecContext(ctx, query, cutoff.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to purge mailboxes: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return removed, nil
}

// GetStats returns the number of distinct owners and the total mailbox count
func (db *DB) GetStats(ctx context.Context) (Stats, error) {
	var stats Stats
	query := `SELECT COUNT(DISTINCT owner_id) AS owners, COUNT(*) AS mailboxes FROM mailboxes`
	if err := db.GetContext(ctx, &stats, query); err != nil {
		return Stats{}, fmt.Errorf("failed to get stats: %w", err)
	}
	return stats, nil
}

package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mixelka/tempmailbot/pkg/models"
)

// newTestDB creates an in-memory database with migrations applied
// and a controllable clock.
func newTestDB(t *testing.T) (*DB, *time.Time) {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("closing test db: %v", err)
		}
	})

	require.NoError(t, db.Migrate(context.Background()))

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	db.now = func() time.Time { return now }
	return db, &now
}

func put(t *testing.T, db *DB, owner int64, address, password, accountID string) {
	t.Helper()
	require.NoError(t, db.PutMailbox(context.Background(), &models.Mailbox{
		Address:           address,
		OwnerID:           owner,
		Password:          password,
		ProviderAccountID: accountID,
	}))
}

func TestPutAndGetMailbox(t *testing.T) {
	db, now := newTestDB(t)
	ctx := context.Background()

	put(t, db, 42, "alice@example.com", "secret", "acc-1")

	got, err := db.GetMailbox(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.OwnerID)
	assert.Equal(t, "secret", got.Password)
	assert.Equal(t, "acc-1", got.ProviderAccountID)
	assert.Equal(t, "alice@example.com", got.Address)
	assert.True(t, got.CreatedAt.Equal(*now))
}

func TestGetMailboxNotFound(t *testing.T) {
	db, _ := newTestDB(t)

	_, err := db.GetMailbox(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPutMailboxOverwrites(t *testing.T) {
	db, _ := newTestDB(t)
	ctx := context.Background()

	put(t, db, 1, "bob@example.com", "first", "acc-1")
	put(t, db, 2, "bob@example.com", "second", "acc-2")

	got, err := db.GetMailbox(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.OwnerID)
	assert.Equal(t, "second", got.Password)

	stats, err := db.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Mailboxes)

	first, err := db.GetMailboxesByOwner(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, first)
}

func TestGetMailboxesByOwner(t *testing.T) {
	db, _ := newTestDB(t)
	ctx := context.Background()

	put(t, db, 1, "c@example.com", "p", "a1")
	put(t, db, 2, "other@example.com", "p", "a2")
	put(t, db, 1, "a@example.com", "p", "a3")
	put(t, db, 1, "b@example.com", "p", "a4")

	mailboxes, err := db.GetMailboxesByOwner(ctx, 1)
	require.NoError(t, err)

	var addresses []string
	for _, m := range mailboxes {
		assert.Equal(t, int64(1), m.OwnerID)
		addresses = append(addresses, m.Address)
	}
	assert.Equal(t, []string{"c@example.com", "a@example.com", "b@example.com"}, addresses)

	none, err := db.GetMailboxesByOwner(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDeleteMailboxIsIdempotent(t *testing.T) {
	db, _ := newTestDB(t)
	ctx := context.Background()

	put(t, db, 1, "a@example.com", "p", "a1")
	put(t, db, 1, "b@example.com", "p", "a2")

	require.NoError(t, db.DeleteMailbox(ctx, "a@example.com"))
	require.NoError(t, db.DeleteMailbox(ctx, "a@example.com"))
	require.NoError(t, db.DeleteMailbox(ctx, "never@example.com"))

	_, err := db.GetMailbox(ctx, "a@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	stats, err := db.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Mailboxes)
}

func TestPurgeOlderThan(t *testing.T) {
	db, now := newTestDB(t)
	ctx := context.Background()
	start := *now

	put(t, db, 1, "old@example.com", "p", "a1")

	*now = start.Add(30 * time.Minute)
	put(t, db, 1, "edge@example.com", "p", "a2")

	*now = start.Add(90 * time.Minute)
	put(t, db, 2, "fresh@example.com", "p", "a3")

	// cutoff = start+30m: only rows strictly older are removed
	*now = start.Add(90 * time.Minute)
	removed, err := db.PurgeOlderThan(ctx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = db.GetMailbox(ctx, "old@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	for _, address := range []string{"edge@example.com", "fresh@example.com"} {
		_, err := db.GetMailbox(ctx, address)
		assert.NoError(t, err, address)
	}

	removed, err = db.PurgeOlderThan(ctx, time.Hour)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestGetStats(t *testing.T) {
	db, _ := newTestDB(t)
	ctx := context.Background()

	stats, err := db.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{}, stats)

	put(t, db, 1, "a@example.com", "p", "a1")
	put(t, db, 1, "b@example.com", "p", "a2")
	put(t, db, 2, "c@example.com", "p", "a3")

	stats, err = db.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{Owners: 2, Mailboxes: 3}, stats)
}

package database

// created_at holds unix nanoseconds; rowid order is insertion order.
const schema = `
CREATE TABLE IF NOT EXISTS mailboxes (
    address TEXT PRIMARY KEY,
    owner_id INTEGER NOT NULL,
    password TEXT NOT NULL,
    provider_account_id TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_mailboxes_owner ON mailboxes(owner_id);
CREATE INDEX IF NOT EXISTS idx_mailboxes_created ON mailboxes(created_at);
`

package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist. The CHECK constraints
// and composite keys are the second line of defense behind the
// validators in the ledger package.
const schema = `
CREATE TABLE IF NOT EXISTS accounts (
    id TEXT PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    first_name TEXT NOT NULL DEFAULT '',
    last_name TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS friend_groups (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS group_members (
    group_id TEXT NOT NULL,
    account_id TEXT NOT NULL,
    joined_at INTEGER NOT NULL,
    PRIMARY KEY (group_id, account_id),
    FOREIGN KEY (group_id) REFERENCES friend_groups(id),
    FOREIGN KEY (account_id) REFERENCES accounts(id)
);

CREATE TABLE IF NOT EXISTS group_invitations (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL,
    account_id TEXT NOT NULL,
    inviter_id TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'pending'
        CHECK (status IN ('pending', 'accepted', 'declined')),
    time_invited INTEGER NOT NULL,
    UNIQUE (group_id, account_id, time_invited, inviter_id),
    FOREIGN KEY (group_id) REFERENCES friend_groups(id),
    FOREIGN KEY (account_id) REFERENCES accounts(id),
    FOREIGN KEY (inviter_id) REFERENCES accounts(id)
);

CREATE TABLE IF NOT EXISTS bills (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    resolved INTEGER NOT NULL DEFAULT 0,
    time_resolved INTEGER,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (group_id) REFERENCES friend_groups(id)
);

CREATE TABLE IF NOT EXISTS payments (
    id TEXT PRIMARY KEY,
    bill_id TEXT NOT NULL,
    payer_id TEXT NOT NULL,
    amount INTEGER NOT NULL CHECK (amount > 0),
    description TEXT NOT NULL DEFAULT '',
    date INTEGER NOT NULL,
    FOREIGN KEY (bill_id) REFERENCES bills(id),
    FOREIGN KEY (payer_id) REFERENCES accounts(id)
);

CREATE TABLE IF NOT EXISTS debtor_shares (
    payment_id TEXT NOT NULL,
    account_id TEXT NOT NULL,
    amount_owed INTEGER NOT NULL CHECK (amount_owed > 0),
    PRIMARY KEY (payment_id, account_id),
    FOREIGN KEY (payment_id) REFERENCES payments(id),
    FOREIGN KEY (account_id) REFERENCES accounts(id)
);

CREATE TABLE IF NOT EXISTS settlements (
    id TEXT PRIMARY KEY,
    bill_id TEXT NOT NULL,
    payer_id TEXT NOT NULL,
    receiver_id TEXT NOT NULL,
    amount INTEGER NOT NULL CHECK (amount > 0),
    accepted INTEGER NOT NULL DEFAULT 0,
    time_accepted INTEGER,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (bill_id) REFERENCES bills(id),
    FOREIGN KEY (payer_id) REFERENCES accounts(id),
    FOREIGN KEY (receiver_id) REFERENCES accounts(id)
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_invitations_pending
    ON group_invitations(group_id, account_id) WHERE status = 'pending';
CREATE INDEX IF NOT EXISTS idx_invitations_group_id ON group_invitations(group_id);
CREATE INDEX IF NOT EXISTS idx_members_account_id ON group_members(account_id);
CREATE INDEX IF NOT EXISTS idx_bills_group_id ON bills(group_id);
CREATE INDEX IF NOT EXISTS idx_payments_bill_id ON payments(bill_id);
CREATE INDEX IF NOT EXISTS idx_shares_payment_id ON debtor_shares(payment_id);
CREATE INDEX IF NOT EXISTS idx_settlements_bill_id ON settlements(bill_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}

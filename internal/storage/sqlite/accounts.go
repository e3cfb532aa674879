package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"splitledger/internal/ledger"
	"splitledger/internal/models"
)

// CreateAccount inserts a new account into the database.
func (s *SQLiteStore) CreateAccount(ctx context.Context, account *models.Account) error {
	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if account.CreatedAt == 0 {
		account.CreatedAt = now
	}
	if account.UpdatedAt == 0 {
		account.UpdatedAt = now
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (id, username, password_hash, first_name, last_name, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		account.ID, account.Username, account.PasswordHash,
		account.FirstName, account.LastName, account.CreatedAt, account.UpdatedAt,
	)
	if isConstraint(err) {
		return ledger.Conflict("username", "username %s is taken", account.Username)
	}
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

// GetAccount retrieves an account by ID.
func (s *SQLiteStore) GetAccount(ctx context.Context, accountID string) (*models.Account, error) {
	return getAccount(ctx, s.db, accountID)
}

func getAccount(ctx context.Context, q querier, accountID string) (*models.Account, error) {
	account := &models.Account{}
	err := q.QueryRowContext(ctx,
		`SELECT id, username, password_hash, first_name, last_name, created_at, updated_at
		 FROM accounts WHERE id = ?`,
		accountID,
	).Scan(&account.ID, &account.Username, &account.PasswordHash,
		&account.FirstName, &account.LastName, &account.CreatedAt, &account.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ledger.NotFound("account_id", "account %s does not exist", accountID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

// GetAccountByUsername retrieves an account by its unique username.
func (s *SQLiteStore) GetAccountByUsername(ctx context.Context, username string) (*models.Account, error) {
	account := &models.Account{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, first_name, last_name, created_at, updated_at
		 FROM accounts WHERE username = ?`,
		username,
	).Scan(&account.ID, &account.Username, &account.PasswordHash,
		&account.FirstName, &account.LastName, &account.CreatedAt, &account.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ledger.NotFound("username", "account %s does not exist", username)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account by username: %w", err)
	}
	return account, nil
}

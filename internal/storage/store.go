// Package storage provides abstractions for persistent ledger storage.
package storage

import (
	"context"

	"splitledger/internal/ledger"
	"splitledger/internal/models"
)

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
//
// Reference failures are reported as ledger errors: KindNotFound for
// unknown ids, KindConflict for uniqueness or composite-key violations.
// Multi-row writes (a payment with its shares, invitation acceptance
// with its membership row, settlement acceptance with the bill
// resolution check) are atomic: either all rows commit or none do.
type Store interface {
	// CreateAccount persists a new account, assigning its ID.
	// Fails with Conflict when the username is taken.
	CreateAccount(ctx context.Context, account *models.Account) error

	// GetAccount retrieves an account by id.
	GetAccount(ctx context.Context, accountID string) (*models.Account, error)

	// GetAccountByUsername retrieves an account by its unique username.
	GetAccountByUsername(ctx context.Context, username string) (*models.Account, error)

	// CreateGroup persists a new friend group with the creator as its
	// first member, atomically, assigning the group ID. Fails with
	// NotFound when the creator is unknown.
	CreateGroup(ctx context.Context, group *models.FriendGroup, creatorID string) error

	// GetGroup retrieves a group by id.
	GetGroup(ctx context.Context, groupID string) (*models.FriendGroup, error)

	// ListGroupsByAccount retrieves the groups an account belongs to.
	ListGroupsByAccount(ctx context.Context, accountID string) ([]models.FriendGroup, error)

	// AddMember inserts a membership row. Fails with Conflict when the
	// account is already a member, NotFound when group or account are
	// unknown.
	AddMember(ctx context.Context, member *models.GroupMember) error

	// ListMembers retrieves a group's membership rows.
	ListMembers(ctx context.Context, groupID string) ([]models.GroupMember, error)

	// CreateInvitation persists a new invitation, assigning its ID.
	// Fails with Conflict when a pending invitation already exists for
	// the (group, account) pair.
	CreateInvitation(ctx context.Context, inv *models.GroupInvitation) error

	// GetInvitation retrieves an invitation by id.
	GetInvitation(ctx context.Context, invitationID string) (*models.GroupInvitation, error)

	// ListInvitationsByGroup retrieves a group's invitation history,
	// newest first.
	ListInvitationsByGroup(ctx context.Context, groupID string) ([]models.GroupInvitation, error)

	// PendingInvitation returns the pending invitation for the
	// (group, account) pair, or nil when none exists.
	PendingInvitation(ctx context.Context, groupID, accountID string) (*models.GroupInvitation, error)

	// AcceptInvitation atomically marks the invitation accepted and
	// inserts the membership row. Fails with InvalidTransition when the
	// invitation is not pending.
	AcceptInvitation(ctx context.Context, invitationID string) error

	// DeclineInvitation marks the invitation declined. Fails with
	// InvalidTransition when the invitation is not pending.
	DeclineInvitation(ctx context.Context, invitationID string) error

	// CreateBill persists a new open bill, assigning its ID.
	CreateBill(ctx context.Context, bill *models.Bill) error

	// GetBill retrieves a bill by id.
	GetBill(ctx context.Context, billID string) (*models.Bill, error)

	// ListBillsByGroup retrieves a group's bills, newest first.
	ListBillsByGroup(ctx context.Context, groupID string) ([]models.Bill, error)

	// RecordPayment atomically persists a payment and its debtor
	// shares, re-validating the split against the bill's group
	// membership inside the transaction.
	RecordPayment(ctx context.Context, payment *models.Payment, shares map[string]int64) error

	// ListPaymentsByBill retrieves a bill's payments.
	ListPaymentsByBill(ctx context.Context, billID string) ([]models.Payment, error)

	// RecordSettlement persists a pending settlement, re-validating the
	// outstanding debt inside the write transaction.
	RecordSettlement(ctx context.Context, settlement *models.Settlement) error

	// GetSettlement retrieves a settlement by id.
	GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)

	// ListSettlementsByBill retrieves a bill's settlements.
	ListSettlementsByBill(ctx context.Context, billID string) ([]models.Settlement, error)

	// AcceptSettlement atomically marks the settlement accepted, after
	// re-checking the outstanding debt in the same transaction, and
	// flips the bill to resolved when every share is now covered.
	// Returns the accepted settlement. Fails with InvalidTransition on
	// an already-accepted settlement, Overpayment when a concurrent
	// acceptance consumed the debt first.
	AcceptSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)

	// BillLedger assembles the read-only snapshot of one bill.
	BillLedger(ctx context.Context, billID string) (*ledger.BillSnapshot, error)

	// GroupLedger assembles the read-only snapshot of a group's full
	// ledger state.
	GroupLedger(ctx context.Context, groupID string) (*ledger.GroupSnapshot, error)

	// Close releases any resources held by the store.
	Close() error
}

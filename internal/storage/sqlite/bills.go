package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"splitledger/internal/ledger"
	"splitledger/internal/models"
)

// CreateBill inserts a new open bill into the database.
func (s *SQLiteStore) CreateBill(ctx context.Context, bill *models.Bill) error {
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	if bill.CreatedAt == 0 {
		bill.CreatedAt = time.Now().Unix()
	}

	if _, err := s.GetGroup(ctx, bill.GroupID); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO bills (id, group_id, description, resolved, created_at) VALUES (?, ?, ?, 0, ?)",
		bill.ID, bill.GroupID, bill.Description, bill.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bill: %w", err)
	}
	return nil
}

// GetBill retrieves a bill by ID.
func (s *SQLiteStore) GetBill(ctx context.Context, billID string) (*models.Bill, error) {
	return getBill(ctx, s.db, billID)
}

func getBill(ctx context.Context, q querier, billID string) (*models.Bill, error) {
	bill := &models.Bill{}
	var timeResolved sql.NullInt64
	err := q.QueryRowContext(ctx,
		"SELECT id, group_id, description, resolved, time_resolved, created_at FROM bills WHERE id = ?",
		billID,
	).Scan(&bill.ID, &bill.GroupID, &bill.Description, &bill.Resolved, &timeResolved, &bill.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ledger.NotFound("bill_id", "bill %s does not exist", billID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	if timeResolved.Valid {
		bill.TimeResolved = timeResolved.Int64
	}
	return bill, nil
}

// ListBillsByGroup retrieves a group's bills, newest first.
func (s *SQLiteStore) ListBillsByGroup(ctx context.Context, groupID string) ([]models.Bill, error) {
	return listBills(ctx, s.db, groupID)
}

func listBills(ctx context.Context, q querier, groupID string) ([]models.Bill, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, group_id, description, resolved, time_resolved, created_at
		 FROM bills WHERE group_id = ? ORDER BY created_at DESC`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	var bills []models.Bill
	for rows.Next() {
		var bill models.Bill
		var timeResolved sql.NullInt64
		if err := rows.Scan(&bill.ID, &bill.GroupID, &bill.Description, &bill.Resolved, &timeResolved, &bill.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		if timeResolved.Valid {
			bill.TimeResolved = timeResolved.Int64
		}
		bills = append(bills, bill)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills: %w", err)
	}
	return bills, nil
}

// RecordPayment persists a payment and its debtor shares in one
// transaction, re-running the split validation against the bill's
// current membership inside that transaction.
func (s *SQLiteStore) RecordPayment(ctx context.Context, payment *models.Payment, shares map[string]int64) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if payment.Date == 0 {
		payment.Date = time.Now().Unix()
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		bill, err := getBill(ctx, tx, payment.BillID)
		if err != nil {
			return err
		}

		members, err := listMembers(ctx, tx, bill.GroupID)
		if err != nil {
			return err
		}
		memberIDs := accountIDs(members)
		if !slices.Contains(memberIDs, payment.PayerID) {
			return ledger.InvalidParty("payer_id", "account %s is not a member of group %s", payment.PayerID, bill.GroupID)
		}
		if err := ledger.ValidateSplit(payment.Amount, shares, memberIDs); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			"INSERT INTO payments (id, bill_id, payer_id, amount, description, date) VALUES (?, ?, ?, ?, ?, ?)",
			payment.ID, payment.BillID, payment.PayerID, payment.Amount, payment.Description, payment.Date,
		)
		if err != nil {
			return fmt.Errorf("failed to insert payment: %w", err)
		}

		for accountID, owed := range shares {
			_, err = tx.ExecContext(ctx,
				"INSERT INTO debtor_shares (payment_id, account_id, amount_owed) VALUES (?, ?, ?)",
				payment.ID, accountID, owed,
			)
			if isConstraint(err) {
				return ledger.Conflict("shares", "duplicate share for account %s", accountID)
			}
			if err != nil {
				return fmt.Errorf("failed to insert debtor share: %w", err)
			}
		}
		return nil
	})
}

// ListPaymentsByBill retrieves a bill's payments.
func (s *SQLiteStore) ListPaymentsByBill(ctx context.Context, billID string) ([]models.Payment, error) {
	return listPayments(ctx, s.db, billID)
}

func listPayments(ctx context.Context, q querier, billID string) ([]models.Payment, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, bill_id, payer_id, amount, description, date
		 FROM payments WHERE bill_id = ? ORDER BY date`,
		billID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.BillID, &p.PayerID, &p.Amount, &p.Description, &p.Date); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}
	return payments, nil
}

// RecordSettlement persists a pending settlement after validating it
// against the bill ledger inside the write transaction.
func (s *SQLiteStore) RecordSettlement(ctx context.Context, settlement *models.Settlement) error {
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = time.Now().Unix()
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		snapshot, err := billLedger(ctx, tx, settlement.BillID)
		if err != nil {
			return err
		}
		members, err := listMembers(ctx, tx, snapshot.Bill.GroupID)
		if err != nil {
			return err
		}
		if err := ledger.ValidateSettlement(*snapshot, settlement.PayerID, settlement.ReceiverID,
			settlement.Amount, accountIDs(members)); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO settlements (id, bill_id, payer_id, receiver_id, amount, accepted, created_at)
			 VALUES (?, ?, ?, ?, ?, 0, ?)`,
			settlement.ID, settlement.BillID, settlement.PayerID, settlement.ReceiverID,
			settlement.Amount, settlement.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert settlement: %w", err)
		}
		return nil
	})
}

// GetSettlement retrieves a settlement by ID.
func (s *SQLiteStore) GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error) {
	return getSettlement(ctx, s.db, settlementID)
}

func getSettlement(ctx context.Context, q querier, settlementID string) (*models.Settlement, error) {
	settlement := &models.Settlement{}
	var timeAccepted sql.NullInt64
	err := q.QueryRowContext(ctx,
		`SELECT id, bill_id, payer_id, receiver_id, amount, accepted, time_accepted, created_at
		 FROM settlements WHERE id = ?`,
		settlementID,
	).Scan(&settlement.ID, &settlement.BillID, &settlement.PayerID, &settlement.ReceiverID,
		&settlement.Amount, &settlement.Accepted, &timeAccepted, &settlement.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ledger.NotFound("settlement_id", "settlement %s does not exist", settlementID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}
	if timeAccepted.Valid {
		settlement.TimeAccepted = timeAccepted.Int64
	}
	return settlement, nil
}

// ListSettlementsByBill retrieves a bill's settlements.
func (s *SQLiteStore) ListSettlementsByBill(ctx context.Context, billID string) ([]models.Settlement, error) {
	return listSettlements(ctx, s.db, billID)
}

func listSettlements(ctx context.Context, q querier, billID string) ([]models.Settlement, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, bill_id, payer_id, receiver_id, amount, accepted, time_accepted, created_at
		 FROM settlements WHERE bill_id = ? ORDER BY created_at`,
		billID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []models.Settlement
	for rows.Next() {
		var st models.Settlement
		var timeAccepted sql.NullInt64
		if err := rows.Scan(&st.ID, &st.BillID, &st.PayerID, &st.ReceiverID,
			&st.Amount, &st.Accepted, &timeAccepted, &st.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		if timeAccepted.Valid {
			st.TimeAccepted = timeAccepted.Int64
		}
		settlements = append(settlements, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}
	return settlements, nil
}

// AcceptSettlement marks a pending settlement accepted and, when that
// acceptance covers the last outstanding share, flips the bill to
// resolved. The outstanding-debt check runs on a snapshot read inside
// this transaction, never on a stale pre-transaction read, so two
// concurrent acceptances cannot jointly overpay a debt.
func (s *SQLiteStore) AcceptSettlement(ctx context.Context, settlementID string) (*models.Settlement, error) {
	var accepted *models.Settlement
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		settlement, err := getSettlement(ctx, tx, settlementID)
		if err != nil {
			return err
		}
		if settlement.Accepted {
			return ledger.InvalidTransition("accepted", "settlement %s is already accepted", settlementID)
		}

		snapshot, err := billLedger(ctx, tx, settlement.BillID)
		if err != nil {
			return err
		}
		outstanding := ledger.OutstandingDebt(*snapshot, settlement.PayerID, settlement.ReceiverID)
		if settlement.Amount > outstanding {
			return ledger.Overpayment(settlement.Amount,
				"settlement of %d exceeds outstanding debt of %d", settlement.Amount, outstanding)
		}

		now := time.Now().Unix()
		if _, err := tx.ExecContext(ctx,
			"UPDATE settlements SET accepted = 1, time_accepted = ? WHERE id = ?",
			now, settlementID,
		); err != nil {
			return fmt.Errorf("failed to accept settlement: %w", err)
		}
		settlement.Accepted = true
		settlement.TimeAccepted = now

		// Re-read the bill ledger with the acceptance applied to drive
		// the resolution transition.
		snapshot, err = billLedger(ctx, tx, settlement.BillID)
		if err != nil {
			return err
		}
		if !snapshot.Bill.Resolved && ledger.BillFullySettled(*snapshot) {
			if _, err := tx.ExecContext(ctx,
				"UPDATE bills SET resolved = 1, time_resolved = ? WHERE id = ? AND resolved = 0",
				now, settlement.BillID,
			); err != nil {
				return fmt.Errorf("failed to resolve bill: %w", err)
			}
		}

		accepted = settlement
		return nil
	})
	if err != nil {
		return nil, err
	}
	return accepted, nil
}

// BillLedger assembles the read-only snapshot of one bill. The reads
// share a transaction so writers committing mid-assembly cannot tear
// the snapshot.
func (s *SQLiteStore) BillLedger(ctx context.Context, billID string) (*ledger.BillSnapshot, error) {
	var snapshot *ledger.BillSnapshot
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		snapshot, err = billLedger(ctx, tx, billID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

func billLedger(ctx context.Context, q querier, billID string) (*ledger.BillSnapshot, error) {
	bill, err := getBill(ctx, q, billID)
	if err != nil {
		return nil, err
	}

	payments, err := listPayments(ctx, q, billID)
	if err != nil {
		return nil, err
	}

	shares, err := listShares(ctx, q, billID)
	if err != nil {
		return nil, err
	}

	settlements, err := listSettlements(ctx, q, billID)
	if err != nil {
		return nil, err
	}

	return &ledger.BillSnapshot{
		Bill:        *bill,
		Payments:    payments,
		Shares:      shares,
		Settlements: settlements,
	}, nil
}

func listShares(ctx context.Context, q querier, billID string) ([]models.DebtorShare, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT ds.payment_id, ds.account_id, ds.amount_owed
		 FROM debtor_shares ds
		 JOIN payments p ON p.id = ds.payment_id
		 WHERE p.bill_id = ?`,
		billID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list debtor shares: %w", err)
	}
	defer rows.Close()

	var shares []models.DebtorShare
	for rows.Next() {
		var share models.DebtorShare
		if err := rows.Scan(&share.PaymentID, &share.AccountID, &share.AmountOwed); err != nil {
			return nil, fmt.Errorf("failed to scan debtor share: %w", err)
		}
		shares = append(shares, share)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate debtor shares: %w", err)
	}
	return shares, nil
}

// GroupLedger assembles the read-only snapshot of a group's full ledger
// state, reading every bill inside one transaction.
func (s *SQLiteStore) GroupLedger(ctx context.Context, groupID string) (*ledger.GroupSnapshot, error) {
	var snapshot *ledger.GroupSnapshot
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		snapshot, err = groupLedger(ctx, tx, groupID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

func groupLedger(ctx context.Context, q querier, groupID string) (*ledger.GroupSnapshot, error) {
	group, err := getGroup(ctx, q, groupID)
	if err != nil {
		return nil, err
	}

	members, err := listMembers(ctx, q, groupID)
	if err != nil {
		return nil, err
	}

	bills, err := listBills(ctx, q, groupID)
	if err != nil {
		return nil, err
	}

	snapshot := &ledger.GroupSnapshot{
		Group:     *group,
		MemberIDs: accountIDs(members),
	}
	for _, bill := range bills {
		billSnap, err := billLedger(ctx, q, bill.ID)
		if err != nil {
			return nil, err
		}
		snapshot.Bills = append(snapshot.Bills, *billSnap)
	}
	return snapshot, nil
}

func accountIDs(members []models.GroupMember) []string {
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.AccountID
	}
	return ids
}


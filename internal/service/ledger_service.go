package service

import (
	"context"
	"log/slog"
	"slices"

	"splitledger/internal/ledger"
	"splitledger/internal/models"
	"splitledger/internal/storage"
)

// LedgerService governs bills, payments, settlements, and group
// balances. All money amounts are integer minor units.
type LedgerService struct {
	store storage.Store
}

// NewLedgerService creates a new LedgerService with the given storage backend.
func NewLedgerService(store storage.Store) *LedgerService {
	return &LedgerService{store: store}
}

// GroupBalances is the derived financial state of one group: per-member
// net positions and the simplified transfer plan that would zero them.
type GroupBalances struct {
	GroupID    string            `json:"group_id"`
	Balances   map[string]int64  `json:"balances"`
	Transfers  []ledger.DebtEdge `json:"transfers"`
	TotalSpent int64             `json:"total_spent"`
}

// CreateBill opens a new bill in a group. The caller must be a member.
func (s *LedgerService) CreateBill(ctx context.Context, groupID, description, callerID string) (*models.Bill, error) {
	slog.Info("CreateBill request", "group_id", groupID, "caller_id", callerID)

	if err := s.requireMember(ctx, groupID, callerID); err != nil {
		return nil, err
	}

	bill := &models.Bill{GroupID: groupID, Description: description}
	if err := s.store.CreateBill(ctx, bill); err != nil {
		slog.Error("CreateBill failed", "group_id", groupID, "error", err)
		return nil, err
	}

	slog.Info("Bill created", "bill_id", bill.ID)
	return bill, nil
}

// GetBill retrieves a bill together with its payments, shares, and
// settlements. The caller must be a member of the bill's group.
func (s *LedgerService) GetBill(ctx context.Context, billID, callerID string) (*ledger.BillSnapshot, error) {
	snap, err := s.store.BillLedger(ctx, billID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, snap.Bill.GroupID, callerID); err != nil {
		return nil, err
	}
	return snap, nil
}

// ListBills retrieves a group's bills. The caller must be a member.
func (s *LedgerService) ListBills(ctx context.Context, groupID, callerID string) ([]models.Bill, error) {
	if err := s.requireMember(ctx, groupID, callerID); err != nil {
		return nil, err
	}
	return s.store.ListBillsByGroup(ctx, groupID)
}

// ListPayments retrieves a bill's payments. The caller must be a
// member of the bill's group.
func (s *LedgerService) ListPayments(ctx context.Context, billID, callerID string) ([]models.Payment, error) {
	bill, err := s.store.GetBill(ctx, billID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, bill.GroupID, callerID); err != nil {
		return nil, err
	}
	return s.store.ListPaymentsByBill(ctx, billID)
}

// ListSettlements retrieves a bill's settlements. The caller must be a
// member of the bill's group.
func (s *LedgerService) ListSettlements(ctx context.Context, billID, callerID string) ([]models.Settlement, error) {
	bill, err := s.store.GetBill(ctx, billID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, bill.GroupID, callerID); err != nil {
		return nil, err
	}
	return s.store.ListSettlementsByBill(ctx, billID)
}

// RecordPayment attaches a payment and its debtor shares to a bill.
// The payer must be the caller and a group member, and the shares must
// sum exactly to the payment amount over group members only. Validation
// runs here first, then again inside the store's write transaction.
func (s *LedgerService) RecordPayment(ctx context.Context, billID, callerID string, amount int64, description string, shares map[string]int64) (*models.Payment, error) {
	slog.Info("RecordPayment request", "bill_id", billID, "payer_id", callerID, "amount", amount)

	snap, err := s.store.BillLedger(ctx, billID)
	if err != nil {
		return nil, err
	}
	members, err := s.store.ListMembers(ctx, snap.Bill.GroupID)
	if err != nil {
		return nil, err
	}
	memberIDs := memberAccountIDs(members)

	if !slices.Contains(memberIDs, callerID) {
		return nil, ledger.InvalidParty("payer_id", "payer %s is not a member of group %s", callerID, snap.Bill.GroupID)
	}
	if err := ledger.ValidateSplit(amount, shares, memberIDs); err != nil {
		slog.Warn("RecordPayment rejected", "bill_id", billID, "error", err)
		return nil, err
	}

	payment := &models.Payment{
		BillID:      billID,
		PayerID:     callerID,
		Amount:      amount,
		Description: description,
	}
	if err := s.store.RecordPayment(ctx, payment, shares); err != nil {
		slog.Error("RecordPayment failed", "bill_id", billID, "error", err)
		return nil, err
	}

	slog.Info("Payment recorded", "payment_id", payment.ID, "amount", amount)
	return payment, nil
}

// RecordSettlement records a pending settlement from the caller toward
// a payer on a bill. The amount must not exceed the caller's
// outstanding debt to the receiver on that bill.
func (s *LedgerService) RecordSettlement(ctx context.Context, billID, callerID, receiverID string, amount int64) (*models.Settlement, error) {
	slog.Info("RecordSettlement request", "bill_id", billID, "payer_id", callerID, "receiver_id", receiverID, "amount", amount)

	snap, err := s.store.BillLedger(ctx, billID)
	if err != nil {
		return nil, err
	}
	members, err := s.store.ListMembers(ctx, snap.Bill.GroupID)
	if err != nil {
		return nil, err
	}

	if err := ledger.ValidateSettlement(*snap, callerID, receiverID, amount, memberAccountIDs(members)); err != nil {
		slog.Warn("RecordSettlement rejected", "bill_id", billID, "error", err)
		return nil, err
	}

	settlement := &models.Settlement{
		BillID:     billID,
		PayerID:    callerID,
		ReceiverID: receiverID,
		Amount:     amount,
	}
	if err := s.store.RecordSettlement(ctx, settlement); err != nil {
		slog.Error("RecordSettlement failed", "bill_id", billID, "error", err)
		return nil, err
	}

	slog.Info("Settlement recorded", "settlement_id", settlement.ID, "amount", amount)
	return settlement, nil
}

// AcceptSettlement accepts a pending settlement. Only the receiver may
// accept; the outstanding debt is re-checked inside the store
// transaction, and the bill flips to resolved when fully covered.
func (s *LedgerService) AcceptSettlement(ctx context.Context, settlementID, callerID string) (*models.Settlement, error) {
	slog.Info("AcceptSettlement request", "settlement_id", settlementID, "caller_id", callerID)

	settlement, err := s.store.GetSettlement(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if settlement.ReceiverID != callerID {
		return nil, ledger.InvalidParty("receiver_id", "only the receiver may accept settlement %s", settlementID)
	}

	accepted, err := s.store.AcceptSettlement(ctx, settlementID)
	if err != nil {
		slog.Warn("AcceptSettlement failed", "settlement_id", settlementID, "error", err)
		return nil, err
	}

	slog.Info("Settlement accepted", "settlement_id", accepted.ID, "amount", accepted.Amount)
	return accepted, nil
}

// Balances computes the group's net member balances and a simplified
// transfer plan from its full ledger snapshot. The caller must be a
// member.
func (s *LedgerService) Balances(ctx context.Context, groupID, callerID string) (*GroupBalances, error) {
	snap, err := s.store.GroupLedger(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(snap.MemberIDs, callerID) {
		return nil, ledger.InvalidParty("caller_id", "account %s is not a member of group %s", callerID, groupID)
	}

	balances := ledger.Balances(*snap)

	var total int64
	for _, bill := range snap.Bills {
		for _, p := range bill.Payments {
			total += p.Amount
		}
	}

	return &GroupBalances{
		GroupID:    groupID,
		Balances:   balances,
		Transfers:  ledger.SimplifyDebts(balances),
		TotalSpent: total,
	}, nil
}

func (s *LedgerService) requireMember(ctx context.Context, groupID, accountID string) error {
	members, err := s.store.ListMembers(ctx, groupID)
	if err != nil {
		return err
	}
	if !slices.Contains(memberAccountIDs(members), accountID) {
		return ledger.InvalidParty("caller_id", "account %s is not a member of group %s", accountID, groupID)
	}
	return nil
}

func memberAccountIDs(members []models.GroupMember) []string {
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.AccountID
	}
	return ids
}

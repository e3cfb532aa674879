// Package ledger computes balances and validates mutations over
// immutable snapshots of a group's recorded payments and settlements.
//
// Every function in this package is pure: it reads a snapshot, never
// the store, and performs commutative integer aggregation, so results
// are independent of row ordering. The storage layer assembles
// snapshots (optionally inside a transaction) and re-runs the same
// validations before committing, which is what keeps concurrent
// settlements from jointly overpaying a debt.
package ledger

import "splitledger/internal/models"

// BillSnapshot is a read-only view of one bill's ledger rows.
type BillSnapshot struct {
	Bill        models.Bill          `json:"bill"`
	Payments    []models.Payment     `json:"payments"`
	Shares      []models.DebtorShare `json:"shares"`
	Settlements []models.Settlement  `json:"settlements"`
}

// GroupSnapshot is a read-only view of a group's full ledger state.
type GroupSnapshot struct {
	Group     models.FriendGroup `json:"group"`
	MemberIDs []string           `json:"member_ids"`
	Bills     []BillSnapshot     `json:"bills"`
}

// payerByPayment maps payment id to the payer account id.
func (b BillSnapshot) payerByPayment() map[string]string {
	payers := make(map[string]string, len(b.Payments))
	for _, p := range b.Payments {
		payers[p.ID] = p.PayerID
	}
	return payers
}

// owedByPair sums debtor shares per (debtor, payer) pair, excluding
// shares a payer carries on their own payments (those are self-covered).
func (b BillSnapshot) owedByPair() map[[2]string]int64 {
	payers := b.payerByPayment()
	owed := make(map[[2]string]int64)
	for _, share := range b.Shares {
		payer, ok := payers[share.PaymentID]
		if !ok || share.AccountID == payer {
			continue
		}
		owed[[2]string{share.AccountID, payer}] += share.AmountOwed
	}
	return owed
}

// settledByPair sums accepted settlements per (payer, receiver) pair.
func (b BillSnapshot) settledByPair() map[[2]string]int64 {
	settled := make(map[[2]string]int64)
	for _, s := range b.Settlements {
		if !s.Accepted {
			continue
		}
		settled[[2]string{s.PayerID, s.ReceiverID}] += s.Amount
	}
	return settled
}

func memberSet(memberIDs []string) map[string]struct{} {
	set := make(map[string]struct{}, len(memberIDs))
	for _, id := range memberIDs {
		set[id] = struct{}{}
	}
	return set
}

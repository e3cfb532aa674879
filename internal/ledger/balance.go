package ledger

import "sort"

// DebtEdge is a suggested transfer from one account to another.
type DebtEdge struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

// Balances derives each member's net position within the group:
// positive means the member is owed money, negative means they owe.
//
//	balance = payments made - shares owed
//	        + accepted settlements received - accepted settlements paid
//
// The sum over all members is always zero: every payment's shares equal
// the payment amount, and every settlement moves the same amount between
// two balances.
func Balances(g GroupSnapshot) map[string]int64 {
	balances := make(map[string]int64, len(g.MemberIDs))
	for _, id := range g.MemberIDs {
		balances[id] = 0
	}

	for _, bill := range g.Bills {
		for _, p := range bill.Payments {
			balances[p.PayerID] += p.Amount
		}
		for _, share := range bill.Shares {
			balances[share.AccountID] -= share.AmountOwed
		}
		for _, s := range bill.Settlements {
			if !s.Accepted {
				continue
			}
			balances[s.PayerID] += s.Amount
			balances[s.ReceiverID] -= s.Amount
		}
	}

	return balances
}

// OutstandingDebt computes what debtor still owes receiver on the bill:
// debtor's shares on payments the receiver made, minus accepted
// settlements already paid from debtor to receiver. Settlements pool at
// the (debtor, receiver) level because they reference the bill, not an
// individual payment.
func OutstandingDebt(b BillSnapshot, debtor, receiver string) int64 {
	pair := [2]string{debtor, receiver}
	return b.owedByPair()[pair] - b.settledByPair()[pair]
}

// BillFullySettled reports whether every debtor share under the bill is
// covered by accepted settlements. A bill with no payments has nothing
// outstanding and counts as settled.
func BillFullySettled(b BillSnapshot) bool {
	settled := b.settledByPair()
	for pair, owed := range b.owedByPair() {
		if settled[pair] < owed {
			return false
		}
	}
	return true
}

// SimplifyDebts reduces a set of net balances to a short list of
// transfers that would zero them out, matching debtors against
// creditors greedily. Account ids are sorted first so the result is
// deterministic for a given balance map.
func SimplifyDebts(balances map[string]int64) []DebtEdge {
	ids := make([]string, 0, len(balances))
	for id := range balances {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	type position struct {
		id     string
		amount int64
	}
	var debtors, creditors []position
	for _, id := range ids {
		switch bal := balances[id]; {
		case bal < 0:
			debtors = append(debtors, position{id, -bal})
		case bal > 0:
			creditors = append(creditors, position{id, bal})
		}
	}

	var edges []DebtEdge
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := debtors[i].amount
		if creditors[j].amount < amount {
			amount = creditors[j].amount
		}

		edges = append(edges, DebtEdge{
			From:   debtors[i].id,
			To:     creditors[j].id,
			Amount: amount,
		})

		debtors[i].amount -= amount
		creditors[j].amount -= amount
		if debtors[i].amount == 0 {
			i++
		}
		if creditors[j].amount == 0 {
			j++
		}
	}

	return edges
}

package ledger

// ValidateSplit checks a proposed payment split before anything is
// written: the total must be positive, every share positive, every
// debtor a current group member, and the shares must sum exactly to the
// payment amount.
func ValidateSplit(total int64, shares map[string]int64, memberIDs []string) error {
	if total <= 0 {
		return InvalidSplit("amount", total, "payment amount must be positive")
	}
	if len(shares) == 0 {
		return InvalidSplit("shares", total, "payment requires at least one debtor share")
	}

	members := memberSet(memberIDs)
	var sum int64
	for accountID, owed := range shares {
		if owed <= 0 {
			return InvalidSplit("shares", owed, "share for account %s must be positive", accountID)
		}
		if _, ok := members[accountID]; !ok {
			return InvalidParty("shares", "account %s is not a member of the bill's group", accountID)
		}
		sum += owed
	}
	if sum != total {
		return InvalidSplit("shares", sum, "shares sum to %d, payment amount is %d", sum, total)
	}
	return nil
}

// ValidateSettlement checks a proposed settlement against the bill
// snapshot it would be recorded on. Pending settlements do not reserve
// debt: only accepted ones reduce the outstanding figure, so the same
// check runs again inside the acceptance transaction.
func ValidateSettlement(b BillSnapshot, payer, receiver string, amount int64, memberIDs []string) error {
	members := memberSet(memberIDs)
	if _, ok := members[payer]; !ok {
		return InvalidParty("payer_id", "account %s is not a member of the bill's group", payer)
	}
	if _, ok := members[receiver]; !ok {
		return InvalidParty("receiver_id", "account %s is not a member of the bill's group", receiver)
	}
	if payer == receiver {
		return InvalidParty("receiver_id", "payer and receiver must differ")
	}
	if amount <= 0 {
		return InvalidSplit("amount", amount, "settlement amount must be positive")
	}

	outstanding := OutstandingDebt(b, payer, receiver)
	if amount > outstanding {
		return Overpayment(amount, "settlement of %d exceeds outstanding debt of %d", amount, outstanding)
	}
	return nil
}

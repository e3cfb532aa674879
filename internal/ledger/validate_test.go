package ledger

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"splitledger/internal/models"
)

func TestValidateSplit(t *testing.T) {
	members := []string{"A", "B", "C"}

	tests := []struct {
		name     string
		total    int64
		shares   map[string]int64
		wantKind Kind
	}{
		{
			name:   "exact split",
			total:  100,
			shares: map[string]int64{"A": 50, "B": 50},
		},
		{
			name:   "single debtor",
			total:  100,
			shares: map[string]int64{"B": 100},
		},
		{
			name:     "shares undershoot total",
			total:    100,
			shares:   map[string]int64{"A": 40, "B": 50},
			wantKind: KindInvalidSplit,
		},
		{
			name:     "shares overshoot total",
			total:    100,
			shares:   map[string]int64{"A": 60, "B": 50},
			wantKind: KindInvalidSplit,
		},
		{
			name:     "zero share",
			total:    50,
			shares:   map[string]int64{"A": 50, "B": 0},
			wantKind: KindInvalidSplit,
		},
		{
			name:     "negative share",
			total:    40,
			shares:   map[string]int64{"A": 50, "B": -10},
			wantKind: KindInvalidSplit,
		},
		{
			name:     "non-member debtor",
			total:    100,
			shares:   map[string]int64{"A": 50, "X": 50},
			wantKind: KindInvalidParty,
		},
		{
			name:     "zero total",
			total:    0,
			shares:   map[string]int64{"A": 0},
			wantKind: KindInvalidSplit,
		},
		{
			name:     "no shares",
			total:    100,
			shares:   map[string]int64{},
			wantKind: KindInvalidSplit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSplit(tt.total, tt.shares, members)
			if tt.wantKind == "" {
				if err != nil {
					t.Errorf("ValidateSplit() = %v, want nil", err)
				}
				return
			}
			if got := KindOf(err); got != tt.wantKind {
				t.Errorf("ValidateSplit() kind = %q, want %q (err: %v)", got, tt.wantKind, err)
			}
		})
	}
}

// TestValidateSplit_GeneratedSplits checks the sum invariant over
// randomly generated valid splits: any positive partition of the total
// must validate, and perturbing one share must not.
func TestValidateSplit_GeneratedSplits(t *testing.T) {
	members := []string{"A", "B", "C", "D", "E"}
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 100; i++ {
		n := 1 + rng.Intn(len(members))
		shares := make(map[string]int64, n)
		var total int64
		for _, id := range members[:n] {
			owed := int64(1 + rng.Intn(10_000))
			shares[id] = owed
			total += owed
		}

		if err := ValidateSplit(total, shares, members); err != nil {
			t.Fatalf("generated split rejected: total=%d shares=%v err=%v", total, shares, err)
		}
		if err := ValidateSplit(total+1, shares, members); KindOf(err) != KindInvalidSplit {
			t.Fatalf("perturbed total accepted: total=%d shares=%v", total+1, shares)
		}
	}
}

func TestValidateSettlement(t *testing.T) {
	members := []string{"A", "B"}
	bill := twoMemberBill(
		models.Settlement{ID: "set-1", PayerID: "B", ReceiverID: "A", Amount: 20, Accepted: true},
	)
	// B still owes A 30 on this bill.

	tests := []struct {
		name     string
		payer    string
		receiver string
		amount   int64
		wantKind Kind
	}{
		{name: "exact outstanding", payer: "B", receiver: "A", amount: 30},
		{name: "partial settlement", payer: "B", receiver: "A", amount: 10},
		{name: "exceeds outstanding", payer: "B", receiver: "A", amount: 31, wantKind: KindOverpayment},
		{name: "no debt in reverse direction", payer: "A", receiver: "B", amount: 1, wantKind: KindOverpayment},
		{name: "non-member payer", payer: "X", receiver: "A", amount: 10, wantKind: KindInvalidParty},
		{name: "non-member receiver", payer: "B", receiver: "X", amount: 10, wantKind: KindInvalidParty},
		{name: "self settlement", payer: "B", receiver: "B", amount: 10, wantKind: KindInvalidParty},
		{name: "zero amount", payer: "B", receiver: "A", amount: 0, wantKind: KindInvalidSplit},
		{name: "negative amount", payer: "B", receiver: "A", amount: -5, wantKind: KindInvalidSplit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSettlement(bill, tt.payer, tt.receiver, tt.amount, members)
			if tt.wantKind == "" {
				if err != nil {
					t.Errorf("ValidateSettlement() = %v, want nil", err)
				}
				return
			}
			if got := KindOf(err); got != tt.wantKind {
				t.Errorf("ValidateSettlement() kind = %q, want %q (err: %v)", got, tt.wantKind, err)
			}
		})
	}
}

func TestKindOf_NonLedgerError(t *testing.T) {
	if got := KindOf(nil); got != "" {
		t.Errorf("KindOf(nil) = %q, want empty", got)
	}
	if got := KindOf(errors.New("disk full")); got != "" {
		t.Errorf("KindOf(plain error) = %q, want empty", got)
	}
	wrapped := fmt.Errorf("recording payment: %w", Overpayment(10, "too much"))
	if got := KindOf(wrapped); got != KindOverpayment {
		t.Errorf("KindOf(wrapped) = %q, want %q", got, KindOverpayment)
	}
}

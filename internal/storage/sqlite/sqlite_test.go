package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"splitledger/internal/ledger"
	"splitledger/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "splitledger-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

// seedGroup creates a group with the given member usernames and returns
// the group plus the created accounts keyed by username.
func seedGroup(t *testing.T, store *SQLiteStore, name string, usernames ...string) (*models.FriendGroup, map[string]*models.Account) {
	t.Helper()
	ctx := context.Background()

	accounts := make(map[string]*models.Account, len(usernames))
	for _, username := range usernames {
		account := models.NewAccount(username, "hash", username, "Test")
		if err := store.CreateAccount(ctx, account); err != nil {
			t.Fatalf("CreateAccount(%s) failed: %v", username, err)
		}
		accounts[username] = account
	}

	group := &models.FriendGroup{Name: name}
	if err := store.CreateGroup(ctx, group, accounts[usernames[0]].ID); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	for _, username := range usernames[1:] {
		if err := store.AddMember(ctx, &models.GroupMember{GroupID: group.ID, AccountID: accounts[username].ID}); err != nil {
			t.Fatalf("AddMember(%s) failed: %v", username, err)
		}
	}
	return group, accounts
}

func TestSQLiteStore_Accounts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	account := models.NewAccount("alice", "hash", "Alice", "Smith")
	if err := store.CreateAccount(ctx, account); err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	if account.ID == "" {
		t.Error("Expected account ID to be generated")
	}

	t.Run("duplicate username conflicts", func(t *testing.T) {
		dup := models.NewAccount("alice", "hash2", "Other", "Alice")
		err := store.CreateAccount(ctx, dup)
		if ledger.KindOf(err) != ledger.KindConflict {
			t.Errorf("expected Conflict, got %v", err)
		}
	})

	t.Run("get by username", func(t *testing.T) {
		got, err := store.GetAccountByUsername(ctx, "alice")
		if err != nil {
			t.Fatalf("GetAccountByUsername failed: %v", err)
		}
		if got.ID != account.ID {
			t.Errorf("ID mismatch: got %s, want %s", got.ID, account.ID)
		}
	})

	t.Run("unknown id is NotFound", func(t *testing.T) {
		_, err := store.GetAccount(ctx, "nonexistent-id")
		if ledger.KindOf(err) != ledger.KindNotFound {
			t.Errorf("expected NotFound, got %v", err)
		}
	})
}

func TestSQLiteStore_CreateGroup(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("creator becomes the first member", func(t *testing.T) {
		account := models.NewAccount("alice", "hash", "Alice", "Test")
		if err := store.CreateAccount(ctx, account); err != nil {
			t.Fatalf("CreateAccount failed: %v", err)
		}

		group := &models.FriendGroup{Name: "Trip"}
		if err := store.CreateGroup(ctx, group, account.ID); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}

		members, err := store.ListMembers(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListMembers failed: %v", err)
		}
		if len(members) != 1 || members[0].AccountID != account.ID {
			t.Errorf("expected creator as sole member, got %v", members)
		}
	})

	t.Run("unknown creator rolls back the group row", func(t *testing.T) {
		group := &models.FriendGroup{Name: "Orphaned"}
		err := store.CreateGroup(ctx, group, "no-such-account")
		if ledger.KindOf(err) != ledger.KindNotFound {
			t.Fatalf("expected NotFound, got %v", err)
		}

		_, err = store.GetGroup(ctx, group.ID)
		if ledger.KindOf(err) != ledger.KindNotFound {
			t.Errorf("expected no group row after rollback, got %v", err)
		}
	})
}

func TestSQLiteStore_Membership(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group, accounts := seedGroup(t, store, "Roommates", "alice", "bob")

	t.Run("list members", func(t *testing.T) {
		members, err := store.ListMembers(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListMembers failed: %v", err)
		}
		if len(members) != 2 {
			t.Errorf("expected 2 members, got %d", len(members))
		}
	})

	t.Run("re-adding member conflicts", func(t *testing.T) {
		err := store.AddMember(ctx, &models.GroupMember{GroupID: group.ID, AccountID: accounts["alice"].ID})
		if ledger.KindOf(err) != ledger.KindConflict {
			t.Errorf("expected Conflict, got %v", err)
		}
	})

	t.Run("unknown group is NotFound", func(t *testing.T) {
		err := store.AddMember(ctx, &models.GroupMember{GroupID: "nope", AccountID: accounts["alice"].ID})
		if ledger.KindOf(err) != ledger.KindNotFound {
			t.Errorf("expected NotFound, got %v", err)
		}
	})

	t.Run("list groups by account", func(t *testing.T) {
		groups, err := store.ListGroupsByAccount(ctx, accounts["bob"].ID)
		if err != nil {
			t.Fatalf("ListGroupsByAccount failed: %v", err)
		}
		if len(groups) != 1 || groups[0].ID != group.ID {
			t.Errorf("expected [%s], got %v", group.ID, groups)
		}
	})
}

func TestSQLiteStore_Invitations(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group, accounts := seedGroup(t, store, "Trip", "alice")
	carol := models.NewAccount("carol", "hash", "Carol", "Test")
	if err := store.CreateAccount(ctx, carol); err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}

	inv := &models.GroupInvitation{
		GroupID:   group.ID,
		AccountID: carol.ID,
		InviterID: accounts["alice"].ID,
	}
	if err := store.CreateInvitation(ctx, inv); err != nil {
		t.Fatalf("CreateInvitation failed: %v", err)
	}
	if inv.ID == "" || inv.Status != models.InvitationPending {
		t.Fatalf("expected generated pending invitation, got %+v", inv)
	}

	t.Run("pending invitation blocks a second one", func(t *testing.T) {
		dup := &models.GroupInvitation{GroupID: group.ID, AccountID: carol.ID, InviterID: accounts["alice"].ID}
		err := store.CreateInvitation(ctx, dup)
		if ledger.KindOf(err) != ledger.KindAlreadyInvited {
			t.Errorf("expected AlreadyInvited, got %v", err)
		}
	})

	t.Run("pending lookup finds it", func(t *testing.T) {
		got, err := store.PendingInvitation(ctx, group.ID, carol.ID)
		if err != nil {
			t.Fatalf("PendingInvitation failed: %v", err)
		}
		if got == nil || got.ID != inv.ID {
			t.Errorf("expected invitation %s, got %+v", inv.ID, got)
		}
	})

	t.Run("accept adds membership atomically", func(t *testing.T) {
		if err := store.AcceptInvitation(ctx, inv.ID); err != nil {
			t.Fatalf("AcceptInvitation failed: %v", err)
		}

		members, err := store.ListMembers(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListMembers failed: %v", err)
		}
		if len(members) != 2 {
			t.Errorf("expected 2 members after acceptance, got %d", len(members))
		}

		got, err := store.GetInvitation(ctx, inv.ID)
		if err != nil {
			t.Fatalf("GetInvitation failed: %v", err)
		}
		if got.Status != models.InvitationAccepted {
			t.Errorf("expected accepted, got %s", got.Status)
		}
	})

	t.Run("accepting twice is InvalidTransition", func(t *testing.T) {
		err := store.AcceptInvitation(ctx, inv.ID)
		if ledger.KindOf(err) != ledger.KindInvalidTransition {
			t.Errorf("expected InvalidTransition, got %v", err)
		}
	})

	t.Run("re-invite after terminal state creates a new history row", func(t *testing.T) {
		dave := models.NewAccount("dave", "hash", "Dave", "Test")
		if err := store.CreateAccount(ctx, dave); err != nil {
			t.Fatalf("CreateAccount failed: %v", err)
		}

		first := &models.GroupInvitation{GroupID: group.ID, AccountID: dave.ID, InviterID: accounts["alice"].ID, TimeInvited: 1000}
		if err := store.CreateInvitation(ctx, first); err != nil {
			t.Fatalf("CreateInvitation failed: %v", err)
		}
		if err := store.DeclineInvitation(ctx, first.ID); err != nil {
			t.Fatalf("DeclineInvitation failed: %v", err)
		}

		second := &models.GroupInvitation{GroupID: group.ID, AccountID: dave.ID, InviterID: accounts["alice"].ID, TimeInvited: 2000}
		if err := store.CreateInvitation(ctx, second); err != nil {
			t.Fatalf("re-invite after decline failed: %v", err)
		}

		history, err := store.ListInvitationsByGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListInvitationsByGroup failed: %v", err)
		}
		if len(history) != 3 {
			t.Errorf("expected 3 invitation rows, got %d", len(history))
		}
	})
}

func TestSQLiteStore_Payments(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group, accounts := seedGroup(t, store, "Dinner", "alice", "bob")
	alice, bob := accounts["alice"], accounts["bob"]

	bill := &models.Bill{GroupID: group.ID, Description: "friday dinner"}
	if err := store.CreateBill(ctx, bill); err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}

	t.Run("payment with shares commits atomically", func(t *testing.T) {
		payment := &models.Payment{BillID: bill.ID, PayerID: alice.ID, Amount: 100}
		shares := map[string]int64{alice.ID: 50, bob.ID: 50}
		if err := store.RecordPayment(ctx, payment, shares); err != nil {
			t.Fatalf("RecordPayment failed: %v", err)
		}

		snapshot, err := store.BillLedger(ctx, bill.ID)
		if err != nil {
			t.Fatalf("BillLedger failed: %v", err)
		}
		if len(snapshot.Payments) != 1 || len(snapshot.Shares) != 2 {
			t.Errorf("expected 1 payment with 2 shares, got %d/%d", len(snapshot.Payments), len(snapshot.Shares))
		}
	})

	t.Run("bad split rejected, nothing written", func(t *testing.T) {
		payment := &models.Payment{BillID: bill.ID, PayerID: alice.ID, Amount: 100}
		err := store.RecordPayment(ctx, payment, map[string]int64{alice.ID: 40, bob.ID: 50})
		if ledger.KindOf(err) != ledger.KindInvalidSplit {
			t.Fatalf("expected InvalidSplit, got %v", err)
		}

		payments, err := store.ListPaymentsByBill(ctx, bill.ID)
		if err != nil {
			t.Fatalf("ListPaymentsByBill failed: %v", err)
		}
		if len(payments) != 1 {
			t.Errorf("expected rejected payment to leave no rows, got %d payments", len(payments))
		}
	})

	t.Run("non-member payer rejected", func(t *testing.T) {
		outsider := models.NewAccount("eve", "hash", "Eve", "Test")
		if err := store.CreateAccount(ctx, outsider); err != nil {
			t.Fatalf("CreateAccount failed: %v", err)
		}
		payment := &models.Payment{BillID: bill.ID, PayerID: outsider.ID, Amount: 10}
		err := store.RecordPayment(ctx, payment, map[string]int64{bob.ID: 10})
		if ledger.KindOf(err) != ledger.KindInvalidParty {
			t.Errorf("expected InvalidParty, got %v", err)
		}
	})

	t.Run("unknown bill is NotFound", func(t *testing.T) {
		payment := &models.Payment{BillID: "nope", PayerID: alice.ID, Amount: 10}
		err := store.RecordPayment(ctx, payment, map[string]int64{bob.ID: 10})
		if ledger.KindOf(err) != ledger.KindNotFound {
			t.Errorf("expected NotFound, got %v", err)
		}
	})
}

func TestSQLiteStore_Settlements(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group, accounts := seedGroup(t, store, "Dinner", "alice", "bob")
	alice, bob := accounts["alice"], accounts["bob"]

	bill := &models.Bill{GroupID: group.ID}
	if err := store.CreateBill(ctx, bill); err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}
	payment := &models.Payment{BillID: bill.ID, PayerID: alice.ID, Amount: 100}
	if err := store.RecordPayment(ctx, payment, map[string]int64{alice.ID: 50, bob.ID: 50}); err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}

	t.Run("recording beyond outstanding is Overpayment", func(t *testing.T) {
		st := &models.Settlement{BillID: bill.ID, PayerID: bob.ID, ReceiverID: alice.ID, Amount: 60}
		err := store.RecordSettlement(ctx, st)
		if ledger.KindOf(err) != ledger.KindOverpayment {
			t.Errorf("expected Overpayment, got %v", err)
		}
	})

	settlement := &models.Settlement{BillID: bill.ID, PayerID: bob.ID, ReceiverID: alice.ID, Amount: 50}
	if err := store.RecordSettlement(ctx, settlement); err != nil {
		t.Fatalf("RecordSettlement failed: %v", err)
	}

	t.Run("acceptance resolves the bill", func(t *testing.T) {
		accepted, err := store.AcceptSettlement(ctx, settlement.ID)
		if err != nil {
			t.Fatalf("AcceptSettlement failed: %v", err)
		}
		if !accepted.Accepted || accepted.TimeAccepted == 0 {
			t.Errorf("expected accepted settlement with timestamp, got %+v", accepted)
		}

		resolved, err := store.GetBill(ctx, bill.ID)
		if err != nil {
			t.Fatalf("GetBill failed: %v", err)
		}
		if !resolved.Resolved || resolved.TimeResolved == 0 {
			t.Errorf("expected resolved bill with timestamp, got %+v", resolved)
		}
	})

	t.Run("accepting twice is InvalidTransition", func(t *testing.T) {
		_, err := store.AcceptSettlement(ctx, settlement.ID)
		if ledger.KindOf(err) != ledger.KindInvalidTransition {
			t.Errorf("expected InvalidTransition, got %v", err)
		}
	})

	t.Run("balances net to zero after settlement", func(t *testing.T) {
		snapshot, err := store.GroupLedger(ctx, group.ID)
		if err != nil {
			t.Fatalf("GroupLedger failed: %v", err)
		}
		balances := ledger.Balances(*snapshot)
		if balances[alice.ID] != 0 || balances[bob.ID] != 0 {
			t.Errorf("expected settled balances, got %v", balances)
		}
	})
}

// TestSQLiteStore_CompetingSettlements records two pending settlements
// that together exceed the outstanding debt; the second acceptance must
// observe the first inside its own transaction and fail.
func TestSQLiteStore_CompetingSettlements(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group, accounts := seedGroup(t, store, "Dinner", "alice", "bob")
	alice, bob := accounts["alice"], accounts["bob"]

	bill := &models.Bill{GroupID: group.ID}
	if err := store.CreateBill(ctx, bill); err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}
	payment := &models.Payment{BillID: bill.ID, PayerID: alice.ID, Amount: 100}
	if err := store.RecordPayment(ctx, payment, map[string]int64{alice.ID: 50, bob.ID: 50}); err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}

	// Both fit the outstanding debt of 50 on their own.
	first := &models.Settlement{BillID: bill.ID, PayerID: bob.ID, ReceiverID: alice.ID, Amount: 40}
	second := &models.Settlement{BillID: bill.ID, PayerID: bob.ID, ReceiverID: alice.ID, Amount: 40}
	if err := store.RecordSettlement(ctx, first); err != nil {
		t.Fatalf("RecordSettlement failed: %v", err)
	}
	if err := store.RecordSettlement(ctx, second); err != nil {
		t.Fatalf("RecordSettlement failed: %v", err)
	}

	if _, err := store.AcceptSettlement(ctx, first.ID); err != nil {
		t.Fatalf("first AcceptSettlement failed: %v", err)
	}
	_, err := store.AcceptSettlement(ctx, second.ID)
	if ledger.KindOf(err) != ledger.KindOverpayment {
		t.Fatalf("expected Overpayment on second acceptance, got %v", err)
	}

	// Exactly one settlement counted: bob still owes 10.
	snapshot, err := store.BillLedger(ctx, bill.ID)
	if err != nil {
		t.Fatalf("BillLedger failed: %v", err)
	}
	if outstanding := ledger.OutstandingDebt(*snapshot, bob.ID, alice.ID); outstanding != 10 {
		t.Errorf("expected outstanding 10, got %d", outstanding)
	}
	if snapshot.Bill.Resolved {
		t.Error("bill must not be resolved with debt outstanding")
	}
}

// TestSQLiteStore_SnapshotConsistency reads group snapshots while a
// writer records payments. Every snapshot must be internally
// consistent: each debtor share references a payment visible in the
// same snapshot, and balances sum to zero.
func TestSQLiteStore_SnapshotConsistency(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group, accounts := seedGroup(t, store, "Flat", "alice", "bob")
	alice, bob := accounts["alice"], accounts["bob"]

	bill := &models.Bill{GroupID: group.ID}
	if err := store.CreateBill(ctx, bill); err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}

	done := make(chan struct{})
	var writeErr error
	go func() {
		defer close(done)
		for i := 0; i < 25; i++ {
			payment := &models.Payment{BillID: bill.ID, PayerID: alice.ID, Amount: 100}
			if err := store.RecordPayment(ctx, payment, map[string]int64{alice.ID: 50, bob.ID: 50}); err != nil {
				writeErr = err
				return
			}
		}
	}()

	for {
		snapshot, err := store.GroupLedger(ctx, group.ID)
		if err != nil {
			t.Fatalf("GroupLedger failed: %v", err)
		}
		for _, b := range snapshot.Bills {
			payments := make(map[string]bool, len(b.Payments))
			for _, p := range b.Payments {
				payments[p.ID] = true
			}
			for _, share := range b.Shares {
				if !payments[share.PaymentID] {
					t.Fatalf("share references payment %s missing from the snapshot", share.PaymentID)
				}
			}
		}

		balances := ledger.Balances(*snapshot)
		var sum int64
		for _, bal := range balances {
			sum += bal
		}
		if sum != 0 {
			t.Fatalf("balances do not sum to zero: %v", balances)
		}

		select {
		case <-done:
			if writeErr != nil {
				t.Fatalf("RecordPayment failed: %v", writeErr)
			}
			return
		default:
		}
	}
}

// Package models defines the core domain records for Splitledger.
//
// # Entities
//
//   - Account: a registered user identity
//   - FriendGroup: a named collection of accounts that share expenses
//   - GroupMember: a membership fact linking an account to a group
//   - GroupInvitation: a pending/accepted/declined request to join a group
//   - Bill: a resolvable unit of spend within a group
//   - Payment: a single outlay by one account within a bill
//   - DebtorShare: the portion of a payment one account owes
//   - Settlement: a transfer between two accounts reducing debt on a bill
//
// # Design Principles
//
// 1. **Plain records**: no behavior beyond trivial constructors; business
// rules live in the ledger and service packages.
// 2. **ID strings, not pointers**: relationships are expressed through
// uuid id fields to avoid circular references.
// 3. **Integer money**: all amounts are int64 minor currency units
// (cents). No floating point anywhere in the ledger.
// 4. **Unix timestamps**: int64 seconds, zero meaning unset (e.g. a
// bill's TimeResolved before resolution).
package models

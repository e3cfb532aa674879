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

// CreateGroup inserts a new friend group together with the creator's
// membership row. Both inserts share one transaction so a failed
// membership never leaves an orphan group behind.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.FriendGroup, creatorID string) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO friend_groups (id, name, created_at) VALUES (?, ?, ?)",
			group.ID, group.Name, group.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group: %w", err)
		}
		return addMember(ctx, tx, &models.GroupMember{
			GroupID:   group.ID,
			AccountID: creatorID,
			JoinedAt:  group.CreatedAt,
		})
	})
}

// GetGroup retrieves a group by ID.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.FriendGroup, error) {
	return getGroup(ctx, s.db, groupID)
}

func getGroup(ctx context.Context, q querier, groupID string) (*models.FriendGroup, error) {
	group := &models.FriendGroup{}
	err := q.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM friend_groups WHERE id = ?",
		groupID,
	).Scan(&group.ID, &group.Name, &group.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ledger.NotFound("group_id", "group %s does not exist", groupID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return group, nil
}

// ListGroupsByAccount retrieves the groups an account belongs to.
func (s *SQLiteStore) ListGroupsByAccount(ctx context.Context, accountID string) ([]models.FriendGroup, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT g.id, g.name, g.created_at
		 FROM friend_groups g
		 JOIN group_members m ON m.group_id = g.id
		 WHERE m.account_id = ?
		 ORDER BY g.created_at DESC`,
		accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups by account: %w", err)
	}
	defer rows.Close()

	var groups []models.FriendGroup
	for rows.Next() {
		var group models.FriendGroup
		if err := rows.Scan(&group.ID, &group.Name, &group.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}
	return groups, nil
}

// AddMember inserts a membership row.
func (s *SQLiteStore) AddMember(ctx context.Context, member *models.GroupMember) error {
	if member.JoinedAt == 0 {
		member.JoinedAt = time.Now().Unix()
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return addMember(ctx, tx, member)
	})
}

func addMember(ctx context.Context, q querier, member *models.GroupMember) error {
	if _, err := getGroup(ctx, q, member.GroupID); err != nil {
		return err
	}
	if _, err := getAccount(ctx, q, member.AccountID); err != nil {
		return err
	}

	_, err := q.ExecContext(ctx,
		"INSERT INTO group_members (group_id, account_id, joined_at) VALUES (?, ?, ?)",
		member.GroupID, member.AccountID, member.JoinedAt,
	)
	if isConstraint(err) {
		return ledger.Conflict("account_id", "account %s is already a member of group %s", member.AccountID, member.GroupID)
	}
	if err != nil {
		return fmt.Errorf("failed to insert membership: %w", err)
	}
	return nil
}

// ListMembers retrieves a group's membership rows.
func (s *SQLiteStore) ListMembers(ctx context.Context, groupID string) ([]models.GroupMember, error) {
	return listMembers(ctx, s.db, groupID)
}

func listMembers(ctx context.Context, q querier, groupID string) ([]models.GroupMember, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT group_id, account_id, joined_at FROM group_members
		 WHERE group_id = ? ORDER BY joined_at`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []models.GroupMember
	for rows.Next() {
		var m models.GroupMember
		if err := rows.Scan(&m.GroupID, &m.AccountID, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}

// CreateInvitation inserts a new invitation row.
func (s *SQLiteStore) CreateInvitation(ctx context.Context, inv *models.GroupInvitation) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	if inv.Status == "" {
		inv.Status = models.InvitationPending
	}
	if inv.TimeInvited == 0 {
		inv.TimeInvited = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO group_invitations (id, group_id, account_id, inviter_id, status, time_invited)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.GroupID, inv.AccountID, inv.InviterID, string(inv.Status), inv.TimeInvited,
	)
	if isConstraint(err) {
		// The partial unique index on pending invitations backs the
		// AlreadyInvited check against racing inviters.
		return ledger.AlreadyInvited(inv.AccountID)
	}
	if err != nil {
		return fmt.Errorf("failed to insert invitation: %w", err)
	}
	return nil
}

// GetInvitation retrieves an invitation by ID.
func (s *SQLiteStore) GetInvitation(ctx context.Context, invitationID string) (*models.GroupInvitation, error) {
	return getInvitation(ctx, s.db, invitationID)
}

func getInvitation(ctx context.Context, q querier, invitationID string) (*models.GroupInvitation, error) {
	inv := &models.GroupInvitation{}
	var status string
	err := q.QueryRowContext(ctx,
		`SELECT id, group_id, account_id, inviter_id, status, time_invited
		 FROM group_invitations WHERE id = ?`,
		invitationID,
	).Scan(&inv.ID, &inv.GroupID, &inv.AccountID, &inv.InviterID, &status, &inv.TimeInvited)
	if err == sql.ErrNoRows {
		return nil, ledger.NotFound("invitation_id", "invitation %s does not exist", invitationID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}
	inv.Status = models.InvitationStatus(status)
	return inv, nil
}

// ListInvitationsByGroup retrieves a group's invitation history, newest first.
func (s *SQLiteStore) ListInvitationsByGroup(ctx context.Context, groupID string) ([]models.GroupInvitation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, account_id, inviter_id, status, time_invited
		 FROM group_invitations WHERE group_id = ? ORDER BY time_invited DESC`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	defer rows.Close()

	var invitations []models.GroupInvitation
	for rows.Next() {
		var inv models.GroupInvitation
		var status string
		if err := rows.Scan(&inv.ID, &inv.GroupID, &inv.AccountID, &inv.InviterID, &status, &inv.TimeInvited); err != nil {
			return nil, fmt.Errorf("failed to scan invitation: %w", err)
		}
		inv.Status = models.InvitationStatus(status)
		invitations = append(invitations, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invitations: %w", err)
	}
	return invitations, nil
}

// PendingInvitation returns the pending invitation for the (group, account)
// pair, or nil when none exists.
func (s *SQLiteStore) PendingInvitation(ctx context.Context, groupID, accountID string) (*models.GroupInvitation, error) {
	inv := &models.GroupInvitation{}
	var status string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, account_id, inviter_id, status, time_invited
		 FROM group_invitations
		 WHERE group_id = ? AND account_id = ? AND status = 'pending'`,
		groupID, accountID,
	).Scan(&inv.ID, &inv.GroupID, &inv.AccountID, &inv.InviterID, &status, &inv.TimeInvited)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pending invitation: %w", err)
	}
	inv.Status = models.InvitationStatus(status)
	return inv, nil
}

// AcceptInvitation marks the invitation accepted and inserts the
// membership row in one transaction.
func (s *SQLiteStore) AcceptInvitation(ctx context.Context, invitationID string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		inv, err := getInvitation(ctx, tx, invitationID)
		if err != nil {
			return err
		}
		if inv.Status != models.InvitationPending {
			return ledger.InvalidTransition("status", "invitation is %s, not pending", inv.Status)
		}

		if _, err := tx.ExecContext(ctx,
			"UPDATE group_invitations SET status = 'accepted' WHERE id = ?",
			invitationID,
		); err != nil {
			return fmt.Errorf("failed to accept invitation: %w", err)
		}

		return addMember(ctx, tx, &models.GroupMember{
			GroupID:   inv.GroupID,
			AccountID: inv.AccountID,
			JoinedAt:  time.Now().Unix(),
		})
	})
}

// DeclineInvitation marks the invitation declined.
func (s *SQLiteStore) DeclineInvitation(ctx context.Context, invitationID string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		inv, err := getInvitation(ctx, tx, invitationID)
		if err != nil {
			return err
		}
		if inv.Status != models.InvitationPending {
			return ledger.InvalidTransition("status", "invitation is %s, not pending", inv.Status)
		}

		if _, err := tx.ExecContext(ctx,
			"UPDATE group_invitations SET status = 'declined' WHERE id = ?",
			invitationID,
		); err != nil {
			return fmt.Errorf("failed to decline invitation: %w", err)
		}
		return nil
	})
}

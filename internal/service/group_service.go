package service

import (
	"context"
	"log/slog"
	"slices"

	"splitledger/internal/ledger"
	"splitledger/internal/models"
	"splitledger/internal/storage"
)

// GroupService governs friend groups, membership, and the invitation
// state machine.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// CreateGroup creates a new friend group with the creator as its first member.
func (s *GroupService) CreateGroup(ctx context.Context, name, creatorID string) (*models.FriendGroup, error) {
	slog.Info("CreateGroup request", "name", name, "creator_id", creatorID)

	if name == "" {
		return nil, ledger.Conflict("name", "group name must not be empty")
	}

	group := &models.FriendGroup{Name: name}
	if err := s.store.CreateGroup(ctx, group, creatorID); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, err
	}

	slog.Info("Group created", "group_id", group.ID)
	return group, nil
}

// GetGroup retrieves a group and its membership. The caller must be a member.
func (s *GroupService) GetGroup(ctx context.Context, groupID, callerID string) (*models.FriendGroup, []models.GroupMember, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}

	members, err := s.requireMember(ctx, groupID, callerID)
	if err != nil {
		return nil, nil, err
	}
	return group, members, nil
}

// ListGroups retrieves the groups the caller belongs to.
func (s *GroupService) ListGroups(ctx context.Context, callerID string) ([]models.FriendGroup, error) {
	return s.store.ListGroupsByAccount(ctx, callerID)
}

// AddMember directly adds an account to a group. The caller must
// already be a member.
func (s *GroupService) AddMember(ctx context.Context, groupID, accountID, callerID string) error {
	slog.Info("AddMember request", "group_id", groupID, "account_id", accountID, "caller_id", callerID)

	if _, err := s.requireMember(ctx, groupID, callerID); err != nil {
		return err
	}

	if err := s.store.AddMember(ctx, &models.GroupMember{GroupID: groupID, AccountID: accountID}); err != nil {
		slog.Warn("AddMember failed", "group_id", groupID, "account_id", accountID, "error", err)
		return err
	}

	slog.Info("Member added", "group_id", groupID, "account_id", accountID)
	return nil
}

// Invite records a pending invitation for an account to join a group.
func (s *GroupService) Invite(ctx context.Context, groupID, inviteeID, inviterID string) (*models.GroupInvitation, error) {
	slog.Info("Invite request", "group_id", groupID, "invitee_id", inviteeID, "inviter_id", inviterID)

	members, err := s.requireMember(ctx, groupID, inviterID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetAccount(ctx, inviteeID); err != nil {
		return nil, err
	}

	if slices.ContainsFunc(members, func(m models.GroupMember) bool { return m.AccountID == inviteeID }) {
		return nil, ledger.AlreadyMember(inviteeID)
	}

	pending, err := s.store.PendingInvitation(ctx, groupID, inviteeID)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, ledger.AlreadyInvited(inviteeID)
	}

	inv := &models.GroupInvitation{
		GroupID:   groupID,
		AccountID: inviteeID,
		InviterID: inviterID,
	}
	if err := s.store.CreateInvitation(ctx, inv); err != nil {
		slog.Warn("Invite failed", "group_id", groupID, "invitee_id", inviteeID, "error", err)
		return nil, err
	}

	slog.Info("Invitation sent", "invitation_id", inv.ID)
	return inv, nil
}

// Respond transitions a pending invitation to accepted or declined.
// Only the invitee may respond; acceptance inserts the membership row
// atomically with the status change.
func (s *GroupService) Respond(ctx context.Context, invitationID, callerID string, accept bool) (*models.GroupInvitation, error) {
	slog.Info("Respond request", "invitation_id", invitationID, "caller_id", callerID, "accept", accept)

	inv, err := s.store.GetInvitation(ctx, invitationID)
	if err != nil {
		return nil, err
	}
	if inv.AccountID != callerID {
		return nil, ledger.InvalidParty("account_id", "only the invitee may respond to invitation %s", invitationID)
	}
	if inv.Status != models.InvitationPending {
		return nil, ledger.InvalidTransition("status", "invitation is %s, not pending", inv.Status)
	}

	if accept {
		err = s.store.AcceptInvitation(ctx, invitationID)
	} else {
		err = s.store.DeclineInvitation(ctx, invitationID)
	}
	if err != nil {
		slog.Warn("Respond failed", "invitation_id", invitationID, "error", err)
		return nil, err
	}

	inv, err = s.store.GetInvitation(ctx, invitationID)
	if err != nil {
		return nil, err
	}
	slog.Info("Invitation responded", "invitation_id", inv.ID, "status", inv.Status)
	return inv, nil
}

// ListInvitations retrieves a group's invitation history. The caller
// must be a member.
func (s *GroupService) ListInvitations(ctx context.Context, groupID, callerID string) ([]models.GroupInvitation, error) {
	if _, err := s.requireMember(ctx, groupID, callerID); err != nil {
		return nil, err
	}
	return s.store.ListInvitationsByGroup(ctx, groupID)
}

// requireMember loads a group's members and fails with InvalidParty
// when accountID is not among them.
func (s *GroupService) requireMember(ctx context.Context, groupID, accountID string) ([]models.GroupMember, error) {
	members, err := s.store.ListMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !slices.ContainsFunc(members, func(m models.GroupMember) bool { return m.AccountID == accountID }) {
		return nil, ledger.InvalidParty("caller_id", "account %s is not a member of group %s", accountID, groupID)
	}
	return members, nil
}

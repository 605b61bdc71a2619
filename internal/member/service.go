package member

import (
	"context"
	"errors"
	"log/slog"

	"github.com/fkhayef/grouppic/internal/user"
	"github.com/fkhayef/grouppic/pkg/apperror"
	"github.com/fkhayef/grouppic/pkg/pagination"
)

// ErrActiveMemberExists is returned by the store when a (group, user) pair
// already has a pending or approved row.
var ErrActiveMemberExists = errors.New("user already has an active membership in this group")

// Store defines the persistence operations the member service needs.
type Store interface {
	InsertPending(ctx context.Context, m *Member) (*Member, error)
	GetByID(ctx context.Context, groupID, memberID string) (*Member, error)
	GetActiveByGroupAndUser(ctx context.Context, groupID, userID string) (*Member, error)
	ApplyTransition(ctx context.Context, groupID, memberID string, t Transition) (*Member, error)
	TransferOwnership(ctx context.Context, groupID, ownerMemberID, targetMemberID string) (bool, error)
	List(ctx context.Context, groupID string, filter ListFilter, p pagination.Params) ([]*Member, error)
}

// CodeResolver resolves an invitation code to a group ID. It is satisfied by
// the invitation code service.
type CodeResolver interface {
	ResolveID(ctx context.Context, code string) (string, error)
}

// UserDirectory resolves user profiles for denormalization into member rows.
type UserDirectory interface {
	GetByID(ctx context.Context, userID string) (*user.User, error)
}

// Service owns the membership lifecycle state machine
type Service struct {
	store Store
	codes CodeResolver
	users UserDirectory
}

// NewService creates a new member service
func NewService(store Store, codes CodeResolver, users UserDirectory) *Service {
	return &Service{store: store, codes: codes, users: users}
}

// RequestJoin creates a pending membership from an invitation code.
//
// A stale or unknown code yields not-found; an existing pending/approved
// membership yields conflict. Users with a terminal history row (rejected,
// dropped out, left) may request again.
func (s *Service) RequestJoin(ctx context.Context, userID string, req *JoinGroupRequest) (*Member, error) {
	if req.InvitationCode == "" {
		return nil, apperror.Invalid("invitation code must not be empty")
	}

	groupID, err := s.codes.ResolveID(ctx, req.InvitationCode)
	if err != nil {
		return nil, err
	}

	profile, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.GetActiveByGroupAndUser(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Conflict("user already has an active membership in this group")
	}

	created, err := s.store.InsertPending(ctx, &Member{
		GroupID:         groupID,
		UserID:          userID,
		Username:        profile.Username,
		ProfileImageURL: profile.ProfileImageURL,
	})
	if err != nil {
		// A concurrent join slipped in between the read and the insert.
		if errors.Is(err, ErrActiveMemberExists) {
			return nil, apperror.Conflict(err.Error())
		}
		return nil, err
	}

	slog.Info("join requested", "group_id", groupID, "member_id", created.ID, "user_id", userID)
	return created, nil
}

// Approve transitions a pending member to approved; owner-only.
func (s *Service) Approve(ctx context.Context, requesterID, groupID, memberID string) (*Member, error) {
	if _, err := s.requireOwner(ctx, groupID, requesterID); err != nil {
		return nil, err
	}

	t := Transition{From: StatusPending, To: StatusApproved, SetJoinedAt: true}
	m, err := s.store.ApplyTransition(ctx, groupID, memberID, t)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, s.transitionFailure(ctx, groupID, memberID, t)
	}

	slog.Info("join request approved", "group_id", groupID, "member_id", memberID)
	return m, nil
}

// Reject transitions a pending member to rejected; owner-only.
func (s *Service) Reject(ctx context.Context, requesterID, groupID, memberID string) (*Member, error) {
	if _, err := s.requireOwner(ctx, groupID, requesterID); err != nil {
		return nil, err
	}

	t := Transition{From: StatusPending, To: StatusRejected}
	m, err := s.store.ApplyTransition(ctx, groupID, memberID, t)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, s.transitionFailure(ctx, groupID, memberID, t)
	}

	slog.Info("join request rejected", "group_id", groupID, "member_id", memberID)
	return m, nil
}

// DropOut removes an approved member from the group; owner-only, never
// against the owner's own row.
func (s *Service) DropOut(ctx context.Context, requesterID, groupID, memberID string) (*Member, error) {
	if _, err := s.requireOwner(ctx, groupID, requesterID); err != nil {
		return nil, err
	}

	target, err := s.store.GetByID(ctx, groupID, memberID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, apperror.NotFound("member not found")
	}
	if target.Role == RoleOwner {
		return nil, apperror.Forbidden("the group owner cannot be dropped out")
	}

	t := Transition{From: StatusApproved, To: StatusDroppedOut, MemberOnly: true}
	m, err := s.store.ApplyTransition(ctx, groupID, memberID, t)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, s.transitionFailure(ctx, groupID, memberID, t)
	}

	slog.Info("member dropped out", "group_id", groupID, "member_id", memberID, "requester_id", requesterID)
	return m, nil
}

// Leave lets an approved member exit the group. The owner is refused: the
// group must be transferred or deleted instead.
func (s *Service) Leave(ctx context.Context, requesterID, groupID string) (*Member, error) {
	current, err := s.store.GetActiveByGroupAndUser(ctx, groupID, requesterID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, apperror.NotFound("membership not found")
	}
	if current.Role == RoleOwner {
		return nil, apperror.Forbidden("the owner cannot leave the group; transfer ownership or delete the group first")
	}

	t := Transition{From: StatusApproved, To: StatusLeft, MemberOnly: true}
	m, err := s.store.ApplyTransition(ctx, groupID, current.ID, t)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, s.transitionFailure(ctx, groupID, current.ID, t)
	}

	slog.Info("member left", "group_id", groupID, "member_id", current.ID)
	return m, nil
}

// TransferOwnership hands the owner role to another approved member.
func (s *Service) TransferOwnership(ctx context.Context, requesterID, groupID, memberID string) error {
	owner, err := s.requireOwner(ctx, groupID, requesterID)
	if err != nil {
		return err
	}
	if owner.ID == memberID {
		return apperror.Invalid("cannot transfer ownership to the current owner")
	}

	target, err := s.store.GetByID(ctx, groupID, memberID)
	if err != nil {
		return err
	}
	if target == nil {
		return apperror.NotFound("member not found")
	}
	if target.Status != StatusApproved {
		return apperror.Conflict("ownership can only be transferred to an approved member")
	}

	ok, err := s.store.TransferOwnership(ctx, groupID, owner.ID, memberID)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.Conflict("ownership transfer preconditions no longer hold")
	}

	slog.Info("ownership transferred", "group_id", groupID, "from_member_id", owner.ID, "to_member_id", memberID)
	return nil
}

// List retrieves a group's members; any approved member may list.
func (s *Service) List(ctx context.Context, requesterID, groupID string, filter ListFilter, p pagination.Params) ([]*Member, pagination.Page, error) {
	requester, err := s.store.GetActiveByGroupAndUser(ctx, groupID, requesterID)
	if err != nil {
		return nil, pagination.Page{}, err
	}
	if requester == nil || requester.Status != StatusApproved {
		return nil, pagination.Page{}, apperror.Forbidden("approved membership required to list members")
	}

	if filter.Status != nil && !filter.Status.Valid() {
		return nil, pagination.Page{}, apperror.Invalid("unknown member status filter")
	}

	p = p.Normalize()
	members, err := s.store.List(ctx, groupID, filter, p)
	if err != nil {
		return nil, pagination.Page{}, err
	}

	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	return members, pagination.PageOf(ids, p.Limit), nil
}

// requireOwner loads the requester's active membership and verifies they are
// the approved owner of the group.
func (s *Service) requireOwner(ctx context.Context, groupID, userID string) (*Member, error) {
	m, err := s.store.GetActiveByGroupAndUser(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if m == nil || m.Role != RoleOwner || m.Status != StatusApproved {
		return nil, apperror.Forbidden("only the group owner can perform this action")
	}
	return m, nil
}

// transitionFailure reports why a conditional transition matched zero rows:
// the member is gone (not found), the role guard blocked it (forbidden), or
// its status moved on (conflict).
func (s *Service) transitionFailure(ctx context.Context, groupID, memberID string, t Transition) error {
	current, err := s.store.GetByID(ctx, groupID, memberID)
	if err != nil {
		return err
	}
	if current == nil {
		return apperror.NotFound("member not found")
	}
	if t.MemberOnly && current.Status == t.From && current.Role != RoleMember {
		// Status still matched; a concurrent ownership change made the row
		// the owner's, which the transition refuses to touch.
		return apperror.Forbidden("the group owner cannot be removed from the group")
	}
	return apperror.Conflict("member is no longer " + string(t.From))
}

package group

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/fkhayef/grouppic/internal/user"
	"github.com/fkhayef/grouppic/pkg/apperror"
	"github.com/fkhayef/grouppic/pkg/pagination"
)

// ErrCodeTaken is returned by the store when a generated invitation code
// collides with another group's code.
var ErrCodeTaken = errors.New("invitation code already in use")

// Store defines the persistence operations the group services need.
type Store interface {
	CreateWithOwner(ctx context.Context, name string, owner OwnerProfile) (*Group, error)
	GetByID(ctx context.Context, groupID string) (*Group, error)
	GetByInvitationCode(ctx context.Context, code string) (*Group, error)
	UpdateName(ctx context.Context, groupID, name string) (*Group, error)
	SoftDelete(ctx context.Context, groupID string) (bool, error)
	ListByUserID(ctx context.Context, userID string, p pagination.Params) ([]*Group, error)
	SetInvitationCodeIfAbsent(ctx context.Context, groupID, code string) (*Group, error)
	ReplaceInvitationCode(ctx context.Context, groupID, code string) (*Group, error)
	ClearInvitationCode(ctx context.Context, groupID string) (bool, error)
}

// OwnerChecker answers whether a user is the approved owner of a group. It is
// satisfied by the access gateway.
type OwnerChecker interface {
	IsOwner(ctx context.Context, groupID, userID string) (bool, error)
}

// UserDirectory resolves user profiles for denormalization into member rows.
type UserDirectory interface {
	GetByID(ctx context.Context, userID string) (*user.User, error)
}

// Service handles group registry business logic
type Service struct {
	store  Store
	owners OwnerChecker
	users  UserDirectory
}

// NewService creates a new group service
func NewService(store Store, owners OwnerChecker, users UserDirectory) *Service {
	return &Service{store: store, owners: owners, users: users}
}

// Create creates a group and its owner membership atomically
func (s *Service) Create(ctx context.Context, ownerID string, req *CreateGroupRequest) (*Group, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperror.Invalid("group name must not be empty")
	}

	owner, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	group, err := s.store.CreateWithOwner(ctx, name, OwnerProfile{
		UserID:          owner.ID,
		Username:        owner.Username,
		ProfileImageURL: owner.ProfileImageURL,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("group created", "group_id", group.ID, "owner_id", ownerID)
	return group, nil
}

// GetByID retrieves a non-deleted group by its ID
func (s *Service) GetByID(ctx context.Context, groupID string) (*Group, error) {
	group, err := s.store.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil || group.Deleted() {
		return nil, apperror.NotFound("group not found")
	}
	return group, nil
}

// GetByInvitationCode resolves an invitation code to its group
func (s *Service) GetByInvitationCode(ctx context.Context, code string) (*Group, error) {
	group, err := s.store.GetByInvitationCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, apperror.NotFound("invitation code does not resolve to a group")
	}
	return group, nil
}

// Update renames a group; owner-only
func (s *Service) Update(ctx context.Context, requesterID, groupID string, req *UpdateGroupRequest) (*Group, error) {
	if err := s.requireOwner(ctx, groupID, requesterID); err != nil {
		return nil, err
	}

	if req.Name == nil {
		return s.GetByID(ctx, groupID)
	}
	name := strings.TrimSpace(*req.Name)
	if name == "" {
		return nil, apperror.Invalid("group name must not be empty")
	}

	group, err := s.store.UpdateName(ctx, groupID, name)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, apperror.NotFound("group not found")
	}
	return group, nil
}

// Delete soft-deletes a group; owner-only. Member rows are left untouched as
// history.
func (s *Service) Delete(ctx context.Context, requesterID, groupID string) error {
	if err := s.requireOwner(ctx, groupID, requesterID); err != nil {
		return err
	}

	deleted, err := s.store.SoftDelete(ctx, groupID)
	if err != nil {
		return err
	}
	if !deleted {
		return apperror.NotFound("group not found")
	}

	slog.Info("group deleted", "group_id", groupID, "requester_id", requesterID)
	return nil
}

// ListMine retrieves the caller's groups, cursor-paged
func (s *Service) ListMine(ctx context.Context, userID string, p pagination.Params) ([]*Group, pagination.Page, error) {
	p = p.Normalize()
	groups, err := s.store.ListByUserID(ctx, userID, p)
	if err != nil {
		return nil, pagination.Page{}, err
	}

	ids := make([]string, len(groups))
	for i, g := range groups {
		ids[i] = g.ID
	}
	return groups, pagination.PageOf(ids, p.Limit), nil
}

func (s *Service) requireOwner(ctx context.Context, groupID, userID string) error {
	ok, err := s.owners.IsOwner(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.Forbidden("only the group owner can perform this action")
	}
	return nil
}

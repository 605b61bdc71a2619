// Package access is the single seam through which features decide whether a
// caller may act on a group, content item or comment.
//
// It derives answers purely from membership data: only approved members (or
// the approved owner) are ever granted anything. Absence of access is
// reported as a nil member, not an error, so callers choose the error shape.
package access

import (
	"context"

	"github.com/fkhayef/grouppic/internal/member"
)

// Store defines the lookups the gateway needs.
type Store interface {
	IsOwner(ctx context.Context, groupID, userID string) (bool, error)
	ApprovedMember(ctx context.Context, groupID, userID string) (*member.Member, error)
	ContentMember(ctx context.Context, contentID, userID string) (*member.Member, error)
	CommentOwner(ctx context.Context, commentID string) (*member.Member, error)
}

// Service answers access questions for the rest of the application
type Service struct {
	store Store
}

// NewService creates a new access service
func NewService(store Store) *Service {
	return &Service{store: store}
}

// IsOwner reports whether the user is the group's approved owner
func (s *Service) IsOwner(ctx context.Context, groupID, userID string) (bool, error) {
	return s.store.IsOwner(ctx, groupID, userID)
}

// IsApprovedMember reports whether the user is an approved member of the group
func (s *Service) IsApprovedMember(ctx context.Context, groupID, userID string) (bool, error) {
	m, err := s.store.ApprovedMember(ctx, groupID, userID)
	if err != nil {
		return false, err
	}
	return m != nil, nil
}

// ApprovedMember returns the user's approved membership in the group, or nil
func (s *Service) ApprovedMember(ctx context.Context, groupID, userID string) (*member.Member, error) {
	return s.store.ApprovedMember(ctx, groupID, userID)
}

// ContentMember returns the user's approved membership in the group owning
// the content, or nil when the content is invisible to the user.
func (s *Service) ContentMember(ctx context.Context, contentID, userID string) (*member.Member, error) {
	return s.store.ContentMember(ctx, contentID, userID)
}

// CommentOwner returns the approved member who authored the comment, or nil
func (s *Service) CommentOwner(ctx context.Context, commentID string) (*member.Member, error) {
	return s.store.CommentOwner(ctx, commentID)
}

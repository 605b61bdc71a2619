package content

import (
	"context"
	"log/slog"
	"strings"

	"github.com/fkhayef/grouppic/internal/member"
	"github.com/fkhayef/grouppic/pkg/apperror"
	"github.com/fkhayef/grouppic/pkg/pagination"
)

// Store defines the persistence operations the content service needs.
type Store interface {
	Create(ctx context.Context, groupID, memberID string, req *CreateContentRequest) (*Content, error)
	GetByID(ctx context.Context, contentID string) (*Content, error)
	ListByGroup(ctx context.Context, groupID string, p pagination.Params) ([]*Content, error)
	Delete(ctx context.Context, contentID string) error
}

// Gateway is the slice of the access gateway the content service consumes.
type Gateway interface {
	ApprovedMember(ctx context.Context, groupID, userID string) (*member.Member, error)
	ContentMember(ctx context.Context, contentID, userID string) (*member.Member, error)
	IsOwner(ctx context.Context, groupID, userID string) (bool, error)
}

// Service handles content business logic
type Service struct {
	store  Store
	access Gateway
}

// NewService creates a new content service
func NewService(store Store, access Gateway) *Service {
	return &Service{store: store, access: access}
}

// Create posts content to a group; approved members only
func (s *Service) Create(ctx context.Context, userID, groupID string, req *CreateContentRequest) (*Content, error) {
	if strings.TrimSpace(req.MediaURL) == "" {
		return nil, apperror.Invalid("media URL must not be empty")
	}

	m, err := s.access.ApprovedMember(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperror.Forbidden("approved membership required to post content")
	}

	content, err := s.store.Create(ctx, groupID, m.ID, req)
	if err != nil {
		return nil, err
	}
	content.AuthorUsername = m.Username

	slog.Info("content posted", "content_id", content.ID, "group_id", groupID, "member_id", m.ID)
	return content, nil
}

// Get retrieves a content item the caller can see. Inaccessible and
// nonexistent content both read as not found.
func (s *Service) Get(ctx context.Context, userID, contentID string) (*Content, error) {
	m, err := s.access.ContentMember(ctx, contentID, userID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperror.NotFound("content not found")
	}

	content, err := s.store.GetByID(ctx, contentID)
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, apperror.NotFound("content not found")
	}
	return content, nil
}

// ListByGroup retrieves a group's feed; approved members only
func (s *Service) ListByGroup(ctx context.Context, userID, groupID string, p pagination.Params) ([]*Content, pagination.Page, error) {
	m, err := s.access.ApprovedMember(ctx, groupID, userID)
	if err != nil {
		return nil, pagination.Page{}, err
	}
	if m == nil {
		return nil, pagination.Page{}, apperror.Forbidden("approved membership required to view the feed")
	}

	p = p.Normalize()
	contents, err := s.store.ListByGroup(ctx, groupID, p)
	if err != nil {
		return nil, pagination.Page{}, err
	}

	ids := make([]string, len(contents))
	for i, c := range contents {
		ids[i] = c.ID
	}
	return contents, pagination.PageOf(ids, p.Limit), nil
}

// Delete removes content; allowed for the posting member or the group owner
func (s *Service) Delete(ctx context.Context, userID, contentID string) error {
	m, err := s.access.ContentMember(ctx, contentID, userID)
	if err != nil {
		return err
	}
	if m == nil {
		return apperror.NotFound("content not found")
	}

	content, err := s.store.GetByID(ctx, contentID)
	if err != nil {
		return err
	}
	if content == nil {
		return apperror.NotFound("content not found")
	}

	if content.MemberID != m.ID {
		isOwner, err := s.access.IsOwner(ctx, content.GroupID, userID)
		if err != nil {
			return err
		}
		if !isOwner {
			return apperror.Forbidden("only the author or the group owner can delete content")
		}
	}

	return s.store.Delete(ctx, contentID)
}

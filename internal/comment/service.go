package comment

import (
	"context"
	"strings"

	"github.com/fkhayef/grouppic/internal/member"
	"github.com/fkhayef/grouppic/pkg/apperror"
	"github.com/fkhayef/grouppic/pkg/pagination"
)

// Store defines the persistence operations the comment service needs.
type Store interface {
	Create(ctx context.Context, contentID, memberID, body string) (*Comment, error)
	GetByID(ctx context.Context, commentID string) (*Comment, error)
	ListByContent(ctx context.Context, contentID string, p pagination.Params) ([]*Comment, error)
	UpdateBody(ctx context.Context, commentID, body string) (*Comment, error)
	Delete(ctx context.Context, commentID string) error
}

// Gateway is the slice of the access gateway the comment service consumes.
type Gateway interface {
	ContentMember(ctx context.Context, contentID, userID string) (*member.Member, error)
	CommentOwner(ctx context.Context, commentID string) (*member.Member, error)
}

// Service handles comment business logic
type Service struct {
	store  Store
	access Gateway
}

// NewService creates a new comment service
func NewService(store Store, access Gateway) *Service {
	return &Service{store: store, access: access}
}

// Create posts a comment on a content item the caller can see
func (s *Service) Create(ctx context.Context, userID, contentID string, req *CreateCommentRequest) (*Comment, error) {
	if strings.TrimSpace(req.Body) == "" {
		return nil, apperror.Invalid("comment body must not be empty")
	}

	m, err := s.access.ContentMember(ctx, contentID, userID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperror.NotFound("content not found")
	}

	comment, err := s.store.Create(ctx, contentID, m.ID, req.Body)
	if err != nil {
		return nil, err
	}
	comment.AuthorUsername = m.Username
	return comment, nil
}

// ListByContent retrieves a content item's comments, gated by content access
func (s *Service) ListByContent(ctx context.Context, userID, contentID string, p pagination.Params) ([]*Comment, pagination.Page, error) {
	m, err := s.access.ContentMember(ctx, contentID, userID)
	if err != nil {
		return nil, pagination.Page{}, err
	}
	if m == nil {
		return nil, pagination.Page{}, apperror.NotFound("content not found")
	}

	p = p.Normalize()
	comments, err := s.store.ListByContent(ctx, contentID, p)
	if err != nil {
		return nil, pagination.Page{}, err
	}

	ids := make([]string, len(comments))
	for i, c := range comments {
		ids[i] = c.ID
	}
	return comments, pagination.PageOf(ids, p.Limit), nil
}

// Update edits a comment; only its owning member may edit
func (s *Service) Update(ctx context.Context, userID, commentID string, req *UpdateCommentRequest) (*Comment, error) {
	if strings.TrimSpace(req.Body) == "" {
		return nil, apperror.Invalid("comment body must not be empty")
	}

	owner, err := s.access.CommentOwner(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, apperror.NotFound("comment not found")
	}
	if owner.UserID != userID {
		return nil, apperror.Forbidden("only the comment author can edit it")
	}

	comment, err := s.store.UpdateBody(ctx, commentID, req.Body)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, apperror.NotFound("comment not found")
	}
	comment.AuthorUsername = owner.Username
	return comment, nil
}

// Delete removes a comment; only its owning member may delete
func (s *Service) Delete(ctx context.Context, userID, commentID string) error {
	owner, err := s.access.CommentOwner(ctx, commentID)
	if err != nil {
		return err
	}
	if owner == nil {
		return apperror.NotFound("comment not found")
	}
	if owner.UserID != userID {
		return apperror.Forbidden("only the comment author can delete it")
	}

	return s.store.Delete(ctx, commentID)
}

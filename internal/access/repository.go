package access

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fkhayef/grouppic/internal/member"
)

const memberColumns = "m.id, m.group_id, m.user_id, m.username, m.profile_image_url, m.role, m.status, m.join_requested_at, m.joined_at"

// Repository runs the membership lookups behind access decisions. Every query
// filters on status = APPROVED and a non-deleted group, so pending and
// terminal rows can never answer an access question.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new access repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) scanMember(ctx context.Context, query string, args ...interface{}) (*member.Member, error) {
	m := &member.Member{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&m.ID,
		&m.GroupID,
		&m.UserID,
		&m.Username,
		&m.ProfileImageURL,
		&m.Role,
		&m.Status,
		&m.JoinRequestedAt,
		&m.JoinedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve member: %w", err)
	}
	return m, nil
}

// IsOwner reports whether the user is the approved owner of a non-deleted group
func (r *Repository) IsOwner(ctx context.Context, groupID, userID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM members m
			JOIN groups g ON g.id = m.group_id
			WHERE m.group_id = $1 AND m.user_id = $2
			  AND m.role = 'OWNER' AND m.status = 'APPROVED'
			  AND g.deleted_at IS NULL
		)
	`

	var ok bool
	if err := r.db.QueryRowContext(ctx, query, groupID, userID).Scan(&ok); err != nil {
		return false, fmt.Errorf("failed to check ownership: %w", err)
	}
	return ok, nil
}

// ApprovedMember resolves the user's approved membership in a non-deleted
// group, or nil.
func (r *Repository) ApprovedMember(ctx context.Context, groupID, userID string) (*member.Member, error) {
	query := `
		SELECT ` + memberColumns + `
		FROM members m
		JOIN groups g ON g.id = m.group_id
		WHERE m.group_id = $1 AND m.user_id = $2
		  AND m.status = 'APPROVED'
		  AND g.deleted_at IS NULL
	`
	return r.scanMember(ctx, query, groupID, userID)
}

// ContentMember resolves a content item to the user's approved membership in
// the content's group, or nil when the content does not exist or the user has
// no access.
func (r *Repository) ContentMember(ctx context.Context, contentID, userID string) (*member.Member, error) {
	query := `
		SELECT ` + memberColumns + `
		FROM contents c
		JOIN members m ON m.group_id = c.group_id
		JOIN groups g ON g.id = c.group_id
		WHERE c.id = $1 AND m.user_id = $2
		  AND m.status = 'APPROVED'
		  AND g.deleted_at IS NULL
	`
	return r.scanMember(ctx, query, contentID, userID)
}

// CommentOwner resolves a comment to its authoring approved member, or nil.
func (r *Repository) CommentOwner(ctx context.Context, commentID string) (*member.Member, error) {
	query := `
		SELECT ` + memberColumns + `
		FROM comments c
		JOIN members m ON m.id = c.member_id
		WHERE c.id = $1 AND m.status = 'APPROVED'
	`
	return r.scanMember(ctx, query, commentID)
}

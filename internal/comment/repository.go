package comment

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fkhayef/grouppic/pkg/id"
	"github.com/fkhayef/grouppic/pkg/pagination"
)

// Repository handles comment data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new comment repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new comment
func (r *Repository) Create(ctx context.Context, contentID, memberID, body string) (*Comment, error) {
	query := `
		INSERT INTO comments (id, content_id, member_id, body)
		VALUES ($1, $2, $3, $4)
		RETURNING id, content_id, member_id, body, created_at, updated_at
	`

	comment := &Comment{}
	err := r.db.QueryRowContext(ctx, query, id.New(), contentID, memberID, body).Scan(
		&comment.ID,
		&comment.ContentID,
		&comment.MemberID,
		&comment.Body,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	return comment, nil
}

// GetByID retrieves a comment with its author's username
func (r *Repository) GetByID(ctx context.Context, commentID string) (*Comment, error) {
	query := `
		SELECT c.id, c.content_id, c.member_id, c.body, c.created_at, c.updated_at, m.username
		FROM comments c
		JOIN members m ON m.id = c.member_id
		WHERE c.id = $1
	`

	comment := &Comment{}
	err := r.db.QueryRowContext(ctx, query, commentID).Scan(
		&comment.ID,
		&comment.ContentID,
		&comment.MemberID,
		&comment.Body,
		&comment.CreatedAt,
		&comment.UpdatedAt,
		&comment.AuthorUsername,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}

	return comment, nil
}

// ListByContent retrieves a content item's comments, cursor-paged by comment id
func (r *Repository) ListByContent(ctx context.Context, contentID string, p pagination.Params) ([]*Comment, error) {
	query := fmt.Sprintf(`
		SELECT c.id, c.content_id, c.member_id, c.body, c.created_at, c.updated_at, m.username
		FROM comments c
		JOIN members m ON m.id = c.member_id
		WHERE c.content_id = $1
		  AND ($2 = '' OR c.id %s $2)
		ORDER BY c.id %s
		LIMIT $3
	`, p.Comparator(), p.SortDirection())

	rows, err := r.db.QueryContext(ctx, query, contentID, p.Cursor, p.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []*Comment
	for rows.Next() {
		comment := &Comment{}
		if err := rows.Scan(
			&comment.ID,
			&comment.ContentID,
			&comment.MemberID,
			&comment.Body,
			&comment.CreatedAt,
			&comment.UpdatedAt,
			&comment.AuthorUsername,
		); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate comments: %w", err)
	}

	return comments, nil
}

// UpdateBody modifies a comment's body
func (r *Repository) UpdateBody(ctx context.Context, commentID, body string) (*Comment, error) {
	query := `
		UPDATE comments
		SET body = $2, updated_at = now()
		WHERE id = $1
		RETURNING id, content_id, member_id, body, created_at, updated_at
	`

	comment := &Comment{}
	err := r.db.QueryRowContext(ctx, query, commentID, body).Scan(
		&comment.ID,
		&comment.ContentID,
		&comment.MemberID,
		&comment.Body,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}

	return comment, nil
}

// Delete removes a comment
func (r *Repository) Delete(ctx context.Context, commentID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, commentID)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("comment not found")
	}

	return nil
}

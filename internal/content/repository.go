package content

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fkhayef/grouppic/pkg/id"
	"github.com/fkhayef/grouppic/pkg/pagination"
)

// Repository handles content data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new content repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new content item
func (r *Repository) Create(ctx context.Context, groupID, memberID string, req *CreateContentRequest) (*Content, error) {
	query := `
		INSERT INTO contents (id, group_id, member_id, media_url, caption)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, group_id, member_id, media_url, caption, created_at
	`

	content := &Content{}
	err := r.db.QueryRowContext(ctx, query, id.New(), groupID, memberID, req.MediaURL, req.Caption).Scan(
		&content.ID,
		&content.GroupID,
		&content.MemberID,
		&content.MediaURL,
		&content.Caption,
		&content.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create content: %w", err)
	}

	return content, nil
}

// GetByID retrieves a content item with its author's username
func (r *Repository) GetByID(ctx context.Context, contentID string) (*Content, error) {
	query := `
		SELECT c.id, c.group_id, c.member_id, c.media_url, c.caption, c.created_at, m.username
		FROM contents c
		JOIN members m ON m.id = c.member_id
		WHERE c.id = $1
	`

	content := &Content{}
	err := r.db.QueryRowContext(ctx, query, contentID).Scan(
		&content.ID,
		&content.GroupID,
		&content.MemberID,
		&content.MediaURL,
		&content.Caption,
		&content.CreatedAt,
		&content.AuthorUsername,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get content: %w", err)
	}

	return content, nil
}

// ListByGroup retrieves a group's content feed, cursor-paged by content id
func (r *Repository) ListByGroup(ctx context.Context, groupID string, p pagination.Params) ([]*Content, error) {
	query := fmt.Sprintf(`
		SELECT c.id, c.group_id, c.member_id, c.media_url, c.caption, c.created_at, m.username
		FROM contents c
		JOIN members m ON m.id = c.member_id
		WHERE c.group_id = $1
		  AND ($2 = '' OR c.id %s $2)
		ORDER BY c.id %s
		LIMIT $3
	`, p.Comparator(), p.SortDirection())

	rows, err := r.db.QueryContext(ctx, query, groupID, p.Cursor, p.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list contents: %w", err)
	}
	defer rows.Close()

	var contents []*Content
	for rows.Next() {
		content := &Content{}
		if err := rows.Scan(
			&content.ID,
			&content.GroupID,
			&content.MemberID,
			&content.MediaURL,
			&content.Caption,
			&content.CreatedAt,
			&content.AuthorUsername,
		); err != nil {
			return nil, fmt.Errorf("failed to scan content: %w", err)
		}
		contents = append(contents, content)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contents: %w", err)
	}

	return contents, nil
}

// Delete removes a content item
func (r *Repository) Delete(ctx context.Context, contentID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM contents WHERE id = $1`, contentID)
	if err != nil {
		return fmt.Errorf("failed to delete content: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("content not found")
	}

	return nil
}

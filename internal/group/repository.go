package group

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/fkhayef/grouppic/pkg/id"
	"github.com/fkhayef/grouppic/pkg/pagination"
)

// Repository handles group data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new group repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// OwnerProfile carries the profile data copied into the owner member row.
type OwnerProfile struct {
	UserID          string
	Username        string
	ProfileImageURL *string
}

// CreateWithOwner inserts a group and its owner member in one transaction, so
// a group can never exist without exactly one approved owner.
func (r *Repository) CreateWithOwner(ctx context.Context, name string, owner OwnerProfile) (*Group, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	group := &Group{}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO groups (id, name)
		VALUES ($1, $2)
		RETURNING id, name, invitation_code, created_at, updated_at, deleted_at
	`, id.New(), name).Scan(
		&group.ID,
		&group.Name,
		&group.InvitationCode,
		&group.CreatedAt,
		&group.UpdatedAt,
		&group.DeletedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO members (id, group_id, user_id, username, profile_image_url, role, status, join_requested_at, joined_at)
		VALUES ($1, $2, $3, $4, $5, 'OWNER', 'APPROVED', now(), now())
	`, id.New(), group.ID, owner.UserID, owner.Username, owner.ProfileImageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create owner member: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return group, nil
}

// GetByID retrieves a group by its ID, including soft-deleted groups.
// Callers filter deletion where it matters.
func (r *Repository) GetByID(ctx context.Context, groupID string) (*Group, error) {
	query := `
		SELECT id, name, invitation_code, created_at, updated_at, deleted_at
		FROM groups
		WHERE id = $1
	`

	group := &Group{}
	err := r.db.QueryRowContext(ctx, query, groupID).Scan(
		&group.ID,
		&group.Name,
		&group.InvitationCode,
		&group.CreatedAt,
		&group.UpdatedAt,
		&group.DeletedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	return group, nil
}

// GetByInvitationCode resolves an invitation code to its group. Soft-deleted
// groups never resolve.
func (r *Repository) GetByInvitationCode(ctx context.Context, code string) (*Group, error) {
	query := `
		SELECT id, name, invitation_code, created_at, updated_at, deleted_at
		FROM groups
		WHERE invitation_code = $1 AND deleted_at IS NULL
	`

	group := &Group{}
	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&group.ID,
		&group.Name,
		&group.InvitationCode,
		&group.CreatedAt,
		&group.UpdatedAt,
		&group.DeletedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get group by invitation code: %w", err)
	}

	return group, nil
}

// UpdateName modifies a group's name
func (r *Repository) UpdateName(ctx context.Context, groupID, name string) (*Group, error) {
	query := `
		UPDATE groups
		SET name = $2, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING id, name, invitation_code, created_at, updated_at, deleted_at
	`

	group := &Group{}
	err := r.db.QueryRowContext(ctx, query, groupID, name).Scan(
		&group.ID,
		&group.Name,
		&group.InvitationCode,
		&group.CreatedAt,
		&group.UpdatedAt,
		&group.DeletedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update group: %w", err)
	}

	return group, nil
}

// SoftDelete marks a group as deleted without removing its rows
func (r *Repository) SoftDelete(ctx context.Context, groupID string) (bool, error) {
	query := `UPDATE groups SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, groupID)
	if err != nil {
		return false, fmt.Errorf("failed to delete group: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// ListByUserID retrieves the non-deleted groups where the user is an approved
// member, cursor-paged by group id.
func (r *Repository) ListByUserID(ctx context.Context, userID string, p pagination.Params) ([]*Group, error) {
	query := fmt.Sprintf(`
		SELECT g.id, g.name, g.invitation_code, g.created_at, g.updated_at, g.deleted_at
		FROM groups g
		JOIN members m ON g.id = m.group_id
		WHERE m.user_id = $1 AND m.status = 'APPROVED' AND g.deleted_at IS NULL
		  AND ($2 = '' OR g.id %s $2)
		ORDER BY g.id %s
		LIMIT $3
	`, p.Comparator(), p.SortDirection())

	rows, err := r.db.QueryContext(ctx, query, userID, p.Cursor, p.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*Group
	for rows.Next() {
		group := &Group{}
		if err := rows.Scan(
			&group.ID,
			&group.Name,
			&group.InvitationCode,
			&group.CreatedAt,
			&group.UpdatedAt,
			&group.DeletedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	return groups, nil
}

// SetInvitationCodeIfAbsent assigns a code only when the group has none,
// returning the stored group. A nil group with nil error means another writer
// got there first (or the group is gone); the caller should re-read.
func (r *Repository) SetInvitationCodeIfAbsent(ctx context.Context, groupID, code string) (*Group, error) {
	return r.setCode(ctx, `
		UPDATE groups
		SET invitation_code = $2
		WHERE id = $1 AND deleted_at IS NULL AND invitation_code IS NULL
		RETURNING id, name, invitation_code, created_at, updated_at, deleted_at
	`, groupID, code)
}

// ReplaceInvitationCode atomically swaps the group's code. The old code stops
// resolving in the same statement.
func (r *Repository) ReplaceInvitationCode(ctx context.Context, groupID, code string) (*Group, error) {
	return r.setCode(ctx, `
		UPDATE groups
		SET invitation_code = $2
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING id, name, invitation_code, created_at, updated_at, deleted_at
	`, groupID, code)
}

func (r *Repository) setCode(ctx context.Context, query, groupID, code string) (*Group, error) {
	group := &Group{}
	err := r.db.QueryRowContext(ctx, query, groupID, code).Scan(
		&group.ID,
		&group.Name,
		&group.InvitationCode,
		&group.CreatedAt,
		&group.UpdatedAt,
		&group.DeletedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, ErrCodeTaken
		}
		return nil, fmt.Errorf("failed to set invitation code: %w", err)
	}

	return group, nil
}

// ClearInvitationCode removes the group's code so it stops resolving
func (r *Repository) ClearInvitationCode(ctx context.Context, groupID string) (bool, error) {
	query := `
		UPDATE groups
		SET invitation_code = NULL
		WHERE id = $1 AND deleted_at IS NULL AND invitation_code IS NOT NULL
	`

	result, err := r.db.ExecContext(ctx, query, groupID)
	if err != nil {
		return false, fmt.Errorf("failed to clear invitation code: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

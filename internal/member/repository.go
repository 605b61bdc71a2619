package member

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/fkhayef/grouppic/pkg/id"
	"github.com/fkhayef/grouppic/pkg/pagination"
)

const memberColumns = "id, group_id, user_id, username, profile_image_url, role, status, join_requested_at, joined_at"

// Repository handles member data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new member repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func scanMember(row interface{ Scan(...interface{}) error }) (*Member, error) {
	m := &Member{}
	err := row.Scan(
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
		return nil, err
	}
	return m, nil
}

// InsertPending creates a pending join request row. The partial unique index
// on active (group_id, user_id) rejects a second active row, which surfaces
// as ErrActiveMemberExists — this is what closes the duplicate-join race.
func (r *Repository) InsertPending(ctx context.Context, m *Member) (*Member, error) {
	query := `
		INSERT INTO members (id, group_id, user_id, username, profile_image_url, role, status, join_requested_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		RETURNING ` + memberColumns

	created, err := scanMember(r.db.QueryRowContext(ctx, query,
		id.New(), m.GroupID, m.UserID, m.Username, m.ProfileImageURL, RoleMember, StatusPending,
	))
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, ErrActiveMemberExists
		}
		return nil, fmt.Errorf("failed to insert member: %w", err)
	}

	return created, nil
}

// GetByID retrieves a member row within a group
func (r *Repository) GetByID(ctx context.Context, groupID, memberID string) (*Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1 AND group_id = $2`

	m, err := scanMember(r.db.QueryRowContext(ctx, query, memberID, groupID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	return m, nil
}

// GetActiveByGroupAndUser retrieves the single active (pending or approved)
// row for a (group, user) pair. Terminal history rows are ignored.
func (r *Repository) GetActiveByGroupAndUser(ctx context.Context, groupID, userID string) (*Member, error) {
	query := `
		SELECT ` + memberColumns + `
		FROM members
		WHERE group_id = $1 AND user_id = $2 AND status IN ('PENDING', 'APPROVED')
	`

	m, err := scanMember(r.db.QueryRowContext(ctx, query, groupID, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	return m, nil
}

// Transition describes a conditional status update.
type Transition struct {
	From Status
	To   Status
	// MemberOnly additionally requires role = MEMBER, guarding the owner row
	// against drop-out/leave even under concurrent ownership changes.
	MemberOnly bool
	// SetJoinedAt stamps joined_at, used on the transition into approved.
	SetJoinedAt bool
}

// ApplyTransition performs a conditional status update: the write only happens
// if the row's current status (and role, when MemberOnly) still matches the
// expected precondition. A nil member with nil error means zero rows matched —
// the caller distinguishes not-found from a lost race.
func (r *Repository) ApplyTransition(ctx context.Context, groupID, memberID string, t Transition) (*Member, error) {
	query := `
		UPDATE members
		SET status = $1,
		    joined_at = CASE WHEN $2 THEN now() ELSE joined_at END
		WHERE id = $3 AND group_id = $4 AND status = $5
		  AND ($6 = false OR role = 'MEMBER')
		RETURNING ` + memberColumns

	m, err := scanMember(r.db.QueryRowContext(ctx, query,
		t.To, t.SetJoinedAt, memberID, groupID, t.From, t.MemberOnly,
	))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to transition member: %w", err)
	}

	return m, nil
}

// TransferOwnership demotes the current owner and promotes the target in one
// transaction. Both updates are conditional; if either row changed underneath
// (owner left the role, target lost approval) the transaction aborts and
// false is returned.
func (r *Repository) TransferOwnership(ctx context.Context, groupID, ownerMemberID, targetMemberID string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE members SET role = 'MEMBER'
		WHERE id = $1 AND group_id = $2 AND role = 'OWNER' AND status = 'APPROVED'
	`, ownerMemberID, groupID)
	if err != nil {
		return false, fmt.Errorf("failed to demote owner: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	} else if n == 0 {
		return false, nil
	}

	res, err = tx.ExecContext(ctx, `
		UPDATE members SET role = 'OWNER'
		WHERE id = $1 AND group_id = $2 AND role = 'MEMBER' AND status = 'APPROVED'
	`, targetMemberID, groupID)
	if err != nil {
		return false, fmt.Errorf("failed to promote member: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	} else if n == 0 {
		return false, nil
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return true, nil
}

// ListFilter narrows a member listing.
type ListFilter struct {
	Status    *Status
	MemberIDs []string
}

// List retrieves a group's members, optionally filtered by status or by a set
// of member ids, cursor-paged by member id.
func (r *Repository) List(ctx context.Context, groupID string, filter ListFilter, p pagination.Params) ([]*Member, error) {
	query := fmt.Sprintf(`
		SELECT `+memberColumns+`
		FROM members
		WHERE group_id = $1
		  AND ($2 = '' OR id %s $2)
		  AND ($3::text IS NULL OR status = $3)
		  AND ($4::text[] IS NULL OR id = ANY($4))
		ORDER BY id %s
		LIMIT $5
	`, p.Comparator(), p.SortDirection())

	var status interface{}
	if filter.Status != nil {
		status = string(*filter.Status)
	}
	var memberIDs interface{}
	if len(filter.MemberIDs) > 0 {
		memberIDs = pq.Array(filter.MemberIDs)
	}

	rows, err := r.db.QueryContext(ctx, query, groupID, p.Cursor, status, memberIDs, p.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	return members, nil
}

package user

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/fkhayef/grouppic/pkg/id"
)

// Repository handles user data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new user repository with database dependency injected
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user into the database
func (r *Repository) Create(ctx context.Context, req *CreateUserRequest) (*User, error) {
	query := `
		INSERT INTO users (id, username, email, profile_image_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id, username, email, profile_image_url, created_at
	`

	user := &User{}
	err := r.db.QueryRowContext(ctx, query, id.New(), req.Username, req.Email, req.ProfileImageURL).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.ProfileImageURL,
		&user.CreatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetByID retrieves a user by their ID
func (r *Repository) GetByID(ctx context.Context, userID string) (*User, error) {
	query := `
		SELECT id, username, email, profile_image_url, created_at
		FROM users
		WHERE id = $1
	`

	user := &User{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.ProfileImageURL,
		&user.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// Update modifies an existing user's profile
func (r *Repository) Update(ctx context.Context, userID string, req *UpdateUserRequest) (*User, error) {
	query := `
		UPDATE users
		SET username = COALESCE($2, username),
		    profile_image_url = COALESCE($3, profile_image_url)
		WHERE id = $1
		RETURNING id, username, email, profile_image_url, created_at
	`

	user := &User{}
	err := r.db.QueryRowContext(ctx, query, userID, req.Username, req.ProfileImageURL).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.ProfileImageURL,
		&user.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

package group

import "time"

// Group represents a photo-sharing group in the system
type Group struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	InvitationCode *string    `json:"invitation_code,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
}

// Deleted reports whether the group has been soft-deleted.
func (g *Group) Deleted() bool {
	return g.DeletedAt != nil
}

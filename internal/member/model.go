package member

import "time"

// Status represents the lifecycle state of a membership.
//
// pending and approved are active states; rejected, dropped-out and left are
// terminal and kept as history. Only approved rows ever grant access.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusApproved   Status = "APPROVED"
	StatusRejected   Status = "REJECTED"
	StatusDroppedOut Status = "DROPPED_OUT"
	StatusLeft       Status = "LEFT"
)

// Active reports whether the status still occupies the (group, user) slot.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusApproved
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusDroppedOut, StatusLeft:
		return true
	}
	return false
}

// Role represents a member's role within a group
type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleMember Role = "MEMBER"
)

// Member represents a user's membership in a group
type Member struct {
	ID              string     `json:"id"`
	GroupID         string     `json:"group_id"`
	UserID          string     `json:"user_id"`
	Username        string     `json:"username"`
	ProfileImageURL *string    `json:"profile_image_url,omitempty"`
	Role            Role       `json:"role"`
	Status          Status     `json:"status"`
	JoinRequestedAt time.Time  `json:"join_requested_at"`
	JoinedAt        *time.Time `json:"joined_at,omitempty"`
}

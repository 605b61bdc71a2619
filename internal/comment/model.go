package comment

import "time"

// Comment represents a comment on a content item
type Comment struct {
	ID        string     `json:"id"`
	ContentID string     `json:"content_id"`
	MemberID  string     `json:"member_id"`
	Body      string     `json:"body"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`

	// Populated from JOIN
	AuthorUsername string `json:"author_username,omitempty"`
}

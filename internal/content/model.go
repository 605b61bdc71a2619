package content

import "time"

// Content represents a media post inside a group
type Content struct {
	ID        string    `json:"id"`
	GroupID   string    `json:"group_id"`
	MemberID  string    `json:"member_id"`
	MediaURL  string    `json:"media_url"`
	Caption   *string   `json:"caption,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// Populated from JOIN
	AuthorUsername string `json:"author_username,omitempty"`
}

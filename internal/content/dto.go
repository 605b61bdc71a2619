package content

// CreateContentRequest represents the request to post content to a group
type CreateContentRequest struct {
	MediaURL string  `json:"media_url" validate:"required,url"`
	Caption  *string `json:"caption,omitempty" validate:"omitempty,max=500"`
}

// ContentResponse represents the response for a content item
type ContentResponse struct {
	ID             string  `json:"id"`
	GroupID        string  `json:"group_id"`
	MemberID       string  `json:"member_id"`
	AuthorUsername string  `json:"author_username,omitempty"`
	MediaURL       string  `json:"media_url"`
	Caption        *string `json:"caption,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

// ToResponse converts a Content model to a ContentResponse DTO
func (c *Content) ToResponse() *ContentResponse {
	return &ContentResponse{
		ID:             c.ID,
		GroupID:        c.GroupID,
		MemberID:       c.MemberID,
		AuthorUsername: c.AuthorUsername,
		MediaURL:       c.MediaURL,
		Caption:        c.Caption,
		CreatedAt:      c.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

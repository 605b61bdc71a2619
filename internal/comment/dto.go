package comment

// CreateCommentRequest represents the request to comment on content
type CreateCommentRequest struct {
	Body string `json:"body" validate:"required,min=1,max=1000"`
}

// UpdateCommentRequest represents the request to edit a comment
type UpdateCommentRequest struct {
	Body string `json:"body" validate:"required,min=1,max=1000"`
}

// CommentResponse represents the response for a comment
type CommentResponse struct {
	ID             string `json:"id"`
	ContentID      string `json:"content_id"`
	MemberID       string `json:"member_id"`
	AuthorUsername string `json:"author_username,omitempty"`
	Body           string `json:"body"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at,omitempty"`
}

// ToResponse converts a Comment model to a CommentResponse DTO
func (c *Comment) ToResponse() *CommentResponse {
	resp := &CommentResponse{
		ID:             c.ID,
		ContentID:      c.ContentID,
		MemberID:       c.MemberID,
		AuthorUsername: c.AuthorUsername,
		Body:           c.Body,
		CreatedAt:      c.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if c.UpdatedAt != nil {
		resp.UpdatedAt = c.UpdatedAt.Format("2006-01-02T15:04:05Z")
	}
	return resp
}

package group

// CreateGroupRequest represents the request to create a new group
type CreateGroupRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// UpdateGroupRequest represents the request to update a group
type UpdateGroupRequest struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
}

// GroupResponse represents the response for a group
type GroupResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// InvitationCodeResponse represents the response for an invitation code
type InvitationCodeResponse struct {
	GroupID        string `json:"group_id"`
	InvitationCode string `json:"invitation_code"`
}

// ToResponse converts a Group model to a GroupResponse DTO
func (g *Group) ToResponse() *GroupResponse {
	resp := &GroupResponse{
		ID:        g.ID,
		Name:      g.Name,
		CreatedAt: g.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if g.UpdatedAt != nil {
		resp.UpdatedAt = g.UpdatedAt.Format("2006-01-02T15:04:05Z")
	}
	return resp
}

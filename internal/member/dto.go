package member

// JoinGroupRequest represents the request to join a group by invitation code
type JoinGroupRequest struct {
	InvitationCode string `json:"invitation_code" validate:"required"`
}

// MemberResponse represents a member in API responses
type MemberResponse struct {
	ID              string  `json:"id"`
	GroupID         string  `json:"group_id"`
	UserID          string  `json:"user_id"`
	Username        string  `json:"username"`
	ProfileImageURL *string `json:"profile_image_url,omitempty"`
	Role            Role    `json:"role"`
	Status          Status  `json:"status"`
	JoinRequestedAt string  `json:"join_requested_at"`
	JoinedAt        string  `json:"joined_at,omitempty"`
}

// ToResponse converts a Member model to a MemberResponse DTO
func (m *Member) ToResponse() *MemberResponse {
	resp := &MemberResponse{
		ID:              m.ID,
		GroupID:         m.GroupID,
		UserID:          m.UserID,
		Username:        m.Username,
		ProfileImageURL: m.ProfileImageURL,
		Role:            m.Role,
		Status:          m.Status,
		JoinRequestedAt: m.JoinRequestedAt.Format("2006-01-02T15:04:05Z"),
	}
	if m.JoinedAt != nil {
		resp.JoinedAt = m.JoinedAt.Format("2006-01-02T15:04:05Z")
	}
	return resp
}

package user

// CreateUserRequest represents the request to create a new user
type CreateUserRequest struct {
	Username        string  `json:"username" validate:"required,min=1,max=50"`
	Email           string  `json:"email" validate:"required,email"`
	ProfileImageURL *string `json:"profile_image_url,omitempty"`
}

// UpdateUserRequest represents the request to update a user profile
type UpdateUserRequest struct {
	Username        *string `json:"username,omitempty" validate:"omitempty,min=1,max=50"`
	ProfileImageURL *string `json:"profile_image_url,omitempty"`
}

// UserResponse represents the response for a user
type UserResponse struct {
	ID              string  `json:"id"`
	Username        string  `json:"username"`
	Email           string  `json:"email"`
	ProfileImageURL *string `json:"profile_image_url,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

// ToResponse converts a User model to a UserResponse DTO
func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		ProfileImageURL: u.ProfileImageURL,
		CreatedAt:       u.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

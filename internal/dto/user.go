package dto

// UserResponse is the public view of a user. Avatar is a resolved signed URL
// when present.
type UserResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
	Type      string `json:"type"`
}

// UpdateUserRequest is the profile update payload.
type UpdateUserRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

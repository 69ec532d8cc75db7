package dto

// RegisterRequest creates a new account. Type must be STUDENT or EDUCATOR.
type RegisterRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Type      string `json:"type" binding:"required,oneof=STUDENT EDUCATOR"`
}

// LoginRequest authenticates with email and password.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest exchanges a refresh token for a new token pair.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// ActivateRequest verifies the mailed activation code.
type ActivateRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

// RequestPasswordChangeRequest asks for a password-change code to be mailed.
type RequestPasswordChangeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ChangePasswordRequest sets a new password using a mailed code.
type ChangePasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required,len=6"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// TokenResponse carries the issued token pair.
type TokenResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	ExpiresIn    int          `json:"expiresIn"` // access token TTL in seconds
	User         UserResponse `json:"user"`
}

package auth

import (
	"time"

	"github.com/example/task-tracker/domain/apperr"
	domain "github.com/example/task-tracker/domain/user"
)

// UserPayload is the client-safe projection of a user. The password hash is
// deliberately absent from the type so it cannot leak through serialization.
type UserPayload struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toUserPayload(u *domain.User) *UserPayload {
	return &UserPayload{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// RegisterRequest is the register service request.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse is the register service response. Expected failures
// travel in Err rather than as transport errors so their tags survive the
// service-container boundary.
type RegisterResponse struct {
	User *UserPayload  `json:"user,omitempty"`
	Err  *apperr.Error `json:"err,omitempty"`
}

// LoginRequest is the login service request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the login service response.
type LoginResponse struct {
	User  *UserPayload  `json:"user,omitempty"`
	Token string        `json:"token,omitempty"`
	Err   *apperr.Error `json:"err,omitempty"`
}

// ValidateTokenRequest is the validate-token service request.
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// ValidateTokenResponse is the validate-token service response.
type ValidateTokenResponse struct {
	Claims *domain.Claims `json:"claims,omitempty"`
	Err    *apperr.Error  `json:"err,omitempty"`
}

// GetUserRequest is the get-user service request.
type GetUserRequest struct {
	UserID string `json:"user_id"`
}

// GetUserResponse is the get-user service response.
type GetUserResponse struct {
	User *UserPayload  `json:"user,omitempty"`
	Err  *apperr.Error `json:"err,omitempty"`
}

// UpdateProfileRequest is the update-profile service request. Nil fields are
// left untouched.
type UpdateProfileRequest struct {
	UserID    string  `json:"user_id"`
	Name      *string `json:"name,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	Password  *string `json:"password,omitempty"`
}

// UpdateProfileResponse is the update-profile service response.
type UpdateProfileResponse struct {
	User *UserPayload  `json:"user,omitempty"`
	Err  *apperr.Error `json:"err,omitempty"`
}

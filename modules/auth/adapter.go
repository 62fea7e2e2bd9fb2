package auth

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/example/task-tracker/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// AuthPort is the interface other modules use to access auth functionality.
// Every method returns either a result or a tagged *apperr.Error.
type AuthPort interface {
	Register(ctx context.Context, req RegisterRequest) (*UserPayload, error)
	Login(ctx context.Context, req LoginRequest) (*UserPayload, string, error)
	ValidateToken(ctx context.Context, token string) (*domain.Claims, error)
	GetUser(ctx context.Context, userID string) (*UserPayload, error)
	UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*UserPayload, error)
}

// AuthAdapter implements AuthPort over the service container.
type AuthAdapter struct {
	container mono.ServiceContainer
}

// NewAuthAdapter creates a new AuthAdapter.
func NewAuthAdapter(container mono.ServiceContainer) *AuthAdapter {
	return &AuthAdapter{
		container: container,
	}
}

func (a *AuthAdapter) call(ctx context.Context, service string, req, resp any) error {
	if err := helper.CallRequestReplyService[any, any](
		ctx,
		a.container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return fmt.Errorf("%s request failed: %w", service, err)
	}
	return nil
}

// Register creates a new user account.
func (a *AuthAdapter) Register(ctx context.Context, req RegisterRequest) (*UserPayload, error) {
	var resp RegisterResponse
	if err := a.call(ctx, "register", &req, &resp); err != nil {
		return nil, err
	}
	if resp.Err != nil {
		return nil, resp.Err
	}
	return resp.User, nil
}

// Login authenticates a user and returns the user with a session token.
func (a *AuthAdapter) Login(ctx context.Context, req LoginRequest) (*UserPayload, string, error) {
	var resp LoginResponse
	if err := a.call(ctx, "login", &req, &resp); err != nil {
		return nil, "", err
	}
	if resp.Err != nil {
		return nil, "", resp.Err
	}
	return resp.User, resp.Token, nil
}

// ValidateToken verifies a session token and returns the caller identity.
func (a *AuthAdapter) ValidateToken(ctx context.Context, token string) (*domain.Claims, error) {
	req := ValidateTokenRequest{Token: token}
	var resp ValidateTokenResponse
	if err := a.call(ctx, "validate-token", &req, &resp); err != nil {
		return nil, err
	}
	if resp.Err != nil {
		return nil, resp.Err
	}
	return resp.Claims, nil
}

// GetUser retrieves a user by ID.
func (a *AuthAdapter) GetUser(ctx context.Context, userID string) (*UserPayload, error) {
	req := GetUserRequest{UserID: userID}
	var resp GetUserResponse
	if err := a.call(ctx, "get-user", &req, &resp); err != nil {
		return nil, err
	}
	if resp.Err != nil {
		return nil, resp.Err
	}
	return resp.User, nil
}

// UpdateProfile applies a partial update to the caller's profile.
func (a *AuthAdapter) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*UserPayload, error) {
	var resp UpdateProfileResponse
	if err := a.call(ctx, "update-profile", &req, &resp); err != nil {
		return nil, err
	}
	if resp.Err != nil {
		return nil, resp.Err
	}
	return resp.User, nil
}

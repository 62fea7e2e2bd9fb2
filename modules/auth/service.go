package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/example/task-tracker/domain/apperr"
	domain "github.com/example/task-tracker/domain/user"
	"github.com/google/uuid"
)

const (
	minPasswordLen = 8
	// bcrypt silently truncates inputs past 72 bytes, so longer passwords
	// are rejected rather than partially hashed.
	maxPasswordLen = 72
	maxNameLen     = 100
)

// AuthService handles registration, login and profile management.
type AuthService struct {
	repo   *UserRepository
	hasher *PasswordHasher
	tokens *TokenManager
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo *UserRepository, hasher *PasswordHasher, tokens *TokenManager) *AuthService {
	return &AuthService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
	}
}

// Register creates a new user account. Expected failures come back as
// *apperr.Error; anything else is a store failure.
func (s *AuthService) Register(_ context.Context, name, email, password string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	if fields := validateRegistration(name, email, password); len(fields) > 0 {
		return nil, apperr.Validation(fields)
	}

	exists, err := s.repo.EmailExists(email)
	if err != nil {
		return nil, fmt.Errorf("check email existence: %w", err)
	}
	if exists {
		return nil, apperr.Conflict("Email is already registered")
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(user); err != nil {
		// Unique-index race between the existence check and the insert.
		if errors.Is(err, ErrUserExists) {
			return nil, apperr.Conflict("Email is already registered")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login authenticates a user and mints a session token. Unknown email and
// wrong password return the identical unauthenticated error so neither case
// confirms whether an account exists.
func (s *AuthService) Login(_ context.Context, email, password string) (*domain.User, string, error) {
	email = normalizeEmail(email)

	user, err := s.repo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", invalidCredentials()
		}
		return nil, "", fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, "", invalidCredentials()
	}

	token, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	return user, token, nil
}

// ValidateToken verifies a session token and returns the caller identity.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*domain.Claims, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, apperr.Unauthenticated()
	}

	return &domain.Claims{
		UserID: claims.UserID,
		Email:  claims.Email,
	}, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(_ context.Context, userID string) (*domain.User, error) {
	user, err := s.repo.FindByID(userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// UpdateProfile applies a partial update to a user. The password is
// re-hashed only when a new plaintext value is supplied; updates that leave
// the password alone never touch the stored digest.
func (s *AuthService) UpdateProfile(_ context.Context, userID string, name, avatarURL, password *string) (*domain.User, error) {
	fields := map[string]string{}
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			fields["name"] = "Name is required"
		} else if utf8.RuneCountInString(trimmed) > maxNameLen {
			fields["name"] = "Name must be at most 100 characters"
		}
	}
	if password != nil {
		if msg := passwordError(*password); msg != "" {
			fields["password"] = msg
		}
	}
	if len(fields) > 0 {
		return nil, apperr.Validation(fields)
	}

	user, err := s.repo.FindByID(userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if name != nil {
		user.Name = strings.TrimSpace(*name)
	}
	if avatarURL != nil {
		user.AvatarURL = *avatarURL
	}
	if password != nil {
		hash, err := s.hasher.Hash(*password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}
	user.UpdatedAt = time.Now()

	if err := s.repo.Update(user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	return user, nil
}

func validateRegistration(name, email, password string) map[string]string {
	fields := map[string]string{}

	if name == "" {
		fields["name"] = "Name is required"
	} else if utf8.RuneCountInString(name) > maxNameLen {
		fields["name"] = "Name must be at most 100 characters"
	}

	if email == "" {
		fields["email"] = "Email is required"
	} else if _, err := mail.ParseAddress(email); err != nil {
		fields["email"] = "Email is invalid"
	}

	if msg := passwordError(password); msg != "" {
		fields["password"] = msg
	}

	return fields
}

func passwordError(password string) string {
	if len(password) < minPasswordLen {
		return "Password must be at least 8 characters"
	}
	if len(password) > maxPasswordLen {
		return "Password must be at most 72 characters"
	}
	return ""
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func invalidCredentials() *apperr.Error {
	return &apperr.Error{
		Code:    apperr.CodeUnauthenticated,
		Message: "Invalid email or password",
	}
}

package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/example/task-tracker/config"
	"github.com/example/task-tracker/domain/apperr"
	domain "github.com/example/task-tracker/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/gorm"
)

// AuthModule provides authentication services over the shared store handle
// constructed by the composition root.
type AuthModule struct {
	cfg     *config.Config
	db      *gorm.DB
	service *AuthService
}

// Compile-time interface checks.
var _ mono.Module = (*AuthModule)(nil)
var _ mono.ServiceProviderModule = (*AuthModule)(nil)
var _ mono.HealthCheckableModule = (*AuthModule)(nil)

// NewModule creates a new AuthModule. The database handle is injected rather
// than opened here so all modules share one long-lived connection pool.
func NewModule(cfg *config.Config, db *gorm.DB) *AuthModule {
	return &AuthModule{
		cfg: cfg,
		db:  db,
	}
}

// Name returns the module name.
func (m *AuthModule) Name() string {
	return "auth"
}

// Start migrates the user schema and wires the service.
func (m *AuthModule) Start(_ context.Context) error {
	if err := m.db.AutoMigrate(&domain.User{}); err != nil {
		return fmt.Errorf("migrate users: %w", err)
	}

	repo := NewUserRepository(m.db)
	hasher := NewPasswordHasher()
	tokens := NewTokenManager(TokenConfig{
		Secret: m.cfg.JWTSecret,
		TTL:    m.cfg.TokenTTL,
		Issuer: m.cfg.JWTIssuer,
	})

	m.service = NewAuthService(repo, hasher, tokens)

	log.Println("[auth] Module started")
	return nil
}

// Stop shuts down the module. The shared database handle is closed by the
// composition root, not here.
func (m *AuthModule) Stop(_ context.Context) error {
	log.Println("[auth] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *AuthModule) Health(_ context.Context) mono.HealthStatus {
	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get database connection: %v", err),
		}
	}
	if err := sqlDB.Ping(); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *AuthModule) RegisterServices(container mono.ServiceContainer) error {
	services := map[string]func() error{
		"register": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "register", json.Unmarshal, json.Marshal, m.handleRegister)
		},
		"login": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "login", json.Unmarshal, json.Marshal, m.handleLogin)
		},
		"validate-token": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "validate-token", json.Unmarshal, json.Marshal, m.handleValidateToken)
		},
		"get-user": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "get-user", json.Unmarshal, json.Marshal, m.handleGetUser)
		},
		"update-profile": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "update-profile", json.Unmarshal, json.Marshal, m.handleUpdateProfile)
		},
	}

	for name, register := range services {
		if err := register(); err != nil {
			return fmt.Errorf("register %s service: %w", name, err)
		}
	}

	log.Printf("[auth] Registered services: register, login, validate-token, get-user, update-profile")
	return nil
}

func (m *AuthModule) handleRegister(ctx context.Context, req RegisterRequest, _ *mono.Msg) (RegisterResponse, error) {
	user, err := m.service.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		return RegisterResponse{Err: asAppError("register", err)}, nil
	}
	return RegisterResponse{User: toUserPayload(user)}, nil
}

func (m *AuthModule) handleLogin(ctx context.Context, req LoginRequest, _ *mono.Msg) (LoginResponse, error) {
	user, token, err := m.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		return LoginResponse{Err: asAppError("login", err)}, nil
	}
	return LoginResponse{User: toUserPayload(user), Token: token}, nil
}

func (m *AuthModule) handleValidateToken(ctx context.Context, req ValidateTokenRequest, _ *mono.Msg) (ValidateTokenResponse, error) {
	claims, err := m.service.ValidateToken(ctx, req.Token)
	if err != nil {
		return ValidateTokenResponse{Err: asAppError("validate-token", err)}, nil
	}
	return ValidateTokenResponse{Claims: claims}, nil
}

func (m *AuthModule) handleGetUser(ctx context.Context, req GetUserRequest, _ *mono.Msg) (GetUserResponse, error) {
	user, err := m.service.GetUser(ctx, req.UserID)
	if err != nil {
		return GetUserResponse{Err: asAppError("get-user", err)}, nil
	}
	return GetUserResponse{User: toUserPayload(user)}, nil
}

func (m *AuthModule) handleUpdateProfile(ctx context.Context, req UpdateProfileRequest, _ *mono.Msg) (UpdateProfileResponse, error) {
	user, err := m.service.UpdateProfile(ctx, req.UserID, req.Name, req.AvatarURL, req.Password)
	if err != nil {
		return UpdateProfileResponse{Err: asAppError("update-profile", err)}, nil
	}
	return UpdateProfileResponse{User: toUserPayload(user)}, nil
}

// asAppError converts a service error into its tagged form for transport.
// Untagged errors are store or runtime failures: they are logged here and
// replaced with a generic internal error.
func asAppError(op string, err error) *apperr.Error {
	if ae, ok := err.(*apperr.Error); ok {
		return ae
	}
	log.Printf("[auth] %s failed: %v", op, err)
	return apperr.Internal()
}

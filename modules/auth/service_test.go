package auth

import (
	"context"
	"testing"
	"time"

	"github.com/example/task-tracker/domain/apperr"
)

func newTestService(t *testing.T) *AuthService {
	t.Helper()

	repo := NewUserRepository(setupTestDB(t))
	hasher := NewPasswordHasher()
	tokens := NewTokenManager(testTokenConfig())
	return NewAuthService(repo, hasher, tokens)
}

func TestAuthService_Register(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Alice", "Alice@Example.COM", "password123")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if user.ID == "" {
		t.Error("Register() returned empty id")
	}
	if user.Email != "alice@example.com" {
		t.Errorf("email = %v, want lowercased alice@example.com", user.Email)
	}
	if user.PasswordHash == "password123" || user.PasswordHash == "" {
		t.Error("password was not hashed")
	}
}

func TestAuthService_RegisterValidation(t *testing.T) {
	tests := []struct {
		name      string
		userName  string
		email     string
		password  string
		wantField string
	}{
		{
			name:      "missing name",
			userName:  "",
			email:     "a@example.com",
			password:  "password123",
			wantField: "name",
		},
		{
			name:      "invalid email",
			userName:  "Alice",
			email:     "not-an-email",
			password:  "password123",
			wantField: "email",
		},
		{
			name:      "short password",
			userName:  "Alice",
			email:     "a@example.com",
			password:  "short",
			wantField: "password",
		},
		{
			name:      "over-long password",
			userName:  "Alice",
			email:     "a@example.com",
			password:  string(make([]byte, 73)),
			wantField: "password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t)

			_, err := svc.Register(context.Background(), tt.userName, tt.email, tt.password)
			ae, ok := err.(*apperr.Error)
			if !ok {
				t.Fatalf("Register() error = %v, want *apperr.Error", err)
			}
			if ae.Code != apperr.CodeValidation {
				t.Errorf("code = %v, want validation_failed", ae.Code)
			}
			if _, present := ae.Fields[tt.wantField]; !present {
				t.Errorf("fields = %v, want entry for %q", ae.Fields, tt.wantField)
			}
		})
	}
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Alice", "dup@example.com", "password123"); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	_, err := svc.Register(ctx, "Bob", "DUP@example.com", "password456")
	ae, ok := err.(*apperr.Error)
	if !ok {
		t.Fatalf("second Register() error = %v, want *apperr.Error", err)
	}
	if ae.Code != apperr.CodeConflict {
		t.Errorf("code = %v, want conflict", ae.Code)
	}
}

func TestAuthService_LoginUniformFailure(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Alice", "alice@example.com", "password123"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	wrongPassword := loginErr(t, svc, "alice@example.com", "wrong-password")
	unknownEmail := loginErr(t, svc, "nobody@example.com", "password123")

	// Neither failure mode may reveal whether the account exists.
	if wrongPassword.Code != apperr.CodeUnauthenticated {
		t.Errorf("wrong password code = %v, want unauthenticated", wrongPassword.Code)
	}
	if unknownEmail.Code != wrongPassword.Code || unknownEmail.Message != wrongPassword.Message {
		t.Errorf("failure bodies differ: %+v vs %+v", unknownEmail, wrongPassword)
	}
}

func loginErr(t *testing.T, svc *AuthService, email, password string) *apperr.Error {
	t.Helper()

	_, _, err := svc.Login(context.Background(), email, password)
	if err == nil {
		t.Fatalf("Login(%q) succeeded, want failure", email)
	}
	ae, ok := err.(*apperr.Error)
	if !ok {
		t.Fatalf("Login(%q) error = %v, want *apperr.Error", email, err)
	}
	return ae
}

func TestAuthService_LoginRoundTrip(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "Alice", "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	user, token, err := svc.Login(ctx, "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if user.ID != registered.ID {
		t.Errorf("login user id = %v, want %v", user.ID, registered.ID)
	}

	// A freshly minted token resolves back to exactly this identity.
	claims, err := svc.ValidateToken(ctx, token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.UserID != registered.ID || claims.Email != registered.Email {
		t.Errorf("claims = %+v, want id %v email %v", claims, registered.ID, registered.Email)
	}
}

func TestAuthService_ValidateTokenRejectsGarbage(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.ValidateToken(context.Background(), "garbage")
	ae, ok := err.(*apperr.Error)
	if !ok {
		t.Fatalf("ValidateToken() error = %v, want *apperr.Error", err)
	}
	if ae.Code != apperr.CodeUnauthenticated {
		t.Errorf("code = %v, want unauthenticated", ae.Code)
	}
}

func TestAuthService_UpdateProfileKeepsHashWithoutPassword(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Alice", "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	originalHash := user.PasswordHash

	name := "Alice Updated"
	updated, err := svc.UpdateProfile(ctx, user.ID, &name, nil, nil)
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}

	if updated.Name != "Alice Updated" {
		t.Errorf("name = %v, want Alice Updated", updated.Name)
	}
	// No new plaintext was supplied, so the digest must be untouched.
	if updated.PasswordHash != originalHash {
		t.Error("password hash changed on a profile update without a password")
	}
}

func TestAuthService_UpdateProfileRehashesNewPassword(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Alice", "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	originalHash := user.PasswordHash

	newPassword := "brand-new-password"
	updated, err := svc.UpdateProfile(ctx, user.ID, nil, nil, &newPassword)
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}

	if updated.PasswordHash == originalHash {
		t.Error("password hash unchanged after password update")
	}

	if _, _, err := svc.Login(ctx, "alice@example.com", "brand-new-password"); err != nil {
		t.Errorf("Login() with new password error = %v", err)
	}
	if _, _, err := svc.Login(ctx, "alice@example.com", "password123"); err == nil {
		t.Error("Login() with old password still succeeds")
	}
}

func TestAuthService_GetUserNotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.GetUser(context.Background(), "missing-id")
	ae, ok := err.(*apperr.Error)
	if !ok {
		t.Fatalf("GetUser() error = %v, want *apperr.Error", err)
	}
	if ae.Code != apperr.CodeNotFound {
		t.Errorf("code = %v, want not_found", ae.Code)
	}
}

func TestAuthService_TokenExpiry(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	hasher := NewPasswordHasher()
	tokens := NewTokenManager(TokenConfig{
		Secret: "test-secret-key",
		TTL:    -time.Minute,
		Issuer: "test-issuer",
	})
	svc := NewAuthService(repo, hasher, tokens)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Alice", "alice@example.com", "password123"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, token, err := svc.Login(ctx, "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	_, err = svc.ValidateToken(ctx, token)
	ae, ok := err.(*apperr.Error)
	if !ok {
		t.Fatalf("ValidateToken() error = %v, want *apperr.Error", err)
	}
	if ae.Code != apperr.CodeUnauthenticated {
		t.Errorf("code = %v, want unauthenticated", ae.Code)
	}
}

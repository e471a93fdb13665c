package service

import (
	"context"
	"errors"
	"testing"

	"github.com/mmynk/budgetsync/internal/auth"
)

func TestAuthServiceRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, token, err := env.auth.Register(ctx, "Alice", "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if token == "" {
		t.Error("Expected a session token on register")
	}
	if user.PasswordHash == "password123" {
		t.Error("Password must not be stored in plaintext")
	}

	loggedIn, token, err := env.auth.Login(ctx, "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if loggedIn.ID != user.ID {
		t.Errorf("Login returned wrong user: got %s, want %s", loggedIn.ID, user.ID)
	}
	if token == "" {
		t.Error("Expected a session token on login")
	}
}

func TestAuthServiceLoginFailuresAreUniform(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.registerUser(t, "Alice", "alice@example.com")

	_, _, wrongPassword := env.auth.Login(ctx, "alice@example.com", "not-the-password")
	_, _, unknownEmail := env.auth.Login(ctx, "nobody@example.com", "password123")

	if !errors.Is(wrongPassword, auth.ErrInvalidCredentials) {
		t.Errorf("Wrong password: expected ErrInvalidCredentials, got %v", wrongPassword)
	}
	if !errors.Is(unknownEmail, auth.ErrInvalidCredentials) {
		t.Errorf("Unknown email: expected ErrInvalidCredentials, got %v", unknownEmail)
	}
	// Same error either way, so callers cannot probe registered emails.
	if wrongPassword.Error() != unknownEmail.Error() {
		t.Errorf("Login errors differ: %q vs %q", wrongPassword, unknownEmail)
	}
}

func TestAuthServiceRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.registerUser(t, "Alice", "alice@example.com")

	if _, _, err := env.auth.Register(ctx, "Imposter", "alice@example.com", "password123"); !errors.Is(err, auth.ErrEmailExists) {
		t.Errorf("Duplicate email: expected ErrEmailExists, got %v", err)
	}
	if _, _, err := env.auth.Register(ctx, "Bob", "bob@example.com", "short"); !errors.Is(err, auth.ErrWeakPassword) {
		t.Errorf("Short password: expected ErrWeakPassword, got %v", err)
	}
	if _, _, err := env.auth.Register(ctx, "", "carol@example.com", "password123"); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("Missing name: expected ErrInvalidRequest, got %v", err)
	}
}

func TestAuthServiceUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	aliceID := env.registerUser(t, "Alice", "alice@example.com")
	env.registerUser(t, "Bob", "bob@example.com")

	t.Run("update name and password", func(t *testing.T) {
		name := "Alice Smith"
		password := "newpassword456"
		user, err := env.auth.UpdateProfile(ctx, aliceID, ProfileUpdate{Name: &name, Password: &password})
		if err != nil {
			t.Fatalf("UpdateProfile failed: %v", err)
		}
		if user.Name != "Alice Smith" {
			t.Errorf("Name not updated: got %s", user.Name)
		}

		if _, _, err := env.auth.Login(ctx, "alice@example.com", "newpassword456"); err != nil {
			t.Errorf("Login with new password failed: %v", err)
		}
		if _, _, err := env.auth.Login(ctx, "alice@example.com", "password123"); err == nil {
			t.Error("Login with old password should fail")
		}
	})

	t.Run("weak new password rejected", func(t *testing.T) {
		password := "short"
		if _, err := env.auth.UpdateProfile(ctx, aliceID, ProfileUpdate{Password: &password}); !errors.Is(err, auth.ErrWeakPassword) {
			t.Errorf("Expected ErrWeakPassword, got %v", err)
		}
	})

	t.Run("email conflict", func(t *testing.T) {
		email := "bob@example.com"
		if _, err := env.auth.UpdateProfile(ctx, aliceID, ProfileUpdate{Email: &email}); !errors.Is(err, auth.ErrEmailExists) {
			t.Errorf("Expected ErrEmailExists, got %v", err)
		}
	})

	t.Run("get profile", func(t *testing.T) {
		user, err := env.auth.GetProfile(ctx, aliceID)
		if err != nil {
			t.Fatalf("GetProfile failed: %v", err)
		}
		if user.Email != "alice@example.com" {
			t.Errorf("Email changed unexpectedly: got %s", user.Email)
		}

		if _, err := env.auth.GetProfile(ctx, "nonexistent-id"); !errors.Is(err, ErrNotVisible) {
			t.Errorf("Expected ErrNotVisible for unknown user, got %v", err)
		}
	})
}

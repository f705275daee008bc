package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mmynk/tripsplit/internal/models"
)

// memUserStorage is an in-memory UserStorage for tests.
type memUserStorage struct {
	byEmail map[string]*models.User
	byID    map[string]*models.User
}

func newMemUserStorage() *memUserStorage {
	return &memUserStorage{
		byEmail: make(map[string]*models.User),
		byID:    make(map[string]*models.User),
	}
}

func (m *memUserStorage) CreateUser(ctx context.Context, user *models.User) error {
	if _, exists := m.byEmail[user.Email]; exists {
		return errors.New("email already exists")
	}
	m.byEmail[user.Email] = user
	m.byID[user.ID] = user
	return nil
}

func (m *memUserStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.byEmail[email], nil
}

func (m *memUserStorage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return m.byID[id], nil
}

func TestPasswordAuthenticator(t *testing.T) {
	storage := newMemUserStorage()
	authenticator := NewPasswordAuthenticator(storage)
	ctx := context.Background()

	t.Run("register hashes the password", func(t *testing.T) {
		user, err := authenticator.Register(ctx, "alice@example.com", "Alice", "correct-horse")
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if user.PasswordHash == "correct-horse" || user.PasswordHash == "" {
			t.Error("Expected password to be stored hashed")
		}
		if user.Email != "alice@example.com" {
			t.Errorf("Email = %s, want alice@example.com", user.Email)
		}
	})

	t.Run("register rejects weak passwords", func(t *testing.T) {
		_, err := authenticator.Register(ctx, "bob@example.com", "Bob", "short")
		if !errors.Is(err, ErrWeakPassword) {
			t.Errorf("Register error = %v, want ErrWeakPassword", err)
		}
	})

	t.Run("register rejects invalid email", func(t *testing.T) {
		if _, err := authenticator.Register(ctx, "not-an-email", "X", "long-enough"); err == nil {
			t.Error("Expected error for invalid email")
		}
	})

	t.Run("register rejects duplicate email", func(t *testing.T) {
		_, err := authenticator.Register(ctx, "alice@example.com", "Alice 2", "another-pass")
		if !errors.Is(err, ErrEmailExists) {
			t.Errorf("Register error = %v, want ErrEmailExists", err)
		}
	})

	t.Run("email is normalized for registration and login", func(t *testing.T) {
		_, err := authenticator.Register(ctx, "  Cara@Example.COM ", "Cara", "caras-password")
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		user, err := authenticator.Authenticate(ctx, "cara@example.com", "caras-password")
		if err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}
		if user.Email != "cara@example.com" {
			t.Errorf("Email = %s, want normalized cara@example.com", user.Email)
		}
	})

	t.Run("authenticate verifies the password", func(t *testing.T) {
		if _, err := authenticator.Authenticate(ctx, "alice@example.com", "correct-horse"); err != nil {
			t.Errorf("Authenticate failed: %v", err)
		}
		_, err := authenticator.Authenticate(ctx, "alice@example.com", "wrong-password")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Authenticate error = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("authenticate rejects unknown user", func(t *testing.T) {
		_, err := authenticator.Authenticate(ctx, "nobody@example.com", "whatever-pass")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Authenticate error = %v, want ErrInvalidCredentials", err)
		}
	})
}

func TestJWTManager(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)
	user := &models.User{ID: "u1", Email: "alice@example.com", DisplayName: "Alice"}

	token, err := manager.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	claims, err := manager.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.UserID != "u1" || claims.Email != "alice@example.com" || claims.Name != "Alice" {
		t.Errorf("Claims = %+v, want u1/alice@example.com/Alice", claims)
	}

	t.Run("rejects garbage tokens", func(t *testing.T) {
		if _, err := manager.Validate("not.a.token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Validate error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("rejects tokens signed with another secret", func(t *testing.T) {
		other := NewJWTManager("different-secret", time.Hour)
		foreign, err := other.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if _, err := manager.Validate(foreign); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Validate error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("rejects expired tokens", func(t *testing.T) {
		expired := NewJWTManager("test-secret", -time.Minute)
		tok, err := expired.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if _, err := manager.Validate(tok); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Validate error = %v, want ErrInvalidToken", err)
		}
	})
}

package services

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/subtrack-dev/subtrack/internal/domain/label"
	"github.com/subtrack-dev/subtrack/internal/pkg/errors"
	"github.com/subtrack-dev/subtrack/internal/pkg/logger"
	"github.com/subtrack-dev/subtrack/internal/testutil"
)

func userServiceFixture() (*testutil.MockUserRepository, *testutil.MockLabelRepository, label.Service, *UserService) {
	userRepo := testutil.NewMockUserRepository()
	labelRepo := testutil.NewMockLabelRepository()
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	labels := NewLabelService(labelRepo, label.DefaultLimits(), log)
	svc := NewUserService(userRepo, labels, bcrypt.MinCost, log).(*UserService)
	return userRepo, labelRepo, labels, svc
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the account and seeds default labels", func(t *testing.T) {
		_, _, labels, svc := userServiceFixture()

		u, err := svc.Register(ctx, "alice", "alice@example.com", "s3cretpass")
		if err != nil {
			t.Fatalf("Register() returned %v", err)
		}
		if u.ID == 0 {
			t.Error("id was not assigned")
		}
		if u.PasswordHash == "" || u.PasswordHash == "s3cretpass" {
			t.Error("password was not hashed")
		}
		if cost, err := bcrypt.Cost([]byte(u.PasswordHash)); err != nil || cost != bcrypt.MinCost {
			t.Errorf("hash cost = %d (err %v), want %d", cost, err, bcrypt.MinCost)
		}

		seeded, err := labels.List(ctx, u.ID, label.Filter{})
		if err != nil {
			t.Fatal(err)
		}
		if len(seeded) != len(label.DefaultNames) {
			t.Errorf("seeded %d labels, want %d", len(seeded), len(label.DefaultNames))
		}
	})

	t.Run("rejects a registered email", func(t *testing.T) {
		_, _, _, svc := userServiceFixture()

		if _, err := svc.Register(ctx, "alice", "alice@example.com", "s3cretpass"); err != nil {
			t.Fatal(err)
		}
		_, err := svc.Register(ctx, "bob", "alice@example.com", "s3cretpass")
		if !errors.Is(err, errors.ErrCodeConflict) {
			t.Errorf("Register() error = %v, want code %v", err, errors.ErrCodeConflict)
		}
	})

	t.Run("rejects a taken username", func(t *testing.T) {
		_, _, _, svc := userServiceFixture()

		if _, err := svc.Register(ctx, "alice", "alice@example.com", "s3cretpass"); err != nil {
			t.Fatal(err)
		}
		_, err := svc.Register(ctx, "alice", "alice2@example.com", "s3cretpass")
		if !errors.Is(err, errors.ErrCodeConflict) {
			t.Errorf("Register() error = %v, want code %v", err, errors.ErrCodeConflict)
		}
	})
}

func TestUserService_Authenticate(t *testing.T) {
	ctx := context.Background()
	_, _, _, svc := userServiceFixture()

	registered, err := svc.Register(ctx, "alice", "alice@example.com", "s3cretpass")
	if err != nil {
		t.Fatal(err)
	}

	t.Run("valid credentials", func(t *testing.T) {
		u, err := svc.Authenticate(ctx, "alice@example.com", "s3cretpass")
		if err != nil {
			t.Fatalf("Authenticate() returned %v", err)
		}
		if u.ID != registered.ID {
			t.Errorf("authenticated user id = %d, want %d", u.ID, registered.ID)
		}
	})

	t.Run("wrong password and unknown email fail alike", func(t *testing.T) {
		_, badPass := svc.Authenticate(ctx, "alice@example.com", "wrong")

		_, badEmail := svc.Authenticate(ctx, "nobody@example.com", "s3cretpass")

		if !errors.Is(badPass, errors.ErrCodeUnauthorized) {
			t.Errorf("wrong password error = %v, want code %v", badPass, errors.ErrCodeUnauthorized)
		}
		if !errors.Is(badEmail, errors.ErrCodeUnauthorized) {
			t.Errorf("unknown email error = %v, want code %v", badEmail, errors.ErrCodeUnauthorized)
		}
		if badPass.Error() != badEmail.Error() {
			t.Error("failure messages differ between wrong password and unknown email")
		}
	})
}

func TestUserService_GetByID(t *testing.T) {
	ctx := context.Background()
	_, _, _, svc := userServiceFixture()

	u, err := svc.Register(ctx, "alice", "alice@example.com", "s3cretpass")
	if err != nil {
		t.Fatal(err)
	}

	got, err := svc.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID() returned %v", err)
	}
	if got.Email != "alice@example.com" {
		t.Errorf("email = %q, want %q", got.Email, "alice@example.com")
	}

	if _, err := svc.GetByID(ctx, 999); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("GetByID() error = %v, want code %v", err, errors.ErrCodeNotFound)
	}
}

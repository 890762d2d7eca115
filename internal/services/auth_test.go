package services

import (
	"context"
	"errors"
	"testing"

	"radiology-app-server/internal/models"
)

func registerInput() RegisterInput {
	return RegisterInput{
		FullName:        "Jane Doe",
		Email:           "jane@example.com",
		Role:            "technician",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user with hashed password", func(t *testing.T) {
		svc := NewAuthService(&memUserStore{})
		user, err := svc.Register(ctx, registerInput())
		if err != nil {
			t.Fatalf("Register: %v", err)
		}
		if user.ID == "" {
			t.Error("expected user ID to be assigned")
		}
		if user.Email != "jane@example.com" {
			t.Errorf("email = %q, want jane@example.com", user.Email)
		}
		if user.Password == "secret1" {
			t.Error("password stored in plaintext")
		}
		if !user.CheckPassword("secret1") {
			t.Error("stored hash does not verify original password")
		}
		if user.CheckPassword("wrong") {
			t.Error("stored hash verifies wrong password")
		}
	})

	t.Run("normalizes email case", func(t *testing.T) {
		svc := NewAuthService(&memUserStore{})
		in := registerInput()
		in.Email = "  Jane@Example.COM "
		user, err := svc.Register(ctx, in)
		if err != nil {
			t.Fatalf("Register: %v", err)
		}
		if user.Email != "jane@example.com" {
			t.Errorf("email = %q, want lowercase trimmed", user.Email)
		}
	})

	t.Run("rejects duplicate email case-insensitively", func(t *testing.T) {
		svc := NewAuthService(&memUserStore{})
		if _, err := svc.Register(ctx, registerInput()); err != nil {
			t.Fatalf("first Register: %v", err)
		}
		in := registerInput()
		in.Email = "JANE@EXAMPLE.COM"
		if _, err := svc.Register(ctx, in); !errors.Is(err, ErrDuplicateEmail) {
			t.Errorf("err = %v, want ErrDuplicateEmail", err)
		}
	})

	t.Run("validation failures", func(t *testing.T) {
		cases := []struct {
			name   string
			mutate func(*RegisterInput)
			want   string
		}{
			{"missing name", func(in *RegisterInput) { in.FullName = "  " }, "All fields are required!"},
			{"missing email", func(in *RegisterInput) { in.Email = "" }, "All fields are required!"},
			{"admin role rejected", func(in *RegisterInput) { in.Role = "admin" }, "Invalid role selected!"},
			{"unknown role", func(in *RegisterInput) { in.Role = "surgeon" }, "Invalid role selected!"},
			{"password mismatch", func(in *RegisterInput) { in.ConfirmPassword = "secret2" }, "Passwords do not match!"},
			{"short password", func(in *RegisterInput) {
				in.Password = "abc"
				in.ConfirmPassword = "abc"
			}, "Password must be at least 6 characters long!"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				svc := NewAuthService(&memUserStore{})
				in := registerInput()
				tc.mutate(&in)
				_, err := svc.Register(ctx, in)
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("err = %v, want ValidationError", err)
				}
				if verr.Message != tc.want {
					t.Errorf("message = %q, want %q", verr.Message, tc.want)
				}
			})
		}
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	users := &memUserStore{}
	svc := NewAuthService(users)
	if _, err := svc.Register(ctx, registerInput()); err != nil {
		t.Fatalf("Register: %v", err)
	}

	t.Run("valid credentials", func(t *testing.T) {
		p, err := svc.Login(ctx, "Jane@Example.com", "secret1")
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		if p.Email != "jane@example.com" {
			t.Errorf("principal email = %q", p.Email)
		}
		if p.Role != models.RoleTechnician {
			t.Errorf("principal role = %q", p.Role)
		}
		if p.Name != "Jane Doe" {
			t.Errorf("principal name = %q", p.Name)
		}
	})

	t.Run("unknown email and wrong password fail identically", func(t *testing.T) {
		_, errUnknown := svc.Login(ctx, "nobody@example.com", "secret1")
		_, errWrong := svc.Login(ctx, "jane@example.com", "bad-password")
		if !errors.Is(errUnknown, ErrInvalidCredentials) {
			t.Errorf("unknown email err = %v", errUnknown)
		}
		if !errors.Is(errWrong, ErrInvalidCredentials) {
			t.Errorf("wrong password err = %v", errWrong)
		}
		if errUnknown.Error() != errWrong.Error() {
			t.Errorf("errors differ: %q vs %q", errUnknown, errWrong)
		}
	})

	t.Run("blank fields", func(t *testing.T) {
		_, err := svc.Login(ctx, "", "")
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("err = %v, want ValidationError", err)
		}
	})
}

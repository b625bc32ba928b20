package user

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"taskflow/internal/domain/base"
)

func TestNewUser_Success(t *testing.T) {
	id := uuid.New()

	u, err := NewUser(id, "山田 太郎", "taro@example.com", RoleManager)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID != id {
		t.Errorf("expected ID=%s, got=%s", id, u.ID)
	}
	if !u.IsManager() {
		t.Errorf("expected manager role")
	}
}

func TestNewUser_Validation(t *testing.T) {
	cases := []struct {
		name  string
		id    uuid.UUID
		uname string
		email string
		role  Role
	}{
		{"nil id", uuid.Nil, "taro", "taro@example.com", RoleRegular},
		{"blank name", uuid.New(), "  ", "taro@example.com", RoleRegular},
		{"blank email", uuid.New(), "taro", "", RoleRegular},
		{"bad email", uuid.New(), "taro", "taro.example.com", RoleRegular},
		{"bad role", uuid.New(), "taro", "taro@example.com", Role("admin")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewUser(tc.id, tc.uname, tc.email, tc.role)
			if !errors.Is(err, base.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestUser_Updates(t *testing.T) {
	u, err := NewUser(uuid.New(), "taro", "taro@example.com", RoleRegular)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := u.UpdateEmail("not-an-email"); err == nil {
		t.Fatalf("expected error for invalid email")
	}
	if u.Email != "taro@example.com" {
		t.Fatalf("email must be unchanged after failed update")
	}

	if err := u.UpdateName("hanako"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := u.ChangeRole(RoleManager); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Name != "hanako" || !u.IsManager() {
		t.Fatalf("updates not applied: %+v", u)
	}
}

func TestParseRole(t *testing.T) {
	got, err := ParseRole(" Manager ")
	if err != nil || got != RoleManager {
		t.Fatalf("expected manager, got %q (%v)", got, err)
	}
	if _, err := ParseRole("owner"); err == nil {
		t.Fatalf("expected error for unknown role")
	}
}

package user

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"taskflow/internal/domain/base"
)

// Role はユーザーの権限区分。
type Role string

const (
	RoleRegular Role = "regular"
	RoleManager Role = "manager"
)

var emailPattern = regexp.MustCompile(`(?i)^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// User は TaskFlow の利用者。レポート閲覧可否は Role で決まる。
type User struct {
	base.Entity
	Name  string
	Email string
	Role  Role
}

// NewUser は ID を明示してユーザーを生成する。
func NewUser(id uuid.UUID, name, email string, role Role) (*User, error) {
	entity, err := base.NewEntityWithID(id)
	if err != nil {
		return nil, err
	}
	if err := base.RequireText("name", name, 100); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if !isValidRole(role) {
		return nil, base.InvalidEnum("role", string(role))
	}

	return &User{
		Entity: entity,
		Name:   name,
		Email:  email,
		Role:   role,
	}, nil
}

// UpdateName は名前を変更する。同じ値なら何もしない。
func (u *User) UpdateName(name string) error {
	if err := base.RequireText("name", name, 100); err != nil {
		return err
	}
	if u.Name != name {
		u.Name = name
	}
	return nil
}

// UpdateEmail はメールアドレスを変更する。
func (u *User) UpdateEmail(email string) error {
	if err := validateEmail(email); err != nil {
		return err
	}
	if u.Email != email {
		u.Email = email
	}
	return nil
}

// ChangeRole は権限を変更する。
func (u *User) ChangeRole(role Role) error {
	if !isValidRole(role) {
		return base.InvalidEnum("role", string(role))
	}
	if u.Role != role {
		u.Role = role
	}
	return nil
}

// IsManager はレポート閲覧権限を持つかどうか。
func (u *User) IsManager() bool {
	return u.Role == RoleManager
}

// ParseRole は文字列から Role に変換する（大文字小文字は区別しない）。
func ParseRole(raw string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "regular":
		return RoleRegular, nil
	case "manager":
		return RoleManager, nil
	default:
		return "", base.InvalidEnum("role", raw)
	}
}

func validateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return base.Required("email", "email must not be empty")
	}
	if !emailPattern.MatchString(email) {
		return base.Invalid("email", "INVALID_FORMAT", "email format is invalid", &email)
	}
	return nil
}

func isValidRole(r Role) bool {
	switch r {
	case RoleRegular, RoleManager:
		return true
	default:
		return false
	}
}

package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"taskflow/internal/domain/base"
	"taskflow/internal/domain/user"
	"taskflow/internal/usecase/repository"
)

const userColumns = "id, name, email, role"

type userRepository struct {
	uow *unitOfWork
}

var _ repository.UserRepository = (*userRepository)(nil)

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, err := r.get(ctx, liveWhere("id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, base.NotFound("user", id)
	}
	return u, err
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	u, err := r.get(ctx, liveWhere("LOWER(email) = LOWER(?)"), email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &base.Error{Kind: base.KindNotFound, Field: "user", Code: "NOT_FOUND", Message: "user not found"}
	}
	return u, err
}

func (r *userRepository) IsManager(ctx context.Context, id uuid.UUID) (bool, error) {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return u.IsManager(), nil
}

func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	if err := r.ensureEmailFree(ctx, u); err != nil {
		return err
	}
	_, err := r.uow.exec(ctx,
		"INSERT INTO users ("+userColumns+", is_deleted) VALUES (?, ?, ?, ?, FALSE)",
		u.ID, u.Name, u.Email, string(u.Role),
	)
	if isUniqueViolation(err) {
		return emailTaken()
	}
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, u *user.User) error {
	if err := r.ensureEmailFree(ctx, u); err != nil {
		return err
	}
	n, err := r.uow.exec(ctx,
		"UPDATE users SET name = ?, email = ?, role = ?"+liveWhere("id = ?"),
		u.Name, u.Email, string(u.Role), u.ID,
	)
	if isUniqueViolation(err) {
		return emailTaken()
	}
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if n == 0 {
		// MySQL は値が変わらない UPDATE を 0 行と数える
		ok, err := r.uow.exists(ctx, "users", u.ID)
		if err != nil {
			return err
		}
		if !ok {
			return base.NotFound("user", u.ID)
		}
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.uow.softDelete(ctx, "users", id)
}

// ensureEmailFree は重複を先に検出して分かりやすいエラーにする。
// 同時実行時の最終的な判定は uq_users_live_email に任せる。
func (r *userRepository) ensureEmailFree(ctx context.Context, u *user.User) error {
	row, err := r.uow.queryRow(ctx,
		"SELECT COUNT(*) FROM users"+liveWhere("LOWER(email) = LOWER(?)", "id <> ?"),
		u.Email, u.ID,
	)
	if err != nil {
		return err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if n > 0 {
		return emailTaken()
	}
	return nil
}

func emailTaken() error {
	return base.Conflict("email", "email is already registered")
}

func (r *userRepository) get(ctx context.Context, where string, args ...any) (*user.User, error) {
	row, err := r.uow.queryRow(ctx, "SELECT "+userColumns+" FROM users"+where, args...)
	if err != nil {
		return nil, err
	}
	var (
		u    user.User
		role string
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	u.Role = user.Role(role)
	return &u, nil
}

package memory

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"taskflow/internal/domain/base"
	"taskflow/internal/domain/user"
	"taskflow/internal/usecase/repository"
)

type userRepository struct {
	uow *unitOfWork
}

var _ repository.UserRepository = (*userRepository)(nil)

func (r *userRepository) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	st, err := r.uow.read()
	if err != nil {
		return nil, err
	}
	row, ok := liveByID(st.users, id)
	if !ok {
		return nil, base.NotFound("user", id)
	}
	return &row, nil
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*user.User, error) {
	st, err := r.uow.read()
	if err != nil {
		return nil, err
	}
	if row, ok := findByEmail(st, email, uuid.Nil); ok {
		return &row, nil
	}
	return nil, &base.Error{Kind: base.KindNotFound, Field: "user", Code: "NOT_FOUND", Message: "user not found"}
}

func (r *userRepository) IsManager(ctx context.Context, id uuid.UUID) (bool, error) {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return u.IsManager(), nil
}

func (r *userRepository) Create(_ context.Context, u *user.User) error {
	row := *u
	return r.uow.stage(1, func(s *state) error {
		if _, exists := s.users[row.ID]; exists {
			return base.Conflict("user", "user already exists")
		}
		if _, dup := findByEmail(s, row.Email, row.ID); dup {
			return base.Conflict("email", "email is already registered")
		}
		s.users[row.ID] = row
		return nil
	})
}

func (r *userRepository) Update(_ context.Context, u *user.User) error {
	row := *u
	return r.uow.stage(1, func(s *state) error {
		if _, ok := liveByID(s.users, row.ID); !ok {
			return base.NotFound("user", row.ID)
		}
		if _, dup := findByEmail(s, row.Email, row.ID); dup {
			return base.Conflict("email", "email is already registered")
		}
		s.users[row.ID] = row
		return nil
	})
}

func (r *userRepository) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	st, err := r.uow.read()
	if err != nil {
		return false, err
	}
	if _, ok := liveByID(st.users, id); !ok {
		return false, nil
	}
	now := r.uow.store.now()
	err = r.uow.stage(1, func(s *state) error {
		softDelete(s.users, id, now)
		return nil
	})
	return err == nil, err
}

// findByEmail は except 以外の生存ユーザーからメールアドレスで探す（大文字小文字無視）。
func findByEmail(s *state, email string, except uuid.UUID) (user.User, bool) {
	for _, row := range live(s.users, nil) {
		if row.ID != except && strings.EqualFold(row.Email, email) {
			return row, true
		}
	}
	return user.User{}, false
}

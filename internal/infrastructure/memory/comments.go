package memory

import (
	"context"
	"slices"

	"github.com/google/uuid"

	"taskflow/internal/domain/base"
	"taskflow/internal/domain/task"
	"taskflow/internal/usecase/repository"
)

type commentRepository struct {
	uow *unitOfWork
}

var _ repository.CommentRepository = (*commentRepository)(nil)

func (r *commentRepository) GetByID(_ context.Context, id uuid.UUID) (*task.Comment, error) {
	st, err := r.uow.read()
	if err != nil {
		return nil, err
	}
	row, ok := liveByID(st.comments, id)
	if !ok {
		return nil, base.NotFound("comment", id)
	}
	return &row, nil
}

func (r *commentRepository) ListByTask(_ context.Context, taskID uuid.UUID) ([]task.Comment, error) {
	st, err := r.uow.read()
	if err != nil {
		return nil, err
	}
	rows := live(st.comments, func(c task.Comment) bool { return c.TaskID == taskID })
	slices.SortStableFunc(rows, func(a, b task.Comment) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return rows, nil
}

func (r *commentRepository) Create(_ context.Context, c *task.Comment) error {
	row := *c
	return r.uow.stage(1, func(s *state) error {
		if _, exists := s.comments[row.ID]; exists {
			return base.Conflict("comment", "comment already exists")
		}
		s.comments[row.ID] = row
		return nil
	})
}

func (r *commentRepository) Update(_ context.Context, c *task.Comment) error {
	row := *c
	return r.uow.stage(1, func(s *state) error {
		if _, ok := liveByID(s.comments, row.ID); !ok {
			return base.NotFound("comment", row.ID)
		}
		s.comments[row.ID] = row
		return nil
	})
}

func (r *commentRepository) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	st, err := r.uow.read()
	if err != nil {
		return false, err
	}
	if _, ok := liveByID(st.comments, id); !ok {
		return false, nil
	}
	now := r.uow.store.now()
	err = r.uow.stage(1, func(s *state) error {
		softDelete(s.comments, id, now)
		return nil
	})
	return err == nil, err
}

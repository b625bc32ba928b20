package task

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskflow/internal/domain/base"
	"taskflow/internal/usecase/repository"
)

// Delete はタスクを論理削除する。完了済みのタスクは削除できない。
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := base.RequireID("id", id); err != nil {
		return err
	}

	err := repository.Write(ctx, s.Factory, func(uow repository.UnitOfWork) error {
		t, err := uow.Tasks().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := t.ValidateCanDelete(); err != nil {
			return err
		}

		deleted, err := uow.Tasks().Delete(ctx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return base.NotFound("task", id)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.Logger.Info("task deleted", zap.Stringer("task_id", id))
	return nil
}

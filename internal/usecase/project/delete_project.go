package project

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskflow/internal/domain/base"
	domain "taskflow/internal/domain/project"
	"taskflow/internal/usecase/repository"
)

// Delete はプロジェクトを論理削除する。
// 未完了のタスクが残っている場合はルール違反として何もしない。
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := base.RequireID("id", id); err != nil {
		return err
	}

	err := repository.Write(ctx, s.Factory, func(uow repository.UnitOfWork) error {
		if _, err := uow.Projects().GetByID(ctx, id); err != nil {
			return err
		}

		ok, err := domain.NewPolicy(uow.Tasks()).CanDeleteProject(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return base.Violation(domain.ErrHasPendingTasks, "project has pending tasks and cannot be deleted")
		}

		deleted, err := uow.Projects().Delete(ctx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return base.NotFound("project", id)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.Logger.Info("project deleted", zap.Stringer("project_id", id))
	return nil
}

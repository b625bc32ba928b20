package task

import (
	"context"
	"time"

	"github.com/google/uuid"

	"taskflow/internal/domain/base"
	domain "taskflow/internal/domain/task"
	"taskflow/internal/usecase/repository"
)

// DefaultDueWindow は ListDueWithin の既定の範囲。
const DefaultDueWindow = 72 * time.Hour

// ListByProject はプロジェクト内のタスクを作成順に返す。query は nil 可。
func (s *Service) ListByProject(ctx context.Context, projectID uuid.UUID, query *domain.TaskQuery) ([]*TaskDTO, error) {
	if err := base.RequireID("projectId", projectID); err != nil {
		return nil, err
	}
	if query != nil {
		if err := query.Validate(); err != nil {
			return nil, err
		}
	}

	var tasks []*domain.Task
	err := repository.Read(ctx, s.Factory, func(uow repository.UnitOfWork) error {
		if _, err := uow.Projects().GetByID(ctx, projectID); err != nil {
			return err
		}
		var err error
		tasks, err = uow.Tasks().ListByProject(ctx, projectID, query)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toDTOs(tasks), nil
}

// ListOverdue は期日を過ぎた未終了のタスクを期日順に返す。
func (s *Service) ListOverdue(ctx context.Context) ([]*TaskDTO, error) {
	now := s.Now()
	var tasks []*domain.Task
	err := repository.Read(ctx, s.Factory, func(uow repository.UnitOfWork) error {
		var err error
		tasks, err = uow.Tasks().ListOverdue(ctx, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toDTOs(tasks), nil
}

// ListDueWithin は window 以内に期日を迎える未終了のタスクを返す。
// window が 0 以下なら DefaultDueWindow を使う。
func (s *Service) ListDueWithin(ctx context.Context, window time.Duration) ([]*TaskDTO, error) {
	if window <= 0 {
		window = DefaultDueWindow
	}
	now := s.Now()
	var tasks []*domain.Task
	err := repository.Read(ctx, s.Factory, func(uow repository.UnitOfWork) error {
		var err error
		tasks, err = uow.Tasks().ListDueWithin(ctx, now, window)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toDTOs(tasks), nil
}

package task

import (
	"context"

	"github.com/google/uuid"

	"taskflow/internal/domain/base"
	domain "taskflow/internal/domain/task"
	"taskflow/internal/usecase/repository"
)

// GetByID はコメントと履歴を含めてタスクを取得する。
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*TaskDTO, error) {
	if err := base.RequireID("id", id); err != nil {
		return nil, err
	}

	var out *domain.Task
	err := repository.Read(ctx, s.Factory, func(uow repository.UnitOfWork) error {
		t, err := uow.Tasks().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := loadDetails(ctx, uow, t); err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toDTO(out), nil
}

// History はタスクの変更履歴を古い順に返す。
func (s *Service) History(ctx context.Context, id uuid.UUID) ([]HistoryDTO, error) {
	if err := base.RequireID("id", id); err != nil {
		return nil, err
	}

	out := make([]HistoryDTO, 0)
	err := repository.Read(ctx, s.Factory, func(uow repository.UnitOfWork) error {
		if _, err := uow.Tasks().GetByID(ctx, id); err != nil {
			return err
		}
		entries, err := uow.History().ListByTask(ctx, id)
		if err != nil {
			return err
		}
		for _, e := range entries {
			out = append(out, toHistoryDTO(e))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

package task

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskflow/internal/domain/base"
	domain "taskflow/internal/domain/task"
	"taskflow/internal/usecase/repository"
)

// CreateTaskInput はタスク作成ユースケースの入力。
// Priority は空なら Medium として扱う。
type CreateTaskInput struct {
	ProjectID   uuid.UUID
	OwnerUserID uuid.UUID
	Title       string
	Description string
	Priority    string
	DueDate     *time.Time
}

// Create はプロジェクトにタスクを追加する。
// 件数上限は毎回リポジトリの件数クエリで確認してから保存する。
func (s *Service) Create(ctx context.Context, in CreateTaskInput) (*TaskDTO, error) {
	if err := base.RequireID("projectId", in.ProjectID); err != nil {
		return nil, err
	}

	priority := domain.PriorityMedium
	if in.Priority != "" {
		p, err := domain.ParsePriority(in.Priority)
		if err != nil {
			return nil, err
		}
		priority = p
	}

	t, err := domain.NewTask(in.ProjectID, in.OwnerUserID, in.Title, in.Description, priority, in.DueDate, s.Now())
	if err != nil {
		return nil, err
	}

	err = repository.Write(ctx, s.Factory, func(uow repository.UnitOfWork) error {
		p, err := uow.Projects().GetByID(ctx, in.ProjectID)
		if err != nil {
			return err
		}
		count, err := uow.Tasks().CountByProject(ctx, p.ID)
		if err != nil {
			return err
		}
		if err := p.ValidateCanAddTask(t, count); err != nil {
			return err
		}

		if err := uow.Tasks().Create(ctx, t); err != nil {
			return err
		}
		_, err = stageHistory(ctx, uow, t)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("task created",
		zap.Stringer("task_id", t.ID),
		zap.Stringer("project_id", t.ProjectID),
		zap.String("priority", string(t.Priority)),
	)
	return toDTO(t), nil
}

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

// UpdateTaskInput はタスク更新ユースケースの入力。
// HTTP 層から受け取った情報を TaskPatch に変換する。
type UpdateTaskInput struct {
	ExecutorUserID uuid.UUID
	Title          domain.Patch[string]
	Description    domain.Patch[string]
	StatusStr      *string
	PriorityStr    *string
	DueDate        domain.Patch[time.Time]
	CompletedAt    domain.Patch[time.Time]
	Version        *int
}

// toPatch は文字列の Status / Priority を解釈して TaskPatch を組み立てる。
func (in UpdateTaskInput) toPatch() (domain.TaskPatch, error) {
	patch := domain.TaskPatch{
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		CompletedAt: in.CompletedAt,
	}

	// Status / Priority は Usecase 層で Parse
	if in.StatusStr != nil {
		parsed, err := domain.ParseStatus(*in.StatusStr)
		if err != nil {
			return patch, err
		}
		patch.Status = domain.Set(parsed)
	}
	if in.PriorityStr != nil {
		parsed, err := domain.ParsePriority(*in.PriorityStr)
		if err != nil {
			return patch, err
		}
		patch.Priority = domain.Set(parsed)
	}
	return patch, nil
}

// Update は既存タスクを取得し、指定されたフィールドだけを更新する。
// 値が変わらなかった場合は何も書き込まない。
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateTaskInput) (*TaskDTO, error) {
	if err := base.RequireID("id", id); err != nil {
		return nil, err
	}
	if err := base.RequireID("executorUserId", in.ExecutorUserID); err != nil {
		return nil, err
	}
	patch, err := in.toPatch()
	if err != nil {
		return nil, err
	}

	var (
		out     *domain.Task
		changes int
	)
	err = repository.Write(ctx, s.Factory, func(uow repository.UnitOfWork) error {
		existing, err := uow.Tasks().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if in.Version != nil && *in.Version != existing.Version {
			return base.Conflict("task", "task was modified by another request")
		}

		if err := existing.ApplyPatch(patch, in.ExecutorUserID, s.Now()); err != nil {
			return err
		}

		if len(existing.NewHistory()) > 0 {
			if err := uow.Tasks().Update(ctx, existing); err != nil {
				return err
			}
			if changes, err = stageHistory(ctx, uow, existing); err != nil {
				return err
			}
		}

		if err := loadDetails(ctx, uow, existing); err != nil {
			return err
		}
		out = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("task updated",
		zap.Stringer("task_id", id),
		zap.Stringer("executor_user_id", in.ExecutorUserID),
		zap.Int("changes", changes),
	)
	return toDTO(out), nil
}

package task

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskflow/internal/domain/base"
	domain "taskflow/internal/domain/task"
	"taskflow/internal/usecase/repository"
)

// AddCommentInput はコメント追加ユースケースの入力。
type AddCommentInput struct {
	TaskID       uuid.UUID
	AuthorUserID uuid.UUID
	Content      string
}

// AddComment はタスクにコメントを追加し、"Comment Added" の履歴と一緒に保存する。
// 保存後にタスクを読み直してコメント込みで返す。
func (s *Service) AddComment(ctx context.Context, in AddCommentInput) (*TaskDTO, error) {
	if err := base.RequireID("taskId", in.TaskID); err != nil {
		return nil, err
	}
	c, err := domain.NewComment(in.TaskID, in.AuthorUserID, in.Content, s.Now())
	if err != nil {
		return nil, err
	}

	err = repository.Write(ctx, s.Factory, func(uow repository.UnitOfWork) error {
		t, err := uow.Tasks().GetByID(ctx, in.TaskID)
		if err != nil {
			return err
		}
		if err := t.AddComment(c); err != nil {
			return err
		}
		if err := uow.Comments().Create(ctx, c); err != nil {
			return err
		}
		_, err = stageHistory(ctx, uow, t)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("comment added",
		zap.Stringer("task_id", in.TaskID),
		zap.Stringer("comment_id", c.ID),
		zap.Stringer("author_user_id", in.AuthorUserID),
	)
	return s.GetByID(ctx, in.TaskID)
}

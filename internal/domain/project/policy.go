package project

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// PendingTaskChecker は未完了タスクの有無を問い合わせる。
// usecase/repository.TaskRepository が満たす。
type PendingTaskChecker interface {
	HasPendingTasks(ctx context.Context, projectID uuid.UUID) (bool, error)
}

// Policy はプロジェクトをまたぐ判断を行うドメインサービス。
type Policy struct {
	Tasks PendingTaskChecker
}

// NewPolicy は Policy を生成する。
func NewPolicy(tasks PendingTaskChecker) *Policy {
	return &Policy{Tasks: tasks}
}

// CanDeleteProject は Pending / InProgress のタスクが残っていなければ true。
func (p *Policy) CanDeleteProject(ctx context.Context, projectID uuid.UUID) (bool, error) {
	pending, err := p.Tasks.HasPendingTasks(ctx, projectID)
	if err != nil {
		return false, fmt.Errorf("check pending tasks: %w", err)
	}
	return !pending, nil
}

// Package repository はユースケースが依存する永続化の抽象を定義する。
// 実装は infrastructure/memory と infrastructure/sqlstore にある。
//
// すべての読み取りは論理削除済みの行を除外する。
// GetByID は見つからない場合 base.ErrNotFound を返す。
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"taskflow/internal/domain/project"
	"taskflow/internal/domain/task"
	"taskflow/internal/domain/user"
)

// ProjectRepository はプロジェクトの永続化・取得を担当する抽象。
type ProjectRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*project.Project, error)
	ListByOwner(ctx context.Context, ownerUserID uuid.UUID) ([]*project.Project, error)
	Create(ctx context.Context, p *project.Project) error
	// Update は Version が一致しない場合 base.ErrConflict を返す。成功時 p.Version は進む。
	Update(ctx context.Context, p *project.Project) error
	// Delete は未知 ID・削除済みなら false を返す。行は物理削除しない。
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// CompletionCount はオーナーごとの完了タスク数。
type CompletionCount struct {
	OwnerUserID uuid.UUID
	Count       int
}

// TaskRepository はタスクの永続化・取得を担当する抽象。
type TaskRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error)
	// ListByProject は CreatedAt 昇順（同値は ID 昇順）で返す。query は nil 可。
	ListByProject(ctx context.Context, projectID uuid.UUID, query *task.TaskQuery) ([]*task.Task, error)
	Create(ctx context.Context, t *task.Task) error
	Update(ctx context.Context, t *task.Task) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	CountByProject(ctx context.Context, projectID uuid.UUID) (int, error)
	HasPendingTasks(ctx context.Context, projectID uuid.UUID) (bool, error)

	// ListOverdue は期日が今日（UTC）より前で未終了のタスク。
	ListOverdue(ctx context.Context, now time.Time) ([]*task.Task, error)
	// ListDueWithin は now から window 以内に期日を迎える未終了のタスク。
	ListDueWithin(ctx context.Context, now time.Time, window time.Duration) ([]*task.Task, error)
	// ListByDueRange は期日が [from, to] に入るタスク。
	ListByDueRange(ctx context.Context, from, to time.Time) ([]*task.Task, error)
	// CompletedCountsByOwnerSince は since 以降に完了したタスク数をオーナー別に集計する。
	CompletedCountsByOwnerSince(ctx context.Context, since time.Time) ([]CompletionCount, error)
}

// UserRepository はユーザーの永続化・取得を担当する抽象。
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	IsManager(ctx context.Context, id uuid.UUID) (bool, error)
	// Create はメールアドレスが重複する場合 base.ErrConflict を返す。
	Create(ctx context.Context, u *user.User) error
	Update(ctx context.Context, u *user.User) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// CommentRepository はコメントの永続化・取得を担当する抽象。
type CommentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*task.Comment, error)
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]task.Comment, error)
	Create(ctx context.Context, c *task.Comment) error
	Update(ctx context.Context, c *task.Comment) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// HistoryRepository は変更履歴の追記・取得を担当する。更新・削除は持たない。
type HistoryRepository interface {
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]task.HistoryEntry, error)
	Create(ctx context.Context, entries ...task.HistoryEntry) error
}

package task

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "taskflow/internal/domain/task"
	"taskflow/internal/usecase/repository"
)

// TaskDTO はタスクの読み取りモデル。Comments / History は詳細取得時のみ埋まる。
type TaskDTO struct {
	ID          uuid.UUID    `json:"id"`
	ProjectID   uuid.UUID    `json:"projectId"`
	OwnerUserID uuid.UUID    `json:"ownerUserId"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      string       `json:"status"`
	Priority    string       `json:"priority"`
	DueDate     *time.Time   `json:"dueDate"`
	CompletedAt *time.Time   `json:"completedAt"`
	CreatedAt   time.Time    `json:"createdAt"`
	Version     int          `json:"version"`
	Comments    []CommentDTO `json:"comments,omitempty"`
	History     []HistoryDTO `json:"history,omitempty"`
}

// CommentDTO はコメントの読み取りモデル。
type CommentDTO struct {
	ID           uuid.UUID `json:"id"`
	TaskID       uuid.UUID `json:"taskId"`
	AuthorUserID uuid.UUID `json:"authorUserId"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"createdAt"`
}

// HistoryDTO は変更履歴の読み取りモデル。
type HistoryDTO struct {
	ID           uuid.UUID `json:"id"`
	TaskID       uuid.UUID `json:"taskId"`
	AuthorUserID uuid.UUID `json:"authorUserId"`
	FieldName    string    `json:"fieldName"`
	OldValue     *string   `json:"oldValue"`
	NewValue     *string   `json:"newValue"`
	ChangedAt    time.Time `json:"changedAt"`
}

// Service はタスクのユースケースをまとめたもの。
type Service struct {
	Factory repository.Factory
	Logger  *zap.Logger
	Now     func() time.Time
}

// NewService は Service を生成する。logger が nil なら何も出力しない。
func NewService(factory repository.Factory, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		Factory: factory,
		Logger:  logger.Named("task"),
		Now:     time.Now,
	}
}

// stageHistory は t に積まれた未保存の履歴を同じ UnitOfWork に積む。
func stageHistory(ctx context.Context, uow repository.UnitOfWork, t *domain.Task) (int, error) {
	entries := t.NewHistory()
	if len(entries) == 0 {
		return 0, nil
	}
	if err := uow.History().Create(ctx, entries...); err != nil {
		return 0, err
	}
	t.MarkHistorySaved()
	return len(entries), nil
}

// loadDetails はコメントと履歴を別クエリで読み込んで t に設定する。
func loadDetails(ctx context.Context, uow repository.UnitOfWork, t *domain.Task) error {
	comments, err := uow.Comments().ListByTask(ctx, t.ID)
	if err != nil {
		return err
	}
	history, err := uow.History().ListByTask(ctx, t.ID)
	if err != nil {
		return err
	}
	t.Comments = comments
	t.LoadHistory(history)
	return nil
}

func toDTO(t *domain.Task) *TaskDTO {
	dto := &TaskDTO{
		ID:          t.ID,
		ProjectID:   t.ProjectID,
		OwnerUserID: t.OwnerUserID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		DueDate:     t.DueDate,
		CompletedAt: t.CompletedAt,
		CreatedAt:   t.CreatedAt,
		Version:     t.Version,
	}
	for _, c := range t.Comments {
		dto.Comments = append(dto.Comments, toCommentDTO(c))
	}
	for _, h := range t.History {
		dto.History = append(dto.History, toHistoryDTO(h))
	}
	return dto
}

func toDTOs(tasks []*domain.Task) []*TaskDTO {
	out := make([]*TaskDTO, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toDTO(t))
	}
	return out
}

func toCommentDTO(c domain.Comment) CommentDTO {
	return CommentDTO{
		ID:           c.ID,
		TaskID:       c.TaskID,
		AuthorUserID: c.AuthorUserID,
		Content:      c.Content,
		CreatedAt:    c.CreatedAt,
	}
}

func toHistoryDTO(h domain.HistoryEntry) HistoryDTO {
	return HistoryDTO{
		ID:           h.ID,
		TaskID:       h.TaskID,
		AuthorUserID: h.AuthorUserID,
		FieldName:    h.FieldName,
		OldValue:     h.OldValue,
		NewValue:     h.NewValue,
		ChangedAt:    h.ChangedAt,
	}
}

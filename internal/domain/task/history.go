package task

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"taskflow/internal/domain/base"
)

// 履歴に記録するフィールド名。
const (
	FieldTitle        = "Title"
	FieldDescription  = "Description"
	FieldStatus       = "Status"
	FieldPriority     = "Priority"
	FieldDueDate      = "DueDate"
	FieldCompletedAt  = "CompletedAt"
	FieldCommentAdded = "Comment Added"
)

// HistoryTimeLayout は履歴に残す日時の書式（UTC）。
const HistoryTimeLayout = "2006-01-02 15:04:05"

// HistoryEntry はタスクの変更履歴 1 件。追記のみで、更新・論理削除はしない。
type HistoryEntry struct {
	ID           uuid.UUID
	TaskID       uuid.UUID
	AuthorUserID uuid.UUID
	FieldName    string
	OldValue     *string
	NewValue     *string
	ChangedAt    time.Time
}

// NewHistoryEntry は履歴エントリを生成する。
func NewHistoryEntry(taskID uuid.UUID, field string, oldValue, newValue *string, author uuid.UUID, now time.Time) (HistoryEntry, error) {
	if err := base.RequireID("taskId", taskID); err != nil {
		return HistoryEntry{}, err
	}
	if err := base.RequireID("authorUserId", author); err != nil {
		return HistoryEntry{}, err
	}
	if strings.TrimSpace(field) == "" {
		return HistoryEntry{}, base.Required("fieldName", "history field name must not be empty")
	}

	return HistoryEntry{
		ID:           uuid.New(),
		TaskID:       taskID,
		AuthorUserID: author,
		FieldName:    field,
		OldValue:     oldValue,
		NewValue:     newValue,
		ChangedAt:    now.UTC(),
	}, nil
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(HistoryTimeLayout)
	return &s
}

func textValue(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

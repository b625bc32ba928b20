package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"taskflow/internal/domain/task"
	"taskflow/internal/usecase/repository"
)

const historyColumns = "id, task_id, author_user_id, field_name, old_value, new_value, changed_at"

// historyRepository は追記専用。history_entries には tombstone 列が無いので liveWhere は通さない。
type historyRepository struct {
	uow *unitOfWork
}

var _ repository.HistoryRepository = (*historyRepository)(nil)

func (r *historyRepository) ListByTask(ctx context.Context, taskID uuid.UUID) ([]task.HistoryEntry, error) {
	rows, err := r.uow.query(ctx,
		"SELECT "+historyColumns+" FROM history_entries WHERE task_id = ? ORDER BY changed_at ASC, seq ASC",
		taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	out := make([]task.HistoryEntry, 0)
	for rows.Next() {
		var (
			h                  task.HistoryEntry
			oldValue, newValue sql.NullString
		)
		if err := rows.Scan(&h.ID, &h.TaskID, &h.AuthorUserID, &h.FieldName, &oldValue, &newValue, &h.ChangedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history: %w", err)
		}
		h.OldValue = stringPtr(oldValue)
		h.NewValue = stringPtr(newValue)
		h.ChangedAt = h.ChangedAt.UTC()
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return out, nil
}

func (r *historyRepository) Create(ctx context.Context, entries ...task.HistoryEntry) error {
	for _, h := range entries {
		_, err := r.uow.exec(ctx,
			"INSERT INTO history_entries ("+historyColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
			h.ID, h.TaskID, h.AuthorUserID, h.FieldName, nullString(h.OldValue), nullString(h.NewValue), h.ChangedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert history: %w", err)
		}
	}
	return nil
}

package memory

import (
	"context"
	"slices"

	"github.com/google/uuid"

	"taskflow/internal/domain/task"
	"taskflow/internal/usecase/repository"
)

type historyRepository struct {
	uow *unitOfWork
}

var _ repository.HistoryRepository = (*historyRepository)(nil)

func (r *historyRepository) ListByTask(_ context.Context, taskID uuid.UUID) ([]task.HistoryEntry, error) {
	st, err := r.uow.read()
	if err != nil {
		return nil, err
	}
	out := make([]task.HistoryEntry, 0)
	for _, h := range st.history {
		if h.TaskID == taskID {
			out = append(out, h)
		}
	}
	slices.SortStableFunc(out, func(a, b task.HistoryEntry) int { return a.ChangedAt.Compare(b.ChangedAt) })
	return out, nil
}

func (r *historyRepository) Create(_ context.Context, entries ...task.HistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}
	rows := slices.Clone(entries)
	return r.uow.stage(len(rows), func(s *state) error {
		s.history = append(s.history, rows...)
		return nil
	})
}

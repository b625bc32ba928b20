package memory

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"taskflow/internal/domain/base"
	"taskflow/internal/domain/project"
	"taskflow/internal/domain/task"
	"taskflow/internal/usecase/repository"
)

type taskRepository struct {
	uow *unitOfWork
}

var _ repository.TaskRepository = (*taskRepository)(nil)

func (r *taskRepository) GetByID(_ context.Context, id uuid.UUID) (*task.Task, error) {
	st, err := r.uow.read()
	if err != nil {
		return nil, err
	}
	row, ok := liveByID(st.tasks, id)
	if !ok {
		return nil, base.NotFound("task", id)
	}
	return &row, nil
}

func (r *taskRepository) ListByProject(_ context.Context, projectID uuid.UUID, q *task.TaskQuery) ([]*task.Task, error) {
	rows, err := r.filter(func(t task.Task) bool {
		return t.ProjectID == projectID && (q == nil || q.Matches(&t))
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(rows, byCreatedAt)
	if q != nil && q.Limit > 0 && len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}
	return pointers(rows), nil
}

func (r *taskRepository) Create(_ context.Context, t *task.Task) error {
	row := storedTask(t)
	return r.uow.stage(1, func(s *state) error {
		if _, exists := s.tasks[row.ID]; exists {
			return base.Conflict("task", "task already exists")
		}
		// Commit 時の再適用でも上限を検査する
		siblings := live(s.tasks, func(t task.Task) bool { return t.ProjectID == row.ProjectID })
		if len(siblings) >= project.TaskLimit {
			return base.Violation(project.ErrTaskLimitExceeded, fmt.Sprintf("project cannot have more than %d tasks", project.TaskLimit))
		}
		s.tasks[row.ID] = row
		return nil
	})
}

func (r *taskRepository) Update(_ context.Context, t *task.Task) error {
	expected := t.Version
	row := storedTask(t)
	row.Version = expected + 1
	err := r.uow.stage(1, func(s *state) error {
		cur, ok := liveByID(s.tasks, row.ID)
		if !ok {
			return base.NotFound("task", row.ID)
		}
		if cur.Version != expected {
			return base.Conflict("task", "task was modified concurrently")
		}
		s.tasks[row.ID] = row
		return nil
	})
	if err != nil {
		return err
	}
	t.Version = row.Version
	return nil
}

func (r *taskRepository) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	st, err := r.uow.read()
	if err != nil {
		return false, err
	}
	if _, ok := liveByID(st.tasks, id); !ok {
		return false, nil
	}
	now := r.uow.store.now()
	err = r.uow.stage(1, func(s *state) error {
		softDelete(s.tasks, id, now)
		return nil
	})
	return err == nil, err
}

func (r *taskRepository) CountByProject(_ context.Context, projectID uuid.UUID) (int, error) {
	rows, err := r.filter(func(t task.Task) bool { return t.ProjectID == projectID })
	return len(rows), err
}

func (r *taskRepository) HasPendingTasks(_ context.Context, projectID uuid.UUID) (bool, error) {
	rows, err := r.filter(func(t task.Task) bool { return t.ProjectID == projectID && t.IsPending() })
	return len(rows) > 0, err
}

func (r *taskRepository) ListOverdue(_ context.Context, now time.Time) ([]*task.Task, error) {
	rows, err := r.filter(func(t task.Task) bool { return t.IsOverdue(now) })
	if err != nil {
		return nil, err
	}
	slices.SortFunc(rows, byDueDate)
	return pointers(rows), nil
}

func (r *taskRepository) ListDueWithin(_ context.Context, now time.Time, window time.Duration) ([]*task.Task, error) {
	from, to := now.UTC(), now.UTC().Add(window)
	rows, err := r.filter(func(t task.Task) bool {
		return t.IsPending() && inRange(t.DueDate, from, to)
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(rows, byDueDate)
	return pointers(rows), nil
}

func (r *taskRepository) ListByDueRange(_ context.Context, from, to time.Time) ([]*task.Task, error) {
	rows, err := r.filter(func(t task.Task) bool { return inRange(t.DueDate, from, to) })
	if err != nil {
		return nil, err
	}
	slices.SortFunc(rows, byDueDate)
	return pointers(rows), nil
}

func (r *taskRepository) CompletedCountsByOwnerSince(_ context.Context, since time.Time) ([]repository.CompletionCount, error) {
	rows, err := r.filter(func(t task.Task) bool {
		return t.Status == task.StatusCompleted && t.CompletedAt != nil && !t.CompletedAt.Before(since)
	})
	if err != nil {
		return nil, err
	}

	counts := make(map[uuid.UUID]int)
	for _, t := range rows {
		counts[t.OwnerUserID]++
	}
	out := make([]repository.CompletionCount, 0, len(counts))
	for owner, n := range counts {
		out = append(out, repository.CompletionCount{OwnerUserID: owner, Count: n})
	}
	slices.SortFunc(out, func(a, b repository.CompletionCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return bytes.Compare(a.OwnerUserID[:], b.OwnerUserID[:])
	})
	return out, nil
}

func (r *taskRepository) filter(keep func(task.Task) bool) ([]task.Task, error) {
	st, err := r.uow.read()
	if err != nil {
		return nil, err
	}
	return live(st.tasks, keep), nil
}

// storedTask はコメント・履歴を除いた行を返す。これらは別テーブルで扱う。
func storedTask(t *task.Task) task.Task {
	row := *t
	row.Comments = nil
	row.LoadHistory(nil)
	return row
}

func inRange(d *time.Time, from, to time.Time) bool {
	return d != nil && !d.Before(from) && !d.After(to)
}

func byCreatedAt(a, b task.Task) int {
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	return bytes.Compare(a.ID[:], b.ID[:])
}

func byDueDate(a, b task.Task) int {
	if c := a.DueDate.Compare(*b.DueDate); c != 0 {
		return c
	}
	return byCreatedAt(a, b)
}

package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"taskflow/internal/domain/base"
	"taskflow/internal/domain/task"
	"taskflow/internal/usecase/repository"
)

const taskColumns = "id, project_id, owner_user_id, title, description, status, priority, due_date, completed_at, created_at, version"

// activeStatuses は未終了とみなす状態。
var activeStatuses = []any{string(task.StatusPending), string(task.StatusInProgress)}

type taskRepository struct {
	uow *unitOfWork
}

var _ repository.TaskRepository = (*taskRepository)(nil)

func (r *taskRepository) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	row, err := r.uow.queryRow(ctx, "SELECT "+taskColumns+" FROM tasks"+liveWhere("id = ?"), id)
	if err != nil {
		return nil, err
	}
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, base.NotFound("task", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return t, nil
}

func (r *taskRepository) ListByProject(ctx context.Context, projectID uuid.UUID, q *task.TaskQuery) ([]*task.Task, error) {
	query, args := buildListQuery(projectID, q)
	return r.list(ctx, query, args...)
}

// buildListQuery は ListByProject 用の SQL を構築する。
// 戻り値: (SQL文字列, パラメータ配列)
func buildListQuery(projectID uuid.UUID, q *task.TaskQuery) (string, []any) {
	conds := []string{"project_id = ?"}
	args := []any{projectID}

	if q != nil {
		if len(q.Statuses) > 0 {
			conds = append(conds, "status IN ("+placeholders(len(q.Statuses))+")")
			for _, s := range q.Statuses {
				args = append(args, string(s))
			}
		}
		if len(q.Priorities) > 0 {
			conds = append(conds, "priority IN ("+placeholders(len(q.Priorities))+")")
			for _, p := range q.Priorities {
				args = append(args, string(p))
			}
		}
		if q.DueDateFrom != nil {
			conds = append(conds, "due_date >= ?")
			args = append(args, q.DueDateFrom.UTC())
		}
		if q.DueDateTo != nil {
			conds = append(conds, "due_date <= ?")
			args = append(args, q.DueDateTo.UTC())
		}
	}

	query := "SELECT " + taskColumns + " FROM tasks" + liveWhere(conds...) + " ORDER BY created_at ASC, id ASC"
	if q != nil && q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}
	return query, args
}

func (r *taskRepository) Create(ctx context.Context, t *task.Task) error {
	_, err := r.uow.exec(ctx,
		"INSERT INTO tasks ("+taskColumns+", is_deleted) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, FALSE)",
		t.ID, t.ProjectID, t.OwnerUserID, t.Title, t.Description, string(t.Status), string(t.Priority),
		nullTime(t.DueDate), nullTime(t.CompletedAt), t.CreatedAt.UTC(), t.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

func (r *taskRepository) Update(ctx context.Context, t *task.Task) error {
	n, err := r.uow.exec(ctx,
		"UPDATE tasks SET owner_user_id = ?, title = ?, description = ?, status = ?, priority = ?, "+
			"due_date = ?, completed_at = ?, version = ?"+liveWhere("id = ?", "version = ?"),
		t.OwnerUserID, t.Title, t.Description, string(t.Status), string(t.Priority),
		nullTime(t.DueDate), nullTime(t.CompletedAt), t.Version+1, t.ID, t.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if n == 0 {
		return r.uow.missingOrConflict(ctx, "tasks", "task", t.ID)
	}
	t.Version++
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.uow.softDelete(ctx, "tasks", id)
}

func (r *taskRepository) CountByProject(ctx context.Context, projectID uuid.UUID) (int, error) {
	return r.count(ctx, liveWhere("project_id = ?"), projectID)
}

func (r *taskRepository) HasPendingTasks(ctx context.Context, projectID uuid.UUID) (bool, error) {
	args := append([]any{projectID}, activeStatuses...)
	n, err := r.count(ctx, liveWhere("project_id = ?", "status IN ("+placeholders(len(activeStatuses))+")"), args...)
	return n > 0, err
}

func (r *taskRepository) ListOverdue(ctx context.Context, now time.Time) ([]*task.Task, error) {
	args := append([]any{startOfDay(now)}, activeStatuses...)
	return r.list(ctx,
		"SELECT "+taskColumns+" FROM tasks"+
			liveWhere("due_date IS NOT NULL", "due_date < ?", "status IN ("+placeholders(len(activeStatuses))+")")+
			" ORDER BY due_date ASC, created_at ASC, id ASC",
		args...,
	)
}

func (r *taskRepository) ListDueWithin(ctx context.Context, now time.Time, window time.Duration) ([]*task.Task, error) {
	from := now.UTC()
	args := append([]any{from, from.Add(window)}, activeStatuses...)
	return r.list(ctx,
		"SELECT "+taskColumns+" FROM tasks"+
			liveWhere("due_date >= ?", "due_date <= ?", "status IN ("+placeholders(len(activeStatuses))+")")+
			" ORDER BY due_date ASC, created_at ASC, id ASC",
		args...,
	)
}

func (r *taskRepository) ListByDueRange(ctx context.Context, from, to time.Time) ([]*task.Task, error) {
	return r.list(ctx,
		"SELECT "+taskColumns+" FROM tasks"+liveWhere("due_date >= ?", "due_date <= ?")+
			" ORDER BY due_date ASC, created_at ASC, id ASC",
		from.UTC(), to.UTC(),
	)
}

func (r *taskRepository) CompletedCountsByOwnerSince(ctx context.Context, since time.Time) ([]repository.CompletionCount, error) {
	rows, err := r.uow.query(ctx,
		"SELECT owner_user_id, COUNT(*) AS n FROM tasks"+
			liveWhere("status = ?", "completed_at IS NOT NULL", "completed_at >= ?")+
			" GROUP BY owner_user_id ORDER BY n DESC, owner_user_id ASC",
		string(task.StatusCompleted), since.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count completed tasks: %w", err)
	}
	defer rows.Close()

	out := make([]repository.CompletionCount, 0)
	for rows.Next() {
		var c repository.CompletionCount
		if err := rows.Scan(&c.OwnerUserID, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan completion count: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return out, nil
}

func (r *taskRepository) count(ctx context.Context, where string, args ...any) (int, error) {
	row, err := r.uow.queryRow(ctx, "SELECT COUNT(*) FROM tasks"+where, args...)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return n, nil
}

func (r *taskRepository) list(ctx context.Context, query string, args ...any) ([]*task.Task, error) {
	rows, err := r.uow.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	out := make([]*task.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return out, nil
}

func scanTask(s scanner) (*task.Task, error) {
	var (
		t                    task.Task
		status, priority     string
		dueDate, completedAt sql.NullTime
	)
	err := s.Scan(
		&t.ID,
		&t.ProjectID,
		&t.OwnerUserID,
		&t.Title,
		&t.Description,
		&status,
		&priority,
		&dueDate,
		&completedAt,
		&t.CreatedAt,
		&t.Version,
	)
	if err != nil {
		return nil, err
	}
	t.Status = task.Status(status)
	t.Priority = task.Priority(priority)
	t.DueDate = timePtr(dueDate)
	t.CompletedAt = timePtr(completedAt)
	t.CreatedAt = t.CreatedAt.UTC()
	return &t, nil
}

func startOfDay(now time.Time) time.Time {
	u := now.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

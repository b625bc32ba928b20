package task

import (
	"errors"
	"testing"
	"time"

	"taskflow/internal/domain/base"
)

func TestNewTaskQuery_Defaults(t *testing.T) {
	q, err := NewTaskQuery()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Limit != DefaultQueryLimit {
		t.Errorf("expected default limit %d, got=%d", DefaultQueryLimit, q.Limit)
	}
	if len(q.Statuses) != 0 || len(q.Priorities) != 0 || q.DueDateFrom != nil || q.DueDateTo != nil {
		t.Errorf("expected no filters, got %+v", q)
	}
}

func TestNewTaskQuery_Filters(t *testing.T) {
	q, err := NewTaskQuery(
		WithStatusFilter("pending, doing,in_progress"),
		WithPriorityFilter("high"),
		WithDueDateRangeFilter("2025-01-01", "2025-01-31"),
		WithLimit(50),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(q.Statuses) != 2 || q.Statuses[0] != StatusPending || q.Statuses[1] != StatusInProgress {
		t.Errorf("unexpected statuses: %v", q.Statuses)
	}
	if len(q.Priorities) != 1 || q.Priorities[0] != PriorityHigh {
		t.Errorf("unexpected priorities: %v", q.Priorities)
	}
	wantTo := time.Date(2025, 1, 31, 23, 59, 59, 999999999, time.UTC)
	if !q.DueDateTo.Equal(wantTo) {
		t.Errorf("expected dueDateTo=%v, got=%v", wantTo, q.DueDateTo)
	}
	if q.Limit != 50 {
		t.Errorf("expected limit 50, got=%d", q.Limit)
	}
}

func TestNewTaskQuery_Errors(t *testing.T) {
	cases := []struct {
		name string
		opt  TaskQueryOption
		code string
	}{
		{"unknown status", WithStatusFilter("pending,archived"), "INVALID_ENUM"},
		{"unknown priority", WithPriorityFilter("urgent"), "INVALID_ENUM"},
		{"bad date", WithDueDateRangeFilter("2025/01/01", ""), "INVALID_FORMAT"},
		{"reversed range", WithDueDateRangeFilter("2025-02-01", "2025-01-01"), "INVALID_RANGE"},
		{"limit too large", WithLimit(201), "OUT_OF_RANGE"},
		{"negative limit", WithLimit(-1), "OUT_OF_RANGE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTaskQuery(tc.opt)
			var de *base.Error
			if !errors.As(err, &de) || de.Code != tc.code {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
			if !errors.Is(err, base.ErrValidation) {
				t.Fatalf("expected validation kind, got %v", err)
			}
		})
	}
}

func TestTaskQuery_Matches(t *testing.T) {
	task := newTestTask(t)

	q, _ := NewTaskQuery(WithStatusFilter("pending"), WithDueDateRangeFilter("2025-01-02", "2025-01-02"))
	if !q.Matches(task) {
		t.Fatalf("expected match for pending task due 2025-01-02")
	}

	q, _ = NewTaskQuery(WithPriorityFilter("low"))
	if q.Matches(task) {
		t.Fatalf("medium task must not match low filter")
	}

	task.DueDate = nil
	q, _ = NewTaskQuery(WithDueDateRangeFilter("2025-01-01", ""))
	if q.Matches(task) {
		t.Fatalf("task without due date must not match a date range")
	}
}

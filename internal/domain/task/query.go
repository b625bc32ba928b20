package task

import (
	"strings"
	"time"

	"taskflow/internal/domain/base"
)

const (
	DefaultQueryLimit = 200
	MaxQueryLimit     = 200
)

// TaskQuery はプロジェクト内タスク一覧の検索条件を表す Query Object。
// 条件定義のみを担当し、フィルタリング・リミット処理はリポジトリ層に委譲する。
type TaskQuery struct {
	Statuses    []Status
	Priorities  []Priority
	DueDateFrom *time.Time
	DueDateTo   *time.Time
	Limit       int
}

// TaskQueryOption は Query Object の構築オプション。
type TaskQueryOption func(*TaskQuery) error

// NewTaskQuery は Query Object を構築する。
// エラーはバリデーションエラーの場合のみ返す。
func NewTaskQuery(opts ...TaskQueryOption) (*TaskQuery, error) {
	q := &TaskQuery{Limit: DefaultQueryLimit}

	for _, opt := range opts {
		if err := opt(q); err != nil {
			return nil, err
		}
	}

	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}

// WithStatusFilter は status フィルタを設定する（カンマ区切り、重複は除去）。
func WithStatusFilter(raw string) TaskQueryOption {
	return func(q *TaskQuery) error {
		statuses, err := parseList(raw, ParseStatus)
		if err != nil {
			return err
		}
		q.Statuses = statuses
		return nil
	}
}

// WithPriorityFilter は priority フィルタを設定する（カンマ区切り）。
func WithPriorityFilter(raw string) TaskQueryOption {
	return func(q *TaskQuery) error {
		priorities, err := parseList(raw, ParsePriority)
		if err != nil {
			return err
		}
		q.Priorities = priorities
		return nil
	}
}

// WithDueDateRangeFilter は dueDateFrom/To フィルタを設定する（YYYY-MM-DD 形式）。
// To はその日を含むよう 23:59:59.999999999 に正規化する。
func WithDueDateRangeFilter(fromStr, toStr string) TaskQueryOption {
	return func(q *TaskQuery) error {
		if fromStr != "" {
			d, err := time.Parse(time.DateOnly, fromStr)
			if err != nil {
				return base.Invalid("dueDateFrom", "INVALID_FORMAT", "expected YYYY-MM-DD", &fromStr)
			}
			from := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
			q.DueDateFrom = &from
		}
		if toStr != "" {
			d, err := time.Parse(time.DateOnly, toStr)
			if err != nil {
				return base.Invalid("dueDateTo", "INVALID_FORMAT", "expected YYYY-MM-DD", &toStr)
			}
			to := time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 999999999, time.UTC)
			q.DueDateTo = &to
		}
		return nil
	}
}

// WithLimit は limit を設定する。0 は既定値扱い。
func WithLimit(limit int) TaskQueryOption {
	return func(q *TaskQuery) error {
		if limit == 0 {
			q.Limit = DefaultQueryLimit
			return nil
		}
		q.Limit = limit
		return nil
	}
}

// Validate は Query Object の整合性をチェックする。
func (q *TaskQuery) Validate() error {
	if q.Limit < 1 || q.Limit > MaxQueryLimit {
		return &base.Error{
			Kind:    base.KindValidation,
			Field:   "limit",
			Code:    "OUT_OF_RANGE",
			Message: ErrLimitOutOfRange.Error(),
		}
	}
	if q.DueDateFrom != nil && q.DueDateTo != nil && q.DueDateFrom.After(*q.DueDateTo) {
		return base.Invalid("dueDateFrom", "INVALID_RANGE", ErrDueDateFromAfterTo.Error(), nil)
	}
	return nil
}

// Matches は t が条件を満たすかどうか。メモリ実装のフィルタで使う。
func (q *TaskQuery) Matches(t *Task) bool {
	if len(q.Statuses) > 0 && !contains(q.Statuses, t.Status) {
		return false
	}
	if len(q.Priorities) > 0 && !contains(q.Priorities, t.Priority) {
		return false
	}
	if q.DueDateFrom != nil || q.DueDateTo != nil {
		if t.DueDate == nil {
			return false
		}
		if q.DueDateFrom != nil && t.DueDate.Before(*q.DueDateFrom) {
			return false
		}
		if q.DueDateTo != nil && t.DueDate.After(*q.DueDateTo) {
			return false
		}
	}
	return true
}

func parseList[T comparable](raw string, parse func(string) (T, error)) ([]T, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var out []T
	seen := make(map[T]bool)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := parse(part)
		if err != nil {
			return nil, err
		}
		if !seen[v] {
			out = append(out, v)
			seen[v] = true
		}
	}
	return out, nil
}

func contains[T comparable](list []T, v T) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

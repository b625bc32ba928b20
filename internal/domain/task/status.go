package task

import (
	"strings"

	"taskflow/internal/domain/base"
)

// Status はタスクの状態を表す型。
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "InProgress"
	StatusCompleted  Status = "Completed"
	StatusCancelled  Status = "Cancelled"
)

// Priority はタスクの優先度を表す型。
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// IsTerminal は完了・キャンセルのどちらかかどうか。
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// ParseStatus は文字列を Status に変換する。
// 大文字小文字・区切り文字の揺れ（in_progress, in-progress, doing）は吸収し、
// 解釈できない値は INVALID_ENUM の validation error にする。
func ParseStatus(raw string) (Status, error) {
	switch normalizeEnum(raw) {
	case "pending", "todo":
		return StatusPending, nil
	case "inprogress", "doing":
		return StatusInProgress, nil
	case "completed", "done":
		return StatusCompleted, nil
	case "cancelled", "canceled":
		return StatusCancelled, nil
	default:
		return "", base.InvalidEnum("status", raw)
	}
}

// ParsePriority は文字列を Priority に変換する。未知の値はエラー。
func ParsePriority(raw string) (Priority, error) {
	switch normalizeEnum(raw) {
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	default:
		return "", base.InvalidEnum("priority", raw)
	}
}

func normalizeEnum(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(s)
}

func isValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

func isValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

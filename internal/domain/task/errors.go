package task

import (
	"errors"
)

// --- Sentinel Errors ---
// errors.Is で判定可能。base.Violation / base.Invalid で包んで返す。

var (
	// ErrInvalidTransition は終了状態から進行中の状態に戻そうとした場合のエラー。
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrCompletedTaskDeletion は完了済みタスクを削除しようとした場合のエラー。
	ErrCompletedTaskDeletion = errors.New("completed task cannot be deleted")

	// ErrCompletedAtRequired は完了済みタスクの完了日を消そうとした場合のエラー。
	ErrCompletedAtRequired = errors.New("completed task must keep its completion date")

	// ErrPastDate は期日・完了日に過去日を指定した場合のエラー。
	ErrPastDate = errors.New("date must not be in the past")
)

// Query validation errors
var (
	// ErrDueDateFromAfterTo は dueDateFrom > dueDateTo の場合のエラー。
	ErrDueDateFromAfterTo = errors.New("dueDateFrom must not be after dueDateTo")

	// ErrLimitOutOfRange は limit が 1-200 の範囲外の場合のエラー。
	ErrLimitOutOfRange = errors.New("limit must be between 1 and 200")
)

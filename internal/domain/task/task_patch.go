package task

import (
	"time"

	"github.com/google/uuid"

	"taskflow/internal/domain/base"
)

// TaskPatch は部分更新の内容。未指定のフィールドは変更しない。
type TaskPatch struct {
	Title       Patch[string]
	Description Patch[string]
	Status      Patch[Status]
	Priority    Patch[Priority]
	DueDate     Patch[time.Time]
	CompletedAt Patch[time.Time]
}

// IsEmpty はどのフィールドも指定されていないかどうか。
func (p TaskPatch) IsEmpty() bool {
	return !p.Title.IsSet && !p.Description.IsSet && !p.Status.IsSet &&
		!p.Priority.IsSet && !p.DueDate.IsSet && !p.CompletedAt.IsSet
}

// ApplyPatch は指定されたフィールドだけを各ミューテータ経由で反映する。
// エラー時は途中まで反映された状態になるため、呼び出し側は t を破棄すること。
func (t *Task) ApplyPatch(p TaskPatch, executor uuid.UUID, now time.Time) error {
	if p.Title.IsSet {
		if p.Title.IsNull {
			return base.Required("title", "title cannot be null")
		}
		if err := t.UpdateTitle(p.Title.Value, executor, now); err != nil {
			return err
		}
	}
	if p.Description.IsSet {
		if err := t.UpdateDescription(p.Description.Value, executor, now); err != nil {
			return err
		}
	}
	if p.Priority.IsSet {
		if p.Priority.IsNull {
			return base.Required("priority", "priority cannot be null")
		}
		if err := t.ChangePriority(p.Priority.Value, executor, now); err != nil {
			return err
		}
	}
	if p.Status.IsSet {
		if p.Status.IsNull {
			return base.Required("status", "status cannot be null")
		}
		if err := t.ChangeStatus(p.Status.Value, executor, now); err != nil {
			return err
		}
	}
	if p.DueDate.IsSet {
		if err := t.UpdateDueDate(p.DueDate.Ptr(), executor, now); err != nil {
			return err
		}
	}
	if p.CompletedAt.IsSet {
		if err := t.UpdateCompletionDate(p.CompletedAt.Ptr(), executor, now); err != nil {
			return err
		}
	}
	return nil
}

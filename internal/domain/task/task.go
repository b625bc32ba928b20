package task

import (
	"time"

	"github.com/google/uuid"

	"taskflow/internal/domain/base"
)

const (
	TitleMaxLength       = 100
	DescriptionMaxLength = 500

	// CommentPreviewLength は "Comment Added" 履歴に残す本文の文字数。
	CommentPreviewLength = 50
)

// Task は TaskFlow におけるタスクのドメインモデル。
// 値の変更は必ずミューテータ経由で行い、変化があった場合のみ履歴を積む。
type Task struct {
	base.Entity
	ProjectID   uuid.UUID
	OwnerUserID uuid.UUID
	Title       string
	Description string
	CreatedAt   time.Time
	Status      Status
	Priority    Priority
	DueDate     *time.Time
	CompletedAt *time.Time
	Version     int

	Comments []Comment
	History  []HistoryEntry

	// History のうち永続化済みの件数。
	savedHistory int
}

// NewTask は新しいタスクを生成する。初期状態は Pending。
// Status, Priority, DueDate, CompletedAt の初期値を OldValue=nil で履歴に積む。
func NewTask(
	projectID uuid.UUID,
	ownerUserID uuid.UUID,
	title string,
	description string,
	priority Priority,
	dueDate *time.Time,
	now time.Time,
) (*Task, error) {
	if err := base.RequireID("projectId", projectID); err != nil {
		return nil, err
	}
	if err := base.RequireID("ownerUserId", ownerUserID); err != nil {
		return nil, err
	}
	if err := base.RequireText("title", title, TitleMaxLength); err != nil {
		return nil, err
	}
	if err := base.MaxLength("description", description, DescriptionMaxLength); err != nil {
		return nil, err
	}
	if !isValidPriority(priority) {
		return nil, base.InvalidEnum("priority", string(priority))
	}
	if err := notPast("dueDate", dueDate, now); err != nil {
		return nil, err
	}

	t := &Task{
		Entity:      base.NewEntity(),
		ProjectID:   projectID,
		OwnerUserID: ownerUserID,
		Title:       title,
		Description: description,
		CreatedAt:   now.UTC(),
		Status:      StatusPending,
		Priority:    priority,
		DueDate:     utcPtr(dueDate),
		Version:     1,
	}

	status := string(t.Status)
	prio := string(t.Priority)
	initial := []struct {
		field string
		value *string
	}{
		{FieldStatus, &status},
		{FieldPriority, &prio},
		{FieldDueDate, formatTime(t.DueDate)},
		{FieldCompletedAt, formatTime(t.CompletedAt)},
	}
	for _, e := range initial {
		if err := t.record(e.field, nil, e.value, ownerUserID, now); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// UpdateTitle はタイトルを変更する。
func (t *Task) UpdateTitle(title string, executor uuid.UUID, now time.Time) error {
	if err := base.RequireID("executorUserId", executor); err != nil {
		return err
	}
	if err := base.RequireText("title", title, TitleMaxLength); err != nil {
		return err
	}
	if t.Title == title {
		return nil
	}
	if err := t.record(FieldTitle, textValue(t.Title), textValue(title), executor, now); err != nil {
		return err
	}
	t.Title = title
	return nil
}

// UpdateDescription は説明を変更する。空文字は説明なし扱い。
func (t *Task) UpdateDescription(description string, executor uuid.UUID, now time.Time) error {
	if err := base.RequireID("executorUserId", executor); err != nil {
		return err
	}
	if err := base.MaxLength("description", description, DescriptionMaxLength); err != nil {
		return err
	}
	if t.Description == description {
		return nil
	}
	if err := t.record(FieldDescription, textValue(t.Description), textValue(description), executor, now); err != nil {
		return err
	}
	t.Description = description
	return nil
}

// ChangeStatus は状態を遷移させる。
// Completed / Cancelled から Pending / InProgress へは戻せない。
// Completed に入ると CompletedAt=now、Completed から出ると CompletedAt は消える。
func (t *Task) ChangeStatus(status Status, executor uuid.UUID, now time.Time) error {
	if err := base.RequireID("executorUserId", executor); err != nil {
		return err
	}
	if !isValidStatus(status) {
		return base.InvalidEnum("status", string(status))
	}
	if t.Status == status {
		return nil
	}
	if t.Status.IsTerminal() && !status.IsTerminal() {
		msg := "completed task cannot move to an active state"
		if t.Status == StatusCancelled {
			msg = "cancelled task cannot move to an active state"
		}
		return base.Violation(ErrInvalidTransition, msg)
	}

	oldValue, newValue := string(t.Status), string(status)
	if err := t.record(FieldStatus, &oldValue, &newValue, executor, now); err != nil {
		return err
	}
	t.Status = status

	if status == StatusCompleted {
		at := now.UTC()
		t.CompletedAt = &at
	} else {
		t.CompletedAt = nil
	}
	return nil
}

// ChangePriority は優先度を変更する。
func (t *Task) ChangePriority(priority Priority, executor uuid.UUID, now time.Time) error {
	if err := base.RequireID("executorUserId", executor); err != nil {
		return err
	}
	if !isValidPriority(priority) {
		return base.InvalidEnum("priority", string(priority))
	}
	if t.Priority == priority {
		return nil
	}
	oldValue, newValue := string(t.Priority), string(priority)
	if err := t.record(FieldPriority, &oldValue, &newValue, executor, now); err != nil {
		return err
	}
	t.Priority = priority
	return nil
}

// UpdateDueDate は期日を変更する。nil は期日なし。過去日は不可。
func (t *Task) UpdateDueDate(dueDate *time.Time, executor uuid.UUID, now time.Time) error {
	if err := base.RequireID("executorUserId", executor); err != nil {
		return err
	}
	if err := notPast("dueDate", dueDate, now); err != nil {
		return err
	}
	if sameTime(t.DueDate, dueDate) {
		return nil
	}
	if err := t.record(FieldDueDate, formatTime(t.DueDate), formatTime(dueDate), executor, now); err != nil {
		return err
	}
	t.DueDate = utcPtr(dueDate)
	return nil
}

// UpdateCompletionDate は完了日を直接変更する。過去日は不可。
// Completed のタスクの完了日は消せない。
func (t *Task) UpdateCompletionDate(completedAt *time.Time, executor uuid.UUID, now time.Time) error {
	if err := base.RequireID("executorUserId", executor); err != nil {
		return err
	}
	if completedAt == nil && t.Status == StatusCompleted {
		return base.Violation(ErrCompletedAtRequired, ErrCompletedAtRequired.Error())
	}
	if err := notPast("completedAt", completedAt, now); err != nil {
		return err
	}
	if sameTime(t.CompletedAt, completedAt) {
		return nil
	}
	if err := t.record(FieldCompletedAt, formatTime(t.CompletedAt), formatTime(completedAt), executor, now); err != nil {
		return err
	}
	t.CompletedAt = utcPtr(completedAt)
	return nil
}

// AddComment はコメントをメモリ上で追加し、"Comment Added" の履歴を積む。
func (t *Task) AddComment(c *Comment) error {
	if c == nil {
		return base.Required("comment", "comment must not be nil")
	}
	if c.TaskID != t.ID {
		return base.Invalid("taskId", "MISMATCH", "comment belongs to another task", nil)
	}
	preview := "Comment: " + c.Preview(CommentPreviewLength)
	if err := t.record(FieldCommentAdded, nil, &preview, c.AuthorUserID, c.CreatedAt); err != nil {
		return err
	}
	t.Comments = append(t.Comments, *c)
	return nil
}

// ValidateCanDelete は完了済みタスクの削除を拒否する。
func (t *Task) ValidateCanDelete() error {
	if t.Status == StatusCompleted {
		return base.Violation(ErrCompletedTaskDeletion, ErrCompletedTaskDeletion.Error())
	}
	return nil
}

// IsPending は未完了（Pending または InProgress）かどうか。
func (t *Task) IsPending() bool {
	return !t.Status.IsTerminal()
}

// IsOverdue は期日が今日より前で、まだ終了していないかどうか。
func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil || t.Status.IsTerminal() {
		return false
	}
	return dateOf(*t.DueDate).Before(dateOf(now))
}

// NewHistory は最後の MarkHistorySaved 以降に積まれた履歴を返す。
func (t *Task) NewHistory() []HistoryEntry {
	if t.savedHistory >= len(t.History) {
		return nil
	}
	out := make([]HistoryEntry, len(t.History)-t.savedHistory)
	copy(out, t.History[t.savedHistory:])
	return out
}

// MarkHistorySaved は現在の履歴をすべて永続化済みとして扱う。
func (t *Task) MarkHistorySaved() {
	t.savedHistory = len(t.History)
}

// LoadHistory はストアから読んだ履歴を設定する。読み込んだ分は永続化済み扱い。
func (t *Task) LoadHistory(entries []HistoryEntry) {
	t.History = entries
	t.savedHistory = len(entries)
}

func (t *Task) record(field string, oldValue, newValue *string, author uuid.UUID, now time.Time) error {
	entry, err := NewHistoryEntry(t.ID, field, oldValue, newValue, author, now)
	if err != nil {
		return err
	}
	t.History = append(t.History, entry)
	return nil
}

// notPast は日付（UTC の年月日）が今日より前なら PAST_DATE を返す。
func notPast(field string, d *time.Time, now time.Time) error {
	if d == nil {
		return nil
	}
	if dateOf(*d).Before(dateOf(now)) {
		s := d.UTC().Format(time.DateOnly)
		return base.Invalid(field, "PAST_DATE", field+" must not be in the past", &s).WithCause(ErrPastDate)
	}
	return nil
}

func dateOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

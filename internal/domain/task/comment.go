package task

import (
	"time"

	"github.com/google/uuid"

	"taskflow/internal/domain/base"
)

// CommentMaxLength はコメント本文の上限文字数。
const CommentMaxLength = 1000

// Comment はタスクへのコメント。本文の編集以外は不変。
type Comment struct {
	base.Entity
	TaskID       uuid.UUID
	AuthorUserID uuid.UUID
	Content      string
	CreatedAt    time.Time
}

// NewComment はコメントを生成する。
func NewComment(taskID, authorUserID uuid.UUID, content string, now time.Time) (*Comment, error) {
	if err := base.RequireID("taskId", taskID); err != nil {
		return nil, err
	}
	if err := base.RequireID("authorUserId", authorUserID); err != nil {
		return nil, err
	}
	if err := base.RequireText("content", content, CommentMaxLength); err != nil {
		return nil, err
	}

	return &Comment{
		Entity:       base.NewEntity(),
		TaskID:       taskID,
		AuthorUserID: authorUserID,
		Content:      content,
		CreatedAt:    now.UTC(),
	}, nil
}

// UpdateContent は本文を変更する。同じ値なら何もしない。
func (c *Comment) UpdateContent(content string) error {
	if err := base.RequireText("content", content, CommentMaxLength); err != nil {
		return err
	}
	if c.Content != content {
		c.Content = content
	}
	return nil
}

// Preview は履歴用に本文を先頭 n 文字に切り詰める。
func (c *Comment) Preview(n int) string {
	runes := []rune(c.Content)
	if len(runes) <= n {
		return c.Content
	}
	return string(runes[:n]) + "..."
}

package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"taskflow/internal/domain/base"
	"taskflow/internal/domain/task"
	"taskflow/internal/usecase/repository"
)

const commentColumns = "id, task_id, author_user_id, content, created_at"

type commentRepository struct {
	uow *unitOfWork
}

var _ repository.CommentRepository = (*commentRepository)(nil)

func (r *commentRepository) GetByID(ctx context.Context, id uuid.UUID) (*task.Comment, error) {
	row, err := r.uow.queryRow(ctx, "SELECT "+commentColumns+" FROM comments"+liveWhere("id = ?"), id)
	if err != nil {
		return nil, err
	}
	c, err := scanComment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, base.NotFound("comment", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return &c, nil
}

func (r *commentRepository) ListByTask(ctx context.Context, taskID uuid.UUID) ([]task.Comment, error) {
	rows, err := r.uow.query(ctx,
		"SELECT "+commentColumns+" FROM comments"+liveWhere("task_id = ?")+" ORDER BY created_at ASC, id ASC",
		taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	out := make([]task.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return out, nil
}

func (r *commentRepository) Create(ctx context.Context, c *task.Comment) error {
	_, err := r.uow.exec(ctx,
		"INSERT INTO comments ("+commentColumns+", is_deleted) VALUES (?, ?, ?, ?, ?, FALSE)",
		c.ID, c.TaskID, c.AuthorUserID, c.Content, c.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	return nil
}

func (r *commentRepository) Update(ctx context.Context, c *task.Comment) error {
	n, err := r.uow.exec(ctx, "UPDATE comments SET content = ?"+liveWhere("id = ?"), c.Content, c.ID)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	if n == 0 {
		ok, err := r.uow.exists(ctx, "comments", c.ID)
		if err != nil {
			return err
		}
		if !ok {
			return base.NotFound("comment", c.ID)
		}
	}
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.uow.softDelete(ctx, "comments", id)
}

func scanComment(s scanner) (task.Comment, error) {
	var c task.Comment
	if err := s.Scan(&c.ID, &c.TaskID, &c.AuthorUserID, &c.Content, &c.CreatedAt); err != nil {
		return task.Comment{}, err
	}
	c.CreatedAt = c.CreatedAt.UTC()
	return c, nil
}

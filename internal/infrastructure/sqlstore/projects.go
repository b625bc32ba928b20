package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"taskflow/internal/domain/base"
	"taskflow/internal/domain/project"
	"taskflow/internal/usecase/repository"
)

const projectColumns = "id, name, description, owner_user_id, created_at, version"

type projectRepository struct {
	uow *unitOfWork
}

var _ repository.ProjectRepository = (*projectRepository)(nil)

func (r *projectRepository) GetByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	row, err := r.uow.queryRow(ctx, "SELECT "+projectColumns+" FROM projects"+liveWhere("id = ?"), id)
	if err != nil {
		return nil, err
	}
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, base.NotFound("project", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return p, nil
}

func (r *projectRepository) ListByOwner(ctx context.Context, ownerUserID uuid.UUID) ([]*project.Project, error) {
	rows, err := r.uow.query(ctx,
		"SELECT "+projectColumns+" FROM projects"+liveWhere("owner_user_id = ?")+" ORDER BY created_at ASC, id ASC",
		ownerUserID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	out := make([]*project.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return out, nil
}

func (r *projectRepository) Create(ctx context.Context, p *project.Project) error {
	_, err := r.uow.exec(ctx,
		"INSERT INTO projects ("+projectColumns+", is_deleted) VALUES (?, ?, ?, ?, ?, ?, FALSE)",
		p.ID, p.Name, p.Description, p.OwnerUserID, p.CreatedAt.UTC(), p.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to insert project: %w", err)
	}
	return nil
}

func (r *projectRepository) Update(ctx context.Context, p *project.Project) error {
	n, err := r.uow.exec(ctx,
		"UPDATE projects SET name = ?, description = ?, owner_user_id = ?, version = ?"+liveWhere("id = ?", "version = ?"),
		p.Name, p.Description, p.OwnerUserID, p.Version+1, p.ID, p.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	if n == 0 {
		return r.uow.missingOrConflict(ctx, "projects", "project", p.ID)
	}
	p.Version++
	return nil
}

func (r *projectRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.uow.softDelete(ctx, "projects", id)
}

func scanProject(s scanner) (*project.Project, error) {
	var p project.Project
	if err := s.Scan(&p.ID, &p.Name, &p.Description, &p.OwnerUserID, &p.CreatedAt, &p.Version); err != nil {
		return nil, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	return &p, nil
}

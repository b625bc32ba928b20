package memory

import (
	"bytes"
	"context"
	"slices"

	"github.com/google/uuid"

	"taskflow/internal/domain/base"
	"taskflow/internal/domain/project"
	"taskflow/internal/usecase/repository"
)

type projectRepository struct {
	uow *unitOfWork
}

var _ repository.ProjectRepository = (*projectRepository)(nil)

func (r *projectRepository) GetByID(_ context.Context, id uuid.UUID) (*project.Project, error) {
	st, err := r.uow.read()
	if err != nil {
		return nil, err
	}
	row, ok := liveByID(st.projects, id)
	if !ok {
		return nil, base.NotFound("project", id)
	}
	return &row, nil
}

func (r *projectRepository) ListByOwner(_ context.Context, ownerUserID uuid.UUID) ([]*project.Project, error) {
	st, err := r.uow.read()
	if err != nil {
		return nil, err
	}
	rows := live(st.projects, func(p project.Project) bool { return p.OwnerUserID == ownerUserID })
	slices.SortFunc(rows, func(a, b project.Project) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return bytes.Compare(a.ID[:], b.ID[:])
	})
	return pointers(rows), nil
}

func (r *projectRepository) Create(_ context.Context, p *project.Project) error {
	row := *p
	return r.uow.stage(1, func(s *state) error {
		if _, exists := s.projects[row.ID]; exists {
			return base.Conflict("project", "project already exists")
		}
		s.projects[row.ID] = row
		return nil
	})
}

func (r *projectRepository) Update(_ context.Context, p *project.Project) error {
	expected := p.Version
	row := *p
	row.Version = expected + 1
	err := r.uow.stage(1, func(s *state) error {
		cur, ok := liveByID(s.projects, row.ID)
		if !ok {
			return base.NotFound("project", row.ID)
		}
		if cur.Version != expected {
			return base.Conflict("project", "project was modified concurrently")
		}
		s.projects[row.ID] = row
		return nil
	})
	if err != nil {
		return err
	}
	p.Version = row.Version
	return nil
}

func (r *projectRepository) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	st, err := r.uow.read()
	if err != nil {
		return false, err
	}
	if _, ok := liveByID(st.projects, id); !ok {
		return false, nil
	}
	now := r.uow.store.now()
	err = r.uow.stage(1, func(s *state) error {
		softDelete(s.projects, id, now)
		return nil
	})
	return err == nil, err
}

func pointers[T any](rows []T) []*T {
	out := make([]*T, len(rows))
	for i := range rows {
		out[i] = &rows[i]
	}
	return out
}

package project

import (
	"context"

	"github.com/google/uuid"

	"taskflow/internal/domain/base"
	"taskflow/internal/usecase/repository"
)

// GetByID は ID を指定してプロジェクトを取得する。
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*ProjectDTO, error) {
	if err := base.RequireID("id", id); err != nil {
		return nil, err
	}

	var out *ProjectDTO
	err := repository.Read(ctx, s.Factory, func(uow repository.UnitOfWork) error {
		p, err := uow.Projects().GetByID(ctx, id)
		if err != nil {
			return err
		}
		out, err = s.withCount(ctx, uow, p)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

package project

import (
	"context"

	"github.com/google/uuid"

	"taskflow/internal/domain/base"
	"taskflow/internal/usecase/repository"
)

// ListByUser はユーザーが所有するプロジェクトを作成順に返す。無ければ空スライス。
func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID) ([]*ProjectDTO, error) {
	if err := base.RequireID("userId", userID); err != nil {
		return nil, err
	}

	out := make([]*ProjectDTO, 0)
	err := repository.Read(ctx, s.Factory, func(uow repository.UnitOfWork) error {
		projects, err := uow.Projects().ListByOwner(ctx, userID)
		if err != nil {
			return err
		}
		for _, p := range projects {
			dto, err := s.withCount(ctx, uow, p)
			if err != nil {
				return err
			}
			out = append(out, dto)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

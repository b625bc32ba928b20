package project

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskflow/internal/domain/base"
	"taskflow/internal/usecase/repository"
)

// UpdateProjectInput はプロジェクト更新ユースケースの入力。
// Version を指定した場合、保存済みの版と一致しなければ conflict になる。
type UpdateProjectInput struct {
	Name        string
	Description string
	Version     *int
}

// Update は既存プロジェクトを取得し、名前・説明を更新する。
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateProjectInput) (*ProjectDTO, error) {
	if err := base.RequireID("id", id); err != nil {
		return nil, err
	}

	var out *ProjectDTO
	err := repository.Write(ctx, s.Factory, func(uow repository.UnitOfWork) error {
		existing, err := uow.Projects().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if in.Version != nil && *in.Version != existing.Version {
			return base.Conflict("project", "project was modified by another request")
		}

		changed := existing.Name != in.Name || existing.Description != in.Description
		if err := existing.UpdateName(in.Name); err != nil {
			return err
		}
		if err := existing.UpdateDescription(in.Description); err != nil {
			return err
		}
		// 変更が無ければ書き込まず、Version も進めない
		if changed {
			if err := uow.Projects().Update(ctx, existing); err != nil {
				return err
			}
		}

		out, err = s.withCount(ctx, uow, existing)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("project updated", zap.Stringer("project_id", id), zap.Int("version", out.Version))
	return out, nil
}

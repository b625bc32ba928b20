package project

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "taskflow/internal/domain/project"
	"taskflow/internal/usecase/repository"
)

// CreateProjectInput はプロジェクト作成ユースケースの入力。
type CreateProjectInput struct {
	Name        string
	Description string
	OwnerUserID uuid.UUID
}

// Create は新しいプロジェクトを作成し、リポジトリに保存する。
func (s *Service) Create(ctx context.Context, in CreateProjectInput) (*ProjectDTO, error) {
	p, err := domain.NewProject(in.Name, in.Description, in.OwnerUserID, s.Now())
	if err != nil {
		return nil, err
	}

	err = repository.Write(ctx, s.Factory, func(uow repository.UnitOfWork) error {
		return uow.Projects().Create(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("project created",
		zap.Stringer("project_id", p.ID),
		zap.Stringer("owner_user_id", p.OwnerUserID),
	)
	return toDTO(p, 0), nil
}

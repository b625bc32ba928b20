package project

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "taskflow/internal/domain/project"
	"taskflow/internal/usecase/repository"
)

// ProjectDTO はプロジェクトの読み取りモデル。
type ProjectDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerUserID uuid.UUID `json:"ownerUserId"`
	CreatedAt   time.Time `json:"createdAt"`
	TaskCount   int       `json:"taskCount"`
	Version     int       `json:"version"`
}

// Service はプロジェクトのユースケースをまとめたもの。
// 各操作はリクエストごとに UnitOfWork を 1 つ開く。
type Service struct {
	Factory repository.Factory
	Logger  *zap.Logger
	Now     func() time.Time
}

// NewService は Service を生成する。logger が nil なら何も出力しない。
func NewService(factory repository.Factory, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		Factory: factory,
		Logger:  logger.Named("project"),
		Now:     time.Now,
	}
}

func toDTO(p *domain.Project, taskCount int) *ProjectDTO {
	return &ProjectDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		OwnerUserID: p.OwnerUserID,
		CreatedAt:   p.CreatedAt,
		TaskCount:   taskCount,
		Version:     p.Version,
	}
}

func (s *Service) withCount(ctx context.Context, uow repository.UnitOfWork, p *domain.Project) (*ProjectDTO, error) {
	n, err := uow.Tasks().CountByProject(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return toDTO(p, n), nil
}

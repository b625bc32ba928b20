package project_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"taskflow/internal/domain/base"
	domain "taskflow/internal/domain/project"
	"taskflow/internal/domain/task"
	"taskflow/internal/infrastructure/memory"
	usecase "taskflow/internal/usecase/project"
	"taskflow/internal/usecase/repository"
)

var fixedNow = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T) (*usecase.Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore(memory.WithClock(func() time.Time { return fixedNow }))
	svc := usecase.NewService(store, zap.NewNop())
	svc.Now = func() time.Time { return fixedNow }
	return svc, store
}

func addTask(t *testing.T, store *memory.Store, projectID uuid.UUID, status task.Status) *task.Task {
	t.Helper()
	ctx := context.Background()
	tk, err := task.NewTask(projectID, uuid.New(), "画面設計", "", task.PriorityMedium, nil, fixedNow)
	require.NoError(t, err)
	if status != task.StatusPending {
		require.NoError(t, tk.ChangeStatus(status, tk.OwnerUserID, fixedNow))
	}
	require.NoError(t, repository.Write(ctx, store, func(uow repository.UnitOfWork) error {
		return uow.Tasks().Create(ctx, tk)
	}))
	return tk
}

func TestCreateProject_Success(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	owner := uuid.New()

	dto, err := svc.Create(ctx, usecase.CreateProjectInput{
		Name:        "TeamFlow 開発",
		Description: "TeamFlow の開発プロジェクト",
		OwnerUserID: owner,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, dto.ID)
	assert.Equal(t, "TeamFlow 開発", dto.Name)
	assert.Equal(t, owner, dto.OwnerUserID)
	assert.True(t, dto.CreatedAt.Equal(fixedNow))
	assert.Zero(t, dto.TaskCount)

	got, err := svc.GetByID(ctx, dto.ID)
	require.NoError(t, err)
	assert.Equal(t, dto.Name, got.Name)
}

func TestCreateProject_Validation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	_, err := svc.Create(ctx, usecase.CreateProjectInput{Name: "", OwnerUserID: uuid.New()})
	assert.ErrorIs(t, err, base.ErrValidation)

	_, err = svc.Create(ctx, usecase.CreateProjectInput{Name: "TeamFlow", OwnerUserID: uuid.Nil})
	assert.ErrorIs(t, err, base.ErrValidation)
}

func TestUpdateProject(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	created, err := svc.Create(ctx, usecase.CreateProjectInput{Name: "Old Name", Description: "Old Desc", OwnerUserID: uuid.New()})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, usecase.UpdateProjectInput{Name: "New Name", Description: "New Desc"})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "New Desc", updated.Description)
	assert.Equal(t, 2, updated.Version)

	stale := 1
	_, err = svc.Update(ctx, created.ID, usecase.UpdateProjectInput{Name: "Stale", Version: &stale})
	assert.ErrorIs(t, err, base.ErrConflict)

	_, err = svc.Update(ctx, uuid.New(), usecase.UpdateProjectInput{Name: "x"})
	assert.ErrorIs(t, err, base.ErrNotFound)

	_, err = svc.Update(ctx, created.ID, usecase.UpdateProjectInput{Name: "  "})
	assert.ErrorIs(t, err, base.ErrValidation)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "New Name", got.Name, "failed updates must not be persisted")
}

func TestDeleteProject_BlockedByPendingTask(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t)
	created, err := svc.Create(ctx, usecase.CreateProjectInput{Name: "TeamFlow", OwnerUserID: uuid.New()})
	require.NoError(t, err)
	addTask(t, store, created.ID, task.StatusPending)

	err = svc.Delete(ctx, created.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, base.ErrRuleViolation))
	assert.True(t, errors.Is(err, domain.ErrHasPendingTasks))

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err, "project must not be tombstoned")
	assert.Equal(t, 1, got.TaskCount)
}

func TestDeleteProject_Success(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t)
	owner := uuid.New()
	created, err := svc.Create(ctx, usecase.CreateProjectInput{Name: "TeamFlow", OwnerUserID: owner})
	require.NoError(t, err)
	addTask(t, store, created.ID, task.StatusCompleted)
	addTask(t, store, created.ID, task.StatusCancelled)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, base.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), base.ErrNotFound)

	list, err := svc.ListByUser(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestListByUser(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t)
	owner := uuid.New()

	first, err := svc.Create(ctx, usecase.CreateProjectInput{Name: "A", OwnerUserID: owner})
	require.NoError(t, err)
	svc.Now = func() time.Time { return fixedNow.Add(time.Minute) }
	_, err = svc.Create(ctx, usecase.CreateProjectInput{Name: "B", OwnerUserID: owner})
	require.NoError(t, err)
	_, err = svc.Create(ctx, usecase.CreateProjectInput{Name: "other", OwnerUserID: uuid.New()})
	require.NoError(t, err)
	addTask(t, store, first.ID, task.StatusPending)

	list, err := svc.ListByUser(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "A", list[0].Name)
	assert.Equal(t, 1, list[0].TaskCount)
	assert.Equal(t, "B", list[1].Name)

	empty, err := svc.ListByUser(ctx, uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = svc.ListByUser(ctx, uuid.Nil)
	assert.ErrorIs(t, err, base.ErrValidation)
}

func TestUpdateProject_UnchangedSkipsWrite(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	created, err := svc.Create(ctx, usecase.CreateProjectInput{Name: "Same", Description: "Desc", OwnerUserID: uuid.New()})
	require.NoError(t, err)

	current := created.Version
	updated, err := svc.Update(ctx, created.ID, usecase.UpdateProjectInput{Name: "Same", Description: "Desc", Version: &current})
	require.NoError(t, err)
	assert.Equal(t, created.Version, updated.Version)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Version, got.Version)

	// 変更されていないので同じ版でそのまま更新できる
	changed, err := svc.Update(ctx, created.ID, usecase.UpdateProjectInput{Name: "Renamed", Description: "Desc", Version: &current})
	require.NoError(t, err)
	assert.Equal(t, created.Version+1, changed.Version)
}

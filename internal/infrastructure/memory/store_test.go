package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/internal/domain/base"
	"taskflow/internal/domain/project"
	"taskflow/internal/domain/task"
	"taskflow/internal/domain/user"
	"taskflow/internal/infrastructure/memory"
	"taskflow/internal/usecase/repository"
)

var fixedNow = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func newStore() *memory.Store {
	return memory.NewStore(memory.WithClock(func() time.Time { return fixedNow }))
}

func begin(t *testing.T, s *memory.Store) repository.UnitOfWork {
	t.Helper()
	uow, err := s.Begin(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = uow.Close() })
	return uow
}

func newProject(t *testing.T) *project.Project {
	t.Helper()
	p, err := project.NewProject("TeamFlow 開発", "", uuid.New(), fixedNow)
	require.NoError(t, err)
	return p
}

func TestStore_ReadYourWritesAndCommit(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	p := newProject(t)

	uow := begin(t, s)
	require.NoError(t, uow.Projects().Create(ctx, p))

	got, err := uow.Projects().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)

	// 別の UnitOfWork からは Commit までは見えない
	other := begin(t, s)
	_, err = other.Projects().GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, base.ErrNotFound)

	n, err := uow.Commit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	after := begin(t, s)
	got, err = after.Projects().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
}

func TestStore_Rollback(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	p := newProject(t)

	uow := begin(t, s)
	require.NoError(t, uow.Projects().Create(ctx, p))
	require.NoError(t, uow.Rollback(ctx))

	_, err := uow.Projects().GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, base.ErrNotFound)

	n, err := uow.Commit(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStore_CloseDiscardsAndRejectsUse(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	p := newProject(t)

	uow, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, uow.Projects().Create(ctx, p))
	require.NoError(t, uow.Close())

	_, err = uow.Commit(ctx)
	assert.ErrorIs(t, err, repository.ErrClosed)

	check := begin(t, s)
	_, err = check.Projects().GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, base.ErrNotFound)
}

func TestStore_VersionConflict(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	p := newProject(t)

	seed := begin(t, s)
	require.NoError(t, seed.Projects().Create(ctx, p))
	_, err := seed.Commit(ctx)
	require.NoError(t, err)

	first, second := begin(t, s), begin(t, s)
	a, err := first.Projects().GetByID(ctx, p.ID)
	require.NoError(t, err)
	b, err := second.Projects().GetByID(ctx, p.ID)
	require.NoError(t, err)

	require.NoError(t, a.UpdateName("A"))
	require.NoError(t, first.Projects().Update(ctx, a))
	assert.Equal(t, 2, a.Version)
	_, err = first.Commit(ctx)
	require.NoError(t, err)

	require.NoError(t, b.UpdateName("B"))
	require.NoError(t, second.Projects().Update(ctx, b))
	_, err = second.Commit(ctx)
	assert.ErrorIs(t, err, base.ErrConflict)

	check := begin(t, s)
	got, err := check.Projects().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Name)
	assert.Equal(t, 2, got.Version)
}

func TestStore_SoftDelete(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	p := newProject(t)

	uow := begin(t, s)
	require.NoError(t, uow.Projects().Create(ctx, p))
	_, err := uow.Commit(ctx)
	require.NoError(t, err)

	ok, err := uow.Projects().Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = uow.Projects().Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, ok, "second delete must report false")

	ok, err = uow.Projects().Delete(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = uow.Commit(ctx)
	require.NoError(t, err)

	_, err = uow.Projects().GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, base.ErrNotFound)
	list, err := uow.Projects().ListByOwner(ctx, p.OwnerUserID)
	require.NoError(t, err)
	assert.Empty(t, list)

	err = uow.Projects().Update(ctx, p)
	assert.ErrorIs(t, err, base.ErrNotFound)
}

func TestStore_UserEmailUnique(t *testing.T) {
	ctx := context.Background()
	s := newStore()

	u1, err := user.NewUser(uuid.New(), "usuario", "usuario@exemplo.com", user.RoleRegular)
	require.NoError(t, err)
	u2, err := user.NewUser(uuid.New(), "outro", "USUARIO@exemplo.com", user.RoleManager)
	require.NoError(t, err)

	uow := begin(t, s)
	require.NoError(t, uow.Users().Create(ctx, u1))
	assert.ErrorIs(t, uow.Users().Create(ctx, u2), base.ErrConflict)

	got, err := uow.Users().GetByEmail(ctx, "Usuario@Exemplo.com")
	require.NoError(t, err)
	assert.Equal(t, u1.ID, got.ID)

	isManager, err := uow.Users().IsManager(ctx, u1.ID)
	require.NoError(t, err)
	assert.False(t, isManager)
}

func TestStore_TaskLimitRecheckedAtCommit(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	p := newProject(t)

	newTask := func() *task.Task {
		tk, err := task.NewTask(p.ID, p.OwnerUserID, "タスク", "", task.PriorityLow, nil, fixedNow)
		require.NoError(t, err)
		return tk
	}

	setup := begin(t, s)
	require.NoError(t, setup.Projects().Create(ctx, p))
	for i := 0; i < project.TaskLimit-1; i++ {
		require.NoError(t, setup.Tasks().Create(ctx, newTask()))
	}
	_, err := setup.Commit(ctx)
	require.NoError(t, err)

	// どちらも 19 件の時点で追加する
	a, b := begin(t, s), begin(t, s)
	require.NoError(t, a.Tasks().Create(ctx, newTask()))
	require.NoError(t, b.Tasks().Create(ctx, newTask()))

	_, err = a.Commit(ctx)
	require.NoError(t, err)
	_, err = b.Commit(ctx)
	assert.ErrorIs(t, err, project.ErrTaskLimitExceeded)
	assert.ErrorIs(t, err, base.ErrRuleViolation)

	after := begin(t, s)
	n, err := after.Tasks().CountByProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, project.TaskLimit, n)
}

func TestTaskRepository_Queries(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	p := newProject(t)
	owner := uuid.New()

	tomorrow := fixedNow.AddDate(0, 0, 1)
	nextWeek := fixedNow.AddDate(0, 0, 7)

	mk := func(title string, due *time.Time, offset time.Duration) *task.Task {
		tk, err := task.NewTask(p.ID, owner, title, "", task.PriorityMedium, due, fixedNow.Add(offset))
		require.NoError(t, err)
		return tk
	}
	t1 := mk("画面設計", &tomorrow, 0)
	t2 := mk("API 設計", &nextWeek, time.Minute)
	t3 := mk("レビュー", nil, 2*time.Minute)
	require.NoError(t, t3.ChangeStatus(task.StatusCompleted, owner, fixedNow))

	uow := begin(t, s)
	require.NoError(t, uow.Projects().Create(ctx, p))
	for _, tk := range []*task.Task{t1, t2, t3} {
		require.NoError(t, uow.Tasks().Create(ctx, tk))
	}
	_, err := uow.Commit(ctx)
	require.NoError(t, err)

	count, err := uow.Tasks().CountByProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	list, err := uow.Tasks().ListByProject(ctx, p.ID, nil)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"画面設計", "API 設計", "レビュー"}, []string{list[0].Title, list[1].Title, list[2].Title})
	assert.Empty(t, list[0].History, "history is stored separately")

	q, err := task.NewTaskQuery(task.WithStatusFilter("completed"))
	require.NoError(t, err)
	list, err = uow.Tasks().ListByProject(ctx, p.ID, q)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, t3.ID, list[0].ID)

	due, err := uow.Tasks().ListDueWithin(ctx, fixedNow, 48*time.Hour)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, t1.ID, due[0].ID)

	overdue, err := uow.Tasks().ListOverdue(ctx, fixedNow.AddDate(0, 0, 3))
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, t1.ID, overdue[0].ID)

	counts, err := uow.Tasks().CompletedCountsByOwnerSince(ctx, fixedNow.AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, []repository.CompletionCount{{OwnerUserID: owner, Count: 1}}, counts)

	pending, err := uow.Tasks().HasPendingTasks(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, pending)

	for _, tk := range []*task.Task{t1, t2} {
		ok, err := uow.Tasks().Delete(ctx, tk.ID)
		require.NoError(t, err)
		require.True(t, ok)
	}
	pending, err = uow.Tasks().HasPendingTasks(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, pending)

	count, err = uow.Tasks().CountByProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestHistoryAndComments(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	p := newProject(t)
	tk, err := task.NewTask(p.ID, uuid.New(), "画面設計", "", task.PriorityHigh, nil, fixedNow)
	require.NoError(t, err)

	c, err := task.NewComment(tk.ID, uuid.New(), "確認しました", fixedNow)
	require.NoError(t, err)
	require.NoError(t, tk.AddComment(c))

	uow := begin(t, s)
	require.NoError(t, uow.Tasks().Create(ctx, tk))
	require.NoError(t, uow.Comments().Create(ctx, c))
	require.NoError(t, uow.History().Create(ctx, tk.NewHistory()...))

	n, err := uow.Commit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1+1+5, n)

	hist, err := uow.History().ListByTask(ctx, tk.ID)
	require.NoError(t, err)
	require.Len(t, hist, 5)
	assert.Equal(t, task.FieldStatus, hist[0].FieldName)
	assert.Equal(t, task.FieldCommentAdded, hist[4].FieldName)

	comments, err := uow.Comments().ListByTask(ctx, tk.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "確認しました", comments[0].Content)

	ok, err := uow.Comments().Delete(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	comments, err = uow.Comments().ListByTask(ctx, tk.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

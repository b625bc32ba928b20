package sqlstore_test

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
	"taskflow/internal/usecase/repository"
)

var fixedNow = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

// runContract はどの方言でも満たすべき振る舞いを検証する。
func runContract(t *testing.T, f repository.Factory) {
	t.Run("project round trip", func(t *testing.T) { projectRoundTrip(t, f) })
	t.Run("version conflict", func(t *testing.T) { versionConflict(t, f) })
	t.Run("soft delete", func(t *testing.T) { softDelete(t, f) })
	t.Run("rollback", func(t *testing.T) { rollback(t, f) })
	t.Run("task queries", func(t *testing.T) { taskQueries(t, f) })
	t.Run("comments and history", func(t *testing.T) { commentsAndHistory(t, f) })
	t.Run("users", func(t *testing.T) { users(t, f) })
}

func begin(t *testing.T, f repository.Factory) repository.UnitOfWork {
	t.Helper()
	uow, err := f.Begin(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = uow.Close() })
	return uow
}

func createProject(t *testing.T, uow repository.UnitOfWork) *project.Project {
	t.Helper()
	p, err := project.NewProject("TeamFlow 開発", "TeamFlow の開発プロジェクト", uuid.New(), fixedNow)
	require.NoError(t, err)
	require.NoError(t, uow.Projects().Create(context.Background(), p))
	return p
}

func projectRoundTrip(t *testing.T, f repository.Factory) {
	ctx := context.Background()
	uow := begin(t, f)
	p := createProject(t, uow)
	n, err := uow.Commit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := uow.Projects().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, p.Description, got.Description)
	assert.Equal(t, p.OwnerUserID, got.OwnerUserID)
	assert.True(t, p.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, 1, got.Version)
	assert.False(t, got.IsDeleted)

	list, err := uow.Projects().ListByOwner(ctx, p.OwnerUserID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, p.ID, list[0].ID)
}

func versionConflict(t *testing.T, f repository.Factory) {
	ctx := context.Background()
	uow := begin(t, f)
	p := createProject(t, uow)
	_, err := uow.Commit(ctx)
	require.NoError(t, err)

	stale := *p
	require.NoError(t, p.UpdateName("更新後"))
	require.NoError(t, uow.Projects().Update(ctx, p))
	assert.Equal(t, 2, p.Version)
	_, err = uow.Commit(ctx)
	require.NoError(t, err)

	require.NoError(t, stale.UpdateName("古い更新"))
	err = uow.Projects().Update(ctx, &stale)
	assert.ErrorIs(t, err, base.ErrConflict)
	require.NoError(t, uow.Rollback(ctx))

	missing, _ := project.NewProject("存在しない", "", uuid.New(), fixedNow)
	err = uow.Projects().Update(ctx, missing)
	assert.ErrorIs(t, err, base.ErrNotFound)
}

func softDelete(t *testing.T, f repository.Factory) {
	ctx := context.Background()
	uow := begin(t, f)
	p := createProject(t, uow)
	_, err := uow.Commit(ctx)
	require.NoError(t, err)

	ok, err := uow.Projects().Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = uow.Projects().Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = uow.Projects().Delete(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := uow.Commit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = uow.Projects().GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, base.ErrNotFound)
	list, err := uow.Projects().ListByOwner(ctx, p.OwnerUserID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func rollback(t *testing.T, f repository.Factory) {
	ctx := context.Background()
	uow := begin(t, f)
	p := createProject(t, uow)

	got, err := uow.Projects().GetByID(ctx, p.ID)
	require.NoError(t, err, "staged rows are visible inside the unit of work")
	assert.Equal(t, p.Name, got.Name)

	require.NoError(t, uow.Rollback(ctx))
	_, err = uow.Projects().GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, base.ErrNotFound)
}

func taskQueries(t *testing.T, f repository.Factory) {
	ctx := context.Background()
	uow := begin(t, f)
	p := createProject(t, uow)
	owner := uuid.New()

	tomorrow := fixedNow.AddDate(0, 0, 1)
	nextWeek := fixedNow.AddDate(0, 0, 7)
	mk := func(title string, prio task.Priority, due *time.Time, offset time.Duration) *task.Task {
		tk, err := task.NewTask(p.ID, owner, title, "", prio, due, fixedNow.Add(offset))
		require.NoError(t, err)
		require.NoError(t, uow.Tasks().Create(ctx, tk))
		return tk
	}
	t1 := mk("画面設計", task.PriorityHigh, &tomorrow, 0)
	t2 := mk("API 設計", task.PriorityLow, &nextWeek, time.Minute)
	t3 := mk("レビュー", task.PriorityLow, nil, 2*time.Minute)
	_, err := uow.Commit(ctx)
	require.NoError(t, err)

	require.NoError(t, t3.ChangeStatus(task.StatusCompleted, owner, fixedNow))
	require.NoError(t, uow.Tasks().Update(ctx, t3))
	_, err = uow.Commit(ctx)
	require.NoError(t, err)

	got, err := uow.Tasks().GetByID(ctx, t1.ID)
	require.NoError(t, err)
	assert.Equal(t, t1.Title, got.Title)
	assert.Equal(t, t1.Status, got.Status)
	assert.Equal(t, t1.Priority, got.Priority)
	require.NotNil(t, got.DueDate)
	assert.True(t, t1.DueDate.Equal(*got.DueDate))
	assert.Nil(t, got.CompletedAt)

	done, err := uow.Tasks().GetByID(ctx, t3.ID)
	require.NoError(t, err)
	assert.Equal(t, task.StatusCompleted, done.Status)
	require.NotNil(t, done.CompletedAt)
	assert.Equal(t, 2, done.Version)

	count, err := uow.Tasks().CountByProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	list, err := uow.Tasks().ListByProject(ctx, p.ID, nil)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, t1.ID, list[0].ID)
	assert.Equal(t, t3.ID, list[2].ID)

	q, err := task.NewTaskQuery(task.WithPriorityFilter("low"), task.WithStatusFilter("pending"))
	require.NoError(t, err)
	list, err = uow.Tasks().ListByProject(ctx, p.ID, q)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, t2.ID, list[0].ID)

	q, err = task.NewTaskQuery(task.WithDueDateRangeFilter("2025-01-02", "2025-01-02"), task.WithLimit(5))
	require.NoError(t, err)
	list, err = uow.Tasks().ListByProject(ctx, p.ID, q)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, t1.ID, list[0].ID)

	overdue, err := uow.Tasks().ListOverdue(ctx, fixedNow.AddDate(0, 0, 3))
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, t1.ID, overdue[0].ID)

	soon, err := uow.Tasks().ListDueWithin(ctx, fixedNow, 48*time.Hour)
	require.NoError(t, err)
	require.Len(t, soon, 1)
	assert.Equal(t, t1.ID, soon[0].ID)

	ranged, err := uow.Tasks().ListByDueRange(ctx, fixedNow, fixedNow.AddDate(0, 0, 10))
	require.NoError(t, err)
	assert.Len(t, ranged, 2)

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
	_, err = uow.Commit(ctx)
	require.NoError(t, err)

	pending, err = uow.Tasks().HasPendingTasks(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, pending)
	count, err = uow.Tasks().CountByProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func commentsAndHistory(t *testing.T, f repository.Factory) {
	ctx := context.Background()
	uow := begin(t, f)
	p := createProject(t, uow)

	tk, err := task.NewTask(p.ID, uuid.New(), "画面設計", "説明", task.PriorityMedium, nil, fixedNow)
	require.NoError(t, err)
	c, err := task.NewComment(tk.ID, uuid.New(), "確認しました", fixedNow.Add(time.Second))
	require.NoError(t, err)
	require.NoError(t, tk.AddComment(c))

	require.NoError(t, uow.Tasks().Create(ctx, tk))
	require.NoError(t, uow.Comments().Create(ctx, c))
	require.NoError(t, uow.History().Create(ctx, tk.NewHistory()...))
	n, err := uow.Commit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1+1+1+5, n)

	hist, err := uow.History().ListByTask(ctx, tk.ID)
	require.NoError(t, err)
	require.Len(t, hist, 5)
	wantFields := []string{task.FieldStatus, task.FieldPriority, task.FieldDueDate, task.FieldCompletedAt, task.FieldCommentAdded}
	for i, h := range hist {
		assert.Equal(t, wantFields[i], h.FieldName)
	}
	assert.Nil(t, hist[0].OldValue)
	require.NotNil(t, hist[0].NewValue)
	assert.Equal(t, "Pending", *hist[0].NewValue)
	assert.Nil(t, hist[2].NewValue)

	comments, err := uow.Comments().ListByTask(ctx, tk.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "確認しました", comments[0].Content)

	require.NoError(t, c.UpdateContent("修正しました"))
	require.NoError(t, uow.Comments().Update(ctx, c))
	got, err := uow.Comments().GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "修正しました", got.Content)

	ok, err := uow.Comments().Delete(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	comments, err = uow.Comments().ListByTask(ctx, tk.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
	_, err = uow.Commit(ctx)
	require.NoError(t, err)
}

func users(t *testing.T, f repository.Factory) {
	ctx := context.Background()
	uow := begin(t, f)

	email := uuid.NewString() + "@exemplo.com"
	u1, err := user.NewUser(uuid.New(), "usuario", email, user.RoleManager)
	require.NoError(t, err)
	require.NoError(t, uow.Users().Create(ctx, u1))

	u2, err := user.NewUser(uuid.New(), "outro", email, user.RoleRegular)
	require.NoError(t, err)
	assert.ErrorIs(t, uow.Users().Create(ctx, u2), base.ErrConflict)
	_, err = uow.Commit(ctx)
	require.NoError(t, err)

	got, err := uow.Users().GetByEmail(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, u1.ID, got.ID)
	assert.Equal(t, user.RoleManager, got.Role)

	isManager, err := uow.Users().IsManager(ctx, u1.ID)
	require.NoError(t, err)
	assert.True(t, isManager)

	require.NoError(t, uow.Users().Update(ctx, u1), "unchanged update must succeed")

	_, err = uow.Users().IsManager(ctx, uuid.New())
	assert.ErrorIs(t, err, base.ErrNotFound)
}

// Package seed はデモ・動作確認用の初期データを投入する。
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"taskflow/internal/domain/base"
	"taskflow/internal/domain/project"
	"taskflow/internal/domain/task"
	"taskflow/internal/domain/user"
	"taskflow/internal/usecase/repository"
)

// 固定 ID。HTTP から叩くときにそのまま使える。
var (
	RegularUserID = uuid.MustParse("a0000000-0000-0000-0000-000000000001")
	ManagerUserID = uuid.MustParse("a0000000-0000-0000-0000-000000000002")
	ProjectID     = uuid.MustParse("b0000000-0000-0000-0000-000000000001")
	TaskID        = uuid.MustParse("c0000000-0000-0000-0000-000000000001")
	CommentID     = uuid.MustParse("d0000000-0000-0000-0000-000000000001")
)

// Result は投入した件数。既に存在したものは数えない。
type Result struct {
	Users    int
	Projects int
	Tasks    int
	Comments int
}

// Total は投入した件数の合計。
func (r Result) Total() int {
	return r.Users + r.Projects + r.Tasks + r.Comments
}

// Run は初期データを 1 つの UnitOfWork で投入する。
// ユーザーはメールアドレス、それ以外は固定 ID で存在を確認するので何度実行してもよい。
func Run(ctx context.Context, f repository.Factory, now time.Time) (Result, error) {
	var res Result
	err := repository.Write(ctx, f, func(uow repository.UnitOfWork) error {
		users := []struct {
			id    uuid.UUID
			name  string
			email string
			role  user.Role
		}{
			{RegularUserID, "Regular User", "usuario@exemplo.com", user.RoleRegular},
			{ManagerUserID, "Manager User", "gerente@exemplo.com", user.RoleManager},
		}
		for _, su := range users {
			created, err := ensureUser(ctx, uow, su.id, su.name, su.email, su.role)
			if err != nil {
				return err
			}
			if created {
				res.Users++
			}
		}

		p, created, err := ensureProject(ctx, uow, now)
		if err != nil {
			return err
		}
		if created {
			res.Projects++
		}

		t, created, err := ensureTask(ctx, uow, p, now)
		if err != nil {
			return err
		}
		if created {
			res.Tasks++
		}

		created, err = ensureComment(ctx, uow, t, now)
		if err != nil {
			return err
		}
		if created {
			res.Comments++
		}
		return nil
	})
	return res, err
}

func ensureUser(ctx context.Context, uow repository.UnitOfWork, id uuid.UUID, name, email string, role user.Role) (bool, error) {
	_, err := uow.Users().GetByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, base.ErrNotFound) {
		return false, err
	}

	u, err := user.NewUser(id, name, email, role)
	if err != nil {
		return false, err
	}
	return true, uow.Users().Create(ctx, u)
}

func ensureProject(ctx context.Context, uow repository.UnitOfWork, now time.Time) (*project.Project, bool, error) {
	p, err := uow.Projects().GetByID(ctx, ProjectID)
	if err == nil {
		return p, false, nil
	}
	if !errors.Is(err, base.ErrNotFound) {
		return nil, false, err
	}

	p, err = project.NewProject(
		"Example Project",
		"An example project for trying out the API.",
		RegularUserID,
		now,
	)
	if err != nil {
		return nil, false, err
	}
	p.ID = ProjectID
	return p, true, uow.Projects().Create(ctx, p)
}

func ensureTask(ctx context.Context, uow repository.UnitOfWork, p *project.Project, now time.Time) (*task.Task, bool, error) {
	t, err := uow.Tasks().GetByID(ctx, TaskID)
	if err == nil {
		return t, false, nil
	}
	if !errors.Is(err, base.ErrNotFound) {
		return nil, false, err
	}

	t, err = task.NewTask(
		p.ID,
		RegularUserID,
		"Example Task",
		"A detailed description showing how seeded tasks fill their fields and initial state.",
		task.PriorityMedium,
		nil,
		now,
	)
	if err != nil {
		return nil, false, err
	}
	relabel(t, TaskID)

	count, err := uow.Tasks().CountByProject(ctx, p.ID)
	if err != nil {
		return nil, false, err
	}
	if err := p.ValidateCanAddTask(t, count); err != nil {
		return nil, false, err
	}
	if err := uow.Tasks().Create(ctx, t); err != nil {
		return nil, false, err
	}
	if err := uow.History().Create(ctx, t.NewHistory()...); err != nil {
		return nil, false, err
	}
	t.MarkHistorySaved()
	return t, true, nil
}

func ensureComment(ctx context.Context, uow repository.UnitOfWork, t *task.Task, now time.Time) (bool, error) {
	_, err := uow.Comments().GetByID(ctx, CommentID)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, base.ErrNotFound) {
		return false, err
	}

	c, err := task.NewComment(t.ID, RegularUserID, "This is an example comment on the task.", now)
	if err != nil {
		return false, err
	}
	c.ID = CommentID
	if err := t.AddComment(c); err != nil {
		return false, err
	}
	if err := uow.Comments().Create(ctx, c); err != nil {
		return false, err
	}
	if err := uow.History().Create(ctx, t.NewHistory()...); err != nil {
		return false, err
	}
	t.MarkHistorySaved()
	return true, nil
}

// relabel は生成済みタスクの ID を固定 ID に置き換え、履歴の参照も揃える。
func relabel(t *task.Task, id uuid.UUID) {
	t.ID = id
	for i := range t.History {
		t.History[i].TaskID = id
	}
}

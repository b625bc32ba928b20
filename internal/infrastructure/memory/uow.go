package memory

import (
	"context"

	"taskflow/internal/usecase/repository"
)

// change は 1 回の書き込み。作業用コピーと確定時の両方に同じ関数を適用する。
type change struct {
	apply func(*state) error
	rows  int
}

type unitOfWork struct {
	store   *Store
	working *state
	log     []change
	closed  bool

	projects *projectRepository
	tasks    *taskRepository
	users    *userRepository
	comments *commentRepository
	history  *historyRepository
}

// コンパイル時にインターフェース実装を保証する。
var _ repository.UnitOfWork = (*unitOfWork)(nil)

func (u *unitOfWork) Projects() repository.ProjectRepository {
	if u.projects == nil {
		u.projects = &projectRepository{uow: u}
	}
	return u.projects
}

func (u *unitOfWork) Tasks() repository.TaskRepository {
	if u.tasks == nil {
		u.tasks = &taskRepository{uow: u}
	}
	return u.tasks
}

func (u *unitOfWork) Users() repository.UserRepository {
	if u.users == nil {
		u.users = &userRepository{uow: u}
	}
	return u.users
}

func (u *unitOfWork) Comments() repository.CommentRepository {
	if u.comments == nil {
		u.comments = &commentRepository{uow: u}
	}
	return u.comments
}

func (u *unitOfWork) History() repository.HistoryRepository {
	if u.history == nil {
		u.history = &historyRepository{uow: u}
	}
	return u.history
}

// Commit は変更ログをストアに適用する。失敗した場合は変更をすべて破棄する。
func (u *unitOfWork) Commit(ctx context.Context) (int, error) {
	if u.closed {
		return 0, repository.ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	log := u.log
	u.log = nil
	if err := u.store.apply(log); err != nil {
		u.working = u.store.snapshot()
		return 0, err
	}
	u.working = u.store.snapshot()

	n := 0
	for _, c := range log {
		n += c.rows
	}
	return n, nil
}

func (u *unitOfWork) Rollback(context.Context) error {
	if u.closed {
		return repository.ErrClosed
	}
	u.log = nil
	u.working = u.store.snapshot()
	return nil
}

func (u *unitOfWork) Close() error {
	if u.closed {
		return nil
	}
	u.log = nil
	u.working = nil
	u.closed = true
	return nil
}

// read は閉じていなければ作業用コピーを返す。
func (u *unitOfWork) read() (*state, error) {
	if u.closed {
		return nil, repository.ErrClosed
	}
	return u.working, nil
}

// stage は fn を作業用コピーに適用し、成功したらログに積む。
func (u *unitOfWork) stage(rows int, fn func(*state) error) error {
	if u.closed {
		return repository.ErrClosed
	}
	if err := fn(u.working); err != nil {
		return err
	}
	u.log = append(u.log, change{apply: fn, rows: rows})
	return nil
}

package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"taskflow/internal/usecase/repository"
)

// unitOfWork は 1 つの *sql.Tx を共有するリポジトリ群。
// Commit / Rollback 後に再び使われた場合は新しいトランザクションを開始する。
type unitOfWork struct {
	db     *DB
	tx     *sql.Tx
	rows   int
	closed bool

	projects *projectRepository
	tasks    *taskRepository
	users    *userRepository
	comments *commentRepository
	history  *historyRepository
}

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

func (u *unitOfWork) Commit(ctx context.Context) (int, error) {
	if u.closed {
		return 0, repository.ErrClosed
	}
	if u.tx == nil {
		return 0, nil
	}

	tx, n := u.tx, u.rows
	u.tx, u.rows = nil, 0
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}
	return n, nil
}

func (u *unitOfWork) Rollback(context.Context) error {
	if u.closed {
		return repository.ErrClosed
	}
	return u.rollback()
}

func (u *unitOfWork) Close() error {
	if u.closed {
		return nil
	}
	u.closed = true
	return u.rollback()
}

func (u *unitOfWork) rollback() error {
	if u.tx == nil {
		return nil
	}
	tx := u.tx
	u.tx, u.rows = nil, 0
	if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
		return fmt.Errorf("failed to rollback: %w", err)
	}
	return nil
}

// session は現在のトランザクションを返す。無ければ開始する。
func (u *unitOfWork) session(ctx context.Context) (*sql.Tx, error) {
	if u.closed {
		return nil, repository.ErrClosed
	}
	if u.tx == nil {
		tx, err := u.db.beginTx(ctx)
		if err != nil {
			return nil, err
		}
		u.tx = tx
	}
	return u.tx, nil
}

// exec は書き込みを実行し、影響行数を Commit の戻り値に積む。
func (u *unitOfWork) exec(ctx context.Context, query string, args ...any) (int64, error) {
	tx, err := u.session(ctx)
	if err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, u.db.dialect.rebind(query), args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	u.rows += int(n)
	return n, nil
}

func (u *unitOfWork) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	tx, err := u.session(ctx)
	if err != nil {
		return nil, err
	}
	return tx.QueryContext(ctx, u.db.dialect.rebind(query), args...)
}

func (u *unitOfWork) queryRow(ctx context.Context, query string, args ...any) (*sql.Row, error) {
	tx, err := u.session(ctx)
	if err != nil {
		return nil, err
	}
	return tx.QueryRowContext(ctx, u.db.dialect.rebind(query), args...), nil
}

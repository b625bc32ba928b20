package repository

import (
	"context"
	"errors"
)

// ErrClosed は Close 済みの UnitOfWork を使おうとしたときのエラー。
var ErrClosed = errors.New("unit of work is closed")

// UnitOfWork はリクエスト単位のトランザクション境界。
// 各リポジトリへの書き込みは Commit まで確定しない。
// 1 つの UnitOfWork を複数の goroutine で共有してはならない。
type UnitOfWork interface {
	Projects() ProjectRepository
	Tasks() TaskRepository
	Users() UserRepository
	Comments() CommentRepository
	History() HistoryRepository

	// Commit は積まれた変更をまとめて確定し、影響を受けた行数を返す。
	Commit(ctx context.Context) (int, error)
	// Rollback は積まれた変更を破棄する。
	Rollback(ctx context.Context) error
	// Close はセッションを解放する。未確定の変更はロールバックされる。
	Close() error
}

// Factory は UnitOfWork を開始する。
type Factory interface {
	Begin(ctx context.Context) (UnitOfWork, error)
}

// Package memory は UnitOfWork とリポジトリのインメモリ実装。
// テストとローカル開発用で、プロセス終了とともに内容は消える。
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"taskflow/internal/domain/project"
	"taskflow/internal/domain/task"
	"taskflow/internal/domain/user"
	"taskflow/internal/usecase/repository"
)

// state は全テーブルの内容。行は値で保持し、呼び出し側の変更が漏れないようにする。
type state struct {
	users    map[uuid.UUID]user.User
	projects map[uuid.UUID]project.Project
	tasks    map[uuid.UUID]task.Task
	comments map[uuid.UUID]task.Comment
	history  []task.HistoryEntry
}

func newState() *state {
	return &state{
		users:    make(map[uuid.UUID]user.User),
		projects: make(map[uuid.UUID]project.Project),
		tasks:    make(map[uuid.UUID]task.Task),
		comments: make(map[uuid.UUID]task.Comment),
	}
}

func (s *state) clone() *state {
	return &state{
		users:    maps.Clone(s.users),
		projects: maps.Clone(s.projects),
		tasks:    maps.Clone(s.tasks),
		comments: maps.Clone(s.comments),
		history:  slices.Clone(s.history),
	}
}

// Store は確定済みの状態を保持する。
// Begin 時点の状態を複製して作業用コピーとし、Commit で変更ログを再適用する。
type Store struct {
	mu        sync.Mutex
	committed *state
	now       func() time.Time
}

// Option は Store の構築オプション。
type Option func(*Store)

// WithClock は論理削除時刻に使う時計を差し替える。
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore は空のストアを生成する。
func NewStore(opts ...Option) *Store {
	s := &Store{
		committed: newState(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// コンパイル時にインターフェース実装を保証する。
var _ repository.Factory = (*Store)(nil)

// Begin は新しい UnitOfWork を開始する。
func (s *Store) Begin(ctx context.Context) (repository.UnitOfWork, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &unitOfWork{store: s, working: s.snapshot()}, nil
}

func (s *Store) snapshot() *state {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.committed.clone()
}

// apply は変更ログを確定済み状態のコピーに順に適用し、すべて成功した場合のみ置き換える。
func (s *Store) apply(log []change) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.committed.clone()
	for _, c := range log {
		if err := c.apply(next); err != nil {
			return err
		}
	}
	s.committed = next
	return nil
}

package base

import (
	"time"

	"github.com/google/uuid"
)

// SoftDeletable は tombstone を持つエンティティが満たすインターフェース。
// ストレージアダプタはこれを使って削除済みの行を一律に除外する。
type SoftDeletable interface {
	Identity() uuid.UUID
	Deleted() bool
}

// Entity はすべての論理削除対応エンティティが埋め込む共通部分。
// IsDeleted == false のとき DeletedAt は必ず nil。
type Entity struct {
	ID        uuid.UUID
	IsDeleted bool
	DeletedAt *time.Time
}

// NewEntity は新しい ID を採番した Entity を返す。
func NewEntity() Entity {
	return Entity{ID: uuid.New()}
}

// NewEntityWithID は指定 ID で Entity を生成する。
// uuid.Nil は受け付けない。
func NewEntityWithID(id uuid.UUID) (Entity, error) {
	if id == uuid.Nil {
		return Entity{}, Required("id", "entity id must not be empty")
	}
	return Entity{ID: id}, nil
}

// Identity は ID を返す。
func (e Entity) Identity() uuid.UUID { return e.ID }

// Deleted は tombstone 状態かどうかを返す。
func (e Entity) Deleted() bool { return e.IsDeleted }

// Delete は論理削除する。既に削除済みなら何もしない。
func (e *Entity) Delete(now time.Time) {
	if e.IsDeleted {
		return
	}
	at := now.UTC()
	e.IsDeleted = true
	e.DeletedAt = &at
}

// Restore は論理削除を取り消す。削除されていなければ何もしない。
func (e *Entity) Restore() {
	if !e.IsDeleted {
		return
	}
	e.IsDeleted = false
	e.DeletedAt = nil
}

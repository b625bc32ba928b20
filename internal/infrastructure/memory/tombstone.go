package memory

import (
	"time"

	"github.com/google/uuid"

	"taskflow/internal/domain/base"
)

// live は論理削除されていない行だけを返す。全テーブル共通のフィルタ。
func live[T base.SoftDeletable](rows map[uuid.UUID]T, keep func(T) bool) []T {
	out := make([]T, 0)
	for _, row := range rows {
		if row.Deleted() {
			continue
		}
		if keep == nil || keep(row) {
			out = append(out, row)
		}
	}
	return out
}

// liveByID は id の行が存在し論理削除されていなければ返す。
func liveByID[T base.SoftDeletable](rows map[uuid.UUID]T, id uuid.UUID) (T, bool) {
	row, ok := rows[id]
	if !ok || row.Deleted() {
		var zero T
		return zero, false
	}
	return row, true
}

type tombstoner[T any] interface {
	*T
	base.SoftDeletable
	Delete(now time.Time)
}

// softDelete は行を tombstone に書き換える。未知・削除済みなら false。
func softDelete[T any, P tombstoner[T]](rows map[uuid.UUID]T, id uuid.UUID, now time.Time) bool {
	row, ok := rows[id]
	if !ok || P(&row).Deleted() {
		return false
	}
	P(&row).Delete(now)
	rows[id] = row
	return true
}

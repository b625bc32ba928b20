package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// liveWhere は条件に論理削除フィルタを加えた WHERE 句を返す。
// 論理削除対応テーブルへの読み取りはすべてこれを通す。
func liveWhere(conds ...string) string {
	parts := append([]string{"is_deleted = FALSE"}, conds...)
	return " WHERE " + strings.Join(parts, " AND ")
}

// softDelete は行を tombstone に書き換える。未知・削除済みなら false。
func (u *unitOfWork) softDelete(ctx context.Context, table string, id uuid.UUID) (bool, error) {
	n, err := u.exec(ctx,
		"UPDATE "+table+" SET is_deleted = TRUE, deleted_at = ?"+liveWhere("id = ?"),
		u.db.now().UTC(), id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	return n > 0, nil
}

// exists は論理削除されていない行があるかどうか。
func (u *unitOfWork) exists(ctx context.Context, table string, id uuid.UUID) (bool, error) {
	row, err := u.queryRow(ctx, "SELECT COUNT(*) FROM "+table+liveWhere("id = ?"), id)
	if err != nil {
		return false, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return false, fmt.Errorf("failed to check %s: %w", table, err)
	}
	return n > 0, nil
}

package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"taskflow/internal/domain/base"
)

// scanner は *sql.Row と *sql.Rows の共通部分。
type scanner interface {
	Scan(dest ...any) error
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	u := t.Time.UTC()
	return &u
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

// missingOrConflict は version 付き UPDATE が 0 行だった理由を判定する。
func (u *unitOfWork) missingOrConflict(ctx context.Context, table, entity string, id uuid.UUID) error {
	ok, err := u.exists(ctx, table, id)
	if err != nil {
		return err
	}
	if !ok {
		return base.NotFound(entity, id)
	}
	return base.Conflict(entity, entity+" was modified concurrently")
}

package task

import (
	"cmp"
	"context"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskflow/internal/domain/base"
	"taskflow/internal/usecase/repository"
)

// ReportWindowDays はパフォーマンスレポートの集計対象日数。
const ReportWindowDays = 30

// PerformanceEntry はユーザーごとの完了実績。
type PerformanceEntry struct {
	UserID         uuid.UUID `json:"userId"`
	UserName       string    `json:"userName"`
	CompletedCount int       `json:"completedCount"`
	AveragePerDay  float64   `json:"averagePerDay"`
}

// GetPerformanceReport は直近 30 日の完了タスク数をオーナー別に集計する。
// 閲覧できるのは manager のみ。件数の多い順、同数なら名前順。
func (s *Service) GetPerformanceReport(ctx context.Context, requestingUserID uuid.UUID) ([]PerformanceEntry, error) {
	if err := base.RequireID("userId", requestingUserID); err != nil {
		return nil, err
	}

	since := s.Now().UTC().AddDate(0, 0, -ReportWindowDays)
	out := make([]PerformanceEntry, 0)
	err := repository.Read(ctx, s.Factory, func(uow repository.UnitOfWork) error {
		requester, err := uow.Users().GetByID(ctx, requestingUserID)
		if err != nil {
			return err
		}
		if !requester.IsManager() {
			return base.Forbidden("only managers can view the performance report")
		}

		counts, err := uow.Tasks().CompletedCountsByOwnerSince(ctx, since)
		if err != nil {
			return err
		}
		for _, c := range counts {
			if c.Count <= 0 {
				continue
			}
			entry := PerformanceEntry{
				UserID:         c.OwnerUserID,
				CompletedCount: c.Count,
				AveragePerDay:  float64(c.Count) / ReportWindowDays,
			}
			// オーナーが削除済みでも集計には残す
			if u, err := uow.Users().GetByID(ctx, c.OwnerUserID); err == nil {
				entry.UserName = u.Name
			} else if base.KindOf(err) != base.KindNotFound {
				return err
			}
			out = append(out, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(out, func(a, b PerformanceEntry) int {
		if c := cmp.Compare(b.CompletedCount, a.CompletedCount); c != 0 {
			return c
		}
		return cmp.Compare(a.UserName, b.UserName)
	})

	s.Logger.Debug("performance report generated",
		zap.Stringer("requesting_user_id", requestingUserID),
		zap.Int("entries", len(out)),
	)
	return out, nil
}

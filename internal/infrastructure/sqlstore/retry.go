package sqlstore

import (
	"context"
	"database/sql/driver"
	"errors"
	"math"
	"math/rand"
	"net"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// RetryPolicy は接続障害に対する再試行設定。
// 指数バックオフ（baseDelay * 2^(attempt-1)）に ±25% の jitter を加え、maxDelay で頭打ちにする。
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultRetryPolicy は 3 回・100ms 起点・最大 2 秒。
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   100 * time.Millisecond,
		MaxDelay:    2 * time.Second,
	}
}

// Delay は attempt 回目（1 始まり）の失敗後に待つ時間を返す。
func (p RetryPolicy) Delay(attempt int) time.Duration {
	delay := time.Duration(math.Pow(2, float64(attempt-1))) * p.BaseDelay

	jitterRange := int64(float64(delay) * 0.25)
	if jitterRange > 0 {
		delay += time.Duration(rand.Int63n(2*jitterRange) - jitterRange)
	}
	if delay > p.MaxDelay {
		delay = p.MaxDelay
	}
	if delay < 0 {
		delay = 0
	}
	return delay
}

// do は fn を transient な接続エラーの間だけ再試行する。
// 論理エラー（制約違反・楽観ロック不一致など）は再試行しない。
func (p RetryPolicy) do(ctx context.Context, logger *zap.Logger, op string, fn func() error) error {
	attempts := max(p.MaxAttempts, 1)

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(); err == nil || !isTransient(err) || attempt == attempts {
			return err
		}

		delay := p.Delay(attempt)
		logger.Warn("transient database error, retrying",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return multierr.Append(err, ctx.Err())
		case <-timer.C:
		}
	}
	return err
}

// isTransient は接続レベルの一時的な障害かどうか。
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) {
		return true
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

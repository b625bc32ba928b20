// Package sqlstore は database/sql を使った UnitOfWork とリポジトリの実装。
// PostgreSQL（pgx）、MySQL、SQLite（modernc）に対応し、SQL は ? プレースホルダで一度だけ書く。
package sqlstore

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"taskflow/internal/usecase/repository"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Options は接続設定。
type Options struct {
	Dialect      Dialect
	DSN          string
	MaxOpenConns int
	Retry        RetryPolicy
	Logger       *zap.Logger
	// Now は論理削除時刻に使う時計。nil なら time.Now。
	Now func() time.Time
}

// DB は接続プールと方言を保持し、UnitOfWork を払い出す。
type DB struct {
	db      *sql.DB
	dialect Dialect
	retry   RetryPolicy
	logger  *zap.Logger
	now     func() time.Time
}

// コンパイル時にインターフェース実装を保証する。
var _ repository.Factory = (*DB)(nil)

// Open は接続プールを作り、疎通を確認する。
func Open(ctx context.Context, opts Options) (*DB, error) {
	if opts.DSN == "" {
		return nil, fmt.Errorf("sqlstore: dsn is required")
	}
	if opts.Retry.MaxAttempts == 0 {
		opts.Retry = DefaultRetryPolicy()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	sqlDB, err := sql.Open(opts.Dialect.driverName(), opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", opts.Dialect, err)
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.Dialect == SQLite {
		// SQLite は書き込みが直列なので 1 接続に絞る
		sqlDB.SetMaxOpenConns(1)
	}

	d := &DB{
		db:      sqlDB,
		dialect: opts.Dialect,
		retry:   opts.Retry,
		logger:  opts.Logger.Named("sqlstore"),
		now:     opts.Now,
	}
	if err := d.Ping(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return d, nil
}

// Ping は接続を確認する。接続障害は RetryPolicy に従って再試行する。
func (d *DB) Ping(ctx context.Context) error {
	err := d.retry.do(ctx, d.logger, "ping", func() error {
		return d.db.PingContext(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to ping %s: %w", d.dialect, err)
	}
	return nil
}

// Close は接続プールを閉じる。
func (d *DB) Close() error {
	return d.db.Close()
}

// Dialect は接続先の方言を返す。
func (d *DB) Dialect() Dialect {
	return d.dialect
}

// ApplySchema は方言ごとの schema を適用する。すべて IF NOT EXISTS なので何度実行してもよい。
func (d *DB) ApplySchema(ctx context.Context) error {
	b, err := schemaFS.ReadFile("schema/" + string(d.dialect) + ".sql")
	if err != nil {
		return fmt.Errorf("schema for %s not found: %w", d.dialect, err)
	}

	for _, stmt := range strings.Split(string(b), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	d.logger.Info("schema applied", zap.String("dialect", string(d.dialect)))
	return nil
}

// Begin は新しい UnitOfWork を開始する。トランザクションの開始は接続障害時に再試行する。
func (d *DB) Begin(ctx context.Context) (repository.UnitOfWork, error) {
	u := &unitOfWork{db: d}
	if _, err := u.session(ctx); err != nil {
		return nil, err
	}
	return u, nil
}

func (d *DB) beginTx(ctx context.Context) (*sql.Tx, error) {
	var tx *sql.Tx
	err := d.retry.do(ctx, d.logger, "begin", func() error {
		var err error
		tx, err = d.db.BeginTx(ctx, nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

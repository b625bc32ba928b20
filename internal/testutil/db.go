//go:build integration
// +build integration

// Package testutil は統合テスト用の PostgreSQL を用意する。
// DB_TEST_DSN があればそれを使い、無ければ testcontainers でコンテナを起動する。
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// PostgresDSN は接続先 DSN を返す。コンテナを起動した場合はテスト終了時に破棄する。
func PostgresDSN(t *testing.T) string {
	t.Helper()
	if dsn := os.Getenv("DB_TEST_DSN"); dsn != "" {
		return dsn
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "taskflow",
				"POSTGRES_PASSWORD": "taskflow",
				"POSTGRES_DB":       "taskflow",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("failed to get container port: %v", err)
	}

	dsn := fmt.Sprintf("postgres://taskflow:taskflow@%s:%s/taskflow?sslmode=disable", host, port.Port())
	pool, err := WaitForDB(ctx, dsn, 30*time.Second)
	if err != nil {
		t.Fatalf("db not ready: %v", err)
	}
	pool.Close()
	return dsn
}

// WaitForDB waits for the database to be ready.
func WaitForDB(ctx context.Context, dsn string, timeout time.Duration) (*pgxpool.Pool, error) {
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		pool, err := pgxpool.New(ctx, dsn)
		if err == nil {
			pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
			err = pool.Ping(pctx)
			cancel()
			if err == nil {
				return pool, nil
			}
			pool.Close()
		}
		time.Sleep(300 * time.Millisecond)
	}
	return nil, fmt.Errorf("timeout waiting for db")
}

// ResetTables は全テーブルを空にする。共有 DB を使う場合に前回の行を消すため。
func ResetTables(t *testing.T, dsn string) {
	t.Helper()
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer pool.Close()

	_, err = pool.Exec(ctx, "TRUNCATE TABLE history_entries, comments, tasks, projects, users")
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

// Package config はアプリケーション設定の読み込みと検証を行う。
//
// 優先順位は 既定値 < YAML ファイル < TASKFLOW_* 環境変数 < CLI フラグ。
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// EnvProduction は本番環境を表す Env の値。
const EnvProduction = "production"

// 対応しているストレージドライバ。
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Env     string        `yaml:"env"`
	HTTP    HTTPConfig    `yaml:"http"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	Seed    bool          `yaml:"seed"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	IdleTimeout     time.Duration `yaml:"idleTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

type StorageConfig struct {
	Driver       string      `yaml:"driver"`
	DSN          string      `yaml:"dsn"`
	MaxOpenConns int         `yaml:"maxOpenConns"`
	ApplySchema  bool        `yaml:"applySchema"`
	Retry        RetryConfig `yaml:"retry"`
}

type RetryConfig struct {
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseDelay   time.Duration `yaml:"baseDelay"`
	MaxDelay    time.Duration `yaml:"maxDelay"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"` // "json" | "console"（空なら Env で決める）
	File       string `yaml:"file"`   // 空ならファイル出力しない
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
}

// Default は既定値の設定を返す。
func Default() Config {
	return Config{
		Env: "development",
		HTTP: HTTPConfig{
			Addr:            ":8081",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Storage: StorageConfig{
			Driver:      DriverMemory,
			ApplySchema: true,
			Retry: RetryConfig{
				MaxAttempts: 3,
				BaseDelay:   100 * time.Millisecond,
				MaxDelay:    2 * time.Second,
			},
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// DefaultPath は設定ファイルの既定パス（$XDG_CONFIG_HOME/taskflow/config.yaml）。
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "taskflow", "config.yaml")
}

// DefaultSQLiteDSN は sqlite の既定 DSN。データディレクトリは必要なら作成する。
func DefaultSQLiteDSN() (string, error) {
	path, err := xdg.DataFile(filepath.Join("taskflow", "taskflow.db"))
	if err != nil {
		return "", fmt.Errorf("resolve sqlite data file: %w", err)
	}
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", nil
}

// Load は既定値に path の YAML と環境変数を重ねた設定を返す。
// required が false の場合、ファイルが無くてもエラーにしない。
func Load(path string, required bool, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			if !errors.Is(err, os.ErrNotExist) || required {
				return cfg, err
			}
		}
	}
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// IsProduction は本番環境かどうか。
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, EnvProduction)
}

// Resolve は値から決まる既定値を埋める。sqlite で DSN が無ければデータディレクトリを使う。
func (c *Config) Resolve() error {
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	if c.Storage.Driver == DriverSQLite && c.Storage.DSN == "" {
		dsn, err := DefaultSQLiteDSN()
		if err != nil {
			return err
		}
		c.Storage.DSN = dsn
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
		if c.IsProduction() {
			c.Log.Format = "json"
		}
	}
	return nil
}

// Validate は設定の整合性を検証する。問題はまとめて返す。
// 本番環境ではメモリストアとデモデータ投入を拒否する。
func (c Config) Validate() error {
	var err error

	switch c.Storage.Driver {
	case DriverMemory:
		if c.IsProduction() {
			err = multierr.Append(err, errors.New("storage.driver=memory must not be used in production"))
		}
	case DriverPostgres, DriverMySQL, DriverSQLite:
		if strings.TrimSpace(c.Storage.DSN) == "" {
			err = multierr.Append(err, fmt.Errorf("storage.dsn must be set for driver %s", c.Storage.Driver))
		}
	default:
		err = multierr.Append(err, fmt.Errorf("unsupported storage.driver: %q", c.Storage.Driver))
	}

	if c.Seed && c.IsProduction() {
		err = multierr.Append(err, errors.New("seed must not be enabled in production"))
	}
	if c.HTTP.Addr == "" {
		err = multierr.Append(err, errors.New("http.addr must be set"))
	}
	if c.Storage.Retry.MaxAttempts < 1 {
		err = multierr.Append(err, errors.New("storage.retry.maxAttempts must be at least 1"))
	}
	switch c.Log.Format {
	case "", "json", "console":
	default:
		err = multierr.Append(err, fmt.Errorf("unsupported log.format: %q", c.Log.Format))
	}
	return err
}

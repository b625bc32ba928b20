package config

import (
	"fmt"
	"strconv"
	"time"

	"go.uber.org/multierr"
)

// EnvPrefix は設定を上書きする環境変数の接頭辞。
const EnvPrefix = "TASKFLOW_"

// ApplyEnv は TASKFLOW_* 環境変数で設定を上書きする。
// Env は APP_ENV も参照する（TASKFLOW_ENV が優先）。
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("APP_ENV"); ok && v != "" {
		c.Env = v
	}

	strs := map[string]*string{
		"ENV":            &c.Env,
		"HTTP_ADDR":      &c.HTTP.Addr,
		"STORAGE_DRIVER": &c.Storage.Driver,
		"STORAGE_DSN":    &c.Storage.DSN,
		"LOG_LEVEL":      &c.Log.Level,
		"LOG_FORMAT":     &c.Log.Format,
		"LOG_FILE":       &c.Log.File,
	}
	for key, dst := range strs {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			*dst = v
		}
	}

	var err error
	ints := map[string]*int{
		"STORAGE_MAX_OPEN_CONNS":     &c.Storage.MaxOpenConns,
		"STORAGE_RETRY_MAX_ATTEMPTS": &c.Storage.Retry.MaxAttempts,
	}
	for key, dst := range ints {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			n, perr := strconv.Atoi(v)
			if perr != nil {
				err = multierr.Append(err, fmt.Errorf("%s%s: %w", EnvPrefix, key, perr))
				continue
			}
			*dst = n
		}
	}

	durations := map[string]*time.Duration{
		"HTTP_SHUTDOWN_TIMEOUT":    &c.HTTP.ShutdownTimeout,
		"STORAGE_RETRY_BASE_DELAY": &c.Storage.Retry.BaseDelay,
		"STORAGE_RETRY_MAX_DELAY":  &c.Storage.Retry.MaxDelay,
	}
	for key, dst := range durations {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			d, perr := time.ParseDuration(v)
			if perr != nil {
				err = multierr.Append(err, fmt.Errorf("%s%s: %w", EnvPrefix, key, perr))
				continue
			}
			*dst = d
		}
	}

	bools := map[string]*bool{
		"SEED":                 &c.Seed,
		"STORAGE_APPLY_SCHEMA": &c.Storage.ApplySchema,
	}
	for key, dst := range bools {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			b, perr := strconv.ParseBool(v)
			if perr != nil {
				err = multierr.Append(err, fmt.Errorf("%s%s: %w", EnvPrefix, key, perr))
				continue
			}
			*dst = b
		}
	}
	return err
}

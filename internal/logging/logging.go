// Package logging は設定から zap ロガーを組み立てる。
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"taskflow/internal/config"
)

// New は cfg に従ってロガーを生成する。
// json 形式はそのまま、console 形式は端末に出すときだけ色を付ける。
// cfg.File が指定されていれば lumberjack でローテートするファイルにも書く。
func New(cfg config.LogConfig) (*zap.Logger, error) {
	return build(cfg, os.Stderr, isatty.IsTerminal(os.Stderr.Fd()))
}

func build(cfg config.LogConfig, out io.Writer, tty bool) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		l, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = l
	}

	cores := []zapcore.Core{
		zapcore.NewCore(encoder(cfg.Format, tty), zapcore.Lock(zapcore.AddSync(out)), level),
	}
	if cfg.File != "" {
		sink := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}
		// ファイルは常に json
		cores = append(cores, zapcore.NewCore(encoder("json", false), zapcore.AddSync(sink), level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}

func encoder(format string, tty bool) zapcore.Encoder {
	if format == "json" {
		ec := zap.NewProductionEncoderConfig()
		ec.EncodeTime = zapcore.ISO8601TimeEncoder
		return zapcore.NewJSONEncoder(ec)
	}

	ec := zap.NewDevelopmentEncoderConfig()
	if tty {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return zapcore.NewConsoleEncoder(ec)
}

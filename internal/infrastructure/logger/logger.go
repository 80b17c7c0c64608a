// Package logger builds the zap loggers used across the service and carries
// request-scoped fields through context.
package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config selects level, encoding and destination. Output is "stdout",
// "stderr" or a file path; files rotate by size with lumberjack.
type Config struct {
	Level      string
	Format     string // json or console
	Output     string
	TimeFormat string

	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// New builds a logger for cfg. The closer releases the log file and is a
// no-op for the standard streams.
func New(cfg *Config) (*zap.Logger, io.Closer, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}
	sink, closer, err := openSink(cfg)
	if err != nil {
		return nil, nil, err
	}
	core := zapcore.NewCore(newEncoder(cfg), sink, level)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), closer, nil
}

// ParseLevel accepts zap level names case-insensitively plus "warning".
// An empty string means info.
func ParseLevel(s string) (zapcore.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return zapcore.InfoLevel, nil
	case "warning":
		return zapcore.WarnLevel, nil
	}
	level, err := zapcore.ParseLevel(s)
	if err != nil {
		return level, fmt.Errorf("log level %q: %w", s, err)
	}
	return level, nil
}

func newEncoder(cfg *Config) zapcore.Encoder {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "time"
	enc.NameKey = "logger"
	enc.EncodeDuration = zapcore.MillisDurationEncoder
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	if cfg.TimeFormat != "" {
		enc.EncodeTime = zapcore.TimeEncoderOfLayout(cfg.TimeFormat)
	}
	if cfg.Format == "console" {
		enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(enc)
	}
	return zapcore.NewJSONEncoder(enc)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func openSink(cfg *Config) (zapcore.WriteSyncer, io.Closer, error) {
	switch strings.ToLower(cfg.Output) {
	case "", "stdout":
		return zapcore.Lock(os.Stdout), nopCloser{}, nil
	case "stderr":
		return zapcore.Lock(os.Stderr), nopCloser{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Output), 0o755); err != nil {
		return nil, nil, fmt.Errorf("log directory: %w", err)
	}
	rotator := &lumberjack.Logger{
		Filename:   cfg.Output,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	return zapcore.AddSync(rotator), rotator, nil
}

// Sync flushes l. Terminals and pipes reject fsync with EINVAL or ENOTTY;
// those errors are dropped.
func Sync(l *zap.Logger) error {
	err := l.Sync()
	if errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) {
		return nil
	}
	return err
}

package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGormLogger(level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), recorded
}

func query(sql string, rows int64) func() (string, int64) {
	return func() (string, int64) { return sql, rows }
}

func TestGormLogger_Options(t *testing.T) {
	gl, _ := newObservedGormLogger(gormlogger.Info,
		WithSlowThreshold(time.Second),
		WithNotFoundErrors(),
	)
	assert.Equal(t, time.Second, gl.slowThreshold)
	assert.True(t, gl.logNotFound)

	clone, ok := gl.LogMode(gormlogger.Warn).(*GormLogger)
	require.True(t, ok)
	assert.Equal(t, gormlogger.Warn, clone.level)
	assert.Equal(t, gormlogger.Info, gl.level)
}

func TestGormLogger_ParamsFilter(t *testing.T) {
	const insert = "INSERT INTO orders (customer_email) VALUES ($1)"

	gl, _ := newObservedGormLogger(gormlogger.Info)
	sql, params := gl.ParamsFilter(context.Background(), insert, "ada@example.com")
	assert.Equal(t, insert, sql)
	assert.Nil(t, params)

	gl, _ = newObservedGormLogger(gormlogger.Info, WithBoundValues())
	_, params = gl.ParamsFilter(context.Background(), insert, "ada@example.com")
	assert.Equal(t, []interface{}{"ada@example.com"}, params)
}

func TestGormLogger_Trace(t *testing.T) {
	tests := []struct {
		name      string
		level     gormlogger.LogLevel
		opts      []GormLoggerOption
		elapsed   time.Duration
		err       error
		wantLevel zapcore.Level
		wantMsg   string
	}{
		{name: "error", level: gormlogger.Warn, err: errors.New("constraint"), wantLevel: zapcore.ErrorLevel, wantMsg: "SQL Error"},
		{name: "record not found ignored", level: gormlogger.Info, err: gormlogger.ErrRecordNotFound},
		{name: "record not found logged on request", level: gormlogger.Info, opts: []GormLoggerOption{WithNotFoundErrors()},
			err: gormlogger.ErrRecordNotFound, wantLevel: zapcore.ErrorLevel, wantMsg: "SQL Error"},
		{name: "silent", level: gormlogger.Silent, err: errors.New("x")},
		{name: "slow query", level: gormlogger.Warn, opts: []GormLoggerOption{WithSlowThreshold(time.Millisecond)},
			elapsed: time.Second, wantLevel: zapcore.WarnLevel, wantMsg: "Slow SQL"},
		{name: "slow logging disabled", level: gormlogger.Warn, opts: []GormLoggerOption{WithSlowThreshold(0)}, elapsed: time.Second},
		{name: "normal query at warn", level: gormlogger.Warn},
		{name: "normal query at info", level: gormlogger.Info, wantLevel: zapcore.DebugLevel, wantMsg: "SQL Query"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gl, recorded := newObservedGormLogger(tt.level, tt.opts...)
			ctx := context.WithValue(context.Background(), requestIDKey, "req-3")
			gl.Trace(ctx, time.Now().Add(-tt.elapsed), query("SELECT * FROM articles", 3), tt.err)

			if tt.wantMsg == "" {
				assert.Empty(t, recorded.All())
				return
			}
			require.Len(t, recorded.All(), 1)
			entry := recorded.All()[0]
			assert.Equal(t, tt.wantLevel, entry.Level)
			assert.Equal(t, tt.wantMsg, entry.Message)
			fields := entry.ContextMap()
			assert.Equal(t, "req-3", fields["request_id"])
			assert.Equal(t, "SELECT * FROM articles", fields["sql"])
			assert.Equal(t, int64(3), fields["rows"])
		})
	}
}

func TestGormLogger_TraceAdminField(t *testing.T) {
	gl, recorded := newObservedGormLogger(gormlogger.Info)
	ctx := WithAdmin(context.Background(), "admin")
	gl.Trace(ctx, time.Now(), query("DELETE FROM orders", 1), nil)

	require.Len(t, recorded.All(), 1)
	assert.Equal(t, "admin", fieldMap(recorded.All()[0])["admin"])
}

func TestGormLogger_Messages(t *testing.T) {
	gl, recorded := newObservedGormLogger(gormlogger.Warn)
	ctx := context.Background()
	gl.Info(ctx, "suppressed %d", 1)
	gl.Warn(ctx, "warn %s", "x")
	gl.Error(ctx, "error %s", "y")

	logs := recorded.All()
	require.Len(t, logs, 2)
	assert.Equal(t, "warn x", logs[0].Message)
	assert.Equal(t, "error y", logs[1].Message)
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("warn"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("unknown"))
}

var _ gormlogger.Interface = (*GormLogger)(nil)

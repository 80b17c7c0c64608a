package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trycco/storefront/internal/infrastructure/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func installRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = provider.Shutdown(context.Background())
	})
	return recorder
}

func attrMap(attrs []attribute.KeyValue) map[string]attribute.Value {
	out := make(map[string]attribute.Value, len(attrs))
	for _, kv := range attrs {
		out[string(kv.Key)] = kv.Value
	}
	return out
}

func TestStartSpan_EndSpan(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want codes.Code
	}{
		{"failure", errors.New("boom"), codes.Error},
		{"success", nil, codes.Ok},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := installRecorder(t)

			_, span := StartSpan(context.Background(), "OrderService.PlaceOrder", SpanQuantity.Int(2))
			span.SetAttributes(SpanOrderID.String("o-1"))
			EndSpan(span, tt.err)

			ended := recorder.Ended()
			require.Len(t, ended, 1)
			assert.Equal(t, "OrderService.PlaceOrder", ended[0].Name())
			assert.Equal(t, TracerName, ended[0].InstrumentationScope().Name)
			assert.Equal(t, tt.want, ended[0].Status().Code)
			assert.Equal(t, tt.err != nil, len(ended[0].Events()) == 1)

			attrs := attrMap(ended[0].Attributes())
			assert.Equal(t, int64(2), attrs["quantity"].AsInt64())
			assert.Equal(t, "o-1", attrs["order_id"].AsString())
		})
	}
}

func TestEndSpan_NilSafe(t *testing.T) {
	EndSpan(nil, errors.New("x"))
}

func TestNewSampler(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), newSampler(1).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), newSampler(0).Description())
	assert.Contains(t, newSampler(0.25).Description(), "TraceIDRatioBased{0.25}")
}

func TestDBTracing_MarksSlowQueries(t *testing.T) {
	recorder := installRecorder(t)
	tracing := NewDBTracing(config.TelemetryConfig{
		Enabled:           true,
		DBTraceEnabled:    true,
		DBSlowQueryThresh: time.Millisecond,
	}, config.DriverPostgres, zap.NewNop())

	ctx, span := StartSpan(context.Background(), "query")
	ctx = context.WithValue(ctx, queryStartTimeKey, time.Now().Add(-50*time.Millisecond))
	db := &gorm.DB{Statement: &gorm.Statement{Context: ctx, Table: "orders"}, RowsAffected: 1}
	db.Statement.DB = db
	db.Error = errors.New("deadlock")
	tracing.after(db)
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	attrs := attrMap(ended[0].Attributes())
	assert.True(t, attrs["db.slow_query"].AsBool())
	assert.Equal(t, "orders", attrs["db.sql.table"].AsString())
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	require.NotEmpty(t, ended[0].Events())
}

func TestDBTracing_IgnoresRecordNotFound(t *testing.T) {
	recorder := installRecorder(t)
	tracing := NewDBTracing(config.TelemetryConfig{Enabled: true, DBTraceEnabled: true}, config.DriverSQLite, zap.NewNop())
	assert.Equal(t, "sqlite", tracing.dbSystem)
	assert.Equal(t, defaultSlowQueryThreshold, tracing.slowThreshold)

	ctx, span := StartSpan(context.Background(), "query")
	db := &gorm.DB{Statement: &gorm.Statement{Context: ctx}}
	db.Statement.DB = db
	db.Error = gorm.ErrRecordNotFound
	tracing.before(db)
	tracing.after(db)
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.NotEqual(t, codes.Error, ended[0].Status().Code)
	_, slow := attrMap(ended[0].Attributes())["db.slow_query"]
	assert.False(t, slow)
}

func TestDBTracing_DisabledIsNoop(t *testing.T) {
	tracing := NewDBTracing(config.TelemetryConfig{Enabled: true}, config.DriverPostgres, zap.NewNop())
	assert.NoError(t, tracing.Register(nil))
}

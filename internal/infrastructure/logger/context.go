package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type ctxKey int

const (
	loggerKey ctxKey = iota
	requestIDKey
	adminKey
)

// WithContext stores logger on ctx.
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// WithRequestID tags ctx with requestID and stores a logger carrying it.
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	tagged := logger.With(zap.String("request_id", requestID))
	ctx = context.WithValue(ctx, requestIDKey, requestID)
	return WithContext(ctx, tagged), tagged
}

// WithAdmin records the authenticated back-office user on ctx.
func WithAdmin(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, adminKey, username)
}

func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func GetAdmin(ctx context.Context) string {
	admin, _ := ctx.Value(adminKey).(string)
	return admin
}

// FromContext returns the request logger stored on ctx with the active span
// and admin attached, or a no-op logger when ctx has none.
//
//	logger.FromContext(ctx).Info("order placed", zap.String("order_id", id))
func FromContext(ctx context.Context) *zap.Logger {
	l, ok := ctx.Value(loggerKey).(*zap.Logger)
	if !ok || l == nil {
		return zap.NewNop()
	}
	// the stored logger already carries request_id
	return scoped(ctx, l, false)
}

// Enrich attaches the span, request and admin fields of ctx to a logger
// that was not built from the request, such as the GORM logger.
func Enrich(ctx context.Context, l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return scoped(ctx, l, true)
}

func scoped(ctx context.Context, l *zap.Logger, withRequestID bool) *zap.Logger {
	var fields []zap.Field
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = append(fields,
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}
	if id := GetRequestID(ctx); withRequestID && id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if admin := GetAdmin(ctx); admin != "" {
		fields = append(fields, zap.String("admin", admin))
	}
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}

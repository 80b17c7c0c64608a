// Package middleware provides HTTP middleware for the storefront and the
// back-office API.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// MaxRequestIDLength bounds request IDs taken from headers.
const MaxRequestIDLength = 128

// Span attributes added on top of the otelgin semantic conventions.
const (
	attrRequestID   = attribute.Key("request_id")
	attrAdmin       = attribute.Key("admin")
	attrClientError = attribute.Key("storefront.client_error")
)

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// TracingWithConfig starts a server span per request. Span names follow
// "METHOD route_pattern", e.g. "GET /product/:id".
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return otelgin.Middleware(cfg.ServiceName)
}

// SpanEnricher tags the server span once the handlers have run. It must sit
// after TracingWithConfig so the span is still open.
//
// Only 5xx responses mark the span as failed. Rejections such as 404 or 422
// are the client's fault and get a storefront.client_error attribute instead.
func SpanEnricher() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}
		if id := getRequestID(c); id != "" {
			span.SetAttributes(attrRequestID.String(id))
		}
		if admin := GetAdminUsername(c); admin != "" {
			span.SetAttributes(attrAdmin.String(admin))
		}
		for _, ginErr := range c.Errors {
			span.RecordError(ginErr.Err)
		}

		status := c.Writer.Status()
		switch {
		case status >= http.StatusInternalServerError:
			span.SetStatus(codes.Error, http.StatusText(status))
		case status >= http.StatusBadRequest:
			span.SetAttributes(attrClientError.String(http.StatusText(status)))
		}
	}
}

// getRequestID returns the id set by RequestID, falling back to the header
// truncated to MaxRequestIDLength.
func getRequestID(c *gin.Context) string {
	if id := c.GetString(RequestIDKey); id != "" {
		return id
	}
	headerID := c.GetHeader(RequestIDHeader)
	if len(headerID) > MaxRequestIDLength {
		return headerID[:MaxRequestIDLength]
	}
	return headerID
}

package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prevTP := otel.GetTracerProvider()
	prevProp := otel.GetTextMapPropagator()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	t.Cleanup(func() {
		_ = tp.Shutdown(t.Context())
		otel.SetTracerProvider(prevTP)
		otel.SetTextMapPropagator(prevProp)
	})
	return sr
}

func findSpan(t *testing.T, sr *tracetest.SpanRecorder, name string) sdktrace.ReadOnlySpan {
	t.Helper()
	for _, span := range sr.Ended() {
		if span.Name() == name {
			return span
		}
	}
	t.Fatalf("span %q not recorded", name)
	return nil
}

func spanAttr(span sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, attr := range span.Attributes() {
		if string(attr.Key) == key {
			return attr.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTracingWithConfig_Disabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sr := setupTestTracer(t)

	router := gin.New()
	router.Use(TracingWithConfig(TracingConfig{Enabled: false}))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, sr.Ended())
}

func tracedRouter(extra ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(RequestID())
	router.Use(TracingWithConfig(TracingConfig{Enabled: true, ServiceName: "test-service"}))
	router.Use(SpanEnricher())
	router.Use(extra...)
	return router
}

func TestSpanEnricher_TagsRequestAndAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sr := setupTestTracer(t)

	router := tracedRouter()
	router.GET("/product/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	guarded := func(c *gin.Context) {
		c.Set(AdminUsernameKey, "admin")
		c.Next()
	}
	router.GET("/admin/api/v1/orders", guarded, func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/product/5b0f", nil)
	req.Header.Set(RequestIDHeader, "req-abc")
	router.ServeHTTP(httptest.NewRecorder(), req)
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/admin/api/v1/orders", nil))

	product := findSpan(t, sr, "GET /product/:id")
	v, ok := spanAttr(product, "request_id")
	require.True(t, ok)
	assert.Equal(t, "req-abc", v.AsString())
	_, ok = spanAttr(product, "admin")
	assert.False(t, ok)

	v, ok = spanAttr(findSpan(t, sr, "GET /admin/api/v1/orders"), "admin")
	require.True(t, ok)
	assert.Equal(t, "admin", v.AsString())
}

func TestSpanEnricher_Status(t *testing.T) {
	tests := []struct {
		status      int
		wantError   bool
		clientError string
	}{
		{http.StatusOK, false, ""},
		{http.StatusSeeOther, false, ""},
		{http.StatusNotFound, false, "Not Found"},
		{http.StatusUnprocessableEntity, false, "Unprocessable Entity"},
		{http.StatusTooManyRequests, false, "Too Many Requests"},
		{http.StatusInternalServerError, true, ""},
		{http.StatusServiceUnavailable, true, ""},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			sr := setupTestTracer(t)

			router := tracedRouter()
			router.GET("/status", func(c *gin.Context) { c.Status(tt.status) })
			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/status", nil))

			span := findSpan(t, sr, "GET /status")
			if tt.wantError {
				assert.Equal(t, codes.Error, span.Status().Code)
			} else {
				assert.NotEqual(t, codes.Error, span.Status().Code)
			}
			v, ok := spanAttr(span, "storefront.client_error")
			assert.Equal(t, tt.clientError != "", ok)
			if ok {
				assert.Equal(t, tt.clientError, v.AsString())
			}
		})
	}
}

func TestSpanEnricher_RecordsGinErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sr := setupTestTracer(t)

	router := tracedRouter()
	router.GET("/fail", func(c *gin.Context) {
		_ = c.Error(errors.New("smtp dial refused"))
		c.Status(http.StatusInternalServerError)
	})
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))

	span := findSpan(t, sr, "GET /fail")
	var messages []string
	for _, ev := range span.Events() {
		if ev.Name != "exception" {
			continue
		}
		for _, attr := range ev.Attributes {
			if attr.Key == "exception.message" {
				messages = append(messages, attr.Value.AsString())
			}
		}
	}
	assert.Contains(t, messages, "smtp dial refused")
}

func TestSpanEnricher_WithNoSpan(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(SpanEnricher())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	w := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set(RequestIDHeader, strings.Repeat("x", 300))
	assert.Len(t, getRequestID(c), MaxRequestIDLength)

	c.Set(RequestIDKey, "from-context")
	assert.Equal(t, "from-context", getRequestID(c))
}

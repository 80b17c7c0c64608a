package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	_ "github.com/trycco/storefront/docs"
	"github.com/trycco/storefront/internal/interfaces/http/handler"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestMount_BasePathAndGuards(t *testing.T) {
	engine := gin.New()
	public := NewArea("public", "").GET("/products", func(c *gin.Context) { c.String(http.StatusOK, "list") })
	admin := NewArea("admin", "/orders").
		Guard(nil, func(c *gin.Context) { c.Header("X-Area", "admin"); c.Next() }).
		GET("", func(c *gin.Context) { c.Status(http.StatusOK) }).
		DELETE("/:id", func(c *gin.Context) { c.AbortWithStatus(http.StatusNoContent) })

	Mount(engine, "/admin/api/v1", admin)
	Mount(engine, "", public)

	w := serve(engine, http.MethodGet, "/admin/api/v1/orders")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin", w.Header().Get("X-Area"))
	assert.Equal(t, http.StatusNoContent, serve(engine, http.MethodDelete, "/admin/api/v1/orders/7").Code)
	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/orders").Code)

	w = serve(engine, http.MethodGet, "/products")
	assert.Equal(t, "list", w.Body.String())
	assert.Empty(t, w.Header().Get("X-Area"))
}

func TestArea_Methods(t *testing.T) {
	engine := gin.New()
	echo := func(c *gin.Context) { c.String(http.StatusOK, c.Request.Method) }
	a := NewArea("articles", "/articles").
		GET("", echo).POST("", echo).PUT("/:id", echo).PATCH("/:id", echo).DELETE("/:id", echo)
	Mount(engine, "", a)

	for _, tt := range []struct{ method, path string }{
		{http.MethodGet, "/articles"},
		{http.MethodPost, "/articles"},
		{http.MethodPut, "/articles/1"},
		{http.MethodPatch, "/articles/1"},
		{http.MethodDelete, "/articles/1"},
	} {
		w := serve(engine, tt.method, tt.path)
		assert.Equal(t, http.StatusOK, w.Code, tt.method)
		assert.Equal(t, tt.method, w.Body.String())
	}
}

func TestArea_AnyExcept(t *testing.T) {
	engine := gin.New()
	a := NewArea("orders", "").
		POST("/order", func(c *gin.Context) { c.String(http.StatusCreated, "placed") }).
		AnyExcept("/order", []string{http.MethodPost, http.MethodOptions}, func(c *gin.Context) {
			c.String(http.StatusSeeOther, "redirect")
		})
	Mount(engine, "", a)

	assert.Equal(t, http.StatusCreated, serve(engine, http.MethodPost, "/order").Code)
	for _, m := range []string{http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		assert.Equal(t, http.StatusSeeOther, serve(engine, m, "/order").Code, m)
	}
	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodOptions, "/order").Code)
}

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

func abortWith(status int) gin.HandlerFunc {
	return func(c *gin.Context) { c.AbortWithStatus(status) }
}

func testHandlers(withJobs bool) Handlers {
	h := Handlers{
		Storefront: handler.NewStorefrontHandler(nil, nil),
		System:     handler.NewSystemHandler("storefront", "test", okPinger{}),
		Auth:       handler.NewAuthHandler(nil, "Trycco"),
		Category:   handler.NewCategoryHandler(nil),
		Tag:        handler.NewTagHandler(nil),
		Article:    handler.NewArticleHandler(nil),
		Order:      handler.NewOrderHandler(nil, nil),
	}
	if withJobs {
		h.Job = handler.NewJobHandler(nil)
	}
	return h
}

func TestRegister(t *testing.T) {
	engine := gin.New()
	Register(engine, testHandlers(true), Guards{
		Admin: abortWith(http.StatusUnauthorized),
		Login: abortWith(http.StatusTooManyRequests),
		Order: abortWith(http.StatusTooManyRequests),
	})

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"health", http.MethodGet, "/health", http.StatusOK},
		{"ready", http.MethodGet, "/ready", http.StatusOK},
		{"order form is throttled", http.MethodPost, "/product/abc/order", http.StatusTooManyRequests},
		{"order GET redirects", http.MethodGet, "/product/abc/order", http.StatusSeeOther},
		{"order DELETE redirects", http.MethodDelete, "/product/abc/order", http.StatusSeeOther},
		{"login is throttled, not guarded", http.MethodPost, AdminBasePath + "/auth/login", http.StatusTooManyRequests},
		{"me is guarded", http.MethodGet, AdminBasePath + "/auth/me", http.StatusUnauthorized},
		{"logout is guarded", http.MethodPost, AdminBasePath + "/auth/logout", http.StatusUnauthorized},
		{"categories", http.MethodGet, AdminBasePath + "/categories", http.StatusUnauthorized},
		{"subcategories", http.MethodDelete, AdminBasePath + "/subcategories/1", http.StatusUnauthorized},
		{"tags", http.MethodPut, AdminBasePath + "/tags/1", http.StatusUnauthorized},
		{"article picture", http.MethodPut, AdminBasePath + "/articles/1/picture", http.StatusUnauthorized},
		{"upload url", http.MethodPost, AdminBasePath + "/articles/1/picture/upload-url", http.StatusUnauthorized},
		{"monthly reset", http.MethodPost, AdminBasePath + "/articles/reset-monthly-sales", http.StatusUnauthorized},
		{"orders", http.MethodGet, AdminBasePath + "/orders/1", http.StatusUnauthorized},
		{"notification status", http.MethodPatch, AdminBasePath + "/notifications/1/status", http.StatusUnauthorized},
		{"jobs", http.MethodGet, AdminBasePath + "/jobs", http.StatusUnauthorized},
		{"job run", http.MethodPost, AdminBasePath + "/jobs/monthly-sales-reset/run", http.StatusUnauthorized},
		{"unknown", http.MethodGet, "/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, serve(engine, tt.method, tt.path).Code)
		})
	}

	w := serve(engine, http.MethodGet, "/product/abc/order")
	assert.Equal(t, "/product/abc", w.Header().Get("Location"))
}

func TestRegister_WithoutJobs(t *testing.T) {
	engine := gin.New()
	Register(engine, testHandlers(false), Guards{Admin: abortWith(http.StatusUnauthorized)})

	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, AdminBasePath+"/jobs").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(engine, http.MethodGet, AdminBasePath+"/orders").Code)
}

func TestRegister_Docs(t *testing.T) {
	t.Run("served with the guard", func(t *testing.T) {
		engine := gin.New()
		h := testHandlers(false)
		h.Docs = ginSwagger.WrapHandler(swaggerFiles.Handler)
		Register(engine, h, Guards{
			Admin: abortWith(http.StatusUnauthorized),
			Docs:  func(c *gin.Context) { c.Header("X-Docs", "guarded"); c.Next() },
		})

		w := serve(engine, http.MethodGet, "/swagger/doc.json")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "guarded", w.Header().Get("X-Docs"))
		body := w.Body.String()
		assert.Contains(t, body, `"swagger": "2.0"`)
		assert.Contains(t, body, `"/product/{id}/order"`)
		assert.Contains(t, body, `"/admin/api/v1/articles"`)
		assert.Contains(t, body, `"/admin/api/v1/notifications/{id}/status"`)
		assert.Contains(t, body, `"BearerAuth"`)

		assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/swagger/index.html").Code)
	})

	t.Run("guard can refuse", func(t *testing.T) {
		engine := gin.New()
		h := testHandlers(false)
		h.Docs = ginSwagger.WrapHandler(swaggerFiles.Handler)
		Register(engine, h, Guards{Docs: abortWith(http.StatusNotFound)})

		assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/swagger/doc.json").Code)
	})

	t.Run("not mounted without a handler", func(t *testing.T) {
		engine := gin.New()
		Register(engine, testHandlers(false), Guards{})

		assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/swagger/doc.json").Code)
	})
}

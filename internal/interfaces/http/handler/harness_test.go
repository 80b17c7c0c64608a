package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	catalogapp "github.com/trycco/storefront/internal/application/catalog"
	tradeapp "github.com/trycco/storefront/internal/application/trade"
	"github.com/trycco/storefront/internal/domain/catalog"
	"github.com/trycco/storefront/internal/infrastructure/event"
	"github.com/trycco/storefront/internal/infrastructure/mail"
	"github.com/trycco/storefront/internal/infrastructure/persistence"
	"github.com/trycco/storefront/internal/infrastructure/storage"
	"github.com/trycco/storefront/internal/interfaces/http/dto"
	"github.com/trycco/storefront/internal/interfaces/http/middleware"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

type harness struct {
	db         *gorm.DB
	router     *gin.Engine
	categories *persistence.GormCategoryRepository
	subs       *persistence.GormSubCategoryRepository
	tags       *persistence.GormTagRepository
	articles   *persistence.GormArticleRepository
	orders     *persistence.GormOrderRepository
	notices    *persistence.GormNotificationRepository
	clock      time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, persistence.AutoMigrate(db))

	h := &harness{
		db:         db,
		categories: persistence.NewGormCategoryRepository(db),
		subs:       persistence.NewGormSubCategoryRepository(db),
		tags:       persistence.NewGormTagRepository(db),
		articles:   persistence.NewGormArticleRepository(db),
		orders:     persistence.NewGormOrderRepository(db),
		notices:    persistence.NewGormNotificationRepository(db),
		clock:      time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}

	log := zap.NewNop()
	bus := event.NewInMemoryEventBus(log)
	pictureStorage := storage.NewPublicPictureStorage("https://cdn.test")
	pictures := catalogapp.NewPictureResolver(pictureStorage, time.Hour, log)

	listing := catalogapp.NewListingService(h.articles, h.categories, pictures, log)
	taxonomy := catalogapp.NewTaxonomyService(h.categories, h.subs, h.tags, bus, log)
	articles := catalogapp.NewArticleService(h.articles, h.categories, h.subs, h.tags, bus, log).
		WithPictureStorage(pictureStorage, pictures)
	orders := tradeapp.NewOrderService(h.articles, h.orders, bus, log)
	notifications := tradeapp.NewNotificationService(h.notices, log)

	bus.Subscribe(tradeapp.NewOrderPlacedNotificationHandler(
		mail.NewLogMailer(log), h.notices,
		tradeapp.NotificationSettings{SiteTitle: "Trycco"}, log,
	))

	router := gin.New()
	router.Use(middleware.RequestID())

	storefront := NewStorefrontHandler(listing, orders)
	router.GET("/", storefront.Landing)
	router.GET("/products", storefront.Products)
	router.GET("/products/load-more", storefront.LoadMore)
	router.GET("/product/:id", storefront.Detail)
	router.POST("/product/:id/order", storefront.PlaceOrder)
	router.GET("/product/:id/order", storefront.OrderRedirect)

	admin := router.Group("/admin/api/v1")
	categoryHandler := NewCategoryHandler(taxonomy)
	admin.GET("/categories", categoryHandler.List)
	admin.GET("/categories/:id", categoryHandler.GetByID)
	admin.POST("/categories", categoryHandler.Create)
	admin.PUT("/categories/:id", categoryHandler.Update)
	admin.DELETE("/categories/:id", categoryHandler.Delete)
	admin.GET("/subcategories", categoryHandler.ListSubCategories)
	admin.POST("/subcategories", categoryHandler.CreateSubCategory)
	admin.PUT("/subcategories/:id", categoryHandler.UpdateSubCategory)
	admin.DELETE("/subcategories/:id", categoryHandler.DeleteSubCategory)

	tagHandler := NewTagHandler(taxonomy)
	admin.GET("/tags", tagHandler.List)
	admin.POST("/tags", tagHandler.Create)
	admin.PUT("/tags/:id", tagHandler.Update)
	admin.DELETE("/tags/:id", tagHandler.Delete)

	articleHandler := NewArticleHandler(articles)
	admin.GET("/articles", articleHandler.List)
	admin.GET("/articles/:id", articleHandler.GetByID)
	admin.POST("/articles", articleHandler.Create)
	admin.PUT("/articles/:id", articleHandler.Update)
	admin.DELETE("/articles/:id", articleHandler.Delete)
	admin.POST("/articles/:id/picture/upload-url", articleHandler.RequestUpload)
	admin.PUT("/articles/:id/picture", articleHandler.AttachPicture)
	admin.POST("/articles/reset-monthly-sales", articleHandler.ResetMonthlySales)

	orderHandler := NewOrderHandler(orders, notifications)
	admin.GET("/orders", orderHandler.List)
	admin.GET("/orders/:id", orderHandler.GetByID)
	admin.DELETE("/orders/:id", orderHandler.Delete)
	admin.GET("/notifications", orderHandler.ListNotifications)
	admin.GET("/notifications/:id", orderHandler.GetNotification)
	admin.PATCH("/notifications/:id/status", orderHandler.UpdateNotificationStatus)

	h.router = router
	return h
}

func (h *harness) tick() time.Time {
	h.clock = h.clock.Add(time.Minute)
	return h.clock
}

func (h *harness) category(t *testing.T, name string, landing bool) *catalog.Category {
	t.Helper()
	c, err := catalog.NewCategory(name, landing)
	require.NoError(t, err)
	c.CreatedAt = h.tick()
	require.NoError(t, h.categories.Save(context.Background(), c))
	return c
}

func (h *harness) tag(t *testing.T, name string) *catalog.Tag {
	t.Helper()
	tag, err := catalog.NewTag(name)
	require.NoError(t, err)
	require.NoError(t, h.tags.Save(context.Background(), tag))
	return tag
}

func (h *harness) article(t *testing.T, name, price string, configure ...func(*catalog.Article)) *catalog.Article {
	t.Helper()
	a, err := catalog.NewArticle(name, decimal.RequireFromString(price))
	require.NoError(t, err)
	a.SetSizes([]string{"S", "M", "L"})
	a.SetColors([]string{"Black", "White"})
	for _, fn := range configure {
		fn(a)
	}
	a.CreatedAt = h.tick()
	require.NoError(t, h.articles.Save(context.Background(), a))
	return a
}

func (h *harness) countOrders(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, h.db.Table("orders").Count(&n).Error)
	return n
}

func (h *harness) do(method, path string, body io.Reader, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func (h *harness) get(path string) *httptest.ResponseRecorder {
	return h.do(http.MethodGet, path, nil, nil)
}

func (h *harness) sendJSON(method, path string, payload any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(payload)
	return h.do(method, path, bytes.NewReader(raw), map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	})
}

// decode unmarshals the envelope and its data into out.
func decode(t *testing.T, w *httptest.ResponseRecorder, out any) dto.Response {
	t.Helper()
	var envelope struct {
		dto.Response
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope), w.Body.String())
	if out != nil && len(envelope.Data) > 0 {
		require.NoError(t, json.Unmarshal(envelope.Data, out))
	}
	return envelope.Response
}

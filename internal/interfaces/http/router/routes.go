package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/trycco/storefront/internal/interfaces/http/handler"
)

// AdminBasePath prefixes every back-office API route.
const AdminBasePath = "/admin/api/v1"

// SwaggerPath serves the API documentation UI and doc.json.
const SwaggerPath = "/swagger/*any"

// Handlers bundles the HTTP handlers the server mounts. Job and Docs are
// optional.
type Handlers struct {
	Storefront *handler.StorefrontHandler
	System     *handler.SystemHandler
	Auth       *handler.AuthHandler
	Category   *handler.CategoryHandler
	Tag        *handler.TagHandler
	Article    *handler.ArticleHandler
	Order      *handler.OrderHandler
	Job        *handler.JobHandler
	Docs       gin.HandlerFunc
}

// Guards are route-specific middleware; nil entries are skipped.
type Guards struct {
	// Admin authenticates every admin route except login.
	Admin gin.HandlerFunc
	// Login throttles login attempts.
	Login gin.HandlerFunc
	// Order throttles order submissions.
	Order gin.HandlerFunc
	// Docs decides who may read the API documentation.
	Docs gin.HandlerFunc
}

// Register mounts the health checks, the storefront and the admin API on engine.
func Register(engine *gin.Engine, h Handlers, g Guards) {
	engine.GET("/health", h.System.Health)
	engine.GET("/ready", h.System.Ready)
	if h.Docs != nil {
		engine.GET(SwaggerPath, guarded(g.Docs, h.Docs)...)
	}

	storefront := NewArea("storefront", "").
		GET("/", h.Storefront.Landing).
		GET("/products", h.Storefront.Products).
		GET("/products/load-more", h.Storefront.LoadMore).
		GET("/product/:id", h.Storefront.Detail).
		POST("/product/:id/order", guarded(g.Order, h.Storefront.PlaceOrder)...).
		AnyExcept("/product/:id/order", []string{http.MethodPost, http.MethodOptions}, h.Storefront.OrderRedirect)
	Mount(engine, "", storefront)

	authArea := NewArea("auth", "/auth").
		POST("/login", guarded(g.Login, h.Auth.Login)...).
		POST("/logout", guarded(g.Admin, h.Auth.Logout)...).
		GET("/me", guarded(g.Admin, h.Auth.Me)...)

	catalogArea := NewArea("catalog", "").Guard(g.Admin).
		GET("/categories", h.Category.List).
		GET("/categories/:id", h.Category.GetByID).
		POST("/categories", h.Category.Create).
		PUT("/categories/:id", h.Category.Update).
		DELETE("/categories/:id", h.Category.Delete).
		GET("/subcategories", h.Category.ListSubCategories).
		POST("/subcategories", h.Category.CreateSubCategory).
		PUT("/subcategories/:id", h.Category.UpdateSubCategory).
		DELETE("/subcategories/:id", h.Category.DeleteSubCategory).
		GET("/tags", h.Tag.List).
		POST("/tags", h.Tag.Create).
		PUT("/tags/:id", h.Tag.Update).
		DELETE("/tags/:id", h.Tag.Delete).
		GET("/articles", h.Article.List).
		GET("/articles/:id", h.Article.GetByID).
		POST("/articles", h.Article.Create).
		PUT("/articles/:id", h.Article.Update).
		DELETE("/articles/:id", h.Article.Delete).
		POST("/articles/:id/picture/upload-url", h.Article.RequestUpload).
		PUT("/articles/:id/picture", h.Article.AttachPicture).
		POST("/articles/reset-monthly-sales", h.Article.ResetMonthlySales)

	tradeArea := NewArea("trade", "").Guard(g.Admin).
		GET("/orders", h.Order.List).
		GET("/orders/:id", h.Order.GetByID).
		DELETE("/orders/:id", h.Order.Delete).
		GET("/notifications", h.Order.ListNotifications).
		GET("/notifications/:id", h.Order.GetNotification).
		PATCH("/notifications/:id/status", h.Order.UpdateNotificationStatus)

	admin := []*Area{authArea, catalogArea, tradeArea}
	if h.Job != nil {
		admin = append(admin, NewArea("jobs", "/jobs").Guard(g.Admin).
			GET("", h.Job.List).
			POST("/:name/run", h.Job.Run))
	}
	Mount(engine, AdminBasePath, admin...)
}

func guarded(guard gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	if guard == nil {
		return []gin.HandlerFunc{h}
	}
	return []gin.HandlerFunc{guard, h}
}

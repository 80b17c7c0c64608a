package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/trycco/storefront/internal/domain/shared"
)

// Filter keys understood by the trade repositories.
const (
	FilterArticleID = "article_id"
	FilterStatus    = "status"
	FilterSize      = "size"
	FilterColor     = "color"

	// FilterCreatedFrom is inclusive, FilterCreatedBefore exclusive.
	FilterCreatedFrom   = "created_from"
	FilterCreatedBefore = "created_before"
)

// OrderRepository persists orders.
type OrderRepository interface {
	// FindByID loads the order with its article.
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	// FindAll lists orders newest first; Search matches customer name,
	// email, phone and article name.
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// Place inserts the order and adds its quantity to the article's sales
	// counters in one transaction.
	Place(ctx context.Context, order *Order) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// NotificationRepository persists order notifications.
type NotificationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*Notification, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Notification, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, n *Notification) error
}

package trade

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/trycco/storefront/internal/domain/catalog"
	"github.com/trycco/storefront/internal/domain/shared"
)

const AggregateTypeOrder = "Order"

const EventTypeOrderPlaced = "OrderPlaced"

// OrderPlacedEvent is published after an order is committed.
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID       `json:"order_id"`
	ArticleID     uuid.UUID       `json:"article_id"`
	ArticleName   string          `json:"article_name"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	CustomerPhone string          `json:"customer_phone"`
	Number        int             `json:"number"`
	Size          string          `json:"size"`
	Color         string          `json:"color"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Total         decimal.Decimal `json:"total"`
}

func NewOrderPlacedEvent(o *Order, article *catalog.Article) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		ArticleID:       article.ID,
		ArticleName:     article.Name,
		CustomerName:    o.CustomerName,
		CustomerEmail:   o.CustomerEmail,
		CustomerPhone:   o.CustomerPhone,
		Number:          o.Number,
		Size:            o.Size,
		Color:           o.Color,
		UnitPrice:       article.Price,
		Total:           article.Price.Mul(decimal.NewFromInt(int64(o.Number))),
	}
}

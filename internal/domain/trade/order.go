package trade

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/trycco/storefront/internal/domain/catalog"
	"github.com/trycco/storefront/internal/domain/shared"
)

// Order is one shopper's purchase of a single article variant.
// Orders are never modified after creation.
type Order struct {
	shared.Aggregate
	CustomerName  string           `gorm:"type:varchar(100);not null"`
	CustomerEmail string           `gorm:"type:varchar(254);not null;index"`
	CustomerPhone string           `gorm:"type:varchar(20);not null"`
	ArticleID     uuid.UUID        `gorm:"type:uuid;not null;index"`
	Article       *catalog.Article `gorm:"foreignKey:ArticleID;constraint:OnDelete:CASCADE"`
	Number        int              `gorm:"not null"`
	Size          string           `gorm:"type:varchar(50);not null"`
	Color         string           `gorm:"type:varchar(50);not null"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder builds an order for article from a validated intent.
func NewOrder(intent *OrderIntent, article *catalog.Article) (*Order, error) {
	if article == nil {
		return nil, shared.NotFound("article")
	}
	if intent == nil || intent.Number < 1 {
		return nil, shared.InvalidInput("quantity must be at least 1")
	}
	if strings.TrimSpace(intent.CustomerName) == "" {
		return nil, shared.InvalidInput("customer name is required")
	}

	o := &Order{
		Aggregate:     shared.NewAggregate(),
		CustomerName:  intent.CustomerName,
		CustomerEmail: intent.CustomerEmail,
		CustomerPhone: intent.CustomerPhone,
		ArticleID:     article.ID,
		Article:       article,
		Number:        intent.Number,
		Size:          intent.Size,
		Color:         intent.Color,
	}
	o.AddEvent(NewOrderPlacedEvent(o, article))
	return o, nil
}

// Total is the article's current price times the quantity. It is zero when
// the article is not loaded.
func (o *Order) Total() decimal.Decimal {
	if o.Article == nil {
		return decimal.Zero
	}
	return o.Article.Price.Mul(decimal.NewFromInt(int64(o.Number)))
}

package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/trycco/storefront/internal/domain/trade"
)

// OrderResponse is an order with its computed total.
type OrderResponse struct {
	ID            uuid.UUID       `json:"id"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	CustomerPhone string          `json:"customer_phone"`
	ArticleID     uuid.UUID       `json:"article_id"`
	ArticleName   string          `json:"article_name"`
	UnitPrice     decimal.Decimal `json:"unit_price" swaggertype:"string" example:"29.90"`
	Number        int             `json:"number"`
	Size          string          `json:"size"`
	Color         string          `json:"color"`
	Total         decimal.Decimal `json:"total" swaggertype:"string" example:"59.80"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ListQuery pages an admin list of orders or notifications.
type ListQuery struct {
	Search    string     `form:"search"`
	Page      int        `form:"page" binding:"omitempty,min=1"`
	PageSize  int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	ArticleID *uuid.UUID `form:"-"`
	Status    string     `form:"status" binding:"omitempty,oneof=sent received resolved canceled"`

	// Size, Color and the created range apply to order lists only. Both
	// dates are inclusive calendar days in UTC.
	Size        string    `form:"size" binding:"omitempty,max=50"`
	Color       string    `form:"color" binding:"omitempty,max=50"`
	CreatedFrom time.Time `form:"created_from" time_format:"2006-01-02" time_utc:"1"`
	CreatedTo   time.Time `form:"created_to" time_format:"2006-01-02" time_utc:"1"`
}

type NotificationResponse struct {
	ID          uuid.UUID                `json:"id"`
	OrderID     uuid.UUID                `json:"order_id"`
	Status      trade.NotificationStatus `json:"status"`
	Recipient   string                   `json:"recipient"`
	Subject     string                   `json:"subject"`
	Delivered   bool                     `json:"delivered"`
	LastError   string                   `json:"last_error,omitempty"`
	DeliveredAt *time.Time               `json:"delivered_at"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

type UpdateNotificationStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=sent received resolved canceled"`
}

func toOrderResponse(o *trade.Order) *OrderResponse {
	resp := &OrderResponse{
		ID:            o.ID,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		CustomerPhone: o.CustomerPhone,
		ArticleID:     o.ArticleID,
		Number:        o.Number,
		Size:          o.Size,
		Color:         o.Color,
		Total:         o.Total(),
		CreatedAt:     o.CreatedAt,
	}
	if o.Article != nil {
		resp.ArticleName = o.Article.Name
		resp.UnitPrice = o.Article.Price
	}
	return resp
}

func toNotificationResponse(n *trade.Notification) *NotificationResponse {
	return &NotificationResponse{
		ID:          n.ID,
		OrderID:     n.OrderID,
		Status:      n.Status,
		Recipient:   n.Recipient,
		Subject:     n.Subject,
		Delivered:   n.Delivered,
		LastError:   n.LastError,
		DeliveredAt: n.DeliveredAt,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}
}

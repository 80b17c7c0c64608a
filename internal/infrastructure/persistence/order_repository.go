package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/trycco/storefront/internal/domain/catalog"
	"github.com/trycco/storefront/internal/domain/shared"
	"github.com/trycco/storefront/internal/domain/trade"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const orderSearchCondition = `(LOWER(orders.customer_name) LIKE @pattern ESCAPE '\'
 OR LOWER(orders.customer_email) LIKE @pattern ESCAPE '\'
 OR LOWER(orders.customer_phone) LIKE @pattern ESCAPE '\'
 OR orders.article_id IN (SELECT articles.id FROM articles WHERE LOWER(articles.name) LIKE @pattern ESCAPE '\'))`

// GormOrderRepository implements trade.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var order trade.Order
	if err := r.db.WithContext(ctx).Preload("Article").First(&order, "orders.id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NotFound("order")
		}
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Order, error) {
	orders := []trade.Order{}
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&trade.Order{}), filter)
	query = applyOrderAndPage(query, "orders", OrderSortFields, "created_at", filter)
	if err := query.Preload("Article").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&trade.Order{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Place inserts the order and bumps both sales counters of its article in a
// single transaction. Nothing is written if either step fails.
func (r *GormOrderRepository) Place(ctx context.Context, order *trade.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		result := tx.Model(&catalog.Article{}).
			Where("id = ?", order.ArticleID).
			UpdateColumns(map[string]interface{}{
				"number_of_sales_all_time":   gorm.Expr("number_of_sales_all_time + ?", order.Number),
				"number_of_sales_this_month": gorm.Expr("number_of_sales_this_month + ?", order.Number),
			})
		if result.Error != nil {
			return fmt.Errorf("update sales counters: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.NotFound("article")
		}
		return nil
	})
}

// Delete removes the order and its notification.
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&trade.Notification{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&trade.Order{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NotFound("order")
		}
		return nil
	})
}

func (r *GormOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if pattern := filter.SearchPattern(); pattern != "" {
		query = query.Where(orderSearchCondition, map[string]interface{}{"pattern": pattern})
	}
	if value, ok := filter.Filters[trade.FilterArticleID]; ok {
		query = query.Where("orders.article_id = ?", value)
	}
	if value, ok := filter.Filters[trade.FilterSize]; ok {
		query = query.Where("LOWER(orders.size) = LOWER(?)", value)
	}
	if value, ok := filter.Filters[trade.FilterColor]; ok {
		query = query.Where("LOWER(orders.color) = LOWER(?)", value)
	}
	if value, ok := filter.Filters[trade.FilterCreatedFrom]; ok {
		query = query.Where("orders.created_at >= ?", value)
	}
	if value, ok := filter.Filters[trade.FilterCreatedBefore]; ok {
		query = query.Where("orders.created_at < ?", value)
	}
	return query
}

var _ trade.OrderRepository = (*GormOrderRepository)(nil)

package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/trycco/storefront/internal/domain/shared"
	"github.com/trycco/storefront/internal/domain/trade"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormNotificationRepository implements trade.NotificationRepository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

func (r *GormNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Notification, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *GormNotificationRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*trade.Notification, error) {
	return r.findOne(ctx, "order_id = ?", orderID)
}

func (r *GormNotificationRepository) findOne(ctx context.Context, cond string, arg interface{}) (*trade.Notification, error) {
	var n trade.Notification
	if err := r.db.WithContext(ctx).Where(cond, arg).First(&n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NotFound("notification")
		}
		return nil, err
	}
	return &n, nil
}

func (r *GormNotificationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Notification, error) {
	items := []trade.Notification{}
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&trade.Notification{}), filter)
	query = applyOrderAndPage(query, "notifications", NotificationSortFields, "created_at", filter)
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormNotificationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&trade.Notification{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormNotificationRepository) Save(ctx context.Context, n *trade.Notification) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(n).Error
}

func (r *GormNotificationRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if pattern := filter.SearchPattern(); pattern != "" {
		query = query.Where(`LOWER(notifications.recipient) LIKE ? ESCAPE '\'`, pattern)
	}
	if value, ok := filter.Filters[trade.FilterStatus]; ok {
		query = query.Where("notifications.status = ?", value)
	}
	return query
}

var _ trade.NotificationRepository = (*GormNotificationRepository)(nil)

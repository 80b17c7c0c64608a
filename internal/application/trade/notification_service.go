package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/trycco/storefront/internal/domain/shared"
	"github.com/trycco/storefront/internal/domain/trade"
	"go.uber.org/zap"
)

// NotificationService backs the admin notification workflow.
type NotificationService struct {
	notifications trade.NotificationRepository
	logger        *zap.Logger
}

func NewNotificationService(notifications trade.NotificationRepository, logger *zap.Logger) *NotificationService {
	return &NotificationService{notifications: notifications, logger: logger}
}

func (s *NotificationService) ListNotifications(ctx context.Context, q ListQuery) (*shared.Paginated[NotificationResponse], error) {
	filter := q.toFilter()
	if q.Status != "" {
		filter = filter.WithFilter(trade.FilterStatus, q.Status)
	}

	total, err := s.notifications.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	notifications, err := s.notifications.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]NotificationResponse, 0, len(notifications))
	for i := range notifications {
		items = append(items, *toNotificationResponse(&notifications[i]))
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

func (s *NotificationService) GetNotification(ctx context.Context, id uuid.UUID) (*NotificationResponse, error) {
	n, err := s.notifications.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toNotificationResponse(n), nil
}

// UpdateStatus moves a notification along sent, received, resolved or canceled.
func (s *NotificationService) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateNotificationStatusRequest) (*NotificationResponse, error) {
	n, err := s.notifications.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	from := n.Status
	if err := n.TransitionTo(trade.NotificationStatus(req.Status)); err != nil {
		return nil, err
	}
	if err := s.notifications.Save(ctx, n); err != nil {
		return nil, err
	}
	s.logger.Info("Notification status updated",
		zap.String("notification_id", id.String()),
		zap.String("from", string(from)),
		zap.String("to", string(n.Status)),
	)
	return toNotificationResponse(n), nil
}

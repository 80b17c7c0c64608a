package trade

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/trycco/storefront/internal/domain/catalog"
	"github.com/trycco/storefront/internal/domain/shared"
	"github.com/trycco/storefront/internal/domain/trade"
)

type MockArticleRepository struct {
	mock.Mock
}

func (m *MockArticleRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Article, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Article), args.Error(1)
}

func (m *MockArticleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Article, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Article), args.Error(1)
}

func (m *MockArticleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockArticleRepository) FindLanding(ctx context.Context, limit int) ([]catalog.Article, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]catalog.Article), args.Error(1)
}

func (m *MockArticleRepository) FindRelated(ctx context.Context, article *catalog.Article, limit int) ([]catalog.Article, error) {
	args := m.Called(ctx, article, limit)
	return args.Get(0).([]catalog.Article), args.Error(1)
}

func (m *MockArticleRepository) Save(ctx context.Context, article *catalog.Article) error {
	return m.Called(ctx, article).Error(0)
}

func (m *MockArticleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockArticleRepository) ResetMonthlySales(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Order, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]trade.Order), args.Error(1)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) Place(ctx context.Context, order *trade.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Notification), args.Error(1)
}

func (m *MockNotificationRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*trade.Notification, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Notification), args.Error(1)
}

func (m *MockNotificationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Notification, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]trade.Notification), args.Error(1)
}

func (m *MockNotificationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) Save(ctx context.Context, n *trade.Notification) error {
	return m.Called(ctx, n).Error(0)
}

// recordingMailer captures sent messages and fails for listed recipients.
type recordingMailer struct {
	mu      sync.Mutex
	sent    []Message
	failFor map[string]error
	// block makes Send wait for the context to end.
	block bool
}

func (m *recordingMailer) Send(ctx context.Context, msg Message) error {
	if m.block {
		<-ctx.Done()
		return ctx.Err()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, to := range msg.To {
		if err, ok := m.failFor[to]; ok {
			return err
		}
	}
	m.sent = append(m.sent, msg)
	return nil
}

type recordingPublisher struct {
	events []shared.DomainEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return p.err
}

type countingMetrics struct {
	placed   int
	rejected []trade.ValidationKind
	sent     int
	failed   int
}

func (c *countingMetrics) OrderPlaced(context.Context, uuid.UUID, int) { c.placed++ }
func (c *countingMetrics) OrderRejected(_ context.Context, kind trade.ValidationKind) {
	c.rejected = append(c.rejected, kind)
}
func (c *countingMetrics) NotificationSent(context.Context)   { c.sent++ }
func (c *countingMetrics) NotificationFailed(context.Context) { c.failed++ }

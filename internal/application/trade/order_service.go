package trade

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/trycco/storefront/internal/domain/catalog"
	"github.com/trycco/storefront/internal/domain/shared"
	"github.com/trycco/storefront/internal/domain/trade"
	"github.com/trycco/storefront/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ErrPersistenceFailure is returned when a valid order could not be stored.
// Its message is shown to the shopper as is.
var ErrPersistenceFailure = shared.NewDomainError(
	"PERSISTENCE_FAILURE",
	"We could not place your order, please try again.",
)

// OrderMetrics observes order placement outcomes.
type OrderMetrics interface {
	OrderPlaced(ctx context.Context, articleID uuid.UUID, quantity int)
	OrderRejected(ctx context.Context, kind trade.ValidationKind)
}

// OrderService places and administers orders.
type OrderService struct {
	articles  catalog.ArticleRepository
	orders    trade.OrderRepository
	validator *trade.OrderValidator
	events    shared.EventPublisher
	metrics   OrderMetrics
	logger    *zap.Logger
}

func NewOrderService(
	articles catalog.ArticleRepository,
	orders trade.OrderRepository,
	events shared.EventPublisher,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		articles:  articles,
		orders:    orders,
		validator: trade.NewOrderValidator(),
		events:    events,
		logger:    logger,
	}
}

// WithMetrics attaches an order metrics sink.
func (s *OrderService) WithMetrics(m OrderMetrics) *OrderService {
	s.metrics = m
	return s
}

// PlaceOrder validates form against the article and stores the order.
//
// A rejected form yields a *trade.ValidationError. An unknown article yields
// NOT_FOUND. Any storage failure yields ErrPersistenceFailure and nothing is
// written. The OrderPlaced event is published only after the commit, and its
// handlers cannot fail the placement.
func (s *OrderService) PlaceOrder(ctx context.Context, articleID uuid.UUID, form trade.OrderForm) (*OrderResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "OrderService.PlaceOrder",
		telemetry.SpanArticleID.String(articleID.String()))

	resp, err := s.placeOrder(ctx, articleID, form)

	// a rejected form is a handled outcome, not a span error
	var verr *trade.ValidationError
	switch {
	case errors.As(err, &verr):
		span.SetAttributes(telemetry.AttrRejectionKind.String(string(verr.Kind)))
		telemetry.EndSpan(span, nil)
	case err != nil:
		telemetry.EndSpan(span, err)
	default:
		span.SetAttributes(
			telemetry.SpanOrderID.String(resp.ID.String()),
			telemetry.SpanQuantity.Int(resp.Number),
		)
		telemetry.EndSpan(span, nil)
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *OrderService) placeOrder(ctx context.Context, articleID uuid.UUID, form trade.OrderForm) (*OrderResponse, error) {
	article, err := s.articles.FindByID(ctx, articleID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		return nil, s.persistenceFailure("load article", err)
	}

	intent, err := s.validator.Validate(form, article)
	if err != nil {
		var verr *trade.ValidationError
		if errors.As(err, &verr) && s.metrics != nil {
			s.metrics.OrderRejected(ctx, verr.Kind)
		}
		return nil, err
	}

	order, err := trade.NewOrder(intent, article)
	if err != nil {
		return nil, err
	}

	if err := s.orders.Place(ctx, order); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		return nil, s.persistenceFailure("place order", err)
	}
	article.RecordSale(order.Number)

	s.logger.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("article_id", article.ID.String()),
		zap.Int("number", order.Number),
	)
	if s.metrics != nil {
		s.metrics.OrderPlaced(ctx, article.ID, order.Number)
	}

	if err := shared.PublishPending(ctx, s.events, order); err != nil {
		s.logger.Warn("failed to publish order events",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
	}
	return toOrderResponse(order), nil
}

func (s *OrderService) persistenceFailure(step string, err error) error {
	s.logger.Error("order persistence failed", zap.String("step", step), zap.Error(err))
	return fmt.Errorf("%w: %s: %w", ErrPersistenceFailure, step, err)
}

// ListOrders returns orders newest first.
func (s *OrderService) ListOrders(ctx context.Context, q ListQuery) (*shared.Paginated[OrderResponse], error) {
	filter := q.toFilter()
	if q.ArticleID != nil {
		filter = filter.WithFilter(trade.FilterArticleID, *q.ArticleID)
	}
	if size := shared.NormalizeText(q.Size); size != "" {
		filter = filter.WithFilter(trade.FilterSize, size)
	}
	if color := shared.NormalizeText(q.Color); color != "" {
		filter = filter.WithFilter(trade.FilterColor, color)
	}
	if !q.CreatedFrom.IsZero() {
		filter = filter.WithFilter(trade.FilterCreatedFrom, q.CreatedFrom)
	}
	if !q.CreatedTo.IsZero() {
		filter = filter.WithFilter(trade.FilterCreatedBefore, q.CreatedTo.AddDate(0, 0, 1))
	}

	total, err := s.orders.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, *toOrderResponse(&orders[i]))
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// DeleteOrder removes the order and its notification. Sales counters are
// left untouched.
func (s *OrderService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	if err := s.orders.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Order deleted", zap.String("order_id", id.String()))
	return nil
}

func (q ListQuery) toFilter() shared.Filter {
	filter := shared.DefaultFilter()
	if q.Page > 0 {
		filter.Page = q.Page
	}
	if q.PageSize > 0 {
		filter.PageSize = q.PageSize
	}
	filter.Search = strings.TrimSpace(q.Search)
	return filter
}

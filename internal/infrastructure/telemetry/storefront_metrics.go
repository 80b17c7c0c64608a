package telemetry

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/trycco/storefront/internal/domain/trade"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// StorefrontMetrics holds the business instruments of the shop: placed and
// rejected orders, notification deliveries and event handler latency.
type StorefrontMetrics struct {
	ordersPlaced     *Counter
	itemsSold        *Counter
	ordersRejected   *Counter
	notifications    *Counter
	dispatchDuration *Histogram
	dispatchErrors   *Counter
}

// NewStorefrontMetrics creates every instrument on meter.
func NewStorefrontMetrics(meter metric.Meter) (*StorefrontMetrics, error) {
	in := NewInstruments(meter)
	m := &StorefrontMetrics{
		ordersPlaced:   in.Counter("storefront_orders_placed_total", "Orders written to the database", "{order}"),
		itemsSold:      in.Counter("storefront_items_sold_total", "Units sold across all orders", "{item}"),
		ordersRejected: in.Counter("storefront_orders_rejected_total", "Order forms that failed validation, by rejection kind", "{order}"),
		notifications:  in.Counter("storefront_notifications_total", "Order notification emails by outcome", "{email}"),
		dispatchDuration: in.Histogram("storefront_event_dispatch_duration_seconds",
			"Domain event handler latency in seconds", "s", DispatchDurationBuckets),
		dispatchErrors: in.Counter("storefront_event_dispatch_errors_total", "Domain event handlers that returned an error", "{event}"),
	}
	if err := in.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *StorefrontMetrics) OrderPlaced(ctx context.Context, articleID uuid.UUID, quantity int) {
	attr := AttrArticleID.String(articleID.String())
	m.ordersPlaced.Inc(ctx, attr)
	m.itemsSold.Add(ctx, int64(quantity), attr)
}

func (m *StorefrontMetrics) OrderRejected(ctx context.Context, kind trade.ValidationKind) {
	m.ordersRejected.Inc(ctx, AttrRejectionKind.String(string(kind)))
}

func (m *StorefrontMetrics) NotificationSent(ctx context.Context) {
	m.notifications.Inc(ctx, AttrOutcome.String("sent"))
}

func (m *StorefrontMetrics) NotificationFailed(ctx context.Context) {
	m.notifications.Inc(ctx, AttrOutcome.String("failed"))
}

// ObserveDispatch records one event handler run. Its signature matches the
// event bus dispatch observer.
func (m *StorefrontMetrics) ObserveDispatch(ctx context.Context, eventType string, elapsed time.Duration, err error) {
	attrs := []attribute.KeyValue{AttrEventType.String(eventType)}
	m.dispatchDuration.RecordDuration(ctx, elapsed, attrs...)
	if err != nil {
		m.dispatchErrors.Inc(ctx, attrs...)
	}
}

package catalog

import (
	"context"
	"fmt"

	"github.com/trycco/storefront/internal/domain/catalog"
	"github.com/trycco/storefront/internal/domain/shared"
	"go.uber.org/zap"
)

// LandingInvalidationHandler drops the cached landing page whenever the
// catalog changes.
type LandingInvalidationHandler struct {
	cache  LandingCache
	logger *zap.Logger
}

func NewLandingInvalidationHandler(cache LandingCache, logger *zap.Logger) *LandingInvalidationHandler {
	return &LandingInvalidationHandler{cache: cache, logger: logger}
}

func (h *LandingInvalidationHandler) EventTypes() []string {
	return catalog.CatalogEventTypes()
}

func (h *LandingInvalidationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if err := h.cache.Invalidate(ctx); err != nil {
		return fmt.Errorf("invalidate landing cache after %s: %w", event.EventType(), err)
	}
	h.logger.Debug("landing cache invalidated",
		zap.String("event_type", event.EventType()),
		zap.String("aggregate_id", event.AggregateID().String()),
	)
	return nil
}

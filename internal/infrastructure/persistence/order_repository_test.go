package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trycco/storefront/internal/domain/catalog"
	"github.com/trycco/storefront/internal/domain/shared"
	"github.com/trycco/storefront/internal/domain/trade"
)

func newOrder(t *testing.T, article *catalog.Article, name string, number int) *trade.Order {
	t.Helper()
	o, err := trade.NewOrder(&trade.OrderIntent{
		CustomerName:  name,
		CustomerEmail: "shopper@example.com",
		CustomerPhone: "0600000000",
		Number:        number,
		Size:          "M",
		Color:         "Black",
	}, article)
	require.NoError(t, err)
	return o
}

func TestGormOrderRepository_Place(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	article := f.article(t, "Parka", "150.00")

	order := newOrder(t, article, "Ada", 2)
	require.NoError(t, f.orders.Place(ctx, order))

	stored, err := f.orders.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Number)
	require.NotNil(t, stored.Article)
	assert.Equal(t, "300", stored.Total().String())

	reloaded, err := f.articles.FindByID(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), reloaded.NumberOfSalesAllTime)
	assert.Equal(t, int64(2), reloaded.NumberOfSalesThisMonth)

	require.NoError(t, f.orders.Place(ctx, newOrder(t, article, "Grace", 3)))
	reloaded, err = f.articles.FindByID(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), reloaded.NumberOfSalesAllTime)
}

func TestGormOrderRepository_PlaceRollsBack(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	t.Run("unknown article leaves no order", func(t *testing.T) {
		ghost, err := catalog.NewArticle("Ghost", f.article(t, "Real", "1.00").Price)
		require.NoError(t, err)

		err = f.orders.Place(ctx, newOrder(t, ghost, "Ada", 1))
		assert.ErrorIs(t, err, shared.ErrNotFound)

		count, err := f.orders.Count(ctx, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("counter failure leaves no order", func(t *testing.T) {
		article := f.article(t, "Vest", "30.00")
		require.NoError(t, f.db.Migrator().DropTable(&catalog.Article{}))

		err := f.orders.Place(ctx, newOrder(t, article, "Ada", 1))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "update sales counters")

		var count int64
		require.NoError(t, f.db.Model(&trade.Order{}).Count(&count).Error)
		assert.Zero(t, count)
	})
}

func TestGormOrderRepository_ListAndDelete(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	parka := f.article(t, "Parka", "150.00")
	scarf := f.article(t, "Scarf", "20.00")

	first := newOrder(t, parka, "Ada Lovelace", 1)
	first.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, f.orders.Place(ctx, first))
	second := newOrder(t, scarf, "Grace Hopper", 1)
	second.CreatedAt = time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, f.orders.Place(ctx, second))

	all, err := f.orders.FindAll(ctx, shared.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest first")

	byArticle, err := f.orders.FindAll(ctx, shared.Filter{Search: "scarf"})
	require.NoError(t, err)
	require.Len(t, byArticle, 1)
	assert.Equal(t, "Grace Hopper", byArticle[0].CustomerName)

	byCustomer, err := f.orders.Count(ctx, shared.Filter{Search: "lovelace"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), byCustomer)

	n := trade.NewNotification(first.ID, "shopper@example.com", "Order received")
	require.NoError(t, f.notices.Save(ctx, n))

	require.NoError(t, f.orders.Delete(ctx, first.ID))
	_, err = f.notices.FindByOrderID(ctx, first.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.ErrorIs(t, f.orders.Delete(ctx, uuid.New()), shared.ErrNotFound)
}

func TestGormNotificationRepository(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	article := f.article(t, "Parka", "150.00")
	order := newOrder(t, article, "Ada", 1)
	require.NoError(t, f.orders.Place(ctx, order))

	n := trade.NewNotification(order.ID, "ada@example.com", "Your order")
	require.NoError(t, f.notices.Save(ctx, n))

	require.NoError(t, n.TransitionTo(trade.NotificationReceived))
	require.NoError(t, f.notices.Save(ctx, n))

	loaded, err := f.notices.FindByOrderID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, trade.NotificationReceived, loaded.Status)

	received, err := f.notices.FindAll(ctx, shared.DefaultFilter().WithFilter(trade.FilterStatus, trade.NotificationReceived))
	require.NoError(t, err)
	assert.Len(t, received, 1)

	sent, err := f.notices.Count(ctx, shared.DefaultFilter().WithFilter(trade.FilterStatus, trade.NotificationSent))
	require.NoError(t, err)
	assert.Zero(t, sent)

	dup := trade.NewNotification(order.ID, "ada@example.com", "Again")
	assert.Error(t, f.notices.Save(ctx, dup), "one notification per order")
}

func TestGormOrderRepository_Filters(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	tee := f.article(t, "Tee", "10.00")

	march := newOrder(t, tee, "Ada", 1)
	march.CreatedAt = time.Date(2026, 3, 31, 23, 0, 0, 0, time.UTC)
	require.NoError(t, f.orders.Place(ctx, march))
	april := newOrder(t, tee, "Grace", 1)
	april.Size = "XL"
	april.Color = "Navy"
	april.CreatedAt = time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, f.orders.Place(ctx, april))

	bySize, err := f.orders.FindAll(ctx, shared.DefaultFilter().WithFilter(trade.FilterSize, "xl"))
	require.NoError(t, err)
	require.Len(t, bySize, 1)
	assert.Equal(t, april.ID, bySize[0].ID)

	byColor, err := f.orders.Count(ctx, shared.DefaultFilter().WithFilter(trade.FilterColor, "BLACK"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), byColor)

	inMarch := shared.DefaultFilter().
		WithFilter(trade.FilterCreatedFrom, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)).
		WithFilter(trade.FilterCreatedBefore, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))
	orders, err := f.orders.FindAll(ctx, inMarch)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, march.ID, orders[0].ID)

	fromApril, err := f.orders.Count(ctx, shared.DefaultFilter().
		WithFilter(trade.FilterCreatedFrom, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Equal(t, int64(1), fromApril)
}

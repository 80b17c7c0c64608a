package trade

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trycco/storefront/internal/domain/catalog"
	"github.com/trycco/storefront/internal/domain/shared"
	"github.com/trycco/storefront/internal/domain/trade"
	"go.uber.org/zap"
)

type orderFixture struct {
	articles *MockArticleRepository
	orders   *MockOrderRepository
	events   *recordingPublisher
	metrics  *countingMetrics
	svc      *OrderService
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{
		articles: new(MockArticleRepository),
		orders:   new(MockOrderRepository),
		events:   &recordingPublisher{},
		metrics:  &countingMetrics{},
	}
	f.svc = NewOrderService(f.articles, f.orders, f.events, zap.NewNop()).WithMetrics(f.metrics)
	return f
}

func shirt(t *testing.T) *catalog.Article {
	t.Helper()
	a, err := catalog.NewArticle("Oxford Shirt", decimal.RequireFromString("25.50"))
	require.NoError(t, err)
	a.SetSizes([]string{"S", "M"})
	a.SetColors([]string{"White", "Blue"})
	a.ClearEvents()
	return a
}

func validForm() trade.OrderForm {
	return trade.OrderForm{
		CustomerName:  "Ana",
		CustomerEmail: "ana@example.com",
		CustomerPhone: "555-0100",
		Number:        "2",
		Size:          "M",
		Color:         "Blue",
	}
}

func TestOrderService_PlaceOrder(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()
	article := shirt(t)
	f.articles.On("FindByID", ctx, article.ID).Return(article, nil)
	f.orders.On("Place", ctx, mock.AnythingOfType("*trade.Order")).Return(nil)

	resp, err := f.svc.PlaceOrder(ctx, article.ID, validForm())
	require.NoError(t, err)
	assert.Equal(t, "Ana", resp.CustomerName)
	assert.Equal(t, 2, resp.Number)
	assert.True(t, decimal.RequireFromString("51").Equal(resp.Total))
	assert.Equal(t, "Oxford Shirt", resp.ArticleName)
	assert.Equal(t, int64(2), article.NumberOfSalesAllTime)
	assert.Equal(t, int64(2), article.NumberOfSalesThisMonth)

	require.Len(t, f.events.events, 1)
	placed := f.events.events[0].(*trade.OrderPlacedEvent)
	assert.Equal(t, resp.ID, placed.OrderID)
	assert.Equal(t, "ana@example.com", placed.CustomerEmail)
	assert.Equal(t, 1, f.metrics.placed)
}

func TestOrderService_PlaceOrder_ValidationFailure(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()
	article := shirt(t)
	f.articles.On("FindByID", ctx, article.ID).Return(article, nil)

	form := validForm()
	form.Color = "Green"
	_, err := f.svc.PlaceOrder(ctx, article.ID, form)

	var verr *trade.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, trade.UnavailableColor, verr.Kind)
	assert.Equal(t, []trade.ValidationKind{trade.UnavailableColor}, f.metrics.rejected)
	f.orders.AssertNotCalled(t, "Place", mock.Anything, mock.Anything)
	assert.Empty(t, f.events.events)
	assert.Zero(t, article.NumberOfSalesAllTime)
}

func TestOrderService_PlaceOrder_UnknownArticle(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()
	id := uuid.New()
	f.articles.On("FindByID", ctx, id).Return(nil, shared.NotFound("article"))

	_, err := f.svc.PlaceOrder(ctx, id, validForm())
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.NotErrorIs(t, err, ErrPersistenceFailure)
}

func TestOrderService_PlaceOrder_PersistenceFailure(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()
	article := shirt(t)
	f.articles.On("FindByID", ctx, article.ID).Return(article, nil)
	dbErr := errors.New("connection reset")
	f.orders.On("Place", ctx, mock.Anything).Return(dbErr)

	_, err := f.svc.PlaceOrder(ctx, article.ID, validForm())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersistenceFailure)
	assert.ErrorIs(t, err, dbErr)

	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "PERSISTENCE_FAILURE", derr.Code)
	assert.Equal(t, "We could not place your order, please try again.", derr.Message)

	assert.Empty(t, f.events.events)
	assert.Zero(t, article.NumberOfSalesAllTime)
	assert.Zero(t, f.metrics.placed)
}

func TestOrderService_PlaceOrder_LoadFailure(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()
	id := uuid.New()
	f.articles.On("FindByID", ctx, id).Return(nil, errors.New("timeout"))

	_, err := f.svc.PlaceOrder(ctx, id, validForm())
	assert.ErrorIs(t, err, ErrPersistenceFailure)
}

func TestOrderService_PlaceOrder_PublishErrorIgnored(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()
	f.events.err = errors.New("bus stopped")
	article := shirt(t)
	f.articles.On("FindByID", ctx, article.ID).Return(article, nil)
	f.orders.On("Place", ctx, mock.Anything).Return(nil)

	resp, err := f.svc.PlaceOrder(ctx, article.ID, validForm())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, resp.ID)
}

func TestOrderService_ListOrders(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()
	article := shirt(t)
	order, err := trade.NewOrder(&trade.OrderIntent{CustomerName: "Ana", Number: 3, Size: "S", Color: "White"}, article)
	require.NoError(t, err)

	articleID := article.ID
	match := mock.MatchedBy(func(filter shared.Filter) bool {
		return filter.Page == 1 && filter.PageSize == 20 && filter.Search == "ana" &&
			filter.Filters[trade.FilterArticleID] == articleID
	})
	f.orders.On("Count", ctx, match).Return(int64(1), nil)
	f.orders.On("FindAll", ctx, match).Return([]trade.Order{*order}, nil)

	page, err := f.svc.ListOrders(ctx, ListQuery{Search: " ana ", ArticleID: &articleID})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.True(t, decimal.RequireFromString("76.5").Equal(page.Items[0].Total))
	assert.Equal(t, int64(1), page.Total)
}

func TestOrderService_ListOrders_Filters(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	match := mock.MatchedBy(func(filter shared.Filter) bool {
		return filter.Filters[trade.FilterSize] == "XL" &&
			filter.Filters[trade.FilterColor] == "Navy" &&
			filter.Filters[trade.FilterCreatedFrom] == from &&
			filter.Filters[trade.FilterCreatedBefore] == time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	})
	f.orders.On("Count", ctx, match).Return(int64(0), nil)
	f.orders.On("FindAll", ctx, match).Return([]trade.Order{}, nil)

	page, err := f.svc.ListOrders(ctx, ListQuery{Size: " XL ", Color: "Navy", CreatedFrom: from, CreatedTo: to})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	f.orders.AssertExpectations(t)
}

func TestOrderService_GetAndDeleteOrder(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()
	id := uuid.New()
	f.orders.On("FindByID", ctx, id).Return(nil, shared.NotFound("order"))
	f.orders.On("Delete", ctx, id).Return(nil)

	_, err := f.svc.GetOrder(ctx, id)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.NoError(t, f.svc.DeleteOrder(ctx, id))
	f.orders.AssertExpectations(t)
}

package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	catalogapp "github.com/trycco/storefront/internal/application/catalog"
	tradeapp "github.com/trycco/storefront/internal/application/trade"
	"github.com/trycco/storefront/internal/domain/shared"
	"github.com/trycco/storefront/internal/domain/trade"
	"github.com/trycco/storefront/internal/infrastructure/logger"
	"github.com/trycco/storefront/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

const (
	orderPlacedNotice = "Your order has been placed. We will contact you shortly."
	noticeSuccess     = "success"
	noticeError       = "error"
)

// StorefrontHandler serves the shopper-facing pages as JSON.
type StorefrontHandler struct {
	BaseHandler
	listing *catalogapp.ListingService
	orders  *tradeapp.OrderService
}

func NewStorefrontHandler(listing *catalogapp.ListingService, orders *tradeapp.OrderService) *StorefrontHandler {
	return &StorefrontHandler{listing: listing, orders: orders}
}

// Landing handles GET /
// @Summary      Landing page
// @Description  Returns the landing page articles and categories
// @Tags         storefront
// @Accept       json
// @Produce      json
// @Success      200 {object} dto.Response{data=catalogapp.Landing}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       / [get]
func (h *StorefrontHandler) Landing(c *gin.Context) {
	landing, err := h.listing.Landing(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, landing)
}

// Products handles GET /products?search=&sort=&page=
// @Summary      List products
// @Description  Returns one page of the product listing
// @Tags         storefront
// @Accept       json
// @Produce      json
// @Param        search query string false "Search term"
// @Param        sort query string false "Sort order" Enums(name, price_low, price_high, newest) default(name)
// @Param        page query int false "Page number" default(1)
// @Success      200 {object} dto.Response{data=catalogapp.ArticlePage,meta=dto.Meta}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products [get]
func (h *StorefrontHandler) Products(c *gin.Context) {
	page, err := h.listing.Browse(c.Request.Context(), listingQuery(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Response{
		Success: true,
		Data:    page,
		Meta: &dto.Meta{
			Total:      page.TotalCount,
			Page:       page.CurrentPage,
			PageSize:   page.PerPage,
			TotalPages: page.TotalPages,
			HasMore:    page.HasMore,
		},
	})
}

// LoadMore handles GET /products/load-more. The infinite-scroll script reads
// the bare object, so there is no envelope.
// @Summary      Load more products
// @Description  Returns the next slice of the listing as a bare object
// @Tags         storefront
// @Accept       json
// @Produce      json
// @Param        search query string false "Search term"
// @Param        sort query string false "Sort order" Enums(name, price_low, price_high, newest) default(name)
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Page size" default(9) maximum(48)
// @Success      200 {object} catalogapp.LoadMoreResult
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/load-more [get]
func (h *StorefrontHandler) LoadMore(c *gin.Context) {
	result, err := h.listing.LoadMore(c.Request.Context(), catalogapp.LoadMoreQuery{
		ListingQuery: listingQuery(c),
		PerPage:      catalogapp.ClampPerPage(c.Query("per_page")),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func listingQuery(c *gin.Context) catalogapp.ListingQuery {
	return catalogapp.ListingQuery{
		Search: strings.TrimSpace(c.Query("search")),
		Sort:   c.Query("sort"),
		Page:   catalogapp.ParsePage(c.Query("page")),
	}
}

// Detail handles GET /product/:id. A malformed id is a missing article.
// @Summary      Get product
// @Description  Returns an article with up to four related articles
// @Tags         storefront
// @Accept       json
// @Produce      json
// @Param        id path string true "Article ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.ArticleDetail}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /product/{id} [get]
func (h *StorefrontHandler) Detail(c *gin.Context) {
	id, ok := h.parseID(c, "Article", true)
	if !ok {
		return
	}
	detail, err := h.listing.Detail(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, detail)
}

// PlaceOrder handles POST /product/:id/order.
//
// Browser form posts are answered with 303 to the product page carrying a
// notice. JSON clients get 201, 422 with the validation kind, or 500.
// @Summary      Place order
// @Description  Validates and records an order. Form posts are redirected to the product page with a notice
// @Tags         storefront
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        id path string true "Article ID" format(uuid)
// @Param        request body orderPayload true "Order form"
// @Success      201 {object} dto.Response{data=tradeapp.OrderResponse}
// @Success      303 "Form post redirected to the product page"
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /product/{id}/order [post]
func (h *StorefrontHandler) PlaceOrder(c *gin.Context) {
	asJSON := wantsJSON(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.NotFound(c, "Article not found")
		return
	}

	form, err := bindOrderForm(c, asJSON)
	if err != nil {
		if asJSON {
			h.ValidationError(c, err)
			return
		}
		redirectWithNotice(c, id, "Your order form could not be read, please try again.", noticeError)
		return
	}

	order, err := h.orders.PlaceOrder(c.Request.Context(), id, form)
	if err != nil {
		h.orderFailed(c, id, asJSON, err)
		return
	}

	if asJSON {
		h.Created(c, order)
		return
	}
	redirectWithNotice(c, id, orderPlacedNotice, noticeSuccess)
}

func (h *StorefrontHandler) orderFailed(c *gin.Context, id uuid.UUID, asJSON bool, err error) {
	if asJSON || errors.Is(err, shared.ErrNotFound) {
		h.HandleError(c, err)
		return
	}

	var verr *trade.ValidationError
	if errors.As(err, &verr) {
		redirectWithNotice(c, id, verr.Message, noticeError)
		return
	}

	logger.FromContext(c.Request.Context()).Error("order placement failed",
		zap.String("article_id", id.String()),
		zap.Error(err),
	)
	redirectWithNotice(c, id, tradeapp.ErrPersistenceFailure.Message, noticeError)
}

// OrderRedirect answers non-POST requests to the order URL.
// @Summary      Order URL redirect
// @Description  Sends non-POST requests back to the product page
// @Tags         storefront
// @Accept       json
// @Produce      json
// @Param        id path string true "Article ID" format(uuid)
// @Success      303 "Redirect to the product page"
// @Router       /product/{id}/order [get]
func (h *StorefrontHandler) OrderRedirect(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/product/"+c.Param("id"))
}

func redirectWithNotice(c *gin.Context, id uuid.UUID, notice, kind string) {
	q := url.Values{}
	q.Set("notice", notice)
	q.Set("notice_type", kind)
	c.Redirect(http.StatusSeeOther, "/product/"+id.String()+"?"+q.Encode())
}

func wantsJSON(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), binding.MIMEJSON) ||
		c.ContentType() == binding.MIMEJSON
}

// orderPayload is the JSON shape of an order. number may be sent as a JSON
// number or a string.
type orderPayload struct {
	CustomerName  string   `json:"customer_name"`
	CustomerEmail string   `json:"customer_email"`
	CustomerPhone string   `json:"customer_phone"`
	Number        quantity `json:"number"`
	Size          string   `json:"size"`
	Color         string   `json:"color"`
}

type quantity string

func (q *quantity) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*q = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*q = quantity(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*q = quantity(n.String())
	return nil
}

func bindOrderForm(c *gin.Context, asJSON bool) (trade.OrderForm, error) {
	if asJSON && c.ContentType() == binding.MIMEJSON {
		var p orderPayload
		if err := c.ShouldBindJSON(&p); err != nil {
			return trade.OrderForm{}, err
		}
		return trade.OrderForm{
			CustomerName:  p.CustomerName,
			CustomerEmail: p.CustomerEmail,
			CustomerPhone: p.CustomerPhone,
			Number:        string(p.Number),
			Size:          p.Size,
			Color:         p.Color,
		}, nil
	}

	var form trade.OrderForm
	err := c.ShouldBindWith(&form, binding.Form)
	return form, err
}

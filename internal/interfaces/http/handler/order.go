package handler

import (
	"github.com/gin-gonic/gin"
	tradeapp "github.com/trycco/storefront/internal/application/trade"
)

// OrderHandler handles the order and notification admin endpoints
type OrderHandler struct {
	BaseHandler
	orders        *tradeapp.OrderService
	notifications *tradeapp.NotificationService
}

func NewOrderHandler(orders *tradeapp.OrderService, notifications *tradeapp.NotificationService) *OrderHandler {
	return &OrderHandler{orders: orders, notifications: notifications}
}

func (h *OrderHandler) bindListQuery(c *gin.Context) (tradeapp.ListQuery, bool) {
	var q tradeapp.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.ValidationError(c, err)
		return q, false
	}
	articleID, ok := h.optionalUUIDQuery(c, "article_id")
	if !ok {
		return q, false
	}
	q.ArticleID = articleID
	return q, true
}

// List handles GET /orders?search=&article_id=&page=&page_size=, newest first
// @Summary      List orders
// @Description  Newest first
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        search query string false "Search term"
// @Param        article_id query string false "Article ID" format(uuid)
// @Param        size query string false "Size, case-insensitive"
// @Param        color query string false "Color, case-insensitive"
// @Param        created_from query string false "First day, inclusive" format(date)
// @Param        created_to query string false "Last day, inclusive" format(date)
// @Param        page query int false "Page number" default(1) minimum(1)
// @Param        page_size query int false "Page size" default(20) minimum(1) maximum(100)
// @Success      200 {object} dto.Response{data=[]tradeapp.OrderResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/api/v1/orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	q, ok := h.bindListQuery(c)
	if !ok {
		return
	}
	page, err := h.orders.ListOrders(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, *page)
}

// GetByID handles GET /orders/:id
// @Summary      Get order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/api/v1/orders/{id} [get]
func (h *OrderHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "order", false)
	if !ok {
		return
	}
	order, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Delete handles DELETE /orders/:id
// @Summary      Delete order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/api/v1/orders/{id} [delete]
func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "order", false)
	if !ok {
		return
	}
	if err := h.orders.DeleteOrder(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListNotifications handles GET /notifications?status=
// @Summary      List order notifications
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Param        status query string false "Notification status" Enums(sent, received, resolved, canceled)
// @Param        page query int false "Page number" default(1) minimum(1)
// @Param        page_size query int false "Page size" default(20) minimum(1) maximum(100)
// @Success      200 {object} dto.Response{data=[]tradeapp.NotificationResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/api/v1/notifications [get]
func (h *OrderHandler) ListNotifications(c *gin.Context) {
	q, ok := h.bindListQuery(c)
	if !ok {
		return
	}
	page, err := h.notifications.ListNotifications(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, *page)
}

// GetNotification handles GET /notifications/:id
// @Summary      Get order notification
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Param        id path string true "Notification ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.NotificationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/api/v1/notifications/{id} [get]
func (h *OrderHandler) GetNotification(c *gin.Context) {
	id, ok := h.parseID(c, "notification", false)
	if !ok {
		return
	}
	n, err := h.notifications.GetNotification(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, n)
}

// UpdateNotificationStatus handles PATCH /notifications/:id/status
// @Summary      Update notification status
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Param        id path string true "Notification ID" format(uuid)
// @Param        request body tradeapp.UpdateNotificationStatusRequest true "New status"
// @Success      200 {object} dto.Response{data=tradeapp.NotificationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/api/v1/notifications/{id}/status [patch]
func (h *OrderHandler) UpdateNotificationStatus(c *gin.Context) {
	id, ok := h.parseID(c, "notification", false)
	if !ok {
		return
	}
	var req tradeapp.UpdateNotificationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	n, err := h.notifications.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, n)
}

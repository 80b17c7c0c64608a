package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tradeapp "github.com/trycco/storefront/internal/application/trade"
	"github.com/trycco/storefront/internal/domain/shared"
	"github.com/trycco/storefront/internal/domain/trade"
	"github.com/trycco/storefront/internal/interfaces/http/dto"
	"github.com/trycco/storefront/internal/interfaces/http/middleware"
)

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"not found", shared.NotFound("Article"), http.StatusNotFound, dto.ErrCodeNotFound, "Article not found"},
		{"invalid input", shared.InvalidInput("price must be at least 0.01"), http.StatusBadRequest, dto.ErrCodeInvalidInput, "price must be at least 0.01"},
		{"already exists", shared.ErrAlreadyExists, http.StatusConflict, dto.ErrCodeAlreadyExists, shared.ErrAlreadyExists.Message},
		{"invalid state", shared.ErrInvalidState, http.StatusUnprocessableEntity, dto.ErrCodeInvalidState, shared.ErrInvalidState.Message},
		{"wrapped domain error", fmt.Errorf("save: %w", shared.NotFound("Order")), http.StatusNotFound, dto.ErrCodeNotFound, "Order not found"},
		{"persistence failure", tradeapp.ErrPersistenceFailure, http.StatusInternalServerError, dto.ErrCodePersistenceFailure, tradeapp.ErrPersistenceFailure.Message},
		{"order rejected", &trade.ValidationError{Kind: trade.InvalidEmail, Field: "customer_email", Message: "invalid email"}, http.StatusUnprocessableEntity, dto.ErrCodeInvalidEmail, "invalid email"},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var base BaseHandler
			router := gin.New()
			router.Use(middleware.RequestID())
			router.GET("/x", func(c *gin.Context) { base.HandleError(c, tt.err) })

			w := (&harness{router: router}).get("/x")
			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decode(t, w, nil)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, tt.wantMsg, resp.Error.Message)
			assert.Equal(t, w.Header().Get(middleware.RequestIDHeader), resp.Error.RequestID)
		})
	}
}

func TestBaseHandler_Paginated(t *testing.T) {
	var base BaseHandler
	router := gin.New()
	router.GET("/empty", func(c *gin.Context) {
		Paginated(&base, c, shared.Paginated[string]{Page: 1, PageSize: 20})
	})
	router.GET("/page", func(c *gin.Context) {
		Paginated(&base, c, shared.Paginated[string]{Items: []string{"a", "b"}, Total: 42, Page: 2, PageSize: 2})
	})
	h := &harness{router: router}

	var raw json.RawMessage
	decode(t, h.get("/empty"), &raw)
	assert.JSONEq(t, `[]`, string(raw))

	var items []string
	resp := decode(t, h.get("/page"), &items)
	assert.Equal(t, []string{"a", "b"}, items)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(42), resp.Meta.Total)
	assert.Equal(t, 21, resp.Meta.TotalPages)
	assert.True(t, resp.Meta.HasMore)
}

func TestBaseHandler_ParseID(t *testing.T) {
	var base BaseHandler
	router := gin.New()
	router.GET("/admin/:id", func(c *gin.Context) {
		if _, ok := base.parseID(c, "Article", false); ok {
			c.Status(http.StatusOK)
		}
	})
	router.GET("/public/:id", func(c *gin.Context) {
		if _, ok := base.parseID(c, "Article", true); ok {
			c.Status(http.StatusOK)
		}
	})
	h := &harness{router: router}

	assert.Equal(t, http.StatusBadRequest, h.get("/admin/42").Code)
	assert.Equal(t, http.StatusNotFound, h.get("/public/42").Code)
	assert.Equal(t, http.StatusOK, h.get("/public/6f1c2a8e-8a53-4c55-9d43-2f0f0b1e5a10").Code)
}

func TestGetRequestID(t *testing.T) {
	router := gin.New()
	router.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, getRequestID(c)) })

	w := (&harness{router: router}).do(http.MethodGet, "/x", nil, map[string]string{middleware.RequestIDHeader: "abc"})
	assert.Equal(t, "abc", w.Body.String())
}

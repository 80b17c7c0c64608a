package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/trycco/storefront/internal/infrastructure/auth"
	"github.com/trycco/storefront/internal/interfaces/http/dto"
	"github.com/trycco/storefront/internal/interfaces/http/middleware"
)

// LoginRequest is the admin login body
type LoginRequest struct {
	Username string `json:"username" binding:"required,notblank,max=100"`
	Password string `json:"password" binding:"required,max=200"`
}

// MeResponse describes the signed-in admin and the back-office branding.
type MeResponse struct {
	Username  string `json:"username"`
	SiteTitle string `json:"site_title"`
	ExpiresAt string `json:"expires_at"`
}

// AuthHandler handles the back-office session endpoints
type AuthHandler struct {
	BaseHandler
	authenticator *auth.AdminAuthenticator
	siteTitle     string
}

func NewAuthHandler(authenticator *auth.AdminAuthenticator, siteTitle string) *AuthHandler {
	return &AuthHandler{authenticator: authenticator, siteTitle: siteTitle}
}

// Login handles POST /admin/api/v1/auth/login
// @Summary      Admin login
// @Description  Exchanges admin credentials for a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Credentials"
// @Success      200 {object} dto.Response{data=auth.AccessToken}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /admin/api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	token, err := h.authenticator.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrBadCredentials) {
			h.Unauthorized(c, "Invalid username or password")
			return
		}
		h.HandleError(c, err)
		return
	}
	h.Success(c, token)
}

// Logout handles POST /admin/api/v1/auth/logout
// @Summary      Admin logout
// @Description  Revokes the current token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      204 "No Content"
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetAdminClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	if err := h.authenticator.Logout(c.Request.Context(), claims); err != nil {
		h.ErrorWithCode(c, dto.ErrCodeUnavailable, "Could not log out, please try again")
		return
	}
	h.NoContent(c)
}

// Me handles GET /admin/api/v1/auth/me
// @Summary      Current admin
// @Description  Returns the signed-in admin and the back-office title
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      200 {object} dto.Response{data=MeResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/api/v1/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetAdminClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	resp := MeResponse{Username: claims.Username, SiteTitle: h.siteTitle}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = claims.ExpiresAt.Time.UTC().Format(time.RFC3339)
	}
	h.Success(c, resp)
}

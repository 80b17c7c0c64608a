package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/trycco/storefront/internal/infrastructure/auth"
	"github.com/trycco/storefront/internal/infrastructure/logger"
	"github.com/trycco/storefront/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Admin context keys
const (
	AdminClaimsKey   = "admin_claims"
	AdminUsernameKey = "admin_username"
	AuthHeaderKey    = "Authorization"
	BearerPrefix     = "Bearer "
)

var errMissingBearer = errors.New("missing bearer token")

// AdminAuth guards the back-office API. It expects "Authorization: Bearer <token>"
// and rejects expired, malformed and logged-out tokens with 401.
func AdminAuth(authenticator *auth.AdminAuthenticator, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader(AuthHeaderKey))
		if !ok {
			abortUnauthorized(c, log, errMissingBearer, "Missing or malformed authorization header")
			return
		}

		claims, err := authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			abortUnauthorized(c, log, err, "Token validation failed")
			return
		}

		c.Set(AdminClaimsKey, claims)
		c.Set(AdminUsernameKey, claims.Username)
		c.Request = c.Request.WithContext(logger.WithAdmin(c.Request.Context(), claims.Username))

		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
	return token, token != ""
}

func abortUnauthorized(c *gin.Context, log *zap.Logger, err error, message string) {
	code, msg := dto.ErrCodeUnauthorized, "Authentication required"
	status := http.StatusUnauthorized

	switch {
	case errors.Is(err, errMissingBearer):
	case errors.Is(err, auth.ErrExpiredToken):
		code, msg = dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrTokenRevoked):
		code, msg = dto.ErrCodeTokenRevoked, "Token has been revoked"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrInvalidClaims),
		errors.Is(err, auth.ErrTokenNotYetValid):
		code, msg = dto.ErrCodeTokenInvalid, "Invalid token"
	default:
		// revocation store unreachable
		log.Error("admin token check failed", zap.Error(err))
		code, msg = dto.ErrCodeUnavailable, "Authentication is temporarily unavailable"
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusUnauthorized {
		log.Warn("admin authentication failed",
			zap.Error(err),
			zap.String("message", message),
			zap.String("path", c.Request.URL.Path),
		)
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponseWithRequestID(code, msg, c.GetString(RequestIDKey)))
}

// GetAdminClaims retrieves the authenticated admin's claims from gin.Context
func GetAdminClaims(c *gin.Context) *auth.Claims {
	if v, exists := c.Get(AdminClaimsKey); exists {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetAdminUsername retrieves the authenticated admin's username
func GetAdminUsername(c *gin.Context) string {
	return c.GetString(AdminUsernameKey)
}

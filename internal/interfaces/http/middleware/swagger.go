package middleware

import (
	"net/http"
	"net/netip"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/trycco/storefront/internal/interfaces/http/dto"
)

// SwaggerCSP replaces DefaultCSP on documentation responses. The bundled
// Swagger UI boots from an inline script.
const SwaggerCSP = "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; " +
	"img-src 'self' data:; connect-src 'self'; frame-ancestors 'none'; base-uri 'self'"

// SwaggerPolicy controls who may read the API documentation.
type SwaggerPolicy struct {
	Enabled     bool
	RequireAuth bool
	// AllowedIPs holds addresses or CIDR ranges. Empty allows every client.
	AllowedIPs []string
}

// ParseAllowedIPs turns addresses and CIDR ranges into prefixes. A bare
// address becomes a single-address prefix.
func ParseAllowedIPs(entries []string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, err
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, err
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

// SwaggerAccess guards the documentation routes. A disabled endpoint answers
// 404, a client outside AllowedIPs gets 403, and RequireAuth runs auth (the
// admin guard) before the docs handler. Entries that fail to parse are
// dropped; config validation rejects them earlier.
func SwaggerAccess(p SwaggerPolicy, auth gin.HandlerFunc) gin.HandlerFunc {
	var allowed []netip.Prefix
	for _, entry := range p.AllowedIPs {
		if prefixes, err := ParseAllowedIPs([]string{entry}); err == nil {
			allowed = append(allowed, prefixes...)
		}
	}
	restricted := len(p.AllowedIPs) > 0

	return func(c *gin.Context) {
		if !p.Enabled {
			c.AbortWithStatusJSON(http.StatusNotFound,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeNotFound,
					"API documentation is not available", getRequestID(c)))
			return
		}
		if restricted && !clientAllowed(c.ClientIP(), allowed) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeForbidden,
					"Access to API documentation is restricted", getRequestID(c)))
			return
		}
		c.Header("Content-Security-Policy", SwaggerCSP)
		if p.RequireAuth {
			if auth == nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized,
						"Authentication required", getRequestID(c)))
				return
			}
			auth(c)
			if c.IsAborted() {
				return
			}
		}
		c.Next()
	}
}

func clientAllowed(clientIP string, allowed []netip.Prefix) bool {
	addr, err := netip.ParseAddr(clientIP)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range allowed {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// DefaultCSP fits the storefront: own scripts and styles, pictures from
// the bucket over https, no framing.
const DefaultCSP = "default-src 'self'; script-src 'self'; style-src 'self' 'unsafe-inline'; " +
	"img-src 'self' data: https:; font-src 'self' data:; connect-src 'self'; " +
	"frame-ancestors 'none'; base-uri 'self'; form-action 'self'"

const permissionsPolicy = "accelerometer=(), camera=(), geolocation=(), gyroscope=(), magnetometer=(), microphone=(), payment=(), usb=()"

// SecurityPolicy configures SecurityHeaders. HSTS is only sent when
// HSTSMaxAge is positive, which production sets once TLS terminates in front
// of the server.
type SecurityPolicy struct {
	CSP        string
	HSTSMaxAge time.Duration
}

// SecurityHeaders sets the browser hardening headers on every response.
func SecurityHeaders(p SecurityPolicy) gin.HandlerFunc {
	static := map[string]string{
		"X-Frame-Options":        "DENY",
		"X-Content-Type-Options": "nosniff",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
		"Permissions-Policy":     permissionsPolicy,
	}
	if p.CSP != "" {
		static["Content-Security-Policy"] = p.CSP
	}
	if p.HSTSMaxAge > 0 {
		static["Strict-Transport-Security"] = "max-age=" + strconv.Itoa(int(p.HSTSMaxAge.Seconds())) + "; includeSubDomains"
	}

	return func(c *gin.Context) {
		h := c.Writer.Header()
		for k, v := range static {
			h.Set(k, v)
		}
		c.Next()
	}
}

package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// exposedHeaders are readable by browser clients of the admin API.
var exposedHeaders = strings.Join([]string{RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"}, ", ")

// CORSPolicy lists the cross-origin callers of the API. With no Origins
// every cross-origin request is refused; "*" admits any origin but then
// credentials are never allowed.
type CORSPolicy struct {
	Origins     []string
	Methods     []string
	Headers     []string
	Credentials bool
	MaxAge      time.Duration
}

// CORS answers preflights with 204 and tags actual responses for allowed
// origins. Requests from other origins get no CORS headers and are left to
// the browser to block.
func CORS(p CORSPolicy) gin.HandlerFunc {
	wildcard := slices.Contains(p.Origins, "*")
	methods := strings.Join(p.Methods, ", ")
	headers := strings.Join(p.Headers, ", ")
	maxAge := ""
	if p.MaxAge > 0 {
		maxAge = strconv.Itoa(int(p.MaxAge.Seconds()))
	}

	allow := func(origin string) string {
		switch {
		case origin == "":
			return ""
		case wildcard:
			return "*"
		case slices.Contains(p.Origins, origin):
			return origin
		}
		return ""
	}

	return func(c *gin.Context) {
		h := c.Writer.Header()
		origin := c.GetHeader("Origin")
		allowed := allow(origin)
		if origin != "" && !wildcard {
			h.Add("Vary", "Origin")
		}
		if allowed != "" {
			h.Set("Access-Control-Allow-Origin", allowed)
			if p.Credentials && !wildcard {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
		}

		preflight := c.Request.Method == http.MethodOptions && c.GetHeader("Access-Control-Request-Method") != ""
		if !preflight {
			if allowed != "" {
				h.Set("Access-Control-Expose-Headers", exposedHeaders)
			}
			c.Next()
			return
		}

		if allowed != "" {
			h.Set("Access-Control-Allow-Methods", methods)
			h.Set("Access-Control-Allow-Headers", headers)
			if maxAge != "" {
				h.Set("Access-Control-Max-Age", maxAge)
			}
		}
		c.AbortWithStatus(http.StatusNoContent)
	}
}

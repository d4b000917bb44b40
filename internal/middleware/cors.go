package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	corsAllowHeaders = "Content-Type, Content-Length, Accept-Encoding, Authorization, Accept, Origin, Cache-Control, X-Requested-With, X-Request-ID"
	corsAllowMethods = "POST, OPTIONS, GET, PUT, DELETE, PATCH"
)

// wildcardOrigin matches a single subdomain label, e.g. https://*.example.com
type wildcardOrigin struct {
	scheme string
	suffix string
}

// parseWildcardOrigin returns nil unless pattern has the form
// scheme://*.domain.tld with exactly one wildcard
func parseWildcardOrigin(pattern string) *wildcardOrigin {
	scheme, host, found := strings.Cut(pattern, "://")
	if !found || strings.Count(pattern, "*") != 1 || !strings.HasPrefix(host, "*.") {
		return nil
	}
	suffix := host[1:]
	if strings.Count(suffix, ".") < 2 {
		return nil
	}
	return &wildcardOrigin{scheme: scheme + "://", suffix: suffix}
}

func (w *wildcardOrigin) matches(origin string) bool {
	if !strings.HasPrefix(origin, w.scheme) || !strings.HasSuffix(origin, w.suffix) {
		return false
	}
	label := strings.TrimSuffix(strings.TrimPrefix(origin, w.scheme), w.suffix)
	return label != "" && !strings.ContainsAny(label, "./:")
}

// CORS handles cross-origin requests. An empty list or "*" allows every
// origin; entries may use a single leading subdomain wildcard.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	allowAll := len(allowedOrigins) == 0
	exact := make(map[string]bool)
	var wildcards []*wildcardOrigin

	for _, origin := range allowedOrigins {
		origin = strings.TrimSpace(origin)
		switch {
		case origin == "":
			continue
		case origin == "*":
			allowAll = true
		default:
			if w := parseWildcardOrigin(origin); w != nil {
				wildcards = append(wildcards, w)
				continue
			}
			exact[origin] = true
		}
	}

	allowed := func(origin string) bool {
		if exact[origin] {
			return true
		}
		for _, w := range wildcards {
			if w.matches(origin) {
				return true
			}
		}
		return false
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		if allowAll {
			c.Header("Access-Control-Allow-Origin", "*")
		} else if origin != "" && allowed(origin) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Vary", "Origin")
		} else if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		c.Header("Access-Control-Allow-Headers", corsAllowHeaders)
		c.Header("Access-Control-Allow-Methods", corsAllowMethods)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

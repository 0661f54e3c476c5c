package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/griesmnr/flash-cards/internal/config"

	"github.com/gin-gonic/gin"
)

// DevCORS allows credentialed cross-origin calls from loopback origins in
// development, so a separately served frontend can drive the JSON API.
func DevCORS(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := strings.TrimSpace(c.GetHeader("Origin"))
		if origin == "" || !cfg.IsDev() {
			c.Next()
			return
		}

		if IsLoopbackOrigin(origin) {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Vary", "Origin")
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Headers", "Content-Type")
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// IsLoopbackOrigin reports whether origin is an http(s) origin on
// localhost, 127.0.0.1 or ::1.
func IsLoopbackOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	host := u.Hostname()
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}

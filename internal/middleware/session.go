package middleware

import (
	"net/http"
	"strings"

	"github.com/griesmnr/flash-cards/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SessionCookie = "fc_session"
	// SessionKey is the gin context key holding the session id.
	SessionKey = "sessionID"
)

// RequireSession gives every browser a viewer session id, stored in an
// HttpOnly cookie. Malformed ids are replaced rather than rejected.
func RequireSession(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := sessionFromRequest(c)
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(c.Writer, &http.Cookie{
				Name:     SessionCookie,
				Value:    id,
				Path:     "/",
				MaxAge:   int(cfg.SessionTTL.Seconds()),
				HttpOnly: true,
				Secure:   !cfg.IsDev(),
				SameSite: http.SameSiteLaxMode,
			})
		}
		c.Set(SessionKey, id)
		c.Next()
	}
}

func sessionFromRequest(c *gin.Context) string {
	v, err := c.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	v = strings.TrimSpace(v)
	if _, err := uuid.Parse(v); err != nil {
		return ""
	}
	return v
}

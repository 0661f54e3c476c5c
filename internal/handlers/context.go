package handlers

import (
	"github.com/griesmnr/flash-cards/internal/middleware"

	"github.com/gin-gonic/gin"
)

func sessionIDFromContext(c *gin.Context) (string, bool) {
	id := c.GetString(middleware.SessionKey)
	return id, id != ""
}

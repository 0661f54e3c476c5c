package handlers

import (
	"net/http"

	"github.com/griesmnr/flash-cards/internal/config"
	ws "github.com/griesmnr/flash-cards/pkg/websocket"

	"github.com/gin-gonic/gin"
)

// RegisterPageRoutes wires the HTML viewer and its form posts.
func RegisterPageRoutes(r gin.IRoutes, h *ViewerHandlers) {
	r.GET("/", h.Page)
	r.POST("/viewer/select", h.PageAction(ActionSelect))
	r.POST("/viewer/next", h.PageAction(ActionNext))
	r.POST("/viewer/flip", h.PageAction(ActionFlip))
	r.POST("/viewer/toggle", h.PageAction(ActionToggle))
}

// RegisterAPIRoutes wires the JSON viewer API.
func RegisterAPIRoutes(rg *gin.RouterGroup, h *ViewerHandlers) {
	rg.GET("/collections", h.ListCollections)
	rg.GET("/viewer", h.GetViewer)
	rg.POST("/viewer/select", h.APIAction(ActionSelect))
	rg.POST("/viewer/next", h.APIAction(ActionNext))
	rg.POST("/viewer/flip", h.APIAction(ActionFlip))
	rg.POST("/viewer/toggle", h.APIAction(ActionToggle))
}

// RegisterWebSocketRoutes wires the push endpoint.
func RegisterWebSocketRoutes(r gin.IRoutes, hubs *ws.HubRef, h *ViewerHandlers, cfg config.Config) {
	r.GET("/ws", WebSocketHandler(hubs, h, cfg))
}

// Healthz reports liveness.
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

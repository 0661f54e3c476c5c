package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/griesmnr/flash-cards/internal/config"
	"github.com/griesmnr/flash-cards/internal/middleware"
	"github.com/griesmnr/flash-cards/internal/viewer"
	ws "github.com/griesmnr/flash-cards/pkg/websocket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// originPolicy decides which browser origins may open a viewer socket.
type originPolicy struct {
	dev      bool
	allowAll bool
	allowed  map[string]bool
}

func newOriginPolicy(cfg config.Config) originPolicy {
	p := originPolicy{
		dev:      cfg.IsDev(),
		allowAll: cfg.IsDev() && cfg.DevWebSocketsAllowAll,
		allowed:  map[string]bool{},
	}
	for _, o := range cfg.WSAllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			p.allowed[o] = true
		}
	}
	return p
}

func (p originPolicy) check(r *http.Request) bool {
	origin := strings.TrimSpace(r.Header.Get("Origin"))
	switch {
	case origin == "":
		// Non-browser clients send no Origin.
		return true
	case p.allowAll, p.allowed[origin]:
		return true
	case p.dev:
		return middleware.IsLoopbackOrigin(origin)
	}
	// Same-origin pages are always allowed.
	return strings.TrimPrefix(strings.TrimPrefix(origin, "https://"), "http://") == r.Host
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// WebSocketHandler upgrades the connection and subscribes it to the caller's
// viewer session. Clients may also send actions over the socket.
func WebSocketHandler(hubs *ws.HubRef, h *ViewerHandlers, cfg config.Config) gin.HandlerFunc {
	policy := newOriginPolicy(cfg)
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     policy.check,
	}

	return func(c *gin.Context) {
		sessionID, ok := sessionIDFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing session"})
			return
		}
		hub, ok := hubs.Get()
		if !ok {
			h.Log.Error("websocket hub unavailable", zap.String("session", sessionID))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		// Resolve the session before upgrading so failures are still HTTP errors.
		ctrl, ok := h.controller(c)
		if !ok {
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			h.Log.Warn("websocket upgrade failed",
				zap.String("remote", c.ClientIP()),
				zap.String("origin", c.Request.Header.Get("Origin")),
				zap.Error(err))
			return
		}

		room := sessionRoom(sessionID)
		client := ws.NewClient(conn, hub, room, sessionID)
		hub.Register(client)
		go client.WritePump(h.Log)
		go client.ReadPump(func(msg []byte) {
			h.handleWSMessage(hub, sessionID, msg)
		})

		// Every socket in the room gets the current view; pages ignore
		// revisions they already show.
		hub.Broadcast(room, MessageViewerUpdate, viewer.NewView(ctrl.Snapshot()))
	}
}

// handleWSMessage resolves the session per message, so a socket outliving an
// evicted session drives the session's replacement.
func (h *ViewerHandlers) handleWSMessage(hub *ws.Hub, sessionID string, msg []byte) {
	room := sessionRoom(sessionID)
	var in inboundMessage
	if err := json.Unmarshal(msg, &in); err != nil {
		hub.Broadcast(room, "error", gin.H{"error": "invalid json"})
		return
	}
	var req actionRequest
	if len(in.Payload) > 0 {
		if err := json.Unmarshal(in.Payload, &req); err != nil {
			hub.Broadcast(room, "error", gin.H{"error": "invalid payload"})
			return
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), maxWait)
	defer cancel()
	a, err := actionFor(in.Type, req)
	if err == nil {
		var ctrl *viewer.Controller
		if ctrl, err = h.Sessions.Get(ctx, sessionID); err == nil {
			// Success is announced by the session's viewer_update broadcast.
			_, err = ctrl.Do(ctx, a)
		}
	}
	if err != nil {
		_, msg := apiError(err)
		hub.Broadcast(room, "error", gin.H{"error": msg, "action": in.Type})
	}
}

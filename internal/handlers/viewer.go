package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/griesmnr/flash-cards/internal/models"
	"github.com/griesmnr/flash-cards/internal/viewer"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Viewer action kinds, used as route suffixes and websocket message types.
const (
	ActionSelect = "select"
	ActionNext   = "next"
	ActionFlip   = "flip"
	ActionToggle = "toggle"
)

// maxWait bounds ?wait= on API actions.
const maxWait = 30 * time.Second

type actionRequest struct {
	Collection string `json:"collection" form:"collection"`
	Field      string `json:"field" form:"field"`
}

func actionFor(kind string, req actionRequest) (viewer.Action, error) {
	switch kind {
	case ActionSelect:
		return viewer.Select{ID: strings.TrimSpace(req.Collection)}, nil
	case ActionNext:
		return viewer.Next{}, nil
	case ActionFlip:
		return viewer.Flip{}, nil
	case ActionToggle:
		return viewer.ToggleField{Field: strings.TrimSpace(req.Field)}, nil
	}
	return nil, models.ErrUnknownAction
}

func bindAction(c *gin.Context, kind string) (viewer.Action, error) {
	var req actionRequest
	if kind == ActionSelect || kind == ActionToggle {
		if err := c.ShouldBind(&req); err != nil {
			return nil, models.ErrInvalidJSON
		}
	}
	return actionFor(kind, req)
}

func (h *ViewerHandlers) controller(c *gin.Context) (*viewer.Controller, bool) {
	id, ok := sessionIDFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing session"})
		return nil, false
	}
	ctrl, err := h.Sessions.Get(c.Request.Context(), id)
	if err != nil {
		writeAPIError(c, h.Log, err)
		return nil, false
	}
	return ctrl, true
}

// ViewerHandlers serves the viewer page and its JSON API.
type ViewerHandlers struct {
	Sessions *Sessions
	Log      *zap.Logger
}

// Page renders the HTML viewer for the caller's session.
func (h *ViewerHandlers) Page(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "viewer.html", newPageData(viewer.NewView(ctrl.Snapshot())))
}

// PageAction applies a form-posted action and redirects back to the page.
// Rejected actions are logged only; the page has no error state.
func (h *ViewerHandlers) PageAction(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctrl, ok := h.controller(c)
		if !ok {
			return
		}
		if a, err := bindAction(c, kind); err != nil {
			h.Log.Debug("page action rejected", zap.String("action", kind), zap.Error(err))
		} else if _, err := ctrl.Do(c.Request.Context(), a); err != nil {
			h.Log.Debug("page action rejected", zap.String("action", kind), zap.Error(err))
		}
		c.Redirect(http.StatusSeeOther, "/")
	}
}

// GetViewer returns the caller's current view.
func (h *ViewerHandlers) GetViewer(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, viewer.NewView(ctrl.Snapshot()))
}

// APIAction applies an action and returns the resulting view. With
// ?wait=<seconds> it waits up to that long for a requested collection to
// finish loading.
func (h *ViewerHandlers) APIAction(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctrl, ok := h.controller(c)
		if !ok {
			return
		}
		a, err := bindAction(c, kind)
		if err != nil {
			writeAPIError(c, h.Log, err)
			return
		}
		st, err := ctrl.Do(c.Request.Context(), a)
		if err != nil {
			writeAPIError(c, h.Log, err)
			return
		}
		if wait := waitParam(c); wait > 0 && st.Loading() {
			ctx, cancel := context.WithTimeout(c.Request.Context(), wait)
			defer cancel()
			// On timeout the still-loading state is returned as is.
			if settled, err := ctrl.Settled(ctx); err == nil {
				st = settled
			} else {
				st = ctrl.Snapshot()
			}
		}
		c.JSON(http.StatusOK, viewer.NewView(st))
	}
}

// ListCollections returns the identifiers the source offers.
func (h *ViewerHandlers) ListCollections(c *gin.Context) {
	names, err := h.Sessions.src.List(c.Request.Context())
	if err != nil {
		writeAPIError(c, h.Log, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"collections": names})
}

func waitParam(c *gin.Context) time.Duration {
	v := c.Query("wait")
	if v == "" {
		return 0
	}
	secs, err := strconv.ParseFloat(v, 64)
	if err != nil || secs <= 0 {
		return 0
	}
	return min(time.Duration(secs*float64(time.Second)), maxWait)
}

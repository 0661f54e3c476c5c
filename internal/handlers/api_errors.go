package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/griesmnr/flash-cards/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// writeAPIError maps known errors to status codes without echoing raw error
// text; anything else is logged and reported as a generic 500.
func writeAPIError(c *gin.Context, log *zap.Logger, err error) {
	status, msg := apiError(err)
	if status == http.StatusInternalServerError {
		log.Error("internal error", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func apiError(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, "internal server error"
	case errors.Is(err, models.ErrInvalidJSON):
		return http.StatusBadRequest, "invalid json"
	case errors.Is(err, models.ErrUnknownCollection):
		return http.StatusNotFound, "unknown collection"
	case errors.Is(err, models.ErrUnknownField):
		return http.StatusBadRequest, "unknown field"
	case errors.Is(err, models.ErrUnknownAction):
		return http.StatusBadRequest, "unknown action"
	case errors.Is(err, models.ErrEmptyDeck):
		return http.StatusConflict, "no cards loaded"
	case errors.Is(err, models.ErrCollectionUnavailable):
		return http.StatusServiceUnavailable, "collection data unavailable"
	case errors.Is(err, models.ErrSessionClosed),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "viewer unavailable"
	}
	return http.StatusInternalServerError, "internal server error"
}

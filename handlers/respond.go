package handlers

import (
	"errors"
	"net/http"

	"campus-grub-api/apperr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// statusFor maps each error kind to its HTTP status. Every expected failure
// gets a distinct response; only genuinely unexpected errors become 500s.
func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.Validation:
		return http.StatusBadRequest
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Forbidden:
		return http.StatusForbidden
	case apperr.InvalidTransition:
		return http.StatusUnprocessableEntity
	case apperr.Conflict:
		return http.StatusConflict
	case apperr.Persistence:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, log *zap.Logger, err error) {
	kind, ok := apperr.KindOf(err)
	if !ok {
		log.Error("unexpected error", zap.Error(err), zap.String("path", c.Request.URL.Path))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if kind == apperr.Persistence {
		log.Error("persistence failure", zap.Error(err), zap.String("path", c.Request.URL.Path))
		c.JSON(statusFor(kind), gin.H{"error": "service temporarily unavailable", "kind": kind.String()})
		return
	}
	var e *apperr.Error
	errors.As(err, &e)
	c.JSON(statusFor(kind), gin.H{"error": e.Message, "kind": kind.String()})
}

package handlers

import (
	"errors"
	"net/http"

	apperrors "musafir/internal/errors"
	"musafir/internal/logger"
	"musafir/internal/middleware"
	"musafir/internal/models"
	"musafir/internal/service"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	services *service.Services
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{services: services}
}

// respondError maps service errors to HTTP codes. Anything unclassified is a
// 500 with a generic body; the detail goes to the log only.
func (h *Handlers) respondError(c *gin.Context, err error) {
	switch {
	case apperrors.IsValidation(err), apperrors.IsTransition(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Conflict"})
	case errors.Is(err, apperrors.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
	default:
		logger.WithContext(c.Request.Context()).Error("Request failed",
			"error", err,
			"method", c.Request.Method,
			"path", c.Request.URL.Path)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// currentUser returns the authenticated user id, aborting with 401 when the
// context carries none.
func (h *Handlers) currentUser(c *gin.Context) (int64, bool) {
	userID, ok := middleware.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
	return userID, ok
}

func (h *Handlers) isAdmin(c *gin.Context) bool {
	role, _ := middleware.RoleFromContext(c.Request.Context())
	return role == models.RoleAdmin
}

// Health - GET /health
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

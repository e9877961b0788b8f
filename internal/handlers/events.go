package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ListEvents - GET /api/events
// Public catalog: published events, optional full-text query.
func (h *Handlers) ListEvents(c *gin.Context) {
	query := c.Query("query")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	if page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page must be >= 1"})
		return
	}
	if pageSize < 1 || pageSize > 50 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pageSize must be between 1 and 50"})
		return
	}

	events, err := h.services.Events.List(c.Request.Context(), query, page, pageSize)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events, "page": page, "pageSize": pageSize})
}

// GetEvent - GET /api/events/:slug
func (h *Handlers) GetEvent(c *gin.Context) {
	event, err := h.services.Events.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// GetTransportOptions - GET /api/transport-options/:id
// Resolves the modes offered for one departure and calendar day.
func (h *Handlers) GetTransportOptions(c *gin.Context) {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	departure := c.Query("departure")
	day, _ := strconv.Atoi(c.Query("day"))
	month, _ := strconv.Atoi(c.Query("month"))
	year, _ := strconv.Atoi(c.Query("year"))

	if departure == "" || day < 1 || month < 1 || year < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "departure, day, month and year are required"})
		return
	}

	options, err := h.services.Events.TransportOptions(c.Request.Context(), eventID, departure, day, month, year)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, options)
}

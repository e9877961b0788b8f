package handlers

import (
	"net/http"

	"musafir/internal/models"

	"github.com/gin-gonic/gin"
)

// Public content: stories, testimonials, site settings.

// ListStories - GET /api/stories
func (h *Handlers) ListStories(c *gin.Context) {
	stories, err := h.services.Stories.List(c.Request.Context(), false)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stories": stories})
}

// GetStory - GET /api/stories/:slug
func (h *Handlers) GetStory(c *gin.Context) {
	story, err := h.services.Stories.GetBySlug(c.Request.Context(), c.Param("slug"), false)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, story)
}

// ListTestimonials - GET /api/testimonials
func (h *Handlers) ListTestimonials(c *gin.Context) {
	testimonials, err := h.services.Testimonials.List(c.Request.Context(), false)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"testimonials": testimonials})
}

// CreateTestimonial - POST /api/testimonials
// Public submission; hidden until an admin approves it.
func (h *Handlers) CreateTestimonial(c *gin.Context) {
	var req models.CreateTestimonialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	testimonial, err := h.services.Testimonials.Create(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, testimonial)
}

// GetSettings - GET /api/settings
// Public subset of the site settings document.
func (h *Handlers) GetSettings(c *gin.Context) {
	settings, err := h.services.Settings.GetPublic(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}

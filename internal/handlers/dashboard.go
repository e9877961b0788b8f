package handlers

import (
	"net/http"
	"strconv"

	"musafir/internal/models"

	"github.com/gin-gonic/gin"
)

// User dashboard: profile, reviews, wishlist.

// GetProfile - GET /api/user/profile
func (h *Handlers) GetProfile(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	user, err := h.services.Users.Get(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateProfile - PUT /api/user/profile
func (h *Handlers) UpdateProfile(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.services.Users.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// CreateReview - POST /api/user/reviews
func (h *Handlers) CreateReview(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req models.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.services.Reviews.Create(c.Request.Context(), userID, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}

// ListMyReviews - GET /api/user/reviews
func (h *Handlers) ListMyReviews(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	reviews, err := h.services.Reviews.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

// ListEventReviews - GET /api/events/:slug/reviews
func (h *Handlers) ListEventReviews(c *gin.Context) {
	event, err := h.services.Events.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	reviews, err := h.services.Reviews.ListByEvent(c.Request.Context(), event.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

// UpdateReview - PUT /api/user/reviews/:id
func (h *Handlers) UpdateReview(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review id"})
		return
	}

	var req models.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.services.Reviews.Update(c.Request.Context(), id, userID, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// DeleteReview - DELETE /api/user/reviews/:id
func (h *Handlers) DeleteReview(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review id"})
		return
	}

	if err := h.services.Reviews.Delete(c.Request.Context(), id, userID, h.isAdmin(c)); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// AddToWishlist - POST /api/user/wishlist
func (h *Handlers) AddToWishlist(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req models.WishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.services.Wishlist.Add(c.Request.Context(), userID, req.EventID); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "added"})
}

// RemoveFromWishlist - DELETE /api/user/wishlist/:eventId
func (h *Handlers) RemoveFromWishlist(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	eventID, err := strconv.ParseInt(c.Param("eventId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	if err := h.services.Wishlist.Remove(c.Request.Context(), userID, eventID); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

// ListWishlist - GET /api/user/wishlist
func (h *Handlers) ListWishlist(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	events, err := h.services.Wishlist.List(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

package handlers

import (
	"net/http"
	"strconv"

	"musafir/internal/export"
	"musafir/internal/models"
	"musafir/internal/repository"

	"github.com/gin-gonic/gin"
)

// Admin back-office. All routes behind JWT + admin role.

// AdminListEvents - GET /api/admin/events
func (h *Handlers) AdminListEvents(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	if page < 1 || pageSize < 1 || pageSize > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pagination"})
		return
	}

	events, err := h.services.Events.ListAll(c.Request.Context(), page, pageSize)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events, "page": page, "pageSize": pageSize})
}

// AdminGetEvent - GET /api/admin/events/:id
func (h *Handlers) AdminGetEvent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	event, err := h.services.Events.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// AdminCreateEvent - POST /api/admin/events
// The body goes through the sanitizer, same as updates.
func (h *Handlers) AdminCreateEvent(c *gin.Context) {
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.services.Events.Create(c.Request.Context(), raw)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

// AdminUpdateEvent - PUT /api/admin/events/:id
// Partial update: omitted fields stay untouched, malformed nested entries are
// dropped, null/"" clears discountedPrice and brochure.
func (h *Handlers) AdminUpdateEvent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.services.Events.Update(c.Request.Context(), id, raw)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// AdminDeleteEvent - DELETE /api/admin/events/:id
func (h *Handlers) AdminDeleteEvent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	if err := h.services.Events.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func bookingFilterFromQuery(c *gin.Context) repository.BookingFilter {
	eventID, _ := strconv.ParseInt(c.Query("event_id"), 10, 64)
	day, _ := strconv.Atoi(c.Query("day"))
	month, _ := strconv.Atoi(c.Query("month"))
	year, _ := strconv.Atoi(c.Query("year"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "50"))

	return repository.BookingFilter{
		EventID:   eventID,
		Departure: c.Query("departure"),
		Status:    c.Query("status"),
		Day:       day,
		Month:     month,
		Year:      year,
		Page:      page,
		PageSize:  pageSize,
	}
}

// AdminListBookings - GET /api/admin/bookings
func (h *Handlers) AdminListBookings(c *gin.Context) {
	bookings, err := h.services.Bookings.ListFiltered(c.Request.Context(), bookingFilterFromQuery(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// AdminBookingAction - POST /api/admin/bookings/:id/action
func (h *Handlers) AdminBookingAction(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	var req models.BookingActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// A refund clears with the gateway before the status flips, so a gateway
	// failure never leaves a REFUNDED booking with the money still captured.
	if req.Action == "refund" {
		booking, err := h.services.Bookings.Get(c.Request.Context(), id, 0, true)
		if err != nil {
			h.respondError(c, err)
			return
		}
		if err := h.services.Payments.Refund(c.Request.Context(), booking); err != nil {
			h.respondError(c, err)
			return
		}
	}

	booking, err := h.services.Bookings.AdminAction(c.Request.Context(), id, req.Action)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

// AdminExportBookings - GET /api/admin/bookings/export
// Streams a CSV with a fixed column order per scope.
func (h *Handlers) AdminExportBookings(c *gin.Context) {
	scope := c.DefaultQuery("scope", export.ScopeAll)
	if !export.ValidScope(scope) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "scope must be all, event, departure or date"})
		return
	}

	bookings, err := h.services.Bookings.ListFiltered(c.Request.Context(), bookingFilterFromQuery(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	var titles map[int64]string
	if scope == export.ScopeAll {
		titles = h.services.Bookings.EventTitles(c.Request.Context(), bookings)
	}

	refs := make([]*models.Booking, len(bookings))
	for i := range bookings {
		refs[i] = &bookings[i]
	}

	data, err := export.BookingsCSV(scope, refs, titles)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="bookings.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}

// AdminListUsers - GET /api/admin/users
func (h *Handlers) AdminListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "50"))
	if page < 1 || pageSize < 1 || pageSize > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pagination"})
		return
	}

	users, err := h.services.Users.List(c.Request.Context(), page, pageSize)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// AdminUserAction - POST /api/admin/users/:id/action
func (h *Handlers) AdminUserAction(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var req models.UserActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.services.Users.AdminAction(c.Request.Context(), id, req.Action); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": req.Action})
}

// AdminListTestimonials - GET /api/admin/testimonials
func (h *Handlers) AdminListTestimonials(c *gin.Context) {
	testimonials, err := h.services.Testimonials.List(c.Request.Context(), true)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"testimonials": testimonials})
}

// AdminApproveTestimonial - POST /api/admin/testimonials/:id/approve
func (h *Handlers) AdminApproveTestimonial(c *gin.Context) {
	h.setTestimonialApproval(c, true)
}

// AdminRejectTestimonial - POST /api/admin/testimonials/:id/reject
func (h *Handlers) AdminRejectTestimonial(c *gin.Context) {
	h.setTestimonialApproval(c, false)
}

func (h *Handlers) setTestimonialApproval(c *gin.Context, approved bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid testimonial id"})
		return
	}

	if err := h.services.Testimonials.SetApproved(c.Request.Context(), id, approved); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"approved": approved})
}

// AdminDeleteTestimonial - DELETE /api/admin/testimonials/:id
func (h *Handlers) AdminDeleteTestimonial(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid testimonial id"})
		return
	}

	if err := h.services.Testimonials.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// AdminListStories - GET /api/admin/stories
func (h *Handlers) AdminListStories(c *gin.Context) {
	stories, err := h.services.Stories.List(c.Request.Context(), true)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stories": stories})
}

// AdminCreateStory - POST /api/admin/stories
func (h *Handlers) AdminCreateStory(c *gin.Context) {
	var req models.CreateStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	story, err := h.services.Stories.Create(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, story)
}

// AdminUpdateStory - PUT /api/admin/stories/:id
func (h *Handlers) AdminUpdateStory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid story id"})
		return
	}

	var req models.CreateStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	story, err := h.services.Stories.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, story)
}

// AdminDeleteStory - DELETE /api/admin/stories/:id
func (h *Handlers) AdminDeleteStory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid story id"})
		return
	}

	if err := h.services.Stories.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// AdminGetSettings - GET /api/admin/settings
func (h *Handlers) AdminGetSettings(c *gin.Context) {
	settings, err := h.services.Settings.Get(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}

// AdminSaveSettings - PUT /api/admin/settings
func (h *Handlers) AdminSaveSettings(c *gin.Context) {
	var settings models.SiteSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	saved, err := h.services.Settings.Save(c.Request.Context(), &settings)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, saved)
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"swapp/middleware"
	"swapp/models"
	"swapp/services/booking"
	"swapp/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// BookingHandler exposes the session booking endpoints.
type BookingHandler struct {
	svc    booking.BookingService
	cache  *redis.Client
	logger *zap.Logger
}

// NewBookingHandler creates a BookingHandler.
func NewBookingHandler(svc booking.BookingService, cache *redis.Client, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{svc: svc, cache: cache, logger: logger}
}

// CreateSession books a new session for the authenticated user.
func (h *BookingHandler) CreateSession(c *gin.Context) {
	requesterID, ok := middleware.RequesterID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	var req booking.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	session, err := h.svc.CreateBooking(c.Request.Context(), requesterID, req)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	// A new booking changes the teacher's day; drop the cached availability.
	h.invalidateAvailability(session.TeacherID, session.ScheduledAt)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    gin.H{"session": session},
	})
}

// ListSessions returns the authenticated user's sessions, filterable by
// type (student/teacher) and status.
func (h *BookingHandler) ListSessions(c *gin.Context) {
	requesterID, ok := middleware.RequesterID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	typ := c.Query("type")
	status := models.BookingStatus(c.Query("status"))

	sessions, err := h.svc.ListBookings(c.Request.Context(), requesterID, typ, status)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(sessions),
		"data":    gin.H{"sessions": sessions},
	})
}

// GetSession returns one session; only its parties may view it.
func (h *BookingHandler) GetSession(c *gin.Context) {
	requesterID, ok := middleware.RequesterID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	session, err := h.svc.GetBooking(c.Request.Context(), c.Param("id"), requesterID)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"session": session},
	})
}

// UpdateSessionStatus moves a session through its lifecycle.
func (h *BookingHandler) UpdateSessionStatus(c *gin.Context) {
	requesterID, ok := middleware.RequesterID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	var input struct {
		Status             models.BookingStatus `json:"status"`
		CancellationReason string               `json:"cancellationReason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	session, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), requesterID, input.Status, input.CancellationReason)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	h.invalidateAvailability(session.TeacherID, session.ScheduledAt)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"session": session},
	})
}

// SubmitReview attaches a one-time review to a completed session.
func (h *BookingHandler) SubmitReview(c *gin.Context) {
	requesterID, ok := middleware.RequesterID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	var input struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	session, err := h.svc.SubmitReview(c.Request.Context(), c.Param("id"), requesterID, input.Rating, input.Comment)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Review submitted successfully",
		"data":    gin.H{"session": session},
	})
}

// GetTeacherAvailability returns a teacher's declared schedule and that
// day's booked slots. Public endpoint; responses are cached briefly.
func (h *BookingHandler) GetTeacherAvailability(c *gin.Context) {
	teacherID := c.Param("teacherId")
	dateStr := c.Query("date")

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid date", "expected YYYY-MM-DD")
		return
	}

	cacheKey := utils.AvailabilityCachePrefix + teacherID + ":" + dateStr
	if h.cache != nil {
		if cached, err := h.cache.Get(c.Request.Context(), cacheKey).Result(); err == nil {
			var avail models.TeacherAvailability
			if err := json.Unmarshal([]byte(cached), &avail); err == nil {
				c.JSON(http.StatusOK, gin.H{"success": true, "data": avail})
				return
			}
		}
	}

	avail, err := h.svc.GetTeacherAvailability(c.Request.Context(), teacherID, date)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	if h.cache != nil {
		if data, err := json.Marshal(avail); err == nil {
			if err := h.cache.Set(c.Request.Context(), cacheKey, data, utils.AvailabilityCacheTTL).Err(); err != nil {
				h.logger.Warn("failed to cache availability", zap.String("teacherID", teacherID), zap.Error(err))
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": avail})
}

func (h *BookingHandler) invalidateAvailability(teacherID string, scheduledAt time.Time) {
	if h.cache == nil {
		return
	}
	key := utils.AvailabilityCachePrefix + teacherID + ":" + scheduledAt.Format("2006-01-02")
	if err := h.cache.Del(context.Background(), key).Err(); err != nil {
		h.logger.Warn("failed to invalidate availability cache",
			zap.String("teacherID", teacherID), zap.Error(err))
	}
}

package handlers

import (
	"errors"
	"net/http"

	"swapp/services/booking"

	"github.com/gin-gonic/gin"
)

// statusForKind maps the booking error taxonomy onto HTTP statuses.
func statusForKind(kind booking.Kind) int {
	switch kind {
	case booking.KindNotFound:
		return http.StatusNotFound
	case booking.KindInvalidRequest, booking.KindInsufficientFunds:
		return http.StatusBadRequest
	case booking.KindForbidden:
		return http.StatusForbidden
	case booking.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondBookingError writes a structured error without leaking internals.
func respondBookingError(c *gin.Context, err error) {
	kind := booking.KindOf(err)

	message := "Server error"
	var be *booking.Error
	if errors.As(err, &be) && kind != booking.KindInternal {
		message = be.Message
	}

	c.JSON(statusForKind(kind), gin.H{
		"success": false,
		"message": message,
	})
}

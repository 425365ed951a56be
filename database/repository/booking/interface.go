package bookingRepo

import (
	"context"
	"time"

	"swapp/models"

	"go.mongodb.org/mongo-driver/bson"
)

// BookingRepository defines the interface for booking data access.
type BookingRepository interface {
	// GetByID retrieves a booking by its unique ID.
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// Create inserts a new booking record.
	Create(ctx context.Context, booking *models.Booking) error
	// ListByUser returns bookings where the user is a party. typ filters by
	// role ("student" or "teacher"; empty for both sides); status filters by
	// lifecycle state when non-empty. Sorted by scheduled time, newest first.
	ListByUser(ctx context.Context, userID, typ string, status models.BookingStatus) ([]models.Booking, error)
	// CountConflicting counts pending/confirmed bookings for the teacher
	// whose half-open interval overlaps [start, end).
	CountConflicting(ctx context.Context, teacherID string, start, end time.Time) (int64, error)
	// ListBookedSlots returns the occupied slots (pending/confirmed) for the
	// teacher with a start within [from, to).
	ListBookedSlots(ctx context.Context, teacherID string, from, to time.Time) ([]models.BookedSlot, error)
	// TransitionStatus atomically moves the booking from one status to
	// another, applying extra field updates in the same write. Returns false
	// when the booking was not in the expected status.
	TransitionStatus(ctx context.Context, id string, from, to models.BookingStatus, set bson.M) (bool, error)
	// AttachReview stores the review on a completed, not-yet-reviewed
	// booking. Returns false when the guard did not match.
	AttachReview(ctx context.Context, id string, rating int, comment string) (bool, error)
}

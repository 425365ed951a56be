package booking

import (
	"context"
	"errors"

	bookingRepo "swapp/database/repository/booking"
	"swapp/models"
)

func isBookingNotFound(err error) bool {
	return errors.Is(err, bookingRepo.ErrNotFound)
}

// ListBookings returns the user's bookings, optionally filtered by role
// ("student" or "teacher") and status.
func (s *DefaultBookingService) ListBookings(ctx context.Context, userID, typ string, status models.BookingStatus) ([]models.Booking, error) {
	if status != "" && !models.ValidStatus(status) {
		return nil, Errf(KindInvalidRequest, "Unknown status %q", status)
	}
	bookings, err := s.BookingRepo.ListByUser(ctx, userID, typ, status)
	if err != nil {
		return nil, WrapInternal("failed to list bookings", err)
	}
	return bookings, nil
}

// GetBooking fetches one booking; only its parties may view it.
func (s *DefaultBookingService) GetBooking(ctx context.Context, id, requesterID string) (*models.Booking, error) {
	b, err := s.BookingRepo.GetByID(ctx, id)
	if err != nil {
		if isBookingNotFound(err) {
			return nil, NewError(KindNotFound, "Session not found")
		}
		return nil, WrapInternal("failed to fetch booking", err)
	}
	if !b.IsParty(requesterID) {
		return nil, NewError(KindForbidden, "Not authorized to view this session")
	}
	return b, nil
}

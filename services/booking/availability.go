package booking

import (
	"context"
	"time"

	"swapp/models"
)

// IsTeacherAvailable reports whether the proposed interval
// [start, start+duration) is free of pending/confirmed bookings for the
// teacher. Intervals are half-open: a session ending exactly when the
// proposed one starts does not conflict. Read-only.
func (s *DefaultBookingService) IsTeacherAvailable(ctx context.Context, teacherID string, start time.Time, durationMinutes int) (bool, error) {
	end := start.Add(time.Duration(durationMinutes) * time.Minute)

	count, err := s.BookingRepo.CountConflicting(ctx, teacherID, start, end)
	if err != nil {
		return false, WrapInternal("failed to check teacher availability", err)
	}
	return count == 0, nil
}

// GetTeacherAvailability returns the teacher's declared weekly schedule plus
// the slots already booked on the given day.
func (s *DefaultBookingService) GetTeacherAvailability(ctx context.Context, teacherID string, date time.Time) (*models.TeacherAvailability, error) {
	teacher, err := s.UserRepo.GetByID(ctx, teacherID)
	if err != nil {
		if isRepoNotFound(err) {
			return nil, NewError(KindNotFound, "Teacher not found")
		}
		return nil, WrapInternal("failed to fetch teacher", err)
	}

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	slots, err := s.BookingRepo.ListBookedSlots(ctx, teacherID, dayStart, dayEnd)
	if err != nil {
		return nil, WrapInternal("failed to fetch booked slots", err)
	}

	return &models.TeacherAvailability{
		Availability: teacher.Availability,
		BookedSlots:  slots,
	}, nil
}

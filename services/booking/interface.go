package booking

import (
	"context"
	"time"

	bookingRepo "swapp/database/repository/booking"
	ledgerRepo "swapp/database/repository/ledger"
	userRepo "swapp/database/repository/user"
	"swapp/models"
	"swapp/services/notification"
)

// CreateBookingRequest carries the client input for a new session booking.
type CreateBookingRequest struct {
	TeacherID   string    `json:"teacherId"`
	Skill       string    `json:"skill"`
	ScheduledAt time.Time `json:"scheduledDate"`
	Duration    int       `json:"duration"` // minutes
	Notes       string    `json:"notes"`
}

// BookingService is the session booking core: availability checking, the
// coin-debiting creation workflow, status transitions with compensating
// transfers, and review attachment.
type BookingService interface {
	CreateBooking(ctx context.Context, studentID string, req CreateBookingRequest) (*models.Booking, error)
	ListBookings(ctx context.Context, userID, typ string, status models.BookingStatus) ([]models.Booking, error)
	GetBooking(ctx context.Context, id, requesterID string) (*models.Booking, error)
	UpdateStatus(ctx context.Context, id, requesterID string, newStatus models.BookingStatus, cancellationReason string) (*models.Booking, error)
	SubmitReview(ctx context.Context, id, requesterID string, rating int, comment string) (*models.Booking, error)
	IsTeacherAvailable(ctx context.Context, teacherID string, start time.Time, durationMinutes int) (bool, error)
	GetTeacherAvailability(ctx context.Context, teacherID string, date time.Time) (*models.TeacherAvailability, error)
}

// TxRunner matches database.TxRunner; redeclared here so the service can be
// exercised without the database package.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Locker serializes booking creation per teacher. Acquire returns ok=false
// when another booking for the same teacher is in flight.
type Locker interface {
	Acquire(ctx context.Context, teacherID string) (release func(), ok bool, err error)
}

// ReminderScheduler enqueues a session reminder to fire before the start
// time. Scheduling failures do not fail the booking.
type ReminderScheduler interface {
	ScheduleSessionReminder(booking *models.Booking) error
}

// DefaultBookingService is the production implementation.
type DefaultBookingService struct {
	UserRepo    userRepo.UserRepository
	BookingRepo bookingRepo.BookingRepository
	LedgerRepo  ledgerRepo.CoinTransactionRepository
	Tx          TxRunner
	Locks       Locker
	Reminders   ReminderScheduler
	Notifier    notification.Service
}

package booking

import (
	"context"
	"errors"

	userRepo "swapp/database/repository/user"
	"swapp/models"
	"swapp/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func isRepoNotFound(err error) bool {
	return errors.Is(err, userRepo.ErrNotFound)
}

// CreateBooking runs the booking workflow: teacher and skill lookup, cost
// computation, balance verification, availability check, then an atomic
// debit + booking insert. The per-teacher lock closes the window between the
// availability check and the insert.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, studentID string, req CreateBookingRequest) (*models.Booking, error) {
	logger := utils.GetLogger()

	if req.TeacherID == "" || req.Skill == "" || req.ScheduledAt.IsZero() {
		return nil, NewError(KindInvalidRequest, "teacherId, skill and scheduledDate are required")
	}
	if req.TeacherID == studentID {
		return nil, NewError(KindInvalidRequest, "You cannot book a session with yourself")
	}
	duration := req.Duration
	if duration == 0 {
		duration = 60
	}
	if duration < models.MinSessionMinutes || duration > models.MaxSessionMinutes {
		return nil, Errf(KindInvalidRequest, "Duration must be between %d and %d minutes", models.MinSessionMinutes, models.MaxSessionMinutes)
	}

	teacher, err := s.UserRepo.GetByID(ctx, req.TeacherID)
	if err != nil {
		if isRepoNotFound(err) {
			return nil, NewError(KindNotFound, "Teacher not found")
		}
		return nil, WrapInternal("failed to fetch teacher", err)
	}
	if !teacher.CanTeach() {
		return nil, NewError(KindNotFound, "Teacher not found")
	}

	skill, ok := teacher.FindTeachingSkill(req.Skill)
	if !ok {
		return nil, NewError(KindInvalidRequest, "Teacher does not offer this skill")
	}

	cost := SessionCost(skill.HourlyRate, duration)

	student, err := s.UserRepo.GetByID(ctx, studentID)
	if err != nil {
		if isRepoNotFound(err) {
			return nil, NewError(KindNotFound, "Student not found")
		}
		return nil, WrapInternal("failed to fetch student", err)
	}
	if student.Wallet.Balance < cost {
		return nil, Errf(KindInsufficientFunds,
			"Insufficient coins. You need %g coins but only have %g.", cost, student.Wallet.Balance)
	}

	// Serialize the availability check and the insert per teacher, so two
	// concurrent requests cannot both observe a free slot.
	release, ok, err := s.Locks.Acquire(ctx, req.TeacherID)
	if err != nil {
		return nil, WrapInternal("failed to acquire booking lock", err)
	}
	if !ok {
		return nil, NewError(KindConflict, "Another booking for this teacher is in progress, please retry")
	}
	defer release()

	available, err := s.IsTeacherAvailable(ctx, req.TeacherID, req.ScheduledAt, duration)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, NewError(KindConflict, "Teacher is not available at this time")
	}

	booking := &models.Booking{
		ID:          uuid.New().String(),
		StudentID:   studentID,
		TeacherID:   req.TeacherID,
		Skill:       req.Skill,
		ScheduledAt: req.ScheduledAt,
		Duration:    duration,
		Status:      models.StatusConfirmed,
		Price:       cost,
		Notes:       req.Notes,
	}

	// The debit, the booking insert and the ledger entry commit or abort
	// together.
	err = s.Tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.UserRepo.AdjustWallet(txCtx, studentID, userRepo.WalletDelta{
			Balance:    -cost,
			CoinsSpent: cost,
		}); err != nil {
			return err
		}
		if err := s.BookingRepo.Create(txCtx, booking); err != nil {
			return err
		}
		return s.LedgerRepo.Create(txCtx, &models.CoinTransaction{
			ID:          uuid.New().String(),
			UserID:      studentID,
			Type:        models.TxnTypeSpent,
			Amount:      -cost,
			Description: "Session booking - " + req.Skill,
			BookingID:   booking.ID,
		})
	})
	if err != nil {
		if errors.Is(err, userRepo.ErrInsufficientBalance) {
			return nil, Errf(KindInsufficientFunds,
				"Insufficient coins. You need %g coins but only have %g.", cost, student.Wallet.Balance)
		}
		return nil, WrapInternal("failed to create booking", err)
	}

	logger.Info("session booked",
		zap.String("bookingID", booking.ID),
		zap.String("studentID", studentID),
		zap.String("teacherID", req.TeacherID),
		zap.Float64("cost", cost))

	if s.Reminders != nil {
		if err := s.Reminders.ScheduleSessionReminder(booking); err != nil {
			logger.Warn("failed to schedule session reminder",
				zap.String("bookingID", booking.ID), zap.Error(err))
		}
	}
	if s.Notifier != nil {
		s.Notifier.NotifyBookingConfirmed(ctx, booking)
	}

	return booking, nil
}

package booking

import (
	"context"
	"time"

	userRepo "swapp/database/repository/user"
	"swapp/models"
	"swapp/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// UpdateStatus moves a booking through its lifecycle. The transition itself
// is a compare-and-swap on the stored status, and the compensating transfer
// (teacher credit on completion, student refund on student-initiated
// cancellation) commits in the same transaction as the status write, so a
// transfer can happen at most once per booking.
func (s *DefaultBookingService) UpdateStatus(ctx context.Context, id, requesterID string, newStatus models.BookingStatus, cancellationReason string) (*models.Booking, error) {
	logger := utils.GetLogger()

	if !models.ValidStatus(newStatus) {
		return nil, Errf(KindInvalidRequest, "Unknown status %q", newStatus)
	}

	b, err := s.BookingRepo.GetByID(ctx, id)
	if err != nil {
		if isBookingNotFound(err) {
			return nil, NewError(KindNotFound, "Session not found")
		}
		return nil, WrapInternal("failed to fetch booking", err)
	}
	if !b.IsParty(requesterID) {
		return nil, NewError(KindForbidden, "Not authorized to update this session")
	}
	if !CanTransition(b.Status, newStatus) {
		return nil, Errf(KindInvalidRequest, "Cannot move a %s session to %s", b.Status, newStatus)
	}

	switch {
	case newStatus == models.StatusCompleted:
		err = s.completeBooking(ctx, b)
	case newStatus == models.StatusCancelled && requesterID == b.StudentID:
		err = s.cancelWithRefund(ctx, b, requesterID, cancellationReason)
	case newStatus == models.StatusCancelled:
		err = s.transitionOnly(ctx, b, newStatus, bson.M{
			"cancellation_reason": cancellationReason,
			"cancelled_by":        requesterID,
		})
	default:
		err = s.transitionOnly(ctx, b, newStatus, nil)
	}
	if err != nil {
		return nil, err
	}

	updated, err := s.BookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, WrapInternal("failed to fetch updated booking", err)
	}

	logger.Info("session status updated",
		zap.String("bookingID", id),
		zap.String("from", string(b.Status)),
		zap.String("to", string(newStatus)),
		zap.String("requesterID", requesterID))

	if s.Notifier != nil && newStatus == models.StatusCancelled {
		s.Notifier.NotifyBookingCancelled(ctx, updated, requesterID)
	}

	return updated, nil
}

// completeBooking swaps the status to completed and credits the teacher. A
// concurrent or repeated completion loses the swap and returns
// InvalidRequest without touching the wallet.
func (s *DefaultBookingService) completeBooking(ctx context.Context, b *models.Booking) error {
	now := time.Now()

	err := s.Tx.WithTransaction(ctx, func(txCtx context.Context) error {
		swapped, err := s.BookingRepo.TransitionStatus(txCtx, b.ID, b.Status, models.StatusCompleted, bson.M{
			"completed_at": now,
		})
		if err != nil {
			return err
		}
		if !swapped {
			return Errf(KindInvalidRequest, "Session is no longer %s", b.Status)
		}

		if err := s.UserRepo.AdjustWallet(txCtx, b.TeacherID, userRepo.WalletDelta{
			Balance:     b.Price,
			CoinsEarned: b.Price,
		}); err != nil {
			return err
		}
		if err := s.UserRepo.IncrementSkillSessions(txCtx, b.TeacherID, b.Skill); err != nil {
			return err
		}
		return s.LedgerRepo.Create(txCtx, &models.CoinTransaction{
			ID:          uuid.New().String(),
			UserID:      b.TeacherID,
			Type:        models.TxnTypeEarned,
			Amount:      b.Price,
			Description: "Session completed - " + b.Skill,
			BookingID:   b.ID,
		})
	})
	if err != nil {
		if KindOf(err) != KindInternal {
			return err
		}
		return WrapInternal("failed to complete booking", err)
	}

	if s.Notifier != nil {
		s.Notifier.NotifyCoinsCredited(ctx, b.TeacherID, b.Price, "session completed")
	}
	return nil
}

// cancelWithRefund swaps the status to cancelled and refunds the student.
// Only student-initiated cancellations carry a refund.
func (s *DefaultBookingService) cancelWithRefund(ctx context.Context, b *models.Booking, requesterID, reason string) error {
	err := s.Tx.WithTransaction(ctx, func(txCtx context.Context) error {
		swapped, err := s.BookingRepo.TransitionStatus(txCtx, b.ID, b.Status, models.StatusCancelled, bson.M{
			"cancellation_reason": reason,
			"cancelled_by":        requesterID,
		})
		if err != nil {
			return err
		}
		if !swapped {
			return Errf(KindInvalidRequest, "Session is no longer %s", b.Status)
		}

		if err := s.UserRepo.AdjustWallet(txCtx, b.StudentID, userRepo.WalletDelta{
			Balance:    b.Price,
			CoinsSpent: -b.Price,
		}); err != nil {
			return err
		}
		return s.LedgerRepo.Create(txCtx, &models.CoinTransaction{
			ID:          uuid.New().String(),
			UserID:      b.StudentID,
			Type:        models.TxnTypeRefund,
			Amount:      b.Price,
			Description: "Session cancelled - " + b.Skill,
			BookingID:   b.ID,
		})
	})
	if err != nil {
		if KindOf(err) != KindInternal {
			return err
		}
		return WrapInternal("failed to cancel booking", err)
	}

	if s.Notifier != nil {
		s.Notifier.NotifyCoinsCredited(ctx, b.StudentID, b.Price, "session cancelled")
	}
	return nil
}

// transitionOnly applies a status change with no financial effect.
func (s *DefaultBookingService) transitionOnly(ctx context.Context, b *models.Booking, to models.BookingStatus, set bson.M) error {
	swapped, err := s.BookingRepo.TransitionStatus(ctx, b.ID, b.Status, to, set)
	if err != nil {
		return WrapInternal("failed to update booking status", err)
	}
	if !swapped {
		return Errf(KindInvalidRequest, "Session is no longer %s", b.Status)
	}
	return nil
}

package booking

import (
	"context"

	"swapp/models"
	"swapp/utils"

	"go.uber.org/zap"
)

// SubmitReview attaches a one-time review to a completed session and folds
// the rating into the teacher's running average. The attach is a conditional
// update on (completed, not yet reviewed), so a repeated submission cannot
// count twice.
func (s *DefaultBookingService) SubmitReview(ctx context.Context, id, requesterID string, rating int, comment string) (*models.Booking, error) {
	if rating < 1 || rating > 5 {
		return nil, NewError(KindInvalidRequest, "Rating must be between 1 and 5")
	}

	b, err := s.BookingRepo.GetByID(ctx, id)
	if err != nil {
		if isBookingNotFound(err) {
			return nil, NewError(KindNotFound, "Session not found")
		}
		return nil, WrapInternal("failed to fetch booking", err)
	}
	if b.StudentID != requesterID {
		return nil, NewError(KindForbidden, "Only students can submit reviews for their sessions")
	}
	if b.Status != models.StatusCompleted {
		return nil, NewError(KindInvalidRequest, "Can only review completed sessions")
	}
	if b.ReviewSubmitted {
		return nil, NewError(KindInvalidRequest, "Review already submitted for this session")
	}

	attached, err := s.BookingRepo.AttachReview(ctx, id, rating, comment)
	if err != nil {
		return nil, WrapInternal("failed to attach review", err)
	}
	if !attached {
		return nil, NewError(KindInvalidRequest, "Review already submitted for this session")
	}

	teacher, err := s.UserRepo.GetByID(ctx, b.TeacherID)
	if err != nil {
		return nil, WrapInternal("failed to fetch teacher for rating update", err)
	}

	newAverage, newCount := foldRating(teacher.Stats.AverageRating, teacher.Stats.TotalReviews, rating)
	if err := s.UserRepo.ApplyReviewRating(ctx, b.TeacherID, b.Skill, newAverage, newCount); err != nil {
		return nil, WrapInternal("failed to update teacher rating", err)
	}

	utils.GetLogger().Info("review submitted",
		zap.String("bookingID", id),
		zap.Int("rating", rating),
		zap.Float64("teacherAverage", newAverage))

	updated, err := s.BookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, WrapInternal("failed to fetch reviewed booking", err)
	}
	return updated, nil
}

// foldRating incorporates a new rating into a running average.
func foldRating(average float64, count, rating int) (float64, int) {
	newCount := count + 1
	return (average*float64(count) + float64(rating)) / float64(newCount), newCount
}

package notification

import (
	"context"
	"fmt"
	"time"

	userRepo "swapp/database/repository/user"
	"swapp/models"
	"swapp/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service writes in-app notifications for booking lifecycle events. Delivery
// transports (push, chat) live outside this service.
type Service interface {
	NotifyBookingConfirmed(ctx context.Context, b *models.Booking)
	NotifyBookingCancelled(ctx context.Context, b *models.Booking, cancelledByID string)
	NotifyCoinsCredited(ctx context.Context, userID string, amount float64, reason string)
	NotifySessionReminder(ctx context.Context, p models.ReminderPayload) error
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	Users userRepo.UserRepository
}

// NewDefaultNotificationService creates the in-app notification service.
func NewDefaultNotificationService(users userRepo.UserRepository) *DefaultNotificationService {
	return &DefaultNotificationService{Users: users}
}

func (s *DefaultNotificationService) append(ctx context.Context, userID string, n models.Notification) {
	n.ID = uuid.New().String()
	n.CreatedAt = time.Now()
	if err := s.Users.AppendNotification(ctx, userID, n); err != nil {
		utils.GetLogger().Warn("failed to store notification",
			zap.String("userID", userID), zap.String("type", n.Type), zap.Error(err))
	}
}

// NotifyBookingConfirmed tells both parties that a session is on the books.
func (s *DefaultNotificationService) NotifyBookingConfirmed(ctx context.Context, b *models.Booking) {
	when := b.ScheduledAt.Format("2 January, 3:04 PM")
	data := map[string]any{
		"bookingId": b.ID,
		"skill":     b.Skill,
		"dateTime":  when,
		"price":     b.Price,
	}

	s.append(ctx, b.StudentID, models.Notification{
		Type:    models.NotifBookingConfirmed,
		Title:   "Booking Confirmed!",
		Message: fmt.Sprintf("Your %s session on %s is confirmed. %.2f coins were deducted from your wallet.", b.Skill, when, b.Price),
		Data:    data,
	})
	s.append(ctx, b.TeacherID, models.Notification{
		Type:    models.NotifBookingConfirmed,
		Title:   "New Session Booked",
		Message: fmt.Sprintf("A learner booked a %s session with you on %s.", b.Skill, when),
		Data:    data,
	})
}

// NotifyBookingCancelled tells the other party about a cancellation.
func (s *DefaultNotificationService) NotifyBookingCancelled(ctx context.Context, b *models.Booking, cancelledByID string) {
	other := b.TeacherID
	if cancelledByID == b.TeacherID {
		other = b.StudentID
	}
	s.append(ctx, other, models.Notification{
		Type:    models.NotifBookingCancelled,
		Title:   "Session Cancelled",
		Message: fmt.Sprintf("Your %s session on %s was cancelled.", b.Skill, b.ScheduledAt.Format("2 January, 3:04 PM")),
		Data:    map[string]any{"bookingId": b.ID, "reason": b.CancellationReason},
	})
}

// NotifyCoinsCredited records a wallet credit notification.
func (s *DefaultNotificationService) NotifyCoinsCredited(ctx context.Context, userID string, amount float64, reason string) {
	s.append(ctx, userID, models.Notification{
		Type:    models.NotifCoinsCredited,
		Title:   "Coins Credited",
		Message: fmt.Sprintf("%.2f coins were added to your wallet: %s.", amount, reason),
		Data:    map[string]any{"amount": amount, "reason": reason},
	})
}

// NotifySessionReminder stores the reminder raised by the background worker.
func (s *DefaultNotificationService) NotifySessionReminder(ctx context.Context, p models.ReminderPayload) error {
	n := models.Notification{
		ID:        uuid.New().String(),
		Type:      models.NotifSessionReminder,
		Title:     "Upcoming Session",
		Message:   fmt.Sprintf("Your %s session starts at %s.", p.Skill, p.StartsAt),
		Data:      map[string]any{"bookingId": p.BookingID, "startsAt": p.StartsAt},
		CreatedAt: time.Now(),
	}
	if err := s.Users.AppendNotification(ctx, p.UserID, n); err != nil {
		return fmt.Errorf("failed to store session reminder for user %s: %w", p.UserID, err)
	}
	n.ID = uuid.New().String()
	if err := s.Users.AppendNotification(ctx, p.TeacherID, n); err != nil {
		return fmt.Errorf("failed to store session reminder for teacher %s: %w", p.TeacherID, err)
	}
	return nil
}

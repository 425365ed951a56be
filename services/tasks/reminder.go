package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"swapp/config"
	"swapp/models"

	"github.com/hibiken/asynq"
)

const TypeSendReminder = "reminder:send"

// NewReminderTask builds the asynq task for a session reminder firing at fireAt.
func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}

// AsynqReminderScheduler enqueues session reminders on the shared Redis
// queue. It satisfies the booking service's ReminderScheduler.
type AsynqReminderScheduler struct {
	client *asynq.Client
	lead   time.Duration
}

// NewAsynqReminderScheduler creates a scheduler from the app config.
func NewAsynqReminderScheduler() *AsynqReminderScheduler {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})
	return &AsynqReminderScheduler{
		client: client,
		lead:   time.Duration(config.AppConfig.ReminderLeadMinutes) * time.Minute,
	}
}

// ScheduleSessionReminder enqueues a reminder to fire shortly before the
// session starts. Sessions starting sooner than the lead time get no
// reminder.
func (s *AsynqReminderScheduler) ScheduleSessionReminder(booking *models.Booking) error {
	fireAt := booking.ScheduledAt.Add(-s.lead)
	if !fireAt.After(time.Now()) {
		return nil
	}

	payload := models.ReminderPayload{
		BookingID: booking.ID,
		UserID:    booking.StudentID,
		TeacherID: booking.TeacherID,
		Skill:     booking.Skill,
		StartsAt:  booking.ScheduledAt.Format(time.RFC3339),
	}
	task, opts, err := NewReminderTask(payload, fireAt)
	if err != nil {
		return fmt.Errorf("failed to build reminder task: %w", err)
	}
	if _, err := s.client.Enqueue(task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue reminder task: %w", err)
	}
	return nil
}

package models

import "time"

// Notification types raised by the booking workflow.
const (
	NotifBookingConfirmed = "booking_confirmed"
	NotifBookingCancelled = "booking_cancelled"
	NotifSessionReminder  = "session_reminder"
	NotifCoinsCredited    = "coins_credited"
)

// Notification is an in-app notification stored on the user document.
type Notification struct {
	ID        string         `bson:"id" json:"id"`
	Type      string         `bson:"type" json:"type"`
	Title     string         `bson:"title" json:"title"`
	Message   string         `bson:"message" json:"message"`
	Data      map[string]any `bson:"data,omitempty" json:"data,omitempty"`
	Read      bool           `bson:"read" json:"read"`
	CreatedAt time.Time      `bson:"created_at" json:"createdAt"`
}

// ReminderPayload is the asynq task payload for a session reminder.
type ReminderPayload struct {
	BookingID string `json:"bookingId"`
	UserID    string `json:"userId"`
	TeacherID string `json:"teacherId"`
	Skill     string `json:"skill"`
	StartsAt  string `json:"startsAt"` // RFC3339
}

package models

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
	StatusNoShow    BookingStatus = "no_show"
)

// ValidStatus reports whether s is a recognized booking status.
func ValidStatus(s BookingStatus) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Duration bounds in minutes, matching the product rules for a session.
const (
	MinSessionMinutes = 30
	MaxSessionMinutes = 180
)

// Booking represents a scheduled, priced session between a student (payer)
// and a teacher (payee) for a named skill. Price is computed from the skill's
// hourly rate at creation time and never recomputed afterwards.
type Booking struct {
	ID        string        `bson:"id" json:"id"`
	StudentID string        `bson:"student_id" json:"studentId"`
	TeacherID string        `bson:"teacher_id" json:"teacherId"`
	Skill     string        `bson:"skill" json:"skill"`
	// ScheduledAt is the session start instant; the occupied interval is
	// [ScheduledAt, ScheduledAt+Duration) with a half-open end.
	ScheduledAt time.Time     `bson:"scheduled_at" json:"scheduledAt"`
	Duration    int           `bson:"duration" json:"duration"` // minutes
	Status      BookingStatus `bson:"status" json:"status"`
	Price       float64       `bson:"price" json:"price"` // coins, fixed at creation
	Notes       string        `bson:"notes,omitempty" json:"notes,omitempty"`
	MeetingLink string        `bson:"meeting_link,omitempty" json:"meetingLink,omitempty"`

	CancellationReason string     `bson:"cancellation_reason,omitempty" json:"cancellationReason,omitempty"`
	CancelledBy        string     `bson:"cancelled_by,omitempty" json:"cancelledBy,omitempty"`
	CompletedAt        *time.Time `bson:"completed_at,omitempty" json:"completedAt,omitempty"`

	ReviewRating    int    `bson:"review_rating,omitempty" json:"reviewRating,omitempty"`
	ReviewComment   string `bson:"review_comment,omitempty" json:"reviewComment,omitempty"`
	ReviewSubmitted bool   `bson:"review_submitted" json:"reviewSubmitted"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// EndTime returns the exclusive end of the booked interval.
func (b *Booking) EndTime() time.Time {
	return b.ScheduledAt.Add(time.Duration(b.Duration) * time.Minute)
}

// IsParty reports whether userID is the student or the teacher on the booking.
func (b *Booking) IsParty(userID string) bool {
	return b.StudentID == userID || b.TeacherID == userID
}

// BookedSlot is the projection of a booking returned by availability queries.
type BookedSlot struct {
	ScheduledAt time.Time `bson:"scheduled_at" json:"scheduledAt"`
	Duration    int       `bson:"duration" json:"duration"`
}

// TeacherAvailability is the response for a day availability lookup: the
// teacher's declared weekly schedule plus the slots already booked that day.
type TeacherAvailability struct {
	Availability WeeklyAvailability `json:"availability"`
	BookedSlots  []BookedSlot       `json:"bookedSlots"`
}

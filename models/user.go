package models

import "time"

// User roles. A user may learn, teach, or do both.
const (
	RoleLearner = "learner"
	RoleTeacher = "teacher"
	RoleBoth    = "both"
)

// TeachingSkill is one skill a user offers to teach, with its hourly rate in
// coins and cumulative session/rating stats.
type TeachingSkill struct {
	Skill      string  `bson:"skill" json:"skill"`
	Level      string  `bson:"level" json:"level"` // beginner, intermediate, advanced, expert
	HourlyRate float64 `bson:"hourly_rate" json:"hourlyRate"`
	Sessions   int     `bson:"sessions" json:"sessions"`
	Rating     float64 `bson:"rating" json:"rating"`
}

// LearningSkill is a skill a user wants to learn.
type LearningSkill struct {
	Skill    string `bson:"skill" json:"skill"`
	Level    string `bson:"level" json:"level"`
	Progress int    `bson:"progress" json:"progress"` // percent, 0-100
}

// DayAvailability is the declared availability for one weekday.
type DayAvailability struct {
	Available bool   `bson:"available" json:"available"`
	Hours     string `bson:"hours" json:"hours"` // free-form, e.g. "9:00-17:00"
}

// WeeklyAvailability holds the teacher's declared schedule per weekday.
type WeeklyAvailability struct {
	Monday    DayAvailability `bson:"monday" json:"monday"`
	Tuesday   DayAvailability `bson:"tuesday" json:"tuesday"`
	Wednesday DayAvailability `bson:"wednesday" json:"wednesday"`
	Thursday  DayAvailability `bson:"thursday" json:"thursday"`
	Friday    DayAvailability `bson:"friday" json:"friday"`
	Saturday  DayAvailability `bson:"saturday" json:"saturday"`
	Sunday    DayAvailability `bson:"sunday" json:"sunday"`
}

// UserStats are cumulative counters maintained by the booking workflow.
type UserStats struct {
	TotalSessions int     `bson:"total_sessions" json:"totalSessions"`
	AverageRating float64 `bson:"average_rating" json:"averageRating"`
	TotalReviews  int     `bson:"total_reviews" json:"totalReviews"`
	CoinsEarned   float64 `bson:"coins_earned" json:"coinsEarned"`
	CoinsSpent    float64 `bson:"coins_spent" json:"coinsSpent"`
}

// Wallet holds the user's coin balance. Balance never goes negative; debits
// are guarded at the repository level.
type Wallet struct {
	Balance         float64 `bson:"balance" json:"balance"`
	PendingEarnings float64 `bson:"pending_earnings" json:"pendingEarnings"`
}

// User represents a platform account. Profile management and authentication
// live outside this service; the booking core reads skills and mutates wallet
// and stats fields only.
type User struct {
	ID             string             `bson:"id" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Email          string             `bson:"email" json:"email"`
	Avatar         string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Bio            string             `bson:"bio,omitempty" json:"bio,omitempty"`
	Location       string             `bson:"location,omitempty" json:"location,omitempty"`
	Role           string             `bson:"role" json:"role"`
	TeachingSkills []TeachingSkill    `bson:"teaching_skills" json:"teachingSkills"`
	LearningSkills []LearningSkill    `bson:"learning_skills,omitempty" json:"learningSkills,omitempty"`
	Availability   WeeklyAvailability `bson:"availability" json:"availability"`
	Stats          UserStats          `bson:"stats" json:"stats"`
	Wallet         Wallet             `bson:"wallet" json:"wallet"`
	Notifications  []Notification     `bson:"notifications,omitempty" json:"notifications,omitempty"`
	CreatedAt      time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updatedAt"`
}

// CanTeach reports whether the user's role permits teaching.
func (u *User) CanTeach() bool {
	return u.Role == RoleTeacher || u.Role == RoleBoth
}

// FindTeachingSkill returns the offered skill with the given name, if any.
func (u *User) FindTeachingSkill(skill string) (TeachingSkill, bool) {
	for _, s := range u.TeachingSkills {
		if s.Skill == skill {
			return s, true
		}
	}
	return TeachingSkill{}, false
}

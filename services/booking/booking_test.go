package booking

import (
	"context"
	"testing"
	"time"

	"swapp/models"
	"swapp/services/notification"

	"github.com/stretchr/testify/suite"
)

type BookingServiceTestSuite struct {
	suite.Suite

	ctx       context.Context
	users     *fakeUserRepo
	bookings  *fakeBookingRepo
	ledger    *fakeLedgerRepo
	locks     *fakeLocker
	reminders *fakeReminders
	svc       *DefaultBookingService

	sessionStart time.Time
}

func TestBookingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BookingServiceTestSuite))
}

func (s *BookingServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.sessionStart = time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC)

	teacher := &models.User{
		ID:   "teacher-1",
		Name: "Imani",
		Role: models.RoleBoth,
		TeachingSkills: []models.TeachingSkill{
			{Skill: "Guitar", Level: "advanced", HourlyRate: 30},
			{Skill: "Swahili", Level: "expert", HourlyRate: 20, Rating: 4, Sessions: 3},
		},
		Wallet: models.Wallet{Balance: 0},
	}
	teacher.Stats = models.UserStats{AverageRating: 4, TotalReviews: 1, TotalSessions: 3}

	student := &models.User{
		ID:     "student-1",
		Name:   "Ben",
		Role:   models.RoleLearner,
		Wallet: models.Wallet{Balance: 100},
	}
	outsider := &models.User{
		ID:     "outsider-1",
		Name:   "Cole",
		Role:   models.RoleLearner,
		Wallet: models.Wallet{Balance: 500},
	}

	s.users = newFakeUserRepo(teacher, student, outsider)
	s.bookings = newFakeBookingRepo()
	s.ledger = &fakeLedgerRepo{}
	s.locks = &fakeLocker{}
	s.reminders = &fakeReminders{}

	s.svc = &DefaultBookingService{
		UserRepo:    s.users,
		BookingRepo: s.bookings,
		LedgerRepo:  s.ledger,
		Tx:          fakeTxRunner{},
		Locks:       s.locks,
		Reminders:   s.reminders,
		Notifier:    notification.NewDefaultNotificationService(s.users),
	}
}

func (s *BookingServiceTestSuite) book(duration int) (*models.Booking, error) {
	return s.svc.CreateBooking(s.ctx, "student-1", CreateBookingRequest{
		TeacherID:   "teacher-1",
		Skill:       "Guitar",
		ScheduledAt: s.sessionStart,
		Duration:    duration,
	})
}

func (s *BookingServiceTestSuite) mustBook(duration int) *models.Booking {
	b, err := s.book(duration)
	s.Require().NoError(err)
	return b
}

func (s *BookingServiceTestSuite) TestCreateBookingDebitsStudentAndConfirms() {
	b := s.mustBook(90)

	s.Equal(models.StatusConfirmed, b.Status)
	s.Equal(45.0, b.Price)
	s.Equal("student-1", b.StudentID)
	s.Equal("teacher-1", b.TeacherID)

	student, _ := s.users.GetByID(s.ctx, "student-1")
	s.Equal(55.0, student.Wallet.Balance)
	s.Equal(45.0, student.Stats.CoinsSpent)

	spent := s.ledger.byType("student-1", models.TxnTypeSpent)
	s.Require().Len(spent, 1)
	s.Equal(-45.0, spent[0].Amount)
	s.Equal(b.ID, spent[0].BookingID)

	s.Equal([]string{b.ID}, s.reminders.scheduled)
	s.Equal(1, s.locks.acquired)
}

func (s *BookingServiceTestSuite) TestCreateBookingDefaultsToSixtyMinutes() {
	b := s.mustBook(0)
	s.Equal(60, b.Duration)
	s.Equal(30.0, b.Price)
}

func (s *BookingServiceTestSuite) TestCreateBookingRejectsOutOfRangeDuration() {
	for _, d := range []int{15, 29, 181, 240} {
		_, err := s.book(d)
		s.Equal(KindInvalidRequest, KindOf(err), "duration %d", d)
	}
}

func (s *BookingServiceTestSuite) TestCreateBookingInsufficientFundsLeavesNoTrace() {
	student, _ := s.users.GetByID(s.ctx, "student-1")
	student.Wallet.Balance = 10
	s.Require().NoError(s.users.Update(s.ctx, student))

	_, err := s.book(90)
	s.Equal(KindInsufficientFunds, KindOf(err))

	student, _ = s.users.GetByID(s.ctx, "student-1")
	s.Equal(10.0, student.Wallet.Balance)
	s.Empty(s.bookings.bookings)
	s.Empty(s.ledger.entries)
	s.Empty(s.reminders.scheduled)
}

func (s *BookingServiceTestSuite) TestCreateBookingRejectsSelfBooking() {
	_, err := s.svc.CreateBooking(s.ctx, "teacher-1", CreateBookingRequest{
		TeacherID:   "teacher-1",
		Skill:       "Guitar",
		ScheduledAt: s.sessionStart,
	})
	s.Equal(KindInvalidRequest, KindOf(err))
}

func (s *BookingServiceTestSuite) TestCreateBookingUnknownTeacher() {
	_, err := s.svc.CreateBooking(s.ctx, "student-1", CreateBookingRequest{
		TeacherID:   "nobody",
		Skill:       "Guitar",
		ScheduledAt: s.sessionStart,
	})
	s.Equal(KindNotFound, KindOf(err))
}

func (s *BookingServiceTestSuite) TestCreateBookingTeacherWithoutTeachingRole() {
	_, err := s.svc.CreateBooking(s.ctx, "student-1", CreateBookingRequest{
		TeacherID:   "outsider-1",
		Skill:       "Guitar",
		ScheduledAt: s.sessionStart,
	})
	s.Equal(KindNotFound, KindOf(err))
}

func (s *BookingServiceTestSuite) TestCreateBookingUnofferedSkill() {
	_, err := s.svc.CreateBooking(s.ctx, "student-1", CreateBookingRequest{
		TeacherID:   "teacher-1",
		Skill:       "Violin",
		ScheduledAt: s.sessionStart,
	})
	s.Equal(KindInvalidRequest, KindOf(err))
}

func (s *BookingServiceTestSuite) TestCreateBookingOverlapConflictDoesNotDebit() {
	s.mustBook(60) // occupies 10:00-11:00

	_, err := s.svc.CreateBooking(s.ctx, "outsider-1", CreateBookingRequest{
		TeacherID:   "teacher-1",
		Skill:       "Guitar",
		ScheduledAt: s.sessionStart.Add(30 * time.Minute),
		Duration:    60,
	})
	s.Equal(KindConflict, KindOf(err))

	outsider, _ := s.users.GetByID(s.ctx, "outsider-1")
	s.Equal(500.0, outsider.Wallet.Balance)
	s.Len(s.bookings.bookings, 1)
}

func (s *BookingServiceTestSuite) TestCreateBookingAdjacentSlotsDoNotConflict() {
	s.mustBook(60) // 10:00-11:00

	// back-to-back at 11:00 and the hour before are both free
	for _, start := range []time.Time{s.sessionStart.Add(time.Hour), s.sessionStart.Add(-time.Hour)} {
		_, err := s.svc.CreateBooking(s.ctx, "outsider-1", CreateBookingRequest{
			TeacherID:   "teacher-1",
			Skill:       "Guitar",
			ScheduledAt: start,
			Duration:    60,
		})
		s.NoError(err, "start %s", start)
	}
}

func (s *BookingServiceTestSuite) TestCreateBookingLockHeldReturnsConflict() {
	s.locks.held = true

	_, err := s.book(60)
	s.Equal(KindConflict, KindOf(err))
	s.Empty(s.bookings.bookings)
}

func (s *BookingServiceTestSuite) TestIsTeacherAvailableHalfOpenInterval() {
	s.mustBook(60) // 10:00-11:00

	cases := []struct {
		name     string
		start    time.Time
		duration int
		want     bool
	}{
		{"exact overlap", s.sessionStart, 60, false},
		{"straddles start", s.sessionStart.Add(-30 * time.Minute), 60, false},
		{"straddles end", s.sessionStart.Add(59 * time.Minute), 30, false},
		{"contained", s.sessionStart.Add(15 * time.Minute), 30, false},
		{"ends at start", s.sessionStart.Add(-time.Hour), 60, true},
		{"starts at end", s.sessionStart.Add(time.Hour), 30, true},
	}
	for _, tc := range cases {
		got, err := s.svc.IsTeacherAvailable(s.ctx, "teacher-1", tc.start, tc.duration)
		s.Require().NoError(err, tc.name)
		s.Equal(tc.want, got, tc.name)
	}
}

func (s *BookingServiceTestSuite) TestCancelledBookingFreesTheSlot() {
	b := s.mustBook(60)
	_, err := s.svc.UpdateStatus(s.ctx, b.ID, "student-1", models.StatusCancelled, "changed plans")
	s.Require().NoError(err)

	available, err := s.svc.IsTeacherAvailable(s.ctx, "teacher-1", s.sessionStart, 60)
	s.Require().NoError(err)
	s.True(available)
}

func (s *BookingServiceTestSuite) TestCompleteCreditsTeacherExactlyOnce() {
	b := s.mustBook(90)

	updated, err := s.svc.UpdateStatus(s.ctx, b.ID, "teacher-1", models.StatusCompleted, "")
	s.Require().NoError(err)
	s.Equal(models.StatusCompleted, updated.Status)
	s.Require().NotNil(updated.CompletedAt)

	teacher, _ := s.users.GetByID(s.ctx, "teacher-1")
	s.Equal(45.0, teacher.Wallet.Balance)
	s.Equal(45.0, teacher.Stats.CoinsEarned)
	s.Equal(4, teacher.Stats.TotalSessions)
	guitar, _ := teacher.FindTeachingSkill("Guitar")
	s.Equal(1, guitar.Sessions)

	// a second completion is rejected and credits nothing more
	_, err = s.svc.UpdateStatus(s.ctx, b.ID, "teacher-1", models.StatusCompleted, "")
	s.Equal(KindInvalidRequest, KindOf(err))

	teacher, _ = s.users.GetByID(s.ctx, "teacher-1")
	s.Equal(45.0, teacher.Wallet.Balance)
	s.Len(s.ledger.byType("teacher-1", models.TxnTypeEarned), 1)
}

func (s *BookingServiceTestSuite) TestStudentCancellationRefunds() {
	b := s.mustBook(90)

	updated, err := s.svc.UpdateStatus(s.ctx, b.ID, "student-1", models.StatusCancelled, "changed plans")
	s.Require().NoError(err)
	s.Equal(models.StatusCancelled, updated.Status)
	s.Equal("changed plans", updated.CancellationReason)
	s.Equal("student-1", updated.CancelledBy)

	student, _ := s.users.GetByID(s.ctx, "student-1")
	s.Equal(100.0, student.Wallet.Balance)
	s.Equal(0.0, student.Stats.CoinsSpent)

	refunds := s.ledger.byType("student-1", models.TxnTypeRefund)
	s.Require().Len(refunds, 1)
	s.Equal(45.0, refunds[0].Amount)
}

func (s *BookingServiceTestSuite) TestTeacherCancellationStillRefundsNobodyElse() {
	b := s.mustBook(90)

	updated, err := s.svc.UpdateStatus(s.ctx, b.ID, "teacher-1", models.StatusCancelled, "sick")
	s.Require().NoError(err)
	s.Equal("teacher-1", updated.CancelledBy)

	// teacher-initiated cancellation carries no transfer either way
	student, _ := s.users.GetByID(s.ctx, "student-1")
	s.Equal(55.0, student.Wallet.Balance)
	s.Equal(45.0, student.Stats.CoinsSpent)
	s.Empty(s.ledger.byType("student-1", models.TxnTypeRefund))

	teacher, _ := s.users.GetByID(s.ctx, "teacher-1")
	s.Equal(0.0, teacher.Wallet.Balance)
}

func (s *BookingServiceTestSuite) TestNoShowHasNoFinancialEffect() {
	b := s.mustBook(60)

	updated, err := s.svc.UpdateStatus(s.ctx, b.ID, "teacher-1", models.StatusNoShow, "")
	s.Require().NoError(err)
	s.Equal(models.StatusNoShow, updated.Status)

	student, _ := s.users.GetByID(s.ctx, "student-1")
	s.Equal(70.0, student.Wallet.Balance)
	teacher, _ := s.users.GetByID(s.ctx, "teacher-1")
	s.Equal(0.0, teacher.Wallet.Balance)
}

func (s *BookingServiceTestSuite) TestUpdateStatusRejectsOutsiders() {
	b := s.mustBook(60)
	_, err := s.svc.UpdateStatus(s.ctx, b.ID, "outsider-1", models.StatusCancelled, "")
	s.Equal(KindForbidden, KindOf(err))
}

func (s *BookingServiceTestSuite) TestUpdateStatusRejectsUnknownStatus() {
	b := s.mustBook(60)
	_, err := s.svc.UpdateStatus(s.ctx, b.ID, "student-1", models.BookingStatus("archived"), "")
	s.Equal(KindInvalidRequest, KindOf(err))
}

func (s *BookingServiceTestSuite) TestUpdateStatusTerminalStatesAreClosed() {
	b := s.mustBook(60)
	_, err := s.svc.UpdateStatus(s.ctx, b.ID, "teacher-1", models.StatusCompleted, "")
	s.Require().NoError(err)

	for _, to := range []models.BookingStatus{models.StatusPending, models.StatusConfirmed, models.StatusCancelled, models.StatusNoShow} {
		_, err := s.svc.UpdateStatus(s.ctx, b.ID, "teacher-1", to, "")
		s.Equal(KindInvalidRequest, KindOf(err), "to %s", to)
	}
}

func (s *BookingServiceTestSuite) TestUpdateStatusUnknownBooking() {
	_, err := s.svc.UpdateStatus(s.ctx, "nope", "student-1", models.StatusCancelled, "")
	s.Equal(KindNotFound, KindOf(err))
}

func (s *BookingServiceTestSuite) TestSubmitReviewFoldsTeacherRating() {
	b := s.mustBook(60)
	_, err := s.svc.UpdateStatus(s.ctx, b.ID, "teacher-1", models.StatusCompleted, "")
	s.Require().NoError(err)

	updated, err := s.svc.SubmitReview(s.ctx, b.ID, "student-1", 5, "great teacher")
	s.Require().NoError(err)
	s.True(updated.ReviewSubmitted)
	s.Equal(5, updated.ReviewRating)
	s.Equal("great teacher", updated.ReviewComment)

	// running average folds 4 (1 review) with the new 5
	teacher, _ := s.users.GetByID(s.ctx, "teacher-1")
	s.InDelta(4.5, teacher.Stats.AverageRating, 1e-9)
	s.Equal(2, teacher.Stats.TotalReviews)
	guitar, _ := teacher.FindTeachingSkill("Guitar")
	s.InDelta(4.5, guitar.Rating, 1e-9)
}

func (s *BookingServiceTestSuite) TestSubmitReviewIsOneShot() {
	b := s.mustBook(60)
	_, err := s.svc.UpdateStatus(s.ctx, b.ID, "teacher-1", models.StatusCompleted, "")
	s.Require().NoError(err)

	_, err = s.svc.SubmitReview(s.ctx, b.ID, "student-1", 5, "")
	s.Require().NoError(err)

	_, err = s.svc.SubmitReview(s.ctx, b.ID, "student-1", 1, "second thoughts")
	s.Equal(KindInvalidRequest, KindOf(err))

	teacher, _ := s.users.GetByID(s.ctx, "teacher-1")
	s.InDelta(4.5, teacher.Stats.AverageRating, 1e-9)
	s.Equal(2, teacher.Stats.TotalReviews)
}

func (s *BookingServiceTestSuite) TestSubmitReviewRatingBounds() {
	b := s.mustBook(60)
	_, err := s.svc.UpdateStatus(s.ctx, b.ID, "teacher-1", models.StatusCompleted, "")
	s.Require().NoError(err)

	for _, rating := range []int{0, -1, 6} {
		_, err := s.svc.SubmitReview(s.ctx, b.ID, "student-1", rating, "")
		s.Equal(KindInvalidRequest, KindOf(err), "rating %d", rating)
	}
}

func (s *BookingServiceTestSuite) TestSubmitReviewOnlyByStudentOnCompleted() {
	b := s.mustBook(60)

	_, err := s.svc.SubmitReview(s.ctx, b.ID, "student-1", 5, "")
	s.Equal(KindInvalidRequest, KindOf(err), "session not completed yet")

	_, err = s.svc.UpdateStatus(s.ctx, b.ID, "teacher-1", models.StatusCompleted, "")
	s.Require().NoError(err)

	_, err = s.svc.SubmitReview(s.ctx, b.ID, "teacher-1", 5, "")
	s.Equal(KindForbidden, KindOf(err))
}

func (s *BookingServiceTestSuite) TestGetBookingAuthorization() {
	b := s.mustBook(60)

	got, err := s.svc.GetBooking(s.ctx, b.ID, "teacher-1")
	s.Require().NoError(err)
	s.Equal(b.ID, got.ID)

	_, err = s.svc.GetBooking(s.ctx, b.ID, "outsider-1")
	s.Equal(KindForbidden, KindOf(err))

	_, err = s.svc.GetBooking(s.ctx, "nope", "student-1")
	s.Equal(KindNotFound, KindOf(err))
}

func (s *BookingServiceTestSuite) TestListBookingsFiltersByRoleAndStatus() {
	b := s.mustBook(60)
	second, err := s.svc.CreateBooking(s.ctx, "outsider-1", CreateBookingRequest{
		TeacherID:   "teacher-1",
		Skill:       "Guitar",
		ScheduledAt: s.sessionStart.Add(2 * time.Hour),
		Duration:    60,
	})
	s.Require().NoError(err)
	_, err = s.svc.UpdateStatus(s.ctx, second.ID, "outsider-1", models.StatusCancelled, "")
	s.Require().NoError(err)

	asStudent, err := s.svc.ListBookings(s.ctx, "student-1", "student", "")
	s.Require().NoError(err)
	s.Require().Len(asStudent, 1)
	s.Equal(b.ID, asStudent[0].ID)

	asTeacher, err := s.svc.ListBookings(s.ctx, "teacher-1", "teacher", "")
	s.Require().NoError(err)
	s.Len(asTeacher, 2)

	confirmed, err := s.svc.ListBookings(s.ctx, "teacher-1", "teacher", models.StatusConfirmed)
	s.Require().NoError(err)
	s.Require().Len(confirmed, 1)
	s.Equal(b.ID, confirmed[0].ID)
}

func (s *BookingServiceTestSuite) TestGetTeacherAvailabilityListsDaySlots() {
	s.mustBook(60)

	avail, err := s.svc.GetTeacherAvailability(s.ctx, "teacher-1", s.sessionStart)
	s.Require().NoError(err)
	s.Require().Len(avail.BookedSlots, 1)
	s.Equal(60, avail.BookedSlots[0].Duration)
	s.True(avail.BookedSlots[0].ScheduledAt.Equal(s.sessionStart))

	avail, err = s.svc.GetTeacherAvailability(s.ctx, "teacher-1", s.sessionStart.AddDate(0, 0, 1))
	s.Require().NoError(err)
	s.Empty(avail.BookedSlots)
}

func (s *BookingServiceTestSuite) TestBookingConfirmationNotifiesBothParties() {
	s.mustBook(60)

	student, _ := s.users.GetByID(s.ctx, "student-1")
	s.Require().Len(student.Notifications, 1)
	s.Equal(models.NotifBookingConfirmed, student.Notifications[0].Type)

	teacher, _ := s.users.GetByID(s.ctx, "teacher-1")
	s.Require().Len(teacher.Notifications, 1)
}

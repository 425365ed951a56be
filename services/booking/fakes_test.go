package booking

import (
	"context"
	"sort"
	"time"

	bookingRepo "swapp/database/repository/booking"
	userRepo "swapp/database/repository/user"
	"swapp/models"

	"go.mongodb.org/mongo-driver/bson"
)

// In-memory fakes for the repository interfaces. They mirror the guarded
// update semantics of the Mongo implementations so the service sees the same
// behavior under test.

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, userRepo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByIDWithProjection(ctx context.Context, id string, _ bson.M) (*models.User, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *models.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return userRepo.ErrNotFound
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) AdjustWallet(_ context.Context, id string, delta userRepo.WalletDelta) error {
	u, ok := r.users[id]
	if !ok {
		return userRepo.ErrNotFound
	}
	if delta.Balance < 0 && u.Wallet.Balance < -delta.Balance {
		return userRepo.ErrInsufficientBalance
	}
	u.Wallet.Balance += delta.Balance
	u.Stats.CoinsSpent += delta.CoinsSpent
	u.Stats.CoinsEarned += delta.CoinsEarned
	return nil
}

func (r *fakeUserRepo) IncrementSkillSessions(_ context.Context, id, skill string) error {
	u, ok := r.users[id]
	if !ok {
		return userRepo.ErrNotFound
	}
	for i := range u.TeachingSkills {
		if u.TeachingSkills[i].Skill == skill {
			u.TeachingSkills[i].Sessions++
			break
		}
	}
	u.Stats.TotalSessions++
	return nil
}

func (r *fakeUserRepo) ApplyReviewRating(_ context.Context, id, skill string, newAverage float64, reviewCount int) error {
	u, ok := r.users[id]
	if !ok {
		return userRepo.ErrNotFound
	}
	u.Stats.AverageRating = newAverage
	u.Stats.TotalReviews = reviewCount
	for i := range u.TeachingSkills {
		if u.TeachingSkills[i].Skill == skill {
			u.TeachingSkills[i].Rating = newAverage
		}
	}
	return nil
}

func (r *fakeUserRepo) AppendNotification(_ context.Context, id string, n models.Notification) error {
	u, ok := r.users[id]
	if !ok {
		return userRepo.ErrNotFound
	}
	u.Notifications = append(u.Notifications, n)
	return nil
}

type fakeBookingRepo struct {
	bookings map[string]*models.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[string]*models.Booking)}
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) Create(_ context.Context, b *models.Booking) error {
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *fakeBookingRepo) ListByUser(_ context.Context, userID, typ string, status models.BookingStatus) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.bookings {
		switch typ {
		case "student":
			if b.StudentID != userID {
				continue
			}
		case "teacher":
			if b.TeacherID != userID {
				continue
			}
		default:
			if !b.IsParty(userID) {
				continue
			}
		}
		if status != "" && b.Status != status {
			continue
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ScheduledAt.After(out[j].ScheduledAt)
	})
	return out, nil
}

func isActive(s models.BookingStatus) bool {
	return s == models.StatusPending || s == models.StatusConfirmed
}

func (r *fakeBookingRepo) CountConflicting(_ context.Context, teacherID string, start, end time.Time) (int64, error) {
	var count int64
	for _, b := range r.bookings {
		if b.TeacherID != teacherID || !isActive(b.Status) {
			continue
		}
		if b.ScheduledAt.Before(end) && b.EndTime().After(start) {
			count++
		}
	}
	return count, nil
}

func (r *fakeBookingRepo) ListBookedSlots(_ context.Context, teacherID string, from, to time.Time) ([]models.BookedSlot, error) {
	var slots []models.BookedSlot
	for _, b := range r.bookings {
		if b.TeacherID != teacherID || !isActive(b.Status) {
			continue
		}
		if !b.ScheduledAt.Before(from) && b.ScheduledAt.Before(to) {
			slots = append(slots, models.BookedSlot{ScheduledAt: b.ScheduledAt, Duration: b.Duration})
		}
	}
	return slots, nil
}

func (r *fakeBookingRepo) TransitionStatus(_ context.Context, id string, from, to models.BookingStatus, set bson.M) (bool, error) {
	b, ok := r.bookings[id]
	if !ok || b.Status != from {
		return false, nil
	}
	b.Status = to
	b.UpdatedAt = time.Now()
	for k, v := range set {
		switch k {
		case "completed_at":
			t := v.(time.Time)
			b.CompletedAt = &t
		case "cancellation_reason":
			b.CancellationReason, _ = v.(string)
		case "cancelled_by":
			b.CancelledBy, _ = v.(string)
		}
	}
	return true, nil
}

func (r *fakeBookingRepo) AttachReview(_ context.Context, id string, rating int, comment string) (bool, error) {
	b, ok := r.bookings[id]
	if !ok || b.Status != models.StatusCompleted || b.ReviewSubmitted {
		return false, nil
	}
	b.ReviewRating = rating
	b.ReviewComment = comment
	b.ReviewSubmitted = true
	b.UpdatedAt = time.Now()
	return true, nil
}

type fakeLedgerRepo struct {
	entries []models.CoinTransaction
}

func (r *fakeLedgerRepo) Create(_ context.Context, txn *models.CoinTransaction) error {
	txn.CreatedAt = time.Now()
	r.entries = append(r.entries, *txn)
	return nil
}

func (r *fakeLedgerRepo) ListByUser(_ context.Context, userID string, limit int64) ([]models.CoinTransaction, error) {
	var out []models.CoinTransaction
	for i := len(r.entries) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		if r.entries[i].UserID == userID {
			out = append(out, r.entries[i])
		}
	}
	return out, nil
}

func (r *fakeLedgerRepo) byType(userID, typ string) []models.CoinTransaction {
	var out []models.CoinTransaction
	for _, e := range r.entries {
		if e.UserID == userID && e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

// fakeTxRunner runs the function directly; the fakes mutate shared state, so
// the transactional grouping itself is covered by the Mongo runner.
type fakeTxRunner struct{}

func (fakeTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeLocker struct {
	held     bool
	acquired int
}

func (l *fakeLocker) Acquire(_ context.Context, _ string) (func(), bool, error) {
	if l.held {
		return nil, false, nil
	}
	l.acquired++
	return func() {}, true, nil
}

type fakeReminders struct {
	scheduled []string
}

func (f *fakeReminders) ScheduleSessionReminder(b *models.Booking) error {
	f.scheduled = append(f.scheduled, b.ID)
	return nil
}

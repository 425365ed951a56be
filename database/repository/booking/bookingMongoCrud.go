// File: database/repository/booking/bookingMongoCrud.go
package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"swapp/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetByID retrieves a booking by its unique ID.
func (r *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking with id %s: %w", id, err)
	}
	return &booking, nil
}

// Create inserts a new booking document.
func (r *MongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	_, err := r.coll.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// ListByUser returns bookings where the user is a party, newest first.
func (r *MongoBookingRepo) ListByUser(ctx context.Context, userID, typ string, status models.BookingStatus) ([]models.Booking, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var filter bson.M
	switch typ {
	case "student":
		filter = bson.M{"student_id": userID}
	case "teacher":
		filter = bson.M{"teacher_id": userID}
	default:
		filter = bson.M{"$or": []bson.M{
			{"student_id": userID},
			{"teacher_id": userID},
		}}
	}
	if status != "" {
		filter["status"] = status
	}

	opts := options.Find().SetSort(bson.D{{Key: "scheduled_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings for user %s: %w", userID, err)
	}
	return bookings, nil
}

// TransitionStatus atomically moves the booking between statuses, applying
// any extra field updates in the same write. The filter includes the expected
// current status, so two concurrent transitions cannot both succeed.
func (r *MongoBookingRepo) TransitionStatus(ctx context.Context, id string, from, to models.BookingStatus, set bson.M) (bool, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	fields := bson.M{
		"status":     to,
		"updated_at": time.Now(),
	}
	for k, v := range set {
		fields[k] = v
	}

	filter := bson.M{"id": id, "status": from}
	result, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": fields})
	if err != nil {
		return false, fmt.Errorf("failed to transition booking %s to %s: %w", id, to, err)
	}
	return result.MatchedCount > 0, nil
}

// AttachReview stores the review on a completed booking that has not been
// reviewed yet. The guard is part of the filter, so a second submission
// cannot overwrite the first.
func (r *MongoBookingRepo) AttachReview(ctx context.Context, id string, rating int, comment string) (bool, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":               id,
		"status":           models.StatusCompleted,
		"review_submitted": false,
	}
	update := bson.M{
		"$set": bson.M{
			"review_rating":    rating,
			"review_comment":   comment,
			"review_submitted": true,
			"updated_at":       time.Now(),
		},
	}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to attach review to booking %s: %w", id, err)
	}
	return result.MatchedCount > 0, nil
}

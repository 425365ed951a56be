// File: database/repository/booking/bookingMongoQueries.go
package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"swapp/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// activeStatuses are the states that occupy a teacher's calendar.
var activeStatuses = bson.A{models.StatusPending, models.StatusConfirmed}

// CountConflicting counts active bookings for the teacher whose interval
// [scheduled_at, scheduled_at + duration) overlaps [start, end). Both
// intervals are half-open, so a booking ending exactly at start is not a
// conflict. The stored end is derived inside $expr since only the start and
// the minute duration are persisted.
func (r *MongoBookingRepo) CountConflicting(ctx context.Context, teacherID string, start, end time.Time) (int64, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"teacher_id": teacherID,
		"status":     bson.M{"$in": activeStatuses},
		"$expr": bson.M{
			"$and": bson.A{
				bson.M{"$lt": bson.A{"$scheduled_at", end}},
				bson.M{"$gt": bson.A{
					bson.M{"$add": bson.A{
						"$scheduled_at",
						bson.M{"$multiply": bson.A{"$duration", 60000}},
					}},
					start,
				}},
			},
		},
	}

	count, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count conflicting bookings for teacher %s: %w", teacherID, err)
	}
	return count, nil
}

// ListBookedSlots returns the occupied slots for the teacher with a start
// within [from, to), projected down to start and duration.
func (r *MongoBookingRepo) ListBookedSlots(ctx context.Context, teacherID string, from, to time.Time) ([]models.BookedSlot, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"teacher_id":   teacherID,
		"status":       bson.M{"$in": activeStatuses},
		"scheduled_at": bson.M{"$gte": from, "$lt": to},
	}
	opts := options.Find().
		SetProjection(bson.M{"scheduled_at": 1, "duration": 1}).
		SetSort(bson.D{{Key: "scheduled_at", Value: 1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list booked slots for teacher %s: %w", teacherID, err)
	}
	defer cursor.Close(ctx)

	var slots []models.BookedSlot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode booked slots for teacher %s: %w", teacherID, err)
	}
	return slots, nil
}

// File: database/repository/user/userMongoUpdates.go
package userRepo

import (
	"context"
	"fmt"
	"time"

	"swapp/models"

	"go.mongodb.org/mongo-driver/bson"
)

// AdjustWallet applies a wallet mutation as a single $inc update. For debits
// the filter requires the balance to cover the amount, so the non-negative
// balance invariant holds even under concurrent mutations.
func (r *MongoUserRepo) AdjustWallet(ctx context.Context, id string, delta WalletDelta) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id}
	if delta.Balance < 0 {
		filter["wallet.balance"] = bson.M{"$gte": -delta.Balance}
	}

	update := bson.M{
		"$inc": bson.M{
			"wallet.balance":     delta.Balance,
			"stats.coins_spent":  delta.CoinsSpent,
			"stats.coins_earned": delta.CoinsEarned,
		},
		"$set": bson.M{"updated_at": time.Now()},
	}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to adjust wallet for user %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		if delta.Balance < 0 {
			return ErrInsufficientBalance
		}
		return ErrNotFound
	}
	return nil
}

// IncrementSkillSessions bumps the session counter on the named teaching
// skill along with the user's total session count.
func (r *MongoUserRepo) IncrementSkillSessions(ctx context.Context, id, skill string) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "teaching_skills.skill": skill}
	update := bson.M{
		"$inc": bson.M{
			"teaching_skills.$.sessions": 1,
			"stats.total_sessions":       1,
		},
		"$set": bson.M{"updated_at": time.Now()},
	}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to increment skill sessions for user %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ApplyReviewRating stores the recomputed overall average and review count,
// and mirrors the average onto the named teaching skill.
func (r *MongoUserRepo) ApplyReviewRating(ctx context.Context, id, skill string, newAverage float64, reviewCount int) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "teaching_skills.skill": skill}
	update := bson.M{
		"$set": bson.M{
			"stats.average_rating":     newAverage,
			"stats.total_reviews":      reviewCount,
			"teaching_skills.$.rating": newAverage,
			"updated_at":               time.Now(),
		},
	}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to apply review rating for user %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		// The skill may have been removed since the booking was made; still
		// record the overall rating.
		fallback := bson.M{
			"$set": bson.M{
				"stats.average_rating": newAverage,
				"stats.total_reviews":  reviewCount,
				"updated_at":           time.Now(),
			},
		}
		result, err = r.coll.UpdateOne(ctx, bson.M{"id": id}, fallback)
		if err != nil {
			return fmt.Errorf("failed to apply review rating for user %s: %w", id, err)
		}
		if result.MatchedCount == 0 {
			return ErrNotFound
		}
	}
	return nil
}

// AppendNotification pushes an in-app notification onto the user document.
func (r *MongoUserRepo) AppendNotification(ctx context.Context, id string, n models.Notification) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id}
	update := bson.M{
		"$push": bson.M{"notifications": n},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to append notification for user %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

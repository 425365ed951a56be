package ledgerRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"swapp/database"
	"swapp/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateEntry is returned when a ledger entry with the same payment
// intent already exists. Top-up confirmation relies on it for idempotency.
var ErrDuplicateEntry = errors.New("duplicate ledger entry")

// CoinTransactionRepository defines the interface for coin ledger access.
type CoinTransactionRepository interface {
	// Create inserts a ledger entry. Entries carrying an already-recorded
	// payment intent ID fail with ErrDuplicateEntry.
	Create(ctx context.Context, txn *models.CoinTransaction) error
	// ListByUser returns the most recent entries for a user, newest first.
	ListByUser(ctx context.Context, userID string, limit int64) ([]models.CoinTransaction, error)
}

// MongoCoinTransactionRepo implements CoinTransactionRepository using MongoDB.
type MongoCoinTransactionRepo struct {
	coll *mongo.Collection
}

// NewMongoCoinTransactionRepo creates a new ledger repository using MongoDB.
func NewMongoCoinTransactionRepo() CoinTransactionRepository {
	coll := database.Collection("coin_transactions")
	repo := &MongoCoinTransactionRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, timeout)
}

func (r *MongoCoinTransactionRepo) ensureIndexes() error {
	ctx, cancel := newContext(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		// Sparse so booking-driven entries without a payment intent are not
		// subject to the uniqueness constraint.
		{
			Keys:    bson.D{{Key: "payment_intent_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a ledger entry.
func (r *MongoCoinTransactionRepo) Create(ctx context.Context, txn *models.CoinTransaction) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	txn.CreatedAt = time.Now()

	_, err := r.coll.InsertOne(ctx, txn)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEntry
		}
		return fmt.Errorf("failed to create coin transaction: %w", err)
	}
	return nil
}

// ListByUser returns the most recent ledger entries for a user.
func (r *MongoCoinTransactionRepo) ListByUser(ctx context.Context, userID string, limit int64) ([]models.CoinTransaction, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list coin transactions for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var txns []models.CoinTransaction
	if err := cursor.All(ctx, &txns); err != nil {
		return nil, fmt.Errorf("failed to decode coin transactions for user %s: %w", userID, err)
	}
	return txns, nil
}

package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// TxRunner executes a function inside a single database transaction. The
// booking workflow uses it to keep wallet mutations and booking writes
// atomic: a debit with no booking, or a double credit, cannot survive a
// partial failure.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// MongoTxRunner implements TxRunner over MongoDB sessions. Repository calls
// made with the session context join the transaction automatically.
type MongoTxRunner struct {
	client *mongo.Client
}

// NewMongoTxRunner creates a TxRunner bound to the given client.
func NewMongoTxRunner(client *mongo.Client) *MongoTxRunner {
	return &MongoTxRunner{client: client}
}

func (r *MongoTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start mongo session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil {
		return fmt.Errorf("transaction aborted: %w", err)
	}
	return nil
}

package userRepo

import (
	"context"

	"swapp/models"

	"go.mongodb.org/mongo-driver/bson"
)

// WalletDelta describes a single wallet mutation. Balance may be negative
// (a debit); CoinsSpent and CoinsEarned adjust the cumulative stats counters.
type WalletDelta struct {
	Balance     float64
	CoinsSpent  float64
	CoinsEarned float64
}

// UserRepository defines methods for account data access. The booking core
// consumes accounts: it reads skills and mutates wallet and stats fields.
type UserRepository interface {
	// GetByID retrieves a user by its unique ID.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByIDWithProjection retrieves a user by its unique ID with a projection.
	GetByIDWithProjection(ctx context.Context, id string, projection bson.M) (*models.User, error)
	// Create inserts a new user record.
	Create(ctx context.Context, user *models.User) error
	// Update modifies an existing user record.
	Update(ctx context.Context, user *models.User) error
	// AdjustWallet applies a guarded wallet mutation. Debits that would take
	// the balance below zero fail with ErrInsufficientBalance and leave the
	// document untouched.
	AdjustWallet(ctx context.Context, id string, delta WalletDelta) error
	// IncrementSkillSessions bumps the session counter on the named teaching
	// skill and the user's total session count.
	IncrementSkillSessions(ctx context.Context, id, skill string) error
	// ApplyReviewRating stores a recomputed overall rating and review count,
	// and mirrors the new average onto the named teaching skill.
	ApplyReviewRating(ctx context.Context, id, skill string, newAverage float64, reviewCount int) error
	// AppendNotification pushes an in-app notification onto the user document.
	AppendNotification(ctx context.Context, id string, n models.Notification) error
}

package wallet

import (
	"context"
	"errors"
	"fmt"

	"swapp/database"
	ledgerRepo "swapp/database/repository/ledger"
	userRepo "swapp/database/repository/user"
	"swapp/models"
	"swapp/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Sentinel errors surfaced to the HTTP layer.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrUnknownPackage  = errors.New("unknown coin package")
	ErrIntentNotPaid   = errors.New("payment has not succeeded")
	ErrIntentMismatch  = errors.New("payment intent does not belong to this user")
	ErrAlreadyCredited = errors.New("payment already credited")
)

const recentTransactionLimit = 50

// TopUpIntent is the response for an initiated coin purchase.
type TopUpIntent struct {
	PaymentIntentID string             `json:"paymentIntentId"`
	ClientSecret    string             `json:"clientSecret"`
	Package         models.CoinPackage `json:"package"`
}

// WalletService exposes the coin wallet: the balance summary with its ledger,
// and the package top-up flow.
type WalletService interface {
	GetWallet(ctx context.Context, userID string) (*models.WalletSummary, error)
	ListPackages() []models.CoinPackage
	CreateTopUp(ctx context.Context, userID, packageID string) (*TopUpIntent, error)
	ConfirmTopUp(ctx context.Context, userID, paymentIntentID string) (*models.WalletSummary, error)
}

// DefaultWalletService is the production implementation.
type DefaultWalletService struct {
	UserRepo   userRepo.UserRepository
	LedgerRepo ledgerRepo.CoinTransactionRepository
	Tx         database.TxRunner
	Payments   PaymentProvider
}

// GetWallet returns the balance, cumulative counters and recent ledger
// entries for a user.
func (s *DefaultWalletService) GetWallet(ctx context.Context, userID string) (*models.WalletSummary, error) {
	user, err := s.UserRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user %s: %w", userID, err)
	}

	txns, err := s.LedgerRepo.ListByUser(ctx, userID, recentTransactionLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ledger for user %s: %w", userID, err)
	}

	return &models.WalletSummary{
		Balance:         user.Wallet.Balance,
		PendingEarnings: user.Wallet.PendingEarnings,
		CoinsEarned:     user.Stats.CoinsEarned,
		CoinsSpent:      user.Stats.CoinsSpent,
		Transactions:    txns,
	}, nil
}

// CreateTopUp opens a payment intent for the chosen coin package. The coins
// are credited only once the payment succeeds and ConfirmTopUp is called.
func (s *DefaultWalletService) CreateTopUp(ctx context.Context, userID, packageID string) (*TopUpIntent, error) {
	pkg, ok := findPackage(packageID)
	if !ok {
		return nil, ErrUnknownPackage
	}
	if _, err := s.UserRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user %s: %w", userID, err)
	}

	info, err := s.Payments.CreateIntent(pkg.PriceCents, pkg.Currency, map[string]string{
		"userId":    userID,
		"packageId": pkg.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open payment intent: %w", err)
	}

	utils.GetLogger().Info("top-up initiated",
		zap.String("userID", userID),
		zap.String("packageID", pkg.ID),
		zap.String("paymentIntentID", info.ID))

	return &TopUpIntent{
		PaymentIntentID: info.ID,
		ClientSecret:    info.ClientSecret,
		Package:         pkg,
	}, nil
}

// ConfirmTopUp verifies the payment intent and credits the purchased coins.
// The ledger's unique payment-intent index makes repeated confirmations
// no-ops: the first write wins, later ones fail the insert and leave the
// balance alone.
func (s *DefaultWalletService) ConfirmTopUp(ctx context.Context, userID, paymentIntentID string) (*models.WalletSummary, error) {
	info, err := s.Payments.GetIntent(paymentIntentID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify payment intent: %w", err)
	}
	if info.Metadata["userId"] != userID {
		return nil, ErrIntentMismatch
	}
	if info.Status != "succeeded" {
		return nil, ErrIntentNotPaid
	}
	pkg, ok := findPackage(info.Metadata["packageId"])
	if !ok {
		return nil, ErrUnknownPackage
	}

	err = s.Tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.LedgerRepo.Create(txCtx, &models.CoinTransaction{
			ID:              uuid.New().String(),
			UserID:          userID,
			Type:            models.TxnTypePurchased,
			Amount:          pkg.Coins,
			Description:     "Coin purchase - " + pkg.Name,
			PaymentIntentID: paymentIntentID,
		}); err != nil {
			return err
		}
		return s.UserRepo.AdjustWallet(txCtx, userID, userRepo.WalletDelta{Balance: pkg.Coins})
	})
	if err != nil {
		if errors.Is(err, ledgerRepo.ErrDuplicateEntry) {
			return nil, ErrAlreadyCredited
		}
		return nil, fmt.Errorf("failed to credit top-up: %w", err)
	}

	utils.GetLogger().Info("top-up credited",
		zap.String("userID", userID),
		zap.String("packageID", pkg.ID),
		zap.Float64("coins", pkg.Coins))

	return s.GetWallet(ctx, userID)
}

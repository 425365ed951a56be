package wallet

import (
	"context"
	"fmt"
	"testing"
	"time"

	ledgerRepo "swapp/database/repository/ledger"
	userRepo "swapp/database/repository/user"
	"swapp/models"

	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"
)

type memUserRepo struct {
	users map[string]*models.User
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, userRepo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByIDWithProjection(ctx context.Context, id string, _ bson.M) (*models.User, error) {
	return r.GetByID(ctx, id)
}

func (r *memUserRepo) Create(_ context.Context, u *models.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *memUserRepo) Update(_ context.Context, u *models.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *memUserRepo) AdjustWallet(_ context.Context, id string, delta userRepo.WalletDelta) error {
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

func (r *memUserRepo) IncrementSkillSessions(context.Context, string, string) error { return nil }

func (r *memUserRepo) ApplyReviewRating(context.Context, string, string, float64, int) error {
	return nil
}

func (r *memUserRepo) AppendNotification(context.Context, string, models.Notification) error {
	return nil
}

// memLedgerRepo enforces the unique sparse payment-intent constraint the
// Mongo repository gets from its index.
type memLedgerRepo struct {
	entries []models.CoinTransaction
	intents map[string]bool
}

func (r *memLedgerRepo) Create(_ context.Context, txn *models.CoinTransaction) error {
	if txn.PaymentIntentID != "" {
		if r.intents[txn.PaymentIntentID] {
			return ledgerRepo.ErrDuplicateEntry
		}
		r.intents[txn.PaymentIntentID] = true
	}
	txn.CreatedAt = time.Now()
	r.entries = append(r.entries, *txn)
	return nil
}

func (r *memLedgerRepo) ListByUser(_ context.Context, userID string, limit int64) ([]models.CoinTransaction, error) {
	var out []models.CoinTransaction
	for i := len(r.entries) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		if r.entries[i].UserID == userID {
			out = append(out, r.entries[i])
		}
	}
	return out, nil
}

type passthroughTx struct{}

func (passthroughTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// memPayments hands out sequential intents and lets tests flip their status.
type memPayments struct {
	intents map[string]*PaymentIntentInfo
	serial  int
}

func (p *memPayments) CreateIntent(amountCents int64, _ string, metadata map[string]string) (*PaymentIntentInfo, error) {
	p.serial++
	info := &PaymentIntentInfo{
		ID:           fmt.Sprintf("pi_%03d", p.serial),
		ClientSecret: fmt.Sprintf("pi_%03d_secret", p.serial),
		Status:       "requires_payment_method",
		AmountCents:  amountCents,
		Metadata:     metadata,
	}
	p.intents[info.ID] = info
	return info, nil
}

func (p *memPayments) GetIntent(id string) (*PaymentIntentInfo, error) {
	info, ok := p.intents[id]
	if !ok {
		return nil, fmt.Errorf("no such payment intent %s", id)
	}
	return info, nil
}

func (p *memPayments) succeed(id string) {
	p.intents[id].Status = "succeeded"
}

type WalletServiceTestSuite struct {
	suite.Suite

	ctx      context.Context
	users    *memUserRepo
	ledger   *memLedgerRepo
	payments *memPayments
	svc      *DefaultWalletService
}

func TestWalletServiceTestSuite(t *testing.T) {
	suite.Run(t, new(WalletServiceTestSuite))
}

func (s *WalletServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.users = &memUserRepo{users: map[string]*models.User{
		"user-1": {
			ID:     "user-1",
			Name:   "Aisha",
			Role:   models.RoleLearner,
			Wallet: models.Wallet{Balance: 25},
			Stats:  models.UserStats{CoinsSpent: 75},
		},
	}}
	s.ledger = &memLedgerRepo{intents: make(map[string]bool)}
	s.payments = &memPayments{intents: make(map[string]*PaymentIntentInfo)}
	s.svc = &DefaultWalletService{
		UserRepo:   s.users,
		LedgerRepo: s.ledger,
		Tx:         passthroughTx{},
		Payments:   s.payments,
	}
}

func (s *WalletServiceTestSuite) TestGetWalletSummary() {
	s.Require().NoError(s.ledger.Create(s.ctx, &models.CoinTransaction{
		ID: "t1", UserID: "user-1", Type: models.TxnTypeSpent, Amount: -75,
	}))

	summary, err := s.svc.GetWallet(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(25.0, summary.Balance)
	s.Equal(75.0, summary.CoinsSpent)
	s.Require().Len(summary.Transactions, 1)
	s.Equal(-75.0, summary.Transactions[0].Amount)
}

func (s *WalletServiceTestSuite) TestGetWalletUnknownUser() {
	_, err := s.svc.GetWallet(s.ctx, "ghost")
	s.ErrorIs(err, ErrUserNotFound)
}

func (s *WalletServiceTestSuite) TestListPackagesIsStable() {
	pkgs := s.svc.ListPackages()
	s.Require().NotEmpty(pkgs)
	pkgs[0].Coins = 0

	again := s.svc.ListPackages()
	s.NotZero(again[0].Coins)
}

func (s *WalletServiceTestSuite) TestCreateTopUpStampsMetadata() {
	intent, err := s.svc.CreateTopUp(s.ctx, "user-1", "popular")
	s.Require().NoError(err)
	s.Equal("popular", intent.Package.ID)
	s.NotEmpty(intent.ClientSecret)

	info, _ := s.payments.GetIntent(intent.PaymentIntentID)
	s.Equal("user-1", info.Metadata["userId"])
	s.Equal("popular", info.Metadata["packageId"])
	s.Equal(int64(999), info.AmountCents)
}

func (s *WalletServiceTestSuite) TestCreateTopUpUnknownPackage() {
	_, err := s.svc.CreateTopUp(s.ctx, "user-1", "mega")
	s.ErrorIs(err, ErrUnknownPackage)
}

func (s *WalletServiceTestSuite) TestConfirmTopUpCreditsCoins() {
	intent, err := s.svc.CreateTopUp(s.ctx, "user-1", "popular")
	s.Require().NoError(err)
	s.payments.succeed(intent.PaymentIntentID)

	summary, err := s.svc.ConfirmTopUp(s.ctx, "user-1", intent.PaymentIntentID)
	s.Require().NoError(err)
	s.Equal(275.0, summary.Balance)
	s.Require().Len(summary.Transactions, 1)
	s.Equal(models.TxnTypePurchased, summary.Transactions[0].Type)
	s.Equal(250.0, summary.Transactions[0].Amount)
}

func (s *WalletServiceTestSuite) TestConfirmTopUpIsIdempotent() {
	intent, err := s.svc.CreateTopUp(s.ctx, "user-1", "starter")
	s.Require().NoError(err)
	s.payments.succeed(intent.PaymentIntentID)

	_, err = s.svc.ConfirmTopUp(s.ctx, "user-1", intent.PaymentIntentID)
	s.Require().NoError(err)

	_, err = s.svc.ConfirmTopUp(s.ctx, "user-1", intent.PaymentIntentID)
	s.ErrorIs(err, ErrAlreadyCredited)

	user, _ := s.users.GetByID(s.ctx, "user-1")
	s.Equal(125.0, user.Wallet.Balance)
	s.Len(s.ledger.entries, 1)
}

func (s *WalletServiceTestSuite) TestConfirmTopUpRejectsUnpaidIntent() {
	intent, err := s.svc.CreateTopUp(s.ctx, "user-1", "starter")
	s.Require().NoError(err)

	_, err = s.svc.ConfirmTopUp(s.ctx, "user-1", intent.PaymentIntentID)
	s.ErrorIs(err, ErrIntentNotPaid)

	user, _ := s.users.GetByID(s.ctx, "user-1")
	s.Equal(25.0, user.Wallet.Balance)
}

func (s *WalletServiceTestSuite) TestConfirmTopUpRejectsForeignIntent() {
	intent, err := s.svc.CreateTopUp(s.ctx, "user-1", "starter")
	s.Require().NoError(err)
	s.payments.succeed(intent.PaymentIntentID)

	_, err = s.svc.ConfirmTopUp(s.ctx, "someone-else", intent.PaymentIntentID)
	s.ErrorIs(err, ErrIntentMismatch)
}

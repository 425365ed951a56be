package models

import "time"

// Coin transaction types as shown on the wallet ledger.
const (
	TxnTypeSpent     = "spent"     // debit at booking creation
	TxnTypeEarned    = "earned"    // credit to the teacher at completion
	TxnTypeRefund    = "refund"    // credit back to the student on cancellation
	TxnTypePurchased = "purchased" // coin package top-up
)

// CoinTransaction is one entry in a user's coin ledger. Entries are written
// in the same database transaction as the wallet mutation they record, so the
// ledger and the balance cannot drift apart.
type CoinTransaction struct {
	ID          string  `bson:"id" json:"id"`
	UserID      string  `bson:"user_id" json:"userId"`
	Type        string  `bson:"type" json:"type"`
	Amount      float64 `bson:"amount" json:"amount"` // signed: negative for debits
	Description string  `bson:"description" json:"description"`
	BookingID   string  `bson:"booking_id,omitempty" json:"bookingId,omitempty"`
	// PaymentIntentID is set for top-ups only. A unique sparse index on this
	// field makes duplicate top-up confirmations no-ops.
	PaymentIntentID string    `bson:"payment_intent_id,omitempty" json:"paymentIntentId,omitempty"`
	CreatedAt       time.Time `bson:"created_at" json:"createdAt"`
}

// CoinPackage is a purchasable bundle of coins.
type CoinPackage struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Coins      float64 `json:"coins"`
	PriceCents int64   `json:"priceCents"`
	Currency   string  `json:"currency"`
}

// WalletSummary is the response for a wallet lookup.
type WalletSummary struct {
	Balance         float64           `json:"balance"`
	PendingEarnings float64           `json:"pendingEarnings"`
	CoinsEarned     float64           `json:"coinsEarned"`
	CoinsSpent      float64           `json:"coinsSpent"`
	Transactions    []CoinTransaction `json:"transactions"`
}

package wallet

import (
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

// PaymentIntentInfo is the slice of a payment intent the wallet service
// needs: its identity, its outcome, and the metadata stamped at creation.
type PaymentIntentInfo struct {
	ID           string
	ClientSecret string
	Status       string
	AmountCents  int64
	Metadata     map[string]string
}

// PaymentProvider abstracts the card-payment backend behind the coin top-up
// flow.
type PaymentProvider interface {
	CreateIntent(amountCents int64, currency string, metadata map[string]string) (*PaymentIntentInfo, error)
	GetIntent(id string) (*PaymentIntentInfo, error)
}

// StripeProvider implements PaymentProvider with Stripe payment intents.
// stripe.Key is set once at startup from the app config.
type StripeProvider struct{}

func (StripeProvider) CreateIntent(amountCents int64, currency string, metadata map[string]string) (*PaymentIntentInfo, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(currency),
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}
	return intentInfo(pi), nil
}

func (StripeProvider) GetIntent(id string) (*PaymentIntentInfo, error) {
	pi, err := paymentintent.Get(id, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve payment intent %s: %w", id, err)
	}
	return intentInfo(pi), nil
}

func intentInfo(pi *stripe.PaymentIntent) *PaymentIntentInfo {
	return &PaymentIntentInfo{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
		AmountCents:  pi.Amount,
		Metadata:     pi.Metadata,
	}
}

package payments

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v84"
	checkoutsession "github.com/stripe/stripe-go/v84/checkout/session"

	"github.com/kisansetu/kisansetu-backend/pkg/config"
)

// SessionState is what the provider reports about a hosted checkout session.
type SessionState struct {
	SessionID string
	Paid      bool
}

// CheckoutProvider abstracts the hosted checkout operations the payment
// workflow needs, so the service can be tested against a stub.
type CheckoutProvider interface {
	CreateSession(ctx context.Context, input CreateSessionInput) (*CheckoutSessionDTO, error)
	GetSession(ctx context.Context, sessionID string) (*SessionState, error)
}

// CreateSessionInput carries the order snapshot needed to build a session.
type CreateSessionInput struct {
	OrderID     string
	Description string
	AmountMinor int64
	Currency    string
}

type stripeProvider struct {
	checkoutCfg config.CheckoutConfig
	sessions    *checkoutsession.Client
}

// NewStripeProvider wraps the Stripe checkout session API with an explicit
// key, so the provider does not lean on the stripe.Key package global.
func NewStripeProvider(checkoutCfg config.CheckoutConfig, apiKey string) CheckoutProvider {
	return &stripeProvider{
		checkoutCfg: checkoutCfg,
		sessions: &checkoutsession.Client{
			B:   stripe.GetBackend(stripe.APIBackend),
			Key: apiKey,
		},
	}
}

func (p *stripeProvider) CreateSession(ctx context.Context, input CreateSessionInput) (*CheckoutSessionDTO, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(input.Currency),
					UnitAmount: stripe.Int64(input.AmountMinor),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(input.Description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(fmt.Sprintf(
			"%s/payment/success?session_id={CHECKOUT_SESSION_ID}&order_id=%s",
			p.checkoutCfg.ClientURL, input.OrderID,
		)),
		CancelURL: stripe.String(fmt.Sprintf(
			"%s/payment/cancel?order_id=%s",
			p.checkoutCfg.ClientURL, input.OrderID,
		)),
		ClientReferenceID: stripe.String(input.OrderID),
	}
	params.Context = ctx

	sess, err := p.sessions.New(params)
	if err != nil {
		return nil, err
	}
	return &CheckoutSessionDTO{
		SessionID:   sess.ID,
		CheckoutURL: sess.URL,
		Currency:    input.Currency,
	}, nil
}

func (p *stripeProvider) GetSession(ctx context.Context, sessionID string) (*SessionState, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := p.sessions.Get(sessionID, params)
	if err != nil {
		return nil, err
	}
	return &SessionState{
		SessionID: sess.ID,
		Paid:      sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
	}, nil
}

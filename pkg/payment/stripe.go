package payment

import (
	"fmt"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/checkout/session"
)

type StripeService struct {
	secretKey   string
	frontendURL string
}

func NewStripeService(secretKey, frontendURL string) *StripeService {
	stripe.Key = secretKey
	return &StripeService{
		secretKey:   secretKey,
		frontendURL: frontendURL,
	}
}

// CreateNoteCheckoutSession opens a one-time payment session for a note.
// Amounts are in cents; metadata carries everything the webhook reconciler
// needs so it never has to re-read the (possibly changed) note price.
func (s *StripeService) CreateNoteCheckoutSession(amountCents int64, noteTitle string, metadata map[string]string) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(string(stripe.CurrencyUSD)),
					UnitAmount: stripe.Int64(amountCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(noteTitle),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(fmt.Sprintf("%s/payment/success?session_id={CHECKOUT_SESSION_ID}", s.frontendURL)),
		CancelURL:  stripe.String(fmt.Sprintf("%s/payment/cancel", s.frontendURL)),
	}

	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	return session.New(params)
}

// CreateSubscriptionSession opens a subscription-mode session for a
// pre-configured Stripe price.
func (s *StripeService) CreateSubscriptionSession(priceID string, metadata map[string]string) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(fmt.Sprintf("%s/subscription/success?session_id={CHECKOUT_SESSION_ID}", s.frontendURL)),
		CancelURL:  stripe.String(fmt.Sprintf("%s/subscription/cancel", s.frontendURL)),
	}

	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	return session.New(params)
}

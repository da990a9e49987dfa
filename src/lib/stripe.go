package lib

import (
	"context"
	"os"

	"github.com/stripe/stripe-go/v82"
)

var stripeClient *stripe.Client

func GetStripeClient() *stripe.Client {
	if stripeClient != nil {
		return stripeClient
	}
	apiKey := os.Getenv("STRIPE_SECRET_KEY")
	sc := stripe.NewClient(apiKey)
	stripeClient = sc

	return sc
}

func NewStripeClient(c *stripe.Client) {
	stripeClient = c
}

// CreatePaymentIntent opens an intent for the reservation total. Amount is in
// major currency units and converted to cents for Stripe.
func CreatePaymentIntent(ctx context.Context, amount float64, currency string, metadata map[string]string) (*stripe.PaymentIntent, error) {
	sc := GetStripeClient()
	params := &stripe.PaymentIntentCreateParams{
		Amount:   stripe.Int64(int64(amount * 100)),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentCreateAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}
	return sc.V1PaymentIntents.Create(ctx, params)
}

func ConfirmPaymentIntent(ctx context.Context, intentID string) (*stripe.PaymentIntent, error) {
	sc := GetStripeClient()
	return sc.V1PaymentIntents.Confirm(ctx, intentID, &stripe.PaymentIntentConfirmParams{})
}

// CreateRefund refunds a succeeded intent, partially when amount is non-nil.
func CreateRefund(ctx context.Context, intentID string, amount *float64) (*stripe.Refund, error) {
	sc := GetStripeClient()
	params := &stripe.RefundCreateParams{
		PaymentIntent: stripe.String(intentID),
	}
	if amount != nil {
		params.Amount = stripe.Int64(int64(*amount * 100))
	}
	return sc.V1Refunds.Create(ctx, params)
}

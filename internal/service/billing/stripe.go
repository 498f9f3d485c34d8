package billing

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"

	applog "github.com/janisto/firebase-boilerplate/internal/platform/logging"
)

// StripeService implements Service with the Stripe API.
type StripeService struct {
	api           *client.API
	webhookSecret string
}

// NewStripeService creates a Stripe-backed billing service.
func NewStripeService(api *client.API, webhookSecret string) *StripeService {
	return &StripeService{api: api, webhookSecret: webhookSecret}
}

func (s *StripeService) EnsureCustomer(ctx context.Context, userID, email string) (string, error) {
	params := &stripe.CustomerParams{}
	params.Context = ctx
	if email != "" {
		params.Email = stripe.String(email)
	}
	params.AddMetadata("userId", userID)

	c, err := s.api.Customers.New(params)
	if err != nil {
		applog.ComponentLogger(ctx, "billing").Error("failed to create stripe customer",
			zap.String("userId", userID), zap.Error(err))
		return "", fmt.Errorf("create customer: %w", err)
	}

	applog.ComponentLogger(ctx, "billing").Info("stripe customer created",
		zap.String("userId", userID), zap.String("stripeCustomerId", c.ID))
	return c.ID, nil
}

func (s *StripeService) ParseWebhook(payload []byte, signature string) (Event, error) {
	// Stripe API versions are backwards compatible for the fields read here.
	ev, err := webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return Event{}, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}

	out := Event{ID: ev.ID, Type: string(ev.Type)}
	if !out.IsSubscriptionEvent() {
		return out, nil
	}

	var sub stripe.Subscription
	if ev.Data == nil {
		return Event{}, ErrInvalidPayload
	}
	if err := json.Unmarshal(ev.Data.Raw, &sub); err != nil {
		return Event{}, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	out.SubscriptionID = sub.ID
	out.Status = string(sub.Status)
	if sub.Customer != nil {
		out.CustomerID = sub.Customer.ID
	}
	return out, nil
}

// Compile-time interface check
var _ Service = (*StripeService)(nil)

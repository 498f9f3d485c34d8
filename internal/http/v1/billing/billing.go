package billing

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"github.com/janisto/firebase-boilerplate/internal/actions"
	"github.com/janisto/firebase-boilerplate/internal/api"
	profilehttp "github.com/janisto/firebase-boilerplate/internal/http/v1/profile"
	"github.com/janisto/firebase-boilerplate/internal/platform/auth"
	applog "github.com/janisto/firebase-boilerplate/internal/platform/logging"
	billingsvc "github.com/janisto/firebase-boilerplate/internal/service/billing"
	profilesvc "github.com/janisto/firebase-boilerplate/internal/service/profile"
)

// Result messages.
const (
	MsgCustomerReady  = "Stripe customer ready"
	MsgCustomerFailed = "Failed to create Stripe customer"
)

// Customer is the billing identity of the authenticated user.
type Customer struct {
	StripeCustomerID string `json:"stripeCustomerId" doc:"Stripe customer ID" example:"cus_123"`
}

// CustomerInput for POST /billing/customer (no body needed)
type CustomerInput struct{}

// CustomerOutput for POST /billing/customer
type CustomerOutput struct {
	Body api.ActionState[Customer]
}

// WebhookInput for POST /webhooks/stripe
type WebhookInput struct {
	Signature string `header:"Stripe-Signature" required:"true" doc:"Stripe webhook signature"`
	RawBody   []byte
}

// WebhookOutput acknowledges a webhook delivery.
type WebhookOutput struct {
	Body struct {
		Received bool `json:"received" doc:"Delivery acknowledged" example:"true"`
	}
}

// Register registers billing endpoints.
func Register(humaAPI huma.API, profiles *actions.Profiles, svc billingsvc.Service) {
	huma.Register(humaAPI, huma.Operation{
		OperationID: "ensure-billing-customer",
		Method:      http.MethodPost,
		Path:        "/billing/customer",
		Summary:     "Ensure Stripe customer",
		Description: "Creates a Stripe customer for the authenticated user unless the profile already has one.",
		Tags:        []string{"Billing"},
		Security:    []map[string][]string{{"bearerAuth": {}}},
	}, func(ctx context.Context, _ *CustomerInput) (*CustomerOutput, error) {
		user := auth.UserFromContext(ctx)

		current := profiles.GetProfileByUserID(ctx, user.UID)
		if !current.IsSuccess {
			return nil, profilehttp.ProblemFor(current.Reason, current.Message)
		}
		if id := current.Data.StripeCustomerID; id != "" {
			return &CustomerOutput{Body: api.Success(MsgCustomerReady, Customer{StripeCustomerID: id})}, nil
		}

		email := current.Data.Email
		if email == "" {
			email = user.Email
		}
		customerID, err := svc.EnsureCustomer(ctx, user.UID, email)
		if err != nil {
			return nil, huma.Error502BadGateway(MsgCustomerFailed)
		}

		updated := profiles.UpdateProfile(ctx, user.UID, profilesvc.UpdateParams{StripeCustomerID: &customerID})
		if !updated.IsSuccess {
			return nil, profilehttp.ProblemFor(updated.Reason, updated.Message)
		}
		return &CustomerOutput{Body: api.Success(MsgCustomerReady, Customer{StripeCustomerID: customerID})}, nil
	})

	huma.Register(humaAPI, huma.Operation{
		OperationID: "stripe-webhook",
		Method:      http.MethodPost,
		Path:        "/webhooks/stripe",
		Summary:     "Receive Stripe webhook",
		Description: "Verifies the Stripe signature and applies subscription changes to the linked profile.",
		Tags:        []string{"Billing"},
	}, func(ctx context.Context, input *WebhookInput) (*WebhookOutput, error) {
		ev, err := svc.ParseWebhook(input.RawBody, input.Signature)
		if err != nil {
			applog.LogWarn(ctx, "stripe webhook rejected", zap.Error(err))
			if errors.Is(err, billingsvc.ErrInvalidPayload) {
				return nil, huma.Error400BadRequest("invalid webhook payload")
			}
			return nil, huma.Error400BadRequest("invalid webhook signature")
		}

		log := applog.ComponentLogger(ctx, "billing").With(
			zap.String("eventId", ev.ID),
			zap.String("eventType", ev.Type),
		)
		out := &WebhookOutput{}
		out.Body.Received = true

		params, ok := ev.ProfileUpdate()
		if !ok {
			log.Info("stripe webhook ignored")
			return out, nil
		}

		state := profiles.UpdateProfileByStripeCustomerID(ctx, ev.CustomerID, params, ev.Precondition())
		switch {
		case state.IsSuccess:
			log.Info("subscription applied to profile",
				zap.String("userId", state.Data.UserID),
				zap.String("membership", state.Data.Membership))
		case state.Reason == api.ReasonNotFound:
			// Acknowledge so Stripe does not retry events for unknown customers.
			log.Warn("stripe webhook for unknown customer", zap.String("stripeCustomerId", ev.CustomerID))
		case state.Reason == api.ReasonConflict:
			log.Info("stripe webhook for superseded subscription ignored",
				zap.String("stripeSubscriptionId", ev.SubscriptionID))
		default:
			return nil, huma.Error500InternalServerError(state.Message)
		}
		return out, nil
	})
}

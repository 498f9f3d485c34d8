package billing

import (
	"context"
	"errors"

	profilesvc "github.com/janisto/firebase-boilerplate/internal/service/profile"
)

// Service errors
var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrInvalidPayload   = errors.New("invalid webhook payload")
)

// Subscription event types that affect a profile.
const (
	EventSubscriptionCreated = "customer.subscription.created"
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"
)

// Event is the verified subset of a Stripe webhook event.
type Event struct {
	ID             string
	Type           string
	CustomerID     string
	SubscriptionID string
	Status         string
}

// IsSubscriptionEvent reports whether e changes a customer's subscription.
func (e Event) IsSubscriptionEvent() bool {
	switch e.Type {
	case EventSubscriptionCreated, EventSubscriptionUpdated, EventSubscriptionDeleted:
		return true
	default:
		return false
	}
}

// ProfileUpdate returns the profile changes implied by a subscription event.
// The second result is false for events that do not touch profiles.
func (e Event) ProfileUpdate() (profilesvc.UpdateParams, bool) {
	if !e.IsSubscriptionEvent() || e.CustomerID == "" {
		return profilesvc.UpdateParams{}, false
	}

	membership := MembershipForStatus(e.Status)
	subscriptionID := e.SubscriptionID
	if e.Type == EventSubscriptionDeleted {
		membership = profilesvc.MembershipFree
		subscriptionID = ""
	}
	return profilesvc.UpdateParams{
		Membership:           &membership,
		StripeSubscriptionID: &subscriptionID,
	}, true
}

// Precondition guards the profile update of a downgrading event: it only
// applies while the profile is on the event's subscription or on none.
// Upgrades always apply since a new subscription supersedes the old one.
func (e Event) Precondition() profilesvc.Precondition {
	return func(p profilesvc.Profile) bool {
		if e.Type != EventSubscriptionDeleted && MembershipForStatus(e.Status) == profilesvc.MembershipPro {
			return true
		}
		return p.StripeSubscriptionID == "" || p.StripeSubscriptionID == e.SubscriptionID
	}
}

// MembershipForStatus maps a Stripe subscription status to a membership level.
func MembershipForStatus(status string) string {
	switch status {
	case "active", "trialing":
		return profilesvc.MembershipPro
	default:
		return profilesvc.MembershipFree
	}
}

// Service defines billing operations.
type Service interface {
	// EnsureCustomer creates a Stripe customer for userID and returns its ID.
	EnsureCustomer(ctx context.Context, userID, email string) (string, error)
	// ParseWebhook verifies signature against payload and decodes the event.
	ParseWebhook(payload []byte, signature string) (Event, error)
}

package profile

import (
	"github.com/janisto/firebase-boilerplate/internal/platform/timeutil"
	profilesvc "github.com/janisto/firebase-boilerplate/internal/service/profile"
)

// Profile is the profile representation returned to clients.
type Profile struct {
	ID                   string        `json:"id"                             doc:"Document identifier"       example:"Xk3f9QpL2mN7"`
	UserID               string        `json:"userId"                         doc:"Owning user ID"            example:"u1"`
	Name                 string        `json:"name"                           doc:"Display name"              example:"Alice"`
	Email                string        `json:"email,omitempty"                doc:"Email address"             example:"alice@example.com"`
	PhoneNumber          string        `json:"phoneNumber,omitempty"          doc:"Phone number (E.164)"      example:"+358401234567"`
	Marketing            bool          `json:"marketing"                      doc:"Marketing opt-in"          example:"true"`
	Membership           string        `json:"membership"                     doc:"Membership level"          example:"free"  enum:"free,pro"`
	StripeCustomerID     string        `json:"stripeCustomerId,omitempty"     doc:"Stripe customer ID"        example:"cus_123"`
	StripeSubscriptionID string        `json:"stripeSubscriptionId,omitempty" doc:"Stripe subscription ID"    example:"sub_456"`
	CreatedAt            timeutil.Time `json:"createdAt"                      doc:"Creation timestamp"        example:"2024-01-15T10:30:00.000Z"`
	UpdatedAt            timeutil.Time `json:"updatedAt"                      doc:"Last update timestamp"     example:"2024-01-15T10:30:00.000Z"`
}

func toHTTPProfile(p profilesvc.Profile) Profile {
	return Profile{
		ID:                   p.ID,
		UserID:               p.UserID,
		Name:                 p.Name,
		Email:                p.Email,
		PhoneNumber:          p.PhoneNumber,
		Marketing:            p.Marketing,
		Membership:           p.Membership,
		StripeCustomerID:     p.StripeCustomerID,
		StripeSubscriptionID: p.StripeSubscriptionID,
		CreatedAt:            timeutil.Time{Time: p.CreatedAt},
		UpdatedAt:            timeutil.Time{Time: p.UpdatedAt},
	}
}

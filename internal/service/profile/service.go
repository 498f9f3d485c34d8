package profile

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Service errors
var (
	ErrNotFound      = errors.New("profile not found")
	ErrAlreadyExists = errors.New("profile already exists")
	ErrInvalidInput  = errors.New("invalid profile input")
	ErrPrecondition  = errors.New("profile precondition not met")
)

// Precondition guards an update against the profile's current state. The
// update is skipped with ErrPrecondition when it returns false.
type Precondition func(current Profile) bool

// Membership levels.
const (
	MembershipFree = "free"
	MembershipPro  = "pro"
)

// Profile represents stored profile data.
//
// ID is the document identifier assigned on creation; UserID is the
// identity provider subject and the key every lookup uses.
type Profile struct {
	ID                   string
	UserID               string
	Name                 string
	Email                string
	PhoneNumber          string
	Marketing            bool
	Membership           string
	StripeCustomerID     string
	StripeSubscriptionID string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// CreateParams for creating a profile.
type CreateParams struct {
	UserID               string
	Name                 string
	Email                string
	PhoneNumber          string
	Marketing            bool
	Membership           string
	StripeCustomerID     string
	StripeSubscriptionID string
}

// UpdateParams for updating a profile. Nil fields are left unchanged.
type UpdateParams struct {
	Name                 *string
	Email                *string
	PhoneNumber          *string
	Marketing            *bool
	Membership           *string
	StripeCustomerID     *string
	StripeSubscriptionID *string
}

// IsEmpty reports whether no field is set.
func (p UpdateParams) IsEmpty() bool {
	return p.Name == nil &&
		p.Email == nil &&
		p.PhoneNumber == nil &&
		p.Marketing == nil &&
		p.Membership == nil &&
		p.StripeCustomerID == nil &&
		p.StripeSubscriptionID == nil
}

// Service defines profile operations. Profiles are always addressed by a
// secondary key, never by document ID.
//
// Implementations must normalize input data:
//   - Name and PhoneNumber: trim whitespace
//   - Email: lowercase and trim whitespace
//   - Membership: defaults to MembershipFree on create
//
// UserID is an opaque key stored and matched verbatim.
type Service interface {
	Create(ctx context.Context, params CreateParams) (*Profile, error)
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
	UpdateByUserID(ctx context.Context, userID string, params UpdateParams) (*Profile, error)
	// UpdateByStripeCustomerID checks every precondition against the stored
	// profile and writes nothing unless all of them hold.
	UpdateByStripeCustomerID(
		ctx context.Context,
		stripeCustomerID string,
		params UpdateParams,
		conds ...Precondition,
	) (*Profile, error)
	// DeleteByUserID reports whether a profile existed. A missing profile is not an error.
	DeleteByUserID(ctx context.Context, userID string) (bool, error)
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func normalizeCreate(params CreateParams) (CreateParams, error) {
	if strings.TrimSpace(params.UserID) == "" {
		return params, ErrInvalidInput
	}
	params.Name = strings.TrimSpace(params.Name)
	params.Email = normalizeEmail(params.Email)
	params.PhoneNumber = strings.TrimSpace(params.PhoneNumber)
	if params.Membership == "" {
		params.Membership = MembershipFree
	}
	return params, nil
}

func normalizeUpdate(params UpdateParams) UpdateParams {
	if params.Name != nil {
		v := strings.TrimSpace(*params.Name)
		params.Name = &v
	}
	if params.Email != nil {
		v := normalizeEmail(*params.Email)
		params.Email = &v
	}
	if params.PhoneNumber != nil {
		v := strings.TrimSpace(*params.PhoneNumber)
		params.PhoneNumber = &v
	}
	return params
}

func satisfies(p Profile, conds []Precondition) bool {
	for _, cond := range conds {
		if !cond(p) {
			return false
		}
	}
	return true
}

// applyUpdate copies set fields of params onto p.
func applyUpdate(p *Profile, params UpdateParams) {
	if params.Name != nil {
		p.Name = *params.Name
	}
	if params.Email != nil {
		p.Email = *params.Email
	}
	if params.PhoneNumber != nil {
		p.PhoneNumber = *params.PhoneNumber
	}
	if params.Marketing != nil {
		p.Marketing = *params.Marketing
	}
	if params.Membership != nil {
		p.Membership = *params.Membership
	}
	if params.StripeCustomerID != nil {
		p.StripeCustomerID = *params.StripeCustomerID
	}
	if params.StripeSubscriptionID != nil {
		p.StripeSubscriptionID = *params.StripeSubscriptionID
	}
}

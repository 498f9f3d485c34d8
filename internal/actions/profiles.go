// Package actions exposes the profile operations as result-returning
// actions. Every failure is logged and reported through the envelope;
// nothing is returned as a Go error.
package actions

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/janisto/firebase-boilerplate/internal/api"
	applog "github.com/janisto/firebase-boilerplate/internal/platform/logging"
	profilesvc "github.com/janisto/firebase-boilerplate/internal/service/profile"
)

// Action result messages.
const (
	MsgCreated       = "Profile created successfully"
	MsgCreateFailed  = "Failed to create profile"
	MsgAlreadyExists = "Profile already exists"

	MsgRetrieved = "Profile retrieved successfully"
	MsgNotFound  = "Profile not found"
	MsgGetFailed = "Failed to get profile"

	MsgUpdated          = "Profile updated successfully"
	MsgUpdateNotFound   = "Profile not found to update"
	MsgUpdateFailed     = "Failed to update profile"
	MsgStripeUpdated    = "Profile updated by Stripe customer ID successfully"
	MsgStripeNotFound   = "Profile not found by Stripe customer ID"
	MsgStripeUpdateFail = "Failed to update profile by Stripe customer ID"
	MsgStripeSkipped    = "Profile no longer matches the Stripe update"

	MsgDeleted      = "Profile deleted successfully"
	MsgDeleteFailed = "Failed to delete profile"
)

const component = "profiles"

// ProfileState is the envelope returned by profile actions.
type ProfileState = api.ActionState[profilesvc.Profile]

// Profiles runs profile actions against a profile.Service.
type Profiles struct {
	svc profilesvc.Service
}

// NewProfiles creates the profile actions.
func NewProfiles(svc profilesvc.Service) *Profiles {
	return &Profiles{svc: svc}
}

// CreateProfile stores a new profile for params.UserID.
func (a *Profiles) CreateProfile(ctx context.Context, params profilesvc.CreateParams) ProfileState {
	log := applog.ComponentLogger(ctx, component).With(zap.String("userId", params.UserID))
	log.Info("creating profile")

	p, err := a.svc.Create(ctx, params)
	switch {
	case err == nil:
		log.Info("profile created", zap.String("profileId", p.ID))
		return api.Success(MsgCreated, *p)
	case errors.Is(err, profilesvc.ErrAlreadyExists):
		log.Warn("profile already exists")
		return api.Failure[profilesvc.Profile](api.ReasonConflict, MsgAlreadyExists)
	default:
		log.Error("error creating profile", zap.Error(err))
		return api.Failure[profilesvc.Profile](reasonFor(err), MsgCreateFailed)
	}
}

// GetProfileByUserID returns the profile whose userId matches.
func (a *Profiles) GetProfileByUserID(ctx context.Context, userID string) ProfileState {
	log := applog.ComponentLogger(ctx, component).With(zap.String("userId", userID))
	log.Info("fetching profile")

	p, err := a.svc.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		return api.Success(MsgRetrieved, *p)
	case errors.Is(err, profilesvc.ErrNotFound):
		log.Info("no profile found")
		return api.Failure[profilesvc.Profile](api.ReasonNotFound, MsgNotFound)
	default:
		log.Error("error getting profile", zap.Error(err))
		return api.Failure[profilesvc.Profile](reasonFor(err), MsgGetFailed)
	}
}

// UpdateProfile merges params into the profile whose userId matches.
func (a *Profiles) UpdateProfile(ctx context.Context, userID string, params profilesvc.UpdateParams) ProfileState {
	log := applog.ComponentLogger(ctx, component).With(zap.String("userId", userID))
	log.Info("updating profile")

	p, err := a.svc.UpdateByUserID(ctx, userID, params)
	switch {
	case err == nil:
		log.Info("profile updated", zap.String("profileId", p.ID))
		return api.Success(MsgUpdated, *p)
	case errors.Is(err, profilesvc.ErrNotFound):
		log.Info("no profile found to update")
		return api.Failure[profilesvc.Profile](api.ReasonNotFound, MsgUpdateNotFound)
	default:
		log.Error("error updating profile", zap.Error(err))
		return api.Failure[profilesvc.Profile](reasonFor(err), MsgUpdateFailed)
	}
}

// UpdateProfileByStripeCustomerID merges params into the profile linked to
// the given Stripe customer. When a precondition rejects the stored profile
// nothing is written and the result carries ReasonConflict.
func (a *Profiles) UpdateProfileByStripeCustomerID(
	ctx context.Context,
	stripeCustomerID string,
	params profilesvc.UpdateParams,
	conds ...profilesvc.Precondition,
) ProfileState {
	log := applog.ComponentLogger(ctx, component).With(zap.String("stripeCustomerId", stripeCustomerID))
	log.Info("updating profile by Stripe customer ID")

	p, err := a.svc.UpdateByStripeCustomerID(ctx, stripeCustomerID, params, conds...)
	switch {
	case err == nil:
		log.Info("profile updated", zap.String("profileId", p.ID), zap.String("userId", p.UserID))
		return api.Success(MsgStripeUpdated, *p)
	case errors.Is(err, profilesvc.ErrNotFound):
		log.Info("no profile found for Stripe customer")
		return api.Failure[profilesvc.Profile](api.ReasonNotFound, MsgStripeNotFound)
	case errors.Is(err, profilesvc.ErrPrecondition):
		log.Info("profile update skipped by precondition")
		return api.Failure[profilesvc.Profile](api.ReasonConflict, MsgStripeSkipped)
	default:
		log.Error("error updating profile by Stripe customer ID", zap.Error(err))
		return api.Failure[profilesvc.Profile](reasonFor(err), MsgStripeUpdateFail)
	}
}

// DeleteProfile removes the profile whose userId matches. Deleting a
// profile that does not exist succeeds.
func (a *Profiles) DeleteProfile(ctx context.Context, userID string) api.ActionState[api.NoData] {
	log := applog.ComponentLogger(ctx, component).With(zap.String("userId", userID))
	log.Info("deleting profile")

	deleted, err := a.svc.DeleteByUserID(ctx, userID)
	if err != nil {
		log.Error("error deleting profile", zap.Error(err))
		return api.Failure[api.NoData](reasonFor(err), MsgDeleteFailed)
	}
	if !deleted {
		log.Info("no profile found to delete")
	}
	return api.SuccessEmpty[api.NoData](MsgDeleted)
}

func reasonFor(err error) api.FailureReason {
	switch {
	case errors.Is(err, profilesvc.ErrNotFound):
		return api.ReasonNotFound
	case errors.Is(err, profilesvc.ErrAlreadyExists), errors.Is(err, profilesvc.ErrPrecondition):
		return api.ReasonConflict
	case errors.Is(err, profilesvc.ErrInvalidInput):
		return api.ReasonInvalid
	default:
		return api.ReasonInternal
	}
}

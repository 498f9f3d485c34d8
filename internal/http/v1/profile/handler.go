package profile

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/firebase-boilerplate/internal/actions"
	"github.com/janisto/firebase-boilerplate/internal/api"
	"github.com/janisto/firebase-boilerplate/internal/platform/auth"
	profilesvc "github.com/janisto/firebase-boilerplate/internal/service/profile"
)

var bearerAuth = []map[string][]string{{"bearerAuth": {}}}

// Register registers profile endpoints. prefix is the API base path used
// for the Location header.
func Register(humaAPI huma.API, profiles *actions.Profiles, prefix string) {
	huma.Register(humaAPI, huma.Operation{
		OperationID:   "create-profile",
		Method:        http.MethodPost,
		Path:          "/profile",
		Summary:       "Create user profile",
		Description:   "Creates the profile of the authenticated user. A user has at most one profile.",
		Tags:          []string{"Profile"},
		DefaultStatus: http.StatusCreated,
		Security:      bearerAuth,
	}, func(ctx context.Context, input *ProfileCreateInput) (*ProfileCreateOutput, error) {
		user := auth.UserFromContext(ctx)

		state := profiles.CreateProfile(ctx, profilesvc.CreateParams{
			UserID:      user.UID,
			Name:        input.Body.Name,
			Email:       emailOrDefault(input.Body.Email, user),
			PhoneNumber: input.Body.PhoneNumber,
			Marketing:   input.Body.Marketing,
		})
		body, err := envelope(state)
		if err != nil {
			return nil, err
		}
		return &ProfileCreateOutput{Location: prefix + "/profile", Body: body}, nil
	})

	huma.Register(humaAPI, huma.Operation{
		OperationID: "get-profile",
		Method:      http.MethodGet,
		Path:        "/profile",
		Summary:     "Get current user's profile",
		Description: "Retrieves the profile of the authenticated user.",
		Tags:        []string{"Profile"},
		Security:    bearerAuth,
	}, func(ctx context.Context, _ *ProfileGetInput) (*ProfileOutput, error) {
		user := auth.UserFromContext(ctx)

		body, err := envelope(profiles.GetProfileByUserID(ctx, user.UID))
		if err != nil {
			return nil, err
		}
		return &ProfileOutput{Body: body}, nil
	})

	huma.Register(humaAPI, huma.Operation{
		OperationID: "update-profile",
		Method:      http.MethodPatch,
		Path:        "/profile",
		Summary:     "Update current user's profile",
		Description: "Updates the provided fields of the authenticated user's profile.",
		Tags:        []string{"Profile"},
		Security:    bearerAuth,
	}, func(ctx context.Context, input *ProfileUpdateInput) (*ProfileOutput, error) {
		user := auth.UserFromContext(ctx)

		params := profilesvc.UpdateParams{
			Name:        input.Body.Name,
			Email:       input.Body.Email,
			PhoneNumber: input.Body.PhoneNumber,
			Marketing:   input.Body.Marketing,
		}
		if params.IsEmpty() {
			return nil, huma.Error422UnprocessableEntity("at least one field must be provided")
		}

		body, err := envelope(profiles.UpdateProfile(ctx, user.UID, params))
		if err != nil {
			return nil, err
		}
		return &ProfileOutput{Body: body}, nil
	})

	huma.Register(humaAPI, huma.Operation{
		OperationID: "delete-profile",
		Method:      http.MethodDelete,
		Path:        "/profile",
		Summary:     "Delete current user's profile",
		Description: "Deletes the authenticated user's profile. Deleting a missing profile succeeds.",
		Tags:        []string{"Profile"},
		Security:    bearerAuth,
	}, func(ctx context.Context, _ *ProfileDeleteInput) (*ProfileDeleteOutput, error) {
		user := auth.UserFromContext(ctx)

		state := profiles.DeleteProfile(ctx, user.UID)
		if !state.IsSuccess {
			return nil, ProblemFor(state.Reason, state.Message)
		}
		return &ProfileDeleteOutput{Body: state}, nil
	})
}

func emailOrDefault(email string, user *auth.User) string {
	if email != "" {
		return email
	}
	return user.Email
}

// envelope converts an action result into the response body, or into a
// problem error when the action failed.
func envelope(state actions.ProfileState) (api.ActionState[Profile], error) {
	if !state.IsSuccess {
		return api.ActionState[Profile]{}, ProblemFor(state.Reason, state.Message)
	}
	return api.Success(state.Message, toHTTPProfile(*state.Data)), nil
}

// ProblemFor maps a failure reason to a problem response.
func ProblemFor(reason api.FailureReason, msg string) huma.StatusError {
	switch reason {
	case api.ReasonNotFound:
		return huma.Error404NotFound(msg)
	case api.ReasonConflict:
		return huma.Error409Conflict(msg)
	case api.ReasonInvalid:
		return huma.Error422UnprocessableEntity(msg)
	default:
		return huma.Error500InternalServerError(msg)
	}
}

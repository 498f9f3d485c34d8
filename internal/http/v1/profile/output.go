package profile

import "github.com/janisto/firebase-boilerplate/internal/api"

// ProfileOutput carries a successful profile envelope.
type ProfileOutput struct {
	Body api.ActionState[Profile]
}

// ProfileCreateOutput for POST /profile (201 Created)
type ProfileCreateOutput struct {
	Location string `header:"Location" doc:"URL of created profile"`
	Body     api.ActionState[Profile]
}

// ProfileDeleteOutput for DELETE /profile
type ProfileDeleteOutput struct {
	Body api.ActionState[api.NoData]
}

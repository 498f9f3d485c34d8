package routes

import (
	"net/url"

	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/firebase-boilerplate/internal/actions"
	"github.com/janisto/firebase-boilerplate/internal/http/v1/billing"
	"github.com/janisto/firebase-boilerplate/internal/http/v1/profile"
	"github.com/janisto/firebase-boilerplate/internal/platform/auth"
	billingsvc "github.com/janisto/firebase-boilerplate/internal/service/billing"
)

// Register wires all v1 routes into the provided API.
func Register(
	api huma.API,
	verifier auth.Verifier,
	profiles *actions.Profiles,
	billingService billingsvc.Service,
) {
	api.UseMiddleware(auth.Middleware(api, verifier))

	profile.Register(api, profiles, apiPrefix(api))
	billing.Register(api, profiles, billingService)
}

// apiPrefix returns the path of the first configured server URL.
func apiPrefix(api huma.API) string {
	for _, s := range api.OpenAPI().Servers {
		if u, err := url.Parse(s.URL); err == nil && u.Path != "" {
			return u.Path
		}
	}
	return ""
}

// SecuritySchemes declares the bearer scheme referenced by protected operations.
func SecuritySchemes() map[string]*huma.SecurityScheme {
	return map[string]*huma.SecurityScheme{
		"bearerAuth": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
			Description:  "Firebase ID token",
		},
	}
}

// Package stripe builds the process-wide Stripe API client.
package stripe

import (
	"errors"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
)

// Default app info reported to Stripe.
const (
	DefaultAppName    = "Firebase Boilerplate"
	DefaultAppVersion = "1.0.0"
)

// APIVersion is the Stripe API version requests are pinned to.
const APIVersion = stripe.APIVersion

// ErrMissingSecretKey is returned when no secret key is configured.
var ErrMissingSecretKey = errors.New("stripe secret key is not set")

// Config holds Stripe client settings.
type Config struct {
	SecretKey  string
	AppName    string
	AppVersion string
}

// NewClient returns a Stripe client authenticated with cfg.SecretKey.
func NewClient(cfg Config) (*client.API, error) {
	if cfg.SecretKey == "" {
		return nil, ErrMissingSecretKey
	}
	if cfg.AppName == "" {
		cfg.AppName = DefaultAppName
	}
	if cfg.AppVersion == "" {
		cfg.AppVersion = DefaultAppVersion
	}

	stripe.SetAppInfo(&stripe.AppInfo{
		Name:    cfg.AppName,
		Version: cfg.AppVersion,
	})

	return client.New(cfg.SecretKey, nil), nil
}

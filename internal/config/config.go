// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment names.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds every setting the server reads at startup.
type Config struct {
	Port           string
	Environment    string
	AllowedOrigins []string

	// Firebase web app settings.
	FirebaseAPIKey            string
	FirebaseAuthDomain        string
	FirebaseProjectID         string
	FirebaseStorageBucket     string
	FirebaseMessagingSenderID string
	FirebaseAppID             string
	CredentialsFile           string
	UseEmulators              bool

	StripeSecretKey     string
	StripeWebhookSecret string
}

// Load reads an optional .env file and then the environment.
// Variables already present in the environment win over .env values.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}
	return FromEnv(), nil
}

// FromEnv builds a Config from the current environment only.
func FromEnv() Config {
	projectID := envString("FIREBASE_PROJECT_ID", "")
	if projectID == "" {
		projectID = envString("GOOGLE_CLOUD_PROJECT", "")
	}
	bucket := envString("FIREBASE_STORAGE_BUCKET", "")
	if bucket == "" && projectID != "" {
		bucket = projectID + ".appspot.com"
	}

	return Config{
		Port:           envString("PORT", "8080"),
		Environment:    strings.ToLower(envString("APP_ENV", EnvProduction)),
		AllowedOrigins: envList("ALLOWED_ORIGINS"),

		FirebaseAPIKey:            envString("FIREBASE_API_KEY", ""),
		FirebaseAuthDomain:        envString("FIREBASE_AUTH_DOMAIN", ""),
		FirebaseProjectID:         projectID,
		FirebaseStorageBucket:     bucket,
		FirebaseMessagingSenderID: envString("FIREBASE_MESSAGING_SENDER_ID", ""),
		FirebaseAppID:             envString("FIREBASE_APP_ID", ""),
		CredentialsFile:           envString("GOOGLE_APPLICATION_CREDENTIALS", ""),
		UseEmulators:              envBool("USE_FIREBASE_EMULATORS", false),

		StripeSecretKey:     envString("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: envString("STRIPE_WEBHOOK_SECRET", ""),
	}
}

// IsDevelopment reports whether the process runs in development mode.
func (c Config) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envList(key string) []string {
	var out []string
	for part := range strings.SplitSeq(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

package firebase

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	applog "github.com/janisto/firebase-boilerplate/internal/platform/logging"
)

// Config holds Firebase configuration.
type Config struct {
	ProjectID         string
	APIKey            string
	AuthDomain        string
	StorageBucket     string
	MessagingSenderID string
	AppID             string
	CredentialsFile   string // Path to service account JSON (optional)
	Environment       string
	UseEmulators      bool
}

// emulatorsEnabled reports whether clients should talk to the local emulator suite.
func (c Config) emulatorsEnabled() bool {
	return c.Environment == "development" && c.UseEmulators
}

// Clients holds initialized Firebase clients.
type Clients struct {
	Auth      *auth.Client
	Firestore *firestore.Client
	Storage   *storage.BucketHandle
}

// InitializeClients sets up Firebase and returns clients directly.
// The returned Clients are meant to be shared for the lifetime of the process.
func InitializeClients(ctx context.Context, cfg Config) (*Clients, error) {
	logConfig(ctx, cfg)

	if cfg.emulatorsEnabled() {
		redirectToEmulators(ctx, os.Setenv)
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" && !cfg.emulatorsEnabled() {
		creds, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials: %w", err)
		}
		opts = append(opts, option.WithCredentialsJSON(creds))
	}

	fbApp, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:     cfg.ProjectID,
		StorageBucket: cfg.StorageBucket,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}

	ac, err := fbApp.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize auth: %w", err)
	}

	fc, err := fbApp.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize firestore: %w", err)
	}

	sc, err := fbApp.Storage(ctx)
	if err != nil {
		_ = fc.Close()
		return nil, fmt.Errorf("initialize storage: %w", err)
	}
	bucket, err := sc.DefaultBucket()
	if err != nil {
		_ = fc.Close()
		return nil, fmt.Errorf("resolve default bucket: %w", err)
	}

	initAnalytics(ctx, cfg)

	return &Clients{
		Auth:      ac,
		Firestore: fc,
		Storage:   bucket,
	}, nil
}

// Close closes the Firestore client.
func (c *Clients) Close() error {
	if c.Firestore != nil {
		return c.Firestore.Close()
	}
	return nil
}

func logConfig(ctx context.Context, cfg Config) {
	applog.ComponentLogger(ctx, "firebase").Info("firebase config",
		zap.String("apiKey", maskSecret(cfg.APIKey)),
		zap.String("authDomain", cfg.AuthDomain),
		zap.String("projectId", cfg.ProjectID),
		zap.String("storageBucket", cfg.StorageBucket),
		zap.String("messagingSenderId", cfg.MessagingSenderID),
		zap.String("appId", cfg.AppID),
		zap.String("environment", cfg.Environment),
		zap.Bool("useEmulators", cfg.UseEmulators),
	)
}

func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	return "***"
}

// initAnalytics only runs in a browser context, which a server process never is.
func initAnalytics(ctx context.Context, cfg Config) {
	if cfg.AppID == "" {
		return
	}
	applog.ComponentLogger(ctx, "firebase").Info("analytics not supported in this environment")
}

package firebase

import (
	"context"

	"go.uber.org/zap"

	applog "github.com/janisto/firebase-boilerplate/internal/platform/logging"
)

// Local emulator suite endpoints.
const (
	AuthEmulatorHost      = "localhost:9099"
	FirestoreEmulatorHost = "localhost:8080"
	StorageEmulatorHost   = "localhost:9199"
)

type emulator struct {
	service string
	envVar  string
	host    string
}

var emulators = []emulator{
	{service: "auth", envVar: "FIREBASE_AUTH_EMULATOR_HOST", host: AuthEmulatorHost},
	{service: "firestore", envVar: "FIRESTORE_EMULATOR_HOST", host: FirestoreEmulatorHost},
	{service: "storage", envVar: "STORAGE_EMULATOR_HOST", host: StorageEmulatorHost},
}

// redirectToEmulators points each SDK at its local emulator. A failure for
// one service is logged and does not prevent the others from being redirected.
// It returns the number of services redirected.
func redirectToEmulators(ctx context.Context, setenv func(key, value string) error) int {
	log := applog.ComponentLogger(ctx, "firebase")
	redirected := 0
	for _, e := range emulators {
		if err := setenv(e.envVar, e.host); err != nil {
			log.Error("failed to connect to emulator",
				zap.String("service", e.service),
				zap.String("host", e.host),
				zap.Error(err),
			)
			continue
		}
		log.Info("connected to emulator", zap.String("service", e.service), zap.String("host", e.host))
		redirected++
	}
	return redirected
}

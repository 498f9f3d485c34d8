package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/janisto/firebase-boilerplate/internal/actions"
	"github.com/janisto/firebase-boilerplate/internal/config"
	"github.com/janisto/firebase-boilerplate/internal/http/health"
	"github.com/janisto/firebase-boilerplate/internal/http/v1/routes"
	"github.com/janisto/firebase-boilerplate/internal/platform/auth"
	"github.com/janisto/firebase-boilerplate/internal/platform/firebase"
	applog "github.com/janisto/firebase-boilerplate/internal/platform/logging"
	appmiddleware "github.com/janisto/firebase-boilerplate/internal/platform/middleware"
	"github.com/janisto/firebase-boilerplate/internal/platform/respond"
	stripeclient "github.com/janisto/firebase-boilerplate/internal/platform/stripe"
	billingsvc "github.com/janisto/firebase-boilerplate/internal/service/billing"
	profilesvc "github.com/janisto/firebase-boilerplate/internal/service/profile"
)

// Version can be overridden at build time: -ldflags "-X main.Version=1.2.3"
var Version = "dev"

const docsPath = "/api-docs"

// dependencies are the services the HTTP layer is built on.
type dependencies struct {
	verifier auth.Verifier
	profiles profilesvc.Service
	billing  billingsvc.Service
	checks   map[string]health.Check
}

func main() {
	ctx := context.Background()
	if err := applog.Err(); err != nil {
		applog.LogError(ctx, "logger init error", err)
	}

	err := run(ctx)
	if err != nil {
		applog.LogError(ctx, "server failed", err)
	}
	if syncErr := applog.Sync(); syncErr != nil {
		applog.LogError(ctx, "logger sync error", syncErr)
	}
	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	clients, err := firebase.InitializeClients(ctx, firebase.Config{
		ProjectID:         cfg.FirebaseProjectID,
		APIKey:            cfg.FirebaseAPIKey,
		AuthDomain:        cfg.FirebaseAuthDomain,
		StorageBucket:     cfg.FirebaseStorageBucket,
		MessagingSenderID: cfg.FirebaseMessagingSenderID,
		AppID:             cfg.FirebaseAppID,
		CredentialsFile:   cfg.CredentialsFile,
		Environment:       cfg.Environment,
		UseEmulators:      cfg.UseEmulators,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := clients.Close(); err != nil {
			applog.LogError(ctx, "firebase close error", err)
		}
	}()

	stripeAPI, err := stripeclient.NewClient(stripeclient.Config{SecretKey: cfg.StripeSecretKey})
	if err != nil {
		return fmt.Errorf("init stripe: %w", err)
	}
	applog.LogInfo(ctx, "stripe client ready", zap.String("apiVersion", stripeclient.APIVersion))

	store := profilesvc.NewFirestoreStore(clients.Firestore)
	router := newRouter(cfg, dependencies{
		verifier: auth.NewFirebaseVerifier(clients.Auth),
		profiles: store,
		billing:  billingsvc.NewStripeService(stripeAPI, cfg.StripeWebhookSecret),
		checks: map[string]health.Check{
			"firestore": store.Ping,
		},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    64 << 10, // 64 KB
	}

	listenErr := make(chan error, 1)
	go func() {
		applog.LogInfo(ctx, "server listening",
			zap.String("addr", srv.Addr), zap.String("environment", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-listenErr:
		return fmt.Errorf("listen on %s: %w", srv.Addr, err)
	case <-stop:
		applog.LogInfo(ctx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		applog.LogError(shutdownCtx, "server shutdown error", err)
	}
	applog.LogInfo(ctx, "server exited")
	return nil
}

func newRouter(cfg config.Config, deps dependencies) http.Handler {
	router := chi.NewRouter()
	router.NotFound(respond.NotFoundHandler())
	router.MethodNotAllowed(respond.MethodNotAllowedHandler())

	router.Use(
		appmiddleware.Security(docsPath, "/v1"+docsPath),
		appmiddleware.Vary(),
		appmiddleware.CORS(cfg.AllowedOrigins...),
		appmiddleware.RequestID(),
		// RealIP trusts X-Forwarded-For; only deploy behind a trusted proxy.
		chimiddleware.RealIP,
		chimiddleware.RequestSize(1<<20), // 1 MB limit
		applog.RequestLogger(),
		applog.AccessLogger(),
		respond.Recoverer(),
	)

	router.Get("/health", health.Handler(Version, deps.checks))

	router.Route("/v1", func(r chi.Router) {
		humaCfg := huma.DefaultConfig("Firebase Boilerplate API", Version)
		humaCfg.DocsPath = docsPath
		humaCfg.Servers = []*huma.Server{{URL: "/v1"}}
		humaCfg.Components.SecuritySchemes = routes.SecuritySchemes()
		api := humachi.New(r, humaCfg)
		advertiseCBOR(api)

		routes.Register(api, deps.verifier, actions.NewProfiles(deps.profiles), deps.billing)
	})

	return router
}

// advertiseCBOR adds the CBOR media type next to JSON in the OpenAPI document.
func advertiseCBOR(api huma.API) {
	api.OpenAPI().OnAddOperation = append(api.OpenAPI().OnAddOperation,
		func(_ *huma.OpenAPI, op *huma.Operation) {
			if op.RequestBody != nil && op.RequestBody.Content != nil {
				if jsonContent, ok := op.RequestBody.Content["application/json"]; ok {
					op.RequestBody.Content["application/cbor"] = jsonContent
				}
			}
			for _, resp := range op.Responses {
				if resp.Content == nil {
					continue
				}
				if jsonContent, ok := resp.Content["application/json"]; ok {
					resp.Content["application/cbor"] = jsonContent
				}
			}
		},
	)
}


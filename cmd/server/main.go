package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/pawprint-social/backend/internal/cache"
	"github.com/pawprint-social/backend/internal/middleware"
	"github.com/pawprint-social/backend/internal/realtime"
	"github.com/pawprint-social/backend/internal/repositories"
	"github.com/pawprint-social/backend/internal/repositories/memory"
	"github.com/pawprint-social/backend/internal/router"
	"github.com/pawprint-social/backend/internal/services"
	"github.com/pawprint-social/backend/pkg/config"
	"github.com/pawprint-social/backend/pkg/firebase"
	"github.com/pawprint-social/backend/validators"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(config.ParseLogLevel(cfg.LogLevel))
	e.Validator = validators.NewValidator()
	config.SetupMiddleware(e)

	ctx := context.Background()

	var (
		repos     *repositories.Repositories
		ringCache cache.StoryRingCache = cache.NopStoryRingCache{}
	)
	switch cfg.Store {
	case config.StoreMemory:
		repos = memory.NewRepositories(memory.New())
		e.Logger.Warnj(log.JSON{"event": "store_selected", "store": "memory"})
	default:
		db, err := config.InitDB(cfg)
		if err != nil {
			e.Logger.Fatalf("Failed to initialize databases: %v", err)
		}
		defer db.CloseDB() // Ensure database connections are closed when main exits

		if err := router.AutoMigrate(db.Postgres); err != nil {
			e.Logger.Fatalf("Failed to migrate: %v", err)
		}
		repos = repositories.NewRepositories(db.Postgres, db.Mongo.Database(cfg.MongoDatabase))
		ringCache = cache.NewRedisStoryRingCache(db.Redis, cfg.StoryCacheTTL)
	}

	broker, err := newBroker(cfg, e.Logger)
	if err != nil {
		e.Logger.Fatalf("Failed to connect realtime broker: %v", err)
	}
	defer broker.Close()
	hub := realtime.NewHub(broker, e.Logger)

	verifier, err := newVerifier(ctx, cfg)
	if err != nil {
		e.Logger.Fatalf("Failed to initialize identity verifier: %v", err)
	}

	svc := services.NewServices(repos, hub, ringCache, e.Logger, services.Options{
		FeedPageSize:   cfg.FeedPageSize,
		StoryTTL:       cfg.StoryTTL,
		StoryRingLimit: cfg.StoryRingLimit,
	})
	deps := router.Dependencies{Repos: repos, Services: svc, Verifier: verifier}
	if jwtVerifier, ok := verifier.(*middleware.JWTVerifier); ok && !cfg.IsProduction() {
		deps.TokenIssuer = jwtVerifier
	}
	router.SetupRoutes(e, deps)

	// Start server
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		e.Logger.Error(err)
	}
}

// newBroker uses NATS when configured so events reach every instance
func newBroker(cfg *config.Config, logger echo.Logger) (realtime.Broker, error) {
	if cfg.NATSURL == "" {
		logger.Warnj(log.JSON{"event": "broker_selected", "broker": "memory"})
		return realtime.NewMemoryBroker(), nil
	}
	broker, err := realtime.NewNATSBroker(realtime.NATSConfig{
		URL:           cfg.NATSURL,
		ClientName:    "pawprint-api",
		MaxReconnects: -1,
		ReconnectWait: 2 * time.Second,
	}, logger)
	if err != nil {
		return nil, err
	}
	return broker, nil
}

func newVerifier(ctx context.Context, cfg *config.Config) (middleware.IdentityVerifier, error) {
	if cfg.AuthMode == config.AuthJWT {
		if cfg.JWTSecret == "" {
			return nil, errors.New("JWT_SECRET is required when AUTH_MODE=jwt")
		}
		return middleware.NewJWTVerifier(cfg.JWTSecret), nil
	}
	app, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	if err != nil {
		return nil, err
	}
	return middleware.NewFirebaseVerifier(app.AuthClient), nil
}

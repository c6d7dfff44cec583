package router

import (
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/pawprint-social/backend/internal/handlers"
	"github.com/pawprint-social/backend/internal/middleware"
	"github.com/pawprint-social/backend/internal/models"
	"github.com/pawprint-social/backend/internal/repositories"
	"github.com/pawprint-social/backend/internal/services"
	"gorm.io/gorm"
)

// Dependencies is everything the routes need
type Dependencies struct {
	Repos    *repositories.Repositories
	Services *services.Services
	Verifier middleware.IdentityVerifier
	// TokenIssuer enables /api/v1/auth/dev-token; nil outside local JWT mode
	TokenIssuer handlers.TokenIssuer
}

// AutoMigrate creates or updates the PostgreSQL schema
func AutoMigrate(pgdb *gorm.DB) error {
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Pet{},
		&models.Follow{},
		&models.Post{},
		&models.Reaction{},
		&models.Comment{},
		&models.Notification{},
		&models.ChatRoom{},
		&models.ChatMessage{},
		&models.StoryView{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Dependencies) {
	svc := deps.Services

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	if deps.TokenIssuer != nil {
		handlers.NewAuthHandler(deps.TokenIssuer).RegisterAuthRoutes(e.Group("/api/v1/auth"))
	}

	// Everything else needs a verified identity and a loaded profile
	api := e.Group("/api/v1")
	api.Use(middleware.Authenticate(deps.Verifier))
	api.Use(middleware.ResolveActor(deps.Repos.User, svc.Actors))

	handlers.NewUserHandler(svc.Actors).RegisterProfileRoutes(api)
	handlers.NewPetHandler(svc.Pets, svc.Follows).RegisterPetRoutes(api)
	handlers.NewFollowHandler(svc.Follows).RegisterFollowRoutes(api)
	handlers.NewFeedHandler(svc.Feed).RegisterFeedRoutes(api)
	handlers.NewPostHandler(svc.Feed).RegisterPostRoutes(api)
	handlers.NewReactionHandler(svc.Ledger).RegisterReactionRoutes(api)
	handlers.NewCommentHandler(svc.Ledger).RegisterCommentRoutes(api)
	handlers.NewNotificationHandler(svc.Notifications).RegisterNotificationRoutes(api)
	handlers.NewChatHandler(svc.Chat).RegisterChatRoutes(api)
	handlers.NewStoryHandler(svc.Stories).RegisterStoryRoutes(api)
	handlers.NewRealtimeHandler(svc.Chat, svc.Notifications).RegisterRealtimeRoutes(api)
	handlers.NewExportHandler(svc.HealthReports).RegisterExportRoutes(api)

	e.Logger.Infoj(log.JSON{"event": "routes_configured", "routes": len(e.Routes())})
}

package services

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pawprint-social/backend/internal/cache"
	"github.com/pawprint-social/backend/internal/realtime"
	"github.com/pawprint-social/backend/internal/repositories"
)

type Options struct {
	FeedPageSize   int
	StoryTTL       time.Duration
	StoryRingLimit int
	Now            func() time.Time
}

type Services struct {
	Actors        ActorResolver
	Notifications NotificationService
	Follows       FollowService
	Feed          FeedService
	Ledger        LedgerService
	Chat          ChatService
	Stories       StoryService
	Pets          PetService
	HealthReports HealthReportService
}

func NewServices(repos *repositories.Repositories, hub *realtime.Hub, ringCache cache.StoryRingCache, logger echo.Logger, opts Options) *Services {
	if ringCache == nil {
		ringCache = cache.NopStoryRingCache{}
	}
	actors := NewActorResolver(repos.User, repos.Pet)
	notifications := NewNotificationService(repos.Notification, actors, hub, logger)

	return &Services{
		Actors:        actors,
		Notifications: notifications,
		Follows:       NewFollowService(repos.Follow, repos.Pet, actors, notifications, ringCache),
		Feed:          NewFeedService(repos.Post, repos.Pet, repos.Follow, repos.Reaction, repos.Comment, opts.FeedPageSize),
		Ledger:        NewLedgerService(repos.Post, repos.Reaction, repos.Comment, actors, notifications, opts.Now),
		Chat:          NewChatService(repos.Chat, actors, notifications, hub, logger),
		Stories: NewStoryService(repos.Post, repos.Pet, repos.Follow, repos.StoryView, ringCache, StoryConfig{
			TTL:       opts.StoryTTL,
			RingLimit: opts.StoryRingLimit,
			Now:       opts.Now,
		}),
		Pets:          NewPetService(repos.Pet, repos.Follow, repos.HealthRecord, ringCache, logger),
		HealthReports: NewHealthReportService(repos.Pet, repos.HealthRecord),
	}
}

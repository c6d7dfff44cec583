package config

import (
	"testing"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "STORE", "AUTH_MODE", "FEED_PAGE_SIZE", "STORY_TTL", "STORY_CACHE_TTL", "MONGO_DATABASE"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StorePostgres, cfg.Store)
	assert.Equal(t, AuthFirebase, cfg.AuthMode)
	assert.Equal(t, "pawprint", cfg.MongoDatabase)
	assert.Equal(t, 50, cfg.FeedPageSize)
	assert.Equal(t, 24*time.Hour, cfg.StoryTTL)
	assert.Equal(t, time.Minute, cfg.StoryCacheTTL)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("STORE", StoreMemory)
	t.Setenv("AUTH_MODE", AuthJWT)
	t.Setenv("FEED_PAGE_SIZE", "20")
	t.Setenv("STORY_TTL", "90m")

	cfg := Load()
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, AuthJWT, cfg.AuthMode)
	assert.Equal(t, 20, cfg.FeedPageSize)
	assert.Equal(t, 90*time.Minute, cfg.StoryTTL)
}

func TestMalformedNumbersFallBack(t *testing.T) {
	t.Setenv("FEED_PAGE_SIZE", "lots")
	t.Setenv("STORY_RING_LIMIT", "-3")
	t.Setenv("STORY_TTL", "1 day")

	cfg := Load()
	assert.Equal(t, 50, cfg.FeedPageSize)
	assert.Equal(t, 50, cfg.StoryRingLimit)
	assert.Equal(t, 24*time.Hour, cfg.StoryTTL)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, log.DEBUG, ParseLogLevel("debug"))
	assert.Equal(t, log.ERROR, ParseLogLevel("error"))
	assert.Equal(t, log.INFO, ParseLogLevel(""))
	assert.Equal(t, log.INFO, ParseLogLevel("verbose"))
}

// Package cache holds short-lived read caches in front of the store
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pawprint-social/backend/internal/models"
	"github.com/redis/go-redis/v9"
)

// StoryRingCache caches the visible-story ring per actor. Clients poll the
// ring on an interval, so entries only need to live that long.
type StoryRingCache interface {
	Get(ctx context.Context, actor models.Actor) ([]models.StoryRingItem, bool)
	Set(ctx context.Context, actor models.Actor, ring []models.StoryRingItem)
	Invalidate(ctx context.Context, actors ...models.Actor)
	// InvalidateKind drops the ring of every actor of kind
	InvalidateKind(ctx context.Context, kind models.ActorKind)
}

// RedisStoryRingCache stores rings as JSON strings with a TTL. Redis errors
// are treated as misses.
type RedisStoryRingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStoryRingCache creates a cache; a nil client disables it
func NewRedisStoryRingCache(client *redis.Client, ttl time.Duration) StoryRingCache {
	if client == nil {
		return NopStoryRingCache{}
	}
	return &RedisStoryRingCache{client: client, ttl: ttl}
}

func storyRingKey(actor models.Actor) string {
	return "stories:ring:" + actor.Key()
}

func (c *RedisStoryRingCache) Get(ctx context.Context, actor models.Actor) ([]models.StoryRingItem, bool) {
	cached, err := c.client.Get(ctx, storyRingKey(actor)).Result()
	if err != nil {
		return nil, false
	}
	var ring []models.StoryRingItem
	if err := json.Unmarshal([]byte(cached), &ring); err != nil {
		return nil, false
	}
	return ring, true
}

func (c *RedisStoryRingCache) Set(ctx context.Context, actor models.Actor, ring []models.StoryRingItem) {
	data, err := json.Marshal(ring)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, storyRingKey(actor), data, c.ttl).Err()
}

func (c *RedisStoryRingCache) Invalidate(ctx context.Context, actors ...models.Actor) {
	if len(actors) == 0 {
		return
	}
	keys := make([]string, len(actors))
	for i, a := range actors {
		keys[i] = storyRingKey(a)
	}
	_ = c.client.Del(ctx, keys...).Err()
}

func (c *RedisStoryRingCache) InvalidateKind(ctx context.Context, kind models.ActorKind) {
	iter := c.client.Scan(ctx, 0, "stories:ring:"+string(kind)+":*", 0).Iterator()
	for iter.Next(ctx) {
		_ = c.client.Del(ctx, iter.Val()).Err()
	}
}

// NopStoryRingCache never hits
type NopStoryRingCache struct{}

func (NopStoryRingCache) Get(context.Context, models.Actor) ([]models.StoryRingItem, bool) {
	return nil, false
}
func (NopStoryRingCache) Set(context.Context, models.Actor, []models.StoryRingItem) {}
func (NopStoryRingCache) Invalidate(context.Context, ...models.Actor)               {}
func (NopStoryRingCache) InvalidateKind(context.Context, models.ActorKind)          {}

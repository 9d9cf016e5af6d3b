package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/Rakshi2609/Dr-Help-2/internal/models"
)

// ProfileCache is a read-through Redis cache for account lookups. With no
// Redis configured the client stays nil and every call degrades to a no-op,
// so the API keeps working from the database alone.
type ProfileCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProfileCache connects to redisURL, or returns a disabled cache when the
// URL is empty or the connection fails.
func NewProfileCache(redisURL string, ttl time.Duration) *ProfileCache {
	if redisURL == "" {
		return &ProfileCache{ttl: ttl}
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("invalid REDIS_URL, profile cache disabled: %v", err)
		return &ProfileCache{ttl: ttl}
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Printf("redis unreachable, profile cache disabled: %v", err)
		return &ProfileCache{ttl: ttl}
	}
	return &ProfileCache{client: client, ttl: ttl}
}

func profileKey(accountID uint) string {
	return "profile:" + strconv.FormatUint(uint64(accountID), 10)
}

// Get returns the cached account, or (nil, nil) on miss or disabled cache.
func (p *ProfileCache) Get(ctx context.Context, accountID uint) (*models.Account, error) {
	if p.client == nil {
		return nil, nil
	}
	raw, err := p.client.Get(ctx, profileKey(accountID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("profile cache get: %w", err)
	}
	var account models.Account
	if err := json.Unmarshal([]byte(raw), &account); err != nil {
		return nil, fmt.Errorf("profile cache decode: %w", err)
	}
	return &account, nil
}

// Set stores the account under its id with the cache TTL.
func (p *ProfileCache) Set(ctx context.Context, account *models.Account) error {
	if p.client == nil {
		return nil
	}
	raw, err := json.Marshal(account)
	if err != nil {
		return err
	}
	return p.client.Set(ctx, profileKey(account.ID), raw, p.ttl).Err()
}

// Invalidate drops the cached copy after a profile update.
func (p *ProfileCache) Invalidate(ctx context.Context, accountID uint) error {
	if p.client == nil {
		return nil
	}
	return p.client.Del(ctx, profileKey(accountID)).Err()
}

// Close releases the underlying connection.
func (p *ProfileCache) Close() error {
	if p.client == nil {
		return nil
	}
	return p.client.Close()
}

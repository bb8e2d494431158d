package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"campus-grub-api/models"

	"github.com/redis/go-redis/v9"
)

const profileTTL = 24 * time.Hour

// ProfileCache keeps the last known profile per user in redis so profile
// reads degrade gracefully when the primary store is down. The fallback is
// strictly server-side; clients never self-assert identity fields.
type ProfileCache struct {
	rdb *redis.Client
}

func NewProfileCache(rdb *redis.Client) *ProfileCache {
	return &ProfileCache{rdb: rdb}
}

func profileKey(userID uint) string {
	return fmt.Sprintf("profile:%d", userID)
}

// Set stores the profile. A nil cache or a redis failure is non-fatal; the
// cache is best effort.
func (c *ProfileCache) Set(ctx context.Context, p models.Profile) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, profileKey(p.ID), data, profileTTL).Err()
}

// Get returns the last known profile, or false if none is cached.
func (c *ProfileCache) Get(ctx context.Context, userID uint) (models.Profile, bool) {
	if c == nil || c.rdb == nil {
		return models.Profile{}, false
	}
	data, err := c.rdb.Get(ctx, profileKey(userID)).Bytes()
	if err != nil {
		return models.Profile{}, false
	}
	var p models.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return models.Profile{}, false
	}
	return p, true
}

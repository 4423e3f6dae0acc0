package hazard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ddr-ops/disaster_response_system/internal/models"
)

const sachetCacheKey = "sachet:alerts"

// CachedFeed оборачивает Feed кэшем в Redis. Читатели получают кэшированный
// снимок фида; при промахе выполняется прямой Fetch с записью в кэш.
type CachedFeed struct {
	inner       Feed
	redisClient *redis.Client
	ttl         time.Duration
}

func NewCachedFeed(inner Feed, redisClient *redis.Client, ttl time.Duration) *CachedFeed {
	return &CachedFeed{
		inner:       inner,
		redisClient: redisClient,
		ttl:         ttl,
	}
}

func (f *CachedFeed) Fetch(ctx context.Context) ([]models.HazardAlert, error) {
	val, err := f.redisClient.Get(ctx, sachetCacheKey).Bytes()
	if err == nil {
		var alerts []models.HazardAlert
		if err := json.Unmarshal(val, &alerts); err == nil {
			return alerts, nil
		}
		// Испорченная запись кэша не должна ломать чтение фида
	} else if !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to get sachet alerts from cache: %w", err)
	}

	return f.Refresh(ctx)
}

// Refresh забирает свежий снимок фида и кладет его в кэш.
func (f *CachedFeed) Refresh(ctx context.Context) ([]models.HazardAlert, error) {
	alerts, err := f.inner.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sachet feed: %w", err)
	}

	payload, err := json.Marshal(alerts)
	if err != nil {
		return alerts, fmt.Errorf("failed to marshal sachet alerts for cache: %w", err)
	}
	if err := f.redisClient.Set(ctx, sachetCacheKey, payload, f.ttl).Err(); err != nil {
		return alerts, fmt.Errorf("failed to set sachet alerts in cache: %w", err)
	}
	return alerts, nil
}

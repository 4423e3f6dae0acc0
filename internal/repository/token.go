package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ddr-ops/disaster_response_system/internal/service"
)

const tokenBlacklistPrefix = "token:revoked:"

// RedisTokenStore хранит отозванные токены в Redis до истечения их срока
type RedisTokenStore struct {
	redisClient *redis.Client
}

func NewRedisTokenStore(redisClient *redis.Client) service.TokenStore {
	return &RedisTokenStore{redisClient: redisClient}
}

// Blacklist помечает токен отозванным на остаток его срока жизни
func (s *RedisTokenStore) Blacklist(ctx context.Context, jti string, ttl time.Duration) error {
	key := tokenBlacklistPrefix + jti
	if err := s.redisClient.Set(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	return nil
}

// IsBlacklisted проверяет, отозван ли токен
func (s *RedisTokenStore) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	key := tokenBlacklistPrefix + jti
	if err := s.redisClient.Get(ctx, key).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return true, nil
}

package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const notifyQueueKey = "notify_events"

// Message - уведомление волонтеру о назначенной задаче.
type Message struct {
	Phone      string    `json:"phone"`
	Body       string    `json:"body"`
	WhatsApp   bool      `json:"whatsapp"`
	TaskID     uuid.UUID `json:"task_id"`
	IncidentID uuid.UUID `json:"incident_id"`
	QueuedAt   time.Time `json:"queued_at"`
}

// Publisher - интерфейс для публикации уведомлений в очередь
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

// RedisPublisher - реализация Publisher, использующая Redis
type RedisPublisher struct {
	redisClient *redis.Client
}

// NewRedisPublisher создает новый RedisPublisher
func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{
		redisClient: client,
	}
}

// Publish публикует уведомление в очередь Redis
func (p *RedisPublisher) Publish(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal notify message: %w", err)
	}

	// Используем LPUSH для добавления события в левую часть списка (очереди)
	if err := p.redisClient.LPush(ctx, notifyQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish notify message to Redis: %w", err)
	}
	return nil
}

package notify

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/ddr-ops/disaster_response_system/internal/alert"
	"github.com/ddr-ops/disaster_response_system/internal/config"
)

// Worker - фоновая доставка уведомлений из очереди через провайдера сообщений
type Worker struct {
	redisClient *redis.Client
	provider    alert.Provider
	logger      *logrus.Logger
	cfg         *config.Config
}

// NewWorker создает новый Worker
func NewWorker(redisClient *redis.Client, provider alert.Provider, logger *logrus.Logger, cfg *config.Config) *Worker {
	return &Worker{
		redisClient: redisClient,
		provider:    provider,
		logger:      logger,
		cfg:         cfg,
	}
}

// Start запускает горутину для обработки очереди уведомлений
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Starting notify worker...")
	go func() {
		for {
			select {
			case <-ctx.Done():
				w.logger.Info("Stopping notify worker.")
				return
			default:
				// BRPop - блокирующее извлечение из правой части списка (очереди)
				// 0 означает бесконечное ожидание
				result, err := w.redisClient.BRPop(ctx, 0, notifyQueueKey).Result()
				if err != nil {
					if errors.Is(err, context.Canceled) {
						continue // Контекст отменен, но не ошибка Redis
					}
					w.logger.WithError(err).Error("Failed to pop notify message from Redis")
					time.Sleep(w.cfg.NotifyBaseDelay) // Ждем перед повторной попыткой
					continue
				}

				// result[0] - ключ, result[1] - значение
				var msg Message
				if err := json.Unmarshal([]byte(result[1]), &msg); err != nil {
					w.logger.WithError(err).Error("Failed to unmarshal notify message from Redis")
					continue
				}

				w.deliver(ctx, msg)
			}
		}
	}()
}

func (w *Worker) deliver(ctx context.Context, msg Message) {
	log := w.logger.WithField("task_id", msg.TaskID).WithField("incident_id", msg.IncidentID)
	log.Debug("Processing notify message...")

	if !w.provider.Enabled() {
		log.Warn("Message provider is not configured. Skipping notification delivery.")
		return
	}

	maxRetries := w.cfg.NotifyMaxRetries
	baseDelay := w.cfg.NotifyBaseDelay

	for i := 0; i < maxRetries; i++ {
		sid, err := w.provider.Send(ctx, msg.Phone, msg.Body, msg.WhatsApp)
		if err != nil {
			log.WithError(err).Warnf("Failed to send notification. Retrying in %v. Retries left: %d", baseDelay, maxRetries-1-i)
			time.Sleep(baseDelay)
			baseDelay *= 2 // Экспоненциальная задержка
			continue
		}

		log.WithField("sid", sid).Info("Notification delivered successfully.")
		return
	}

	log.Errorf("Failed to deliver notification after %d retries.", maxRetries)
}

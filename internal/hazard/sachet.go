package hazard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ddr-ops/disaster_response_system/internal/models"
)

// SachetClient забирает оповещения из JSON-фида SACHET.
// Пустой URL или ошибка запроса деградируют до встроенного набора,
// чтобы карта работала без внешней зависимости.
type SachetClient struct {
	feedURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewSachetClient(feedURL string, logger *logrus.Logger) *SachetClient {
	return &SachetClient{
		feedURL: feedURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

func (c *SachetClient) Fetch(ctx context.Context) ([]models.HazardAlert, error) {
	if c.feedURL == "" {
		c.logger.Debug("SACHET feed URL is not configured, serving sample alerts")
		return sampleAlerts(), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create sachet request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).Warn("SACHET feed unavailable, serving sample alerts")
		return sampleAlerts(), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warnf("SACHET feed returned status %d, serving sample alerts", resp.StatusCode)
		return sampleAlerts(), nil
	}

	var alerts []models.HazardAlert
	if err := json.NewDecoder(resp.Body).Decode(&alerts); err != nil {
		return nil, fmt.Errorf("failed to decode sachet feed: %w", err)
	}
	return alerts, nil
}

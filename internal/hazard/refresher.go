package hazard

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Refresher периодически обновляет кэш фида по cron-расписанию.
type Refresher struct {
	feed   *CachedFeed
	cron   *cron.Cron
	logger *logrus.Logger
	spec   string
}

func NewRefresher(feed *CachedFeed, spec string, logger *logrus.Logger) *Refresher {
	return &Refresher{
		feed:   feed,
		cron:   cron.New(),
		logger: logger,
		spec:   spec,
	}
}

// Start прогревает кэш и запускает периодическое обновление.
// Останавливается при отмене контекста.
func (r *Refresher) Start(ctx context.Context) error {
	if _, err := r.feed.Refresh(ctx); err != nil {
		r.logger.WithError(err).Warn("Initial SACHET feed refresh failed")
	}

	_, err := r.cron.AddFunc(r.spec, func() {
		if _, err := r.feed.Refresh(ctx); err != nil {
			r.logger.WithError(err).Warn("Scheduled SACHET feed refresh failed")
			return
		}
		r.logger.Debug("SACHET feed cache refreshed")
	})
	if err != nil {
		return err
	}

	r.cron.Start()
	go func() {
		<-ctx.Done()
		r.cron.Stop()
		r.logger.Info("Stopping SACHET feed refresher.")
	}()
	return nil
}

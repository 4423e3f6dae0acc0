package alert

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/ddr-ops/disaster_response_system/internal/apperr"
)

// Provider - контракт внешнего провайдера SMS/WhatsApp сообщений.
// Send возвращает идентификатор сообщения, присвоенный провайдером.
type Provider interface {
	Send(ctx context.Context, to, body string, whatsapp bool) (string, error)
	Enabled() bool
}

// DisabledProvider - заглушка на случай отсутствия учетных данных провайдера.
// Доставка логируется и сообщается как отключенная, остальная система
// продолжает работать без внешней зависимости.
type DisabledProvider struct {
	logger *logrus.Logger
}

func NewDisabledProvider(logger *logrus.Logger) *DisabledProvider {
	return &DisabledProvider{logger: logger}
}

func (p *DisabledProvider) Send(_ context.Context, to, body string, whatsapp bool) (string, error) {
	p.logger.WithFields(logrus.Fields{
		"to":       to,
		"whatsapp": whatsapp,
	}).Infof("Alert not sent (provider not configured): %s", body)
	return "", apperr.ErrProviderDisabled
}

func (p *DisabledProvider) Enabled() bool {
	return false
}

package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ddr-ops/disaster_response_system/internal/alert"
	"github.com/ddr-ops/disaster_response_system/internal/apperr"
	"github.com/ddr-ops/disaster_response_system/internal/config"
	"github.com/ddr-ops/disaster_response_system/internal/hazard"
	"github.com/ddr-ops/disaster_response_system/internal/models"
)

// AlertService определяет контракт для рассылки оповещений
type AlertService interface {
	Dispatch(ctx context.Context, req models.AlertRequest) (*models.DispatchResult, error)
	RecentHazards(ctx context.Context) ([]models.HazardAlert, error)
	Enabled() bool
}

type alertService struct {
	provider   alert.Provider
	volunteers VolunteerRepository
	users      UserRepository
	feed       hazard.Feed
	logger     *logrus.Logger
	cfg        *config.Config
}

func NewAlertService(provider alert.Provider, volunteers VolunteerRepository, users UserRepository, feed hazard.Feed, logger *logrus.Logger, cfg *config.Config) AlertService {
	return &alertService{
		provider:   provider,
		volunteers: volunteers,
		users:      users,
		feed:       feed,
		logger:     logger,
		cfg:        cfg,
	}
}

func (s *alertService) Enabled() bool {
	return s.provider.Enabled()
}

// Dispatch отправляет сообщение одному получателю или веером всем подходящим.
// Каждая неудача считается, но не прерывает рассылку: для широковещательной
// цели sent+failed всегда равно числу получателей.
func (s *alertService) Dispatch(ctx context.Context, req models.AlertRequest) (*models.DispatchResult, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "alert",
		"method":  "Dispatch",
		"target":  req.Target,
	})
	log.Info("Attempting to dispatch an alert")

	recipients, whatsapp, err := s.resolveRecipients(ctx, req)
	if err != nil {
		log.WithError(err).Warn("Failed to resolve alert recipients")
		return nil, err
	}

	if !s.provider.Enabled() {
		log.Warnf("Message provider is not configured. Simulating delivery to %d recipients.", len(recipients))
		return &models.DispatchResult{Simulated: true}, nil
	}

	result := &models.DispatchResult{}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.AlertConcurrency)
	for _, phone := range recipients {
		phone := phone
		g.Go(func() error {
			_, sendErr := s.provider.Send(gctx, phone, req.Message, whatsapp)
			mu.Lock()
			defer mu.Unlock()
			if sendErr != nil {
				result.Failed++
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", phone, sendErr))
				return nil // Ошибка одного получателя не прерывает рассылку
			}
			result.Sent++
			return nil
		})
	}
	_ = g.Wait()

	log.WithFields(logrus.Fields{
		"sent":   result.Sent,
		"failed": result.Failed,
	}).Info("Alert dispatch completed")
	return result, nil
}

// resolveRecipients возвращает номера получателей и канал доставки.
// Волонтеры получают WhatsApp, произвольные номера и пользователи - SMS.
func (s *alertService) resolveRecipients(ctx context.Context, req models.AlertRequest) ([]string, bool, error) {
	switch req.Target {
	case models.AlertTargetVolunteer:
		if req.Phone == "" {
			return nil, false, fmt.Errorf("service: phone is required for target %q", req.Target)
		}
		return []string{req.Phone}, true, nil
	case models.AlertTargetPhoneNumber:
		if req.Phone == "" {
			return nil, false, fmt.Errorf("service: phone is required for target %q", req.Target)
		}
		return []string{req.Phone}, false, nil
	case models.AlertTargetAllVolunteers:
		phones, err := s.volunteers.ListPhones(ctx)
		if err != nil {
			return nil, false, fmt.Errorf("service: could not list volunteer phones: %w", err)
		}
		if len(phones) == 0 {
			return nil, false, fmt.Errorf("no volunteers with phone numbers found: %w", apperr.ErrNotFound)
		}
		return phones, true, nil
	case models.AlertTargetAllUsers:
		contacts, err := s.users.ListContacts(ctx)
		if err != nil {
			return nil, false, fmt.Errorf("service: could not list user contacts: %w", err)
		}
		if len(contacts) == 0 {
			return nil, false, fmt.Errorf("no users with contact numbers found: %w", apperr.ErrNotFound)
		}
		return contacts, false, nil
	default:
		return nil, false, fmt.Errorf("service: unknown alert target %q", req.Target)
	}
}

// RecentHazards возвращает свежие записи внешнего фида для страницы оповещений
func (s *alertService) RecentHazards(ctx context.Context) ([]models.HazardAlert, error) {
	alerts, err := s.feed.Fetch(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to fetch hazard feed")
		return nil, fmt.Errorf("service: could not fetch hazard alerts: %w", err)
	}
	return alerts, nil
}

package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ddr-ops/disaster_response_system/internal/hazard"
	"github.com/ddr-ops/disaster_response_system/internal/models"
)

// FacilityRepository определяет контракт для чтения справочных объектов
type FacilityRepository interface {
	ListHospitals(ctx context.Context) ([]*models.Hospital, error)
	ListShelters(ctx context.Context) ([]*models.Shelter, error)
}

// MapService определяет контракт для read-only проекций карты
type MapService interface {
	Incidents(ctx context.Context) ([]*models.Incident, error)
	Hotspots(ctx context.Context) ([]*models.Hotspot, error)
	Hospitals(ctx context.Context) ([]*models.Hospital, error)
	Shelters(ctx context.Context) ([]*models.Shelter, error)
	HazardAlerts(ctx context.Context) ([]models.HazardAlert, error)
}

type mapService struct {
	incidents  IncidentRepository
	facilities FacilityRepository
	feed       hazard.Feed
	logger     *logrus.Logger
}

func NewMapService(incidents IncidentRepository, facilities FacilityRepository, feed hazard.Feed, logger *logrus.Logger) MapService {
	return &mapService{
		incidents:  incidents,
		facilities: facilities,
		feed:       feed,
		logger:     logger,
	}
}

// Incidents возвращает все инциденты для слоя маркеров, через кэш
func (s *mapService) Incidents(ctx context.Context) ([]*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "map",
		"method":  "Incidents",
	})

	cached, err := s.incidents.GetListFromCache(ctx)
	if err != nil {
		log.WithError(err).Warn("Failed to read incident list cache")
	}
	if cached != nil {
		return cached, nil
	}

	incidents, err := s.incidents.List(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from repository")
		return nil, fmt.Errorf("service: could not list incidents: %w", err)
	}

	if err := s.incidents.SetListCache(ctx, incidents); err != nil {
		log.WithError(err).Warn("Failed to set incident list cache")
	}
	return incidents, nil
}

// Hotspots возвращает веса тепловой карты: только открытые инциденты,
// вес равен серьезности
func (s *mapService) Hotspots(ctx context.Context) ([]*models.Hotspot, error) {
	hotspots, err := s.incidents.Hotspots(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list hotspots from repository")
		return nil, fmt.Errorf("service: could not list hotspots: %w", err)
	}
	return hotspots, nil
}

// Hospitals возвращает статический справочник больниц
func (s *mapService) Hospitals(ctx context.Context) ([]*models.Hospital, error) {
	hospitals, err := s.facilities.ListHospitals(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list hospitals from repository")
		return nil, fmt.Errorf("service: could not list hospitals: %w", err)
	}
	return hospitals, nil
}

// Shelters возвращает статический справочник убежищ
func (s *mapService) Shelters(ctx context.Context) ([]*models.Shelter, error) {
	shelters, err := s.facilities.ListShelters(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list shelters from repository")
		return nil, fmt.Errorf("service: could not list shelters: %w", err)
	}
	return shelters, nil
}

// HazardAlerts возвращает снимок внешнего фида для наложения на карту
func (s *mapService) HazardAlerts(ctx context.Context) ([]models.HazardAlert, error) {
	alerts, err := s.feed.Fetch(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to fetch hazard feed")
		return nil, fmt.Errorf("service: could not fetch hazard alerts: %w", err)
	}
	return alerts, nil
}

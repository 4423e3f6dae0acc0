package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ddr-ops/disaster_response_system/internal/models"
)

// IncidentRepository определяет контракт для работы с бд инцидентов
type IncidentRepository interface {
	Create(ctx context.Context, incident *models.Incident) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	List(ctx context.Context) ([]*models.Incident, error)
	ListRecent(ctx context.Context, limit int) ([]*models.Incident, error)
	ListActive(ctx context.Context) ([]*models.Incident, error)
	Hotspots(ctx context.Context) ([]*models.Hotspot, error)
	Count(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context, status string) (int, error)
	GetListFromCache(ctx context.Context) ([]*models.Incident, error)
	SetListCache(ctx context.Context, incidents []*models.Incident) error
	InvalidateListCache(ctx context.Context) error
}

// IncidentService определяет контракт для бизнес-логики регистрации инцидентов
type IncidentService interface {
	Report(ctx context.Context, incident *models.Incident) error
	Dashboard(ctx context.Context) (*models.DashboardStats, []*models.Incident, error)
}

type incidentService struct {
	incidents  IncidentRepository
	volunteers VolunteerRepository
	resources  ResourceRepository
	logger     *logrus.Logger
}

func NewIncidentService(incidents IncidentRepository, volunteers VolunteerRepository, resources ResourceRepository, logger *logrus.Logger) IncidentService {
	return &incidentService{
		incidents:  incidents,
		volunteers: volunteers,
		resources:  resources,
		logger:     logger,
	}
}

// Report регистрирует инцидент: статус open, время по часам сервера
func (s *incidentService) Report(ctx context.Context, incident *models.Incident) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "incident",
		"method":   "Report",
		"type":     incident.Type,
		"severity": incident.Severity,
	})
	log.Info("Attempting to report a new incident")

	incident.Status = models.IncidentStatusOpen
	incident.ReportedAt = time.Now()
	if err := s.incidents.Create(ctx, incident); err != nil {
		log.WithError(err).Error("Failed to create incident in repository")
		return fmt.Errorf("service: could not report incident: %w", err)
	}

	if err := s.incidents.InvalidateListCache(ctx); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident list cache")
	}

	log.WithField("incident_id", incident.ID).Info("Incident reported successfully")
	return nil
}

// Dashboard возвращает счетчики панели и последние инциденты
func (s *incidentService) Dashboard(ctx context.Context) (*models.DashboardStats, []*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "Dashboard",
	})

	total, err := s.incidents.Count(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to count incidents")
		return nil, nil, fmt.Errorf("service: could not build dashboard: %w", err)
	}
	open, err := s.incidents.CountByStatus(ctx, models.IncidentStatusOpen)
	if err != nil {
		log.WithError(err).Error("Failed to count open incidents")
		return nil, nil, fmt.Errorf("service: could not build dashboard: %w", err)
	}
	available, err := s.volunteers.CountAvailable(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to count available volunteers")
		return nil, nil, fmt.Errorf("service: could not build dashboard: %w", err)
	}
	resources, err := s.resources.Count(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to count resources")
		return nil, nil, fmt.Errorf("service: could not build dashboard: %w", err)
	}

	recent, err := s.incidents.ListRecent(ctx, 10)
	if err != nil {
		log.WithError(err).Error("Failed to list recent incidents")
		return nil, nil, fmt.Errorf("service: could not build dashboard: %w", err)
	}

	stats := &models.DashboardStats{
		TotalIncidents:      total,
		OpenIncidents:       open,
		AvailableVolunteers: available,
		ResourceItems:       resources,
	}
	return stats, recent, nil
}

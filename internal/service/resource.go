package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ddr-ops/disaster_response_system/internal/models"
)

// ResourceRepository определяет контракт для работы с бд ресурсов
type ResourceRepository interface {
	Create(ctx context.Context, resource *models.Resource) error
	List(ctx context.Context) ([]*models.Resource, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
}

// ResourceService определяет контракт для учета ресурсов помощи
type ResourceService interface {
	Add(ctx context.Context, resource *models.Resource) error
	List(ctx context.Context) ([]*models.Resource, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type resourceService struct {
	resources ResourceRepository
	logger    *logrus.Logger
}

func NewResourceService(resources ResourceRepository, logger *logrus.Logger) ResourceService {
	return &resourceService{
		resources: resources,
		logger:    logger,
	}
}

// Add добавляет позицию ресурса
func (s *resourceService) Add(ctx context.Context, resource *models.Resource) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "resource",
		"method":  "Add",
		"type":    resource.Type,
	})
	log.Info("Attempting to add a resource")

	if err := s.resources.Create(ctx, resource); err != nil {
		log.WithError(err).Error("Failed to create resource in repository")
		return fmt.Errorf("service: could not add resource: %w", err)
	}

	log.WithField("resource_id", resource.ID).Info("Resource added successfully")
	return nil
}

// List возвращает ресурсы, упорядоченные по типу
func (s *resourceService) List(ctx context.Context) ([]*models.Resource, error) {
	resources, err := s.resources.List(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list resources from repository")
		return nil, fmt.Errorf("service: could not list resources: %w", err)
	}
	return resources, nil
}

// Delete удаляет ресурс. Единственная сущность с жестким удалением.
func (s *resourceService) Delete(ctx context.Context, id uuid.UUID) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "resource",
		"method":      "Delete",
		"resource_id": id,
	})
	log.Info("Attempting to delete a resource")

	if err := s.resources.Delete(ctx, id); err != nil {
		log.WithError(err).Warn("Failed to delete resource in repository")
		return fmt.Errorf("service: could not delete resource: %w", err)
	}

	log.Info("Resource deleted successfully")
	return nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ddr-ops/disaster_response_system/internal/apperr"
	"github.com/ddr-ops/disaster_response_system/internal/models"
	"github.com/ddr-ops/disaster_response_system/internal/service"
)

type ResourceRepository struct {
	db *pgxpool.Pool
}

func NewResourceRepository(db *pgxpool.Pool) service.ResourceRepository {
	return &ResourceRepository{db: db}
}

// Create создает позицию ресурса
func (r *ResourceRepository) Create(ctx context.Context, resource *models.Resource) error {
	query := `
		INSERT INTO resources (type, qty, location)
		VALUES ($1, $2, $3) RETURNING id;
	`
	err := r.db.QueryRow(ctx, query,
		resource.Type,
		resource.Quantity,
		resource.Location,
	).Scan(&resource.ID)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}
	return nil
}

// List возвращает ресурсы, упорядоченные по типу
func (r *ResourceRepository) List(ctx context.Context) ([]*models.Resource, error) {
	query := `
		SELECT id, type, qty, location
		FROM resources
		ORDER BY type;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	defer rows.Close()

	resources := make([]*models.Resource, 0)
	for rows.Next() {
		resource := &models.Resource{}
		err := rows.Scan(
			&resource.ID,
			&resource.Type,
			&resource.Quantity,
			&resource.Location,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resource row: %w", err)
		}
		resources = append(resources, resource)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error resources iteration: %w", err)
	}
	return resources, nil
}

// Delete жестко удаляет ресурс
func (r *ResourceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM resources WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("failed to delete resource: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("resource with id %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}

// Count возвращает число позиций ресурсов
func (r *ResourceRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM resources;`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count resources: %w", err)
	}
	return count, nil
}

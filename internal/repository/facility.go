package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ddr-ops/disaster_response_system/internal/models"
	"github.com/ddr-ops/disaster_response_system/internal/service"
)

type FacilityRepository struct {
	db *pgxpool.Pool
}

func NewFacilityRepository(db *pgxpool.Pool) service.FacilityRepository {
	return &FacilityRepository{db: db}
}

// ListHospitals возвращает справочник больниц
func (r *FacilityRepository) ListHospitals(ctx context.Context) ([]*models.Hospital, error) {
	query := `
		SELECT id, name, lat, lng, capacity
		FROM hospitals
		ORDER BY name;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list hospitals: %w", err)
	}
	defer rows.Close()

	hospitals := make([]*models.Hospital, 0)
	for rows.Next() {
		hospital := &models.Hospital{}
		err := rows.Scan(
			&hospital.ID,
			&hospital.Name,
			&hospital.Lat,
			&hospital.Lng,
			&hospital.Capacity,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan hospital row: %w", err)
		}
		hospitals = append(hospitals, hospital)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error hospitals iteration: %w", err)
	}
	return hospitals, nil
}

// ListShelters возвращает справочник убежищ
func (r *FacilityRepository) ListShelters(ctx context.Context) ([]*models.Shelter, error) {
	query := `
		SELECT id, name, lat, lng, capacity
		FROM shelters
		ORDER BY name;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list shelters: %w", err)
	}
	defer rows.Close()

	shelters := make([]*models.Shelter, 0)
	for rows.Next() {
		shelter := &models.Shelter{}
		err := rows.Scan(
			&shelter.ID,
			&shelter.Name,
			&shelter.Lat,
			&shelter.Lng,
			&shelter.Capacity,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shelter row: %w", err)
		}
		shelters = append(shelters, shelter)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error shelters iteration: %w", err)
	}
	return shelters, nil
}

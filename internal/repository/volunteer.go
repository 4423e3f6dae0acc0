package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ddr-ops/disaster_response_system/internal/apperr"
	"github.com/ddr-ops/disaster_response_system/internal/models"
	"github.com/ddr-ops/disaster_response_system/internal/service"
)

type VolunteerRepository struct {
	db *pgxpool.Pool
}

func NewVolunteerRepository(db *pgxpool.Pool) service.VolunteerRepository {
	return &VolunteerRepository{db: db}
}

// Create создает профиль волонтера, при регистрации - привязанный
// к учетной записи через UserID
func (r *VolunteerRepository) Create(ctx context.Context, volunteer *models.Volunteer) error {
	query := `
		INSERT INTO volunteers (user_id, name, phone, lat, lng, available)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id;
	`
	err := r.db.QueryRow(ctx, query,
		volunteer.UserID,
		volunteer.Name,
		volunteer.Phone,
		volunteer.Lat,
		volunteer.Lng,
		volunteer.Available,
	).Scan(&volunteer.ID)
	if err != nil {
		return fmt.Errorf("failed to create volunteer: %w", err)
	}
	return nil
}

// GetByID возвращает волонтера по его UUID
func (r *VolunteerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Volunteer, error) {
	volunteer := &models.Volunteer{}
	query := `
		SELECT id, user_id, name, phone, lat, lng, available
		FROM volunteers
		WHERE id = $1;
	`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&volunteer.ID,
		&volunteer.UserID,
		&volunteer.Name,
		&volunteer.Phone,
		&volunteer.Lat,
		&volunteer.Lng,
		&volunteer.Available,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("volunteer with id %s: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get volunteer by id: %w", err)
	}
	return volunteer, nil
}

// GetByUserID возвращает профиль волонтера, привязанный к учетной записи.
// Через него хендлеры отображают идентичность запроса на задачи.
func (r *VolunteerRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Volunteer, error) {
	volunteer := &models.Volunteer{}
	query := `
		SELECT id, user_id, name, phone, lat, lng, available
		FROM volunteers
		WHERE user_id = $1;
	`
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&volunteer.ID,
		&volunteer.UserID,
		&volunteer.Name,
		&volunteer.Phone,
		&volunteer.Lat,
		&volunteer.Lng,
		&volunteer.Available,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("volunteer profile for user %s: %w", userID, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get volunteer by user id: %w", err)
	}
	return volunteer, nil
}

// ListAvailable возвращает доступных волонтеров
func (r *VolunteerRepository) ListAvailable(ctx context.Context) ([]*models.Volunteer, error) {
	query := `
		SELECT id, user_id, name, phone, lat, lng, available
		FROM volunteers
		WHERE available = TRUE;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list available volunteers: %w", err)
	}
	defer rows.Close()

	volunteers := make([]*models.Volunteer, 0)
	for rows.Next() {
		volunteer := &models.Volunteer{}
		err := rows.Scan(
			&volunteer.ID,
			&volunteer.UserID,
			&volunteer.Name,
			&volunteer.Phone,
			&volunteer.Lat,
			&volunteer.Lng,
			&volunteer.Available,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan volunteer row: %w", err)
		}
		volunteers = append(volunteers, volunteer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error volunteers iteration: %w", err)
	}
	return volunteers, nil
}

// ListPhones возвращает непустые номера телефонов всех волонтеров
func (r *VolunteerRepository) ListPhones(ctx context.Context) ([]string, error) {
	query := `
		SELECT phone
		FROM volunteers
		WHERE phone IS NOT NULL AND phone != '';
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list volunteer phones: %w", err)
	}
	defer rows.Close()

	phones := make([]string, 0)
	for rows.Next() {
		var phone string
		if err := rows.Scan(&phone); err != nil {
			return nil, fmt.Errorf("failed to scan volunteer phone: %w", err)
		}
		phones = append(phones, phone)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error phones iteration: %w", err)
	}
	return phones, nil
}

// CountAvailable возвращает число доступных волонтеров
func (r *VolunteerRepository) CountAvailable(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM volunteers WHERE available = TRUE;`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count available volunteers: %w", err)
	}
	return count, nil
}

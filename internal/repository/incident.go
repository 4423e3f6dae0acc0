package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/ddr-ops/disaster_response_system/internal/apperr"
	"github.com/ddr-ops/disaster_response_system/internal/models"
	"github.com/ddr-ops/disaster_response_system/internal/service"
)

const (
	incidentListCacheKey = "incidents:all"
	incidentListCacheTTL = time.Minute
)

type IncidentRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
}

func NewIncidentRepository(db *pgxpool.Pool, redisClient *redis.Client) service.IncidentRepository {
	return &IncidentRepository{
		db:          db,
		redisClient: redisClient,
	}
}

// Create создает новую запись об инциденте в бд
func (r *IncidentRepository) Create(ctx context.Context, incident *models.Incident) error {
	query := `
		INSERT INTO incidents (type, severity, lat, lng, status, reported_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id;
	`
	err := r.db.QueryRow(ctx, query,
		incident.Type,
		incident.Severity,
		incident.Lat,
		incident.Lng,
		incident.Status,
		incident.ReportedAt,
	).Scan(&incident.ID)
	if err != nil {
		return fmt.Errorf("failed to create incident: %w", err)
	}
	return nil
}

// GetByID возвращает инцидент по его UUID
func (r *IncidentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	incident := &models.Incident{}
	query := `
		SELECT id, type, severity, lat, lng, status, reported_at
		FROM incidents
		WHERE id = $1;
	`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&incident.ID,
		&incident.Type,
		&incident.Severity,
		&incident.Lat,
		&incident.Lng,
		&incident.Status,
		&incident.ReportedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("incident with id %s: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get incident by id: %w", err)
	}
	return incident, nil
}

// UpdateStatus выставляет статус инцидента
func (r *IncidentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `
		UPDATE incidents SET status = $1 WHERE id = $2;
	`
	cmdTag, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update incident status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("incident with id %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}

func scanIncidents(rows pgx.Rows) ([]*models.Incident, error) {
	incidents := make([]*models.Incident, 0)
	for rows.Next() {
		incident := &models.Incident{}
		err := rows.Scan(
			&incident.ID,
			&incident.Type,
			&incident.Severity,
			&incident.Lat,
			&incident.Lng,
			&incident.Status,
			&incident.ReportedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident row: %w", err)
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return incidents, nil
}

// List возвращает все инциденты
func (r *IncidentRepository) List(ctx context.Context) ([]*models.Incident, error) {
	query := `
		SELECT id, type, severity, lat, lng, status, reported_at
		FROM incidents
		ORDER BY reported_at DESC;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}
	defer rows.Close()
	return scanIncidents(rows)
}

// ListRecent возвращает последние инциденты для панели
func (r *IncidentRepository) ListRecent(ctx context.Context, limit int) ([]*models.Incident, error) {
	query := `
		SELECT id, type, severity, lat, lng, status, reported_at
		FROM incidents
		ORDER BY reported_at DESC
		LIMIT $1;
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent incidents: %w", err)
	}
	defer rows.Close()
	return scanIncidents(rows)
}

// ListActive возвращает открытые и взятые в работу инциденты
// по убыванию серьезности - для страницы назначения
func (r *IncidentRepository) ListActive(ctx context.Context) ([]*models.Incident, error) {
	query := `
		SELECT id, type, severity, lat, lng, status, reported_at
		FROM incidents
		WHERE status IN ('open', 'in_progress')
		ORDER BY severity DESC;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active incidents: %w", err)
	}
	defer rows.Close()
	return scanIncidents(rows)
}

// Hotspots возвращает веса тепловой карты по открытым инцидентам
func (r *IncidentRepository) Hotspots(ctx context.Context) ([]*models.Hotspot, error) {
	query := `
		SELECT lat, lng, severity
		FROM incidents
		WHERE status = 'open'
		ORDER BY severity DESC;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list hotspots: %w", err)
	}
	defer rows.Close()

	hotspots := make([]*models.Hotspot, 0)
	for rows.Next() {
		hotspot := &models.Hotspot{}
		if err := rows.Scan(&hotspot.Lat, &hotspot.Lng, &hotspot.W); err != nil {
			return nil, fmt.Errorf("failed to scan hotspot row: %w", err)
		}
		hotspots = append(hotspots, hotspot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error hotspots iteration: %w", err)
	}
	return hotspots, nil
}

// Count возвращает общее число инцидентов
func (r *IncidentRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM incidents;`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count incidents: %w", err)
	}
	return count, nil
}

// CountByStatus возвращает число инцидентов в заданном статусе
func (r *IncidentRepository) CountByStatus(ctx context.Context, status string) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM incidents WHERE status = $1;`, status).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count incidents by status: %w", err)
	}
	return count, nil
}

// GetListFromCache пытается получить список инцидентов из Redis
func (r *IncidentRepository) GetListFromCache(ctx context.Context) ([]*models.Incident, error) {
	val, err := r.redisClient.Get(ctx, incidentListCacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get incident list from cache: %w", err)
	}

	incidents := make([]*models.Incident, 0)
	if err := json.Unmarshal(val, &incidents); err != nil {
		return nil, fmt.Errorf("failed to unmarshal incident list from cache: %w", err)
	}
	return incidents, nil
}

// SetListCache сохраняет список инцидентов в Redis
func (r *IncidentRepository) SetListCache(ctx context.Context, incidents []*models.Incident) error {
	val, err := json.Marshal(incidents)
	if err != nil {
		return fmt.Errorf("failed to marshal incident list for cache: %w", err)
	}
	if err := r.redisClient.Set(ctx, incidentListCacheKey, val, incidentListCacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to set incident list in cache: %w", err)
	}
	return nil
}

// InvalidateListCache удаляет список инцидентов из Redis кэша
func (r *IncidentRepository) InvalidateListCache(ctx context.Context) error {
	if err := r.redisClient.Del(ctx, incidentListCacheKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate incident list cache: %w", err)
	}
	return nil
}

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

type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) service.TaskRepository {
	return &TaskRepository{db: db}
}

// Assign создает задачу в статусе assigned и переводит инцидент в in_progress
// одной транзакцией. Раньше это были два независимых шага с гонкой между
// проверкой и записью - теперь либо обе записи фиксируются, либо ни одной.
func (r *TaskRepository) Assign(ctx context.Context, incidentID, volunteerID uuid.UUID) (*models.Task, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin assign transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Существование волонтера проверяется внутри транзакции
	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM volunteers WHERE id = $1);`, volunteerID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check volunteer existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("volunteer with id %s: %w", volunteerID, apperr.ErrNotFound)
	}

	task := &models.Task{
		IncidentID:  incidentID,
		VolunteerID: volunteerID,
		Status:      models.TaskStatusAssigned,
	}
	insertQuery := `
		INSERT INTO tasks (incident_id, volunteer_id, status)
		VALUES ($1, $2, $3) RETURNING id, created_at;
	`
	err = tx.QueryRow(ctx, insertQuery, incidentID, volunteerID, task.Status).Scan(&task.ID, &task.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	cmdTag, err := tx.Exec(ctx, `UPDATE incidents SET status = $1 WHERE id = $2;`, models.IncidentStatusInProgress, incidentID)
	if err != nil {
		return nil, fmt.Errorf("failed to update incident status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, fmt.Errorf("incident with id %s: %w", incidentID, apperr.ErrNotFound)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit assign transaction: %w", err)
	}
	return task, nil
}

// ListByVolunteer возвращает задачи волонтера вместе с инцидентами, новые первыми
func (r *TaskRepository) ListByVolunteer(ctx context.Context, volunteerID uuid.UUID) ([]*models.TaskWithIncident, error) {
	query := `
		SELECT
			t.id, t.incident_id, t.volunteer_id, t.resource_id, t.status, t.created_at,
			i.id, i.type, i.severity, i.lat, i.lng, i.status, i.reported_at
		FROM tasks t
		JOIN incidents i ON i.id = t.incident_id
		WHERE t.volunteer_id = $1
		ORDER BY t.created_at DESC;
	`
	rows, err := r.db.Query(ctx, query, volunteerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list volunteer tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*models.TaskWithIncident, 0)
	for rows.Next() {
		task := &models.TaskWithIncident{Incident: &models.Incident{}}
		err := rows.Scan(
			&task.ID,
			&task.IncidentID,
			&task.VolunteerID,
			&task.ResourceID,
			&task.Status,
			&task.CreatedAt,
			&task.Incident.ID,
			&task.Incident.Type,
			&task.Incident.Severity,
			&task.Incident.Lat,
			&task.Incident.Lng,
			&task.Incident.Status,
			&task.Incident.ReportedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error tasks iteration: %w", err)
	}
	return tasks, nil
}

// UpdateStatusForVolunteer обновляет статус задачи, принадлежащей волонтеру,
// и возвращает id родительского инцидента
func (r *TaskRepository) UpdateStatusForVolunteer(ctx context.Context, taskID, volunteerID uuid.UUID, status string) (uuid.UUID, error) {
	query := `
		UPDATE tasks SET status = $1
		WHERE id = $2 AND volunteer_id = $3
		RETURNING incident_id;
	`
	var incidentID uuid.UUID
	err := r.db.QueryRow(ctx, query, status, taskID, volunteerID).Scan(&incidentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, fmt.Errorf("task with id %s for volunteer %s: %w", taskID, volunteerID, apperr.ErrNotFound)
		}
		return uuid.Nil, fmt.Errorf("failed to update task status: %w", err)
	}
	return incidentID, nil
}

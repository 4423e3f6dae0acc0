package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ddr-ops/disaster_response_system/internal/models"
	"github.com/ddr-ops/disaster_response_system/internal/notify"
)

// VolunteerRepository определяет контракт для работы с бд волонтеров
type VolunteerRepository interface {
	Create(ctx context.Context, volunteer *models.Volunteer) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Volunteer, error)
	// GetByUserID возвращает профиль, привязанный к учетной записи
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Volunteer, error)
	ListAvailable(ctx context.Context) ([]*models.Volunteer, error)
	ListPhones(ctx context.Context) ([]string, error)
	CountAvailable(ctx context.Context) (int, error)
}

// TaskRepository определяет контракт для работы с бд задач
type TaskRepository interface {
	// Assign атомарно создает задачу и переводит инцидент в in_progress
	Assign(ctx context.Context, incidentID, volunteerID uuid.UUID) (*models.Task, error)
	ListByVolunteer(ctx context.Context, volunteerID uuid.UUID) ([]*models.TaskWithIncident, error)
	// UpdateStatusForVolunteer обновляет задачу только если она принадлежит
	// волонтеру и возвращает id родительского инцидента
	UpdateStatusForVolunteer(ctx context.Context, taskID, volunteerID uuid.UUID, status string) (uuid.UUID, error)
}

// AssignmentService определяет контракт для потока назначения задач.
// Операции волонтера принимают id учетной записи из идентичности запроса;
// сервис сам разрешает его в профиль волонтера.
type AssignmentService interface {
	Assign(ctx context.Context, incidentID, volunteerID uuid.UUID) (*models.Task, error)
	Board(ctx context.Context) (*models.AssignmentBoard, error)
	TasksForVolunteer(ctx context.Context, userID uuid.UUID) ([]*models.TaskWithIncident, error)
	UpdateTaskStatus(ctx context.Context, userID, taskID uuid.UUID, status string) error
}

type assignmentService struct {
	tasks      TaskRepository
	incidents  IncidentRepository
	volunteers VolunteerRepository
	publisher  notify.Publisher
	logger     *logrus.Logger
}

func NewAssignmentService(tasks TaskRepository, incidents IncidentRepository, volunteers VolunteerRepository, publisher notify.Publisher, logger *logrus.Logger) AssignmentService {
	return &assignmentService{
		tasks:      tasks,
		incidents:  incidents,
		volunteers: volunteers,
		publisher:  publisher,
		logger:     logger,
	}
}

// Assign назначает волонтера на инцидент: одна транзакция создает задачу
// в статусе assigned и безусловно переводит инцидент в in_progress.
// Отсутствие инцидента или волонтера оставляет хранилище нетронутым.
func (s *assignmentService) Assign(ctx context.Context, incidentID, volunteerID uuid.UUID) (*models.Task, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":      "assignment",
		"method":       "Assign",
		"incident_id":  incidentID,
		"volunteer_id": volunteerID,
	})
	log.Info("Attempting to assign a volunteer to an incident")

	incident, err := s.incidents.GetByID(ctx, incidentID)
	if err != nil {
		log.WithError(err).Warn("Incident lookup failed for assignment")
		return nil, fmt.Errorf("service: incident lookup: %w", err)
	}
	volunteer, err := s.volunteers.GetByID(ctx, volunteerID)
	if err != nil {
		log.WithError(err).Warn("Volunteer lookup failed for assignment")
		return nil, fmt.Errorf("service: volunteer lookup: %w", err)
	}

	task, err := s.tasks.Assign(ctx, incidentID, volunteerID)
	if err != nil {
		log.WithError(err).Error("Failed to assign task in repository")
		return nil, fmt.Errorf("service: could not assign task: %w", err)
	}

	if err := s.incidents.InvalidateListCache(ctx); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident list cache")
	}

	// Уведомление волонтеру уходит через очередь после фиксации транзакции.
	// Сбой публикации не отменяет назначение.
	if volunteer.Phone != "" {
		msg := notify.Message{
			Phone:      volunteer.Phone,
			Body:       fmt.Sprintf("New Task Assigned! Incident: %s. Location: %.4f, %.4f. Please check the app for details.", incident.Type, incident.Lat, incident.Lng),
			WhatsApp:   true,
			TaskID:     task.ID,
			IncidentID: incidentID,
			QueuedAt:   time.Now(),
		}
		if err := s.publisher.Publish(ctx, msg); err != nil {
			log.WithError(err).Warn("Failed to publish assignment notification")
		}
	}

	log.WithField("task_id", task.ID).Info("Task assigned successfully")
	return task, nil
}

// Board возвращает данные страницы назначения: открытые и взятые в работу
// инциденты по убыванию серьезности плюс доступные волонтеры
func (s *assignmentService) Board(ctx context.Context) (*models.AssignmentBoard, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "assignment",
		"method":  "Board",
	})

	incidents, err := s.incidents.ListActive(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to list active incidents")
		return nil, fmt.Errorf("service: could not build assignment board: %w", err)
	}
	volunteers, err := s.volunteers.ListAvailable(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to list available volunteers")
		return nil, fmt.Errorf("service: could not build assignment board: %w", err)
	}

	return &models.AssignmentBoard{
		Incidents:  incidents,
		Volunteers: volunteers,
	}, nil
}

// TasksForVolunteer возвращает задачи волонтера, новые первыми.
// Учетная запись вызывающего разрешается в профиль волонтера: задачи
// хранятся по id профиля, а не по id пользователя.
func (s *assignmentService) TasksForVolunteer(ctx context.Context, userID uuid.UUID) ([]*models.TaskWithIncident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "assignment",
		"method":  "TasksForVolunteer",
		"user_id": userID,
	})

	volunteer, err := s.volunteers.GetByUserID(ctx, userID)
	if err != nil {
		log.WithError(err).Warn("Volunteer profile lookup failed")
		return nil, fmt.Errorf("service: volunteer profile lookup: %w", err)
	}

	tasks, err := s.tasks.ListByVolunteer(ctx, volunteer.ID)
	if err != nil {
		log.WithError(err).Error("Failed to list volunteer tasks")
		return nil, fmt.Errorf("service: could not list volunteer tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTaskStatus выставляет статус задачи волонтера и зеркалит его
// на родительский инцидент. Обратный переход в open разрешен - это
// сознательный операторский откат, монотонность не навязывается.
func (s *assignmentService) UpdateTaskStatus(ctx context.Context, userID, taskID uuid.UUID, status string) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "assignment",
		"method":  "UpdateTaskStatus",
		"user_id": userID,
		"task_id": taskID,
		"status":  status,
	})
	log.Info("Attempting to update task status")

	volunteer, err := s.volunteers.GetByUserID(ctx, userID)
	if err != nil {
		log.WithError(err).Warn("Volunteer profile lookup failed")
		return fmt.Errorf("service: volunteer profile lookup: %w", err)
	}

	incidentID, err := s.tasks.UpdateStatusForVolunteer(ctx, taskID, volunteer.ID, status)
	if err != nil {
		log.WithError(err).Warn("Failed to update task status in repository")
		return fmt.Errorf("service: could not update task status: %w", err)
	}

	if err := s.incidents.UpdateStatus(ctx, incidentID, status); err != nil {
		log.WithError(err).Error("Failed to mirror status to incident")
		return fmt.Errorf("service: could not update incident status: %w", err)
	}

	if err := s.incidents.InvalidateListCache(ctx); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident list cache")
	}

	log.Info("Task status updated successfully")
	return nil
}

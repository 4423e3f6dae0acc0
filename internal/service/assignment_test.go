package service

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ddr-ops/disaster_response_system/internal/apperr"
	"github.com/ddr-ops/disaster_response_system/internal/models"
	"github.com/ddr-ops/disaster_response_system/internal/notify"
	notify_mocks "github.com/ddr-ops/disaster_response_system/internal/notify/mocks"
	"github.com/ddr-ops/disaster_response_system/internal/service/mocks"
)

// newTestAssignmentService — вспомогательная функция для создания инстанса сервиса с моками.
func newTestAssignmentService(t *testing.T) (*assignmentService, *mocks.MockTaskRepository, *mocks.MockIncidentRepository, *mocks.MockVolunteerRepository, *notify_mocks.MockPublisher) {
	ctrl := gomock.NewController(t)
	tasksMock := mocks.NewMockTaskRepository(ctrl)
	incidentsMock := mocks.NewMockIncidentRepository(ctrl)
	volunteersMock := mocks.NewMockVolunteerRepository(ctrl)
	publisherMock := notify_mocks.NewMockPublisher(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	service := NewAssignmentService(tasksMock, incidentsMock, volunteersMock, publisherMock, logger)
	return service.(*assignmentService), tasksMock, incidentsMock, volunteersMock, publisherMock
}

func TestAssign_Success(t *testing.T) {
	// Подготовка
	service, tasksMock, incidentsMock, volunteersMock, publisherMock := newTestAssignmentService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	volunteerID := uuid.New()
	incident := &models.Incident{
		ID:       incidentID,
		Type:     "flood",
		Lat:      28.6139,
		Lng:      77.2090,
		Status:   models.IncidentStatusOpen,
		Severity: 4,
	}
	volunteer := &models.Volunteer{
		ID:    volunteerID,
		Name:  "Иван",
		Phone: "+911111111111",
	}
	createdTask := &models.Task{
		ID:          uuid.New(),
		IncidentID:  incidentID,
		VolunteerID: volunteerID,
		Status:      models.TaskStatusAssigned,
	}

	// Ожидания
	// 1. Оба участника существуют
	incidentsMock.EXPECT().GetByID(ctx, incidentID).Return(incident, nil).Times(1)
	volunteersMock.EXPECT().GetByID(ctx, volunteerID).Return(volunteer, nil).Times(1)

	// 2. Транзакционное назначение
	tasksMock.EXPECT().Assign(ctx, incidentID, volunteerID).Return(createdTask, nil).Times(1)

	// 3. Кэш списка сбрасывается
	incidentsMock.EXPECT().InvalidateListCache(ctx).Return(nil).Times(1)

	// 4. Уведомление уходит в очередь после фиксации
	publisherMock.EXPECT().
		Publish(ctx, gomock.Any()).
		Do(func(ctx context.Context, msg notify.Message) {
			assert.Equal(t, volunteer.Phone, msg.Phone)
			assert.True(t, msg.WhatsApp)
			assert.Equal(t, createdTask.ID, msg.TaskID)
			assert.Contains(t, msg.Body, "flood")
			assert.False(t, msg.QueuedAt.IsZero())
		}).Return(nil).Times(1)

	// Действие
	task, err := service.Assign(ctx, incidentID, volunteerID)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, createdTask, task)
}

func TestAssign_IncidentNotFound(t *testing.T) {
	// Подготовка
	service, tasksMock, incidentsMock, _, publisherMock := newTestAssignmentService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	volunteerID := uuid.New()

	// Ожидания
	incidentsMock.EXPECT().
		GetByID(ctx, incidentID).
		Return(nil, fmt.Errorf("incident with id %s: %w", incidentID, apperr.ErrNotFound)).
		Times(1)

	// Назначение не доходит до записи и уведомлений
	tasksMock.EXPECT().Assign(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	publisherMock.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	task, err := service.Assign(ctx, incidentID, volunteerID)

	// Проверки
	require.Error(t, err)
	assert.Nil(t, task)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestAssign_VolunteerNotFound(t *testing.T) {
	// Подготовка
	service, tasksMock, incidentsMock, volunteersMock, publisherMock := newTestAssignmentService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	volunteerID := uuid.New()
	incident := &models.Incident{ID: incidentID, Type: "fire"}

	// Ожидания
	incidentsMock.EXPECT().GetByID(ctx, incidentID).Return(incident, nil).Times(1)
	volunteersMock.EXPECT().
		GetByID(ctx, volunteerID).
		Return(nil, fmt.Errorf("volunteer with id %s: %w", volunteerID, apperr.ErrNotFound)).
		Times(1)

	tasksMock.EXPECT().Assign(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	publisherMock.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	task, err := service.Assign(ctx, incidentID, volunteerID)

	// Проверки
	require.Error(t, err)
	assert.Nil(t, task)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestAssign_PublishFailureDoesNotUndoAssignment(t *testing.T) {
	// Подготовка
	service, tasksMock, incidentsMock, volunteersMock, publisherMock := newTestAssignmentService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	volunteerID := uuid.New()
	incident := &models.Incident{ID: incidentID, Type: "flood"}
	volunteer := &models.Volunteer{ID: volunteerID, Phone: "+911111111111"}
	createdTask := &models.Task{ID: uuid.New(), IncidentID: incidentID, VolunteerID: volunteerID}

	// Ожидания
	incidentsMock.EXPECT().GetByID(ctx, incidentID).Return(incident, nil).Times(1)
	volunteersMock.EXPECT().GetByID(ctx, volunteerID).Return(volunteer, nil).Times(1)
	tasksMock.EXPECT().Assign(ctx, incidentID, volunteerID).Return(createdTask, nil).Times(1)
	incidentsMock.EXPECT().InvalidateListCache(ctx).Return(nil).Times(1)
	publisherMock.EXPECT().Publish(ctx, gomock.Any()).Return(fmt.Errorf("redis down")).Times(1)

	// Действие
	task, err := service.Assign(ctx, incidentID, volunteerID)

	// Проверки
	// Назначение зафиксировано, сбой очереди только логируется
	require.NoError(t, err)
	assert.Equal(t, createdTask, task)
}

func TestAssign_VolunteerWithoutPhone_SkipsNotification(t *testing.T) {
	// Подготовка
	service, tasksMock, incidentsMock, volunteersMock, publisherMock := newTestAssignmentService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	volunteerID := uuid.New()
	incident := &models.Incident{ID: incidentID, Type: "flood"}
	volunteer := &models.Volunteer{ID: volunteerID, Phone: ""}
	createdTask := &models.Task{ID: uuid.New()}

	// Ожидания
	incidentsMock.EXPECT().GetByID(ctx, incidentID).Return(incident, nil).Times(1)
	volunteersMock.EXPECT().GetByID(ctx, volunteerID).Return(volunteer, nil).Times(1)
	tasksMock.EXPECT().Assign(ctx, incidentID, volunteerID).Return(createdTask, nil).Times(1)
	incidentsMock.EXPECT().InvalidateListCache(ctx).Return(nil).Times(1)
	publisherMock.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	_, err := service.Assign(ctx, incidentID, volunteerID)

	// Проверки
	require.NoError(t, err)
}

func TestBoard_Success(t *testing.T) {
	// Подготовка
	service, _, incidentsMock, volunteersMock, _ := newTestAssignmentService(t)
	ctx := context.Background()
	expectedIncidents := []*models.Incident{
		{ID: uuid.New(), Severity: 5, Status: models.IncidentStatusOpen},
		{ID: uuid.New(), Severity: 3, Status: models.IncidentStatusInProgress},
	}
	expectedVolunteers := []*models.Volunteer{
		{ID: uuid.New(), Name: "Анна", Available: true},
	}

	// Ожидания
	incidentsMock.EXPECT().ListActive(ctx).Return(expectedIncidents, nil).Times(1)
	volunteersMock.EXPECT().ListAvailable(ctx).Return(expectedVolunteers, nil).Times(1)

	// Действие
	board, err := service.Board(ctx)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, expectedIncidents, board.Incidents)
	assert.Equal(t, expectedVolunteers, board.Volunteers)
}

func TestUpdateTaskStatus_Success(t *testing.T) {
	// Подготовка
	service, tasksMock, incidentsMock, volunteersMock, _ := newTestAssignmentService(t)
	ctx := context.Background()
	userID := uuid.New()
	volunteerID := uuid.New()
	taskID := uuid.New()
	incidentID := uuid.New()

	// Ожидания
	// 1. Учетная запись резолвится в профиль волонтера: ID профиля
	//    и ID пользователя живут в разных таблицах
	volunteersMock.EXPECT().
		GetByUserID(ctx, userID).
		Return(&models.Volunteer{ID: volunteerID, UserID: &userID}, nil).
		Times(1)

	// 2. Задача обновляется только в пределах владения волонтера
	tasksMock.EXPECT().
		UpdateStatusForVolunteer(ctx, taskID, volunteerID, models.TaskStatusClosed).
		Return(incidentID, nil).
		Times(1)

	// 3. Статус зеркалится на родительский инцидент
	incidentsMock.EXPECT().UpdateStatus(ctx, incidentID, models.TaskStatusClosed).Return(nil).Times(1)
	incidentsMock.EXPECT().InvalidateListCache(ctx).Return(nil).Times(1)

	// Действие
	err := service.UpdateTaskStatus(ctx, userID, taskID, models.TaskStatusClosed)

	// Проверки
	require.NoError(t, err)
}

func TestUpdateTaskStatus_BackwardToOpenIsAllowed(t *testing.T) {
	// Подготовка
	service, tasksMock, incidentsMock, volunteersMock, _ := newTestAssignmentService(t)
	ctx := context.Background()
	userID := uuid.New()
	volunteerID := uuid.New()
	taskID := uuid.New()
	incidentID := uuid.New()

	// Ожидания
	// Обратный переход closed -> open разрешен как операторский откат
	volunteersMock.EXPECT().
		GetByUserID(ctx, userID).
		Return(&models.Volunteer{ID: volunteerID, UserID: &userID}, nil).
		Times(1)
	tasksMock.EXPECT().
		UpdateStatusForVolunteer(ctx, taskID, volunteerID, models.TaskStatusOpen).
		Return(incidentID, nil).
		Times(1)
	incidentsMock.EXPECT().UpdateStatus(ctx, incidentID, models.TaskStatusOpen).Return(nil).Times(1)
	incidentsMock.EXPECT().InvalidateListCache(ctx).Return(nil).Times(1)

	// Действие
	err := service.UpdateTaskStatus(ctx, userID, taskID, models.TaskStatusOpen)

	// Проверки
	require.NoError(t, err)
}

func TestUpdateTaskStatus_TaskNotOwned(t *testing.T) {
	// Подготовка
	service, tasksMock, incidentsMock, volunteersMock, _ := newTestAssignmentService(t)
	ctx := context.Background()
	userID := uuid.New()
	volunteerID := uuid.New()
	taskID := uuid.New()

	// Ожидания
	volunteersMock.EXPECT().
		GetByUserID(ctx, userID).
		Return(&models.Volunteer{ID: volunteerID, UserID: &userID}, nil).
		Times(1)
	tasksMock.EXPECT().
		UpdateStatusForVolunteer(ctx, taskID, volunteerID, models.TaskStatusClosed).
		Return(uuid.Nil, fmt.Errorf("task with id %s for volunteer %s: %w", taskID, volunteerID, apperr.ErrNotFound)).
		Times(1)

	// Инцидент не трогается
	incidentsMock.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	// Действие
	err := service.UpdateTaskStatus(ctx, userID, taskID, models.TaskStatusClosed)

	// Проверки
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateTaskStatus_NoVolunteerProfile(t *testing.T) {
	// Подготовка
	service, tasksMock, _, volunteersMock, _ := newTestAssignmentService(t)
	ctx := context.Background()
	userID := uuid.New()
	taskID := uuid.New()

	// Ожидания
	volunteersMock.EXPECT().
		GetByUserID(ctx, userID).
		Return(nil, fmt.Errorf("volunteer profile for user %s: %w", userID, apperr.ErrNotFound)).
		Times(1)

	// Без профиля запрос не доходит до задач
	tasksMock.EXPECT().UpdateStatusForVolunteer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	// Действие
	err := service.UpdateTaskStatus(ctx, userID, taskID, models.TaskStatusClosed)

	// Проверки
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestTasksForVolunteer_Success(t *testing.T) {
	// Подготовка
	service, tasksMock, _, volunteersMock, _ := newTestAssignmentService(t)
	ctx := context.Background()
	userID := uuid.New()
	volunteerID := uuid.New()
	expectedTasks := []*models.TaskWithIncident{
		{
			Task:     models.Task{ID: uuid.New(), VolunteerID: volunteerID},
			Incident: &models.Incident{ID: uuid.New(), Type: "flood"},
		},
	}

	// Ожидания
	// Список задач запрашивается по ID профиля, а не учетной записи
	volunteersMock.EXPECT().
		GetByUserID(ctx, userID).
		Return(&models.Volunteer{ID: volunteerID, UserID: &userID}, nil).
		Times(1)
	tasksMock.EXPECT().ListByVolunteer(ctx, volunteerID).Return(expectedTasks, nil).Times(1)

	// Действие
	tasks, err := service.TasksForVolunteer(ctx, userID)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, expectedTasks, tasks)
}

func TestTasksForVolunteer_NoProfile(t *testing.T) {
	// Подготовка
	service, tasksMock, _, volunteersMock, _ := newTestAssignmentService(t)
	ctx := context.Background()
	userID := uuid.New()

	// Ожидания
	volunteersMock.EXPECT().
		GetByUserID(ctx, userID).
		Return(nil, fmt.Errorf("volunteer profile for user %s: %w", userID, apperr.ErrNotFound)).
		Times(1)
	tasksMock.EXPECT().ListByVolunteer(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	tasks, err := service.TasksForVolunteer(ctx, userID)

	// Проверки
	require.Error(t, err)
	assert.Nil(t, tasks)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

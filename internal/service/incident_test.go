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

	"github.com/ddr-ops/disaster_response_system/internal/models"
	"github.com/ddr-ops/disaster_response_system/internal/service/mocks"
)

// newTestIncidentService — вспомогательная функция для создания инстанса сервиса с моками.
func newTestIncidentService(t *testing.T) (*incidentService, *mocks.MockIncidentRepository, *mocks.MockVolunteerRepository, *mocks.MockResourceRepository) {
	ctrl := gomock.NewController(t)
	incidentsMock := mocks.NewMockIncidentRepository(ctrl)
	volunteersMock := mocks.NewMockVolunteerRepository(ctrl)
	resourcesMock := mocks.NewMockResourceRepository(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	service := NewIncidentService(incidentsMock, volunteersMock, resourcesMock, logger)
	return service.(*incidentService), incidentsMock, volunteersMock, resourcesMock
}

func TestReportIncident_Success(t *testing.T) {
	// Подготовка
	service, incidentsMock, _, _ := newTestIncidentService(t)
	ctx := context.Background()
	incidentToReport := &models.Incident{
		Type:     "flood",
		Severity: 4,
		Lat:      28.6139,
		Lng:      77.2090,
	}

	// Ожидания
	incidentsMock.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(ctx context.Context, inc *models.Incident) error {
			// Симулируем, что БД присвоила ID
			inc.ID = uuid.New()
			return nil
		}).Times(1)

	incidentsMock.EXPECT().
		InvalidateListCache(ctx).
		Return(nil).
		Times(1)

	// Действие
	err := service.Report(ctx, incidentToReport)

	// Проверки
	require.NoError(t, err)
	// Новый инцидент всегда открыт, время проставляет сервер
	assert.Equal(t, models.IncidentStatusOpen, incidentToReport.Status)
	assert.False(t, incidentToReport.ReportedAt.IsZero())
	assert.NotEqual(t, uuid.Nil, incidentToReport.ID)
}

func TestReportIncident_RepoError(t *testing.T) {
	// Подготовка
	service, incidentsMock, _, _ := newTestIncidentService(t)
	ctx := context.Background()
	incidentToReport := &models.Incident{Type: "fire", Severity: 5}
	dbError := fmt.Errorf("connection refused")

	// Ожидания
	incidentsMock.EXPECT().
		Create(ctx, gomock.Any()).
		Return(dbError).
		Times(1)

	// Действие
	err := service.Report(ctx, incidentToReport)

	// Проверки
	require.Error(t, err)
	assert.ErrorContains(t, err, "could not report incident")
}

func TestReportIncident_CacheInvalidationFailureIsNotFatal(t *testing.T) {
	// Подготовка
	service, incidentsMock, _, _ := newTestIncidentService(t)
	ctx := context.Background()
	incidentToReport := &models.Incident{Type: "earthquake", Severity: 5}

	// Ожидания
	incidentsMock.EXPECT().Create(ctx, gomock.Any()).Return(nil).Times(1)
	incidentsMock.EXPECT().InvalidateListCache(ctx).Return(fmt.Errorf("redis down")).Times(1)

	// Действие
	err := service.Report(ctx, incidentToReport)

	// Проверки
	// Сбой кэша не отменяет уже записанный инцидент
	require.NoError(t, err)
}

func TestDashboard_Success(t *testing.T) {
	// Подготовка
	service, incidentsMock, volunteersMock, resourcesMock := newTestIncidentService(t)
	ctx := context.Background()
	expectedRecent := []*models.Incident{
		{ID: uuid.New(), Type: "flood", Status: models.IncidentStatusOpen},
		{ID: uuid.New(), Type: "fire", Status: models.IncidentStatusClosed},
	}

	// Ожидания
	incidentsMock.EXPECT().Count(ctx).Return(12, nil).Times(1)
	incidentsMock.EXPECT().CountByStatus(ctx, models.IncidentStatusOpen).Return(5, nil).Times(1)
	volunteersMock.EXPECT().CountAvailable(ctx).Return(3, nil).Times(1)
	resourcesMock.EXPECT().Count(ctx).Return(7, nil).Times(1)
	incidentsMock.EXPECT().ListRecent(ctx, 10).Return(expectedRecent, nil).Times(1)

	// Действие
	stats, recent, err := service.Dashboard(ctx)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, 12, stats.TotalIncidents)
	assert.Equal(t, 5, stats.OpenIncidents)
	assert.Equal(t, 3, stats.AvailableVolunteers)
	assert.Equal(t, 7, stats.ResourceItems)
	assert.Equal(t, expectedRecent, recent)
}

func TestDashboard_CountError(t *testing.T) {
	// Подготовка
	service, incidentsMock, _, _ := newTestIncidentService(t)
	ctx := context.Background()
	dbError := fmt.Errorf("connection refused")

	// Ожидания
	incidentsMock.EXPECT().Count(ctx).Return(0, dbError).Times(1)

	// Действие
	stats, recent, err := service.Dashboard(ctx)

	// Проверки
	require.Error(t, err)
	assert.Nil(t, stats)
	assert.Nil(t, recent)
	assert.ErrorContains(t, err, "could not build dashboard")
}

package service

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	alert_mocks "github.com/ddr-ops/disaster_response_system/internal/alert/mocks"
	"github.com/ddr-ops/disaster_response_system/internal/apperr"
	"github.com/ddr-ops/disaster_response_system/internal/config"
	hazard_mocks "github.com/ddr-ops/disaster_response_system/internal/hazard/mocks"
	"github.com/ddr-ops/disaster_response_system/internal/models"
	"github.com/ddr-ops/disaster_response_system/internal/service/mocks"
)

// newTestAlertService — вспомогательная функция для создания инстанса сервиса с моками.
func newTestAlertService(t *testing.T) (*alertService, *alert_mocks.MockProvider, *mocks.MockVolunteerRepository, *mocks.MockUserRepository, *hazard_mocks.MockFeed) {
	ctrl := gomock.NewController(t)
	providerMock := alert_mocks.NewMockProvider(ctrl)
	volunteersMock := mocks.NewMockVolunteerRepository(ctrl)
	usersMock := mocks.NewMockUserRepository(ctrl)
	feedMock := hazard_mocks.NewMockFeed(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{
		AlertConcurrency: 4,
	}

	service := NewAlertService(providerMock, volunteersMock, usersMock, feedMock, logger, cfg)
	return service.(*alertService), providerMock, volunteersMock, usersMock, feedMock
}

func TestDispatch_AllVolunteers_Success(t *testing.T) {
	// Подготовка
	service, providerMock, volunteersMock, _, _ := newTestAlertService(t)
	ctx := context.Background()
	phones := []string{"+911111111111", "+912222222222", "+913333333333"}

	// Ожидания
	volunteersMock.EXPECT().ListPhones(ctx).Return(phones, nil).Times(1)
	providerMock.EXPECT().Enabled().Return(true).AnyTimes()
	// Волонтеры получают WhatsApp
	providerMock.EXPECT().
		Send(gomock.Any(), gomock.Any(), "Evacuate now", true).
		Return("SM123", nil).
		Times(3)

	// Действие
	result, err := service.Dispatch(ctx, models.AlertRequest{
		Target:  models.AlertTargetAllVolunteers,
		Message: "Evacuate now",
	})

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, 3, result.Sent)
	assert.Equal(t, 0, result.Failed)
	assert.False(t, result.Simulated)
}

func TestDispatch_PartialFailure_CountsBothSides(t *testing.T) {
	// Подготовка
	service, providerMock, volunteersMock, _, _ := newTestAlertService(t)
	ctx := context.Background()
	phones := []string{"+911111111111", "+912222222222", "+913333333333"}

	// Ожидания
	volunteersMock.EXPECT().ListPhones(ctx).Return(phones, nil).Times(1)
	providerMock.EXPECT().Enabled().Return(true).AnyTimes()
	providerMock.EXPECT().
		Send(gomock.Any(), "+911111111111", gomock.Any(), true).
		Return("SM1", nil).
		Times(1)
	providerMock.EXPECT().
		Send(gomock.Any(), "+912222222222", gomock.Any(), true).
		Return("", fmt.Errorf("unreachable")).
		Times(1)
	providerMock.EXPECT().
		Send(gomock.Any(), "+913333333333", gomock.Any(), true).
		Return("SM3", nil).
		Times(1)

	// Действие
	result, err := service.Dispatch(ctx, models.AlertRequest{
		Target:  models.AlertTargetAllVolunteers,
		Message: "Evacuate now",
	})

	// Проверки
	// Сбой одного получателя не прерывает рассылку: sent+failed = всего
	require.NoError(t, err)
	assert.Equal(t, 2, result.Sent)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, len(phones), result.Sent+result.Failed)
	assert.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "+912222222222")
}

func TestDispatch_ProviderDisabled_Simulates(t *testing.T) {
	// Подготовка
	service, providerMock, volunteersMock, _, _ := newTestAlertService(t)
	ctx := context.Background()

	// Ожидания
	volunteersMock.EXPECT().ListPhones(ctx).Return([]string{"+911111111111"}, nil).Times(1)
	providerMock.EXPECT().Enabled().Return(false).Times(1)
	// Send не вызывается вовсе
	providerMock.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	// Действие
	result, err := service.Dispatch(ctx, models.AlertRequest{
		Target:  models.AlertTargetAllVolunteers,
		Message: "Evacuate now",
	})

	// Проверки
	require.NoError(t, err)
	assert.True(t, result.Simulated)
	assert.Equal(t, 0, result.Sent)
	assert.Equal(t, 0, result.Failed)
}

func TestDispatch_NoVolunteers_NotFound(t *testing.T) {
	// Подготовка
	service, _, volunteersMock, _, _ := newTestAlertService(t)
	ctx := context.Background()

	// Ожидания
	volunteersMock.EXPECT().ListPhones(ctx).Return([]string{}, nil).Times(1)

	// Действие
	result, err := service.Dispatch(ctx, models.AlertRequest{
		Target:  models.AlertTargetAllVolunteers,
		Message: "Evacuate now",
	})

	// Проверки
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDispatch_SingleVolunteer_UsesWhatsApp(t *testing.T) {
	// Подготовка
	service, providerMock, _, _, _ := newTestAlertService(t)
	ctx := context.Background()

	// Ожидания
	providerMock.EXPECT().Enabled().Return(true).AnyTimes()
	providerMock.EXPECT().
		Send(gomock.Any(), "+911111111111", "Check in please", true).
		Return("SM1", nil).
		Times(1)

	// Действие
	result, err := service.Dispatch(ctx, models.AlertRequest{
		Target:  models.AlertTargetVolunteer,
		Phone:   "+911111111111",
		Message: "Check in please",
	})

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, 1, result.Sent)
}

func TestDispatch_RawPhoneNumber_UsesSMS(t *testing.T) {
	// Подготовка
	service, providerMock, _, _, _ := newTestAlertService(t)
	ctx := context.Background()

	// Ожидания
	providerMock.EXPECT().Enabled().Return(true).AnyTimes()
	// Произвольный номер получает SMS, не WhatsApp
	providerMock.EXPECT().
		Send(gomock.Any(), "+919999999999", "Road closed", false).
		Return("SM1", nil).
		Times(1)

	// Действие
	result, err := service.Dispatch(ctx, models.AlertRequest{
		Target:  models.AlertTargetPhoneNumber,
		Phone:   "+919999999999",
		Message: "Road closed",
	})

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, 1, result.Sent)
}

func TestDispatch_AllUsers_UsesContacts(t *testing.T) {
	// Подготовка
	service, providerMock, _, usersMock, _ := newTestAlertService(t)
	ctx := context.Background()
	contacts := []string{"+914444444444", "+915555555555"}

	// Ожидания
	usersMock.EXPECT().ListContacts(ctx).Return(contacts, nil).Times(1)
	providerMock.EXPECT().Enabled().Return(true).AnyTimes()
	providerMock.EXPECT().
		Send(gomock.Any(), gomock.Any(), gomock.Any(), false).
		Return("SM1", nil).
		Times(2)

	// Действие
	result, err := service.Dispatch(ctx, models.AlertRequest{
		Target:  models.AlertTargetAllUsers,
		Message: "Shelter open",
	})

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, 2, result.Sent)
}

func TestDispatch_UnknownTarget(t *testing.T) {
	// Подготовка
	service, _, _, _, _ := newTestAlertService(t)
	ctx := context.Background()

	// Действие
	result, err := service.Dispatch(ctx, models.AlertRequest{
		Target:  "everyone",
		Message: "hi",
	})

	// Проверки
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorContains(t, err, "unknown alert target")
}

func TestRecentHazards_Success(t *testing.T) {
	// Подготовка
	service, _, _, _, feedMock := newTestAlertService(t)
	ctx := context.Background()
	expectedAlerts := []models.HazardAlert{
		{Event: "Flood Warning", Severity: "Severe"},
	}

	// Ожидания
	feedMock.EXPECT().Fetch(ctx).Return(expectedAlerts, nil).Times(1)

	// Действие
	alerts, err := service.RecentHazards(ctx)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, expectedAlerts, alerts)
}

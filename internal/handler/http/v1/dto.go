package v1

import (
	"time"

	"github.com/google/uuid"

	"github.com/ddr-ops/disaster_response_system/internal/models"
)

// RegisterRequest DTO для регистрации пользователя
// @Description DTO для регистрации пользователя
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=6,max=128"`
	Role     string `json:"role" validate:"required,oneof=admin coordinator reporter volunteer viewer"`
	Contact  string `json:"contact,omitempty" validate:"omitempty,e164"`
}

// LoginRequest DTO для входа
// @Description DTO для входа
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse DTO для ответа на вход
// @Description DTO для ответа на вход
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse DTO для ответа с данными пользователя
// @Description DTO для ответа с данными пользователя
type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Role     string    `json:"role"`
	Contact  string    `json:"contact,omitempty"`
}

// ReportIncidentRequest DTO для регистрации инцидента
// @Description DTO для регистрации инцидента
type ReportIncidentRequest struct {
	Type      string  `json:"type" validate:"required,min=2,max=255"`
	Severity  int     `json:"severity" validate:"required,min=1,max=5"`
	Latitude  float64 `json:"lat" validate:"required,latitude"`
	Longitude float64 `json:"lng" validate:"required,longitude"`
}

// IncidentResponse DTO для ответа с информацией об инциденте
// @Description DTO для ответа с информацией об инциденте
type IncidentResponse struct {
	ID         uuid.UUID `json:"id"`
	Type       string    `json:"type"`
	Severity   int       `json:"severity"`
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	Status     string    `json:"status"`
	ReportedAt time.Time `json:"reported_at"`
}

// DashboardResponse DTO для ответа операционной панели
// @Description DTO для ответа операционной панели
type DashboardResponse struct {
	Stats  models.DashboardStats `json:"stats"`
	Recent []*IncidentResponse   `json:"recent_incidents"`
}

// AssignTaskRequest DTO для назначения волонтера на инцидент
// @Description DTO для назначения волонтера на инцидент
type AssignTaskRequest struct {
	IncidentID  uuid.UUID `json:"incident_id" validate:"required"`
	VolunteerID uuid.UUID `json:"volunteer_id" validate:"required"`
}

// TaskResponse DTO для ответа с информацией о задаче
// @Description DTO для ответа с информацией о задаче
type TaskResponse struct {
	ID          uuid.UUID         `json:"id"`
	IncidentID  uuid.UUID         `json:"incident_id"`
	VolunteerID uuid.UUID         `json:"volunteer_id"`
	Status      string            `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	Incident    *IncidentResponse `json:"incident,omitempty"`
}

// UpdateTaskStatusRequest DTO для обновления статуса задачи волонтером
// @Description DTO для обновления статуса задачи волонтером
type UpdateTaskStatusRequest struct {
	TaskID uuid.UUID `json:"task_id" validate:"required"`
	Status string    `json:"status" validate:"required,oneof=open in_progress closed"`
}

// CreateResourceRequest DTO для добавления ресурса
// @Description DTO для добавления ресурса
type CreateResourceRequest struct {
	Type     string `json:"type" validate:"required,min=2,max=255"`
	Quantity int    `json:"qty" validate:"required,gt=0"`
	Location string `json:"location" validate:"required,min=2,max=255"`
}

// SendAlertRequest DTO для рассылки оповещения
// @Description DTO для рассылки оповещения
type SendAlertRequest struct {
	Target  string `json:"target" validate:"required,oneof=all_volunteers volunteer phone_number all_users"`
	Phone   string `json:"phone,omitempty" validate:"required_unless=Target all_volunteers Target all_users"`
	Message string `json:"message" validate:"required,min=1,max=1600"`
}

// AlertsPageResponse DTO для страницы оповещений: статус провайдера и фид
// @Description DTO для страницы оповещений
type AlertsPageResponse struct {
	ProviderEnabled bool                 `json:"provider_enabled"`
	HazardAlerts    []models.HazardAlert `json:"hazard_alerts"`
}

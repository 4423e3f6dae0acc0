package models

import (
	"time"

	"github.com/google/uuid"
)

// Статусы инцидента. Переходы выполняются только через report/assign/update.
const (
	IncidentStatusOpen       = "open"
	IncidentStatusInProgress = "in_progress"
	IncidentStatusClosed     = "closed"
)

type Incident struct {
	ID         uuid.UUID `json:"id"`
	Type       string    `json:"type"`
	Severity   int       `json:"severity"`
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	Status     string    `json:"status"`
	ReportedAt time.Time `json:"reported_at"`
}

// Hotspot - вес точки для тепловой карты, w = severity открытого инцидента.
type Hotspot struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
	W   int     `json:"w"`
}

// DashboardStats - счетчики для операционной панели.
type DashboardStats struct {
	TotalIncidents      int `json:"total_incidents"`
	OpenIncidents       int `json:"open_incidents"`
	AvailableVolunteers int `json:"volunteers"`
	ResourceItems       int `json:"resources"`
}

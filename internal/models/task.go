package models

import (
	"time"

	"github.com/google/uuid"
)

// Статусы задачи. Задача создается назначением в статусе assigned,
// далее волонтер может выставить любой из трех рабочих статусов.
const (
	TaskStatusAssigned   = "assigned"
	TaskStatusOpen       = "open"
	TaskStatusInProgress = "in_progress"
	TaskStatusClosed     = "closed"
)

type Task struct {
	ID          uuid.UUID  `json:"id"`
	IncidentID  uuid.UUID  `json:"incident_id"`
	VolunteerID uuid.UUID  `json:"volunteer_id"`
	ResourceID  *uuid.UUID `json:"resource_id,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
}

// TaskWithIncident - задача вместе с родительским инцидентом для страницы волонтера.
type TaskWithIncident struct {
	Task
	Incident *Incident `json:"incident"`
}

// AssignmentBoard - данные страницы назначения: инциденты, требующие внимания,
// и доступные волонтеры.
type AssignmentBoard struct {
	Incidents  []*Incident  `json:"incidents"`
	Volunteers []*Volunteer `json:"volunteers"`
}

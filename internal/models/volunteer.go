package models

import "github.com/google/uuid"

// Volunteer - полевой профиль. UserID связывает профиль с учетной записью:
// волонтер видит и обновляет только задачи своего профиля. Профили без
// учетной записи (заведенные координатором) имеют нулевой UserID.
type Volunteer struct {
	ID        uuid.UUID  `json:"id"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	Name      string     `json:"name"`
	Phone     string     `json:"phone"`
	Lat       float64    `json:"lat"`
	Lng       float64    `json:"lng"`
	Available bool       `json:"available"`
}

package models

import "github.com/google/uuid"

type Resource struct {
	ID       uuid.UUID `json:"id"`
	Type     string    `json:"type"`
	Quantity int       `json:"qty"`
	Location string    `json:"location"`
}

package models

import "github.com/google/uuid"

// Hospital и Shelter - статические справочные данные, заполняются миграциями.
type Hospital struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Lat      float64   `json:"lat"`
	Lng      float64   `json:"lng"`
	Capacity int       `json:"capacity"`
}

type Shelter struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Lat      float64   `json:"lat"`
	Lng      float64   `json:"lng"`
	Capacity int       `json:"capacity"`
}

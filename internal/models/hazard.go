package models

// HazardAlert - запись внешнего фида раннего оповещения (SACHET/NDMA)
// для наложения на карту.
type HazardAlert struct {
	Event    string     `json:"event"`
	Severity string     `json:"severity"`
	Headline string     `json:"headline"`
	Sent     string     `json:"sent"`
	AreaDesc string     `json:"areaDesc"`
	Centroid [2]float64 `json:"centroid"`
	CAPLink  string     `json:"cap_link,omitempty"`
}

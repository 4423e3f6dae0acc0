package hazard

import (
	"context"

	"github.com/ddr-ops/disaster_response_system/internal/models"
)

// Feed - контракт внешнего фида раннего оповещения (SACHET/NDMA).
type Feed interface {
	Fetch(ctx context.Context) ([]models.HazardAlert, error)
}

// sampleAlerts возвращает встроенный набор оповещений, используемый
// когда внешний фид не сконфигурирован или недоступен.
func sampleAlerts() []models.HazardAlert {
	return []models.HazardAlert{
		{
			Event:    "Heavy Rainfall Alert",
			Severity: "Moderate",
			Headline: "Heavy to very heavy rainfall expected",
			Sent:     "2025-08-26T10:30:00Z",
			AreaDesc: "Delhi, NCR region",
			Centroid: [2]float64{28.6139, 77.2090},
			CAPLink:  "https://example.com/cap/1",
		},
		{
			Event:    "Flood Warning",
			Severity: "Severe",
			Headline: "River levels rising, flooding possible",
			Sent:     "2025-08-26T08:15:00Z",
			AreaDesc: "Uttarakhand, Dehradun district",
			Centroid: [2]float64{30.3165, 78.0322},
			CAPLink:  "https://example.com/cap/2",
		},
		{
			Event:    "Tornado Warning",
			Severity: "Extreme",
			Headline: "Tornado sighted, seek shelter immediately",
			Sent:     "2025-08-26T12:00:00Z",
			AreaDesc: "Uttar Pradesh, Lucknow district",
			Centroid: [2]float64{26.8465, 80.9463},
			CAPLink:  "https://example.com/cap/3",
		},
	}
}

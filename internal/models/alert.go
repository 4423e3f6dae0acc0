package models

// Цели рассылки оповещений.
const (
	AlertTargetAllVolunteers = "all_volunteers"
	AlertTargetVolunteer     = "volunteer"
	AlertTargetPhoneNumber   = "phone_number"
	AlertTargetAllUsers      = "all_users"
)

// AlertRequest - запрос на отправку оповещения одному или многим получателям.
type AlertRequest struct {
	Target  string
	Phone   string
	Message string
}

// DispatchResult - структурированный итог рассылки: для широковещательной
// цели sent+failed равно числу получателей. Simulated выставляется, когда
// провайдер сообщений не сконфигурирован и доставка только логируется.
type DispatchResult struct {
	Sent      int      `json:"sent"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors,omitempty"`
	Simulated bool     `json:"simulated"`
}

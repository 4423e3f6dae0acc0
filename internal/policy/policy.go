// Package policy - единая статическая таблица доступа роль -> действие.
// Все проверки доступа в хендлерах идут только через нее.
package policy

// Действия, защищаемые политикой доступа.
const (
	ActionDashboard      = "dashboard"
	ActionRiskMap        = "risk-map"
	ActionReportIncident = "report-incident"
	ActionAssign         = "assign"
	ActionResources      = "resources"
	ActionAlerts         = "alerts"
	ActionVolunteerTasks = "volunteer-tasks"
)

var table = map[string]map[string]struct{}{
	ActionDashboard:      roles("admin", "reporter", "coordinator", "viewer"),
	ActionRiskMap:        roles("admin", "reporter", "viewer"),
	ActionReportIncident: roles("admin", "reporter"),
	ActionAssign:         roles("admin", "coordinator"),
	ActionResources:      roles("admin", "coordinator"),
	ActionAlerts:         roles("admin", "coordinator"),
	ActionVolunteerTasks: roles("volunteer"),
}

func roles(rr ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(rr))
	for _, r := range rr {
		m[r] = struct{}{}
	}
	return m
}

// Allowed сообщает, допущена ли роль к действию.
// Неизвестное действие или роль - всегда отказ.
func Allowed(role, action string) bool {
	allowed, ok := table[action]
	if !ok {
		return false
	}
	_, ok = allowed[role]
	return ok
}

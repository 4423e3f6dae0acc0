package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ddr-ops/disaster_response_system/internal/policy"
)

// RegisterRoutes регистрирует все маршруты приложения
func (h *Handler) RegisterRoutes(root *gin.RouterGroup, log *logrus.Logger) {
	// Публичные маршруты: вход, регистрация и health-check
	root.POST("/register", h.register)
	root.POST("/login", h.login)
	root.GET("/system/health", h.healthCheck)

	// Публичный read-only API карты
	api := root.Group("/api")
	{
		api.GET("/incidents", h.apiIncidents)
		api.GET("/hotspots", h.apiHotspots)
		api.GET("/hospitals", h.apiHospitals)
		api.GET("/shelters", h.apiShelters)
		api.GET("/sachet_alerts", h.apiSachetAlerts)
	}

	// Маршруты под аутентификацией: каждый дополнительно защищен
	// проверкой роли по таблице доступа
	authed := root.Group("/", AuthMiddleware(h.authService, log))
	{
		authed.POST("/logout", h.logout)

		authed.GET("/dashboard", RequireAction(policy.ActionDashboard, log), h.dashboard)
		authed.GET("/predict", RequireAction(policy.ActionRiskMap, log), h.predict)
		authed.POST("/report", RequireAction(policy.ActionReportIncident, log), h.reportIncident)

		authed.GET("/assign_tasks", RequireAction(policy.ActionAssign, log), h.assignmentBoard)
		authed.POST("/assign_tasks", RequireAction(policy.ActionAssign, log), h.assignTask)

		authed.GET("/resources", RequireAction(policy.ActionResources, log), h.listResources)
		authed.POST("/resources", RequireAction(policy.ActionResources, log), h.createResource)
		authed.POST("/resources/delete/:id", RequireAction(policy.ActionResources, log), h.deleteResource)

		authed.GET("/alerts", RequireAction(policy.ActionAlerts, log), h.alertsPage)
		authed.POST("/alerts", RequireAction(policy.ActionAlerts, log), h.sendAlert)

		authed.GET("/volunteer_tasks", RequireAction(policy.ActionVolunteerTasks, log), h.volunteerTasks)
		authed.POST("/update_task_status", RequireAction(policy.ActionVolunteerTasks, log), h.updateTaskStatus)
	}
}

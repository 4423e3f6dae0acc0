package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ddr-ops/disaster_response_system/internal/apperr"
	"github.com/ddr-ops/disaster_response_system/internal/config"
	"github.com/ddr-ops/disaster_response_system/internal/service"
)

type Handler struct {
	authService       service.AuthService
	incidentService   service.IncidentService
	assignmentService service.AssignmentService
	resourceService   service.ResourceService
	alertService      service.AlertService
	mapService        service.MapService
	logger            *logrus.Logger
	validate          *validator.Validate
	cfg               *config.Config
}

func NewHandler(
	authService service.AuthService,
	incidentService service.IncidentService,
	assignmentService service.AssignmentService,
	resourceService service.ResourceService,
	alertService service.AlertService,
	mapService service.MapService,
	logger *logrus.Logger,
	cfg *config.Config,
) *Handler {
	return &Handler{
		authService:       authService,
		incidentService:   incidentService,
		assignmentService: assignmentService,
		resourceService:   resourceService,
		alertService:      alertService,
		mapService:        mapService,
		logger:            logger,
		validate:          validator.New(),
		cfg:               cfg,
	}
}

// @Summary Register a new user
// @Description Register a new user with a fixed role.
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "Registration request"
// @Success 201 {object} UserResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 409 {object} map[string]string "Username already taken"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /register [post]
func (h *Handler) register(c *gin.Context) {
	var input RegisterRequest
	log := h.logger.WithField("method", "register")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authService.Register(c.Request.Context(), input.Username, input.Password, input.Role, input.Contact)
	if err != nil {
		if errors.Is(err, apperr.ErrUsernameTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
			return
		}
		log.WithError(err).Error("Failed to register user in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, ModelToUserResponse(user))
}

// @Summary Log in
// @Description Exchange username and password for a session token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login request"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /login [post]
func (h *Handler) login(c *gin.Context) {
	var input LoginRequest
	log := h.logger.WithField("method", "login")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
			return
		}
		log.WithError(err).Error("Failed to login in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token: token,
		User:  ModelToUserResponse(user),
	})
}

// @Summary Log out
// @Description Revoke the presented session token.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string "Logged out"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /logout [post]
func (h *Handler) logout(c *gin.Context) {
	log := h.logger.WithField("method", "logout")

	rawToken := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if err := h.authService.Logout(c.Request.Context(), rawToken); err != nil {
		if errors.Is(err, apperr.ErrTokenInvalid) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		log.WithError(err).Error("Failed to revoke token in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

// @Summary Operational dashboard
// @Description Get dashboard counters and the ten most recent incidents.
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} DashboardResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Access denied"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /dashboard [get]
func (h *Handler) dashboard(c *gin.Context) {
	log := h.logger.WithField("method", "dashboard")

	stats, recent, err := h.incidentService.Dashboard(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to build dashboard in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, DashboardResponse{
		Stats:  *stats,
		Recent: ModelsToIncidentResponses(recent),
	})
}

// @Summary Risk map data
// @Description Get heatmap weights of open incidents for the risk map.
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Hotspot
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Access denied"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /predict [get]
func (h *Handler) predict(c *gin.Context) {
	log := h.logger.WithField("method", "predict")

	hotspots, err := h.mapService.Hotspots(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to get hotspots from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, hotspots)
}

// @Summary Report a new incident
// @Description Register an incident. It always starts in the open status.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param incident body ReportIncidentRequest true "Incident report request"
// @Success 201 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Access denied"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /report [post]
func (h *Handler) reportIncident(c *gin.Context) {
	var input ReportIncidentRequest
	log := h.logger.WithField("method", "reportIncident")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	model := DTOToIncidentModel(input)
	if err := h.incidentService.Report(c.Request.Context(), model); err != nil {
		log.WithError(err).Error("Failed to report incident in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, ModelToIncidentResponse(model))
}

// @Summary Assignment board
// @Description Get incidents needing attention and available volunteers.
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.AssignmentBoard
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Access denied"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /assign_tasks [get]
func (h *Handler) assignmentBoard(c *gin.Context) {
	log := h.logger.WithField("method", "assignmentBoard")

	board, err := h.assignmentService.Board(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to build assignment board in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, board)
}

// @Summary Assign a volunteer to an incident
// @Description Atomically create a task and move the incident to in_progress.
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param assignment body AssignTaskRequest true "Assignment request"
// @Success 201 {object} TaskResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Access denied"
// @Failure 404 {object} map[string]string "Incident or volunteer not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /assign_tasks [post]
func (h *Handler) assignTask(c *gin.Context) {
	var input AssignTaskRequest
	log := h.logger.WithField("method", "assignTask")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.assignmentService.Assign(c.Request.Context(), input.IncidentID, input.VolunteerID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "incident or volunteer not found"})
			return
		}
		log.WithError(err).Error("Failed to assign task in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, ModelToTaskResponse(task))
}

// @Summary List resources
// @Description Get all aid resources ordered by type.
// @Tags Resources
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Resource
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Access denied"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /resources [get]
func (h *Handler) listResources(c *gin.Context) {
	log := h.logger.WithField("method", "listResources")

	resources, err := h.resourceService.List(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list resources from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, resources)
}

// @Summary Add a resource
// @Description Add an aid resource item.
// @Tags Resources
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param resource body CreateResourceRequest true "Resource creation request"
// @Success 201 {object} models.Resource
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Access denied"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /resources [post]
func (h *Handler) createResource(c *gin.Context) {
	var input CreateResourceRequest
	log := h.logger.WithField("method", "createResource")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	model := DTOToResourceModel(input)
	if err := h.resourceService.Add(c.Request.Context(), model); err != nil {
		log.WithError(err).Error("Failed to add resource in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, model)
}

// @Summary Delete a resource
// @Description Delete an aid resource item by its ID.
// @Tags Resources
// @Produce json
// @Security BearerAuth
// @Param id path string true "Resource ID"
// @Success 200 {object} map[string]string "Deleted"
// @Failure 400 {object} map[string]string "Invalid resource ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Access denied"
// @Failure 404 {object} map[string]string "Resource not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /resources/delete/{id} [post]
func (h *Handler) deleteResource(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid resource ID"})
		return
	}
	log := h.logger.WithField("method", "deleteResource").WithField("id", id)

	if err := h.resourceService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
			return
		}
		log.WithError(err).Error("Failed to delete resource in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// @Summary Alerts page data
// @Description Get message provider status and recent external hazard alerts.
// @Tags Alerts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} AlertsPageResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Access denied"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /alerts [get]
func (h *Handler) alertsPage(c *gin.Context) {
	log := h.logger.WithField("method", "alertsPage")

	hazards, err := h.alertService.RecentHazards(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to fetch hazard alerts from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, AlertsPageResponse{
		ProviderEnabled: h.alertService.Enabled(),
		HazardAlerts:    hazards,
	})
}

// @Summary Send an alert
// @Description Send an SMS/WhatsApp alert to a single recipient or fan it out to a broadcast target.
// @Tags Alerts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param alert body SendAlertRequest true "Alert request"
// @Success 200 {object} models.DispatchResult
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Access denied"
// @Failure 404 {object} map[string]string "No recipients found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /alerts [post]
func (h *Handler) sendAlert(c *gin.Context) {
	var input SendAlertRequest
	log := h.logger.WithField("method", "sendAlert")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.alertService.Dispatch(c.Request.Context(), DTOToAlertRequest(input))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no recipients found for target"})
			return
		}
		log.WithError(err).Error("Failed to dispatch alert in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary Volunteer task list
// @Description Get the calling volunteer's tasks together with their incidents, newest first.
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Success 200 {array} TaskResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Access denied"
// @Failure 404 {object} map[string]string "Volunteer profile not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /volunteer_tasks [get]
func (h *Handler) volunteerTasks(c *gin.Context) {
	identity := identityFromContext(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization token required"})
		return
	}
	log := h.logger.WithField("method", "volunteerTasks").WithField("user_id", identity.ID)

	tasks, err := h.assignmentService.TasksForVolunteer(c.Request.Context(), identity.ID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "volunteer profile not found"})
			return
		}
		log.WithError(err).Error("Failed to list volunteer tasks from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, ModelsToTaskResponses(tasks))
}

// @Summary Update task status
// @Description Update the status of the calling volunteer's task. The parent incident mirrors the new status.
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param task body UpdateTaskStatusRequest true "Status update request"
// @Success 200 {object} map[string]string "Updated"
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Access denied"
// @Failure 404 {object} map[string]string "Task not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /update_task_status [post]
func (h *Handler) updateTaskStatus(c *gin.Context) {
	identity := identityFromContext(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization token required"})
		return
	}

	var input UpdateTaskStatusRequest
	log := h.logger.WithField("method", "updateTaskStatus").WithField("user_id", identity.ID)

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.assignmentService.UpdateTaskStatus(c.Request.Context(), identity.ID, input.TaskID, input.Status)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		log.WithError(err).Error("Failed to update task status in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// @Summary Map incidents
// @Description Get all incidents for the map marker layer. No authentication required.
// @Tags Map
// @Produce json
// @Success 200 {array} IncidentResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/incidents [get]
func (h *Handler) apiIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "apiIncidents")

	incidents, err := h.mapService.Incidents(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, ModelsToIncidentResponses(incidents))
}

// @Summary Map hotspots
// @Description Get heatmap weights of open incidents. No authentication required.
// @Tags Map
// @Produce json
// @Success 200 {array} models.Hotspot
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/hotspots [get]
func (h *Handler) apiHotspots(c *gin.Context) {
	log := h.logger.WithField("method", "apiHotspots")

	hotspots, err := h.mapService.Hotspots(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list hotspots from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, hotspots)
}

// @Summary Map hospitals
// @Description Get the hospital reference layer. No authentication required.
// @Tags Map
// @Produce json
// @Success 200 {array} models.Hospital
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/hospitals [get]
func (h *Handler) apiHospitals(c *gin.Context) {
	log := h.logger.WithField("method", "apiHospitals")

	hospitals, err := h.mapService.Hospitals(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list hospitals from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, hospitals)
}

// @Summary Map shelters
// @Description Get the shelter reference layer. No authentication required.
// @Tags Map
// @Produce json
// @Success 200 {array} models.Shelter
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/shelters [get]
func (h *Handler) apiShelters(c *gin.Context) {
	log := h.logger.WithField("method", "apiShelters")

	shelters, err := h.mapService.Shelters(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list shelters from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, shelters)
}

// @Summary External hazard alerts
// @Description Get recent hazard alerts from the external early-warning feed. No authentication required.
// @Tags Map
// @Produce json
// @Success 200 {array} models.HazardAlert
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/sachet_alerts [get]
func (h *Handler) apiSachetAlerts(c *gin.Context) {
	log := h.logger.WithField("method", "apiSachetAlerts")

	alerts, err := h.mapService.HazardAlerts(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to fetch hazard alerts from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, alerts)
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

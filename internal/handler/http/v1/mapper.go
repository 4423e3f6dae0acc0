package v1

import "github.com/ddr-ops/disaster_response_system/internal/models"

// DTOToIncidentModel преобразует DTO регистрации в доменную модель.
// Статус и время выставляет сервис.
func DTOToIncidentModel(dto ReportIncidentRequest) *models.Incident {
	return &models.Incident{
		Type:     dto.Type,
		Severity: dto.Severity,
		Lat:      dto.Latitude,
		Lng:      dto.Longitude,
	}
}

// ModelToIncidentResponse преобразует доменную модель в DTO для ответа
func ModelToIncidentResponse(model *models.Incident) *IncidentResponse {
	return &IncidentResponse{
		ID:         model.ID,
		Type:       model.Type,
		Severity:   model.Severity,
		Lat:        model.Lat,
		Lng:        model.Lng,
		Status:     model.Status,
		ReportedAt: model.ReportedAt,
	}
}

// ModelsToIncidentResponses преобразует слайс моделей в слайс DTO
func ModelsToIncidentResponses(models []*models.Incident) []*IncidentResponse {
	responses := make([]*IncidentResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToIncidentResponse(model)
	}
	return responses
}

// ModelToUserResponse преобразует пользователя в DTO без хэша пароля
func ModelToUserResponse(model *models.User) UserResponse {
	return UserResponse{
		ID:       model.ID,
		Username: model.Username,
		Role:     model.Role,
		Contact:  model.Contact,
	}
}

// ModelToTaskResponse преобразует задачу в DTO для ответа
func ModelToTaskResponse(model *models.Task) *TaskResponse {
	return &TaskResponse{
		ID:          model.ID,
		IncidentID:  model.IncidentID,
		VolunteerID: model.VolunteerID,
		Status:      model.Status,
		CreatedAt:   model.CreatedAt,
	}
}

// ModelsToTaskResponses преобразует задачи волонтера вместе с инцидентами
func ModelsToTaskResponses(tasks []*models.TaskWithIncident) []*TaskResponse {
	responses := make([]*TaskResponse, len(tasks))
	for i, task := range tasks {
		resp := ModelToTaskResponse(&task.Task)
		if task.Incident != nil {
			resp.Incident = ModelToIncidentResponse(task.Incident)
		}
		responses[i] = resp
	}
	return responses
}

// DTOToResourceModel преобразует DTO добавления в доменную модель
func DTOToResourceModel(dto CreateResourceRequest) *models.Resource {
	return &models.Resource{
		Type:     dto.Type,
		Quantity: dto.Quantity,
		Location: dto.Location,
	}
}

// DTOToAlertRequest преобразует DTO рассылки в доменный запрос
func DTOToAlertRequest(dto SendAlertRequest) models.AlertRequest {
	return models.AlertRequest{
		Target:  dto.Target,
		Phone:   dto.Phone,
		Message: dto.Message,
	}
}

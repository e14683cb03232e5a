package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"project-collab-api/internal/dto"
	"project-collab-api/internal/response"
	"project-collab-api/internal/service"
)

type StatusHandler struct {
	statusService service.StatusService
}

func NewStatusHandler(statusService service.StatusService) *StatusHandler {
	return &StatusHandler{
		statusService: statusService,
	}
}

// CreateStatus appends a new status column to the project's board
func (h *StatusHandler) CreateStatus(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	projectID, ok := pathUUID(c, "projectId")
	if !ok {
		return
	}

	var req dto.CreateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	status, err := h.statusService.CreateStatus(c.Request.Context(), projectID, principal, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, status)
}

// ListStatuses lists a project's status columns in display order
func (h *StatusHandler) ListStatuses(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	projectID, ok := pathUUID(c, "projectId")
	if !ok {
		return
	}

	statuses, err := h.statusService.ListStatuses(c.Request.Context(), projectID, principal)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, statuses)
}

// UpdateStatus renames or recolors a status column
func (h *StatusHandler) UpdateStatus(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	projectID, ok := pathUUID(c, "projectId")
	if !ok {
		return
	}
	statusID, ok := pathUUID(c, "statusId")
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	status, err := h.statusService.UpdateStatus(c.Request.Context(), projectID, statusID, principal, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, status)
}

// ReorderStatuses applies a new ordering to the project's columns
func (h *StatusHandler) ReorderStatuses(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	projectID, ok := pathUUID(c, "projectId")
	if !ok {
		return
	}

	var req dto.ReorderStatusesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	statuses, err := h.statusService.ReorderStatuses(c.Request.Context(), projectID, principal, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, statuses)
}

// DeleteStatus deletes a status column, migrating its tasks first
func (h *StatusHandler) DeleteStatus(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	projectID, ok := pathUUID(c, "projectId")
	if !ok {
		return
	}
	statusID, ok := pathUUID(c, "statusId")
	if !ok {
		return
	}

	if err := h.statusService.DeleteStatus(c.Request.Context(), projectID, statusID, principal); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, nil)
}

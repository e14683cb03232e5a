package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"project-collab-api/internal/dto"
	"project-collab-api/internal/response"
	"project-collab-api/internal/service"
)

type InvitationHandler struct {
	invitationService service.InvitationService
}

func NewInvitationHandler(invitationService service.InvitationService) *InvitationHandler {
	return &InvitationHandler{
		invitationService: invitationService,
	}
}

// Invite invites a user to a project by email or username
func (h *InvitationHandler) Invite(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	projectID, ok := pathUUID(c, "projectId")
	if !ok {
		return
	}

	var req dto.CreateInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	invitation, err := h.invitationService.Invite(c.Request.Context(), projectID, principal, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, invitation)
}

// ListProjectInvitations lists a project's pending invitations
func (h *InvitationHandler) ListProjectInvitations(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	projectID, ok := pathUUID(c, "projectId")
	if !ok {
		return
	}

	invitations, err := h.invitationService.ListPendingForProject(c.Request.Context(), projectID, principal)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, invitations)
}

// Cancel withdraws an invitation, whatever its status
func (h *InvitationHandler) Cancel(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	projectID, ok := pathUUID(c, "projectId")
	if !ok {
		return
	}
	invitationID, ok := pathUUID(c, "invitationId")
	if !ok {
		return
	}

	if err := h.invitationService.Cancel(c.Request.Context(), projectID, invitationID, principal); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, nil)
}

// ListMyInvitations lists the caller's invitation inbox
func (h *InvitationHandler) ListMyInvitations(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	invitations, err := h.invitationService.ListPendingForUser(c.Request.Context(), principal)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, invitations)
}

// Accept accepts an invitation addressed to the caller
func (h *InvitationHandler) Accept(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	invitationID, ok := pathUUID(c, "invitationId")
	if !ok {
		return
	}

	if err := h.invitationService.Accept(c.Request.Context(), invitationID, principal); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, nil)
}

// Reject declines an invitation addressed to the caller
func (h *InvitationHandler) Reject(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	invitationID, ok := pathUUID(c, "invitationId")
	if !ok {
		return
	}

	if err := h.invitationService.Reject(c.Request.Context(), invitationID, principal); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, nil)
}

package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateInvitationRequest represents the request to invite a user to a project.
// Exactly one of email or username must be supplied; a username is resolved to
// an email through the user directory at invitation time.
type CreateInvitationRequest struct {
	Email    string `json:"email" binding:"omitempty,email" example:"dev@example.com"`
	Username string `json:"username" binding:"omitempty,min=1,max=255" example:"devuser"`
	Role     string `json:"role" binding:"required,oneof=admin member" example:"member"`
}

// InvitationResponse represents an invitation in API responses
type InvitationResponse struct {
	ID          uuid.UUID `json:"invitationId"`
	ProjectID   uuid.UUID `json:"projectId"`
	ProjectName string    `json:"projectName,omitempty"`
	Email       string    `json:"email"`
	Username    string    `json:"username,omitempty"`
	Role        string    `json:"role"`
	Status      string    `json:"status"`
	InvitedBy   uuid.UUID `json:"invitedBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

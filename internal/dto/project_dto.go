package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateProjectRequest represents the request to create a new project.
// The caller becomes the project's initial owner and the five default status
// columns are seeded together with the project.
type CreateProjectRequest struct {
	Name        string     `json:"name" binding:"required,min=2,max=255" example:"Website Relaunch"`
	Description string     `json:"description" binding:"max=2000" example:"Full redesign of the marketing site"`
	Status      string     `json:"status" binding:"omitempty,oneof=pending in_progress completed on_hold cancelled" example:"pending"`
	StartDate   *time.Time `json:"startDate,omitempty" example:"2026-01-01T00:00:00Z"`
	DueDate     *time.Time `json:"dueDate,omitempty" example:"2026-03-31T23:59:59Z"`
}

// UpdateProjectRequest represents the request to update a project. All fields are optional.
type UpdateProjectRequest struct {
	Name        *string    `json:"name" binding:"omitempty,min=2,max=255"`
	Description *string    `json:"description" binding:"omitempty,max=2000"`
	Status      *string    `json:"status" binding:"omitempty,oneof=pending in_progress completed on_hold cancelled"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// ProjectResponse represents a project in API responses
type ProjectResponse struct {
	ID          uuid.UUID  `json:"projectId"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ProjectDetailResponse represents a project together with its collaboration state
type ProjectDetailResponse struct {
	ProjectResponse
	CallerRole         string               `json:"callerRole"`
	Members            []MemberResponse     `json:"members"`
	PendingInvitations []InvitationResponse `json:"pendingInvitations"`
	Statuses           []StatusResponse     `json:"statuses"`
}

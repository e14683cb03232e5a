package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateStatusRequest represents the request to add a status column to a project
type CreateStatusRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=255" example:"Review"`
	Color string `json:"color" binding:"omitempty,max=50" example:"purple"`
}

// UpdateStatusRequest represents the request to rename/recolor a status column.
// Slug and order are immutable after creation.
type UpdateStatusRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=255"`
	Color *string `json:"color" binding:"omitempty,max=50"`
}

// StatusOrder is one (column, position) assignment of a reorder request
type StatusOrder struct {
	ID          uuid.UUID `json:"id" binding:"required"`
	OrderColumn int       `json:"orderColumn"`
}

// ReorderStatusesRequest carries the complete target ordering of a project's columns
type ReorderStatusesRequest struct {
	Statuses []StatusOrder `json:"statuses" binding:"required,min=1,dive"`
}

// StatusResponse represents a status column in API responses
type StatusResponse struct {
	ID          uuid.UUID `json:"statusId"`
	ProjectID   uuid.UUID `json:"projectId"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Color       string    `json:"color"`
	OrderColumn int       `json:"orderColumn"`
	IsDefault   bool      `json:"isDefault"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

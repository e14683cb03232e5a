package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateTaskRequest represents the request to create a task. The target column
// is addressed by slug; when position is omitted the task is appended to the
// end of the column.
type CreateTaskRequest struct {
	ProjectID         uuid.UUID  `json:"-"`
	Title             string     `json:"title" binding:"required,min=1,max=255" example:"Implement login page"`
	Description       string     `json:"description" binding:"omitempty,max=5000"`
	Priority          string     `json:"priority" binding:"required,oneof=low medium high" example:"medium"`
	ResultExplanation string     `json:"resultExplanation" binding:"omitempty,max=5000"`
	Status            string     `json:"status" binding:"required" example:"todo"`
	AssignedTo        *uuid.UUID `json:"assignedTo,omitempty"`
	Position          *int       `json:"position,omitempty"`
	StartDate         *time.Time `json:"startDate,omitempty"`
	DueDate           *time.Time `json:"dueDate,omitempty"`
}

// UpdateTaskRequest represents the request to edit a task. All fields are
// optional; a status slug carried alongside the edit is treated as a move.
type UpdateTaskRequest struct {
	Title             *string    `json:"title" binding:"omitempty,min=1,max=255"`
	Description       *string    `json:"description" binding:"omitempty,max=5000"`
	Priority          *string    `json:"priority" binding:"omitempty,oneof=low medium high"`
	ResultExplanation *string    `json:"resultExplanation" binding:"omitempty,max=5000"`
	Status            *string    `json:"status,omitempty"`
	AssignedTo        *uuid.UUID `json:"assignedTo,omitempty"`
	Position          *int       `json:"position,omitempty"`
	StartDate         *time.Time `json:"startDate,omitempty"`
	DueDate           *time.Time `json:"dueDate,omitempty"`
}

// MoveTaskRequest represents a drag-and-drop move of a task into a column at a position
type MoveTaskRequest struct {
	Status   string `json:"status" binding:"required" example:"done"`
	Position int    `json:"position" example:"0"`
}

// TaskResponse represents a task in API responses
type TaskResponse struct {
	ID                uuid.UUID  `json:"taskId"`
	ProjectID         uuid.UUID  `json:"projectId"`
	StatusID          uuid.UUID  `json:"statusId"`
	StatusSlug        string     `json:"statusSlug"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	Priority          string     `json:"priority"`
	ResultExplanation string     `json:"resultExplanation,omitempty"`
	AssignedTo        *uuid.UUID `json:"assignedTo,omitempty"`
	OrderColumn       int        `json:"orderColumn"`
	StartDate         *time.Time `json:"startDate,omitempty"`
	DueDate           *time.Time `json:"dueDate,omitempty"`
	CompletedAt       *time.Time `json:"completedAt,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// BoardColumnResponse represents one status column with its tasks in display order
type BoardColumnResponse struct {
	Status StatusResponse `json:"status"`
	Tasks  []TaskResponse `json:"tasks"`
}

// MoveTaskResponse carries the moved task plus the authoritative ordering of the
// columns the move touched, so clients can reconcile immediately instead of
// waiting for the next poll.
type MoveTaskResponse struct {
	Task    TaskResponse          `json:"task"`
	Columns []BoardColumnResponse `json:"columns"`
}

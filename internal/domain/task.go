package domain

import (
	"time"

	"github.com/google/uuid"
)

// TaskPriority represents the priority of a task
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// IsValid reports whether the priority is one of the allowed values
func (p TaskPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Task represents a work item placed in a status column of a project.
// Its placement is the pair (task_status_id, order_column); completed_at is
// non-nil exactly when the current column carries the done slug.
type Task struct {
	BaseModel
	ProjectID         uuid.UUID    `gorm:"type:uuid;not null;index:idx_tasks_project_id" json:"project_id"`
	TaskStatusID      uuid.UUID    `gorm:"type:uuid;not null;index:idx_tasks_task_status_id" json:"task_status_id"`
	Title             string       `gorm:"type:varchar(255);not null" json:"title"`
	Description       string       `gorm:"type:text" json:"description"`
	Priority          TaskPriority `gorm:"type:varchar(50);not null;default:'medium'" json:"priority"`
	ResultExplanation string       `gorm:"type:text" json:"result_explanation"`
	AssignedTo        *uuid.UUID   `gorm:"type:uuid;index:idx_tasks_assigned_to" json:"assigned_to"`
	OrderColumn       int          `gorm:"type:int;not null;default:0;index:idx_tasks_order" json:"order_column"`
	StartDate         *time.Time   `gorm:"type:timestamp" json:"start_date,omitempty"`
	DueDate           *time.Time   `gorm:"type:timestamp" json:"due_date,omitempty"`
	CompletedAt       *time.Time   `gorm:"type:timestamp" json:"completed_at,omitempty"`
	Project           Project      `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"project,omitempty"`
	Status            TaskStatus   `gorm:"foreignKey:TaskStatusID" json:"status,omitempty"`
}

// TableName specifies the table name for Task
func (Task) TableName() string {
	return "tasks"
}

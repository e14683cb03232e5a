package domain

import "github.com/google/uuid"

// DoneSlug is the distinguished status slug whose occupancy drives a task's
// completed_at timestamp. The seeded "Done" column carries it; renaming the
// column does not change its slug.
const DoneSlug = "done"

// TaskStatus represents a kanban column of a project: a named, ordered bucket
// that tasks occupy. Each project owns its own list of columns.
type TaskStatus struct {
	BaseModel
	ProjectID   uuid.UUID `gorm:"type:uuid;not null;index:idx_task_statuses_project_id;uniqueIndex:uq_task_statuses_project_slug,priority:1" json:"project_id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Slug        string    `gorm:"type:varchar(255);not null;uniqueIndex:uq_task_statuses_project_slug,priority:2" json:"slug"`
	Color       string    `gorm:"type:varchar(50);not null;default:'gray'" json:"color"`
	OrderColumn int       `gorm:"type:int;not null;default:0;index:idx_task_statuses_order" json:"order_column"`
	IsDefault   bool      `gorm:"type:boolean;not null;default:false" json:"is_default"`
	Project     Project   `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"project,omitempty"`
}

// IsDone reports whether this column carries the completion semantic
func (s *TaskStatus) IsDone() bool {
	return s.Slug == DoneSlug
}

// DefaultStatusTemplate describes one of the columns seeded at project creation
type DefaultStatusTemplate struct {
	Name  string
	Slug  string
	Color string
}

// DefaultStatusTemplates returns the five columns every new project starts with,
// in display order. The slugs are fixed so the done-column semantic survives renames.
func DefaultStatusTemplates() []DefaultStatusTemplate {
	return []DefaultStatusTemplate{
		{Name: "Backlog", Slug: "backlog", Color: "gray"},
		{Name: "Todo", Slug: "todo", Color: "blue"},
		{Name: "In Progress", Slug: "in_progress", Color: "yellow"},
		{Name: "Done", Slug: DoneSlug, Color: "green"},
		{Name: "Rejected", Slug: "rejected", Color: "red"},
	}
}

// TableName specifies the table name for TaskStatus
func (TaskStatus) TableName() string {
	return "task_statuses"
}

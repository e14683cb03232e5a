package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProjectStatus represents the lifecycle status of a project
type ProjectStatus string

const (
	ProjectStatusPending    ProjectStatus = "pending"
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusOnHold     ProjectStatus = "on_hold"
	ProjectStatusCancelled  ProjectStatus = "cancelled"
)

// Project represents a collaborative project
type Project struct {
	BaseModel
	Name        string              `gorm:"type:varchar(255);not null" json:"name"`
	Description string              `gorm:"type:text" json:"description"`
	Status      ProjectStatus       `gorm:"type:varchar(50);not null;default:'pending'" json:"status"`
	StartDate   *time.Time          `gorm:"type:timestamp" json:"start_date,omitempty"`
	DueDate     *time.Time          `gorm:"type:timestamp" json:"due_date,omitempty"`
	Members     []ProjectMember     `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"members,omitempty"`
	Invitations []ProjectInvitation `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"invitations,omitempty"`
	Statuses    []TaskStatus        `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"statuses,omitempty"`
	Tasks       []Task              `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"tasks,omitempty"`
}

// MemberRole represents the role of a project member
type MemberRole string

const (
	RoleOwner  MemberRole = "owner"
	RoleAdmin  MemberRole = "admin"
	RoleMember MemberRole = "member"
	// RoleNone is never persisted; it is the resolution result for non-members.
	RoleNone MemberRole = ""
)

// IsValid reports whether the role is one of the persistable roles
func (r MemberRole) IsValid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember:
		return true
	default:
		return false
	}
}

// IsGrantableByInvitation reports whether the role may be granted through an
// invitation. Ownership is never delegable via invitation.
func (r MemberRole) IsGrantableByInvitation() bool {
	return r == RoleAdmin || r == RoleMember
}

// ProjectMember represents a member of a project with a role
type ProjectMember struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ProjectID uuid.UUID  `gorm:"type:uuid;not null;index:idx_project_members_project_id;uniqueIndex:uq_project_members_project_user" json:"project_id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_project_members_user_id;uniqueIndex:uq_project_members_project_user" json:"user_id"`
	Role      MemberRole `gorm:"type:varchar(50);not null;index:idx_project_members_role" json:"role"`
	JoinedAt  time.Time  `gorm:"type:timestamp;not null;default:now()" json:"joined_at"`
	Project   Project    `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"project,omitempty"`
}

// TableName specifies the table name for Project
func (Project) TableName() string {
	return "projects"
}

// TableName specifies the table name for ProjectMember
func (ProjectMember) TableName() string {
	return "project_members"
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// InvitationStatus represents the lifecycle status of an invitation
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationRejected InvitationStatus = "rejected"
)

// ProjectInvitation represents a proposed future membership, tracked by email.
// At most one pending invitation may exist per (project, email); a rejected or
// accepted-but-removed invitation is recycled in place on re-invite.
type ProjectInvitation struct {
	BaseModel
	ProjectID uuid.UUID        `gorm:"type:uuid;not null;index:idx_project_invitations_project_id;index:idx_project_invitations_project_email,priority:1" json:"project_id"`
	Email     string           `gorm:"type:varchar(255);not null;index:idx_project_invitations_email;index:idx_project_invitations_project_email,priority:2" json:"email"`
	Username  string           `gorm:"type:varchar(255)" json:"username,omitempty"`
	Token     string           `gorm:"type:varchar(64);not null" json:"-"`
	Role      MemberRole       `gorm:"type:varchar(50);not null" json:"role"`
	Status    InvitationStatus `gorm:"type:varchar(50);not null;default:'pending';index:idx_project_invitations_status" json:"status"`
	InvitedBy uuid.UUID        `gorm:"type:uuid;not null" json:"invited_by"`
	Project   Project          `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"project,omitempty"`
}

// StaleAfter reports whether a pending invitation is older than the given retention
func (i *ProjectInvitation) StaleAfter(retention time.Duration, now time.Time) bool {
	return i.Status == InvitationPending && now.Sub(i.CreatedAt) > retention
}

// TableName specifies the table name for ProjectInvitation
func (ProjectInvitation) TableName() string {
	return "project_invitations"
}

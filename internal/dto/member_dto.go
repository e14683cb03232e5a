package dto

import (
	"time"

	"github.com/google/uuid"
)

// AddMemberRequest represents the request to add a member to a project directly.
// The email is resolved through the user directory; ownership cannot be granted
// this way, only through project creation or an explicit role change.
type AddMemberRequest struct {
	Email string `json:"email" binding:"required,email" example:"dev@example.com"`
	Role  string `json:"role" binding:"required,oneof=admin member" example:"member"`
}

// ChangeRoleRequest represents the request to change a member's role
type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=owner admin member" example:"admin"`
}

// MemberResponse represents a project member in API responses
type MemberResponse struct {
	MemberID  uuid.UUID `json:"memberId"`
	ProjectID uuid.UUID `json:"projectId"`
	UserID    uuid.UUID `json:"userId"`
	Role      string    `json:"role"`
	JoinedAt  time.Time `json:"joinedAt"`
}

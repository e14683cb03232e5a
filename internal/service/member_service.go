package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"project-collab-api/internal/client"
	"project-collab-api/internal/domain"
	"project-collab-api/internal/dto"
	"project-collab-api/internal/repository"
	"project-collab-api/internal/response"
)

// MemberService defines the interface for membership business logic
type MemberService interface {
	AddMember(ctx context.Context, projectID uuid.UUID, principal Principal, req *dto.AddMemberRequest) (*dto.MemberResponse, error)
	ListMembers(ctx context.Context, projectID uuid.UUID, principal Principal) ([]*dto.MemberResponse, error)
	ChangeRole(ctx context.Context, projectID, targetUserID uuid.UUID, principal Principal, req *dto.ChangeRoleRequest) (*dto.MemberResponse, error)
	RemoveMember(ctx context.Context, projectID, targetUserID uuid.UUID, principal Principal) error
}

// memberServiceImpl is the implementation of MemberService
type memberServiceImpl struct {
	memberRepo  repository.MemberRepository
	projectRepo repository.ProjectRepository
	userClient  client.UserClient
	gate        RoleGate
	logger      *zap.Logger
}

// NewMemberService creates a new instance of MemberService
func NewMemberService(
	memberRepo repository.MemberRepository,
	projectRepo repository.ProjectRepository,
	userClient client.UserClient,
	gate RoleGate,
	logger *zap.Logger,
) MemberService {
	return &memberServiceImpl{
		memberRepo:  memberRepo,
		projectRepo: projectRepo,
		userClient:  userClient,
		gate:        gate,
		logger:      logger,
	}
}

// AddMember adds a user to a project directly, bypassing the invitation flow.
// The target is addressed by email and resolved through the user directory.
func (s *memberServiceImpl) AddMember(ctx context.Context, projectID uuid.UUID, principal Principal, req *dto.AddMemberRequest) (*dto.MemberResponse, error) {
	if _, err := s.gate.RequireMember(ctx, projectID, principal); err != nil {
		return nil, err
	}

	role := domain.MemberRole(req.Role)
	if !role.IsGrantableByInvitation() {
		return nil, response.NewValidationError("Role must be admin or member", "")
	}

	user, err := s.userClient.FindUserByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, client.ErrUserNotFound) {
			return nil, response.NewAppError(response.ErrCodeUserNotFound, "No user exists with this email", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to resolve user", err.Error())
	}

	existing, err := s.memberRepo.FindByProjectAndUser(ctx, projectID, user.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to check existing membership", err.Error())
	}
	if existing != nil {
		return nil, response.NewAppError(response.ErrCodeAlreadyMember, "User is already a member of this project", "")
	}

	member := &domain.ProjectMember{
		ProjectID: projectID,
		UserID:    user.ID,
		Role:      role,
	}
	if err := s.memberRepo.Create(ctx, member); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to add member", err.Error())
	}

	s.gate.InvalidateRole(ctx, projectID, user.ID)

	return toMemberResponse(member), nil
}

// ListMembers lists a project's members ordered by join time
func (s *memberServiceImpl) ListMembers(ctx context.Context, projectID uuid.UUID, principal Principal) ([]*dto.MemberResponse, error) {
	if _, err := s.gate.RequireMember(ctx, projectID, principal); err != nil {
		return nil, err
	}

	members, err := s.memberRepo.FindByProject(ctx, projectID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch members", err.Error())
	}

	responses := make([]*dto.MemberResponse, len(members))
	for i, member := range members {
		responses[i] = toMemberResponse(member)
	}
	return responses, nil
}

// ChangeRole changes a member's role. Demoting the sole owner is refused, and
// touching a member that holds the owner role requires the caller to be an
// owner themselves.
func (s *memberServiceImpl) ChangeRole(ctx context.Context, projectID, targetUserID uuid.UUID, principal Principal, req *dto.ChangeRoleRequest) (*dto.MemberResponse, error) {
	if _, err := s.gate.RequireMember(ctx, projectID, principal); err != nil {
		return nil, err
	}

	newRole := domain.MemberRole(req.Role)
	if !newRole.IsValid() {
		return nil, response.NewValidationError("Role must be owner, admin or member", "")
	}

	member, err := s.memberRepo.FindByProjectAndUser(ctx, projectID, targetUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("Member not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch member", err.Error())
	}

	if member.Role == newRole {
		// Covers owner -> owner, which must not trip the last-owner check
		return toMemberResponse(member), nil
	}

	// Demoting an owner or granting ownership is owner-only territory
	if member.Role == domain.RoleOwner || newRole == domain.RoleOwner {
		if err := s.gate.RequireOwner(ctx, projectID, principal); err != nil {
			return nil, err
		}
	}

	if member.Role == domain.RoleOwner {
		owners, err := s.memberRepo.CountOwners(ctx, projectID)
		if err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to count owners", err.Error())
		}
		if owners <= 1 {
			return nil, response.NewAppError(response.ErrCodeLastOwner, "Cannot demote the last owner of the project", "")
		}
	}

	if err := s.memberRepo.UpdateRole(ctx, projectID, targetUserID, newRole); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update role", err.Error())
	}

	s.gate.InvalidateRole(ctx, projectID, targetUserID)

	member.Role = newRole
	return toMemberResponse(member), nil
}

// RemoveMember detaches a member from a project. The last owner can never be
// removed. Tasks assigned to the removed user are reassigned to another owner
// before the membership is detached.
func (s *memberServiceImpl) RemoveMember(ctx context.Context, projectID, targetUserID uuid.UUID, principal Principal) error {
	if _, err := s.gate.RequireMember(ctx, projectID, principal); err != nil {
		return err
	}

	member, err := s.memberRepo.FindByProjectAndUser(ctx, projectID, targetUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFoundError("Member not found", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to fetch member", err.Error())
	}

	if member.Role == domain.RoleOwner {
		if err := s.gate.RequireOwner(ctx, projectID, principal); err != nil {
			return err
		}
		owners, err := s.memberRepo.CountOwners(ctx, projectID)
		if err != nil {
			return response.NewAppError(response.ErrCodeInternal, "Failed to count owners", err.Error())
		}
		if owners <= 1 {
			return response.NewAppError(response.ErrCodeLastOwner, "Cannot remove the last owner of the project", "")
		}
	}

	reassignTo := s.pickReassignmentOwner(ctx, projectID, targetUserID)

	if err := s.memberRepo.RemoveWithReassignment(ctx, projectID, targetUserID, reassignTo); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to remove member", err.Error())
	}

	s.gate.InvalidateRole(ctx, projectID, targetUserID)

	return nil
}

// pickReassignmentOwner deterministically picks the owner that inherits the
// removed member's tasks: the longest-standing owner other than the target,
// falling back to any owner. Reassignment is best-effort bookkeeping, so a
// lookup failure yields nil rather than blocking the removal.
func (s *memberServiceImpl) pickReassignmentOwner(ctx context.Context, projectID, excludeUserID uuid.UUID) *uuid.UUID {
	owners, err := s.memberRepo.FindOwners(ctx, projectID)
	if err != nil {
		s.logger.Warn("Failed to fetch owners for task reassignment",
			zap.String("project_id", projectID.String()),
			zap.Error(err),
		)
		return nil
	}

	for _, owner := range owners {
		if owner.UserID != excludeUserID {
			userID := owner.UserID
			return &userID
		}
	}
	if len(owners) > 0 {
		userID := owners[0].UserID
		return &userID
	}
	return nil
}

// toMemberResponse converts domain.ProjectMember to dto.MemberResponse
func toMemberResponse(member *domain.ProjectMember) *dto.MemberResponse {
	return &dto.MemberResponse{
		MemberID:  member.ID,
		ProjectID: member.ProjectID,
		UserID:    member.UserID,
		Role:      string(member.Role),
		JoinedAt:  member.JoinedAt,
	}
}

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
	"project-collab-api/internal/metrics"
	"project-collab-api/internal/repository"
	"project-collab-api/internal/response"
)

// InvitationService defines the interface for invitation business logic
type InvitationService interface {
	Invite(ctx context.Context, projectID uuid.UUID, principal Principal, req *dto.CreateInvitationRequest) (*dto.InvitationResponse, error)
	Cancel(ctx context.Context, projectID, invitationID uuid.UUID, principal Principal) error
	Accept(ctx context.Context, invitationID uuid.UUID, principal Principal) error
	Reject(ctx context.Context, invitationID uuid.UUID, principal Principal) error
	ListPendingForProject(ctx context.Context, projectID uuid.UUID, principal Principal) ([]*dto.InvitationResponse, error)
	ListPendingForUser(ctx context.Context, principal Principal) ([]*dto.InvitationResponse, error)
}

// invitationServiceImpl is the implementation of InvitationService
type invitationServiceImpl struct {
	invitationRepo repository.InvitationRepository
	memberRepo     repository.MemberRepository
	userClient     client.UserClient
	gate           RoleGate
	metrics        *metrics.Metrics
	logger         *zap.Logger
}

// NewInvitationService creates a new instance of InvitationService
func NewInvitationService(
	invitationRepo repository.InvitationRepository,
	memberRepo repository.MemberRepository,
	userClient client.UserClient,
	gate RoleGate,
	m *metrics.Metrics,
	logger *zap.Logger,
) InvitationService {
	return &invitationServiceImpl{
		invitationRepo: invitationRepo,
		memberRepo:     memberRepo,
		userClient:     userClient,
		gate:           gate,
		metrics:        m,
		logger:         logger,
	}
}

// newInvitationToken returns an opaque 32-character token for the invitation row
func newInvitationToken() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// Invite creates or recycles an invitation for a project. The target may be
// addressed by email or by username; a username is resolved to an email through
// the user directory. A rejected or stale invitation row for the same email is
// recycled in place rather than duplicated.
func (s *invitationServiceImpl) Invite(ctx context.Context, projectID uuid.UUID, principal Principal, req *dto.CreateInvitationRequest) (*dto.InvitationResponse, error) {
	if _, err := s.gate.RequireMember(ctx, projectID, principal); err != nil {
		return nil, err
	}

	role := domain.MemberRole(req.Role)
	if !role.IsGrantableByInvitation() {
		return nil, response.NewValidationError("Role must be admin or member", "")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)
	if email == "" && username == "" {
		return nil, response.NewValidationError("Either email or username is required", "")
	}

	var directoryUser *client.DirectoryUser
	if email == "" {
		user, err := s.userClient.FindUserByUsername(ctx, username)
		if err != nil {
			if errors.Is(err, client.ErrUserNotFound) {
				return nil, response.NewAppError(response.ErrCodeUserNotFound, "No user exists with this username", "")
			}
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to resolve user", err.Error())
		}
		directoryUser = user
		email = strings.ToLower(user.Email)
	} else {
		user, err := s.userClient.FindUserByEmail(ctx, email)
		if err != nil && !errors.Is(err, client.ErrUserNotFound) {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to resolve user", err.Error())
		}
		// Inviting an email with no account yet is allowed; membership is
		// checked only when the address maps to a registered user.
		directoryUser = user
	}

	if directoryUser != nil {
		existing, err := s.memberRepo.FindByProjectAndUser(ctx, projectID, directoryUser.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to check existing membership", err.Error())
		}
		if existing != nil {
			return nil, response.NewAppError(response.ErrCodeAlreadyMember, "User is already a member of this project", "")
		}
	}

	invitation, err := s.invitationRepo.FindByProjectAndEmail(ctx, projectID, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to check existing invitation", err.Error())
	}

	if invitation != nil {
		if invitation.Status == domain.InvitationPending {
			return nil, response.NewAppError(response.ErrCodeDuplicateInvitation, "An invitation for this email is already pending", "")
		}
		// Recycle the settled row in place: same id, fresh token and role
		invitation.Username = username
		invitation.Role = role
		invitation.Status = domain.InvitationPending
		invitation.Token = newInvitationToken()
		invitation.InvitedBy = principal.UserID
		if err := s.invitationRepo.Update(ctx, invitation); err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to recycle invitation", err.Error())
		}
	} else {
		invitation = &domain.ProjectInvitation{
			ProjectID: projectID,
			Email:     email,
			Username:  username,
			Token:     newInvitationToken(),
			Role:      role,
			Status:    domain.InvitationPending,
			InvitedBy: principal.UserID,
		}
		if err := s.invitationRepo.Create(ctx, invitation); err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create invitation", err.Error())
		}
	}

	s.metrics.InvitationSentTotal.Inc()
	s.logger.Info("Invitation sent",
		zap.String("project_id", projectID.String()),
		zap.String("invitation_id", invitation.ID.String()),
	)

	return toInvitationResponse(invitation), nil
}

// Cancel withdraws an invitation regardless of its status and removes the row,
// which also clears the re-invite history for that address. Any member of the
// project may cancel.
func (s *invitationServiceImpl) Cancel(ctx context.Context, projectID, invitationID uuid.UUID, principal Principal) error {
	if _, err := s.gate.RequireMember(ctx, projectID, principal); err != nil {
		return err
	}

	invitation, err := s.invitationRepo.FindByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFoundError("Invitation not found", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to fetch invitation", err.Error())
	}
	if invitation.ProjectID != projectID {
		return response.NewNotFoundError("Invitation not found", "")
	}
	if err := s.invitationRepo.Delete(ctx, invitationID); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to cancel invitation", err.Error())
	}
	return nil
}

// Accept accepts an invitation addressed to the caller's email and creates the
// membership atomically. Accepting twice is a no-op, and accepting while
// already a member just settles the invitation without a second membership row.
func (s *invitationServiceImpl) Accept(ctx context.Context, invitationID uuid.UUID, principal Principal) error {
	invitation, err := s.loadOwnInvitation(ctx, invitationID, principal)
	if err != nil {
		return err
	}

	if invitation.Status == domain.InvitationAccepted {
		return nil
	}

	existing, err := s.memberRepo.FindByProjectAndUser(ctx, invitation.ProjectID, principal.UserID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NewAppError(response.ErrCodeInternal, "Failed to check existing membership", err.Error())
	}

	var member *domain.ProjectMember
	if existing == nil {
		member = &domain.ProjectMember{
			ProjectID: invitation.ProjectID,
			UserID:    principal.UserID,
			Role:      invitation.Role,
		}
	}

	if err := s.invitationRepo.AcceptWithMember(ctx, invitation, member); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to accept invitation", err.Error())
	}

	s.gate.InvalidateRole(ctx, invitation.ProjectID, principal.UserID)
	s.metrics.InvitationAcceptedTotal.Inc()
	s.logger.Info("Invitation accepted",
		zap.String("project_id", invitation.ProjectID.String()),
		zap.String("invitation_id", invitation.ID.String()),
	)
	return nil
}

// Reject declines an invitation addressed to the caller's email. The row is
// kept with rejected status so a later re-invite recycles it.
func (s *invitationServiceImpl) Reject(ctx context.Context, invitationID uuid.UUID, principal Principal) error {
	invitation, err := s.loadOwnInvitation(ctx, invitationID, principal)
	if err != nil {
		return err
	}

	if invitation.Status == domain.InvitationRejected {
		return nil
	}
	if invitation.Status != domain.InvitationPending {
		return response.NewValidationError("Only a pending invitation can be rejected", "")
	}

	invitation.Status = domain.InvitationRejected
	if err := s.invitationRepo.Update(ctx, invitation); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to reject invitation", err.Error())
	}

	s.metrics.InvitationRejectedTotal.Inc()
	return nil
}

// ListPendingForProject lists a project's outstanding invitations
func (s *invitationServiceImpl) ListPendingForProject(ctx context.Context, projectID uuid.UUID, principal Principal) ([]*dto.InvitationResponse, error) {
	if _, err := s.gate.RequireMember(ctx, projectID, principal); err != nil {
		return nil, err
	}

	invitations, err := s.invitationRepo.FindPendingByProject(ctx, projectID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch invitations", err.Error())
	}
	return toInvitationResponses(invitations), nil
}

// ListPendingForUser lists the caller's invitation inbox, newest first
func (s *invitationServiceImpl) ListPendingForUser(ctx context.Context, principal Principal) ([]*dto.InvitationResponse, error) {
	invitations, err := s.invitationRepo.FindPendingByEmail(ctx, strings.ToLower(principal.Email))
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch invitations", err.Error())
	}
	return toInvitationResponses(invitations), nil
}

// loadOwnInvitation fetches an invitation and verifies it is addressed to the
// caller's email, matched case-insensitively.
func (s *invitationServiceImpl) loadOwnInvitation(ctx context.Context, invitationID uuid.UUID, principal Principal) (*domain.ProjectInvitation, error) {
	invitation, err := s.invitationRepo.FindByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("Invitation not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch invitation", err.Error())
	}
	if !strings.EqualFold(invitation.Email, principal.Email) {
		return nil, response.NewForbiddenError("This invitation is addressed to another user", "")
	}
	return invitation, nil
}

// toInvitationResponse converts domain.ProjectInvitation to dto.InvitationResponse
func toInvitationResponse(invitation *domain.ProjectInvitation) *dto.InvitationResponse {
	resp := &dto.InvitationResponse{
		ID:        invitation.ID,
		ProjectID: invitation.ProjectID,
		Email:     invitation.Email,
		Username:  invitation.Username,
		Role:      string(invitation.Role),
		Status:    string(invitation.Status),
		InvitedBy: invitation.InvitedBy,
		CreatedAt: invitation.CreatedAt,
		UpdatedAt: invitation.UpdatedAt,
	}
	if invitation.Project.ID != uuid.Nil {
		resp.ProjectName = invitation.Project.Name
	}
	return resp
}

// toInvitationResponses converts a slice of invitations
func toInvitationResponses(invitations []*domain.ProjectInvitation) []*dto.InvitationResponse {
	responses := make([]*dto.InvitationResponse, len(invitations))
	for i, invitation := range invitations {
		responses[i] = toInvitationResponse(invitation)
	}
	return responses
}

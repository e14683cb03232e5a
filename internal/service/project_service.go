package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"project-collab-api/internal/domain"
	"project-collab-api/internal/dto"
	"project-collab-api/internal/metrics"
	"project-collab-api/internal/repository"
	"project-collab-api/internal/response"
)

// ProjectService defines the interface for project business logic
type ProjectService interface {
	CreateProject(ctx context.Context, principal Principal, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error)
	ListProjects(ctx context.Context, principal Principal) ([]*dto.ProjectResponse, error)
	GetProject(ctx context.Context, projectID uuid.UUID, principal Principal) (*dto.ProjectDetailResponse, error)
	UpdateProject(ctx context.Context, projectID uuid.UUID, principal Principal, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error)
	DeleteProject(ctx context.Context, projectID uuid.UUID, principal Principal) error
}

// projectServiceImpl is the implementation of ProjectService
type projectServiceImpl struct {
	projectRepo    repository.ProjectRepository
	memberRepo     repository.MemberRepository
	invitationRepo repository.InvitationRepository
	statusRepo     repository.StatusRepository
	gate           RoleGate
	metrics        *metrics.Metrics
	logger         *zap.Logger
}

// NewProjectService creates a new instance of ProjectService
func NewProjectService(
	projectRepo repository.ProjectRepository,
	memberRepo repository.MemberRepository,
	invitationRepo repository.InvitationRepository,
	statusRepo repository.StatusRepository,
	gate RoleGate,
	m *metrics.Metrics,
	logger *zap.Logger,
) ProjectService {
	return &projectServiceImpl{
		projectRepo:    projectRepo,
		memberRepo:     memberRepo,
		invitationRepo: invitationRepo,
		statusRepo:     statusRepo,
		gate:           gate,
		metrics:        m,
		logger:         logger,
	}
}

// CreateProject creates a project with the caller as owner and the five
// default status columns seeded, all in one transaction.
func (s *projectServiceImpl) CreateProject(ctx context.Context, principal Principal, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	if req.StartDate != nil && req.DueDate != nil && req.DueDate.Before(*req.StartDate) {
		return nil, response.NewValidationError("Due date must not be before start date", "")
	}

	status := domain.ProjectStatusPending
	if req.Status != "" {
		status = domain.ProjectStatus(req.Status)
	}

	project := &domain.Project{
		Name:        req.Name,
		Description: req.Description,
		Status:      status,
		StartDate:   req.StartDate,
		DueDate:     req.DueDate,
	}
	if err := s.projectRepo.CreateWithOwner(ctx, project, principal.UserID); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create project", err.Error())
	}

	s.gate.InvalidateRole(ctx, project.ID, principal.UserID)
	s.metrics.ProjectCreatedTotal.Inc()
	s.logger.Info("Project created",
		zap.String("project_id", project.ID.String()),
		zap.String("owner_id", principal.UserID.String()),
	)

	return toProjectResponse(project), nil
}

// ListProjects lists every project the caller is a member of, newest first
func (s *projectServiceImpl) ListProjects(ctx context.Context, principal Principal) ([]*dto.ProjectResponse, error) {
	projects, err := s.projectRepo.FindByMember(ctx, principal.UserID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch projects", err.Error())
	}

	responses := make([]*dto.ProjectResponse, len(projects))
	for i, project := range projects {
		responses[i] = toProjectResponse(project)
	}
	return responses, nil
}

// GetProject returns a project together with its members, outstanding
// invitations, status columns and the caller's own role.
func (s *projectServiceImpl) GetProject(ctx context.Context, projectID uuid.UUID, principal Principal) (*dto.ProjectDetailResponse, error) {
	role, err := s.gate.RequireMember(ctx, projectID, principal)
	if err != nil {
		return nil, err
	}

	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("Project not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch project", err.Error())
	}

	members, err := s.memberRepo.FindByProject(ctx, projectID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch members", err.Error())
	}
	invitations, err := s.invitationRepo.FindPendingByProject(ctx, projectID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch invitations", err.Error())
	}
	statuses, err := s.statusRepo.FindByProject(ctx, projectID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch status columns", err.Error())
	}

	detail := &dto.ProjectDetailResponse{
		ProjectResponse: *toProjectResponse(project),
		CallerRole:      string(role),
	}
	detail.Members = make([]dto.MemberResponse, len(members))
	for i, member := range members {
		detail.Members[i] = *toMemberResponse(member)
	}
	detail.PendingInvitations = make([]dto.InvitationResponse, len(invitations))
	for i, invitation := range invitations {
		detail.PendingInvitations[i] = *toInvitationResponse(invitation)
	}
	detail.Statuses = make([]dto.StatusResponse, len(statuses))
	for i, status := range statuses {
		detail.Statuses[i] = *toStatusResponse(status)
	}
	return detail, nil
}

// UpdateProject updates a project's own fields. Any member may edit.
func (s *projectServiceImpl) UpdateProject(ctx context.Context, projectID uuid.UUID, principal Principal, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	if _, err := s.gate.RequireMember(ctx, projectID, principal); err != nil {
		return nil, err
	}

	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("Project not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch project", err.Error())
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Status != nil {
		project.Status = domain.ProjectStatus(*req.Status)
	}
	if req.StartDate != nil {
		project.StartDate = req.StartDate
	}
	if req.DueDate != nil {
		project.DueDate = req.DueDate
	}
	if project.StartDate != nil && project.DueDate != nil && project.DueDate.Before(*project.StartDate) {
		return nil, response.NewValidationError("Due date must not be before start date", "")
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update project", err.Error())
	}
	return toProjectResponse(project), nil
}

// DeleteProject deletes a project and everything hanging off it. Owner only.
func (s *projectServiceImpl) DeleteProject(ctx context.Context, projectID uuid.UUID, principal Principal) error {
	if err := s.gate.RequireOwner(ctx, projectID, principal); err != nil {
		return err
	}

	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFoundError("Project not found", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to fetch project", err.Error())
	}

	if err := s.projectRepo.Delete(ctx, projectID); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete project", err.Error())
	}

	s.logger.Info("Project deleted",
		zap.String("project_id", projectID.String()),
		zap.String("deleted_by", principal.UserID.String()),
	)
	return nil
}

// toProjectResponse converts domain.Project to dto.ProjectResponse
func toProjectResponse(project *domain.Project) *dto.ProjectResponse {
	return &dto.ProjectResponse{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		Status:      string(project.Status),
		StartDate:   project.StartDate,
		DueDate:     project.DueDate,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

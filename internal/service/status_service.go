package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"project-collab-api/internal/domain"
	"project-collab-api/internal/dto"
	"project-collab-api/internal/repository"
	"project-collab-api/internal/response"
)

// StatusService defines the interface for status column business logic
type StatusService interface {
	CreateStatus(ctx context.Context, projectID uuid.UUID, principal Principal, req *dto.CreateStatusRequest) (*dto.StatusResponse, error)
	ListStatuses(ctx context.Context, projectID uuid.UUID, principal Principal) ([]*dto.StatusResponse, error)
	UpdateStatus(ctx context.Context, projectID, statusID uuid.UUID, principal Principal, req *dto.UpdateStatusRequest) (*dto.StatusResponse, error)
	ReorderStatuses(ctx context.Context, projectID uuid.UUID, principal Principal, req *dto.ReorderStatusesRequest) ([]*dto.StatusResponse, error)
	DeleteStatus(ctx context.Context, projectID, statusID uuid.UUID, principal Principal) error
}

// statusServiceImpl is the implementation of StatusService
type statusServiceImpl struct {
	statusRepo repository.StatusRepository
	gate       RoleGate
	logger     *zap.Logger
}

// NewStatusService creates a new instance of StatusService
func NewStatusService(statusRepo repository.StatusRepository, gate RoleGate, logger *zap.Logger) StatusService {
	return &statusServiceImpl{
		statusRepo: statusRepo,
		gate:       gate,
		logger:     logger,
	}
}

// CreateStatus appends a new column at the end of the project's board. The
// slug is derived from the name with a random suffix and never changes again.
func (s *statusServiceImpl) CreateStatus(ctx context.Context, projectID uuid.UUID, principal Principal, req *dto.CreateStatusRequest) (*dto.StatusResponse, error) {
	if _, err := s.gate.RequireMember(ctx, projectID, principal); err != nil {
		return nil, err
	}

	maxOrder, err := s.statusRepo.MaxOrder(ctx, projectID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to determine column order", err.Error())
	}

	color := req.Color
	if color == "" {
		color = "gray"
	}

	status := &domain.TaskStatus{
		ProjectID:   projectID,
		Name:        req.Name,
		Slug:        uniqueSlug(req.Name),
		Color:       color,
		OrderColumn: maxOrder + 1,
		IsDefault:   false,
	}
	if err := s.statusRepo.Create(ctx, status); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create status column", err.Error())
	}

	return toStatusResponse(status), nil
}

// ListStatuses lists a project's columns in display order
func (s *statusServiceImpl) ListStatuses(ctx context.Context, projectID uuid.UUID, principal Principal) ([]*dto.StatusResponse, error) {
	if _, err := s.gate.RequireMember(ctx, projectID, principal); err != nil {
		return nil, err
	}

	statuses, err := s.statusRepo.FindByProject(ctx, projectID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch status columns", err.Error())
	}
	return toStatusResponses(statuses), nil
}

// UpdateStatus renames or recolors a column. Slug and position are untouched,
// so tasks keep their placement and a renamed Done column stays the done column.
func (s *statusServiceImpl) UpdateStatus(ctx context.Context, projectID, statusID uuid.UUID, principal Principal, req *dto.UpdateStatusRequest) (*dto.StatusResponse, error) {
	if _, err := s.gate.RequireMember(ctx, projectID, principal); err != nil {
		return nil, err
	}

	status, err := s.loadProjectStatus(ctx, projectID, statusID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		status.Name = *req.Name
	}
	if req.Color != nil {
		status.Color = *req.Color
	}

	if err := s.statusRepo.Update(ctx, status); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update status column", err.Error())
	}
	return toStatusResponse(status), nil
}

// ReorderStatuses applies a caller-supplied ordering to the project's columns.
// IDs that do not belong to the project are dropped, and the surviving
// assignments are normalized to a contiguous 0-based sequence in the order
// given before being written.
func (s *statusServiceImpl) ReorderStatuses(ctx context.Context, projectID uuid.UUID, principal Principal, req *dto.ReorderStatusesRequest) ([]*dto.StatusResponse, error) {
	if _, err := s.gate.RequireMember(ctx, projectID, principal); err != nil {
		return nil, err
	}

	statuses, err := s.statusRepo.FindByProject(ctx, projectID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch status columns", err.Error())
	}
	owned := make(map[uuid.UUID]bool, len(statuses))
	for _, status := range statuses {
		owned[status.ID] = true
	}

	assignments := make([]repository.StatusOrderAssignment, 0, len(req.Statuses))
	seen := make(map[uuid.UUID]bool, len(req.Statuses))
	for _, item := range req.Statuses {
		if !owned[item.ID] || seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		assignments = append(assignments, repository.StatusOrderAssignment{
			ID:          item.ID,
			OrderColumn: len(assignments),
		})
	}
	if len(assignments) == 0 {
		return nil, response.NewValidationError("No columns of this project were referenced", "")
	}

	if err := s.statusRepo.UpdateOrders(ctx, projectID, assignments); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to reorder status columns", err.Error())
	}

	statuses, err = s.statusRepo.FindByProject(ctx, projectID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch status columns", err.Error())
	}
	return toStatusResponses(statuses), nil
}

// DeleteStatus removes a column. Seeded columns and the last remaining column
// are protected. Tasks in the column are migrated to the lowest-order
// surviving column before deletion.
func (s *statusServiceImpl) DeleteStatus(ctx context.Context, projectID, statusID uuid.UUID, principal Principal) error {
	if _, err := s.gate.RequireMember(ctx, projectID, principal); err != nil {
		return err
	}

	status, err := s.loadProjectStatus(ctx, projectID, statusID)
	if err != nil {
		return err
	}

	if status.IsDefault {
		return response.NewAppError(response.ErrCodeCannotDeleteDefault, "Default status columns cannot be deleted", "")
	}

	target, err := s.statusRepo.FirstByOrder(ctx, projectID, &statusID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeCannotDeleteLastColumn, "The last status column of a project cannot be deleted", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to find migration target", err.Error())
	}

	migrated, err := s.statusRepo.CountTasks(ctx, statusID)
	if err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to count tasks in status column", err.Error())
	}

	if err := s.statusRepo.DeleteWithMigration(ctx, statusID, target); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete status column", err.Error())
	}

	s.logger.Info("Status column deleted",
		zap.String("project_id", projectID.String()),
		zap.String("status_id", statusID.String()),
		zap.String("migrated_to", target.ID.String()),
		zap.Int64("migrated_tasks", migrated),
	)
	return nil
}

// loadProjectStatus fetches a column and verifies it belongs to the project
func (s *statusServiceImpl) loadProjectStatus(ctx context.Context, projectID, statusID uuid.UUID) (*domain.TaskStatus, error) {
	status, err := s.statusRepo.FindByID(ctx, statusID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("Status column not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch status column", err.Error())
	}
	if status.ProjectID != projectID {
		return nil, response.NewNotFoundError("Status column not found", "")
	}
	return status, nil
}

// toStatusResponse converts domain.TaskStatus to dto.StatusResponse
func toStatusResponse(status *domain.TaskStatus) *dto.StatusResponse {
	return &dto.StatusResponse{
		ID:          status.ID,
		ProjectID:   status.ProjectID,
		Name:        status.Name,
		Slug:        status.Slug,
		Color:       status.Color,
		OrderColumn: status.OrderColumn,
		IsDefault:   status.IsDefault,
		CreatedAt:   status.CreatedAt,
		UpdatedAt:   status.UpdatedAt,
	}
}

// toStatusResponses converts a slice of status columns
func toStatusResponses(statuses []*domain.TaskStatus) []*dto.StatusResponse {
	responses := make([]*dto.StatusResponse, len(statuses))
	for i, status := range statuses {
		responses[i] = toStatusResponse(status)
	}
	return responses
}

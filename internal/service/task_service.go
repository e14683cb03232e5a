package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"project-collab-api/internal/domain"
	"project-collab-api/internal/dto"
	"project-collab-api/internal/metrics"
	"project-collab-api/internal/repository"
	"project-collab-api/internal/response"
)

// TaskService defines the interface for task business logic
type TaskService interface {
	CreateTask(ctx context.Context, principal Principal, req *dto.CreateTaskRequest) (*dto.TaskResponse, error)
	GetTask(ctx context.Context, projectID, taskID uuid.UUID, principal Principal) (*dto.TaskResponse, error)
	ListBoard(ctx context.Context, projectID uuid.UUID, principal Principal) ([]*dto.BoardColumnResponse, error)
	UpdateTask(ctx context.Context, projectID, taskID uuid.UUID, principal Principal, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error)
	MoveTask(ctx context.Context, projectID, taskID uuid.UUID, principal Principal, req *dto.MoveTaskRequest) (*dto.MoveTaskResponse, error)
	DeleteTask(ctx context.Context, projectID, taskID uuid.UUID, principal Principal) error
}

// taskServiceImpl is the implementation of TaskService
type taskServiceImpl struct {
	taskRepo   repository.TaskRepository
	statusRepo repository.StatusRepository
	gate       RoleGate
	metrics    *metrics.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// NewTaskService creates a new instance of TaskService
func NewTaskService(
	taskRepo repository.TaskRepository,
	statusRepo repository.StatusRepository,
	gate RoleGate,
	m *metrics.Metrics,
	logger *zap.Logger,
) TaskService {
	return &taskServiceImpl{
		taskRepo:   taskRepo,
		statusRepo: statusRepo,
		gate:       gate,
		metrics:    m,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateTask creates a task in the column addressed by slug. Without an
// explicit position the task is appended; with one, siblings at and after the
// position shift down. A task created directly into the done column is stamped
// completed immediately.
func (s *taskServiceImpl) CreateTask(ctx context.Context, principal Principal, req *dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	if _, err := s.gate.RequireMember(ctx, req.ProjectID, principal); err != nil {
		return nil, err
	}

	status, err := s.resolveStatus(ctx, req.ProjectID, req.Status)
	if err != nil {
		return nil, err
	}

	siblings, err := s.taskRepo.FindByStatus(ctx, status.ID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch column tasks", err.Error())
	}

	position := len(siblings)
	if req.Position != nil {
		position = clamp(*req.Position, 0, len(siblings))
	}

	task := &domain.Task{
		ProjectID:         req.ProjectID,
		TaskStatusID:      status.ID,
		Title:             req.Title,
		Description:       req.Description,
		Priority:          domain.TaskPriority(req.Priority),
		ResultExplanation: req.ResultExplanation,
		AssignedTo:        req.AssignedTo,
		OrderColumn:       position,
		StartDate:         req.StartDate,
		DueDate:           req.DueDate,
	}
	if status.IsDone() {
		now := s.now()
		task.CompletedAt = &now
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create task", err.Error())
	}

	// Shift the siblings that now sit at or after the inserted position
	if position < len(siblings) {
		placements := make([]repository.TaskPlacement, 0, len(siblings)-position)
		for i := position; i < len(siblings); i++ {
			placements = append(placements, repository.TaskPlacement{
				TaskID:      siblings[i].ID,
				StatusID:    status.ID,
				OrderColumn: i + 1,
			})
		}
		if err := s.taskRepo.ApplyPlacements(ctx, placements); err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to shift column tasks", err.Error())
		}
	}

	s.metrics.TaskCreatedTotal.Inc()
	if status.IsDone() {
		s.metrics.TaskCompletedTotal.Inc()
	}
	s.logger.Info("Task created",
		zap.String("project_id", req.ProjectID.String()),
		zap.String("task_id", task.ID.String()),
		zap.String("status", status.Slug),
	)

	return toTaskResponse(task, status.Slug), nil
}

// GetTask fetches a single task of a project
func (s *taskServiceImpl) GetTask(ctx context.Context, projectID, taskID uuid.UUID, principal Principal) (*dto.TaskResponse, error) {
	if _, err := s.gate.RequireMember(ctx, projectID, principal); err != nil {
		return nil, err
	}

	task, err := s.loadProjectTask(ctx, projectID, taskID)
	if err != nil {
		return nil, err
	}
	status, err := s.statusRepo.FindByID(ctx, task.TaskStatusID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch task column", err.Error())
	}
	return toTaskResponse(task, status.Slug), nil
}

// ListBoard returns the project's tasks grouped by column, columns in display
// order and tasks in position order. Empty columns are included.
func (s *taskServiceImpl) ListBoard(ctx context.Context, projectID uuid.UUID, principal Principal) ([]*dto.BoardColumnResponse, error) {
	if _, err := s.gate.RequireMember(ctx, projectID, principal); err != nil {
		return nil, err
	}

	statuses, err := s.statusRepo.FindByProject(ctx, projectID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch status columns", err.Error())
	}
	tasks, err := s.taskRepo.FindByProject(ctx, projectID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch tasks", err.Error())
	}

	grouped := make(map[uuid.UUID][]dto.TaskResponse, len(statuses))
	slugs := make(map[uuid.UUID]string, len(statuses))
	for _, status := range statuses {
		slugs[status.ID] = status.Slug
	}
	for _, task := range tasks {
		grouped[task.TaskStatusID] = append(grouped[task.TaskStatusID], *toTaskResponse(task, slugs[task.TaskStatusID]))
	}

	board := make([]*dto.BoardColumnResponse, len(statuses))
	for i, status := range statuses {
		column := grouped[status.ID]
		if column == nil {
			column = []dto.TaskResponse{}
		}
		board[i] = &dto.BoardColumnResponse{
			Status: *toStatusResponse(status),
			Tasks:  column,
		}
	}
	return board, nil
}

// UpdateTask edits a task's fields. A status slug carried with the edit is a
// move to the end of that column (or to the requested position), handled with
// the same placement rules as an explicit move.
func (s *taskServiceImpl) UpdateTask(ctx context.Context, projectID, taskID uuid.UUID, principal Principal, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	if _, err := s.gate.RequireMember(ctx, projectID, principal); err != nil {
		return nil, err
	}

	task, err := s.loadProjectTask(ctx, projectID, taskID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Priority != nil {
		priority := domain.TaskPriority(*req.Priority)
		if !priority.IsValid() {
			return nil, response.NewValidationError("Priority must be low, medium or high", "")
		}
		task.Priority = priority
	}
	if req.ResultExplanation != nil {
		task.ResultExplanation = *req.ResultExplanation
	}
	if req.AssignedTo != nil {
		task.AssignedTo = req.AssignedTo
	}
	if req.StartDate != nil {
		task.StartDate = req.StartDate
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if task.StartDate != nil && task.DueDate != nil && task.DueDate.Before(*task.StartDate) {
		return nil, response.NewValidationError("Due date must not be before start date", "")
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update task", err.Error())
	}

	if req.Status != nil {
		position := -1
		if req.Position != nil {
			position = *req.Position
		}
		moved, err := s.moveTask(ctx, projectID, task, *req.Status, position)
		if err != nil {
			return nil, err
		}
		return &moved.Task, nil
	}

	status, err := s.statusRepo.FindByID(ctx, task.TaskStatusID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch task column", err.Error())
	}
	return toTaskResponse(task, status.Slug), nil
}

// MoveTask places a task into a column at a position. The requested position
// is clamped, both affected columns are renumbered to contiguous 0-based
// sequences, and the response carries the resulting ordering of the touched
// columns so the client state is authoritative immediately.
func (s *taskServiceImpl) MoveTask(ctx context.Context, projectID, taskID uuid.UUID, principal Principal, req *dto.MoveTaskRequest) (*dto.MoveTaskResponse, error) {
	if _, err := s.gate.RequireMember(ctx, projectID, principal); err != nil {
		return nil, err
	}

	task, err := s.loadProjectTask(ctx, projectID, taskID)
	if err != nil {
		return nil, err
	}

	return s.moveTask(ctx, projectID, task, req.Status, req.Position)
}

// moveTask is the shared placement engine behind MoveTask and status-carrying
// edits. A negative position means "append to the end of the target column".
func (s *taskServiceImpl) moveTask(ctx context.Context, projectID uuid.UUID, task *domain.Task, statusSlug string, position int) (*dto.MoveTaskResponse, error) {
	target, err := s.resolveStatus(ctx, projectID, statusSlug)
	if err != nil {
		return nil, err
	}

	sourceID := task.TaskStatusID
	sameColumn := sourceID == target.ID

	source, err := s.statusRepo.FindByID(ctx, sourceID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch task column", err.Error())
	}

	targetTasks, err := s.taskRepo.FindByStatus(ctx, target.ID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch column tasks", err.Error())
	}
	// Work on the column as it will look without the moved task
	remaining := withoutTask(targetTasks, task.ID)
	position = clampMove(position, len(remaining))

	placements := make([]repository.TaskPlacement, 0, len(remaining)+8)

	// Renumber the target column around the insertion point. The moved task's
	// own write carries column, position and completed_at in one UPDATE.
	for i, sibling := range remaining {
		order := i
		if i >= position {
			order = i + 1
		}
		if sibling.OrderColumn != order {
			placements = append(placements, repository.TaskPlacement{
				TaskID:      sibling.ID,
				StatusID:    target.ID,
				OrderColumn: order,
			})
		}
	}

	completedAt := task.CompletedAt
	touch := false
	if target.IsDone() && !source.IsDone() {
		now := s.now()
		completedAt = &now
		touch = true
	} else if !target.IsDone() && source.IsDone() {
		completedAt = nil
		touch = true
	}
	placements = append(placements, repository.TaskPlacement{
		TaskID:         task.ID,
		StatusID:       target.ID,
		OrderColumn:    position,
		TouchCompleted: touch,
		CompletedAt:    completedAt,
	})

	// Close the gap left behind in the source column
	if !sameColumn {
		sourceTasks, err := s.taskRepo.FindByStatus(ctx, sourceID)
		if err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch column tasks", err.Error())
		}
		for i, sibling := range withoutTask(sourceTasks, task.ID) {
			if sibling.OrderColumn != i {
				placements = append(placements, repository.TaskPlacement{
					TaskID:      sibling.ID,
					StatusID:    sourceID,
					OrderColumn: i,
				})
			}
		}
	}

	if err := s.taskRepo.ApplyPlacements(ctx, placements); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to move task", err.Error())
	}

	if touch && completedAt != nil {
		s.metrics.TaskCompletedTotal.Inc()
	}

	task.TaskStatusID = target.ID
	task.OrderColumn = position
	task.CompletedAt = completedAt

	columns, err := s.touchedColumns(ctx, source, target, sameColumn)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Task moved",
		zap.String("project_id", projectID.String()),
		zap.String("task_id", task.ID.String()),
		zap.String("to_status", target.Slug),
		zap.Int("position", position),
	)

	return &dto.MoveTaskResponse{
		Task:    *toTaskResponse(task, target.Slug),
		Columns: columns,
	}, nil
}

// DeleteTask removes a task. Remaining siblings keep their positions; relative
// order survives the gap.
func (s *taskServiceImpl) DeleteTask(ctx context.Context, projectID, taskID uuid.UUID, principal Principal) error {
	if _, err := s.gate.RequireMember(ctx, projectID, principal); err != nil {
		return err
	}

	task, err := s.loadProjectTask(ctx, projectID, taskID)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, task.ID); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete task", err.Error())
	}
	return nil
}

// touchedColumns reloads the authoritative state of the columns a move changed
func (s *taskServiceImpl) touchedColumns(ctx context.Context, source, target *domain.TaskStatus, sameColumn bool) ([]dto.BoardColumnResponse, error) {
	statuses := []*domain.TaskStatus{target}
	if !sameColumn {
		statuses = append(statuses, source)
	}

	columns := make([]dto.BoardColumnResponse, len(statuses))
	for i, status := range statuses {
		tasks, err := s.taskRepo.FindByStatus(ctx, status.ID)
		if err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch column tasks", err.Error())
		}
		responses := make([]dto.TaskResponse, len(tasks))
		for j, task := range tasks {
			responses[j] = *toTaskResponse(task, status.Slug)
		}
		columns[i] = dto.BoardColumnResponse{
			Status: *toStatusResponse(status),
			Tasks:  responses,
		}
	}
	return columns, nil
}

// resolveStatus maps a slug onto one of the project's columns
func (s *taskServiceImpl) resolveStatus(ctx context.Context, projectID uuid.UUID, slug string) (*domain.TaskStatus, error) {
	status, err := s.statusRepo.FindByProjectAndSlug(ctx, projectID, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeUnknownStatus, "No status column with this slug exists in the project", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to resolve status column", err.Error())
	}
	return status, nil
}

// loadProjectTask fetches a task and verifies it belongs to the project
func (s *taskServiceImpl) loadProjectTask(ctx context.Context, projectID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("Task not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch task", err.Error())
	}
	if task.ProjectID != projectID {
		return nil, response.NewNotFoundError("Task not found", "")
	}
	return task, nil
}

// withoutTask filters one task out of a position-ordered slice
func withoutTask(tasks []*domain.Task, id uuid.UUID) []*domain.Task {
	filtered := make([]*domain.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.ID != id {
			filtered = append(filtered, task)
		}
	}
	return filtered
}

// clamp bounds v to [low, high]
func clamp(v, low, high int) int {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}

// clampMove maps a requested move position onto [0, size]; negative means append
func clampMove(position, size int) int {
	if position < 0 || position > size {
		return size
	}
	return position
}

// toTaskResponse converts domain.Task to dto.TaskResponse
func toTaskResponse(task *domain.Task, statusSlug string) *dto.TaskResponse {
	return &dto.TaskResponse{
		ID:                task.ID,
		ProjectID:         task.ProjectID,
		StatusID:          task.TaskStatusID,
		StatusSlug:        statusSlug,
		Title:             task.Title,
		Description:       task.Description,
		Priority:          string(task.Priority),
		ResultExplanation: task.ResultExplanation,
		AssignedTo:        task.AssignedTo,
		OrderColumn:       task.OrderColumn,
		StartDate:         task.StartDate,
		DueDate:           task.DueDate,
		CompletedAt:       task.CompletedAt,
		CreatedAt:         task.CreatedAt,
		UpdatedAt:         task.UpdatedAt,
	}
}

package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"project-collab-api/internal/domain"
)

// TaskPlacement is one row write of a placement change. For the moved task it
// carries the new column, position and completed_at together so they land in a
// single UPDATE; for renumbered siblings only the order changes.
type TaskPlacement struct {
	TaskID      uuid.UUID
	StatusID    uuid.UUID
	OrderColumn int
	// TouchCompleted marks that completed_at must be written (possibly to nil)
	// in the same update as the column change.
	TouchCompleted bool
	CompletedAt    *time.Time
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	FindByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Task, error)
	FindByStatus(ctx context.Context, statusID uuid.UUID) ([]*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	// ApplyPlacements writes a set of placement changes in one transaction,
	// one UPDATE per row.
	ApplyPlacements(ctx context.Context, placements []TaskPlacement) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// taskRepositoryImpl is the GORM implementation of TaskRepository
type taskRepositoryImpl struct {
	db *gorm.DB
}

// NewTaskRepository creates a new instance of TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepositoryImpl{db: db}
}

// Create creates a new task
func (r *taskRepositoryImpl) Create(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// FindByID finds a task by ID
func (r *taskRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	var task domain.Task
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// FindByProject finds all tasks of a project ordered by position
func (r *taskRepositoryImpl) FindByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Task, error) {
	var tasks []*domain.Task
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("order_column ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindByStatus finds all tasks of a column ordered by position
func (r *taskRepositoryImpl) FindByStatus(ctx context.Context, statusID uuid.UUID) ([]*domain.Task, error) {
	var tasks []*domain.Task
	if err := r.db.WithContext(ctx).
		Where("task_status_id = ?", statusID).
		Order("order_column ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update updates a task
func (r *taskRepositoryImpl) Update(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

// ApplyPlacements applies all placement writes atomically. The moved task's
// column, position and completed_at are written in the same UPDATE, so no
// reader observes an inconsistent intermediate state.
func (r *taskRepositoryImpl) ApplyPlacements(ctx context.Context, placements []TaskPlacement) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range placements {
			updates := map[string]interface{}{
				"task_status_id": p.StatusID,
				"order_column":   p.OrderColumn,
			}
			if p.TouchCompleted {
				updates["completed_at"] = p.CompletedAt
			}
			if err := tx.Model(&domain.Task{}).
				Where("id = ?", p.TaskID).
				Updates(updates).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete deletes a task. Sibling positions are not renumbered; gaps are tolerated.
func (r *taskRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Task{}, "id = ?", id).Error
}

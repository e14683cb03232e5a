package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"project-collab-api/internal/domain"
)

// StatusOrderAssignment is one (column, position) pair of a bulk reorder
type StatusOrderAssignment struct {
	ID          uuid.UUID
	OrderColumn int
}

// StatusRepository defines the interface for status column data access
type StatusRepository interface {
	Create(ctx context.Context, status *domain.TaskStatus) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.TaskStatus, error)
	FindByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.TaskStatus, error)
	FindByProjectAndSlug(ctx context.Context, projectID uuid.UUID, slug string) (*domain.TaskStatus, error)
	// FirstByOrder returns the project's lowest-order column, optionally
	// excluding one column (the one about to be deleted).
	FirstByOrder(ctx context.Context, projectID uuid.UUID, exclude *uuid.UUID) (*domain.TaskStatus, error)
	MaxOrder(ctx context.Context, projectID uuid.UUID) (int, error)
	Update(ctx context.Context, status *domain.TaskStatus) error
	// UpdateOrders applies caller-supplied order assignments. Every write is
	// scoped to the given project so foreign column IDs are ignored.
	UpdateOrders(ctx context.Context, projectID uuid.UUID, assignments []StatusOrderAssignment) error
	// DeleteWithMigration moves all tasks of the column to target, then
	// deletes the column, in a single transaction. Completion timestamps
	// follow the target column's done flag.
	DeleteWithMigration(ctx context.Context, statusID uuid.UUID, target *domain.TaskStatus) error
	CountTasks(ctx context.Context, statusID uuid.UUID) (int64, error)
}

// statusRepositoryImpl is the GORM implementation of StatusRepository
type statusRepositoryImpl struct {
	db *gorm.DB
}

// NewStatusRepository creates a new instance of StatusRepository
func NewStatusRepository(db *gorm.DB) StatusRepository {
	return &statusRepositoryImpl{db: db}
}

// Create creates a new status column
func (r *statusRepositoryImpl) Create(ctx context.Context, status *domain.TaskStatus) error {
	return r.db.WithContext(ctx).Create(status).Error
}

// FindByID finds a status column by ID
func (r *statusRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.TaskStatus, error) {
	var status domain.TaskStatus
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&status).Error; err != nil {
		return nil, err
	}
	return &status, nil
}

// FindByProject finds all status columns of a project in display order
func (r *statusRepositoryImpl) FindByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.TaskStatus, error) {
	var statuses []*domain.TaskStatus
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("order_column ASC").
		Find(&statuses).Error; err != nil {
		return nil, err
	}
	return statuses, nil
}

// FindByProjectAndSlug resolves a slug within a project
func (r *statusRepositoryImpl) FindByProjectAndSlug(ctx context.Context, projectID uuid.UUID, slug string) (*domain.TaskStatus, error) {
	var status domain.TaskStatus
	if err := r.db.WithContext(ctx).
		Where("project_id = ? AND slug = ?", projectID, slug).
		First(&status).Error; err != nil {
		return nil, err
	}
	return &status, nil
}

// FirstByOrder returns the lowest-order column of a project
func (r *statusRepositoryImpl) FirstByOrder(ctx context.Context, projectID uuid.UUID, exclude *uuid.UUID) (*domain.TaskStatus, error) {
	query := r.db.WithContext(ctx).
		Where("project_id = ?", projectID)
	if exclude != nil {
		query = query.Where("id <> ?", *exclude)
	}
	var status domain.TaskStatus
	if err := query.Order("order_column ASC").First(&status).Error; err != nil {
		return nil, err
	}
	return &status, nil
}

// MaxOrder returns the highest order_column of a project's columns, or -1 if none
func (r *statusRepositoryImpl) MaxOrder(ctx context.Context, projectID uuid.UUID) (int, error) {
	var max *int
	if err := r.db.WithContext(ctx).
		Model(&domain.TaskStatus{}).
		Where("project_id = ?", projectID).
		Select("MAX(order_column)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	if max == nil {
		return -1, nil
	}
	return *max, nil
}

// Update updates a status column
func (r *statusRepositoryImpl) Update(ctx context.Context, status *domain.TaskStatus) error {
	return r.db.WithContext(ctx).Save(status).Error
}

// UpdateOrders bulk-assigns order values, each write scoped to the project
func (r *statusRepositoryImpl) UpdateOrders(ctx context.Context, projectID uuid.UUID, assignments []StatusOrderAssignment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, assignment := range assignments {
			if err := tx.Model(&domain.TaskStatus{}).
				Where("id = ? AND project_id = ?", assignment.ID, projectID).
				Update("order_column", assignment.OrderColumn).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteWithMigration migrates the column's tasks and removes the column atomically
func (r *statusRepositoryImpl) DeleteWithMigration(ctx context.Context, statusID uuid.UUID, target *domain.TaskStatus) error {
	updates := map[string]interface{}{
		"task_status_id": target.ID,
		"completed_at":   nil,
	}
	if target.IsDone() {
		now := time.Now()
		updates["completed_at"] = &now
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Task{}).
			Where("task_status_id = ?", statusID).
			Updates(updates).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.TaskStatus{}, "id = ?", statusID).Error
	})
}

// CountTasks counts the tasks currently placed in a column
func (r *statusRepositoryImpl) CountTasks(ctx context.Context, statusID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&domain.Task{}).
		Where("task_status_id = ?", statusID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

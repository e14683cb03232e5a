package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"project-collab-api/internal/domain"
)

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	// CreateWithOwner creates the project, its owner membership and the default
	// status columns atomically.
	CreateWithOwner(ctx context.Context, project *domain.Project, ownerID uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	FindByMember(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error)
	Update(ctx context.Context, project *domain.Project) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// projectRepositoryImpl is the GORM implementation of ProjectRepository
type projectRepositoryImpl struct {
	db *gorm.DB
}

// NewProjectRepository creates a new instance of ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepositoryImpl{db: db}
}

// Create creates a new project
func (r *projectRepositoryImpl) Create(ctx context.Context, project *domain.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// CreateWithOwner creates a project together with its owner membership and the
// seeded default columns in a single transaction. Either everything is created
// or nothing is.
func (r *projectRepositoryImpl) CreateWithOwner(ctx context.Context, project *domain.Project, ownerID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}

		member := &domain.ProjectMember{
			ProjectID: project.ID,
			UserID:    ownerID,
			Role:      domain.RoleOwner,
		}
		if err := tx.Create(member).Error; err != nil {
			return err
		}

		statuses := make([]*domain.TaskStatus, 0, 5)
		for i, template := range domain.DefaultStatusTemplates() {
			statuses = append(statuses, &domain.TaskStatus{
				ProjectID:   project.ID,
				Name:        template.Name,
				Slug:        template.Slug,
				Color:       template.Color,
				OrderColumn: i,
				IsDefault:   true,
			})
		}
		return tx.Create(statuses).Error
	})
}

// FindByID finds a project by ID
func (r *projectRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	var project domain.Project
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// FindByMember finds all projects the given user is a member of, newest first
func (r *projectRepositoryImpl) FindByMember(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error) {
	var projects []*domain.Project
	if err := r.db.WithContext(ctx).
		Joins("JOIN project_members ON project_members.project_id = projects.id").
		Where("project_members.user_id = ?", userID).
		Order("projects.created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// Update updates a project
func (r *projectRepositoryImpl) Update(ctx context.Context, project *domain.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

// Delete deletes a project; dependent rows are removed by the cascade constraints
func (r *projectRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Project{}, "id = ?", id).Error
}

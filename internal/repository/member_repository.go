package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"project-collab-api/internal/domain"
)

// MemberRepository defines the interface for project membership data access
type MemberRepository interface {
	Create(ctx context.Context, member *domain.ProjectMember) error
	FindByProjectAndUser(ctx context.Context, projectID, userID uuid.UUID) (*domain.ProjectMember, error)
	FindByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.ProjectMember, error)
	FindOwners(ctx context.Context, projectID uuid.UUID) ([]*domain.ProjectMember, error)
	CountOwners(ctx context.Context, projectID uuid.UUID) (int64, error)
	UpdateRole(ctx context.Context, projectID, userID uuid.UUID, role domain.MemberRole) error
	// RemoveWithReassignment reassigns every task of the project currently
	// assigned to the removed user to reassignTo, then deletes the membership,
	// in a single transaction. A nil reassignTo skips the reassignment.
	RemoveWithReassignment(ctx context.Context, projectID, userID uuid.UUID, reassignTo *uuid.UUID) error
}

// memberRepositoryImpl is the GORM implementation of MemberRepository
type memberRepositoryImpl struct {
	db *gorm.DB
}

// NewMemberRepository creates a new instance of MemberRepository
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepositoryImpl{db: db}
}

// Create creates a new membership
func (r *memberRepositoryImpl) Create(ctx context.Context, member *domain.ProjectMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

// FindByProjectAndUser finds the membership of a user on a project
func (r *memberRepositoryImpl) FindByProjectAndUser(ctx context.Context, projectID, userID uuid.UUID) (*domain.ProjectMember, error) {
	var member domain.ProjectMember
	if err := r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// FindByProject finds all members of a project ordered by join time
func (r *memberRepositoryImpl) FindByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.ProjectMember, error) {
	var members []*domain.ProjectMember
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("joined_at ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// FindOwners finds all owner-role members of a project ordered by join time
func (r *memberRepositoryImpl) FindOwners(ctx context.Context, projectID uuid.UUID) ([]*domain.ProjectMember, error) {
	var owners []*domain.ProjectMember
	if err := r.db.WithContext(ctx).
		Where("project_id = ? AND role = ?", projectID, domain.RoleOwner).
		Order("joined_at ASC").
		Find(&owners).Error; err != nil {
		return nil, err
	}
	return owners, nil
}

// CountOwners counts the owner-role memberships of a project
func (r *memberRepositoryImpl) CountOwners(ctx context.Context, projectID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&domain.ProjectMember{}).
		Where("project_id = ? AND role = ?", projectID, domain.RoleOwner).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// UpdateRole updates the role of a membership
func (r *memberRepositoryImpl) UpdateRole(ctx context.Context, projectID, userID uuid.UUID, role domain.MemberRole) error {
	return r.db.WithContext(ctx).
		Model(&domain.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Update("role", role).Error
}

// RemoveWithReassignment reassigns the removed member's tasks and detaches the
// membership atomically.
func (r *memberRepositoryImpl) RemoveWithReassignment(ctx context.Context, projectID, userID uuid.UUID, reassignTo *uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if reassignTo != nil {
			if err := tx.Model(&domain.Task{}).
				Where("project_id = ? AND assigned_to = ?", projectID, userID).
				Update("assigned_to", *reassignTo).Error; err != nil {
				return err
			}
		}
		return tx.
			Where("project_id = ? AND user_id = ?", projectID, userID).
			Delete(&domain.ProjectMember{}).Error
	})
}

package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"project-collab-api/internal/domain"
)

// InvitationRepository defines the interface for invitation data access
type InvitationRepository interface {
	Create(ctx context.Context, invitation *domain.ProjectInvitation) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.ProjectInvitation, error)
	// FindByProjectAndEmail finds the invitation row for (project, email)
	// regardless of status; at most one such row exists.
	FindByProjectAndEmail(ctx context.Context, projectID uuid.UUID, email string) (*domain.ProjectInvitation, error)
	FindPendingByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.ProjectInvitation, error)
	FindPendingByEmail(ctx context.Context, email string) ([]*domain.ProjectInvitation, error)
	Update(ctx context.Context, invitation *domain.ProjectInvitation) error
	Delete(ctx context.Context, id uuid.UUID) error
	// AcceptWithMember marks the invitation accepted and creates the membership
	// in a single transaction. A nil member flips the status only.
	AcceptWithMember(ctx context.Context, invitation *domain.ProjectInvitation, member *domain.ProjectMember) error
	// DeleteStalePending hard-deletes pending invitations created before the
	// given cutoff and returns the number of rows removed.
	DeleteStalePending(ctx context.Context, cutoff time.Time) (int64, error)
}

// invitationRepositoryImpl is the GORM implementation of InvitationRepository
type invitationRepositoryImpl struct {
	db *gorm.DB
}

// NewInvitationRepository creates a new instance of InvitationRepository
func NewInvitationRepository(db *gorm.DB) InvitationRepository {
	return &invitationRepositoryImpl{db: db}
}

// Create creates a new invitation
func (r *invitationRepositoryImpl) Create(ctx context.Context, invitation *domain.ProjectInvitation) error {
	return r.db.WithContext(ctx).Create(invitation).Error
}

// FindByID finds an invitation by ID
func (r *invitationRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.ProjectInvitation, error) {
	var invitation domain.ProjectInvitation
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&invitation).Error; err != nil {
		return nil, err
	}
	return &invitation, nil
}

// FindByProjectAndEmail finds the invitation row for a (project, email) pair
func (r *invitationRepositoryImpl) FindByProjectAndEmail(ctx context.Context, projectID uuid.UUID, email string) (*domain.ProjectInvitation, error) {
	var invitation domain.ProjectInvitation
	if err := r.db.WithContext(ctx).
		Where("project_id = ? AND email = ?", projectID, email).
		First(&invitation).Error; err != nil {
		return nil, err
	}
	return &invitation, nil
}

// FindPendingByProject finds all pending invitations of a project, oldest first
func (r *invitationRepositoryImpl) FindPendingByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.ProjectInvitation, error) {
	var invitations []*domain.ProjectInvitation
	if err := r.db.WithContext(ctx).
		Where("project_id = ? AND status = ?", projectID, domain.InvitationPending).
		Order("created_at ASC").
		Find(&invitations).Error; err != nil {
		return nil, err
	}
	return invitations, nil
}

// FindPendingByEmail finds a user's inbox of outstanding invitations, newest first
func (r *invitationRepositoryImpl) FindPendingByEmail(ctx context.Context, email string) ([]*domain.ProjectInvitation, error) {
	var invitations []*domain.ProjectInvitation
	if err := r.db.WithContext(ctx).
		Preload("Project").
		Where("email = ? AND status = ?", email, domain.InvitationPending).
		Order("created_at DESC").
		Find(&invitations).Error; err != nil {
		return nil, err
	}
	return invitations, nil
}

// Update updates an invitation
func (r *invitationRepositoryImpl) Update(ctx context.Context, invitation *domain.ProjectInvitation) error {
	return r.db.WithContext(ctx).Save(invitation).Error
}

// Delete hard-deletes an invitation regardless of status
func (r *invitationRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Unscoped().Delete(&domain.ProjectInvitation{}, "id = ?", id).Error
}

// AcceptWithMember flips the invitation to accepted and creates the membership
// atomically. Both writes succeed or neither does.
func (r *invitationRepositoryImpl) AcceptWithMember(ctx context.Context, invitation *domain.ProjectInvitation, member *domain.ProjectMember) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if member != nil {
			if err := tx.Create(member).Error; err != nil {
				return err
			}
		}
		invitation.Status = domain.InvitationAccepted
		return tx.Save(invitation).Error
	})
}

// DeleteStalePending removes pending invitations older than the cutoff
func (r *invitationRepositoryImpl) DeleteStalePending(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Unscoped().
		Where("status = ? AND created_at < ?", domain.InvitationPending, cutoff).
		Delete(&domain.ProjectInvitation{})
	return result.RowsAffected, result.Error
}

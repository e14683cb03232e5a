package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"project-collab-api/internal/client"
	"project-collab-api/internal/domain"
	"project-collab-api/internal/repository"
)

// MockProjectRepository is a mock implementation of ProjectRepository
type MockProjectRepository struct {
	CreateFunc          func(ctx context.Context, project *domain.Project) error
	CreateWithOwnerFunc func(ctx context.Context, project *domain.Project, ownerID uuid.UUID) error
	FindByIDFunc        func(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	FindByMemberFunc    func(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error)
	UpdateFunc          func(ctx context.Context, project *domain.Project) error
	DeleteFunc          func(ctx context.Context, id uuid.UUID) error
}

func (m *MockProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, project)
	}
	return nil
}

func (m *MockProjectRepository) CreateWithOwner(ctx context.Context, project *domain.Project, ownerID uuid.UUID) error {
	if m.CreateWithOwnerFunc != nil {
		return m.CreateWithOwnerFunc(ctx, project, ownerID)
	}
	return nil
}

func (m *MockProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockProjectRepository) FindByMember(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error) {
	if m.FindByMemberFunc != nil {
		return m.FindByMemberFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockProjectRepository) Update(ctx context.Context, project *domain.Project) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, project)
	}
	return nil
}

func (m *MockProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockMemberRepository is a mock implementation of MemberRepository
type MockMemberRepository struct {
	CreateFunc                 func(ctx context.Context, member *domain.ProjectMember) error
	FindByProjectAndUserFunc   func(ctx context.Context, projectID, userID uuid.UUID) (*domain.ProjectMember, error)
	FindByProjectFunc          func(ctx context.Context, projectID uuid.UUID) ([]*domain.ProjectMember, error)
	FindOwnersFunc             func(ctx context.Context, projectID uuid.UUID) ([]*domain.ProjectMember, error)
	CountOwnersFunc            func(ctx context.Context, projectID uuid.UUID) (int64, error)
	UpdateRoleFunc             func(ctx context.Context, projectID, userID uuid.UUID, role domain.MemberRole) error
	RemoveWithReassignmentFunc func(ctx context.Context, projectID, userID uuid.UUID, reassignTo *uuid.UUID) error
}

func (m *MockMemberRepository) Create(ctx context.Context, member *domain.ProjectMember) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, member)
	}
	return nil
}

func (m *MockMemberRepository) FindByProjectAndUser(ctx context.Context, projectID, userID uuid.UUID) (*domain.ProjectMember, error) {
	if m.FindByProjectAndUserFunc != nil {
		return m.FindByProjectAndUserFunc(ctx, projectID, userID)
	}
	return nil, nil
}

func (m *MockMemberRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.ProjectMember, error) {
	if m.FindByProjectFunc != nil {
		return m.FindByProjectFunc(ctx, projectID)
	}
	return nil, nil
}

func (m *MockMemberRepository) FindOwners(ctx context.Context, projectID uuid.UUID) ([]*domain.ProjectMember, error) {
	if m.FindOwnersFunc != nil {
		return m.FindOwnersFunc(ctx, projectID)
	}
	return nil, nil
}

func (m *MockMemberRepository) CountOwners(ctx context.Context, projectID uuid.UUID) (int64, error) {
	if m.CountOwnersFunc != nil {
		return m.CountOwnersFunc(ctx, projectID)
	}
	return 0, nil
}

func (m *MockMemberRepository) UpdateRole(ctx context.Context, projectID, userID uuid.UUID, role domain.MemberRole) error {
	if m.UpdateRoleFunc != nil {
		return m.UpdateRoleFunc(ctx, projectID, userID, role)
	}
	return nil
}

func (m *MockMemberRepository) RemoveWithReassignment(ctx context.Context, projectID, userID uuid.UUID, reassignTo *uuid.UUID) error {
	if m.RemoveWithReassignmentFunc != nil {
		return m.RemoveWithReassignmentFunc(ctx, projectID, userID, reassignTo)
	}
	return nil
}

// MockInvitationRepository is a mock implementation of InvitationRepository
type MockInvitationRepository struct {
	CreateFunc                func(ctx context.Context, invitation *domain.ProjectInvitation) error
	FindByIDFunc              func(ctx context.Context, id uuid.UUID) (*domain.ProjectInvitation, error)
	FindByProjectAndEmailFunc func(ctx context.Context, projectID uuid.UUID, email string) (*domain.ProjectInvitation, error)
	FindPendingByProjectFunc  func(ctx context.Context, projectID uuid.UUID) ([]*domain.ProjectInvitation, error)
	FindPendingByEmailFunc    func(ctx context.Context, email string) ([]*domain.ProjectInvitation, error)
	UpdateFunc                func(ctx context.Context, invitation *domain.ProjectInvitation) error
	DeleteFunc                func(ctx context.Context, id uuid.UUID) error
	AcceptWithMemberFunc      func(ctx context.Context, invitation *domain.ProjectInvitation, member *domain.ProjectMember) error
	DeleteStalePendingFunc    func(ctx context.Context, cutoff time.Time) (int64, error)
}

func (m *MockInvitationRepository) Create(ctx context.Context, invitation *domain.ProjectInvitation) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, invitation)
	}
	return nil
}

func (m *MockInvitationRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.ProjectInvitation, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockInvitationRepository) FindByProjectAndEmail(ctx context.Context, projectID uuid.UUID, email string) (*domain.ProjectInvitation, error) {
	if m.FindByProjectAndEmailFunc != nil {
		return m.FindByProjectAndEmailFunc(ctx, projectID, email)
	}
	return nil, nil
}

func (m *MockInvitationRepository) FindPendingByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.ProjectInvitation, error) {
	if m.FindPendingByProjectFunc != nil {
		return m.FindPendingByProjectFunc(ctx, projectID)
	}
	return nil, nil
}

func (m *MockInvitationRepository) FindPendingByEmail(ctx context.Context, email string) ([]*domain.ProjectInvitation, error) {
	if m.FindPendingByEmailFunc != nil {
		return m.FindPendingByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *MockInvitationRepository) Update(ctx context.Context, invitation *domain.ProjectInvitation) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, invitation)
	}
	return nil
}

func (m *MockInvitationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockInvitationRepository) AcceptWithMember(ctx context.Context, invitation *domain.ProjectInvitation, member *domain.ProjectMember) error {
	if m.AcceptWithMemberFunc != nil {
		return m.AcceptWithMemberFunc(ctx, invitation, member)
	}
	invitation.Status = domain.InvitationAccepted
	return nil
}

func (m *MockInvitationRepository) DeleteStalePending(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.DeleteStalePendingFunc != nil {
		return m.DeleteStalePendingFunc(ctx, cutoff)
	}
	return 0, nil
}

// MockStatusRepository is a mock implementation of StatusRepository
type MockStatusRepository struct {
	CreateFunc               func(ctx context.Context, status *domain.TaskStatus) error
	FindByIDFunc             func(ctx context.Context, id uuid.UUID) (*domain.TaskStatus, error)
	FindByProjectFunc        func(ctx context.Context, projectID uuid.UUID) ([]*domain.TaskStatus, error)
	FindByProjectAndSlugFunc func(ctx context.Context, projectID uuid.UUID, slug string) (*domain.TaskStatus, error)
	FirstByOrderFunc         func(ctx context.Context, projectID uuid.UUID, exclude *uuid.UUID) (*domain.TaskStatus, error)
	MaxOrderFunc             func(ctx context.Context, projectID uuid.UUID) (int, error)
	UpdateFunc               func(ctx context.Context, status *domain.TaskStatus) error
	UpdateOrdersFunc         func(ctx context.Context, projectID uuid.UUID, assignments []repository.StatusOrderAssignment) error
	DeleteWithMigrationFunc  func(ctx context.Context, statusID uuid.UUID, target *domain.TaskStatus) error
	CountTasksFunc           func(ctx context.Context, statusID uuid.UUID) (int64, error)
}

func (m *MockStatusRepository) Create(ctx context.Context, status *domain.TaskStatus) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, status)
	}
	return nil
}

func (m *MockStatusRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.TaskStatus, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockStatusRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.TaskStatus, error) {
	if m.FindByProjectFunc != nil {
		return m.FindByProjectFunc(ctx, projectID)
	}
	return nil, nil
}

func (m *MockStatusRepository) FindByProjectAndSlug(ctx context.Context, projectID uuid.UUID, slug string) (*domain.TaskStatus, error) {
	if m.FindByProjectAndSlugFunc != nil {
		return m.FindByProjectAndSlugFunc(ctx, projectID, slug)
	}
	return nil, nil
}

func (m *MockStatusRepository) FirstByOrder(ctx context.Context, projectID uuid.UUID, exclude *uuid.UUID) (*domain.TaskStatus, error) {
	if m.FirstByOrderFunc != nil {
		return m.FirstByOrderFunc(ctx, projectID, exclude)
	}
	return nil, nil
}

func (m *MockStatusRepository) MaxOrder(ctx context.Context, projectID uuid.UUID) (int, error) {
	if m.MaxOrderFunc != nil {
		return m.MaxOrderFunc(ctx, projectID)
	}
	return -1, nil
}

func (m *MockStatusRepository) Update(ctx context.Context, status *domain.TaskStatus) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, status)
	}
	return nil
}

func (m *MockStatusRepository) UpdateOrders(ctx context.Context, projectID uuid.UUID, assignments []repository.StatusOrderAssignment) error {
	if m.UpdateOrdersFunc != nil {
		return m.UpdateOrdersFunc(ctx, projectID, assignments)
	}
	return nil
}

func (m *MockStatusRepository) DeleteWithMigration(ctx context.Context, statusID uuid.UUID, target *domain.TaskStatus) error {
	if m.DeleteWithMigrationFunc != nil {
		return m.DeleteWithMigrationFunc(ctx, statusID, target)
	}
	return nil
}

func (m *MockStatusRepository) CountTasks(ctx context.Context, statusID uuid.UUID) (int64, error) {
	if m.CountTasksFunc != nil {
		return m.CountTasksFunc(ctx, statusID)
	}
	return 0, nil
}

// MockTaskRepository is a mock implementation of TaskRepository
type MockTaskRepository struct {
	CreateFunc          func(ctx context.Context, task *domain.Task) error
	FindByIDFunc        func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	FindByProjectFunc   func(ctx context.Context, projectID uuid.UUID) ([]*domain.Task, error)
	FindByStatusFunc    func(ctx context.Context, statusID uuid.UUID) ([]*domain.Task, error)
	UpdateFunc          func(ctx context.Context, task *domain.Task) error
	ApplyPlacementsFunc func(ctx context.Context, placements []repository.TaskPlacement) error
	DeleteFunc          func(ctx context.Context, id uuid.UUID) error
}

func (m *MockTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, task)
	}
	return nil
}

func (m *MockTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockTaskRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Task, error) {
	if m.FindByProjectFunc != nil {
		return m.FindByProjectFunc(ctx, projectID)
	}
	return nil, nil
}

func (m *MockTaskRepository) FindByStatus(ctx context.Context, statusID uuid.UUID) ([]*domain.Task, error) {
	if m.FindByStatusFunc != nil {
		return m.FindByStatusFunc(ctx, statusID)
	}
	return nil, nil
}

func (m *MockTaskRepository) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, task)
	}
	return nil
}

func (m *MockTaskRepository) ApplyPlacements(ctx context.Context, placements []repository.TaskPlacement) error {
	if m.ApplyPlacementsFunc != nil {
		return m.ApplyPlacementsFunc(ctx, placements)
	}
	return nil
}

func (m *MockTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockUserClient is a mock implementation of client.UserClient
type MockUserClient struct {
	FindUserByUsernameFunc func(ctx context.Context, username string) (*client.DirectoryUser, error)
	FindUserByEmailFunc    func(ctx context.Context, email string) (*client.DirectoryUser, error)
}

func (m *MockUserClient) FindUserByUsername(ctx context.Context, username string) (*client.DirectoryUser, error) {
	if m.FindUserByUsernameFunc != nil {
		return m.FindUserByUsernameFunc(ctx, username)
	}
	return nil, client.ErrUserNotFound
}

func (m *MockUserClient) FindUserByEmail(ctx context.Context, email string) (*client.DirectoryUser, error) {
	if m.FindUserByEmailFunc != nil {
		return m.FindUserByEmailFunc(ctx, email)
	}
	return nil, client.ErrUserNotFound
}

// MockRoleGate is a mock implementation of RoleGate
type MockRoleGate struct {
	RoleOfFunc         func(ctx context.Context, projectID uuid.UUID, principal Principal) (domain.MemberRole, error)
	RequireMemberFunc  func(ctx context.Context, projectID uuid.UUID, principal Principal) (domain.MemberRole, error)
	RequireOwnerFunc   func(ctx context.Context, projectID uuid.UUID, principal Principal) error
	InvalidateRoleFunc func(ctx context.Context, projectID, userID uuid.UUID)
}

func (m *MockRoleGate) RoleOf(ctx context.Context, projectID uuid.UUID, principal Principal) (domain.MemberRole, error) {
	if m.RoleOfFunc != nil {
		return m.RoleOfFunc(ctx, projectID, principal)
	}
	return domain.RoleMember, nil
}

func (m *MockRoleGate) RequireMember(ctx context.Context, projectID uuid.UUID, principal Principal) (domain.MemberRole, error) {
	if m.RequireMemberFunc != nil {
		return m.RequireMemberFunc(ctx, projectID, principal)
	}
	return domain.RoleMember, nil
}

func (m *MockRoleGate) RequireOwner(ctx context.Context, projectID uuid.UUID, principal Principal) error {
	if m.RequireOwnerFunc != nil {
		return m.RequireOwnerFunc(ctx, projectID, principal)
	}
	return nil
}

func (m *MockRoleGate) InvalidateRole(ctx context.Context, projectID, userID uuid.UUID) {
	if m.InvalidateRoleFunc != nil {
		m.InvalidateRoleFunc(ctx, projectID, userID)
	}
}

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"project-collab-api/internal/client"
	"project-collab-api/internal/domain"
	"project-collab-api/internal/dto"
	"project-collab-api/internal/response"
)

func newInvitationService(invitationRepo *MockInvitationRepository, memberRepo *MockMemberRepository, userClient *MockUserClient, gate *MockRoleGate) InvitationService {
	return NewInvitationService(invitationRepo, memberRepo, userClient, gate, testMetrics(), zap.NewNop())
}

func TestInvitationService_Invite(t *testing.T) {
	projectID := uuid.New()
	inviter := Principal{UserID: uuid.New(), Email: "inviter@example.com"}
	registeredID := uuid.New()

	tests := []struct {
		name           string
		req            *dto.CreateInvitationRequest
		mockInvitation func(*MockInvitationRepository)
		mockMember     func(*MockMemberRepository)
		mockUser       func(*MockUserClient)
		wantErrCode    string
		wantStatus     string
	}{
		{
			name: "creates invitation for unregistered email",
			req:  &dto.CreateInvitationRequest{Email: "new@example.com", Role: "member"},
			mockInvitation: func(m *MockInvitationRepository) {
				m.FindByProjectAndEmailFunc = func(ctx context.Context, pID uuid.UUID, email string) (*domain.ProjectInvitation, error) {
					return nil, gorm.ErrRecordNotFound
				}
				m.CreateFunc = func(ctx context.Context, inv *domain.ProjectInvitation) error {
					inv.ID = uuid.New()
					return nil
				}
			},
			wantStatus: "pending",
		},
		{
			name: "resolves username to email",
			req:  &dto.CreateInvitationRequest{Username: "devuser", Role: "admin"},
			mockUser: func(m *MockUserClient) {
				m.FindUserByUsernameFunc = func(ctx context.Context, username string) (*client.DirectoryUser, error) {
					return &client.DirectoryUser{ID: registeredID, Email: "Dev@Example.com"}, nil
				}
			},
			mockMember: func(m *MockMemberRepository) {
				m.FindByProjectAndUserFunc = func(ctx context.Context, pID, uID uuid.UUID) (*domain.ProjectMember, error) {
					return nil, gorm.ErrRecordNotFound
				}
			},
			mockInvitation: func(m *MockInvitationRepository) {
				m.FindByProjectAndEmailFunc = func(ctx context.Context, pID uuid.UUID, email string) (*domain.ProjectInvitation, error) {
					assert.Equal(t, "dev@example.com", email)
					return nil, gorm.ErrRecordNotFound
				}
				m.CreateFunc = func(ctx context.Context, inv *domain.ProjectInvitation) error {
					inv.ID = uuid.New()
					return nil
				}
			},
			wantStatus: "pending",
		},
		{
			name: "rejects unknown username",
			req:  &dto.CreateInvitationRequest{Username: "ghost", Role: "member"},
			mockUser: func(m *MockUserClient) {
				m.FindUserByUsernameFunc = func(ctx context.Context, username string) (*client.DirectoryUser, error) {
					return nil, client.ErrUserNotFound
				}
			},
			wantErrCode: response.ErrCodeUserNotFound,
		},
		{
			name: "rejects invite of existing member",
			req:  &dto.CreateInvitationRequest{Email: "dev@example.com", Role: "member"},
			mockUser: func(m *MockUserClient) {
				m.FindUserByEmailFunc = func(ctx context.Context, email string) (*client.DirectoryUser, error) {
					return &client.DirectoryUser{ID: registeredID, Email: email}, nil
				}
			},
			mockMember: func(m *MockMemberRepository) {
				m.FindByProjectAndUserFunc = func(ctx context.Context, pID, uID uuid.UUID) (*domain.ProjectMember, error) {
					return &domain.ProjectMember{ProjectID: pID, UserID: uID, Role: domain.RoleMember}, nil
				}
			},
			wantErrCode: response.ErrCodeAlreadyMember,
		},
		{
			name: "rejects duplicate pending invitation",
			req:  &dto.CreateInvitationRequest{Email: "new@example.com", Role: "member"},
			mockInvitation: func(m *MockInvitationRepository) {
				m.FindByProjectAndEmailFunc = func(ctx context.Context, pID uuid.UUID, email string) (*domain.ProjectInvitation, error) {
					return &domain.ProjectInvitation{
						BaseModel: domain.BaseModel{ID: uuid.New()},
						ProjectID: pID,
						Email:     email,
						Status:    domain.InvitationPending,
					}, nil
				}
			},
			wantErrCode: response.ErrCodeDuplicateInvitation,
		},
		{
			name:        "rejects owner role",
			req:         &dto.CreateInvitationRequest{Email: "new@example.com", Role: "owner"},
			wantErrCode: response.ErrCodeValidation,
		},
		{
			name:        "requires email or username",
			req:         &dto.CreateInvitationRequest{Role: "member"},
			wantErrCode: response.ErrCodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			invitationRepo := &MockInvitationRepository{}
			memberRepo := &MockMemberRepository{}
			userClient := &MockUserClient{}
			if tt.mockInvitation != nil {
				tt.mockInvitation(invitationRepo)
			}
			if tt.mockMember != nil {
				tt.mockMember(memberRepo)
			}
			if tt.mockUser != nil {
				tt.mockUser(userClient)
			}

			svc := newInvitationService(invitationRepo, memberRepo, userClient, &MockRoleGate{})
			inv, err := svc.Invite(context.Background(), projectID, inviter, tt.req)

			if tt.wantErrCode != "" {
				require.Error(t, err)
				var appErr *response.AppError
				require.True(t, errors.As(err, &appErr))
				assert.Equal(t, tt.wantErrCode, appErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, inv.Status)
			assert.Equal(t, inviter.UserID, inv.InvitedBy)
		})
	}
}

func TestInvitationService_Invite_RecyclesRejectedRow(t *testing.T) {
	projectID := uuid.New()
	inviter := Principal{UserID: uuid.New(), Email: "inviter@example.com"}
	existingID := uuid.New()
	oldToken := "old-token"
	var updated *domain.ProjectInvitation

	invitationRepo := &MockInvitationRepository{
		FindByProjectAndEmailFunc: func(ctx context.Context, pID uuid.UUID, email string) (*domain.ProjectInvitation, error) {
			return &domain.ProjectInvitation{
				BaseModel: domain.BaseModel{ID: existingID},
				ProjectID: pID,
				Email:     email,
				Token:     oldToken,
				Role:      domain.RoleMember,
				Status:    domain.InvitationRejected,
			}, nil
		},
		UpdateFunc: func(ctx context.Context, inv *domain.ProjectInvitation) error {
			updated = inv
			return nil
		},
		CreateFunc: func(ctx context.Context, inv *domain.ProjectInvitation) error {
			t.Fatal("expected recycle, not a new row")
			return nil
		},
	}

	svc := newInvitationService(invitationRepo, &MockMemberRepository{}, &MockUserClient{}, &MockRoleGate{})
	inv, err := svc.Invite(context.Background(), projectID, inviter, &dto.CreateInvitationRequest{Email: "new@example.com", Role: "admin"})

	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, existingID, inv.ID)
	assert.Equal(t, "pending", inv.Status)
	assert.Equal(t, "admin", inv.Role)
	assert.NotEqual(t, oldToken, updated.Token)
}

func TestInvitationService_Accept(t *testing.T) {
	projectID := uuid.New()
	invitationID := uuid.New()
	invitee := Principal{UserID: uuid.New(), Email: "invitee@example.com"}

	pendingInvitation := func() *domain.ProjectInvitation {
		return &domain.ProjectInvitation{
			BaseModel: domain.BaseModel{ID: invitationID},
			ProjectID: projectID,
			Email:     "Invitee@Example.com",
			Role:      domain.RoleAdmin,
			Status:    domain.InvitationPending,
		}
	}

	t.Run("creates membership with invited role", func(t *testing.T) {
		var createdMember *domain.ProjectMember
		invitationRepo := &MockInvitationRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.ProjectInvitation, error) {
				return pendingInvitation(), nil
			},
			AcceptWithMemberFunc: func(ctx context.Context, inv *domain.ProjectInvitation, member *domain.ProjectMember) error {
				createdMember = member
				inv.Status = domain.InvitationAccepted
				return nil
			},
		}
		memberRepo := &MockMemberRepository{
			FindByProjectAndUserFunc: func(ctx context.Context, pID, uID uuid.UUID) (*domain.ProjectMember, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}

		svc := newInvitationService(invitationRepo, memberRepo, &MockUserClient{}, &MockRoleGate{})
		err := svc.Accept(context.Background(), invitationID, invitee)

		require.NoError(t, err)
		require.NotNil(t, createdMember)
		assert.Equal(t, invitee.UserID, createdMember.UserID)
		assert.Equal(t, domain.RoleAdmin, createdMember.Role)
	})

	t.Run("email comparison is case-insensitive", func(t *testing.T) {
		invitationRepo := &MockInvitationRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.ProjectInvitation, error) {
				return pendingInvitation(), nil
			},
		}
		memberRepo := &MockMemberRepository{
			FindByProjectAndUserFunc: func(ctx context.Context, pID, uID uuid.UUID) (*domain.ProjectMember, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}

		svc := newInvitationService(invitationRepo, memberRepo, &MockUserClient{}, &MockRoleGate{})
		err := svc.Accept(context.Background(), invitationID, Principal{UserID: invitee.UserID, Email: "INVITEE@example.com"})
		require.NoError(t, err)
	})

	t.Run("invitation of another user is forbidden", func(t *testing.T) {
		called := false
		invitationRepo := &MockInvitationRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.ProjectInvitation, error) {
				return pendingInvitation(), nil
			},
			AcceptWithMemberFunc: func(ctx context.Context, inv *domain.ProjectInvitation, member *domain.ProjectMember) error {
				called = true
				return nil
			},
		}

		svc := newInvitationService(invitationRepo, &MockMemberRepository{}, &MockUserClient{}, &MockRoleGate{})
		err := svc.Accept(context.Background(), invitationID, Principal{UserID: uuid.New(), Email: "other@example.com"})

		require.Error(t, err)
		var appErr *response.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, response.ErrCodeForbidden, appErr.Code)
		assert.False(t, called)
	})

	t.Run("accepting a rejected invitation creates the membership", func(t *testing.T) {
		rejected := pendingInvitation()
		rejected.Status = domain.InvitationRejected
		var createdMember *domain.ProjectMember
		invitationRepo := &MockInvitationRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.ProjectInvitation, error) {
				return rejected, nil
			},
			AcceptWithMemberFunc: func(ctx context.Context, inv *domain.ProjectInvitation, member *domain.ProjectMember) error {
				createdMember = member
				inv.Status = domain.InvitationAccepted
				return nil
			},
		}
		memberRepo := &MockMemberRepository{
			FindByProjectAndUserFunc: func(ctx context.Context, pID, uID uuid.UUID) (*domain.ProjectMember, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}

		svc := newInvitationService(invitationRepo, memberRepo, &MockUserClient{}, &MockRoleGate{})
		err := svc.Accept(context.Background(), invitationID, invitee)

		require.NoError(t, err)
		require.NotNil(t, createdMember)
		assert.Equal(t, domain.InvitationAccepted, rejected.Status)
	})

	t.Run("accepting twice is a no-op", func(t *testing.T) {
		accepted := pendingInvitation()
		accepted.Status = domain.InvitationAccepted
		called := false
		invitationRepo := &MockInvitationRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.ProjectInvitation, error) {
				return accepted, nil
			},
			AcceptWithMemberFunc: func(ctx context.Context, inv *domain.ProjectInvitation, member *domain.ProjectMember) error {
				called = true
				return nil
			},
		}

		svc := newInvitationService(invitationRepo, &MockMemberRepository{}, &MockUserClient{}, &MockRoleGate{})
		err := svc.Accept(context.Background(), invitationID, invitee)

		require.NoError(t, err)
		assert.False(t, called)
	})

	t.Run("already a member settles invitation without second membership", func(t *testing.T) {
		var gotMember *domain.ProjectMember
		settled := false
		invitationRepo := &MockInvitationRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.ProjectInvitation, error) {
				return pendingInvitation(), nil
			},
			AcceptWithMemberFunc: func(ctx context.Context, inv *domain.ProjectInvitation, member *domain.ProjectMember) error {
				gotMember = member
				settled = true
				return nil
			},
		}
		memberRepo := &MockMemberRepository{
			FindByProjectAndUserFunc: func(ctx context.Context, pID, uID uuid.UUID) (*domain.ProjectMember, error) {
				return &domain.ProjectMember{ProjectID: pID, UserID: uID, Role: domain.RoleMember}, nil
			},
		}

		svc := newInvitationService(invitationRepo, memberRepo, &MockUserClient{}, &MockRoleGate{})
		err := svc.Accept(context.Background(), invitationID, invitee)

		require.NoError(t, err)
		assert.True(t, settled)
		assert.Nil(t, gotMember)
	})
}

func TestInvitationService_Reject(t *testing.T) {
	invitationID := uuid.New()
	invitee := Principal{UserID: uuid.New(), Email: "invitee@example.com"}

	t.Run("flips pending to rejected", func(t *testing.T) {
		var updated *domain.ProjectInvitation
		invitationRepo := &MockInvitationRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.ProjectInvitation, error) {
				return &domain.ProjectInvitation{
					BaseModel: domain.BaseModel{ID: id},
					Email:     invitee.Email,
					Status:    domain.InvitationPending,
				}, nil
			},
			UpdateFunc: func(ctx context.Context, inv *domain.ProjectInvitation) error {
				updated = inv
				return nil
			},
		}

		svc := newInvitationService(invitationRepo, &MockMemberRepository{}, &MockUserClient{}, &MockRoleGate{})
		err := svc.Reject(context.Background(), invitationID, invitee)

		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, domain.InvitationRejected, updated.Status)
	})

	t.Run("rejecting an accepted invitation fails", func(t *testing.T) {
		invitationRepo := &MockInvitationRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.ProjectInvitation, error) {
				return &domain.ProjectInvitation{
					BaseModel: domain.BaseModel{ID: id},
					Email:     invitee.Email,
					Status:    domain.InvitationAccepted,
				}, nil
			},
		}

		svc := newInvitationService(invitationRepo, &MockMemberRepository{}, &MockUserClient{}, &MockRoleGate{})
		err := svc.Reject(context.Background(), invitationID, invitee)

		require.Error(t, err)
		var appErr *response.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, response.ErrCodeValidation, appErr.Code)
	})
}

func TestInvitationService_Cancel(t *testing.T) {
	projectID := uuid.New()
	invitationID := uuid.New()
	caller := Principal{UserID: uuid.New(), Email: "caller@example.com"}

	t.Run("deletes pending invitation", func(t *testing.T) {
		deleted := false
		invitationRepo := &MockInvitationRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.ProjectInvitation, error) {
				return &domain.ProjectInvitation{
					BaseModel: domain.BaseModel{ID: id},
					ProjectID: projectID,
					Status:    domain.InvitationPending,
				}, nil
			},
			DeleteFunc: func(ctx context.Context, id uuid.UUID) error {
				deleted = true
				return nil
			},
		}

		svc := newInvitationService(invitationRepo, &MockMemberRepository{}, &MockUserClient{}, &MockRoleGate{})
		err := svc.Cancel(context.Background(), projectID, invitationID, caller)

		require.NoError(t, err)
		assert.True(t, deleted)
	})

	t.Run("deletes settled invitations too", func(t *testing.T) {
		for _, status := range []domain.InvitationStatus{domain.InvitationRejected, domain.InvitationAccepted} {
			deleted := false
			invitationRepo := &MockInvitationRepository{
				FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.ProjectInvitation, error) {
					return &domain.ProjectInvitation{
						BaseModel: domain.BaseModel{ID: id},
						ProjectID: projectID,
						Status:    status,
					}, nil
				},
				DeleteFunc: func(ctx context.Context, id uuid.UUID) error {
					deleted = true
					return nil
				},
			}

			svc := newInvitationService(invitationRepo, &MockMemberRepository{}, &MockUserClient{}, &MockRoleGate{})
			err := svc.Cancel(context.Background(), projectID, invitationID, caller)

			require.NoError(t, err)
			assert.True(t, deleted, "status %s should be cancellable", status)
		}
	})

	t.Run("invitation of another project is not found", func(t *testing.T) {
		invitationRepo := &MockInvitationRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.ProjectInvitation, error) {
				return &domain.ProjectInvitation{
					BaseModel: domain.BaseModel{ID: id},
					ProjectID: uuid.New(),
					Status:    domain.InvitationPending,
				}, nil
			},
		}

		svc := newInvitationService(invitationRepo, &MockMemberRepository{}, &MockUserClient{}, &MockRoleGate{})
		err := svc.Cancel(context.Background(), projectID, invitationID, caller)

		require.Error(t, err)
		var appErr *response.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, response.ErrCodeNotFound, appErr.Code)
	})
}

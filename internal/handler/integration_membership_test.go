package handler

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-collab-api/internal/domain"
	"project-collab-api/internal/dto"
	"project-collab-api/internal/response"
)

func TestIntegration_InvitationFlow_InviteAcceptBecomeMember(t *testing.T) {
	db := setupIntegrationTestDB(t)
	r := setupIntegrationRouter(db, newStubDirectory())

	ownerID := uuid.New()
	ownerToken := signTestToken(t, ownerID, "owner@example.com")
	project := createTestProjectViaAPI(t, r, ownerToken, "Website Relaunch")

	// Invite an address that is not registered in the directory yet
	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/collab/projects/%s/invitations", project.ID), ownerToken, dto.CreateInvitationRequest{
		Email: "invitee@example.com",
		Role:  "member",
	})
	require.Equal(t, http.StatusCreated, w.Code, "Response body: %s", w.Body.String())

	var invitation dto.InvitationResponse
	decodeData(t, w, &invitation)
	assert.Equal(t, "pending", invitation.Status)
	assert.Equal(t, "invitee@example.com", invitation.Email)

	// A second identical invite must be refused while the first one is pending
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/collab/projects/%s/invitations", project.ID), ownerToken, dto.CreateInvitationRequest{
		Email: "Invitee@Example.com",
		Role:  "member",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, response.ErrCodeDuplicateInvitation, errorCode(t, w))

	// The invitee sees the invitation in their inbox, email matched case-insensitively
	inviteeID := uuid.New()
	inviteeToken := signTestToken(t, inviteeID, "Invitee@Example.com")

	w = doJSON(t, r, http.MethodGet, "/api/collab/invitations", inviteeToken, nil)
	require.Equal(t, http.StatusOK, w.Code, "Response body: %s", w.Body.String())

	var inbox []dto.InvitationResponse
	decodeData(t, w, &inbox)
	require.Len(t, inbox, 1)
	assert.Equal(t, invitation.ID, inbox[0].ID)
	assert.Equal(t, "Website Relaunch", inbox[0].ProjectName)

	// Accepting creates the membership with the invited role
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/collab/invitations/%s/accept", invitation.ID), inviteeToken, nil)
	require.Equal(t, http.StatusOK, w.Code, "Response body: %s", w.Body.String())

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/collab/projects/%s/members", project.ID), ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var members []dto.MemberResponse
	decodeData(t, w, &members)
	require.Len(t, members, 2)

	byUser := make(map[uuid.UUID]string, len(members))
	for _, member := range members {
		byUser[member.UserID] = member.Role
	}
	assert.Equal(t, "owner", byUser[ownerID])
	assert.Equal(t, "member", byUser[inviteeID])

	// The settled invitation stays on record as accepted
	var stored domain.ProjectInvitation
	require.NoError(t, db.First(&stored, "id = ?", invitation.ID).Error)
	assert.Equal(t, domain.InvitationAccepted, stored.Status)

	// Accepting again is a no-op, not an error
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/collab/invitations/%s/accept", invitation.ID), inviteeToken, nil)
	assert.Equal(t, http.StatusOK, w.Code, "Response body: %s", w.Body.String())
}

func TestIntegration_InvitationFlow_RejectAndReinvite(t *testing.T) {
	db := setupIntegrationTestDB(t)
	r := setupIntegrationRouter(db, newStubDirectory())

	ownerToken := signTestToken(t, uuid.New(), "owner@example.com")
	project := createTestProjectViaAPI(t, r, ownerToken, "Website Relaunch")

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/collab/projects/%s/invitations", project.ID), ownerToken, dto.CreateInvitationRequest{
		Email: "invitee@example.com",
		Role:  "member",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var invitation dto.InvitationResponse
	decodeData(t, w, &invitation)

	inviteeToken := signTestToken(t, uuid.New(), "invitee@example.com")
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/collab/invitations/%s/reject", invitation.ID), inviteeToken, nil)
	require.Equal(t, http.StatusOK, w.Code, "Response body: %s", w.Body.String())

	var rejected domain.ProjectInvitation
	require.NoError(t, db.First(&rejected, "id = ?", invitation.ID).Error)
	assert.Equal(t, domain.InvitationRejected, rejected.Status)
	originalToken := rejected.Token

	// Re-inviting recycles the settled row instead of creating a second one
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/collab/projects/%s/invitations", project.ID), ownerToken, dto.CreateInvitationRequest{
		Email: "invitee@example.com",
		Role:  "admin",
	})
	require.Equal(t, http.StatusCreated, w.Code, "Response body: %s", w.Body.String())

	var recycled dto.InvitationResponse
	decodeData(t, w, &recycled)
	assert.Equal(t, invitation.ID, recycled.ID)
	assert.Equal(t, "pending", recycled.Status)
	assert.Equal(t, "admin", recycled.Role)

	var count int64
	require.NoError(t, db.Model(&domain.ProjectInvitation{}).Where("project_id = ?", project.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var stored domain.ProjectInvitation
	require.NoError(t, db.First(&stored, "id = ?", invitation.ID).Error)
	assert.NotEqual(t, originalToken, stored.Token, "Recycled invitation should carry a fresh token")
}

func TestIntegration_CancelInvitation(t *testing.T) {
	db := setupIntegrationTestDB(t)
	r := setupIntegrationRouter(db, newStubDirectory())

	ownerToken := signTestToken(t, uuid.New(), "owner@example.com")
	project := createTestProjectViaAPI(t, r, ownerToken, "Website Relaunch")

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/collab/projects/%s/invitations", project.ID), ownerToken, dto.CreateInvitationRequest{
		Email: "invitee@example.com",
		Role:  "member",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var invitation dto.InvitationResponse
	decodeData(t, w, &invitation)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/collab/projects/%s/invitations/%s", project.ID, invitation.ID), ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, "Response body: %s", w.Body.String())

	var count int64
	require.NoError(t, db.Model(&domain.ProjectInvitation{}).Where("id = ?", invitation.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count, "Cancelled invitation should be gone")

	// The invitee can no longer act on it
	inviteeToken := signTestToken(t, uuid.New(), "invitee@example.com")
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/collab/invitations/%s/accept", invitation.ID), inviteeToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestIntegration_AddMemberDirectly(t *testing.T) {
	db := setupIntegrationTestDB(t)
	directory := newStubDirectory()
	r := setupIntegrationRouter(db, directory)

	ownerToken := signTestToken(t, uuid.New(), "owner@example.com")
	project := createTestProjectViaAPI(t, r, ownerToken, "Website Relaunch")

	devID := uuid.New()
	directory.addUser(devID, "devuser", "dev@example.com")

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/collab/projects/%s/members", project.ID), ownerToken, dto.AddMemberRequest{
		Email: "Dev@Example.com",
		Role:  "admin",
	})
	require.Equal(t, http.StatusCreated, w.Code, "Response body: %s", w.Body.String())

	var member dto.MemberResponse
	decodeData(t, w, &member)
	assert.Equal(t, devID, member.UserID)
	assert.Equal(t, "admin", member.Role)

	// Unknown addresses cannot be added directly, only invited
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/collab/projects/%s/members", project.ID), ownerToken, dto.AddMemberRequest{
		Email: "nobody@example.com",
		Role:  "member",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, response.ErrCodeUserNotFound, errorCode(t, w))
}

func TestIntegration_LastOwnerProtection(t *testing.T) {
	db := setupIntegrationTestDB(t)
	r := setupIntegrationRouter(db, newStubDirectory())

	ownerID := uuid.New()
	ownerToken := signTestToken(t, ownerID, "owner@example.com")
	project := createTestProjectViaAPI(t, r, ownerToken, "Website Relaunch")

	// The sole owner can neither demote nor remove themselves
	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/collab/projects/%s/members/%s", project.ID, ownerID), ownerToken, dto.ChangeRoleRequest{Role: "member"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, response.ErrCodeLastOwner, errorCode(t, w))

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/collab/projects/%s/members/%s", project.ID, ownerID), ownerToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, response.ErrCodeLastOwner, errorCode(t, w))

	// With a second owner on board both operations go through
	secondOwnerID := uuid.New()
	require.NoError(t, db.Create(&domain.ProjectMember{
		ID:        uuid.New(),
		ProjectID: project.ID,
		UserID:    secondOwnerID,
		Role:      domain.RoleOwner,
		JoinedAt:  time.Now(),
	}).Error)

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/collab/projects/%s/members/%s", project.ID, ownerID), ownerToken, dto.ChangeRoleRequest{Role: "admin"})
	require.Equal(t, http.StatusOK, w.Code, "Response body: %s", w.Body.String())

	var demoted dto.MemberResponse
	decodeData(t, w, &demoted)
	assert.Equal(t, "admin", demoted.Role)

	// Now the second owner is the only owner and is protected in turn
	secondOwnerToken := signTestToken(t, secondOwnerID, "second@example.com")
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/collab/projects/%s/members/%s", project.ID, secondOwnerID), secondOwnerToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, response.ErrCodeLastOwner, errorCode(t, w))
}

func TestIntegration_OnlyOwnerTouchesOwnerRoles(t *testing.T) {
	db := setupIntegrationTestDB(t)
	r := setupIntegrationRouter(db, newStubDirectory())

	ownerID := uuid.New()
	ownerToken := signTestToken(t, ownerID, "owner@example.com")
	project := createTestProjectViaAPI(t, r, ownerToken, "Website Relaunch")

	adminID := uuid.New()
	require.NoError(t, db.Create(&domain.ProjectMember{
		ID:        uuid.New(),
		ProjectID: project.ID,
		UserID:    adminID,
		Role:      domain.RoleAdmin,
		JoinedAt:  time.Now(),
	}).Error)
	adminToken := signTestToken(t, adminID, "admin@example.com")

	// An admin may not grant ownership
	memberID := uuid.New()
	require.NoError(t, db.Create(&domain.ProjectMember{
		ID:        uuid.New(),
		ProjectID: project.ID,
		UserID:    memberID,
		Role:      domain.RoleMember,
		JoinedAt:  time.Now(),
	}).Error)

	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/collab/projects/%s/members/%s", project.ID, memberID), adminToken, dto.ChangeRoleRequest{Role: "owner"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// An admin may not delete the project either
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/collab/projects/%s", project.ID), adminToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// The owner can do both
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/collab/projects/%s/members/%s", project.ID, memberID), ownerToken, dto.ChangeRoleRequest{Role: "owner"})
	require.Equal(t, http.StatusOK, w.Code, "Response body: %s", w.Body.String())

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/collab/projects/%s", project.ID), ownerToken, nil)
	assert.Equal(t, http.StatusOK, w.Code, "Response body: %s", w.Body.String())
}

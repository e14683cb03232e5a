package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"project-collab-api/internal/domain"
	"project-collab-api/internal/repository"
	"project-collab-api/internal/response"
)

// Principal is the authenticated caller of a request. It is resolved once by
// the auth middleware and passed explicitly into every operation, so tests can
// inject arbitrary principals deterministically. IsSuperAdmin short-circuits
// every role check to an owner-equivalent before any per-project lookup.
type Principal struct {
	UserID       uuid.UUID
	Email        string
	IsSuperAdmin bool
}

// roleCacheTTL bounds how stale a cached role resolution may be
const roleCacheTTL = 5 * time.Minute

// roleCacheNone is the cached sentinel for "not a member"
const roleCacheNone = "none"

// RoleGate resolves the effective role of a caller for a project and gates
// mutating operations on it.
type RoleGate interface {
	// RoleOf returns the caller's role on the project, RoleNone for non-members.
	RoleOf(ctx context.Context, projectID uuid.UUID, principal Principal) (domain.MemberRole, error)
	// RequireMember fails with Forbidden unless the caller holds any role.
	RequireMember(ctx context.Context, projectID uuid.UUID, principal Principal) (domain.MemberRole, error)
	// RequireOwner fails with Forbidden unless the caller holds the owner role.
	RequireOwner(ctx context.Context, projectID uuid.UUID, principal Principal) error
	// InvalidateRole drops the cached role resolution for a (project, user) pair.
	// Membership mutations call this so the next check hits the database.
	InvalidateRole(ctx context.Context, projectID, userID uuid.UUID)
}

// roleGateImpl resolves roles from the membership store with a Redis
// read-through cache. A nil Redis client disables caching.
type roleGateImpl struct {
	memberRepo repository.MemberRepository
	cache      *redis.Client
	logger     *zap.Logger
}

// NewRoleGate creates a new instance of RoleGate
func NewRoleGate(memberRepo repository.MemberRepository, cache *redis.Client, logger *zap.Logger) RoleGate {
	return &roleGateImpl{
		memberRepo: memberRepo,
		cache:      cache,
		logger:     logger,
	}
}

func roleCacheKey(projectID, userID uuid.UUID) string {
	return fmt.Sprintf("collab:role:%s:%s", projectID, userID)
}

// RoleOf resolves the caller's effective role for a project
func (g *roleGateImpl) RoleOf(ctx context.Context, projectID uuid.UUID, principal Principal) (domain.MemberRole, error) {
	// Super-admin pre-check bypasses the per-project lookup entirely
	if principal.IsSuperAdmin {
		return domain.RoleOwner, nil
	}

	if cached, ok := g.cachedRole(ctx, projectID, principal.UserID); ok {
		return cached, nil
	}

	member, err := g.memberRepo.FindByProjectAndUser(ctx, projectID, principal.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			g.storeRole(ctx, projectID, principal.UserID, domain.RoleNone)
			return domain.RoleNone, nil
		}
		return domain.RoleNone, response.NewAppError(response.ErrCodeInternal, "Failed to resolve project role", err.Error())
	}

	g.storeRole(ctx, projectID, principal.UserID, member.Role)
	return member.Role, nil
}

// RequireMember permits any role, denies non-members
func (g *roleGateImpl) RequireMember(ctx context.Context, projectID uuid.UUID, principal Principal) (domain.MemberRole, error) {
	role, err := g.RoleOf(ctx, projectID, principal)
	if err != nil {
		return domain.RoleNone, err
	}
	if role == domain.RoleNone {
		return domain.RoleNone, response.NewForbiddenError("You are not a member of this project", "")
	}
	return role, nil
}

// RequireOwner permits only the owner role
func (g *roleGateImpl) RequireOwner(ctx context.Context, projectID uuid.UUID, principal Principal) error {
	role, err := g.RoleOf(ctx, projectID, principal)
	if err != nil {
		return err
	}
	if role != domain.RoleOwner {
		return response.NewForbiddenError("Only a project owner may perform this action", "")
	}
	return nil
}

// InvalidateRole drops the cached resolution for a (project, user) pair
func (g *roleGateImpl) InvalidateRole(ctx context.Context, projectID, userID uuid.UUID) {
	if g.cache == nil {
		return
	}
	if err := g.cache.Del(ctx, roleCacheKey(projectID, userID)).Err(); err != nil {
		g.logger.Warn("Failed to invalidate role cache",
			zap.String("project_id", projectID.String()),
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
	}
}

func (g *roleGateImpl) cachedRole(ctx context.Context, projectID, userID uuid.UUID) (domain.MemberRole, bool) {
	if g.cache == nil {
		return domain.RoleNone, false
	}
	value, err := g.cache.Get(ctx, roleCacheKey(projectID, userID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			g.logger.Warn("Role cache read failed", zap.Error(err))
		}
		return domain.RoleNone, false
	}
	if value == roleCacheNone {
		return domain.RoleNone, true
	}
	role := domain.MemberRole(value)
	if !role.IsValid() {
		return domain.RoleNone, false
	}
	return role, true
}

func (g *roleGateImpl) storeRole(ctx context.Context, projectID, userID uuid.UUID, role domain.MemberRole) {
	if g.cache == nil {
		return
	}
	value := string(role)
	if role == domain.RoleNone {
		value = roleCacheNone
	}
	if err := g.cache.Set(ctx, roleCacheKey(projectID, userID), value, roleCacheTTL).Err(); err != nil {
		g.logger.Warn("Role cache write failed", zap.Error(err))
	}
}

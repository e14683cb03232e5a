package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"project-collab-api/internal/middleware"
	"project-collab-api/internal/response"
	"project-collab-api/internal/service"
)

// currentPrincipal extracts the authenticated principal placed into the
// context by the auth middleware. A missing principal means the route was
// wired without the middleware; it is reported as unauthorized.
func currentPrincipal(c *gin.Context) (service.Principal, bool) {
	value, exists := c.Get(middleware.PrincipalKey)
	if !exists {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authentication required")
		return service.Principal{}, false
	}
	principal, ok := value.(service.Principal)
	if !ok {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authentication required")
		return service.Principal{}, false
	}
	return principal, true
}

// pathUUID parses a UUID path parameter, reporting a validation error on failure
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"project-collab-api/internal/response"
	"project-collab-api/internal/service"
)

// PrincipalKey is the gin context key the authenticated principal is stored under
const PrincipalKey = "principal"

// Auth returns a middleware that validates the Bearer token and stores the
// resolved principal in the request context. The token is an HMAC-signed JWT
// with the user id in "sub", the email in "email" and an optional
// "is_super_admin" flag.
func Auth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authorization header is required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Invalid authorization header format")
			c.Abort()
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Invalid token claims")
			c.Abort()
			return
		}

		var userIDStr string
		if sub, ok := claims["sub"].(string); ok {
			userIDStr = sub
		} else if uid, ok := claims["user_id"].(string); ok {
			userIDStr = uid
		} else {
			response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "User ID not found in token")
			c.Abort()
			return
		}

		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Invalid user ID format")
			c.Abort()
			return
		}

		email, _ := claims["email"].(string)
		if email == "" {
			response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Email not found in token")
			c.Abort()
			return
		}

		isSuperAdmin, _ := claims["is_super_admin"].(bool)

		c.Set(PrincipalKey, service.Principal{
			UserID:       userID,
			Email:        email,
			IsSuperAdmin: isSuperAdmin,
		})

		c.Next()
	}
}

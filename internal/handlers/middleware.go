package handlers

import (
	"net/http"
	"strings"

	"github.com/SAP-F-2025/classroom-service/internal/repositories"
	"github.com/SAP-F-2025/classroom-service/internal/utils"
	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"
)

// TokenParser abstracts the identity provider token check so tests can
// substitute a fake.
type TokenParser interface {
	ParseJwtToken(token string) (*casdoorsdk.Claims, error)
}

// AuthMiddleware validates the bearer token against the identity provider
// and loads the local principal. Identity lives in the IdP; role and status
// live here, so a user unknown to this service is rejected even with a
// valid token.
func AuthMiddleware(parser TokenParser, users repositories.UserRepository, logger utils.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Missing or malformed Authorization header",
			})
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		claims, err := parser.ParseJwtToken(token)
		if err != nil {
			logger.Warn("Token validation failed", "error", err, "remote_addr", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Invalid token",
			})
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.Id)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
					Message: "Unknown user",
				})
				return
			}
			logger.LogError(err, "Failed to load principal", "user_id", claims.Id)
			c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
				Message: "Internal server error",
			})
			return
		}

		if !user.IsActive() {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
				Message: "User account is not active",
			})
			return
		}

		c.Set("user", user)
		c.Set("user_id", user.ID)
		c.Next()
	}
}

// RequireAdmin guards admin-only route groups. It assumes AuthMiddleware ran
// first.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			c.Abort()
			return
		}
		if !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
				Message: "Admin role required",
			})
			return
		}
		c.Next()
	}
}

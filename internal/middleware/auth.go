package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Jefrey05/sistema-gestion/internal/model"
	"github.com/Jefrey05/sistema-gestion/pkg/database"
	"github.com/Jefrey05/sistema-gestion/pkg/jwtutil"
	"github.com/Jefrey05/sistema-gestion/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const userContextKey = "current_user"

// JWTAuthMiddleware validates the bearer token and loads the user fresh
// from the database on every request, so a suspension or role change takes
// effect immediately. Inactive users are rejected.
func JWTAuthMiddleware(jwtUtil *jwtutil.JWTUtil) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				log.Warn("Missing authorization header")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization header"})
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				log.Warn("Invalid authorization header format")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization header format"})
			}

			claims, err := jwtUtil.ValidateToken(parts[1])
			if err != nil {
				log.Warn("Invalid or expired token", zap.Error(err))
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			var user model.User
			if err := database.GetDB().Where("username = ?", claims.Username).First(&user).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
				}
				log.Error("Failed to load user for token", zap.Error(err))
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "authentication failed"})
			}

			if !user.IsActive {
				log.Warn("Inactive user attempted access", zap.Uint("user_id", user.ID))
				return c.JSON(http.StatusForbidden, echo.Map{"error": "user is inactive"})
			}

			c.Set(userContextKey, &user)
			log.Debug("Authenticated request",
				zap.Uint("user_id", user.ID),
				zap.String("role", string(user.Role)))

			return next(c)
		}
	}
}

// CurrentUser returns the authenticated user stored by JWTAuthMiddleware,
// or nil when the request is anonymous.
func CurrentUser(c echo.Context) *model.User {
	user, ok := c.Get(userContextKey).(*model.User)
	if !ok {
		return nil
	}
	return user
}

// SetCurrentUser stores the authenticated user in the request context. Used
// by tests to simulate an authenticated request.
func SetCurrentUser(c echo.Context, user *model.User) {
	c.Set(userContextKey, user)
}

// RequireAdmin allows organization admins and the super admin through.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}
			if !user.Role.IsAdmin() {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "admin privileges required"})
			}
			return next(c)
		}
	}
}

// RequireSuperAdmin allows only the system-wide operator: super_admin role
// with no organization binding.
func RequireSuperAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}
			if !user.IsSuperAdmin() {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "super admin privileges required"})
			}
			return next(c)
		}
	}
}

package handler

import (
	"net/http"
	"time"

	"github.com/Jefrey05/sistema-gestion/internal/middleware"
	"github.com/Jefrey05/sistema-gestion/internal/model"
	"github.com/Jefrey05/sistema-gestion/pkg/database"
	"github.com/Jefrey05/sistema-gestion/pkg/hash"
	"github.com/Jefrey05/sistema-gestion/pkg/logger"
	"github.com/Jefrey05/sistema-gestion/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Login authenticates by username or email and returns a JWT token. Users
// of a pending or suspended organization are inactive and cannot log in.
func Login(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("login_query")(time.Now())
	var user model.User
	result := database.GetDB().
		Where("username = ? OR email = ?", req.Username, req.Username).
		First(&user)
	if result.Error != nil {
		log.Warn("User not found", zap.String("username", req.Username))
		prometheus.RecordAuthError("user_not_found")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	if !hash.Verify(req.Password, user.HashedPassword) {
		log.Warn("Invalid password", zap.String("username", req.Username))
		prometheus.RecordAuthError("invalid_password")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	if !user.IsActive {
		log.Warn("Inactive user attempted login", zap.Uint("user_id", user.ID))
		prometheus.RecordAuthError("user_inactive")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "user is inactive, organization pending approval or suspended"})
	}

	now := time.Now().UTC()
	if err := database.GetDB().Model(&user).Update("last_login", now).Error; err != nil {
		log.Error("Failed to update last login", zap.Error(err))
	}

	token, err := jwtUtil.GenerateToken(user.Username, user.ID, string(user.Role), user.OrganizationID)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	prometheus.IncreaseActiveTokens()
	log.Info("User logged in",
		zap.Uint("user_id", user.ID),
		zap.String("role", string(user.Role)))

	return c.JSON(http.StatusOK, echo.Map{
		"access_token": token,
		"token_type":   "bearer",
		"user":         user,
	})
}

// Me returns the authenticated user's profile.
func Me(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	return c.JSON(http.StatusOK, user)
}

// ChangePassword verifies the current password and replaces it.
func ChangePassword(c echo.Context) error {
	log := logger.FromEcho(c)

	user := middleware.CurrentUser(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if !hash.Verify(req.CurrentPassword, user.HashedPassword) {
		prometheus.RecordAuthError("invalid_password")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "current password is incorrect"})
	}
	if len(req.NewPassword) < 6 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "new password must be at least 6 characters"})
	}

	hashed, err := hash.Password(req.NewPassword)
	if err != nil {
		log.Error("Failed to hash new password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to change password"})
	}

	defer prometheus.TrackDBOperation("change_password")(time.Now())
	if err := database.GetDB().Model(user).Update("hashed_password", hashed).Error; err != nil {
		log.Error("Failed to update password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to change password"})
	}

	log.Info("Password changed", zap.Uint("user_id", user.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "password updated successfully"})
}

// SetupSuperAdmin bootstraps the system operator account. It only runs when
// no super admin exists yet and the credentials are configured; otherwise it
// reports what is already there.
func SetupSuperAdmin(c echo.Context) error {
	log := logger.FromEcho(c)

	sa := appConfig.SuperAdmin
	if sa.Password == "" {
		log.Warn("Super admin setup requested without configured credentials")
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "super admin credentials are not configured"})
	}

	db := database.GetDB()
	var count int64
	if err := db.Model(&model.User{}).
		Where("role = ? AND organization_id IS NULL", model.RoleSuperAdmin).
		Count(&count).Error; err != nil {
		log.Error("Failed to check for existing super admin", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "setup failed"})
	}
	if count > 0 {
		return c.JSON(http.StatusOK, echo.Map{"message": "super admin already exists"})
	}

	hashed, err := hash.Password(sa.Password)
	if err != nil {
		log.Error("Failed to hash super admin password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "setup failed"})
	}

	admin := model.User{
		Username:       sa.Username,
		Email:          sa.Email,
		FullName:       "System Administrator",
		HashedPassword: hashed,
		Role:           model.RoleSuperAdmin,
		OrganizationID: nil,
		IsActive:       true,
	}

	defer prometheus.TrackDBOperation("setup_super_admin")(time.Now())
	if err := db.Create(&admin).Error; err != nil {
		log.Error("Failed to create super admin", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "setup failed"})
	}

	log.Info("Super admin created", zap.String("username", admin.Username))
	return c.JSON(http.StatusCreated, echo.Map{
		"message":  "super admin created",
		"username": admin.Username,
	})
}

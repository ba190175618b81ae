package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Jefrey05/sistema-gestion/internal/model"
	"github.com/Jefrey05/sistema-gestion/internal/org"
	"github.com/Jefrey05/sistema-gestion/pkg/database"
	"github.com/Jefrey05/sistema-gestion/pkg/hash"
	"github.com/Jefrey05/sistema-gestion/pkg/logger"
	"github.com/Jefrey05/sistema-gestion/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// findOrgUser loads a user by path id within the caller's organization.
// Cross-tenant ids are indistinguishable from missing ones.
func findOrgUser(c echo.Context, orgID uint) (*model.User, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	var user model.User
	if err := database.GetDB().
		Where("id = ? AND organization_id = ?", id, orgID).
		First(&user).Error; err != nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	return &user, nil
}

// ListUsers returns the members of the caller's organization.
func ListUsers(c echo.Context) error {
	log := logger.FromEcho(c)

	_, orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}

	var users []model.User
	if err := database.GetDB().
		Where("organization_id = ?", orgID).
		Order("created_at ASC").
		Find(&users).Error; err != nil {
		log.Error("Failed to list users", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, users)
}

// CreateUser adds a member to the caller's organization, enforcing the
// plan's user limit. Admin only; the super_admin role cannot be assigned.
func CreateUser(c echo.Context) error {
	log := logger.FromEcho(c)

	_, orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}

	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		FullName string `json:"full_name"`
		Password string `json:"password"`
		Role     string `json:"role"`
		Phone    string `json:"phone"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username, email and password are required"})
	}
	if len(req.Password) < 6 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 6 characters"})
	}

	role := model.Role(req.Role)
	if req.Role == "" {
		role = model.RoleEmployee
	}
	if !role.Valid() || role == model.RoleSuperAdmin {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
	}

	db := database.GetDB()
	allowed, err := org.CanAddUser(db, orgID)
	if err != nil {
		return orgError(c, log, err)
	}
	if !allowed {
		prometheus.RecordOrgError(orgID, "user_limit_reached")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "user limit reached for the current plan"})
	}

	var count int64
	if err := db.Model(&model.User{}).
		Where("username = ? OR email = ?", req.Username, req.Email).
		Count(&count).Error; err != nil {
		log.Error("Failed to check user uniqueness", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if count > 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "username or email already taken"})
	}

	hashed, err := hash.Password(req.Password)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	user := model.User{
		Username:       req.Username,
		Email:          req.Email,
		FullName:       req.FullName,
		HashedPassword: hashed,
		Role:           role,
		OrganizationID: &orgID,
		IsActive:       true,
		Phone:          req.Phone,
	}

	defer prometheus.TrackDBOperation("create_user")(time.Now())
	if err := db.Create(&user).Error; err != nil {
		log.Error("Failed to create user", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	log.Info("User created",
		zap.Uint("user_id", user.ID),
		zap.Uint("organization_id", orgID))

	return c.JSON(http.StatusCreated, user)
}

// UpdateUser applies a partial update to a member of the caller's
// organization. Admin only.
func UpdateUser(c echo.Context) error {
	log := logger.FromEcho(c)

	_, orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}

	user, err := findOrgUser(c, orgID)
	if err != nil {
		return err
	}

	var req struct {
		Email    *string `json:"email"`
		FullName *string `json:"full_name"`
		Role     *string `json:"role"`
		Phone    *string `json:"phone"`
		Avatar   *string `json:"avatar"`
		IsActive *bool   `json:"is_active"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Role != nil {
		role := model.Role(*req.Role)
		if !role.Valid() || role == model.RoleSuperAdmin {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
		}
		user.Role = role
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	defer prometheus.TrackDBOperation("update_user")(time.Now())
	if err := database.GetDB().Save(user).Error; err != nil {
		log.Error("Failed to update user", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, user)
}

// DeleteUser removes a member of the caller's organization. Admins cannot
// delete themselves.
func DeleteUser(c echo.Context) error {
	log := logger.FromEcho(c)

	caller, orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}

	user, err := findOrgUser(c, orgID)
	if err != nil {
		return err
	}

	if user.ID == caller.ID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot delete your own account"})
	}

	defer prometheus.TrackDBOperation("delete_user")(time.Now())
	if err := database.GetDB().Delete(user).Error; err != nil {
		log.Error("Failed to delete user", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	log.Info("User deleted",
		zap.Uint("user_id", user.ID),
		zap.Uint("deleted_by", caller.ID))

	return c.JSON(http.StatusOK, echo.Map{"message": "user deleted"})
}

// ResetUserPassword sets a new password for a member of the caller's
// organization. Admin only.
func ResetUserPassword(c echo.Context) error {
	log := logger.FromEcho(c)

	_, orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}

	user, err := findOrgUser(c, orgID)
	if err != nil {
		return err
	}

	var req struct {
		NewPassword string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if len(req.NewPassword) < 6 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "new password must be at least 6 characters"})
	}

	hashed, err := hash.Password(req.NewPassword)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	if err := database.GetDB().Model(user).Update("hashed_password", hashed).Error; err != nil {
		log.Error("Failed to reset password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	log.Info("Password reset by admin", zap.Uint("user_id", user.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "password reset successfully"})
}

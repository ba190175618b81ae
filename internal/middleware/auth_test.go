package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Jefrey05/sistema-gestion/internal/model"
	"github.com/Jefrey05/sistema-gestion/pkg/database"
	"github.com/Jefrey05/sistema-gestion/pkg/jwtutil"
	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAuthTest(t *testing.T) (*gorm.DB, *jwtutil.JWTUtil) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Organization{}, &model.User{}))
	database.DB = db

	return db, jwtutil.NewJWTUtil(&jwtutil.JWTConfig{SigningKey: "test-key", ExpirationHours: 1})
}

func authRequest(token string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

func TestJWTAuthMiddlewareLoadsUser(t *testing.T) {
	db, jwtUtil := setupAuthTest(t)

	orgID := uint(7)
	user := model.User{
		Username: "tokenuser", Email: "tokenuser@test.com",
		HashedPassword: "x", Role: model.RoleEmployee,
		OrganizationID: &orgID, IsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)

	token, err := jwtUtil.GenerateToken(user.Username, user.ID, string(user.Role), user.OrganizationID)
	require.NoError(t, err)

	c, rec := authRequest(token)
	handler := JWTAuthMiddleware(jwtUtil)(func(c echo.Context) error {
		loaded := CurrentUser(c)
		require.NotNil(t, loaded)
		assert.Equal(t, user.ID, loaded.ID)
		return okHandler(c)
	})
	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuthMiddlewareRejectsMissingOrBadToken(t *testing.T) {
	_, jwtUtil := setupAuthTest(t)
	handler := JWTAuthMiddleware(jwtUtil)(okHandler)

	c, rec := authRequest("")
	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	c, rec = authRequest("not-a-token")
	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthMiddlewareRejectsDeactivatedUser(t *testing.T) {
	db, jwtUtil := setupAuthTest(t)

	user := model.User{
		Username: "benched", Email: "benched@test.com",
		HashedPassword: "x", Role: model.RoleEmployee, IsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)

	token, err := jwtUtil.GenerateToken(user.Username, user.ID, string(user.Role), nil)
	require.NoError(t, err)

	// Deactivated after the token was issued: the fresh DB load catches it
	require.NoError(t, db.Model(&user).Update("is_active", false).Error)

	c, rec := authRequest(token)
	require.NoError(t, JWTAuthMiddleware(jwtUtil)(okHandler)(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAdminGates(t *testing.T) {
	orgID := uint(1)
	cases := []struct {
		role model.Role
		want int
	}{
		{model.RoleEmployee, http.StatusForbidden},
		{model.RoleSeller, http.StatusForbidden},
		{model.RoleWarehouse, http.StatusForbidden},
		{model.RoleAdmin, http.StatusOK},
		{model.RoleSuperAdmin, http.StatusOK},
	}

	for _, tc := range cases {
		c, rec := authRequest("")
		SetCurrentUser(c, &model.User{Role: tc.role, OrganizationID: &orgID, IsActive: true})
		require.NoError(t, RequireAdmin()(okHandler)(c))
		assert.Equal(t, tc.want, rec.Code, "role %s", tc.role)
	}
}

func TestRequireSuperAdminNeedsNullOrganization(t *testing.T) {
	orgID := uint(1)

	// super_admin role bound to a tenant is not the system operator
	c, rec := authRequest("")
	SetCurrentUser(c, &model.User{Role: model.RoleSuperAdmin, OrganizationID: &orgID, IsActive: true})
	require.NoError(t, RequireSuperAdmin()(okHandler)(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	c, rec = authRequest("")
	SetCurrentUser(c, &model.User{Role: model.RoleSuperAdmin, IsActive: true})
	require.NoError(t, RequireSuperAdmin()(okHandler)(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = authRequest("")
	SetCurrentUser(c, &model.User{Role: model.RoleAdmin, IsActive: true})
	require.NoError(t, RequireSuperAdmin()(okHandler)(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

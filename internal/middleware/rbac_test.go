package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ucao-academy/web-academy-api/internal/models"
)

func rbacRouter(claims *models.JWTClaims, guard gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if claims != nil {
			c.Set(ContextUserKey, claims)
		}
		c.Next()
	})
	r.GET("/users/:id", guard, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func performRBAC(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestRBACAllowsMatchingRole(t *testing.T) {
	claims := &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin}
	r := rbacRouter(claims, RBAC("admin"))

	w := performRBAC(r, "/users/u-9")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRBACRejectsOtherRole(t *testing.T) {
	claims := &models.JWTClaims{UserID: "etu-1", Role: models.RoleStudent}
	r := rbacRouter(claims, RBAC("admin"))

	w := performRBAC(r, "/users/u-9")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRBACRejectsMissingClaims(t *testing.T) {
	r := rbacRouter(nil, RBAC("admin"))

	w := performRBAC(r, "/users/u-9")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRBACSelfMatchesPathParam(t *testing.T) {
	claims := &models.JWTClaims{UserID: "etu-1", Role: models.RoleStudent}
	r := rbacRouter(claims, RBAC("admin", "SELF"))

	assert.Equal(t, http.StatusOK, performRBAC(r, "/users/etu-1").Code)
	assert.Equal(t, http.StatusForbidden, performRBAC(r, "/users/etu-2").Code)
}

func TestRequireRoles(t *testing.T) {
	claims := &models.JWTClaims{UserID: "prof-1", Role: models.RoleInstructor}
	r := rbacRouter(claims, RequireRoles(models.RoleInstructor, models.RoleAdmin))

	assert.Equal(t, http.StatusOK, performRBAC(r, "/users/u-9").Code)
}

func TestRequireSuperAdminRejectsInstituteAdmin(t *testing.T) {
	inst := models.InstituteDGI
	claims := &models.JWTClaims{UserID: "admin-2", Role: models.RoleAdmin, Institute: &inst}
	r := rbacRouter(claims, RequireSuperAdmin())

	assert.Equal(t, http.StatusForbidden, performRBAC(r, "/users/u-9").Code)
}

func TestRequireSuperAdminAllowsUnaffiliatedAdmin(t *testing.T) {
	claims := &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin}
	r := rbacRouter(claims, RequireSuperAdmin())

	assert.Equal(t, http.StatusOK, performRBAC(r, "/users/u-9").Code)
}

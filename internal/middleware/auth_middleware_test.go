package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"hydrohub_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protectedRouter(roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	group := engine.Group("/", AuthMiddleware())
	if len(roles) > 0 {
		group.Use(RoleAuthMiddleware(roles...))
	}
	group.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetInt64("userID"),
			"role":    c.GetString("userRole"),
		})
	})
	return engine
}

func get(engine *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddlewareRequiresHeader(t *testing.T) {
	engine := protectedRouter()

	rec := get(engine, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")

	rec = get(engine, "Basic abc123")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = get(engine, "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewarePopulatesClaims(t *testing.T) {
	token, err := utils.GenerateAccessToken(42, "owner000001", "owner")
	require.NoError(t, err)

	rec := get(protectedRouter(), "Bearer "+token)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":42`)
	assert.Contains(t, rec.Body.String(), `"role":"owner"`)
}

func TestRoleAuthMiddlewareEnforcesRoles(t *testing.T) {
	ownerToken, err := utils.GenerateAccessToken(42, "owner000001", "owner")
	require.NoError(t, err)
	staffToken, err := utils.GenerateAccessToken(43, "delivery000001", "delivery")
	require.NoError(t, err)

	engine := protectedRouter("owner", "admin")

	rec := get(engine, "Bearer "+ownerToken)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = get(engine, "Bearer "+staffToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "FORBIDDEN")
}

func TestRoleAuthMiddlewareMatchesCaseInsensitively(t *testing.T) {
	token, err := utils.GenerateAccessToken(42, "admin000001", "Admin")
	require.NoError(t, err)

	rec := get(protectedRouter("admin"), "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

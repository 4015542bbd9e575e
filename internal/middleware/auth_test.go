package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gardora-backend/internal/models"
)

const testSecret = "test-secret"

func signToken(t *testing.T, role string, ttl time.Duration) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub":   primitive.NewObjectID().Hex(),
		"email": "staff@example.com",
		"role":  role,
		"exp":   time.Now().Add(ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("signing token failed: %v", err)
	}
	return signed
}

func protectedRouter(guard gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", guard, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "role": c.GetString(CtxRole)})
	})
	return r
}

func TestAuthGuardRejectsMissingToken(t *testing.T) {
	r := protectedRouter(AuthGuard(testSecret))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthGuardRejectsMalformedHeader(t *testing.T) {
	r := protectedRouter(AuthGuard(testSecret))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Token abc123")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthGuardRejectsBadSignature(t *testing.T) {
	r := protectedRouter(AuthGuard(testSecret))

	claims := jwt.MapClaims{
		"sub":  primitive.NewObjectID().Hex(),
		"role": models.RoleAdmin,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthGuardRejectsExpiredToken(t *testing.T) {
	r := protectedRouter(AuthGuard(testSecret))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, models.RoleAdmin, -time.Minute))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminAuthRejectsUserRole(t *testing.T) {
	r := protectedRouter(AdminAuth(testSecret))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, models.RoleUser, time.Hour))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminAuthAdmitsAdminRole(t *testing.T) {
	r := protectedRouter(AdminAuth(testSecret))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, models.RoleAdmin, time.Hour))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"admin"`)
}

func TestGardenerAuthAdmitsGardenerAndAdmin(t *testing.T) {
	r := protectedRouter(GardenerAuth(testSecret))

	for _, role := range []string{models.RoleGardener, models.RoleAdmin} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, role, time.Hour))
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, "role %s", role)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, models.RoleUser, time.Hour))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

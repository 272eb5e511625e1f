package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khel-bhoomi/backend/internal/models"
	"github.com/khel-bhoomi/backend/internal/repository"
	"github.com/khel-bhoomi/backend/internal/testutil"
	"github.com/khel-bhoomi/backend/internal/utils"
	"github.com/khel-bhoomi/backend/pkg/logger"
)

const authTestSecret = "auth-middleware-test-secret"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.Init(false)
	os.Exit(m.Run())
}

// setupAuthTestRouter builds a router with one protected route that echoes
// the authenticated username.
func setupAuthTestRouter(t *testing.T) (*gin.Engine, *testutil.TestDatabase, *repository.UserRepository) {
	testDB := testutil.SetupTestDatabase(t)
	testutil.CleanDatabase(t, testDB.DB)
	userRepo := repository.NewUserRepository(testDB.DB)

	router := gin.New()
	protected := router.Group("/api")
	protected.Use(AuthMiddleware(authTestSecret, userRepo))
	protected.GET("/whoami", func(c *gin.Context) {
		user, ok := CurrentUser(c)
		require.True(t, ok, "Handler should see the authenticated user")
		c.JSON(http.StatusOK, gin.H{"username": user.Username})
	})

	return router, testDB, userRepo
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	// Arrange
	router, testDB, userRepo := setupAuthTestRouter(t)
	defer testDB.Teardown(t)

	user, err := testutil.CreateTestUser("rahul_sharma", "rahul@example.com", "Secret123!", models.RoleAthlete)
	require.NoError(t, err)
	require.NoError(t, userRepo.CreateUser(user))

	token, err := utils.GenerateToken(user.Username, authTestSecret, time.Hour)
	require.NoError(t, err)

	// Act
	req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "rahul_sharma")
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	router, testDB, _ := setupAuthTestRouter(t)
	defer testDB.Teardown(t)

	req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_BadPrefix(t *testing.T) {
	router, testDB, _ := setupAuthTestRouter(t)
	defer testDB.Teardown(t)

	req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
	req.Header.Set("Authorization", "Token abc123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	// Arrange
	router, testDB, userRepo := setupAuthTestRouter(t)
	defer testDB.Teardown(t)

	user, err := testutil.CreateTestUser("rahul_sharma", "rahul@example.com", "Secret123!", models.RoleAthlete)
	require.NoError(t, err)
	require.NoError(t, userRepo.CreateUser(user))

	token, err := utils.GenerateToken(user.Username, authTestSecret, -time.Minute)
	require.NoError(t, err)

	// Act
	req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_DeletedSubject(t *testing.T) {
	// A syntactically valid token whose subject no longer exists in the
	// store must be rejected: the gate re-fetches the user every request
	router, testDB, _ := setupAuthTestRouter(t)
	defer testDB.Teardown(t)

	token, err := utils.GenerateToken("ghost_user", authTestSecret, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "User not found")
}

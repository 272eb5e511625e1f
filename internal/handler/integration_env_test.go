package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/khel-bhoomi/backend/internal/broker"
	"github.com/khel-bhoomi/backend/internal/handler"
	"github.com/khel-bhoomi/backend/internal/middleware"
	"github.com/khel-bhoomi/backend/internal/repository"
	"github.com/khel-bhoomi/backend/internal/service"
	"github.com/khel-bhoomi/backend/internal/testutil"
	"github.com/khel-bhoomi/backend/internal/wal"
	"github.com/khel-bhoomi/backend/pkg/logger"
)

const testJWTSecret = "integration-test-secret-key"

// testEnv wires the full API surface against in-memory backends, mirroring
// the route layout of cmd/server.
type testEnv struct {
	router    *gin.Engine
	testDB    *testutil.TestDatabase
	testRedis *testutil.TestRedis
	userRepo  *repository.UserRepository
	postRepo  *repository.PostRepository
}

func newTestEnv(t *testing.T) *testEnv {
	gin.SetMode(gin.TestMode)
	logger.Init(false)

	testDB := testutil.SetupTestDatabase(t)
	testRedis := testutil.SetupTestRedis(t)

	feedBroker, err := broker.NewRedisFeedBroker(testRedis.URL)
	require.NoError(t, err)

	walInstance, err := wal.NewWAL(filepath.Join(t.TempDir(), "wal_posts.log"))
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(testDB.DB)
	postRepo := repository.NewPostRepository(testDB.DB)

	authService := service.NewAuthService(userRepo, testJWTSecret, time.Hour)
	userService := service.NewUserService(userRepo)
	postService := service.NewPostService(postRepo, feedBroker, walInstance)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService, userRepo, testJWTSecret)
	postHandler := handler.NewPostHandler(postService)

	router := gin.New()
	api := router.Group("/api")

	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/signup", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	api.GET("/users/:username", userHandler.Profile)
	api.GET("/posts", postHandler.Feed)
	api.GET("/posts/user/:user_id", postHandler.UserPosts)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(testJWTSecret, userRepo))
	protected.PUT("/users/me", userHandler.UpdateMe)
	protected.POST("/posts", postHandler.Create)

	t.Cleanup(func() {
		feedBroker.Close()
		walInstance.Close()
		testRedis.Teardown(t)
		testDB.Teardown(t)
	})

	return &testEnv{
		router:    router,
		testDB:    testDB,
		testRedis: testRedis,
		userRepo:  userRepo,
		postRepo:  postRepo,
	}
}

func (env *testEnv) clean(t *testing.T) {
	testutil.CleanDatabase(t, env.testDB.DB)
}

// doJSON performs a request with an optional JSON body and bearer token.
func (env *testEnv) doJSON(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), "Response should be valid JSON")
	return response
}

// registerUser registers an account through the API and returns its token.
func (env *testEnv) registerUser(t *testing.T, username, email, role string) string {
	w := env.doJSON(t, http.MethodPost, "/api/auth/register", map[string]string{
		"username":  username,
		"email":     email,
		"password":  "Secret123!",
		"full_name": "Test " + username,
		"role":      role,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, "Setup: registration should succeed: %s", w.Body.String())

	response := decodeBody(t, w)
	token, _ := response["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

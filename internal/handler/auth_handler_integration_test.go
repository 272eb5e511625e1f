package handler_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

// AuthHandlerIntegrationTestSuite exercises register and login end to end
// against the in-memory store.
type AuthHandlerIntegrationTestSuite struct {
	suite.Suite
	env *testEnv
}

func (s *AuthHandlerIntegrationTestSuite) SetupSuite() {
	s.env = newTestEnv(s.T())
}

func (s *AuthHandlerIntegrationTestSuite) SetupTest() {
	s.env.clean(s.T())
}

func (s *AuthHandlerIntegrationTestSuite) TestRegisterSuccess() {
	w := s.env.doJSON(s.T(), http.MethodPost, "/api/auth/register", map[string]string{
		"username":  "alice",
		"email":     "a@x.com",
		"password":  "Secret123!",
		"full_name": "Alice",
		"role":      "athlete",
	}, "")

	assert.Equal(s.T(), http.StatusOK, w.Code)

	response := decodeBody(s.T(), w)
	assert.NotEmpty(s.T(), response["access_token"], "Response should carry a token")
	assert.Equal(s.T(), "bearer", response["token_type"])

	user := response["user"].(map[string]interface{})
	assert.Equal(s.T(), "alice", user["username"])
	assert.Equal(s.T(), "a@x.com", user["email"])
	assert.Equal(s.T(), "athlete", user["role"])
	assert.Equal(s.T(), "Alice", user["full_name"])
	assert.NotContains(s.T(), w.Body.String(), "password", "Password material must never be serialized")
}

func (s *AuthHandlerIntegrationTestSuite) TestSignupAlias() {
	w := s.env.doJSON(s.T(), http.MethodPost, "/api/auth/signup", map[string]string{
		"username":  "bob",
		"email":     "b@x.com",
		"password":  "Secret123!",
		"full_name": "Bob",
		"role":      "fan",
	}, "")

	assert.Equal(s.T(), http.StatusOK, w.Code, "signup must behave exactly like register")
}

func (s *AuthHandlerIntegrationTestSuite) TestRegisterDuplicateUsername() {
	s.env.registerUser(s.T(), "alice", "a@x.com", "athlete")

	// Same username, different email
	w := s.env.doJSON(s.T(), http.MethodPost, "/api/auth/register", map[string]string{
		"username":  "alice",
		"email":     "other@x.com",
		"password":  "Secret123!",
		"full_name": "Other Alice",
		"role":      "fan",
	}, "")

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
	response := decodeBody(s.T(), w)
	assert.Contains(s.T(), response["error"], "already registered")
}

func (s *AuthHandlerIntegrationTestSuite) TestRegisterDuplicateEmail() {
	s.env.registerUser(s.T(), "alice", "a@x.com", "athlete")

	// Same email, different username
	w := s.env.doJSON(s.T(), http.MethodPost, "/api/auth/register", map[string]string{
		"username":  "alice2",
		"email":     "a@x.com",
		"password":  "Secret123!",
		"full_name": "Alice Two",
		"role":      "scout",
	}, "")

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *AuthHandlerIntegrationTestSuite) TestRegisterInvalidRole() {
	w := s.env.doJSON(s.T(), http.MethodPost, "/api/auth/register", map[string]string{
		"username":  "coach",
		"email":     "c@x.com",
		"password":  "Secret123!",
		"full_name": "Coach",
		"role":      "coach",
	}, "")

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
	response := decodeBody(s.T(), w)
	assert.Contains(s.T(), response["error"], "role")
}

func (s *AuthHandlerIntegrationTestSuite) TestRegisterShortPassword() {
	w := s.env.doJSON(s.T(), http.MethodPost, "/api/auth/register", map[string]string{
		"username":  "alice",
		"email":     "a@x.com",
		"password":  "short",
		"full_name": "Alice",
		"role":      "athlete",
	}, "")

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *AuthHandlerIntegrationTestSuite) TestRegisterMissingFields() {
	w := s.env.doJSON(s.T(), http.MethodPost, "/api/auth/register", map[string]string{
		"username": "alice",
	}, "")

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *AuthHandlerIntegrationTestSuite) TestLoginSuccess() {
	s.env.registerUser(s.T(), "alice", "a@x.com", "athlete")

	w := s.env.doJSON(s.T(), http.MethodPost, "/api/auth/login", map[string]string{
		"username": "alice",
		"password": "Secret123!",
	}, "")

	assert.Equal(s.T(), http.StatusOK, w.Code)
	response := decodeBody(s.T(), w)
	assert.NotEmpty(s.T(), response["access_token"])
	assert.Equal(s.T(), "bearer", response["token_type"])

	user := response["user"].(map[string]interface{})
	assert.Equal(s.T(), "alice", user["username"])
}

func (s *AuthHandlerIntegrationTestSuite) TestLoginFailuresAreIndistinguishable() {
	s.env.registerUser(s.T(), "alice", "a@x.com", "athlete")

	// Wrong password for an existing account
	wrongPassword := s.env.doJSON(s.T(), http.MethodPost, "/api/auth/login", map[string]string{
		"username": "alice",
		"password": "WrongPassword!",
	}, "")

	// Login against an account that does not exist
	unknownUser := s.env.doJSON(s.T(), http.MethodPost, "/api/auth/login", map[string]string{
		"username": "nobody",
		"password": "Secret123!",
	}, "")

	// Both must be the same 401 with the same body, no enumeration signal
	assert.Equal(s.T(), http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(s.T(), http.StatusUnauthorized, unknownUser.Code)
	assert.JSONEq(s.T(), wrongPassword.Body.String(), unknownUser.Body.String(),
		"Wrong-password and unknown-user responses must be identical")
}

func TestAuthHandlerIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerIntegrationTestSuite))
}

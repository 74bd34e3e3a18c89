package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

// AuthHandlerTestSuite exercises registration, login and the current-user
// endpoint through the real router.
type AuthHandlerTestSuite struct {
	suite.Suite
	router *gin.Engine
}

func (suite *AuthHandlerTestSuite) SetupTest() {
	suite.router, _ = setupTestRouter(suite.T())
}

// TestRegister_FirstUserBecomesAdmin tests the bootstrap rule
func (suite *AuthHandlerTestSuite) TestRegister_FirstUserBecomesAdmin() {
	w := request(suite.router, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "supersecret",
	})
	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response struct {
		User struct {
			Username string `json:"username"`
			Role     string `json:"role"`
			Active   bool   `json:"active"`
		} `json:"user"`
		Token string `json:"token"`
	}
	decodeBody(suite.T(), w, &response)
	assert.Equal(suite.T(), "alice", response.User.Username)
	assert.Equal(suite.T(), "admin", response.User.Role)
	assert.True(suite.T(), response.User.Active)
	assert.NotEmpty(suite.T(), response.Token)

	// The second user gets the plain member role
	w = request(suite.router, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "bob",
		"email":    "bob@example.com",
		"password": "supersecret",
	})
	assert.Equal(suite.T(), http.StatusCreated, w.Code)
	decodeBody(suite.T(), w, &response)
	assert.Equal(suite.T(), "member", response.User.Role)
}

// TestRegister_DuplicateUsername tests the conflict response
func (suite *AuthHandlerTestSuite) TestRegister_DuplicateUsername() {
	registerVia(suite.T(), suite.router, "alice")

	w := request(suite.router, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "alice",
		"email":    "other@example.com",
		"password": "supersecret",
	})
	assert.Equal(suite.T(), http.StatusConflict, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "CONFLICT")
}

// TestRegister_ShortPassword tests password length validation
func (suite *AuthHandlerTestSuite) TestRegister_ShortPassword() {
	w := request(suite.router, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "short",
	})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "password")
}

// TestLogin_Success tests logging in with valid credentials
func (suite *AuthHandlerTestSuite) TestLogin_Success() {
	registerVia(suite.T(), suite.router, "alice")

	w := request(suite.router, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": "alice",
		"password": "supersecret",
	})
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response struct {
		Token string `json:"token"`
	}
	decodeBody(suite.T(), w, &response)
	assert.NotEmpty(suite.T(), response.Token)
}

// TestLogin_WrongPassword tests the uniform invalid-credentials response
func (suite *AuthHandlerTestSuite) TestLogin_WrongPassword() {
	registerVia(suite.T(), suite.router, "alice")

	w := request(suite.router, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": "alice",
		"password": "wrong-password",
	})
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)

	// Unknown usernames produce the same response shape
	w = request(suite.router, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": "nobody",
		"password": "wrong-password",
	})
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "INVALID_CREDENTIALS")
}

// TestGetCurrentUser tests the authenticated identity endpoint
func (suite *AuthHandlerTestSuite) TestGetCurrentUser() {
	aliceToken, _ := registerVia(suite.T(), suite.router, "alice")

	w := request(suite.router, http.MethodGet, "/api/auth/me", aliceToken, nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "alice")

	// Anonymous requests are rejected
	w = request(suite.router, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func TestAuthHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}

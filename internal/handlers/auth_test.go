package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/dailydo-api/internal/auth"
	"github.com/yukikurage/dailydo-api/internal/constants"
	"github.com/yukikurage/dailydo-api/internal/dto"
	apierrors "github.com/yukikurage/dailydo-api/internal/errors"
	"github.com/yukikurage/dailydo-api/internal/models"
	"github.com/yukikurage/dailydo-api/internal/repository"
	"github.com/yukikurage/dailydo-api/internal/services"
	"github.com/yukikurage/dailydo-api/internal/testutil"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type authTestEnv struct {
	db          *gorm.DB
	handler     *AuthHandler
	authService *services.AuthService
	tokens      *auth.TokenService
	router      *gin.Engine
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	tokens := auth.NewTokenService("handler-test-secret", "dailydo-test", 30*time.Minute, 7*24*time.Hour)
	authService := services.NewAuthService(repository.NewUserRepository(db), auth.NewBcryptHasher(bcrypt.MinCost), tokens)
	handler := NewAuthHandler(authService)

	r := gin.New()
	r.POST("/user/register", handler.Register)
	r.POST("/token", handler.Token)
	r.POST("/token/refresh", handler.RefreshToken)

	return authTestEnv{
		db:          db,
		handler:     handler,
		authService: authService,
		tokens:      tokens,
		router:      r,
	}
}

func (env authTestEnv) postJSON(t *testing.T, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func (env authTestEnv) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Register(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := env.postJSON(t, "/user/register", map[string]string{
		"username": "alice",
		"email":    "a@x.com",
		"password": "pw123",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.MessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "User 'alice' successfully registered", response.Message)
	assert.NotContains(t, w.Body.String(), "pw123")

	var stored models.User
	require.NoError(t, env.db.Where("username = ?", "alice").First(&stored).Error)
	assert.NotEqual(t, "pw123", stored.PasswordHash)
}

func TestAuthHandler_Register_Form(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := env.postForm("/user/register", url.Values{
		"username": {"alice"},
		"email":    {"a@x.com"},
		"password": {"pw123"},
	})

	require.Equal(t, http.StatusOK, w.Code)
}

func TestAuthHandler_Register_Conflict(t *testing.T) {
	env := setupAuthTestEnv(t)
	payload := map[string]string{"username": "alice", "email": "a@x.com", "password": "pw123"}

	require.Equal(t, http.StatusOK, env.postJSON(t, "/user/register", payload).Code)

	w := env.postJSON(t, "/user/register", payload)
	require.Equal(t, http.StatusConflict, w.Code)

	var apiErr apierrors.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	assert.Equal(t, apierrors.ErrCodeConflict, apiErr.Code)

	w = env.postJSON(t, "/user/register", map[string]string{"username": "other", "email": "a@x.com", "password": "x"})
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_Register_InvalidInput(t *testing.T) {
	env := setupAuthTestEnv(t)

	tests := []map[string]string{
		{"username": "alice", "password": "pw123"},
		{"username": "alice", "email": "not-an-email", "password": "pw123"},
		{"email": "a@x.com", "password": "pw123"},
		{"username": "alice", "email": "a@x.com"},
	}
	for _, payload := range tests {
		w := env.postJSON(t, "/user/register", payload)
		assert.Equal(t, http.StatusBadRequest, w.Code, "payload %v", payload)
	}
}

func TestAuthHandler_Register_ValidationDetails(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := env.postJSON(t, "/user/register", map[string]string{"username": "alice", "email": "not-an-email"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var apiErr struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	assert.Equal(t, apierrors.ErrCodeInvalidInput, apiErr.Code)
	assert.Equal(t, map[string]string{"email": "email", "password": "required"}, apiErr.Details)

	w = env.postJSON(t, "/user/register", "not an object")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotContains(t, w.Body.String(), "details")
}

func TestAuthHandler_Token(t *testing.T) {
	env := setupAuthTestEnv(t)

	user, err := env.authService.Register(context.Background(), services.RegisterInput{
		Username: "alice", Email: "a@x.com", Password: "pw123",
	})
	require.NoError(t, err)

	w := env.postForm("/token", url.Values{
		"grant_type": {"password"},
		"username":   {"alice"},
		"password":   {"pw123"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, constants.TokenTypeBearer, response.TokenType)

	claims, err := env.tokens.Validate(response.AccessToken, auth.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, user.ID, mustParseSubject(t, claims.Subject))

	_, err = env.tokens.Validate(response.RefreshToken, auth.TokenTypeRefresh)
	require.NoError(t, err)
}

func TestAuthHandler_Token_InvalidCredentials(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Register(context.Background(), services.RegisterInput{
		Username: "alice", Email: "a@x.com", Password: "pw123",
	})
	require.NoError(t, err)

	for _, form := range []url.Values{
		{"username": {"alice"}, "password": {"wrong"}},
		{"username": {"nobody"}, "password": {"pw123"}},
	} {
		w := env.postForm("/token", form)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
	}

	w := env.postForm("/token", url.Values{"username": {"alice"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.postForm("/token", url.Values{"grant_type": {"client_credentials"}, "username": {"alice"}, "password": {"pw123"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Register(context.Background(), services.RegisterInput{
		Username: "alice", Email: "a@x.com", Password: "pw123",
	})
	require.NoError(t, err)
	_, pair, err := env.authService.Login(context.Background(), services.LoginInput{Username: "alice", Password: "pw123"})
	require.NoError(t, err)

	w := env.postJSON(t, "/token/refresh", map[string]string{"refresh_token": pair.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	_, err = env.tokens.Validate(response.AccessToken, auth.TokenTypeAccess)
	require.NoError(t, err)

	w = env.postJSON(t, "/token/refresh", map[string]string{"refresh_token": pair.AccessToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code, "an access token must not refresh")

	w = env.postJSON(t, "/token/refresh", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_GetCurrentUser(t *testing.T) {
	env := setupAuthTestEnv(t)

	user, err := env.authService.Register(context.Background(), services.RegisterInput{
		Username: "current-user", Email: "me@x.com", Password: "supersecret",
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(constants.ContextKeyUser, user)

	env.handler.GetCurrentUser(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, user.Username, response.Username)
	assert.Equal(t, "me@x.com", response.Email)
	assert.NotContains(t, w.Body.String(), "supersecret")
}

func mustParseSubject(t *testing.T, subject string) uint64 {
	t.Helper()
	id, err := strconv.ParseUint(subject, 10, 64)
	require.NoError(t, err)
	return id
}

package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tteokbok/tteokbok-backend/internal/app/repository"
	"github.com/tteokbok/tteokbok-backend/internal/app/service"
	"github.com/tteokbok/tteokbok-backend/internal/db"
	"github.com/tteokbok/tteokbok-backend/internal/middleware"
)

func setupUserControllerTest(t *testing.T) (*gin.Engine, service.AuthService) {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	authService := service.NewAuthService(userRepo, nil, "test-secret", 15*time.Minute, false)

	ctrl := NewUserController(authService)
	authMiddleware := middleware.NewAuthMiddleware("test-secret", userRepo, false)

	router := gin.New()
	router.POST("/users/signup", ctrl.Signup)
	router.POST("/users/signin", ctrl.Signin)
	router.GET("/users/me", authMiddleware.Authenticate(), ctrl.Me)

	return router, authService
}

func postJSON(t *testing.T, router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestUserController_Signup_Success(t *testing.T) {
	router, _ := setupUserControllerTest(t)

	w := postJSON(t, router, "/users/signup", SignupRequest{
		Username: "김떡볶",
		Email:    "signup@tteokbok.com",
		Password: "password123",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "SUCCESS", response["status"])

	data := response["data"].(map[string]interface{})
	user := data["user"].(map[string]interface{})
	assert.Equal(t, "signup@tteokbok.com", user["email"])
	assert.Equal(t, "김떡볶", user["username"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "password_hash")
}

func TestUserController_Signup_MissingFields(t *testing.T) {
	router, _ := setupUserControllerTest(t)

	w := postJSON(t, router, "/users/signup", SignupRequest{
		Username: "김떡볶",
		Email:    "signup@tteokbok.com",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "KEY_ERROR")
}

func TestUserController_Signup_ValidationError(t *testing.T) {
	router, _ := setupUserControllerTest(t)

	tests := []struct {
		name string
		req  SignupRequest
	}{
		{
			name: "Invalid email",
			req:  SignupRequest{Username: "김떡볶", Email: "not-an-email", Password: "password123"},
		},
		{
			name: "Short password",
			req:  SignupRequest{Username: "김떡볶", Email: "ok@tteokbok.com", Password: "12345"},
		},
		{
			name: "Short username",
			req:  SignupRequest{Username: "김", Email: "ok@tteokbok.com", Password: "password123"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, router, "/users/signup", tt.req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
		})
	}
}

func TestUserController_Signup_DuplicateEmail(t *testing.T) {
	router, authService := setupUserControllerTest(t)

	_, err := authService.Signup("김떡볶", "password123", "dup@tteokbok.com")
	require.NoError(t, err)

	w := postJSON(t, router, "/users/signup", SignupRequest{
		Username: "이순대",
		Email:    "dup@tteokbok.com",
		Password: "password456",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "DUPLICATED_ENTRY")
	assert.Contains(t, w.Body.String(), "Entry email is duplicated.")
}

func TestUserController_Signin_Success(t *testing.T) {
	router, authService := setupUserControllerTest(t)

	_, err := authService.Signup("김떡볶", "password123", "signin@tteokbok.com")
	require.NoError(t, err)

	w := postJSON(t, router, "/users/signin", SigninRequest{
		Email:    "signin@tteokbok.com",
		Password: "password123",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.NotEmpty(t, data["token"])
	assert.Equal(t, "김떡볶", data["username"])
}

func TestUserController_Signin_WrongPassword(t *testing.T) {
	router, authService := setupUserControllerTest(t)

	_, err := authService.Signup("김떡볶", "password123", "signin@tteokbok.com")
	require.NoError(t, err)

	w := postJSON(t, router, "/users/signin", SigninRequest{
		Email:    "signin@tteokbok.com",
		Password: "wrong-password",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "WRONG_PASSWORD")
	assert.Contains(t, w.Body.String(), "Wrong Password Entered.")
}

func TestUserController_Signin_UnknownEmail(t *testing.T) {
	router, _ := setupUserControllerTest(t)

	w := postJSON(t, router, "/users/signin", SigninRequest{
		Email:    "nobody@tteokbok.com",
		Password: "password123",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_USER")
}

func TestUserController_Me(t *testing.T) {
	router, authService := setupUserControllerTest(t)

	_, err := authService.Signup("김떡볶", "password123", "me@tteokbok.com")
	require.NoError(t, err)
	_, token, err := authService.Signin("me@tteokbok.com", "password123")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	user := response["data"].(map[string]interface{})["user"].(map[string]interface{})
	assert.Equal(t, "me@tteokbok.com", user["email"])
}

func TestUserController_Me_Unauthorized(t *testing.T) {
	router, _ := setupUserControllerTest(t)

	req := httptest.NewRequest("GET", "/users/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Login Required.")
}

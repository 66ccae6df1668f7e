package controller

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tteokbok/tteokbok-backend/internal/app/model"
	"github.com/tteokbok/tteokbok-backend/internal/app/repository"
	"github.com/tteokbok/tteokbok-backend/internal/app/service"
	"github.com/tteokbok/tteokbok-backend/internal/db"
	"github.com/tteokbok/tteokbok-backend/internal/middleware"
)

func setupLikeControllerTest(t *testing.T) (*gin.Engine, *model.User, *model.Project) {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	likeService := service.NewLikeService(repository.NewLikeRepository(testDB), testDB)

	ctrl := NewLikeController(likeService)
	authMiddleware := middleware.NewAuthMiddleware("test-secret", userRepo, false)

	router := gin.New()
	router.PATCH("/projects/:id", authMiddleware.Authenticate(), ctrl.Toggle)

	user := &model.User{Username: "이순대", Email: "viewer@tteokbok.com", PasswordHash: "hash"}
	require.NoError(t, testDB.Create(user).Error)

	category := &model.Category{Name: "tteokbok"}
	require.NoError(t, testDB.Create(category).Error)

	project := &model.Project{
		Title:      "떡볶이 밀키트",
		CreaterID:  user.ID,
		CategoryID: category.ID,
		TargetFund: 10000,
	}
	require.NoError(t, testDB.Create(project).Error)

	return router, user, project
}

func TestLikeController_Toggle(t *testing.T) {
	router, user, project := setupLikeControllerTest(t)

	auth := bearerToken(t, user.ID)
	path := fmt.Sprintf("/projects/%d", project.ID)

	req := httptest.NewRequest("PATCH", path, nil)
	req.Header.Set("Authorization", auth)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"is_liked":true`)

	// 같은 요청을 반복하면 좋아요가 해제된다
	req = httptest.NewRequest("PATCH", path, nil)
	req.Header.Set("Authorization", auth)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"is_liked":false`)
}

func TestLikeController_Toggle_ProjectNotFound(t *testing.T) {
	router, user, _ := setupLikeControllerTest(t)

	req := httptest.NewRequest("PATCH", "/projects/99999", nil)
	req.Header.Set("Authorization", bearerToken(t, user.ID))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "DOES_NOT_EXIST")
}

package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/crewbase/project-tracker-api/internal/middleware"
	"github.com/crewbase/project-tracker-api/internal/models"
	"github.com/crewbase/project-tracker-api/internal/repository"
	"github.com/crewbase/project-tracker-api/internal/services"
	"github.com/crewbase/project-tracker-api/internal/token"
)

// setupTestRouter wires the full HTTP surface against an in-memory
// database, mirroring the production route table.
func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Task{},
		&models.Comment{},
		&models.ActivityLog{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	tokenService := token.NewService("test-secret", time.Hour, 10*time.Minute)
	activityService := services.NewActivityService(activityRepo, projectRepo)
	authService := services.NewAuthService(userRepo, activityService)
	userService := services.NewUserService(userRepo, activityService)
	projectService := services.NewProjectService(projectRepo, userRepo, activityService)
	taskService := services.NewTaskService(taskRepo, projectRepo, userRepo, activityService)
	commentService := services.NewCommentService(commentRepo, taskService, activityService)

	authHandler := NewAuthHandler(authService, tokenService)
	userHandler := NewUserHandler(userService)
	projectHandler := NewProjectHandler(projectService)
	taskHandler := NewTaskHandler(taskService)
	commentHandler := NewCommentHandler(commentService)
	activityHandler := NewActivityHandler(activityService)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	requireAuth := middleware.RequireAuth(tokenService)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
		}

		users := api.Group("/users")
		users.Use(requireAuth)
		{
			users.GET("", middleware.RequireAdmin(), userHandler.ListUsers)
			users.GET("/:id", userHandler.GetUser)
			users.PATCH("/:id", userHandler.UpdateUser)
			users.PATCH("/:id/role", middleware.RequireAdmin(), userHandler.ChangeRole)
			users.PATCH("/:id/active", middleware.RequireAdmin(), userHandler.SetActive)
		}

		projects := api.Group("/projects")
		projects.Use(requireAuth)
		{
			projects.POST("", projectHandler.CreateProject)
			projects.GET("", projectHandler.ListProjects)
			projects.GET("/:id", projectHandler.GetProject)
			projects.PATCH("/:id", projectHandler.UpdateProject)
			projects.DELETE("/:id", projectHandler.DeleteProject)
			projects.GET("/:id/members", projectHandler.ListMembers)
			projects.POST("/:id/members", projectHandler.AddMember)
			projects.DELETE("/:id/members/:user_id", projectHandler.RemoveMember)
		}

		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.GET("/:id/comments", commentHandler.ListComments)
			tasks.POST("/:id/comments", commentHandler.CreateComment)
		}

		api.GET("/activity", requireAuth, activityHandler.ListActivity)
	}

	return r, db
}

// request performs one HTTP round trip against the test router. An empty
// authToken leaves the request anonymous.
func request(router *gin.Engine, method, path, authToken string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// registerVia registers a user through the HTTP API and returns their
// session token and id.
func registerVia(t *testing.T, router *gin.Engine, username string) (string, uint64) {
	t.Helper()

	w := request(router, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var response struct {
		User struct {
			ID uint64 `json:"id"`
		} `json:"user"`
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotEmpty(t, response.Token)
	return response.Token, response.User.ID
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func idPath(format string, ids ...uint64) string {
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return fmt.Sprintf(format, args...)
}

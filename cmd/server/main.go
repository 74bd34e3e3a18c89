package main

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/crewbase/project-tracker-api/internal/config"
	"github.com/crewbase/project-tracker-api/internal/constants"
	"github.com/crewbase/project-tracker-api/internal/database"
	"github.com/crewbase/project-tracker-api/internal/handlers"
	"github.com/crewbase/project-tracker-api/internal/middleware"
	"github.com/crewbase/project-tracker-api/internal/repository"
	"github.com/crewbase/project-tracker-api/internal/services"
	"github.com/crewbase/project-tracker-api/internal/token"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	if cfg.GinMode == "release" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		logrus.WithError(err).Fatal("failed to run migrations")
	}

	db := database.GetDB()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	// Services
	tokenService := token.NewService(cfg.JWTSecret, cfg.TokenTTL, cfg.RefreshWindow)
	activityService := services.NewActivityService(activityRepo, projectRepo)
	authService := services.NewAuthService(userRepo, activityService)
	userService := services.NewUserService(userRepo, activityService)
	projectService := services.NewProjectService(projectRepo, userRepo, activityService)
	taskService := services.NewTaskService(taskRepo, projectRepo, userRepo, activityService)
	commentService := services.NewCommentService(commentRepo, taskService, activityService)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, tokenService)
	userHandler := handlers.NewUserHandler(userService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)
	commentHandler := handlers.NewCommentHandler(commentService)
	activityHandler := handlers.NewActivityHandler(activityService)

	// Initialize Gin router
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.AllowedOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		ExposeHeaders:    []string{constants.RefreshTokenHeader},
		AllowCredentials: true,
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Project Tracker API is running",
		})
	})

	requireAuth := middleware.RequireAuth(tokenService)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
		}

		// User administration routes (protected)
		users := api.Group("/users")
		users.Use(requireAuth)
		{
			users.GET("", middleware.RequireAdmin(), userHandler.ListUsers)
			users.GET("/:id", userHandler.GetUser)
			users.PATCH("/:id", userHandler.UpdateUser)
			users.PATCH("/:id/role", middleware.RequireAdmin(), userHandler.ChangeRole)
			users.PATCH("/:id/active", middleware.RequireAdmin(), userHandler.SetActive)
		}

		// Project routes (protected)
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

		// Task routes (protected)
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

		// Audit display (protected)
		api.GET("/activity", requireAuth, activityHandler.ListActivity)
	}

	// Start server
	logrus.WithField("port", cfg.Port).Info("server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		logrus.WithError(err).Fatal("failed to start server")
	}
}

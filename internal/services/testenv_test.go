package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/crewbase/project-tracker-api/internal/authz"
	"github.com/crewbase/project-tracker-api/internal/models"
	"github.com/crewbase/project-tracker-api/internal/repository"
)

type serviceTestEnv struct {
	db       *gorm.DB
	auth     *AuthService
	users    *UserService
	projects *ProjectService
	tasks    *TaskService
	comments *CommentService
	activity *ActivityService
}

func setupServiceTestEnv(t *testing.T) serviceTestEnv {
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

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	activity := NewActivityService(activityRepo, projectRepo)
	tasks := NewTaskService(taskRepo, projectRepo, userRepo, activity)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return serviceTestEnv{
		db:       db,
		auth:     NewAuthService(userRepo, activity),
		users:    NewUserService(userRepo, activity),
		projects: NewProjectService(projectRepo, userRepo, activity),
		tasks:    tasks,
		comments: NewCommentService(commentRepo, tasks, activity),
		activity: activity,
	}
}

// registerUser creates a user through the real registration path so role
// assignment follows the first-user rule.
func (env serviceTestEnv) registerUser(t *testing.T, username string) *models.User {
	t.Helper()

	user, err := env.auth.Register(RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)
	return user
}

func principalFor(user *models.User) authz.Principal {
	return authz.Principal{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}
}

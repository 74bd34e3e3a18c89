package repository

import (
	"github.com/crewbase/project-tracker-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// List lists all users
	List() ([]models.User, error)

	// Update updates a user
	Update(user *models.User) error

	// Count returns the total number of users
	Count() (int64, error)

	// CountActiveAdmins counts active users with the global admin role,
	// excluding the given user ID
	CountActiveAdmins(excludeID uint64) (int64, error)
}

// ProjectRepository defines the interface for project and membership data access
type ProjectRepository interface {
	// CreateWithOwner creates a project and its owner membership atomically
	CreateWithOwner(project *models.Project) error

	// FindByID finds a project by ID
	FindByID(id uint64) (*models.Project, error)

	// Update updates a project
	Update(project *models.Project) error

	// Delete deletes a project and cascades to its tasks, those tasks'
	// comments, and its memberships
	Delete(id uint64) error

	// AddMember adds a member to a project
	AddMember(member *models.ProjectMember) error

	// RemoveMember removes a member from a project
	RemoveMember(projectID, userID uint64) error

	// FindMember finds a specific project membership
	FindMember(projectID, userID uint64) (*models.ProjectMember, error)

	// ListMembers lists all members of a project
	ListMembers(projectID uint64) ([]models.ProjectMember, error)

	// ListForUser lists projects the user owns or is a member of
	ListForUser(userID uint64) ([]models.Project, error)

	// ListAll lists every project (global admin audit view)
	ListAll() ([]models.Project, error)

	// AccessibleProjectIDs returns the IDs of projects the user owns or
	// is a member of
	AccessibleProjectIDs(userID uint64) ([]uint64, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	ProjectIDs []uint64
	Status     *models.TaskStatus
	Priority   *models.TaskPriority
	AssigneeID *uint64
	DueToday   bool
	Search     string
	Page       int
	PageSize   int
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination, ordered by
	// priority rank, then due date with nulls last, then creation time
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete soft deletes a task and its comments
	Delete(id uint64) error
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	// Create creates a new comment
	Create(comment *models.Comment) error

	// ListByTask lists comments on a task, oldest first
	ListByTask(taskID uint64) ([]models.Comment, error)
}

// ActivityFilter holds filtering options for listing activity entries
type ActivityFilter struct {
	ProjectID *uint64
	ActorID   *uint64
	Page      int
	PageSize  int
}

// ActivityRepository defines the interface for the append-only activity log
type ActivityRepository interface {
	// Create appends an activity entry
	Create(entry *models.ActivityLog) error

	// List retrieves activity entries, newest first
	List(filter ActivityFilter) ([]models.ActivityLog, int64, error)
}

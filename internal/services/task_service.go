package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/crewbase/project-tracker-api/internal/authz"
	"github.com/crewbase/project-tracker-api/internal/constants"
	"github.com/crewbase/project-tracker-api/internal/models"
	"github.com/crewbase/project-tracker-api/internal/repository"
)

var (
	// ErrTaskNotFound covers both an absent task and one whose project the
	// principal may not see.
	ErrTaskNotFound        = errors.New("task not found")
	ErrTaskDeleteForbidden = errors.New("not permitted to delete this task")
	ErrTaskTitleRequired   = errors.New("title is required")
	ErrInvalidTaskStatus   = errors.New("invalid task status")
	ErrInvalidTaskPriority = errors.New("invalid task priority")
	ErrInvalidAssignee     = errors.New("assignee must be the project owner or a project member")
)

// TaskService handles task business logic.
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	activity    *ActivityService
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, userRepo repository.UserRepository, activity *ActivityService) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		activity:    activity,
	}
}

// CreateTaskInput represents input for creating a task.
type CreateTaskInput struct {
	ProjectID   uint64
	Title       string
	Description string
	Status      models.TaskStatus
	Priority    models.TaskPriority
	AssigneeID  *uint64
	DueDate     *time.Time
}

// CreateTask creates a task in a project the principal can access.
func (s *TaskService) CreateTask(principal authz.Principal, input CreateTaskInput) (*models.Task, error) {
	project, member, err := s.visibleProject(principal, input.ProjectID)
	if err != nil {
		return nil, err
	}

	if !authz.CanMutateTask(principal, project, member) {
		return nil, ErrTaskNotFound
	}

	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTaskTitleRequired
	}

	if input.Status == "" {
		input.Status = models.TaskStatusTodo
	}
	if !models.ValidTaskStatus(input.Status) {
		return nil, ErrInvalidTaskStatus
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}
	if !models.ValidTaskPriority(input.Priority) {
		return nil, ErrInvalidTaskPriority
	}

	if input.AssigneeID != nil {
		if err := s.validateAssignee(project, *input.AssigneeID); err != nil {
			return nil, err
		}
	}

	task := &models.Task{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		ProjectID:   input.ProjectID,
		CreatorID:   principal.UserID,
		AssigneeID:  input.AssigneeID,
		DueDate:     input.DueDate,
	}

	if task.Status == models.TaskStatusDone {
		now := time.Now()
		task.CompletedAt = &now
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.activity.Record(principal.UserID, constants.ActionTaskCreated, constants.EntityTask, task.ID, &task.ProjectID, task.Title)

	return s.taskRepo.FindByID(task.ID, "Creator", "Assignee")
}

// GetTask returns a task with related data if the principal can see its
// project; otherwise the task is reported as not found.
func (s *TaskService) GetTask(principal authz.Principal, taskID uint64) (*models.Task, error) {
	task, _, _, err := s.visibleTask(principal, taskID, "Creator", "Assignee", "Project")
	if err != nil {
		return nil, err
	}
	return task, nil
}

// ListTasksInput represents filters for listing tasks.
type ListTasksInput struct {
	ProjectID    *uint64
	Status       *models.TaskStatus
	Priority     *models.TaskPriority
	AssigneeID   *uint64
	AssignedToMe bool
	DueToday     bool
	Search       string
	Page         int
	PageSize     int
}

// ListTasks returns tasks in projects accessible to the principal.
func (s *TaskService) ListTasks(principal authz.Principal, input ListTasksInput) ([]models.Task, int64, error) {
	projectIDs, err := s.resolveAccessibleProjectIDs(principal, input.ProjectID)
	if err != nil {
		return nil, 0, err
	}

	if len(projectIDs) == 0 {
		return []models.Task{}, 0, nil
	}

	filter := repository.TaskFilter{
		ProjectIDs: projectIDs,
		Status:     input.Status,
		Priority:   input.Priority,
		AssigneeID: input.AssigneeID,
		DueToday:   input.DueToday,
		Search:     input.Search,
		Page:       input.Page,
		PageSize:   input.PageSize,
	}
	if input.AssignedToMe {
		filter.AssigneeID = &principal.UserID
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// UpdateTaskInput represents a partial task update. Only non-nil fields
// are changed; ClearDueDate and ClearAssignee null out their fields.
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	Status        *models.TaskStatus
	Priority      *models.TaskPriority
	AssigneeID    *uint64
	ClearAssignee bool
	DueDate       *time.Time
	ClearDueDate  bool
}

func (in UpdateTaskInput) empty() bool {
	return in.Title == nil && in.Description == nil && in.Status == nil &&
		in.Priority == nil && in.AssigneeID == nil && !in.ClearAssignee &&
		in.DueDate == nil && !in.ClearDueDate
}

// UpdateTask applies a partial update. A status transition into done sets
// the completion timestamp; a transition out of done clears it.
func (s *TaskService) UpdateTask(principal authz.Principal, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, project, member, err := s.visibleTask(principal, taskID)
	if err != nil {
		return nil, err
	}

	if !authz.CanMutateTask(principal, project, member) {
		return nil, ErrTaskNotFound
	}

	if input.empty() {
		return nil, ErrNoFieldsToUpdate
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTaskTitleRequired
		}
		task.Title = title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Priority != nil {
		if !models.ValidTaskPriority(*input.Priority) {
			return nil, ErrInvalidTaskPriority
		}
		task.Priority = *input.Priority
	}
	if input.ClearAssignee {
		task.AssigneeID = nil
	} else if input.AssigneeID != nil {
		if err := s.validateAssignee(project, *input.AssigneeID); err != nil {
			return nil, err
		}
		task.AssigneeID = input.AssigneeID
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.Status != nil {
		if !models.ValidTaskStatus(*input.Status) {
			return nil, ErrInvalidTaskStatus
		}
		previous := task.Status
		task.Status = *input.Status
		if task.Status == models.TaskStatusDone && previous != models.TaskStatusDone {
			now := time.Now()
			task.CompletedAt = &now
		} else if task.Status != models.TaskStatusDone {
			task.CompletedAt = nil
		}
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.activity.Record(principal.UserID, constants.ActionTaskUpdated, constants.EntityTask, task.ID, &task.ProjectID, task.Title)

	return s.taskRepo.FindByID(task.ID, "Creator", "Assignee")
}

// DeleteTask deletes a task. Deletion is narrower than mutation: the
// creator, the current assignee, the project owner, or a project
// owner/admin member. Comments cascade.
func (s *TaskService) DeleteTask(principal authz.Principal, taskID uint64) error {
	task, project, member, err := s.visibleTask(principal, taskID)
	if err != nil {
		return err
	}

	if !authz.CanDeleteTask(principal, task, project, member) {
		return ErrTaskDeleteForbidden
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.activity.Record(principal.UserID, constants.ActionTaskDeleted, constants.EntityTask, taskID, &task.ProjectID, task.Title)

	return nil
}

// visibleTask loads a task and its project, hiding both when the
// principal lacks project visibility.
func (s *TaskService) visibleTask(principal authz.Principal, taskID uint64, preload ...string) (*models.Task, *models.Project, *models.ProjectMember, error) {
	task, err := s.taskRepo.FindByID(taskID, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, ErrTaskNotFound
		}
		return nil, nil, nil, fmt.Errorf("failed to find task: %w", err)
	}

	project, member, err := s.visibleProjectWithTaskError(principal, task.ProjectID)
	if err != nil {
		return nil, nil, nil, err
	}

	return task, project, member, nil
}

func (s *TaskService) visibleProject(principal authz.Principal, projectID uint64) (*models.Project, *models.ProjectMember, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrProjectNotFound
		}
		return nil, nil, fmt.Errorf("failed to find project: %w", err)
	}

	member, err := s.projectRepo.FindMember(projectID, principal.UserID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("failed to check membership: %w", err)
		}
		member = nil
	}

	if !authz.CanViewProject(principal, project, member) {
		return nil, nil, ErrProjectNotFound
	}

	return project, member, nil
}

// visibleProjectWithTaskError mirrors visibleProject but reports the task,
// not the project, as missing; the caller was asked about a task.
func (s *TaskService) visibleProjectWithTaskError(principal authz.Principal, projectID uint64) (*models.Project, *models.ProjectMember, error) {
	project, member, err := s.visibleProject(principal, projectID)
	if err != nil {
		if errors.Is(err, ErrProjectNotFound) {
			return nil, nil, ErrTaskNotFound
		}
		return nil, nil, err
	}
	return project, member, nil
}

// validateAssignee checks once, at assignment time, that the assignee is
// the project owner or holds a membership row.
func (s *TaskService) validateAssignee(project *models.Project, assigneeID uint64) error {
	assignee, err := s.userRepo.FindByID(assigneeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidAssignee
		}
		return fmt.Errorf("failed to find assignee: %w", err)
	}

	assigneeMember, err := s.projectRepo.FindMember(project.ID, assigneeID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check assignee membership: %w", err)
		}
		assigneeMember = nil
	}

	if !authz.CanAssignTask(assignee, project, assigneeMember) {
		return ErrInvalidAssignee
	}
	return nil
}

// resolveAccessibleProjectIDs returns the project IDs the principal can list tasks from
func (s *TaskService) resolveAccessibleProjectIDs(principal authz.Principal, projectID *uint64) ([]uint64, error) {
	if projectID != nil {
		if _, _, err := s.visibleProject(principal, *projectID); err != nil {
			return nil, err
		}
		return []uint64{*projectID}, nil
	}

	if principal.IsAdmin() {
		projects, err := s.projectRepo.ListAll()
		if err != nil {
			return nil, fmt.Errorf("failed to list projects: %w", err)
		}
		ids := make([]uint64, 0, len(projects))
		for _, p := range projects {
			ids = append(ids, p.ID)
		}
		return ids, nil
	}

	ids, err := s.projectRepo.AccessibleProjectIDs(principal.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve accessible projects: %w", err)
	}
	return ids, nil
}

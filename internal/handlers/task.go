package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/crewbase/project-tracker-api/internal/dto"
	apierrors "github.com/crewbase/project-tracker-api/internal/errors"
	"github.com/crewbase/project-tracker-api/internal/middleware"
	"github.com/crewbase/project-tracker-api/internal/models"
	"github.com/crewbase/project-tracker-api/internal/services"
	"github.com/crewbase/project-tracker-api/internal/utils"
)

// TaskHandler coordinates task HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// CreateTask creates a new task in a project.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTaskRequest struct {
		ProjectID   uint64              `json:"project_id" binding:"required"`
		Title       string              `json:"title" binding:"required"`
		Description string              `json:"description"`
		Status      models.TaskStatus   `json:"status"`
		Priority    models.TaskPriority `json:"priority"`
		AssigneeID  *uint64             `json:"assignee_id"`
		DueDate     *time.Time          `json:"due_date"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(principal, services.CreateTaskInput{
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AssigneeID:  req.AssigneeID,
		DueDate:     req.DueDate,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// GetTask returns one task with related data.
func (h *TaskHandler) GetTask(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(principal, id)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// ListTasks lists tasks across the caller's accessible projects, with
// optional filters and free-text search.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	input := services.ListTasksInput{
		Search:       c.Query("search"),
		AssignedToMe: c.Query("assigned_to_me") == "true",
		DueToday:     c.Query("due_today") == "true",
		Page:         params.Page,
		PageSize:     params.Limit,
	}

	if raw := c.Query("project_id"); raw != "" {
		projectID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.ValidationFailedWithFields(c, "Invalid project_id", []string{"project_id"})
			return
		}
		input.ProjectID = &projectID
	}
	if raw := c.Query("status"); raw != "" {
		status := models.TaskStatus(raw)
		if !models.ValidTaskStatus(status) {
			apierrors.ValidationFailedWithFields(c, "Invalid status", []string{"status"})
			return
		}
		input.Status = &status
	}
	if raw := c.Query("priority"); raw != "" {
		priority := models.TaskPriority(raw)
		if !models.ValidTaskPriority(priority) {
			apierrors.ValidationFailedWithFields(c, "Invalid priority", []string{"priority"})
			return
		}
		input.Priority = &priority
	}
	if raw := c.Query("assignee_id"); raw != "" {
		assigneeID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.ValidationFailedWithFields(c, "Invalid assignee_id", []string{"assignee_id"})
			return
		}
		input.AssigneeID = &assigneeID
	}

	tasks, total, err := h.taskService.ListTasks(principal, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params.Page, params.Limit, total))
}

// UpdateTask applies a partial update to a task.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateTaskRequest struct {
		Title         *string              `json:"title"`
		Description   *string              `json:"description"`
		Status        *models.TaskStatus   `json:"status"`
		Priority      *models.TaskPriority `json:"priority"`
		AssigneeID    *uint64              `json:"assignee_id"`
		ClearAssignee bool                 `json:"clear_assignee"`
		DueDate       *time.Time           `json:"due_date"`
		ClearDueDate  bool                 `json:"clear_due_date"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateTask(principal, id, services.UpdateTaskInput{
		Title:         req.Title,
		Description:   req.Description,
		Status:        req.Status,
		Priority:      req.Priority,
		AssigneeID:    req.AssigneeID,
		ClearAssignee: req.ClearAssignee,
		DueDate:       req.DueDate,
		ClearDueDate:  req.ClearDueDate,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task and its comments.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(principal, id); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrTaskDeleteForbidden):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrTaskTitleRequired):
		apierrors.ValidationFailedWithFields(c, err.Error(), []string{"title"})
	case errors.Is(err, services.ErrInvalidTaskStatus):
		apierrors.ValidationFailedWithFields(c, err.Error(), []string{"status"})
	case errors.Is(err, services.ErrInvalidTaskPriority):
		apierrors.ValidationFailedWithFields(c, err.Error(), []string{"priority"})
	case errors.Is(err, services.ErrInvalidAssignee):
		apierrors.ValidationFailedWithFields(c, err.Error(), []string{"assignee_id"})
	case errors.Is(err, services.ErrNoFieldsToUpdate):
		apierrors.ValidationFailed(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}

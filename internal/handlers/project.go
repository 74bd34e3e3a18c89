package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/crewbase/project-tracker-api/internal/dto"
	apierrors "github.com/crewbase/project-tracker-api/internal/errors"
	"github.com/crewbase/project-tracker-api/internal/middleware"
	"github.com/crewbase/project-tracker-api/internal/models"
	"github.com/crewbase/project-tracker-api/internal/services"
)

// ProjectHandler coordinates project and membership HTTP handlers.
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// CreateProject creates a new project owned by the caller.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateProjectRequest struct {
		Name        string `json:"name" binding:"required,max=255"`
		Description string `json:"description"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, "Invalid request body")
		return
	}

	project, err := h.projectService.CreateProject(principal, services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// ListProjects lists the caller's visible projects.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	projects, err := h.projectService.ListProjects(principal)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	dtos := make([]dto.ProjectDTO, len(projects))
	for i, project := range projects {
		dtos[i] = dto.ToProjectDTO(project)
	}

	c.JSON(http.StatusOK, gin.H{"projects": dtos})
}

// GetProject returns one project with the caller's role.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	project, member, err := h.projectService.GetProject(principal, id)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDetailDTO(*project, member))
}

// UpdateProject applies a partial update to a project.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateProjectRequest struct {
		Name        *string               `json:"name"`
		Description *string               `json:"description"`
		Status      *models.ProjectStatus `json:"status"`
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, "Invalid request body")
		return
	}

	project, err := h.projectService.UpdateProject(principal, id, services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// DeleteProject deletes a project and cascades to its contents.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(principal, id); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
}

// ListMembers lists a project's members.
func (h *ProjectHandler) ListMembers(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	members, err := h.projectService.ListMembers(principal, id)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": dto.ToProjectMemberDTOs(members)})
}

// AddMember adds a user to a project.
func (h *ProjectHandler) AddMember(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type AddMemberRequest struct {
		UserID uint64             `json:"user_id" binding:"required"`
		Role   models.ProjectRole `json:"role"`
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, "Invalid request body")
		return
	}

	member, err := h.projectService.AddMember(principal, id, services.AddMemberInput{
		UserID: req.UserID,
		Role:   req.Role,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectMemberDTO(*member))
}

// RemoveMember removes a user from a project.
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	if err := h.projectService.RemoveMember(principal, id, userID); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member removed"})
}

func respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrMemberNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrProjectForbidden):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrProjectNameRequired):
		apierrors.ValidationFailedWithFields(c, err.Error(), []string{"name"})
	case errors.Is(err, services.ErrInvalidProjectStatus):
		apierrors.ValidationFailedWithFields(c, err.Error(), []string{"status"})
	case errors.Is(err, services.ErrInvalidProjectRole):
		apierrors.ValidationFailedWithFields(c, err.Error(), []string{"role"})
	case errors.Is(err, services.ErrNoFieldsToUpdate),
		errors.Is(err, services.ErrCannotRemoveOwner):
		apierrors.ValidationFailed(c, err.Error())
	case errors.Is(err, services.ErrAlreadyMember):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/crewbase/project-tracker-api/internal/dto"
	apierrors "github.com/crewbase/project-tracker-api/internal/errors"
	"github.com/crewbase/project-tracker-api/internal/middleware"
	"github.com/crewbase/project-tracker-api/internal/services"
	"github.com/crewbase/project-tracker-api/internal/utils"
)

// ActivityHandler serves the audit display endpoint.
type ActivityHandler struct {
	activityService *services.ActivityService
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(activityService *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
	}
}

// ListActivity returns audit entries, newest first.
func (h *ActivityHandler) ListActivity(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	input := services.ListActivityInput{
		Page:     params.Page,
		PageSize: params.Limit,
	}

	if raw := c.Query("project_id"); raw != "" {
		projectID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.ValidationFailedWithFields(c, "Invalid project_id", []string{"project_id"})
			return
		}
		input.ProjectID = &projectID
	}

	entries, total, err := h.activityService.List(principal, input)
	if err != nil {
		if errors.Is(err, services.ErrActivityNotVisible) {
			apierrors.NotFound(c, "Project not found")
			return
		}
		apierrors.InternalError(c, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"activity": dto.ToActivityDTOs(entries),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

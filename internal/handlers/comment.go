package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/crewbase/project-tracker-api/internal/dto"
	apierrors "github.com/crewbase/project-tracker-api/internal/errors"
	"github.com/crewbase/project-tracker-api/internal/middleware"
	"github.com/crewbase/project-tracker-api/internal/services"
)

// CommentHandler coordinates comment HTTP handlers.
type CommentHandler struct {
	commentService *services.CommentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// CreateComment appends a comment to a task.
func (h *CommentHandler) CreateComment(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type CreateCommentRequest struct {
		Content string `json:"content" binding:"required"`
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, "Invalid request body")
		return
	}

	comment, err := h.commentService.CreateComment(principal, taskID, req.Content)
	if err != nil {
		respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCommentDTO(*comment))
}

// ListComments lists a task's comments, oldest first.
func (h *CommentHandler) ListComments(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	comments, err := h.commentService.ListComments(principal, taskID)
	if err != nil {
		respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": dto.ToCommentDTOs(comments)})
}

func respondCommentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrCommentContentRequired):
		apierrors.ValidationFailedWithFields(c, err.Error(), []string{"content"})
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}

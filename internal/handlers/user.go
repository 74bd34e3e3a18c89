package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/crewbase/project-tracker-api/internal/dto"
	apierrors "github.com/crewbase/project-tracker-api/internal/errors"
	"github.com/crewbase/project-tracker-api/internal/middleware"
	"github.com/crewbase/project-tracker-api/internal/models"
	"github.com/crewbase/project-tracker-api/internal/services"
)

// UserHandler coordinates user administration HTTP handlers.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// ListUsers returns all users (admin only).
func (h *UserHandler) ListUsers(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	users, err := h.userService.ListUsers(principal)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": dto.ToUserDTOs(users)})
}

// GetUser returns one user by ID.
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.GetUser(id)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// UpdateUser applies a partial profile update (self or admin).
func (h *UserHandler) UpdateUser(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateUserRequest struct {
		Email    *string `json:"email"`
		Password *string `json:"password"`
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateProfile(principal, id, services.UpdateProfileInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// ChangeRole changes a user's global role (admin only).
func (h *UserHandler) ChangeRole(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type ChangeRoleRequest struct {
		Role models.GlobalRole `json:"role" binding:"required"`
	}

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, "Invalid request body")
		return
	}

	user, err := h.userService.ChangeRole(principal, id, req.Role)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// SetActive toggles a user's active flag (admin only).
func (h *UserHandler) SetActive(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type SetActiveRequest struct {
		Active *bool `json:"active" binding:"required"`
	}

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, "Invalid request body")
		return
	}

	user, err := h.userService.SetActive(principal, id, *req.Active)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

func respondUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserMgmtForbidden),
		errors.Is(err, services.ErrProfileForbidden):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrLastAdminProtected):
		apierrors.LastAdminProtected(c)
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrNoFieldsToUpdate):
		apierrors.ValidationFailed(c, err.Error())
	case errors.Is(err, services.ErrInvalidGlobalRole):
		apierrors.ValidationFailedWithFields(c, err.Error(), []string{"role"})
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.ValidationFailedWithFields(c, err.Error(), []string{"password"})
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}

// parseIDParam parses a numeric URL parameter, responding with a
// validation error on failure.
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.ValidationFailedWithFields(c, "Invalid "+name, []string{name})
		return 0, false
	}
	return value, true
}

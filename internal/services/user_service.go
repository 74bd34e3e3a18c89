package services

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/crewbase/project-tracker-api/internal/authz"
	"github.com/crewbase/project-tracker-api/internal/constants"
	"github.com/crewbase/project-tracker-api/internal/models"
	"github.com/crewbase/project-tracker-api/internal/repository"
)

var (
	ErrUserMgmtForbidden  = errors.New("only admins can manage users")
	ErrProfileForbidden   = errors.New("cannot edit another user's profile")
	ErrLastAdminProtected = errors.New("cannot remove the last active admin")
	ErrInvalidGlobalRole  = errors.New("invalid global role")
	ErrNoFieldsToUpdate   = errors.New("no fields to update")
)

// UserService handles user administration and profile edits.
type UserService struct {
	userRepo repository.UserRepository
	activity *ActivityService
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository, activity *ActivityService) *UserService {
	return &UserService{
		userRepo: userRepo,
		activity: activity,
	}
}

// ListUsers returns all users; restricted to global admins.
func (s *UserService) ListUsers(principal authz.Principal) ([]models.User, error) {
	if !authz.CanManageUsers(principal) {
		return nil, ErrUserMgmtForbidden
	}

	users, err := s.userRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// UpdateProfileInput represents a partial profile update. Only non-nil
// fields are changed.
type UpdateProfileInput struct {
	Email    *string
	Password *string
}

// UpdateProfile edits a user's profile. Users may edit themselves; global
// admins may edit anyone.
func (s *UserService) UpdateProfile(principal authz.Principal, targetID uint64, input UpdateProfileInput) (*models.User, error) {
	if !authz.CanEditUser(principal, targetID) {
		return nil, ErrProfileForbidden
	}

	user, err := s.GetUser(targetID)
	if err != nil {
		return nil, err
	}

	if input.Email == nil && input.Password == nil {
		return nil, ErrNoFieldsToUpdate
	}

	if input.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*input.Email))
		if email == "" {
			return nil, fmt.Errorf("email is required")
		}
		if email != user.Email {
			if existing, err := s.userRepo.FindByEmail(email); err == nil && existing.ID != user.ID {
				return nil, ErrEmailTaken
			} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("failed to check email: %w", err)
			}
			user.Email = email
		}
	}

	if input.Password != nil {
		if len(*input.Password) < constants.MinPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, ErrFailedToHashPassword
		}
		user.PasswordHash = string(hashed)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.activity.Record(principal.UserID, constants.ActionUserUpdated, constants.EntityUser, user.ID, nil, user.Username)

	return user, nil
}

// ChangeRole changes a user's global role; admin only. Demoting the sole
// active admin is refused.
func (s *UserService) ChangeRole(principal authz.Principal, targetID uint64, role models.GlobalRole) (*models.User, error) {
	if !authz.CanManageUsers(principal) {
		return nil, ErrUserMgmtForbidden
	}
	if !models.ValidGlobalRole(role) {
		return nil, ErrInvalidGlobalRole
	}

	user, err := s.GetUser(targetID)
	if err != nil {
		return nil, err
	}

	if user.Role == role {
		return user, nil
	}

	// Only demotions out of admin can break the last-admin invariant
	if user.Role == models.GlobalRoleAdmin && role != models.GlobalRoleAdmin {
		otherAdmins, err := s.userRepo.CountActiveAdmins(user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count admins: %w", err)
		}
		if !authz.CanDropAdmin(user, otherAdmins) {
			return nil, ErrLastAdminProtected
		}
	}

	user.Role = role
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.activity.Record(principal.UserID, constants.ActionUserRoleChanged, constants.EntityUser, user.ID, nil, string(role))

	return user, nil
}

// SetActive toggles a user's active flag; admin only. Deactivating the
// sole active admin is refused. Deactivation is the soft-delete path:
// users are never hard-deleted.
func (s *UserService) SetActive(principal authz.Principal, targetID uint64, active bool) (*models.User, error) {
	if !authz.CanManageUsers(principal) {
		return nil, ErrUserMgmtForbidden
	}

	user, err := s.GetUser(targetID)
	if err != nil {
		return nil, err
	}

	if user.Active == active {
		return user, nil
	}

	if !active {
		otherAdmins, err := s.userRepo.CountActiveAdmins(user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count admins: %w", err)
		}
		if !authz.CanDropAdmin(user, otherAdmins) {
			return nil, ErrLastAdminProtected
		}
	}

	user.Active = active
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.activity.Record(principal.UserID, constants.ActionUserActivation, constants.EntityUser, user.ID, nil, fmt.Sprintf("active=%t", active))

	return user, nil
}

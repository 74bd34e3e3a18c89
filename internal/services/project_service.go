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
	// ErrProjectNotFound covers both a genuinely absent project and one the
	// principal may not see. The two are deliberately indistinguishable.
	ErrProjectNotFound      = errors.New("project not found")
	ErrProjectForbidden     = errors.New("operation not permitted on this project")
	ErrProjectNameRequired  = errors.New("project name is required")
	ErrInvalidProjectStatus = errors.New("invalid project status")
	ErrInvalidProjectRole   = errors.New("invalid project role")
	ErrAlreadyMember        = errors.New("user is already a member of this project")
	ErrMemberNotFound       = errors.New("membership not found")
	ErrCannotRemoveOwner    = errors.New("the project owner cannot be removed")
)

// ProjectService handles project and membership business logic.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	activity    *ActivityService
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository, activity *ActivityService) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		activity:    activity,
	}
}

// CreateProjectInput represents input for creating a project.
type CreateProjectInput struct {
	Name        string
	Description string
}

// CreateProject creates a project owned by the principal. The owner
// membership row is created in the same transaction.
func (s *ProjectService) CreateProject(principal authz.Principal, input CreateProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrProjectNameRequired
	}

	project := &models.Project{
		Name:        name,
		Description: input.Description,
		Status:      models.ProjectStatusActive,
		OwnerID:     principal.UserID,
	}

	if err := s.projectRepo.CreateWithOwner(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.activity.Record(principal.UserID, constants.ActionProjectCreated, constants.EntityProject, project.ID, &project.ID, project.Name)

	return project, nil
}

// ListProjects returns the projects the principal can see. Global admins
// see every project.
func (s *ProjectService) ListProjects(principal authz.Principal) ([]models.Project, error) {
	var (
		projects []models.Project
		err      error
	)
	if principal.IsAdmin() {
		projects, err = s.projectRepo.ListAll()
	} else {
		projects, err = s.projectRepo.ListForUser(principal.UserID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// GetProject returns a project if the principal may see it; otherwise the
// project is reported as not found.
func (s *ProjectService) GetProject(principal authz.Principal, projectID uint64) (*models.Project, *models.ProjectMember, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrProjectNotFound
		}
		return nil, nil, fmt.Errorf("failed to find project: %w", err)
	}

	member, err := s.findMember(projectID, principal.UserID)
	if err != nil {
		return nil, nil, err
	}

	if !authz.CanViewProject(principal, project, member) {
		return nil, nil, ErrProjectNotFound
	}

	return project, member, nil
}

// UpdateProjectInput represents a partial project update. Only non-nil
// fields are changed.
type UpdateProjectInput struct {
	Name        *string
	Description *string
	Status      *models.ProjectStatus
}

// UpdateProject applies a partial update to a project.
func (s *ProjectService) UpdateProject(principal authz.Principal, projectID uint64, input UpdateProjectInput) (*models.Project, error) {
	project, member, err := s.GetProject(principal, projectID)
	if err != nil {
		return nil, err
	}

	if !authz.CanEditProject(principal, project, member) {
		return nil, ErrProjectForbidden
	}

	if input.Name == nil && input.Description == nil && input.Status == nil {
		return nil, ErrNoFieldsToUpdate
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrProjectNameRequired
		}
		project.Name = name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.Status != nil {
		if !models.ValidProjectStatus(*input.Status) {
			return nil, ErrInvalidProjectStatus
		}
		project.Status = *input.Status
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	s.activity.Record(principal.UserID, constants.ActionProjectUpdated, constants.EntityProject, project.ID, &project.ID, project.Name)

	return project, nil
}

// DeleteProject deletes a project; only the true owner or a global admin
// may do this. Tasks, their comments, and memberships cascade.
func (s *ProjectService) DeleteProject(principal authz.Principal, projectID uint64) error {
	project, _, err := s.GetProject(principal, projectID)
	if err != nil {
		return err
	}

	if !authz.CanDeleteProject(principal, project) {
		return ErrProjectForbidden
	}

	if err := s.projectRepo.Delete(projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	s.activity.Record(principal.UserID, constants.ActionProjectDeleted, constants.EntityProject, projectID, nil, project.Name)

	return nil
}

// AddMemberInput represents input for adding a project member.
type AddMemberInput struct {
	UserID uint64
	Role   models.ProjectRole
}

// AddMember adds a user to a project with a project-scoped role.
func (s *ProjectService) AddMember(principal authz.Principal, projectID uint64, input AddMemberInput) (*models.ProjectMember, error) {
	project, member, err := s.GetProject(principal, projectID)
	if err != nil {
		return nil, err
	}

	if !authz.CanEditProject(principal, project, member) {
		return nil, ErrProjectForbidden
	}

	if input.Role == "" {
		input.Role = models.ProjectRoleMember
	}
	if !models.ValidProjectRole(input.Role) || input.Role == models.ProjectRoleOwner {
		// The owner role belongs to the project creator alone
		return nil, ErrInvalidProjectRole
	}

	if _, err := s.userRepo.FindByID(input.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if _, err := s.projectRepo.FindMember(projectID, input.UserID); err == nil {
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}

	newMember := &models.ProjectMember{
		ProjectID: projectID,
		UserID:    input.UserID,
		Role:      input.Role,
		JoinedAt:  time.Now(),
	}

	if err := s.projectRepo.AddMember(newMember); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	s.activity.Record(principal.UserID, constants.ActionMemberAdded, constants.EntityProject, projectID, &projectID, fmt.Sprintf("user %d as %s", input.UserID, input.Role))

	return newMember, nil
}

// RemoveMember removes a user from a project. Members may always remove
// themselves; removing others requires project edit rights. The owner's
// membership can never be removed.
func (s *ProjectService) RemoveMember(principal authz.Principal, projectID, targetUserID uint64) error {
	project, member, err := s.GetProject(principal, projectID)
	if err != nil {
		return err
	}

	if !authz.CanRemoveMember(principal, project, member, targetUserID) {
		return ErrProjectForbidden
	}

	if targetUserID == project.OwnerID {
		return ErrCannotRemoveOwner
	}

	if _, err := s.projectRepo.FindMember(projectID, targetUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("failed to check membership: %w", err)
	}

	if err := s.projectRepo.RemoveMember(projectID, targetUserID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	s.activity.Record(principal.UserID, constants.ActionMemberRemoved, constants.EntityProject, projectID, &projectID, fmt.Sprintf("user %d", targetUserID))

	return nil
}

// ListMembers lists a project's members for principals with visibility.
func (s *ProjectService) ListMembers(principal authz.Principal, projectID uint64) ([]models.ProjectMember, error) {
	if _, _, err := s.GetProject(principal, projectID); err != nil {
		return nil, err
	}

	members, err := s.projectRepo.ListMembers(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

func (s *ProjectService) findMember(projectID, userID uint64) (*models.ProjectMember, error) {
	member, err := s.projectRepo.FindMember(projectID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	return member, nil
}

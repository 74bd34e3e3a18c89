package services

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/crewbase/project-tracker-api/internal/authz"
	"github.com/crewbase/project-tracker-api/internal/models"
	"github.com/crewbase/project-tracker-api/internal/repository"
)

var ErrActivityNotVisible = errors.New("activity log not visible")

// ActivityService appends to and reads the audit trail.
type ActivityService struct {
	activityRepo repository.ActivityRepository
	projectRepo  repository.ProjectRepository
}

// NewActivityService creates a new ActivityService
func NewActivityService(activityRepo repository.ActivityRepository, projectRepo repository.ProjectRepository) *ActivityService {
	return &ActivityService{
		activityRepo: activityRepo,
		projectRepo:  projectRepo,
	}
}

// Record appends one activity entry. Logging is best-effort: a failure
// here is reported at warn level and never fails the mutation it describes.
func (s *ActivityService) Record(actorID uint64, action, entityType string, entityID uint64, projectID *uint64, detail string) {
	entry := &models.ActivityLog{
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		ProjectID:  projectID,
		Detail:     detail,
	}

	if err := s.activityRepo.Create(entry); err != nil {
		logrus.WithFields(logrus.Fields{
			"action":      action,
			"entity_type": entityType,
			"entity_id":   entityID,
		}).WithError(err).Warn("failed to record activity")
	}
}

// ListActivityInput represents filters for the audit display.
type ListActivityInput struct {
	ProjectID *uint64
	Page      int
	PageSize  int
}

// List returns activity entries for audit display. Global admins see
// everything; other principals must scope the query to a project they
// can view.
func (s *ActivityService) List(principal authz.Principal, input ListActivityInput) ([]models.ActivityLog, int64, error) {
	filter := repository.ActivityFilter{
		ProjectID: input.ProjectID,
		Page:      input.Page,
		PageSize:  input.PageSize,
	}

	if !principal.IsAdmin() {
		if input.ProjectID == nil {
			// Non-admins only see activity for projects they can view,
			// scoped to their own actions elsewhere
			filter.ActorID = &principal.UserID
		} else {
			project, err := s.projectRepo.FindByID(*input.ProjectID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, 0, ErrActivityNotVisible
				}
				return nil, 0, fmt.Errorf("failed to find project: %w", err)
			}

			member, err := s.projectRepo.FindMember(project.ID, principal.UserID)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, 0, fmt.Errorf("failed to check membership: %w", err)
			}

			if !authz.CanViewProject(principal, project, member) {
				return nil, 0, ErrActivityNotVisible
			}
		}
	}

	entries, total, err := s.activityRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list activity: %w", err)
	}
	return entries, total, nil
}

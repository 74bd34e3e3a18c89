package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/crewbase/project-tracker-api/internal/models"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// CreateWithOwner creates a project and the owner's membership atomically.
// The owner is implicitly a member with the project role "owner".
func (r *GormProjectRepository) CreateWithOwner(project *models.Project) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}

		member := &models.ProjectMember{
			ProjectID: project.ID,
			UserID:    project.OwnerID,
			Role:      models.ProjectRoleOwner,
			JoinedAt:  time.Now(),
		}
		return tx.Create(member).Error
	})
}

// FindByID finds a project by ID
func (r *GormProjectRepository) FindByID(id uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// Update updates a project
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// Delete deletes a project and all related data in a transaction
func (r *GormProjectRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Comments hang off tasks, so collect task IDs first
		var taskIDs []uint64
		if err := tx.Model(&models.Task{}).
			Where("project_id = ?", id).
			Pluck("id", &taskIDs).Error; err != nil {
			return err
		}

		if len(taskIDs) > 0 {
			if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Project{}, id).Error
	})
}

// AddMember adds a member to a project
func (r *GormProjectRepository) AddMember(member *models.ProjectMember) error {
	return r.db.Create(member).Error
}

// RemoveMember removes a member from a project
func (r *GormProjectRepository) RemoveMember(projectID, userID uint64) error {
	return r.db.Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&models.ProjectMember{}).Error
}

// FindMember finds a specific project membership
func (r *GormProjectRepository) FindMember(projectID, userID uint64) (*models.ProjectMember, error) {
	var member models.ProjectMember
	if err := r.db.Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembers lists all members of a project
func (r *GormProjectRepository) ListMembers(projectID uint64) ([]models.ProjectMember, error) {
	var members []models.ProjectMember
	if err := r.db.Preload("User").
		Where("project_id = ?", projectID).
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// ListForUser lists projects the user owns or is a member of
func (r *GormProjectRepository) ListForUser(userID uint64) ([]models.Project, error) {
	var projects []models.Project
	memberSubQuery := r.db.Model(&models.ProjectMember{}).
		Select("project_id").
		Where("user_id = ?", userID)

	if err := r.db.Preload("Owner").
		Where("owner_id = ? OR id IN (?)", userID, memberSubQuery).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// ListAll lists every project
func (r *GormProjectRepository) ListAll() ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.Preload("Owner").
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// AccessibleProjectIDs returns the IDs of projects the user owns or is a member of
func (r *GormProjectRepository) AccessibleProjectIDs(userID uint64) ([]uint64, error) {
	var owned []uint64
	if err := r.db.Model(&models.Project{}).
		Where("owner_id = ?", userID).
		Pluck("id", &owned).Error; err != nil {
		return nil, err
	}

	var memberOf []uint64
	if err := r.db.Model(&models.ProjectMember{}).
		Where("user_id = ?", userID).
		Pluck("project_id", &memberOf).Error; err != nil {
		return nil, err
	}

	seen := make(map[uint64]struct{}, len(owned)+len(memberOf))
	ids := make([]uint64, 0, len(owned)+len(memberOf))
	for _, id := range append(owned, memberOf...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

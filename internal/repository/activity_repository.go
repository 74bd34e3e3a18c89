package repository

import (
	"gorm.io/gorm"

	"github.com/crewbase/project-tracker-api/internal/database"
	"github.com/crewbase/project-tracker-api/internal/models"
)

// GormActivityRepository is a GORM implementation of ActivityRepository
type GormActivityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &GormActivityRepository{db: db}
}

// Create appends an activity entry
func (r *GormActivityRepository) Create(entry *models.ActivityLog) error {
	return r.db.Create(entry).Error
}

// List retrieves activity entries, newest first
func (r *GormActivityRepository) List(filter ActivityFilter) ([]models.ActivityLog, int64, error) {
	var entries []models.ActivityLog

	query := r.db.Model(&models.ActivityLog{})
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.ActorID != nil {
		query = query.Where("actor_id = ?", *filter.ActorID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("created_at DESC").
		Scopes(database.Paginate(filter.Page, filter.PageSize))

	if err := listQuery.Preload("Actor").Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

package models

import "time"

// ActivityLog is an append-only audit trail. The core never reads it back;
// entries exist for later audit display only.
type ActivityLog struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	ActorID    uint64    `gorm:"not null;index" json:"actor_id"`
	Action     string    `gorm:"type:varchar(50);not null" json:"action"`
	EntityType string    `gorm:"type:varchar(50);not null" json:"entity_type"`
	EntityID   uint64    `gorm:"not null" json:"entity_id"`
	ProjectID  *uint64   `gorm:"index" json:"project_id"`
	Detail     string    `gorm:"type:text" json:"detail"`
	CreatedAt  time.Time `json:"created_at"`

	// Relations
	Actor User `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
}

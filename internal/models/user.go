package models

import (
	"time"
)

type GlobalRole string

const (
	GlobalRoleAdmin   GlobalRole = "admin"
	GlobalRoleManager GlobalRole = "manager"
	GlobalRoleMember  GlobalRole = "member"
)

// ValidGlobalRole reports whether the given role is one of the known global roles.
func ValidGlobalRole(role GlobalRole) bool {
	switch role {
	case GlobalRoleAdmin, GlobalRoleManager, GlobalRoleMember:
		return true
	}
	return false
}

type User struct {
	ID           uint64     `gorm:"primarykey" json:"id"`
	Username     string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"type:varchar(255);not null" json:"-"`
	Role         GlobalRole `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	Active       bool       `gorm:"not null;default:true" json:"active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Relations
	OwnedProjects []Project       `gorm:"foreignKey:OwnerID" json:"-"`
	Memberships   []ProjectMember `gorm:"foreignKey:UserID" json:"-"`
	CreatedTasks  []Task          `gorm:"foreignKey:CreatorID" json:"-"`
}

// IsAdmin reports whether the user holds the global admin role.
func (u *User) IsAdmin() bool {
	return u.Role == GlobalRoleAdmin
}

package dto

import (
	"time"

	"github.com/crewbase/project-tracker-api/internal/models"
)

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID          uint64               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Status      models.ProjectStatus `json:"status"`
	OwnerID     uint64               `json:"owner_id"`
	Owner       *UserDTO             `json:"owner,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// ProjectMemberDTO represents a member in a project
type ProjectMemberDTO struct {
	ProjectID uint64             `json:"project_id"`
	UserID    uint64             `json:"user_id"`
	Role      models.ProjectRole `json:"role"`
	JoinedAt  time.Time          `json:"joined_at"`
	User      *UserDTO           `json:"user,omitempty"`
}

// ProjectDetailDTO represents a project together with the caller's role
type ProjectDetailDTO struct {
	ProjectDTO
	YourRole models.ProjectRole `json:"your_role,omitempty"`
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	dto := ProjectDTO{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		Status:      project.Status,
		OwnerID:     project.OwnerID,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}

	if project.Owner.ID != 0 {
		owner := ToUserDTO(project.Owner)
		dto.Owner = &owner
	}

	return dto
}

// ToProjectDetailDTO converts a project plus the caller's membership
func ToProjectDetailDTO(project models.Project, member *models.ProjectMember) ProjectDetailDTO {
	detail := ProjectDetailDTO{ProjectDTO: ToProjectDTO(project)}
	if member != nil {
		detail.YourRole = member.Role
	}
	return detail
}

// ToProjectMemberDTO converts a membership to DTO
func ToProjectMemberDTO(member models.ProjectMember) ProjectMemberDTO {
	dto := ProjectMemberDTO{
		ProjectID: member.ProjectID,
		UserID:    member.UserID,
		Role:      member.Role,
		JoinedAt:  member.JoinedAt,
	}
	if member.User.ID != 0 {
		user := ToUserDTO(member.User)
		dto.User = &user
	}
	return dto
}

// ToProjectMemberDTOs converts a slice of memberships
func ToProjectMemberDTOs(members []models.ProjectMember) []ProjectMemberDTO {
	dtos := make([]ProjectMemberDTO, len(members))
	for i, member := range members {
		dtos[i] = ToProjectMemberDTO(member)
	}
	return dtos
}

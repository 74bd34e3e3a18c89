package dto

import (
	"github.com/crewbase/project-tracker-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64            `json:"id"`
	Username string            `json:"username"`
	Email    string            `json:"email"`
	Role     models.GlobalRole `json:"role"`
	Active   bool              `json:"active"`
}

// AuthResponse carries the user and their session token after login
type AuthResponse struct {
	User  UserDTO `json:"user"`
	Token string  `json:"token"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
		Active:   user.Active,
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i, user := range users {
		dtos[i] = ToUserDTO(user)
	}
	return dtos
}

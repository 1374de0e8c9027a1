package dto

import "github.com/teamtrackr/project-tracker/internal/models"

// UserDTO represents a user in API responses
type UserDTO struct {
	ID           uint   `json:"id"`
	Email        string `json:"email"`
	Organization string `json:"organization"`
}

// ToUserDTO converts a user to DTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:           user.ID,
		Email:        user.Email,
		Organization: user.Organization,
	}
}

package dto

import "github.com/teamtrackr/project-tracker/internal/models"

// DepartmentDTO represents a department in API responses
type DepartmentDTO struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// ToDepartmentDTO converts a department to DTO
func ToDepartmentDTO(dept models.Department) DepartmentDTO {
	return DepartmentDTO{
		ID:   dept.ID,
		Name: dept.Name,
	}
}

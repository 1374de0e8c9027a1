package dto

import (
	"github.com/teamtrackr/project-tracker/internal/models"
	"github.com/teamtrackr/project-tracker/internal/utils"
)

// StudentDTO represents a student in API responses
type StudentDTO struct {
	ID               uint           `json:"id"`
	Name             string         `json:"name"`
	Role             string         `json:"role"`
	ResumeURL        string         `json:"resume_url"`
	RegisteredNumber string         `json:"registered_number"`
	DepartmentID     *uint          `json:"department_id"`
	TeamID           *uint          `json:"team_id"`
	Department       *DepartmentDTO `json:"department,omitempty"`
	TeamNumber       *int           `json:"team_number,omitempty"`
}

// ToStudentDTO converts a student to DTO
func ToStudentDTO(student models.Student) StudentDTO {
	d := StudentDTO{
		ID:               student.ID,
		Name:             student.Name,
		Role:             student.Role,
		ResumeURL:        student.ResumeURL,
		RegisteredNumber: student.RegisteredNumber,
		DepartmentID:     student.DepartmentID,
		TeamID:           student.TeamID,
	}
	if student.Department != nil {
		dept := ToDepartmentDTO(*student.Department)
		d.Department = &dept
	}
	if student.Team != nil {
		n := student.Team.TeamNumber
		d.TeamNumber = &n
	}
	return d
}

// StudentListResponse represents a paginated list of students
type StudentListResponse struct {
	Students   []StudentDTO   `json:"students"`
	Pagination utils.PageMeta `json:"pagination"`
}

// ToStudentDTOs converts a slice of students
func ToStudentDTOs(students []models.Student) []StudentDTO {
	out := make([]StudentDTO, len(students))
	for i, s := range students {
		out[i] = ToStudentDTO(s)
	}
	return out
}

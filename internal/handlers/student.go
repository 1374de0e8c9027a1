package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/teamtrackr/project-tracker/internal/dto"
	apierrors "github.com/teamtrackr/project-tracker/internal/errors"
	"github.com/teamtrackr/project-tracker/internal/middleware"
	"github.com/teamtrackr/project-tracker/internal/repository"
	"github.com/teamtrackr/project-tracker/internal/services"
	"github.com/teamtrackr/project-tracker/internal/utils"
)

type StudentHandler struct {
	studentService *services.StudentService
}

func NewStudentHandler(studentService *services.StudentService) *StudentHandler {
	return &StudentHandler{
		studentService: studentService,
	}
}

// CreateStudent creates a standalone student
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	organization, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateStudentRequest struct {
		Name             string `json:"name" binding:"required"`
		DepartmentID     *uint  `json:"department_id"`
		Role             string `json:"role"`
		ResumeURL        string `json:"resume_url"`
		TeamID           *uint  `json:"team_id"`
		RegisteredNumber string `json:"registered_number"`
	}

	var req CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	student, err := h.studentService.CreateStudent(organization, services.CreateStudentInput{
		Name:             req.Name,
		DepartmentID:     req.DepartmentID,
		Role:             req.Role,
		ResumeURL:        req.ResumeURL,
		TeamID:           req.TeamID,
		RegisteredNumber: req.RegisteredNumber,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrStudentNameRequired):
			apierrors.BadRequest(c, "Student name is required")
		case errors.Is(err, services.ErrStudentDepartmentNotFound):
			apierrors.NotFound(c, "Department not found")
		case errors.Is(err, services.ErrStudentTeamNotFound):
			apierrors.NotFound(c, "Team not found")
		case errors.Is(err, services.ErrDuplicateRegisteredNumber):
			apierrors.DuplicateKey(c, "Registered number already exists in this organization")
		default:
			apierrors.InternalError(c, "Failed to create student")
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToStudentDTO(*student))
}

// ListStudents returns students with optional search and department filter
func (h *StudentHandler) ListStudents(c *gin.Context) {
	organization, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.ParsePageRequest(c)
	filter := repository.StudentFilter{
		Search:   c.Query("search"),
		Page:     params.Page,
		PageSize: params.Limit,
	}
	if deptStr := c.Query("department_id"); deptStr != "" {
		deptID, err := strconv.ParseUint(deptStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid department_id")
			return
		}
		id := uint(deptID)
		filter.DepartmentID = &id
	}

	students, total, err := h.studentService.ListStudents(organization, filter)
	if err != nil {
		apierrors.InternalError(c, "Failed to list students")
		return
	}

	c.JSON(http.StatusOK, dto.StudentListResponse{
		Students: dto.ToStudentDTOs(students),
		Pagination: utils.PageMeta{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetStudent returns one student
func (h *StudentHandler) GetStudent(c *gin.Context) {
	organization, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid student ID")
		return
	}

	student, err := h.studentService.GetStudent(organization, uint(id))
	if err != nil {
		if errors.Is(err, services.ErrStudentNotFound) {
			apierrors.NotFound(c, "Student not found")
			return
		}
		apierrors.InternalError(c, "Failed to load student")
		return
	}

	c.JSON(http.StatusOK, dto.ToStudentDTO(*student))
}

// UpdateStudent applies a partial update
func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	organization, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid student ID")
		return
	}

	type UpdateStudentRequest struct {
		Name             *string `json:"name"`
		DepartmentID     *uint   `json:"department_id"`
		ClearDepartment  bool    `json:"clear_department"`
		Role             *string `json:"role"`
		ResumeURL        *string `json:"resume_url"`
		RegisteredNumber *string `json:"registered_number"`
	}

	var req UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	student, err := h.studentService.UpdateStudent(organization, uint(id), services.UpdateStudentInput{
		Name:             req.Name,
		DepartmentID:     req.DepartmentID,
		ClearDepartment:  req.ClearDepartment,
		Role:             req.Role,
		ResumeURL:        req.ResumeURL,
		RegisteredNumber: req.RegisteredNumber,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrStudentNotFound):
			apierrors.NotFound(c, "Student not found")
		case errors.Is(err, services.ErrStudentNameRequired):
			apierrors.BadRequest(c, "Student name cannot be empty")
		case errors.Is(err, services.ErrStudentDepartmentNotFound):
			apierrors.NotFound(c, "Department not found")
		case errors.Is(err, services.ErrDuplicateRegisteredNumber):
			apierrors.DuplicateKey(c, "Registered number already exists in this organization")
		default:
			apierrors.InternalError(c, "Failed to update student")
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToStudentDTO(*student))
}

// DeleteStudent removes a student with full cascade
func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	organization, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid student ID")
		return
	}

	if err := h.studentService.DeleteStudent(organization, uint(id)); err != nil {
		if errors.Is(err, services.ErrStudentNotFound) {
			apierrors.NotFound(c, "Student not found")
			return
		}
		apierrors.InternalError(c, "Failed to delete student")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Student deleted"})
}

// DeleteStudentsBulk removes multiple students with full cascade
func (h *StudentHandler) DeleteStudentsBulk(c *gin.Context) {
	organization, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type BulkDeleteRequest struct {
		StudentIDs []uint `json:"student_ids" binding:"required"`
	}

	var req BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.studentService.DeleteStudentsBulk(organization, req.StudentIDs); err != nil {
		switch {
		case errors.Is(err, services.ErrNoStudentIDsProvided):
			apierrors.BadRequest(c, "At least one student ID is required")
		case errors.Is(err, services.ErrStudentNotFound):
			apierrors.NotFound(c, "No matching students found")
		default:
			apierrors.InternalError(c, "Failed to delete students")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Students deleted"})
}

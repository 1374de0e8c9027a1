package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/teamtrackr/project-tracker/internal/models"
	"github.com/teamtrackr/project-tracker/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrDepartmentNotFound = errors.New("department not found")
)

// DepartmentInUseError blocks deleting a department that students still
// reference. Departments are a classification, not an ownership relation, so
// deletion is rejected instead of cascading.
type DepartmentInUseError struct {
	StudentCount int64
}

func (e *DepartmentInUseError) Error() string {
	return fmt.Sprintf("cannot delete department: %d student(s) still assigned to it", e.StudentCount)
}

// DepartmentService provides business logic for department operations.
type DepartmentService struct {
	deptRepo    repository.DepartmentRepository
	studentRepo repository.StudentRepository
}

// NewDepartmentService creates a new DepartmentService.
func NewDepartmentService(deptRepo repository.DepartmentRepository, studentRepo repository.StudentRepository) *DepartmentService {
	return &DepartmentService{
		deptRepo:    deptRepo,
		studentRepo: studentRepo,
	}
}

// CreateDepartment creates a department in the organization.
func (s *DepartmentService) CreateDepartment(organization, name string) (*models.Department, error) {
	dept := &models.Department{
		Name:         strings.TrimSpace(name),
		Organization: organization,
	}
	if err := s.deptRepo.Create(dept); err != nil {
		return nil, fmt.Errorf("failed to create department: %w", err)
	}
	return dept, nil
}

// ListDepartments returns all departments in the organization.
func (s *DepartmentService) ListDepartments(organization string) ([]models.Department, error) {
	depts, err := s.deptRepo.List(organization)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return depts, nil
}

// GetDepartment returns one department.
func (s *DepartmentService) GetDepartment(organization string, id uint) (*models.Department, error) {
	dept, err := s.deptRepo.FindByID(organization, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("failed to find department: %w", err)
	}
	return dept, nil
}

// DeleteDepartment removes a department, refusing while students reference it.
func (s *DepartmentService) DeleteDepartment(organization string, id uint) error {
	if _, err := s.deptRepo.FindByID(organization, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDepartmentNotFound
		}
		return fmt.Errorf("failed to find department: %w", err)
	}

	count, err := s.studentRepo.CountByDepartment(organization, id)
	if err != nil {
		return fmt.Errorf("failed to count department students: %w", err)
	}
	if count > 0 {
		return &DepartmentInUseError{StudentCount: count}
	}

	if err := s.deptRepo.Delete(organization, id); err != nil {
		return fmt.Errorf("failed to delete department: %w", err)
	}
	return nil
}

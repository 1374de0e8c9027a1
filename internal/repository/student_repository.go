package repository

import (
	"github.com/teamtrackr/project-tracker/internal/database"
	"github.com/teamtrackr/project-tracker/internal/models"
	"gorm.io/gorm"
)

// GormStudentRepository is a GORM implementation of StudentRepository
type GormStudentRepository struct {
	db *gorm.DB
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &GormStudentRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *GormStudentRepository) WithTx(tx *gorm.DB) StudentRepository {
	return &GormStudentRepository{db: tx}
}

// Create creates a new student
func (r *GormStudentRepository) Create(student *models.Student) error {
	return r.db.Create(student).Error
}

// FindByID finds a student by ID with optional preloading
func (r *GormStudentRepository) FindByID(organization string, id uint, preload ...string) (*models.Student, error) {
	var student models.Student
	query := r.db.Scopes(database.ScopedToOrganization(organization))
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&student, id).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByIDs loads the students among ids that exist in the organization
func (r *GormStudentRepository) FindByIDs(organization string, ids []uint) ([]models.Student, error) {
	if len(ids) == 0 {
		return []models.Student{}, nil
	}
	var students []models.Student
	if err := r.db.Where("organization = ? AND id IN ?", organization, ids).
		Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

// FindByRegisteredNumber looks up a student by normalized registered number
func (r *GormStudentRepository) FindByRegisteredNumber(organization, registeredNumber string) (*models.Student, error) {
	var student models.Student
	if err := r.db.Where("organization = ? AND registered_number = ?", organization, registeredNumber).
		First(&student).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

// List retrieves students with filtering and pagination
func (r *GormStudentRepository) List(organization string, filter StudentFilter) ([]models.Student, int64, error) {
	var students []models.Student

	query := r.db.Model(&models.Student{}).Scopes(database.ScopedToOrganization(organization))

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR registered_number LIKE ?", pattern, pattern)
	}
	if filter.DepartmentID != nil {
		query = query.Where("department_id = ?", *filter.DepartmentID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("students.id ASC").Scopes(database.Paginate(filter.Page, filter.PageSize))

	if err := listQuery.Preload("Department").Preload("Team").Find(&students).Error; err != nil {
		return nil, 0, err
	}

	return students, total, nil
}

// ListAll retrieves every student in the organization
func (r *GormStudentRepository) ListAll(organization string) ([]models.Student, error) {
	var students []models.Student
	if err := r.db.Scopes(database.ScopedToOrganization(organization)).
		Order("id ASC").
		Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

// CountByTeam counts students currently on a team
func (r *GormStudentRepository) CountByTeam(organization string, teamID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Student{}).
		Where("organization = ? AND team_id = ?", organization, teamID).
		Count(&count).Error
	return count, err
}

// CountByDepartment counts students referencing a department
func (r *GormStudentRepository) CountByDepartment(organization string, departmentID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Student{}).
		Where("organization = ? AND department_id = ?", organization, departmentID).
		Count(&count).Error
	return count, err
}

// Update saves a student
func (r *GormStudentRepository) Update(student *models.Student) error {
	return r.db.Save(student).Error
}

// DeleteByIDs removes the given students
func (r *GormStudentRepository) DeleteByIDs(organization string, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Where("organization = ? AND id IN ?", organization, ids).
		Delete(&models.Student{}).Error
}

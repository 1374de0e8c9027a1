package repository

import (
	"github.com/teamtrackr/project-tracker/internal/database"
	"github.com/teamtrackr/project-tracker/internal/models"
	"gorm.io/gorm"
)

// GormDepartmentRepository is a GORM implementation of DepartmentRepository
type GormDepartmentRepository struct {
	db *gorm.DB
}

// NewDepartmentRepository creates a new DepartmentRepository
func NewDepartmentRepository(db *gorm.DB) DepartmentRepository {
	return &GormDepartmentRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *GormDepartmentRepository) WithTx(tx *gorm.DB) DepartmentRepository {
	return &GormDepartmentRepository{db: tx}
}

// Create creates a new department
func (r *GormDepartmentRepository) Create(dept *models.Department) error {
	return r.db.Create(dept).Error
}

// FindByID finds a department by ID within the organization
func (r *GormDepartmentRepository) FindByID(organization string, id uint) (*models.Department, error) {
	var dept models.Department
	if err := r.db.Scopes(database.ScopedToOrganization(organization)).First(&dept, id).Error; err != nil {
		return nil, err
	}
	return &dept, nil
}

// List retrieves all departments in the organization
func (r *GormDepartmentRepository) List(organization string) ([]models.Department, error) {
	var depts []models.Department
	if err := r.db.Scopes(database.ScopedToOrganization(organization)).
		Order("name ASC").
		Find(&depts).Error; err != nil {
		return nil, err
	}
	return depts, nil
}

// Delete removes a department
func (r *GormDepartmentRepository) Delete(organization string, id uint) error {
	return r.db.Scopes(database.ScopedToOrganization(organization)).
		Delete(&models.Department{}, id).Error
}

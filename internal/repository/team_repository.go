package repository

import (
	"github.com/teamtrackr/project-tracker/internal/database"
	"github.com/teamtrackr/project-tracker/internal/models"
	"gorm.io/gorm"
)

// GormTeamRepository is a GORM implementation of TeamRepository
type GormTeamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new TeamRepository
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &GormTeamRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *GormTeamRepository) WithTx(tx *gorm.DB) TeamRepository {
	return &GormTeamRepository{db: tx}
}

// Create creates a new team
func (r *GormTeamRepository) Create(team *models.Team) error {
	return r.db.Create(team).Error
}

// FindByID finds a team by ID with optional preloading
func (r *GormTeamRepository) FindByID(organization string, id uint, preload ...string) (*models.Team, error) {
	var team models.Team
	query := r.db.Scopes(database.ScopedToOrganization(organization))
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&team, id).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// List retrieves all teams in the organization with their students
func (r *GormTeamRepository) List(organization string) ([]models.Team, error) {
	var teams []models.Team
	if err := r.db.Scopes(database.ScopedToOrganization(organization)).
		Preload("Students").
		Order("team_number ASC").
		Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

// Update saves a team
func (r *GormTeamRepository) Update(team *models.Team) error {
	return r.db.Save(team).Error
}

// Delete removes a team
func (r *GormTeamRepository) Delete(organization string, id uint) error {
	return r.db.Scopes(database.ScopedToOrganization(organization)).
		Delete(&models.Team{}, id).Error
}

// NextTeamNumber returns max(team_number)+1 for the organization
func (r *GormTeamRepository) NextTeamNumber(organization string) (int, error) {
	var max int
	err := r.db.Model(&models.Team{}).
		Scopes(database.ScopedToOrganization(organization)).
		Select("COALESCE(MAX(team_number), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

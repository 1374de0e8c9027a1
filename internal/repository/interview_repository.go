package repository

import (
	"github.com/teamtrackr/project-tracker/internal/database"
	"github.com/teamtrackr/project-tracker/internal/models"
	"gorm.io/gorm"
)

// GormInterviewRepository is a GORM implementation of InterviewRepository
type GormInterviewRepository struct {
	db *gorm.DB
}

// NewInterviewRepository creates a new InterviewRepository
func NewInterviewRepository(db *gorm.DB) InterviewRepository {
	return &GormInterviewRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *GormInterviewRepository) WithTx(tx *gorm.DB) InterviewRepository {
	return &GormInterviewRepository{db: tx}
}

// Save creates or updates an interview score record
func (r *GormInterviewRepository) Save(score *models.InterviewScore) error {
	return r.db.Save(score).Error
}

// FindByStudent finds the single record for a student, if any
func (r *GormInterviewRepository) FindByStudent(organization string, studentID uint) (*models.InterviewScore, error) {
	var score models.InterviewScore
	if err := r.db.Where("organization = ? AND student_id = ?", organization, studentID).
		First(&score).Error; err != nil {
		return nil, err
	}
	return &score, nil
}

// ListByStudentIDs retrieves records for the given students
func (r *GormInterviewRepository) ListByStudentIDs(organization string, studentIDs []uint) ([]models.InterviewScore, error) {
	if len(studentIDs) == 0 {
		return []models.InterviewScore{}, nil
	}
	var scores []models.InterviewScore
	if err := r.db.Where("organization = ? AND student_id IN ?", organization, studentIDs).
		Order("id ASC").
		Find(&scores).Error; err != nil {
		return nil, err
	}
	return scores, nil
}

// ListByTeam retrieves records attached to a team
func (r *GormInterviewRepository) ListByTeam(organization string, teamID uint) ([]models.InterviewScore, error) {
	var scores []models.InterviewScore
	if err := r.db.Where("organization = ? AND team_id = ?", organization, teamID).
		Order("id ASC").
		Find(&scores).Error; err != nil {
		return nil, err
	}
	return scores, nil
}

// ListByOrganization retrieves every record in the organization
func (r *GormInterviewRepository) ListByOrganization(organization string, preload ...string) ([]models.InterviewScore, error) {
	var scores []models.InterviewScore
	query := r.db.Scopes(database.ScopedToOrganization(organization))
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.Order("id ASC").Find(&scores).Error; err != nil {
		return nil, err
	}
	return scores, nil
}

// DeleteByStudentIDs removes records belonging to the given students
func (r *GormInterviewRepository) DeleteByStudentIDs(organization string, studentIDs []uint) error {
	if len(studentIDs) == 0 {
		return nil
	}
	return r.db.Where("organization = ? AND student_id IN ?", organization, studentIDs).
		Delete(&models.InterviewScore{}).Error
}

// DeleteByTeam removes records attached to a team
func (r *GormInterviewRepository) DeleteByTeam(organization string, teamID uint) error {
	return r.db.Where("organization = ? AND team_id = ?", organization, teamID).
		Delete(&models.InterviewScore{}).Error
}

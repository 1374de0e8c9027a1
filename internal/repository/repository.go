package repository

import (
	"github.com/teamtrackr/project-tracker/internal/models"
	"gorm.io/gorm"
)

// Every read and write below is scoped to one organization; the organization
// value is a mandatory first parameter rather than an optional filter so that
// no call site can accidentally query across tenants.

// DepartmentRepository defines the interface for department data access
type DepartmentRepository interface {
	// WithTx returns a copy of the repository bound to the given transaction
	WithTx(tx *gorm.DB) DepartmentRepository

	// Create creates a new department
	Create(dept *models.Department) error

	// FindByID finds a department by ID within the organization
	FindByID(organization string, id uint) (*models.Department, error)

	// List retrieves all departments in the organization
	List(organization string) ([]models.Department, error)

	// Delete removes a department
	Delete(organization string, id uint) error
}

// StudentFilter holds filtering options for listing students
type StudentFilter struct {
	// Search matches name or registered number as a substring
	Search       string
	DepartmentID *uint
	Page         int
	PageSize     int
}

// StudentRepository defines the interface for student data access
type StudentRepository interface {
	// WithTx returns a copy of the repository bound to the given transaction
	WithTx(tx *gorm.DB) StudentRepository

	// Create creates a new student
	Create(student *models.Student) error

	// FindByID finds a student by ID with optional preloading
	FindByID(organization string, id uint, preload ...string) (*models.Student, error)

	// FindByIDs loads the students among ids that exist in the organization
	FindByIDs(organization string, ids []uint) ([]models.Student, error)

	// FindByRegisteredNumber looks up a student by normalized registered number
	FindByRegisteredNumber(organization, registeredNumber string) (*models.Student, error)

	// List retrieves students with filtering and pagination
	List(organization string, filter StudentFilter) ([]models.Student, int64, error)

	// ListAll retrieves every student in the organization
	ListAll(organization string) ([]models.Student, error)

	// CountByTeam counts students currently on a team
	CountByTeam(organization string, teamID uint) (int64, error)

	// CountByDepartment counts students referencing a department
	CountByDepartment(organization string, departmentID uint) (int64, error)

	// Update saves a student
	Update(student *models.Student) error

	// DeleteByIDs removes the given students
	DeleteByIDs(organization string, ids []uint) error
}

// TeamRepository defines the interface for team data access
type TeamRepository interface {
	// WithTx returns a copy of the repository bound to the given transaction
	WithTx(tx *gorm.DB) TeamRepository

	// Create creates a new team
	Create(team *models.Team) error

	// FindByID finds a team by ID with optional preloading
	FindByID(organization string, id uint, preload ...string) (*models.Team, error)

	// List retrieves all teams in the organization with their students
	List(organization string) ([]models.Team, error)

	// Update saves a team
	Update(team *models.Team) error

	// Delete removes a team
	Delete(organization string, id uint) error

	// NextTeamNumber returns max(team_number)+1 for the organization
	NextTeamNumber(organization string) (int, error)
}

// InterviewRepository defines the interface for interview score data access
type InterviewRepository interface {
	// WithTx returns a copy of the repository bound to the given transaction
	WithTx(tx *gorm.DB) InterviewRepository

	// Save creates or updates an interview score record
	Save(score *models.InterviewScore) error

	// FindByStudent finds the single record for a student, if any
	FindByStudent(organization string, studentID uint) (*models.InterviewScore, error)

	// ListByStudentIDs retrieves records for the given students
	ListByStudentIDs(organization string, studentIDs []uint) ([]models.InterviewScore, error)

	// ListByTeam retrieves records attached to a team
	ListByTeam(organization string, teamID uint) ([]models.InterviewScore, error)

	// ListByOrganization retrieves every record in the organization
	ListByOrganization(organization string, preload ...string) ([]models.InterviewScore, error)

	// DeleteByStudentIDs removes records belonging to the given students
	DeleteByStudentIDs(organization string, studentIDs []uint) error

	// DeleteByTeam removes records attached to a team
	DeleteByTeam(organization string, teamID uint) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)
}

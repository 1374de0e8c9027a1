package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/teamtrackr/project-tracker/internal/database"
	"github.com/teamtrackr/project-tracker/internal/models"
	"github.com/teamtrackr/project-tracker/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrStudentNotFound           = errors.New("student not found")
	ErrStudentNameRequired       = errors.New("student name is required")
	ErrDuplicateRegisteredNumber = errors.New("registered number already exists in this organization")
	ErrNoStudentIDsProvided      = errors.New("at least one student ID is required")
	ErrStudentDepartmentNotFound = errors.New("referenced department not found")
	ErrStudentTeamNotFound       = errors.New("referenced team not found")
)

// StudentService owns student CRUD and the delete cascade that keeps the
// Student/Team/InterviewScore graph consistent. No other code path mutates
// team membership.
type StudentService struct {
	studentRepo   repository.StudentRepository
	teamRepo      repository.TeamRepository
	deptRepo      repository.DepartmentRepository
	interviewRepo repository.InterviewRepository
}

// NewStudentService creates a new StudentService.
func NewStudentService(
	studentRepo repository.StudentRepository,
	teamRepo repository.TeamRepository,
	deptRepo repository.DepartmentRepository,
	interviewRepo repository.InterviewRepository,
) *StudentService {
	return &StudentService{
		studentRepo:   studentRepo,
		teamRepo:      teamRepo,
		deptRepo:      deptRepo,
		interviewRepo: interviewRepo,
	}
}

// NormalizeRegisteredNumber lowercases and trims a registered number so
// uniqueness checks are case-insensitive.
func NormalizeRegisteredNumber(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// CreateStudentInput represents input for creating a student.
type CreateStudentInput struct {
	Name             string
	DepartmentID     *uint
	Role             string
	ResumeURL        string
	TeamID           *uint
	RegisteredNumber string
}

// CreateStudent creates a standalone student.
func (s *StudentService) CreateStudent(organization string, input CreateStudentInput) (*models.Student, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrStudentNameRequired
	}

	if input.DepartmentID != nil {
		if _, err := s.deptRepo.FindByID(organization, *input.DepartmentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrStudentDepartmentNotFound
			}
			return nil, fmt.Errorf("failed to check department: %w", err)
		}
	}
	if input.TeamID != nil {
		if _, err := s.teamRepo.FindByID(organization, *input.TeamID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrStudentTeamNotFound
			}
			return nil, fmt.Errorf("failed to check team: %w", err)
		}
	}

	regno := NormalizeRegisteredNumber(input.RegisteredNumber)
	if regno != "" {
		if err := s.ensureRegisteredNumberFree(organization, regno, 0); err != nil {
			return nil, err
		}
	}

	student := &models.Student{
		Name:             strings.TrimSpace(input.Name),
		DepartmentID:     input.DepartmentID,
		Role:             input.Role,
		ResumeURL:        input.ResumeURL,
		TeamID:           input.TeamID,
		Organization:     organization,
		RegisteredNumber: regno,
	}

	if err := s.studentRepo.Create(student); err != nil {
		return nil, fmt.Errorf("failed to create student: %w", err)
	}
	return student, nil
}

// ListStudents returns students with optional search and department filter.
func (s *StudentService) ListStudents(organization string, filter repository.StudentFilter) ([]models.Student, int64, error) {
	students, total, err := s.studentRepo.List(organization, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list students: %w", err)
	}
	return students, total, nil
}

// GetStudent returns one student with its department and team.
func (s *StudentService) GetStudent(organization string, id uint) (*models.Student, error) {
	student, err := s.studentRepo.FindByID(organization, id, "Department", "Team")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to find student: %w", err)
	}
	return student, nil
}

// UpdateStudentInput represents a partial update; nil fields are unchanged.
type UpdateStudentInput struct {
	Name             *string
	DepartmentID     *uint
	ClearDepartment  bool
	Role             *string
	ResumeURL        *string
	RegisteredNumber *string
}

// UpdateStudent applies a partial update to a student.
func (s *StudentService) UpdateStudent(organization string, id uint, input UpdateStudentInput) (*models.Student, error) {
	student, err := s.studentRepo.FindByID(organization, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to find student: %w", err)
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrStudentNameRequired
		}
		student.Name = strings.TrimSpace(*input.Name)
	}
	if input.ClearDepartment {
		student.DepartmentID = nil
	} else if input.DepartmentID != nil {
		if _, err := s.deptRepo.FindByID(organization, *input.DepartmentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrStudentDepartmentNotFound
			}
			return nil, fmt.Errorf("failed to check department: %w", err)
		}
		student.DepartmentID = input.DepartmentID
	}
	if input.Role != nil {
		student.Role = *input.Role
	}
	if input.ResumeURL != nil {
		student.ResumeURL = *input.ResumeURL
	}
	if input.RegisteredNumber != nil {
		regno := NormalizeRegisteredNumber(*input.RegisteredNumber)
		if regno != "" && regno != student.RegisteredNumber {
			if err := s.ensureRegisteredNumberFree(organization, regno, student.ID); err != nil {
				return nil, err
			}
		}
		student.RegisteredNumber = regno
	}

	if err := s.studentRepo.Update(student); err != nil {
		return nil, fmt.Errorf("failed to update student: %w", err)
	}
	return student, nil
}

// DeleteStudent removes a student and unwinds every dependent record: the
// student's interview score first, then team membership. A team left with no
// members is itself deleted along with any scores still pointing at it.
func (s *StudentService) DeleteStudent(organization string, id uint) error {
	student, err := s.studentRepo.FindByID(organization, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return fmt.Errorf("failed to find student: %w", err)
	}

	return database.GetDB().Transaction(func(tx *gorm.DB) error {
		students := s.studentRepo.WithTx(tx)
		teams := s.teamRepo.WithTx(tx)
		interviews := s.interviewRepo.WithTx(tx)

		if err := interviews.DeleteByStudentIDs(organization, []uint{student.ID}); err != nil {
			return fmt.Errorf("failed to delete student interviews: %w", err)
		}

		if student.TeamID != nil {
			team, err := teams.FindByID(organization, *student.TeamID)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to load team: %w", err)
			}
			if err == nil {
				memberCount, err := students.CountByTeam(organization, team.ID)
				if err != nil {
					return fmt.Errorf("failed to count team members: %w", err)
				}
				// The student being deleted is still counted here.
				if memberCount <= 1 {
					if err := interviews.DeleteByTeam(organization, team.ID); err != nil {
						return fmt.Errorf("failed to delete team interviews: %w", err)
					}
					if err := teams.Delete(organization, team.ID); err != nil {
						return fmt.Errorf("failed to delete empty team: %w", err)
					}
				}
			}
		}

		if err := students.DeleteByIDs(organization, []uint{student.ID}); err != nil {
			return fmt.Errorf("failed to delete student: %w", err)
		}
		return nil
	})
}

// DeleteStudentsBulk removes multiple students with the same cascade as
// DeleteStudent, batched so each affected team is read and resolved once.
func (s *StudentService) DeleteStudentsBulk(organization string, ids []uint) error {
	if len(ids) == 0 {
		return ErrNoStudentIDsProvided
	}

	students, err := s.studentRepo.FindByIDs(organization, ids)
	if err != nil {
		return fmt.Errorf("failed to load students: %w", err)
	}
	if len(students) == 0 {
		return ErrStudentNotFound
	}

	deleteIDs := make([]uint, 0, len(students))
	byTeam := make(map[uint]int)
	for _, st := range students {
		deleteIDs = append(deleteIDs, st.ID)
		if st.TeamID != nil {
			byTeam[*st.TeamID]++
		}
	}

	return database.GetDB().Transaction(func(tx *gorm.DB) error {
		studentRepo := s.studentRepo.WithTx(tx)
		teams := s.teamRepo.WithTx(tx)
		interviews := s.interviewRepo.WithTx(tx)

		if err := interviews.DeleteByStudentIDs(organization, deleteIDs); err != nil {
			return fmt.Errorf("failed to delete student interviews: %w", err)
		}

		for teamID, removed := range byTeam {
			if _, err := teams.FindByID(organization, teamID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return fmt.Errorf("failed to load team: %w", err)
			}
			memberCount, err := studentRepo.CountByTeam(organization, teamID)
			if err != nil {
				return fmt.Errorf("failed to count team members: %w", err)
			}
			if memberCount <= int64(removed) {
				if err := interviews.DeleteByTeam(organization, teamID); err != nil {
					return fmt.Errorf("failed to delete team interviews: %w", err)
				}
				if err := teams.Delete(organization, teamID); err != nil {
					return fmt.Errorf("failed to delete empty team: %w", err)
				}
			}
		}

		if err := studentRepo.DeleteByIDs(organization, deleteIDs); err != nil {
			return fmt.Errorf("failed to delete students: %w", err)
		}
		return nil
	})
}

func (s *StudentService) ensureRegisteredNumberFree(organization, regno string, selfID uint) error {
	existing, err := s.studentRepo.FindByRegisteredNumber(organization, regno)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check registered number: %w", err)
	}
	if existing.ID != selfID {
		return ErrDuplicateRegisteredNumber
	}
	return nil
}

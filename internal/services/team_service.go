package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/teamtrackr/project-tracker/internal/constants"
	"github.com/teamtrackr/project-tracker/internal/database"
	"github.com/teamtrackr/project-tracker/internal/models"
	"github.com/teamtrackr/project-tracker/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTeamNotFound              = errors.New("team not found")
	ErrNoTeamIDsProvided         = errors.New("at least one team ID is required")
	ErrCheckpointIndexOutOfRange = errors.New("checkpoint index out of range")
)

// TeamService owns team CRUD, checkpoint mutation and the team delete cascade.
type TeamService struct {
	teamRepo      repository.TeamRepository
	studentRepo   repository.StudentRepository
	deptRepo      repository.DepartmentRepository
	interviewRepo repository.InterviewRepository
}

// NewTeamService creates a new TeamService.
func NewTeamService(
	teamRepo repository.TeamRepository,
	studentRepo repository.StudentRepository,
	deptRepo repository.DepartmentRepository,
	interviewRepo repository.InterviewRepository,
) *TeamService {
	return &TeamService{
		teamRepo:      teamRepo,
		studentRepo:   studentRepo,
		deptRepo:      deptRepo,
		interviewRepo: interviewRepo,
	}
}

// EmbeddedStudentInput is a student created together with its team. Members
// are always created fresh; existing students are never attached this way.
type EmbeddedStudentInput struct {
	Name             string
	DepartmentID     *uint
	Role             string
	ResumeURL        string
	RegisteredNumber string
}

// CreateTeamInput represents input for creating a team.
type CreateTeamInput struct {
	TeamNumber         int
	ProjectTitle       string
	ProjectDescription string
	Domain             string
	GithubURL          string
	HostedURL          string
	Checkpoints        []models.Checkpoint
	Students           []EmbeddedStudentInput
}

// DefaultCheckpoints returns the standard four-stage sequence for new teams.
func DefaultCheckpoints() models.CheckpointList {
	list := make(models.CheckpointList, 0, len(constants.DefaultCheckpointNames))
	for _, name := range constants.DefaultCheckpointNames {
		list = append(list, models.Checkpoint{Name: name})
	}
	return list
}

// CreateTeam creates a team and its embedded students in one transaction. The
// team number defaults to max(team_number)+1 within the organization.
func (s *TeamService) CreateTeam(organization string, input CreateTeamInput) (*models.Team, error) {
	for _, st := range input.Students {
		if strings.TrimSpace(st.Name) == "" {
			return nil, ErrStudentNameRequired
		}
		if st.DepartmentID != nil {
			if _, err := s.deptRepo.FindByID(organization, *st.DepartmentID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, ErrStudentDepartmentNotFound
				}
				return nil, fmt.Errorf("failed to check department: %w", err)
			}
		}
	}

	// Registered numbers must be free both against stored students and within
	// the incoming batch itself.
	seen := make(map[string]bool)
	for _, st := range input.Students {
		regno := NormalizeRegisteredNumber(st.RegisteredNumber)
		if regno == "" {
			continue
		}
		if seen[regno] {
			return nil, ErrDuplicateRegisteredNumber
		}
		seen[regno] = true
		if _, err := s.studentRepo.FindByRegisteredNumber(organization, regno); err == nil {
			return nil, ErrDuplicateRegisteredNumber
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check registered number: %w", err)
		}
	}

	checkpoints := models.CheckpointList(input.Checkpoints)
	if len(checkpoints) == 0 {
		checkpoints = DefaultCheckpoints()
	}

	var created *models.Team
	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		teams := s.teamRepo.WithTx(tx)
		students := s.studentRepo.WithTx(tx)

		teamNumber := input.TeamNumber
		if teamNumber <= 0 {
			next, err := teams.NextTeamNumber(organization)
			if err != nil {
				return fmt.Errorf("failed to allocate team number: %w", err)
			}
			teamNumber = next
		}

		team := &models.Team{
			TeamNumber:         teamNumber,
			ProjectTitle:       input.ProjectTitle,
			ProjectDescription: input.ProjectDescription,
			Domain:             input.Domain,
			GithubURL:          input.GithubURL,
			HostedURL:          input.HostedURL,
			Checkpoints:        checkpoints,
			Completed:          checkpoints.AllCompleted(),
			Organization:       organization,
		}
		if err := teams.Create(team); err != nil {
			return fmt.Errorf("failed to create team: %w", err)
		}

		for _, st := range input.Students {
			member := &models.Student{
				Name:             strings.TrimSpace(st.Name),
				DepartmentID:     st.DepartmentID,
				Role:             st.Role,
				ResumeURL:        st.ResumeURL,
				TeamID:           &team.ID,
				Organization:     organization,
				RegisteredNumber: NormalizeRegisteredNumber(st.RegisteredNumber),
			}
			if err := students.Create(member); err != nil {
				return fmt.Errorf("failed to create team member: %w", err)
			}
		}

		created = team
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.teamRepo.FindByID(organization, created.ID, "Students")
}

// ListTeams returns all teams with their students.
func (s *TeamService) ListTeams(organization string) ([]models.Team, error) {
	teams, err := s.teamRepo.List(organization)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}

// GetTeam returns one team with its students.
func (s *TeamService) GetTeam(organization string, id uint) (*models.Team, error) {
	team, err := s.teamRepo.FindByID(organization, id, "Students", "Students.Department")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team: %w", err)
	}
	return team, nil
}

// UpdateTeamInput represents a partial update; nil fields are unchanged.
// Completed is absent: it is derived from checkpoints only.
type UpdateTeamInput struct {
	ProjectTitle       *string
	ProjectDescription *string
	Domain             *string
	GithubURL          *string
	HostedURL          *string
}

// UpdateTeam applies a partial update to a team's details and URLs.
func (s *TeamService) UpdateTeam(organization string, id uint, input UpdateTeamInput) (*models.Team, error) {
	team, err := s.teamRepo.FindByID(organization, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team: %w", err)
	}

	if input.ProjectTitle != nil {
		team.ProjectTitle = *input.ProjectTitle
	}
	if input.ProjectDescription != nil {
		team.ProjectDescription = *input.ProjectDescription
	}
	if input.Domain != nil {
		team.Domain = *input.Domain
	}
	if input.GithubURL != nil {
		team.GithubURL = *input.GithubURL
	}
	if input.HostedURL != nil {
		team.HostedURL = *input.HostedURL
	}

	if err := s.teamRepo.Update(team); err != nil {
		return nil, fmt.Errorf("failed to update team: %w", err)
	}
	return s.teamRepo.FindByID(organization, team.ID, "Students")
}

// UpdateCheckpoint sets one checkpoint's completed flag. The index must exist.
func (s *TeamService) UpdateCheckpoint(organization string, teamID uint, index int, completed bool) (*models.Team, error) {
	team, err := s.teamRepo.FindByID(organization, teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team: %w", err)
	}

	if index < 0 || index >= len(team.Checkpoints) {
		return nil, ErrCheckpointIndexOutOfRange
	}
	team.Checkpoints[index].Completed = completed
	team.Completed = team.Checkpoints.AllCompleted()

	if err := s.teamRepo.Update(team); err != nil {
		return nil, fmt.Errorf("failed to update checkpoints: %w", err)
	}
	return team, nil
}

// CheckpointUpdate is one (index, completed) pair of a bulk update.
type CheckpointUpdate struct {
	Index     int
	Completed bool
}

// UpdateCheckpointsBulk applies updates in order, silently skipping indexes
// that do not exist in the current checkpoint list.
func (s *TeamService) UpdateCheckpointsBulk(organization string, teamID uint, updates []CheckpointUpdate) (*models.Team, error) {
	team, err := s.teamRepo.FindByID(organization, teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team: %w", err)
	}

	for _, u := range updates {
		if u.Index < 0 || u.Index >= len(team.Checkpoints) {
			continue
		}
		team.Checkpoints[u.Index].Completed = u.Completed
	}
	team.Completed = team.Checkpoints.AllCompleted()

	if err := s.teamRepo.Update(team); err != nil {
		return nil, fmt.Errorf("failed to update checkpoints: %w", err)
	}
	return team, nil
}

// DeleteTeam removes a team, its interview scores, its member students and
// their interview scores.
func (s *TeamService) DeleteTeam(organization string, id uint) error {
	team, err := s.teamRepo.FindByID(organization, id, "Students")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to find team: %w", err)
	}

	memberIDs := make([]uint, 0, len(team.Students))
	for _, st := range team.Students {
		memberIDs = append(memberIDs, st.ID)
	}

	return database.GetDB().Transaction(func(tx *gorm.DB) error {
		teams := s.teamRepo.WithTx(tx)
		students := s.studentRepo.WithTx(tx)
		interviews := s.interviewRepo.WithTx(tx)

		if err := interviews.DeleteByTeam(organization, team.ID); err != nil {
			return fmt.Errorf("failed to delete team interviews: %w", err)
		}
		if err := interviews.DeleteByStudentIDs(organization, memberIDs); err != nil {
			return fmt.Errorf("failed to delete member interviews: %w", err)
		}
		if err := students.DeleteByIDs(organization, memberIDs); err != nil {
			return fmt.Errorf("failed to delete team members: %w", err)
		}
		if err := teams.Delete(organization, team.ID); err != nil {
			return fmt.Errorf("failed to delete team: %w", err)
		}
		return nil
	})
}

// DeleteTeamsBulk removes multiple teams with the same cascade as DeleteTeam.
func (s *TeamService) DeleteTeamsBulk(organization string, ids []uint) error {
	if len(ids) == 0 {
		return ErrNoTeamIDsProvided
	}
	for _, id := range ids {
		if err := s.DeleteTeam(organization, id); err != nil {
			if errors.Is(err, ErrTeamNotFound) {
				continue
			}
			return err
		}
	}
	return nil
}

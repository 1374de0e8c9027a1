package services

import (
	"errors"
	"fmt"
	"sort"

	"github.com/teamtrackr/project-tracker/internal/constants"
	"github.com/teamtrackr/project-tracker/internal/models"
	"github.com/teamtrackr/project-tracker/internal/repository"
	"gorm.io/gorm"
)

// StatsService computes read-only dashboard aggregates over the full team,
// student and department collections. It never mutates anything.
type StatsService struct {
	teamRepo    repository.TeamRepository
	studentRepo repository.StudentRepository
	deptRepo    repository.DepartmentRepository
}

// NewStatsService creates a new StatsService.
func NewStatsService(
	teamRepo repository.TeamRepository,
	studentRepo repository.StudentRepository,
	deptRepo repository.DepartmentRepository,
) *StatsService {
	return &StatsService{
		teamRepo:    teamRepo,
		studentRepo: studentRepo,
		deptRepo:    deptRepo,
	}
}

// Snapshot is the organization-wide dashboard summary.
type Snapshot struct {
	TotalStudents     int            `json:"total_students"`
	TotalTeams        int            `json:"total_teams"`
	TotalDepartments  int            `json:"total_departments"`
	CompletedTeams    int            `json:"completed_teams"`
	IncompleteTeams   int            `json:"incomplete_teams"`
	StudentsPerDomain map[string]int `json:"students_per_domain"`
}

// OrganizationSnapshot computes counts, the completion split, and the
// students-per-domain tally. A team with N members contributes N to its
// domain; teams without a domain land in the "No Domain" bucket.
func (s *StatsService) OrganizationSnapshot(organization string) (*Snapshot, error) {
	teams, err := s.teamRepo.List(organization)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	students, err := s.studentRepo.ListAll(organization)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	depts, err := s.deptRepo.List(organization)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}

	snapshot := &Snapshot{
		TotalStudents:     len(students),
		TotalTeams:        len(teams),
		TotalDepartments:  len(depts),
		StudentsPerDomain: make(map[string]int),
	}

	for _, team := range teams {
		if team.Completed {
			snapshot.CompletedTeams++
		} else {
			snapshot.IncompleteTeams++
		}
		domain := team.Domain
		if domain == "" {
			domain = constants.NoDomain
		}
		snapshot.StudentsPerDomain[domain] += len(team.Students)
	}

	return snapshot, nil
}

// DepartmentCompletion is one department's row of the completion breakdown.
// A team counts toward every department its members belong to, so the same
// team may appear in several rows' TeamCount.
type DepartmentCompletion struct {
	DepartmentID   uint   `json:"department_id"`
	DepartmentName string `json:"department_name"`
	TeamCount      int    `json:"team_count"`
	StudentCount   int    `json:"student_count"`
	CompletedTeams int    `json:"completed_teams"`
}

// DepartmentBreakdown reports, per department, the distinct teams with at
// least one member in it and the total (team, student) pairs it covers.
func (s *StatsService) DepartmentBreakdown(organization string) ([]DepartmentCompletion, error) {
	depts, err := s.deptRepo.List(organization)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	teams, err := s.teamRepo.List(organization)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	rows := make([]DepartmentCompletion, len(depts))
	index := make(map[uint]int, len(depts))
	for i, d := range depts {
		rows[i] = DepartmentCompletion{DepartmentID: d.ID, DepartmentName: d.Name}
		index[d.ID] = i
	}

	for _, team := range teams {
		touched := make(map[uint]bool)
		for _, st := range team.Students {
			if st.DepartmentID == nil {
				continue
			}
			i, ok := index[*st.DepartmentID]
			if !ok {
				continue
			}
			rows[i].StudentCount++
			if !touched[*st.DepartmentID] {
				touched[*st.DepartmentID] = true
				rows[i].TeamCount++
				if team.Completed {
					rows[i].CompletedTeams++
				}
			}
		}
	}

	return rows, nil
}

// TeamListingFilter selects teams for the completion listing.
type TeamListingFilter struct {
	// Completed filters on the derived flag when set.
	Completed *bool
	// DepartmentID keeps teams with at least one member in the department.
	DepartmentID *uint
}

// RankedTeam is a team annotated with its completed-checkpoint count.
type RankedTeam struct {
	models.Team
	Ticked int `json:"ticked"`
}

// TeamListing returns teams matching the filter, each annotated with the
// number of ticked checkpoints, sorted descending by that count. The sort is
// stable so equally ranked teams keep their team-number order.
func (s *StatsService) TeamListing(organization string, filter TeamListingFilter) ([]RankedTeam, error) {
	if filter.DepartmentID != nil {
		if _, err := s.deptRepo.FindByID(organization, *filter.DepartmentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrDepartmentNotFound
			}
			return nil, fmt.Errorf("failed to find department: %w", err)
		}
	}

	teams, err := s.teamRepo.List(organization)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	ranked := make([]RankedTeam, 0, len(teams))
	for _, team := range teams {
		if filter.Completed != nil && team.Completed != *filter.Completed {
			continue
		}
		if filter.DepartmentID != nil && !teamTouchesDepartment(team, *filter.DepartmentID) {
			continue
		}
		ranked = append(ranked, RankedTeam{
			Team:   team,
			Ticked: team.Checkpoints.TickedCount(),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Ticked > ranked[j].Ticked
	})
	return ranked, nil
}

func teamTouchesDepartment(team models.Team, departmentID uint) bool {
	for _, st := range team.Students {
		if st.DepartmentID != nil && *st.DepartmentID == departmentID {
			return true
		}
	}
	return false
}

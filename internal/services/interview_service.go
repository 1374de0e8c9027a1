package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/teamtrackr/project-tracker/internal/constants"
	"github.com/teamtrackr/project-tracker/internal/email"
	"github.com/teamtrackr/project-tracker/internal/models"
	"github.com/teamtrackr/project-tracker/internal/repository"
	"github.com/teamtrackr/project-tracker/internal/scoring"
	"gorm.io/gorm"
)

var (
	ErrInterviewNotFound     = errors.New("no interview record for student")
	ErrUnknownMetric         = errors.New("unknown interview metric")
	ErrMetricValueOutOfRange = errors.New("metric value must be between 1 and 10")
	ErrNoInterviewEntries    = errors.New("at least one interview entry is required")
)

// InterviewService owns interview score upserts and every aggregate view over
// them. All derived fields go through scoring.ComputeDerived before a save;
// nothing else writes TotalScore or AverageScore.
type InterviewService struct {
	interviewRepo repository.InterviewRepository
	studentRepo   repository.StudentRepository
	teamRepo      repository.TeamRepository
	deptRepo      repository.DepartmentRepository
	inviteSender  email.InviteSender
}

// NewInterviewService creates a new InterviewService.
func NewInterviewService(
	interviewRepo repository.InterviewRepository,
	studentRepo repository.StudentRepository,
	teamRepo repository.TeamRepository,
	deptRepo repository.DepartmentRepository,
	inviteSender email.InviteSender,
) *InterviewService {
	return &InterviewService{
		interviewRepo: interviewRepo,
		studentRepo:   studentRepo,
		teamRepo:      teamRepo,
		deptRepo:      deptRepo,
		inviteSender:  inviteSender,
	}
}

var validMetricNames = func() map[string]bool {
	m := make(map[string]bool, len(constants.MetricNames))
	for _, name := range constants.MetricNames {
		m[name] = true
	}
	return m
}()

// ValidateMetrics checks metric names and value bounds.
func ValidateMetrics(metrics models.MetricSet) error {
	for name, v := range metrics {
		if !validMetricNames[name] {
			return fmt.Errorf("%w: %s", ErrUnknownMetric, name)
		}
		if v < constants.MetricMinValue || v > constants.MetricMaxValue {
			return fmt.Errorf("%w: %s=%d", ErrMetricValueOutOfRange, name, v)
		}
	}
	return nil
}

// UpsertInterviewInput represents one interview submission for a student.
type UpsertInterviewInput struct {
	StudentID uint
	TeamID    *uint
	Metrics   models.MetricSet
}

// UpsertInterview merges the incoming metrics into the student's single
// interview record, creating it on first submission. Keys absent from the
// incoming set keep their stored values; a supplied team overwrites the stored
// one. Team existence is the HTTP boundary's concern, not checked here.
func (s *InterviewService) UpsertInterview(organization string, input UpsertInterviewInput) (*models.InterviewScore, error) {
	if err := ValidateMetrics(input.Metrics); err != nil {
		return nil, err
	}

	if _, err := s.studentRepo.FindByID(organization, input.StudentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to find student: %w", err)
	}

	score, err := s.interviewRepo.FindByStudent(organization, input.StudentID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to look up interview: %w", err)
		}
		score = &models.InterviewScore{
			StudentID:    input.StudentID,
			TeamID:       input.TeamID,
			Organization: organization,
			Metrics:      models.MetricSet{},
		}
	}

	if score.Metrics == nil {
		score.Metrics = models.MetricSet{}
	}
	for name, v := range input.Metrics {
		score.Metrics[name] = v
	}
	if input.TeamID != nil {
		score.TeamID = input.TeamID
	}

	score.TotalScore, score.AverageScore = scoring.ComputeDerived(score.Metrics)

	if err := s.interviewRepo.Save(score); err != nil {
		return nil, fmt.Errorf("failed to save interview: %w", err)
	}
	return score, nil
}

// TeamInterviewEntry is one student's metrics in a team bulk upsert.
type TeamInterviewEntry struct {
	StudentID uint
	Metrics   models.MetricSet
}

// UpsertTeamInterviews upserts interview records for several students of one
// team. The team must exist; each entry then follows UpsertInterview.
func (s *InterviewService) UpsertTeamInterviews(organization string, teamID uint, entries []TeamInterviewEntry) ([]models.InterviewScore, error) {
	if len(entries) == 0 {
		return nil, ErrNoInterviewEntries
	}

	if _, err := s.teamRepo.FindByID(organization, teamID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team: %w", err)
	}

	results := make([]models.InterviewScore, 0, len(entries))
	for _, entry := range entries {
		score, err := s.UpsertInterview(organization, UpsertInterviewInput{
			StudentID: entry.StudentID,
			TeamID:    &teamID,
			Metrics:   entry.Metrics,
		})
		if err != nil {
			return nil, err
		}
		results = append(results, *score)
	}
	return results, nil
}

// GetStudentInterview returns the student's interview record.
func (s *InterviewService) GetStudentInterview(organization string, studentID uint) (*models.InterviewScore, error) {
	if _, err := s.studentRepo.FindByID(organization, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to find student: %w", err)
	}

	score, err := s.interviewRepo.FindByStudent(organization, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInterviewNotFound
		}
		return nil, fmt.Errorf("failed to find interview: %w", err)
	}
	return score, nil
}

// ListInterviews returns every interview record in the organization.
func (s *InterviewService) ListInterviews(organization string) ([]models.InterviewScore, error) {
	scores, err := s.interviewRepo.ListByOrganization(organization, "Student", "Team")
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	return scores, nil
}

// InterviewStats bundles the aggregate numbers shared by team, department and
// organization views.
type InterviewStats struct {
	Summary        scoring.Summary         `json:"summary"`
	MetricAverages map[string]float64      `json:"metric_averages"`
	TopPerformers  []models.InterviewScore `json:"top_performers"`
}

// TeamInterviewStats returns aggregates over a team's interview records.
func (s *InterviewService) TeamInterviewStats(organization string, teamID uint) (*InterviewStats, error) {
	if _, err := s.teamRepo.FindByID(organization, teamID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team: %w", err)
	}

	scores, err := s.interviewRepo.ListByTeam(organization, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team interviews: %w", err)
	}

	return &InterviewStats{
		Summary:        scoring.Summarize(scores),
		MetricAverages: scoring.MetricAverages(scores),
		TopPerformers:  scoring.TopPerformers(scores, constants.MaxTopPerformers),
	}, nil
}

// DepartmentInterviewStats returns aggregates over the interview records of a
// department's students. Only scored students count toward TotalStudents.
func (s *InterviewService) DepartmentInterviewStats(organization string, departmentID uint) (*InterviewStats, error) {
	if _, err := s.deptRepo.FindByID(organization, departmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("failed to find department: %w", err)
	}

	students, _, err := s.studentRepo.List(organization, repository.StudentFilter{DepartmentID: &departmentID})
	if err != nil {
		return nil, fmt.Errorf("failed to list department students: %w", err)
	}
	studentIDs := make([]uint, 0, len(students))
	for _, st := range students {
		studentIDs = append(studentIDs, st.ID)
	}

	scores, err := s.interviewRepo.ListByStudentIDs(organization, studentIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list department interviews: %w", err)
	}

	return &InterviewStats{
		Summary:        scoring.Summarize(scores),
		MetricAverages: scoring.MetricAverages(scores),
		TopPerformers:  scoring.TopPerformers(scores, constants.MaxTopPerformers),
	}, nil
}

// InterviewOverview is the organization-wide interview report.
type InterviewOverview struct {
	InterviewStats
	DepartmentRollup []scoring.DepartmentGroup `json:"department_rollup"`
}

// OrganizationOverview returns interview aggregates across the whole
// organization, including the per-department roll-up.
func (s *InterviewService) OrganizationOverview(organization string) (*InterviewOverview, error) {
	scores, err := s.interviewRepo.ListByOrganization(organization, "Student", "Student.Department")
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}

	departmentNames := make(map[uint]string, len(scores))
	for _, sc := range scores {
		if sc.Student != nil && sc.Student.Department != nil {
			departmentNames[sc.StudentID] = sc.Student.Department.Name
		}
	}

	return &InterviewOverview{
		InterviewStats: InterviewStats{
			Summary:        scoring.Summarize(scores),
			MetricAverages: scoring.MetricAverages(scores),
			TopPerformers:  scoring.TopPerformers(scores, constants.MaxTopPerformers),
		},
		DepartmentRollup: scoring.DepartmentRollup(scores, func(studentID uint) string {
			return departmentNames[studentID]
		}),
	}, nil
}

// InviteInput represents an interview invitation request.
type InviteInput struct {
	StudentID     uint
	Email         string
	InterviewTime time.Time
}

// SendInvite emails an interview invitation carrying the student's display
// name and a formatted time string; delivery itself is the sender's concern.
func (s *InterviewService) SendInvite(organization string, input InviteInput) error {
	student, err := s.studentRepo.FindByID(organization, input.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return fmt.Errorf("failed to find student: %w", err)
	}

	formatted := input.InterviewTime.Format("Monday, 2 January 2006 at 3:04 PM")
	if err := s.inviteSender.SendInterviewInvite(input.Email, student.Name, formatted); err != nil {
		return fmt.Errorf("failed to send invite: %w", err)
	}
	return nil
}

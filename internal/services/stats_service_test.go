package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/teamtrackr/project-tracker/internal/database"
	"github.com/teamtrackr/project-tracker/internal/models"
	"github.com/teamtrackr/project-tracker/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type statsTestEnv struct {
	db      *gorm.DB
	service *StatsService
}

func setupStatsTestEnv(t *testing.T) statsTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Department{},
		&models.Team{},
		&models.Student{},
		&models.InterviewScore{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	service := NewStatsService(
		repository.NewTeamRepository(db),
		repository.NewStudentRepository(db),
		repository.NewDepartmentRepository(db),
	)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return statsTestEnv{db: db, service: service}
}

func (env statsTestEnv) createTeam(t *testing.T, org, domain string, teamNumber int, checkpoints models.CheckpointList) *models.Team {
	t.Helper()
	if checkpoints == nil {
		checkpoints = DefaultCheckpoints()
	}
	team := &models.Team{
		TeamNumber:   teamNumber,
		ProjectTitle: "Project",
		Domain:       domain,
		Checkpoints:  checkpoints,
		Completed:    checkpoints.AllCompleted(),
		Organization: org,
	}
	require.NoError(t, env.db.Create(team).Error)
	return team
}

func (env statsTestEnv) createStudent(t *testing.T, org, name string, deptID, teamID *uint) *models.Student {
	t.Helper()
	student := &models.Student{
		Name:         name,
		DepartmentID: deptID,
		TeamID:       teamID,
		Organization: org,
	}
	require.NoError(t, env.db.Create(student).Error)
	return student
}

func tickedCheckpoints(n int) models.CheckpointList {
	list := DefaultCheckpoints()
	for i := 0; i < n && i < len(list); i++ {
		list[i].Completed = true
	}
	return list
}

func TestOrganizationSnapshot(t *testing.T) {
	env := setupStatsTestEnv(t)

	dept := &models.Department{Name: "CSE", Organization: "acme"}
	require.NoError(t, env.db.Create(dept).Error)

	web := env.createTeam(t, "acme", "Web", 1, tickedCheckpoints(4))
	ml := env.createTeam(t, "acme", "", 2, nil)
	env.createStudent(t, "acme", "Alice", &dept.ID, &web.ID)
	env.createStudent(t, "acme", "Bob", nil, &web.ID)
	env.createStudent(t, "acme", "Carol", nil, &ml.ID)
	env.createStudent(t, "acme", "Dave", nil, nil)

	// Another organization's rows must not leak in
	env.createTeam(t, "other-org", "Web", 1, nil)
	env.createStudent(t, "other-org", "Eve", nil, nil)

	snapshot, err := env.service.OrganizationSnapshot("acme")
	require.NoError(t, err)

	require.Equal(t, 4, snapshot.TotalStudents)
	require.Equal(t, 2, snapshot.TotalTeams)
	require.Equal(t, 1, snapshot.TotalDepartments)
	require.Equal(t, 1, snapshot.CompletedTeams)
	require.Equal(t, 1, snapshot.IncompleteTeams)
	require.Equal(t, 2, snapshot.StudentsPerDomain["Web"])
	require.Equal(t, 1, snapshot.StudentsPerDomain["No Domain"])
}

func TestDepartmentBreakdown_TeamCountedOncePerDepartment(t *testing.T) {
	env := setupStatsTestEnv(t)

	cse := &models.Department{Name: "CSE", Organization: "acme"}
	ece := &models.Department{Name: "ECE", Organization: "acme"}
	require.NoError(t, env.db.Create(cse).Error)
	require.NoError(t, env.db.Create(ece).Error)

	team := env.createTeam(t, "acme", "Web", 1, tickedCheckpoints(4))
	env.createStudent(t, "acme", "Alice", &cse.ID, &team.ID)
	env.createStudent(t, "acme", "Bob", &cse.ID, &team.ID)
	env.createStudent(t, "acme", "Carol", &ece.ID, &team.ID)

	rows, err := env.service.DepartmentBreakdown("acme")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byName := map[string]DepartmentCompletion{}
	for _, row := range rows {
		byName[row.DepartmentName] = row
	}

	// Two CSE members on one team: the team counts once, the students twice
	require.Equal(t, 1, byName["CSE"].TeamCount)
	require.Equal(t, 2, byName["CSE"].StudentCount)
	require.Equal(t, 1, byName["CSE"].CompletedTeams)
	require.Equal(t, 1, byName["ECE"].TeamCount)
	require.Equal(t, 1, byName["ECE"].StudentCount)
}

func TestTeamListing_RankedByTickedCheckpoints(t *testing.T) {
	env := setupStatsTestEnv(t)

	env.createTeam(t, "acme", "Web", 1, tickedCheckpoints(1))
	env.createTeam(t, "acme", "Web", 2, tickedCheckpoints(3))
	env.createTeam(t, "acme", "ML", 3, tickedCheckpoints(2))

	ranked, err := env.service.TeamListing("acme", TeamListingFilter{})
	require.NoError(t, err)
	require.Len(t, ranked, 3)

	require.Equal(t, 3, ranked[0].Ticked)
	require.Equal(t, 2, ranked[0].TeamNumber)
	require.Equal(t, 2, ranked[1].Ticked)
	require.Equal(t, 1, ranked[2].Ticked)
}

func TestTeamListing_CompletedFilter(t *testing.T) {
	env := setupStatsTestEnv(t)

	env.createTeam(t, "acme", "Web", 1, tickedCheckpoints(4))
	env.createTeam(t, "acme", "Web", 2, tickedCheckpoints(2))

	completed := true
	ranked, err := env.service.TeamListing("acme", TeamListingFilter{Completed: &completed})
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	require.Equal(t, 1, ranked[0].TeamNumber)

	completed = false
	ranked, err = env.service.TeamListing("acme", TeamListingFilter{Completed: &completed})
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	require.Equal(t, 2, ranked[0].TeamNumber)
}

func TestTeamListing_DepartmentFilter(t *testing.T) {
	env := setupStatsTestEnv(t)

	cse := &models.Department{Name: "CSE", Organization: "acme"}
	require.NoError(t, env.db.Create(cse).Error)

	inDept := env.createTeam(t, "acme", "Web", 1, nil)
	env.createTeam(t, "acme", "Web", 2, nil)
	env.createStudent(t, "acme", "Alice", &cse.ID, &inDept.ID)

	ranked, err := env.service.TeamListing("acme", TeamListingFilter{DepartmentID: &cse.ID})
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	require.Equal(t, 1, ranked[0].TeamNumber)
}

func TestTeamListing_UnknownDepartment(t *testing.T) {
	env := setupStatsTestEnv(t)

	missing := uint(9999)
	_, err := env.service.TeamListing("acme", TeamListingFilter{DepartmentID: &missing})
	require.ErrorIs(t, err, ErrDepartmentNotFound)
}

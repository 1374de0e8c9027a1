package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/teamtrackr/project-tracker/internal/constants"
	"github.com/teamtrackr/project-tracker/internal/database"
	"github.com/teamtrackr/project-tracker/internal/email"
	"github.com/teamtrackr/project-tracker/internal/models"
	"github.com/teamtrackr/project-tracker/internal/repository"
	"github.com/teamtrackr/project-tracker/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InterviewHandlerTestSuite defines the test suite for InterviewHandler
type InterviewHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *InterviewHandler
}

// SetupTest runs before each test
func (suite *InterviewHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Department{},
		&models.Team{},
		&models.Student{},
		&models.InterviewScore{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	deptRepo := repository.NewDepartmentRepository(suite.db)
	studentRepo := repository.NewStudentRepository(suite.db)
	teamRepo := repository.NewTeamRepository(suite.db)
	interviewRepo := repository.NewInterviewRepository(suite.db)

	// Unconfigured sender logs instead of dialing SMTP
	inviteSender := email.NewInviteSender(email.SMTPConfig{}, zerolog.Nop())

	interviewService := services.NewInterviewService(interviewRepo, studentRepo, teamRepo, deptRepo, inviteSender)
	teamService := services.NewTeamService(teamRepo, studentRepo, deptRepo, interviewRepo)
	suite.handler = NewInterviewHandler(interviewService, teamService)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *InterviewHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *InterviewHandlerTestSuite) createTestDepartment(org, name string) *models.Department {
	dept := &models.Department{Name: name, Organization: org}
	suite.db.Create(dept)
	return dept
}

func (suite *InterviewHandlerTestSuite) createTestTeam(org string, teamNumber int) *models.Team {
	team := &models.Team{
		TeamNumber:   teamNumber,
		ProjectTitle: "Test Project",
		Checkpoints:  services.DefaultCheckpoints(),
		Organization: org,
	}
	suite.db.Create(team)
	return team
}

func (suite *InterviewHandlerTestSuite) createTestStudent(org, name string, deptID, teamID *uint) *models.Student {
	student := &models.Student{
		Name:         name,
		DepartmentID: deptID,
		TeamID:       teamID,
		Organization: org,
	}
	suite.db.Create(student)
	return student
}

// Helper function to create authenticated context
func (suite *InterviewHandlerTestSuite) createAuthContext(method, url string, body []byte, org string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, uint(1))
	c.Set(constants.ContextKeyOrganization, org)

	return c, w
}

// TestUpsertInterview_CreatesRecord tests the first submission for a student
func (suite *InterviewHandlerTestSuite) TestUpsertInterview_CreatesRecord() {
	student := suite.createTestStudent("acme", "Alice", nil, nil)

	requestBody := map[string]interface{}{
		"student_id": student.ID,
		"metrics": map[string]int{
			"selfIntro":     8,
			"communication": 6,
		},
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/interviews", body, "acme")

	suite.handler.UpsertInterview(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response models.InterviewScore
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 14, response.TotalScore)
	assert.Equal(suite.T(), 7.0, response.AverageScore)
}

// TestUpsertInterview_MergesIntoSingleRow tests that a second submission
// merges metrics instead of creating another record
func (suite *InterviewHandlerTestSuite) TestUpsertInterview_MergesIntoSingleRow() {
	student := suite.createTestStudent("acme", "Alice", nil, nil)

	first := map[string]interface{}{
		"student_id": student.ID,
		"metrics":    map[string]int{"selfIntro": 8, "communication": 6},
	}
	body, _ := json.Marshal(first)
	c, w := suite.createAuthContext("POST", "/api/interviews", body, "acme")
	suite.handler.UpsertInterview(c)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	second := map[string]interface{}{
		"student_id": student.ID,
		"metrics":    map[string]int{"selfIntro": 4, "dsa": 9},
	}
	body, _ = json.Marshal(second)
	c, w = suite.createAuthContext("POST", "/api/interviews", body, "acme")
	suite.handler.UpsertInterview(c)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var rows []models.InterviewScore
	suite.db.Find(&rows)
	assert.Len(suite.T(), rows, 1)

	// selfIntro overwritten, communication kept, dsa added
	assert.Equal(suite.T(), 4, rows[0].Metrics["selfIntro"])
	assert.Equal(suite.T(), 6, rows[0].Metrics["communication"])
	assert.Equal(suite.T(), 9, rows[0].Metrics["dsa"])
	assert.Equal(suite.T(), 19, rows[0].TotalScore)
	assert.Equal(suite.T(), 6.33, rows[0].AverageScore)
}

// TestUpsertInterview_UnknownMetric tests rejection of a metric name outside
// the fixed set
func (suite *InterviewHandlerTestSuite) TestUpsertInterview_UnknownMetric() {
	student := suite.createTestStudent("acme", "Alice", nil, nil)

	requestBody := map[string]interface{}{
		"student_id": student.ID,
		"metrics":    map[string]int{"charisma": 5},
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/interviews", body, "acme")

	suite.handler.UpsertInterview(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestUpsertInterview_ValueOutOfRange tests value bounds
func (suite *InterviewHandlerTestSuite) TestUpsertInterview_ValueOutOfRange() {
	student := suite.createTestStudent("acme", "Alice", nil, nil)

	requestBody := map[string]interface{}{
		"student_id": student.ID,
		"metrics":    map[string]int{"dsa": 11},
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/interviews", body, "acme")

	suite.handler.UpsertInterview(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestUpsertInterview_StudentNotFound tests submission for a missing student
func (suite *InterviewHandlerTestSuite) TestUpsertInterview_StudentNotFound() {
	requestBody := map[string]interface{}{
		"student_id": 9999,
		"metrics":    map[string]int{"dsa": 5},
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/interviews", body, "acme")

	suite.handler.UpsertInterview(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestUpsertInterview_TeamNotFound tests that a submission naming a team the
// organization does not have is rejected before anything is stored
func (suite *InterviewHandlerTestSuite) TestUpsertInterview_TeamNotFound() {
	student := suite.createTestStudent("acme", "Alice", nil, nil)

	requestBody := map[string]interface{}{
		"student_id": student.ID,
		"team_id":    999,
		"metrics":    map[string]int{"selfIntro": 8},
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/interviews", body, "acme")

	suite.handler.UpsertInterview(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	var count int64
	suite.db.Model(&models.InterviewScore{}).Count(&count)
	assert.Equal(suite.T(), int64(0), count)
}

// TestUpsertInterview_TeamInOtherOrganization tests that another
// organization's team does not satisfy the reference check
func (suite *InterviewHandlerTestSuite) TestUpsertInterview_TeamInOtherOrganization() {
	student := suite.createTestStudent("acme", "Alice", nil, nil)
	foreign := suite.createTestTeam("other-org", 1)

	requestBody := map[string]interface{}{
		"student_id": student.ID,
		"team_id":    foreign.ID,
		"metrics":    map[string]int{"selfIntro": 8},
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/interviews", body, "acme")

	suite.handler.UpsertInterview(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestUpsertTeamInterviews tests the team bulk upsert
func (suite *InterviewHandlerTestSuite) TestUpsertTeamInterviews() {
	team := suite.createTestTeam("acme", 1)
	alice := suite.createTestStudent("acme", "Alice", nil, &team.ID)
	bob := suite.createTestStudent("acme", "Bob", nil, &team.ID)

	requestBody := map[string]interface{}{
		"entries": []map[string]interface{}{
			{"student_id": alice.ID, "metrics": map[string]int{"dsa": 7}},
			{"student_id": bob.ID, "metrics": map[string]int{"dsa": 9}},
		},
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/interviews/team/1", body, "acme")
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.UpsertTeamInterviews(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var rows []models.InterviewScore
	suite.db.Find(&rows)
	assert.Len(suite.T(), rows, 2)
	for _, row := range rows {
		suite.Require().NotNil(row.TeamID)
		assert.Equal(suite.T(), team.ID, *row.TeamID)
	}
}

// TestGetStudentInterview_NotScored tests retrieval for a student without a
// record
func (suite *InterviewHandlerTestSuite) TestGetStudentInterview_NotScored() {
	suite.createTestStudent("acme", "Alice", nil, nil)

	c, w := suite.createAuthContext("GET", "/api/interviews/student/1", nil, "acme")
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.GetStudentInterview(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestTeamInterviewStats tests team-level aggregates
func (suite *InterviewHandlerTestSuite) TestTeamInterviewStats() {
	team := suite.createTestTeam("acme", 1)
	alice := suite.createTestStudent("acme", "Alice", nil, &team.ID)
	bob := suite.createTestStudent("acme", "Bob", nil, &team.ID)

	suite.db.Create(&models.InterviewScore{
		StudentID: alice.ID, TeamID: &team.ID, Organization: "acme",
		Metrics: models.MetricSet{"dsa": 8}, TotalScore: 8, AverageScore: 8,
	})
	suite.db.Create(&models.InterviewScore{
		StudentID: bob.ID, TeamID: &team.ID, Organization: "acme",
		Metrics: models.MetricSet{"dsa": 6}, TotalScore: 6, AverageScore: 6,
	})

	c, w := suite.createAuthContext("GET", "/api/interviews/team/1", nil, "acme")
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.GetTeamInterviewStats(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)

	summary := response["summary"].(map[string]interface{})
	assert.Equal(suite.T(), float64(2), summary["total_students"])
	assert.Equal(suite.T(), float64(7), summary["average_total_score"])
	assert.Equal(suite.T(), float64(8), summary["highest_score"])
	assert.Equal(suite.T(), float64(6), summary["lowest_score"])

	performers := response["top_performers"].([]interface{})
	suite.Require().Len(performers, 2)
	best := performers[0].(map[string]interface{})
	assert.Equal(suite.T(), float64(8), best["total_score"])
}

// TestDepartmentInterviewStats tests the department aggregate flow end to
// end: department, student, one scored interview
func (suite *InterviewHandlerTestSuite) TestDepartmentInterviewStats() {
	dept := suite.createTestDepartment("acme", "CSE")
	alice := suite.createTestStudent("acme", "Alice", &dept.ID, nil)
	suite.createTestStudent("acme", "Bob", nil, nil)

	suite.db.Create(&models.InterviewScore{
		StudentID: alice.ID, Organization: "acme",
		Metrics: models.MetricSet{"selfIntro": 8, "communication": 6}, TotalScore: 14, AverageScore: 7,
	})

	c, w := suite.createAuthContext("GET", "/api/interviews/department/1", nil, "acme")
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	suite.handler.GetDepartmentInterviewStats(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)

	summary := response["summary"].(map[string]interface{})
	assert.Equal(suite.T(), float64(1), summary["total_students"])
	assert.Equal(suite.T(), float64(14), summary["average_total_score"])

	// Unscored metrics still appear with a zero average
	averages := response["metric_averages"].(map[string]interface{})
	assert.Equal(suite.T(), float64(8), averages["selfIntro"])
	assert.Equal(suite.T(), float64(6), averages["communication"])
	assert.Equal(suite.T(), float64(0), averages["dsa"])
	assert.Len(suite.T(), averages, len(constants.MetricNames))
}

// TestDepartmentInterviewStats_NotFound tests aggregates for a missing
// department
func (suite *InterviewHandlerTestSuite) TestDepartmentInterviewStats_NotFound() {
	c, w := suite.createAuthContext("GET", "/api/interviews/department/9999", nil, "acme")
	c.Params = gin.Params{{Key: "id", Value: "9999"}}

	suite.handler.GetDepartmentInterviewStats(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestGetOverview tests the organization-wide report with department roll-up
func (suite *InterviewHandlerTestSuite) TestGetOverview() {
	dept := suite.createTestDepartment("acme", "CSE")
	alice := suite.createTestStudent("acme", "Alice", &dept.ID, nil)
	bob := suite.createTestStudent("acme", "Bob", nil, nil)

	suite.db.Create(&models.InterviewScore{
		StudentID: alice.ID, Organization: "acme",
		Metrics: models.MetricSet{"dsa": 8}, TotalScore: 8, AverageScore: 8,
	})
	suite.db.Create(&models.InterviewScore{
		StudentID: bob.ID, Organization: "acme",
		Metrics: models.MetricSet{"dsa": 6}, TotalScore: 6, AverageScore: 6,
	})

	c, w := suite.createAuthContext("GET", "/api/interviews/overview", nil, "acme")

	suite.handler.GetOverview(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)

	rollup := response["department_rollup"].([]interface{})
	suite.Require().Len(rollup, 2)

	byName := map[string]map[string]interface{}{}
	for _, entry := range rollup {
		group := entry.(map[string]interface{})
		byName[group["department"].(string)] = group
	}
	assert.Contains(suite.T(), byName, "CSE")
	assert.Contains(suite.T(), byName, constants.UnknownDepartment)
	assert.Equal(suite.T(), float64(8), byName["CSE"]["average_total_score"])
}

// TestSendInvite tests the invitation endpoint with the log-only sender
func (suite *InterviewHandlerTestSuite) TestSendInvite() {
	student := suite.createTestStudent("acme", "Alice", nil, nil)

	requestBody := map[string]interface{}{
		"student_id":     student.ID,
		"email":          "alice@example.com",
		"interview_time": "2026-09-14T10:30:00Z",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/interviews/invite", body, "acme")

	suite.handler.SendInvite(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
}

// TestSuite runs the test suite
func TestInterviewHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(InterviewHandlerTestSuite))
}

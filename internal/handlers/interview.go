package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/teamtrackr/project-tracker/internal/errors"
	"github.com/teamtrackr/project-tracker/internal/middleware"
	"github.com/teamtrackr/project-tracker/internal/models"
	"github.com/teamtrackr/project-tracker/internal/services"
)

type InterviewHandler struct {
	interviewService *services.InterviewService
	teamService      *services.TeamService
}

func NewInterviewHandler(interviewService *services.InterviewService, teamService *services.TeamService) *InterviewHandler {
	return &InterviewHandler{
		interviewService: interviewService,
		teamService:      teamService,
	}
}

// UpsertInterview merges metrics into a student's interview record
func (h *InterviewHandler) UpsertInterview(c *gin.Context) {
	organization, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type UpsertRequest struct {
		StudentID uint             `json:"student_id" binding:"required"`
		TeamID    *uint            `json:"team_id"`
		Metrics   models.MetricSet `json:"metrics" binding:"required"`
	}

	var req UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	// The upsert itself does not check the team reference; a supplied team
	// must be resolved here so no record ever points at a team that does not
	// exist in the organization.
	if req.TeamID != nil {
		if _, err := h.teamService.GetTeam(organization, *req.TeamID); err != nil {
			if errors.Is(err, services.ErrTeamNotFound) {
				apierrors.NotFound(c, "Team not found")
				return
			}
			apierrors.InternalError(c, "Failed to save interview")
			return
		}
	}

	score, err := h.interviewService.UpsertInterview(organization, services.UpsertInterviewInput{
		StudentID: req.StudentID,
		TeamID:    req.TeamID,
		Metrics:   req.Metrics,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrStudentNotFound):
			apierrors.NotFound(c, "Student not found")
		case errors.Is(err, services.ErrUnknownMetric),
			errors.Is(err, services.ErrMetricValueOutOfRange):
			apierrors.BadRequest(c, err.Error())
		default:
			apierrors.InternalError(c, "Failed to save interview")
		}
		return
	}

	c.JSON(http.StatusOK, score)
}

// UpsertTeamInterviews upserts records for several members of one team
func (h *InterviewHandler) UpsertTeamInterviews(c *gin.Context) {
	organization, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	teamID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid team ID")
		return
	}

	type TeamUpsertRequest struct {
		Entries []struct {
			StudentID uint             `json:"student_id" binding:"required"`
			Metrics   models.MetricSet `json:"metrics" binding:"required"`
		} `json:"entries" binding:"required"`
	}

	var req TeamUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	entries := make([]services.TeamInterviewEntry, len(req.Entries))
	for i, e := range req.Entries {
		entries[i] = services.TeamInterviewEntry{StudentID: e.StudentID, Metrics: e.Metrics}
	}

	scores, err := h.interviewService.UpsertTeamInterviews(organization, uint(teamID), entries)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTeamNotFound):
			apierrors.NotFound(c, "Team not found")
		case errors.Is(err, services.ErrStudentNotFound):
			apierrors.NotFound(c, "Student not found")
		case errors.Is(err, services.ErrNoInterviewEntries):
			apierrors.BadRequest(c, "At least one entry is required")
		case errors.Is(err, services.ErrUnknownMetric),
			errors.Is(err, services.ErrMetricValueOutOfRange):
			apierrors.BadRequest(c, err.Error())
		default:
			apierrors.InternalError(c, "Failed to save interviews")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"scores": scores})
}

// GetStudentInterview returns one student's interview record
func (h *InterviewHandler) GetStudentInterview(c *gin.Context) {
	organization, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	studentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid student ID")
		return
	}

	score, err := h.interviewService.GetStudentInterview(organization, uint(studentID))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrStudentNotFound):
			apierrors.NotFound(c, "Student not found")
		case errors.Is(err, services.ErrInterviewNotFound):
			apierrors.NotFound(c, "No interview record for student")
		default:
			apierrors.InternalError(c, "Failed to load interview")
		}
		return
	}

	c.JSON(http.StatusOK, score)
}

// ListInterviews returns every interview record in the organization
func (h *InterviewHandler) ListInterviews(c *gin.Context) {
	organization, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	scores, err := h.interviewService.ListInterviews(organization)
	if err != nil {
		apierrors.InternalError(c, "Failed to list interviews")
		return
	}

	c.JSON(http.StatusOK, gin.H{"interviews": scores})
}

// GetTeamInterviewStats returns aggregates for one team
func (h *InterviewHandler) GetTeamInterviewStats(c *gin.Context) {
	organization, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	teamID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid team ID")
		return
	}

	stats, err := h.interviewService.TeamInterviewStats(organization, uint(teamID))
	if err != nil {
		if errors.Is(err, services.ErrTeamNotFound) {
			apierrors.NotFound(c, "Team not found")
			return
		}
		apierrors.InternalError(c, "Failed to compute team stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetDepartmentInterviewStats returns aggregates for one department
func (h *InterviewHandler) GetDepartmentInterviewStats(c *gin.Context) {
	organization, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	deptID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid department ID")
		return
	}

	stats, err := h.interviewService.DepartmentInterviewStats(organization, uint(deptID))
	if err != nil {
		if errors.Is(err, services.ErrDepartmentNotFound) {
			apierrors.NotFound(c, "Department not found")
			return
		}
		apierrors.InternalError(c, "Failed to compute department stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetOverview returns the organization-wide interview report
func (h *InterviewHandler) GetOverview(c *gin.Context) {
	organization, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	overview, err := h.interviewService.OrganizationOverview(organization)
	if err != nil {
		apierrors.InternalError(c, "Failed to compute overview")
		return
	}

	c.JSON(http.StatusOK, overview)
}

// SendInvite emails an interview invitation to a student
func (h *InterviewHandler) SendInvite(c *gin.Context) {
	organization, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type InviteRequest struct {
		StudentID     uint      `json:"student_id" binding:"required"`
		Email         string    `json:"email" binding:"required,email"`
		InterviewTime time.Time `json:"interview_time" binding:"required"`
	}

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	err := h.interviewService.SendInvite(organization, services.InviteInput{
		StudentID:     req.StudentID,
		Email:         req.Email,
		InterviewTime: req.InterviewTime,
	})
	if err != nil {
		if errors.Is(err, services.ErrStudentNotFound) {
			apierrors.NotFound(c, "Student not found")
			return
		}
		apierrors.InternalError(c, "Failed to send invite")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Invite sent"})
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/teamtrackr/project-tracker/internal/dto"
	apierrors "github.com/teamtrackr/project-tracker/internal/errors"
	"github.com/teamtrackr/project-tracker/internal/middleware"
	"github.com/teamtrackr/project-tracker/internal/models"
	"github.com/teamtrackr/project-tracker/internal/services"
)

type TeamHandler struct {
	teamService *services.TeamService
}

func NewTeamHandler(teamService *services.TeamService) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
	}
}

type embeddedStudentRequest struct {
	Name             string `json:"name" binding:"required"`
	DepartmentID     *uint  `json:"department_id"`
	Role             string `json:"role"`
	ResumeURL        string `json:"resume_url"`
	RegisteredNumber string `json:"registered_number"`
}

// CreateTeam creates a team together with its (new) member students
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	organization, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTeamRequest struct {
		TeamNumber         int                      `json:"team_number"`
		ProjectTitle       string                   `json:"project_title"`
		ProjectDescription string                   `json:"project_description"`
		Domain             string                   `json:"domain"`
		GithubURL          string                   `json:"github_url"`
		HostedURL          string                   `json:"hosted_url"`
		Checkpoints        []models.Checkpoint      `json:"checkpoints"`
		Students           []embeddedStudentRequest `json:"students"`
	}

	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.CreateTeamInput{
		TeamNumber:         req.TeamNumber,
		ProjectTitle:       req.ProjectTitle,
		ProjectDescription: req.ProjectDescription,
		Domain:             req.Domain,
		GithubURL:          req.GithubURL,
		HostedURL:          req.HostedURL,
		Checkpoints:        req.Checkpoints,
	}
	for _, st := range req.Students {
		input.Students = append(input.Students, services.EmbeddedStudentInput{
			Name:             st.Name,
			DepartmentID:     st.DepartmentID,
			Role:             st.Role,
			ResumeURL:        st.ResumeURL,
			RegisteredNumber: st.RegisteredNumber,
		})
	}

	team, err := h.teamService.CreateTeam(organization, input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrStudentNameRequired):
			apierrors.BadRequest(c, "Every team member needs a name")
		case errors.Is(err, services.ErrStudentDepartmentNotFound):
			apierrors.NotFound(c, "Department not found")
		case errors.Is(err, services.ErrDuplicateRegisteredNumber):
			apierrors.DuplicateKey(c, "Registered number already exists in this organization")
		default:
			apierrors.InternalError(c, "Failed to create team")
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToTeamDTO(*team))
}

// ListTeams returns all teams with their students
func (h *TeamHandler) ListTeams(c *gin.Context) {
	organization, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	teams, err := h.teamService.ListTeams(organization)
	if err != nil {
		apierrors.InternalError(c, "Failed to list teams")
		return
	}

	c.JSON(http.StatusOK, gin.H{"teams": dto.ToTeamDTOs(teams)})
}

// GetTeam returns one team
func (h *TeamHandler) GetTeam(c *gin.Context) {
	organization, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid team ID")
		return
	}

	team, err := h.teamService.GetTeam(organization, uint(id))
	if err != nil {
		if errors.Is(err, services.ErrTeamNotFound) {
			apierrors.NotFound(c, "Team not found")
			return
		}
		apierrors.InternalError(c, "Failed to load team")
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamDTO(*team))
}

// UpdateTeam applies a partial update to details and URLs
func (h *TeamHandler) UpdateTeam(c *gin.Context) {
	organization, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid team ID")
		return
	}

	type UpdateTeamRequest struct {
		ProjectTitle       *string `json:"project_title"`
		ProjectDescription *string `json:"project_description"`
		Domain             *string `json:"domain"`
		GithubURL          *string `json:"github_url"`
		HostedURL          *string `json:"hosted_url"`
	}

	var req UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	team, err := h.teamService.UpdateTeam(organization, uint(id), services.UpdateTeamInput{
		ProjectTitle:       req.ProjectTitle,
		ProjectDescription: req.ProjectDescription,
		Domain:             req.Domain,
		GithubURL:          req.GithubURL,
		HostedURL:          req.HostedURL,
	})
	if err != nil {
		if errors.Is(err, services.ErrTeamNotFound) {
			apierrors.NotFound(c, "Team not found")
			return
		}
		apierrors.InternalError(c, "Failed to update team")
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamDTO(*team))
}

// UpdateCheckpoint toggles one checkpoint
func (h *TeamHandler) UpdateCheckpoint(c *gin.Context) {
	organization, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid team ID")
		return
	}

	type CheckpointRequest struct {
		Index     *int `json:"index" binding:"required"`
		Completed bool `json:"completed"`
	}

	var req CheckpointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	team, err := h.teamService.UpdateCheckpoint(organization, uint(id), *req.Index, req.Completed)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTeamNotFound):
			apierrors.NotFound(c, "Team not found")
		case errors.Is(err, services.ErrCheckpointIndexOutOfRange):
			apierrors.BadRequest(c, "Checkpoint index out of range")
		default:
			apierrors.InternalError(c, "Failed to update checkpoint")
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamDTO(*team))
}

// UpdateCheckpointsBulk applies several checkpoint updates at once
func (h *TeamHandler) UpdateCheckpointsBulk(c *gin.Context) {
	organization, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid team ID")
		return
	}

	type BulkCheckpointRequest struct {
		Checkpoints []struct {
			Index     int  `json:"index"`
			Completed bool `json:"completed"`
		} `json:"checkpoints" binding:"required"`
	}

	var req BulkCheckpointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updates := make([]services.CheckpointUpdate, len(req.Checkpoints))
	for i, u := range req.Checkpoints {
		updates[i] = services.CheckpointUpdate{Index: u.Index, Completed: u.Completed}
	}

	team, err := h.teamService.UpdateCheckpointsBulk(organization, uint(id), updates)
	if err != nil {
		if errors.Is(err, services.ErrTeamNotFound) {
			apierrors.NotFound(c, "Team not found")
			return
		}
		apierrors.InternalError(c, "Failed to update checkpoints")
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamDTO(*team))
}

// DeleteTeam removes a team with full cascade
func (h *TeamHandler) DeleteTeam(c *gin.Context) {
	organization, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid team ID")
		return
	}

	if err := h.teamService.DeleteTeam(organization, uint(id)); err != nil {
		if errors.Is(err, services.ErrTeamNotFound) {
			apierrors.NotFound(c, "Team not found")
			return
		}
		apierrors.InternalError(c, "Failed to delete team")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Team deleted"})
}

// DeleteTeamsBulk removes multiple teams with full cascade
func (h *TeamHandler) DeleteTeamsBulk(c *gin.Context) {
	organization, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type BulkDeleteRequest struct {
		TeamIDs []uint `json:"team_ids" binding:"required"`
	}

	var req BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.teamService.DeleteTeamsBulk(organization, req.TeamIDs); err != nil {
		if errors.Is(err, services.ErrNoTeamIDsProvided) {
			apierrors.BadRequest(c, "At least one team ID is required")
			return
		}
		apierrors.InternalError(c, "Failed to delete teams")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Teams deleted"})
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/teamtrackr/project-tracker/internal/errors"
	"github.com/teamtrackr/project-tracker/internal/middleware"
	"github.com/teamtrackr/project-tracker/internal/services"
)

type StatsHandler struct {
	statsService *services.StatsService
}

func NewStatsHandler(statsService *services.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

// GetSnapshot returns the organization-wide dashboard summary
func (h *StatsHandler) GetSnapshot(c *gin.Context) {
	organization, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	snapshot, err := h.statsService.OrganizationSnapshot(organization)
	if err != nil {
		apierrors.InternalError(c, "Failed to compute snapshot")
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// GetDepartmentBreakdown returns the per-department completion breakdown
func (h *StatsHandler) GetDepartmentBreakdown(c *gin.Context) {
	organization, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	rows, err := h.statsService.DepartmentBreakdown(organization)
	if err != nil {
		apierrors.InternalError(c, "Failed to compute department breakdown")
		return
	}

	c.JSON(http.StatusOK, gin.H{"departments": rows})
}

// GetTeamListing returns the filtered, checkpoint-ranked team listing
func (h *StatsHandler) GetTeamListing(c *gin.Context) {
	organization, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	filter := services.TeamListingFilter{}
	if completedStr := c.Query("completed"); completedStr != "" {
		completed, err := strconv.ParseBool(completedStr)
		if err != nil {
			apierrors.BadRequest(c, "Invalid completed filter")
			return
		}
		filter.Completed = &completed
	}
	if deptStr := c.Query("department_id"); deptStr != "" {
		deptID, err := strconv.ParseUint(deptStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid department_id")
			return
		}
		id := uint(deptID)
		filter.DepartmentID = &id
	}

	teams, err := h.statsService.TeamListing(organization, filter)
	if err != nil {
		if errors.Is(err, services.ErrDepartmentNotFound) {
			apierrors.NotFound(c, "Department not found")
			return
		}
		apierrors.InternalError(c, "Failed to list teams")
		return
	}

	c.JSON(http.StatusOK, gin.H{"teams": teams})
}

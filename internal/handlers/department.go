package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/teamtrackr/project-tracker/internal/dto"
	apierrors "github.com/teamtrackr/project-tracker/internal/errors"
	"github.com/teamtrackr/project-tracker/internal/middleware"
	"github.com/teamtrackr/project-tracker/internal/services"
)

type DepartmentHandler struct {
	deptService  *services.DepartmentService
	statsService *services.StatsService
}

func NewDepartmentHandler(deptService *services.DepartmentService, statsService *services.StatsService) *DepartmentHandler {
	return &DepartmentHandler{
		deptService:  deptService,
		statsService: statsService,
	}
}

// CreateDepartment creates a department
func (h *DepartmentHandler) CreateDepartment(c *gin.Context) {
	organization, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateDepartmentRequest struct {
		Name string `json:"name"`
	}

	var req CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	dept, err := h.deptService.CreateDepartment(organization, req.Name)
	if err != nil {
		apierrors.InternalError(c, "Failed to create department")
		return
	}

	c.JSON(http.StatusCreated, dto.ToDepartmentDTO(*dept))
}

// ListDepartments returns all departments in the organization
func (h *DepartmentHandler) ListDepartments(c *gin.Context) {
	organization, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	depts, err := h.deptService.ListDepartments(organization)
	if err != nil {
		apierrors.InternalError(c, "Failed to list departments")
		return
	}

	out := make([]dto.DepartmentDTO, len(depts))
	for i, d := range depts {
		out[i] = dto.ToDepartmentDTO(d)
	}
	c.JSON(http.StatusOK, gin.H{"departments": out})
}

// DeleteDepartment removes a department unless students still reference it
func (h *DepartmentHandler) DeleteDepartment(c *gin.Context) {
	organization, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid department ID")
		return
	}

	if err := h.deptService.DeleteDepartment(organization, uint(id)); err != nil {
		var inUse *services.DepartmentInUseError
		switch {
		case errors.Is(err, services.ErrDepartmentNotFound):
			apierrors.NotFound(c, "Department not found")
		case errors.As(err, &inUse):
			apierrors.Conflict(c, inUse.Error())
		default:
			apierrors.InternalError(c, "Failed to delete department")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Department deleted"})
}

// DepartmentTeamCounts returns the per-department completion breakdown
func (h *DepartmentHandler) DepartmentTeamCounts(c *gin.Context) {
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

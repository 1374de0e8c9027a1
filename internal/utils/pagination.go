package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/teamtrackr/project-tracker/internal/constants"
)

// PageRequest is the page window a list endpoint was asked for.
type PageRequest struct {
	Page  int
	Limit int
}

// PageMeta echoes the applied window plus the unpaginated row count in list
// responses.
type PageMeta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// ParsePageRequest reads the page and limit query parameters, clamping both
// to the configured bounds. An out-of-range limit falls back to the default
// rather than erroring so a stale query string never breaks the dashboard.
func ParsePageRequest(c *gin.Context) PageRequest {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(constants.DefaultPageSize)))
	if limit < constants.MinPageSize || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}

	return PageRequest{Page: page, Limit: limit}
}

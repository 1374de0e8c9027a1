package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/teamtrackr/project-tracker/internal/constants"
	apierrors "github.com/teamtrackr/project-tracker/internal/errors"
)

// RequireAuth checks if the user is authenticated via session. On success the
// user ID and the organization that scopes every query are stored in the gin
// context; handlers only ever trust the organization taken from here.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get(constants.ContextKeyUserID)
		organization := session.Get(constants.ContextKeyOrganization)

		if userID == nil || organization == nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, userID)
		c.Set(constants.ContextKeyOrganization, organization)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint:
		return v, true
	case uint64:
		return uint(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint(v), true
	default:
		return 0, false
	}
}

// GetOrganization retrieves the caller's organization from context
func GetOrganization(c *gin.Context) (string, bool) {
	org, exists := c.Get(constants.ContextKeyOrganization)
	if !exists {
		return "", false
	}
	s, ok := org.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

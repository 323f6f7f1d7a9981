package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tracklite/project-tracker/internal/constants"
	"github.com/tracklite/project-tracker/internal/database"
	apierrors "github.com/tracklite/project-tracker/internal/errors"
	"github.com/tracklite/project-tracker/internal/models"
)

// RequireProjectAccess loads the project addressed by :id and verifies the
// current user owns it. Foreign projects answer 404, not 403, to avoid
// leaking their existence.
func RequireProjectAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			apierrors.BadRequest(c, "Invalid project ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var project models.Project
		if err := database.GetDB().
			Scopes(database.OwnedBy(userID)).
			First(&project, "id = ?", projectID).Error; err != nil {
			apierrors.NotFound(c, "Project not found")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyProject, project)
		c.Next()
	}
}

// GetProject retrieves the project stored by RequireProjectAccess.
func GetProject(c *gin.Context) (models.Project, bool) {
	value, exists := c.Get(constants.ContextKeyProject)
	if !exists {
		return models.Project{}, false
	}
	project, ok := value.(models.Project)
	return project, ok
}

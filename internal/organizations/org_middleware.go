package organizations

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dernekos/backend/internal/middleware"
	"github.com/dernekos/backend/pkg/response"
)

// ContextOrganizationID is the context key for the resolved organization ID.
const ContextOrganizationID = "organization_id"

// RequireOrgAccess validates that the current user is a member of the
// organization in the :id path parameter. Call after the JWT middleware.
func RequireOrgAccess(orgRepo *Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		orgID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			response.BadRequest(c, "invalid organization id")
			c.Abort()
			return
		}
		userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
		ok, _ := orgRepo.UserHasOrgAccess(c.Request.Context(), orgID, userID)
		if !ok {
			response.Forbidden(c, "not authorized for this organization")
			c.Abort()
			return
		}
		c.Set(ContextOrganizationID, orgID)
		c.Next()
	}
}

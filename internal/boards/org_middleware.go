package boards

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dernekos/backend/internal/middleware"
	"github.com/dernekos/backend/internal/organizations"
	"github.com/dernekos/backend/pkg/response"
)

// Context keys set by RequireTermOrgAccess.
const (
	ContextOrganizationID = "organization_id"
	ContextTermID         = "term_id"
	ContextBoardID        = "board_id"
)

// RequireTermOrgAccess resolves the term's board and organization, enforces
// that the current user is a member of that organization, and stores the
// resolved IDs in the gin context. Call after the JWT middleware.
func RequireTermOrgAccess(boardRepo *Repository, orgRepo *organizations.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		termID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			response.BadRequest(c, "invalid term id")
			c.Abort()
			return
		}
		term, board, err := boardRepo.GetTermWithBoard(c.Request.Context(), termID)
		if err != nil || term == nil {
			response.NotFound(c, "term not found")
			c.Abort()
			return
		}
		userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
		ok, _ := orgRepo.UserHasOrgAccess(c.Request.Context(), board.OrganizationID, userID)
		if !ok {
			response.Forbidden(c, "not authorized for this organization")
			c.Abort()
			return
		}
		c.Set(ContextOrganizationID, board.OrganizationID)
		c.Set(ContextTermID, term.ID)
		c.Set(ContextBoardID, board.ID)
		c.Next()
	}
}

package groups

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dernekos/backend/internal/models"
	"github.com/dernekos/backend/internal/organizations"
	"github.com/dernekos/backend/pkg/response"
)

// Handler handles group HTTP endpoints.
type Handler struct {
	repo *Repository
}

// NewHandler creates a groups handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// GroupRequest is the body for create/update.
type GroupRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description,omitempty"`
}

// List handles GET /organizations/:id/groups.
func (h *Handler) List(c *gin.Context) {
	orgID := c.MustGet(organizations.ContextOrganizationID).(uuid.UUID)
	list, err := h.repo.List(c.Request.Context(), orgID)
	if err != nil {
		response.Internal(c, "failed to load groups")
		return
	}
	response.OK(c, list)
}

// Create handles POST /organizations/:id/groups.
func (h *Handler) Create(c *gin.Context) {
	orgID := c.MustGet(organizations.ContextOrganizationID).(uuid.UUID)
	var req GroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	g := &models.Group{OrganizationID: orgID, Name: strings.TrimSpace(req.Name), Description: req.Description}
	if err := h.repo.Create(c.Request.Context(), g); err != nil {
		if strings.Contains(err.Error(), "duplicate key") || strings.Contains(err.Error(), "unique") {
			response.Conflict(c, "A group with this name already exists")
			return
		}
		response.Internal(c, "failed to create group")
		return
	}
	response.Created(c, g)
}

// Update handles PATCH /organizations/:id/groups/:groupId.
func (h *Handler) Update(c *gin.Context) {
	orgID := c.MustGet(organizations.ContextOrganizationID).(uuid.UUID)
	g, ok := h.loadGroup(c, orgID)
	if !ok {
		return
	}
	var req GroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	g.Name = strings.TrimSpace(req.Name)
	g.Description = req.Description
	if err := h.repo.Update(c.Request.Context(), g); err != nil {
		response.Internal(c, "failed to update group")
		return
	}
	response.OK(c, g)
}

// Delete handles DELETE /organizations/:id/groups/:groupId.
func (h *Handler) Delete(c *gin.Context) {
	orgID := c.MustGet(organizations.ContextOrganizationID).(uuid.UUID)
	g, ok := h.loadGroup(c, orgID)
	if !ok {
		return
	}
	if err := h.repo.Delete(c.Request.Context(), g.ID); err != nil {
		response.Internal(c, "failed to delete group")
		return
	}
	response.NoContent(c)
}

// AddMember handles POST /organizations/:id/groups/:groupId/members/:memberId.
func (h *Handler) AddMember(c *gin.Context) {
	orgID := c.MustGet(organizations.ContextOrganizationID).(uuid.UUID)
	g, ok := h.loadGroup(c, orgID)
	if !ok {
		return
	}
	memberID, err := uuid.Parse(c.Param("memberId"))
	if err != nil {
		response.BadRequest(c, "invalid member id")
		return
	}
	if err := h.repo.AddMember(c.Request.Context(), g.ID, memberID); err != nil {
		response.Internal(c, "failed to add member to group")
		return
	}
	response.OK(c, gin.H{"group_id": g.ID, "member_id": memberID})
}

// RemoveMember handles DELETE /organizations/:id/groups/:groupId/members/:memberId.
func (h *Handler) RemoveMember(c *gin.Context) {
	orgID := c.MustGet(organizations.ContextOrganizationID).(uuid.UUID)
	g, ok := h.loadGroup(c, orgID)
	if !ok {
		return
	}
	memberID, err := uuid.Parse(c.Param("memberId"))
	if err != nil {
		response.BadRequest(c, "invalid member id")
		return
	}
	if err := h.repo.RemoveMember(c.Request.Context(), g.ID, memberID); err != nil {
		response.Internal(c, "failed to remove member from group")
		return
	}
	response.NoContent(c)
}

// ListForMember handles GET /organizations/:id/members/:memberId/groups.
func (h *Handler) ListForMember(c *gin.Context) {
	orgID := c.MustGet(organizations.ContextOrganizationID).(uuid.UUID)
	memberID, err := uuid.Parse(c.Param("memberId"))
	if err != nil {
		response.BadRequest(c, "invalid member id")
		return
	}
	list, err := h.repo.ListGroupsForMember(c.Request.Context(), memberID)
	if err != nil {
		response.Internal(c, "failed to load groups")
		return
	}
	// Cross-tenant member IDs yield an empty list rather than a probe result.
	filtered := make([]models.Group, 0, len(list))
	for _, g := range list {
		if g.OrganizationID == orgID {
			filtered = append(filtered, g)
		}
	}
	response.OK(c, filtered)
}

func (h *Handler) loadGroup(c *gin.Context, orgID uuid.UUID) (*models.Group, bool) {
	groupID, err := uuid.Parse(c.Param("groupId"))
	if err != nil {
		response.BadRequest(c, "invalid group id")
		return nil, false
	}
	g, err := h.repo.GetByID(c.Request.Context(), groupID)
	if err != nil || g == nil || g.OrganizationID != orgID {
		response.NotFound(c, "group not found")
		return nil, false
	}
	return g, true
}

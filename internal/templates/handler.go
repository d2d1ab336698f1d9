package templates

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dernekos/backend/internal/models"
	"github.com/dernekos/backend/internal/organizations"
	"github.com/dernekos/backend/pkg/response"
)

// Handler handles document template HTTP endpoints.
type Handler struct {
	repo *Repository
}

// NewHandler creates a templates handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

var validKinds = map[string]bool{"letter": true, "receipt": true, "roster": true}

// TemplateRequest is the body for create/update.
type TemplateRequest struct {
	Name     string `json:"name" binding:"required"`
	Kind     string `json:"kind" binding:"required"`
	BodyHTML string `json:"body_html" binding:"required"`
}

// List handles GET /organizations/:id/templates.
func (h *Handler) List(c *gin.Context) {
	orgID := c.MustGet(organizations.ContextOrganizationID).(uuid.UUID)
	list, err := h.repo.List(c.Request.Context(), orgID)
	if err != nil {
		response.Internal(c, "failed to load templates")
		return
	}
	response.OK(c, list)
}

// Create handles POST /organizations/:id/templates.
func (h *Handler) Create(c *gin.Context) {
	orgID := c.MustGet(organizations.ContextOrganizationID).(uuid.UUID)
	var req TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if !validKinds[req.Kind] {
		response.BadRequest(c, "kind must be letter, receipt or roster")
		return
	}
	t := &models.DocumentTemplate{
		OrganizationID: orgID,
		Name:           strings.TrimSpace(req.Name),
		Kind:           req.Kind,
		BodyHTML:       req.BodyHTML,
	}
	if err := h.repo.Create(c.Request.Context(), t); err != nil {
		response.Internal(c, "failed to create template")
		return
	}
	response.Created(c, t)
}

// Get handles GET /organizations/:id/templates/:templateId.
func (h *Handler) Get(c *gin.Context) {
	orgID := c.MustGet(organizations.ContextOrganizationID).(uuid.UUID)
	t, ok := h.loadTemplate(c, orgID)
	if !ok {
		return
	}
	response.OK(c, t)
}

// Update handles PUT /organizations/:id/templates/:templateId.
func (h *Handler) Update(c *gin.Context) {
	orgID := c.MustGet(organizations.ContextOrganizationID).(uuid.UUID)
	t, ok := h.loadTemplate(c, orgID)
	if !ok {
		return
	}
	var req TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if !validKinds[req.Kind] {
		response.BadRequest(c, "kind must be letter, receipt or roster")
		return
	}
	t.Name = strings.TrimSpace(req.Name)
	t.Kind = req.Kind
	t.BodyHTML = req.BodyHTML
	if err := h.repo.Update(c.Request.Context(), t); err != nil {
		response.Internal(c, "failed to update template")
		return
	}
	response.OK(c, t)
}

// Delete handles DELETE /organizations/:id/templates/:templateId.
func (h *Handler) Delete(c *gin.Context) {
	orgID := c.MustGet(organizations.ContextOrganizationID).(uuid.UUID)
	t, ok := h.loadTemplate(c, orgID)
	if !ok {
		return
	}
	if err := h.repo.Delete(c.Request.Context(), t.ID); err != nil {
		response.Internal(c, "failed to delete template")
		return
	}
	response.NoContent(c)
}

func (h *Handler) loadTemplate(c *gin.Context, orgID uuid.UUID) (*models.DocumentTemplate, bool) {
	templateID, err := uuid.Parse(c.Param("templateId"))
	if err != nil {
		response.BadRequest(c, "invalid template id")
		return nil, false
	}
	t, err := h.repo.GetByID(c.Request.Context(), templateID)
	if err != nil || t == nil || t.OrganizationID != orgID {
		response.NotFound(c, "template not found")
		return nil, false
	}
	return t, true
}

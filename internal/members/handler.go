package members

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/dernekos/backend/internal/boards"
	"github.com/dernekos/backend/internal/models"
	"github.com/dernekos/backend/internal/organizations"
	"github.com/dernekos/backend/pkg/response"
)

// Handler handles member HTTP endpoints. Title mutations run through the
// boards sync engine inside a single transaction so the denormalized
// title and the active-term roster never drift apart.
type Handler struct {
	pool      *pgxpool.Pool
	repo      *Repository
	boardRepo *boards.Repository
	logger    *zap.Logger
}

// NewHandler creates a members handler.
func NewHandler(pool *pgxpool.Pool, repo *Repository, boardRepo *boards.Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{pool: pool, repo: repo, boardRepo: boardRepo, logger: logger}
}

// List handles GET /organizations/:id/members.
func (h *Handler) List(c *gin.Context) {
	orgID := c.MustGet(organizations.ContextOrganizationID).(uuid.UUID)
	filter := ListFilter{
		Search: strings.TrimSpace(c.Query("search")),
		Title:  strings.TrimSpace(c.Query("title")),
	}
	if g := c.Query("group_id"); g != "" {
		groupID, err := uuid.Parse(g)
		if err != nil {
			response.BadRequest(c, "invalid group id")
			return
		}
		filter.GroupID = &groupID
	}
	list, err := h.repo.List(c.Request.Context(), orgID, filter)
	if err != nil {
		response.Internal(c, "failed to load members")
		return
	}
	response.OK(c, list)
}

// Get handles GET /organizations/:id/members/:memberId.
func (h *Handler) Get(c *gin.Context) {
	orgID := c.MustGet(organizations.ContextOrganizationID).(uuid.UUID)
	memberID, err := uuid.Parse(c.Param("memberId"))
	if err != nil {
		response.BadRequest(c, "invalid member id")
		return
	}
	m, err := h.repo.GetByID(c.Request.Context(), memberID)
	if err != nil || m == nil || m.OrganizationID != orgID {
		response.NotFound(c, "member not found")
		return
	}
	response.OK(c, m)
}

// CreateMemberRequest is the body for POST /organizations/:id/members.
type CreateMemberRequest struct {
	MemberNo  string     `json:"member_no" binding:"required"`
	FirstName string     `json:"first_name" binding:"required"`
	LastName  string     `json:"last_name" binding:"required"`
	Email     string     `json:"email,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	Title     string     `json:"title,omitempty"`
	JoinedAt  *time.Time `json:"joined_at,omitempty"`
}

// Create handles POST /organizations/:id/members. A supplied board title
// is checked for exclusivity and, when an active term exists, a matching
// seat is synthesized by the sync engine.
func (h *Handler) Create(c *gin.Context) {
	orgID := c.MustGet(organizations.ContextOrganizationID).(uuid.UUID)
	var req CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	title := parseTitle(req.Title)
	if conflicted := h.rejectTitleConflict(c, orgID, title, nil); conflicted {
		return
	}

	m := &models.Member{
		OrganizationID: orgID,
		MemberNo:       strings.TrimSpace(req.MemberNo),
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		Email:          strings.TrimSpace(req.Email),
		Phone:          strings.TrimSpace(req.Phone),
		Title:          title,
		JoinedAt:       req.JoinedAt,
	}
	err := h.inTx(ctx, func(repo *Repository, boardRepo *boards.Repository) error {
		if err := repo.Create(ctx, m); err != nil {
			return err
		}
		if title == nil {
			return nil
		}
		return boards.NewEngine(boardRepo).SyncTitleToBoard(ctx, m.ID, orgID, title)
	})
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") || strings.Contains(err.Error(), "unique") {
			response.Conflict(c, "A member with this number already exists")
			return
		}
		h.logger.Error("create member", zap.Error(err))
		response.Internal(c, "failed to create member")
		return
	}
	response.Created(c, m)
}

// UpdateMemberRequest is the body for PATCH /organizations/:id/members/:memberId.
// All fields optional; Title accepts "" to leave unchanged and "UYE" to clear.
type UpdateMemberRequest struct {
	MemberNo  *string    `json:"member_no,omitempty"`
	FirstName *string    `json:"first_name,omitempty"`
	LastName  *string    `json:"last_name,omitempty"`
	Email     *string    `json:"email,omitempty"`
	Phone     *string    `json:"phone,omitempty"`
	Title     *string    `json:"title,omitempty"`
	JoinedAt  *time.Time `json:"joined_at,omitempty"`
}

// Update handles PATCH /organizations/:id/members/:memberId.
func (h *Handler) Update(c *gin.Context) {
	orgID := c.MustGet(organizations.ContextOrganizationID).(uuid.UUID)
	memberID, err := uuid.Parse(c.Param("memberId"))
	if err != nil {
		response.BadRequest(c, "invalid member id")
		return
	}
	var req UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	m, err := h.repo.GetByID(ctx, memberID)
	if err != nil || m == nil || m.OrganizationID != orgID {
		response.NotFound(c, "member not found")
		return
	}

	if req.MemberNo != nil {
		m.MemberNo = strings.TrimSpace(*req.MemberNo)
	}
	if req.FirstName != nil {
		m.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		m.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		m.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		m.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.JoinedAt != nil {
		m.JoinedAt = req.JoinedAt
	}

	var newTitle *models.MemberTitle
	titleChanged := req.Title != nil && *req.Title != ""
	if titleChanged {
		newTitle = parseTitle(*req.Title)
		if conflicted := h.rejectTitleConflict(c, orgID, newTitle, &memberID); conflicted {
			return
		}
	}

	err = h.inTx(ctx, func(repo *Repository, boardRepo *boards.Repository) error {
		if err := repo.Update(ctx, m); err != nil {
			return err
		}
		if !titleChanged {
			return nil
		}
		if err := repo.UpdateTitle(ctx, memberID, newTitle); err != nil {
			return err
		}
		m.Title = newTitle
		return boards.NewEngine(boardRepo).SyncTitleToBoard(ctx, memberID, orgID, newTitle)
	})
	if err != nil {
		if errors.Is(err, boards.ErrMemberOrgMismatch) {
			response.BadRequest(c, err.Error())
			return
		}
		h.logger.Error("update member", zap.Error(err), zap.String("member_id", memberID.String()))
		response.Internal(c, "failed to update member")
		return
	}
	response.OK(c, m)
}

// Delete handles DELETE /organizations/:id/members/:memberId.
func (h *Handler) Delete(c *gin.Context) {
	orgID := c.MustGet(organizations.ContextOrganizationID).(uuid.UUID)
	memberID, err := uuid.Parse(c.Param("memberId"))
	if err != nil {
		response.BadRequest(c, "invalid member id")
		return
	}
	m, err := h.repo.GetByID(c.Request.Context(), memberID)
	if err != nil || m == nil || m.OrganizationID != orgID {
		response.NotFound(c, "member not found")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), memberID); err != nil {
		h.logger.Error("delete member", zap.Error(err), zap.String("member_id", memberID.String()))
		response.Internal(c, "failed to delete member")
		return
	}
	response.NoContent(c)
}

// rejectTitleConflict answers 409 and returns true when an exclusive title
// is already held by another member.
func (h *Handler) rejectTitleConflict(c *gin.Context, orgID uuid.UUID, title *models.MemberTitle, excludeMemberID *uuid.UUID) bool {
	res, err := boards.CheckTitleUniqueness(c.Request.Context(), h.boardRepo, orgID, title, excludeMemberID)
	if err != nil {
		response.Internal(c, "failed to check title")
		return true
	}
	if !res.IsUnique {
		response.ConflictData(c, "Bu statü dernekte zaten başka bir üyede", gin.H{"conflicting_member": res.ConflictingMember})
		return true
	}
	return false
}

// parseTitle maps the wire value to a title pointer; "" and "UYE" mean no
// board title.
func parseTitle(s string) *models.MemberTitle {
	s = strings.TrimSpace(s)
	if s == "" || s == string(models.TitleUye) {
		return nil
	}
	t := models.MemberTitle(s)
	return &t
}

func (h *Handler) inTx(ctx context.Context, fn func(repo *Repository, boardRepo *boards.Repository) error) error {
	tx, err := h.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)
	if err := fn(h.repo.WithTx(tx), h.boardRepo.WithTx(tx)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

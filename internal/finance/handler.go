package finance

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dernekos/backend/internal/members"
	"github.com/dernekos/backend/internal/models"
	"github.com/dernekos/backend/internal/organizations"
	"github.com/dernekos/backend/pkg/response"
)

// Handler handles dues/charges/payments HTTP endpoints.
type Handler struct {
	repo       *Repository
	memberRepo *members.Repository
	logger     *zap.Logger
}

// NewHandler creates a finance handler.
func NewHandler(repo *Repository, memberRepo *members.Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, memberRepo: memberRepo, logger: logger}
}

// DuePeriodRequest is the body for PUT /organizations/:id/due-periods.
type DuePeriodRequest struct {
	Year   int     `json:"year" binding:"required"`
	Amount float64 `json:"amount" binding:"required"`
}

// UpsertDuePeriod handles PUT /organizations/:id/due-periods.
func (h *Handler) UpsertDuePeriod(c *gin.Context) {
	orgID := c.MustGet(organizations.ContextOrganizationID).(uuid.UUID)
	var req DuePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	p := &models.DuePeriod{OrganizationID: orgID, Year: req.Year, Amount: req.Amount}
	if err := h.repo.UpsertDuePeriod(c.Request.Context(), p); err != nil {
		response.Internal(c, "failed to save due period")
		return
	}
	response.OK(c, p)
}

// ListDuePeriods handles GET /organizations/:id/due-periods.
func (h *Handler) ListDuePeriods(c *gin.Context) {
	orgID := c.MustGet(organizations.ContextOrganizationID).(uuid.UUID)
	list, err := h.repo.ListDuePeriods(c.Request.Context(), orgID)
	if err != nil {
		response.Internal(c, "failed to load due periods")
		return
	}
	response.OK(c, list)
}

// ChargeRequest is the body for POST /organizations/:id/members/:memberId/charges.
type ChargeRequest struct {
	Kind        string     `json:"kind" binding:"required"`
	Description string     `json:"description,omitempty"`
	Amount      float64    `json:"amount" binding:"required"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// CreateCharge handles POST /organizations/:id/members/:memberId/charges.
func (h *Handler) CreateCharge(c *gin.Context) {
	orgID := c.MustGet(organizations.ContextOrganizationID).(uuid.UUID)
	member, ok := h.loadMember(c, orgID)
	if !ok {
		return
	}
	var req ChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	kind := models.ChargeKind(req.Kind)
	switch kind {
	case models.ChargeDues, models.ChargeFee, models.ChargeOther:
	default:
		response.BadRequest(c, "kind must be DUES, FEE or OTHER")
		return
	}
	ch := &models.Charge{
		OrganizationID: orgID,
		MemberID:       member.ID,
		Kind:           kind,
		Description:    req.Description,
		Amount:         req.Amount,
		DueDate:        req.DueDate,
	}
	if err := h.repo.CreateCharge(c.Request.Context(), ch); err != nil {
		h.logger.Error("create charge", zap.Error(err))
		response.Internal(c, "failed to create charge")
		return
	}
	response.Created(c, ch)
}

// ListCharges handles GET /organizations/:id/members/:memberId/charges.
func (h *Handler) ListCharges(c *gin.Context) {
	orgID := c.MustGet(organizations.ContextOrganizationID).(uuid.UUID)
	member, ok := h.loadMember(c, orgID)
	if !ok {
		return
	}
	list, err := h.repo.ListChargesByMember(c.Request.Context(), member.ID)
	if err != nil {
		response.Internal(c, "failed to load charges")
		return
	}
	response.OK(c, list)
}

// PaymentRequest is the body for POST /charges/:chargeId/payments.
type PaymentRequest struct {
	Amount float64    `json:"amount" binding:"required"`
	Method string     `json:"method,omitempty"`
	PaidAt *time.Time `json:"paid_at,omitempty"`
}

// CreatePayment handles POST /organizations/:id/charges/:chargeId/payments.
func (h *Handler) CreatePayment(c *gin.Context) {
	orgID := c.MustGet(organizations.ContextOrganizationID).(uuid.UUID)
	chargeID, err := uuid.Parse(c.Param("chargeId"))
	if err != nil {
		response.BadRequest(c, "invalid charge id")
		return
	}
	ch, err := h.repo.GetCharge(c.Request.Context(), chargeID)
	if err != nil || ch == nil || ch.OrganizationID != orgID {
		response.NotFound(c, "charge not found")
		return
	}
	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	method := req.Method
	if method == "" {
		method = models.PaymentCash
	}
	paidAt := time.Now()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}
	p := &models.Payment{ChargeID: chargeID, Amount: req.Amount, Method: method, PaidAt: paidAt}
	if err := h.repo.CreatePayment(c.Request.Context(), p); err != nil {
		h.logger.Error("create payment", zap.Error(err))
		response.Internal(c, "failed to record payment")
		return
	}
	response.Created(c, p)
}

// GetBalance handles GET /organizations/:id/members/:memberId/balance.
func (h *Handler) GetBalance(c *gin.Context) {
	orgID := c.MustGet(organizations.ContextOrganizationID).(uuid.UUID)
	member, ok := h.loadMember(c, orgID)
	if !ok {
		return
	}
	b, err := h.repo.GetMemberBalance(c.Request.Context(), member.ID)
	if err != nil {
		response.Internal(c, "failed to compute balance")
		return
	}
	response.OK(c, b)
}

func (h *Handler) loadMember(c *gin.Context, orgID uuid.UUID) (*models.Member, bool) {
	memberID, err := uuid.Parse(c.Param("memberId"))
	if err != nil {
		response.BadRequest(c, "invalid member id")
		return nil, false
	}
	m, err := h.memberRepo.GetByID(c.Request.Context(), memberID)
	if err != nil || m == nil || m.OrganizationID != orgID {
		response.NotFound(c, "member not found")
		return nil, false
	}
	return m, true
}

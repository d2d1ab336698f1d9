package messaging

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/dernekos/backend/internal/models"
	"github.com/dernekos/backend/internal/organizations"
	"github.com/dernekos/backend/pkg/queue"
	"github.com/dernekos/backend/pkg/response"
)

// Handler handles campaign HTTP endpoints. Creating a campaign snapshots the
// recipient set as PENDING message logs and enqueues a dispatch job; the
// worker does the actual sending.
type Handler struct {
	pool   *pgxpool.Pool
	repo   *Repository
	queue  *queue.Queue
	logger *zap.Logger
}

// NewHandler creates a messaging handler.
func NewHandler(pool *pgxpool.Pool, repo *Repository, q *queue.Queue, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{pool: pool, repo: repo, queue: q, logger: logger}
}

// CreateCampaignRequest is the body for POST /organizations/:id/campaigns.
// Exactly one recipient selector applies: group_id, member_ids, or neither
// (all members with an address for the channel).
type CreateCampaignRequest struct {
	Channel   string      `json:"channel" binding:"required"`
	Subject   string      `json:"subject,omitempty"`
	Body      string      `json:"body" binding:"required"`
	GroupID   *uuid.UUID  `json:"group_id,omitempty"`
	MemberIDs []uuid.UUID `json:"member_ids,omitempty"`
}

// Create handles POST /organizations/:id/campaigns.
func (h *Handler) Create(c *gin.Context) {
	orgID := c.MustGet(organizations.ContextOrganizationID).(uuid.UUID)
	var req CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	channel := models.CampaignChannel(req.Channel)
	switch channel {
	case models.ChannelEmail, models.ChannelSMS:
	default:
		response.BadRequest(c, "channel must be EMAIL or SMS")
		return
	}
	if channel == models.ChannelEmail && req.Subject == "" {
		response.BadRequest(c, "subject is required for email campaigns")
		return
	}
	if req.GroupID != nil && len(req.MemberIDs) > 0 {
		response.BadRequest(c, "group_id and member_ids are mutually exclusive")
		return
	}

	recipients, err := h.repo.ListRecipients(c.Request.Context(), orgID, channel, req.GroupID, req.MemberIDs)
	if err != nil {
		h.logger.Error("resolve recipients", zap.Error(err))
		response.Internal(c, "failed to resolve recipients")
		return
	}
	if len(recipients) == 0 {
		response.BadRequest(c, "no recipients with a usable address for this channel")
		return
	}

	cp := &models.Campaign{
		OrganizationID: orgID,
		Channel:        channel,
		Subject:        req.Subject,
		Body:           req.Body,
		Status:         models.CampaignPending,
		TotalCount:     len(recipients),
	}
	err = h.inTx(c.Request.Context(), func(repo *Repository) error {
		if err := repo.CreateCampaign(c.Request.Context(), cp); err != nil {
			return err
		}
		for _, rec := range recipients {
			l := &models.MessageLog{
				CampaignID: cp.ID,
				MemberID:   rec.MemberID,
				Recipient:  rec.Address,
				Status:     models.MessagePending,
			}
			if err := repo.CreateLog(c.Request.Context(), l); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		h.logger.Error("create campaign", zap.Error(err))
		response.Internal(c, "failed to create campaign")
		return
	}

	if err := h.queue.EnqueueCampaignDispatch(c.Request.Context(), queue.CampaignDispatchPayload{
		CampaignID:     cp.ID,
		OrganizationID: orgID,
	}); err != nil {
		// Campaign stays PENDING; it can be re-enqueued manually.
		h.logger.Error("enqueue campaign", zap.Error(err), zap.String("campaign_id", cp.ID.String()))
	}
	response.Created(c, cp)
}

// List handles GET /organizations/:id/campaigns.
func (h *Handler) List(c *gin.Context) {
	orgID := c.MustGet(organizations.ContextOrganizationID).(uuid.UUID)
	list, err := h.repo.ListCampaigns(c.Request.Context(), orgID)
	if err != nil {
		response.Internal(c, "failed to load campaigns")
		return
	}
	response.OK(c, list)
}

// Get handles GET /organizations/:id/campaigns/:campaignId; includes the
// per-recipient message logs.
func (h *Handler) Get(c *gin.Context) {
	orgID := c.MustGet(organizations.ContextOrganizationID).(uuid.UUID)
	cp, ok := h.loadCampaign(c, orgID)
	if !ok {
		return
	}
	logs, err := h.repo.ListLogs(c.Request.Context(), cp.ID)
	if err != nil {
		response.Internal(c, "failed to load message logs")
		return
	}
	response.OK(c, gin.H{"campaign": cp, "logs": logs})
}

func (h *Handler) loadCampaign(c *gin.Context, orgID uuid.UUID) (*models.Campaign, bool) {
	campaignID, err := uuid.Parse(c.Param("campaignId"))
	if err != nil {
		response.BadRequest(c, "invalid campaign id")
		return nil, false
	}
	cp, err := h.repo.GetCampaign(c.Request.Context(), campaignID)
	if err != nil || cp == nil || cp.OrganizationID != orgID {
		response.NotFound(c, "campaign not found")
		return nil, false
	}
	return cp, true
}

func (h *Handler) inTx(ctx context.Context, fn func(repo *Repository) error) error {
	tx, err := h.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)
	if err := fn(h.repo.WithTx(tx)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

package boards

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/dernekos/backend/internal/models"
	"github.com/dernekos/backend/pkg/response"
)

// Handler handles board, term and roster HTTP endpoints. Every mutation
// runs validate → removal sync → write → title sync inside one pgx
// transaction, per the engine's contract.
type Handler struct {
	pool   *pgxpool.Pool
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a boards handler.
func NewHandler(pool *pgxpool.Pool, repo *Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{pool: pool, repo: repo, logger: logger}
}

// BoardView is a board with its terms for listings.
type BoardView struct {
	models.Board
	Terms []models.BoardTerm `json:"terms"`
}

// ListBoards handles GET /organizations/:id/boards. Returns both boards
// (creating missing ones on the fly) with their term history.
func (h *Handler) ListBoards(c *gin.Context) {
	orgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organization id")
		return
	}
	views := make([]BoardView, 0, 2)
	for _, bt := range []models.BoardType{models.BoardExecutive, models.BoardAudit} {
		board, err := h.repo.EnsureBoard(c.Request.Context(), orgID, bt)
		if err != nil {
			response.Internal(c, "failed to load boards")
			return
		}
		terms, err := h.repo.ListTerms(c.Request.Context(), board.ID)
		if err != nil {
			response.Internal(c, "failed to load terms")
			return
		}
		views = append(views, BoardView{Board: *board, Terms: terms})
	}
	response.OK(c, views)
}

// CreateTermRequest is the body for POST /organizations/:id/boards/:type/terms.
type CreateTermRequest struct {
	Name      string     `json:"name" binding:"required"`
	StartDate time.Time  `json:"start_date" binding:"required"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Activate  bool       `json:"activate,omitempty"`
}

// CreateTerm handles POST /organizations/:id/boards/:type/terms.
func (h *Handler) CreateTerm(c *gin.Context) {
	orgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organization id")
		return
	}
	boardType := models.BoardType(c.Param("type"))
	if boardType != models.BoardExecutive && boardType != models.BoardAudit {
		response.BadRequest(c, "board type must be EXECUTIVE or AUDIT")
		return
	}
	var req CreateTermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	term := &models.BoardTerm{Name: req.Name, StartDate: req.StartDate, EndDate: req.EndDate}
	err = h.inTx(ctx, func(repo *Repository) error {
		board, err := repo.EnsureBoard(ctx, orgID, boardType)
		if err != nil {
			return err
		}
		term.BoardID = board.ID
		if err := repo.CreateTerm(ctx, term); err != nil {
			return err
		}
		if req.Activate {
			if err := repo.ActivateTerm(ctx, term.ID, board.ID); err != nil {
				return err
			}
			term.IsActive = true
		}
		return nil
	})
	if err != nil {
		h.logger.Error("create term", zap.Error(err))
		response.Internal(c, "failed to create term")
		return
	}
	response.Created(c, term)
}

// TermView is a term with its roster.
type TermView struct {
	models.BoardTerm
	BoardType models.BoardType `json:"board_type"`
	Roster    []RosterRow      `json:"roster"`
}

// GetTerm handles GET /terms/:id.
func (h *Handler) GetTerm(c *gin.Context) {
	termID := c.MustGet(ContextTermID).(uuid.UUID)
	term, board, err := h.repo.GetTermWithBoard(c.Request.Context(), termID)
	if err != nil || term == nil {
		response.NotFound(c, "term not found")
		return
	}
	roster, err := h.repo.ListRoster(c.Request.Context(), termID)
	if err != nil {
		response.Internal(c, "failed to load roster")
		return
	}
	response.OK(c, TermView{BoardTerm: *term, BoardType: board.Type, Roster: roster})
}

// ActivateTerm handles PATCH /terms/:id/activate. Deactivates sibling
// terms, then re-derives member titles: every seat of the newly active
// term drives its member's title, and members seated only in the
// previously active term fall back (usually to UYE).
func (h *Handler) ActivateTerm(c *gin.Context) {
	termID := c.MustGet(ContextTermID).(uuid.UUID)
	boardID := c.MustGet(ContextBoardID).(uuid.UUID)
	orgID := c.MustGet(ContextOrganizationID).(uuid.UUID)

	ctx := c.Request.Context()
	err := h.inTx(ctx, func(repo *Repository) error {
		oldActive, err := repo.GetActiveTerm(ctx, boardID)
		if err != nil {
			return err
		}
		if err := repo.ActivateTerm(ctx, termID, boardID); err != nil {
			return err
		}

		engine := NewEngine(repo)
		newIDs, err := repo.ListRosterMemberIDs(ctx, termID)
		if err != nil {
			return err
		}
		inNew := make(map[uuid.UUID]bool, len(newIDs))
		for _, id := range newIDs {
			inNew[id] = true
		}
		roster, err := repo.ListRoster(ctx, termID)
		if err != nil {
			return err
		}
		for _, seat := range roster {
			if err := engine.SyncSeatToTitle(ctx, seat.MemberID, termID, orgID, seat.Role, seat.MemberType); err != nil {
				return err
			}
		}
		if oldActive != nil && oldActive.ID != termID {
			oldIDs, err := repo.ListRosterMemberIDs(ctx, oldActive.ID)
			if err != nil {
				return err
			}
			for _, memberID := range oldIDs {
				if inNew[memberID] {
					continue
				}
				if err := engine.SyncSeatRemoval(ctx, memberID, oldActive.ID, orgID); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		h.logger.Error("activate term", zap.Error(err), zap.String("term_id", termID.String()))
		response.Internal(c, "failed to activate term")
		return
	}
	response.OK(c, gin.H{"activated": termID})
}

// ReplaceRosterRequest is the body for PUT /terms/:id/members.
type ReplaceRosterRequest struct {
	Members []RosterEntry `json:"members" binding:"required"`
	// Force writes the roster even when composition validation reports
	// problems (e.g. while a board is still being formed).
	Force bool `json:"force,omitempty"`
}

// ReplaceRoster handles PUT /terms/:id/members: bulk-replaces a term's
// roster. Dropped members get a removal sync before their seats are
// deleted; new and updated seats sync their members' titles afterwards
// when the term is active.
func (h *Handler) ReplaceRoster(c *gin.Context) {
	termID := c.MustGet(ContextTermID).(uuid.UUID)
	orgID := c.MustGet(ContextOrganizationID).(uuid.UUID)

	var req ReplaceRosterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	_, board, err := h.repo.GetTermWithBoard(ctx, termID)
	if err != nil || board == nil {
		response.NotFound(c, "term not found")
		return
	}

	validationErrors := ValidateComposition(board.Type, req.Members)
	if len(validationErrors) > 0 && !req.Force {
		response.ConflictData(c, "board composition is invalid", gin.H{"validation_errors": validationErrors})
		return
	}

	err = h.inTx(ctx, func(repo *Repository) error {
		engine := NewEngine(repo)

		keep := make(map[uuid.UUID]bool, len(req.Members))
		for _, entry := range req.Members {
			keep[entry.MemberID] = true
		}
		currentIDs, err := repo.ListRosterMemberIDs(ctx, termID)
		if err != nil {
			return err
		}
		for _, memberID := range currentIDs {
			if keep[memberID] {
				continue
			}
			if err := engine.SyncSeatRemoval(ctx, memberID, termID, orgID); err != nil {
				return err
			}
			if err := repo.DeleteSeat(ctx, termID, memberID); err != nil {
				return err
			}
		}

		for i, entry := range req.Members {
			order := entry.Order
			if order == 0 {
				order = i + 1
			}
			if err := repo.UpsertSeatWithOrder(ctx, termID, entry.MemberID, entry.Role, entry.MemberType, order); err != nil {
				return err
			}
			if err := engine.SyncSeatToTitle(ctx, entry.MemberID, termID, orgID, entry.Role, entry.MemberType); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrMemberOrgMismatch) || errors.Is(err, ErrTermOrgMismatch) {
			response.BadRequest(c, err.Error())
			return
		}
		h.logger.Error("replace roster", zap.Error(err), zap.String("term_id", termID.String()))
		response.Internal(c, "failed to replace roster")
		return
	}

	roster, err := h.repo.ListRoster(ctx, termID)
	if err != nil {
		response.Internal(c, "failed to load roster")
		return
	}
	response.OK(c, gin.H{"roster": roster, "validation_errors": validationErrors})
}

// AddSeatRequest is the body for POST /terms/:id/members.
type AddSeatRequest struct {
	MemberID   uuid.UUID              `json:"member_id" binding:"required"`
	Role       models.BoardRole       `json:"role" binding:"required"`
	MemberType models.BoardMemberType `json:"member_type" binding:"required"`
	Order      int                    `json:"order,omitempty"`
}

// AddSeat handles POST /terms/:id/members: assigns or updates one seat.
func (h *Handler) AddSeat(c *gin.Context) {
	termID := c.MustGet(ContextTermID).(uuid.UUID)
	orgID := c.MustGet(ContextOrganizationID).(uuid.UUID)

	var req AddSeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	_, board, err := h.repo.GetTermWithBoard(ctx, termID)
	if err != nil || board == nil {
		response.NotFound(c, "term not found")
		return
	}

	check, err := ValidateRoleAssignment(ctx, h.repo, orgID, req.Role, req.MemberType, board.Type, termID, &req.MemberID)
	if err != nil {
		response.Internal(c, "failed to validate assignment")
		return
	}
	if !check.IsValid {
		response.ConflictData(c, check.Error, gin.H{"conflicting_member": check.ConflictingMember})
		return
	}

	err = h.inTx(ctx, func(repo *Repository) error {
		if req.Order > 0 {
			if err := repo.UpsertSeatWithOrder(ctx, termID, req.MemberID, req.Role, req.MemberType, req.Order); err != nil {
				return err
			}
		} else if err := repo.UpsertSeat(ctx, termID, req.MemberID, req.Role, req.MemberType); err != nil {
			return err
		}
		return NewEngine(repo).SyncSeatToTitle(ctx, req.MemberID, termID, orgID, req.Role, req.MemberType)
	})
	if err != nil {
		if errors.Is(err, ErrTermOrgMismatch) {
			response.BadRequest(c, err.Error())
			return
		}
		h.logger.Error("add seat", zap.Error(err), zap.String("term_id", termID.String()))
		response.Internal(c, "failed to assign seat")
		return
	}
	response.OK(c, gin.H{"member_id": req.MemberID, "term_id": termID})
}

// RemoveSeat handles DELETE /terms/:id/members/:memberId. The removal sync
// runs before the delete inside the same transaction so the member's other
// seats are read prior to the removal taking effect.
func (h *Handler) RemoveSeat(c *gin.Context) {
	termID := c.MustGet(ContextTermID).(uuid.UUID)
	orgID := c.MustGet(ContextOrganizationID).(uuid.UUID)
	memberID, err := uuid.Parse(c.Param("memberId"))
	if err != nil {
		response.BadRequest(c, "invalid member id")
		return
	}

	ctx := c.Request.Context()
	err = h.inTx(ctx, func(repo *Repository) error {
		if err := NewEngine(repo).SyncSeatRemoval(ctx, memberID, termID, orgID); err != nil {
			return err
		}
		return repo.DeleteSeat(ctx, termID, memberID)
	})
	if err != nil {
		h.logger.Error("remove seat", zap.Error(err), zap.String("term_id", termID.String()))
		response.Internal(c, "failed to remove board member")
		return
	}
	response.NoContent(c)
}

// inTx runs fn with a tx-bound repository, committing on nil error.
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

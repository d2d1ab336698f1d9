package boards

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/dernekos/backend/internal/models"
)

// Ownership violations are fatal: the caller must roll back the enclosing
// transaction and answer 4xx. Every other outcome (missing board, no
// active term) is an accepted partial state, not an error.
var (
	ErrMemberOrgMismatch = errors.New("member not found or organization mismatch")
	ErrTermOrgMismatch   = errors.New("term not found or organization mismatch")
)

// Engine reconciles the denormalized Member.Title with the active-term
// roster. It performs no concurrency control and never opens a
// transaction: construct it over a Store bound to the caller's pgx.Tx and
// invoke the entry points in the order validate → removal sync → mutate →
// title sync within that transaction. All entry points are idempotent.
type Engine struct {
	store Store
}

// NewEngine creates a sync engine over the given store.
func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// SyncTitleToBoard reflects a directly-assigned member title into the
// roster of the matching board's active term. Call it after writing
// Member.Title. Clearing the title (nil, UYE, or any non-board value)
// removes the member from every roster. If the target board has no active
// term the title is left "ahead of" the roster, which is acceptable.
func (e *Engine) SyncTitleToBoard(ctx context.Context, memberID, orgID uuid.UUID, newTitle *models.MemberTitle) error {
	member, err := e.store.GetMember(ctx, memberID)
	if err != nil {
		return err
	}
	if member == nil || member.OrganizationID != orgID {
		return ErrMemberOrgMismatch
	}

	boardType := BoardTypeForTitle(newTitle)
	if boardType == nil {
		return e.store.DeleteSeatsForMember(ctx, memberID)
	}

	board, err := e.store.GetBoardByType(ctx, orgID, *boardType)
	if err != nil {
		return err
	}
	if board == nil {
		return nil
	}
	term, err := e.store.GetActiveTerm(ctx, board.ID)
	if err != nil {
		return err
	}
	if term == nil {
		return nil
	}

	role := TitleToRole(newTitle)
	memberType := TitleToMemberType(newTitle)

	// A member holds seats on one board type at a time.
	if err := e.store.DeleteSeatsForMemberOnOtherBoards(ctx, memberID, *boardType); err != nil {
		return err
	}
	return e.store.UpsertSeat(ctx, term.ID, memberID, role, memberType)
}

// SyncSeatToTitle reflects a created or updated seat into Member.Title.
// Call it after writing the board_members row. Seats in inactive terms do
// not drive the title.
func (e *Engine) SyncSeatToTitle(ctx context.Context, memberID, termID, orgID uuid.UUID, role models.BoardRole, memberType models.BoardMemberType) error {
	term, board, err := e.store.GetTermWithBoard(ctx, termID)
	if err != nil {
		return err
	}
	if term == nil || board == nil || board.OrganizationID != orgID {
		return ErrTermOrgMismatch
	}
	if !term.IsActive {
		return nil
	}
	title := RoleToTitle(role, memberType, board.Type)
	return e.store.UpdateMemberTitle(ctx, memberID, &title)
}

// SyncSeatRemoval recomputes Member.Title before a seat is deleted from
// termID. It must run inside the same transaction as the delete and before
// it, so the member's remaining seats are read prior to the removal taking
// effect. A remaining active-term seat drives the new title (EXECUTIVE
// preferred over AUDIT when both exist); otherwise a board-derived title
// resets to UYE and anything else is left untouched. Missing member or
// organization mismatch is a no-op here, not an error.
func (e *Engine) SyncSeatRemoval(ctx context.Context, memberID, termID, orgID uuid.UUID) error {
	member, err := e.store.GetMember(ctx, memberID)
	if err != nil {
		return err
	}
	if member == nil || member.OrganizationID != orgID {
		return nil
	}

	seats, err := e.store.ListSeatsForMember(ctx, memberID)
	if err != nil {
		return err
	}
	var fallback *Seat
	for i := range seats {
		s := seats[i]
		if s.TermID == termID || !s.TermActive {
			continue
		}
		if fallback == nil || (fallback.BoardType != models.BoardExecutive && s.BoardType == models.BoardExecutive) {
			fallback = &seats[i]
		}
	}

	if fallback != nil {
		title := RoleToTitle(fallback.Role, fallback.MemberType, fallback.BoardType)
		return e.store.UpdateMemberTitle(ctx, memberID, &title)
	}

	if BoardTypeForTitle(member.Title) != nil {
		uye := models.TitleUye
		return e.store.UpdateMemberTitle(ctx, memberID, &uye)
	}
	return nil
}

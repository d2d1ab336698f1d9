package boards

import (
	"context"

	"github.com/google/uuid"

	"github.com/dernekos/backend/internal/models"
)

// Seat is a board_members row joined with its term and board, the view the
// sync engine works with.
type Seat struct {
	ID         uuid.UUID
	TermID     uuid.UUID
	MemberID   uuid.UUID
	Role       models.BoardRole
	MemberType models.BoardMemberType
	Order      int
	BoardID    uuid.UUID
	BoardType  models.BoardType
	TermActive bool
}

// ConflictingMember identifies the member already holding an exclusive
// title or role, returned with 409 responses.
type ConflictingMember struct {
	ID       uuid.UUID           `json:"id"`
	FullName string              `json:"full_name"`
	Title    *models.MemberTitle `json:"title,omitempty"`
}

// Store is the persistence collaborator of the sync engine. It never owns
// a transaction: callers construct a Store bound to an open pgx.Tx (or to
// the pool for read-only checks) and the engine's steps all run on that
// handle. Lookups return (nil, nil) when the entity does not exist.
type Store interface {
	GetMember(ctx context.Context, memberID uuid.UUID) (*models.Member, error)
	UpdateMemberTitle(ctx context.Context, memberID uuid.UUID, title *models.MemberTitle) error
	// FindMemberByTitle returns any member of the organization holding
	// exactly this title, excluding excludeMemberID when non-nil.
	FindMemberByTitle(ctx context.Context, orgID uuid.UUID, title models.MemberTitle, excludeMemberID *uuid.UUID) (*ConflictingMember, error)

	GetBoardByType(ctx context.Context, orgID uuid.UUID, boardType models.BoardType) (*models.Board, error)
	GetActiveTerm(ctx context.Context, boardID uuid.UUID) (*models.BoardTerm, error)
	// GetTermWithBoard loads a term together with its owning board.
	GetTermWithBoard(ctx context.Context, termID uuid.UUID) (*models.BoardTerm, *models.Board, error)

	// FindSeatByRole returns the holder of (role, memberType) in a term,
	// excluding excludeMemberID when non-nil.
	FindSeatByRole(ctx context.Context, termID uuid.UUID, role models.BoardRole, memberType models.BoardMemberType, excludeMemberID *uuid.UUID) (*ConflictingMember, error)
	ListSeatsForMember(ctx context.Context, memberID uuid.UUID) ([]Seat, error)
	UpsertSeat(ctx context.Context, termID, memberID uuid.UUID, role models.BoardRole, memberType models.BoardMemberType) error
	DeleteSeat(ctx context.Context, termID, memberID uuid.UUID) error
	DeleteSeatsForMember(ctx context.Context, memberID uuid.UUID) error
	// DeleteSeatsForMemberOnOtherBoards removes the member's seats on every
	// board except keep (a member actively sits on one board type at a time).
	DeleteSeatsForMemberOnOtherBoards(ctx context.Context, memberID uuid.UUID, keep models.BoardType) error
}

package boards

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dernekos/backend/internal/models"
	"github.com/dernekos/backend/pkg/database"
)

// Repository is the pgx-backed Store plus the board/term queries the HTTP
// layer needs. It runs on whatever DBTX it was built with; use WithTx to
// bind all operations of one mutation to a single transaction.
type Repository struct {
	db database.DBTX
}

// NewRepository creates a boards repository on the pool (or any DBTX).
func NewRepository(db database.DBTX) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *Repository) WithTx(tx pgx.Tx) *Repository {
	return &Repository{db: tx}
}

var _ Store = (*Repository)(nil)

// GetMember returns a member by ID, or (nil, nil) if absent.
func (r *Repository) GetMember(ctx context.Context, memberID uuid.UUID) (*models.Member, error) {
	const q = `SELECT id, organization_id, member_no, first_name, last_name,
		COALESCE(email,''), COALESCE(phone,''), title, joined_at, created_at, updated_at
		FROM members WHERE id = $1`
	var m models.Member
	var title *string
	err := r.db.QueryRow(ctx, q, memberID).Scan(&m.ID, &m.OrganizationID, &m.MemberNo,
		&m.FirstName, &m.LastName, &m.Email, &m.Phone, &title, &m.JoinedAt, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if title != nil {
		t := models.MemberTitle(*title)
		m.Title = &t
	}
	return &m, nil
}

// UpdateMemberTitle overwrites the denormalized title column.
func (r *Repository) UpdateMemberTitle(ctx context.Context, memberID uuid.UUID, title *models.MemberTitle) error {
	var v *string
	if title != nil {
		s := string(*title)
		v = &s
	}
	_, err := r.db.Exec(ctx, `UPDATE members SET title = $2, updated_at = NOW() WHERE id = $1`, memberID, v)
	return err
}

// FindMemberByTitle returns another member of the org holding exactly this title.
func (r *Repository) FindMemberByTitle(ctx context.Context, orgID uuid.UUID, title models.MemberTitle, excludeMemberID *uuid.UUID) (*ConflictingMember, error) {
	const q = `SELECT id, first_name || ' ' || last_name, title
		FROM members
		WHERE organization_id = $1 AND title = $2 AND ($3::uuid IS NULL OR id <> $3)
		LIMIT 1`
	var cm ConflictingMember
	var t *string
	err := r.db.QueryRow(ctx, q, orgID, string(title), excludeMemberID).Scan(&cm.ID, &cm.FullName, &t)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if t != nil {
		mt := models.MemberTitle(*t)
		cm.Title = &mt
	}
	return &cm, nil
}

// GetBoardByType returns the organization's board of the given type, or (nil, nil).
func (r *Repository) GetBoardByType(ctx context.Context, orgID uuid.UUID, boardType models.BoardType) (*models.Board, error) {
	const q = `SELECT id, organization_id, type, created_at FROM boards
		WHERE organization_id = $1 AND type = $2`
	var b models.Board
	err := r.db.QueryRow(ctx, q, orgID, string(boardType)).Scan(&b.ID, &b.OrganizationID, &b.Type, &b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// EnsureBoard returns the organization's board of the given type, creating it if absent.
func (r *Repository) EnsureBoard(ctx context.Context, orgID uuid.UUID, boardType models.BoardType) (*models.Board, error) {
	const q = `INSERT INTO boards (organization_id, type)
		VALUES ($1, $2)
		ON CONFLICT (organization_id, type) DO UPDATE SET type = EXCLUDED.type
		RETURNING id, organization_id, type, created_at`
	var b models.Board
	err := r.db.QueryRow(ctx, q, orgID, string(boardType)).Scan(&b.ID, &b.OrganizationID, &b.Type, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// GetActiveTerm returns the board's active term, or (nil, nil).
func (r *Repository) GetActiveTerm(ctx context.Context, boardID uuid.UUID) (*models.BoardTerm, error) {
	const q = `SELECT id, board_id, name, start_date, end_date, is_active, created_at, updated_at
		FROM board_terms WHERE board_id = $1 AND is_active`
	var t models.BoardTerm
	err := r.db.QueryRow(ctx, q, boardID).Scan(&t.ID, &t.BoardID, &t.Name, &t.StartDate, &t.EndDate, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetTermWithBoard loads a term together with its owning board, or (nil, nil, nil).
func (r *Repository) GetTermWithBoard(ctx context.Context, termID uuid.UUID) (*models.BoardTerm, *models.Board, error) {
	const q = `SELECT t.id, t.board_id, t.name, t.start_date, t.end_date, t.is_active, t.created_at, t.updated_at,
		b.id, b.organization_id, b.type, b.created_at
		FROM board_terms t
		INNER JOIN boards b ON b.id = t.board_id
		WHERE t.id = $1`
	var t models.BoardTerm
	var b models.Board
	err := r.db.QueryRow(ctx, q, termID).Scan(&t.ID, &t.BoardID, &t.Name, &t.StartDate, &t.EndDate, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
		&b.ID, &b.OrganizationID, &b.Type, &b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return &t, &b, nil
}

// FindSeatByRole returns the member holding (role, memberType) in the term.
func (r *Repository) FindSeatByRole(ctx context.Context, termID uuid.UUID, role models.BoardRole, memberType models.BoardMemberType, excludeMemberID *uuid.UUID) (*ConflictingMember, error) {
	const q = `SELECT m.id, m.first_name || ' ' || m.last_name, m.title
		FROM board_members bm
		INNER JOIN members m ON m.id = bm.member_id
		WHERE bm.term_id = $1 AND bm.role = $2 AND bm.member_type = $3
		  AND ($4::uuid IS NULL OR bm.member_id <> $4)
		LIMIT 1`
	var cm ConflictingMember
	var t *string
	err := r.db.QueryRow(ctx, q, termID, string(role), string(memberType), excludeMemberID).Scan(&cm.ID, &cm.FullName, &t)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if t != nil {
		mt := models.MemberTitle(*t)
		cm.Title = &mt
	}
	return &cm, nil
}

// ListSeatsForMember returns all of a member's seats joined with term and board.
func (r *Repository) ListSeatsForMember(ctx context.Context, memberID uuid.UUID) ([]Seat, error) {
	const q = `SELECT bm.id, bm.term_id, bm.member_id, bm.role, bm.member_type, bm.position,
		b.id, b.type, t.is_active
		FROM board_members bm
		INNER JOIN board_terms t ON t.id = bm.term_id
		INNER JOIN boards b ON b.id = t.board_id
		WHERE bm.member_id = $1
		ORDER BY b.type, bm.position`
	rows, err := r.db.Query(ctx, q, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var seats []Seat
	for rows.Next() {
		var s Seat
		if err := rows.Scan(&s.ID, &s.TermID, &s.MemberID, &s.Role, &s.MemberType, &s.Order,
			&s.BoardID, &s.BoardType, &s.TermActive); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	return seats, rows.Err()
}

// UpsertSeat inserts or updates the (member, term) seat, preserving the
// existing position on update and appending at the end on insert.
func (r *Repository) UpsertSeat(ctx context.Context, termID, memberID uuid.UUID, role models.BoardRole, memberType models.BoardMemberType) error {
	const q = `INSERT INTO board_members (term_id, member_id, role, member_type, position)
		VALUES ($1, $2, $3, $4, (SELECT COALESCE(MAX(position), 0) + 1 FROM board_members WHERE term_id = $1))
		ON CONFLICT (term_id, member_id)
		DO UPDATE SET role = EXCLUDED.role, member_type = EXCLUDED.member_type, updated_at = NOW()`
	_, err := r.db.Exec(ctx, q, termID, memberID, string(role), string(memberType))
	return err
}

// UpsertSeatWithOrder inserts or updates a seat with an explicit position.
func (r *Repository) UpsertSeatWithOrder(ctx context.Context, termID, memberID uuid.UUID, role models.BoardRole, memberType models.BoardMemberType, order int) error {
	const q = `INSERT INTO board_members (term_id, member_id, role, member_type, position)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (term_id, member_id)
		DO UPDATE SET role = EXCLUDED.role, member_type = EXCLUDED.member_type, position = EXCLUDED.position, updated_at = NOW()`
	_, err := r.db.Exec(ctx, q, termID, memberID, string(role), string(memberType), order)
	return err
}

// DeleteSeat removes one (member, term) seat.
func (r *Repository) DeleteSeat(ctx context.Context, termID, memberID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM board_members WHERE term_id = $1 AND member_id = $2`, termID, memberID)
	return err
}

// DeleteSeatsForMember removes all of a member's seats across every term.
func (r *Repository) DeleteSeatsForMember(ctx context.Context, memberID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM board_members WHERE member_id = $1`, memberID)
	return err
}

// DeleteSeatsForMemberOnOtherBoards removes the member's seats on boards of any other type.
func (r *Repository) DeleteSeatsForMemberOnOtherBoards(ctx context.Context, memberID uuid.UUID, keep models.BoardType) error {
	const q = `DELETE FROM board_members bm
		USING board_terms t, boards b
		WHERE bm.term_id = t.id AND t.board_id = b.id
		  AND bm.member_id = $1 AND b.type <> $2`
	_, err := r.db.Exec(ctx, q, memberID, string(keep))
	return err
}

// --- term & roster queries for the HTTP layer ---

// CreateTerm inserts a term for a board. New terms start inactive.
func (r *Repository) CreateTerm(ctx context.Context, term *models.BoardTerm) error {
	const q = `INSERT INTO board_terms (board_id, name, start_date, end_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_active, created_at, updated_at`
	return r.db.QueryRow(ctx, q, term.BoardID, term.Name, term.StartDate, term.EndDate).
		Scan(&term.ID, &term.IsActive, &term.CreatedAt, &term.UpdatedAt)
}

// ActivateTerm marks the term active and deactivates its siblings, keeping
// the at-most-one-active invariant. Runs as two statements; call inside a tx.
func (r *Repository) ActivateTerm(ctx context.Context, termID, boardID uuid.UUID) error {
	if _, err := r.db.Exec(ctx,
		`UPDATE board_terms SET is_active = FALSE, updated_at = NOW() WHERE board_id = $1 AND is_active AND id <> $2`,
		boardID, termID); err != nil {
		return err
	}
	_, err := r.db.Exec(ctx,
		`UPDATE board_terms SET is_active = TRUE, updated_at = NOW() WHERE id = $1`, termID)
	return err
}

// ListTerms returns a board's terms, newest first.
func (r *Repository) ListTerms(ctx context.Context, boardID uuid.UUID) ([]models.BoardTerm, error) {
	const q = `SELECT id, board_id, name, start_date, end_date, is_active, created_at, updated_at
		FROM board_terms WHERE board_id = $1 ORDER BY start_date DESC`
	rows, err := r.db.Query(ctx, q, boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var terms []models.BoardTerm
	for rows.Next() {
		var t models.BoardTerm
		if err := rows.Scan(&t.ID, &t.BoardID, &t.Name, &t.StartDate, &t.EndDate, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}
	return terms, rows.Err()
}

// RosterRow is a seat with member display fields for listings.
type RosterRow struct {
	ID         uuid.UUID              `json:"id"`
	MemberID   uuid.UUID              `json:"member_id"`
	FullName   string                 `json:"full_name"`
	Role       models.BoardRole       `json:"role"`
	MemberType models.BoardMemberType `json:"member_type"`
	Order      int                    `json:"order"`
}

// ListRoster returns a term's roster ordered by position.
func (r *Repository) ListRoster(ctx context.Context, termID uuid.UUID) ([]RosterRow, error) {
	const q = `SELECT bm.id, bm.member_id, m.first_name || ' ' || m.last_name, bm.role, bm.member_type, bm.position
		FROM board_members bm
		INNER JOIN members m ON m.id = bm.member_id
		WHERE bm.term_id = $1
		ORDER BY bm.position, bm.created_at`
	rows, err := r.db.Query(ctx, q, termID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var roster []RosterRow
	for rows.Next() {
		var row RosterRow
		if err := rows.Scan(&row.ID, &row.MemberID, &row.FullName, &row.Role, &row.MemberType, &row.Order); err != nil {
			return nil, err
		}
		roster = append(roster, row)
	}
	return roster, rows.Err()
}

// ListRosterMemberIDs returns the member IDs currently seated in a term.
func (r *Repository) ListRosterMemberIDs(ctx context.Context, termID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `SELECT member_id FROM board_members WHERE term_id = $1`, termID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

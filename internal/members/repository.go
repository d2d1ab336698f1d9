package members

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dernekos/backend/internal/models"
	"github.com/dernekos/backend/pkg/database"
)

// Repository handles member persistence.
type Repository struct {
	db database.DBTX
}

// NewRepository creates a members repository.
func NewRepository(db database.DBTX) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *Repository) WithTx(tx pgx.Tx) *Repository {
	return &Repository{db: tx}
}

const memberColumns = `id, organization_id, member_no, first_name, last_name,
	COALESCE(email,''), COALESCE(phone,''), title, joined_at, created_at, updated_at`

func scanMember(row pgx.Row) (*models.Member, error) {
	var m models.Member
	var title *string
	err := row.Scan(&m.ID, &m.OrganizationID, &m.MemberNo, &m.FirstName, &m.LastName,
		&m.Email, &m.Phone, &title, &m.JoinedAt, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if title != nil {
		t := models.MemberTitle(*title)
		m.Title = &t
	}
	return &m, nil
}

// GetByID returns a member by ID, or (nil, nil) if absent.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Member, error) {
	m, err := scanMember(r.db.QueryRow(ctx, `SELECT `+memberColumns+` FROM members WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return m, err
}

// ListFilter narrows List results.
type ListFilter struct {
	Search  string     // matches member_no, first or last name
	Title   string     // exact title match
	GroupID *uuid.UUID // members of a group
}

// List returns an organization's members ordered by member number.
func (r *Repository) List(ctx context.Context, orgID uuid.UUID, f ListFilter) ([]*models.Member, error) {
	const q = `SELECT DISTINCT m.id, m.organization_id, m.member_no, m.first_name, m.last_name,
		COALESCE(m.email,''), COALESCE(m.phone,''), m.title, m.joined_at, m.created_at, m.updated_at
		FROM members m
		LEFT JOIN member_groups mg ON mg.member_id = m.id
		WHERE m.organization_id = $1
		  AND ($2 = '' OR m.member_no ILIKE '%'||$2||'%' OR m.first_name ILIKE '%'||$2||'%' OR m.last_name ILIKE '%'||$2||'%')
		  AND ($3 = '' OR m.title = $3)
		  AND ($4::uuid IS NULL OR mg.group_id = $4)
		ORDER BY m.member_no`
	rows, err := r.db.Query(ctx, q, orgID, f.Search, f.Title, f.GroupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Member
	for rows.Next() {
		var m models.Member
		var title *string
		if err := rows.Scan(&m.ID, &m.OrganizationID, &m.MemberNo, &m.FirstName, &m.LastName,
			&m.Email, &m.Phone, &title, &m.JoinedAt, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		if title != nil {
			t := models.MemberTitle(*title)
			m.Title = &t
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// Create inserts a member. Title is stored as given; the caller is
// responsible for running the board sync afterwards in the same tx.
func (r *Repository) Create(ctx context.Context, m *models.Member) error {
	const q = `INSERT INTO members (organization_id, member_no, first_name, last_name, email, phone, title, joined_at)
		VALUES ($1, $2, $3, $4, NULLIF($5,''), NULLIF($6,''), $7, $8)
		RETURNING id, created_at, updated_at`
	var title *string
	if m.Title != nil {
		s := string(*m.Title)
		title = &s
	}
	return r.db.QueryRow(ctx, q, m.OrganizationID, m.MemberNo, m.FirstName, m.LastName,
		m.Email, m.Phone, title, m.JoinedAt).
		Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
}

// Update overwrites a member's editable fields (not the title — title
// changes go through UpdateTitle so the board sync always runs).
func (r *Repository) Update(ctx context.Context, m *models.Member) error {
	const q = `UPDATE members SET member_no = $2, first_name = $3, last_name = $4,
		email = NULLIF($5,''), phone = NULLIF($6,''), joined_at = $7, updated_at = NOW()
		WHERE id = $1`
	_, err := r.db.Exec(ctx, q, m.ID, m.MemberNo, m.FirstName, m.LastName, m.Email, m.Phone, m.JoinedAt)
	return err
}

// UpdateTitle overwrites the denormalized title column.
func (r *Repository) UpdateTitle(ctx context.Context, id uuid.UUID, title *models.MemberTitle) error {
	var v *string
	if title != nil {
		s := string(*title)
		v = &s
	}
	_, err := r.db.Exec(ctx, `UPDATE members SET title = $2, updated_at = NOW() WHERE id = $1`, id, v)
	return err
}

// Delete removes a member; board seats, group links, charges and message
// logs cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM members WHERE id = $1`, id)
	return err
}
